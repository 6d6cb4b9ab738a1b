/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at ProgramStart.
	///
	ROM []byte

	/// Labels maps label names to literal addresses or EQU values.
	///
	Labels map[string]int

	// offsets of address operands waiting on a label
	unresolved map[int]string
}

/// assembler for a single mnemonic, given its operand tokens.
///
type assembleFunc func(a *Assembly, tokens []token) []byte

var mnemonics map[string]assembleFunc

func init() {
	mnemonics = map[string]assembleFunc{
		"CLS":   (*Assembly).assembleCLS,
		"RET":   (*Assembly).assembleRET,
		"JP":    (*Assembly).assembleJP,
		"CALL":  (*Assembly).assembleCALL,
		"SE":    (*Assembly).assembleSE,
		"SNE":   (*Assembly).assembleSNE,
		"SKP":   (*Assembly).assembleSKP,
		"SKNP":  (*Assembly).assembleSKNP,
		"LD":    (*Assembly).assembleLD,
		"ADD":   (*Assembly).assembleADD,
		"OR":    aluOp(0x1),
		"AND":   aluOp(0x2),
		"XOR":   aluOp(0x3),
		"SUB":   aluOp(0x5),
		"SUBN":  aluOp(0x7),
		"SHR":   shiftOp(0x6),
		"SHL":   shiftOp(0xE),
		"RND":   (*Assembly).assembleRND,
		"DRW":   (*Assembly).assembleDRW,
		"BYTE":  (*Assembly).assembleBYTE,
		"WORD":  (*Assembly).assembleWORD,
		"ALIGN": (*Assembly).assembleALIGN,
		"PAD":   (*Assembly).assemblePAD,
	}
}

/// Assemble CHIP-8 source code. Labels are written as .NAME at the
/// start of a line, instructions must be indented.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	out = &Assembly{
		ROM:        make([]byte, ProgramStart, MemorySize),
		Labels:     make(map[string]int),
		unresolved: make(map[int]string),
	}

	// syntax errors panic, turn them into an error with the line number
	defer func() {
		if r := recover(); r != nil {
			if line > 0 {
				err = fmt.Errorf("line %d - %v", line, r)
			} else {
				err = fmt.Errorf("%v", r)
			}

			out = nil
		}
	}()

	scanner := bufio.NewScanner(bytes.NewReader(bytes.ToUpper(program)))

	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})

		if len(out.ROM) > MemorySize {
			panic("program too large to fit in memory")
		}
	}

	if scanErr := scanner.Err(); scanErr != nil {
		panic(scanErr)
	}

	line = 0
	out.resolve()

	// drop the reserved bytes below the program
	out.ROM = out.ROM[ProgramStart:]
	return out, nil
}

/// Patch every forward label reference. Addresses are always 12-bit, so
/// only the low nibble of the first byte and the second byte change.
///
func (a *Assembly) resolve() {
	offsets := make([]int, 0, len(a.unresolved))
	for offset := range a.unresolved {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)

	for _, offset := range offsets {
		label := a.unresolved[offset]

		address, ok := a.Labels[label]
		if !ok {
			panic(fmt.Errorf("unresolved label: %s", label))
		}
		if address < 0 || address > addressMask {
			panic(fmt.Errorf("label %s is not an address", label))
		}

		a.ROM[offset] = byte(address>>8) | a.ROM[offset]&0xF0
		a.ROM[offset+1] = byte(address)
	}
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	if t.typ == tokenLabel {
		t = a.assembleLabel(t.val.(string), s)
	}

	switch t.typ {
	case tokenInstruction:
		tokens := s.scanOperands()
		a.ROM = append(a.ROM, mnemonics[t.val.(string)](a, tokens)...)
	case tokenEnd:
	default:
		panic("unexpected token")
	}
}

/// Define a label at the current address, or as a constant with EQU.
///
func (a *Assembly) assembleLabel(label string, s *tokenScanner) token {
	if _, exists := a.Labels[label]; exists {
		panic(fmt.Errorf("duplicate label: %s", label))
	}

	// by default, the label is assigned the current address
	a.Labels[label] = len(a.ROM)

	t := s.scanToken()
	if t.typ != tokenEqu {
		return t
	}

	if v := s.scanToken(); v.typ == tokenLit {
		a.Labels[label] = v.val.(int)

		if t = s.scanToken(); t.typ == tokenEnd {
			return t
		}
	}

	panic("illegal label assignment")
}

/// Expand a label reference into a literal. Unknown labels are recorded
/// and assembled as #200 until resolved.
///
func (a *Assembly) assembleOperand(t token) token {
	if t.typ != tokenRef {
		return t
	}

	label := t.val.(string)
	if v, exists := a.Labels[label]; exists {
		return token{typ: tokenLit, val: v}
	}

	a.unresolved[len(a.ROM)] = label
	return token{typ: tokenLit, val: ProgramStart}
}

/// Match the operand tokens against the wanted token types.
///
func (a *Assembly) assembleOperands(tokens []token, m ...tokenType) ([]int, bool) {
	if len(tokens) != len(m) {
		return nil, false
	}

	ops := make([]int, len(m))
	pending := len(a.unresolved)

	for i, typ := range m {
		t := a.assembleOperand(tokens[i])

		if t.typ != typ {
			// a failed match must not leave a forward reference behind
			if len(a.unresolved) != pending {
				delete(a.unresolved, len(a.ROM))
			}

			return nil, false
		}

		if v, ok := t.val.(int); ok {
			ops[i] = v
		}
	}

	return ops, true
}

/// Encode an instruction with a 12-bit address operand.
///
func address(op byte, n int) []byte {
	if n < 0 || n > addressMask {
		panic("illegal address")
	}

	return []byte{op<<4 | byte(n>>8), byte(n)}
}

/// Encode an instruction with a register and byte operand.
///
func registerByte(op byte, x, b int) []byte {
	if b < 0 || b > 0xFF {
		panic("illegal byte")
	}

	return []byte{op<<4 | byte(x), byte(b)}
}

/// Encode an instruction with two register operands.
///
func registerPair(op byte, x, y int, n byte) []byte {
	return []byte{op<<4 | byte(x), byte(y<<4) | n}
}

func (a *Assembly) assembleCLS(tokens []token) []byte {
	if len(tokens) == 0 {
		return []byte{0x00, 0xE0}
	}

	panic("illegal instruction")
}

func (a *Assembly) assembleRET(tokens []token) []byte {
	if len(tokens) == 0 {
		return []byte{0x00, 0xEE}
	}

	panic("illegal instruction")
}

/// Assemble a JP instruction, either JP NNN or JP V0, NNN.
///
func (a *Assembly) assembleJP(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		return address(0x1, ops[0])
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok && ops[0] == 0 {
		return address(0xB, ops[1])
	}

	panic("illegal instruction")
}

func (a *Assembly) assembleCALL(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		return address(0x2, ops[0])
	}

	panic("illegal instruction")
}

func (a *Assembly) assembleSE(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return registerByte(0x3, ops[0], ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return registerPair(0x5, ops[0], ops[1], 0x0)
	}

	panic("illegal instruction")
}

func (a *Assembly) assembleSNE(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return registerByte(0x4, ops[0], ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return registerPair(0x9, ops[0], ops[1], 0x0)
	}

	panic("illegal instruction")
}

func (a *Assembly) assembleSKP(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV); ok {
		return registerByte(0xE, ops[0], 0x9E)
	}

	panic("illegal instruction")
}

func (a *Assembly) assembleSKNP(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV); ok {
		return registerByte(0xE, ops[0], 0xA1)
	}

	panic("illegal instruction")
}

/// Assemble one of the 8XYN register to register instructions.
///
func aluOp(n byte) assembleFunc {
	return func(a *Assembly, tokens []token) []byte {
		if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
			return registerPair(0x8, ops[0], ops[1], n)
		}

		panic("illegal instruction")
	}
}

/// Assemble SHR or SHL, which only take vx.
///
func shiftOp(n byte) assembleFunc {
	return func(a *Assembly, tokens []token) []byte {
		if ops, ok := a.assembleOperands(tokens, tokenV); ok {
			return registerPair(0x8, ops[0], ops[0], n)
		}

		panic("illegal instruction")
	}
}

/// Assemble an ADD instruction: ADD Vx, NN; ADD Vx, Vy; ADD I, Vx.
///
func (a *Assembly) assembleADD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return registerByte(0x7, ops[0], ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return registerPair(0x8, ops[0], ops[1], 0x4)
	}

	if ops, ok := a.assembleOperands(tokens, tokenI, tokenV); ok {
		return registerByte(0xF, ops[1], 0x1E)
	}

	panic("illegal instruction")
}

func (a *Assembly) assembleRND(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return registerByte(0xC, ops[0], ops[1])
	}

	panic("illegal instruction")
}

func (a *Assembly) assembleDRW(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV, tokenLit); ok && ops[2] >= 0 && ops[2] < 0x10 {
		return registerPair(0xD, ops[0], ops[1], byte(ops[2]))
	}

	panic("illegal instruction")
}

/// Assemble a LD instruction, which has the most operand forms.
///
func (a *Assembly) assembleLD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenV, tokenLit); ok {
		return registerByte(0x6, ops[0], ops[1])
	}

	if ops, ok := a.assembleOperands(tokens, tokenV, tokenV); ok {
		return registerPair(0x8, ops[0], ops[1], 0x0)
	}

	if ops, ok := a.assembleOperands(tokens, tokenI, tokenLit); ok {
		return address(0xA, ops[1])
	}

	// Fx instructions selected by their low byte
	forms := []struct {
		dst, src tokenType
		x        int
		nn       int
	}{
		{tokenV, tokenDT, 0, 0x07},
		{tokenV, tokenK, 0, 0x0A},
		{tokenDT, tokenV, 1, 0x15},
		{tokenST, tokenV, 1, 0x18},
		{tokenF, tokenV, 1, 0x29},
		{tokenB, tokenV, 1, 0x33},
		{tokenIndirect, tokenV, 1, 0x55},
		{tokenV, tokenIndirect, 0, 0x65},
	}

	for _, f := range forms {
		if ops, ok := a.assembleOperands(tokens, f.dst, f.src); ok {
			return registerByte(0xF, ops[f.x], f.nn)
		}
	}

	panic("illegal instruction")
}

/// Assemble raw bytes, literals or strings.
///
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		op := a.assembleOperand(t)

		switch op.typ {
		case tokenLit:
			if n := op.val.(int); n < 0 || n > 0xFF {
				panic("invalid byte")
			}

			b = append(b, byte(op.val.(int)))
		case tokenText:
			b = append(b, op.val.(string)...)
		default:
			panic("invalid byte")
		}
	}

	return b
}

/// Assemble 16-bit big-endian words.
///
func (a *Assembly) assembleWORD(tokens []token) []byte {
	b := make([]byte, 0, len(tokens)*2)

	for _, t := range tokens {
		if t.typ == tokenRef {
			if _, ok := a.Labels[t.val.(string)]; !ok {
				a.unresolved[len(a.ROM)+len(b)] = t.val.(string)
				b = append(b, 0x02, 0x00)
				continue
			}
		}

		op := a.assembleOperand(t)
		if op.typ != tokenLit || op.val.(int) < 0 || op.val.(int) > 0xFFFF {
			panic("invalid word")
		}

		n := op.val.(int)
		b = append(b, byte(n>>8), byte(n))
	}

	return b
}

/// Pad with zeroes up to a power of two boundary.
///
func (a *Assembly) assembleALIGN(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		n := ops[0]

		if n > 0 && n&(n-1) == 0 {
			return make([]byte, (n-len(a.ROM)&(n-1))&(n-1))
		}
	}

	panic("illegal alignment")
}

/// Reserve n zero bytes.
///
func (a *Assembly) assemblePAD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, tokenLit); ok {
		n := ops[0]

		if n >= 0 && n <= MemorySize-len(a.ROM) {
			return make([]byte, n)
		}
	}

	panic("illegal size")
}
