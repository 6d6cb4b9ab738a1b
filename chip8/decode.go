package chip8

import "fmt"

/// Kind identifies which operation an instruction performs.
///
type Kind uint8

const (
	Unknown Kind = iota
	Cls
	Ret
	Jp
	Call
	SeByte
	SneByte
	SeReg
	LdByte
	AddByte
	LdReg
	Or
	And
	Xor
	AddReg
	Sub
	Shr
	Subn
	Shl
	SneReg
	LdI
	JpV0
	Rnd
	Drw
	Skp
	Sknp
	LdVxDT
	LdVxK
	LdDTVx
	LdSTVx
	AddI
	LdF
	LdB
	LdIVx
	LdVxI

	// number of kinds, must stay last
	kindCount
)

/// Instruction is a decoded 16-bit opcode with all operand fields
/// extracted.
///
type Instruction struct {
	Kind Kind

	/// Raw is the undecoded opcode.
	///
	Raw uint16

	/// X and Y are register operands, N is the low nibble, NN the low
	/// byte and NNN the 12-bit address.
	///
	X, Y uint8
	N    uint8
	NN   byte
	NNN  uint16
}

/// Decode splits an opcode into its operands and identifies the
/// operation. Bit patterns that match nothing decode as Unknown.
///
func Decode(inst uint16) Instruction {
	i := Instruction{
		Raw: inst,
		X:   uint8(inst & 0x0F00 >> 8),
		Y:   uint8(inst & 0x00F0 >> 4),
		N:   uint8(inst & 0x000F),
		NN:  byte(inst & 0x00FF),
		NNN: inst & 0x0FFF,
	}

	i.Kind = decodeKind(inst, i.N, i.NN)
	return i
}

func decodeKind(inst uint16, n uint8, nn byte) Kind {
	switch inst >> 12 {
	case 0x0:
		switch inst {
		case 0x00E0:
			return Cls
		case 0x00EE:
			return Ret
		}
	case 0x1:
		return Jp
	case 0x2:
		return Call
	case 0x3:
		return SeByte
	case 0x4:
		return SneByte
	case 0x5:
		if n == 0 {
			return SeReg
		}
	case 0x6:
		return LdByte
	case 0x7:
		return AddByte
	case 0x8:
		switch n {
		case 0x0:
			return LdReg
		case 0x1:
			return Or
		case 0x2:
			return And
		case 0x3:
			return Xor
		case 0x4:
			return AddReg
		case 0x5:
			return Sub
		case 0x6:
			return Shr
		case 0x7:
			return Subn
		case 0xE:
			return Shl
		}
	case 0x9:
		if n == 0 {
			return SneReg
		}
	case 0xA:
		return LdI
	case 0xB:
		return JpV0
	case 0xC:
		return Rnd
	case 0xD:
		return Drw
	case 0xE:
		switch nn {
		case 0x9E:
			return Skp
		case 0xA1:
			return Sknp
		}
	case 0xF:
		switch nn {
		case 0x07:
			return LdVxDT
		case 0x0A:
			return LdVxK
		case 0x15:
			return LdDTVx
		case 0x18:
			return LdSTVx
		case 0x1E:
			return AddI
		case 0x29:
			return LdF
		case 0x33:
			return LdB
		case 0x55:
			return LdIVx
		case 0x65:
			return LdVxI
		}
	}

	return Unknown
}

/// String renders the instruction in assembler syntax, the same syntax
/// Assemble accepts.
///
func (i Instruction) String() string {
	switch i.Kind {
	case Cls:
		return "CLS"
	case Ret:
		return "RET"
	case Jp:
		return fmt.Sprintf("JP     #%03X", i.NNN)
	case Call:
		return fmt.Sprintf("CALL   #%03X", i.NNN)
	case SeByte:
		return fmt.Sprintf("SE     V%X, #%02X", i.X, i.NN)
	case SneByte:
		return fmt.Sprintf("SNE    V%X, #%02X", i.X, i.NN)
	case SeReg:
		return fmt.Sprintf("SE     V%X, V%X", i.X, i.Y)
	case LdByte:
		return fmt.Sprintf("LD     V%X, #%02X", i.X, i.NN)
	case AddByte:
		return fmt.Sprintf("ADD    V%X, #%02X", i.X, i.NN)
	case LdReg:
		return fmt.Sprintf("LD     V%X, V%X", i.X, i.Y)
	case Or:
		return fmt.Sprintf("OR     V%X, V%X", i.X, i.Y)
	case And:
		return fmt.Sprintf("AND    V%X, V%X", i.X, i.Y)
	case Xor:
		return fmt.Sprintf("XOR    V%X, V%X", i.X, i.Y)
	case AddReg:
		return fmt.Sprintf("ADD    V%X, V%X", i.X, i.Y)
	case Sub:
		return fmt.Sprintf("SUB    V%X, V%X", i.X, i.Y)
	case Shr:
		return fmt.Sprintf("SHR    V%X", i.X)
	case Subn:
		return fmt.Sprintf("SUBN   V%X, V%X", i.X, i.Y)
	case Shl:
		return fmt.Sprintf("SHL    V%X", i.X)
	case SneReg:
		return fmt.Sprintf("SNE    V%X, V%X", i.X, i.Y)
	case LdI:
		return fmt.Sprintf("LD     I, #%03X", i.NNN)
	case JpV0:
		return fmt.Sprintf("JP     V0, #%03X", i.NNN)
	case Rnd:
		return fmt.Sprintf("RND    V%X, #%02X", i.X, i.NN)
	case Drw:
		return fmt.Sprintf("DRW    V%X, V%X, %d", i.X, i.Y, i.N)
	case Skp:
		return fmt.Sprintf("SKP    V%X", i.X)
	case Sknp:
		return fmt.Sprintf("SKNP   V%X", i.X)
	case LdVxDT:
		return fmt.Sprintf("LD     V%X, DT", i.X)
	case LdVxK:
		return fmt.Sprintf("LD     V%X, K", i.X)
	case LdDTVx:
		return fmt.Sprintf("LD     DT, V%X", i.X)
	case LdSTVx:
		return fmt.Sprintf("LD     ST, V%X", i.X)
	case AddI:
		return fmt.Sprintf("ADD    I, V%X", i.X)
	case LdF:
		return fmt.Sprintf("LD     F, V%X", i.X)
	case LdB:
		return fmt.Sprintf("LD     B, V%X", i.X)
	case LdIVx:
		return fmt.Sprintf("LD     [I], V%X", i.X)
	case LdVxI:
		return fmt.Sprintf("LD     V%X, [I]", i.X)
	case Unknown, kindCount:
	}

	return "??"
}
