package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

/// Step the CHIP-8 virtual machine a single instruction. The program
/// counter is advanced by the instruction itself. If the instruction
/// cannot complete a *Fault is returned and the program counter still
/// points at it.
///
func (vm *VM) Step() error {
	pc := vm.PC

	// both bytes of the opcode must be addressable
	if int(pc)+1 >= MemorySize {
		return &Fault{PC: pc, Inst: vm.Inst, Err: ErrAddressOutOfRange}
	}

	// fetch the next instruction, big-endian
	vm.Inst = uint16(vm.Memory[pc])<<8 | uint16(vm.Memory[pc+1])

	inst := Decode(vm.Inst)
	if err := vm.execute(inst); err != nil {
		return &Fault{PC: pc, Inst: vm.Inst, Err: err}
	}

	// increment the cycle count
	vm.Cycles++

	if vm.logger != nil {
		vm.logger.Debug("Executed instruction",
			log.Hex("pc", pc),
			log.Hex("opcode", vm.Inst),
			log.String("instruction", inst.String()))
	}

	return nil
}

/// Dispatch a decoded instruction to its handler.
///
func (vm *VM) execute(i Instruction) error {
	switch i.Kind {
	case Cls:
		vm.cls()
	case Ret:
		return vm.ret()
	case Jp:
		vm.jump(i.NNN)
	case Call:
		return vm.call(i.NNN)
	case SeByte:
		vm.skipIf(vm.V[i.X] == i.NN)
	case SneByte:
		vm.skipIf(vm.V[i.X] != i.NN)
	case SeReg:
		vm.skipIf(vm.V[i.X] == vm.V[i.Y])
	case SneReg:
		vm.skipIf(vm.V[i.X] != vm.V[i.Y])
	case LdByte:
		vm.loadX(i.X, i.NN)
	case AddByte:
		vm.addX(i.X, i.NN)
	case LdReg:
		vm.loadX(i.X, vm.V[i.Y])
	case Or:
		vm.or(i.X, i.Y)
	case And:
		vm.and(i.X, i.Y)
	case Xor:
		vm.xor(i.X, i.Y)
	case AddReg:
		vm.addXY(i.X, i.Y)
	case Sub:
		vm.subXY(i.X, i.Y)
	case Shr:
		vm.shr(i.X)
	case Subn:
		vm.subYX(i.X, i.Y)
	case Shl:
		vm.shl(i.X)
	case LdI:
		vm.loadI(i.NNN)
	case JpV0:
		vm.jump(i.NNN + uint16(vm.V[0]))
	case Rnd:
		vm.rnd(i.X, i.NN)
	case Drw:
		return vm.drw(i.X, i.Y, i.N)
	case Skp:
		vm.skipIf(vm.pressed(i.X))
	case Sknp:
		vm.skipIf(!vm.pressed(i.X))
	case LdVxDT:
		vm.loadX(i.X, vm.DT)
	case LdVxK:
		vm.loadXK(i.X)
	case LdDTVx:
		vm.DT = vm.V[i.X]
		vm.next()
	case LdSTVx:
		vm.ST = vm.V[i.X]
		vm.next()
	case AddI:
		return vm.addIX(i.X)
	case LdF:
		vm.loadI(uint16(vm.V[i.X]) * 5)
	case LdB:
		return vm.loadB(i.X)
	case LdIVx:
		return vm.saveRegs(i.X)
	case LdVxI:
		return vm.loadRegs(i.X)
	case Unknown, kindCount:
		return ErrUnknownOpcode
	default:
		return ErrUnknownOpcode
	}

	return nil
}

/// advance the program counter past the current instruction.
///
func (vm *VM) next() {
	vm.PC = (vm.PC + 2) & addressMask
}

/// skip the next instruction if the condition holds.
///
func (vm *VM) skipIf(cond bool) {
	if cond {
		vm.PC = (vm.PC + 4) & addressMask
	} else {
		vm.next()
	}
}

/// Clear the video display memory.
///
func (vm *VM) cls() {
	for i := range vm.Video {
		vm.Video[i] = 0
	}

	vm.dirty = true
	vm.next()
}

/// return from subroutine.
///
func (vm *VM) ret() error {
	if vm.SP == 0 {
		return ErrStackUnderflow
	}

	vm.SP--
	vm.PC = vm.Stack[vm.SP]

	return nil
}

/// jump to address.
///
func (vm *VM) jump(address uint16) {
	vm.PC = address & addressMask
}

/// call a subroutine at address, the return address is the instruction
/// following the call.
///
func (vm *VM) call(address uint16) error {
	if vm.SP >= StackDepth {
		return ErrStackOverflow
	}

	vm.Stack[vm.SP] = (vm.PC + 2) & addressMask
	vm.SP++

	vm.jump(address)
	return nil
}

/// load b into vx.
///
func (vm *VM) loadX(x uint8, b byte) {
	vm.V[x] = b
	vm.next()
}

/// add b to vx, no carry.
///
func (vm *VM) addX(x uint8, b byte) {
	vm.V[x] += b
	vm.next()
}

/// or vx with vy into vx.
///
func (vm *VM) or(x, y uint8) {
	vm.V[x] |= vm.V[y]
	vm.next()
}

/// and vx with vy into vx.
///
func (vm *VM) and(x, y uint8) {
	vm.V[x] &= vm.V[y]
	vm.next()
}

/// xor vx with vy into vx.
///
func (vm *VM) xor(x, y uint8) {
	vm.V[x] ^= vm.V[y]
	vm.next()
}

/// add vy to vx and set carry.
///
func (vm *VM) addXY(x, y uint8) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[0xF] = flag(sum > 0xFF)
	vm.V[x] = byte(sum)
	vm.next()
}

/// subtract vy from vx, set carry if vx is strictly greater.
///
func (vm *VM) subXY(x, y uint8) {
	vx, vy := vm.V[x], vm.V[y]

	vm.V[0xF] = flag(vx > vy)
	vm.V[x] = vx - vy
	vm.next()
}

/// subtract vx from vy and store in vx, set carry if vy is strictly
/// greater.
///
func (vm *VM) subYX(x, y uint8) {
	vx, vy := vm.V[x], vm.V[y]

	vm.V[0xF] = flag(vy > vx)
	vm.V[x] = vy - vx
	vm.next()
}

/// shr vx 1 bit, set carry to LSB of vx before shift.
///
func (vm *VM) shr(x uint8) {
	vx := vm.V[x]

	vm.V[0xF] = vx & 1
	vm.V[x] = vx >> 1
	vm.next()
}

/// shl vx 1 bit, set carry to MSB of vx before shift.
///
func (vm *VM) shl(x uint8) {
	vx := vm.V[x]

	vm.V[0xF] = vx >> 7 & 1
	vm.V[x] = vx << 1
	vm.next()
}

/// load address register.
///
func (vm *VM) loadI(address uint16) {
	vm.I = address & addressMask
	vm.next()
}

/// add vx to the address register.
///
func (vm *VM) addIX(x uint8) error {
	address := uint(vm.I) + uint(vm.V[x])
	if address > addressMask {
		return ErrAddressOutOfRange
	}

	vm.I = uint16(address)
	vm.next()
	return nil
}

/// load a random number & b into vx.
///
func (vm *VM) rnd(x uint8, b byte) {
	vm.V[x] = byte(vm.rng.Intn(0x100)) & b
	vm.next()
}

/// draw an n row sprite at I to video memory at vx, vy. Pixels wrap
/// around both edges of the screen.
///
func (vm *VM) drw(x, y, n uint8) error {
	if int(vm.I)+int(n) > MemorySize {
		return ErrAddressOutOfRange
	}

	ox := int(vm.V[x])
	oy := int(vm.V[y])
	c := byte(0)

	for row, s := range vm.Memory[vm.I : vm.I+uint16(n)] {
		py := (oy + row) % ScreenHeight

		for col := 0; col < 8; col++ {
			if s&(0x80>>col) == 0 {
				continue
			}

			p := py*ScreenWidth + (ox+col)%ScreenWidth

			// was a lit pixel turned off?
			c |= vm.Video[p]
			vm.Video[p] ^= 1
		}
	}

	// set carry flag if any collision occurred
	vm.V[0xF] = c
	vm.dirty = true
	vm.next()
	return nil
}

/// true if the key numbered by vx is down. Only the low nibble of vx
/// selects the key.
///
func (vm *VM) pressed(x uint8) bool {
	return vm.Keys[vm.V[x]&0xF]
}

/// load vx with the lowest pressed key. With no key down the program
/// counter is left alone so the instruction runs again next step.
///
func (vm *VM) loadXK(x uint8) {
	for k, down := range vm.Keys {
		if down {
			vm.loadX(x, byte(k))
			return
		}
	}
}

/// load address with BCD of vx.
///
func (vm *VM) loadB(x uint8) error {
	if int(vm.I)+2 >= MemorySize {
		return ErrAddressOutOfRange
	}

	n := vm.V[x]

	// hundreds, tens, ones
	vm.Memory[vm.I+0] = n / 100
	vm.Memory[vm.I+1] = n / 10 % 10
	vm.Memory[vm.I+2] = n % 10

	vm.next()
	return nil
}

/// save registers v0..vx to I, then advance I past them.
///
func (vm *VM) saveRegs(x uint8) error {
	if int(vm.I)+int(x) >= MemorySize {
		return ErrAddressOutOfRange
	}

	copy(vm.Memory[vm.I:], vm.V[:x+1])

	vm.I = (vm.I + uint16(x) + 1) & addressMask
	vm.next()
	return nil
}

/// load registers v0..vx from I, then advance I past them.
///
func (vm *VM) loadRegs(x uint8) error {
	if int(vm.I)+int(x) >= MemorySize {
		return ErrAddressOutOfRange
	}

	copy(vm.V[:x+1], vm.Memory[vm.I:])

	vm.I = (vm.I + uint16(x) + 1) & addressMask
	vm.next()
	return nil
}

/// flag converts a condition to a VF value.
///
func flag(b bool) byte {
	if b {
		return 1
	}

	return 0
}
