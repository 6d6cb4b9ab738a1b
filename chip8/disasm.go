package chip8

import "fmt"

/// Disassemble the CHIP-8 instruction stored at an address.
///
func (vm *VM) Disassemble(address uint16) string {
	if int(address) >= len(vm.Memory)-1 {
		return ""
	}

	// fetch the instruction at this location
	inst := uint16(vm.Memory[address])<<8 | uint16(vm.Memory[address+1])

	// end of program memory?
	if inst == 0 {
		return fmt.Sprintf("%04X -", address)
	}

	return fmt.Sprintf("%04X - %s", address, Decode(inst))
}

/// DisassembleRange returns one line per instruction word from start up
/// to, but not including, end.
///
func (vm *VM) DisassembleRange(start, end uint16) []string {
	var lines []string

	for a := start; a < end && int(a) < len(vm.Memory)-1; a += 2 {
		lines = append(lines, vm.Disassemble(a))
	}

	return lines
}
