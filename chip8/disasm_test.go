package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisassemble(t *testing.T) {
	vm := newTestVM(t, 0x60, 0x0A, 0xD0, 0x15, 0x00, 0x00, 0x51, 0x23)

	assert.Equal(t, "0200 - LD     V0, #0A", vm.Disassemble(0x200))
	assert.Equal(t, "0202 - DRW    V0, V1, 5", vm.Disassemble(0x202))
	assert.Equal(t, "0204 -", vm.Disassemble(0x204))
	assert.Equal(t, "0206 - ??", vm.Disassemble(0x206))

	// the last byte of memory cannot hold an instruction
	assert.Equal(t, "", vm.Disassemble(0xFFF))
}

func TestDisassembleRange(t *testing.T) {
	vm := newTestVM(t, 0x00, 0xE0, 0x12, 0x00)

	lines := vm.DisassembleRange(0x200, 0x204)
	assert.Equal(t, []string{"0200 - CLS", "0202 - JP     #200"}, lines)

	// stops before running off the end of memory
	lines = vm.DisassembleRange(0xFFC, 0xFFFF)
	assert.Equal(t, 2, len(lines))

	assert.Equal(t, 0, len(vm.DisassembleRange(0x204, 0x200)))
}
