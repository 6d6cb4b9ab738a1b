package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/massung/chip8vm/chip8"
)

var (
	/// Highlight for the instruction at the program counter.
	///
	current = color.New(color.FgBlack, color.BgCyan)
)

/// DebugAssembly writes the disassembled instructions around the
/// CHIP-8 program counter, highlighting the current one.
///
func DebugAssembly(w io.Writer, vm *chip8.VM) {
	start := int(vm.PC) - 8
	if start < 0 {
		start = 0
	}

	for _, line := range vm.DisassembleRange(uint16(start), uint16(start+16)) {
		if line[:4] == fmt.Sprintf("%04X", vm.PC) {
			fmt.Fprintln(w, current.Sprint(line))
		} else {
			fmt.Fprintln(w, line)
		}
	}
}

/// DebugRegisters writes the value of all the CHIP-8 registers.
///
func DebugRegisters(w io.Writer, vm *chip8.VM) {
	right := []string{
		fmt.Sprintf("PC - #%04X", vm.PC),
		fmt.Sprintf("SP - #%02X", vm.SP),
		"",
		fmt.Sprintf("I  - #%04X", vm.I),
		"",
		fmt.Sprintf("DT - #%02X", vm.DT),
		fmt.Sprintf("ST - #%02X", vm.ST),
		"",
		fmt.Sprintf("Cycles - %d", vm.Cycles),
	}

	for i := 0; i < 16; i++ {
		line := fmt.Sprintf("  V%X - #%02X", i, vm.V[i])

		if i < len(right) && right[i] != "" {
			line = fmt.Sprintf("%-14s%s", line, right[i])
		}

		fmt.Fprintln(w, line)
	}
}
