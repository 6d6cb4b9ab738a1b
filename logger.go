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

package main

import (
	"github.com/massung/chip8vm/chip8"
)

// Trace keeps the most recently executed instructions.
type Trace struct {
	// buf contains each disassembled instruction, oldest first.
	buf []string

	// size is the most lines kept.
	size int
}

// NewTrace creates a Trace holding up to size lines.
func NewTrace(size int) *Trace {
	return &Trace{
		buf:  make([]string, 0, size),
		size: size,
	}
}

// Log records the instruction at address, before it executes.
func (t *Trace) Log(vm *chip8.VM, address uint16) {
	if t.size == 0 {
		return
	}

	// drop the oldest line
	if len(t.buf) == t.size {
		copy(t.buf, t.buf[1:])
		t.buf = t.buf[:len(t.buf)-1]
	}

	t.buf = append(t.buf, vm.Disassemble(address))
}

// Window returns the last n lines logged.
func (t *Trace) Window(n int) []string {
	start := len(t.buf) - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	return t.buf[start:]
}

// Len is the number of lines held.
func (t *Trace) Len() int {
	return len(t.buf)
}
