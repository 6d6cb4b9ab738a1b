package chip8

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownOpcode     = errors.New("unknown opcode")
	ErrStackOverflow     = errors.New("stack overflow")
	ErrStackUnderflow    = errors.New("stack underflow")
	ErrAddressOutOfRange = errors.New("address out of range")
	ErrProgramTooLarge   = errors.New("program too large to fit in memory")
)

/// Fault is returned by Step when an instruction cannot complete. The
/// VM is left as it was before the instruction, apart from Inst.
///
type Fault struct {
	PC   uint16
	Inst uint16
	Err  error
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%04X: %04X: %s", f.PC, f.Inst, f.Err)
}

func (f *Fault) Unwrap() error {
	return f.Err
}
