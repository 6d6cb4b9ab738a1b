package main

import (
	"io"
)

/// Beeper rings the terminal bell when the CHIP-8 sound timer starts.
///
type Beeper struct {
	out io.Writer

	// was the tone on at the last update
	on bool
}

/// NewBeeper creates a beeper writing bells to out. A nil writer keeps
/// the beeper silent.
///
func NewBeeper(out io.Writer) *Beeper {
	return &Beeper{out: out}
}

/// Update the tone state, returns true if a bell was rung.
///
func (b *Beeper) Update(sounding bool) bool {
	ring := sounding && !b.on
	b.on = sounding

	if ring && b.out != nil {
		_, _ = io.WriteString(b.out, "\a")
	}

	return ring
}
