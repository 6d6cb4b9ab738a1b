package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/massung/chip8vm/chip8"
)

var (
	/// Named pixel colors accepted in the config file.
	///
	PixelColors = map[string]color.Attribute{
		"white":   color.FgWhite,
		"green":   color.FgGreen,
		"yellow":  color.FgYellow,
		"cyan":    color.FgCyan,
		"magenta": color.FgMagenta,
		"red":     color.FgRed,
		"blue":    color.FgBlue,
	}
)

/// Screen renders CHIP-8 video memory to a terminal. Two pixel rows
/// share one line of text using half block characters.
///
type Screen struct {
	out   io.Writer
	pixel *color.Color

	// move the cursor home before each frame
	home bool
}

/// NewScreen creates a screen writing to out with lit pixels in the
/// named color.
///
func NewScreen(out io.Writer, name string, home bool) (*Screen, error) {
	attr, ok := PixelColors[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown pixel color %q", name)
	}

	return &Screen{
		out:   out,
		pixel: color.New(attr),
		home:  home,
	}, nil
}

/// Frame returns the text for the current video memory.
///
func (s *Screen) Frame(vm *chip8.VM) string {
	var b strings.Builder

	border := "+" + strings.Repeat("-", chip8.ScreenWidth) + "+\n"
	b.WriteString(border)

	for y := 0; y < chip8.ScreenHeight; y += 2 {
		var line strings.Builder

		for x := 0; x < chip8.ScreenWidth; x++ {
			top := vm.Pixel(x, y)
			bottom := vm.Pixel(x, y+1)

			switch {
			case top == 1 && bottom == 1:
				line.WriteRune('█')
			case top == 1:
				line.WriteRune('▀')
			case bottom == 1:
				line.WriteRune('▄')
			default:
				line.WriteRune(' ')
			}
		}

		b.WriteString("|")
		b.WriteString(s.pixel.Sprint(line.String()))
		b.WriteString("|\n")
	}

	b.WriteString(border)
	return b.String()
}

/// Refresh writes the current frame.
///
func (s *Screen) Refresh(vm *chip8.VM) error {
	if s.home {
		if _, err := io.WriteString(s.out, "\x1b[H"); err != nil {
			return err
		}
	}

	_, err := io.WriteString(s.out, s.Frame(vm))
	return err
}
