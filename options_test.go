package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	opts, err := ParseFlags([]string{"-speed", "700", "-cycles", "100", "-keys", "wq", "-debug", "pong.ch8"})
	assert.NoError(t, err)

	assert.Equal(t, "pong.ch8", opts.Input)
	assert.Equal(t, 700, opts.Speed)
	assert.Equal(t, int64(100), opts.Cycles)
	assert.Equal(t, "wq", opts.Keys)
	assert.Equal(t, 16, opts.Trace)
	assert.True(t, opts.Debug)
	assert.False(t, opts.Quiet)
}

func TestParseFlagsDefaults(t *testing.T) {
	opts, err := ParseFlags([]string{"game.asm"})
	assert.NoError(t, err)

	assert.Equal(t, "game.asm", opts.Input)
	assert.Equal(t, 0, opts.Speed)
	assert.Equal(t, int64(0), opts.Cycles)
	assert.Equal(t, "", opts.Config)
	assert.False(t, opts.NoColor)
}

func TestParseFlagsUsage(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"no file", nil},
		{"two files", []string{"a.ch8", "b.ch8"}},
		{"unknown flag", []string{"-fast", "a.ch8"}},
		{"negative speed", []string{"-speed", "-1", "a.ch8"}},
		{"negative trace", []string{"-trace", "-5", "a.ch8"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags(tt.args)
			assert.Error(t, err)

			var usageErr *UsageError
			assert.True(t, errors.As(err, &usageErr))

			var buf bytes.Buffer
			usageErr.ShowUsage(&buf)
			assert.True(t, strings.Contains(buf.String(), "-speed"))
		})
	}
}
