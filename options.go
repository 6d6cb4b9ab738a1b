package main

import (
	"flag"
	"fmt"
	"io"
)

// Options are the command line settings of a run.
type Options struct {
	Input  string
	Config string
	Keys   string

	Speed  int
	Cycles int64
	Trace  int

	Debug   bool
	Quiet   bool
	NoColor bool
}

// UsageError represents an error that should show usage information.
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage(w io.Writer) {
	fmt.Fprintf(w, "usage: chip8vm [options] <rom or .asm file>\n\n")
	e.flags.SetOutput(w)
	e.flags.PrintDefaults()
	fmt.Fprintln(w)
}

// ParseFlags parses command line arguments, without the program name.
// A speed of 0 means the speed from the config file is used.
func ParseFlags(args []string) (Options, error) {
	flags := flag.NewFlagSet("chip8vm", flag.ContinueOnError)
	flags.SetOutput(io.Discard)

	var opts Options
	flags.StringVar(&opts.Config, "c", "", "config file to load instead of the default location")
	flags.StringVar(&opts.Keys, "keys", "", "keyboard keys to hold down for the whole run, for example \"wq\"")
	flags.IntVar(&opts.Speed, "speed", 0, "instructions executed per second (default from config, 500)")
	flags.Int64Var(&opts.Cycles, "cycles", 0, "stop after this many instructions, 0 runs until interrupted")
	flags.IntVar(&opts.Trace, "trace", 16, "number of executed instructions to show when a fault occurs")
	flags.BoolVar(&opts.Debug, "debug", false, "log every executed instruction")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&opts.NoColor, "nocolor", false, "disable colored output")

	if err := flags.Parse(args); err != nil {
		return opts, &UsageError{flags: flags, msg: err.Error()}
	}

	rest := flags.Args()
	if len(rest) != 1 {
		return opts, &UsageError{flags: flags, msg: "expected exactly one file to run"}
	}
	opts.Input = rest[0]

	if opts.Speed < 0 || opts.Cycles < 0 || opts.Trace < 0 {
		return opts, &UsageError{flags: flags, msg: "speed, cycles and trace must not be negative"}
	}

	return opts, nil
}
