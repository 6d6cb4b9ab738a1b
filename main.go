package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/massung/chip8vm/chip8"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// TimerRate is the frequency of the delay and sound timers.
const TimerRate = 60

// errHalted stops the run when the program jumps to itself forever.
var errHalted = errors.New("program halted")

func main() {
	opts, err := ParseFlags(os.Args[1:])
	if err != nil {
		printBanner(opts)

		var usageErr *UsageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(os.Stderr, "%s\n\n", usageErr.Error())
			usageErr.ShowUsage(os.Stderr)
		}
		os.Exit(1)
	}

	logger := CreateLogger(opts.Debug, opts.Quiet)
	printBanner(opts)

	if opts.NoColor {
		color.NoColor = true
	}

	ctx := app.Context()

	if err := run(ctx, logger, opts, os.Stdout); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("Emulation stopped")
			return
		}
		logger.Error("Emulation failed", log.Err(err))
		os.Exit(1)
	}
}

// CreateLogger creates a logger with appropriate settings.
func CreateLogger(debug, quiet bool) *log.Logger {
	cfg := log.DefaultConfig()
	if debug {
		cfg.Level = log.DebugLevel
	} else if quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

func printBanner(opts Options) {
	if !opts.Quiet {
		fmt.Println("[---------------------------------]")
		fmt.Println("[ chip8vm - CHIP-8 virtual machine ]")
		fmt.Printf("[---------------------------------]\n\n")
		fmt.Printf("version: %s\n\n", buildinfo.Version(version, commit, date))
	}
}

func run(ctx context.Context, logger *log.Logger, opts Options, out io.Writer) error {
	config, err := LoadConfigData(opts.Config)
	if err != nil {
		return err
	}

	if opts.Speed == 0 {
		opts.Speed = config.Speed
	}

	program, err := LoadProgram(opts.Input)
	if err != nil {
		return err
	}

	vmOpts := []chip8.Option{}
	if opts.Debug {
		vmOpts = append(vmOpts, chip8.WithLogger(logger))
	}

	vm := chip8.New(vmOpts...)
	if err := vm.LoadROM(program); err != nil {
		return fmt.Errorf("loading '%s': %w", opts.Input, err)
	}

	held, err := HeldKeys(NewKeyMap(config.Keys), opts.Keys)
	if err != nil {
		return err
	}
	for _, key := range held {
		vm.PressKey(key)
	}

	screen, err := NewScreen(out, config.Color, !opts.Debug)
	if err != nil {
		return err
	}

	logger.Info("Running program",
		log.String("file", opts.Input),
		log.Int("size", len(program)),
		log.Int("speed", opts.Speed))

	emu := &Emulator{
		VM:     vm,
		Screen: screen,
		Beeper: NewBeeper(out),
		Trace:  NewTrace(opts.Trace),
		Limit:  opts.Cycles,
	}

	err = emu.Run(ctx, opts.Speed)
	if errors.Is(err, errHalted) {
		logger.Info("Program halted", log.Hex("pc", vm.PC))
		err = nil
	}

	// show the final machine state
	if refreshErr := screen.Refresh(vm); refreshErr != nil && err == nil {
		err = refreshErr
	}

	var fault *chip8.Fault
	if errors.As(err, &fault) {
		fmt.Fprintln(out)
		for _, line := range emu.Trace.Window(opts.Trace) {
			fmt.Fprintln(out, line)
		}
		fmt.Fprintln(out)
		DebugAssembly(out, vm)
		fmt.Fprintln(out)
		DebugRegisters(out, vm)
	}

	return err
}

// LoadProgram reads a ROM image, assembling it first when the file is
// assembler source.
func LoadProgram(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file '%s': %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm", ".c8s":
		asm, err := chip8.Assemble(data)
		if err != nil {
			return nil, fmt.Errorf("assembling '%s': %w", path, err)
		}
		return asm.ROM, nil
	}

	if len(data) > chip8.MaxProgramSize {
		return nil, fmt.Errorf("loading '%s': %w", path, chip8.ErrProgramTooLarge)
	}
	return data, nil
}

// Emulator drives a VM: instruction pacing, timers and presentation.
type Emulator struct {
	VM     *chip8.VM
	Screen *Screen
	Beeper *Beeper
	Trace  *Trace

	// Limit stops the run after this many instructions, 0 for no limit.
	Limit int64
}

// Cycle executes a single instruction. It returns errHalted instead of
// executing a jump to itself, and io.EOF when the limit is reached.
func (e *Emulator) Cycle() error {
	if e.Limit > 0 && e.VM.Cycles >= e.Limit {
		return io.EOF
	}

	pc := e.VM.PC
	if inst := e.fetch(pc); inst.Kind == chip8.Jp && inst.NNN == pc {
		return errHalted
	}

	e.Trace.Log(e.VM, pc)
	return e.VM.Step()
}

// Tick advances the timers and presents any changes.
func (e *Emulator) Tick() error {
	e.VM.TickTimers()
	e.Beeper.Update(e.VM.Sounding())

	if e.VM.TakeDirty() {
		return e.Screen.Refresh(e.VM)
	}
	return nil
}

// Run executes instructions at speed per second until the context is
// done, the limit is reached, or the program faults or halts.
func (e *Emulator) Run(ctx context.Context, speed int) error {
	clock := time.NewTicker(time.Second / time.Duration(speed))
	defer clock.Stop()

	timers := time.NewTicker(time.Second / TimerRate)
	defer timers.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timers.C:
			if err := e.Tick(); err != nil {
				return err
			}
		case <-clock.C:
			if err := e.Cycle(); err != nil {
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
		}
	}
}

func (e *Emulator) fetch(pc uint16) chip8.Instruction {
	if int(pc)+1 >= chip8.MemorySize {
		return chip8.Instruction{}
	}

	return chip8.Decode(uint16(e.VM.Memory[pc])<<8 | uint16(e.VM.Memory[pc+1]))
}
