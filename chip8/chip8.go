package chip8

import (
	"math/rand"
	"time"

	"github.com/retroenv/retrogolib/log"
)

const (
	/// MemorySize is the number of addressable bytes.
	///
	MemorySize = 0x1000

	/// ProgramStart is where program images are loaded and where the
	/// program counter points after construction or reset.
	///
	ProgramStart = 0x200

	/// MaxProgramSize is the largest image that fits above ProgramStart.
	///
	MaxProgramSize = MemorySize - ProgramStart

	/// ScreenWidth and ScreenHeight are the display dimensions in pixels.
	///
	ScreenWidth  = 64
	ScreenHeight = 32

	/// StackDepth is the number of return addresses the call stack holds.
	///
	StackDepth = 16

	// all addresses are 12-bit
	addressMask = 0xFFF
)

/// VM is the CHIP-8 virtual machine state. It is owned by the driver and
/// mutated only by Step, Reset, SetKey and TickTimers.
///
type VM struct {
	/// Memory addressable by CHIP-8. The first 80 bytes hold the hex
	/// font glyphs, programs are loaded at 0x200.
	///
	Memory [MemorySize]byte

	/// Video memory, one byte per pixel holding exactly 0 or 1. Pixel
	/// <x,y> is at index y*ScreenWidth+x.
	///
	Video [ScreenWidth * ScreenHeight]byte

	/// V are the 16 virtual registers. VF doubles as the flag register.
	///
	V [16]byte

	/// I is the address register.
	///
	I uint16

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// Stack holds return addresses, SP is the number of entries in use.
	///
	Stack [StackDepth]uint16
	SP    uint8

	/// DT and ST are the delay and sound timers. Both count down at 60 Hz
	/// when the driver calls TickTimers.
	///
	DT byte
	ST byte

	/// Keys hold the current state for the 16-key pad keys.
	///
	Keys [16]bool

	/// Inst is the most recently fetched instruction.
	///
	Inst uint16

	/// Cycles is how many instructions have been executed.
	///
	Cycles int64

	// true when the video memory changed since the last TakeDirty
	dirty bool

	// random source for RND
	rng *rand.Rand

	// optional instruction trace
	logger *log.Logger
}

/// Option configures a VM created with New.
///
type Option func(vm *VM)

/// WithRand sets the random source used by the RND instruction.
///
func WithRand(rng *rand.Rand) Option {
	return func(vm *VM) {
		vm.rng = rng
	}
}

/// WithLogger attaches a logger that receives a debug entry for every
/// executed instruction.
///
func WithLogger(logger *log.Logger) Option {
	return func(vm *VM) {
		vm.logger = logger
	}
}

/// New creates a zeroed CHIP-8 virtual machine with the font loaded.
///
func New(opts ...Option) *VM {
	vm := &VM{
		PC: ProgramStart,
	}

	for _, opt := range opts {
		opt(vm)
	}

	if vm.rng == nil {
		vm.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// copy the hex digit sprites into low memory
	copy(vm.Memory[:], Font[:])

	return vm
}

/// LoadROM copies a program image into memory at ProgramStart.
///
func (vm *VM) LoadROM(program []byte) error {
	if len(program) > MaxProgramSize {
		return ErrProgramTooLarge
	}

	copy(vm.Memory[ProgramStart:], program)
	return nil
}

/// Reset performs a warm reset. Control registers, the stack, keys,
/// timers, video memory and the scratch area between the font and the
/// program are cleared. The font and the loaded program are kept.
///
func (vm *VM) Reset() {
	for i := FontSize; i < ProgramStart; i++ {
		vm.Memory[i] = 0
	}

	// reset video memory
	vm.Video = [ScreenWidth * ScreenHeight]byte{}
	vm.dirty = false

	// reset keys
	vm.Keys = [16]bool{}

	// reset program counter and stack
	vm.PC = ProgramStart
	vm.SP = 0
	vm.Stack = [StackDepth]uint16{}

	// reset address and virtual registers
	vm.I = 0
	vm.V = [16]byte{}

	// reset timer registers
	vm.DT = 0
	vm.ST = 0

	vm.Inst = 0
	vm.Cycles = 0
}

/// SetKey records the pressed state of a keypad key. Keys outside 0-F
/// are ignored.
///
func (vm *VM) SetKey(key uint, pressed bool) {
	if key < 16 {
		vm.Keys[key] = pressed
	}
}

/// PressKey emulates a CHIP-8 key being pressed.
///
func (vm *VM) PressKey(key uint) {
	vm.SetKey(key, true)
}

/// ReleaseKey emulates a CHIP-8 key being released.
///
func (vm *VM) ReleaseKey(key uint) {
	vm.SetKey(key, false)
}

/// TickTimers decrements the delay and sound timers if they are running.
/// The driver calls it at 60 Hz.
///
func (vm *VM) TickTimers() {
	if vm.DT > 0 {
		vm.DT--
	}
	if vm.ST > 0 {
		vm.ST--
	}
}

/// Sounding is true while the sound timer is running.
///
func (vm *VM) Sounding() bool {
	return vm.ST > 0
}

/// TakeDirty returns whether video memory changed since the last call
/// and clears the flag.
///
func (vm *VM) TakeDirty() bool {
	dirty := vm.dirty
	vm.dirty = false

	return dirty
}

/// Pixel returns the pixel at <x,y>, 0 or 1.
///
func (vm *VM) Pixel(x, y int) byte {
	return vm.Video[y*ScreenWidth+x]
}
