package chip8

// Input reports the live state of the hexadecimal keypad. It is queried
// by the key-skip instructions and polled while the machine waits for a
// keypress.
type Input interface {
	// IsKeyPressed returns true if the given key (0-15) is currently held.
	// Keys outside that range are never pressed.
	IsKeyPressed(key int) bool
}

// Host receives event notifications from the machine.
type Host interface {
	// DisplayChanged is invoked after every framebuffer mutation.
	DisplayChanged()

	// EmulationError is invoked when instruction decoding fails.
	// Execution cannot continue past this point.
	EmulationError(err error)

	// HaltRequested is invoked when a jump instruction targets its own
	// address. Such a program spins forever; the host may want to pause
	// execution. This is advisory only.
	HaltRequested()
}

// TraceFunc represents a callback handler for debug trace output.
type TraceFunc func(*Instruction)

type nopInput struct{}

func (nopInput) IsKeyPressed(int) bool { return false }

type nopHost struct{}

func (nopHost) DisplayChanged()      {}
func (nopHost) EmulationError(error) {}
func (nopHost) HaltRequested()       {}
