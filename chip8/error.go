package chip8

import "fmt"

// OutOfBoundsError reports a memory access that exceeds the memory bank.
// The access is rejected as a whole; no partial read or write occurs.
type OutOfBoundsError struct {
	Addr int // First address of the attempted access.
	Size int // Size of the attempted access in bytes.
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("memory access out of bounds: %d byte(s) at 0x%04X", e.Size, e.Addr)
}

// UnimplementedError reports an instruction word that matches no known
// decode pattern. It is fatal to continued execution.
type UnimplementedError struct {
	Word uint16 // Offending instruction word.
	Addr int    // Address the word was fetched from.
}

func (e *UnimplementedError) Error() string {
	return fmt.Sprintf("unimplemented instruction 0x%04X at address 0x%03X", e.Word, e.Addr)
}

// Error defines a runtime error with instruction context.
type Error struct {
	*Instruction
	Msg string
}

// NewError creates a new, formatted error message for the given instruction.
func NewError(instr *Instruction, f string, argv ...interface{}) *Error {
	return &Error{
		Instruction: instr,
		Msg:         fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%04x: %s", e.Addr, e.Msg)
}
