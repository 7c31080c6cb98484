package asm

import "fmt"

// Error describes an assembly error at a given source line.
type Error struct {
	Line int
	Msg  string
}

// newError creates a new, formatted error message for the given line.
func newError(line int, f string, argv ...interface{}) *Error {
	return &Error{
		Line: line,
		Msg:  fmt.Sprintf(f, argv...),
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}
