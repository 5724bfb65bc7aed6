package instruments

import "fmt"

// Error is a program that cannot be instrumented.
type Error struct {
	Line    int
	Column  int
	Message string
	// Syntax is set when the program itself is at fault
	Syntax bool
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}
