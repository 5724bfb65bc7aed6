package sandboxes

import "fmt"

type Kind string

const (
	KindParse      Kind = "parse"
	KindRuntime    Kind = "runtime"
	KindTimeout    Kind = "timeout"
	KindStepLimit  Kind = "step_limit"
	KindEventLimit Kind = "event_limit"
	KindInternal   Kind = "internal"
)

// Error is the single failure of a run. Line is in original program coordinates,
// zero if unknown.
type Error struct {
	Kind    Kind
	Message string
	Line    int
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s error at line %d: %s", e.Kind, e.Line, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}
