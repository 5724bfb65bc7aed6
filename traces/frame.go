// Package traces reduces the raw event stream of a run into the frames a
// step-through player shows.
package traces

import (
	"encoding/json"

	"github.com/reusee/tutor/events"
)

// Frame is one visible snapshot of program state and the action that produced it.
// Frames are not modified after Reduce returns them.
type Frame struct {
	Kind    events.Kind
	Action  string
	Line    int
	Locals  map[string]any
	Context string
	// set for return frames
	ReturnValue any
	// set for stdout frames
	Output string
}

type frameJSON struct {
	Action      string         `json:"action"`
	Line        int            `json:"line"`
	Locals      map[string]any `json:"locals"`
	Context     string         `json:"context,omitempty"`
	ReturnValue *any           `json:"returnValue,omitempty"`
	Output      *string        `json:"output,omitempty"`
}

func (f Frame) MarshalJSON() ([]byte, error) {
	out := frameJSON{
		Action:  f.Action,
		Line:    f.Line,
		Locals:  f.Locals,
		Context: f.Context,
	}
	if out.Locals == nil {
		out.Locals = map[string]any{}
	}
	switch f.Kind {
	case events.KindReturn:
		// None is reported as null
		value := f.ReturnValue
		out.ReturnValue = &value
	case events.KindStdout:
		output := f.Output
		out.Output = &output
	}
	return json.Marshal(out)
}
