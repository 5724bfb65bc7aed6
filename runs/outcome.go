package runs

import (
	"encoding/json"
	"time"

	"github.com/reusee/tutor/instruments"
	"github.com/reusee/tutor/sandboxes"
	"github.com/reusee/tutor/traces"
)

// Outcome is either the frames of a run or its single error, never both.
type Outcome struct {
	Frames   []traces.Frame
	Err      *sandboxes.Error
	Stats    instruments.Stats
	Events   int
	Duration time.Duration
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type errorFrame struct {
	Error  string         `json:"error"`
	Locals map[string]any `json:"locals"`
}

func (o Outcome) MarshalJSON() ([]byte, error) {
	if o.Err != nil {
		return json.Marshal(struct {
			Logs   []errorFrame   `json:"logs"`
			Status string         `json:"status"`
			Kind   sandboxes.Kind `json:"kind"`
			Line   int            `json:"line,omitempty"`
		}{
			Logs: []errorFrame{
				{
					Error:  o.Err.Message,
					Locals: map[string]any{},
				},
			},
			Status: "error",
			Kind:   o.Err.Kind,
			Line:   o.Err.Line,
		})
	}
	frames := o.Frames
	if frames == nil {
		frames = []traces.Frame{}
	}
	return json.Marshal(struct {
		Logs   []traces.Frame `json:"logs"`
		Status string         `json:"status"`
	}{
		Logs:   frames,
		Status: "ok",
	})
}
