package traces

import (
	"maps"

	"github.com/reusee/tutor/events"
)

var significant = map[events.Kind]bool{
	events.KindCall:   true,
	events.KindReturn: true,
	events.KindStdout: true,
}

// Reduce folds a run's events into frames. A frame is emitted for every call,
// return and stdout event, and for any other event that changes the accumulated
// locals. Locals accumulate flat across scopes, later bindings win.
func Reduce(evs []events.Event) []Frame {
	frames := []Frame{}
	state := make(map[string]any)
	lastPushed := ""
	pushed := false
	pending := ""

	for _, ev := range evs {
		if call, ok := ev.(events.Call); ok {
			maps.Copy(state, call.Args)
		}
		maps.Copy(state, ev.EventLocals())

		if test, ok := ev.(events.Test); ok {
			pending = `Tested "` + test.Expression + `": ` + render(test.Result)
			continue
		}

		snapshot := deepCopy(state).(map[string]any)
		key := canonical(snapshot)
		if !significant[ev.EventKind()] && pushed && key == lastPushed {
			continue
		}

		frame := Frame{
			Kind:   ev.EventKind(),
			Action: action(ev),
			Line:   ev.EventLine(),
			Locals: snapshot,
		}
		if pending != "" {
			frame.Action += " (after test)"
			frame.Context = pending
			pending = ""
		}
		switch ev := ev.(type) {
		case events.Return:
			frame.ReturnValue = deepCopy(ev.Value)
		case events.Stdout:
			frame.Output = ev.Output
		}

		frames = append(frames, frame)
		lastPushed = key
		pushed = true
	}

	return frames
}

func action(ev events.Event) string {
	if step, ok := ev.(events.Step); ok {
		return step.Action
	}
	return string(ev.EventKind())
}
