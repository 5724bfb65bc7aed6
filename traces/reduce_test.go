package traces

import (
	"bytes"
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/reusee/tutor/events"
)

func step(line int, action string, locals events.Bindings) events.Step {
	return events.Step{
		Header: events.Header{
			Line:   line,
			Locals: locals,
		},
		Action: action,
	}
}

func TestReduceEmpty(t *testing.T) {
	frames := Reduce(nil)
	if frames == nil || len(frames) != 0 {
		t.Fatalf("got %v", frames)
	}
}

func TestReduceAssignments(t *testing.T) {
	frames := Reduce([]events.Event{
		step(1, events.ActionDeclare, events.Bindings{"x": int64(1)}),
		step(2, events.ActionAssign, events.Bindings{"x": int64(2)}),
		events.Stdout{
			Header: events.Header{Line: 3},
			Output: "2",
		},
	})
	if len(frames) != 3 {
		t.Fatalf("got %v", frames)
	}
	if frames[0].Action != "declare" || frames[1].Action != "assign" {
		t.Fatalf("got %v", frames)
	}
	last := frames[2]
	if last.Action != "stdout" || last.Output != "2" || last.Locals["x"] != int64(2) {
		t.Fatalf("got %#v", last)
	}
}

func TestReduceUnchangedState(t *testing.T) {
	frames := Reduce([]events.Event{
		step(1, events.ActionDeclare, events.Bindings{"x": int64(1)}),
		step(2, events.ActionAssign, events.Bindings{"x": int64(1)}),
		step(3, events.ActionAssign, events.Bindings{"x": int64(3)}),
	})
	if len(frames) != 2 {
		t.Fatalf("got %v", frames)
	}
	if frames[1].Line != 3 {
		t.Fatalf("got %v", frames)
	}
}

func TestReduceFirstEventAlwaysFrame(t *testing.T) {
	frames := Reduce([]events.Event{
		step(1, events.ActionLoop, nil),
	})
	if len(frames) != 1 {
		t.Fatalf("got %v", frames)
	}
}

func TestReduceCallReturn(t *testing.T) {
	frames := Reduce([]events.Event{
		events.Call{
			Header:   events.Header{Line: 1},
			Function: "f",
			Args:     events.Bindings{"a": int64(5)},
		},
		events.Return{
			Header:   events.Header{Line: 2},
			Function: "f",
			Value:    int64(6),
		},
	})
	if len(frames) != 2 {
		t.Fatalf("got %v", frames)
	}
	if frames[0].Action != "call" || frames[0].Locals["a"] != int64(5) {
		t.Fatalf("got %#v", frames[0])
	}
	if frames[1].Action != "return" || frames[1].ReturnValue != int64(6) {
		t.Fatalf("got %#v", frames[1])
	}
}

func TestReduceTestContext(t *testing.T) {
	frames := Reduce([]events.Event{
		step(1, events.ActionDeclare, events.Bindings{"x": int64(2)}),
		events.Test{
			Header:     events.Header{Line: 2},
			Expression: "x > 1",
			Result:     true,
		},
		events.Stdout{
			Header: events.Header{Line: 3},
			Output: "ok",
		},
		events.Stdout{
			Header: events.Header{Line: 4},
			Output: "again",
		},
	})
	if len(frames) != 3 {
		t.Fatalf("got %v", frames)
	}
	if frames[1].Action != "stdout (after test)" {
		t.Fatalf("got %q", frames[1].Action)
	}
	if frames[1].Context != `Tested "x > 1": true` {
		t.Fatalf("got %q", frames[1].Context)
	}
	// consumed once
	if frames[2].Context != "" || frames[2].Action != "stdout" {
		t.Fatalf("got %#v", frames[2])
	}
}

func TestReduceTrailingTest(t *testing.T) {
	frames := Reduce([]events.Event{
		step(1, events.ActionDeclare, events.Bindings{"x": int64(2)}),
		events.Test{
			Header:     events.Header{Line: 2},
			Expression: "x",
			Result:     "two",
		},
	})
	if len(frames) != 1 {
		t.Fatalf("got %v", frames)
	}
	if frames[0].Context != "" {
		t.Fatalf("got %#v", frames[0])
	}
}

func TestReduceTestContextRendering(t *testing.T) {
	frames := Reduce([]events.Event{
		events.Test{
			Expression: "xs",
			Result:     []any{int64(1), "a"},
		},
		events.Stdout{},
		events.Test{
			Expression: "s",
			Result:     "raw",
		},
		events.Stdout{},
	})
	if frames[0].Context != `Tested "xs": [1,"a"]` {
		t.Fatalf("got %q", frames[0].Context)
	}
	if frames[1].Context != `Tested "s": raw` {
		t.Fatalf("got %q", frames[1].Context)
	}
}

func TestReduceNoAliasing(t *testing.T) {
	xs := []any{int64(1)}
	evs := []events.Event{
		step(1, events.ActionDeclare, events.Bindings{"xs": xs}),
	}
	frames := Reduce(evs)
	xs[0] = int64(42)
	if got := frames[0].Locals["xs"].([]any)[0]; got != int64(1) {
		t.Fatalf("got %v", got)
	}

	frames = Reduce([]events.Event{
		step(1, events.ActionDeclare, events.Bindings{"x": int64(1)}),
		step(2, events.ActionAssign, events.Bindings{"x": int64(2)}),
	})
	frames[1].Locals["x"] = int64(3)
	if frames[0].Locals["x"] != int64(1) {
		t.Fatal()
	}
}

func TestReduceDeterministic(t *testing.T) {
	evs := []events.Event{
		events.Call{
			Header:   events.Header{Line: 1},
			Function: "f",
			Args:     events.Bindings{"b": int64(1), "a": map[string]any{"z": 1.5, "y": nil}},
		},
		step(2, events.ActionDeclare, events.Bindings{"c": []any{"x", true}}),
		events.Test{Expression: "c", Result: true},
		events.Return{Header: events.Header{Line: 3}, Function: "f"},
	}
	first, err := json.Marshal(Reduce(evs))
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		again, err := json.Marshal(Reduce(evs))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("got %s, expected %s", again, first)
		}
	}
}

func TestReduceUnserializable(t *testing.T) {
	cyclic := map[string]any{}
	cyclic["self"] = cyclic
	frames := Reduce([]events.Event{
		step(1, events.ActionDeclare, events.Bindings{
			"cyclic": cyclic,
			"nan":    math.NaN(),
			"ch":     make(chan int),
		}),
	})
	if len(frames) != 1 {
		t.Fatalf("got %v", frames)
	}
	locals := frames[0].Locals
	if !reflect.DeepEqual(locals["cyclic"], map[string]any{"self": circular}) {
		t.Fatalf("got %#v", locals["cyclic"])
	}
	if locals["nan"] != "NaN" {
		t.Fatalf("got %#v", locals["nan"])
	}
	if _, ok := locals["ch"].(string); !ok {
		t.Fatalf("got %#v", locals["ch"])
	}
	if _, err := json.Marshal(frames); err != nil {
		t.Fatal(err)
	}
}

func TestFrameJSON(t *testing.T) {
	frames := Reduce([]events.Event{
		events.Return{
			Header:   events.Header{Line: 2},
			Function: "f",
		},
		events.Stdout{
			Header: events.Header{Line: 3},
			Output: "",
		},
		step(4, events.ActionDeclare, events.Bindings{"x": int64(1)}),
	})
	bs, err := json.Marshal(frames)
	if err != nil {
		t.Fatal(err)
	}
	expected := `[{"action":"return","line":2,"locals":{},"returnValue":null},` +
		`{"action":"stdout","line":3,"locals":{},"output":""},` +
		`{"action":"declare","line":4,"locals":{"x":1}}]`
	if string(bs) != expected {
		t.Fatalf("got %s", bs)
	}
}
