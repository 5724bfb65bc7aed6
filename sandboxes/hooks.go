package sandboxes

import (
	"errors"

	"github.com/reusee/tutor/events"
	"github.com/reusee/tutor/instruments"
	"go.starlark.net/starlark"
)

func (r *run) predeclared() starlark.StringDict {
	return starlark.StringDict{
		instruments.CallHook:   starlark.NewBuiltin(instruments.CallHook, r.call),
		instruments.ReturnHook: starlark.NewBuiltin(instruments.ReturnHook, r.ret),
		instruments.StepHook:   starlark.NewBuiltin(instruments.StepHook, r.step),
		instruments.TestHook:   starlark.NewBuiltin(instruments.TestHook, r.test),
		instruments.CheckName:  starlark.NewBuiltin(instruments.CheckName, check),
	}
}

func (r *run) record(thread *starlark.Thread, ev events.Event) error {
	err := r.sink.Append(ev)
	if errors.Is(err, events.ErrSinkFull) {
		r.eventLimit.Store(true)
		thread.Cancel(err.Error())
	}
	return err
}

// __tutor_call__(line, name, **params)
func (r *run) call(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var line int
	var name string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, nil, 2, &line, &name); err != nil {
		return nil, err
	}
	if err := r.record(thread, events.Call{
		Header: events.Header{
			Line: line,
		},
		Function: name,
		Args:     snapshotBindings(kwargs),
	}); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

// __tutor_return__(line, name, value) returns value
func (r *run) ret(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var line int
	var name string
	var value starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 3, &line, &name, &value); err != nil {
		return nil, err
	}
	if err := r.record(thread, events.Return{
		Header: events.Header{
			Line: line,
		},
		Function: name,
		Value:    snapshot(value),
	}); err != nil {
		return nil, err
	}
	return value, nil
}

// __tutor_step__(line, action, **locals)
func (r *run) step(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var line int
	var action string
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, nil, 2, &line, &action); err != nil {
		return nil, err
	}
	if err := r.record(thread, events.Step{
		Header: events.Header{
			Line:   line,
			Locals: snapshotBindings(kwargs),
		},
		Action: action,
	}); err != nil {
		return nil, err
	}
	return starlark.None, nil
}

// __tutor_test__(line, expression, value) returns value
func (r *run) test(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var line int
	var expression string
	var value starlark.Value
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 3, &line, &expression, &value); err != nil {
		return nil, err
	}
	if err := r.record(thread, events.Test{
		Header: events.Header{
			Line: line,
		},
		Expression: expression,
		Result:     snapshot(value),
	}); err != nil {
		return nil, err
	}
	return value, nil
}

// check calls that were not rewritten evaluate to their argument
func check(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var value starlark.Value = starlark.None
	if err := starlark.UnpackPositionalArgs(fn.Name(), args, kwargs, 0, &value); err != nil {
		return nil, err
	}
	return value, nil
}

func (r *run) print(thread *starlark.Thread, msg string) {
	line := 0
	for depth := 1; depth < thread.CallStackDepth(); depth++ {
		if pos := thread.CallFrame(depth).Pos; pos.Line > 0 {
			line = r.program.LineMap.Original(int(pos.Line))
			break
		}
	}
	// a full sink cancels the thread, print has no error result
	_ = r.record(thread, events.Stdout{
		Header: events.Header{
			Line: line,
		},
		Output: msg,
	})
}
