package sandboxes

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/reusee/tutor/events"
	"github.com/reusee/tutor/instruments"
	"github.com/reusee/tutor/logs"
	"go.starlark.net/resolve"
	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Sandbox executes instrumented programs. Every Execute call runs in a fresh
// thread with fresh globals, so runs share nothing.
type Sandbox struct {
	// zero values disable the bounds
	Timeout   time.Duration
	MaxSteps  uint64
	MaxEvents int
	// Backtrace includes the Starlark call stack in runtime error messages
	Backtrace bool

	logger logs.Logger
}

type run struct {
	program    *instruments.Result
	sink       *events.Sink
	eventLimit atomic.Bool
	stepLimit  atomic.Bool
}

// Execute runs the program to completion and returns its events, or a single
// *Error. Partial events of a failed run are discarded.
func (s *Sandbox) Execute(ctx context.Context, program *instruments.Result) (evs []events.Event, err error) {
	r := &run{
		program: program,
		sink:    events.NewSink(s.MaxEvents),
	}

	thread := &starlark.Thread{
		Name:  program.Filename,
		Print: r.print,
	}

	if s.MaxSteps > 0 {
		thread.SetMaxExecutionSteps(s.MaxSteps)
		thread.OnMaxSteps = func(thread *starlark.Thread) {
			r.stepLimit.Store(true)
			thread.Cancel("too many steps")
		}
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	defer func() {
		if p := recover(); p != nil {
			if s.logger != nil {
				s.logger.Error("sandbox panic",
					"panic", p,
					"stack", string(debug.Stack()),
				)
			}
			evs = nil
			err = &Error{
				Kind:    KindInternal,
				Message: fmt.Sprint(p),
			}
		}
	}()

	_, err = starlark.ExecFileOptions(
		instruments.FileOptions,
		thread,
		program.Filename,
		program.Code,
		r.predeclared(),
	)
	if err != nil {
		return nil, s.classify(ctx, r, err)
	}
	if r.eventLimit.Load() {
		return nil, &Error{
			Kind:    KindEventLimit,
			Message: events.ErrSinkFull.Error(),
		}
	}

	return r.sink.Events(), nil
}

func (s *Sandbox) classify(ctx context.Context, r *run, err error) *Error {
	line := 0
	message := err.Error()

	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		message = evalErr.Msg
		if s.Backtrace {
			message = evalErr.Backtrace()
		}
		// innermost frame inside the program
		for i := len(evalErr.CallStack) - 1; i >= 0; i-- {
			pos := evalErr.CallStack[i].Pos
			if pos.Filename() == r.program.Filename && pos.Line > 0 {
				line = r.program.LineMap.Original(int(pos.Line))
				break
			}
		}
	}

	switch {

	case r.eventLimit.Load():
		return &Error{
			Kind:    KindEventLimit,
			Message: events.ErrSinkFull.Error(),
			Line:    line,
		}

	case r.stepLimit.Load():
		return &Error{
			Kind:    KindStepLimit,
			Message: fmt.Sprintf("execution exceeded %d steps", s.MaxSteps),
			Line:    line,
		}

	case ctx.Err() != nil:
		msg := "execution timed out"
		if errors.Is(ctx.Err(), context.Canceled) {
			msg = "execution cancelled"
		}
		return &Error{
			Kind:    KindTimeout,
			Message: msg,
			Line:    line,
		}

	}

	var resolveErrs resolve.ErrorList
	if errors.As(err, &resolveErrs) {
		first := resolveErrs[0]
		return &Error{
			Kind:    KindParse,
			Message: first.Msg,
			Line:    r.program.LineMap.Original(int(first.Pos.Line)),
		}
	}

	var syntaxErr syntax.Error
	if errors.As(err, &syntaxErr) {
		return &Error{
			Kind:    KindParse,
			Message: syntaxErr.Msg,
			Line:    r.program.LineMap.Original(int(syntaxErr.Pos.Line)),
		}
	}

	if evalErr != nil {
		return &Error{
			Kind:    KindRuntime,
			Message: strings.TrimSpace(message),
			Line:    line,
		}
	}

	return &Error{
		Kind:    KindInternal,
		Message: message,
	}
}
