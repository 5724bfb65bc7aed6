// Package debugs opens an interactive Starlark session over a recorded frame.
package debugs

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/reusee/tutor/events"
	"github.com/reusee/tutor/instruments"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/traces"
	"go.starlark.net/repl"
	"go.starlark.net/starlark"
)

// Globals binds the locals of frame, plus the return value as "_" on return
// frames.
func Globals(frame traces.Frame) starlark.StringDict {
	globals := make(starlark.StringDict, len(frame.Locals)+1)
	for name, value := range frame.Locals {
		globals[name] = toStarlarkValue(value)
	}
	if frame.Kind == events.KindReturn {
		globals["_"] = toStarlarkValue(frame.ReturnValue)
	}
	return globals
}

// Inspect runs a REPL on stdin over the bindings of frame until EOF.
type Inspect func(ctx context.Context, frame traces.Frame)

func (Module) Inspect(
	logger logs.Logger,
) Inspect {
	return func(ctx context.Context, frame traces.Frame) {
		globals := Globals(frame)
		names := slices.Sorted(maps.Keys(globals))
		logger.InfoContext(ctx, "inspect",
			"action", frame.Action,
			"line", frame.Line,
			"names", names,
		)
		defer func() {
			logger.InfoContext(ctx, "inspect end")
		}()

		fmt.Printf("# line %d, %s: %v\n", frame.Line, frame.Action, names)
		thread := &starlark.Thread{
			Name: "inspect",
		}
		options := *instruments.FileOptions
		repl.REPLOptions(&options, thread, globals)
	}
}
