// Package runs is the trace pipeline: instrument, execute, reduce.
package runs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/reusee/tutor/events"
	"github.com/reusee/tutor/instruments"
	"github.com/reusee/tutor/logs"
	"github.com/reusee/tutor/sandboxes"
	"github.com/reusee/tutor/traces"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const Filename = "main.star"

type Runner struct {
	sandbox *sandboxes.Sandbox
	tracer  trace.Tracer
	logger  logs.Logger
	newSpan logs.NewSpan
	frames  func([]events.Event) []traces.Frame
}

func (Module) Runner(
	sandbox *sandboxes.Sandbox,
	tracer trace.Tracer,
	logger logs.Logger,
	newSpan logs.NewSpan,
) *Runner {
	return &Runner{
		sandbox: sandbox,
		tracer:  tracer,
		logger:  logger,
		newSpan: newSpan,
		frames:  traces.Reduce,
	}
}

// Run traces one program. Every failure is reported in the Outcome.
func (r *Runner) Run(ctx context.Context, code string) (outcome Outcome) {
	begin := time.Now()
	ctx, _ = r.newSpan(ctx, "", "run")
	ctx, span := r.tracer.Start(ctx, "tutor.run")
	span.SetAttributes(attribute.Int("tutor.code.bytes", len(code)))

	defer func() {
		outcome.Duration = time.Since(begin)
		if outcome.Err != nil {
			span.SetAttributes(attribute.String("tutor.error.kind", string(outcome.Err.Kind)))
			span.SetStatus(codes.Error, outcome.Err.Message)
			r.logger.InfoContext(ctx, "run failed",
				"kind", outcome.Err.Kind,
				"line", outcome.Err.Line,
				"error", logs.WrapSpan(ctx, outcome.Err),
				"duration", outcome.Duration,
			)
		} else {
			span.SetAttributes(attribute.Int("tutor.frames", len(outcome.Frames)))
			r.logger.InfoContext(ctx, "run done",
				"frames", len(outcome.Frames),
				"events", outcome.Events,
				"duration", outcome.Duration,
			)
		}
		span.End()
	}()

	defer func() {
		if p := recover(); p != nil {
			outcome = Outcome{
				Err: &sandboxes.Error{
					Kind:    sandboxes.KindInternal,
					Message: fmt.Sprintf("internal error: %v", p),
				},
			}
		}
	}()

	program, err := r.instrument(ctx, code)
	if err != nil {
		outcome.Err = err
		return
	}
	outcome.Stats = program.Stats

	evs, err := r.execute(ctx, program)
	if err != nil {
		outcome.Err = err
		return
	}
	outcome.Events = len(evs)

	outcome.Frames = r.reduce(ctx, evs)
	return
}

func (r *Runner) instrument(ctx context.Context, code string) (*instruments.Result, *sandboxes.Error) {
	_, span := r.tracer.Start(ctx, "tutor.instrument")
	defer span.End()

	program, err := instruments.Instrument(Filename, []byte(code))
	if err != nil {
		span.RecordError(err)
		var instErr *instruments.Error
		if errors.As(err, &instErr) && instErr.Syntax {
			return nil, &sandboxes.Error{
				Kind:    sandboxes.KindParse,
				Message: instErr.Error(),
				Line:    instErr.Line,
			}
		}
		return nil, &sandboxes.Error{
			Kind:    sandboxes.KindInternal,
			Message: err.Error(),
		}
	}

	span.SetAttributes(
		attribute.Int("tutor.instrument.functions", program.Stats.Functions),
		attribute.Int("tutor.instrument.steps", program.Stats.Steps),
		attribute.Int("tutor.instrument.checks", program.Stats.Checks),
	)
	return program, nil
}

func (r *Runner) execute(ctx context.Context, program *instruments.Result) ([]events.Event, *sandboxes.Error) {
	ctx, span := r.tracer.Start(ctx, "tutor.execute")
	defer span.End()

	evs, err := r.sandbox.Execute(ctx, program)
	if err != nil {
		span.RecordError(err)
		var sandboxErr *sandboxes.Error
		if errors.As(err, &sandboxErr) {
			return nil, sandboxErr
		}
		return nil, &sandboxes.Error{
			Kind:    sandboxes.KindInternal,
			Message: err.Error(),
		}
	}

	span.SetAttributes(attribute.Int("tutor.events", len(evs)))
	return evs, nil
}

func (r *Runner) reduce(ctx context.Context, evs []events.Event) []traces.Frame {
	_, span := r.tracer.Start(ctx, "tutor.reduce")
	defer span.End()
	frames := r.frames(evs)
	span.SetAttributes(attribute.Int("tutor.frames", len(frames)))
	return frames
}
