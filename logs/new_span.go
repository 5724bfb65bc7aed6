package logs

import (
	"context"
	"crypto/rand"
)

// NewSpan derives a context carrying a fresh span. An empty parent means the span
// in ctx, if any.
type NewSpan func(ctx context.Context, parent Span, what string) (context.Context, Span)

func (Module) NewSpan(
	logger Logger,
) NewSpan {
	return func(ctx context.Context, parent Span, what string) (context.Context, Span) {

		// creator
		creatorSpan := SpanFrom(ctx)
		if parent == "" {
			parent = creatorSpan
		}

		// span
		span := Span(rand.Text())
		ctx = context.WithValue(ctx, SpanKey, span)

		// logs
		args := []any{"what", what}
		if creatorSpan != "" && creatorSpan != parent {
			args = append(args, "creator", creatorSpan)
		}
		if parent != "" {
			args = append(args, "parent", parent)
		}
		logger.DebugContext(ctx, "new span", args...)

		return ctx, span
	}
}
