package logs

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

// WrapSpan joins the log span and the trace id of ctx to err, for errors logged
// away from their request.
func WrapSpan(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	errs := []error{err}
	if span := SpanFrom(ctx); span != "" {
		errs = append(errs, fmt.Errorf("span: %s", span))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		errs = append(errs, fmt.Errorf("trace: %s", sc.TraceID()))
	}
	if len(errs) == 1 {
		return err
	}
	return errors.Join(errs...)
}
