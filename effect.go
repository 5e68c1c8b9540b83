package railz

import (
	"context"
	"errors"
	"time"

	"github.com/zoobzio/clockz"
)

// Effect lifts a side-effecting function into a Stage that passes its input
// through unchanged. Use Effect for operations that observe data without
// modifying it - the returned stage always hands the next stage the exact
// value it received, keeping the side effect honest.
//
// Common uses:
//   - Validation that only inspects (return an error to fail the pipeline)
//   - Audit logging and event emission
//   - Sending notifications
//   - Recording metrics about the data
//
// An error fails the pipeline with a normalized *Error[T] attributed to
// name, exactly like Apply. If the side effect is optional and failure
// should not stop processing, wrap it in Enrich instead.
//
// Example:
//
//	audit := railz.Effect("audit", func(ctx context.Context, c railz.Context) error {
//	    return auditLog.Record(ctx, c["order_id"])
//	})
func Effect[T any](name Name, fn func(context.Context, T) error) Stage[T] {
	return func(ctx context.Context, value T) (res Result[T]) {
		start := time.Now()
		defer recoverFromPanic(&res, name, value, start, clockz.RealClock)
		if err := fn(ctx, value); err != nil {
			return Result[T]{err: &Error[T]{
				Path:      []Name{name},
				InputData: value,
				Err:       err,
				Timestamp: time.Now(),
				Duration:  time.Since(start),
				Timeout:   errors.Is(err, context.DeadlineExceeded),
				Canceled:  errors.Is(err, context.Canceled),
			}}
		}
		return Success(value)
	}
}
