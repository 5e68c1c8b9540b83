package railz

import (
	"context"
	"errors"
	"time"

	"github.com/zoobzio/clockz"
)

// Apply lifts a function that transforms data and may return an error into
// a Stage. Apply is the workhorse adapter - use it when your transformation
// might fail due to validation, parsing, external calls, or business rule
// violations.
//
// The function receives a context for timeout/cancellation support;
// long-running operations should check ctx.Err() periodically. An error
// becomes a failure Result carrying a normalized *Error[T] attributed to
// name, so the pipeline short-circuits with full debugging context.
//
// Apply is ideal for:
//   - Data validation with transformation
//   - API calls that return modified data
//   - Database lookups that enhance data
//   - Parsing operations that might fail
//   - Business rule enforcement
//
// For pure transformations that can't fail, use Transform. For operations
// that should continue on failure, use Enrich.
//
// Example:
//
//	parseUser := railz.Apply("parse_user", func(ctx context.Context, c railz.Context) (railz.Context, error) {
//	    raw, ok := c["raw"].(string)
//	    if !ok {
//	        return nil, fmt.Errorf("raw payload missing")
//	    }
//	    var user User
//	    if err := json.Unmarshal([]byte(raw), &user); err != nil {
//	        return nil, fmt.Errorf("invalid JSON: %w", err)
//	    }
//	    c["user"] = user
//	    return c, nil
//	})
func Apply[T any](name Name, fn func(context.Context, T) (T, error)) Stage[T] {
	return func(ctx context.Context, value T) (res Result[T]) {
		start := time.Now()
		defer recoverFromPanic(&res, name, value, start, clockz.RealClock)
		out, err := fn(ctx, value)
		if err != nil {
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
		return Success(out)
	}
}
