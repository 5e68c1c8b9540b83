package railz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/zoobzio/clockz"
)

// Error is the normalized error kind: every failure the engine itself
// originates (a recovered panic, an adapter-reported error) is an *Error[T].
// It wraps the underlying error with information about where and when the
// failure occurred, what data was being processed, and whether the failure
// was due to timeout or cancellation.
//
// Failures a stage returns deliberately are propagated verbatim and may
// carry any error; use errors.As to detect the normalized kind:
//
//	result := pipeline(ctx, input)
//	if _, err := railz.Resolve(result); err != nil {
//	    var pipeErr *railz.Error[railz.Context]
//	    if errors.As(err, &pipeErr) {
//	        log.Printf("failed at: %s", strings.Join(pipeErr.Path, " -> "))
//	        log.Printf("input: %+v", pipeErr.InputData)
//	        if pipeErr.IsTimeout() {
//	            // handle timeout specifically
//	        }
//	    }
//	}
type Error[T any] struct {
	InputData T
	Timestamp time.Time
	Err       error
	Path      []Name
	Duration  time.Duration
	Timeout   bool
	Canceled  bool
}

// Error implements the error interface, providing a detailed error message.
func (e *Error[T]) Error() string {
	if e == nil {
		return "<nil>"
	}

	location := "unknown"
	if len(e.Path) > 0 {
		location = strings.Join(e.Path, " -> ")
	}

	if e.Timeout {
		return fmt.Sprintf("%s timed out after %v: %v", location, e.Duration, e.Err)
	}
	if e.Canceled {
		return fmt.Sprintf("%s canceled after %v: %v", location, e.Duration, e.Err)
	}
	return fmt.Sprintf("%s failed after %v: %v", location, e.Duration, e.Err)
}

// Unwrap returns the underlying error, supporting error wrapping patterns.
func (e *Error[T]) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsTimeout returns true if the error was caused by a timeout.
func (e *Error[T]) IsTimeout() bool {
	if e == nil {
		return false
	}
	return e.Timeout || errors.Is(e.Err, context.DeadlineExceeded)
}

// IsCanceled returns true if the error was caused by cancellation.
func (e *Error[T]) IsCanceled() bool {
	if e == nil {
		return false
	}
	return e.Canceled || errors.Is(e.Err, context.Canceled)
}

// normalize is the failure constructor's dispatch, an ordered three-way
// probe over the cause:
//  1. an *Error[T], directly or anywhere in a wrap chain, passes through
//     by identity
//  2. any other error is wrapped as-is
//  3. everything else is converted to its string form and wrapped
//
// Only freshly constructed errors get a timestamp and context-sentinel
// classification; passed-through errors keep whatever they carried.
func normalize[T any](cause any) *Error[T] {
	switch c := cause.(type) {
	case *Error[T]:
		return c
	case error:
		var pipeErr *Error[T]
		if errors.As(c, &pipeErr) {
			return pipeErr
		}
		return &Error[T]{
			Err:       c,
			Timestamp: time.Now(),
			Timeout:   errors.Is(c, context.DeadlineExceeded),
			Canceled:  errors.Is(c, context.Canceled),
		}
	default:
		return &Error[T]{
			Err:       fmt.Errorf("%v", cause),
			Timestamp: time.Now(),
		}
	}
}

// panicFailure converts a recovered panic value into a failure Result
// attributed to name. A freshly normalized error (no path yet) is enriched
// with the input and elapsed time; an already-attributed error only gains
// the name at the front of its path, matching how failures climb through
// nested pipelines.
func panicFailure[T any](cause any, name Name, input T, start time.Time, clock clockz.Clock) Result[T] {
	pipeErr := normalize[T](cause)
	if pipeErr.Path == nil {
		pipeErr.InputData = input
		pipeErr.Duration = clock.Now().Sub(start)
	}
	pipeErr.Path = append([]Name{name}, pipeErr.Path...)
	return Result[T]{err: pipeErr}
}

// recoverFromPanic converts a panic into a normalized failure Result.
// Install with defer in any function that names its Result return:
//
//	func(ctx context.Context, value T) (res Result[T]) {
//	    defer recoverFromPanic(&res, name, value, time.Now(), clockz.RealClock)
//	    ...
//	}
func recoverFromPanic[T any](res *Result[T], name Name, input T, start time.Time, clock clockz.Clock) {
	if r := recover(); r != nil {
		*res = panicFailure(r, name, input, start, clock)
	}
}
