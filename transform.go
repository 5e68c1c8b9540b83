package railz

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

// Transform lifts a pure transformation function into a Stage. Transform is
// the simplest adapter - use it when your operation always succeeds and
// modifies the data in a predictable way.
//
// The transformation function cannot fail, making Transform ideal for:
//   - Data formatting (uppercase, trimming, restructuring)
//   - Mathematical calculations that can't error
//   - Field mapping
//   - Adding computed values
//
// If your transformation might fail, use Apply instead. If you need
// conditional transformation, use When. The name only shows up in failure
// paths when the function panics, where it attributes the recovered
// failure.
//
// Example:
//
//	stamp := railz.Transform("stamp", func(_ context.Context, c railz.Context) railz.Context {
//	    c["processed_at"] = time.Now().UTC()
//	    return c
//	})
func Transform[T any](name Name, fn func(context.Context, T) T) Stage[T] {
	return func(ctx context.Context, value T) (res Result[T]) {
		defer recoverFromPanic(&res, name, value, time.Now(), clockz.RealClock)
		return Success(fn(ctx, value))
	}
}
