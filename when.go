package railz

import (
	"context"
	"time"

	"github.com/zoobzio/clockz"
)

// When lifts a predicate and a transformation into a Stage that applies the
// transformation only when the predicate returns true. When false, data
// passes through unchanged.
//
// This pattern is cleaner than embedding if-statements in Transform
// functions and makes the condition explicit and testable on its own.
// Use When for:
//   - Feature flags (transform only for enabled users)
//   - A/B testing (apply changes to a test group)
//   - Conditional formatting based on data values
//   - Business rules that apply to a subset of data
//
// The transformer cannot fail - use Apply with conditional logic inside if
// you need error handling on the conditional path.
//
// Example:
//
//	discount := railz.When("premium_discount",
//	    func(_ context.Context, c railz.Context) bool {
//	        tier, _ := c["tier"].(string)
//	        return tier == "premium"
//	    },
//	    func(_ context.Context, c railz.Context) railz.Context {
//	        c["discount"] = 0.2
//	        return c
//	    },
//	)
func When[T any](name Name, condition func(context.Context, T) bool, fn func(context.Context, T) T) Stage[T] {
	return func(ctx context.Context, value T) (res Result[T]) {
		defer recoverFromPanic(&res, name, value, time.Now(), clockz.RealClock)
		if condition(ctx, value) {
			return Success(fn(ctx, value))
		}
		return Success(value)
	}
}
