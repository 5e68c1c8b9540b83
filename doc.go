// Package railz provides Result-based sequential pipeline composition for Go.
//
// # Overview
//
// railz lets a caller chain fallible transformation stages over a shared
// context value, short-circuiting on the first failure and normalizing all
// engine-originated failures into a single rich error type. Instead of
// returning (T, error) pairs or panicking across layers, every stage
// reports its outcome as a Result - success carrying the next context
// value, or failure carrying an error - so error propagation through a
// multi-step workflow is explicit, type-checked, and exception-free.
//
// # Core Concepts
//
// The library is built around a small set of pieces:
//
//   - Result[T]: A two-variant value, success-with-value or failure-with-error
//   - Stage[T]: The step contract, func(context.Context, T) Result[T]
//   - Compose: Chains stages into one stage, first failure wins
//   - Resolve: Converts a Result back to (value, error) at system boundaries
//   - Context: An open map[string]any context type with deep Clone and
//     shallow Merge, for pipelines without a fixed schema
//   - Error[T]: The normalized error kind carrying path, input, timing, and
//     timeout/cancellation classification
//
// Any type implementing Cloner[T] can serve as the context; Context is the
// ready-made open form. Composed stages are themselves stages, so pipelines
// nest freely.
//
// # Adapter Functions
//
// Adapters lift ordinary functions into stages and attach a name used in
// failure reporting:
//
//   - Transform: Pure transformations that cannot fail
//   - Apply: Operations that transform data and might fail
//   - Effect: Side effects that pass the value through unchanged
//   - When: Conditional transformation behind a predicate
//   - Enrich: Best-effort enhancements that never fail the pipeline
//
// # Modes
//
// Compose clones the input once before the first stage; each successful
// stage's return replaces the working value wholesale, and the caller's
// input is never touched. ComposeWith(name, Options{Mutate: true}, ...)
// instead runs in place: the caller's value is the working value, and each
// stage's return is shallow-merged back into it, so the original reference
// accumulates every change. Merge-in-place needs the context type to
// implement Merger[T]; Context does.
//
// # Usage Example
//
//	import (
//	    "context"
//	    "errors"
//	    "strings"
//
//	    "github.com/zoobzio/railz"
//	)
//
//	validate := railz.Effect("validate", func(_ context.Context, c railz.Context) error {
//	    if c["email"] == nil {
//	        return errors.New("missing email")
//	    }
//	    return nil
//	})
//
//	normalize := railz.Transform("normalize", func(_ context.Context, c railz.Context) railz.Context {
//	    c["email"] = strings.ToLower(c["email"].(string))
//	    return c
//	})
//
//	register := railz.Apply("register", func(ctx context.Context, c railz.Context) (railz.Context, error) {
//	    id, err := accounts.Create(ctx, c["email"].(string))
//	    if err != nil {
//	        return nil, err
//	    }
//	    c["account_id"] = id
//	    return c, nil
//	})
//
//	signup := railz.Compose("signup", validate, normalize, register)
//
//	result := signup(ctx, railz.Context{"email": "User@Example.com"})
//	out, err := railz.Resolve(result)
//
// # Error Handling
//
// Failures come in two kinds. A stage may return a failure Result carrying
// any error it chooses; the engine propagates it verbatim. A stage may also
// panic - the engine recovers at the run boundary and normalizes the panic
// value into an *Error[T], the same type adapters produce, so one errors.As
// check covers every engine-originated failure:
//
//	out, err := railz.Resolve(signup(ctx, input))
//	if err != nil {
//	    var pipeErr *railz.Error[railz.Context]
//	    if errors.As(err, &pipeErr) {
//	        log.Printf("failed at %s after %v", strings.Join(pipeErr.Path, " -> "), pipeErr.Duration)
//	    }
//	}
//
// The composed stage itself never panics; the only place an error crosses
// back into panic semantics is MustResolve, and only when explicitly
// called.
//
// # Observability
//
// Every pipeline carries its own metrics registry, tracer, and event hooks;
// failure paths additionally emit capitan signals. None of it touches the
// data flow. Compose hides the runner; NewPipeline exposes it:
//
//	p := railz.NewPipeline("signup", railz.Options{}, validate, normalize, register)
//	defer p.Close()
//	p.OnStageComplete(func(_ context.Context, e railz.PipelineEvent) error {
//	    log.Printf("%s stage %d/%d ok=%v", e.Name, e.StageNumber, e.TotalStages, e.Success)
//	    return nil
//	})
//
// # Best Practices
//
//  1. Keep stages small and focused on a single responsibility
//  2. Use descriptive names with adapters to aid debugging
//  3. In clone mode, always return the value you received plus your
//     changes - a partial return truncates earlier stages' work
//  4. Prefer returning failure Results over panicking; the panic path is
//     for bugs, not control flow
//  5. Check ctx in long-running stages; the engine threads it through but
//     never aborts a run on its own
//  6. Use Effect for side effects to keep transformations pure
//  7. Test stages in isolation before composing
//  8. Resolve at system boundaries, not inside stages
package railz
