package railz

import "context"

// Stage is the contract every pipeline step satisfies: it receives the
// current context value and reports its outcome as a Result rather than
// raising it. A stage that blocks should honor ctx; the engine threads the
// caller's context through every stage untouched.
//
// Stage is a function type, not an interface, so pipeline steps can be
// written three ways interchangeably:
//   - as literals, for one-off glue
//   - via adapter constructors (Apply, Transform, Effect, When, Enrich),
//     which lift ordinary functions and attach a name for failure reporting
//   - by composing other stages with Compose, since the composed form has
//     the same signature
//
// A stage signals failure either by returning a failure Result or by
// panicking; inside a composed pipeline both surface as the run's failure.
// Stage authors should prefer the Result form - the panic path exists so
// that bugs in stage code cannot unwind through the engine into the caller.
//
// Example:
//
//	var verify railz.Stage[railz.Context] = func(ctx context.Context, c railz.Context) railz.Result[railz.Context] {
//	    if c["user"] == nil {
//	        return railz.Failure[railz.Context](errors.New("missing user"))
//	    }
//	    return railz.Success(c)
//	}
type Stage[T any] func(ctx context.Context, value T) Result[T]

// Name is a type alias for stage and pipeline names.
// Using this type encourages storing names as constants rather than
// using inline strings throughout your code.
//
// Example:
//
//	const (
//	    ValidateOrderName  Name = "validate-order"
//	    EnrichCustomerName Name = "enrich-customer"
//	    ProcessPaymentName Name = "process-payment"
//	)
//
//	validateOrder := railz.Apply(ValidateOrderName, validateFunc)
//	enrichCustomer := railz.Transform(EnrichCustomerName, enrichFunc)
type Name = string

// Cloner is the capability a context type must provide to be composed.
// In the default (non-mutate) mode the engine duplicates the input once,
// before the first stage runs, so no pipeline run can alter the caller's
// value.
//
// The Clone method must return a deep copy where modifications to the clone
// do not affect the original value. For types containing pointers, slices,
// or maps, ensure these are also copied to achieve true isolation.
//
// The Context map type satisfies Cloner out of the box. A struct context
// implements it by hand:
//
//	type Order struct {
//	    ID       string
//	    Items    []Item
//	    Metadata map[string]string
//	}
//
//	func (o Order) Clone() Order {
//	    items := make([]Item, len(o.Items))
//	    copy(items, o.Items)
//
//	    metadata := make(map[string]string, len(o.Metadata))
//	    for k, v := range o.Metadata {
//	        metadata[k] = v
//	    }
//
//	    return Order{ID: o.ID, Items: items, Metadata: metadata}
//	}
type Cloner[T any] interface {
	Clone() T
}

// Merger is the optional capability that makes mutate mode accumulate
// in place. After a successful stage, a mutate-mode pipeline calls
// Merge on the working value with the stage's returned value: keys the
// stage returned overwrite, everything else is preserved, and the
// caller's original reference keeps reflecting every change.
//
// Context satisfies Merger with shallow map-copy semantics. Types that
// do not implement Merger still compose in mutate mode; the working
// value is then replaced by each stage's return value instead of merged.
type Merger[T any] interface {
	Merge(overlay T)
}
