package railz

// Result is the two-variant outcome of a stage: success carrying a value,
// or failure carrying an error. Exactly one of the two is meaningful,
// determined solely by the discriminant - a failure's value and a success's
// error are never inspected.
//
// Results replace raised errors on expected failure paths so that error
// propagation through a pipeline is explicit and type-checked. Construct
// them with Success and Failure; the zero Result is a failure carrying no
// error and is not meaningful.
//
// Result values are small and passed by value. The carried success value is
// not copied, so for reference types (maps, slices, pointers) the Result
// shares identity with what the stage produced.
type Result[T any] struct {
	value T
	err   error
	ok    bool
}

// Success wraps a value in the success variant. It accepts any value of T
// with no validation, including zero values and nil maps or pointers.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value, ok: true}
}

// Failure wraps an arbitrary cause in the failure variant, guaranteeing the
// carried error is an *Error[T]. The cause may be anything a recover or a
// catch-all handler might produce:
//   - an *Error[T], or an error wrapping one, passes through unchanged:
//     identity is preserved and nothing is double-wrapped
//   - any other error is wrapped; its message stays reachable through
//     Unwrap, errors.Is, and errors.As
//   - any other value is converted to its string form first
//
// Failure never panics; it is total over all inputs including nil.
func Failure[T any](cause any) Result[T] {
	return Result[T]{err: normalize[T](cause)}
}

// IsSuccess reports whether the Result is the success variant.
func (r Result[T]) IsSuccess() bool {
	return r.ok
}

// IsFailure reports whether the Result is the failure variant.
func (r Result[T]) IsFailure() bool {
	return !r.ok
}

// Value returns the carried success value. For a failure it returns the
// zero value of T; check the discriminant first, or use Resolve.
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the carried error for a failure, nil for a success.
func (r Result[T]) Err() error {
	return r.err
}
