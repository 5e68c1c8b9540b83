package railz

// Resolve converts a Result into Go's value-or-error form. Success yields
// the carried value and a nil error; failure yields the zero value of T and
// the carried error exactly as stored - no re-wrapping, no normalization,
// whatever error the Result carries is what the caller receives.
//
// Resolve is the single sanctioned seam between the Result-based pipeline
// contract and conventional error-returning code:
//
//	result := pipeline(ctx, input)
//	out, err := railz.Resolve(result)
//	if err != nil {
//	    return err
//	}
func Resolve[T any](r Result[T]) (T, error) {
	if r.IsFailure() {
		var zero T
		return zero, r.err
	}
	return r.value, nil
}

// MustResolve returns the success value or panics with the carried error,
// verbatim. It is the throwing twin of Resolve, for tests and
// initialization paths where a failure is a programming error.
func MustResolve[T any](r Result[T]) T {
	if r.IsFailure() {
		panic(r.err)
	}
	return r.value
}
