package railz

// advancePolicy isolates the two aliasing disciplines a pipeline can run
// under. begin establishes the working value for one run; advance folds a
// successful stage's return into the working value. Everything else in the
// engine is identical between modes.
type advancePolicy[T any] interface {
	begin(input T) T
	advance(current, next T) T
}

// clonePolicy is the default discipline: the input is duplicated once, up
// front, and each stage's return replaces the working value wholesale.
// A stage returning a partial value therefore truncates earlier stages'
// contributions - returning the full received value plus changes is a
// stage-author contract the engine cannot check.
type clonePolicy[T Cloner[T]] struct{}

func (clonePolicy[T]) begin(input T) T { return input.Clone() }

func (clonePolicy[T]) advance(_, next T) T { return next }

// mutatePolicy passes the caller's value straight through and folds each
// stage's return back into it by shallow merge when T implements Merger[T],
// keeping the caller's reference identical to the working value for the
// whole run. Types without Merge degrade to replacement, in which case
// identity is only preserved if stages return the value they received.
type mutatePolicy[T Cloner[T]] struct{}

func (mutatePolicy[T]) begin(input T) T { return input }

func (mutatePolicy[T]) advance(current, next T) T {
	if m, ok := any(current).(Merger[T]); ok {
		m.Merge(next)
		return current
	}
	return next
}
