package railz

import "maps"

// Context is the open key/value data threaded through a pipeline run.
// It assumes nothing about which keys exist - shape-checking the contents
// is entirely the caller's business. Contexts are serializable by
// convention; Encode and Decode provide the standard wire form.
//
// Context satisfies both Cloner and Merger, so it works in either pipeline
// mode without further ceremony. Callers with a fixed schema should prefer
// a struct type implementing Cloner; Context is for genuinely open data.
type Context map[string]any

// Clone returns a structural deep copy: nested string-keyed maps and slices
// are duplicated recursively, so changes inside the clone never show up in
// the original. Values of any other type - pointers, channels, open
// handles, funcs - are shared between original and clone, since there is
// no general way to duplicate them. Callers embedding live resources in a
// context own the consequences of that sharing.
//
// Cloning a nil Context returns an empty, writable Context.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = cloneValue(v)
	}
	return out
}

// Merge copies the overlay's keys into c in place. Keys present in the
// overlay overwrite; keys absent from it are preserved. The copy is
// shallow: merged values are shared with the overlay. Merging into a nil
// Context panics, as any nil map write does.
func (c Context) Merge(overlay Context) {
	maps.Copy(c, overlay)
}

// cloneValue duplicates JSON-like structure and shares everything else.
func cloneValue(v any) any {
	switch val := v.(type) {
	case Context:
		return val.Clone()
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
