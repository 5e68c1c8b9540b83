package railz

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestContextClone(t *testing.T) {
	t.Run("Top Level Copy", func(t *testing.T) {
		original := Context{"user": "alice", "age": 30}

		clone := original.Clone()
		clone["user"] = "bob"
		clone["role"] = "admin"

		want := Context{"user": "alice", "age": 30}
		if diff := cmp.Diff(want, original); diff != "" {
			t.Errorf("original mutated through clone (-want +got):\n%s", diff)
		}
		if clone["user"] != "bob" || clone["role"] != "admin" {
			t.Error("clone should carry its own writes")
		}
	})

	t.Run("Nested Maps Are Deep Copied", func(t *testing.T) {
		original := Context{
			"profile": Context{"email": "a@example.com"},
			"attrs":   map[string]any{"plan": "free"},
			"tags":    []any{"new", "beta"},
		}

		clone := original.Clone()
		clone["profile"].(Context)["email"] = "b@example.com"
		clone["attrs"].(map[string]any)["plan"] = "pro"
		clone["tags"].([]any)[0] = "old"

		want := Context{
			"profile": Context{"email": "a@example.com"},
			"attrs":   map[string]any{"plan": "free"},
			"tags":    []any{"new", "beta"},
		}
		if diff := cmp.Diff(want, original); diff != "" {
			t.Errorf("nested values shared with clone (-want +got):\n%s", diff)
		}
	})

	t.Run("Preserves Dynamic Types", func(t *testing.T) {
		original := Context{
			"ctx": Context{"k": 1},
			"map": map[string]any{"k": 2},
		}

		clone := original.Clone()

		if _, ok := clone["ctx"].(Context); !ok {
			t.Errorf("expected nested Context to stay Context, got %T", clone["ctx"])
		}
		if _, ok := clone["map"].(map[string]any); !ok {
			t.Errorf("expected nested map to stay map[string]any, got %T", clone["map"])
		}
	})

	t.Run("Shares Foreign Leaves", func(t *testing.T) {
		type account struct {
			Name string
		}
		acct := &account{Name: "alice"}
		original := Context{"account": acct}

		clone := original.Clone()

		// Values the clone does not know how to copy are shared, not
		// duplicated; deep copy covers only maps and slices of any.
		if clone["account"] != acct {
			t.Error("expected pointer leaf to be shared with the clone")
		}
	})

	t.Run("Nil Context Clones To Writable Empty", func(t *testing.T) {
		var original Context

		clone := original.Clone()
		if clone == nil {
			t.Fatal("expected non-nil clone of nil context")
		}
		if len(clone) != 0 {
			t.Errorf("expected empty clone, got %d entries", len(clone))
		}

		// Must be writable: stages receive this after a nil input.
		clone["k"] = "v"
		if clone["k"] != "v" {
			t.Error("expected clone to accept writes")
		}
	})
}

func TestContextMerge(t *testing.T) {
	t.Run("Overlay Wins On Conflict", func(t *testing.T) {
		base := Context{"user": "alice", "plan": "free"}
		overlay := Context{"plan": "pro", "verified": true}

		base.Merge(overlay)

		want := Context{"user": "alice", "plan": "pro", "verified": true}
		if diff := cmp.Diff(want, base); diff != "" {
			t.Errorf("merge result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Empty Overlay Is A No-Op", func(t *testing.T) {
		base := Context{"user": "alice"}

		base.Merge(Context{})
		base.Merge(nil)

		want := Context{"user": "alice"}
		if diff := cmp.Diff(want, base); diff != "" {
			t.Errorf("merge result mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("Merge Is Shallow", func(t *testing.T) {
		nested := Context{"email": "a@example.com"}
		base := Context{}

		base.Merge(Context{"profile": nested})

		// The overlay's values are adopted by reference.
		nested["email"] = "b@example.com"
		if base["profile"].(Context)["email"] != "b@example.com" {
			t.Error("expected merged nested map to be shared by reference")
		}
	})
}
