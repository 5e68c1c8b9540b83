package railz

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestTransform(t *testing.T) {
	t.Run("Basic Transform", func(t *testing.T) {
		// Create a simple string transformer
		toUpper := Transform("to_upper", func(_ context.Context, s string) string {
			return strings.ToUpper(s)
		})

		res := toUpper(context.Background(), "hello")
		if res.IsFailure() {
			t.Fatalf("transform should not fail: %v", res.Err())
		}
		if res.Value() != "HELLO" {
			t.Errorf("expected HELLO, got %s", res.Value())
		}
	})

	t.Run("Transform Never Fails", func(t *testing.T) {
		// A transformer has no error channel; edge cases are handled inline
		divider := Transform("divide", func(_ context.Context, n int) int {
			if n == 0 {
				return 0
			}
			return 100 / n
		})

		res := divider(context.Background(), 0)
		if res.IsFailure() {
			t.Fatalf("transform should never fail: %v", res.Err())
		}
		if res.Value() != 0 {
			t.Errorf("expected 0, got %d", res.Value())
		}
	})

	t.Run("Transform With Context Check", func(t *testing.T) {
		// Transform can check context but reports no context errors
		transformer := Transform("context_aware", func(ctx context.Context, s string) string {
			select {
			case <-ctx.Done():
				return "canceled"
			default:
				return s + "_processed"
			}
		})

		res := transformer(context.Background(), "test")
		if res.IsFailure() {
			t.Fatalf("unexpected error: %v", res.Err())
		}
		if res.Value() != "test_processed" {
			t.Errorf("expected test_processed, got %s", res.Value())
		}
	})

	t.Run("Transform Panic Recovery", func(t *testing.T) {
		panicTransform := Transform("panic_transform", func(_ context.Context, _ string) string {
			panic("test panic in transform")
		})

		res := panicTransform(context.Background(), "test")

		if res.IsSuccess() {
			t.Fatal("expected failure from panic")
		}

		var pipeErr *Error[string]
		if !errors.As(res.Err(), &pipeErr) {
			t.Fatal("expected railz.Error")
		}

		if len(pipeErr.Path) != 1 || pipeErr.Path[0] != "panic_transform" {
			t.Errorf("expected path [panic_transform], got %v", pipeErr.Path)
		}

		if pipeErr.InputData != "test" {
			t.Errorf("expected input data 'test', got %q", pipeErr.InputData)
		}

		if pipeErr.Err.Error() != "test panic in transform" {
			t.Errorf("expected panic message preserved, got %q", pipeErr.Err.Error())
		}
	})

	t.Run("Transform On Context Values", func(t *testing.T) {
		addRole := Transform("add_role", func(_ context.Context, c Context) Context {
			c["role"] = "admin"
			return c
		})

		res := addRole(context.Background(), Context{"user": "alice"})
		if res.IsFailure() {
			t.Fatalf("unexpected error: %v", res.Err())
		}
		if res.Value()["role"] != "admin" {
			t.Error("expected role to be added")
		}
		if res.Value()["user"] != "alice" {
			t.Error("expected existing keys preserved")
		}
	})
}
