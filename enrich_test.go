package railz

import (
	"context"
	"errors"
	"testing"
)

func TestEnrich(t *testing.T) {
	t.Run("Enrich Success", func(t *testing.T) {
		// Simulate successful enrichment
		const addCustomerName Name = "add_customer_name"
		enricher := Enrich(addCustomerName, func(_ context.Context, c Context) (Context, error) {
			// Simulate DB lookup
			if c["customer_id"] == "123" {
				c["customer_name"] = "Alice Smith"
			}
			return c, nil
		})

		res := enricher(context.Background(), Context{"order_id": "order-1", "customer_id": "123"})
		if res.IsFailure() {
			t.Fatalf("enrich should not fail: %v", res.Err())
		}
		if res.Value()["customer_name"] != "Alice Smith" {
			t.Errorf("expected customer name to be added")
		}
	})

	t.Run("Enrich Failure Returns Original", func(t *testing.T) {
		type Product struct {
			ID    string
			Name  string
			Price float64
		}

		// Simulate enrichment that fails
		const addPrice Name = "add_price"
		enricher := Enrich(addPrice, func(_ context.Context, p Product) (Product, error) {
			// Simulate external service failure
			return p, errors.New("price service unavailable")
		})

		product := Product{ID: "prod-1", Name: "Widget"}
		res := enricher(context.Background(), product)
		if res.IsFailure() {
			t.Fatalf("enrich should not propagate error: %v", res.Err())
		}
		if res.Value() != product {
			t.Errorf("expected original product on enrichment failure")
		}
	})

	t.Run("Enrich Best Effort", func(t *testing.T) {
		type Event struct {
			ID       string
			Type     string
			Location string
			Weather  string
		}

		callCount := 0
		const addWeather Name = "add_weather"
		weatherService := Enrich(addWeather, func(_ context.Context, e Event) (Event, error) {
			callCount++
			// Fail every other call
			if callCount%2 == 0 {
				return e, errors.New("weather service timeout")
			}
			e.Weather = "sunny"
			return e, nil
		})

		// First call succeeds
		event1 := Event{ID: "1", Type: "outdoor", Location: "park"}
		res1 := weatherService(context.Background(), event1)
		if res1.IsFailure() {
			t.Fatalf("unexpected error on first call: %v", res1.Err())
		}
		if res1.Value().Weather != "sunny" {
			t.Error("expected weather to be added on success")
		}

		// Second call fails but returns original
		event2 := Event{ID: "2", Type: "outdoor", Location: "beach"}
		res2 := weatherService(context.Background(), event2)
		if res2.IsFailure() {
			t.Errorf("unexpected error: %v (Enrich should swallow errors)", res2.Err())
		}
		if res2.Value().Weather != "" {
			t.Error("expected no weather on failure")
		}

		if callCount != 2 {
			t.Errorf("enrichment function should be called for each invocation")
		}
	})

	t.Run("Enrich Panic Is Not Swallowed", func(t *testing.T) {
		// Errors are best-effort; panics are bugs and surface as failures
		const explode Name = "explode"
		enricher := Enrich(explode, func(_ context.Context, _ Context) (Context, error) {
			panic("enrichment bug")
		})

		res := enricher(context.Background(), Context{"id": "1"})
		if res.IsSuccess() {
			t.Fatal("expected failure from panic")
		}

		var pipeErr *Error[Context]
		if !errors.As(res.Err(), &pipeErr) {
			t.Fatal("expected railz.Error")
		}
		if len(pipeErr.Path) != 1 || pipeErr.Path[0] != "explode" {
			t.Errorf("expected path [explode], got %v", pipeErr.Path)
		}
	})
}
