package railz

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Enrich lifts a function that attempts to enhance data into a best-effort
// Stage. Enrich is unique among the adapters - if the enrichment fails, the
// original value continues down the pipeline unchanged rather than stopping
// it. This makes it the right fit for optional enhancements that improve
// data quality but aren't required for processing.
//
// Common enrichment patterns:
//   - Adding user details from a cache or database
//   - Geocoding addresses to add coordinates
//   - Fetching current prices or exchange rates
//   - Looking up metadata from external services
//
// A swallowed failure is not silent: Enrich emits the enrich.skipped signal
// with the stage name and error so the misses stay visible. Panics are not
// swallowed - a panicking enrichment is a bug and fails the pipeline like
// any other stage.
//
// If the enhancement is mandatory, use Apply instead.
//
// Example:
//
//	addGeo := railz.Enrich("add_geo", func(ctx context.Context, c railz.Context) (railz.Context, error) {
//	    loc, err := geoService.Lookup(ctx, c["ip"].(string))
//	    if err != nil {
//	        return c, err // pipeline continues without location
//	    }
//	    c["location"] = loc
//	    return c, nil
//	})
func Enrich[T any](name Name, fn func(context.Context, T) (T, error)) Stage[T] {
	return func(ctx context.Context, value T) (res Result[T]) {
		defer recoverFromPanic(&res, name, value, time.Now(), clockz.RealClock)
		enriched, err := fn(ctx, value)
		if err != nil {
			capitan.Warn(ctx, SignalEnrichSkipped,
				FieldStageName.Field(string(name)),
				FieldError.Field(err.Error()),
				FieldTimestamp.Field(float64(time.Now().Unix())),
			)
			return Success(value)
		}
		return Success(enriched)
	}
}
