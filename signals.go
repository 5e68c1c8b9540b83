package railz

import "github.com/zoobzio/capitan"

// Signal definitions for railz pipeline events.
// Signals follow the pattern: <component>.<event>.
var (
	// Pipeline signals.
	SignalStageFailed = capitan.NewSignal(
		"pipeline.stage-failed",
		"A stage returned a failure Result and the run short-circuited",
	)
	SignalStagePanicked = capitan.NewSignal(
		"pipeline.stage-panicked",
		"A panic escaped during a run and was normalized into a failure; stage -1 means the clone step",
	)

	// Enrich signals.
	SignalEnrichSkipped = capitan.NewSignal(
		"enrich.skipped",
		"An enrichment stage failed and its changes were discarded; the original value continues",
	)
)

// Common field keys using capitan primitive types.
// All keys use primitive types to avoid custom struct serialization.
var (
	FieldPipeline  = capitan.NewStringKey("pipeline")   // Pipeline instance name
	FieldStage     = capitan.NewIntKey("stage")         // Stage index (0-based)
	FieldStageName = capitan.NewStringKey("stage_name") // Adapter stage name
	FieldRunID     = capitan.NewStringKey("run_id")     // Run identifier
	FieldError     = capitan.NewStringKey("error")      // Error message
	FieldTimestamp = capitan.NewFloat64Key("timestamp") // Unix timestamp
)
