package railz

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
	"github.com/zoobzio/hookz"
	"github.com/zoobzio/metricz"
	"github.com/zoobzio/tracez"
)

// Observability constants for the Pipeline runner.
const (
	// Metrics.
	PipelineRunsTotal       = metricz.Key("pipeline.runs.total")
	PipelineSuccessesTotal  = metricz.Key("pipeline.successes.total")
	PipelineFailuresTotal   = metricz.Key("pipeline.failures.total")
	PipelinePanicsTotal     = metricz.Key("pipeline.panics.total")
	PipelineStagesCompleted = metricz.Key("pipeline.stages.completed")
	PipelineStagesTotal     = metricz.Key("pipeline.stages.total")
	PipelineDurationMs      = metricz.Key("pipeline.duration.ms")

	// Spans.
	PipelineRunSpan   = tracez.Key("pipeline.run")
	PipelineStageSpan = tracez.Key("pipeline.stage")

	// Tags.
	PipelineTagName       = tracez.Tag("pipeline.name")
	PipelineTagRunID      = tracez.Tag("pipeline.run_id")
	PipelineTagMode       = tracez.Tag("pipeline.mode")
	PipelineTagStageCount = tracez.Tag("pipeline.stage_count")
	PipelineTagStageIndex = tracez.Tag("pipeline.stage_index")
	PipelineTagSuccess    = tracez.Tag("pipeline.success")
	PipelineTagError      = tracez.Tag("pipeline.error")

	// Hook event keys.
	PipelineEventStageComplete = hookz.Key("pipeline.stage_complete")
	PipelineEventAllComplete   = hookz.Key("pipeline.all_complete")
)

// ErrEmptyPipeline is returned by Shift and Pop when no stages remain.
var ErrEmptyPipeline = errors.New("pipeline is empty")

// PipelineEvent represents a pipeline processing event.
// Events are emitted via hookz as individual stages complete and when a run
// finishes with every stage successful, providing visibility into pipeline
// progress without touching the data flow.
type PipelineEvent struct {
	Name            Name          // Pipeline name
	RunID           string        // Identifier of this run
	StageNumber     int           // Current stage number (1-based)
	TotalStages     int           // Total number of stages
	Success         bool          // Whether the stage succeeded
	Error           error         // Error if the stage failed
	Duration        time.Duration // How long this stage took
	CompletedStages int           // Number of stages completed (for all_complete)
	TotalDuration   time.Duration // Total time for the run (for all_complete)
	Mutate          bool          // Whether the run used mutate mode
	Timestamp       time.Time     // When the event occurred
}

// Options configures how a composed pipeline treats the context value.
type Options struct {
	// Mutate selects in-place mutation of the caller's context across
	// stages instead of cloning it before the run. Successful
	// stage returns are merged into the original object when the context
	// type implements Merger[T], so the caller's reference accumulates
	// every change. Two concurrent runs sharing one context reference
	// under mutate mode race by caller choice.
	Mutate bool

	// Clock supplies timestamps and durations for runs. Nil means the
	// real clock; tests inject a fake for deterministic timing.
	Clock clockz.Clock
}

// Pipeline is the runner behind a composed stage: an ordered, thread-safe
// list of stages executed strictly sequentially over a working context
// value, short-circuiting on the first failure.
//
// Most callers never see a Pipeline - Compose returns only the bound stage
// function. Construct one directly with NewPipeline when you need dynamic
// stage management, event hooks, metrics, or lifecycle control.
//
// # Observability
//
// Metrics:
//   - pipeline.runs.total: Counter of runs started
//   - pipeline.successes.total: Counter of all-stage-successful runs
//   - pipeline.failures.total: Counter of failed runs
//   - pipeline.panics.total: Counter of panics normalized into failures
//   - pipeline.stages.completed: Gauge of stages completed in the last run
//   - pipeline.stages.total: Gauge of total stages
//   - pipeline.duration.ms: Gauge of last run duration
//
// Traces:
//   - pipeline.run: Parent span for the entire run
//   - pipeline.stage: Child span per stage
//
// Events (via hooks):
//   - pipeline.stage_complete: Fired as each stage completes
//   - pipeline.all_complete: Fired when every stage succeeds
//
// Example:
//
//	p := railz.NewPipeline("checkout", railz.Options{},
//	    validateCart,
//	    priceItems,
//	    chargeCard,
//	)
//	defer p.Close()
//
//	p.OnStageComplete(func(_ context.Context, e railz.PipelineEvent) error {
//	    log.Printf("stage %d/%d of %s: ok=%v in %v",
//	        e.StageNumber, e.TotalStages, e.Name, e.Success, e.Duration)
//	    return nil
//	})
//
//	result := p.Process(ctx, order)
type Pipeline[T Cloner[T]] struct {
	name    Name
	stages  []Stage[T]
	policy  advancePolicy[T]
	opts    Options
	mu      sync.RWMutex
	metrics *metricz.Registry
	tracer  *tracez.Tracer
	hooks   *hookz.Hooks[PipelineEvent]
}

// NewPipeline creates a Pipeline runner with optional initial stages.
// The pipeline is ready to use immediately and can be safely accessed
// concurrently; more stages can be added with Register and the other
// modification methods before running.
func NewPipeline[T Cloner[T]](name Name, opts Options, stages ...Stage[T]) *Pipeline[T] {
	// Initialize observability
	metrics := metricz.New()
	metrics.Counter(PipelineRunsTotal)
	metrics.Counter(PipelineSuccessesTotal)
	metrics.Counter(PipelineFailuresTotal)
	metrics.Counter(PipelinePanicsTotal)
	metrics.Gauge(PipelineStagesCompleted)
	metrics.Gauge(PipelineStagesTotal)
	metrics.Gauge(PipelineDurationMs)

	var policy advancePolicy[T] = clonePolicy[T]{}
	if opts.Mutate {
		policy = mutatePolicy[T]{}
	}

	return &Pipeline[T]{
		name:    name,
		stages:  slices.Clone(stages),
		policy:  policy,
		opts:    opts,
		metrics: metrics,
		tracer:  tracez.New(),
		hooks:   hookz.New[PipelineEvent](),
	}
}

// Compose chains stages into a single stage with the same contract. The
// returned stage runs them strictly in order on a working copy of its
// input: the input is cloned once before the first stage, each success
// replaces the working value with the stage's return, and the first
// failure short-circuits the run. A panicking stage surfaces as a
// normalized failure, never as a panic in the caller.
//
// An empty stage list composes to a stage that clones its input and
// succeeds.
//
// Because the result is itself a Stage, composed pipelines nest:
//
//	validate := railz.Compose("validate", checkSchema, checkLimits)
//	process := railz.Compose("process", validate, price, persist)
//
// Note that each stage's return becomes the entire working value. A stage
// that returns a partial value truncates what earlier stages built - always
// return the received value plus your changes. Mutate mode (ComposeWith)
// merges instead and does not have this hazard.
//
// The returned stage keeps its runner alive for observability; use
// NewPipeline directly when you need hooks, metrics, or Close.
func Compose[T Cloner[T]](name Name, stages ...Stage[T]) Stage[T] {
	return NewPipeline(name, Options{}, stages...).Stage()
}

// ComposeWith is Compose with explicit Options. Under Options{Mutate: true}
// the caller's context is used in place: no clone is taken and each
// successful stage's return is shallow-merged into the original object
// (when T implements Merger[T]), so the input reference reflects the
// accumulated changes after the run.
func ComposeWith[T Cloner[T]](name Name, opts Options, stages ...Stage[T]) Stage[T] {
	return NewPipeline(name, opts, stages...).Stage()
}

// Stage returns the pipeline's run method as a Stage, for passing the
// pipeline anywhere a stage is expected - including into another pipeline.
func (p *Pipeline[T]) Stage() Stage[T] {
	return p.Process
}

// Process executes all registered stages on the input value in order.
// Each stage receives the working context; its successful return advances
// the working context according to the pipeline's mode. The first failure
// Result is returned unchanged - stages own the errors they report - and
// remaining stages are skipped. A panic anywhere in the run (a stage, a
// Clone, a Merge) is recovered at this boundary and returned as a failure
// carrying a normalized *Error[T]; Process never panics and never returns
// an undefined Result.
//
// Process is thread-safe and can be called concurrently; each run works on
// its own copy of the stage list and, in the default mode, its own clone of
// the input. The engine never aborts a run between stages on its own;
// cancellation, if wanted, lives inside individual stages, which receive
// ctx for exactly that purpose. A nil ctx is replaced by
// context.Background().
func (p *Pipeline[T]) Process(ctx context.Context, input T) (res Result[T]) {
	p.mu.RLock()
	stages := make([]Stage[T], len(p.stages))
	copy(stages, p.stages)
	p.mu.RUnlock()

	// Handle nil context
	if ctx == nil {
		ctx = context.Background()
	}

	clock := p.getClock()
	runID := uuid.NewString()
	start := clock.Now()

	// Track metrics
	p.metrics.Counter(PipelineRunsTotal).Inc()
	p.metrics.Gauge(PipelineStagesTotal).Set(float64(len(stages)))

	// Start main span
	ctx, span := p.tracer.StartSpan(ctx, PipelineRunSpan)
	span.SetTag(PipelineTagName, string(p.name))
	span.SetTag(PipelineTagRunID, runID)
	span.SetTag(PipelineTagMode, p.mode())
	span.SetTag(PipelineTagStageCount, fmt.Sprintf("%d", len(stages)))
	defer func() {
		// Record duration
		elapsed := clock.Now().Sub(start)
		p.metrics.Gauge(PipelineDurationMs).Set(float64(elapsed.Milliseconds()))

		// Set success status
		if res.IsSuccess() {
			span.SetTag(PipelineTagSuccess, "true")
			p.metrics.Counter(PipelineSuccessesTotal).Inc()
		} else {
			span.SetTag(PipelineTagSuccess, "false")
			p.metrics.Counter(PipelineFailuresTotal).Inc()
			if err := res.Err(); err != nil {
				span.SetTag(PipelineTagError, err.Error())
			}
		}
		span.Finish()
	}()

	// The run's single guarded region. Registered after the span defer so
	// it runs first on unwind and the span sees the final Result.
	stageIndex := -1
	defer func() {
		if r := recover(); r != nil {
			p.metrics.Counter(PipelinePanicsTotal).Inc()
			capitan.Error(ctx, SignalStagePanicked,
				FieldPipeline.Field(string(p.name)),
				FieldRunID.Field(runID),
				FieldStage.Field(stageIndex),
				FieldError.Field(fmt.Sprintf("%v", r)),
				FieldTimestamp.Field(float64(time.Now().Unix())),
			)
			res = panicFailure(r, p.name, input, start, clock)
		}
	}()

	current := p.policy.begin(input)
	stagesCompleted := 0

	for i, stage := range stages {
		stageIndex = i

		// Child span for this stage
		stageCtx, stageSpan := p.tracer.StartSpan(ctx, PipelineStageSpan)
		stageSpan.SetTag(PipelineTagStageIndex, fmt.Sprintf("%d", i))

		stageStart := clock.Now()
		r := stage(stageCtx, current)
		stageDuration := clock.Now().Sub(stageStart)
		stageSpan.Finish()

		if r.IsFailure() {
			_ = p.hooks.Emit(ctx, PipelineEventStageComplete, PipelineEvent{ //nolint:errcheck
				Name:        p.name,
				RunID:       runID,
				StageNumber: i + 1,
				TotalStages: len(stages),
				Success:     false,
				Error:       r.Err(),
				Duration:    stageDuration,
				Mutate:      p.opts.Mutate,
				Timestamp:   time.Now(),
			})
			capitan.Warn(ctx, SignalStageFailed,
				FieldPipeline.Field(string(p.name)),
				FieldRunID.Field(runID),
				FieldStage.Field(i),
				FieldError.Field(fmt.Sprintf("%v", r.Err())),
				FieldTimestamp.Field(float64(time.Now().Unix())),
			)
			// Stage-reported failures propagate verbatim
			return r
		}

		stagesCompleted++
		p.metrics.Gauge(PipelineStagesCompleted).Set(float64(stagesCompleted))

		_ = p.hooks.Emit(ctx, PipelineEventStageComplete, PipelineEvent{ //nolint:errcheck
			Name:        p.name,
			RunID:       runID,
			StageNumber: i + 1,
			TotalStages: len(stages),
			Success:     true,
			Duration:    stageDuration,
			Mutate:      p.opts.Mutate,
			Timestamp:   time.Now(),
		})

		current = p.policy.advance(current, r.Value())
	}

	// All stages completed successfully - emit all_complete event
	_ = p.hooks.Emit(ctx, PipelineEventAllComplete, PipelineEvent{ //nolint:errcheck
		Name:            p.name,
		RunID:           runID,
		TotalStages:     len(stages),
		CompletedStages: stagesCompleted,
		TotalDuration:   clock.Now().Sub(start),
		Success:         true,
		Mutate:          p.opts.Mutate,
		Timestamp:       time.Now(),
	})

	return Success(current)
}

// Register appends stages to this Pipeline. Stages run in the order they
// are registered. Thread-safe; ideal for building pipelines incrementally:
//
//	p := railz.NewPipeline[railz.Context]("orders", railz.Options{})
//	p.Register(validate)
//	p.Register(price, persist)
//	if cfg.RequiresApproval {
//	    p.Register(requireApproval)
//	}
func (p *Pipeline[T]) Register(stages ...Stage[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = append(p.stages, stages...)
}

// Len returns the number of stages in the Pipeline.
func (p *Pipeline[T]) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.stages)
}

// Clear removes all stages from the Pipeline.
func (p *Pipeline[T]) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = p.stages[:0]
}

// Unshift adds stages to the front of the Pipeline (runs first).
func (p *Pipeline[T]) Unshift(stages ...Stage[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = slices.Insert(p.stages, 0, stages...)
}

// Push adds stages to the back of the Pipeline (runs last).
func (p *Pipeline[T]) Push(stages ...Stage[T]) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = append(p.stages, stages...)
}

// Shift removes and returns the first stage.
func (p *Pipeline[T]) Shift() (Stage[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.stages) == 0 {
		return nil, ErrEmptyPipeline
	}

	stage := p.stages[0]
	p.stages = p.stages[1:]
	return stage, nil
}

// Pop removes and returns the last stage.
func (p *Pipeline[T]) Pop() (Stage[T], error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.stages) == 0 {
		return nil, ErrEmptyPipeline
	}

	last := len(p.stages) - 1
	stage := p.stages[last]
	p.stages = p.stages[:last]
	return stage, nil
}

// Name returns the name of this pipeline.
func (p *Pipeline[T]) Name() Name {
	return p.name
}

// Metrics returns the metrics registry for this pipeline.
func (p *Pipeline[T]) Metrics() *metricz.Registry {
	return p.metrics
}

// Tracer returns the tracer for this pipeline.
func (p *Pipeline[T]) Tracer() *tracez.Tracer {
	return p.tracer
}

// Close gracefully shuts down observability components.
func (p *Pipeline[T]) Close() error {
	if p.tracer != nil {
		p.tracer.Close()
	}
	p.hooks.Close()
	return nil
}

// OnStageComplete registers a handler called asynchronously each time a
// stage finishes, whether it succeeds or fails.
func (p *Pipeline[T]) OnStageComplete(handler func(context.Context, PipelineEvent) error) error {
	_, err := p.hooks.Hook(PipelineEventStageComplete, handler)
	return err
}

// OnAllComplete registers a handler called asynchronously after a run
// finishes with every stage successful. The event carries aggregate
// statistics about the run.
func (p *Pipeline[T]) OnAllComplete(handler func(context.Context, PipelineEvent) error) error {
	_, err := p.hooks.Hook(PipelineEventAllComplete, handler)
	return err
}

// mode names the aliasing discipline for span tags.
func (p *Pipeline[T]) mode() string {
	if p.opts.Mutate {
		return "mutate"
	}
	return "clone"
}

// getClock returns the clock to use.
func (p *Pipeline[T]) getClock() clockz.Clock {
	if p.opts.Clock == nil {
		return clockz.RealClock
	}
	return p.opts.Clock
}
