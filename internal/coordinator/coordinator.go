// Package coordinator drives the per-city pipeline, owns the result cache
// and aggregates outcomes across cities.
package coordinator

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/airquality"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/history"
	"github.com/aliyusifov99/poland-air-quality-monitoring-mas/internal/pipeline"
)

// State is a city run's position in the pipeline state machine.
type State string

const (
	StatePending     State = "pending"
	StateFetching    State = "fetching"
	StateProcessing  State = "processing"
	StateClassifying State = "classifying"
	StateAdvising    State = "advising"
	StateDone        State = "done"
	StateFailed      State = "failed"
)

// Outcome is one city's result from a run: either an enriched result or a
// structured failure reason, never a silent omission.
type Outcome struct {
	City   string
	State  State
	Result *airquality.EnrichedResult
	Err    error
	Cached bool
}

// Generator produces synthetic raw data as the collector's fallback.
type Generator interface {
	Generate(city string) airquality.RawCityData
}

// Config holds configuration for the coordinator. It is consumed once at
// construction; the coordinator never reads ambient state afterwards.
type Config struct {
	// Provider is the upstream data source.
	Provider pipeline.Provider

	// Generator is the synthetic fallback. May be nil when fallback is
	// disabled.
	Generator Generator

	// Logger for coordinator operations.
	Logger zerolog.Logger

	// CacheTTL is how long an enriched result stays fresh (default: 1 hour,
	// matching the provider's update cadence).
	CacheTTL time.Duration

	// AllowSynthetic enables substituting synthetic data when the provider
	// is unreachable.
	AllowSynthetic bool

	// Banding is the threshold boundary convention for classification.
	Banding airquality.Banding

	// Concurrency bounds how many city pipelines run at once (default: 3).
	Concurrency int

	// History optionally persists each run's outcomes. Nil disables it.
	History history.Repository
}

// Coordinator runs the collect→process→classify→advise chain per city with
// caching, fallback and per-city failure isolation.
type Coordinator struct {
	collector  *pipeline.Collector
	processor  *pipeline.Processor
	classifier *pipeline.Classifier
	advisor    *pipeline.Advisor

	generator      Generator
	allowSynthetic bool
	concurrency    int

	cache   *Cache
	history history.Repository
	logger  zerolog.Logger
	tracer  trace.Tracer
	now     func() time.Time
}

// New creates a coordinator and its stages.
func New(cfg Config) *Coordinator {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}

	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}

	return &Coordinator{
		collector:      pipeline.NewCollector(cfg.Provider, cfg.Logger),
		processor:      pipeline.NewProcessor(cfg.Logger),
		classifier:     pipeline.NewClassifier(cfg.Banding, cfg.Logger),
		advisor:        pipeline.NewAdvisor(cfg.Logger),
		generator:      cfg.Generator,
		allowSynthetic: cfg.AllowSynthetic,
		concurrency:    concurrency,
		cache:          NewCache(cacheTTL),
		history:        cfg.History,
		logger:         cfg.Logger,
		tracer:         otel.Tracer("coordinator"),
		now:            time.Now,
	}
}

// Cache exposes the coordinator's cache for observability.
func (c *Coordinator) Cache() *Cache {
	return c.cache
}

// Run executes the pipeline for every city and returns one outcome per city.
// City runs are independent: a failure in one never aborts the others. The
// returned map is unordered; consumers must key by city.
func (c *Coordinator) Run(ctx context.Context, cities []string) map[string]Outcome {
	runID := uuid.New()
	started := c.now()

	log := c.logger.With().Str("run_id", runID.String()).Logger()
	log.Info().Strs("cities", cities).Msg("starting pipeline run")

	cityChan := make(chan string, len(cities))
	outcomeChan := make(chan Outcome, len(cities))

	var wg sync.WaitGroup
	for i := 0; i < c.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for city := range cityChan {
				outcomeChan <- c.runCity(ctx, runID, city)
			}
		}()
	}

	seen := make(map[string]bool, len(cities))
	queued := 0
	for _, city := range cities {
		if seen[city] {
			continue
		}
		seen[city] = true
		cityChan <- city
		queued++
	}
	close(cityChan)

	go func() {
		wg.Wait()
		close(outcomeChan)
	}()

	outcomes := make(map[string]Outcome, queued)
	for outcome := range outcomeChan {
		outcomes[outcome.City] = outcome
	}

	done, failed := 0, 0
	for _, outcome := range outcomes {
		if outcome.State == StateDone {
			done++
		} else {
			failed++
		}
	}

	log.Info().
		Dur("duration", c.now().Sub(started)).
		Int("done", done).
		Int("failed", failed).
		Msg("pipeline run completed")

	return outcomes
}

// runCity executes one city's state machine. The per-city cache lock makes
// the cache lookup and the decision to refresh one atomic step, so two
// concurrent runs for the same city cannot both hit the provider.
func (c *Coordinator) runCity(ctx context.Context, runID uuid.UUID, city string) Outcome {
	lock := c.cache.LockCity(city)
	defer lock.Unlock()

	if result, ok := c.cache.Get(city); ok {
		c.logger.Debug().Str("city", city).Msg("serving cached result")
		return Outcome{City: city, State: StateDone, Result: &result, Cached: true}
	}

	if err := ctx.Err(); err != nil {
		return Outcome{City: city, State: StateFailed, Err: err}
	}

	ctx, span := c.tracer.Start(ctx, "coordinator.run_city",
		trace.WithAttributes(attribute.String("city", city)))
	defer span.End()

	state := StateFetching
	span.AddEvent(string(state))

	provenance := airquality.ProvenanceLive
	var raw airquality.RawCityData

	collected := c.collector.Run(ctx, city)
	if !collected.OK() {
		if !errors.Is(collected.Err, airquality.ErrNetwork) || !c.allowSynthetic || c.generator == nil {
			return c.fail(span, city, state, collected.Err)
		}
		c.logger.Warn().Str("city", city).Err(collected.Err).
			Msg("provider unreachable, substituting synthetic data")
		raw = c.generator.Generate(city)
		provenance = airquality.ProvenanceSynthetic
	} else {
		raw = collected.Payload
	}

	state = StateProcessing
	span.AddEvent(string(state))
	processed := c.processor.Run(ctx, raw)
	if !processed.OK() {
		return c.fail(span, city, state, processed.Err)
	}

	state = StateClassifying
	span.AddEvent(string(state))
	classified := c.classifier.Run(ctx, processed.Payload)
	if !classified.OK() {
		return c.fail(span, city, state, classified.Err)
	}

	state = StateAdvising
	span.AddEvent(string(state))
	advised := c.advisor.Run(ctx, classified.Payload)
	if !advised.OK() {
		return c.fail(span, city, state, advised.Err)
	}

	result := airquality.EnrichedResult{
		City:           city,
		Records:        processed.Payload,
		Classification: classified.Payload,
		Advisory:       advised.Payload,
		Provenance:     provenance,
		FetchedAt:      c.now(),
	}

	c.cache.Put(city, result)
	c.record(ctx, runID, result)

	span.SetAttributes(
		attribute.String("provenance", string(provenance)),
		attribute.String("category", result.Classification.Category.String()),
	)

	c.logger.Info().
		Str("city", city).
		Stringer("category", result.Classification.Category).
		Str("dominant", string(result.Classification.Dominant)).
		Str("provenance", string(provenance)).
		Msg("city pipeline done")

	return Outcome{City: city, State: StateDone, Result: &result}
}

// fail finalizes a city run in the Failed state.
func (c *Coordinator) fail(span trace.Span, city string, at State, err error) Outcome {
	span.AddEvent("failed", trace.WithAttributes(attribute.String("at", string(at))))
	c.logger.Error().Str("city", city).Str("stage", string(at)).Err(err).
		Msg("city pipeline failed")
	return Outcome{City: city, State: StateFailed, Err: err}
}

// record persists the outcome when a history repository is configured.
// Persistence is best effort; a storage failure never fails the run.
func (c *Coordinator) record(ctx context.Context, runID uuid.UUID, result airquality.EnrichedResult) {
	if c.history == nil {
		return
	}
	if err := c.history.Save(ctx, history.FromResult(runID, result)); err != nil {
		c.logger.Warn().Err(err).Str("city", result.City).Msg("failed to persist run history")
	}
}
