// internal/engine/engine.go
package engine

import (
	"context"
	"fmt"

	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/common/metrics"
	"sponsor-insights/internal/delegate"
	"sponsor-insights/internal/intent"
	"sponsor-insights/internal/models"
)

// RecordStore is the read side of the filing store the engine depends on.
type RecordStore interface {
	Fetch(ctx context.Context, dataset models.Dataset, filter models.Filter, limit int) ([]models.NormalizedRecord, error)
	FetchCombined(ctx context.Context, filter models.Filter, limit int) ([]models.NormalizedRecord, error)
}

// SourceProvider resolves the scraped citations for FAQ answers.
type SourceProvider interface {
	TopPetitioners(ctx context.Context) []models.Source
	MajorsStudies(ctx context.Context) []models.Source
}

// Agent is the external tool-calling collaborator tried first when the
// cascade cannot answer a query.
type Agent interface {
	Run(ctx context.Context, query string, tools delegate.Toolbox) (string, error)
}

// Limits are the per-operation fetch sizes.
type Limits struct {
	HighWage       int // at-least wage queries, both datasets combined
	Sample         int // per-dataset sample scanned by at-most and visa queries
	Section        int // per-dataset city/company/title queries
	Guidance       int // per-dataset guidance sections
	GuidanceSample int // per-dataset guidance sample when nothing is focused
	Profile        int // per-dataset company profile
	Tool           int // records fetched by each toolbox action
}

func DefaultLimits() Limits {
	return Limits{
		HighWage:       40,
		Sample:         200,
		Section:        20,
		Guidance:       30,
		GuidanceSample: 10,
		Profile:        50,
		Tool:           20,
	}
}

func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	return Limits{
		HighWage:       orDefault(l.HighWage, d.HighWage),
		Sample:         orDefault(l.Sample, d.Sample),
		Section:        orDefault(l.Section, d.Section),
		Guidance:       orDefault(l.Guidance, d.Guidance),
		GuidanceSample: orDefault(l.GuidanceSample, d.GuidanceSample),
		Profile:        orDefault(l.Profile, d.Profile),
		Tool:           orDefault(l.Tool, d.Tool),
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Engine resolves a free-text query to an intent, answers it from the
// record store and renders the result. It holds no per-query state.
type Engine struct {
	store    RecordStore
	sources  SourceProvider
	agent    Agent
	cascade  intent.Cascade
	limits   Limits
	logger   logger.Logger
	fallback []Strategy
}

type Option func(*Engine)

func WithSources(p SourceProvider) Option { return func(e *Engine) { e.sources = p } }

func WithAgent(a Agent) Option { return func(e *Engine) { e.agent = a } }

func WithCascade(c intent.Cascade) Option { return func(e *Engine) { e.cascade = c } }

func WithLimits(l Limits) Option { return func(e *Engine) { e.limits = l } }

func New(store RecordStore, log logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:   store,
		cascade: intent.DefaultCascade(),
		logger:  log.WithFields(map[string]interface{}{"component": "engine"}),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.limits = e.limits.withDefaults()
	e.fallback = []Strategy{
		{Name: TierAgent, Run: e.runAgent},
		{Name: TierHeuristic, Run: e.runHeuristic},
		{Name: TierApology, Run: apologize},
	}
	return e
}

// Answer always returns displayable text. Unclassified queries and failed
// handlers go through the fallback chain; a panic anywhere below is turned
// into the apology.
func (e *Engine) Answer(ctx context.Context, query string) (answer string) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("panic while answering", map[string]interface{}{"panic": fmt.Sprint(r)})
			answer = Apology
		}
	}()

	in, matched := e.cascade.Resolve(query)
	if !matched {
		metrics.IntentResolved.WithLabelValues("unmatched").Inc()
		return e.runFallback(ctx, query)
	}
	metrics.IntentResolved.WithLabelValues(in.Kind()).Inc()

	text, err := e.Dispatch(ctx, in)
	if err != nil {
		e.logger.Warn("intent handler failed, falling back", map[string]interface{}{
			"intent": in.Kind(),
			"error":  err,
		})
		return e.runFallback(ctx, query)
	}
	return text
}

// Resolve exposes the cascade used by Answer.
func (e *Engine) Resolve(query string) (models.Intent, bool) {
	return e.cascade.Resolve(query)
}
