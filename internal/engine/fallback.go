// internal/engine/fallback.go
package engine

import (
	"context"
	"errors"
	"strconv"
	"strings"

	commonerrors "sponsor-insights/internal/common/errors"
	"sponsor-insights/internal/common/metrics"
	"sponsor-insights/internal/delegate"
	"sponsor-insights/internal/intent"
)

const (
	TierAgent     = "agent"
	TierHeuristic = "heuristic"
	TierApology   = "apology"

	Apology = "Sorry, all agent systems failed. Please try a simpler query like 'Show me sample jobs' or 'Jobs in San Francisco'."
)

var (
	ErrNoAgent          = errors.New("no agent configured")
	ErrInvalidAgentText = errors.New("agent returned no usable answer")
)

// Outcome is the result of one fallback strategy.
type Outcome struct {
	Text string
	OK   bool
	Err  error
}

func success(text string) Outcome { return Outcome{Text: text, OK: true} }

func failure(err error) Outcome { return Outcome{Err: err} }

// Strategy is one tier of the fallback chain.
type Strategy struct {
	Name string
	Run  func(ctx context.Context, query string) Outcome
}

// runFallback tries each tier in order. The last tier always succeeds.
func (e *Engine) runFallback(ctx context.Context, query string) string {
	for _, s := range e.fallback {
		out := s.Run(ctx, query)
		if out.OK {
			metrics.FallbackTier.WithLabelValues(s.Name).Inc()
			return out.Text
		}
		e.logger.Warn("fallback tier failed", map[string]interface{}{
			"tier":  s.Name,
			"error": out.Err,
		})
	}
	metrics.FallbackTier.WithLabelValues(TierApology).Inc()
	return Apology
}

func (e *Engine) runAgent(ctx context.Context, query string) Outcome {
	if e.agent == nil {
		return failure(ErrNoAgent)
	}
	text, err := e.agent.Run(ctx, query, e.Toolbox())
	if err != nil {
		if errors.Is(err, delegate.ErrDelegateTimeout) {
			return failure(commonerrors.NewDelegateTimeoutError())
		}
		return failure(commonerrors.NewDelegateFailedError(err))
	}
	if !UsableAgentText(text) {
		return failure(ErrInvalidAgentText)
	}
	return success(text)
}

// UsableAgentText rejects empty output, error-flagged output and raw
// planning traces.
func UsableAgentText(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	lower := strings.ToLower(trimmed)
	if strings.Contains(lower, "error") {
		return false
	}
	if strings.Contains(lower, "thought:") && strings.Contains(lower, "action:") {
		return false
	}
	return !strings.HasPrefix(trimmed, "Thought:")
}

// runHeuristic re-applies a narrow set of extractors and answers with the
// single best-guess toolbox action.
func (e *Engine) runHeuristic(ctx context.Context, query string) Outcome {
	name, input := heuristicAction(intent.Normalize(query))
	text, err := e.Toolbox().Call(ctx, name, input)
	if err != nil {
		return failure(err)
	}
	return success(text)
}

func heuristicAction(text string) (tool, input string) {
	if amount, ok := intent.ParseAmount(text); ok {
		return ToolHighWageJobs, strconv.FormatFloat(amount, 'f', 0, 64)
	}
	switch {
	case strings.Contains(text, "sample"):
		return ToolSampleLCA, "5"
	case intent.ExtractCity(text) != "":
		return ToolJobsByCity, intent.ExtractCity(text)
	case intent.ExtractCompany(text) != "":
		return ToolJobsByCompany, intent.ExtractCompany(text)
	case intent.ExtractTitle(text) != "":
		return ToolJobsByTitle, intent.ExtractTitle(text)
	case strings.Contains(text, "high"):
		return ToolHighWageJobs, "120000"
	}
	return ToolSampleLCA, "10"
}

func apologize(context.Context, string) Outcome { return success(Apology) }
