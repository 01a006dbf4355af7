// internal/engine/guidance.go
package engine

import (
	"context"

	"sponsor-insights/internal/intent"
	"sponsor-insights/internal/models"
	"sponsor-insights/internal/report"
)

// Guidance answers an immigration-pathway question directly.
func (e *Engine) Guidance(ctx context.Context, query string) string {
	return e.guidance(ctx, intent.AnalyzeGuidance(intent.Normalize(query)))
}

func (e *Engine) guidance(ctx context.Context, q models.GuidanceQuery) string {
	data, err := e.guidanceData(ctx, q)
	if err != nil {
		e.logger.Error("guidance data unavailable", map[string]interface{}{
			"stage": string(q.Stage),
			"error": err,
		})
		return report.Guidance(q.Stage, report.DataUnavailable)
	}
	return report.Guidance(q.Stage, data.Render())
}

// guidanceData picks the focus in priority order: location, company,
// salary, then a plain sample.
func (e *Engine) guidanceData(ctx context.Context, q models.GuidanceQuery) (report.GuidanceData, error) {
	var data report.GuidanceData
	filter, limit := models.NoFilter(), e.limits.Guidance
	switch {
	case q.Location != "":
		filter = models.CityContains(q.Location)
	case q.Company != "":
		filter = models.EmployerContains(q.Company)
	case q.SalaryConcern:
		filter = models.WageAtLeast(100000)
		data.HighWage = true
	default:
		limit = e.limits.GuidanceSample
	}

	lca, perm, err := e.fetchBoth(ctx, filter, limit)
	if err != nil {
		return report.GuidanceData{}, err
	}
	data.LCA, data.PERM = lca, perm
	return data, nil
}
