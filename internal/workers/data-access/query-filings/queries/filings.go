// internal/workers/data-access/query-filings/queries/filings.go
package queries

import (
	"context"
	"fmt"
	"time"

	"sponsor-insights/internal/models"
)

const (
	DefaultLimit = 20
	MaxLimit     = 200
)

func FilingSample(ctx context.Context, s FilingStore, params map[string]interface{}) (interface{}, int, int64, error) {
	return run(ctx, s, params, models.NoFilter())
}

func FilingsMinWage(ctx context.Context, s FilingStore, params map[string]interface{}) (interface{}, int, int64, error) {
	wage, ok := params["minWage"].(float64)
	if !ok {
		return nil, 0, 0, fmt.Errorf("%w: minWage", ErrMissingParam)
	}
	return run(ctx, s, params, models.WageAtLeast(wage))
}

func textQuery(param string, filter func(string) models.Filter) QueryFunc {
	return func(ctx context.Context, s FilingStore, params map[string]interface{}) (interface{}, int, int64, error) {
		text, ok := params[param].(string)
		if !ok || text == "" {
			return nil, 0, 0, fmt.Errorf("%w: %s", ErrMissingParam, param)
		}
		return run(ctx, s, params, filter(text))
	}
}

func run(ctx context.Context, s FilingStore, params map[string]interface{}, filter models.Filter) (interface{}, int, int64, error) {
	limit := DefaultLimit
	if n, ok := params["limit"].(int); ok && n > 0 {
		limit = min(n, MaxLimit)
	}

	start := time.Now()

	var (
		recs []models.NormalizedRecord
		err  error
	)
	dataset, _ := params["dataset"].(string)
	if dataset == "" || dataset == DatasetAll {
		recs, err = s.FetchCombined(ctx, filter, limit)
	} else {
		ds, parseErr := models.ParseDataset(dataset)
		if parseErr != nil {
			return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownDataset, dataset)
		}
		recs, err = s.Fetch(ctx, ds, filter, limit)
	}
	if err != nil {
		return nil, 0, 0, err
	}

	execTime := time.Since(start).Milliseconds()
	return recs, len(recs), execTime, nil
}
