// internal/workers/data-access/query-filings/queries/registry.go
package queries

import (
	"context"
	"errors"
	"fmt"

	"sponsor-insights/internal/models"
)

var (
	ErrMissingParam     = errors.New("missing required parameter")
	ErrUnknownQueryType = errors.New("unknown query type")
	ErrUnknownDataset   = errors.New("unknown dataset")
)

// DatasetAll selects both datasets through a combined fetch.
const DatasetAll = "all"

// FilingStore is the slice of the record store the queries need.
type FilingStore interface {
	Fetch(ctx context.Context, dataset models.Dataset, filter models.Filter, limit int) ([]models.NormalizedRecord, error)
	FetchCombined(ctx context.Context, filter models.Filter, limit int) ([]models.NormalizedRecord, error)
}

// QueryFunc returns: data, rowCount, executionTime (ms), error
type QueryFunc func(ctx context.Context, s FilingStore, params map[string]interface{}) (interface{}, int, int64, error)

var Registry = map[models.QueryType]QueryFunc{
	models.QueryTypeFilingSample:     FilingSample,
	models.QueryTypeFilingsByCity:    textQuery("city", models.CityContains),
	models.QueryTypeFilingsByCompany: textQuery("company", models.EmployerContains),
	models.QueryTypeFilingsByTitle:   textQuery("title", models.TitleContains),
	models.QueryTypeFilingsMinWage:   FilingsMinWage,
}

func Execute(ctx context.Context, s FilingStore, queryType models.QueryType, params map[string]interface{}) (interface{}, int, int64, error) {
	fn, exists := Registry[queryType]
	if !exists {
		return nil, 0, 0, fmt.Errorf("%w: %s", ErrUnknownQueryType, queryType)
	}
	return fn(ctx, s, params)
}
