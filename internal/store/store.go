// internal/store/store.go
package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/common/metrics"
	"sponsor-insights/internal/models"

	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidDataset = errors.New("INVALID_DATASET")
	ErrInvalidFilter  = errors.New("INVALID_FILTER")
)

// wageOversample is how many rows are requested from the backend per requested
// record when the filter is a wage threshold.
const wageOversample = 2

// Backend runs one filtered select against one dataset. Implementations return
// rows in their natural order; the Store applies local re-validation and sorting.
type Backend interface {
	Select(ctx context.Context, dataset models.Dataset, filter models.Filter, limit int) ([]models.NormalizedRecord, error)
	Name() string
}

// StoreError wraps any backend failure with the dataset and filter it was running.
type StoreError struct {
	Dataset models.Dataset
	Filter  string
	Err     error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s (%s): %v", e.Dataset, e.Filter, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// Store is the record store adapter used by the engine and the workers.
type Store struct {
	backend Backend
	logger  logger.Logger
	timeout time.Duration
}

type Option func(*Store)

// WithTimeout bounds every backend call. Zero leaves the caller's context alone.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

func New(backend Backend, log logger.Logger, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		logger:  log.WithFields(map[string]interface{}{"backend": backend.Name()}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch returns at most limit records of dataset matching filter.
func (s *Store) Fetch(ctx context.Context, dataset models.Dataset, filter models.Filter, limit int) ([]models.NormalizedRecord, error) {
	if !dataset.Valid() {
		return nil, &StoreError{Dataset: dataset, Filter: filter.Describe(), Err: ErrInvalidDataset}
	}
	if err := filter.Validate(); err != nil {
		return nil, &StoreError{Dataset: dataset, Filter: filter.Describe(), Err: fmt.Errorf("%w: %v", ErrInvalidFilter, err)}
	}
	if limit <= 0 {
		return []models.NormalizedRecord{}, nil
	}

	remoteLimit := limit
	if filter.Kind == models.FilterMinWage {
		remoteLimit = limit * wageOversample
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := s.backend.Select(ctx, dataset, filter, remoteLimit)
	metrics.StoreFetchDuration.WithLabelValues(string(dataset), string(filter.Kind)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StoreFetchErrors.WithLabelValues(string(dataset)).Inc()
		s.logger.Error("store fetch failed", map[string]interface{}{
			"dataset": string(dataset),
			"filter":  filter.Describe(),
			"error":   err,
		})
		return nil, &StoreError{Dataset: dataset, Filter: filter.Describe(), Err: err}
	}

	out := make([]models.NormalizedRecord, 0, len(rows))
	for _, r := range rows {
		if r.VisaClass == "" {
			r.VisaClass = dataset.VisaClass()
		}
		r = r.Normalized()
		if !matchesLocally(r, filter) {
			continue
		}
		out = append(out, r)
	}

	if filter.Kind == models.FilterMinWage {
		SortByWageDesc(out)
	}
	if len(out) > limit {
		out = out[:limit]
	}

	s.logger.Debug("store fetch", map[string]interface{}{
		"dataset":  string(dataset),
		"filter":   filter.Describe(),
		"returned": len(rows),
		"kept":     len(out),
	})
	return out, nil
}

// Sample is an unfiltered Fetch.
func (s *Store) Sample(ctx context.Context, dataset models.Dataset, limit int) ([]models.NormalizedRecord, error) {
	return s.Fetch(ctx, dataset, models.NoFilter(), limit)
}

// FetchCombined queries both datasets with limit/2 each and concatenates LCA then
// PERM. Wage-threshold results are re-sorted across the two and cut to limit.
func (s *Store) FetchCombined(ctx context.Context, filter models.Filter, limit int) ([]models.NormalizedRecord, error) {
	per := limit / 2
	results := make([][]models.NormalizedRecord, len(models.Datasets))

	g, gctx := errgroup.WithContext(ctx)
	for i, ds := range models.Datasets {
		g.Go(func() error {
			recs, err := s.Fetch(gctx, ds, filter, per)
			if err != nil {
				return err
			}
			results[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	combined := make([]models.NormalizedRecord, 0, 2*per)
	for _, recs := range results {
		combined = append(combined, recs...)
	}
	if filter.Kind == models.FilterMinWage {
		SortByWageDesc(combined)
		if len(combined) > limit {
			combined = combined[:limit]
		}
	}
	return combined, nil
}

// SampleResult is delivered on the channel returned by SampleAsync.
type SampleResult struct {
	Records []models.NormalizedRecord
	Err     error
}

// SampleAsync runs Sample on its own goroutine. The channel receives exactly one
// result and is then closed.
func (s *Store) SampleAsync(ctx context.Context, dataset models.Dataset, limit int) <-chan SampleResult {
	ch := make(chan SampleResult, 1)
	go func() {
		defer close(ch)
		recs, err := s.Sample(ctx, dataset, limit)
		ch <- SampleResult{Records: recs, Err: err}
	}()
	return ch
}

// SortByWageDesc sorts records by wage, highest first, keeping store order on ties.
func SortByWageDesc(recs []models.NormalizedRecord) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Wage > recs[j].Wage
	})
}

func matchesLocally(r models.NormalizedRecord, f models.Filter) bool {
	switch f.Kind {
	case models.FilterMinWage:
		return r.Wage >= f.MinWage
	case models.FilterCity:
		if r.City == nil {
			return false
		}
		return strings.Contains(strings.ToLower(*r.City), strings.ToLower(f.Text))
	}
	return true
}
