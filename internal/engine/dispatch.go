// internal/engine/dispatch.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"sponsor-insights/internal/intent"
	"sponsor-insights/internal/models"
	"sponsor-insights/internal/report"
	"sponsor-insights/internal/sources"
)

var ErrUnknownIntent = errors.New("unknown intent")

// Dispatch answers one resolved intent.
func (e *Engine) Dispatch(ctx context.Context, in models.Intent) (string, error) {
	switch v := in.(type) {
	case models.WageThreshold:
		return e.wageJobs(ctx, v)
	case models.VisaFilter:
		return e.visaJobs(ctx, v)
	case models.CityQuery:
		return e.sections(ctx, models.CityContains(v.City), "in "+v.City)
	case models.CompanyQuery:
		return e.sections(ctx, models.EmployerContains(v.Company), "at "+v.Company)
	case models.TitleQuery:
		return e.sections(ctx, models.TitleContains(v.Title), fmt.Sprintf("for '%s'", v.Title))
	case models.CompanyProfileQuery:
		return e.CompanyProfile(ctx, v.Company)
	case models.FaqQuery:
		return e.faq(ctx, v), nil
	case models.GuidanceQuery:
		return e.guidance(ctx, v), nil
	case models.SampleQuery:
		recs, err := e.store.FetchCombined(ctx, models.NoFilter(), v.Limit)
		if err != nil {
			return "", err
		}
		return report.Records("Sample Jobs", recs), nil
	default:
		return "", fmt.Errorf("%w: %T", ErrUnknownIntent, in)
	}
}

func (e *Engine) wageJobs(ctx context.Context, w models.WageThreshold) (string, error) {
	amount := strings.TrimPrefix(report.Currency(w.Amount), "$")

	if w.Direction == models.AtLeast {
		recs, err := e.store.FetchCombined(ctx, models.WageAtLeast(w.Amount), e.limits.HighWage)
		if err != nil {
			return "", err
		}
		return report.Records("Jobs ($≥"+amount+")", recs), nil
	}

	// No store predicate for an upper bound; scan a sample in store order.
	sample, err := e.store.FetchCombined(ctx, models.NoFilter(), 2*e.limits.Sample)
	if err != nil {
		return "", err
	}
	var recs []models.NormalizedRecord
	for _, r := range sample {
		if r.Wage > 0 && r.Wage <= w.Amount {
			recs = append(recs, r)
		}
	}
	return report.Records("Jobs ($≤"+amount+")", recs), nil
}

func (e *Engine) visaJobs(ctx context.Context, v models.VisaFilter) (string, error) {
	sample, err := e.store.FetchCombined(ctx, models.NoFilter(), 2*e.limits.Sample)
	if err != nil {
		return "", err
	}
	var recs []models.NormalizedRecord
	for _, r := range sample {
		if intent.MatchesVisaClass(r.VisaClass, v.Class) {
			recs = append(recs, r)
		}
	}
	return report.Records(v.Class+" Jobs", recs), nil
}

// sections renders the LCA and PERM matches for one filter as two labeled
// blocks.
func (e *Engine) sections(ctx context.Context, f models.Filter, suffix string) (string, error) {
	lca, perm, err := e.fetchBoth(ctx, f, e.limits.Section)
	if err != nil {
		return "", err
	}
	return report.Section("H-1B Filings (LCA Data) "+suffix, lca, models.VisaClassH1B) + "\n\n" +
		report.Section("Green Card Filings (PERM Data) "+suffix, perm, models.VisaClassPERM), nil
}

// fetchBoth queries both datasets concurrently; either failure fails the pair.
func (e *Engine) fetchBoth(ctx context.Context, f models.Filter, limit int) (lca, perm []models.NormalizedRecord, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lca, err = e.store.Fetch(gctx, models.DatasetLCA, f, limit)
		return err
	})
	g.Go(func() error {
		var err error
		perm, err = e.store.Fetch(gctx, models.DatasetPERM, f, limit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return lca, perm, nil
}

func (e *Engine) faq(ctx context.Context, q models.FaqQuery) string {
	var srcs []models.Source
	switch q.Topic {
	case models.FaqTopPetitioners:
		if e.sources != nil {
			srcs = e.sources.TopPetitioners(ctx)
		}
	case models.FaqMajorsApproval:
		if e.sources != nil {
			srcs = e.sources.MajorsStudies(ctx)
		}
	case models.FaqSchoolSponsors:
		srcs = sources.SchoolLinks(q.Args["university"])
	case models.FaqCompanyCounts:
		srcs = sources.CompanyLinks(q.Args["company"])
	}
	return report.FAQ(q.Topic, q.Args, srcs)
}
