// internal/engine/profile.go
package engine

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	commonerrors "sponsor-insights/internal/common/errors"
	"sponsor-insights/internal/models"
	"sponsor-insights/internal/report"
)

// CompanyProfile summarizes an employer's H-1B and PERM history. A failure
// on one dataset counts as zero filings there; only a failure on both is
// returned.
func (e *Engine) CompanyProfile(ctx context.Context, company string) (string, error) {
	company = strings.TrimSpace(company)
	if company == "" {
		return "", commonerrors.NewInputValidationFailedError("company name is required")
	}

	filter := models.EmployerContains(company)
	var (
		g               errgroup.Group
		lca, perm       []models.NormalizedRecord
		lcaErr, permErr error
	)
	g.Go(func() error {
		lca, lcaErr = e.store.Fetch(ctx, models.DatasetLCA, filter, e.limits.Profile)
		return nil
	})
	g.Go(func() error {
		perm, permErr = e.store.Fetch(ctx, models.DatasetPERM, filter, e.limits.Profile)
		return nil
	})
	_ = g.Wait()

	if lcaErr != nil && permErr != nil {
		return "", errors.Join(lcaErr, permErr)
	}
	for _, err := range []error{lcaErr, permErr} {
		if err != nil {
			e.logger.Warn("profile fetch failed for one dataset", map[string]interface{}{
				"company": company,
				"error":   err,
			})
		}
	}

	return report.NewProfile(company, lca, perm).Render(), nil
}
