// internal/sources/provider.go
package sources

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	commonerrors "sponsor-insights/internal/common/errors"
	commonhttp "sponsor-insights/internal/common/http"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/common/metrics"
	"sponsor-insights/internal/models"
)

const (
	DefaultReportsURL = "https://www.myvisajobs.com/Reports/"
	DefaultArxivURL   = "https://arxiv.org/"

	cacheKeyTopPetitioners = "top_petitioners"
	cacheKeyMajors         = "majors_study"
)

var petitionsRe = regexp.MustCompile(`(?i)([A-Za-z0-9&.,'()\-\s]{3,})\s[–-]\s([\d,]{3,})\s+petitions`)

var spaceRun = regexp.MustCompile(`\s+`)

// Fetcher is the slice of the shared HTTP client the provider needs.
type Fetcher interface {
	GetText(ctx context.Context, url string) (string, error)
}

var _ Fetcher = (*commonhttp.Client)(nil)

// Provider resolves citation links for FAQ answers. Lookups are best-effort:
// a failed fetch yields the static fallback source, never an error.
type Provider struct {
	fetcher    Fetcher
	cache      Cache
	logger     logger.Logger
	reportsURL string
	arxivURL   string
}

type Option func(*Provider)

func WithCache(c Cache) Option { return func(p *Provider) { p.cache = c } }

// WithEndpoints overrides the scraped hub pages.
func WithEndpoints(reportsURL, arxivURL string) Option {
	return func(p *Provider) {
		p.reportsURL = reportsURL
		p.arxivURL = arxivURL
	}
}

func NewProvider(fetcher Fetcher, log logger.Logger, opts ...Option) *Provider {
	p := &Provider{
		fetcher:    fetcher,
		logger:     log.WithFields(map[string]interface{}{"component": "sources"}),
		reportsURL: DefaultReportsURL,
		arxivURL:   DefaultArxivURL,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TopPetitioners scrapes up to five "Name – N petitions" pairs from the
// MyVisaJobs reports hub.
func (p *Provider) TopPetitioners(ctx context.Context) []models.Source {
	return p.cached(ctx, cacheKeyTopPetitioners, func() ([]models.Source, error) {
		html, err := p.fetcher.GetText(ctx, p.reportsURL)
		if err != nil {
			return nil, err
		}
		matches := petitionsRe.FindAllStringSubmatch(html, 5)
		if len(matches) == 0 {
			return nil, fmt.Errorf("no petition counts on page")
		}
		bullets := make([]string, 0, len(matches))
		for _, m := range matches {
			bullets = append(bullets, fmt.Sprintf("%s – %s petitions", strings.TrimSpace(m[1]), strings.ReplaceAll(m[2], ",", "")))
		}
		return []models.Source{{Title: "MyVisaJobs Reports", URL: p.reportsURL, Snippet: strings.Join(bullets, "; ")}}, nil
	}, []models.Source{{Title: "MyVisaJobs Reports", URL: DefaultReportsURL, Snippet: "See latest H-1B Visa Report"}})
}

// MajorsStudies points at academic work on certification odds by major.
func (p *Provider) MajorsStudies(ctx context.Context) []models.Source {
	return p.cached(ctx, cacheKeyMajors, func() ([]models.Source, error) {
		if _, err := p.fetcher.GetText(ctx, p.arxivURL); err != nil {
			return nil, err
		}
		return []models.Source{{Title: "arXiv", URL: p.arxivURL, Snippet: "Academic studies on H-1B/LCA trends"}}, nil
	}, []models.Source{{Title: "arXiv", URL: DefaultArxivURL, Snippet: "Search for H-1B approval rate by major"}})
}

// SchoolLinks builds lookup links for a university's sponsored filings.
func SchoolLinks(university string) []models.Source {
	if strings.TrimSpace(university) == "" {
		university = "your university"
	}
	q := plusJoin(university)
	return []models.Source{
		{Title: "MyVisaJobs University Search", URL: "https://www.myvisajobs.com/University/" + q + "/"},
		{Title: "Google: MyVisaJobs " + strings.TrimSpace(university), URL: "https://www.google.com/search?q=site:myvisajobs.com+" + q + "+LCA"},
	}
}

// CompanyLinks builds lookup links for an employer's petition counts.
func CompanyLinks(company string) []models.Source {
	if strings.TrimSpace(company) == "" {
		company = "your company"
	}
	q := plusJoin(company)
	return []models.Source{
		{Title: "MyVisaJobs Employer Search", URL: "https://www.myvisajobs.com/Employer/" + q + "/"},
		{Title: "H1BGrader Employer Search", URL: "https://h1bgrader.com/employer/" + q},
		{Title: "Google: Employer H-1B LCAs", URL: "https://www.google.com/search?q=site:myvisajobs.com+" + q + "+H-1B+petitions"},
	}
}

func (p *Provider) cached(ctx context.Context, key string, fetch func() ([]models.Source, error), fallback []models.Source) []models.Source {
	if p.cache != nil {
		srcs, ok, err := p.cache.Get(ctx, key)
		switch {
		case err != nil:
			p.logger.Warn("source cache read failed", map[string]interface{}{"key": key, "error": err})
		case ok:
			metrics.SourceLookups.WithLabelValues(key, "hit").Inc()
			return srcs
		}
	}

	srcs, err := fetch()
	if err != nil {
		metrics.SourceLookups.WithLabelValues(key, "error").Inc()
		p.logger.Warn("source lookup failed, using fallback", map[string]interface{}{
			"key":   key,
			"error": commonerrors.NewSourceLookupFailedError(key, err),
		})
		return fallback
	}
	metrics.SourceLookups.WithLabelValues(key, "miss").Inc()

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, srcs); err != nil {
			p.logger.Warn("source cache write failed", map[string]interface{}{"key": key, "error": err})
		}
	}
	return srcs
}

func plusJoin(s string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(s), "+")
}
