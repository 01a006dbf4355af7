// internal/engine/toolbox.go
package engine

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"sponsor-insights/internal/delegate"
	"sponsor-insights/internal/intent"
	"sponsor-insights/internal/models"
	"sponsor-insights/internal/report"
)

const (
	ToolSampleLCA          = "get_sample_lca_data"
	ToolJobsByCity         = "find_jobs_by_city"
	ToolHighWageJobs       = "find_high_wage_jobs"
	ToolJobsByCompany      = "find_jobs_by_company"
	ToolJobsByTitle        = "find_jobs_by_title"
	ToolSamplePERM         = "get_sample_perm_data"
	ToolPERMJobsByCity     = "find_perm_jobs_by_city"
	ToolPERMHighWageJobs   = "find_perm_high_wage_jobs"
	ToolPERMJobsByCompany  = "find_perm_jobs_by_company"
	ToolPERMJobsByTitle    = "find_perm_jobs_by_title"
	ToolAllJobsByCity      = "get_all_jobs_by_city"
	ToolAllHighWageJobs    = "get_all_high_wage_jobs"
	ToolCompanyProfile     = "company_immigration_profile"
	defaultToolSampleLimit = 10
)

var (
	ErrUnknownTool  = errors.New("unknown tool")
	ErrInvalidInput = errors.New("invalid tool input")
)

type toolFunc func(ctx context.Context, input string) (string, error)

// Toolbox exposes the dispatcher's operations as named actions for the agent
// delegate and the MCP server.
type Toolbox struct {
	tools []delegate.Tool
	funcs map[string]toolFunc
}

var _ delegate.Toolbox = (*Toolbox)(nil)

func (t *Toolbox) Tools() []delegate.Tool {
	out := make([]delegate.Tool, len(t.tools))
	copy(out, t.tools)
	return out
}

func (t *Toolbox) Call(ctx context.Context, name, input string) (string, error) {
	fn, ok := t.funcs[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return fn(ctx, strings.TrimSpace(input))
}

func (t *Toolbox) add(name, description string, fn toolFunc) {
	t.tools = append(t.tools, delegate.Tool{Name: name, Description: description})
	t.funcs[name] = fn
}

// Toolbox builds the action set bound to this engine.
func (e *Engine) Toolbox() *Toolbox {
	t := &Toolbox{funcs: make(map[string]toolFunc)}
	lca, perm := models.DatasetLCA, models.DatasetPERM

	t.add(ToolSampleLCA, "Get sample H-1B LCA filings with worksite information. Input: number of records (default 10).",
		e.sampleTool(lca, "Sample LCA Jobs"))
	t.add(ToolJobsByCity, "Find H-1B LCA jobs in a city. Input: city name, e.g. 'San Francisco'.",
		e.textTool(lca, models.CityContains, "Jobs in %s"))
	t.add(ToolHighWageJobs, "Find H-1B LCA jobs paying at least a minimum wage. Input: amount, e.g. '120000' or '150k'.",
		e.wageTool(lca, "High-Wage Jobs (%s+)"))
	t.add(ToolJobsByCompany, "Find H-1B LCA jobs at employers matching a name. Input: company name.",
		e.textTool(lca, models.EmployerContains, "Jobs at %s"))
	t.add(ToolJobsByTitle, "Find H-1B LCA jobs by job title. Input: title, e.g. 'Data Scientist'.",
		e.textTool(lca, models.TitleContains, "'%s' Positions"))

	t.add(ToolSamplePERM, "Get sample PERM green card filings. Input: number of records (default 10).",
		e.sampleTool(perm, "Sample PERM Jobs"))
	t.add(ToolPERMJobsByCity, "Find PERM green card filings in a city. Input: city name.",
		e.textTool(perm, models.CityContains, "PERM Jobs in %s"))
	t.add(ToolPERMHighWageJobs, "Find PERM green card filings paying at least a minimum wage. Input: amount.",
		e.wageTool(perm, "PERM High-Wage Jobs (%s+)"))
	t.add(ToolPERMJobsByCompany, "Find PERM green card filings at employers matching a name. Input: company name.",
		e.textTool(perm, models.EmployerContains, "PERM Jobs at %s"))
	t.add(ToolPERMJobsByTitle, "Find PERM green card filings by job title. Input: title.",
		e.textTool(perm, models.TitleContains, "PERM '%s' Positions"))

	t.add(ToolAllJobsByCity, "Find H-1B and PERM filings in a city. Input: city name.",
		func(ctx context.Context, city string) (string, error) {
			if city == "" {
				return "", fmt.Errorf("%w: city is required", ErrInvalidInput)
			}
			recs, err := e.store.FetchCombined(ctx, models.CityContains(city), e.limits.Tool)
			if err != nil {
				return "", err
			}
			return report.Records("All Jobs in "+city, recs), nil
		})
	t.add(ToolAllHighWageJobs, "Find the best-paid H-1B and PERM filings above a minimum wage. Input: amount.",
		func(ctx context.Context, input string) (string, error) {
			amount, err := parseWageInput(input)
			if err != nil {
				return "", err
			}
			recs, err := e.store.FetchCombined(ctx, models.WageAtLeast(amount), e.limits.Tool)
			if err != nil {
				return "", err
			}
			return report.Records(fmt.Sprintf("All High-Wage Jobs (%s+)", report.Currency(amount)), recs), nil
		})
	t.add(ToolCompanyProfile, "Summarize an employer's H-1B and green card sponsorship history. Input: company name.",
		e.CompanyProfile)

	return t
}

func (e *Engine) sampleTool(ds models.Dataset, title string) toolFunc {
	return func(ctx context.Context, input string) (string, error) {
		limit := defaultToolSampleLimit
		if input != "" {
			n, err := strconv.Atoi(input)
			if err != nil {
				return "", fmt.Errorf("%w: limit %q", ErrInvalidInput, input)
			}
			limit = n
		}
		limit = min(max(limit, 1), e.limits.Tool)

		recs, err := e.store.Fetch(ctx, ds, models.NoFilter(), limit)
		if err != nil {
			return "", err
		}
		return report.Records(title, recs), nil
	}
}

func (e *Engine) textTool(ds models.Dataset, filter func(string) models.Filter, titleFormat string) toolFunc {
	return func(ctx context.Context, input string) (string, error) {
		if input == "" {
			return "", fmt.Errorf("%w: empty search text", ErrInvalidInput)
		}
		recs, err := e.store.Fetch(ctx, ds, filter(input), e.limits.Tool)
		if err != nil {
			return "", err
		}
		return report.Records(fmt.Sprintf(titleFormat, input), recs), nil
	}
}

func (e *Engine) wageTool(ds models.Dataset, titleFormat string) toolFunc {
	return func(ctx context.Context, input string) (string, error) {
		amount, err := parseWageInput(input)
		if err != nil {
			return "", err
		}
		recs, err := e.store.Fetch(ctx, ds, models.WageAtLeast(amount), e.limits.Tool)
		if err != nil {
			return "", err
		}
		return report.Records(fmt.Sprintf(titleFormat, report.Currency(amount)), recs), nil
	}
}

func parseWageInput(input string) (float64, error) {
	amount, ok := intent.ParseAmount(intent.Normalize(input))
	if !ok {
		return 0, fmt.Errorf("%w: wage %q", ErrInvalidInput, input)
	}
	return amount, nil
}
