// internal/store/elasticsearch.go
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sponsor-insights/internal/models"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ElasticsearchBackend reads denormalized filing documents, one per
// filing/worksite pair, from one index per dataset.
type ElasticsearchBackend struct {
	client    *elasticsearch.Client
	lcaIndex  string
	permIndex string
}

func NewElasticsearchBackend(client *elasticsearch.Client, lcaIndex, permIndex string) *ElasticsearchBackend {
	if lcaIndex == "" {
		lcaIndex = "lca_filings"
	}
	if permIndex == "" {
		permIndex = "perm_filings"
	}
	return &ElasticsearchBackend{client: client, lcaIndex: lcaIndex, permIndex: permIndex}
}

func (b *ElasticsearchBackend) Name() string { return "elasticsearch" }

type esDoc struct {
	CaseNumber      *string  `json:"case_number"`
	EmployerName    *string  `json:"employer_name"`
	JobTitle        *string  `json:"job_title"`
	VisaClass       *string  `json:"visa_class"`
	WorksiteCity    *string  `json:"worksite_city"`
	WorksiteState   *string  `json:"worksite_state"`
	PrevailingWage  *float64 `json:"prevailing_wage"`
	DecisionDate    *string  `json:"decision_date"`
	CaseStatus      *string  `json:"case_status"`
	EmployerCountry *string  `json:"employer_country"`
	EducationLevel  *string  `json:"education_level"`
}

type esResponse struct {
	Hits struct {
		Hits []struct {
			Source esDoc `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

func (b *ElasticsearchBackend) Select(ctx context.Context, dataset models.Dataset, filter models.Filter, limit int) ([]models.NormalizedRecord, error) {
	index := b.lcaIndex
	if dataset == models.DatasetPERM {
		index = b.permIndex
	}

	body, err := json.Marshal(buildSearchBody(filter))
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(body),
		Size:  &limit,
	}

	res, err := req.Do(ctx, b.client)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("search query failed: %s", res.String())
	}

	var parsed esResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	out := make([]models.NormalizedRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		out = append(out, hit.Source.toRecord(dataset))
	}
	return out, nil
}

func buildSearchBody(f models.Filter) map[string]interface{} {
	var query map[string]interface{}
	switch f.Kind {
	case models.FilterCity:
		query = wildcard("worksite_city", f.Text)
	case models.FilterEmployer:
		query = wildcard("employer_name", f.Text)
	case models.FilterTitle:
		query = wildcard("job_title", f.Text)
	case models.FilterMinWage:
		query = map[string]interface{}{
			"range": map[string]interface{}{
				"prevailing_wage": map[string]interface{}{"gte": f.MinWage},
			},
		}
	default:
		query = map[string]interface{}{"match_all": map[string]interface{}{}}
	}

	body := map[string]interface{}{"query": query}
	if f.Kind == models.FilterMinWage {
		body["sort"] = []interface{}{
			map[string]interface{}{"prevailing_wage": map[string]interface{}{"order": "desc"}},
		}
	}
	return body
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

func wildcard(field, text string) map[string]interface{} {
	return map[string]interface{}{
		"wildcard": map[string]interface{}{
			field: map[string]interface{}{
				"value":            "*" + wildcardEscaper.Replace(text) + "*",
				"case_insensitive": true,
			},
		},
	}
}

func (d esDoc) toRecord(dataset models.Dataset) models.NormalizedRecord {
	rec := models.NormalizedRecord{
		CaseNumber: d.CaseNumber,
		Company:    d.EmployerName,
		JobTitle:   d.JobTitle,
		City:       d.WorksiteCity,
		State:      d.WorksiteState,
	}
	if d.PrevailingWage != nil {
		rec.Wage = *d.PrevailingWage
	}
	if d.VisaClass != nil {
		rec.VisaClass = *d.VisaClass
	}
	if dataset == models.DatasetPERM {
		rec.VisaClass = models.VisaClassPERM
		rec.DecisionDate = d.DecisionDate
		rec.CaseStatus = d.CaseStatus
		rec.EmployerCountry = d.EmployerCountry
		rec.EducationLevel = d.EducationLevel
	}
	return rec
}
