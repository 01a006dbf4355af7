package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sponsor-insights/internal/models"
)

type capturedSearch struct {
	path  string
	query string
	body  map[string]interface{}
}

func newTestESBackend(t *testing.T, status int, response string) (*ElasticsearchBackend, *capturedSearch) {
	t.Helper()
	captured := &capturedSearch{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.query = r.URL.RawQuery
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	return NewElasticsearchBackend(client, "", ""), captured
}

const permHits = `{
  "hits": {
    "total": {"value": 2},
    "hits": [
      {"_source": {"case_number": "A-1", "employer_name": "Globex", "job_title": "Staff Engineer",
                   "worksite_city": "Seattle", "worksite_state": "WA", "prevailing_wage": 210000,
                   "case_status": "Certified", "decision_date": "2025-03-01"}},
      {"_source": {"case_number": "A-2", "employer_name": "Globex"}}
    ]
  }
}`

func TestElasticsearchBackend_Select(t *testing.T) {
	b, captured := newTestESBackend(t, http.StatusOK, permHits)

	recs, err := b.Select(context.Background(), models.DatasetPERM, models.WageAtLeast(150000), 40)

	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "/perm_filings/_search", captured.path)
	assert.Contains(t, captured.query, "size=40")

	assert.Equal(t, "Globex", *recs[0].Company)
	assert.Equal(t, 210000.0, recs[0].Wage)
	assert.Equal(t, models.VisaClassPERM, recs[0].VisaClass)
	assert.Equal(t, "Certified", *recs[0].CaseStatus)

	assert.Nil(t, recs[1].City)
	assert.Equal(t, 0.0, recs[1].Wage)

	rangeQ := captured.body["query"].(map[string]interface{})["range"].(map[string]interface{})
	assert.Equal(t, 150000.0, rangeQ["prevailing_wage"].(map[string]interface{})["gte"])
	assert.NotNil(t, captured.body["sort"])
}

func TestBuildSearchBody(t *testing.T) {
	tests := []struct {
		name   string
		filter models.Filter
		want   string
	}{
		{"sample", models.NoFilter(), `{"query":{"match_all":{}}}`},
		{"city", models.CityContains("New York"), `{"query":{"wildcard":{"worksite_city":{"case_insensitive":true,"value":"*New York*"}}}}`},
		{"employer escapes wildcards", models.EmployerContains("a*b?"), `{"query":{"wildcard":{"employer_name":{"case_insensitive":true,"value":"*a\\*b\\?*"}}}}`},
		{"title", models.TitleContains("engineer"), `{"query":{"wildcard":{"job_title":{"case_insensitive":true,"value":"*engineer*"}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(buildSearchBody(tt.filter))
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestElasticsearchBackend_ErrorStatus(t *testing.T) {
	b, captured := newTestESBackend(t, http.StatusBadRequest, `{"error":{"type":"index_not_found_exception"}}`)

	_, err := b.Select(context.Background(), models.DatasetLCA, models.NoFilter(), 10)

	require.Error(t, err)
	assert.True(t, strings.HasPrefix(captured.path, "/lca_filings"))
	assert.Contains(t, err.Error(), "search query failed")
}
