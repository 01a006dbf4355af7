// internal/workers/data-access/query-filings/models.go
package queryfilings

import (
	"sponsor-insights/internal/common/validation"
	"sponsor-insights/internal/models"
)

type Input struct {
	QueryType string  `json:"queryType"`
	Dataset   string  `json:"dataset,omitempty"` // lca, perm or all
	City      string  `json:"city,omitempty"`
	Company   string  `json:"company,omitempty"`
	Title     string  `json:"title,omitempty"`
	MinWage   float64 `json:"minWage,omitempty"`
	Limit     int     `json:"limit,omitempty"`
}

type Output struct {
	Data               interface{} `json:"data"`
	RowCount           int         `json:"rowCount"`
	QueryExecutionTime int64       `json:"queryExecutionTime"` // milliseconds
}

type QueryType = models.QueryType

var inputSchema = validation.MustCompile(validation.JSONSchema{
	Type:     "object",
	Required: []string{"queryType"},
	Properties: map[string]validation.Property{
		"queryType": {
			Type: "string",
			Enum: []string{
				string(models.QueryTypeFilingSample),
				string(models.QueryTypeFilingsByCity),
				string(models.QueryTypeFilingsByCompany),
				string(models.QueryTypeFilingsByTitle),
				string(models.QueryTypeFilingsMinWage),
			},
		},
		"dataset": {Type: "string", Enum: []string{"lca", "perm", "all"}},
		"city":    {Type: "string", MaxLength: validation.IntPtr(100)},
		"company": {Type: "string", MaxLength: validation.IntPtr(200)},
		"title":   {Type: "string", MaxLength: validation.IntPtr(200)},
		"minWage": {Type: "number", Minimum: validation.FloatPtr(0)},
		"limit":   {Type: "integer", Minimum: validation.FloatPtr(1), Maximum: validation.FloatPtr(200)},
	},
	AdditionalProperties: true,
})
