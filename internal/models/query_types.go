// internal/models/query_types.go
package models

// QueryType names a structured filing query run by the query-filings worker.
type QueryType string

const (
	QueryTypeFilingSample     QueryType = "filing_sample"
	QueryTypeFilingsByCity    QueryType = "filings_by_city"
	QueryTypeFilingsByCompany QueryType = "filings_by_company"
	QueryTypeFilingsByTitle   QueryType = "filings_by_title"
	QueryTypeFilingsMinWage   QueryType = "filings_min_wage"
)
