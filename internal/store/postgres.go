// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sponsor-insights/internal/models"
)

const lcaSelect = `
	SELECT f.case_number, f.employer_name, f.job_title, f.visa_class,
	       w.worksite_city, w.worksite_state, w.prevailing_wage
	FROM lca_filings f
	LEFT JOIN lca_worksites w ON w.case_number = f.case_number`

const permSelect = `
	SELECT f.case_number, f.employer_name, f.job_title,
	       w.worksite_city, w.worksite_state, w.prevailing_wage,
	       f.decision_date::text, f.case_status, f.employer_country, f.education_level
	FROM perm_filings f
	LEFT JOIN perm_worksites w ON w.case_number = f.case_number`

// PostgresBackend reads the filing tables joined to their worksite tables.
type PostgresBackend struct {
	db *sql.DB
}

func NewPostgresBackend(db *sql.DB) *PostgresBackend {
	return &PostgresBackend{db: db}
}

func (b *PostgresBackend) Name() string { return "postgres" }

func (b *PostgresBackend) Select(ctx context.Context, dataset models.Dataset, filter models.Filter, limit int) ([]models.NormalizedRecord, error) {
	base := lcaSelect
	if dataset == models.DatasetPERM {
		base = permSelect
	}

	where, args := buildWhere(filter)
	query := base + where
	if filter.Kind == models.FilterMinWage {
		query += "\n\tORDER BY w.prevailing_wage DESC"
	}
	args = append(args, limit)
	query += fmt.Sprintf("\n\tLIMIT $%d", len(args))

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.NormalizedRecord
	for rows.Next() {
		var rec models.NormalizedRecord
		if dataset == models.DatasetPERM {
			rec, err = scanPERM(rows)
		} else {
			rec, err = scanLCA(rows)
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func buildWhere(f models.Filter) (string, []interface{}) {
	switch f.Kind {
	case models.FilterCity:
		return "\n\tWHERE w.worksite_city ILIKE $1", []interface{}{likePattern(f.Text)}
	case models.FilterEmployer:
		return "\n\tWHERE f.employer_name ILIKE $1", []interface{}{likePattern(f.Text)}
	case models.FilterTitle:
		return "\n\tWHERE f.job_title ILIKE $1", []interface{}{likePattern(f.Text)}
	case models.FilterMinWage:
		return "\n\tWHERE w.prevailing_wage >= $1", []interface{}{f.MinWage}
	}
	return "", nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func scanLCA(rows *sql.Rows) (models.NormalizedRecord, error) {
	var caseNumber, company, title, visaClass, city, state sql.NullString
	var wage sql.NullFloat64
	if err := rows.Scan(&caseNumber, &company, &title, &visaClass, &city, &state, &wage); err != nil {
		return models.NormalizedRecord{}, err
	}
	return models.NormalizedRecord{
		CaseNumber: nullStr(caseNumber),
		Company:    nullStr(company),
		JobTitle:   nullStr(title),
		City:       nullStr(city),
		State:      nullStr(state),
		Wage:       wage.Float64,
		VisaClass:  visaClass.String,
	}, nil
}

func scanPERM(rows *sql.Rows) (models.NormalizedRecord, error) {
	var caseNumber, company, title, city, state sql.NullString
	var decisionDate, status, country, education sql.NullString
	var wage sql.NullFloat64
	err := rows.Scan(&caseNumber, &company, &title, &city, &state, &wage,
		&decisionDate, &status, &country, &education)
	if err != nil {
		return models.NormalizedRecord{}, err
	}
	return models.NormalizedRecord{
		CaseNumber:      nullStr(caseNumber),
		Company:         nullStr(company),
		JobTitle:        nullStr(title),
		City:            nullStr(city),
		State:           nullStr(state),
		Wage:            wage.Float64,
		VisaClass:       models.VisaClassPERM,
		DecisionDate:    nullStr(decisionDate),
		CaseStatus:      nullStr(status),
		EmployerCountry: nullStr(country),
		EducationLevel:  nullStr(education),
	}, nil
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
