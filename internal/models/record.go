// internal/models/record.go
package models

import "strings"

// Visa class labels carried on NormalizedRecord.VisaClass.
const (
	VisaClassH1B  = "H-1B"
	VisaClassPERM = "PERM"
	VisaClassE3   = "E-3"
)

// NormalizedRecord is one filing joined with at most one worksite. Records are value
// snapshots returned by the store; nothing downstream mutates them.
type NormalizedRecord struct {
	CaseNumber *string `json:"caseNumber,omitempty"`
	Company    *string `json:"company,omitempty"`
	JobTitle   *string `json:"jobTitle,omitempty"`
	City       *string `json:"city,omitempty"`
	State      *string `json:"state,omitempty"`
	Wage       float64 `json:"wage"`
	VisaClass  string  `json:"visaClass"`

	// PERM-only
	DecisionDate    *string `json:"decisionDate,omitempty"`
	CaseStatus      *string `json:"caseStatus,omitempty"`
	EmployerCountry *string `json:"employerCountry,omitempty"`
	EducationLevel  *string `json:"educationLevel,omitempty"`
}

// Normalized returns a copy with a non-negative wage and a visa class defaulted to H-1B.
func (r NormalizedRecord) Normalized() NormalizedRecord {
	if r.Wage < 0 {
		r.Wage = 0
	}
	if strings.TrimSpace(r.VisaClass) == "" {
		r.VisaClass = VisaClassH1B
	}
	return r
}

// Str returns a pointer to s, or nil when s is blank.
func Str(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
