// internal/models/dataset.go
package models

import (
	"fmt"
	"strconv"
)

// Dataset names one of the two filing collections.
type Dataset string

const (
	DatasetLCA  Dataset = "filings"
	DatasetPERM Dataset = "green_card_filings"
)

// Datasets lists both collections in the fixed merge order.
var Datasets = []Dataset{DatasetLCA, DatasetPERM}

func (d Dataset) Valid() bool {
	return d == DatasetLCA || d == DatasetPERM
}

// VisaClass is the label assigned to records of this dataset when the row has none.
func (d Dataset) VisaClass() string {
	if d == DatasetPERM {
		return VisaClassPERM
	}
	return VisaClassH1B
}

func ParseDataset(s string) (Dataset, error) {
	switch s {
	case "filings", "lca", "LCA":
		return DatasetLCA, nil
	case "green_card_filings", "perm", "PERM":
		return DatasetPERM, nil
	}
	return "", fmt.Errorf("unknown dataset %q", s)
}

type FilterKind string

const (
	FilterNone     FilterKind = "sample"
	FilterCity     FilterKind = "city"
	FilterEmployer FilterKind = "employer"
	FilterTitle    FilterKind = "title"
	FilterMinWage  FilterKind = "min_wage"
)

// Filter is a single predicate applied by the store. Text is used by the
// substring kinds, MinWage by FilterMinWage.
type Filter struct {
	Kind    FilterKind `json:"kind"`
	Text    string     `json:"text,omitempty"`
	MinWage float64    `json:"minWage,omitempty"`
}

func NoFilter() Filter                 { return Filter{Kind: FilterNone} }
func CityContains(city string) Filter  { return Filter{Kind: FilterCity, Text: city} }
func EmployerContains(n string) Filter { return Filter{Kind: FilterEmployer, Text: n} }
func TitleContains(t string) Filter    { return Filter{Kind: FilterTitle, Text: t} }
func WageAtLeast(w float64) Filter     { return Filter{Kind: FilterMinWage, MinWage: w} }

// Describe renders the filter for logs and error messages.
func (f Filter) Describe() string {
	switch f.Kind {
	case FilterNone, "":
		return "sample"
	case FilterCity:
		return fmt.Sprintf("city contains %q", f.Text)
	case FilterEmployer:
		return fmt.Sprintf("employer contains %q", f.Text)
	case FilterTitle:
		return fmt.Sprintf("title contains %q", f.Text)
	case FilterMinWage:
		return "wage >= " + strconv.FormatFloat(f.MinWage, 'f', -1, 64)
	}
	return fmt.Sprintf("unknown filter %q", string(f.Kind))
}

// Validate rejects unknown kinds, empty needles and negative thresholds.
func (f Filter) Validate() error {
	switch f.Kind {
	case FilterNone:
		return nil
	case FilterCity, FilterEmployer, FilterTitle:
		if f.Text == "" {
			return fmt.Errorf("%s filter requires text", f.Kind)
		}
		return nil
	case FilterMinWage:
		if f.MinWage < 0 {
			return fmt.Errorf("minimum wage must not be negative")
		}
		return nil
	}
	return fmt.Errorf("unknown filter kind %q", string(f.Kind))
}
