// internal/intent/guidance.go
package intent

import (
	"regexp"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sponsor-insights/internal/models"
)

var immigrationKeywords = []string{
	"opt", "f-1", "student", "visa", "sponsor", "green card", "perm",
	"h-1b", "h1b", "immigration", "pathway", "timeline", "process",
	"international student", "work authorization", "permanent residency",
}

// Stage keyword sets, evaluated in order.
var stageKeywords = []struct {
	stage models.Stage
	terms []string
}{
	{models.StageOPT, []string{"opt", "f-1", "student", "graduate"}},
	{models.StageH1B, []string{"h-1b", "h1b", "lottery", "sponsor"}},
	{models.StageGreenCard, []string{"green card", "perm", "permanent", "eb-2", "eb-3"}},
	{models.StageFullPathway, []string{"pathway", "journey", "timeline", "process"}},
}

// Cities is the location gazetteer, in match order.
var Cities = []string{"san francisco", "new york", "seattle", "chicago", "boston", "austin", "los angeles"}

// Companies is the roster of employers recognized by name.
var Companies = []string{"google", "microsoft", "amazon", "apple", "meta", "netflix", "tesla"}

var industries = []struct {
	name  string
	terms []string
}{
	{"tech", []string{"software", "engineer", "developer", "tech", "google", "microsoft", "amazon"}},
	{"finance", []string{"finance", "banking", "analyst", "goldman", "jpmorgan"}},
	{"consulting", []string{"consulting", "consultant", "mckinsey", "bain", "bcg"}},
	{"healthcare", []string{"healthcare", "medical", "pharma", "biotech"}},
}

var (
	salaryTerms   = []string{"salary", "wage", "pay", "money", "prevailing"}
	timelineTerms = []string{"when", "timeline", "deadline", "how long", "time"}
)

// IsImmigrationQuery reports whether normalized text should take the guidance path.
func IsImmigrationQuery(text string) bool {
	return containsAny(text, immigrationKeywords...)
}

// AnalyzeGuidance extracts the stage and context flags from normalized text.
func AnalyzeGuidance(text string) models.GuidanceQuery {
	q := models.GuidanceQuery{
		Stage:           models.StageGeneral,
		Location:        ExtractCity(text),
		Company:         ExtractCompany(text),
		SalaryConcern:   containsAny(text, salaryTerms...),
		TimelineConcern: containsAny(text, timelineTerms...),
	}
	for _, s := range stageKeywords {
		if containsAny(text, s.terms...) {
			q.Stage = s.stage
			break
		}
	}
	for _, ind := range industries {
		if containsAny(text, ind.terms...) {
			q.Industry = ind.name
			break
		}
	}
	return q
}

// ExtractCity returns the first gazetteer city in normalized text, title cased.
func ExtractCity(text string) string {
	return titleCase(firstContained(text, Cities))
}

// ExtractCompany returns the first roster company in normalized text, title cased.
func ExtractCompany(text string) string {
	return titleCase(firstContained(text, Companies))
}

var titleRe = regexp.MustCompile(`\bas an? ([a-z][a-z0-9 +#/&-]*?)(?:\s+(?:in|at|for|with|from|near)\b|[?.!,;]|$)`)

// ExtractTitle returns the job title in an "as a <title>" phrase.
func ExtractTitle(text string) string {
	m := titleRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return m[1]
}

func titleCase(s string) string {
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(s)
}
