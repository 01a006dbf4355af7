// internal/intent/visa.go
package intent

import (
	"regexp"
	"strings"

	"sponsor-insights/internal/models"
)

var (
	h1bClassRe = regexp.MustCompile(`\bh\s*-?\s*1\s*-?\s*b`)
	permRe     = regexp.MustCompile(`\bperm\b`)
	e3Re       = regexp.MustCompile(`\be\s*-?\s*3\b|\be3\b`)
)

// ExtractVisa detects an explicit visa class in normalized text.
func ExtractVisa(text string) (models.VisaFilter, bool) {
	switch {
	case h1bClassRe.MatchString(text):
		return models.VisaFilter{Class: models.VisaClassH1B}, true
	case permRe.MatchString(text), strings.Contains(text, "green card"), strings.Contains(text, "greencard"):
		return models.VisaFilter{Class: models.VisaClassPERM}, true
	case e3Re.MatchString(text):
		return models.VisaFilter{Class: models.VisaClassE3}, true
	}
	return models.VisaFilter{}, false
}

// MatchesVisaClass reports whether a record's visa class label belongs to class.
func MatchesVisaClass(label, class string) bool {
	v := strings.ToLower(strings.TrimSpace(label))
	if v == "" {
		return false
	}
	switch class {
	case models.VisaClassH1B:
		return strings.Contains(v, "h-1b")
	case models.VisaClassPERM:
		return strings.Contains(v, "perm") || strings.Contains(v, "green card")
	case models.VisaClassE3:
		return strings.Contains(v, "e-3") || strings.Contains(v, "e3")
	}
	return false
}
