// internal/intent/normalize.go
package intent

import (
	"strings"
)

var punctuationFolder = strings.NewReplacer(
	"\u2010", "-", "\u2011", "-", "\u2012", "-", "\u2013", "-", "\u2014", "-", "\u2015", "-",
	"\u2018", "'", "\u2019", "'",
	"\u201c", `"`, "\u201d", `"`,
)

// Normalize lowercases s, folds unicode dashes and curly quotes to ASCII and
// collapses runs of whitespace. Every matcher sees this form.
func Normalize(s string) string {
	t := punctuationFolder.Replace(strings.ToLower(s))
	return strings.Join(strings.Fields(t), " ")
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// firstContained returns the first term found in s, or "".
func firstContained(s string, terms []string) string {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return t
		}
	}
	return ""
}
