// internal/intent/wage.go
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"sponsor-insights/internal/models"
)

var (
	atMostRe  = regexp.MustCompile(`(?:less than|under|below)\s*\$?(\d[\d,]*)`)
	atLeastRe = regexp.MustCompile(`(?:more than|above|over|at least)\s*\$?(\d[\d,]*)`)
	amountRe  = regexp.MustCompile(`\d[\d,]*`)
)

// ExtractWage finds a wage threshold in normalized text. Explicit at-most words are
// tried first, then at-least words, then a bare amount, which reads as a floor.
func ExtractWage(text string) (models.WageThreshold, bool) {
	if v, ok := matchDirectional(atMostRe, text); ok {
		return models.WageThreshold{Amount: v, Direction: models.AtMost}, true
	}
	if v, ok := matchDirectional(atLeastRe, text); ok {
		return models.WageThreshold{Amount: v, Direction: models.AtLeast}, true
	}
	if v, ok := ParseAmount(text); ok {
		return models.WageThreshold{Amount: v, Direction: models.AtLeast}, true
	}
	return models.WageThreshold{}, false
}

// ParseAmount returns the first standalone amount in text: "120k", "$120,000",
// "120,000$" and "120" all read as 120000. Digits glued to a letter on either
// side ("h1b", "2b") are skipped.
func ParseAmount(text string) (float64, bool) {
	for _, loc := range amountRe.FindAllStringIndex(text, -1) {
		if loc[0] > 0 && isAlnum(text[loc[0]-1]) {
			continue
		}
		if v, ok := amountAt(text, loc[0], loc[1]); ok {
			return v, true
		}
	}
	return 0, false
}

func matchDirectional(re *regexp.Regexp, text string) (float64, bool) {
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		if m[0] > 0 && isAlnum(text[m[0]-1]) {
			continue
		}
		if v, ok := amountAt(text, m[2], m[3]); ok {
			return v, true
		}
	}
	return 0, false
}

// amountAt converts the digit run text[start:end], applying the thousands rule
// and rejecting runs immediately followed by a letter.
func amountAt(text string, start, end int) (float64, bool) {
	thousands := false
	if end < len(text) {
		switch c := text[end]; {
		case c == 'k':
			if end+1 < len(text) && isLetter(text[end+1]) {
				return 0, false
			}
			thousands = true
		case isLetter(c):
			return 0, false
		}
	}

	digits := strings.ReplaceAll(text[start:end], ",", "")
	v, err := strconv.ParseFloat(digits, 64)
	if err != nil {
		return 0, false
	}
	if thousands || v < 1000 {
		v *= 1000
	}
	return v, true
}

func isLetter(c byte) bool { return c >= 'a' && c <= 'z' }

func isAlnum(c byte) bool { return isLetter(c) || (c >= '0' && c <= '9') }
