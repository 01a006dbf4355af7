// internal/report/format.go
package report

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"sponsor-insights/internal/models"
)

const (
	// MaxItems is the presentation cap for every record list.
	MaxItems = 10

	NotSpecified = "Not specified"
	NoResults    = "No results found matching your criteria."
)

var (
	reportRule  = strings.Repeat("=", 70)
	sectionRule = strings.Repeat("=", 60)
)

// Records renders a titled, itemized report of recs. The output depends only on
// its inputs.
func Records(title string, recs []models.NormalizedRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 **%s** (%d found)\n", title, len(recs))
	b.WriteString(reportRule)
	b.WriteString("\n\n")

	if len(recs) == 0 {
		b.WriteString(NoResults)
		return b.String()
	}

	writeEntries(&b, recs, func(r models.NormalizedRecord) string {
		return Text(r.Normalized().VisaClass)
	})
	return strings.TrimRight(b.String(), "\n ")
}

// Section renders one dataset block of a guidance answer. Every entry carries
// the same visa label.
func Section(title string, recs []models.NormalizedRecord, visaLabel string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 %s – %d found\n", title, len(recs))
	b.WriteString(sectionRule)
	b.WriteString("\n\n")

	writeEntries(&b, recs, func(models.NormalizedRecord) string { return visaLabel })
	return strings.TrimRight(b.String(), "\n ")
}

func writeEntries(b *strings.Builder, recs []models.NormalizedRecord, visa func(models.NormalizedRecord) string) {
	shown := recs
	if len(shown) > MaxItems {
		shown = shown[:MaxItems]
	}
	for i, r := range shown {
		fmt.Fprintf(b, "%d. 🏢 %s\n\n", i+1, TextPtr(r.Company))
		fmt.Fprintf(b, "   📋 Position: %s\n", TextPtr(r.JobTitle))
		fmt.Fprintf(b, "   📍 Location: %s\n", Location(r.City, r.State))
		fmt.Fprintf(b, "   💰 Salary: %s\n", Salary(r.Wage))
		fmt.Fprintf(b, "   🛂 Visa: %s\n\n", visa(r))
	}
	if len(recs) > MaxItems {
		fmt.Fprintf(b, "... and %d more results", len(recs)-MaxItems)
	}
}

// Text collapses internal whitespace and defaults blank strings.
func Text(s string) string {
	v := strings.Join(strings.Fields(s), " ")
	if v == "" {
		return NotSpecified
	}
	return v
}

func TextPtr(s *string) string {
	if s == nil {
		return NotSpecified
	}
	return Text(*s)
}

// Location joins city and state, dropping whichever is missing.
func Location(city, state *string) string {
	c, s := TextPtr(city), TextPtr(state)
	switch {
	case c != NotSpecified && s != NotSpecified:
		return c + ", " + s
	case c != NotSpecified:
		return c
	case s != NotSpecified:
		return s
	}
	return NotSpecified
}

// Salary formats a positive wage as whole dollars with thousands separators.
func Salary(wage float64) string {
	if !(wage > 0) || math.IsInf(wage, 0) {
		return NotSpecified
	}
	return Currency(wage)
}

// Currency rounds half away from zero and groups thousands: 95000.5 -> "$95,001".
// The rounded value stays a float so amounts past the int64 range keep their sign.
func Currency(v float64) string {
	r := math.Round(v)
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return message.NewPrinter(language.English).Sprintf("$%.0f", r)
}
