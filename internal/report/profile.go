// internal/report/profile.go
package report

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sponsor-insights/internal/models"
)

// Rating thresholds as (good, great) filing counts.
var (
	h1bRatingThresholds  = [2]int{6, 21}
	permRatingThresholds = [2]int{3, 11}
)

// Profile is the aggregate view of one employer across both datasets.
type Profile struct {
	Company     string
	H1BCount    int
	PERMCount   int
	AvgH1BWage  float64 // 0 when no positive wage was seen
	AvgPERMWage float64
}

// NewProfile aggregates the LCA and PERM records fetched for company.
func NewProfile(company string, lca, perm []models.NormalizedRecord) Profile {
	return Profile{
		Company:     company,
		H1BCount:    len(lca),
		PERMCount:   len(perm),
		AvgH1BWage:  meanPositiveWage(lca),
		AvgPERMWage: meanPositiveWage(perm),
	}
}

func meanPositiveWage(recs []models.NormalizedRecord) float64 {
	var sum float64
	n := 0
	for _, r := range recs {
		if r.Wage > 0 {
			sum += r.Wage
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Rating maps a filing count to a tier using (good, great) thresholds.
func Rating(count int, thresholds [2]int) string {
	switch {
	case count >= thresholds[1]:
		return "🟢 Excellent"
	case count >= thresholds[0]:
		return "🟡 Good"
	case count > 0:
		return "🟠 Limited"
	}
	return "🔴 None"
}

// ConversionRate is PERM filings per H-1B filing as a percentage.
func (p Profile) ConversionRate() string {
	if p.H1BCount <= 0 {
		return NotSpecified
	}
	return fmt.Sprintf("%.1f%%", float64(p.PERMCount)/float64(p.H1BCount)*100)
}

func (p Profile) OverallRating() string {
	switch {
	case p.PERMCount > 10 && p.H1BCount > 20:
		return "🟢 Excellent"
	case p.PERMCount > 2 || p.H1BCount > 10:
		return "🟡 Good"
	}
	return "🔴 Limited"
}

func (p Profile) Recommendation() string {
	h, g := p.H1BCount, p.PERMCount
	switch {
	case h >= 21 && g >= 11:
		return "✅ Strong sponsor – Consistent H-1B + PERM history"
	case h >= 11 && g >= 6:
		return "✅ Good option – Solid H-1B and active green card pathway"
	case h >= 6 && g >= 1:
		return "⚠️ Mixed – H-1B present, limited green card activity"
	case h >= 1:
		return "⚠️ Weak – H-1B activity but little/no green card history"
	}
	return "❌ Not recommended – No visible immigration sponsorship"
}

// Render produces the profile report.
func (p Profile) Render() string {
	lines := []string{
		fmt.Sprintf("**🏢 Immigration Profile: %s**", cases.Title(language.English).String(Text(p.Company))),
		"",
		"**📊 H-1B Sponsorship:**",
		fmt.Sprintf("• Total H-1B filings: %d", p.H1BCount),
		fmt.Sprintf("• Average H-1B wage: %s", Salary(p.AvgH1BWage)),
		fmt.Sprintf("• H-1B sponsor rating: %s", Rating(p.H1BCount, h1bRatingThresholds)),
		"",
		"**📊 Green Card (PERM) Sponsorship:**",
		fmt.Sprintf("• Total PERM filings: %d", p.PERMCount),
		fmt.Sprintf("• Average PERM wage: %s", Salary(p.AvgPERMWage)),
		fmt.Sprintf("• PERM sponsor rating: %s", Rating(p.PERMCount, permRatingThresholds)),
		"",
		"**📊 Immigration Friendliness Score:**",
		fmt.Sprintf("• H-1B → PERM conversion rate: %s", p.ConversionRate()),
		fmt.Sprintf("• Overall rating: %s", p.OverallRating()),
		"",
		"**💡 Recommendation:**",
		p.Recommendation(),
	}
	return strings.Join(lines, "\n")
}
