package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sponsor-insights/internal/models"
)

func record(company, title, city, state string, wage float64) models.NormalizedRecord {
	return models.NormalizedRecord{
		Company:  models.Str(company),
		JobTitle: models.Str(title),
		City:     models.Str(city),
		State:    models.Str(state),
		Wage:     wage,
	}
}

// ==========================
// Records
// ==========================

func TestRecords_SingleEntryLayout(t *testing.T) {
	got := Records("Jobs", []models.NormalizedRecord{record("Acme", "Engineer", "Austin", "TX", 95000)})

	want := "📊 **Jobs** (1 found)\n" +
		strings.Repeat("=", 70) + "\n" +
		"\n" +
		"1. 🏢 Acme\n" +
		"\n" +
		"   📋 Position: Engineer\n" +
		"   📍 Location: Austin, TX\n" +
		"   💰 Salary: $95,000\n" +
		"   🛂 Visa: H-1B"
	assert.Equal(t, want, got)
}

func TestRecords_ZeroResults(t *testing.T) {
	got := Records("PERM Jobs", nil)

	assert.Equal(t, "📊 **PERM Jobs** (0 found)\n"+strings.Repeat("=", 70)+"\n\n"+NoResults, got)
	assert.NotContains(t, got, "1. ")
}

func TestRecords_CapsAtTen(t *testing.T) {
	recs := make([]models.NormalizedRecord, 13)
	for i := range recs {
		recs[i] = record(fmt.Sprintf("Co %d", i+1), "Analyst", "Boston", "MA", 1)
	}

	got := Records("Jobs", recs)

	assert.Equal(t, 10, strings.Count(got, "🏢 "))
	assert.Contains(t, got, "10. 🏢 Co 10")
	assert.NotContains(t, got, "Co 11")
	assert.True(t, strings.HasSuffix(got, "... and 3 more results"))
	assert.Contains(t, got, "(13 found)")
}

func TestRecords_Idempotent(t *testing.T) {
	recs := []models.NormalizedRecord{
		record("Acme", "Engineer", "Austin", "", 120000),
		record("", "  Data\n  Scientist ", "", "WA", 0),
	}
	assert.Equal(t, Records("Jobs", recs), Records("Jobs", recs))
}

func TestRecords_Defaults(t *testing.T) {
	recs := []models.NormalizedRecord{
		{Company: models.Str("Globex"), JobTitle: models.Str("  Data\n  Scientist "), VisaClass: "PERM"},
	}

	got := Records("Jobs", recs)

	assert.Contains(t, got, "📋 Position: Data Scientist\n")
	assert.Contains(t, got, "📍 Location: Not specified\n")
	assert.Contains(t, got, "💰 Salary: Not specified\n")
	assert.Contains(t, got, "🛂 Visa: PERM")
}

func TestLocation(t *testing.T) {
	austin, tx, blank := "Austin", "TX", "   "
	assert.Equal(t, "Not specified", Location(nil, nil))
	assert.Equal(t, "Austin", Location(&austin, nil))
	assert.Equal(t, "TX", Location(nil, &tx))
	assert.Equal(t, "Austin, TX", Location(&austin, &tx))
	assert.Equal(t, "Austin", Location(&austin, &blank))
}

func TestSalary(t *testing.T) {
	tests := []struct {
		wage float64
		want string
	}{
		{0, "Not specified"},
		{-10, "Not specified"},
		{95000, "$95,000"},
		{95000.5, "$95,001"},
		{999.5, "$1,000"},
		{1234567.49, "$1,234,567"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Salary(tt.wage))
		})
	}
}

func TestCurrency(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{0, "$0"},
		{-0.4, "$0"},
		{120000, "$120,000"},
		{2.5, "$3"},
		{9.2233720368547758e18 * 2, "$18,446,744,073,709,551,616"},
		{1e21, "$1,000,000,000,000,000,000,000"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Currency(tt.v))
		})
	}
}

func TestSalary_LargeWage(t *testing.T) {
	assert.Equal(t, "$10,000,000,000,000,000,000", Salary(1e19))
}

// ==========================
// Section / Guidance
// ==========================

func TestSection_FixedVisaLabel(t *testing.T) {
	recs := []models.NormalizedRecord{{Company: models.Str("Acme"), VisaClass: "E-3"}}

	got := Section("Recent Green Card Filings (PERM Data)", recs, models.VisaClassPERM)

	assert.True(t, strings.HasPrefix(got, "📊 Recent Green Card Filings (PERM Data) – 1 found\n"+strings.Repeat("=", 60)+"\n\n1. 🏢 Acme"))
	assert.True(t, strings.HasSuffix(got, "🛂 Visa: PERM"))
}

func TestGuidance(t *testing.T) {
	data := GuidanceData{HighWage: true}.Render()
	assert.Contains(t, data, "High-wage H-1B Filings (LCA Data) – 0 found")
	assert.Contains(t, data, "High-wage Green Card Filings (PERM Data) – 0 found")

	opt := Guidance(models.StageOPT, data)
	parts := strings.Split(opt, "\n\n")
	assert.Equal(t, StageHeader(models.StageOPT), parts[0])
	assert.True(t, strings.HasSuffix(opt, "• Consider companies that also file PERM applications"))

	general := Guidance(models.StageGeneral, "DATA")
	assert.Equal(t, "📋 **Immigration Data Analysis**\n\nDATA", general)
}

// ==========================
// Profile
// ==========================

func TestProfile_ZeroFilings(t *testing.T) {
	got := NewProfile("initech", nil, nil).Render()

	assert.Contains(t, got, "**🏢 Immigration Profile: Initech**")
	assert.Contains(t, got, "• Total H-1B filings: 0")
	assert.Contains(t, got, "• Total PERM filings: 0")
	assert.Contains(t, got, "• Average H-1B wage: Not specified")
	assert.Contains(t, got, "• Average PERM wage: Not specified")
	assert.Contains(t, got, "• H-1B → PERM conversion rate: Not specified")
	assert.Contains(t, got, "• Overall rating: 🔴 Limited")
	assert.True(t, strings.HasSuffix(got, "❌ Not recommended – No visible immigration sponsorship"))
}

func TestProfile_StrongSponsor(t *testing.T) {
	lca := make([]models.NormalizedRecord, 25)
	for i := range lca {
		lca[i] = models.NormalizedRecord{Wage: 100000}
	}
	lca[0].Wage = 0 // ignored in the mean
	perm := make([]models.NormalizedRecord, 12)
	for i := range perm {
		perm[i] = models.NormalizedRecord{Wage: 150000}
	}

	p := NewProfile("google llc", lca, perm)
	got := p.Render()

	assert.Equal(t, 100000.0, p.AvgH1BWage)
	assert.Contains(t, got, "**🏢 Immigration Profile: Google Llc**")
	assert.Contains(t, got, "**📊 H-1B Sponsorship:**")
	assert.Contains(t, got, "**📊 Green Card (PERM) Sponsorship:**")
	assert.Contains(t, got, "• Total H-1B filings: 25")
	assert.Contains(t, got, "• Average PERM wage: $150,000")
	assert.Contains(t, got, "• H-1B sponsor rating: 🟢 Excellent")
	assert.Contains(t, got, "• PERM sponsor rating: 🟢 Excellent")
	assert.Contains(t, got, "• H-1B → PERM conversion rate: 48.0%")
	assert.Contains(t, got, "• Overall rating: 🟢 Excellent")
	assert.Contains(t, got, "✅ Strong sponsor")
}

func TestProfile_Recommendation(t *testing.T) {
	tests := []struct {
		h1b, perm int
		want      string
	}{
		{21, 11, "✅ Strong sponsor"},
		{11, 6, "✅ Good option"},
		{20, 10, "✅ Good option"},
		{6, 1, "⚠️ Mixed"},
		{50, 0, "⚠️ Weak"},
		{1, 0, "⚠️ Weak"},
		{0, 30, "❌ Not recommended"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := Profile{H1BCount: tt.h1b, PERMCount: tt.perm}
			assert.True(t, strings.HasPrefix(p.Recommendation(), tt.want), p.Recommendation())
		})
	}
}

func TestRating(t *testing.T) {
	assert.Equal(t, "🔴 None", Rating(0, h1bRatingThresholds))
	assert.Equal(t, "🟠 Limited", Rating(5, h1bRatingThresholds))
	assert.Equal(t, "🟡 Good", Rating(6, h1bRatingThresholds))
	assert.Equal(t, "🟢 Excellent", Rating(21, h1bRatingThresholds))
	assert.Equal(t, "🟡 Good", Rating(3, permRatingThresholds))
	assert.Equal(t, "🟢 Excellent", Rating(11, permRatingThresholds))
}

// ==========================
// FAQ
// ==========================

func TestFAQ(t *testing.T) {
	sources := []models.Source{
		{Title: "MyVisaJobs University", URL: "https://www.myvisajobs.com/Reports/University.aspx?q=University+of+Michigan"},
		{Title: "H1BGrader", URL: "https://h1bgrader.com", Snippet: "multi-year totals"},
	}

	got := FAQ(models.FaqSchoolSponsors, map[string]string{"university": "University of Michigan"}, sources)

	lines := strings.Split(got, "\n")
	require.GreaterOrEqual(t, len(lines), 8)
	assert.Equal(t, "🏫 School H-1B Sponsorships", lines[0])
	assert.Equal(t, strings.Repeat("=", 60), lines[1])
	assert.Equal(t, "", lines[2])
	assert.Equal(t, "• School: University of Michigan", lines[3])
	assert.Equal(t, "Sources:", lines[6])
	assert.Equal(t, "• H1BGrader: https://h1bgrader.com — multi-year totals", lines[len(lines)-1])
}

func TestFAQ_MissingArgs(t *testing.T) {
	school := FAQ(models.FaqSchoolSponsors, map[string]string{}, nil)
	assert.Contains(t, school, "• Please share your university (e.g., 'University of Michigan').")
	assert.True(t, strings.HasSuffix(school, "Sources:"))

	company := FAQ(models.FaqCompanyCounts, map[string]string{"company": "  "}, nil)
	assert.Contains(t, company, "• Please provide the company legal name.")

	assert.Equal(t, "No FAQ handler matched.", FAQ("unknown", nil, nil))
}
