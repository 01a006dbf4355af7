package report

import (
	"fmt"
	"strings"

	"sponsor-insights/internal/models"
)

// FAQ renders a fixed-template answer followed by its sources.
func FAQ(topic models.FaqTopic, args map[string]string, sources []models.Source) string {
	var lines []string

	switch topic {
	case models.FaqTopPetitioners:
		lines = header("📊 Top H-1B Petitioners (FY 2025)")
		lines = append(lines, "• This summary lists leading petitioners for FY 2025.")

	case models.FaqMajorsApproval:
		lines = header("🎓 Majors With Higher H-1B Certification Odds")
		lines = append(lines,
			"• Studies suggest CS/STEM and PhD holders have higher certification rates.",
			"• Lower odds observed for associate degrees and some non-STEM fields.",
		)

	case models.FaqSchoolSponsors:
		lines = header("🏫 School H-1B Sponsorships")
		if u := strings.TrimSpace(args["university"]); u != "" {
			lines = append(lines, "• School: "+u)
		} else {
			lines = append(lines, "• Please share your university (e.g., 'University of Michigan').")
		}
		lines = append(lines, "• Use these sources to view recent LCA filings and sponsors.")

	case models.FaqCompanyCounts:
		lines = header("🏢 Employer H-1B Petition Counts")
		if c := strings.TrimSpace(args["company"]); c != "" {
			lines = append(lines, "• Company: "+c)
		} else {
			lines = append(lines, "• Please provide the company legal name.")
		}
		lines = append(lines, "• Use these to view recent annual counts (MyVisaJobs) and multi-year totals (H1BGrader).")

	default:
		return "No FAQ handler matched."
	}

	lines = append(lines, "", "Sources:")
	for _, s := range sources {
		line := fmt.Sprintf("• %s: %s", s.Title, s.URL)
		if s.Snippet != "" {
			line += " — " + s.Snippet
		}
		lines = append(lines, line)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n ")
}

func header(title string) []string {
	return []string{title, sectionRule, ""}
}
