// internal/intent/faq.go
package intent

import (
	"regexp"
	"strings"

	"sponsor-insights/internal/models"
)

var (
	h1bVariantRe = regexp.MustCompile(`\bh-?\s?1b\b`)

	// Captured from the raw query so the argument keeps its original casing.
	universityArgRe = regexp.MustCompile(`(?i)\b(?:from|at)\s+([A-Za-z0-9&.,'()\-\s]{3,})`)
	companyArgRe    = regexp.MustCompile(`(?i)\b(?:company|employer|from)\s+([A-Za-z0-9&.,'()\-\s]{2,})`)
)

// ExtractFAQ classifies the knowledge questions answered from live sources.
func ExtractFAQ(raw, text string) (models.FaqQuery, bool) {
	mentionsH1B := h1bVariantRe.MatchString(text)

	if containsAny(text, "which companies", "top", "filed the most", "most petitions") &&
		strings.Contains(text, "2025") && mentionsH1B {
		return models.FaqQuery{Topic: models.FaqTopPetitioners, Args: map[string]string{}}, true
	}

	if strings.Contains(text, "majors") &&
		(mentionsH1B || containsAny(text, "approve", "approved", "approval", "certif")) {
		return models.FaqQuery{Topic: models.FaqMajorsApproval, Args: map[string]string{}}, true
	}

	if containsAny(text, "sponsor", "sponsored") && containsAny(text, "school", "university") {
		return models.FaqQuery{
			Topic: models.FaqSchoolSponsors,
			Args:  map[string]string{"university": captureArg(universityArgRe, raw)},
		}, true
	}

	if containsAny(text, "how many", "how much", "number") &&
		containsAny(text, "company", "employer", "from") &&
		(mentionsH1B || containsAny(text, "petition", "lca")) {
		return models.FaqQuery{
			Topic: models.FaqCompanyCounts,
			Args:  map[string]string{"company": captureArg(companyArgRe, raw)},
		}, true
	}

	return models.FaqQuery{}, false
}

func captureArg(re *regexp.Regexp, raw string) string {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(strings.TrimRight(strings.TrimSpace(m[1]), ".,"))
}
