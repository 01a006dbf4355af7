package report

import (
	"strings"

	"sponsor-insights/internal/models"
)

const DataUnavailable = "Sorry, I encountered an error retrieving the data. Please try a more specific query."

var stageHeaders = map[models.Stage]string{
	models.StageOPT:         "🎓 **OPT Stage Guidance** - Planning your post-graduation work authorization",
	models.StageH1B:         "🏢 **H-1B Stage Guidance** - Finding sponsoring employers",
	models.StageGreenCard:   "🟢 **Green Card Stage Guidance** - Permanent residency pathway",
	models.StageFullPathway: "🛤️ **Complete Immigration Pathway** - F-1 to Green Card journey",
	models.StageGeneral:     "📋 **Immigration Data Analysis**",
}

var stageAdvice = map[models.Stage][]string{
	models.StageOPT: {
		"**💡 OPT Stage Tips:**",
		"• Focus on companies with high H-1B approval rates",
		"• STEM students get 24-month extension - use it wisely",
		"• Start H-1B prep early (applications due in March)",
		"• Consider companies that also file PERM applications",
	},
	models.StageH1B: {
		"**💡 H-1B Stage Tips:**",
		"• H-1B lottery odds vary by company size and filing history",
		"• Look for companies that file multiple applications",
		"• Consider consulting firms for higher lottery chances",
		"• Backup plan: Look into L-1, O-1, or other visa options",
	},
	models.StageGreenCard: {
		"**💡 Green Card Stage Tips:**",
		"• PERM process takes 1-3 years depending on country of birth",
		"• EB-2 vs EB-3 categories have different wait times",
		"• Some companies prefer internal transfers for PERM",
		"• Consider EB-1 if you qualify (extraordinary ability)",
	},
	models.StageFullPathway: {
		"**💡 Complete Pathway Strategy:**",
		"1. **OPT (1-3 years)**: Build skills, network, find H-1B sponsors",
		"2. **H-1B (up to 6 years)**: Prove value, get PERM sponsorship",
		"3. **PERM Process (1-3 years)**: Maintain status, prepare for delays",
		"4. **Green Card**: Adjust status or consular processing",
		"",
		"**Key Success Factors:**",
		"• Choose employers with proven immigration support",
		"• Maintain legal status throughout",
		"• Build strong case for permanent residency",
		"• Have backup plans at each stage",
	},
}

// StageHeader returns the opening line for a guidance answer.
func StageHeader(stage models.Stage) string {
	if h, ok := stageHeaders[stage]; ok {
		return h
	}
	return stageHeaders[models.StageGeneral]
}

// StageAdvice returns the tips block for stage, or "" for the general stage.
func StageAdvice(stage models.Stage) string {
	return strings.Join(stageAdvice[stage], "\n")
}

// GuidanceData is the pair of dataset sections shown in a guidance answer.
type GuidanceData struct {
	HighWage bool
	LCA      []models.NormalizedRecord
	PERM     []models.NormalizedRecord
}

func (d GuidanceData) Render() string {
	lcaTitle, permTitle := "Recent H-1B Filings (LCA Data)", "Recent Green Card Filings (PERM Data)"
	if d.HighWage {
		lcaTitle, permTitle = "High-wage H-1B Filings (LCA Data)", "High-wage Green Card Filings (PERM Data)"
	}
	return Section(lcaTitle, d.LCA, models.VisaClassH1B) + "\n\n" + Section(permTitle, d.PERM, models.VisaClassPERM)
}

// Guidance joins the header, the data block and any advice with blank lines.
func Guidance(stage models.Stage, data string) string {
	parts := []string{StageHeader(stage), data}
	if advice := StageAdvice(stage); advice != "" {
		parts = append(parts, advice)
	}
	return strings.Join(parts, "\n\n")
}
