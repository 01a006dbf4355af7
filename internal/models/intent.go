// internal/models/intent.go
package models

// Intent is the closed set of structured query intents. Only types in this file
// implement it.
type Intent interface {
	Kind() string
	isIntent()
}

type Direction int

const (
	AtLeast Direction = iota
	AtMost
)

func (d Direction) String() string {
	if d == AtMost {
		return "at_most"
	}
	return "at_least"
}

type WageThreshold struct {
	Amount    float64
	Direction Direction
}

type VisaFilter struct {
	Class string // one of VisaClassH1B, VisaClassPERM, VisaClassE3
}

type CityQuery struct{ City string }

type CompanyQuery struct{ Company string }

type TitleQuery struct{ Title string }

type CompanyProfileQuery struct{ Company string }

type FaqTopic string

const (
	FaqTopPetitioners FaqTopic = "top_petitioners"
	FaqMajorsApproval FaqTopic = "majors_approval"
	FaqSchoolSponsors FaqTopic = "school_sponsors"
	FaqCompanyCounts  FaqTopic = "company_counts"
)

type FaqQuery struct {
	Topic FaqTopic
	Args  map[string]string
}

type Stage string

const (
	StageOPT         Stage = "opt_stage"
	StageH1B         Stage = "h1b_stage"
	StageGreenCard   Stage = "green_card_stage"
	StageFullPathway Stage = "full_pathway"
	StageGeneral     Stage = "general"
)

// GuidanceQuery carries the immigration context extracted from a free-text question.
type GuidanceQuery struct {
	Stage           Stage
	Location        string
	Industry        string
	SalaryConcern   bool
	TimelineConcern bool
	Company         string
}

type SampleQuery struct{ Limit int }

func (WageThreshold) Kind() string       { return "wage_threshold" }
func (VisaFilter) Kind() string          { return "visa_filter" }
func (CityQuery) Kind() string           { return "city" }
func (CompanyQuery) Kind() string        { return "company" }
func (TitleQuery) Kind() string          { return "title" }
func (CompanyProfileQuery) Kind() string { return "company_profile" }
func (FaqQuery) Kind() string            { return "faq" }
func (GuidanceQuery) Kind() string       { return "guidance" }
func (SampleQuery) Kind() string         { return "sample" }

func (WageThreshold) isIntent()       {}
func (VisaFilter) isIntent()          {}
func (CityQuery) isIntent()           {}
func (CompanyQuery) isIntent()        {}
func (TitleQuery) isIntent()          {}
func (CompanyProfileQuery) isIntent() {}
func (FaqQuery) isIntent()            {}
func (GuidanceQuery) isIntent()       {}
func (SampleQuery) isIntent()         {}
