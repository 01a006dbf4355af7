// internal/intent/cascade.go
package intent

import (
	"sponsor-insights/internal/models"
)

// DefaultSampleLimit is the size of the sample returned when nothing matches.
const DefaultSampleLimit = 10

// Query is the text handed to every matcher: the raw input and its normalized form.
type Query struct {
	Raw  string
	Text string
}

func NewQuery(raw string) Query {
	return Query{Raw: raw, Text: Normalize(raw)}
}

// Matcher is one step of the cascade. Match must be pure.
type Matcher struct {
	Name  string
	Match func(q Query) (models.Intent, bool)
}

// Cascade is an ordered list of matchers; the first match wins.
type Cascade []Matcher

// DefaultCascade returns the matchers in priority order:
// faq, visa, wage, guidance.
func DefaultCascade() Cascade {
	return Cascade{
		{Name: "faq", Match: func(q Query) (models.Intent, bool) {
			return wrap(ExtractFAQ(q.Raw, q.Text))
		}},
		{Name: "visa", Match: func(q Query) (models.Intent, bool) {
			return wrap(ExtractVisa(q.Text))
		}},
		{Name: "wage", Match: func(q Query) (models.Intent, bool) {
			return wrap(ExtractWage(q.Text))
		}},
		{Name: "guidance", Match: func(q Query) (models.Intent, bool) {
			if !IsImmigrationQuery(q.Text) {
				return nil, false
			}
			return AnalyzeGuidance(q.Text), true
		}},
	}
}

// Resolve runs the cascade. When no matcher fires it returns a default
// SampleQuery and false.
func (c Cascade) Resolve(raw string) (models.Intent, bool) {
	q := NewQuery(raw)
	for _, m := range c {
		if in, ok := m.Match(q); ok {
			return in, true
		}
	}
	return models.SampleQuery{Limit: DefaultSampleLimit}, false
}

// Resolve runs the default cascade.
func Resolve(raw string) (models.Intent, bool) {
	return DefaultCascade().Resolve(raw)
}

func wrap[T models.Intent](in T, ok bool) (models.Intent, bool) {
	if !ok {
		return nil, false
	}
	return in, true
}
