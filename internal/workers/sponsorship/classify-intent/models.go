// internal/workers/sponsorship/classify-intent/models.go
package classifyintent

import (
	"sponsor-insights/internal/common/validation"
)

type Input struct {
	Question string `json:"question"`
}

type Output struct {
	IntentAnalysis IntentAnalysis `json:"intentAnalysis"`
	DataSources    []string       `json:"dataSources"`
	Entities       []Entity       `json:"entities"`
}

type IntentAnalysis struct {
	PrimaryIntent string `json:"primaryIntent"`
	Matched       bool   `json:"matched"`
}

type Entity struct {
	Type  string `json:"type"` // "city", "company", "job_title", "visa_class", "wage", "faq_topic", "stage", ...
	Value string `json:"value"`
}

var inputSchema = validation.MustCompile(validation.JSONSchema{
	Type:     "object",
	Required: []string{"question"},
	Properties: map[string]validation.Property{
		"question": {
			Type:      "string",
			MinLength: validation.IntPtr(1),
			MaxLength: validation.IntPtr(1000),
		},
	},
	AdditionalProperties: true,
})
