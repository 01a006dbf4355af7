// internal/workers/sponsorship/company-profile/models.go
package companyprofile

import (
	"time"

	"sponsor-insights/internal/common/validation"
)

type Input struct {
	Company string `json:"company"`
}

type Output struct {
	Company     string    `json:"company"`
	Profile     string    `json:"profile"`
	ProcessedAt time.Time `json:"processedAt"`
}

var inputSchema = validation.MustCompile(validation.JSONSchema{
	Type:     "object",
	Required: []string{"company"},
	Properties: map[string]validation.Property{
		"company": {
			Type:        "string",
			Description: "Employer name or fragment, matched case-insensitively",
			MinLength:   validation.IntPtr(1),
			MaxLength:   validation.IntPtr(200),
		},
	},
	AdditionalProperties: true,
})
