// internal/workers/sponsorship/answer-query/models.go
package answerquery

import (
	"time"

	"sponsor-insights/internal/common/validation"
)

type Input struct {
	Query     string `json:"query"`
	RequestID string `json:"requestId,omitempty"`
}

type Output struct {
	Answer      string    `json:"answer"`
	Intent      string    `json:"intent"`
	Matched     bool      `json:"matched"`
	RequestID   string    `json:"requestId"`
	ProcessedAt time.Time `json:"processedAt"`
}

// Process variables other than ours travel with the job, so extra fields are allowed.
var inputSchema = validation.MustCompile(validation.JSONSchema{
	Type:     "object",
	Required: []string{"query"},
	Properties: map[string]validation.Property{
		"query": {
			Type:      "string",
			MinLength: validation.IntPtr(1),
			MaxLength: validation.IntPtr(1000),
		},
		"requestId": {Type: "string"},
	},
	AdditionalProperties: true,
})
