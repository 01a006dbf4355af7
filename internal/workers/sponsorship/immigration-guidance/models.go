// internal/workers/sponsorship/immigration-guidance/models.go
package immigrationguidance

import (
	"time"

	"sponsor-insights/internal/common/validation"
)

type Input struct {
	Query string `json:"query"`
}

// Output carries the rendered guidance plus the context extracted from the
// question, so later process steps can branch on the stage.
type Output struct {
	Stage           string    `json:"stage"`
	Location        string    `json:"location,omitempty"`
	Company         string    `json:"company,omitempty"`
	Industry        string    `json:"industry,omitempty"`
	SalaryConcern   bool      `json:"salaryConcern"`
	TimelineConcern bool      `json:"timelineConcern"`
	Guidance        string    `json:"guidance"`
	ProcessedAt     time.Time `json:"processedAt"`
}

var inputSchema = validation.MustCompile(validation.JSONSchema{
	Type:     "object",
	Required: []string{"query"},
	Properties: map[string]validation.Property{
		"query": {
			Type:      "string",
			MinLength: validation.IntPtr(1),
			MaxLength: validation.IntPtr(1000),
		},
	},
	AdditionalProperties: true,
})
