// internal/mcpserver/server.go
package mcpserver

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/delegate"
)

const AskToolName = "ask_sponsorship_question"

// ToolInput is the single free-text argument every toolbox action takes.
type ToolInput struct {
	Input string `json:"input,omitempty" jsonschema:"Argument for the tool: a city, company, job title, wage amount or record count"`
}

// AskInput is the argument of the full question-answering tool.
type AskInput struct {
	Query string `json:"query" jsonschema:"Natural-language question about H-1B or PERM sponsorship"`
}

// Answerer answers a complete question, as the CLI does.
type Answerer interface {
	Answer(ctx context.Context, query string) string
}

// New builds an MCP server exposing every toolbox action, plus the full
// question-answering entry point when answerer is non-nil.
func New(tools delegate.Toolbox, answerer Answerer, version string, log logger.Logger) *sdkmcp.Server {
	log = log.WithFields(map[string]interface{}{"component": "mcp"})
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "sponsor-insights",
		Version: version,
	}, nil)

	for _, tool := range tools.Tools() {
		name := tool.Name
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        name,
			Description: tool.Description,
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in ToolInput) (*sdkmcp.CallToolResult, any, error) {
			text, err := tools.Call(ctx, name, in.Input)
			if err != nil {
				log.Warn("tool call failed", map[string]interface{}{"tool": name, "error": err})
				return nil, nil, fmt.Errorf("%s: %w", name, err)
			}
			return textResult(text), nil, nil
		})
	}

	if answerer != nil {
		sdkmcp.AddTool(server, &sdkmcp.Tool{
			Name:        AskToolName,
			Description: "Answer a free-text question about employer visa sponsorship using the full intent cascade and fallbacks.",
			Annotations: &sdkmcp.ToolAnnotations{ReadOnlyHint: true},
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in AskInput) (*sdkmcp.CallToolResult, any, error) {
			if in.Query == "" {
				return nil, nil, fmt.Errorf("query is required")
			}
			return textResult(answerer.Answer(ctx, in.Query)), nil, nil
		})
	}

	return server
}

// Serve runs the server over stdio until ctx is done or the client hangs up.
func Serve(ctx context.Context, server *sdkmcp.Server) error {
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}

func textResult(text string) *sdkmcp.CallToolResult {
	return &sdkmcp.CallToolResult{Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: text}}}
}
