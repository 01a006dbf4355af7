package mcpserver

import (
	"context"
	"errors"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/delegate"
)

type stubToolbox struct{}

func (stubToolbox) Tools() []delegate.Tool {
	return []delegate.Tool{
		{Name: "find_jobs_by_city", Description: "Find jobs in a city"},
		{Name: "get_sample_lca_data", Description: "Sample filings"},
	}
}

func (stubToolbox) Call(_ context.Context, name, input string) (string, error) {
	if input == "boom" {
		return "", errors.New("store down")
	}
	return name + ":" + input, nil
}

type stubAnswerer struct{}

func (stubAnswerer) Answer(_ context.Context, q string) string { return "answer to " + q }

func connect(t *testing.T, answerer Answerer) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := New(stubToolbox{}, answerer, "test", logger.NewTestLogger(t))
	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "v0"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func text(t *testing.T, res *sdkmcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestServer_ListsToolbox(t *testing.T) {
	cs := connect(t, stubAnswerer{})

	res, err := cs.ListTools(context.Background(), &sdkmcp.ListToolsParams{})
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"find_jobs_by_city", "get_sample_lca_data", AskToolName}, names)
}

func TestServer_WithoutAnswerer(t *testing.T) {
	cs := connect(t, nil)

	res, err := cs.ListTools(context.Background(), &sdkmcp.ListToolsParams{})
	require.NoError(t, err)
	assert.Len(t, res.Tools, 2)
}

func TestServer_CallTool(t *testing.T) {
	cs := connect(t, stubAnswerer{})
	ctx := context.Background()

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "find_jobs_by_city",
		Arguments: map[string]any{"input": "Austin"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "find_jobs_by_city:Austin", text(t, res))

	res, err = cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      AskToolName,
		Arguments: map[string]any{"query": "jobs in austin"},
	})
	require.NoError(t, err)
	assert.Equal(t, "answer to jobs in austin", text(t, res))
}

func TestServer_ToolErrorIsReported(t *testing.T) {
	cs := connect(t, stubAnswerer{})

	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "find_jobs_by_city",
		Arguments: map[string]any{"input": "boom"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, text(t, res), "store down")
}
