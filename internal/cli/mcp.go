// internal/cli/mcp.go
package cli

import (
	"github.com/spf13/cobra"

	"sponsor-insights/internal/mcpserver"
)

func newMCPCmd(version string, opts *Options, open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the sponsorship toolbox over MCP stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout.
Every data tool is exposed read-only, plus a free-text question tool.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, log, closeFn, err := open(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer closeFn()

			log.Info("starting MCP server", map[string]interface{}{"version": version})
			return mcpserver.Serve(cmd.Context(), mcpserver.New(b.Tools(), b, version, log))
		},
	}
}
