// internal/cli/root.go
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"sponsor-insights/internal/bootstrap"
	"sponsor-insights/internal/common/config"
	"sponsor-insights/internal/common/logger"
	"sponsor-insights/internal/delegate"
	"sponsor-insights/internal/engine"
	"sponsor-insights/internal/models"
)

// Backend is what the commands need from the engine.
type Backend interface {
	Answer(ctx context.Context, query string) string
	Dispatch(ctx context.Context, in models.Intent) (string, error)
	CompanyProfile(ctx context.Context, company string) (string, error)
	Guidance(ctx context.Context, query string) string
	Tools() delegate.Toolbox
}

// Opener builds the backend for one command run. The returned func releases it.
type Opener func(ctx context.Context, opts *Options) (Backend, logger.Logger, func(), error)

// Options are the persistent flags shared by every command.
type Options struct {
	ConfigPath string
	LogLevel   string
}

type engineBackend struct {
	*engine.Engine
}

func (b engineBackend) Tools() delegate.Toolbox { return b.Engine.Toolbox() }

// OpenRuntime loads configuration and builds the engine. Logs go to stderr so
// stdout stays clean for answers and the MCP transport.
func OpenRuntime(ctx context.Context, opts *Options) (Backend, logger.Logger, func(), error) {
	log := logger.NewZapAdapter(logger.NewWithOutput(opts.LogLevel, "console", "stderr"))

	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.LoadFromFile(opts.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	rt, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return engineBackend{rt.Engine}, log, rt.Close, nil
}

// NewRootCmd assembles sponsorctl. open is called lazily by each subcommand.
func NewRootCmd(version string, open Opener) *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:   "sponsorctl",
		Short: "sponsorctl - H-1B and PERM sponsorship insights",
		Long: `sponsorctl answers natural-language questions about employer visa sponsorship
from H-1B LCA and PERM green card filings.

Examples of questions:
  - Jobs paying over $150k
  - H-1B jobs in Seattle
  - Does Google sponsor green cards?
  - I'm on OPT, what should I know?`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default: configs/config.yaml)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(newAskCmd(opts, open))
	root.AddCommand(newProfileCmd(opts, open))
	root.AddCommand(newGuidanceCmd(opts, open))
	root.AddCommand(newChatCmd(opts, open))
	root.AddCommand(newMCPCmd(version, opts, open))

	return root
}

// Execute runs sponsorctl against the configured runtime.
func Execute(version string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd(version, OpenRuntime).ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
