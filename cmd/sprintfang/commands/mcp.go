package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sprintfang/internal/config"
	"github.com/Sumatoshi-tech/sprintfang/internal/mcp"
	"github.com/Sumatoshi-tech/sprintfang/internal/observability"
)

// Flag names for the mcp command.
const (
	mcpFlagConfig = "config"
	mcpFlagData   = "data"
	mcpFlagDebug  = "debug"
)

type mcpOptions struct {
	configPath string
	data       string
	debug      bool
}

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	opts := &mcpOptions{}

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol server that exposes sprint metrics
to AI agents over stdio.

Available tools:
  - sprint_list: enumerate sprints with their date ranges and team sizes
  - sprint_metrics: planned, earned and spent hours for a sprint selection
  - evpv_summary: earned value versus planned value with schedule variance`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runMCPServer(cobraCmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, mcpFlagConfig, "", configFlagUsage)
	cmd.Flags().StringVar(&opts.data, mcpFlagData, "", "metrics document path or URL (overrides config)")
	cmd.Flags().BoolVar(&opts.debug, mcpFlagDebug, false, "enable debug logging and tracing")

	return cmd
}

func runMCPServer(cobraCmd *cobra.Command, opts *mcpOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if opts.data != "" {
		cfg.Data.Source = opts.data
	}

	ocfg := observabilityConfig(cfg, observability.ModeMCP)
	// Stdout carries the protocol, so logs must stay structured on stderr.
	ocfg.LogJSON = true

	if opts.debug {
		ocfg.LogLevel = slog.LevelDebug
		ocfg.DebugTrace = true
	}

	providers, err := observability.Init(ocfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer shutdownObservability(providers)

	metrics, err := observability.NewREDMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}

	srv := mcp.NewServer(newSource(cfg), mcp.ServerDeps{
		Logger:  providers.Logger,
		Metrics: metrics,
		Tracer:  providers.Tracer,
	})

	return srv.Run(cobraCmd.Context())
}
