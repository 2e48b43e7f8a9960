package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sprintfang/internal/chart"
	"github.com/Sumatoshi-tech/sprintfang/internal/config"
	"github.com/Sumatoshi-tech/sprintfang/internal/observability"
	"github.com/Sumatoshi-tech/sprintfang/internal/plotpage"
	"github.com/Sumatoshi-tech/sprintfang/internal/server"
	"github.com/Sumatoshi-tech/sprintfang/internal/view"
)

// Flag names for the serve command.
const (
	serveFlagConfig = "config"
	serveFlagListen = "listen"
	serveFlagData   = "data"
)

type serveOptions struct {
	configPath string
	listen     string
	data       string
}

// NewServeCommand creates the serve command that hosts the dashboard.
func NewServeCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the sprint metrics dashboard over HTTP",
		Long: `Serve the burn-up and earned value dashboard.

The server reads the metrics document on every request, so edits to the
document show up on the next page load without a restart. Liveness,
readiness and Prometheus metrics endpoints are mounted alongside the
dashboard.`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runServe(cobraCmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, serveFlagConfig, "", configFlagUsage)
	cmd.Flags().StringVar(&opts.listen, serveFlagListen, "", "listen address (overrides config)")
	cmd.Flags().StringVar(&opts.data, serveFlagData, "", "metrics document path or URL (overrides config)")

	return cmd
}

func runServe(cobraCmd *cobra.Command, opts *serveOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if opts.listen != "" {
		cfg.Server.Listen = opts.listen
	}

	if opts.data != "" {
		cfg.Data.Source = opts.data
	}

	providers, err := observability.Init(observabilityConfig(cfg, observability.ModeServe))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}
	defer shutdownObservability(providers)

	bridge, err := observability.NewPrometheusBridge()
	if err != nil {
		return fmt.Errorf("init metrics bridge: %w", err)
	}

	defer func() {
		shutdownErr := bridge.Shutdown(context.Background())
		if shutdownErr != nil {
			providers.Logger.Warn("metrics bridge shutdown failed", "error", shutdownErr)
		}
	}()

	// Instruments hang off the bridge meter so recorded values surface
	// on the /metrics scrape rather than the OTLP pipeline.
	requests, err := observability.NewREDMetrics(bridge.Meter())
	if err != nil {
		return fmt.Errorf("init request metrics: %w", err)
	}

	dashboard, err := observability.NewDashboardMetrics(bridge.Meter())
	if err != nil {
		return fmt.Errorf("init dashboard metrics: %w", err)
	}

	renderer := chart.NewRenderer(plotpage.Theme(cfg.Dashboard.Theme), plotpage.DefaultStyle(), providers.Logger)
	dispatcher := view.NewDispatcher(renderer, providers.Logger)
	source := newSource(cfg)

	srv := server.New(server.Options{
		Listen: cfg.Server.Listen,
		Title:  cfg.Server.Title,
		Theme:  plotpage.Theme(cfg.Dashboard.Theme),
	}, source, dispatcher, server.Deps{
		Logger:    providers.Logger,
		Tracer:    providers.Tracer,
		Requests:  requests,
		Dashboard: dashboard,
		Bridge:    bridge,
	})

	ctx, stop := signal.NotifyContext(cobraCmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers.Logger.Info("starting dashboard server",
		"listen", cfg.Server.Listen,
		"source", source.Location(),
		"theme", cfg.Dashboard.Theme)

	return srv.Run(ctx)
}
