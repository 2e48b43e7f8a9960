package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/sprintfang/internal/chart"
	"github.com/Sumatoshi-tech/sprintfang/internal/config"
	"github.com/Sumatoshi-tech/sprintfang/internal/dataset"
	"github.com/Sumatoshi-tech/sprintfang/internal/plotpage"
	"github.com/Sumatoshi-tech/sprintfang/internal/server"
	"github.com/Sumatoshi-tech/sprintfang/internal/view"
)

const (
	renderDirPerm     = 0o750
	renderCmdUse      = "render"
	renderCmdShort    = "Render the dashboard as static HTML"
	renderFlagConfig  = "config"
	renderFlagOutput  = "output"
	renderOutputShort = "o"
	renderOutputUsage = "output directory for HTML files"
	renderFlagData    = "data"
	renderFlagSprint  = "sprint"
	renderFlagUser    = "user"

	renderIndexFile = "index.html"
	renderEvPvFile  = "evpv.html"

	renderPageDescription = "Sprint burn-up and earned value dashboard"
)

// ErrNoOutputDir is returned when the --output flag is not set.
var ErrNoOutputDir = errors.New("output directory is required (use --output)")

type renderOptions struct {
	configPath string
	output     string
	data       string
	sprint     string
	user       string
}

// NewRenderCommand creates the render subcommand.
func NewRenderCommand() *cobra.Command {
	opts := &renderOptions{}

	cmd := &cobra.Command{
		Use:   renderCmdUse,
		Short: renderCmdShort,
		Long: `Render the burn-up and earned value pages as self-contained HTML
files, for sharing or publishing where no server runs. Static pages
carry no filter controls; pick the sprint and team member with flags.`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			if opts.output == "" {
				return ErrNoOutputDir
			}

			return runRender(cobraCmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, renderFlagConfig, "", configFlagUsage)
	cmd.Flags().StringVarP(&opts.output, renderFlagOutput, renderOutputShort, "", renderOutputUsage)
	cmd.Flags().StringVar(&opts.data, renderFlagData, "", "metrics document path or URL (overrides config)")
	cmd.Flags().StringVar(&opts.sprint, renderFlagSprint, "", "sprint to render (default: latest)")
	cmd.Flags().StringVar(&opts.user, renderFlagUser, "", "team member to render (default: whole team)")

	return cmd
}

func runRender(cobraCmd *cobra.Command, opts *renderOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if opts.data != "" {
		cfg.Data.Source = opts.data
	}

	mkErr := os.MkdirAll(opts.output, renderDirPerm)
	if mkErr != nil {
		return fmt.Errorf("create output dir: %w", mkErr)
	}

	source := newSource(cfg)

	snap, err := source.Load(cobraCmd.Context())
	if err != nil {
		return fmt.Errorf("load dataset from %s: %w", source.Location(), err)
	}

	theme := plotpage.Theme(cfg.Dashboard.Theme)
	dispatcher := view.NewDispatcher(chart.NewRenderer(theme, plotpage.DefaultStyle(), slog.Default()), slog.Default())

	// Unlike the server, which degrades a bad selection into an on-page
	// notice, a static render of nothing is reported as an error.
	model := dispatcher.Dispatch(snap.Data, view.Selection{
		Mode:   view.ModeSprint,
		Sprint: opts.sprint,
		User:   opts.user,
	})
	if model.Err != nil {
		return fmt.Errorf("resolve sprint selection: %w", model.Err)
	}

	writeErr := writeRenderedPage(opts.output, renderIndexFile, staticPage(cfg, theme, snap, model))
	if writeErr != nil {
		return writeErr
	}

	evpv := dispatcher.Dispatch(snap.Data, view.Selection{Mode: view.ModeEvPv})
	if evpv.Err != nil {
		slog.Default().Warn("skipping earned value page", "error", evpv.Err)

		return nil
	}

	return writeRenderedPage(opts.output, renderEvPvFile, staticPage(cfg, theme, snap, evpv))
}

// staticPage composes a standalone page: same sections as the server
// dashboard, but no filter bar since there is nothing to submit to.
func staticPage(cfg *config.Config, theme plotpage.Theme, snap *dataset.Snapshot, model *view.Model) *plotpage.Page {
	page := plotpage.NewPage(cfg.Server.Title, renderPageDescription).
		WithTheme(theme).
		WithNote("Data updated " + humanize.Time(snap.FetchedAt))

	page.Add(server.Sections(model)...)

	return page
}

func writeRenderedPage(outputDir, name string, page *plotpage.Page) error {
	outPath := filepath.Join(outputDir, name)

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", outPath, err)
	}
	defer f.Close()

	renderErr := page.Render(f)
	if renderErr != nil {
		return fmt.Errorf("render %s: %w", name, renderErr)
	}

	return nil
}
