package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/sprintfang/internal/dataset"
	"github.com/Sumatoshi-tech/sprintfang/internal/filter"
	"github.com/Sumatoshi-tech/sprintfang/internal/observability"
	"github.com/Sumatoshi-tech/sprintfang/internal/plotpage"
	"github.com/Sumatoshi-tech/sprintfang/internal/view"
)

// Query parameters carrying the full selector state. Selections live in
// the URL, so every dashboard state is a plain link.
const (
	queryView   = "view"
	querySprint = "sprint"
	queryUser   = "user"
)

const (
	opDashboard = "dashboard"

	statusOK  = "ok"
	statusErr = "error"

	sourceFile = "file"
	sourceHTTP = "http"
)

const pageDescription = "Sprint burn-up and earned value dashboard"

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	span := trace.SpanFromContext(ctx)

	done := s.requests.TrackInflight(ctx, opDashboard)
	defer done()

	snap, err := s.loadSnapshot(ctx)
	if err != nil {
		errType := observability.ErrTypeDependencyUnavailable
		if errors.Is(err, dataset.ErrEmpty) {
			errType = observability.ErrTypeValidation
		}

		observability.RecordSpanError(span, err, errType, observability.ErrSourceDependency)
		s.logger.ErrorContext(ctx, "dataset load failed",
			"source", s.source.Location(), "error", err)
		s.requests.RecordRequest(ctx, opDashboard, statusErr, time.Since(start))

		s.writePage(ctx, w, s.errorPage(err))

		return
	}

	s.dashboard.SetRecordCount(snap.Data.Len())

	sel := view.Selection{
		Mode:   view.ParseMode(r.URL.Query().Get(queryView)),
		Sprint: r.URL.Query().Get(querySprint),
		User:   r.URL.Query().Get(queryUser),
	}

	renderStart := time.Now()
	model := s.dispatcher.Dispatch(snap.Data, sel)

	renderStatus := statusOK
	if model.Err != nil {
		renderStatus = statusErr

		s.dashboard.RecordMissingSelection(ctx, string(model.Mode))
	}

	s.dashboard.RecordRender(ctx, string(model.Mode), renderStatus, time.Since(renderStart))

	// Sprint names are safe span attributes; user selections are not and
	// stay off the span entirely.
	span.SetAttributes(
		attribute.String("view.mode", string(model.Mode)),
		attribute.String("view.sprint", model.SprintKey),
		attribute.Int("dataset.records", snap.Data.Len()),
	)

	s.requests.RecordRequest(ctx, opDashboard, statusOK, time.Since(start))

	s.writePage(ctx, w, s.dashboardPage(snap, model))
}

// loadSnapshot reads the document and records the fetch outcome.
func (s *Server) loadSnapshot(ctx context.Context) (*dataset.Snapshot, error) {
	kind := sourceFile
	if s.source.Remote() {
		kind = sourceHTTP
	}

	start := time.Now()

	snap, err := s.source.Load(ctx)

	status := statusOK
	if err != nil {
		status = statusErr
	}

	s.dashboard.RecordFetch(ctx, kind, status, time.Since(start))

	return snap, err
}

func (s *Server) writePage(ctx context.Context, w http.ResponseWriter, page *plotpage.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := page.Render(w); err != nil {
		s.logger.ErrorContext(ctx, "page render failed", "error", err)
	}
}

// errorPage is the full-page failure state: a plain message and no filter
// controls, so a half-populated dashboard can never render.
func (s *Server) errorPage(err error) *plotpage.Page {
	page := plotpage.NewPage(s.opts.Title, pageDescription).WithTheme(s.opts.Theme)

	title := "Sprint data unavailable"
	message := fmt.Sprintf("The sprint data document could not be loaded from %s.", s.source.Location())

	if errors.Is(err, dataset.ErrEmpty) {
		title = "No sprint data"
		message = "The sprint data document contains no records yet."
	}

	page.Add(plotpage.Section{
		Chart: plotpage.NewAlert(title, message, plotpage.AlertError),
	})

	return page
}

func (s *Server) dashboardPage(snap *dataset.Snapshot, model *view.Model) *plotpage.Page {
	page := plotpage.NewPage(s.opts.Title, pageDescription).
		WithTheme(s.opts.Theme).
		WithNote("Data updated " + humanize.Time(snap.FetchedAt)).
		WithControls(s.controls(model))

	page.Add(Sections(model)...)

	return page
}

// Sections composes the page sections for a resolved view model: the chart
// (or the notice standing in for it) and, when the selection has data, the
// stat cards beneath it.
func Sections(model *view.Model) []plotpage.Section {
	section := plotpage.Section{Hint: chartHint(model.Mode)}

	if model.Chart != nil {
		section.Chart = plotpage.WrapChart(model.Chart)
	} else {
		section.Chart = plotpage.NewAlert("Nothing to draw", model.Notice, plotpage.AlertWarning)
		section.Hint = plotpage.Hint{}
	}

	sections := []plotpage.Section{section}

	if model.Totals.HasData {
		sections = append(sections, plotpage.Section{Chart: statsGrid(model)})
	}

	return sections
}

// controls builds the filter bar. Selector state mirrors the resolved
// model, and both data filters collapse in the EV/PV view while keeping
// their values in the form, so switching back restores the sprint view.
func (s *Server) controls(model *view.Model) *plotpage.Filters {
	hidden := model.Mode == view.ModeEvPv

	return plotpage.NewFilters("/").
		AddSelect(plotpage.Select{
			ID:    "view-select",
			Name:  queryView,
			Label: "View",
			Options: []plotpage.SelectOption{
				{Value: string(view.ModeSprint), Label: "Sprint Burn-up", Selected: model.Mode == view.ModeSprint},
				{Value: string(view.ModeEvPv), Label: "EV / PV", Selected: model.Mode == view.ModeEvPv},
			},
		}).
		AddSelect(plotpage.Select{
			ID:      "sprint-select",
			Name:    querySprint,
			Label:   "Sprint",
			Hidden:  hidden,
			Options: selectOptions(model.SprintOptions),
		}).
		AddSelect(plotpage.Select{
			ID:      "user-select",
			Name:    queryUser,
			Label:   "Team Member",
			Hidden:  hidden,
			Options: selectOptions(model.UserOptions),
		})
}

func selectOptions(opts []filter.Option) []plotpage.SelectOption {
	out := make([]plotpage.SelectOption, len(opts))

	for i, opt := range opts {
		out[i] = plotpage.SelectOption{Value: opt.Key, Label: opt.Label, Selected: opt.Selected}
	}

	return out
}

// statsGrid summarizes the resolved totals under the chart: hour totals in
// the sprint view, value totals plus schedule performance in the EV/PV view.
func statsGrid(model *view.Model) *plotpage.Grid {
	totals := model.Totals

	if model.Mode == view.ModeEvPv {
		varianceStat := plotpage.NewStat("Schedule Variance", formatHours(totals.Earned-totals.Planned))

		if totals.Planned > 0 {
			spi := totals.Earned / totals.Planned

			color := plotpage.AlertSuccess
			if spi < 1 {
				color = plotpage.AlertWarning
			}

			varianceStat.WithTrend(fmt.Sprintf("SPI %.2f", spi), color)
		}

		return plotpage.NewGrid(3,
			plotpage.NewStat("Planned Value", formatHours(totals.Planned)),
			plotpage.NewStat("Earned Value", formatHours(totals.Earned)),
			varianceStat,
		)
	}

	earnedStat := plotpage.NewStat("Earned", formatHours(totals.Earned))

	if totals.Planned > 0 {
		ratio := totals.Earned / totals.Planned * 100

		color := plotpage.AlertSuccess
		if ratio < 100 {
			color = plotpage.AlertWarning
		}

		earnedStat.WithTrend(fmt.Sprintf("%.0f%% of plan", ratio), color)
	}

	return plotpage.NewGrid(3,
		plotpage.NewStat("Total Planned", formatHours(totals.Planned)),
		earnedStat,
		plotpage.NewStat("Actual Cost", formatHours(totals.Cost)),
	)
}

func chartHint(mode view.Mode) plotpage.Hint {
	if mode == view.ModeEvPv {
		return plotpage.Hint{
			Title: "Reading this chart",
			Items: []string{
				"Earned Value below Planned Value means delivery is behind schedule.",
				"The gap between the curves is the schedule variance in hours.",
			},
		}
	}

	return plotpage.Hint{
		Title: "Reading this chart",
		Items: []string{
			"Earned Hours tracking the Ideal Burn-up line means the sprint is on pace.",
			"Actual Cost rising above Earned Hours signals effort overrun.",
		},
	}
}

// formatHours renders an hour quantity with thousands separators.
func formatHours(v float64) string {
	return humanize.CommafWithDigits(v, 1) + " h"
}
