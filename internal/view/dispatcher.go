// Package view resolves a dashboard request into a drawn chart and the
// state of both filter selectors. It is the control layer between the
// request's raw query values and the chart renderer: selections are
// resolved first, metrics derived next, and the chart drawn last.
package view

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-echarts/go-echarts/v2/charts"

	"github.com/Sumatoshi-tech/sprintfang/internal/burnup"
	"github.com/Sumatoshi-tech/sprintfang/internal/chart"
	"github.com/Sumatoshi-tech/sprintfang/internal/dataset"
	"github.com/Sumatoshi-tech/sprintfang/internal/filter"
)

// Mode is the dashboard's top-level view mode.
type Mode string

const (
	// ModeSprint shows the per-sprint burn-up chart with both filters.
	ModeSprint Mode = "sprint"
	// ModeEvPv shows the all-time earned vs planned value chart.
	ModeEvPv Mode = "evpv"
)

// Axis and title copy shared by both views.
const (
	axisLabelHours = "Hours"

	evPvTitle    = "Earned Value vs Planned Value"
	evPvSubtitle = "All sprints to date"
)

// ErrMissingReservedRecord indicates the dataset lacks the reserved
// earned-value record while the EV/PV view is selected.
var ErrMissingReservedRecord = errors.New("dataset has no EV/PV record")

// ParseMode maps a raw query value onto a Mode, defaulting to ModeSprint.
func ParseMode(raw string) Mode {
	if raw == string(ModeEvPv) {
		return ModeEvPv
	}

	return ModeSprint
}

// Selection is the raw filter state carried by the request.
type Selection struct {
	Mode   Mode
	Sprint string
	User   string
}

// Totals are the headline numbers of the resolved selection, taken from
// the final present point of each series.
type Totals struct {
	Planned float64
	Earned  float64
	Cost    float64
	HasData bool
}

// Model is the fully resolved state of one dashboard request.
type Model struct {
	Mode Mode

	// Selector state for both filters, resolved against the dataset.
	// The EV/PV view keeps them so switching back restores the sprint
	// view exactly where it was.
	SprintOptions []filter.Option
	UserOptions   []filter.Option
	SprintKey     string
	UserKey       string

	Title    string
	Subtitle string

	// Chart is nil when Notice is set.
	Chart  *charts.Line
	Notice string
	Err    error

	Totals Totals
}

// Dispatcher drives the renderer for both view modes.
type Dispatcher struct {
	renderer *chart.Renderer
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher around the shared chart renderer.
func NewDispatcher(renderer *chart.Renderer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}

	return &Dispatcher{renderer: renderer, logger: logger}
}

// Dispatch resolves sel against ds and draws the matching chart. Missing
// selections never fail the request: the previous chart is disposed, the
// condition logged, and the returned model carries a notice instead of a
// chart so the dashboard stays interactive.
func (d *Dispatcher) Dispatch(ds *dataset.Dataset, sel Selection) *Model {
	switch sel.Mode {
	case ModeEvPv:
		return d.dispatchEvPv(ds, sel)
	case ModeSprint:
		return d.dispatchSprint(ds, sel)
	default:
		return d.dispatchSprint(ds, sel)
	}
}

func (d *Dispatcher) dispatchSprint(ds *dataset.Dataset, sel Selection) *Model {
	model := &Model{Mode: ModeSprint}
	model.SprintOptions = filter.SprintOptions(ds.SprintNames(), sel.Sprint)
	model.SprintKey = filter.SelectedKey(model.SprintOptions)

	// A requested sprint without a record is reported, not silently
	// swapped for the default.
	if sel.Sprint != "" && sel.Sprint != model.SprintKey {
		model.UserOptions = filter.UserOptions(nil, sel.User)

		return d.missing(model, chart.ErrSelectionMissing,
			fmt.Sprintf("No data recorded for %q.", sel.Sprint),
			"sprint", sel.Sprint)
	}

	rec, ok := ds.Record(model.SprintKey)
	if !ok {
		model.UserOptions = filter.UserOptions(nil, sel.User)

		return d.missing(model, chart.ErrSelectionMissing,
			"No sprints in the dataset.", "sprint", model.SprintKey)
	}

	model.UserOptions = filter.UserOptions(rec.Users, sel.User)
	model.UserKey = filter.SelectedKey(model.UserOptions)

	bundle, ok := rec.Bundle(model.UserKey)
	if !ok {
		return d.missing(model, chart.ErrSelectionMissing,
			fmt.Sprintf("No series recorded for %q in %s.", model.UserKey, model.SprintKey),
			"sprint", model.SprintKey, "user", model.UserKey)
	}

	model.Title = model.SprintKey
	model.Subtitle = userLabel(model.UserKey)
	model.Totals = totalsFromBurnup(rec, model.UserKey, bundle)

	line, err := d.renderer.Draw(chart.Request{
		Mode:      chart.ModeBurnup,
		Title:     model.Title,
		Subtitle:  model.Subtitle,
		AxisLabel: axisLabelHours,
		Dates:     rec.Dates,
		Bundle:    bundle,
		WithIdeal: true,
		Markers:   rec.Markers,
	})
	if err != nil {
		return d.missing(model, err,
			fmt.Sprintf("No data to draw for %s.", model.SprintKey),
			"sprint", model.SprintKey, "user", model.UserKey)
	}

	model.Chart = line

	return model
}

func (d *Dispatcher) dispatchEvPv(ds *dataset.Dataset, sel Selection) *Model {
	model := &Model{Mode: ModeEvPv}

	// Keep both selectors resolved so the sprint view's state survives
	// the round trip through this view.
	model.SprintOptions = filter.SprintOptions(ds.SprintNames(), sel.Sprint)
	model.SprintKey = filter.SelectedKey(model.SprintOptions)

	userSource := []string(nil)
	if rec, ok := ds.Record(model.SprintKey); ok {
		userSource = rec.Users
	}

	model.UserOptions = filter.UserOptions(userSource, sel.User)
	model.UserKey = filter.SelectedKey(model.UserOptions)

	model.Title = evPvTitle
	model.Subtitle = evPvSubtitle

	rec, ok := ds.Record(dataset.KeyEvPv)
	if !ok {
		return d.missing(model, ErrMissingReservedRecord,
			"No earned value data in the dataset.", "record", dataset.KeyEvPv)
	}

	bundle, ok := rec.Bundle(dataset.KeyOverall)
	if !ok {
		return d.missing(model, ErrMissingReservedRecord,
			"No earned value data in the dataset.", "record", dataset.KeyEvPv)
	}

	model.Totals = totalsFromValues(bundle)

	line, err := d.renderer.Draw(chart.Request{
		Mode:      chart.ModeEvPv,
		Title:     model.Title,
		Subtitle:  model.Subtitle,
		AxisLabel: axisLabelHours,
		Dates:     rec.Dates,
		Bundle:    bundle,
	})
	if err != nil {
		return d.missing(model, err,
			"No earned value data to draw.", "record", dataset.KeyEvPv)
	}

	model.Chart = line

	return model
}

// missing disposes any live chart, logs the condition, and fills the model
// with a user-facing notice.
func (d *Dispatcher) missing(model *Model, err error, notice string, args ...any) *Model {
	d.renderer.Dispose()

	logArgs := append([]any{"mode", string(model.Mode)}, args...)
	d.logger.Warn("selection has no data", logArgs...)

	model.Err = err
	model.Notice = notice

	return model
}

func userLabel(key string) string {
	if key == filter.OverallKey {
		return filter.OverallLabel
	}

	return key
}

// totalsFromBurnup reads the headline numbers for one resolved selection.
// The record's plannedHours map carries the planned total per user key;
// documents without it fall back to the planned series' final point.
func totalsFromBurnup(rec *dataset.Record, key string, b *dataset.Bundle) Totals {
	planned, okPlanned := rec.PlannedHours[key]
	if !okPlanned {
		planned, okPlanned = burnup.LastPoint(b.DailyPlannedHours)
	}

	earned, okEarned := burnup.LastPoint(b.EarnedHours)
	cost, okCost := burnup.LastPoint(b.ActualCost)

	return Totals{
		Planned: planned,
		Earned:  earned,
		Cost:    cost,
		HasData: okPlanned || okEarned || okCost,
	}
}

// totalsFromValues reads both value series at the earned-value frontier,
// so the planned figure is the plan as of the last recorded day rather
// than the plan's final point.
func totalsFromValues(b *dataset.Bundle) Totals {
	idx := burnup.LastIndex(b.EarnedValue)
	if idx < 0 {
		planned, okPlanned := burnup.LastPoint(b.PlannedValue)

		return Totals{Planned: planned, HasData: okPlanned}
	}

	planned, _ := burnup.ValueAt(b.PlannedValue, idx)

	return Totals{
		Planned: planned,
		Earned:  *b.EarnedValue[idx],
		HasData: true,
	}
}
