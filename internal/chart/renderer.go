// Package chart builds the dashboard's line charts and owns the lifecycle
// of the single live chart instance. Every draw targets the same DOM
// element id, and the previous instance is disposed before a new one is
// built, so two charts can never be bound to the same drawing surface.
package chart

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/sprintfang/internal/burnup"
	"github.com/Sumatoshi-tech/sprintfang/internal/dataset"
	"github.com/Sumatoshi-tech/sprintfang/internal/plotpage"
)

// Mode selects which chart the renderer draws.
type Mode string

const (
	// ModeBurnup draws the sprint burn-up chart.
	ModeBurnup Mode = "burnup"
	// ModeEvPv draws the two-series earned-value vs planned-value chart.
	ModeEvPv Mode = "ev_pv"
)

// Series display names.
const (
	SeriesEarned  = "Earned Hours"
	SeriesCost    = "Actual Cost"
	SeriesPlanned = "Total Planned Hours"
	SeriesIdeal   = "Ideal Burn-up"
	SeriesEV      = "Earned Value"
	SeriesPV      = "Planned Value"
)

const (
	// chartElementID pins every draw to one drawing surface.
	chartElementID = "sprint-chart"

	areaOpacity = 0.3
	lineWidth   = 2
)

// ErrSelectionMissing indicates the requested selection has no series
// bundle to draw. The renderer disposes any live chart and the dashboard
// stays interactive; callers surface the condition instead of failing.
var ErrSelectionMissing = errors.New("no series bundle for selection")

// Request describes one draw.
type Request struct {
	Mode      Mode
	Title     string
	Subtitle  string
	AxisLabel string
	Dates     []string
	Bundle    *dataset.Bundle

	// WithIdeal adds the ideal burn-up overlay in burnup mode.
	WithIdeal bool

	// Markers label sprint boundaries on cross-sprint charts.
	Markers []dataset.Marker
}

// Renderer owns the single chart instance. Draw disposes the previous
// instance before building a new one; Dispose releases it explicitly.
type Renderer struct {
	mu      sync.Mutex
	copts   *plotpage.ChartOpts
	style   plotpage.Style
	logger  *slog.Logger
	current *charts.Line
}

// NewRenderer creates a renderer for the given theme and chart style.
func NewRenderer(theme plotpage.Theme, style plotpage.Style, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}

	return &Renderer{
		copts:  plotpage.NewChartOpts(theme),
		style:  style,
		logger: logger,
	}
}

// Draw builds a new chart for req. The previous instance is always
// disposed first, even when the draw fails. A selection without dates or
// bundle returns ErrSelectionMissing.
func (r *Renderer) Draw(req Request) (*charts.Line, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = nil

	if req.Bundle == nil || len(req.Dates) == 0 {
		r.logger.Warn("selection has no series bundle",
			"mode", string(req.Mode), "title", req.Title)

		return nil, ErrSelectionMissing
	}

	var line *charts.Line

	switch req.Mode {
	case ModeEvPv:
		if req.Bundle.EarnedValue == nil && req.Bundle.PlannedValue == nil {
			r.logger.Warn("selection carries no value series",
				"mode", string(req.Mode), "title", req.Title)

			return nil, ErrSelectionMissing
		}

		line = r.buildEvPv(req)
	case ModeBurnup:
		line = r.buildBurnup(req)
	default:
		line = r.buildBurnup(req)
	}

	r.current = line

	return line, nil
}

// Dispose releases the current chart instance.
func (r *Renderer) Dispose() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.current = nil
}

// Active reports whether a chart instance is currently live.
func (r *Renderer) Active() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current != nil
}

func (r *Renderer) buildBurnup(req Request) *charts.Line {
	colors := r.copts.SeriesColors()
	ceiling := burnup.SuggestedCeiling(req.Bundle.DailyPlannedHours, req.Bundle.EarnedHours)

	line := r.newLine(req, ceiling)

	earnedOpts := []charts.SeriesOpts{
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colors.Earned}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colors.Earned, Width: lineWidth}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(areaOpacity)}),
	}
	earnedOpts = append(earnedOpts, markerOpts(req.Dates, req.Markers, colors.Marker)...)

	line.AddSeries(SeriesEarned, lineData(req.Bundle.EarnedHours, len(req.Dates)), earnedOpts...)

	line.AddSeries(SeriesCost, lineData(req.Bundle.ActualCost, len(req.Dates)),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colors.Cost}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colors.Cost, Width: lineWidth}),
	)

	// A record without a planned series gets neither the scope line nor
	// the ideal overlay. The overlay's slope comes from that series.
	_, hasPlanned := burnup.LastPoint(req.Bundle.DailyPlannedHours)

	if hasPlanned {
		line.AddSeries(SeriesPlanned, lineData(req.Bundle.DailyPlannedHours, len(req.Dates)),
			dashedNoSymbol(colors.Planned)...,
		)
	}

	if req.WithIdeal && hasPlanned {
		ideal := burnup.IdealSeries(len(req.Dates), req.Bundle.DailyPlannedHours)
		line.AddSeries(SeriesIdeal, floatData(ideal), dashedNoSymbol(colors.Ideal)...)
	}

	return line
}

func (r *Renderer) buildEvPv(req Request) *charts.Line {
	colors := r.copts.SeriesColors()
	ceiling := burnup.SuggestedCeiling(req.Bundle.PlannedValue, req.Bundle.EarnedValue)

	line := r.newLine(req, ceiling)

	line.AddSeries(SeriesEV, lineData(req.Bundle.EarnedValue, len(req.Dates)),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colors.Earned}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colors.Earned, Width: lineWidth}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(areaOpacity)}),
	)

	line.AddSeries(SeriesPV, lineData(req.Bundle.PlannedValue, len(req.Dates)),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: colors.Planned}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: colors.Planned, Width: lineWidth}),
	)

	return line
}

// newLine creates the shared chart shell: pinned element id, axis titles,
// index-mode tooltip and a zero-floored y-axis capped at ceiling.
func (r *Renderer) newLine(req Request, ceiling float64) *charts.Line {
	initOpts := r.copts.Init(r.style.Width, r.style.Height)
	initOpts.ChartID = chartElementID

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(r.copts.Title(req.Title, req.Subtitle)),
		charts.WithTooltipOpts(r.copts.Tooltip("axis")),
		charts.WithLegendOpts(r.copts.Legend()),
		charts.WithGridOpts(r.copts.Grid()),
		charts.WithXAxisOpts(r.copts.XAxis("Date")),
		charts.WithYAxisOpts(r.copts.YAxisCapped(req.AxisLabel, ceiling)),
		charts.WithDataZoomOpts(r.copts.DataZoom()...),
	)
	line.SetXAxis(req.Dates)

	return line
}

func dashedNoSymbol(color string) []charts.SeriesOpts {
	return []charts.SeriesOpts{
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: lineWidth, Type: "dashed"}),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	}
}

// markerOpts turns sprint markers into vertical mark lines at each sprint's
// first date. Markers pointing outside the date axis are skipped.
func markerOpts(dates []string, markers []dataset.Marker, color string) []charts.SeriesOpts {
	if len(markers) == 0 {
		return nil
	}

	onAxis := make(map[string]bool, len(dates))
	for _, d := range dates {
		onAxis[d] = true
	}

	items := make([]opts.MarkLineNameXAxisItem, 0, len(markers))

	for _, m := range markers {
		if !onAxis[m.StartDate] {
			continue
		}

		items = append(items, opts.MarkLineNameXAxisItem{Name: m.Name, XAxis: m.StartDate})
	}

	if len(items) == 0 {
		return nil
	}

	return []charts.SeriesOpts{
		charts.WithMarkLineNameXAxisItemOpts(items...),
		charts.WithMarkLineStyleOpts(opts.MarkLineStyle{
			Symbol:    []string{"none", "none"},
			Label:     &opts.Label{Show: opts.Bool(true), Formatter: "{b}"},
			LineStyle: &opts.LineStyle{Color: color, Type: "dashed"},
		}),
	}
}

// lineData maps a nullable series onto n axis slots. Missing points render
// as gaps.
func lineData(series []*float64, n int) []opts.LineData {
	data := make([]opts.LineData, n)

	for i := range data {
		if i < len(series) && series[i] != nil {
			data[i] = opts.LineData{Value: *series[i]}
		} else {
			data[i] = opts.LineData{Value: "-"}
		}
	}

	return data
}

func floatData(series []float64) []opts.LineData {
	data := make([]opts.LineData, len(series))

	for i, v := range series {
		data[i] = opts.LineData{Value: v}
	}

	return data
}
