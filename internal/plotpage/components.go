package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

const maxGridColumns = 4

// AlertColor defines alert colors.
type AlertColor string

// Alert color constants.
const (
	AlertDefault AlertColor = "default"
	AlertSuccess AlertColor = "success"
	AlertWarning AlertColor = "warning"
	AlertError   AlertColor = "error"
	AlertInfo    AlertColor = "info"
)

// SelectOption is one entry of a filter selector.
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// Select is a single filter selector within a Filters bar.
type Select struct {
	ID      string
	Name    string
	Label   string
	Hidden  bool
	Options []SelectOption
}

// Filters renders the filter bar: a GET form whose selectors resubmit the
// page on change, so selection state lives entirely in the query string.
type Filters struct {
	Action  string
	Selects []Select
}

// NewFilters creates a filter bar submitting to action.
func NewFilters(action string) *Filters {
	return &Filters{Action: action}
}

// AddSelect appends a selector to the bar.
func (f *Filters) AddSelect(sel Select) *Filters {
	f.Selects = append(f.Selects, sel)

	return f
}

// Render writes the filter bar HTML.
func (f *Filters) Render(w io.Writer) error {
	selects := make([]selectData, len(f.Selects))

	for i, sel := range f.Selects {
		selects[i] = selectData{
			ID:      sel.ID,
			Name:    sel.Name,
			Label:   sel.Label,
			Hidden:  sel.Hidden,
			Options: sel.Options,
		}
	}

	html := mustRenderTemplate("filters.html", filtersData{
		Action:  f.Action,
		Selects: selects,
	})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing filters: %w", err)
	}

	return nil
}

// Alert renders an alert/notification box.
type Alert struct {
	Title   string
	Message string
	Color   AlertColor
}

// NewAlert creates a new alert.
func NewAlert(title, message string, color AlertColor) *Alert {
	return &Alert{Title: title, Message: message, Color: color}
}

// Render writes the alert HTML.
func (a *Alert) Render(w io.Writer) error {
	var bgClass, borderClass, textClass, titleClass string

	switch a.Color {
	case AlertSuccess:
		bgClass = "bg-green-50 dark:bg-green-950"
		borderClass = "border-green-500"
		textClass = "text-green-700 dark:text-green-300"
		titleClass = "text-green-800 dark:text-green-200"
	case AlertWarning:
		bgClass = "bg-yellow-50 dark:bg-yellow-950"
		borderClass = "border-yellow-500"
		textClass = "text-yellow-700 dark:text-yellow-300"
		titleClass = "text-yellow-800 dark:text-yellow-200"
	case AlertError:
		bgClass = "bg-red-50 dark:bg-red-950"
		borderClass = "border-red-500"
		textClass = "text-red-700 dark:text-red-300"
		titleClass = "text-red-800 dark:text-red-200"
	case AlertInfo:
		bgClass = "bg-blue-50 dark:bg-blue-950"
		borderClass = "border-blue-500"
		textClass = "text-blue-700 dark:text-blue-300"
		titleClass = "text-blue-800 dark:text-blue-200"
	case AlertDefault:
		bgClass = "bg-stone-50 dark:bg-stone-900"
		borderClass = "border-stone-500"
		textClass = "text-stone-700 dark:text-stone-300"
		titleClass = "text-stone-800 dark:text-stone-200"
	default:
		bgClass = "bg-stone-50 dark:bg-stone-900"
		borderClass = "border-stone-500"
		textClass = "text-stone-700 dark:text-stone-300"
		titleClass = "text-stone-800 dark:text-stone-200"
	}

	html := mustRenderTemplate("alert.html", alertData{
		Title:       a.Title,
		Message:     a.Message,
		BgClass:     bgClass,
		BorderClass: borderClass,
		TitleClass:  titleClass,
		TextClass:   textClass,
	})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing alert: %w", err)
	}

	return nil
}

// Text renders plain text content.
type Text struct {
	Content string
}

// NewText creates a new text block.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// Render writes the text content.
func (t *Text) Render(w io.Writer) error {
	_, err := w.Write([]byte(template.HTMLEscapeString(t.Content)))
	if err != nil {
		return fmt.Errorf("writing text: %w", err)
	}

	return nil
}

// Grid renders a responsive grid layout.
type Grid struct {
	Columns int
	Gap     string
	Items   []Renderable
}

// NewGrid creates a new grid layout.
func NewGrid(columns int, items ...Renderable) *Grid {
	if columns < 1 {
		columns = 1
	}

	if columns > maxGridColumns {
		columns = maxGridColumns
	}

	return &Grid{Columns: columns, Gap: "gap-4", Items: items}
}

// Render writes the grid HTML.
func (g *Grid) Render(w io.Writer) error {
	colClass := map[int]string{
		1: "grid-cols-1",
		2: "grid-cols-1 md:grid-cols-2",
		3: "grid-cols-1 md:grid-cols-2 lg:grid-cols-3",
		4: "grid-cols-1 md:grid-cols-2 lg:grid-cols-4",
	}[g.Columns]

	items := make([]template.HTML, len(g.Items))

	for i, item := range g.Items {
		if item != nil {
			var buf bytes.Buffer

			err := item.Render(&buf)
			if err != nil {
				return fmt.Errorf("rendering grid item %d: %w", i, err)
			}

			items[i] = template.HTML(buf.String())
		}
	}

	html := mustRenderTemplate("grid.html", gridData{
		ColClass: colClass,
		Gap:      g.Gap,
		Items:    items,
	})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing grid: %w", err)
	}

	return nil
}

// Stat renders a statistic/metric display.
type Stat struct {
	Label string
	Value string
	Trend string
	Color AlertColor
}

// NewStat creates a new stat display.
func NewStat(label, value string) *Stat {
	return &Stat{Label: label, Value: value}
}

// WithTrend sets the trend indicator.
func (s *Stat) WithTrend(trend string, color AlertColor) *Stat {
	s.Trend = trend
	s.Color = color

	return s
}

// Render writes the stat HTML.
func (s *Stat) Render(w io.Writer) error {
	trendClass := "text-stone-500"

	switch s.Color {
	case AlertSuccess:
		trendClass = "text-green-600 dark:text-green-400"
	case AlertError:
		trendClass = "text-red-600 dark:text-red-400"
	case AlertWarning:
		trendClass = "text-yellow-600 dark:text-yellow-400"
	case AlertDefault, AlertInfo:
		trendClass = "text-stone-500"
	}

	html := mustRenderTemplate("stat.html", statData{
		Label:      s.Label,
		Value:      s.Value,
		Trend:      s.Trend,
		TrendClass: trendClass,
	})

	_, err := w.Write([]byte(html))
	if err != nil {
		return fmt.Errorf("writing stat: %w", err)
	}

	return nil
}
