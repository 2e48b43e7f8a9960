package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/sprintfang/internal/burnup"
	"github.com/Sumatoshi-tech/sprintfang/internal/config"
	"github.com/Sumatoshi-tech/sprintfang/internal/dataset"
	"github.com/Sumatoshi-tech/sprintfang/internal/filter"
)

// Output formats for the summary command.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// Flag names for the summary command.
const (
	summaryFlagConfig = "config"
	summaryFlagData   = "data"
	summaryFlagFormat = "format"
)

// ErrUnknownFormat is returned for an unsupported --format value.
var ErrUnknownFormat = errors.New("unknown output format (want table, json, or yaml)")

type summaryOptions struct {
	configPath string
	data       string
	format     string
}

// sprintRow is one summary line: a sprint's headline numbers. Earned and
// cost are the final present point of the aggregate series; planned is
// the record's plannedHours total when present.
type sprintRow struct {
	Sprint     string  `json:"sprint"        yaml:"sprint"`
	StartDate  string  `json:"start_date"    yaml:"start_date"`
	EndDate    string  `json:"end_date"      yaml:"end_date"`
	Days       int     `json:"days"          yaml:"days"`
	Users      int     `json:"users"         yaml:"users"`
	Planned    float64 `json:"planned_hours" yaml:"planned_hours"`
	Earned     float64 `json:"earned_hours"  yaml:"earned_hours"`
	Cost       float64 `json:"actual_cost"   yaml:"actual_cost"`
	Completion float64 `json:"completion"    yaml:"completion"`
}

// NewSummaryCommand creates the summary subcommand.
func NewSummaryCommand() *cobra.Command {
	opts := &summaryOptions{}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print per-sprint headline numbers",
		Long: `Print one line per sprint with its date range, team size, and the
planned, earned and spent hour totals, in the same order the dashboard
lists sprints.`,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			return runSummary(cobraCmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, summaryFlagConfig, "", configFlagUsage)
	cmd.Flags().StringVar(&opts.data, summaryFlagData, "", "metrics document path or URL (overrides config)")
	cmd.Flags().StringVarP(&opts.format, summaryFlagFormat, "f", formatTable, "output format: table, json, or yaml")

	return cmd
}

func runSummary(cobraCmd *cobra.Command, opts *summaryOptions) error {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if opts.data != "" {
		cfg.Data.Source = opts.data
	}

	source := newSource(cfg)

	snap, err := source.Load(cobraCmd.Context())
	if err != nil {
		return fmt.Errorf("load dataset from %s: %w", source.Location(), err)
	}

	rows := summaryRows(snap.Data)
	out := cobraCmd.OutOrStdout()

	switch opts.format {
	case formatTable:
		return writeSummaryTable(out, rows)
	case formatJSON:
		return writeSummaryJSON(out, rows)
	case formatYAML:
		return writeSummaryYAML(out, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.format)
	}
}

// summaryRows flattens the dataset in selector order, so the listing
// matches the dashboard's sprint dropdown. The reserved EV/PV record is
// not part of the sprint list.
func summaryRows(ds *dataset.Dataset) []sprintRow {
	opts := filter.SprintOptions(ds.SprintNames(), "")
	rows := make([]sprintRow, 0, len(opts))

	for _, opt := range opts {
		rec, ok := ds.Record(opt.Key)
		if !ok {
			continue
		}

		row := sprintRow{
			Sprint: opt.Key,
			Days:   len(rec.Dates),
			Users:  len(rec.Users),
		}

		if len(rec.Dates) > 0 {
			row.StartDate = rec.Dates[0]
			row.EndDate = rec.Dates[len(rec.Dates)-1]
		}

		if bundle, ok := rec.Bundle(dataset.KeyOverall); ok {
			row.Planned, _ = burnup.LastPoint(bundle.DailyPlannedHours)
			row.Earned, _ = burnup.LastPoint(bundle.EarnedHours)
			row.Cost, _ = burnup.LastPoint(bundle.ActualCost)
		}

		// The plannedHours total of record wins over the series when the
		// document carries it, matching the dashboard headline.
		if planned, ok := rec.PlannedHours[dataset.KeyOverall]; ok {
			row.Planned = planned
		}

		if row.Planned > 0 {
			row.Completion = row.Earned / row.Planned
		}

		rows = append(rows, row)
	}

	return rows
}

func writeSummaryTable(out io.Writer, rows []sprintRow) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.SeparateRows = false
	tbl.Style().Options.SeparateColumns = false
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateHeader = false

	tbl.AppendHeader(table.Row{"Sprint", "Start", "End", "Days", "Users", "Planned", "Earned", "Cost", "Done"})

	for _, row := range rows {
		tbl.AppendRow(table.Row{
			row.Sprint,
			row.StartDate,
			row.EndDate,
			row.Days,
			row.Users,
			fmt.Sprintf("%.1f", row.Planned),
			fmt.Sprintf("%.1f", row.Earned),
			fmt.Sprintf("%.1f", row.Cost),
			fmt.Sprintf("%.0f%%", row.Completion*100),
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d sprints", len(rows))})

	_, err := fmt.Fprintln(out, tbl.Render())

	return err
}

func writeSummaryJSON(out io.Writer, rows []sprintRow) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")

	return enc.Encode(rows)
}

func writeSummaryYAML(out io.Writer, rows []sprintRow) error {
	data, err := yaml.Marshal(rows)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}

	_, err = out.Write(data)

	return err
}
