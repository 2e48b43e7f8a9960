package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/sprintfang/internal/burnup"
	"github.com/Sumatoshi-tech/sprintfang/internal/dataset"
)

// EvPvSummary is the structured result of the evpv_summary tool. Earned and
// planned value are read at the earned-value frontier (the last day with a
// recorded point), so the variance compares like with like; the planned
// series usually extends further into the future.
type EvPvSummary struct {
	Through           string  `json:"through,omitempty"`
	EarnedValue       float64 `json:"earned_value"`
	PlannedValue      float64 `json:"planned_value"`
	PlannedValueTotal float64 `json:"planned_value_total"`
	ScheduleVariance  float64 `json:"schedule_variance"`
	SPI               float64 `json:"spi"`
	Days              int     `json:"days"`
}

// handleEvPvSummary processes evpv_summary tool calls.
func (s *Server) handleEvPvSummary(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	_ EvPvSummaryInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	ds, err := s.loadDataset(ctx)
	if err != nil {
		return errorResult(err)
	}

	rec, ok := ds.Record(dataset.KeyEvPv)
	if !ok {
		return errorResult(ErrNoValueRecord)
	}

	bundle, ok := rec.Bundle(dataset.KeyOverall)
	if !ok {
		return errorResult(ErrNoValueRecord)
	}

	summary := EvPvSummary{Days: len(rec.Dates)}
	summary.PlannedValueTotal, _ = burnup.LastPoint(bundle.PlannedValue)

	idx := burnup.LastIndex(bundle.EarnedValue)
	if idx < 0 {
		summary.PlannedValue = summary.PlannedValueTotal

		return jsonResult(summary)
	}

	summary.EarnedValue = *bundle.EarnedValue[idx]
	summary.PlannedValue, _ = burnup.ValueAt(bundle.PlannedValue, idx)
	summary.ScheduleVariance = summary.EarnedValue - summary.PlannedValue

	if summary.PlannedValue > 0 {
		summary.SPI = summary.EarnedValue / summary.PlannedValue
	}

	if idx < len(rec.Dates) {
		summary.Through = rec.Dates[idx]
	}

	return jsonResult(summary)
}
