package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/sprintfang/internal/burnup"
	"github.com/Sumatoshi-tech/sprintfang/internal/filter"
)

// SprintSummary is one entry of the sprint_list result.
type SprintSummary struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Days      int    `json:"days"`
	Users     int    `json:"users"`
}

// SprintList is the structured result of the sprint_list tool. Sprints are
// in dashboard selector order, and Default names the sprint the dashboard
// opens on.
type SprintList struct {
	Sprints []SprintSummary `json:"sprints"`
	Default string          `json:"default,omitempty"`
}

// SprintMetrics is the structured result of the sprint_metrics tool.
// Earned and cost are the final present point of their series; planned is
// the record's plannedHours total when the document carries one, with the
// planned series' final point as fallback.
type SprintMetrics struct {
	Sprint       string  `json:"sprint"`
	User         string  `json:"user"`
	StartDate    string  `json:"start_date,omitempty"`
	EndDate      string  `json:"end_date,omitempty"`
	PlannedHours float64 `json:"planned_hours"`
	EarnedHours  float64 `json:"earned_hours"`
	ActualCost   float64 `json:"actual_cost"`
	Completion   float64 `json:"completion"`
}

// handleSprintList processes sprint_list tool calls.
func (s *Server) handleSprintList(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	_ SprintListInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	ds, err := s.loadDataset(ctx)
	if err != nil {
		return errorResult(err)
	}

	opts := filter.SprintOptions(ds.SprintNames(), "")

	list := SprintList{Sprints: make([]SprintSummary, 0, len(opts))}

	for _, opt := range opts {
		rec, ok := ds.Record(opt.Key)
		if !ok {
			continue
		}

		if opt.Selected {
			list.Default = opt.Key
		}

		list.Sprints = append(list.Sprints, SprintSummary{
			Name:      opt.Key,
			StartDate: firstOf(rec.Dates),
			EndDate:   lastOf(rec.Dates),
			Days:      len(rec.Dates),
			Users:     len(rec.Users),
		})
	}

	return jsonResult(list)
}

// handleSprintMetrics processes sprint_metrics tool calls.
func (s *Server) handleSprintMetrics(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input SprintMetricsInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	ds, err := s.loadDataset(ctx)
	if err != nil {
		return errorResult(err)
	}

	sprint, rec, err := resolveSprint(ds, input.Sprint)
	if err != nil {
		return errorResult(err)
	}

	user, bundle, err := resolveUser(rec, input.User)
	if err != nil {
		return errorResult(err)
	}

	planned, ok := rec.PlannedHours[user]
	if !ok {
		planned, _ = burnup.LastPoint(bundle.DailyPlannedHours)
	}

	earned, _ := burnup.LastPoint(bundle.EarnedHours)
	cost, _ := burnup.LastPoint(bundle.ActualCost)

	completion := 0.0
	if planned > 0 {
		completion = earned / planned
	}

	return jsonResult(SprintMetrics{
		Sprint:       sprint,
		User:         user,
		StartDate:    firstOf(rec.Dates),
		EndDate:      lastOf(rec.Dates),
		PlannedHours: planned,
		EarnedHours:  earned,
		ActualCost:   cost,
		Completion:   completion,
	})
}
