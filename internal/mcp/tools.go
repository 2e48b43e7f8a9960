package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/sprintfang/internal/dataset"
	"github.com/Sumatoshi-tech/sprintfang/internal/filter"
)

// Tool name constants.
const (
	ToolNameSprintList    = "sprint_list"
	ToolNameSprintMetrics = "sprint_metrics"
	ToolNameEvPvSummary   = "evpv_summary"
)

// Sentinel errors for tool input resolution. Unlike the dashboard, which
// falls back to defaults so the page stays interactive, tool callers get
// explicit errors for selections the dataset does not carry.
var (
	// ErrNoSprints indicates the dataset carries no selectable sprint records.
	ErrNoSprints = errors.New("dataset has no sprint records")
	// ErrUnknownSprint indicates the requested sprint is not in the dataset.
	ErrUnknownSprint = errors.New("unknown sprint")
	// ErrUnknownUser indicates the requested team member is not in the sprint.
	ErrUnknownUser = errors.New("unknown team member")
	// ErrNoValueRecord indicates the dataset lacks the earned-value record.
	ErrNoValueRecord = errors.New("dataset has no earned value record")
)

// Input types (auto-generate JSON schemas via struct tags).

// SprintListInput is the input schema for the sprint_list tool.
type SprintListInput struct{}

// SprintMetricsInput is the input schema for the sprint_metrics tool.
type SprintMetricsInput struct {
	Sprint string `json:"sprint,omitempty" jsonschema:"sprint name (default: the most recent sprint)"`
	User   string `json:"user,omitempty"   jsonschema:"team member name or overall (default: overall)"`
}

// EvPvSummaryInput is the input schema for the evpv_summary tool.
type EvPvSummaryInput struct{}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// loadDataset reads the document fresh for one tool call.
func (s *Server) loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	snap, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}

	return snap.Data, nil
}

// resolveSprint maps a requested sprint name onto its record, defaulting to
// the most recent sprint when the request is empty.
func resolveSprint(ds *dataset.Dataset, requested string) (string, *dataset.Record, error) {
	opts := filter.SprintOptions(ds.SprintNames(), requested)

	key := filter.SelectedKey(opts)
	if key == "" {
		return "", nil, ErrNoSprints
	}

	if requested != "" && requested != key {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownSprint, requested)
	}

	rec, ok := ds.Record(key)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownSprint, key)
	}

	return key, rec, nil
}

// resolveUser maps a requested team member onto the sprint's series bundle,
// defaulting to the team aggregate when the request is empty.
func resolveUser(rec *dataset.Record, requested string) (string, *dataset.Bundle, error) {
	opts := filter.UserOptions(rec.Users, requested)

	key := filter.SelectedKey(opts)
	if requested != "" && requested != key {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownUser, requested)
	}

	bundle, ok := rec.Bundle(key)
	if !ok {
		return "", nil, fmt.Errorf("%w: no series recorded for %q", ErrUnknownUser, key)
	}

	return key, bundle, nil
}

func firstOf(dates []string) string {
	if len(dates) == 0 {
		return ""
	}

	return dates[0]
}

func lastOf(dates []string) string {
	if len(dates) == 0 {
		return ""
	}

	return dates[len(dates)-1]
}
