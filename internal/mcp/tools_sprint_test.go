package mcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/sprintfang/internal/dataset"
)

const toolDoc = `{
  "All Time": {
    "dates": ["2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06"],
    "users": ["Alice", "Bob"],
    "charts": {
      "overall": {
        "earnedHours": [5, 10, 15, 23, 33, null],
        "actualCost": [6, 12, 18, 27, 38, null],
        "dailyPlannedHours": [30, 30, 30, 62, 62, 62]
      }
    }
  },
  "Sprint 1": {
    "dates": ["2024-01-01", "2024-01-02", "2024-01-03"],
    "users": ["Alice", "Bob"],
    "charts": {
      "overall": {
        "earnedHours": [5, 10, 15],
        "actualCost": [6, 12, 18],
        "dailyPlannedHours": [30, 30, 30]
      },
      "Alice": {
        "earnedHours": [3, 6, 9],
        "actualCost": [3, 7, 10],
        "dailyPlannedHours": [18, 18, 18]
      },
      "Bob": {
        "earnedHours": [2, 4, 6],
        "actualCost": [3, 5, 8],
        "dailyPlannedHours": [12, 12, 12]
      }
    }
  },
  "Sprint 2": {
    "dates": ["2024-01-04", "2024-01-05", "2024-01-06"],
    "users": ["Alice", "Bob"],
    "charts": {
      "overall": {
        "earnedHours": [8, 18, null],
        "actualCost": [9, 20, null],
        "dailyPlannedHours": [32, 32, 32]
      },
      "Alice": {
        "earnedHours": [5, 11, null],
        "actualCost": [5, 12, null],
        "dailyPlannedHours": [20, 20, 20]
      },
      "Bob": {
        "earnedHours": [3, 7, null],
        "actualCost": [4, 8, null],
        "dailyPlannedHours": [12, 12, 12]
      }
    }
  },
  "EV/PV": {
    "dates": ["2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06"],
    "charts": {
      "overall": {
        "earnedValue": [5, 10, 15, 23, 33, null],
        "plannedValue": [10, 20, 30, 41, 52, 62]
      }
    }
  }
}`

func newTestServer(t *testing.T, doc string) *Server {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	return NewServer(dataset.NewSource(path), ServerDeps{})
}

func newUnavailableServer(t *testing.T) *Server {
	t.Helper()

	return NewServer(dataset.NewSource(filepath.Join(t.TempDir(), "missing.json")), ServerDeps{})
}

// extractText returns the text content from the first content item, or empty string.
func extractText(result *mcpsdk.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}

	tc, ok := result.Content[0].(*mcpsdk.TextContent)
	if !ok {
		return ""
	}

	return tc.Text
}

func TestHandleSprintList(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, toolDoc)

	result, output, err := srv.handleSprintList(context.Background(), &mcpsdk.CallToolRequest{}, SprintListInput{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "unexpected error: %v", extractText(result))

	list, ok := output.Data.(SprintList)
	require.True(t, ok)

	names := make([]string, 0, len(list.Sprints))
	for _, s := range list.Sprints {
		names = append(names, s.Name)
	}

	// Dashboard order: un-numbered records first, then by sprint number.
	// The reserved earned-value record never appears.
	assert.Equal(t, []string{"All Time", "Sprint 1", "Sprint 2"}, names)
	assert.Equal(t, "Sprint 2", list.Default)

	sprint := list.Sprints[1]
	assert.Equal(t, "2024-01-01", sprint.StartDate)
	assert.Equal(t, "2024-01-03", sprint.EndDate)
	assert.Equal(t, 3, sprint.Days)
	assert.Equal(t, 2, sprint.Users)
}

func TestHandleSprintList_UnavailableSource(t *testing.T) {
	t.Parallel()

	srv := newUnavailableServer(t)

	result, _, err := srv.handleSprintList(context.Background(), &mcpsdk.CallToolRequest{}, SprintListInput{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(result), "load dataset")
}

func TestHandleSprintMetrics_Defaults(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, toolDoc)

	result, output, err := srv.handleSprintMetrics(context.Background(), &mcpsdk.CallToolRequest{}, SprintMetricsInput{})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "unexpected error: %v", extractText(result))

	metrics, ok := output.Data.(SprintMetrics)
	require.True(t, ok)

	assert.Equal(t, "Sprint 2", metrics.Sprint)
	assert.Equal(t, "overall", metrics.User)
	assert.InDelta(t, 32, metrics.PlannedHours, 0.001)
	assert.InDelta(t, 18, metrics.EarnedHours, 0.001)
	assert.InDelta(t, 20, metrics.ActualCost, 0.001)
	assert.InDelta(t, 0.5625, metrics.Completion, 0.001)
}

func TestHandleSprintMetrics_ExplicitSelection(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, toolDoc)

	input := SprintMetricsInput{Sprint: "Sprint 1", User: "Alice"}

	result, output, err := srv.handleSprintMetrics(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.IsError, "unexpected error: %v", extractText(result))

	metrics, ok := output.Data.(SprintMetrics)
	require.True(t, ok)

	assert.Equal(t, "Sprint 1", metrics.Sprint)
	assert.Equal(t, "Alice", metrics.User)
	assert.Equal(t, "2024-01-01", metrics.StartDate)
	assert.Equal(t, "2024-01-03", metrics.EndDate)
	assert.InDelta(t, 18, metrics.PlannedHours, 0.001)
	assert.InDelta(t, 9, metrics.EarnedHours, 0.001)
	assert.InDelta(t, 10, metrics.ActualCost, 0.001)
	assert.InDelta(t, 0.5, metrics.Completion, 0.001)
}

func TestHandleSprintMetrics_PlannedTotalFromRecord(t *testing.T) {
	t.Parallel()

	doc := `{
	  "Sprint 5": {
	    "dates": ["2024-02-01", "2024-02-02"],
	    "users": ["Alice"],
	    "plannedHours": {"Alice": 14, "overall": 40},
	    "charts": {
	      "overall": {
	        "earnedHours": [4, 9],
	        "actualCost": [5, 11],
	        "dailyPlannedHours": [16, 36]
	      },
	      "Alice": {
	        "earnedHours": [4, 9],
	        "actualCost": [5, 11]
	      }
	    }
	  }
	}`

	srv := newTestServer(t, doc)

	result, output, err := srv.handleSprintMetrics(context.Background(), &mcpsdk.CallToolRequest{}, SprintMetricsInput{})
	require.NoError(t, err)
	assert.False(t, result.IsError, "unexpected error: %v", extractText(result))

	metrics, ok := output.Data.(SprintMetrics)
	require.True(t, ok)

	// Scope changed after the daily series was produced: the plannedHours
	// total wins, and completion follows it.
	assert.InDelta(t, 40, metrics.PlannedHours, 0.001)
	assert.InDelta(t, 0.225, metrics.Completion, 0.001)

	input := SprintMetricsInput{User: "Alice"}

	result, output, err = srv.handleSprintMetrics(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	assert.False(t, result.IsError, "unexpected error: %v", extractText(result))

	metrics, ok = output.Data.(SprintMetrics)
	require.True(t, ok)

	// The per-user bundle carries no planned series; the map still has
	// the total.
	assert.InDelta(t, 14, metrics.PlannedHours, 0.001)
}

func TestHandleSprintMetrics_UnknownSprint(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, toolDoc)

	input := SprintMetricsInput{Sprint: "Sprint 99"}

	result, _, err := srv.handleSprintMetrics(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(result), "unknown sprint")
}

func TestHandleSprintMetrics_UnknownUser(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, toolDoc)

	input := SprintMetricsInput{User: "Mallory"}

	result, _, err := srv.handleSprintMetrics(context.Background(), &mcpsdk.CallToolRequest{}, input)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	assert.Contains(t, extractText(result), "unknown team member")
}

func TestListToolNames(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, toolDoc)

	names := srv.ListToolNames()
	assert.Equal(t, []string{ToolNameEvPvSummary, ToolNameSprintList, ToolNameSprintMetrics}, names)
}
