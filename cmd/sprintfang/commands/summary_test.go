package commands

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runSummaryCommand(t *testing.T, args ...string) string {
	t.Helper()

	var buf bytes.Buffer

	cmd := NewSummaryCommand()
	cmd.SetOut(&buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	require.NoError(t, err)

	return buf.String()
}

func TestSummaryCommand_Table(t *testing.T) {
	t.Parallel()

	docPath := writeRenderDoc(t, renderTestDoc)

	out := runSummaryCommand(t, "--data", docPath)

	assert.Contains(t, out, "Sprint 1")
	assert.Contains(t, out, "Sprint 2")
	assert.Contains(t, out, "Total: 2 sprints", "reserved EV/PV record is not a sprint")
}

func TestSummaryCommand_JSON(t *testing.T) {
	t.Parallel()

	docPath := writeRenderDoc(t, renderTestDoc)

	out := runSummaryCommand(t, "--data", docPath, "--format", "json")

	var rows []sprintRow

	unmarshalErr := json.Unmarshal([]byte(out), &rows)
	require.NoError(t, unmarshalErr)
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "Sprint 1", first.Sprint)
	assert.Equal(t, "2024-01-01", first.StartDate)
	assert.Equal(t, "2024-01-03", first.EndDate)
	assert.Equal(t, 3, first.Days)
	assert.Equal(t, 2, first.Users)
	assert.InDelta(t, 30, first.Planned, 0.001)
	assert.InDelta(t, 15, first.Earned, 0.001)
	assert.InDelta(t, 18, first.Cost, 0.001)
	assert.InDelta(t, 0.5, first.Completion, 0.001)

	// The active sprint's totals read the last present point, not the
	// trailing null.
	second := rows[1]
	assert.Equal(t, "Sprint 2", second.Sprint)
	assert.InDelta(t, 32, second.Planned, 0.001)
	assert.InDelta(t, 18, second.Earned, 0.001)
	assert.InDelta(t, 20, second.Cost, 0.001)
	assert.InDelta(t, 0.5625, second.Completion, 0.001)
}

func TestSummaryCommand_YAML(t *testing.T) {
	t.Parallel()

	docPath := writeRenderDoc(t, renderTestDoc)

	out := runSummaryCommand(t, "--data", docPath, "--format", "yaml")

	assert.Contains(t, out, "sprint: Sprint 1")
	assert.Contains(t, out, "planned_hours: 30")
}

func TestSummaryCommand_UnknownFormat(t *testing.T) {
	t.Parallel()

	docPath := writeRenderDoc(t, renderTestDoc)

	cmd := NewSummaryCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data", docPath, "--format", "csv"})

	err := cmd.Execute()
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestSummaryCommand_MissingDocument(t *testing.T) {
	t.Parallel()

	cmd := NewSummaryCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--data", filepath.Join(t.TempDir(), "missing.json")})

	err := cmd.Execute()
	require.Error(t, err)
}
