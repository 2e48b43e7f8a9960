package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const renderTestDoc = `{
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

// renderTestDocNoEvPv has sprint records but no reserved EV/PV record.
const renderTestDocNoEvPv = `{
  "Sprint 1": {
    "dates": ["2024-01-01", "2024-01-02"],
    "users": ["Alice"],
    "charts": {
      "overall": {
        "earnedHours": [5, 10],
        "actualCost": [6, 12],
        "dailyPlannedHours": [20, 20]
      }
    }
  }
}`

func writeRenderDoc(t *testing.T, doc string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "data.json")

	writeErr := os.WriteFile(path, []byte(doc), 0o600)
	require.NoError(t, writeErr)

	return path
}

func TestRenderCommand_ProducesHTMLFiles(t *testing.T) {
	t.Parallel()

	docPath := writeRenderDoc(t, renderTestDoc)
	outputDir := filepath.Join(t.TempDir(), "html")

	cmd := NewRenderCommand()
	cmd.SetArgs([]string{"--data", docPath, "--output", outputDir})

	err := cmd.Execute()
	require.NoError(t, err)

	indexData, readErr := os.ReadFile(filepath.Join(outputDir, "index.html"))
	require.NoError(t, readErr, "index.html should exist")

	indexHTML := string(indexData)
	require.Contains(t, indexHTML, "cdn.tailwindcss.com")
	require.Contains(t, indexHTML, "sprint-chart")
	require.Contains(t, indexHTML, "Sprint 2", "default selection is the latest sprint")

	evpvData, evpvErr := os.ReadFile(filepath.Join(outputDir, "evpv.html"))
	require.NoError(t, evpvErr, "evpv.html should exist")

	evpvHTML := string(evpvData)
	require.Contains(t, evpvHTML, "Earned Value vs Planned Value")
}

func TestRenderCommand_ExplicitSelection(t *testing.T) {
	t.Parallel()

	docPath := writeRenderDoc(t, renderTestDoc)
	outputDir := filepath.Join(t.TempDir(), "html")

	cmd := NewRenderCommand()
	cmd.SetArgs([]string{"--data", docPath, "--output", outputDir, "--sprint", "Sprint 1", "--user", "Alice"})

	err := cmd.Execute()
	require.NoError(t, err)

	indexData, readErr := os.ReadFile(filepath.Join(outputDir, "index.html"))
	require.NoError(t, readErr)

	indexHTML := string(indexData)
	require.Contains(t, indexHTML, "Sprint 1")
	require.Contains(t, indexHTML, "Alice")
}

func TestRenderCommand_NoOutputDir(t *testing.T) {
	t.Parallel()

	docPath := writeRenderDoc(t, renderTestDoc)

	cmd := NewRenderCommand()
	cmd.SetArgs([]string{"--data", docPath})

	err := cmd.Execute()
	require.ErrorIs(t, err, ErrNoOutputDir)
}

func TestRenderCommand_UnknownSprint(t *testing.T) {
	t.Parallel()

	docPath := writeRenderDoc(t, renderTestDoc)

	cmd := NewRenderCommand()
	cmd.SetArgs([]string{"--data", docPath, "--output", t.TempDir(), "--sprint", "Sprint 99"})

	err := cmd.Execute()
	require.Error(t, err, "a static render of a missing sprint is an error, not a notice page")
}

func TestRenderCommand_MissingDocument(t *testing.T) {
	t.Parallel()

	cmd := NewRenderCommand()
	cmd.SetArgs([]string{"--data", filepath.Join(t.TempDir(), "missing.json"), "--output", t.TempDir()})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestRenderCommand_CreatesOutputDir(t *testing.T) {
	t.Parallel()

	docPath := writeRenderDoc(t, renderTestDoc)
	outputDir := filepath.Join(t.TempDir(), "new", "nested", "dir")

	cmd := NewRenderCommand()
	cmd.SetArgs([]string{"--data", docPath, "--output", outputDir})

	err := cmd.Execute()
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(outputDir, "index.html"))
	require.NoError(t, statErr, "index.html should exist in created output dir")
}

func TestRenderCommand_SkipsEvPvPageWithoutRecord(t *testing.T) {
	t.Parallel()

	docPath := writeRenderDoc(t, renderTestDocNoEvPv)
	outputDir := filepath.Join(t.TempDir(), "html")

	cmd := NewRenderCommand()
	cmd.SetArgs([]string{"--data", docPath, "--output", outputDir})

	// The burn-up page renders; the missing reserved record only skips
	// the earned value page.
	err := cmd.Execute()
	require.NoError(t, err)

	_, indexErr := os.Stat(filepath.Join(outputDir, "index.html"))
	require.NoError(t, indexErr)

	_, evpvErr := os.Stat(filepath.Join(outputDir, "evpv.html"))
	require.ErrorIs(t, evpvErr, os.ErrNotExist)
}
