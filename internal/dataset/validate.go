package dataset

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/Sumatoshi-tech/sprintfang/internal/dataset/schema"
)

// maxReportedIssues caps how many schema issues are folded into a Parse error.
const maxReportedIssues = 3

// Parse validates raw against the embedded dataset schema, decodes it, and
// checks the cross-field invariants the schema cannot express. Every failure
// wraps ErrUnavailable except an empty document, which returns ErrEmpty.
func Parse(raw []byte) (*Dataset, error) {
	issues, err := SchemaIssues(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if len(issues) > 0 {
		return nil, fmt.Errorf("%w: schema: %s", ErrUnavailable, summarizeIssues(issues))
	}

	ds, err := decodeDataset(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if ds.Len() == 0 {
		return nil, ErrEmpty
	}

	if err := ds.checkInvariants(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	return ds, nil
}

// SchemaIssues validates raw against the embedded dataset schema and returns
// the individual violations. A non-nil error means the document or the schema
// itself could not be processed at all.
func SchemaIssues(raw []byte) ([]gojsonschema.ResultError, error) {
	schemaBytes, err := schema.SprintSchemaFS.ReadFile(schema.SprintSchemaFile)
	if err != nil {
		return nil, fmt.Errorf("read embedded schema: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("validate document: %w", err)
	}

	return result.Errors(), nil
}

// checkInvariants enforces the shape rules the JSON schema cannot state:
// every series in every bundle must be exactly as long as the record's
// date axis.
func (d *Dataset) checkInvariants() error {
	for _, name := range d.names {
		rec := d.records[name]

		for key, bundle := range rec.Charts {
			if err := checkBundleLengths(bundle, len(rec.Dates)); err != nil {
				return fmt.Errorf("record %q, bundle %q: %w", name, key, err)
			}
		}
	}

	return nil
}

func checkBundleLengths(b *Bundle, want int) error {
	if b == nil {
		return nil
	}

	series := map[string][]*float64{
		"earnedHours":       b.EarnedHours,
		"actualCost":        b.ActualCost,
		"dailyPlannedHours": b.DailyPlannedHours,
		"earnedValue":       b.EarnedValue,
		"plannedValue":      b.PlannedValue,
	}

	for label, values := range series {
		if values == nil {
			continue
		}

		if len(values) != want {
			return fmt.Errorf("series %s has %d points, want %d", label, len(values), want)
		}
	}

	return nil
}

func summarizeIssues(issues []gojsonschema.ResultError) string {
	parts := make([]string, 0, maxReportedIssues)

	for i, issue := range issues {
		if i == maxReportedIssues {
			parts = append(parts, fmt.Sprintf("and %d more", len(issues)-maxReportedIssues))

			break
		}

		parts = append(parts, fmt.Sprintf("%s: %s", issue.Field(), issue.Description()))
	}

	return strings.Join(parts, "; ")
}
