// Package dataset loads and validates the sprint metrics document consumed
// by the dashboard. The document is produced externally (a Jira export
// pipeline); this package is the read-only boundary that turns its JSON
// into verified typed structures.
package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Reserved record and bundle keys within a dataset document.
const (
	// KeyOverall is the sentinel aggregate bundle key; every selectable
	// record carries it under charts.
	KeyOverall = "overall"

	// KeyAllTime is the reserved cross-sprint record spanning all sprints.
	KeyAllTime = "All Time"

	// KeyEvPv is the reserved record carrying earned-value and
	// planned-value series.
	KeyEvPv = "EV/PV"
)

// Sentinel errors matching the load-failure taxonomy. Schema and invariant
// violations wrap ErrUnavailable: downstream code only ever sees a verified
// dataset or one of these.
var (
	// ErrUnavailable indicates the document could not be read, fetched, or
	// did not conform to the expected shape.
	ErrUnavailable = errors.New("sprint data unavailable")

	// ErrEmpty indicates the document parsed but contains no records.
	ErrEmpty = errors.New("sprint data contains no records")
)

// Dataset is an immutable snapshot of the sprint metrics document.
// Record iteration order follows the document's key order, so sort
// ties among sprint names keep their original position.
type Dataset struct {
	names   []string
	records map[string]*Record
}

// Record holds one dashboard entry: a sprint, or one of the reserved
// "All Time" / "EV/PV" views.
type Record struct {
	Dates        []string           `json:"dates"`
	Users        []string           `json:"users,omitempty"`
	PlannedHours map[string]float64 `json:"plannedHours,omitempty"`
	Charts       map[string]*Bundle `json:"charts"`
	Markers      []Marker           `json:"sprint_markers,omitempty"`
}

// Bundle carries the per-user (or aggregate) metric series of a record.
// Entries are nil for dates that lie in the future of an active sprint.
type Bundle struct {
	EarnedHours       []*float64 `json:"earnedHours,omitempty"`
	ActualCost        []*float64 `json:"actualCost,omitempty"`
	DailyPlannedHours []*float64 `json:"dailyPlannedHours,omitempty"`
	EarnedValue       []*float64 `json:"earnedValue,omitempty"`
	PlannedValue      []*float64 `json:"plannedValue,omitempty"`
}

// Marker labels one sprint's boundaries within the "All Time" record.
type Marker struct {
	Name      string  `json:"name"`
	StartDate string  `json:"startDate"`
	EndDate   string  `json:"endDate"`
	Planned   float64 `json:"planned"`
}

// Names returns all record names in document order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.names))
	copy(names, d.names)

	return names
}

// SprintNames returns the names that belong in the sprint selector:
// every record except the reserved "EV/PV" view. "All Time" is included;
// it has no embedded number and sorts ahead of every numbered sprint.
func (d *Dataset) SprintNames() []string {
	names := make([]string, 0, len(d.names))

	for _, name := range d.names {
		if name == KeyEvPv {
			continue
		}

		names = append(names, name)
	}

	return names
}

// Record returns the record stored under name.
func (d *Dataset) Record(name string) (*Record, bool) {
	rec, ok := d.records[name]

	return rec, ok
}

// Len returns the number of records in the dataset.
func (d *Dataset) Len() int {
	return len(d.names)
}

// Bundle returns the series bundle stored under key ("overall" or a user
// display name).
func (r *Record) Bundle(key string) (*Bundle, bool) {
	if r == nil {
		return nil, false
	}

	b, ok := r.Charts[key]
	if !ok || b == nil {
		return nil, false
	}

	return b, true
}

// decodeDataset decodes the raw document while preserving top-level key
// order. encoding/json maps forget it, and the stable-tie sort rule for
// sprint names depends on document order.
func decodeDataset(raw []byte) (*Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	openTok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read document start: %w", err)
	}

	if delim, ok := openTok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("document root is %v, want object", openTok)
	}

	ds := &Dataset{records: make(map[string]*Record)}

	for dec.More() {
		keyTok, keyErr := dec.Token()
		if keyErr != nil {
			return nil, fmt.Errorf("read record name: %w", keyErr)
		}

		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("record name is %v, want string", keyTok)
		}

		var rec Record

		decErr := dec.Decode(&rec)
		if decErr != nil {
			return nil, fmt.Errorf("decode record %q: %w", name, decErr)
		}

		ds.names = append(ds.names, name)
		ds.records[name] = &rec
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read document end: %w", err)
	}

	return ds, nil
}
