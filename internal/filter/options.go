// Package filter derives the two dependent dashboard selectors: the sprint
// list and the per-sprint user list. Selector state lives in the request
// (query parameters), so every helper takes the previously selected key and
// returns fully resolved options.
package filter

import (
	"sort"
	"strconv"
)

const (
	// OverallKey is the sentinel user key for the team aggregate.
	OverallKey = "overall"

	// OverallLabel is the display label bound to OverallKey.
	OverallLabel = "Overall Team"

	// noNumber sorts records without an embedded number ahead of every
	// numbered sprint ("All Time" before "Sprint 1").
	noNumber = -1
)

// Option is one selector entry.
type Option struct {
	Key      string
	Label    string
	Selected bool
}

// SprintOptions builds the sprint selector from record names. Names sort
// ascending by the first run of digits they embed; names without digits
// sort first. Ties keep their given order. The option matching selected is
// marked; when selected is absent the last entry wins, defaulting the
// dashboard to the most recent sprint.
func SprintOptions(names []string, selected string) []Option {
	opts := make([]Option, 0, len(names))

	for _, name := range names {
		opts = append(opts, Option{Key: name, Label: name})
	}

	sort.SliceStable(opts, func(i, j int) bool {
		return sprintNumber(opts[i].Key) < sprintNumber(opts[j].Key)
	})

	markSelected(opts, selected, len(opts)-1)

	return opts
}

// UserOptions builds the user selector for one sprint: the team aggregate
// first, then every user in the given order. A previously selected key that
// survives repopulation stays selected; anything else falls back to the
// aggregate. An empty user list still yields the aggregate entry.
func UserOptions(users []string, selected string) []Option {
	opts := make([]Option, 0, len(users)+1)
	opts = append(opts, Option{Key: OverallKey, Label: OverallLabel})

	for _, user := range users {
		opts = append(opts, Option{Key: user, Label: user})
	}

	markSelected(opts, selected, 0)

	return opts
}

// SelectedKey returns the key of the marked option, or "" for an empty set.
func SelectedKey(opts []Option) string {
	for _, opt := range opts {
		if opt.Selected {
			return opt.Key
		}
	}

	return ""
}

// markSelected marks the option whose key equals selected, falling back to
// fallbackIdx when no key matches.
func markSelected(opts []Option, selected string, fallbackIdx int) {
	if len(opts) == 0 {
		return
	}

	for i := range opts {
		if opts[i].Key == selected {
			opts[i].Selected = true

			return
		}
	}

	opts[fallbackIdx].Selected = true
}

// sprintNumber extracts the first run of digits embedded in name, or
// noNumber when name contains none.
func sprintNumber(name string) int {
	start := -1

	for i, r := range name {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}

			continue
		}

		if start >= 0 {
			return parseDigits(name[start:i])
		}
	}

	if start >= 0 {
		return parseDigits(name[start:])
	}

	return noNumber
}

func parseDigits(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return noNumber
	}

	return n
}
