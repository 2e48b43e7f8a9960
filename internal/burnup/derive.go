// Package burnup derives the reference series and axis bounds for the
// burn-up charts: the ideal straight-line accrual and the suggested y-axis
// ceiling.
package burnup

import "math"

const (
	// headroomFactor scales the observed peak so the tallest series never
	// touches the chart's top edge.
	headroomFactor = 1.05

	// ceilingStep is the granularity of the y-axis upper bound.
	ceilingStep = 50
)

// IdealSeries returns a series of length n accruing linearly from 0 to the
// final planned total. With one date or fewer there is no window to accrue
// over, so every value is 0. The planned total is the last element of
// planned, 0 when the series is empty or ends in a missing point.
func IdealSeries(n int, planned []*float64) []float64 {
	if n <= 0 {
		return nil
	}

	series := make([]float64, n)
	if n == 1 {
		return series
	}

	step := lastValue(planned) / float64(n-1)
	for i := range series {
		series[i] = step * float64(i)
	}

	return series
}

// SuggestedCeiling returns the y-axis upper bound for a pair of series: the
// larger of their maxima plus 5% headroom, rounded up to the next multiple
// of 50. Missing points are skipped and negative values contribute nothing.
// A result of 0 means the axis should stay unbounded.
func SuggestedCeiling(planned, earned []*float64) float64 {
	peak := math.Max(maxValue(planned), maxValue(earned))
	if peak <= 0 {
		return 0
	}

	return math.Ceil(peak*headroomFactor/ceilingStep) * ceilingStep
}

// LastPoint returns the final present value of a nullable series.
func LastPoint(series []*float64) (float64, bool) {
	idx := LastIndex(series)
	if idx < 0 {
		return 0, false
	}

	return *series[idx], true
}

// LastIndex returns the index of the final present value, -1 when every
// point is missing.
func LastIndex(series []*float64) int {
	for i := len(series) - 1; i >= 0; i-- {
		if series[i] != nil {
			return i
		}
	}

	return -1
}

// ValueAt returns the latest present value at or before idx. Comparing two
// series at the same index keeps earned-versus-planned readings honest when
// one series extends further into the future than the other.
func ValueAt(series []*float64, idx int) (float64, bool) {
	if idx >= len(series) {
		idx = len(series) - 1
	}

	for i := idx; i >= 0; i-- {
		if series[i] != nil {
			return *series[i], true
		}
	}

	return 0, false
}

func lastValue(series []*float64) float64 {
	if len(series) == 0 {
		return 0
	}

	last := series[len(series)-1]
	if last == nil {
		return 0
	}

	return *last
}

func maxValue(series []*float64) float64 {
	peak := 0.0

	for _, v := range series {
		if v == nil {
			continue
		}

		if *v > peak {
			peak = *v
		}
	}

	return peak
}
