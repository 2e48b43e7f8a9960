package burnup_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sprintfang/internal/burnup"
)

func ptr(v float64) *float64 { return &v }

func TestIdealSeries_LinearToFinalPlanned(t *testing.T) {
	t.Parallel()

	planned := []*float64{ptr(20), ptr(40), ptr(60), ptr(80), ptr(100)}

	got := burnup.IdealSeries(5, planned)
	require.Equal(t, []float64{0, 25, 50, 75, 100}, got)
}

func TestIdealSeries_SingleDate(t *testing.T) {
	t.Parallel()

	got := burnup.IdealSeries(1, []*float64{ptr(100)})
	require.Equal(t, []float64{0}, got)
}

func TestIdealSeries_NoDates(t *testing.T) {
	t.Parallel()

	require.Empty(t, burnup.IdealSeries(0, nil))
}

func TestIdealSeries_EmptyPlanned(t *testing.T) {
	t.Parallel()

	got := burnup.IdealSeries(3, nil)
	require.Equal(t, []float64{0, 0, 0}, got)
}

func TestIdealSeries_MissingFinalPlanned(t *testing.T) {
	t.Parallel()

	got := burnup.IdealSeries(3, []*float64{ptr(10), ptr(20), nil})
	require.Equal(t, []float64{0, 0, 0}, got)
}

func TestSuggestedCeiling_RoundsUpWithHeadroom(t *testing.T) {
	t.Parallel()

	planned := []*float64{ptr(40), ptr(80), ptr(120)}
	earned := []*float64{ptr(30), ptr(95)}

	// Peak 120, with headroom 126, next multiple of 50 is 150.
	got := burnup.SuggestedCeiling(planned, earned)
	require.InDelta(t, 150, got, 0.001)
}

func TestSuggestedCeiling_EarnedAbovePlanned(t *testing.T) {
	t.Parallel()

	planned := []*float64{ptr(100)}
	earned := []*float64{ptr(190)}

	// Peak 190, with headroom 199.5, rounds up to 200.
	got := burnup.SuggestedCeiling(planned, earned)
	require.InDelta(t, 200, got, 0.001)
}

func TestSuggestedCeiling_SkipsMissingPoints(t *testing.T) {
	t.Parallel()

	planned := []*float64{nil, ptr(60), nil}

	got := burnup.SuggestedCeiling(planned, nil)
	require.InDelta(t, 100, got, 0.001)
}

func TestSuggestedCeiling_ClampsNegatives(t *testing.T) {
	t.Parallel()

	planned := []*float64{ptr(-500)}

	require.Zero(t, burnup.SuggestedCeiling(planned, nil))
}

func TestSuggestedCeiling_AllMissing(t *testing.T) {
	t.Parallel()

	require.Zero(t, burnup.SuggestedCeiling([]*float64{nil, nil}, nil))
}

func TestLastPoint_SkipsTrailingMissing(t *testing.T) {
	t.Parallel()

	got, ok := burnup.LastPoint([]*float64{ptr(10), ptr(25), nil, nil})
	require.True(t, ok)
	require.InDelta(t, 25, got, 0.001)
}

func TestLastPoint_AllMissing(t *testing.T) {
	t.Parallel()

	_, ok := burnup.LastPoint([]*float64{nil, nil})
	require.False(t, ok)

	_, ok = burnup.LastPoint(nil)
	require.False(t, ok)
}

func TestLastIndex(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, burnup.LastIndex([]*float64{ptr(10), ptr(25), nil}))
	require.Equal(t, -1, burnup.LastIndex([]*float64{nil}))
	require.Equal(t, -1, burnup.LastIndex(nil))
}

func TestValueAt_WalksBackToPresentPoint(t *testing.T) {
	t.Parallel()

	series := []*float64{ptr(10), nil, ptr(30), nil}

	got, ok := burnup.ValueAt(series, 3)
	require.True(t, ok)
	require.InDelta(t, 30, got, 0.001)

	got, ok = burnup.ValueAt(series, 1)
	require.True(t, ok)
	require.InDelta(t, 10, got, 0.001)
}

func TestValueAt_IndexPastEnd(t *testing.T) {
	t.Parallel()

	got, ok := burnup.ValueAt([]*float64{ptr(10)}, 5)
	require.True(t, ok)
	require.InDelta(t, 10, got, 0.001)

	_, ok = burnup.ValueAt(nil, 0)
	require.False(t, ok)
}
