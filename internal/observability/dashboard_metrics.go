package observability

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRendersTotal      = "sprintfang.renders.total"
	metricRenderDuration    = "sprintfang.render.duration.seconds"
	metricMissingSelections = "sprintfang.selections.missing.total"
	metricFetchesTotal      = "sprintfang.dataset.fetches.total"
	metricFetchDuration     = "sprintfang.dataset.fetch.duration.seconds"
	metricDatasetRecords    = "sprintfang.dataset.records"

	attrView   = "view"
	attrSource = "source"
)

// fetchBucketBoundaries covers 1ms local reads to 30s remote fetches.
var fetchBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30}

// renderBucketBoundaries covers 1ms to 1s chart builds.
var renderBucketBoundaries = []float64{0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// DashboardMetrics holds OTel instruments for dashboard-specific metrics:
// chart renders, selections that resolved to no data, and document fetches.
type DashboardMetrics struct {
	rendersTotal      metric.Int64Counter
	renderDuration    metric.Float64Histogram
	missingSelections metric.Int64Counter
	fetchesTotal      metric.Int64Counter
	fetchDuration     metric.Float64Histogram

	// recordCount is reported through an observable gauge on each
	// collection cycle; it holds the size of the last loaded document.
	recordCount atomic.Int64
}

// NewDashboardMetrics creates dashboard metric instruments from the given meter.
func NewDashboardMetrics(mt metric.Meter) (*DashboardMetrics, error) {
	b := newMetricBuilder(mt)

	dm := &DashboardMetrics{
		rendersTotal:      b.counter(metricRendersTotal, "Total chart renders by view and status", "{render}"),
		renderDuration:    b.histogram(metricRenderDuration, "Chart render duration in seconds", "s", renderBucketBoundaries...),
		missingSelections: b.counter(metricMissingSelections, "Selections that resolved to no chart data", "{selection}"),
		fetchesTotal:      b.counter(metricFetchesTotal, "Total metrics document fetches", "{fetch}"),
		fetchDuration:     b.histogram(metricFetchDuration, "Metrics document fetch duration in seconds", "s", fetchBucketBoundaries...),
	}

	records := b.gauge(metricDatasetRecords, "Sprint records in the last loaded document", "{record}")

	if b.err != nil {
		return nil, b.err
	}

	_, err := mt.RegisterCallback(func(_ context.Context, obs metric.Observer) error {
		obs.ObserveInt64(records, dm.recordCount.Load())

		return nil
	}, records)
	if err != nil {
		return nil, fmt.Errorf("register %s callback: %w", metricDatasetRecords, err)
	}

	return dm, nil
}

// RecordRender records a completed chart render for the given view and status.
// Safe to call on a nil receiver (no-op).
func (dm *DashboardMetrics) RecordRender(ctx context.Context, view, status string, duration time.Duration) {
	if dm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrView, view),
		attribute.String(attrStatus, status),
	)

	dm.rendersTotal.Add(ctx, 1, attrs)
	dm.renderDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordMissingSelection records a selection that resolved to no chart data.
// Safe to call on a nil receiver (no-op).
func (dm *DashboardMetrics) RecordMissingSelection(ctx context.Context, view string) {
	if dm == nil {
		return
	}

	dm.missingSelections.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrView, view),
	))
}

// RecordFetch records a metrics document fetch with its source kind
// ("file" or "http"), status, and duration.
// Safe to call on a nil receiver (no-op).
func (dm *DashboardMetrics) RecordFetch(ctx context.Context, source, status string, duration time.Duration) {
	if dm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrSource, source),
		attribute.String(attrStatus, status),
	)

	dm.fetchesTotal.Add(ctx, 1, attrs)
	dm.fetchDuration.Record(ctx, duration.Seconds(), attrs)
}

// SetRecordCount updates the record count reported by the dataset gauge.
// Safe to call on a nil receiver (no-op).
func (dm *DashboardMetrics) SetRecordCount(n int) {
	if dm == nil {
		return
	}

	dm.recordCount.Store(int64(n))
}
