package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// PrometheusBridge exposes OTel instruments through a Prometheus scrape
// endpoint. Instruments must be created from the bridge's meter; the
// exporter reads them on each scrape. Each bridge owns an independent
// Prometheus registry to avoid collector conflicts.
type PrometheusBridge struct {
	handler  http.Handler
	provider *sdkmetric.MeterProvider
}

// NewPrometheusBridge creates a Prometheus exporter attached to a dedicated
// MeterProvider and returns the bridge serving the /metrics scrape endpoint.
func NewPrometheusBridge() (*PrometheusBridge, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))

	return &PrometheusBridge{
		handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		provider: provider,
	}, nil
}

// Handler returns the [http.Handler] serving the scrape endpoint.
func (pb *PrometheusBridge) Handler() http.Handler {
	return pb.handler
}

// Meter returns the named meter backing the scrape endpoint.
func (pb *PrometheusBridge) Meter() metric.Meter {
	return pb.provider.Meter(meterName)
}

// Shutdown flushes the provider and releases the exporter.
func (pb *PrometheusBridge) Shutdown(ctx context.Context) error {
	err := pb.provider.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown prometheus bridge: %w", err)
	}

	return nil
}
