package observability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sprintfang/internal/observability"
)

func TestPrometheusBridge_ServesMetrics(t *testing.T) {
	t.Parallel()

	bridge, err := observability.NewPrometheusBridge()
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, bridge.Shutdown(context.Background())) })

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()

	bridge.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// Prometheus exposition format uses text/plain with version parameter.
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestPrometheusBridge_ContainsTargetInfo(t *testing.T) {
	t.Parallel()

	bridge, err := observability.NewPrometheusBridge()
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, bridge.Shutdown(context.Background())) })

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()

	bridge.Handler().ServeHTTP(rec, req)

	// The OTel Prometheus exporter includes target_info with SDK metadata.
	body := rec.Body.String()
	assert.Contains(t, body, "target_info")
}

func TestPrometheusBridge_ExposesRecordedInstruments(t *testing.T) {
	t.Parallel()

	bridge, err := observability.NewPrometheusBridge()
	require.NoError(t, err)

	t.Cleanup(func() { require.NoError(t, bridge.Shutdown(context.Background())) })

	// Instruments created from the bridge meter must appear in scrape output.
	red, err := observability.NewREDMetrics(bridge.Meter())
	require.NoError(t, err)

	red.RecordRequest(context.Background(), "dashboard", "ok", 0)

	req := httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody)
	rec := httptest.NewRecorder()

	bridge.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "sprintfang_requests_total")
}
