package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-dashboard-builder/components/dashboard"
)

func TestPrometheusTelemetryCountsServiceEvents(t *testing.T) {
	telemetry, err := NewPrometheusTelemetry(nil)
	require.NoError(t, err)

	service := dashboard.NewService(dashboard.Options{Telemetry: telemetry, RefreshHook: telemetry})
	ctx := context.Background()
	require.NoError(t, service.SwitchLayout(ctx, "training"))
	require.NoError(t, service.SwitchLayout(ctx, "overview"))

	assert.Equal(t, 2.0, testutil.ToFloat64(telemetry.events.WithLabelValues("dashboard.layout.switch")))
	assert.Equal(t, 2.0, testutil.ToFloat64(telemetry.widgets.WithLabelValues("switch")))

	rec := httptest.NewRecorder()
	telemetry.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "dashboard_events_total")
}

func TestNewPrometheusTelemetryRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusTelemetry(reg)
	require.NoError(t, err)
	_, err = NewPrometheusTelemetry(reg)
	assert.Error(t, err)
}
