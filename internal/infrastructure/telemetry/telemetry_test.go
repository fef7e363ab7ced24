package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDisabledProviders(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	tp, err := NewTracerProvider(ctx, Config{}, log)
	require.NoError(t, err)
	assert.False(t, tp.IsEnabled())
	tp.EnableSpanProfiles()
	assert.NotNil(t, tp.Tracer("test"))
	assert.NoError(t, tp.Shutdown(ctx))

	mp, err := NewMeterProvider(ctx, Config{}, 0, log)
	require.NoError(t, err)
	assert.NotNil(t, mp.Meter("test"))
	assert.NoError(t, mp.Shutdown(ctx))

	lp, err := NewLoggerProvider(ctx, Config{})
	require.NoError(t, err)
	assert.Nil(t, lp.Core())
	assert.NoError(t, lp.Shutdown(ctx, log))

	p, err := NewProfiler(ProfilerConfig{}, log)
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())
}

func TestNewProfiler_RequiresAddress(t *testing.T) {
	_, err := NewProfiler(ProfilerConfig{Enabled: true}, zap.NewNop())
	assert.Error(t, err)
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestRegistry_TrackRequest(t *testing.T) {
	r := NewRegistry()

	done := r.TrackRequest("admin", http.MethodGet)
	assert.Equal(t, float64(1), testutil.ToFloat64(r.requestsInFlight))
	done("/admin/regions/:id", http.StatusOK)
	r.TrackRequest("store", http.MethodGet)("", http.StatusNotFound)

	assert.Equal(t, float64(0), testutil.ToFloat64(r.requestsInFlight))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.requestsTotal.WithLabelValues("admin", "/admin/regions/:id", "GET", "200")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.requestsTotal.WithLabelValues("store", "unmatched", "GET", "404")))

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestDomainEvents(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	events, err := NewDomainEvents(mp.Meter("test"))
	require.NoError(t, err)
	events.Record(context.Background(), "region", "created")
	events.Record(context.Background(), "region", "created")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	require.Len(t, rm.ScopeMetrics, 1)
	sum, ok := rm.ScopeMetrics[0].Metrics[0].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(2), sum.DataPoints[0].Value)
}

func TestStartServiceSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	restore := swapTracerProvider(t, tp)
	defer restore()

	_, span := StartServiceSpan(context.Background(), "region", "create", "region.name", "Europe", "countries", 3)
	RecordError(span, assert.AnError)
	span.End()

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "region.create", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("region.name", "Europe"))
	assert.Contains(t, spans[0].Attributes(), attribute.Int("countries", 3))
	assert.Equal(t, "Error", spans[0].Status().Code.String())
}

func TestRegisterDBTracing(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{}, zap.NewNop()))

	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	restore := swapTracerProvider(t, tp)
	defer restore()

	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{
		Enabled:         true,
		SlowQueryThresh: time.Nanosecond,
		DBName:          "sqlite",
	}, zap.NewNop()))

	require.NoError(t, db.Exec("CREATE TABLE regions (id TEXT PRIMARY KEY)").Error)
	var count int64
	require.NoError(t, db.Table("regions").Count(&count).Error)

	assert.NotEmpty(t, recorder.Ended())
}
