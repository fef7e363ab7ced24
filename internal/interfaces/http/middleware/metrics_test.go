package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	registry := telemetry.NewRegistry()

	router := gin.New()
	router.Use(Metrics(registry))
	router.GET("/admin/regions/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/admin/regions/reg_1", "/admin/regions/reg_2", "/nowhere"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	expected := `
# HELP storefront_http_requests_total HTTP requests by surface, route, method and status.
# TYPE storefront_http_requests_total counter
storefront_http_requests_total{method="GET",route="/admin/regions/:id",status="200",surface="admin"} 2
storefront_http_requests_total{method="GET",route="unmatched",status="404",surface="system"} 1
`
	err := testutil.GatherAndCompare(registry.Gatherer(), strings.NewReader(expected), "storefront_http_requests_total")
	require.NoError(t, err)
}

func TestMetrics_NilRegistry(t *testing.T) {
	router := gin.New()
	router.Use(Metrics(nil))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSurfaceOf(t *testing.T) {
	cases := map[string]string{
		"/admin/regions":          "admin",
		"/store/regions/reg_1":    "store",
		"/uploads/private/a.png":  "uploads",
		"/app/settings":           "app",
		"/health":                 "system",
		"/":                       "system",
		"/administrator/whatever": "system",
	}
	for path, want := range cases {
		assert.Equal(t, want, surfaceOf(path), path)
	}
}
