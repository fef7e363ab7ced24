package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestControllerFromRoute(t *testing.T) {
	cases := map[string]string{
		"/admin/regions/:id/countries": "regions",
		"/store/regions":               "regions",
		"/admin/stock-locations/:id":   "stock-locations",
		"/uploads/*key":                "",
		"/health":                      "",
		"":                             "",
	}
	for route, want := range cases {
		assert.Equal(t, want, controllerFromRoute(route), route)
	}
}

func TestProfilingLabels(t *testing.T) {
	var labels []string

	router := gin.New()
	router.GET("/admin/regions/:id", func(c *gin.Context) {
		labels = profilingLabels(c)
		c.Status(http.StatusOK)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/admin/regions/reg_1", nil))

	assert.Equal(t, []string{
		ProfilingLabelSurface, "admin",
		ProfilingLabelMethod, http.MethodGet,
		ProfilingLabelRoute, "/admin/regions/:id",
		ProfilingLabelController, "regions",
	}, labels)
}

func TestProfilingWithConfig(t *testing.T) {
	for _, cfg := range []ProfilingConfig{DefaultProfilingConfig(), {Enabled: false}} {
		router := gin.New()
		router.Use(ProfilingWithConfig(cfg))
		router.GET("/store/regions", func(c *gin.Context) { c.Status(http.StatusOK) })
		router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

		for _, path := range []string{"/store/regions", "/health"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
		}
	}
}
