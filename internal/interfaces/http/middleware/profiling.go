package middleware

import (
	"context"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// Pyroscope label keys
const (
	ProfilingLabelSurface    = "surface"
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
)

// ProfilingConfig holds configuration for the profiling middleware.
type ProfilingConfig struct {
	Enabled   bool
	SkipPaths []string
}

// DefaultProfilingConfig returns default profiling middleware configuration.
func DefaultProfilingConfig() ProfilingConfig {
	return ProfilingConfig{
		Enabled:   true,
		SkipPaths: []string{"/health", "/metrics"},
	}
}

// Profiling returns profiling middleware with default configuration.
func Profiling() gin.HandlerFunc {
	return ProfilingWithConfig(DefaultProfilingConfig())
}

// ProfilingWithConfig tags the profiles of each request with the surface,
// controller, route pattern and method so they can be filtered in Pyroscope.
func ProfilingWithConfig(cfg ProfilingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		if slices.Contains(cfg.SkipPaths, c.Request.URL.Path) {
			c.Next()
			return
		}

		telemetry.WithProfilingLabels(c.Request.Context(), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		}, profilingLabels(c)...)
	}
}

func profilingLabels(c *gin.Context) []string {
	route := c.FullPath()
	labels := []string{
		ProfilingLabelSurface, surfaceOf(c.Request.URL.Path),
		ProfilingLabelMethod, c.Request.Method,
	}
	if route != "" {
		labels = append(labels, ProfilingLabelRoute, route)
	}
	if controller := controllerFromRoute(route); controller != "" {
		labels = append(labels, ProfilingLabelController, controller)
	}
	return labels
}

// controllerFromRoute derives the resource name from a route pattern.
//
//	/admin/regions/:id/countries -> regions
//	/store/regions               -> regions
func controllerFromRoute(route string) string {
	parts := strings.Split(strings.Trim(route, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	if p := parts[1]; !strings.HasPrefix(p, ":") && !strings.HasPrefix(p, "*") {
		return p
	}
	return ""
}
