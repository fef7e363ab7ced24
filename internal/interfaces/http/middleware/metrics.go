package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
)

// Metrics records request count, latency and in-flight requests on the
// Prometheus registry. Series are labelled by API surface and matched route,
// never by raw path.
func Metrics(registry *telemetry.Registry) gin.HandlerFunc {
	if registry == nil {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		done := registry.TrackRequest(surfaceOf(c.Request.URL.Path), c.Request.Method)
		c.Next()
		done(c.FullPath(), c.Writer.Status())
	}
}

// surfaceOf maps a request path onto the API surface it belongs to
func surfaceOf(path string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	switch segment {
	case "admin", "store", "uploads", "app":
		return segment
	default:
		return "system"
	}
}
