package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"feedback-board-api/internal/metrics"
)

// unmatchedRoute labels requests no route matched, keeping label cardinality bounded
const unmatchedRoute = "unmatched"

// Metrics returns a middleware that records HTTP metrics. Ops endpoints are
// skipped both at the root and under basePath.
func Metrics(m *metrics.Metrics, basePath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if metrics.ShouldSkipEndpoint(route) || metrics.ShouldSkipEndpoint(strings.TrimPrefix(route, basePath)) {
			c.Next()
			return
		}

		start := time.Now()

		c.Next()

		if route == "" {
			route = unmatchedRoute
		}
		m.RecordHTTPRequest(
			c.Request.Method,
			route,
			c.Writer.Status(),
			time.Since(start),
		)
	}
}
