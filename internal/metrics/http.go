package metrics

import (
	"strings"
	"time"
)

// RecordHTTPRequest records one request under its route pattern
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	m.safeExecute("RecordHTTPRequest", func() {
		m.HTTPRequestsTotal.WithLabelValues(method, endpoint, categorizeStatus(statusCode)).Inc()
		m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	})
}

// categorizeStatus folds a status code into its class: 2xx, 3xx, 4xx or 5xx
func categorizeStatus(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return string(rune('0'+code/100)) + "xx"
}

// ShouldSkipEndpoint reports whether a route pattern is an operational
// endpoint that stays out of the request metrics
func ShouldSkipEndpoint(route string) bool {
	switch route {
	case "/metrics", "/health", "/ready":
		return true
	}
	return strings.HasPrefix(route, "/swagger/")
}
