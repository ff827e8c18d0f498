package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/prometheus/client_golang/prometheus"
	promdto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"feedback-board-api/internal/metrics"
)

func newTestMetrics() *metrics.Metrics {
	return metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
}

func setupTestRouter(m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Metrics(m, "/api"))
	return router
}

func requestCount(t *testing.T, m *metrics.Metrics, method, route, status string) float64 {
	t.Helper()
	metric := &promdto.Metric{}
	require.NoError(t, m.HTTPRequestsTotal.WithLabelValues(method, route, status).Write(metric))
	return metric.GetCounter().GetValue()
}

// 임의의 상태 코드에 대해 요청마다 카운터가 정확히 1 증가한다
func TestProperty_HTTPRequestMetricsIncrement(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("each request increments its status class once", prop.ForAll(
		func(statusCode int) bool {
			m := newTestMetrics()
			router := setupTestRouter(m)
			router.GET("/api/boards/:slug", func(c *gin.Context) {
				c.Status(statusCode)
			})

			for i := 0; i < 2; i++ {
				w := httptest.NewRecorder()
				router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/boards/acme", nil))
				if w.Code != statusCode {
					return false
				}
			}

			class := map[int]string{2: "2xx", 3: "3xx", 4: "4xx", 5: "5xx"}[statusCode/100]
			return requestCount(t, m, http.MethodGet, "/api/boards/:slug", class) == 2
		},
		gen.IntRange(200, 599),
	))

	properties.TestingRun(t)
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	m := newTestMetrics()
	router := setupTestRouter(m)
	router.PATCH("/api/requests/:id", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/requests/"+id, nil))
		require.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, float64(3), requestCount(t, m, http.MethodPatch, "/api/requests/:id", "2xx"))
}

func TestMetricsMiddleware_ExcludedEndpoints(t *testing.T) {
	m := newTestMetrics()
	router := setupTestRouter(m)

	excludedPaths := []string{"/metrics", "/health", "/api/metrics", "/api/health", "/api/ready"}
	for _, path := range excludedPaths {
		router.GET(path, func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
	}

	for _, path := range excludedPaths {
		t.Run(path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Zero(t, requestCount(t, m, http.MethodGet, path, "2xx"))
		})
	}
}

func TestMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	m := newTestMetrics()
	router := setupTestRouter(m)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope/123", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, float64(1), requestCount(t, m, http.MethodGet, unmatchedRoute, "4xx"))
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery(zap.NewNop()))
	router.GET("/boom", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INTERNAL_ERROR"`)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestCORS(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:3000"}))
	router.GET("/api/boards/:slug", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"성공: 허용된 Origin", http.MethodGet, "http://localhost:3000", http.StatusOK, "http://localhost:3000"},
		{"성공: 허용된 Origin preflight", http.MethodOptions, "http://localhost:3000", http.StatusNoContent, "http://localhost:3000"},
		{"실패: 허용되지 않은 Origin", http.MethodGet, "https://evil.example", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/boards/acme", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
