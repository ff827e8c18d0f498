package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"feedback-board-api/internal/cache"
	"feedback-board-api/internal/client"
	"feedback-board-api/internal/database/dbtest"
	"feedback-board-api/internal/fanout"
	"feedback-board-api/internal/metrics"
	"feedback-board-api/internal/realtime"
)

const testSecret = "router-test-secret"

type testServer struct {
	router   *gin.Engine
	db       *gorm.DB
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	views    *cache.Views
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := dbtest.New(t)
	logger := zap.NewNop()
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, logger)

	store, err := cache.NewMemoryStore(cache.MemoryConfig{
		Capacity:           1000,
		NumShards:          4,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	})
	require.NoError(t, err)
	views := cache.NewViews(store, m, logger)

	hub := realtime.NewHub(m, logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	r := Setup(Config{
		DB:             db,
		Logger:         logger,
		Metrics:        m,
		Gatherer:       registry,
		BasePath:       "/api",
		AllowedOrigins: []string{"http://localhost:3000"},
		Sessions:       client.NewJWTSessionVerifier(testSecret, ""),
		Views:          views,
		Fanout:         fanout.New(views, hub, logger, time.Second),
		Hub:            hub,
	})

	return &testServer{router: r, db: db, registry: registry, metrics: m, views: views}
}

func sessionToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, client.SessionClaims{
		Email: userID + "@example.com",
		Name:  userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newJSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (s *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// do sends a JSON request as userID; an empty userID sends no credentials
func (s *testServer) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	req := newJSONRequest(t, method, path, body)
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+sessionToken(t, userID))
	}
	return s.serve(req)
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// mustStatus decodes the body after checking the status code
func mustStatus[T any](t *testing.T, w *httptest.ResponseRecorder, status int) T {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	return decode[T](t, w).Data
}
