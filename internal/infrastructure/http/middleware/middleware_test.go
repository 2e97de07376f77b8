package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/alchemorsel/nutrimatch/internal/infrastructure/config"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Environment: "development"},
		Server: config.ServerConfig{
			EnableCORS:     true,
			AllowedOrigins: []string{"https://app.example"},
		},
		Monitoring: config.MonitoringConfig{
			HealthCheckPath: "/health",
			ReadinessPath:   "/ready",
		},
		RateLimit: config.RateLimitConfig{
			Enable:          true,
			RequestsPerMin:  60,
			BurstSize:       2,
			CleanupInterval: time.Minute,
		},
	}
}

var ok = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequestID(t *testing.T) {
	m := New(testConfig(), zap.NewNop())

	var seen string
	h := m.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	t.Run("generates", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
	})

	t.Run("propagates incoming", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
	})
}

func TestLogger_SkipsHealthAndLogsByStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := New(testConfig(), zap.New(core))

	failing := m.Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	failing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, 0, logs.Len())

	failing.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/searchRecipe", nil))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.ErrorLevel, entry.Level)
	assert.Equal(t, int64(http.StatusBadGateway), entry.ContextMap()["status"])
}

func TestRateLimit(t *testing.T) {
	m := New(testConfig(), zap.NewNop())
	h := m.RateLimit(ok)

	do := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do("10.0.0.1").Code)

	limited := do("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "60", limited.Header().Get("Retry-After"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(limited.Body.Bytes(), &body))
	assert.Equal(t, "Rate limit exceeded", body["error"])

	assert.Equal(t, http.StatusOK, do("10.0.0.2").Code, "buckets are per client")
}

func TestRateLimit_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.Enable = false
	m := New(cfg, zap.NewNop())
	h := m.RateLimit(ok)

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClientLimiter_Evict(t *testing.T) {
	l := newClientLimiter(1, 1)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.allow("a")
	now = now.Add(10 * time.Minute)
	l.allow("b")

	assert.Equal(t, 1, l.evict(5*time.Minute))
	assert.Len(t, l.clients, 1)
	assert.Contains(t, l.clients, "b")
}

func TestStartLimiterCleanup_StopsOnCancel(t *testing.T) {
	m := New(testConfig(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		m.StartLimiterCleanup(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup loop did not stop")
	}
}

func TestCORS(t *testing.T) {
	m := New(testConfig(), zap.NewNop())
	h := m.CORS(ok)

	req := httptest.NewRequest(http.MethodOptions, "/searchRecipe", nil)
	req.Header.Set("Origin", "https://app.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	cfg := testConfig()
	cfg.App.Environment = "production"
	m := New(cfg, zap.NewNop())

	rec := httptest.NewRecorder()
	m.Security(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestJSONOnly(t *testing.T) {
	m := New(testConfig(), zap.NewNop())
	h := m.JSONOnly(ok)

	req := httptest.NewRequest(http.MethodPost, "/searchRecipe", strings.NewReader("searchTerm=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/searchRecipe", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/recipes/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
