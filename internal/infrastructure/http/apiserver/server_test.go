package apiserver

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/alchemorsel/nutrimatch/internal/application/matching"
	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/config"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/monitoring"
	"github.com/alchemorsel/nutrimatch/internal/ports/inbound"
	"github.com/alchemorsel/nutrimatch/pkg/healthcheck"
	"github.com/alchemorsel/nutrimatch/test/testutils"
)

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "nutrimatch", Environment: "development"},
		Server: config.ServerConfig{
			Host:           "127.0.0.1",
			Port:           8080,
			RequestTimeout: 5 * time.Second,
		},
		Monitoring: config.MonitoringConfig{
			EnableMetrics:   true,
			HealthCheckPath: "/health",
			ReadinessPath:   "/ready",
			MetricsPath:     "/metrics",
		},
		RateLimit: config.RateLimitConfig{Enable: true, RequestsPerMin: 600, BurstSize: 50},
	}
}

func newTestServer(t *testing.T, provider *testutils.StubProvider) *Server {
	t.Helper()
	cfg := testConfig()
	logger := zap.NewNop()
	metrics := monitoring.NewMetricsCollector(logger)

	service := matching.NewService(provider, nutrition.DefaultRules(), metrics,
		noop.NewTracerProvider().Tracer("test"), matching.Config{}, logger)

	health := healthcheck.New("test", logger)
	health.Register("provider", healthcheck.NewCircuitChecker(func() string { return healthcheck.CircuitClosed }))

	return NewServer(cfg, logger, handlers.NewAPIHandlers(service, logger), middleware.New(cfg, logger), health, metrics)
}

func TestServer_SearchRecipeRanksAgainstProfile(t *testing.T) {
	recipes := testutils.NewRecipeFactory(7).SearchResult(3)
	provider := &testutils.StubProvider{Results: recipes}
	srv := newTestServer(t, provider)
	assertions := testutils.NewHTTPAssertions(t)

	body := inbound.SearchRecipesRequest{
		SearchTerm:       "bowl",
		NutritionProfile: testutils.NewProfileFactory(3).ProfileInput(nil, nil),
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, testutils.NewJSONRequest(t, http.MethodPost, "/searchRecipe", body))

	assertions.StatusCode(rec, http.StatusOK)
	assertions.HasHeader(rec, middleware.RequestIDHeader)

	var results []inbound.RecipeSummary
	assertions.JSONResponse(rec, &results)
	require.Len(t, results, 3)
	for i, r := range results {
		require.NotNil(t, r.OverallMatchPercentage)
		if i > 0 {
			assert.GreaterOrEqual(t, *results[i-1].OverallMatchPercentage, *r.OverallMatchPercentage)
		}
	}

	require.Len(t, provider.Searches, 1, "strict tier returned results")
	assert.True(t, provider.Searches[0].AddRecipeNutrition)
	assert.NotNil(t, provider.Searches[0].Calories)
}

func TestServer_SearchRecipeRequiresJSON(t *testing.T) {
	srv := newTestServer(t, &testutils.StubProvider{})

	req := httptest.NewRequest(http.MethodPost, "/searchRecipe", nil)
	req.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_OperationalEndpoints(t *testing.T) {
	srv := newTestServer(t, &testutils.StubProvider{})

	for path, want := range map[string]int{
		"/health":       http.StatusOK,
		"/ready":        http.StatusOK,
		"/live":         http.StatusOK,
		"/metrics":      http.StatusOK,
		"/openapi.yaml": http.StatusOK,
		"/nope":         http.StatusNotFound,
	} {
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rec.Code, path)
	}
}

func TestServer_Address(t *testing.T) {
	srv := newTestServer(t, &testutils.StubProvider{})

	assert.Equal(t, "127.0.0.1:8080", srv.Server().Addr)
}
