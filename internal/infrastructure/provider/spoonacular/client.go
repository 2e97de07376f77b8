// Package spoonacular implements the recipe provider port against the
// Spoonacular HTTP API
package spoonacular

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
	"github.com/alchemorsel/nutrimatch/pkg/errors"
)

// ServiceName labels errors, metrics and the circuit breaker
const ServiceName = "spoonacular"

// maxErrorPayload bounds how much of a failed response body is kept
const maxErrorPayload = 2048

// Config configures the client
type Config struct {
	BaseURL           string
	APIKey            string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int

	BreakerMaxRequests  uint32
	BreakerInterval     time.Duration
	BreakerTimeout      time.Duration
	BreakerFailureRatio float64
	BreakerMinRequests  uint32
}

// Client implements outbound.RecipeProvider
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
	metrics outbound.MatchMetrics
	logger  *zap.Logger
}

var _ outbound.RecipeProvider = (*Client)(nil)

// statusError is a non-2xx provider response
type statusError struct {
	status  int
	payload string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("provider returned status %d", e.status)
}

// NewClient creates a new Spoonacular client
func NewClient(cfg Config, metrics outbound.MatchMetrics, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	named := logger.Named("spoonacular")

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        ServiceName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return cfg.BreakerFailureRatio > 0 && ratio >= cfg.BreakerFailureRatio
		},
		// client errors say nothing about provider health
		IsSuccessful: func(err error) bool {
			var se *statusError
			if stderrors.As(err, &se) {
				return se.status < http.StatusInternalServerError && se.status != http.StatusTooManyRequests
			}
			return err == nil
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			named.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter: rate.NewLimiter(limit, cfg.Burst),
		breaker: breaker,
		metrics: metrics,
		logger:  named,
	}
}

// BreakerState reports the circuit breaker state for health checks
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}

// Search implements outbound.RecipeProvider
func (c *Client) Search(ctx context.Context, params nutrition.SearchParams) (*outbound.SearchResult, error) {
	var resp searchResponse
	if err := c.get(ctx, "search", "/recipes/complexSearch", searchQuery(params), &resp); err != nil {
		return nil, err
	}
	return resp.toResult(), nil
}

// Information implements outbound.RecipeProvider
func (c *Client) Information(ctx context.Context, id int) (*outbound.RecipeInformation, error) {
	var info outbound.RecipeInformation
	path := fmt.Sprintf("/recipes/%d/information", id)
	if err := c.get(ctx, "information", path, url.Values{"includeNutrition": {"false"}}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// NutritionWidget implements outbound.RecipeProvider
func (c *Client) NutritionWidget(ctx context.Context, id int) (*outbound.NutritionWidget, error) {
	var widget outbound.NutritionWidget
	path := fmt.Sprintf("/recipes/%d/nutritionWidget.json", id)
	if err := c.get(ctx, "nutrition_widget", path, nil, &widget); err != nil {
		return nil, err
	}
	return &widget, nil
}

// IngredientWidget implements outbound.RecipeProvider
func (c *Client) IngredientWidget(ctx context.Context, id int) (*outbound.IngredientWidget, error) {
	var widget ingredientWidgetResponse
	path := fmt.Sprintf("/recipes/%d/ingredientWidget.json", id)
	if err := c.get(ctx, "ingredient_widget", path, nil, &widget); err != nil {
		return nil, err
	}
	return widget.toWidget(), nil
}

// AnalyzedInstructions implements outbound.RecipeProvider
func (c *Client) AnalyzedInstructions(ctx context.Context, id int) ([]outbound.InstructionSet, error) {
	var sets []outbound.InstructionSet
	path := fmt.Sprintf("/recipes/%d/analyzedInstructions", id)
	if err := c.get(ctx, "analyzed_instructions", path, nil, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// get performs one rate-limited, breaker-guarded GET and decodes the JSON body
func (c *Client) get(ctx context.Context, operation, path string, query url.Values, out interface{}) error {
	start := time.Now()

	if err := c.limiter.Wait(ctx); err != nil {
		c.metrics.RecordProviderCall(operation, "rate_limited", time.Since(start))
		return errors.NewUpstreamError(ServiceName, 0, "", err)
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.do(ctx, endpoint)
	})

	if err != nil {
		c.metrics.RecordProviderCall(operation, callStatus(err), time.Since(start))
		c.logger.Warn("Provider request failed",
			zap.String("operation", operation),
			zap.String("path", path),
			zap.Error(err),
		)
		return toUpstreamError(err)
	}
	c.metrics.RecordProviderCall(operation, "ok", time.Since(start))

	if err := json.Unmarshal(body, out); err != nil {
		return errors.NewUpstreamError(ServiceName, http.StatusOK, truncate(string(body)), fmt.Errorf("decode %s response: %w", operation, err))
	}
	return nil
}

func (c *Client) do(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &statusError{status: resp.StatusCode, payload: truncate(string(body))}
	}
	return body, nil
}

func toUpstreamError(err error) error {
	var se *statusError
	if stderrors.As(err, &se) {
		return errors.NewUpstreamError(ServiceName, se.status, se.payload, err)
	}
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.NewUpstreamError(ServiceName, http.StatusServiceUnavailable, "circuit breaker open", err)
	}
	return errors.NewUpstreamError(ServiceName, 0, "", err)
}

func callStatus(err error) string {
	var se *statusError
	switch {
	case stderrors.As(err, &se):
		return strconv.Itoa(se.status)
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		return "rejected"
	default:
		return "error"
	}
}

func truncate(s string) string {
	if len(s) <= maxErrorPayload {
		return s
	}
	return s[:maxErrorPayload]
}

// searchQuery maps search parameters onto complexSearch query arguments
func searchQuery(p nutrition.SearchParams) url.Values {
	q := url.Values{}
	q.Set("query", p.Query)
	if p.Cuisine != "" {
		q.Set("cuisine", p.Cuisine)
	}
	if p.Diet != "" {
		q.Set("diet", p.Diet)
	}
	if len(p.Intolerances) > 0 {
		q.Set("intolerances", strings.Join(p.Intolerances, ","))
	}
	if p.Number > 0 {
		q.Set("number", strconv.Itoa(p.Number))
	}
	if p.AddRecipeNutrition {
		q.Set("addRecipeNutrition", "true")
		q.Set("fillIngredients", "true")
	}

	setBounds(q, "Calories", p.Calories)
	setBounds(q, "Protein", p.Protein)
	setBounds(q, "Carbs", p.Carbs)
	setBounds(q, "Fat", p.Fat)
	return q
}

func setBounds(q url.Values, name string, b *nutrition.Bounds) {
	if b == nil {
		return
	}
	if b.Min != nil {
		q.Set("min"+name, strconv.FormatFloat(*b.Min, 'f', -1, 64))
	}
	if b.Max != nil {
		q.Set("max"+name, strconv.FormatFloat(*b.Max, 'f', -1, 64))
	}
}
