// Package middleware provides HTTP middleware components
// following the Chain of Responsibility pattern
package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/alchemorsel/nutrimatch/internal/infrastructure/config"
	"github.com/alchemorsel/nutrimatch/pkg/errors"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-ID"

type contextKey struct{}

var requestIDKey = contextKey{}

// Middleware provides all middleware functions
type Middleware struct {
	config  *config.Config
	logger  *zap.Logger
	limiter *clientLimiter
}

// New creates a new middleware instance
func New(cfg *config.Config, logger *zap.Logger) *Middleware {
	return &Middleware{
		config: cfg,
		logger: logger.Named("http"),
		limiter: newClientLimiter(
			rate.Limit(float64(cfg.RateLimit.RequestsPerMin)/60),
			cfg.RateLimit.BurstSize,
		),
	}
}

// RequestID adds a unique request ID to the context and response headers.
// An incoming X-Request-ID is reused.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the request id stored by RequestID, or ""
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Logger provides structured logging for requests
func (m *Middleware) Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := r.URL.Path
		if path == m.config.Monitoring.HealthCheckPath || path == m.config.Monitoring.ReadinessPath {
			return
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		fields := []zap.Field{
			zap.String("request_id", GetRequestID(r.Context())),
			zap.String("method", r.Method),
			zap.String("path", path),
			zap.String("ip", clientIP(r)),
			zap.Int("status", status),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("latency", time.Since(start)),
			zap.String("user_agent", r.UserAgent()),
		}

		switch {
		case status >= 500:
			m.logger.Error("Server error", fields...)
		case status >= 400:
			m.logger.Warn("Client error", fields...)
		default:
			m.logger.Info("Request completed", fields...)
		}
	})
}

// RateLimit applies a token bucket per client IP
func (m *Middleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.config.RateLimit.Enable {
			next.ServeHTTP(w, r)
			return
		}

		if !m.limiter.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			m.writeError(w, r, errors.NewAppError(errors.CodeTooManyRequests, "Rate limit exceeded", ""))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// StartLimiterCleanup evicts idle per-client limiters until ctx is done
func (m *Middleware) StartLimiterCleanup(ctx context.Context) {
	interval := m.config.RateLimit.CleanupInterval
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.limiter.evict(interval); n > 0 {
				m.logger.Debug("Evicted idle rate limiters", zap.Int("count", n))
			}
		}
	}
}

// Security adds security headers
func (m *Middleware) Security(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		if m.config.IsProduction() {
			w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		}

		next.ServeHTTP(w, r)
	})
}

// CORS handles Cross-Origin Resource Sharing
func (m *Middleware) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.config.Server.EnableCORS {
			next.ServeHTTP(w, r)
			return
		}

		origin := r.Header.Get("Origin")
		if origin != "" && m.isOriginAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+RequestIDHeader)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Max-Age", "86400")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// JSONOnly rejects request bodies that are not declared as JSON
func (m *Middleware) JSONOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			if !strings.Contains(r.Header.Get("Content-Type"), "application/json") {
				m.writeError(w, r, errors.NewBadRequestError("Content-Type must be application/json"))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) isOriginAllowed(origin string) bool {
	for _, allowed := range m.config.Server.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func (m *Middleware) writeError(w http.ResponseWriter, r *http.Request, appErr *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(appErr.StatusCode())
	if err := json.NewEncoder(w).Encode(errors.ToErrorResponse(appErr, GetRequestID(r.Context()))); err != nil {
		m.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client key
type clientLimiter struct {
	mu      sync.Mutex
	clients map[string]*limiterEntry
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

func newClientLimiter(limit rate.Limit, burst int) *clientLimiter {
	return &clientLimiter{
		clients: make(map[string]*limiterEntry),
		limit:   limit,
		burst:   burst,
		now:     time.Now,
	}
}

func (c *clientLimiter) allow(key string) bool {
	c.mu.Lock()
	entry, ok := c.clients[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(c.limit, c.burst)}
		c.clients[key] = entry
	}
	entry.lastSeen = c.now()
	c.mu.Unlock()

	return entry.limiter.Allow()
}

func (c *clientLimiter) evict(idle time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-idle)
	evicted := 0
	for key, entry := range c.clients {
		if entry.lastSeen.Before(cutoff) {
			delete(c.clients, key)
			evicted++
		}
	}
	return evicted
}
