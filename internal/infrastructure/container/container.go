// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/alchemorsel/nutrimatch/internal/application/matching"
	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/cache"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/config"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/http/apiserver"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/http/handlers"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/http/middleware"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/monitoring"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/persistence/memory"
	redisrepo "github.com/alchemorsel/nutrimatch/internal/infrastructure/persistence/redis"
	"github.com/alchemorsel/nutrimatch/internal/infrastructure/provider/spoonacular"
	"github.com/alchemorsel/nutrimatch/internal/ports/inbound"
	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
	"github.com/alchemorsel/nutrimatch/pkg/healthcheck"
	"github.com/alchemorsel/nutrimatch/pkg/logger"
)

// ConfigPath is the configuration file to load. Empty means the default
// search locations.
type ConfigPath string

// memorySweepInterval is how often the in-memory cache drops expired entries
const memorySweepInterval = 5 * time.Minute

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MonitoringModule,
	CacheModule,
	ProviderModule,
	ServiceModule,
	HealthModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func(path ConfigPath) (*config.Config, error) {
		return config.Load(string(path))
	},
)

// LoggerModule provides logging. The atomic level is shared with the
// config watcher so log verbosity follows the file.
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, zap.AtomicLevel, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Debug,
		})
	},
)

// MonitoringModule provides metrics and tracing
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,
	func(m *monitoring.MetricsCollector) outbound.MatchMetrics {
		return m
	},
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*monitoring.TracingProvider, error) {
		tp, err := monitoring.NewTracingProvider(context.Background(), monitoring.TracingConfig{
			ServiceName:    cfg.App.Name,
			ServiceVersion: cfg.App.Version,
			Environment:    cfg.App.Environment,
			OTLPEndpoint:   cfg.Monitoring.OTLPEndpoint,
			OTLPInsecure:   cfg.Monitoring.OTLPInsecure,
			SamplingRate:   cfg.Monitoring.SamplingRate,
			Enabled:        cfg.Monitoring.EnableTracing,
		}, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: tp.Shutdown})
		return tp, nil
	},
	func(tp *monitoring.TracingProvider) trace.Tracer {
		return tp.Tracer()
	},
)

// CacheModule provides the provider response store: Redis when enabled,
// otherwise a process-local map.
var CacheModule = fx.Provide(
	func(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (outbound.CacheRepository, error) {
		if !cfg.Redis.Enabled {
			log.Info("Using in-memory provider cache")
			repo := memory.NewCacheRepository(memorySweepInterval)
			lc.Append(fx.Hook{OnStop: func(context.Context) error { return repo.Close() }})
			return repo, nil
		}

		client, err := cache.NewRedisClient(context.Background(), cfg.Redis, log)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
		return redisrepo.NewCacheRepository(client, cfg.Redis.KeyPrefix, log), nil
	},
)

// ProviderModule provides the recipe API client, wrapped in the response
// cache when caching is enabled.
var ProviderModule = fx.Provide(
	func(cfg *config.Config, metrics outbound.MatchMetrics, log *zap.Logger) *spoonacular.Client {
		p := cfg.Provider
		return spoonacular.NewClient(spoonacular.Config{
			BaseURL:             p.BaseURL,
			APIKey:              p.APIKey,
			Timeout:             p.Timeout,
			RequestsPerSecond:   p.RequestsPerSecond,
			Burst:               p.Burst,
			BreakerMaxRequests:  p.BreakerMaxRequests,
			BreakerInterval:     p.BreakerInterval,
			BreakerTimeout:      p.BreakerTimeout,
			BreakerFailureRatio: p.BreakerFailureRatio,
			BreakerMinRequests:  p.BreakerMinRequests,
		}, metrics, log)
	},
	func(
		cfg *config.Config,
		client *spoonacular.Client,
		store outbound.CacheRepository,
		metrics outbound.MatchMetrics,
		log *zap.Logger,
	) outbound.RecipeProvider {
		if !cfg.Provider.CacheEnabled {
			return client
		}
		return cache.NewCachingProvider(client, store, cfg.Provider.CacheTTL, metrics, log)
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	fx.Annotate(
		func(
			cfg *config.Config,
			provider outbound.RecipeProvider,
			metrics outbound.MatchMetrics,
			tracer trace.Tracer,
			log *zap.Logger,
		) *matching.Service {
			return matching.NewService(provider, nutrition.DefaultRules(), metrics, tracer,
				matching.Config{DefaultResultCount: cfg.Provider.DefaultResultCount}, log)
		},
		fx.As(new(inbound.MatchingService)),
	),
)

// HealthModule provides dependency health checks
var HealthModule = fx.Provide(
	func(
		cfg *config.Config,
		client *spoonacular.Client,
		store outbound.CacheRepository,
		metrics *monitoring.MetricsCollector,
		log *zap.Logger,
	) *healthcheck.HealthCheck {
		health := healthcheck.New(cfg.App.Version, log)
		health.SetCacheTTL(cfg.Monitoring.HealthCacheTTL)
		hm := healthcheck.NewHealthMetrics(metrics.Registry(), monitoring.Namespace)

		breaker := healthcheck.NewCircuitChecker(func() string {
			return client.BreakerState().String()
		})
		health.Register("recipe_provider", healthcheck.WithMetrics(hm, "recipe_provider", breaker))
		health.Register("cache", healthcheck.WithMetrics(hm, "cache", healthcheck.NewPingChecker(store)))

		return health
	},
)

// HTTPModule provides HTTP server and handlers
var HTTPModule = fx.Provide(
	middleware.New,
	handlers.NewAPIHandlers,
	apiserver.NewServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	cfg *config.Config,
	log *zap.Logger,
	level zap.AtomicLevel,
	mw *middleware.Middleware,
	server *apiserver.Server,
) {
	var cancel context.CancelFunc

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("Starting nutrimatch",
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			var bg context.Context
			bg, cancel = context.WithCancel(context.Background())
			go mw.StartLimiterCleanup(bg)

			cfg.Watch(func(next *config.Config, event fsnotify.Event) {
				lvl := logger.ParseLevel(next.App.LogLevel)
				if lvl != level.Level() {
					level.SetLevel(lvl)
					log.Info("Log level changed", zap.String("level", lvl.String()), zap.String("file", event.Name))
				}
			}, func(err error) {
				log.Warn("Ignoring invalid configuration change", zap.Error(err))
			})

			go func() {
				if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("HTTP server failed", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down nutrimatch")
			if cancel != nil {
				cancel()
			}

			if cfg.Server.ShutdownTimeout > 0 {
				var done context.CancelFunc
				ctx, done = context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
				defer done()
			}
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Failed to shutdown HTTP server", zap.Error(err))
			}

			_ = log.Sync()
			return nil
		},
	})
}
