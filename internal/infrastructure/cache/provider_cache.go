package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
)

// Cache lookup results reported to metrics
const (
	ResultHit   = "hit"
	ResultMiss  = "miss"
	ResultError = "error"
)

const searchKeyPrefix = "search:"

// CachingProvider decorates a RecipeProvider with a search response cache.
// Detail lookups pass straight through. Cache failures never fail a request.
type CachingProvider struct {
	next    outbound.RecipeProvider
	cache   outbound.CacheRepository
	ttl     time.Duration
	metrics outbound.MatchMetrics
	logger  *zap.Logger
}

var _ outbound.RecipeProvider = (*CachingProvider)(nil)

// NewCachingProvider creates a caching decorator around next
func NewCachingProvider(next outbound.RecipeProvider, cache outbound.CacheRepository, ttl time.Duration, metrics outbound.MatchMetrics, logger *zap.Logger) *CachingProvider {
	if metrics == nil {
		metrics = outbound.NoopMetrics{}
	}
	return &CachingProvider{
		next:    next,
		cache:   cache,
		ttl:     ttl,
		metrics: metrics,
		logger:  logger.Named("provider-cache"),
	}
}

// SearchKey derives the cache key for a set of search parameters
func SearchKey(params nutrition.SearchParams) (string, error) {
	data, err := json.Marshal(params)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return searchKeyPrefix + hex.EncodeToString(sum[:]), nil
}

// Search serves from cache when possible, otherwise calls the wrapped
// provider and stores a successful response.
func (p *CachingProvider) Search(ctx context.Context, params nutrition.SearchParams) (*outbound.SearchResult, error) {
	key, err := SearchKey(params)
	if err != nil {
		p.logger.Warn("Failed to derive cache key", zap.Error(err))
		return p.next.Search(ctx, params)
	}

	if cached, ok := p.lookup(ctx, key); ok {
		return cached, nil
	}

	result, err := p.next.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	p.store(ctx, key, result)
	return result, nil
}

func (p *CachingProvider) lookup(ctx context.Context, key string) (*outbound.SearchResult, bool) {
	data, err := p.cache.Get(ctx, key)
	switch {
	case stderrors.Is(err, outbound.ErrCacheMiss):
		p.metrics.RecordCache(ResultMiss)
		return nil, false
	case err != nil:
		p.metrics.RecordCache(ResultError)
		p.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	var result outbound.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		p.metrics.RecordCache(ResultError)
		p.logger.Warn("Discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		_ = p.cache.Delete(ctx, key)
		return nil, false
	}

	p.metrics.RecordCache(ResultHit)
	return &result, true
}

func (p *CachingProvider) store(ctx context.Context, key string, result *outbound.SearchResult) {
	data, err := json.Marshal(result)
	if err != nil {
		p.logger.Warn("Failed to encode search result", zap.Error(err))
		return
	}
	if err := p.cache.Set(ctx, key, data, p.ttl); err != nil {
		p.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (p *CachingProvider) Information(ctx context.Context, id int) (*outbound.RecipeInformation, error) {
	return p.next.Information(ctx, id)
}

func (p *CachingProvider) NutritionWidget(ctx context.Context, id int) (*outbound.NutritionWidget, error) {
	return p.next.NutritionWidget(ctx, id)
}

func (p *CachingProvider) IngredientWidget(ctx context.Context, id int) (*outbound.IngredientWidget, error) {
	return p.next.IngredientWidget(ctx, id)
}

func (p *CachingProvider) AnalyzedInstructions(ctx context.Context, id int) ([]outbound.InstructionSet, error) {
	return p.next.AnalyzedInstructions(ctx, id)
}
