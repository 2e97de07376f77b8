package matching

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
	"github.com/alchemorsel/nutrimatch/internal/ports/inbound"
	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
	"github.com/alchemorsel/nutrimatch/pkg/errors"
)

// Tier is one relaxation level of the fallback search
type Tier int

const (
	TierStrict Tier = iota
	TierDietRelaxed
	TierNutritionRelaxed
	TierBasic
)

// Widening applied on top of the diet-relaxed bounds
const (
	RelaxedCalorieLowFactor  = 0.7
	RelaxedCalorieHighFactor = 1.3
	RelaxedMacroLowFactor    = 0.6
	RelaxedMacroHighFactor   = 1.4
)

// Fallback types reported to callers
const (
	FallbackDiet      = "diet"
	FallbackNutrition = "nutrition"
	FallbackBasic     = "basic"
	FallbackNone      = "none"
)

func (t Tier) String() string {
	switch t {
	case TierStrict:
		return "strict"
	case TierDietRelaxed:
		return "diet_relaxed"
	case TierNutritionRelaxed:
		return "nutrition_relaxed"
	case TierBasic:
		return "basic"
	default:
		return fmt.Sprintf("tier_%d", int(t))
	}
}

// FallbackType is the label reported when this tier produced the result
func (t Tier) FallbackType() string {
	switch t {
	case TierDietRelaxed:
		return FallbackDiet
	case TierNutritionRelaxed:
		return FallbackNutrition
	case TierBasic:
		return FallbackBasic
	default:
		return ""
	}
}

func (t Tier) message() string {
	switch t {
	case TierDietRelaxed:
		return "No recipes matched your diet; showing results without the diet filter"
	case TierNutritionRelaxed:
		return "No recipes matched your nutrition targets; showing results with wider ranges"
	case TierBasic:
		return "No recipes matched your profile; showing basic search results"
	default:
		return ""
	}
}

// relax derives this tier's parameters from the previous tier's.
// Each step compounds on the one before it.
func (t Tier) relax(prev nutrition.SearchParams) nutrition.SearchParams {
	switch t {
	case TierDietRelaxed:
		next := prev.Clone()
		next.Diet = ""
		return next
	case TierNutritionRelaxed:
		next := prev.Clone()
		next.Calories = prev.Calories.Scale(RelaxedCalorieLowFactor, RelaxedCalorieHighFactor)
		next.Protein = prev.Protein.Scale(RelaxedMacroLowFactor, RelaxedMacroHighFactor)
		next.Carbs = prev.Carbs.Scale(RelaxedMacroLowFactor, RelaxedMacroHighFactor)
		next.Fat = prev.Fat.Scale(RelaxedMacroLowFactor, RelaxedMacroHighFactor)
		return next
	case TierBasic:
		return nutrition.SearchParams{
			Query:              prev.Query,
			Cuisine:            prev.Cuisine,
			Number:             prev.Number,
			AddRecipeNutrition: true,
		}
	default:
		return prev.Clone()
	}
}

// FallbackResult is the outcome of a tiered search
type FallbackResult struct {
	Results  []nutrition.RecipeSource
	Tier     Tier
	Params   nutrition.SearchParams
	Fallback inbound.FallbackInfo
}

// FallbackController issues tiered searches until one returns results
type FallbackController struct {
	provider outbound.RecipeProvider
	metrics  outbound.MatchMetrics
	tracer   trace.Tracer
	logger   *zap.Logger
}

// NewFallbackController creates a new fallback controller
func NewFallbackController(
	provider outbound.RecipeProvider,
	metrics outbound.MatchMetrics,
	tracer trace.Tracer,
	logger *zap.Logger,
) *FallbackController {
	return &FallbackController{
		provider: provider,
		metrics:  metrics,
		tracer:   tracer,
		logger:   logger.Named("fallback"),
	}
}

// Search runs the tiers in order and stops at the first non-empty result.
// A provider error on any tier aborts the chain.
func (c *FallbackController) Search(ctx context.Context, strict nutrition.SearchParams) (*FallbackResult, error) {
	params := strict.Clone()

	for tier := TierStrict; ; tier++ {
		if tier != TierStrict {
			params = tier.relax(params)
			c.logger.Debug("Relaxing search parameters",
				zap.Stringer("tier", tier),
				zap.String("query", params.Query),
			)
		}

		results, err := c.searchTier(ctx, tier, params)
		if err != nil {
			return nil, err
		}

		if len(results) > 0 || tier == TierBasic {
			return c.result(tier, params, results), nil
		}
	}
}

func (c *FallbackController) searchTier(ctx context.Context, tier Tier, params nutrition.SearchParams) ([]nutrition.RecipeSource, error) {
	ctx, span := c.tracer.Start(ctx, "matching.fallback."+tier.String(),
		trace.WithAttributes(
			attribute.String("search.tier", tier.String()),
			attribute.String("search.diet", params.Diet),
			attribute.Bool("search.nutrition_filters", params.HasNutritionFilters()),
		),
	)
	defer span.End()

	res, err := c.provider.Search(ctx, params)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider search failed")
		c.logger.Error("Provider search failed",
			zap.Stringer("tier", tier),
			zap.Error(err),
		)
		return nil, asUpstreamError(err)
	}

	var results []nutrition.RecipeSource
	if res != nil {
		results = res.Results
	}
	span.SetAttributes(attribute.Int("search.results", len(results)))
	c.metrics.RecordTier(tier.String(), len(results))

	return results, nil
}

func (c *FallbackController) result(tier Tier, params nutrition.SearchParams, results []nutrition.RecipeSource) *FallbackResult {
	out := &FallbackResult{Results: results, Tier: tier, Params: params}
	if tier != TierStrict {
		out.Fallback = inbound.FallbackInfo{
			Applied: true,
			Type:    tier.FallbackType(),
			Message: tier.message(),
		}
	}

	fallbackType := tier.FallbackType()
	if fallbackType == "" {
		fallbackType = FallbackNone
	}
	c.metrics.RecordFallback(fallbackType)

	if out.Fallback.Applied {
		c.logger.Info("Search fell back to relaxed parameters",
			zap.String("fallback_type", fallbackType),
			zap.Int("results", len(results)),
		)
	}
	return out
}

// asUpstreamError keeps provider AppErrors intact and wraps anything else
func asUpstreamError(err error) error {
	if errors.GetCode(err) == errors.CodeUpstream {
		return err
	}
	return errors.NewUpstreamError("recipe-provider", 0, "", err)
}
