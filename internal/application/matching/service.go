// Package matching provides the application layer for nutrition-aware recipe matching
// This implements the use cases defined in the inbound ports
package matching

import (
	"context"
	stderrors "errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
	"github.com/alchemorsel/nutrimatch/internal/ports/inbound"
	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
	"github.com/alchemorsel/nutrimatch/pkg/errors"
)

// AnonymousUserID identifies profiles attached to a search without a user id
const AnonymousUserID = "anonymous"

// Config holds matching service settings
type Config struct {
	DefaultResultCount int
}

// Service implements the matching use cases
type Service struct {
	provider outbound.RecipeProvider
	fallback *FallbackController
	rules    *nutrition.RuleSet
	metrics  outbound.MatchMetrics
	validate *validator.Validate
	config   Config
	now      func() time.Time
	logger   *zap.Logger
}

// NewService creates a new matching service
func NewService(
	provider outbound.RecipeProvider,
	rules *nutrition.RuleSet,
	metrics outbound.MatchMetrics,
	tracer trace.Tracer,
	config Config,
	logger *zap.Logger,
) *Service {
	if config.DefaultResultCount <= 0 {
		config.DefaultResultCount = 10
	}
	named := logger.Named("matching-service")

	return &Service{
		provider: provider,
		fallback: NewFallbackController(provider, metrics, tracer, named),
		rules:    rules,
		metrics:  metrics,
		validate: validator.New(),
		config:   config,
		now:      time.Now,
		logger:   named,
	}
}

var _ inbound.MatchingService = (*Service)(nil)

// SearchRecipes runs a plain search, or the nutrition-aware pipeline when the
// request carries a usable profile
func (s *Service) SearchRecipes(ctx context.Context, req inbound.SearchRecipesRequest) (*inbound.SearchRecipesResponse, error) {
	if strings.TrimSpace(req.SearchTerm) == "" {
		return nil, errors.NewValidationError("searchTerm is required")
	}
	if err := s.validateStruct(req); err != nil {
		return nil, err
	}

	number := req.Number
	if number <= 0 {
		number = s.config.DefaultResultCount
	}

	var raw *nutrition.RawProfile
	if req.NutritionModeEnabled() {
		r := req.NutritionProfile.ToRaw()
		if strings.TrimSpace(r.UserID) == "" {
			r.UserID = AnonymousUserID
		}
		raw = &r
	}

	if !nutrition.ShouldApplyNutritionProfile(raw) {
		return s.plainSearch(ctx, req, number)
	}

	profile, err := nutrition.NormalizeProfile(*raw, s.rules)
	if err != nil {
		return nil, toValidationError(err)
	}

	s.logger.Info("Searching recipes with nutrition profile",
		zap.String("query", req.SearchTerm),
		zap.String("cuisine", req.Cuisine),
		zap.String("user_id", profile.UserID),
	)

	params := nutrition.BuildSearchQuery(profile, req.SearchTerm, req.Cuisine, number, s.rules)
	outcome, err := s.fallback.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	ranked := s.rank(nutrition.NewRecipes(outcome.Results), profile)

	summaries := make([]inbound.RecipeSummary, 0, len(ranked))
	for _, r := range ranked {
		summaries = append(summaries, scoredSummary(r))
	}

	fallback := outcome.Fallback
	return &inbound.SearchRecipesResponse{Recipes: summaries, Fallback: &fallback}, nil
}

// rank runs filter, scorer, ranker and aggregator over the candidates
func (s *Service) rank(recipes []nutrition.Recipe, profile *nutrition.NutritionProfile) []nutrition.ScoredRecipe {
	filtered, fellBack := nutrition.FilterRecipesByNutrition(recipes, profile, s.rules)
	if fellBack {
		s.metrics.RecordFilterFallback()
		s.logger.Info("No recipe passed the dietary filter; keeping unfiltered results",
			zap.Int("candidates", len(recipes)),
		)
	}

	scored := nutrition.ScoreRecipes(filtered, profile)
	scored = nutrition.RankByIngredients(scored, profile.RecommendedIngredients)
	return nutrition.AggregateMatches(scored)
}

func (s *Service) plainSearch(ctx context.Context, req inbound.SearchRecipesRequest, number int) (*inbound.SearchRecipesResponse, error) {
	s.logger.Info("Searching recipes",
		zap.String("query", req.SearchTerm),
		zap.String("cuisine", req.Cuisine),
	)

	res, err := s.provider.Search(ctx, nutrition.SearchParams{
		Query:   req.SearchTerm,
		Cuisine: req.Cuisine,
		Number:  number,
	})
	if err != nil {
		return nil, asUpstreamError(err)
	}

	summaries := make([]inbound.RecipeSummary, 0)
	if res != nil {
		for _, src := range res.Results {
			summaries = append(summaries, recipeSummary(nutrition.NewRecipe(src)))
		}
	}
	return &inbound.SearchRecipesResponse{Recipes: summaries}, nil
}

// BuildNutritionProfile normalizes a health profile into recommendations
func (s *Service) BuildNutritionProfile(ctx context.Context, req inbound.NutritionProfileRequest) (*inbound.NutritionProfileResponse, error) {
	if strings.TrimSpace(req.User.ID) == "" {
		return nil, errors.NewValidationError("user.id is required")
	}
	perMeal := req.Nutrition.PerMealTargets()
	if perMeal == nil {
		return nil, errors.NewValidationError("nutrition is required")
	}
	if err := s.validateStruct(req.Nutrition); err != nil {
		return nil, err
	}

	raw := nutrition.RawProfile{
		UserID:       req.User.ID,
		Restrictions: req.Diet.DietaryRestrictions,
		Allergies:    req.Diet.Allergies,
		Goal:         req.Lifestyle.Goal,
	}
	perMealRaw := perMeal.ToRaw()
	raw.NutritionPerMeal = &perMealRaw

	profile, err := nutrition.NormalizeProfile(raw, s.rules)
	if err != nil {
		return nil, toValidationError(err)
	}

	s.logger.Info("Nutrition profile built",
		zap.String("user_id", profile.UserID),
		zap.Int("allergies", len(profile.DietaryProfile.Allergies)),
		zap.Int("restrictions", len(profile.DietaryProfile.Restrictions)),
	)

	return &inbound.NutritionProfileResponse{
		Success:         true,
		Timestamp:       s.now().UTC(),
		Recommendations: profile,
	}, nil
}

// GetRecipeDetail fetches the four detail sub-resources concurrently.
// Any single failure fails the whole aggregation.
func (s *Service) GetRecipeDetail(ctx context.Context, recipeID int) (*inbound.RecipeDetail, error) {
	if recipeID <= 0 {
		return nil, errors.NewValidationError("recipe id must be a positive integer")
	}

	var (
		g            errgroup.Group
		info         *outbound.RecipeInformation
		widget       *outbound.NutritionWidget
		ingredients  *outbound.IngredientWidget
		instructions []outbound.InstructionSet
	)

	g.Go(func() error {
		var err error
		info, err = s.provider.Information(ctx, recipeID)
		return err
	})
	g.Go(func() error {
		var err error
		widget, err = s.provider.NutritionWidget(ctx, recipeID)
		return err
	})
	g.Go(func() error {
		var err error
		ingredients, err = s.provider.IngredientWidget(ctx, recipeID)
		return err
	})
	g.Go(func() error {
		var err error
		instructions, err = s.provider.AnalyzedInstructions(ctx, recipeID)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Recipe detail aggregation failed",
			zap.Int("recipe_id", recipeID),
			zap.Error(err),
		)
		return nil, asUpstreamError(err)
	}

	detail := &inbound.RecipeDetail{
		Information:  info,
		Nutrition:    widget,
		Instructions: instructions,
	}
	if ingredients != nil {
		detail.Ingredients = ingredients.Ingredients
	}
	return detail, nil
}

func (s *Service) validateStruct(v interface{}) error {
	err := s.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return errors.NewValidationError(err.Error())
	}

	details := make([]errors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, errors.ValidationError{
			Field:   fe.Field(),
			Value:   fe.Value(),
			Tag:     fe.Tag(),
			Message: fe.Field() + " failed " + fe.Tag() + " validation",
		})
	}
	return errors.NewValidationErrors(details)
}

// toValidationError maps domain normalization failures onto the error taxonomy
func toValidationError(err error) error {
	switch {
	case stderrors.Is(err, nutrition.ErrMissingUserID),
		stderrors.Is(err, nutrition.ErrMissingNutrition),
		stderrors.Is(err, nutrition.ErrNegativeTarget),
		stderrors.Is(err, nutrition.ErrInvalidRange):
		return errors.NewValidationError(err.Error()).WithCause(err)
	default:
		return errors.Wrap(err, "failed to normalize profile")
	}
}

func recipeSummary(r nutrition.Recipe) inbound.RecipeSummary {
	summary := inbound.RecipeSummary{
		ID:             r.ID,
		Title:          r.Title,
		Image:          r.Image,
		ReadyInMinutes: r.ReadyInMinutes,
		Servings:       r.Servings,
		SourceURL:      r.SourceURL,
		Diets:          r.DeclaredDiets,
	}
	n := r.Nutrients
	if n.Calories != nil || n.Protein != nil || n.Carbs != nil || n.Fat != nil {
		summary.Nutrients = &n
	}
	return summary
}

func scoredSummary(s nutrition.ScoredRecipe) inbound.RecipeSummary {
	summary := recipeSummary(s.Recipe)
	nutritionPct := s.NutritionMatchPercentage()
	overallPct := s.OverallMatchPercentage()
	count := s.RecommendedCount
	breakdown := s.Breakdown

	summary.NutritionMatchPercentage = &nutritionPct
	summary.OverallMatchPercentage = &overallPct
	summary.RecommendedIngredientsCount = &count
	summary.MatchBreakdown = &breakdown
	return summary
}
