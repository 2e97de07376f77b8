package matching

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
)

// MockRecipeProvider is a mock implementation of the recipe provider
type MockRecipeProvider struct {
	mock.Mock
}

func (m *MockRecipeProvider) Search(ctx context.Context, params nutrition.SearchParams) (*outbound.SearchResult, error) {
	args := m.Called(ctx, params)
	if res := args.Get(0); res != nil {
		return res.(*outbound.SearchResult), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeProvider) Information(ctx context.Context, id int) (*outbound.RecipeInformation, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*outbound.RecipeInformation), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeProvider) NutritionWidget(ctx context.Context, id int) (*outbound.NutritionWidget, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*outbound.NutritionWidget), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeProvider) IngredientWidget(ctx context.Context, id int) (*outbound.IngredientWidget, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.(*outbound.IngredientWidget), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRecipeProvider) AnalyzedInstructions(ctx context.Context, id int) ([]outbound.InstructionSet, error) {
	args := m.Called(ctx, id)
	if res := args.Get(0); res != nil {
		return res.([]outbound.InstructionSet), args.Error(1)
	}
	return nil, args.Error(1)
}

// recordingMetrics captures what the service reports
type recordingMetrics struct {
	mu              sync.Mutex
	tiers           []string
	fallbacks       []string
	filterFallbacks int
}

func (r *recordingMetrics) RecordTier(tier string, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiers = append(r.tiers, tier)
}

func (r *recordingMetrics) RecordFallback(fallbackType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbacks = append(r.fallbacks, fallbackType)
}

func (r *recordingMetrics) RecordFilterFallback() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filterFallbacks++
}

func (r *recordingMetrics) RecordProviderCall(string, string, time.Duration) {}

func (r *recordingMetrics) RecordCache(string) {}

func results(sources ...nutrition.RecipeSource) *outbound.SearchResult {
	return &outbound.SearchResult{Results: sources, TotalResults: len(sources)}
}

func source(id int, title string, calories, protein float64, ingredients ...string) nutrition.RecipeSource {
	return nutrition.RecipeSource{
		ID:    id,
		Title: title,
		Nutrients: []nutrition.NutrientEntry{
			{Name: nutrition.NutrientCalories, Amount: calories, Unit: "kcal"},
			{Name: nutrition.NutrientProtein, Amount: protein, Unit: "g"},
		},
		Ingredients: ingredients,
	}
}
