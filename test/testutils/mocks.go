package testutils

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
	"github.com/alchemorsel/nutrimatch/internal/ports/inbound"
	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
)

// MockMatchingService provides a mock implementation of inbound.MatchingService
type MockMatchingService struct {
	mock.Mock
}

var _ inbound.MatchingService = (*MockMatchingService)(nil)

// SearchRecipes mocks the search use case
func (m *MockMatchingService) SearchRecipes(ctx context.Context, req inbound.SearchRecipesRequest) (*inbound.SearchRecipesResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*inbound.SearchRecipesResponse)
	return res, args.Error(1)
}

// BuildNutritionProfile mocks the profile use case
func (m *MockMatchingService) BuildNutritionProfile(ctx context.Context, req inbound.NutritionProfileRequest) (*inbound.NutritionProfileResponse, error) {
	args := m.Called(ctx, req)
	res, _ := args.Get(0).(*inbound.NutritionProfileResponse)
	return res, args.Error(1)
}

// GetRecipeDetail mocks the detail use case
func (m *MockMatchingService) GetRecipeDetail(ctx context.Context, recipeID int) (*inbound.RecipeDetail, error) {
	args := m.Called(ctx, recipeID)
	res, _ := args.Get(0).(*inbound.RecipeDetail)
	return res, args.Error(1)
}

// StubProvider is a canned RecipeProvider. Search returns Results for every
// call and counts invocations.
type StubProvider struct {
	Results  *outbound.SearchResult
	Detail   *outbound.RecipeInformation
	Err      error
	Searches []nutrition.SearchParams
}

var _ outbound.RecipeProvider = (*StubProvider)(nil)

func (s *StubProvider) Search(_ context.Context, params nutrition.SearchParams) (*outbound.SearchResult, error) {
	s.Searches = append(s.Searches, params)
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Results == nil {
		return &outbound.SearchResult{}, nil
	}
	return s.Results, nil
}

func (s *StubProvider) Information(_ context.Context, id int) (*outbound.RecipeInformation, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Detail != nil {
		return s.Detail, nil
	}
	return &outbound.RecipeInformation{ID: id}, nil
}

func (s *StubProvider) NutritionWidget(context.Context, int) (*outbound.NutritionWidget, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return &outbound.NutritionWidget{}, nil
}

func (s *StubProvider) IngredientWidget(context.Context, int) (*outbound.IngredientWidget, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return &outbound.IngredientWidget{}, nil
}

func (s *StubProvider) AnalyzedInstructions(context.Context, int) ([]outbound.InstructionSet, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return []outbound.InstructionSet{}, nil
}
