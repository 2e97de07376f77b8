// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"
	"time"

	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
)

// MatchingService defines the nutrition-aware recipe matching use cases
// This is the primary port that HTTP handlers will use
type MatchingService interface {
	// SearchRecipes runs a plain or nutrition-aware search
	SearchRecipes(ctx context.Context, req SearchRecipesRequest) (*SearchRecipesResponse, error)

	// BuildNutritionProfile normalizes a health profile into recommendations
	BuildNutritionProfile(ctx context.Context, req NutritionProfileRequest) (*NutritionProfileResponse, error)

	// GetRecipeDetail aggregates every detail sub-resource of one recipe
	GetRecipeDetail(ctx context.Context, recipeID int) (*RecipeDetail, error)
}

// Request objects

// SearchRecipesRequest is the body of POST /searchRecipe
type SearchRecipesRequest struct {
	SearchTerm       string                 `json:"searchTerm"`
	Cuisine          string                 `json:"cuisine" validate:"max=64"`
	NutritionProfile *NutritionProfileInput `json:"nutritionProfile,omitempty"`
	NutritionMode    *bool                  `json:"nutritionMode,omitempty"`
	Number           int                    `json:"number,omitempty" validate:"omitempty,min=1,max=100"`
}

// NutritionModeEnabled reports whether the caller asked for nutrition-aware matching.
// An omitted flag means enabled when a profile is present.
func (r SearchRecipesRequest) NutritionModeEnabled() bool {
	if r.NutritionProfile == nil {
		return false
	}
	return r.NutritionMode == nil || *r.NutritionMode
}

// NutritionProfileInput is a raw profile attached to a search
type NutritionProfileInput struct {
	UserID           string          `json:"userId,omitempty"`
	NutritionPerMeal *NutritionInput `json:"nutritionPerMeal,omitempty"`
	Restrictions     []string        `json:"restrictions,omitempty"`
	Allergies        []string        `json:"allergies,omitempty"`
	Goal             string          `json:"goal,omitempty"`
}

// ToRaw converts the input to the domain representation
func (p NutritionProfileInput) ToRaw() nutrition.RawProfile {
	raw := nutrition.RawProfile{
		UserID:       p.UserID,
		Restrictions: p.Restrictions,
		Allergies:    p.Allergies,
		Goal:         p.Goal,
	}
	if p.NutritionPerMeal != nil {
		n := p.NutritionPerMeal.ToRaw()
		raw.NutritionPerMeal = &n
	}
	return raw
}

// NutritionProfileRequest is the body of POST /nutrition-profile
type NutritionProfileRequest struct {
	User      UserInput       `json:"user"`
	Nutrition *NutritionBlock `json:"nutrition"`
	Diet      DietInput       `json:"diet"`
	Lifestyle LifestyleInput  `json:"lifestyle"`
}

// UserInput identifies the profile owner
type UserInput struct {
	ID string `json:"id"`
}

// NutritionBlock carries per-meal targets, or daily totals to be split across meals
type NutritionBlock struct {
	PerMeal     *NutritionInput `json:"perMeal,omitempty"`
	Daily       *NutritionInput `json:"daily,omitempty"`
	MealsPerDay int             `json:"mealsPerDay,omitempty" validate:"omitempty,min=1,max=12"`
}

// DietInput lists restrictions and allergies
type DietInput struct {
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	Allergies           []string `json:"allergies"`
}

// LifestyleInput carries the user's stated goal
type LifestyleInput struct {
	Goal string `json:"goal"`
}

// Response DTOs

// FallbackInfo reports the last relaxation tier a search fell back to
type FallbackInfo struct {
	Applied bool   `json:"applied"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

// RecipeSummary is a cleaned recipe; it never carries the provider's
// nutrition, extendedIngredients or summary payloads
type RecipeSummary struct {
	ID             int                  `json:"id"`
	Title          string               `json:"title"`
	Image          string               `json:"image,omitempty"`
	ReadyInMinutes int                  `json:"readyInMinutes,omitempty"`
	Servings       int                  `json:"servings,omitempty"`
	SourceURL      string               `json:"sourceUrl,omitempty"`
	Diets          []string             `json:"diets,omitempty"`
	Nutrients      *nutrition.Nutrients `json:"nutrients,omitempty"`

	NutritionMatchPercentage    *int                      `json:"nutritionMatchPercentage,omitempty"`
	OverallMatchPercentage      *int                      `json:"overallMatchPercentage,omitempty"`
	RecommendedIngredientsCount *int                      `json:"recommendedIngredientsCount,omitempty"`
	MatchBreakdown              *nutrition.ScoreBreakdown `json:"matchBreakdown,omitempty"`
}

// SearchRecipesResponse is the search result with optional fallback metadata
type SearchRecipesResponse struct {
	Recipes  []RecipeSummary `json:"recipes"`
	Fallback *FallbackInfo   `json:"fallback,omitempty"`
}

// FallbackApplied reports whether a relaxation tier produced the result
func (r *SearchRecipesResponse) FallbackApplied() bool {
	return r.Fallback != nil && r.Fallback.Applied
}

// NutritionProfileResponse is the body returned by POST /nutrition-profile
type NutritionProfileResponse struct {
	Success         bool                        `json:"success"`
	Timestamp       time.Time                   `json:"timestamp"`
	Recommendations *nutrition.NutritionProfile `json:"recommendations"`
}

// RecipeDetail aggregates the four detail sub-resources
type RecipeDetail struct {
	Information  *outbound.RecipeInformation `json:"information"`
	Nutrition    *outbound.NutritionWidget   `json:"nutrition"`
	Ingredients  []outbound.WidgetIngredient `json:"ingredients"`
	Instructions []outbound.InstructionSet   `json:"instructions"`
}
