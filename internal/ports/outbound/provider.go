package outbound

import (
	"context"

	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
)

// RecipeProvider is the third-party recipe search and detail API.
// Every error it returns is an *errors.AppError with code UPSTREAM_ERROR.
type RecipeProvider interface {
	Search(ctx context.Context, params nutrition.SearchParams) (*SearchResult, error)

	// Detail sub-resources, keyed by provider recipe id
	Information(ctx context.Context, id int) (*RecipeInformation, error)
	NutritionWidget(ctx context.Context, id int) (*NutritionWidget, error)
	IngredientWidget(ctx context.Context, id int) (*IngredientWidget, error)
	AnalyzedInstructions(ctx context.Context, id int) ([]InstructionSet, error)
}

// SearchResult is one page of provider search results
type SearchResult struct {
	Results      []nutrition.RecipeSource `json:"results"`
	TotalResults int                      `json:"totalResults"`
}

// RecipeInformation is the provider's basic recipe record
type RecipeInformation struct {
	ID             int      `json:"id"`
	Title          string   `json:"title"`
	Image          string   `json:"image,omitempty"`
	SourceURL      string   `json:"sourceUrl,omitempty"`
	ReadyInMinutes int      `json:"readyInMinutes,omitempty"`
	Servings       int      `json:"servings,omitempty"`
	Cuisines       []string `json:"cuisines,omitempty"`
	Diets          []string `json:"diets,omitempty"`
	DishTypes      []string `json:"dishTypes,omitempty"`
}

// WidgetNutrient is one line of the nutrition widget
type WidgetNutrient struct {
	Title               string  `json:"title"`
	Amount              string  `json:"amount"`
	PercentOfDailyNeeds float64 `json:"percentOfDailyNeeds"`
}

// NutritionWidget summarizes a recipe's nutrition
type NutritionWidget struct {
	Calories string           `json:"calories"`
	Carbs    string           `json:"carbs"`
	Fat      string           `json:"fat"`
	Protein  string           `json:"protein"`
	Bad      []WidgetNutrient `json:"bad,omitempty"`
	Good     []WidgetNutrient `json:"good,omitempty"`
}

// WidgetIngredient is one ingredient with its metric amount
type WidgetIngredient struct {
	Name   string  `json:"name"`
	Image  string  `json:"image,omitempty"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// IngredientWidget lists a recipe's ingredients
type IngredientWidget struct {
	Ingredients []WidgetIngredient `json:"ingredients"`
}

// InstructionStep is a single numbered step
type InstructionStep struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

// InstructionSet is a named group of steps
type InstructionSet struct {
	Name  string            `json:"name"`
	Steps []InstructionStep `json:"steps"`
}
