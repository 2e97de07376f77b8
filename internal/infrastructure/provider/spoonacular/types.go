package spoonacular

import (
	"bytes"
	"encoding/json"

	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
)

// flexibleAmount decodes a flat nutrient field sent as a number or a string.
// Any other shape decodes as missing so one odd field cannot fail a whole page.
type flexibleAmount nutrition.FlexibleAmount

func (f *flexibleAmount) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			f.Text = &s
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n float64
		if err := json.Unmarshal(trimmed, &n); err == nil {
			f.Number = &n
		}
	}
	return nil
}

type namedIngredient struct {
	Name string `json:"name"`
}

type recipeNutrition struct {
	Nutrients   []nutrition.NutrientEntry `json:"nutrients"`
	Ingredients []namedIngredient         `json:"ingredients"`
}

type searchRecipe struct {
	ID                  int               `json:"id"`
	Title               string            `json:"title"`
	Image               string            `json:"image"`
	Summary             string            `json:"summary"`
	SourceURL           string            `json:"sourceUrl"`
	ReadyInMinutes      int               `json:"readyInMinutes"`
	Servings            int               `json:"servings"`
	Diets               []string          `json:"diets"`
	Nutrition           *recipeNutrition  `json:"nutrition"`
	ExtendedIngredients []namedIngredient `json:"extendedIngredients"`
	Calories            flexibleAmount    `json:"calories"`
	Protein             flexibleAmount    `json:"protein"`
	Carbs               flexibleAmount    `json:"carbs"`
	Fat                 flexibleAmount    `json:"fat"`
}

type searchResponse struct {
	Results      []searchRecipe `json:"results"`
	TotalResults int            `json:"totalResults"`
}

func (r searchResponse) toResult() *outbound.SearchResult {
	out := &outbound.SearchResult{
		Results:      make([]nutrition.RecipeSource, 0, len(r.Results)),
		TotalResults: r.TotalResults,
	}
	for _, recipe := range r.Results {
		out.Results = append(out.Results, recipe.toSource())
	}
	return out
}

func (r searchRecipe) toSource() nutrition.RecipeSource {
	src := nutrition.RecipeSource{
		ID:             r.ID,
		Title:          r.Title,
		Image:          r.Image,
		Summary:        r.Summary,
		SourceURL:      r.SourceURL,
		ReadyInMinutes: r.ReadyInMinutes,
		Servings:       r.Servings,
		Diets:          r.Diets,
		Calories:       nutrition.FlexibleAmount(r.Calories),
		Protein:        nutrition.FlexibleAmount(r.Protein),
		Carbs:          nutrition.FlexibleAmount(r.Carbs),
		Fat:            nutrition.FlexibleAmount(r.Fat),
	}

	ingredients := r.ExtendedIngredients
	if r.Nutrition != nil {
		src.Nutrients = r.Nutrition.Nutrients
		if len(ingredients) == 0 {
			ingredients = r.Nutrition.Ingredients
		}
	}
	for _, ing := range ingredients {
		if ing.Name != "" {
			src.Ingredients = append(src.Ingredients, ing.Name)
		}
	}
	return src
}

type measure struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

type widgetIngredient struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	Amount struct {
		Metric measure `json:"metric"`
		US     measure `json:"us"`
	} `json:"amount"`
}

type ingredientWidgetResponse struct {
	Ingredients []widgetIngredient `json:"ingredients"`
}

func (r ingredientWidgetResponse) toWidget() *outbound.IngredientWidget {
	out := &outbound.IngredientWidget{Ingredients: make([]outbound.WidgetIngredient, 0, len(r.Ingredients))}
	for _, ing := range r.Ingredients {
		out.Ingredients = append(out.Ingredients, outbound.WidgetIngredient{
			Name:   ing.Name,
			Image:  ing.Image,
			Amount: ing.Amount.Metric.Value,
			Unit:   ing.Amount.Metric.Unit,
		})
	}
	return out
}
