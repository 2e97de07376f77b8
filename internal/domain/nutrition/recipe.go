package nutrition

import (
	"strconv"
	"strings"
)

// Structured nutrient names as reported by the provider
const (
	NutrientCalories = "Calories"
	NutrientProtein  = "Protein"
	NutrientCarbs    = "Carbohydrates"
	NutrientFat      = "Fat"
)

// NutrientEntry is one row of a structured nutrient list.
type NutrientEntry struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// FlexibleAmount holds a flat nutrient field that may be a number or a string
// with a unit suffix such as "25g".
type FlexibleAmount struct {
	Number *float64
	Text   *string
}

// RecipeSource is a provider result before the engine derives anything from it.
type RecipeSource struct {
	ID             int
	Title          string
	Image          string
	Summary        string
	SourceURL      string
	ReadyInMinutes int
	Servings       int

	// Nutrients is nil when the provider returned no structured nutrition.
	Nutrients []NutrientEntry
	Calories  FlexibleAmount
	Protein   FlexibleAmount
	Carbs     FlexibleAmount
	Fat       FlexibleAmount

	// Diets is nil when the provider omitted the array entirely.
	Diets       []string
	Ingredients []string
}

// Nutrients holds per-serving macro amounts. A nil field means missing.
type Nutrients struct {
	Calories *float64 `json:"calories,omitempty"`
	Protein  *float64 `json:"protein,omitempty"`
	Carbs    *float64 `json:"carbs,omitempty"`
	Fat      *float64 `json:"fat,omitempty"`
}

// Recipe is a candidate recipe as seen by the filter and scorer.
type Recipe struct {
	ID             int       `json:"id"`
	Title          string    `json:"title"`
	Image          string    `json:"image,omitempty"`
	ReadyInMinutes int       `json:"readyInMinutes,omitempty"`
	Servings       int       `json:"servings,omitempty"`
	SourceURL      string    `json:"sourceUrl,omitempty"`
	Nutrients      Nutrients `json:"nutrients"`
	DeclaredDiets  []string  `json:"diets,omitempty"`
	IngredientText string    `json:"-"`
}

// NewRecipe derives a candidate from a provider result.
func NewRecipe(src RecipeSource) Recipe {
	return Recipe{
		ID:             src.ID,
		Title:          src.Title,
		Image:          src.Image,
		ReadyInMinutes: src.ReadyInMinutes,
		Servings:       src.Servings,
		SourceURL:      src.SourceURL,
		Nutrients: Nutrients{
			Calories: extractNutrient(src.Nutrients, NutrientCalories, src.Calories),
			Protein:  extractNutrient(src.Nutrients, NutrientProtein, src.Protein),
			Carbs:    extractNutrient(src.Nutrients, NutrientCarbs, src.Carbs),
			Fat:      extractNutrient(src.Nutrients, NutrientFat, src.Fat),
		},
		DeclaredDiets:  cloneStrings(src.Diets),
		IngredientText: ingredientText(src),
	}
}

// NewRecipes converts a batch of provider results.
func NewRecipes(sources []RecipeSource) []Recipe {
	out := make([]Recipe, 0, len(sources))
	for _, src := range sources {
		out = append(out, NewRecipe(src))
	}
	return out
}

// ingredientText prefers structured ingredient names and otherwise falls back
// to title and summary, which makes substring checks looser.
func ingredientText(src RecipeSource) string {
	if len(src.Ingredients) > 0 {
		return strings.ToLower(strings.Join(src.Ingredients, " "))
	}
	return strings.ToLower(src.Title + " " + src.Summary)
}

// extractNutrient resolves one macro: structured list, then flat number, then
// the leading number of a string field. Returns nil when all three are absent.
func extractNutrient(list []NutrientEntry, name string, flat FlexibleAmount) *float64 {
	for _, entry := range list {
		if entry.Name == name {
			v := entry.Amount
			return &v
		}
	}
	if flat.Number != nil {
		v := *flat.Number
		return &v
	}
	if flat.Text != nil {
		v := ParseLeadingNumber(*flat.Text)
		return &v
	}
	return nil
}

// ParseLeadingNumber reads the numeric prefix of s ("25g" → 25, "1.5 kcal" → 1.5).
// A string with no leading digits yields 0.
func ParseLeadingNumber(s string) float64 {
	s = strings.TrimSpace(s)
	end := 0
	seenDot := false
scan:
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
		case c == '.' && !seenDot:
			seenDot = true
		case (c == '-' || c == '+') && end == 0:
		default:
			break scan
		}
		end++
	}

	v, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0
	}
	return v
}
