package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) *string { return &s }

func TestNewRecipe_NutrientExtractionChain(t *testing.T) {
	src := RecipeSource{
		ID:    7,
		Title: "Lemon Chicken",
		Nutrients: []NutrientEntry{
			{Name: NutrientCalories, Amount: 520, Unit: "kcal"},
			{Name: NutrientProtein, Amount: 41, Unit: "g"},
		},
		Protein: FlexibleAmount{Number: float(99)},
		Carbs:   FlexibleAmount{Number: float(22)},
		Fat:     FlexibleAmount{Text: text("18g")},
	}

	recipe := NewRecipe(src)

	require.NotNil(t, recipe.Nutrients.Calories)
	assert.Equal(t, 520.0, *recipe.Nutrients.Calories)
	// structured list wins over the flat field
	assert.Equal(t, 41.0, *recipe.Nutrients.Protein)
	assert.Equal(t, 22.0, *recipe.Nutrients.Carbs)
	assert.Equal(t, 18.0, *recipe.Nutrients.Fat)
}

func TestNewRecipe_MissingNutrientsStayNil(t *testing.T) {
	recipe := NewRecipe(RecipeSource{ID: 1, Title: "Mystery stew"})

	assert.Nil(t, recipe.Nutrients.Calories)
	assert.Nil(t, recipe.Nutrients.Protein)
	assert.Nil(t, recipe.DeclaredDiets)
}

func TestNewRecipe_IngredientText(t *testing.T) {
	t.Run("structured ingredients", func(t *testing.T) {
		recipe := NewRecipe(RecipeSource{
			Title:       "Pad Thai",
			Summary:     "Contains peanuts",
			Ingredients: []string{"Rice Noodles", "Shrimp"},
		})
		assert.Equal(t, "rice noodles shrimp", recipe.IngredientText)
	})

	t.Run("falls back to title and summary", func(t *testing.T) {
		recipe := NewRecipe(RecipeSource{Title: "Pad Thai", Summary: "Contains PEANUTS"})
		assert.Equal(t, "pad thai contains peanuts", recipe.IngredientText)
	})
}

func TestParseLeadingNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"25g", 25},
		{"1.5 kcal", 1.5},
		{" 300kcal", 300},
		{"12.5.3", 12.5},
		{"g25", 0},
		{"", 0},
		{"about 10g", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLeadingNumber(tt.in))
		})
	}
}
