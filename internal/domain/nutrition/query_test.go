package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQuery(t *testing.T) {
	rules := DefaultRules()
	raw := baseRawProfile()
	raw.Restrictions = []string{"Dairy Free", "Vegan", "Vegetarian"}
	raw.Allergies = []string{"Seafood", "Nightshade"}

	profile, err := NormalizeProfile(raw, rules)
	require.NoError(t, err)

	params := BuildSearchQuery(profile, "curry", "Indian", 12, rules)

	assert.Equal(t, "curry", params.Query)
	assert.Equal(t, "Indian", params.Cuisine)
	assert.Equal(t, 12, params.Number)
	assert.True(t, params.AddRecipeNutrition)

	// calories 540..660 widened by 20%
	assert.InDelta(t, 432, *params.Calories.Min, 1e-9)
	assert.InDelta(t, 792, *params.Calories.Max, 1e-9)
	// protein 27..33 widened by 30%
	assert.InDelta(t, 18.9, *params.Protein.Min, 1e-9)
	assert.InDelta(t, 42.9, *params.Protein.Max, 1e-9)

	// dairy-free has no provider code, so the next restriction wins
	assert.Equal(t, "vegan", params.Diet)
	// nightshade has no intolerance code and is dropped
	assert.Equal(t, []string{"seafood", "shellfish"}, params.Intolerances)
}

func TestBuildSearchQuery_NoMappedDiet(t *testing.T) {
	rules := DefaultRules()
	raw := baseRawProfile()
	raw.Restrictions = []string{"Low Sodium"}

	profile, err := NormalizeProfile(raw, rules)
	require.NoError(t, err)

	params := BuildSearchQuery(profile, "soup", "", 0, rules)

	assert.Empty(t, params.Diet)
	assert.Empty(t, params.Intolerances)
}

func TestShouldApplyNutritionProfile(t *testing.T) {
	full := baseRawProfile()

	noProtein := baseRawProfile()
	noProtein.NutritionPerMeal.Protein = RawNutrient{}

	noCalories := baseRawProfile()
	noCalories.NutritionPerMeal.Calories = RawNutrient{}

	noNutrition := baseRawProfile()
	noNutrition.NutritionPerMeal = nil

	tests := []struct {
		name string
		raw  *RawProfile
		want bool
	}{
		{"complete", &full, true},
		{"zero protein", &noProtein, false},
		{"zero calories", &noCalories, false},
		{"no nutrition block", &noNutrition, false},
		{"nil profile", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShouldApplyNutritionProfile(tt.raw))
		})
	}
}

func TestSearchParams_CloneDoesNotAlias(t *testing.T) {
	original := SearchParams{
		Calories:     newBounds(100, 200),
		Intolerances: []string{"egg"},
	}

	clone := original.Clone()
	*clone.Calories.Min = 1
	clone.Intolerances[0] = "soy"

	assert.Equal(t, 100.0, *original.Calories.Min)
	assert.Equal(t, "egg", original.Intolerances[0])
}

func TestBounds_Scale(t *testing.T) {
	var missing *Bounds
	assert.Nil(t, missing.Scale(0.5, 2))

	half := (&Bounds{Max: float(10)}).Scale(0.5, 2)
	assert.Nil(t, half.Min)
	assert.Equal(t, 20.0, *half.Max)
}
