package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountRecommended(t *testing.T) {
	recipe := recipeWith(1, "grilled chicken breast with brown rice and spinach")

	count := CountRecommended(recipe, []string{"chicken breast", "Brown Rice", "spinach", "kale", ""})

	assert.Equal(t, 3, count)
}

func TestRankByIngredients_CountsDistinctNames(t *testing.T) {
	recommended := RecommendedIngredients{
		CategoryProtein:   {"tofu", "tofu", "tempeh"},
		CategoryVegetable: {"spinach"},
	}
	scored := []ScoredRecipe{
		{Recipe: recipeWith(1, "tofu and spinach stir fry")},
		{Recipe: recipeWith(2, "plain toast")},
	}

	ranked := RankByIngredients(scored, recommended)

	require.Len(t, ranked, 2)
	assert.Equal(t, 2, ranked[0].RecommendedCount)
	assert.Equal(t, 0, ranked[1].RecommendedCount)
	assert.Zero(t, scored[0].RecommendedCount, "input must not be mutated")
}

func TestMatchScore(t *testing.T) {
	tests := []struct {
		name           string
		nutrition      float64
		count          int
		wantMatch      float64
		wantNormalized float64
	}{
		{"no ingredients", 80, 0, 56, 0},
		{"some ingredients", 80, 4, 68, 40},
		{"capped at 100", 100, 15, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, normalized := MatchScore(tt.nutrition, tt.count)
			assert.InDelta(t, tt.wantMatch, match, 1e-9)
			assert.Equal(t, tt.wantNormalized, normalized)

			// pure: same inputs, same output
			again, _ := MatchScore(tt.nutrition, tt.count)
			assert.Equal(t, match, again)
		})
	}
}

func TestAggregateMatches(t *testing.T) {
	t.Run("descending order", func(t *testing.T) {
		scored := []ScoredRecipe{
			{Recipe: Recipe{ID: 1}, NutritionScore: 50},
			{Recipe: Recipe{ID: 2}, NutritionScore: 90},
			{Recipe: Recipe{ID: 3}, NutritionScore: 70, RecommendedCount: 3},
		}

		out := AggregateMatches(scored)

		assert.Equal(t, []int{2, 3, 1}, ids(out))
		assert.Zero(t, scored[1].MatchScore, "input must not be mutated")
	})

	t.Run("ties keep input order", func(t *testing.T) {
		scored := []ScoredRecipe{
			{Recipe: Recipe{ID: 10}, NutritionScore: 60, RecommendedCount: 2},
			{Recipe: Recipe{ID: 11}, NutritionScore: 90},
			{Recipe: Recipe{ID: 12}, NutritionScore: 60, RecommendedCount: 2},
			{Recipe: Recipe{ID: 13}, NutritionScore: 60, RecommendedCount: 2},
		}

		out := AggregateMatches(scored)

		assert.Equal(t, []int{11, 10, 12, 13}, ids(out))
	})

	t.Run("display percentages round", func(t *testing.T) {
		out := AggregateMatches([]ScoredRecipe{{NutritionScore: 72.6, RecommendedCount: 1}})

		require.Len(t, out, 1)
		assert.Equal(t, 73, out[0].NutritionMatchPercentage())
		// 0.7*72.6 + 0.3*10 = 53.82
		assert.Equal(t, 54, out[0].OverallMatchPercentage())
	})
}

func ids(scored []ScoredRecipe) []int {
	out := make([]int, 0, len(scored))
	for _, s := range scored {
		out = append(out, s.ID)
	}
	return out
}
