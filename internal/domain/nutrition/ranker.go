package nutrition

import (
	"math"
	"sort"
	"strings"
)

// Aggregation weights and per-ingredient credit.
const (
	NutritionMatchWeight  = 0.7
	IngredientMatchWeight = 0.3
	PointsPerRecommended  = 10
	MaxRecommendedScore   = 100.0
)

// ScoredRecipe is a Recipe with the scores layered on by each stage.
type ScoredRecipe struct {
	Recipe
	NutritionScore             float64        `json:"nutritionScore"`
	Breakdown                  ScoreBreakdown `json:"breakdown"`
	RecommendedCount           int            `json:"recommendedCount"`
	NormalizedRecommendedScore float64        `json:"normalizedRecommendedScore"`
	MatchScore                 float64        `json:"matchScore"`
}

// NutritionMatchPercentage is the display form of NutritionScore.
func (s ScoredRecipe) NutritionMatchPercentage() int {
	return int(math.Round(s.NutritionScore))
}

// OverallMatchPercentage is the display form of MatchScore.
func (s ScoredRecipe) OverallMatchPercentage() int {
	return int(math.Round(s.MatchScore))
}

// CountRecommended counts distinct recommended names found in the ingredient text.
func CountRecommended(recipe Recipe, recommended []string) int {
	text := strings.ToLower(recipe.IngredientText)
	count := 0
	for _, name := range recommended {
		if name != "" && strings.Contains(text, strings.ToLower(name)) {
			count++
		}
	}
	return count
}

// RankByIngredients sets RecommendedCount on copies of the scored recipes.
func RankByIngredients(scored []ScoredRecipe, recommended RecommendedIngredients) []ScoredRecipe {
	names := recommended.Flatten()
	out := make([]ScoredRecipe, len(scored))
	for i, s := range scored {
		s.RecommendedCount = CountRecommended(s.Recipe, names)
		out[i] = s
	}
	return out
}

// MatchScore combines a nutrition score and a recommended-ingredient count.
// It returns the normalized ingredient score alongside the match score.
func MatchScore(nutritionScore float64, recommendedCount int) (match, normalized float64) {
	normalized = math.Min(MaxRecommendedScore, float64(recommendedCount*PointsPerRecommended))
	match = NutritionMatchWeight*nutritionScore + IngredientMatchWeight*normalized
	return match, normalized
}

// AggregateMatches computes match scores and orders the recipes by them,
// highest first. Ties keep their input order.
func AggregateMatches(scored []ScoredRecipe) []ScoredRecipe {
	out := make([]ScoredRecipe, len(scored))
	for i, s := range scored {
		s.MatchScore, s.NormalizedRecommendedScore = MatchScore(s.NutritionScore, s.RecommendedCount)
		out[i] = s
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}
