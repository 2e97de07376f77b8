package nutrition

import "math"

// NeutralScore is given to a macro whose amount is unknown or whose target is 0.
const NeutralScore = 50.0

// Composite weights; they sum to 1.
const (
	CaloriesWeight = 0.35
	ProteinWeight  = 0.30
	CarbsWeight    = 0.20
	FatWeight      = 0.15
)

// Band scoring constants
const (
	PerfectScore    = 100.0
	BandEdgeScore   = 80.0
	ShortfallFactor = 100.0
	ExcessFactor    = 80.0
)

// ScoreBreakdown is the per-macro sub-score set.
type ScoreBreakdown struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// CalculateNutrientScore scores one amount against its target range on 0..100.
func CalculateNutrientScore(actual *float64, target, min, max float64) float64 {
	if actual == nil || target == 0 {
		return NeutralScore
	}
	a := *actual

	switch {
	case a == target:
		return PerfectScore

	case a >= min && a <= max:
		if max == min {
			return PerfectScore
		}
		position := (a - min) / (max - min)
		return BandEdgeScore + 20*(1-math.Abs(0.5-position)*2)

	case a < min:
		if min <= 0 {
			return 0
		}
		return math.Max(0, BandEdgeScore-ShortfallFactor*(min-a)/min)

	default:
		if max <= 0 {
			return 0
		}
		return math.Max(0, BandEdgeScore-ExcessFactor*(a-max)/max)
	}
}

// ScoreNutrition returns the weighted composite and its breakdown.
func ScoreNutrition(n Nutrients, targets MacroTargets) (float64, ScoreBreakdown) {
	b := ScoreBreakdown{
		Calories: CalculateNutrientScore(n.Calories, targets.Calories.Target, targets.Calories.Min, targets.Calories.Max),
		Protein:  CalculateNutrientScore(n.Protein, targets.Protein.Target, targets.Protein.Min, targets.Protein.Max),
		Carbs:    CalculateNutrientScore(n.Carbs, targets.Carbs.Target, targets.Carbs.Min, targets.Carbs.Max),
		Fat:      CalculateNutrientScore(n.Fat, targets.Fat.Target, targets.Fat.Min, targets.Fat.Max),
	}
	total := CaloriesWeight*b.Calories + ProteinWeight*b.Protein + CarbsWeight*b.Carbs + FatWeight*b.Fat
	return total, b
}

// ScoreRecipes layers nutrition scores onto each recipe.
func ScoreRecipes(recipes []Recipe, profile *NutritionProfile) []ScoredRecipe {
	out := make([]ScoredRecipe, 0, len(recipes))
	for _, recipe := range recipes {
		score, breakdown := ScoreNutrition(recipe.Nutrients, profile.TargetNutrition)
		out = append(out, ScoredRecipe{
			Recipe:         recipe,
			NutritionScore: score,
			Breakdown:      breakdown,
		})
	}
	return out
}
