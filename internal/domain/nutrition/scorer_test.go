package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateNutrientScore(t *testing.T) {
	tests := []struct {
		name             string
		actual           *float64
		target, min, max float64
		want             float64
	}{
		{"missing amount is neutral", nil, 30, 27, 33, 50},
		{"zero target is neutral", float(12), 0, 0, 0, 50},
		{"exact target", float(30), 30, 27, 33, 100},
		{"quarter of band", float(28.5), 30, 27, 33, 90},
		{"band edge", float(27), 30, 27, 33, 80},
		{"shortfall", float(15), 30, 27, 33, 80 - 100*12.0/27},
		{"total shortfall floors at zero", float(0), 30, 27, 33, 0},
		{"excess", float(40), 30, 27, 33, 80 - 80*7.0/33},
		{"huge excess floors at zero", float(1000), 30, 27, 33, 0},
		{"degenerate band", float(30), 30, 30, 30, 100},
		{"degenerate band off target", float(31), 31.5, 31, 31, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CalculateNutrientScore(tt.actual, tt.target, tt.min, tt.max), 1e-9)
		})
	}
}

func TestCalculateNutrientScore_Scenarios(t *testing.T) {
	t.Run("protein at target scores 100", func(t *testing.T) {
		assert.Equal(t, 100.0, CalculateNutrientScore(float(30), 30, 27, 33))
	})

	t.Run("protein shortfall lands strictly between 0 and 80", func(t *testing.T) {
		score := CalculateNutrientScore(float(15), 30, 27, 33)
		assert.Greater(t, score, 0.0)
		assert.Less(t, score, 80.0)
	})
}

func TestCalculateNutrientScore_MonotoneOutsideBand(t *testing.T) {
	target, min, max := 600.0, 540.0, 660.0

	prev := CalculateNutrientScore(float(max), target, min, max)
	for a := max + 10; a <= 2*max; a += 10 {
		score := CalculateNutrientScore(float(a), target, min, max)
		assert.LessOrEqual(t, score, prev, "excess %v", a)
		prev = score
	}

	prev = CalculateNutrientScore(float(min), target, min, max)
	for a := min - 10; a >= 0; a -= 10 {
		score := CalculateNutrientScore(float(a), target, min, max)
		assert.LessOrEqual(t, score, prev, "shortfall %v", a)
		prev = score
	}
}

func TestScoreNutrition_Weights(t *testing.T) {
	targets := MacroTargets{
		Calories: NutritionTargetRange{Target: 600, Min: 540, Max: 660},
		Protein:  NutritionTargetRange{Target: 30, Min: 27, Max: 33},
		Carbs:    NutritionTargetRange{Target: 60, Min: 54, Max: 66},
		Fat:      NutritionTargetRange{Target: 20, Min: 18, Max: 22},
	}

	t.Run("all on target", func(t *testing.T) {
		n := Nutrients{Calories: float(600), Protein: float(30), Carbs: float(60), Fat: float(20)}
		score, breakdown := ScoreNutrition(n, targets)
		assert.InDelta(t, 100, score, 1e-9)
		assert.Equal(t, ScoreBreakdown{Calories: 100, Protein: 100, Carbs: 100, Fat: 100}, breakdown)
	})

	t.Run("missing macros are neutral", func(t *testing.T) {
		n := Nutrients{Calories: float(600)}
		score, _ := ScoreNutrition(n, targets)
		assert.InDelta(t, 0.35*100+0.65*50, score, 1e-9)
	})
}

func TestScoreRecipes_DoesNotMutateInput(t *testing.T) {
	profile := &NutritionProfile{TargetNutrition: MacroTargets{
		Protein: NutritionTargetRange{Target: 30, Min: 27, Max: 33},
	}}
	recipes := []Recipe{{ID: 1, Nutrients: Nutrients{Protein: float(30)}}}

	scored := ScoreRecipes(recipes, profile)

	assert.Len(t, scored, 1)
	assert.Equal(t, recipes[0], scored[0].Recipe)
	assert.InDelta(t, 0.30*100+0.70*50, scored[0].NutritionScore, 1e-9)
}
