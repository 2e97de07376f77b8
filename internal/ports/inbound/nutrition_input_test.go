package inbound

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNutrientInput_UnmarshalJSON(t *testing.T) {
	t.Run("bare number", func(t *testing.T) {
		var n NutrientInput
		require.NoError(t, json.Unmarshal([]byte(`42.5`), &n))
		assert.Equal(t, 42.5, n.Target)
		assert.Nil(t, n.Min)
	})

	t.Run("object with bounds", func(t *testing.T) {
		var n NutrientInput
		require.NoError(t, json.Unmarshal([]byte(`{"target":30,"min":27,"max":33}`), &n))
		assert.Equal(t, 30.0, n.Target)
		require.NotNil(t, n.Min)
		assert.Equal(t, 27.0, *n.Min)
		assert.Equal(t, 33.0, *n.Max)
	})

	t.Run("string is rejected", func(t *testing.T) {
		var n NutrientInput
		assert.Error(t, json.Unmarshal([]byte(`"thirty"`), &n))
	})
}

func TestNutritionBlock_PerMealTargets(t *testing.T) {
	t.Run("per meal wins", func(t *testing.T) {
		var block NutritionBlock
		body := `{"perMeal":{"calories":600,"protein":30},"daily":{"calories":9000}}`
		require.NoError(t, json.Unmarshal([]byte(body), &block))

		perMeal := block.PerMealTargets()
		require.NotNil(t, perMeal)
		assert.Equal(t, 600.0, perMeal.Calories.Target)
	})

	t.Run("daily divided by meals per day", func(t *testing.T) {
		var block NutritionBlock
		body := `{"daily":{"calories":2000,"protein":{"target":120,"min":100,"max":140}},"mealsPerDay":4}`
		require.NoError(t, json.Unmarshal([]byte(body), &block))

		perMeal := block.PerMealTargets()
		require.NotNil(t, perMeal)
		assert.Equal(t, 500.0, perMeal.Calories.Target)
		assert.Equal(t, 30.0, perMeal.Protein.Target)
		assert.Equal(t, 25.0, *perMeal.Protein.Min)
	})

	t.Run("daily defaults to three meals", func(t *testing.T) {
		block := NutritionBlock{Daily: &NutritionInput{Calories: NutrientInput{Target: 1800}}}
		assert.Equal(t, 600.0, block.PerMealTargets().Calories.Target)
	})

	t.Run("empty block", func(t *testing.T) {
		assert.Nil(t, (&NutritionBlock{}).PerMealTargets())
		var nilBlock *NutritionBlock
		assert.Nil(t, nilBlock.PerMealTargets())
	})
}

func TestSearchRecipesRequest_NutritionModeEnabled(t *testing.T) {
	off := false
	profile := &NutritionProfileInput{}

	assert.False(t, SearchRecipesRequest{}.NutritionModeEnabled())
	assert.True(t, SearchRecipesRequest{NutritionProfile: profile}.NutritionModeEnabled())
	assert.False(t, SearchRecipesRequest{NutritionProfile: profile, NutritionMode: &off}.NutritionModeEnabled())
}
