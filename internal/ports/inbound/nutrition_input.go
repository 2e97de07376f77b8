package inbound

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
)

// DefaultMealsPerDay splits daily totals when the request does not say otherwise
const DefaultMealsPerDay = 3

// NutrientInput accepts either a bare number or {"target", "min", "max"}
type NutrientInput struct {
	Target float64  `json:"target"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler
func (n *NutrientInput) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*n = NutrientInput{}
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] != '{' {
		var target float64
		if err := json.Unmarshal(trimmed, &target); err != nil {
			return fmt.Errorf("nutrient must be a number or an object: %w", err)
		}
		*n = NutrientInput{Target: target}
		return nil
	}

	type plain NutrientInput
	var p plain
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return err
	}
	*n = NutrientInput(p)
	return nil
}

// NutritionInput is a four-macro nutrition block
type NutritionInput struct {
	Calories NutrientInput `json:"calories"`
	Protein  NutrientInput `json:"protein"`
	Carbs    NutrientInput `json:"carbs"`
	Fat      NutrientInput `json:"fat"`
}

// ToRaw converts the input to the domain representation
func (n NutritionInput) ToRaw() nutrition.RawNutrition {
	convert := func(in NutrientInput) nutrition.RawNutrient {
		return nutrition.RawNutrient{Target: in.Target, Min: in.Min, Max: in.Max}
	}
	return nutrition.RawNutrition{
		Calories: convert(n.Calories),
		Protein:  convert(n.Protein),
		Carbs:    convert(n.Carbs),
		Fat:      convert(n.Fat),
	}
}

// Divide returns per-meal values for daily totals
func (n NutritionInput) Divide(meals int) NutritionInput {
	if meals <= 0 {
		meals = DefaultMealsPerDay
	}
	d := float64(meals)
	split := func(in NutrientInput) NutrientInput {
		out := NutrientInput{Target: in.Target / d}
		if in.Min != nil {
			v := *in.Min / d
			out.Min = &v
		}
		if in.Max != nil {
			v := *in.Max / d
			out.Max = &v
		}
		return out
	}
	return NutritionInput{
		Calories: split(n.Calories),
		Protein:  split(n.Protein),
		Carbs:    split(n.Carbs),
		Fat:      split(n.Fat),
	}
}

// PerMealTargets resolves the block to per-meal targets. It returns nil when
// neither perMeal nor daily values were supplied.
func (b *NutritionBlock) PerMealTargets() *NutritionInput {
	if b == nil {
		return nil
	}
	if b.PerMeal != nil {
		out := *b.PerMeal
		return &out
	}
	if b.Daily != nil {
		out := b.Daily.Divide(b.MealsPerDay)
		return &out
	}
	return nil
}
