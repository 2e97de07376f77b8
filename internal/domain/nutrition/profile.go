// Package nutrition contains the nutrition-aware matching rules: profile
// normalization, provider query construction, dietary safety filtering,
// nutrition scoring and match aggregation.
//
// Every function in this package is pure. Inputs are never modified and each
// stage returns freshly built values.
package nutrition

import (
	"fmt"
	"math"
	"strings"
)

// Energy densities in kcal per gram
const (
	ProteinKcalPerGram = 4
	CarbKcalPerGram    = 4
	FatKcalPerGram     = 9
)

// DefaultRangeTolerance is the ± band applied when a target has no explicit min/max.
const DefaultRangeTolerance = 0.10

// Macro emphasis thresholds (grams per meal) that trigger ingredient promotion.
const (
	HighProteinThreshold = 30.0
	LowCarbThreshold     = 50.0
	HighFatThreshold     = 25.0
)

// NutritionTargetRange is a (min, target, max) triple for one macro.
type NutritionTargetRange struct {
	Target     float64 `json:"target"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Percentage *int    `json:"percentage,omitempty"`
}

// NewTargetRange builds a range, defaulting missing bounds to target ± 10%.
func NewTargetRange(target float64, min, max *float64) (NutritionTargetRange, error) {
	r := NutritionTargetRange{
		Target: target,
		Min:    target * (1 - DefaultRangeTolerance),
		Max:    target * (1 + DefaultRangeTolerance),
	}
	if min != nil {
		r.Min = *min
	}
	if max != nil {
		r.Max = *max
	}

	if r.Target < 0 || r.Min < 0 || r.Max < 0 {
		return NutritionTargetRange{}, ErrNegativeTarget
	}
	if r.Min > r.Target || r.Target > r.Max {
		return NutritionTargetRange{}, ErrInvalidRange
	}
	return r, nil
}

// MacroTargets holds the per-meal target range of each macro.
type MacroTargets struct {
	Calories NutritionTargetRange `json:"calories"`
	Protein  NutritionTargetRange `json:"protein"`
	Carbs    NutritionTargetRange `json:"carbs"`
	Fat      NutritionTargetRange `json:"fat"`
}

// DietaryProfile carries diet restrictions and the expanded allergy set.
type DietaryProfile struct {
	Restrictions []string `json:"restrictions"`
	Allergies    []string `json:"allergies"`
}

// RecommendedIngredients maps a category to ingredient names in display order.
type RecommendedIngredients map[Category][]string

// Flatten returns every distinct ingredient name across categories.
func (r RecommendedIngredients) Flatten() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, category := range Categories {
		for _, name := range r[category] {
			key := normalizeLabel(name)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// AvoidList groups ingredients a user should stay away from.
type AvoidList struct {
	Allergens  []string `json:"allergens"`
	Restricted []string `json:"restricted"`
	Unhealthy  []string `json:"unhealthy"`
}

// NutritionProfile is the normalized form of a user's health profile.
type NutritionProfile struct {
	UserID                 string                 `json:"userId"`
	Goal                   string                 `json:"goal,omitempty"`
	TargetNutrition        MacroTargets           `json:"targetNutrition"`
	DietaryProfile         DietaryProfile         `json:"dietaryProfile"`
	RecommendedIngredients RecommendedIngredients `json:"recommendedIngredients"`
	Avoid                  AvoidList              `json:"avoid"`
}

// RawNutrient is a single macro as supplied by the caller. Min and Max are optional.
type RawNutrient struct {
	Target float64
	Min    *float64
	Max    *float64
}

// RawNutrition is the per-meal nutrition block of a raw profile.
type RawNutrition struct {
	Calories RawNutrient
	Protein  RawNutrient
	Carbs    RawNutrient
	Fat      RawNutrient
}

// RawProfile is the un-normalized health profile.
type RawProfile struct {
	UserID           string
	NutritionPerMeal *RawNutrition
	Restrictions     []string
	Allergies        []string
	Goal             string
}

// NormalizeProfile expands a raw profile into a NutritionProfile.
func NormalizeProfile(raw RawProfile, rules *RuleSet) (*NutritionProfile, error) {
	if strings.TrimSpace(raw.UserID) == "" {
		return nil, ErrMissingUserID
	}
	if raw.NutritionPerMeal == nil {
		return nil, ErrMissingNutrition
	}

	targets, err := buildTargets(*raw.NutritionPerMeal)
	if err != nil {
		return nil, err
	}

	dietary := DietaryProfile{
		Restrictions: dedupeLabels(raw.Restrictions),
		Allergies:    ExpandAllergies(raw.Allergies, rules),
	}

	return &NutritionProfile{
		UserID:                 raw.UserID,
		Goal:                   raw.Goal,
		TargetNutrition:        targets,
		DietaryProfile:         dietary,
		RecommendedIngredients: buildRecommendedIngredients(targets, dietary, rules),
		Avoid:                  buildAvoidList(dietary, rules),
	}, nil
}

func buildTargets(raw RawNutrition) (MacroTargets, error) {
	var (
		targets MacroTargets
		err     error
	)
	if targets.Calories, err = NewTargetRange(raw.Calories.Target, raw.Calories.Min, raw.Calories.Max); err != nil {
		return MacroTargets{}, fmt.Errorf("calories: %w", err)
	}
	if targets.Protein, err = NewTargetRange(raw.Protein.Target, raw.Protein.Min, raw.Protein.Max); err != nil {
		return MacroTargets{}, fmt.Errorf("protein: %w", err)
	}
	if targets.Carbs, err = NewTargetRange(raw.Carbs.Target, raw.Carbs.Min, raw.Carbs.Max); err != nil {
		return MacroTargets{}, fmt.Errorf("carbs: %w", err)
	}
	if targets.Fat, err = NewTargetRange(raw.Fat.Target, raw.Fat.Min, raw.Fat.Max); err != nil {
		return MacroTargets{}, fmt.Errorf("fat: %w", err)
	}

	return withPercentages(targets), nil
}

// withPercentages sets each macro's share of target calories.
func withPercentages(t MacroTargets) MacroTargets {
	if t.Calories.Target <= 0 {
		return t
	}
	share := func(grams, density float64) *int {
		p := int(math.Round(grams * density / t.Calories.Target * 100))
		return &p
	}
	total := 100

	t.Calories.Percentage = &total
	t.Protein.Percentage = share(t.Protein.Target, ProteinKcalPerGram)
	t.Carbs.Percentage = share(t.Carbs.Target, CarbKcalPerGram)
	t.Fat.Percentage = share(t.Fat.Target, FatKcalPerGram)
	return t
}

// ExpandAllergies adds every allergy implied by the relationship table.
// It iterates to a fixed point over a set, so cycles in the table terminate,
// and expanding an already expanded list returns the same list.
func ExpandAllergies(allergies []string, rules *RuleSet) []string {
	expanded := dedupeLabels(allergies)
	seen := make(map[string]struct{}, len(expanded))
	for _, a := range expanded {
		seen[normalizeLabel(a)] = struct{}{}
	}

	for {
		added := false
		for _, allergy := range expanded {
			for _, related := range rules.RelatedAllergies(allergy) {
				key := normalizeLabel(related)
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				expanded = append(expanded, related)
				added = true
			}
		}
		if !added {
			return expanded
		}
	}
}

func buildRecommendedIngredients(targets MacroTargets, dietary DietaryProfile, rules *RuleSet) RecommendedIngredients {
	excluded := excludedKeywords(dietary, rules)
	allowed := func(names []string) []string {
		var out []string
		for _, name := range names {
			if !containsAny(name, excluded) {
				out = append(out, name)
			}
		}
		return out
	}

	recommended := make(RecommendedIngredients, len(Categories))
	for _, category := range Categories {
		recommended[category] = allowed(rules.Taxonomy(category))
	}

	if targets.Protein.Target > HighProteinThreshold {
		recommended[CategoryProtein] = promote(recommended[CategoryProtein], allowed(rules.highProteinPromos))
	}
	if targets.Carbs.Target > 0 && targets.Carbs.Target < LowCarbThreshold {
		recommended[CategoryCarb] = promote(recommended[CategoryCarb], allowed(rules.lowCarbPromos))
	}
	if targets.Fat.Target > HighFatThreshold {
		recommended[CategoryFat] = promote(recommended[CategoryFat], allowed(rules.healthyFatPromos))
	}

	return recommended
}

// promote inserts each entry at the front of list, in order, so the last
// promoted entry ends up first. Existing copies are left in place.
func promote(list, promoted []string) []string {
	out := cloneStrings(list)
	for _, name := range promoted {
		out = append([]string{name}, out...)
	}
	return out
}

func buildAvoidList(dietary DietaryProfile, rules *RuleSet) AvoidList {
	var allergens, restricted []string
	for _, allergy := range dietary.Allergies {
		allergens = append(allergens, rules.AllergyKeywords(allergy)...)
	}
	for _, restriction := range dietary.Restrictions {
		restricted = append(restricted, rules.DietExclusions(restriction)...)
	}

	return AvoidList{
		Allergens:  dedupeLabels(allergens),
		Restricted: dedupeLabels(restricted),
		Unhealthy:  dedupeLabels(rules.UnhealthyIngredients()),
	}
}

// excludedKeywords gathers allergen and diet keywords for ingredient exclusion.
func excludedKeywords(dietary DietaryProfile, rules *RuleSet) []string {
	var keywords []string
	for _, allergy := range dietary.Allergies {
		keywords = append(keywords, rules.AllergyKeywords(allergy)...)
	}
	for _, restriction := range dietary.Restrictions {
		keywords = append(keywords, rules.DietExclusions(restriction)...)
	}
	return keywords
}

// dedupeLabels drops blanks and case-insensitive duplicates, keeping first-seen order.
func dedupeLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		trimmed := strings.TrimSpace(label)
		key := strings.ToLower(trimmed)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// containsAny reports whether text contains any keyword, ignoring case.
func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(lower, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}
