package nutrition

import "strings"

// IsAllergySafe fails the recipe on the first allergen keyword found in its
// ingredient text. Matching is plain case-insensitive substring containment.
func IsAllergySafe(recipe Recipe, allergies []string, rules *RuleSet) bool {
	text := strings.ToLower(recipe.IngredientText)
	for _, allergy := range allergies {
		for _, keyword := range rules.AllergyKeywords(allergy) {
			if strings.Contains(text, keyword) {
				return false
			}
		}
	}
	return true
}

// MeetsDietaryRestrictions checks every restriction. A declared diet label that
// confirms the restriction satisfies it immediately; otherwise the ingredient
// text is scanned for the restriction's excluded keywords.
func MeetsDietaryRestrictions(recipe Recipe, restrictions []string, rules *RuleSet) bool {
	text := strings.ToLower(recipe.IngredientText)
	for _, restriction := range restrictions {
		if declaresDiet(recipe, restriction, rules) {
			continue
		}
		for _, keyword := range rules.DietExclusions(restriction) {
			if strings.Contains(text, keyword) {
				return false
			}
		}
	}
	return true
}

func declaresDiet(recipe Recipe, restriction string, rules *RuleSet) bool {
	for _, declared := range recipe.DeclaredDiets {
		if rules.DeclaredDietSatisfies(declared, restriction) {
			return true
		}
	}
	return false
}

// FilterRecipesByNutrition keeps recipes passing both the allergy and diet
// checks. When nothing passes, the original slice is returned and fellBack is
// true: filtering only prioritizes once a search has already run.
func FilterRecipesByNutrition(recipes []Recipe, profile *NutritionProfile, rules *RuleSet) (filtered []Recipe, fellBack bool) {
	if profile == nil {
		return recipes, false
	}

	allergies := profile.DietaryProfile.Allergies
	restrictions := profile.DietaryProfile.Restrictions

	kept := make([]Recipe, 0, len(recipes))
	for _, recipe := range recipes {
		if IsAllergySafe(recipe, allergies, rules) && MeetsDietaryRestrictions(recipe, restrictions, rules) {
			kept = append(kept, recipe)
		}
	}

	if len(kept) == 0 && len(recipes) > 0 {
		return recipes, true
	}
	return kept, false
}
