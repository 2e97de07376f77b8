package nutrition

// Pre-filter widening factors applied to the profile's own bands.
const (
	CalorieQueryLowFactor  = 0.8
	CalorieQueryHighFactor = 1.2
	MacroQueryLowFactor    = 0.7
	MacroQueryHighFactor   = 1.3
)

// Bounds is an optional numeric filter. A nil bound is not sent to the provider.
type Bounds struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Scale returns a copy with each present bound multiplied by its factor.
func (b *Bounds) Scale(lowFactor, highFactor float64) *Bounds {
	if b == nil {
		return nil
	}
	out := &Bounds{}
	if b.Min != nil {
		v := *b.Min * lowFactor
		out.Min = &v
	}
	if b.Max != nil {
		v := *b.Max * highFactor
		out.Max = &v
	}
	return out
}

func newBounds(min, max float64) *Bounds {
	return &Bounds{Min: &min, Max: &max}
}

// SearchParams is the provider-neutral search request.
type SearchParams struct {
	Query              string   `json:"query"`
	Cuisine            string   `json:"cuisine,omitempty"`
	Calories           *Bounds  `json:"calories,omitempty"`
	Protein            *Bounds  `json:"protein,omitempty"`
	Carbs              *Bounds  `json:"carbs,omitempty"`
	Fat                *Bounds  `json:"fat,omitempty"`
	Diet               string   `json:"diet,omitempty"`
	Intolerances       []string `json:"intolerances,omitempty"`
	Number             int      `json:"number,omitempty"`
	AddRecipeNutrition bool     `json:"addRecipeNutrition"`
}

// Clone returns a deep copy so tiers can derive parameters without aliasing.
func (p SearchParams) Clone() SearchParams {
	out := p
	out.Calories = p.Calories.Scale(1, 1)
	out.Protein = p.Protein.Scale(1, 1)
	out.Carbs = p.Carbs.Scale(1, 1)
	out.Fat = p.Fat.Scale(1, 1)
	out.Intolerances = cloneStrings(p.Intolerances)
	return out
}

// HasNutritionFilters reports whether any numeric bound is set.
func (p SearchParams) HasNutritionFilters() bool {
	return p.Calories != nil || p.Protein != nil || p.Carbs != nil || p.Fat != nil
}

// BuildSearchQuery converts a normalized profile into provider search parameters.
func BuildSearchQuery(profile *NutritionProfile, query, cuisine string, number int, rules *RuleSet) SearchParams {
	t := profile.TargetNutrition
	params := SearchParams{
		Query:              query,
		Cuisine:            cuisine,
		Calories:           newBounds(t.Calories.Min*CalorieQueryLowFactor, t.Calories.Max*CalorieQueryHighFactor),
		Protein:            newBounds(t.Protein.Min*MacroQueryLowFactor, t.Protein.Max*MacroQueryHighFactor),
		Carbs:              newBounds(t.Carbs.Min*MacroQueryLowFactor, t.Carbs.Max*MacroQueryHighFactor),
		Fat:                newBounds(t.Fat.Min*MacroQueryLowFactor, t.Fat.Max*MacroQueryHighFactor),
		Number:             number,
		AddRecipeNutrition: true,
	}

	// only one diet code is ever sent; the first mapped restriction wins
	for _, restriction := range profile.DietaryProfile.Restrictions {
		if code, ok := rules.DietCode(restriction); ok {
			params.Diet = code
			break
		}
	}

	seen := make(map[string]struct{})
	for _, allergy := range profile.DietaryProfile.Allergies {
		code, ok := rules.IntoleranceCode(allergy)
		if !ok {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		params.Intolerances = append(params.Intolerances, code)
	}

	return params
}

// ShouldApplyNutritionProfile gates the nutrition-aware branch. Both a calorie
// and a protein target must be present and non-zero.
func ShouldApplyNutritionProfile(raw *RawProfile) bool {
	if raw == nil || raw.NutritionPerMeal == nil {
		return false
	}
	return raw.NutritionPerMeal.Calories.Target != 0 && raw.NutritionPerMeal.Protein.Target != 0
}
