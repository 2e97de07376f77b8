package nutrition

import "strings"

// Category groups recommended ingredients by the nutrient they mainly supply.
type Category string

const (
	CategoryProtein   Category = "protein"
	CategoryCarb      Category = "carb"
	CategoryFat       Category = "fat"
	CategoryVegetable Category = "vegetable"
	CategoryFruit     Category = "fruit"
	CategoryHerb      Category = "herb"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryProtein,
	CategoryCarb,
	CategoryFat,
	CategoryVegetable,
	CategoryFruit,
	CategoryHerb,
}

// RuleSet holds the static dietary tables used by every pipeline stage.
// It is built once and never mutated; accessors hand out copies.
type RuleSet struct {
	allergyRelations map[string][]string
	allergyKeywords  map[string][]string
	intoleranceCodes map[string]string

	dietAliases     map[string]string
	dietCodes       map[string]string
	dietEquivalents map[string][]string
	dietExclusions  map[string][]string

	taxonomy          map[Category][]string
	highProteinPromos []string
	lowCarbPromos     []string
	healthyFatPromos  []string
	unhealthyGeneric  []string
}

// DefaultRules returns the rule tables used in production.
func DefaultRules() *RuleSet {
	return &RuleSet{
		// an allergy on the left implies every allergy on the right
		allergyRelations: map[string][]string{
			"seafood": {"Shellfish"},
			"gluten":  {"Wheat"},
			"lactose": {"Dairy"},
		},
		allergyKeywords: map[string][]string{
			"dairy":     {"milk", "cheese", "butter", "cream", "yogurt", "whey", "ghee"},
			"egg":       {"egg", "mayonnaise", "meringue"},
			"gluten":    {"wheat", "flour", "bread", "pasta", "barley", "rye", "couscous", "seitan"},
			"grain":     {"wheat", "rice", "oat", "corn", "barley", "rye", "quinoa"},
			"peanut":    {"peanut"},
			"seafood":   {"fish", "salmon", "tuna", "cod", "tilapia", "anchov", "sardine", "halibut", "trout"},
			"sesame":    {"sesame", "tahini"},
			"shellfish": {"shrimp", "prawn", "crab", "lobster", "clam", "mussel", "oyster", "scallop"},
			"soy":       {"soy", "tofu", "tempeh", "edamame", "miso"},
			"sulfite":   {"wine", "vinegar", "dried fruit"},
			"tree nut":  {"almond", "walnut", "cashew", "pecan", "pistachio", "hazelnut", "macadamia"},
			"wheat":     {"wheat", "flour", "bread", "pasta", "couscous", "semolina"},
		},
		intoleranceCodes: map[string]string{
			"dairy":     "dairy",
			"egg":       "egg",
			"gluten":    "gluten",
			"grain":     "grain",
			"peanut":    "peanut",
			"seafood":   "seafood",
			"sesame":    "sesame",
			"shellfish": "shellfish",
			"soy":       "soy",
			"sulfite":   "sulfite",
			"tree nut":  "tree nut",
			"wheat":     "wheat",
		},

		dietAliases: map[string]string{
			"gluten free":          "gluten-free",
			"dairy free":           "dairy-free",
			"ketogenic":            "keto",
			"pescetarian":          "pescatarian",
			"paleolithic":          "paleo",
			"whole 30":             "whole30",
			"low carb":             "low-carb",
			"fodmap friendly":      "low fodmap",
			"lacto-ovo vegetarian": "lacto ovo vegetarian",
		},
		dietCodes: map[string]string{
			"vegan":       "vegan",
			"vegetarian":  "vegetarian",
			"pescatarian": "pescetarian",
			"gluten-free": "gluten free",
			"keto":        "ketogenic",
			"paleo":       "paleo",
			"primal":      "primal",
			"whole30":     "whole30",
			"low fodmap":  "low fodmap",
		},
		dietEquivalents: map[string][]string{
			"vegan":       {"vegan"},
			"vegetarian":  {"vegetarian", "lacto ovo vegetarian", "lacto vegetarian", "ovo vegetarian", "vegan"},
			"pescatarian": {"pescatarian"},
			"gluten-free": {"gluten-free"},
			"dairy-free":  {"dairy-free"},
			"keto":        {"keto"},
			"paleo":       {"paleo"},
			"primal":      {"primal"},
			"whole30":     {"whole30"},
			"low fodmap":  {"low fodmap"},
		},
		dietExclusions: map[string][]string{
			"vegan": {"meat", "chicken", "beef", "pork", "lamb", "turkey", "bacon", "ham", "sausage",
				"fish", "salmon", "tuna", "shrimp", "egg", "milk", "cheese", "butter", "cream",
				"yogurt", "honey", "gelatin"},
			"vegetarian": {"meat", "chicken", "beef", "pork", "lamb", "turkey", "bacon", "ham",
				"sausage", "fish", "salmon", "tuna", "shrimp", "anchov", "gelatin"},
			"pescatarian": {"meat", "chicken", "beef", "pork", "lamb", "turkey", "bacon", "ham", "sausage"},
			"gluten-free": {"wheat", "flour", "bread", "pasta", "barley", "rye", "couscous", "seitan"},
			"dairy-free":  {"milk", "cheese", "butter", "cream", "yogurt", "whey"},
			"keto":        {"sugar", "rice", "pasta", "bread", "potato", "flour", "corn"},
			"paleo":       {"sugar", "flour", "bread", "pasta", "rice", "bean", "lentil", "peanut", "milk", "cheese"},
			"low-carb":    {"sugar", "rice", "pasta", "bread", "potato"},
			"whole30":     {"sugar", "flour", "bread", "rice", "bean", "milk", "cheese"},
		},

		taxonomy: map[Category][]string{
			CategoryProtein: {"chicken breast", "turkey", "salmon", "tuna", "eggs", "greek yogurt",
				"tofu", "tempeh", "lentils", "chickpeas", "black beans", "lean beef", "cottage cheese",
				"shrimp", "edamame"},
			CategoryCarb: {"quinoa", "brown rice", "oats", "sweet potato", "whole wheat pasta",
				"barley", "buckwheat", "whole grain bread", "potatoes"},
			CategoryFat: {"avocado", "olive oil", "almonds", "walnuts", "chia seeds", "flaxseed",
				"peanut butter", "cashews", "coconut oil"},
			CategoryVegetable: {"broccoli", "spinach", "kale", "bell pepper", "zucchini", "cauliflower",
				"carrots", "tomatoes", "asparagus", "brussels sprouts", "mushrooms"},
			CategoryFruit: {"blueberries", "strawberries", "banana", "apple", "orange", "lemon",
				"mango", "raspberries"},
			CategoryHerb: {"basil", "cilantro", "parsley", "rosemary", "thyme", "garlic", "ginger",
				"turmeric", "mint"},
		},
		highProteinPromos: []string{"chicken breast", "greek yogurt", "eggs", "lean beef", "tofu"},
		lowCarbPromos:     []string{"cauliflower rice", "zucchini noodles", "spaghetti squash"},
		healthyFatPromos:  []string{"avocado", "olive oil", "almonds"},
		unhealthyGeneric: []string{"processed meat", "trans fat", "high-fructose corn syrup",
			"refined sugar", "hydrogenated oil", "deep-fried", "white bread", "soda"},
	}
}

// normalizeLabel lowercases and trims a user- or provider-supplied label.
func normalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// canonicalDiet folds known label variants onto one spelling.
func (r *RuleSet) canonicalDiet(label string) string {
	normalized := normalizeLabel(label)
	if canonical, ok := r.dietAliases[normalized]; ok {
		return canonical
	}
	return normalized
}

// RelatedAllergies returns the allergies directly implied by label.
func (r *RuleSet) RelatedAllergies(label string) []string {
	return cloneStrings(r.allergyRelations[normalizeLabel(label)])
}

// AllergyKeywords resolves an allergy to the ingredient keywords that trigger it.
// Labels missing from the table match on their own lowercased name.
func (r *RuleSet) AllergyKeywords(label string) []string {
	normalized := normalizeLabel(label)
	if keywords, ok := r.allergyKeywords[normalized]; ok {
		return cloneStrings(keywords)
	}
	if normalized == "" {
		return nil
	}
	return []string{normalized}
}

// IntoleranceCode maps an allergy to the provider's intolerance filter code.
func (r *RuleSet) IntoleranceCode(label string) (string, bool) {
	code, ok := r.intoleranceCodes[normalizeLabel(label)]
	return code, ok
}

// DietCode maps a restriction to the provider's diet filter code.
func (r *RuleSet) DietCode(restriction string) (string, bool) {
	code, ok := r.dietCodes[r.canonicalDiet(restriction)]
	return code, ok
}

// DietExclusions lists ingredient keywords a restriction forbids.
func (r *RuleSet) DietExclusions(restriction string) []string {
	return cloneStrings(r.dietExclusions[r.canonicalDiet(restriction)])
}

// DeclaredDietSatisfies reports whether a provider-declared diet label
// confirms compliance with restriction.
func (r *RuleSet) DeclaredDietSatisfies(declared, restriction string) bool {
	canonicalRestriction := r.canonicalDiet(restriction)
	canonicalDeclared := r.canonicalDiet(declared)

	equivalents, ok := r.dietEquivalents[canonicalRestriction]
	if !ok {
		return canonicalDeclared == canonicalRestriction
	}
	for _, candidate := range equivalents {
		if candidate == canonicalDeclared {
			return true
		}
	}
	return false
}

// Taxonomy returns the full ingredient list for a category.
func (r *RuleSet) Taxonomy(category Category) []string {
	return cloneStrings(r.taxonomy[category])
}

// UnhealthyIngredients returns the generic avoid list.
func (r *RuleSet) UnhealthyIngredients() []string {
	return cloneStrings(r.unhealthyGeneric)
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
