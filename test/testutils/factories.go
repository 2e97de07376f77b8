// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/alchemorsel/nutrimatch/internal/domain/nutrition"
	"github.com/alchemorsel/nutrimatch/internal/ports/inbound"
	"github.com/alchemorsel/nutrimatch/internal/ports/outbound"
)

// RecipeFactory provides methods to create provider recipes for tests
type RecipeFactory struct {
	faker  *gofakeit.Faker
	nextID int
}

// NewRecipeFactory creates a new recipe factory with seeded faker
func NewRecipeFactory(seed int64) *RecipeFactory {
	return &RecipeFactory{
		faker:  gofakeit.New(seed),
		nextID: 1000,
	}
}

// RecipeSource creates a random provider recipe carrying structured nutrition
func (f *RecipeFactory) RecipeSource() nutrition.RecipeSource {
	f.nextID++
	return NewRecipeSourceBuilder(f.nextID).
		WithTitle(f.faker.Dessert() + " " + f.faker.Noun()).
		WithNutrition(
			f.faker.Float64Range(250, 900),
			f.faker.Float64Range(5, 60),
			f.faker.Float64Range(10, 110),
			f.faker.Float64Range(3, 45),
		).
		WithIngredients(f.faker.Vegetable(), f.faker.Fruit(), f.faker.Vegetable()).
		WithReadyIn(f.faker.IntRange(10, 90)).
		Build()
}

// SearchResult creates a provider search result with count random recipes
func (f *RecipeFactory) SearchResult(count int) *outbound.SearchResult {
	res := &outbound.SearchResult{TotalResults: count}
	for i := 0; i < count; i++ {
		res.Results = append(res.Results, f.RecipeSource())
	}
	return res
}

// RecipeSourceBuilder provides a fluent interface for building provider recipes
type RecipeSourceBuilder struct {
	src nutrition.RecipeSource
}

// NewRecipeSourceBuilder creates a builder with sensible defaults
func NewRecipeSourceBuilder(id int) *RecipeSourceBuilder {
	return &RecipeSourceBuilder{src: nutrition.RecipeSource{
		ID:             id,
		Title:          "Test Recipe",
		Image:          "https://img.example/recipe.jpg",
		ReadyInMinutes: 30,
		Servings:       2,
	}}
}

// WithTitle sets the title
func (b *RecipeSourceBuilder) WithTitle(title string) *RecipeSourceBuilder {
	b.src.Title = title
	return b
}

// WithSummary sets the summary
func (b *RecipeSourceBuilder) WithSummary(summary string) *RecipeSourceBuilder {
	b.src.Summary = summary
	return b
}

// WithNutrition sets the structured nutrients array
func (b *RecipeSourceBuilder) WithNutrition(calories, protein, carbs, fat float64) *RecipeSourceBuilder {
	b.src.Nutrients = []nutrition.NutrientEntry{
		{Name: nutrition.NutrientCalories, Amount: calories, Unit: "kcal"},
		{Name: nutrition.NutrientProtein, Amount: protein, Unit: "g"},
		{Name: nutrition.NutrientCarbs, Amount: carbs, Unit: "g"},
		{Name: nutrition.NutrientFat, Amount: fat, Unit: "g"},
	}
	return b
}

// WithIngredients sets the ingredient names
func (b *RecipeSourceBuilder) WithIngredients(names ...string) *RecipeSourceBuilder {
	b.src.Ingredients = append([]string(nil), names...)
	return b
}

// WithDiets sets the declared diets
func (b *RecipeSourceBuilder) WithDiets(diets ...string) *RecipeSourceBuilder {
	b.src.Diets = append([]string{}, diets...)
	return b
}

// WithReadyIn sets the preparation time in minutes
func (b *RecipeSourceBuilder) WithReadyIn(minutes int) *RecipeSourceBuilder {
	b.src.ReadyInMinutes = minutes
	return b
}

// Build returns the recipe
func (b *RecipeSourceBuilder) Build() nutrition.RecipeSource {
	return b.src
}

// ProfileFactory creates nutrition profile inputs
type ProfileFactory struct {
	faker *gofakeit.Faker
}

// NewProfileFactory creates a new profile factory with seeded faker
func NewProfileFactory(seed int64) *ProfileFactory {
	return &ProfileFactory{faker: gofakeit.New(seed)}
}

// ProfileInput creates a search profile with per-meal targets and the given
// restrictions and allergies.
func (f *ProfileFactory) ProfileInput(restrictions, allergies []string) *inbound.NutritionProfileInput {
	return &inbound.NutritionProfileInput{
		UserID:           f.faker.UUID(),
		NutritionPerMeal: f.PerMeal(),
		Restrictions:     restrictions,
		Allergies:        allergies,
		Goal:             f.faker.RandomString([]string{"maintain", "lose_weight", "build_muscle"}),
	}
}

// PerMeal creates per-meal targets without explicit ranges
func (f *ProfileFactory) PerMeal() *inbound.NutritionInput {
	return &inbound.NutritionInput{
		Calories: inbound.NutrientInput{Target: float64(f.faker.IntRange(400, 800))},
		Protein:  inbound.NutrientInput{Target: float64(f.faker.IntRange(20, 45))},
		Carbs:    inbound.NutrientInput{Target: float64(f.faker.IntRange(30, 90))},
		Fat:      inbound.NutrientInput{Target: float64(f.faker.IntRange(10, 30))},
	}
}

// RawProfile creates a raw domain profile for pure-function tests
func (f *ProfileFactory) RawProfile(restrictions, allergies []string) nutrition.RawProfile {
	return f.ProfileInput(restrictions, allergies).ToRaw()
}

// FixedClock returns a clock function pinned to t
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
