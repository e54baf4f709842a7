package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/Mesayaaa/Meal-Plan/internal/config"
	"github.com/Mesayaaa/Meal-Plan/internal/forms"
	"github.com/Mesayaaa/Meal-Plan/internal/llm"
	"github.com/Mesayaaa/Meal-Plan/internal/planner"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MockTextGenerator struct {
	Response string
	Prompt   string
}

func (m *MockTextGenerator) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	m.Prompt = prompt
	return llm.ContentResponse{
		Content: m.Response,
		Usage:   llm.TokenUsage{PromptTokens: 10, CompletionTokens: 5, Model: "mock"},
	}, nil
}

func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	return &config.Config{
		DatabasePath:   filepath.Join(dir, "meal-plan.db"),
		StorageBackend: backend,
		StoragePath:    filepath.Join(dir, "state"),
		LLMProvider:    "gemini",
	}
}

func newTestApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, nil, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestNewWithoutLLM(t *testing.T) {
	a := newTestApp(t, testConfig(t, "memory"))

	assert.False(t, a.AIEnabled())
	assert.True(t, a.Plans.Ready())
	assert.True(t, a.Prefs.Ready())

	_, err := a.Suggest(context.Background(), forms.Suggestion{IngredientsOnHand: "rice"})
	assert.True(t, errors.Is(err, ErrLLMDisabled))
	_, err = a.ImportRecipe(context.Background(), "https://example.test")
	assert.True(t, errors.Is(err, ErrLLMDisabled))
}

func TestAddMeal(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, testConfig(t, "memory"))

	r, err := a.AddMeal(ctx, forms.Meal{Day: "monday", MealType: "dinner", Recipe: "classic spaghetti carbonara"})
	require.NoError(t, err)
	assert.Equal(t, "Classic Spaghetti Carbonara", r.Name)

	slot, err := a.Plans.MealPlan().Slot(planner.Monday, planner.Dinner)
	require.NoError(t, err)
	require.NotNil(t, slot.Recipe)
	assert.Contains(t, slot.Recipe.Ingredients, "Spaghetti")

	_, err = a.AddMeal(ctx, forms.Meal{Day: "Monday", MealType: "Lunch", Recipe: "Unknown Stew"})
	assert.True(t, errors.Is(err, ErrRecipeNotFound))

	_, err = a.AddMeal(ctx, forms.Meal{Day: "Someday", MealType: "Lunch", Recipe: "Unknown Stew"})
	var ferr *forms.Error
	assert.True(t, errors.As(err, &ferr))

	require.NoError(t, a.RemoveMeal(ctx, "mon", "Dinner"))
	assert.Equal(t, 0, a.Plans.MealPlan().Planned())
}

func TestGroceryFlow(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, testConfig(t, "memory"))

	added, err := a.AddGroceryItem(ctx, forms.GroceryItem{Name: "  zucchini "})
	require.NoError(t, err)
	assert.True(t, added)
	added, err = a.AddGroceryItem(ctx, forms.GroceryItem{Name: "Apples"})
	require.NoError(t, err)
	assert.True(t, added)

	added, err = a.AddGroceryItem(ctx, forms.GroceryItem{Name: "APPLES"})
	require.NoError(t, err)
	assert.False(t, added)

	var ferr *forms.Error
	_, err = a.AddGroceryItem(ctx, forms.GroceryItem{Name: " "})
	assert.True(t, errors.As(err, &ferr))

	items := a.GroceryList()
	require.Len(t, items, 2)
	assert.Equal(t, "Apples", items[0].Name)
	assert.Equal(t, "zucchini", items[1].Name)
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	a := newTestApp(t, testConfig(t, "memory"))

	require.NoError(t, a.SetPreferences(ctx, forms.Preferences{DietaryPreferences: "vegan", CuisinePreferences: "Thai"}))
	assert.Equal(t, "vegan", a.Prefs.Preferences().DietaryPreferences)

	var ferr *forms.Error
	assert.True(t, errors.As(a.SetPreferences(ctx, forms.Preferences{DietaryPreferences: "vegan"}), &ferr))
	assert.Equal(t, "Thai", a.Prefs.Preferences().CuisinePreferences)
}

func TestSuggestUsesCleanedPreferences(t *testing.T) {
	ctx := context.Background()
	gen := &MockTextGenerator{Response: `{"recipes":[{"name":"Dal","ingredients":["lentils"],"cuisine":"Indian"}]}`}
	a := newTestApp(t, testConfig(t, "memory"), WithTextGenerator(gen))

	require.NoError(t, a.SetPreferences(ctx, forms.Preferences{
		DietaryPreferences: "vegan,, nut-free",
		CuisinePreferences: "Thai ,Indian",
	}))
	_, err := a.Suggest(ctx, forms.Suggestion{IngredientsOnHand: "lentils"})
	require.NoError(t, err)

	assert.Contains(t, gen.Prompt, "Dietary preferences: vegan, nut-free")
	assert.Contains(t, gen.Prompt, "Favourite cuisines: Thai, Indian")
}

func TestSuggestAddsToBook(t *testing.T) {
	ctx := context.Background()
	gen := &MockTextGenerator{Response: `{"recipes":[{"name":"Green Curry","ingredients":["tofu","curry paste"],"cuisine":"Thai"}]}`}
	a := newTestApp(t, testConfig(t, "memory"), WithTextGenerator(gen))
	require.True(t, a.AIEnabled())

	recipes, err := a.Suggest(ctx, forms.Suggestion{IngredientsOnHand: "tofu"})
	require.NoError(t, err)
	require.Len(t, recipes, 1)

	_, ok := a.Recipes.Get("green curry")
	assert.True(t, ok)

	_, err = a.AddMeal(ctx, forms.Meal{Day: "Friday", MealType: "Dinner", Recipe: "Green Curry"})
	require.NoError(t, err)

	usage, err := a.Metrics.GetDailyUsage(ctx, 1)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 1, usage[0].TotalExecution)
}

func TestStateSurvivesRestart(t *testing.T) {
	for _, backend := range []string{"sqlite", "file"} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(t, backend)

			a, err := New(ctx, cfg, nil)
			require.NoError(t, err)
			_, err = a.AddMeal(ctx, forms.Meal{Day: "Tuesday", MealType: "Breakfast", Recipe: "Avocado Toast with Egg"})
			require.NoError(t, err)
			_, err = a.AddGroceryItem(ctx, forms.GroceryItem{Name: "Coffee"})
			require.NoError(t, err)
			require.NoError(t, a.Close())

			restarted := newTestApp(t, cfg)
			assert.Equal(t, 1, restarted.Plans.MealPlan().Planned())
			assert.Len(t, restarted.Plans.ManualItems(), 1)
		})
	}
}
