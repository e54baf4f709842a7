// Package app wires the stores, services and collaborators shared by the CLI
// and the Telegram bot, and exposes the use cases both front ends call.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Mesayaaa/Meal-Plan/internal/config"
	"github.com/Mesayaaa/Meal-Plan/internal/database"
	"github.com/Mesayaaa/Meal-Plan/internal/forms"
	"github.com/Mesayaaa/Meal-Plan/internal/llm"
	"github.com/Mesayaaa/Meal-Plan/internal/logging"
	"github.com/Mesayaaa/Meal-Plan/internal/metrics"
	"github.com/Mesayaaa/Meal-Plan/internal/planner"
	"github.com/Mesayaaa/Meal-Plan/internal/preferences"
	"github.com/Mesayaaa/Meal-Plan/internal/recipe"
	"github.com/Mesayaaa/Meal-Plan/internal/shopping"
	"github.com/Mesayaaa/Meal-Plan/internal/storage"
	"github.com/Mesayaaa/Meal-Plan/internal/suggest"

	"go.uber.org/zap"
)

var (
	// ErrLLMDisabled is returned by AI features when no provider is configured.
	ErrLLMDisabled = errors.New("AI features are disabled: no LLM provider configured")
	// ErrRecipeNotFound is returned when a recipe name is not in the book.
	ErrRecipeNotFound = errors.New("recipe not found")
)

// App holds the application's dependencies.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	db     *database.DB

	Plans     *planner.PlanStore
	Prefs     *preferences.Store
	Recipes   *recipe.Book
	Metrics   *metrics.Store
	Suggester *suggest.Service
	Clipper   *recipe.Clipper
	Forms     *forms.Validator

	textGen llm.TextGenerator
}

// Option customizes New.
type Option func(*options)

type options struct {
	textGen llm.TextGenerator
}

// WithTextGenerator uses gen instead of building a provider from config.
func WithTextGenerator(gen llm.TextGenerator) Option {
	return func(o *options) { o.textGen = gen }
}

// New opens the database, loads every store and builds the LLM-backed
// services when a provider is configured.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	logger = logging.OrNop(logger)
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	kv, err := newKV(cfg, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	a := &App{
		cfg:     cfg,
		logger:  logger,
		db:      db,
		Plans:   planner.Open(ctx, kv, logger.Named("plans")),
		Prefs:   preferences.Open(ctx, kv, logger.Named("preferences")),
		Recipes: recipe.OpenBook(ctx, kv, logger.Named("recipes")),
		Metrics: metrics.NewStore(db.SQL),
		Forms:   forms.New(),
	}

	a.textGen = o.textGen
	if a.textGen == nil {
		gen, err := llm.New(ctx, cfg)
		if err != nil {
			logger.Info("AI features disabled", zap.String("reason", err.Error()))
		} else {
			a.textGen = gen
		}
	}
	if a.textGen != nil {
		a.Suggester = suggest.NewService(a.textGen, a.Metrics, logger.Named("suggest"))
		a.Clipper = recipe.NewClipper(a.textGen, a.Metrics)
	}

	logger.Info("app ready",
		zap.String("storage_backend", cfg.StorageBackend),
		zap.Bool("ai_enabled", a.textGen != nil),
	)
	return a, nil
}

func newKV(cfg *config.Config, db *database.DB) (storage.Store, error) {
	switch cfg.StorageBackend {
	case "sqlite":
		return storage.NewSQLStore(db.SQL), nil
	case "file":
		fs, err := storage.NewFileStore(cfg.StoragePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open file store: %w", err)
		}
		return fs, nil
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}
}

// Close releases the LLM client and the database.
func (a *App) Close() error {
	var errs []error
	if c, ok := a.textGen.(llm.Closer); ok {
		errs = append(errs, c.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}

// AIEnabled reports whether suggestions and recipe import are available.
func (a *App) AIEnabled() bool {
	return a.textGen != nil
}

// AddMeal validates the form, looks the recipe up by name and plans it.
func (a *App) AddMeal(ctx context.Context, form forms.Meal) (recipe.Recipe, error) {
	if err := a.Forms.Validate(&form); err != nil {
		return recipe.Recipe{}, err
	}
	day, err := planner.ParseDay(form.Day)
	if err != nil {
		return recipe.Recipe{}, err
	}
	mealType, err := planner.ParseMealType(form.MealType)
	if err != nil {
		return recipe.Recipe{}, err
	}

	r, ok := a.Recipes.Get(form.Recipe)
	if !ok {
		return recipe.Recipe{}, fmt.Errorf("%w: %q", ErrRecipeNotFound, form.Recipe)
	}
	if err := a.Plans.AddMeal(ctx, day, mealType, r); err != nil {
		return recipe.Recipe{}, err
	}
	return r, nil
}

// RemoveMeal empties a slot given by name.
func (a *App) RemoveMeal(ctx context.Context, dayName, mealTypeName string) error {
	day, err := planner.ParseDay(dayName)
	if err != nil {
		return err
	}
	mealType, err := planner.ParseMealType(mealTypeName)
	if err != nil {
		return err
	}
	return a.Plans.RemoveMeal(ctx, day, mealType)
}

// AddGroceryItem validates and adds a manual grocery item. It reports false
// when the item was already on the list.
func (a *App) AddGroceryItem(ctx context.Context, form forms.GroceryItem) (bool, error) {
	if err := a.Forms.Validate(&form); err != nil {
		return false, err
	}
	return a.Plans.AddManualGroceryItemWithNotes(ctx, form.Name, form.Notes)
}

// GroceryList returns the grocery list sorted for display.
func (a *App) GroceryList() []shopping.Item {
	return shopping.SortForDisplay(a.Plans.GroceryList())
}

// SetPreferences validates and stores new preferences.
func (a *App) SetPreferences(ctx context.Context, form forms.Preferences) error {
	if err := a.Forms.Validate(&form); err != nil {
		return err
	}
	return a.Prefs.SetPreferences(ctx, preferences.Preferences{
		DietaryPreferences: form.DietaryPreferences,
		CuisinePreferences: form.CuisinePreferences,
	})
}

// Suggest asks for recipes matching the stored preferences and the given
// ingredients. Suggested recipes are added to the book so they can be planned.
func (a *App) Suggest(ctx context.Context, form forms.Suggestion) ([]recipe.Recipe, error) {
	if err := a.Forms.Validate(&form); err != nil {
		return nil, err
	}
	if a.Suggester == nil {
		return nil, ErrLLMDisabled
	}

	prefs := a.Prefs.Preferences()
	recipes, err := a.Suggester.Suggest(ctx, suggest.Criteria{
		DietaryPreferences: strings.Join(prefs.Dietary(), ", "),
		CuisinePreferences: strings.Join(prefs.Cuisines(), ", "),
		IngredientsOnHand:  form.IngredientsOnHand,
	})
	if err != nil {
		return nil, err
	}

	for _, r := range recipes {
		if err := a.Recipes.Add(ctx, r); err != nil {
			a.logger.Warn("failed to add suggested recipe", zap.String("recipe", r.Name), zap.Error(err))
		}
	}
	return recipes, nil
}

// ImportRecipe clips a recipe from url into the book.
func (a *App) ImportRecipe(ctx context.Context, url string) (recipe.Recipe, error) {
	if a.Clipper == nil {
		return recipe.Recipe{}, ErrLLMDisabled
	}
	r, err := a.Clipper.Clip(ctx, url)
	if err != nil {
		return recipe.Recipe{}, err
	}
	if err := a.Recipes.Add(ctx, r); err != nil {
		return recipe.Recipe{}, err
	}
	a.logger.Info("recipe imported", zap.String("recipe", r.Name), zap.String("url", url))
	return r, nil
}

// Health reports process metrics and the size of the data directory.
func (a *App) Health() metrics.SysHealth {
	dataPath := filepath.Dir(a.cfg.DatabasePath)
	if a.cfg.StorageBackend == "file" {
		dataPath = a.cfg.StoragePath
	}
	return metrics.GetSysHealth(dataPath)
}
