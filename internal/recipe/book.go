package recipe

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Mesayaaa/Meal-Plan/internal/logging"
	"github.com/Mesayaaa/Meal-Plan/internal/storage"

	"go.uber.org/zap"
)

// StorageKey is the key the working set is persisted under.
const StorageKey = "recipes"

// Book is the working set of known recipes, keyed by case-insensitive name.
type Book struct {
	mu      sync.RWMutex
	kv      storage.Store
	logger  *zap.Logger
	recipes map[string]Recipe
}

// OpenBook loads the working set from kv. A missing record seeds the book
// with Samples; an unreadable one is logged and starts an empty book.
func OpenBook(ctx context.Context, kv storage.Store, logger *zap.Logger) *Book {
	logger = logging.OrNop(logger)
	b := &Book{kv: kv, logger: logger, recipes: make(map[string]Recipe)}

	var stored []Recipe
	err := storage.LoadJSON(ctx, kv, StorageKey, &stored)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		stored = Samples()
	case err != nil:
		logger.Error("failed to load recipes, starting empty", zap.Error(err))
		stored = nil
	}

	for _, r := range stored {
		if Key(r.Name) == "" {
			continue
		}
		b.recipes[Key(r.Name)] = r.Clone()
	}
	return b
}

// Add stores r, replacing any recipe with the same name.
func (b *Book) Add(ctx context.Context, r Recipe) error {
	if Key(r.Name) == "" {
		return fmt.Errorf("recipe name is required")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.recipes[Key(r.Name)] = r.Clone()
	if err := storage.SaveJSON(ctx, b.kv, StorageKey, b.sortedLocked()); err != nil {
		b.logger.Warn("failed to save recipes", zap.String("recipe", r.Name), zap.Error(err))
	}
	return nil
}

// Get looks a recipe up by name, ignoring case and surrounding spaces.
func (b *Book) Get(name string) (Recipe, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	r, ok := b.recipes[Key(name)]
	if !ok {
		return Recipe{}, false
	}
	return r.Clone(), true
}

// List returns every recipe sorted by name.
func (b *Book) List() []Recipe {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sortedLocked()
}

func (b *Book) sortedLocked() []Recipe {
	out := make([]Recipe, 0, len(b.recipes))
	for _, r := range b.recipes {
		out = append(out, r.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}
