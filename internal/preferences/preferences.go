// Package preferences holds the user's dietary and cuisine preferences that
// seed recipe suggestions.
package preferences

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Mesayaaa/Meal-Plan/internal/logging"
	"github.com/Mesayaaa/Meal-Plan/internal/storage"

	"go.uber.org/zap"
)

// StorageKey is the key preferences are persisted under.
const StorageKey = "userPreferences"

// ErrNotReady is returned by SetPreferences before Load.
var ErrNotReady = errors.New("preference store not loaded")

// Preferences are free-text, comma-separated lists.
type Preferences struct {
	DietaryPreferences string `json:"dietaryPreferences"`
	CuisinePreferences string `json:"cuisinePreferences"`
}

// Defaults returns the preferences of a first run.
func Defaults() Preferences {
	return Preferences{
		DietaryPreferences: "vegetarian",
		CuisinePreferences: "Italian",
	}
}

// Dietary splits DietaryPreferences on commas, dropping blanks.
func (p Preferences) Dietary() []string { return splitList(p.DietaryPreferences) }

// Cuisines splits CuisinePreferences on commas, dropping blanks.
func (p Preferences) Cuisines() []string { return splitList(p.CuisinePreferences) }

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Store keeps the current preferences and writes them through to kv.
type Store struct {
	mu     sync.RWMutex
	kv     storage.Store
	logger *zap.Logger
	ready  bool
	prefs  Preferences
}

// NewStore returns an uninitialized store.
func NewStore(kv storage.Store, logger *zap.Logger) *Store {
	logger = logging.OrNop(logger)
	return &Store{kv: kv, logger: logger}
}

// Open builds a store and loads its persisted state.
func Open(ctx context.Context, kv storage.Store, logger *zap.Logger) *Store {
	s := NewStore(kv, logger)
	s.Load(ctx)
	return s
}

// Load reads the persisted preferences once, falling back to Defaults when
// the record is missing or unreadable. A stored record replaces the defaults
// as a whole, so a field missing from it is empty.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return
	}

	var prefs Preferences
	err := storage.LoadJSON(ctx, s.kv, StorageKey, &prefs)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		prefs = Defaults()
	case err != nil:
		s.logger.Error("failed to load preferences, using defaults", zap.Error(err))
		prefs = Defaults()
	}

	s.prefs = prefs
	s.ready = true
}

// Ready reports whether Load has completed.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// Preferences returns the current preferences, or the zero value before Load.
func (s *Store) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SetPreferences replaces the preferences wholesale. A failed write is logged
// and the new value is kept.
func (s *Store) SetPreferences(ctx context.Context, prefs Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return ErrNotReady
	}

	s.prefs = prefs
	if err := storage.SaveJSON(ctx, s.kv, StorageKey, prefs); err != nil {
		s.logger.Warn("failed to persist preferences", zap.Error(err))
	}
	return nil
}
