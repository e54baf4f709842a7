package planner

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/Mesayaaa/Meal-Plan/internal/logging"
	"github.com/Mesayaaa/Meal-Plan/internal/recipe"
	"github.com/Mesayaaa/Meal-Plan/internal/shopping"
	"github.com/Mesayaaa/Meal-Plan/internal/storage"

	"go.uber.org/zap"
)

// Keys of the records the plan store persists.
const (
	MealPlanKey    = "mealPlan"
	ManualItemsKey = "manualGroceryItems"
	OverlayKey     = "groceryItemsStatus"
)

// ErrNotReady is returned by mutators called before Load.
var ErrNotReady = errors.New("plan store not loaded")

// PlanStore owns the weekly meal plan, the manual grocery items and the
// completion overlay. Every mutation is written through to kv.
type PlanStore struct {
	mu      sync.RWMutex
	kv      storage.Store
	logger  *zap.Logger
	ready   bool
	plan    MealPlan
	manual  []shopping.ManualItem
	overlay shopping.Overlay
}

// NewPlanStore returns an uninitialized store. Call Load before mutating it.
func NewPlanStore(kv storage.Store, logger *zap.Logger) *PlanStore {
	logger = logging.OrNop(logger)
	return &PlanStore{
		kv:      kv,
		logger:  logger,
		plan:    NewMealPlan(),
		overlay: shopping.Overlay{},
	}
}

// Open builds a store and loads its persisted state.
func Open(ctx context.Context, kv storage.Store, logger *zap.Logger) *PlanStore {
	s := NewPlanStore(kv, logger)
	s.Load(ctx)
	return s
}

// Load reads the persisted records once. A record that is missing or cannot
// be decoded falls back to its empty default; the store is Ready afterwards
// regardless.
func (s *PlanStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return
	}

	plan := NewMealPlan()
	if !s.loadRecord(ctx, MealPlanKey, &plan) {
		plan = NewMealPlan()
	}

	overlay := shopping.Overlay{}
	if !s.loadRecord(ctx, OverlayKey, &overlay) || overlay == nil {
		overlay = shopping.Overlay{}
	}

	var stored []shopping.StoredItem
	if !s.loadRecord(ctx, ManualItemsKey, &stored) {
		stored = nil
	}

	s.plan = plan
	s.overlay = overlay
	s.manual = shopping.Decode(stored, overlay)
	s.ready = true

	s.logger.Debug("plan store loaded",
		zap.Int("planned_meals", plan.Planned()),
		zap.Int("manual_items", len(s.manual)),
	)
}

func (s *PlanStore) loadRecord(ctx context.Context, key string, v any) bool {
	err := storage.LoadJSON(ctx, s.kv, key, v)
	switch {
	case err == nil:
		return true
	case errors.Is(err, storage.ErrNotFound):
		return false
	default:
		s.logger.Error("failed to load state, using defaults", zap.String("key", key), zap.Error(err))
		return false
	}
}

// Ready reports whether Load has completed.
func (s *PlanStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

// MealPlan returns a copy of the plan. Before Load it is empty.
func (s *PlanStore) MealPlan() MealPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return NewMealPlan()
	}
	return s.plan.Clone()
}

// ManualItems returns a copy of the manual items in insertion order.
func (s *PlanStore) ManualItems() []shopping.ManualItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil
	}
	return append([]shopping.ManualItem(nil), s.manual...)
}

// Overlay returns a copy of the completion overlay.
func (s *PlanStore) Overlay() shopping.Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return shopping.Overlay{}
	}
	return s.overlay.Clone()
}

// GroceryList derives the grocery list in insertion order: manual items,
// then planned ingredients walked Monday to Sunday, breakfast to dinner.
func (s *PlanStore) GroceryList() []shopping.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ready {
		return nil
	}
	return shopping.Derive(s.plan.Ingredients(), s.manual, s.overlay)
}

// AddMeal puts r in the slot, replacing whatever was there.
func (s *PlanStore) AddMeal(ctx context.Context, day Day, mealType MealType, r recipe.Recipe) error {
	if err := checkSlot(day, mealType); err != nil {
		return err
	}
	return s.mutate(ctx, func() {
		s.plan.set(day, mealType, &r)
	})
}

// RemoveMeal empties the slot. Removing from an empty slot is a no-op.
func (s *PlanStore) RemoveMeal(ctx context.Context, day Day, mealType MealType) error {
	if err := checkSlot(day, mealType); err != nil {
		return err
	}
	return s.mutate(ctx, func() {
		s.plan.set(day, mealType, nil)
	})
}

// AddManualGroceryItem appends a trimmed item. Blank input and names already
// on the manual list, ignoring case, are silently ignored.
func (s *PlanStore) AddManualGroceryItem(ctx context.Context, rawName string) error {
	_, err := s.AddManualGroceryItemWithNotes(ctx, rawName, "")
	return err
}

// AddManualGroceryItemWithNotes is AddManualGroceryItem with a free-text note
// such as a quantity. It reports whether the item was appended.
func (s *PlanStore) AddManualGroceryItemWithNotes(ctx context.Context, rawName, notes string) (bool, error) {
	name := strings.TrimSpace(rawName)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return false, ErrNotReady
	}
	if name == "" || shopping.ContainsManual(s.manual, name) {
		return false, nil
	}

	s.manual = append(s.manual, shopping.ManualItem{Name: name, Notes: strings.TrimSpace(notes)})
	s.persistLocked(ctx)
	return true, nil
}

// ToggleGroceryItem flips the completion state of name and returns the new
// state. Applying it twice restores the original state.
func (s *PlanStore) ToggleGroceryItem(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return false, ErrNotReady
	}

	completed := s.overlay.Toggle(name)
	s.persistLocked(ctx)
	return completed, nil
}

// ClearGroceryList empties the manual items and the overlay and also resets
// every meal slot, since planned meals are the other source of grocery entries.
func (s *PlanStore) ClearGroceryList(ctx context.Context) error {
	return s.mutate(ctx, func() {
		s.manual = nil
		s.overlay = shopping.Overlay{}
		s.plan = NewMealPlan()
	})
}

// ClearManualGroceryItems empties the manual items and the overlay, leaving
// the plan untouched.
func (s *PlanStore) ClearManualGroceryItems(ctx context.Context) error {
	return s.mutate(ctx, func() {
		s.manual = nil
		s.overlay = shopping.Overlay{}
	})
}

// ClearMealPlan resets all 21 slots to empty.
func (s *PlanStore) ClearMealPlan(ctx context.Context) error {
	return s.mutate(ctx, func() {
		s.plan = NewMealPlan()
	})
}

func (s *PlanStore) mutate(ctx context.Context, apply func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return ErrNotReady
	}
	apply()
	s.persistLocked(ctx)
	return nil
}

// persistLocked writes all three records. Failures are logged and the
// in-memory state is kept.
func (s *PlanStore) persistLocked(ctx context.Context) {
	records := []struct {
		key   string
		value any
	}{
		{MealPlanKey, s.plan},
		{ManualItemsKey, shopping.Encode(s.manual, s.overlay)},
		{OverlayKey, s.overlay},
	}
	for _, rec := range records {
		if err := storage.SaveJSON(ctx, s.kv, rec.key, rec.value); err != nil {
			s.logger.Warn("failed to persist state", zap.String("key", rec.key), zap.Error(err))
		}
	}
}
