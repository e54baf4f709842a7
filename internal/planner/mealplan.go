package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Mesayaaa/Meal-Plan/internal/recipe"
)

var (
	ErrUnknownDay      = errors.New("unknown day")
	ErrUnknownMealType = errors.New("unknown meal type")
)

// Day is a day of the planning week, Monday first.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const daysInWeek = 7

// Days lists the week in plan order.
var Days = [daysInWeek]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var dayNames = [daysInWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

func (d Day) Valid() bool { return d >= Monday && d <= Sunday }

func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

// ParseDay accepts a day name or its three-letter abbreviation, in any case.
func ParseDay(s string) (Day, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range dayNames {
		lower := strings.ToLower(name)
		if s == lower || (len(s) == 3 && strings.HasPrefix(lower, s)) {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDay, s)
}

func (d Day) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDay, int(d))
	}
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MealType is one of the three meals planned each day.
type MealType int

const (
	Breakfast MealType = iota
	Lunch
	Dinner
)

const mealsPerDay = 3

// MealTypes lists the meals of a day in plan order.
var MealTypes = [mealsPerDay]MealType{Breakfast, Lunch, Dinner}

var mealTypeNames = [mealsPerDay]string{"Breakfast", "Lunch", "Dinner"}

func (m MealType) Valid() bool { return m >= Breakfast && m <= Dinner }

func (m MealType) String() string {
	if !m.Valid() {
		return fmt.Sprintf("MealType(%d)", int(m))
	}
	return mealTypeNames[m]
}

// ParseMealType accepts a meal type name in any case.
func ParseMealType(s string) (MealType, error) {
	s = strings.TrimSpace(s)
	for i, name := range mealTypeNames {
		if strings.EqualFold(s, name) {
			return MealType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMealType, s)
}

func (m MealType) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMealType, int(m))
	}
	return []byte(m.String()), nil
}

func (m *MealType) UnmarshalText(b []byte) error {
	parsed, err := ParseMealType(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MealSlot is one (Day, MealType) cell of the plan. A nil Recipe is an empty slot.
type MealSlot struct {
	ID     string         `json:"id"`
	Day    Day            `json:"day"`
	Type   MealType       `json:"type"`
	Recipe *recipe.Recipe `json:"recipe"`
}

// SlotID is the stable identifier of a slot, e.g. "Monday-Breakfast".
func SlotID(day Day, mealType MealType) string {
	return day.String() + "-" + mealType.String()
}

// MealPlan maps every (Day, MealType) pair to a slot. The fixed-size array
// keeps the plan total: slots are never added or removed, only filled or emptied.
type MealPlan struct {
	recipes [daysInWeek][mealsPerDay]*recipe.Recipe
}

// NewMealPlan returns a plan with all 21 slots empty.
func NewMealPlan() MealPlan {
	return MealPlan{}
}

func checkSlot(day Day, mealType MealType) error {
	if !day.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownDay, int(day))
	}
	if !mealType.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMealType, int(mealType))
	}
	return nil
}

// Slot returns the slot for a (Day, MealType) pair.
func (p MealPlan) Slot(day Day, mealType MealType) (MealSlot, error) {
	if err := checkSlot(day, mealType); err != nil {
		return MealSlot{}, err
	}
	slot := MealSlot{ID: SlotID(day, mealType), Day: day, Type: mealType}
	if r := p.recipes[day][mealType]; r != nil {
		c := r.Clone()
		slot.Recipe = &c
	}
	return slot, nil
}

// Slots returns all 21 slots, Monday breakfast first.
func (p MealPlan) Slots() []MealSlot {
	slots := make([]MealSlot, 0, daysInWeek*mealsPerDay)
	for _, d := range Days {
		for _, m := range MealTypes {
			s, _ := p.Slot(d, m)
			slots = append(slots, s)
		}
	}
	return slots
}

func (p *MealPlan) set(day Day, mealType MealType, r *recipe.Recipe) {
	if r == nil {
		p.recipes[day][mealType] = nil
		return
	}
	c := r.Clone()
	p.recipes[day][mealType] = &c
}

// Ingredients returns the ingredients of every planned recipe, walking the
// week in plan order.
func (p MealPlan) Ingredients() []string {
	var out []string
	for _, d := range Days {
		for _, m := range MealTypes {
			if r := p.recipes[d][m]; r != nil {
				out = append(out, r.Ingredients...)
			}
		}
	}
	return out
}

// Planned counts the filled slots.
func (p MealPlan) Planned() int {
	n := 0
	for _, d := range Days {
		for _, m := range MealTypes {
			if p.recipes[d][m] != nil {
				n++
			}
		}
	}
	return n
}

// String renders the plan as a compact week overview.
func (p MealPlan) String() string {
	var sb strings.Builder
	for _, d := range Days {
		fmt.Fprintf(&sb, "%s:", d)
		for _, m := range MealTypes {
			name := "-"
			if r := p.recipes[d][m]; r != nil {
				name = r.Name
			}
			fmt.Fprintf(&sb, " %s=%s", m, name)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// Clone returns a deep copy.
func (p MealPlan) Clone() MealPlan {
	var c MealPlan
	for _, d := range Days {
		for _, m := range MealTypes {
			c.set(d, m, p.recipes[d][m])
		}
	}
	return c
}

// MarshalJSON encodes the plan as {Day: {MealType: slot}} for every pair.
func (p MealPlan) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]MealSlot, daysInWeek)
	for _, d := range Days {
		meals := make(map[string]MealSlot, mealsPerDay)
		for _, m := range MealTypes {
			s, _ := p.Slot(d, m)
			meals[m.String()] = s
		}
		out[d.String()] = meals
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the nested form. Unknown days or meal types are
// ignored and missing slots stay empty, so the result is always total.
func (p *MealPlan) UnmarshalJSON(b []byte) error {
	var raw map[string]map[string]struct {
		Recipe *recipe.Recipe `json:"recipe"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	plan := NewMealPlan()
	for dayName, meals := range raw {
		day, err := ParseDay(dayName)
		if err != nil {
			continue
		}
		for mealName, slot := range meals {
			mealType, err := ParseMealType(mealName)
			if err != nil {
				continue
			}
			plan.set(day, mealType, slot.Recipe)
		}
	}
	*p = plan
	return nil
}
