package forms

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		form    any
		wantMsg string
	}{
		{"PreferencesOK", &Preferences{DietaryPreferences: "vegan", CuisinePreferences: "Thai"}, ""},
		{"PreferencesBlank", &Preferences{DietaryPreferences: "   ", CuisinePreferences: "Thai"}, "Please enter at least one preference."},
		{"GroceryOK", &GroceryItem{Name: "Milk"}, ""},
		{"GroceryBlank", &GroceryItem{Name: " "}, "Please enter an item name."},
		{"GroceryTooLong", &GroceryItem{Name: strings.Repeat("a", 101)}, "Name must be at most 100 characters."},
		{"SuggestionBlank", &Suggestion{}, "Please list at least one ingredient."},
		{"MealOK", &Meal{Day: "tue", MealType: "lunch", Recipe: "Pasta"}, ""},
		{"MealBadDay", &Meal{Day: "Funday", MealType: "Lunch", Recipe: "Pasta"}, "Day must be one of Monday to Sunday."},
		{"MealBadType", &Meal{Day: "Monday", MealType: "Brunch", Recipe: "Pasta"}, "Meal must be Breakfast, Lunch or Dinner."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.form)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			var ferr *Error
			require.True(t, errors.As(err, &ferr), "expected *Error, got %v", err)
			assert.Equal(t, tt.wantMsg, ferr.Error())
		})
	}
}

func TestValidateTrims(t *testing.T) {
	f := &GroceryItem{Name: "  Oat Milk ", Notes: " 2 cartons "}
	require.NoError(t, New().Validate(f))
	assert.Equal(t, "Oat Milk", f.Name)
	assert.Equal(t, "2 cartons", f.Notes)
}

func TestValidateCollectsFields(t *testing.T) {
	err := New().Validate(&Preferences{})
	var ferr *Error
	require.True(t, errors.As(err, &ferr))
	assert.Len(t, ferr.Fields, 2)
	assert.Len(t, ferr.Messages, 2)
}
