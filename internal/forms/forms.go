// Package forms validates user input from the front ends before it reaches
// the stores.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Mesayaaa/Meal-Plan/internal/planner"

	"github.com/go-playground/validator/v10"
)

// Preferences is the profile form.
type Preferences struct {
	DietaryPreferences string `validate:"required,max=500"`
	CuisinePreferences string `validate:"required,max=500"`
}

// GroceryItem is the add-to-list form.
type GroceryItem struct {
	Name  string `validate:"required,max=100"`
	Notes string `validate:"max=200"`
}

// Suggestion is the recipe suggestion form.
type Suggestion struct {
	IngredientsOnHand string `validate:"required,max=1000"`
}

// Meal is the add-to-plan form.
type Meal struct {
	Day      string `validate:"required,day"`
	MealType string `validate:"required,mealtype"`
	Recipe   string `validate:"required,max=200"`
}

// messages holds the user-facing text per field and failed tag.
var messages = map[string]string{
	"DietaryPreferences.required": "Please enter at least one preference.",
	"CuisinePreferences.required": "Please enter at least one preference.",
	"IngredientsOnHand.required":  "Please list at least one ingredient.",
	"Name.required":               "Please enter an item name.",
	"Day.required":                "Please select a day and meal type.",
	"Day.day":                     "Day must be one of Monday to Sunday.",
	"MealType.required":           "Please select a day and meal type.",
	"MealType.mealtype":           "Meal must be Breakfast, Lunch or Dinner.",
	"Recipe.required":             "Please choose a recipe.",
}

// Error lists the problems found in a form, one message per field.
type Error struct {
	Fields   map[string]string
	Messages []string
}

func (e *Error) Error() string {
	return strings.Join(e.Messages, " ")
}

// Validator checks forms.
type Validator struct {
	validate *validator.Validate
}

// New creates a Validator with the plan-specific rules registered.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
		_, err := planner.ParseDay(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("mealtype", func(fl validator.FieldLevel) bool {
		_, err := planner.ParseMealType(fl.Field().String())
		return err == nil
	})
	return &Validator{validate: v}
}

// Validate trims the string fields of form in place and checks it. Failures
// are returned as *Error.
func (v *Validator) Validate(form any) error {
	trim(form)

	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		msg, ok := messages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = defaultMessage(fe)
		}
		if _, seen := out.Fields[fe.Field()]; seen {
			continue
		}
		out.Fields[fe.Field()] = msg
		out.Messages = append(out.Messages, msg)
	}
	return out
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", fe.Field(), fe.Param())
	case "required":
		return fmt.Sprintf("%s is required.", fe.Field())
	default:
		return fmt.Sprintf("%s is invalid.", fe.Field())
	}
}

func trim(form any) {
	switch f := form.(type) {
	case *Preferences:
		f.DietaryPreferences = strings.TrimSpace(f.DietaryPreferences)
		f.CuisinePreferences = strings.TrimSpace(f.CuisinePreferences)
	case *GroceryItem:
		f.Name = strings.TrimSpace(f.Name)
		f.Notes = strings.TrimSpace(f.Notes)
	case *Suggestion:
		f.IngredientsOnHand = strings.TrimSpace(f.IngredientsOnHand)
	case *Meal:
		f.Day = strings.TrimSpace(f.Day)
		f.MealType = strings.TrimSpace(f.MealType)
		f.Recipe = strings.TrimSpace(f.Recipe)
	}
}
