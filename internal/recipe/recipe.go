// Package recipe defines the Recipe value, the working set of known recipes,
// image lookup, and recipe import from web pages.
package recipe

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// Recipe is an immutable recipe value. Name is its key within the working set.
type Recipe struct {
	Name                string   `json:"name"`
	Ingredients         []string `json:"ingredients"`
	Instructions        string   `json:"instructions"`
	Cuisine             string   `json:"cuisine"`
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	Image               string   `json:"image,omitempty"`
}

// Key returns the case-insensitive lookup key for a recipe name.
func Key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ImageURL returns the recipe's own image, or a stock photo matching its
// name and cuisine.
func (r Recipe) ImageURL() string {
	if r.Image != "" {
		return r.Image
	}
	return ImageFor(r.Name, r.Cuisine)
}

// Clone returns a deep copy so callers cannot alias the slices of a stored recipe.
func (r Recipe) Clone() Recipe {
	c := r
	c.Ingredients = slices.Clone(r.Ingredients)
	c.DietaryRestrictions = slices.Clone(r.DietaryRestrictions)
	return c
}

// MarshalJSON writes missing lists as [] so stored records always carry arrays.
func (r Recipe) MarshalJSON() ([]byte, error) {
	type plain Recipe
	p := plain(r)
	if p.Ingredients == nil {
		p.Ingredients = []string{}
	}
	if p.DietaryRestrictions == nil {
		p.DietaryRestrictions = []string{}
	}
	return json.Marshal(p)
}

// Summary renders a one-line description for listings.
func (r Recipe) Summary() string {
	var sb strings.Builder
	sb.WriteString(r.Name)
	if r.Cuisine != "" {
		fmt.Fprintf(&sb, " (%s)", r.Cuisine)
	}
	if len(r.DietaryRestrictions) > 0 {
		fmt.Fprintf(&sb, " [%s]", strings.Join(r.DietaryRestrictions, ", "))
	}
	return sb.String()
}

// Samples returns the recipes a fresh working set starts with.
func Samples() []Recipe {
	return []Recipe{
		{
			Name: "Classic Spaghetti Carbonara",
			Ingredients: []string{
				"Spaghetti",
				"2 large eggs",
				"1/2 cup grated Pecorino Romano",
				"4 slices of guanciale or pancetta",
				"2 cloves garlic",
				"Black pepper",
				"Salt",
			},
			Instructions: "1. Cook spaghetti according to package directions.\n" +
				"2. While pasta is cooking, fry guanciale until crisp.\n" +
				"3. In a bowl, whisk eggs, cheese, and a generous amount of black pepper.\n" +
				"4. Drain pasta, reserving some pasta water.\n" +
				"5. Combine pasta with guanciale. Remove from heat and quickly stir in egg mixture. " +
				"Add pasta water if needed to create a creamy sauce. Serve immediately.",
			Cuisine:             "Italian",
			DietaryRestrictions: []string{},
		},
		{
			Name: "Avocado Toast with Egg",
			Ingredients: []string{
				"2 slices of whole-wheat bread",
				"1 ripe avocado",
				"2 eggs",
				"Red pepper flakes",
				"Salt and pepper",
				"1 tsp lemon juice",
			},
			Instructions: "1. Toast bread to your liking.\n" +
				"2. Mash avocado with lemon juice, salt, and pepper.\n" +
				"3. Cook eggs as desired (fried, poached, or scrambled).\n" +
				"4. Spread mashed avocado on toast. Top with eggs and a sprinkle of red pepper flakes.",
			Cuisine:             "American",
			DietaryRestrictions: []string{"Vegetarian"},
		},
		{
			Name: "Chicken and Veggie Stir-fry",
			Ingredients: []string{
				"1 lb chicken breast, sliced",
				"1 head of broccoli, chopped",
				"1 red bell pepper, sliced",
				"1 carrot, julienned",
				"1/4 cup soy sauce",
				"2 tbsp honey",
				"1 tbsp ginger, minced",
				"2 cloves garlic, minced",
				"Cooked rice for serving",
			},
			Instructions: "1. In a wok or large skillet, heat oil over medium-high heat.\n" +
				"2. Add chicken and cook until browned.\n" +
				"3. Add vegetables and stir-fry for 5-7 minutes until tender-crisp.\n" +
				"4. In a small bowl, mix soy sauce, honey, ginger, and garlic.\n" +
				"5. Pour sauce over chicken and vegetables, cook for another 2 minutes until sauce thickens. Serve over rice.",
			Cuisine:             "Asian",
			DietaryRestrictions: []string{"Dairy-Free"},
		},
	}
}
