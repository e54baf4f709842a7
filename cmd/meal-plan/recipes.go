package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Mesayaaa/Meal-Plan/internal/app"
	"github.com/Mesayaaa/Meal-Plan/internal/forms"
	"github.com/Mesayaaa/Meal-Plan/internal/recipe"
)

var (
	suggestHave    string
	suggestAddSlot []string
)

func init() {
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(recipesCmd)
	recipesCmd.AddCommand(recipesListCmd)
	recipesCmd.AddCommand(recipesShowCmd)
	recipesCmd.AddCommand(recipesImportCmd)

	suggestCmd.Flags().StringVar(&suggestHave, "have", "", "Ingredients on hand (required)")
	suggestCmd.Flags().StringSliceVar(&suggestAddSlot, "add", nil, "Plan the first suggestion into DAY,MEAL")
	_ = suggestCmd.MarkFlagRequired("have")
}

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Ask the LLM for recipes using what you have",
	Long: `Ask the configured LLM provider for recipes that fit the stored
preferences and the ingredients on hand. Suggestions are added to the
recipe book so they can be planned.

Examples:
  meal-plan suggest --have "rice, black beans, peppers"
  meal-plan suggest --have "eggs, spinach" --add Tuesday,Breakfast`,
	Args: cobra.NoArgs,
	RunE: runSuggest,
}

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "Browse and import recipes",
}

var recipesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the recipe book",
	Args:  cobra.NoArgs,
	RunE:  runRecipesList,
}

var recipesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a recipe",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRecipesShow,
}

var recipesImportCmd = &cobra.Command{
	Use:   "import <url>",
	Short: "Import a recipe from a web page",
	Args:  cobra.ExactArgs(1),
	RunE:  runRecipesImport,
}

func runSuggest(cmd *cobra.Command, args []string) error {
	if len(suggestAddSlot) != 0 && len(suggestAddSlot) != 2 {
		return fmt.Errorf("--add expects DAY,MEAL")
	}

	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	ctx := commandContext(cmd)
	recipes, err := a.Suggest(ctx, forms.Suggestion{IngredientsOnHand: suggestHave})
	if err != nil {
		return err
	}
	for i, r := range recipes {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		printRecipe(cmd, r)
	}

	if len(suggestAddSlot) == 2 {
		r, err := a.AddMeal(ctx, forms.Meal{Day: suggestAddSlot[0], MealType: suggestAddSlot[1], Recipe: recipes[0].Name})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nPlanned %s for %s %s\n", r.Name, suggestAddSlot[0], suggestAddSlot[1])
	}
	return nil
}

func runRecipesList(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCUISINE\tDIETARY")
	for _, r := range a.Recipes.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, r.Cuisine, strings.Join(r.DietaryRestrictions, ", "))
	}
	return w.Flush()
}

func runRecipesShow(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	name := strings.Join(args, " ")
	r, ok := a.Recipes.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", app.ErrRecipeNotFound, name)
	}
	printRecipe(cmd, r)
	return nil
}

func runRecipesImport(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	r, err := a.ImportRecipe(commandContext(cmd), args[0])
	if err != nil {
		return err
	}
	printRecipe(cmd, r)
	return nil
}

func printRecipe(cmd *cobra.Command, r recipe.Recipe) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, r.Summary())
	fmt.Fprintf(out, "Image: %s\n", r.ImageURL())
	fmt.Fprintln(out, "Ingredients:")
	for _, ing := range r.Ingredients {
		fmt.Fprintf(out, "  - %s\n", ing)
	}
	if r.Instructions != "" {
		fmt.Fprintf(out, "Instructions:\n  %s\n", r.Instructions)
	}
}
