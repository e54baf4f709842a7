package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Mesayaaa/Meal-Plan/internal/forms"
)

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planAddCmd)
	planCmd.AddCommand(planRemoveCmd)
	planCmd.AddCommand(planClearCmd)
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage the weekly meal plan",
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show every slot of the week",
	Args:  cobra.NoArgs,
	RunE:  runPlanShow,
}

var planAddCmd = &cobra.Command{
	Use:   "add <day> <meal> <recipe>",
	Short: "Put a recipe from the book into a slot",
	Long: `Put a recipe from the book into a slot, replacing whatever was there.

Day is Monday to Sunday (or Mon..Sun), meal is Breakfast, Lunch or Dinner.
The recipe name may span several arguments.

Examples:
  meal-plan plan add monday dinner Classic Spaghetti Carbonara
  meal-plan plan add Sun Breakfast "Avocado Toast with Egg"`,
	Args: cobra.MinimumNArgs(3),
	RunE: runPlanAdd,
}

var planRemoveCmd = &cobra.Command{
	Use:   "remove <day> <meal>",
	Short: "Empty a slot",
	Args:  cobra.ExactArgs(2),
	RunE:  runPlanRemove,
}

var planClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty every slot, keeping manual grocery items",
	Args:  cobra.NoArgs,
	RunE:  runPlanClear,
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tMEAL\tRECIPE")
	for _, slot := range a.Plans.MealPlan().Slots() {
		name := "-"
		if slot.Recipe != nil {
			name = slot.Recipe.Name
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", slot.Day, slot.Type, name)
	}
	return w.Flush()
}

func runPlanAdd(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	r, err := a.AddMeal(commandContext(cmd), forms.Meal{
		Day:      args[0],
		MealType: args[1],
		Recipe:   strings.Join(args[2:], " "),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Planned %s for %s %s\n", r.Name, args[0], args[1])
	return nil
}

func runPlanRemove(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	if err := a.RemoveMeal(commandContext(cmd), args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s %s\n", args[0], args[1])
	return nil
}

func runPlanClear(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	if err := a.Plans.ClearMealPlan(commandContext(cmd)); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Meal plan cleared")
	return nil
}
