package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Mesayaaa/Meal-Plan/internal/forms"
	"github.com/Mesayaaa/Meal-Plan/internal/shopping"
)

var (
	groceryNotes     string
	groceryKeepMeals bool
)

func init() {
	rootCmd.AddCommand(groceryCmd)
	groceryCmd.AddCommand(groceryListCmd)
	groceryCmd.AddCommand(groceryAddCmd)
	groceryCmd.AddCommand(groceryToggleCmd)
	groceryCmd.AddCommand(groceryClearCmd)

	groceryAddCmd.Flags().StringVar(&groceryNotes, "notes", "", "Optional notes, e.g. a quantity")
	groceryClearCmd.Flags().BoolVar(&groceryKeepMeals, "keep-meals", false, "Only remove manual items and check marks, keep the meal plan")
}

var groceryCmd = &cobra.Command{
	Use:   "grocery",
	Short: "Manage the grocery list",
}

var groceryListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show the grocery list",
	Args:  cobra.NoArgs,
	RunE:  runGroceryList,
}

var groceryAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an item to the grocery list",
	Long: `Add an item to the grocery list. Adding a name that is already on the
list (ignoring case) does nothing.

Examples:
  meal-plan grocery add Oat Milk --notes "2 cartons"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGroceryAdd,
}

var groceryToggleCmd = &cobra.Command{
	Use:   "toggle <name>",
	Short: "Check an item off, or put it back on the list",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runGroceryToggle,
}

var groceryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the grocery list",
	Long: `Clear the grocery list. Ingredients come from the meal plan, so by
default the plan is emptied as well. Use --keep-meals to only drop manual
items and check marks.`,
	Args: cobra.NoArgs,
	RunE: runGroceryClear,
}

func runGroceryList(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	items := a.GroceryList()
	if len(items) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Grocery list is empty")
		return nil
	}

	notes := make(map[string]string)
	for _, m := range a.Plans.ManualItems() {
		notes[shopping.Normalize(m.Name)] = m.Notes
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DONE\tITEM\tNOTES")
	for _, item := range items {
		mark := "[ ]"
		if item.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", mark, item.Name, notes[shopping.Normalize(item.Name)])
	}
	return w.Flush()
}

func runGroceryAdd(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	name := strings.Join(args, " ")
	added, err := a.AddGroceryItem(commandContext(cmd), forms.GroceryItem{Name: name, Notes: groceryNotes})
	if err != nil {
		return err
	}
	if !added {
		fmt.Fprintf(cmd.OutOrStdout(), "%s is already on the list\n", strings.TrimSpace(name))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", strings.TrimSpace(name))
	return nil
}

func runGroceryToggle(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	name := strings.Join(args, " ")
	done, err := a.Plans.ToggleGroceryItem(commandContext(cmd), name)
	if err != nil {
		return err
	}
	state := "back on the list"
	if done {
		state = "checked off"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", name, state)
	return nil
}

func runGroceryClear(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	ctx := commandContext(cmd)
	if groceryKeepMeals {
		if err := a.Plans.ClearManualGroceryItems(ctx); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Manual items and check marks cleared")
		return nil
	}
	if err := a.Plans.ClearGroceryList(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Grocery list and meal plan cleared")
	return nil
}
