package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mesayaaa/Meal-Plan/internal/forms"
)

var (
	prefsDietary string
	prefsCuisine string
)

func init() {
	rootCmd.AddCommand(prefsCmd)
	prefsCmd.AddCommand(prefsShowCmd)
	prefsCmd.AddCommand(prefsSetCmd)

	prefsSetCmd.Flags().StringVar(&prefsDietary, "dietary", "", "Comma separated dietary preferences (required)")
	prefsSetCmd.Flags().StringVar(&prefsCuisine, "cuisine", "", "Comma separated cuisine preferences (required)")
}

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or change dietary and cuisine preferences",
}

var prefsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the stored preferences",
	Args:  cobra.NoArgs,
	RunE:  runPrefsShow,
}

var prefsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Replace the stored preferences",
	Long: `Replace the stored preferences. Both fields are required.

Examples:
  meal-plan prefs set --dietary "vegan, gluten-free" --cuisine "Thai, Indian"`,
	Args: cobra.NoArgs,
	RunE: runPrefsSet,
}

func runPrefsShow(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	p := a.Prefs.Preferences()
	fmt.Fprintf(cmd.OutOrStdout(), "Dietary: %s\nCuisine: %s\n", p.DietaryPreferences, p.CuisinePreferences)
	return nil
}

func runPrefsSet(cmd *cobra.Command, args []string) error {
	a, closeApp, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp()

	err = a.SetPreferences(commandContext(cmd), forms.Preferences{
		DietaryPreferences: prefsDietary,
		CuisinePreferences: prefsCuisine,
	})
	if err != nil {
		return err
	}

	p := a.Prefs.Preferences()
	fmt.Fprintf(cmd.OutOrStdout(), "Dietary: %s\nCuisine: %s\n", p.DietaryPreferences, p.CuisinePreferences)
	return nil
}
