package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mesayaaa/Meal-Plan/internal/app"
)

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "database_path: " + filepath.Join(dir, "meal-plan.db") + "\n" +
		"storage_backend: file\n" +
		"storage_path: " + filepath.Join(dir, "state") + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, cfgPath string, args ...string) (string, error) {
	t.Helper()
	groceryNotes, groceryKeepMeals = "", false
	prefsDietary, prefsCuisine = "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlanCommandsPersistAcrossRuns(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "plan", "add", "monday", "dinner", "Classic", "Spaghetti", "Carbonara")
	require.NoError(t, err)
	assert.Contains(t, out, "Planned Classic Spaghetti Carbonara")

	out, err = execute(t, cfg, "plan", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Classic Spaghetti Carbonara")

	out, err = execute(t, cfg, "grocery", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "spaghetti")

	_, err = execute(t, cfg, "plan", "remove", "Monday", "Dinner")
	require.NoError(t, err)

	out, err = execute(t, cfg, "grocery", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Grocery list is empty")
}

func TestPlanAddRejectsUnknownDay(t *testing.T) {
	cfg := writeConfig(t)

	_, err := execute(t, cfg, "plan", "add", "Funday", "Dinner", "Avocado Toast with Egg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Day must be one of Monday to Sunday.")
}

func TestGroceryCommands(t *testing.T) {
	cfg := writeConfig(t)

	_, err := execute(t, cfg, "plan", "add", "Sun", "Breakfast", "Avocado Toast with Egg")
	require.NoError(t, err)

	out, err := execute(t, cfg, "grocery", "add", "Oat", "Milk", "--notes", "2 cartons")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Oat Milk")

	out, err = execute(t, cfg, "grocery", "add", "oat", "milk")
	require.NoError(t, err)
	assert.Contains(t, out, "already on the list")

	out, err = execute(t, cfg, "grocery", "toggle", "oat", "milk")
	require.NoError(t, err)
	assert.Contains(t, out, "checked off")

	out, err = execute(t, cfg, "grocery", "list")
	require.NoError(t, err)
	assert.Regexp(t, `\[x\]\s+Oat Milk`, out)
	assert.Contains(t, out, "2 cartons")

	_, err = execute(t, cfg, "grocery", "clear", "--keep-meals")
	require.NoError(t, err)

	out, err = execute(t, cfg, "plan", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Avocado Toast with Egg")

	out, err = execute(t, cfg, "grocery", "list")
	require.NoError(t, err)
	assert.NotContains(t, out, "Oat Milk")

	_, err = execute(t, cfg, "grocery", "clear")
	require.NoError(t, err)

	out, err = execute(t, cfg, "plan", "show")
	require.NoError(t, err)
	assert.NotContains(t, out, "Avocado Toast with Egg")
}

func TestPrefsCommands(t *testing.T) {
	cfg := writeConfig(t)

	out, err := execute(t, cfg, "prefs", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Dietary: vegetarian")

	_, err = execute(t, cfg, "prefs", "set", "--dietary", "vegan")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please enter at least one preference.")

	_, err = execute(t, cfg, "prefs", "set", "--dietary", "vegan", "--cuisine", "Thai")
	require.NoError(t, err)

	out, err = execute(t, cfg, "prefs", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Cuisine: Thai")
}

func TestRecipesShowUnknown(t *testing.T) {
	cfg := writeConfig(t)

	_, err := execute(t, cfg, "recipes", "show", "Nope")
	assert.ErrorIs(t, err, app.ErrRecipeNotFound)

	out, err := execute(t, cfg, "recipes", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Avocado Toast with Egg")
}
