package telegram

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Mesayaaa/Meal-Plan/internal/metrics"
	"github.com/Mesayaaa/Meal-Plan/internal/planner"
	"github.com/Mesayaaa/Meal-Plan/internal/preferences"
	"github.com/Mesayaaa/Meal-Plan/internal/recipe"
	"github.com/Mesayaaa/Meal-Plan/internal/shopping"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// maxCallbackData is Telegram's limit on inline button payloads, in bytes.
const maxCallbackData = 64

const helpText = `🍽 *Meal Plan*

/plan - show this week's plan
/add Day Meal Recipe - plan a recipe
/remove Day Meal - empty a slot
/grocery - grocery list with check-off buttons
/buy item - add an item to the grocery list
/check item - check an item off (or back on)
/clear - clear the grocery list
/prefs - show preferences
/setprefs dietary; cuisine - update preferences
/suggest ingredients - get recipe ideas
/recipes - list known recipes
Send a link to import a recipe.`

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escape protects user text inside legacy Markdown messages.
func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func formatPlan(plan planner.MealPlan) string {
	var sb strings.Builder
	sb.WriteString("📅 *Weekly Meal Plan*\n")

	if plan.Planned() == 0 {
		sb.WriteString("\n_Nothing planned yet._ Use /add Day Meal Recipe.")
		return sb.String()
	}

	for _, d := range planner.Days {
		fmt.Fprintf(&sb, "\n*%s*\n", d)
		for _, m := range planner.MealTypes {
			s, _ := plan.Slot(d, m)
			name := "—"
			if s.Recipe != nil {
				name = escape(s.Recipe.Name)
			}
			fmt.Fprintf(&sb, "• %s: %s\n", m, name)
		}
	}
	return sb.String()
}

func formatGroceryList(items []shopping.Item) string {
	if len(items) == 0 {
		return "🛒 *Shopping List*\n\n_Your list is empty._ Plan a meal or use /buy item."
	}

	done := 0
	for _, it := range items {
		if it.Completed {
			done++
		}
	}
	return fmt.Sprintf("🛒 *Shopping List* (%d/%d done)\n\nTap an item to check it off.", done, len(items))
}

func groceryKeyboard(items []shopping.Item) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(items))
	for _, it := range items {
		mark := "⬜"
		if it.Completed {
			mark = "✅"
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(mark+" "+it.Name, callbackData(actionToggle, itemToken(it.Name))),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func clearKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🧺 Items only", callbackData(actionClear, clearItems)),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Items and meals", callbackData(actionClear, clearAll)),
		),
	)
}

// callbackData joins action and payload, cutting the payload on a rune
// boundary so the result fits in a button.
func callbackData(action, payload string) string {
	data := action + "|" + payload
	if len(data) <= maxCallbackData {
		return data
	}
	data = data[:maxCallbackData]
	for !utf8.ValidString(data) {
		data = data[:len(data)-1]
	}
	return data
}

func parseCallbackData(data string) (action, payload string, ok bool) {
	return strings.Cut(data, "|")
}

// itemToken identifies a grocery entry in a button payload by a hash of its
// normalized name, so the payload stays short whatever the name's length.
func itemToken(name string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(shopping.Normalize(name)))
	return strconv.FormatUint(h.Sum64(), 36)
}

// findItem resolves a button payload against the current list.
func findItem(items []shopping.Item, token string) (shopping.Item, bool) {
	for _, it := range items {
		if itemToken(it.Name) == token {
			return it, true
		}
	}
	return shopping.Item{}, false
}

func formatPreferences(p preferences.Preferences) string {
	return fmt.Sprintf("⚙️ *Preferences*\n\n*Dietary:* %s\n*Cuisine:* %s\n\nChange with /setprefs dietary; cuisine",
		escape(p.DietaryPreferences), escape(p.CuisinePreferences))
}

func formatRecipe(r recipe.Recipe) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*%s*\n", escape(r.Name))
	if r.Cuisine != "" {
		fmt.Fprintf(&sb, "_%s_", escape(r.Cuisine))
		if len(r.DietaryRestrictions) > 0 {
			fmt.Fprintf(&sb, " · %s", escape(strings.Join(r.DietaryRestrictions, ", ")))
		}
		sb.WriteString("\n")
	}
	for _, ing := range r.Ingredients {
		fmt.Fprintf(&sb, "• %s\n", escape(ing))
	}
	return sb.String()
}

func formatSuggestions(recipes []recipe.Recipe) string {
	var sb strings.Builder
	sb.WriteString("💡 *Suggestions*\n")
	for _, r := range recipes {
		sb.WriteString("\n")
		sb.WriteString(formatRecipe(r))
	}
	sb.WriteString("\nPlan one with /add Day Meal Recipe.")
	return sb.String()
}

func formatRecipeList(recipes []recipe.Recipe) string {
	if len(recipes) == 0 {
		return "📖 *Recipes*\n\n_No recipes yet._"
	}
	var sb strings.Builder
	sb.WriteString("📖 *Recipes*\n\n")
	for _, r := range recipes {
		fmt.Fprintf(&sb, "• %s\n", escape(r.Summary()))
	}
	return sb.String()
}

func formatMetrics(usage []metrics.DailyUsage, health metrics.SysHealth) string {
	var sb strings.Builder
	sb.WriteString("📊 *Usage & Health Report*\n\n")

	sb.WriteString("🗓 *Recent LLM Activity*\n")
	if len(usage) == 0 {
		sb.WriteString("_No data yet_\n")
	}
	for _, d := range usage {
		fmt.Fprintf(&sb, "• *%s*: %d tokens (%d execs)\n", d.Date, d.TotalPrompt+d.TotalCompletion, d.TotalExecution)
	}

	sb.WriteString("\n🧠 *System Health*\n")
	fmt.Fprintf(&sb, "• RAM: %dMB (Alloc) / %dMB (Sys)\n", health.AllocMB, health.SysMB)
	fmt.Fprintf(&sb, "• Goroutines: %d\n", health.Goroutines)
	fmt.Fprintf(&sb, "• Disk Data: %s\n", health.DataDiskSize)
	return sb.String()
}

func formatError(prefix string, err error) string {
	safeErr := strings.ReplaceAll(err.Error(), "`", "'")
	return fmt.Sprintf("❌ *%s:*\n```\n%v\n```", prefix, safeErr)
}
