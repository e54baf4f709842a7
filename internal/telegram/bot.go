// Package telegram serves the meal planner over a Telegram bot webhook.
package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Mesayaaa/Meal-Plan/internal/app"
	"github.com/Mesayaaa/Meal-Plan/internal/config"
	"github.com/Mesayaaa/Meal-Plan/internal/forms"
	"github.com/Mesayaaa/Meal-Plan/internal/logging"
	"github.com/Mesayaaa/Meal-Plan/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

const (
	actionToggle = "toggle"
	actionClear  = "clear"

	clearItems = "items"
	clearAll   = "all"

	requestTimeout = 2 * time.Minute
)

// Sender is the part of the Telegram API the bot uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Bot answers Telegram updates using the shared App.
type Bot struct {
	api    Sender
	app    *app.App
	cfg    *config.Config
	logger *zap.Logger
}

// NewBot initializes the Telegram Bot and sets the Webhook.
func NewBot(cfg *config.Config, a *app.App, logger *zap.Logger) (*Bot, error) {
	logger = logging.OrNop(logger)
	api, err := tgbotapi.NewBotAPI(cfg.TelegramBotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram api: %w", err)
	}
	logger.Info("authorized on telegram", zap.String("account", api.Self.UserName))

	wh, err := tgbotapi.NewWebhook(cfg.TelegramWebhookURL)
	if err != nil {
		return nil, fmt.Errorf("failed to build webhook config: %w", err)
	}
	resp, err := api.Request(wh)
	if err != nil {
		return nil, fmt.Errorf("failed to set webhook to %s: %w", cfg.TelegramWebhookURL, err)
	}
	logger.Info("webhook set", zap.String("description", resp.Description))

	return newBot(api, a, cfg, logger), nil
}

func newBot(api Sender, a *app.App, cfg *config.Config, logger *zap.Logger) *Bot {
	logger = logging.OrNop(logger)
	return &Bot{api: api, app: a, cfg: cfg, logger: logger}
}

// RegisterHandlers registers the webhook and health handlers on mux.
func (b *Bot) RegisterHandlers(mux *http.ServeMux) {
	mux.HandleFunc("/webhook", b.handleWebhook)
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}

func (b *Bot) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		b.logger.Warn("failed to parse update", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)

	// Telegram retries webhooks that answer slowly, so work continues in the background.
	go b.handleUpdate(update)
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch {
	case update.CallbackQuery != nil:
		if !b.isAllowed(update.CallbackQuery.From) {
			return
		}
		b.handleCallbackQuery(ctx, update.CallbackQuery)
	case update.Message != nil:
		if !b.isAllowed(update.Message.From) {
			return
		}
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) isAllowed(from *tgbotapi.User) bool {
	if from == nil {
		return false
	}
	if slices.Contains(b.cfg.TelegramAllowedUserIDs, from.ID) {
		return true
	}
	b.logger.Warn("unauthorized access attempt", zap.Int64("user_id", from.ID), zap.String("username", from.UserName))
	return false
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "http://") || strings.HasPrefix(text, "https://") {
		b.handleImport(ctx, msg.Chat.ID, text)
		return
	}

	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	switch msg.Command() {
	case "start", "help":
		b.reply(chatID, helpText)
	case "plan":
		b.reply(chatID, formatPlan(b.app.Plans.MealPlan()))
	case "add":
		b.handleAddMeal(ctx, chatID, args)
	case "remove":
		b.handleRemoveMeal(ctx, chatID, args)
	case "grocery":
		b.sendGroceryList(chatID)
	case "buy":
		b.handleBuy(ctx, chatID, args)
	case "check":
		b.handleCheck(ctx, chatID, args)
	case "clear":
		m := tgbotapi.NewMessage(chatID, "🧹 What should be cleared?")
		m.ReplyMarkup = clearKeyboard()
		b.send(m)
	case "prefs":
		b.reply(chatID, formatPreferences(b.app.Prefs.Preferences()))
	case "setprefs":
		b.handleSetPrefs(ctx, chatID, args)
	case "suggest":
		b.handleSuggest(ctx, chatID, args)
	case "recipes":
		b.reply(chatID, formatRecipeList(b.app.Recipes.List()))
	case "metrics":
		b.handleMetrics(ctx, msg)
	default:
		b.reply(chatID, "🤔 I didn't get that. Send /help for the list of commands.")
	}
}

// handleAddMeal parses "Day Meal Recipe name".
func (b *Bot) handleAddMeal(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) < 3 {
		b.reply(chatID, "Usage: /add Day Meal Recipe name\nExample: /add Monday Dinner Classic Spaghetti Carbonara")
		return
	}
	form := forms.Meal{Day: fields[0], MealType: fields[1], Recipe: strings.Join(fields[2:], " ")}

	r, err := b.app.AddMeal(ctx, form)
	if err != nil {
		b.replyError(chatID, "Could not add meal", err)
		return
	}
	b.reply(chatID, fmt.Sprintf("✅ *%s* added to %s %s.", escape(r.Name), form.Day, form.MealType))
}

func (b *Bot) handleRemoveMeal(ctx context.Context, chatID int64, args string) {
	fields := strings.Fields(args)
	if len(fields) != 2 {
		b.reply(chatID, "Usage: /remove Day Meal")
		return
	}
	if err := b.app.RemoveMeal(ctx, fields[0], fields[1]); err != nil {
		b.replyError(chatID, "Could not remove meal", err)
		return
	}
	b.reply(chatID, "🗑 Slot cleared.")
}

func (b *Bot) sendGroceryList(chatID int64) {
	items := b.app.GroceryList()
	m := tgbotapi.NewMessage(chatID, formatGroceryList(items))
	m.ParseMode = tgbotapi.ModeMarkdown
	if len(items) > 0 {
		m.ReplyMarkup = groceryKeyboard(items)
	}
	b.send(m)
}

// handleBuy parses "item" or "item; notes".
func (b *Bot) handleBuy(ctx context.Context, chatID int64, args string) {
	name, notes, _ := strings.Cut(args, ";")
	added, err := b.app.AddGroceryItem(ctx, forms.GroceryItem{Name: name, Notes: notes})
	if err != nil {
		b.replyError(chatID, "Could not add item", err)
		return
	}
	if !added {
		b.reply(chatID, fmt.Sprintf("*%s* is already on the list.", escape(strings.TrimSpace(name))))
		return
	}
	b.reply(chatID, fmt.Sprintf("🛒 Added *%s*.", escape(strings.TrimSpace(name))))
}

func (b *Bot) handleCheck(ctx context.Context, chatID int64, args string) {
	if args == "" {
		b.reply(chatID, "Usage: /check item")
		return
	}
	done, err := b.app.Plans.ToggleGroceryItem(ctx, args)
	if err != nil {
		b.replyError(chatID, "Could not update item", err)
		return
	}
	state := "back on the list"
	if done {
		state = "checked off"
	}
	b.reply(chatID, fmt.Sprintf("*%s* %s.", escape(args), state))
}

// handleSetPrefs parses "dietary; cuisine".
func (b *Bot) handleSetPrefs(ctx context.Context, chatID int64, args string) {
	dietary, cuisine, ok := strings.Cut(args, ";")
	if !ok {
		b.reply(chatID, "Usage: /setprefs dietary; cuisine\nExample: /setprefs vegetarian, nut-free; Italian, Thai")
		return
	}
	if err := b.app.SetPreferences(ctx, forms.Preferences{DietaryPreferences: dietary, CuisinePreferences: cuisine}); err != nil {
		b.replyError(chatID, "Could not save preferences", err)
		return
	}
	b.reply(chatID, formatPreferences(b.app.Prefs.Preferences()))
}

func (b *Bot) handleSuggest(ctx context.Context, chatID int64, args string) {
	if !b.app.AIEnabled() {
		b.replyError(chatID, "Suggestions unavailable", app.ErrLLMDisabled)
		return
	}

	sent, err := b.send(markdown(chatID, "🧑‍🍳 *Thinking...*\n(Looking for recipes)"))
	if err != nil {
		return
	}

	recipes, err := b.app.Suggest(ctx, forms.Suggestion{IngredientsOnHand: args})
	var text string
	if err != nil {
		b.logger.Error("failed to suggest recipes", zap.Error(err))
		text = formatError("Could not fetch recipe suggestions", err)
	} else {
		text = formatSuggestions(recipes)
	}
	b.edit(chatID, sent.MessageID, text)
}

func (b *Bot) handleImport(ctx context.Context, chatID int64, url string) {
	if !b.app.AIEnabled() {
		b.replyError(chatID, "Import unavailable", app.ErrLLMDisabled)
		return
	}

	sent, err := b.send(markdown(chatID, "✂️ *Clipping recipe...*"))
	if err != nil {
		return
	}

	r, err := b.app.ImportRecipe(ctx, url)
	var text string
	if err != nil {
		b.logger.Error("failed to import recipe", zap.String("url", url), zap.Error(err))
		text = formatError("Error clipping recipe", err)
	} else {
		text = "✅ *Recipe Saved!*\n\n" + formatRecipe(r)
	}
	b.edit(chatID, sent.MessageID, text)
}

func (b *Bot) handleMetrics(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.From.ID != b.cfg.AdminTelegramID {
		b.reply(msg.Chat.ID, "⛔ *Access Denied*: Admin only.")
		return
	}

	usage, err := b.app.Metrics.GetDailyUsage(ctx, 7)
	if err != nil {
		b.logger.Error("failed to fetch metrics", zap.Error(err))
		b.reply(msg.Chat.ID, "❌ Error fetching metrics.")
		return
	}
	b.reply(msg.Chat.ID, formatMetrics(usage, b.app.Health()))
}

func (b *Bot) handleCallbackQuery(ctx context.Context, query *tgbotapi.CallbackQuery) {
	action, payload, ok := parseCallbackData(query.Data)
	if !ok || query.Message == nil {
		b.answer(query.ID, "")
		return
	}
	chatID := query.Message.Chat.ID
	messageID := query.Message.MessageID

	switch action {
	case actionToggle:
		item, found := findItem(b.app.GroceryList(), payload)
		if !found {
			b.answer(query.ID, "That item is no longer on the list.")
			break
		}
		if _, err := b.app.Plans.ToggleGroceryItem(ctx, item.Name); err != nil {
			b.answer(query.ID, "Could not update item.")
			break
		}
		b.answer(query.ID, "")
		b.refreshGroceryList(chatID, messageID)

	case actionClear:
		var err error
		if payload == clearAll {
			err = b.app.Plans.ClearGroceryList(ctx)
		} else {
			err = b.app.Plans.ClearManualGroceryItems(ctx)
		}
		if err != nil {
			b.answer(query.ID, "Could not clear the list.")
			break
		}
		b.answer(query.ID, "Cleared.")
		b.edit(chatID, messageID, "🧹 Cleared.")

	default:
		b.answer(query.ID, "")
	}
}

func (b *Bot) refreshGroceryList(chatID int64, messageID int) {
	items := b.app.GroceryList()
	edit := tgbotapi.NewEditMessageText(chatID, messageID, formatGroceryList(items))
	edit.ParseMode = tgbotapi.ModeMarkdown
	if len(items) > 0 {
		keyboard := groceryKeyboard(items)
		edit.ReplyMarkup = &keyboard
	}
	b.send(edit)
}

func markdown(chatID int64, text string) tgbotapi.MessageConfig {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	return m
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(markdown(chatID, text))
}

func (b *Bot) replyError(chatID int64, prefix string, err error) {
	var ferr *forms.Error
	switch {
	case errors.As(err, &ferr):
		b.reply(chatID, "⚠️ "+escape(ferr.Error()))
	case errors.Is(err, planner.ErrUnknownDay), errors.Is(err, planner.ErrUnknownMealType),
		errors.Is(err, app.ErrRecipeNotFound), errors.Is(err, app.ErrLLMDisabled):
		b.reply(chatID, "⚠️ "+escape(err.Error()))
	default:
		b.logger.Error(strings.ToLower(prefix), zap.Error(err))
		b.reply(chatID, formatError(prefix, err))
	}
}

func (b *Bot) edit(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = tgbotapi.ModeMarkdown
	b.send(edit)
}

func (b *Bot) answer(queryID, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(queryID, text)); err != nil {
		b.logger.Warn("failed to answer callback", zap.Error(err))
	}
}

func (b *Bot) send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m, err := b.api.Send(c)
	if err != nil {
		b.logger.Warn("failed to send telegram message", zap.Error(err))
	}
	return m, err
}
