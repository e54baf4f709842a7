package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Mesayaaa/Meal-Plan/internal/app"
	"github.com/Mesayaaa/Meal-Plan/internal/config"
	"github.com/Mesayaaa/Meal-Plan/internal/planner"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	userID  int64 = 11
	adminID int64 = 99
	chatID  int64 = 500
)

type MockSender struct {
	mu       sync.Mutex
	Sent     []tgbotapi.Chattable
	Requests []tgbotapi.Chattable
}

func (m *MockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, c)
	return tgbotapi.Message{MessageID: len(m.Sent)}, nil
}

func (m *MockSender) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests = append(m.Requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (m *MockSender) lastText(t *testing.T) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.Sent)
	switch c := m.Sent[len(m.Sent)-1].(type) {
	case tgbotapi.MessageConfig:
		return c.Text
	case tgbotapi.EditMessageTextConfig:
		return c.Text
	default:
		t.Fatalf("unexpected chattable %T", c)
		return ""
	}
}

func newTestBot(t *testing.T) (*Bot, *MockSender) {
	t.Helper()
	cfg := &config.Config{
		DatabasePath:           filepath.Join(t.TempDir(), "bot.db"),
		StorageBackend:         "memory",
		LLMProvider:            "gemini",
		TelegramAllowedUserIDs: []int64{userID, adminID},
		AdminTelegramID:        adminID,
	}
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	sender := &MockSender{}
	return newBot(sender, a, cfg, nil), sender
}

func command(from int64, text string) tgbotapi.Update {
	cmd, _, _ := strings.Cut(text, " ")
	return tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: from},
		Chat:     &tgbotapi.Chat{ID: chatID},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}}
}

func callback(from int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "q1",
		From:    &tgbotapi.User{ID: from},
		Data:    data,
		Message: &tgbotapi.Message{MessageID: 7, Chat: &tgbotapi.Chat{ID: chatID}},
	}}
}

func TestPlanCommands(t *testing.T) {
	b, sender := newTestBot(t)

	b.handleUpdate(command(userID, "/plan"))
	assert.Contains(t, sender.lastText(t), "Nothing planned yet")

	b.handleUpdate(command(userID, "/add monday dinner Classic Spaghetti Carbonara"))
	assert.Contains(t, sender.lastText(t), "added to monday dinner")

	b.handleUpdate(command(userID, "/plan"))
	assert.Contains(t, sender.lastText(t), "Dinner: Classic Spaghetti Carbonara")

	b.handleUpdate(command(userID, "/add Funday Dinner Classic Spaghetti Carbonara"))
	assert.Contains(t, sender.lastText(t), "Day must be one of Monday to Sunday.")

	b.handleUpdate(command(userID, "/remove Monday Dinner"))
	assert.Equal(t, 0, b.app.Plans.MealPlan().Planned())
}

func TestGroceryCommands(t *testing.T) {
	b, sender := newTestBot(t)

	b.handleUpdate(command(userID, "/buy Oat Milk; 2 cartons"))
	assert.Contains(t, sender.lastText(t), "Added *Oat Milk*")
	require.Len(t, b.app.Plans.ManualItems(), 1)
	assert.Equal(t, "2 cartons", b.app.Plans.ManualItems()[0].Notes)

	b.handleUpdate(command(userID, "/buy oat milk"))
	assert.Contains(t, sender.lastText(t), "already on the list")
	require.Len(t, b.app.Plans.ManualItems(), 1)

	b.handleUpdate(command(userID, "/grocery"))
	msg, ok := sender.Sent[len(sender.Sent)-1].(tgbotapi.MessageConfig)
	require.True(t, ok)
	keyboard, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, keyboard.InlineKeyboard, 1)
	assert.Equal(t, "toggle|"+itemToken("Oat Milk"), *keyboard.InlineKeyboard[0][0].CallbackData)

	b.handleUpdate(callback(userID, "toggle|"+itemToken("oat milk")))
	assert.True(t, b.app.Plans.Overlay().Completed("oat milk"))
	edit, ok := sender.Sent[len(sender.Sent)-1].(tgbotapi.EditMessageTextConfig)
	require.True(t, ok)
	assert.Contains(t, edit.Text, "(1/1 done)")

	b.handleUpdate(command(userID, "/check oat milk"))
	assert.Contains(t, sender.lastText(t), "back on the list")
	assert.False(t, b.app.Plans.Overlay().Completed("oat milk"))
}

func TestClearCallbacks(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBot(t)

	seed := func() {
		r, ok := b.app.Recipes.Get("Avocado Toast with Egg")
		require.True(t, ok)
		require.NoError(t, b.app.Plans.AddMeal(ctx, planner.Sunday, planner.Breakfast, r))
		require.NoError(t, b.app.Plans.AddManualGroceryItem(ctx, "Coffee"))
	}

	seed()
	b.handleUpdate(callback(userID, "clear|items"))
	assert.Empty(t, b.app.Plans.ManualItems())
	assert.Equal(t, 1, b.app.Plans.MealPlan().Planned())

	seed()
	b.handleUpdate(callback(userID, "clear|all"))
	assert.Empty(t, b.app.Plans.ManualItems())
	assert.Equal(t, 0, b.app.Plans.MealPlan().Planned())
}

func TestPreferencesCommands(t *testing.T) {
	b, sender := newTestBot(t)

	b.handleUpdate(command(userID, "/setprefs vegan; Thai, Indian"))
	assert.Contains(t, sender.lastText(t), "*Cuisine:* Thai, Indian")
	assert.Equal(t, "vegan", b.app.Prefs.Preferences().DietaryPreferences)

	b.handleUpdate(command(userID, "/setprefs vegan"))
	assert.Contains(t, sender.lastText(t), "Usage: /setprefs")
}

func TestAIDisabled(t *testing.T) {
	b, sender := newTestBot(t)

	b.handleUpdate(command(userID, "/suggest rice"))
	assert.Contains(t, sender.lastText(t), "AI features are disabled")

	b.handleUpdate(tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: userID},
		Chat: &tgbotapi.Chat{ID: chatID},
		Text: "https://example.test/recipe",
	}})
	assert.Contains(t, sender.lastText(t), "AI features are disabled")
}

func TestAccessControl(t *testing.T) {
	b, sender := newTestBot(t)

	b.handleUpdate(command(12345, "/plan"))
	b.handleUpdate(callback(12345, "clear|all"))
	assert.Empty(t, sender.Sent)
	assert.Empty(t, sender.Requests)

	b.handleUpdate(command(userID, "/metrics"))
	assert.Contains(t, sender.lastText(t), "Access Denied")

	b.handleUpdate(command(adminID, "/metrics"))
	assert.Contains(t, sender.lastText(t), "Usage & Health Report")
}

func TestWebhookHandlers(t *testing.T) {
	b, _ := newTestBot(t)
	mux := http.NewServeMux()
	b.RegisterHandlers(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
