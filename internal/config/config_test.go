package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromEnv(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "data/meal-plan.db", cfg.DatabasePath)
		assert.Equal(t, "sqlite", cfg.StorageBackend)
		assert.Equal(t, "gemini", cfg.LLMProvider)
	})

	t.Run("EnvOverrides", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "gemini_key")
		t.Setenv("STORAGE_BACKEND", "file")
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "11, 22")
		t.Setenv("ADMIN_TELEGRAM_ID", "11")

		cfg, err := NewFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "gemini_key", cfg.GeminiAPIKey)
		assert.Equal(t, "file", cfg.StorageBackend)
		assert.Equal(t, []int64{11, 22}, cfg.TelegramAllowedUserIDs)
		assert.Equal(t, int64(11), cfg.AdminTelegramID)
	})

	t.Run("InvalidUserID", func(t *testing.T) {
		t.Setenv("TELEGRAM_ALLOWED_USER_IDS", "abc")

		_, err := NewFromEnv()
		require.Error(t, err)
	})

	t.Run("UnsupportedBackend", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "redis")

		_, err := NewFromEnv()
		require.Error(t, err)
	})
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("llm_provider: groq\ngroq_api_key: from_file\n"), 0600))

	t.Run("FileValues", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "groq", cfg.LLMProvider)
		assert.Equal(t, "from_file", cfg.GroqAPIKey)
		assert.Equal(t, "llama-3.3-70b-versatile", cfg.GroqModel)
	})

	t.Run("EnvBeatsFile", func(t *testing.T) {
		t.Setenv("GROQ_API_KEY", "from_env")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from_env", cfg.GroqAPIKey)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})
}

func TestRequireLLM(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		expectedErr string
	}{
		{"GeminiOK", Config{LLMProvider: "gemini", GeminiAPIKey: "k"}, ""},
		{"MissingGeminiAPIKey", Config{LLMProvider: "gemini"}, "GEMINI_API_KEY environment variable not set"},
		{"MissingGroqAPIKey", Config{LLMProvider: "groq"}, "GROQ_API_KEY environment variable not set"},
		{"MissingOpenAIAPIKey", Config{LLMProvider: "openai"}, "OPENAI_API_KEY environment variable not set"},
		{"UnknownProvider", Config{LLMProvider: "mystery"}, `unsupported llm provider "mystery"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.RequireLLM()
			if tt.expectedErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.expectedErr, err.Error())
		})
	}
}

func TestRequireTelegram(t *testing.T) {
	cfg := Config{TelegramBotToken: "tok", TelegramWebhookURL: "https://example.test/webhook"}
	err := cfg.RequireTelegram()
	require.Error(t, err)
	assert.Equal(t, "TELEGRAM_ALLOWED_USER_IDS environment variable not set", err.Error())

	cfg.TelegramAllowedUserIDs = []int64{1}
	assert.NoError(t, cfg.RequireTelegram())
}
