package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the configuration for the application.
type Config struct {
	DatabasePath   string `koanf:"database_path"`
	StorageBackend string `koanf:"storage_backend"`
	StoragePath    string `koanf:"storage_path"`

	LLMProvider  string `koanf:"llm_provider"`
	GeminiAPIKey string `koanf:"gemini_api_key"`
	GeminiModel  string `koanf:"gemini_model"`
	GroqAPIKey   string `koanf:"groq_api_key"`
	GroqModel    string `koanf:"groq_model"`
	OpenAIAPIKey string `koanf:"openai_api_key"`
	OpenAIModel  string `koanf:"openai_model"`

	// Telegram Config
	TelegramBotToken       string  `koanf:"telegram_bot_token"`
	TelegramWebhookURL     string  `koanf:"telegram_webhook_url"`
	TelegramAllowedUserIDs []int64 `koanf:"-"`
	AdminTelegramID        int64   `koanf:"admin_telegram_id"`
	Port                   string  `koanf:"port"`

	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// keys lists every configuration key; environment variables are the
// upper-cased form (GEMINI_API_KEY -> gemini_api_key).
var keys = map[string]struct{}{
	"database_path":             {},
	"storage_backend":           {},
	"storage_path":              {},
	"llm_provider":              {},
	"gemini_api_key":            {},
	"gemini_model":              {},
	"groq_api_key":              {},
	"groq_model":                {},
	"openai_api_key":            {},
	"openai_model":              {},
	"telegram_bot_token":        {},
	"telegram_webhook_url":      {},
	"telegram_allowed_user_ids": {},
	"admin_telegram_id":         {},
	"port":                      {},
	"log_level":                 {},
	"log_format":                {},
}

// NewFromEnv creates a new Config from the built-in defaults and environment variables.
func NewFromEnv() (*Config, error) {
	return Load("")
}

// Load builds the configuration from, in increasing precedence: built-in
// defaults, the optional YAML file at path, and environment variables.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load default config: %w", err)
	}

	if path != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := keys[key]; !ok {
			return ""
		}
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ids, err := parseUserIDs(k.String("telegram_allowed_user_ids"))
	if err != nil {
		return nil, err
	}
	cfg.TelegramAllowedUserIDs = ids

	switch cfg.StorageBackend {
	case "sqlite", "file", "memory":
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.StorageBackend)
	}

	return &cfg, nil
}

// RequireLLM checks that the selected LLM provider has its API key.
func (c *Config) RequireLLM() error {
	switch c.LLMProvider {
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	case "groq":
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY environment variable not set")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLMProvider)
	}
	return nil
}

// RequireTelegram checks the settings the bot cannot start without.
func (c *Config) RequireTelegram() error {
	if c.TelegramBotToken == "" {
		return fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable not set")
	}
	if c.TelegramWebhookURL == "" {
		return fmt.Errorf("TELEGRAM_WEBHOOK_URL environment variable not set")
	}
	if len(c.TelegramAllowedUserIDs) == 0 {
		return fmt.Errorf("TELEGRAM_ALLOWED_USER_IDS environment variable not set")
	}
	return nil
}

func parseUserIDs(raw string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid telegram user id %q: %w", part, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
