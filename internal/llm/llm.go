package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mesayaaa/Meal-Plan/internal/config"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AgentMeta holds operational metadata for one LLM-backed operation.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (ContentResponse, error)
}

// MetaRecorder persists usage metadata of LLM calls.
type MetaRecorder interface {
	RecordMeta(ctx context.Context, meta AgentMeta) error
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

// New builds the TextGenerator selected by cfg.LLMProvider.
func New(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	if err := cfg.RequireLLM(); err != nil {
		return nil, err
	}

	switch cfg.LLMProvider {
	case "gemini":
		return NewGeminiClient(ctx, cfg)
	case "groq":
		return NewGroqClient(cfg), nil
	case "openai":
		return NewLangChainClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLMProvider)
	}
}

// CleanJSON strips a Markdown code fence that models sometimes wrap around
// JSON output.
func CleanJSON(content string) string {
	s := strings.TrimSpace(content)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
