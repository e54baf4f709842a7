package llm

import (
	"context"
	"fmt"

	"github.com/Mesayaaa/Meal-Plan/internal/config"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// langChainClient generates text through an OpenAI-compatible endpoint via langchaingo.
type langChainClient struct {
	llm   llms.Model
	model string
}

// NewLangChainClient creates an OpenAI client.
func NewLangChainClient(cfg *config.Config, opts ...openai.Option) (TextGenerator, error) {
	opts = append([]openai.Option{
		openai.WithToken(cfg.OpenAIAPIKey),
		openai.WithModel(cfg.OpenAIModel),
	}, opts...)

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return &langChainClient{llm: model, model: cfg.OpenAIModel}, nil
}

// GenerateContent sends a prompt as a single human message in JSON mode.
func (c *langChainClient) GenerateContent(ctx context.Context, prompt string) (ContentResponse, error) {
	resp, err := c.llm.GenerateContent(ctx,
		[]llms.MessageContent{llms.TextParts(llms.ChatMessageTypeHuman, prompt)},
		llms.WithJSONMode(),
		llms.WithTemperature(0.4),
	)
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ContentResponse{}, fmt.Errorf("no content generated")
	}

	choice := resp.Choices[0]
	return ContentResponse{
		Content: choice.Content,
		Usage: TokenUsage{
			PromptTokens:     intInfo(choice.GenerationInfo, "PromptTokens"),
			CompletionTokens: intInfo(choice.GenerationInfo, "CompletionTokens"),
			TotalTokens:      intInfo(choice.GenerationInfo, "TotalTokens"),
			Model:            c.model,
		},
	}, nil
}

func intInfo(info map[string]any, key string) int {
	switch v := info[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
