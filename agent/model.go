package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"deckstudio/config"
)

// NewChatModel builds the chat model selected by cfg.LLMProvider. Gemini uses
// the native generateContent endpoint so the reply can be schema-constrained;
// every other provider goes through the OpenAI-compatible client.
func NewChatModel(ctx context.Context, cfg config.Config, logger func(string)) (model.BaseChatModel, error) {
	if cfg.ModelName == "" {
		return nil, fmt.Errorf("model name is empty - please configure a valid model name in settings")
	}

	switch cfg.LLMProvider {
	case config.ProviderGemini:
		return NewGeminiChatModel(ctx, &GeminiConfig{
			APIKey:         cfg.APIKey,
			BaseURL:        cfg.BaseURL,
			Model:          cfg.ModelName,
			MaxTokens:      cfg.MaxTokens,
			ResponseSchema: DeckResponseSchema(),
		})
	default:
		maxTokens := cfg.MaxTokens
		inner, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.ModelName,
			MaxTokens: &maxTokens,
			Timeout:   time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create eino chat model: %w", err)
		}
		return NewOpenAICompatibleWrapper(inner, cfg.BaseURL, logger), nil
	}
}
