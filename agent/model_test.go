package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckstudio/config"
	"deckstudio/i18n"
)

func TestNewChatModel_SelectsProvider(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default("")
	cfg.ModelName = ""
	_, err := NewChatModel(ctx, cfg, nil)
	assert.Error(t, err)

	cfg = config.Default("")
	cfg.LLMProvider = config.ProviderGemini
	cfg.ModelName = "gemini-2.0-flash"
	cfg.APIKey = "k"
	m, err := NewChatModel(ctx, cfg, nil)
	require.NoError(t, err)
	gm, ok := m.(*GeminiChatModel)
	require.True(t, ok)
	assert.NotNil(t, gm.config.ResponseSchema)

	cfg = config.Default("")
	cfg.APIKey = "k"
	cfg.BaseURL = "https://api.example.com/v1"
	m, err = NewChatModel(ctx, cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAICompatibleWrapper{}, m)
}

func TestBuildMessages_FollowsLanguage(t *testing.T) {
	prev := i18n.GetLanguage()
	defer i18n.SetLanguage(prev)

	req := GenerateRequest{Topic: "潮汐", Style: "Nature", SlideCount: 3}.normalized()

	i18n.SetLanguage(i18n.Chinese)
	zh := buildMessages(req, 100)
	assert.Contains(t, zh[1].Content, "恰好 3 张")

	i18n.SetLanguage(i18n.English)
	en := buildMessages(req, 100)
	assert.Contains(t, en[1].Content, "exactly 3")
	assert.NotContains(t, en[1].Content, "---", "no file context section without context")
}
