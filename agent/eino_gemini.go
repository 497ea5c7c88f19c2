package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

const geminiDefaultBaseURL = "https://generativelanguage.googleapis.com"

// GeminiChatModel implements the Eino ChatModel interface for Google Gemini.
// It asks for a JSON reply constrained by ResponseSchema.
type GeminiChatModel struct {
	config *GeminiConfig
	client *http.Client
}

// GeminiConfig holds configuration for Gemini API
type GeminiConfig struct {
	APIKey    string
	BaseURL   string // Optional custom base URL
	Model     string // e.g., "gemini-2.0-flash"
	MaxTokens int
	// ResponseSchema is sent as generationConfig.responseSchema. Nil sends none.
	ResponseSchema map[string]interface{}
	// HTTPClient overrides the default client.
	HTTPClient *http.Client
}

// NewGeminiChatModel creates a new Gemini chat model
func NewGeminiChatModel(ctx context.Context, config *GeminiConfig) (*GeminiChatModel, error) {
	if config == nil {
		return nil, fmt.Errorf("gemini config is nil")
	}
	if config.Model == "" {
		return nil, fmt.Errorf("gemini model name is empty - please configure a valid model name")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is empty - please configure your API key")
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 300 * time.Second}
	}
	return &GeminiChatModel{config: config, client: client}, nil
}

// Generate sends a request to Gemini API and returns the response
func (m *GeminiChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	reqBody := m.buildRequestBody(input)

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	baseURL := m.config.BaseURL
	if baseURL == "" {
		baseURL = geminiDefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	fullURL := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", baseURL, m.config.Model, m.config.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fullURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Gemini API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return m.parseResponse(respBody)
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string                 `json:"responseMimeType"`
	MaxOutputTokens  int                    `json:"maxOutputTokens"`
	ResponseSchema   map[string]interface{} `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

// buildRequestBody folds system messages into systemInstruction; assistant
// turns use the "model" role.
func (m *GeminiChatModel) buildRequestBody(input []*schema.Message) geminiRequest {
	req := geminiRequest{
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			MaxOutputTokens:  8192,
			ResponseSchema:   m.config.ResponseSchema,
		},
	}
	if m.config.MaxTokens > 0 {
		req.GenerationConfig.MaxOutputTokens = m.config.MaxTokens
	}

	var system []string
	for _, msg := range input {
		switch {
		case msg.Role == schema.System:
			system = append(system, msg.Content)
		case msg.Content == "":
		case msg.Role == schema.Assistant:
			req.Contents = append(req.Contents, geminiContent{Role: "model", Parts: []geminiPart{{Text: msg.Content}}})
		default:
			req.Contents = append(req.Contents, geminiContent{Role: "user", Parts: []geminiPart{{Text: msg.Content}}})
		}
	}
	if sys := strings.TrimSpace(strings.Join(system, "\n")); sys != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: sys}}}
	}
	return req
}

// parseResponse joins the text parts of the first candidate.
func (m *GeminiChatModel) parseResponse(respBody []byte) (*schema.Message, error) {
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text,omitempty"`
				} `json:"parts"`
				Role string `json:"role"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error,omitempty"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if result.Error != nil {
		return nil, fmt.Errorf("Gemini API error: %s (code: %d)", result.Error.Message, result.Error.Code)
	}

	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("no candidates in Gemini response")
	}

	candidate := result.Candidates[0]
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("empty Gemini response (finish reason: %s)", candidate.FinishReason)
	}

	return &schema.Message{Role: schema.Assistant, Content: sb.String()}, nil
}

// Stream implements streaming response (not yet supported)
func (m *GeminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("streaming not supported yet for Gemini")
}
