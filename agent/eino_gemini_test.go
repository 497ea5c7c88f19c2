package agent

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiChatModel_RequiresModelAndKey(t *testing.T) {
	ctx := context.Background()
	_, err := NewGeminiChatModel(ctx, nil)
	assert.Error(t, err)
	_, err = NewGeminiChatModel(ctx, &GeminiConfig{APIKey: "k"})
	assert.Error(t, err)
	_, err = NewGeminiChatModel(ctx, &GeminiConfig{Model: "m"})
	assert.Error(t, err)
}

func TestGeminiChatModel_RequestAndResponse(t *testing.T) {
	var body map[string]interface{}
	var path, key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		key = r.URL.Query().Get("key")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"slides\":"},{"text":"[]}"}]},"finishReason":"STOP"}]}`)
	}))
	defer srv.Close()

	m, err := NewGeminiChatModel(context.Background(), &GeminiConfig{
		APIKey:         "secret",
		BaseURL:        srv.URL + "/",
		Model:          "gemini-2.0-flash",
		ResponseSchema: DeckResponseSchema(),
	})
	require.NoError(t, err)

	msg, err := m.Generate(context.Background(), []*schema.Message{
		schema.SystemMessage("be brief"),
		schema.UserMessage("make slides"),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"slides":[]}`, msg.Content)
	assert.Equal(t, schema.Assistant, msg.Role)

	assert.Equal(t, "/v1beta/models/gemini-2.0-flash:generateContent", path)
	assert.Equal(t, "secret", key)

	gc := body["generationConfig"].(map[string]interface{})
	assert.Equal(t, "application/json", gc["responseMimeType"])
	assert.EqualValues(t, 8192, gc["maxOutputTokens"])
	rs := gc["responseSchema"].(map[string]interface{})
	assert.Equal(t, "OBJECT", rs["type"])

	sys := body["systemInstruction"].(map[string]interface{})
	parts := sys["parts"].([]interface{})
	assert.Equal(t, "be brief", parts[0].(map[string]interface{})["text"])

	contents := body["contents"].([]interface{})
	require.Len(t, contents, 1)
	assert.Equal(t, "user", contents[0].(map[string]interface{})["role"])
}

func TestGeminiChatModel_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"http status", http.StatusTooManyRequests, `quota`, "Gemini API error (429)"},
		{"error object", http.StatusOK, `{"error":{"code":400,"message":"bad schema"}}`, "bad schema"},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, "no candidates"},
		{"empty text", http.StatusOK, `{"candidates":[{"content":{"parts":[]},"finishReason":"SAFETY"}]}`, "SAFETY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			m, err := NewGeminiChatModel(context.Background(), &GeminiConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
			require.NoError(t, err)
			_, err = m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDeckResponseSchema_IsJSON(t *testing.T) {
	text := schemaText()
	require.NotEmpty(t, text)
	var v map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	assert.Contains(t, text, `"datasets"`)
}

func TestOpenAICompatibleWrapper_ImproveErrorMessage(t *testing.T) {
	arrayErr := func(code int, status, msg string) error {
		return errors.New(`error, status code: ` + http.StatusText(code) + `, message: json: cannot unmarshal array into Go value of type openai.ErrorResponse, body: [{"error":{"code":` +
			strings.TrimSpace(jsonInt(code)) + `,"message":"` + msg + `","status":"` + status + `"}}]`)
	}
	tests := []struct {
		name    string
		baseURL string
		err     error
		want    string
	}{
		{"gemini 503", "https://generativelanguage.googleapis.com/v1beta/openai", arrayErr(503, "UNAVAILABLE", "busy"), "Gemini service temporarily unavailable (503)"},
		{"gemini 429", "https://generativelanguage.googleapis.com/v1beta/openai", arrayErr(429, "RESOURCE_EXHAUSTED", "slow down"), "rate limit exceeded (429)"},
		{"other 401", "https://proxy.example.com", arrayErr(401, "UNAUTHENTICATED", "no"), "Model provider authentication failed (401)"},
		{"404", "", arrayErr(404, "NOT_FOUND", "gone"), "model not found (404)"},
		{"overloaded", "", errors.New("server overloaded"), "currently overloaded"},
		{"json mode", "", errors.New("response_format is not supported"), "does not support JSON mode"},
		{"passthrough", "", errors.New("dial tcp: refused"), "dial tcp: refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewOpenAICompatibleWrapper(nil, tt.baseURL, nil)
			got := w.improveErrorMessage(tt.err)
			assert.Contains(t, got.Error(), tt.want)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func jsonInt(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

func TestOpenAICompatibleWrapper_Generate(t *testing.T) {
	var logged []string
	inner := &fakeModel{err: errors.New("model overloaded")}
	w := NewOpenAICompatibleWrapper(inner, "", func(s string) { logged = append(logged, s) })

	_, err := w.Generate(context.Background(), []*schema.Message{schema.UserMessage("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")
	assert.Len(t, logged, 1)

	ok := NewOpenAICompatibleWrapper(&fakeModel{reply: "fine"}, "", nil)
	msg, err := ok.Generate(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "fine", msg.Content)
}
