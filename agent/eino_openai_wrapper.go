package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// OpenAICompatibleWrapper wraps an OpenAI-compatible chat model and rewrites
// provider errors into messages a user can act on.
type OpenAICompatibleWrapper struct {
	inner   model.BaseChatModel
	baseURL string
	logger  func(string)
}

// NewOpenAICompatibleWrapper creates a wrapper around an OpenAI-compatible model
func NewOpenAICompatibleWrapper(inner model.BaseChatModel, baseURL string, logger func(string)) *OpenAICompatibleWrapper {
	if logger == nil {
		logger = func(string) {}
	}
	return &OpenAICompatibleWrapper{
		inner:   inner,
		baseURL: baseURL,
		logger:  logger,
	}
}

// isGeminiEndpoint checks if the base URL points to Gemini's OpenAI-compatible endpoint
func (w *OpenAICompatibleWrapper) isGeminiEndpoint() bool {
	return strings.Contains(w.baseURL, "generativelanguage.googleapis.com")
}

// Generate wraps the inner model's Generate method with error handling
func (w *OpenAICompatibleWrapper) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	resp, err := w.inner.Generate(ctx, input, opts...)
	if err != nil {
		improved := w.improveErrorMessage(err)
		w.logger(fmt.Sprintf("[agent] model call failed: %v", improved))
		return nil, improved
	}
	return resp, nil
}

// Stream wraps the inner model's Stream method with error handling
func (w *OpenAICompatibleWrapper) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	reader, err := w.inner.Stream(ctx, input, opts...)
	if err != nil {
		return nil, w.improveErrorMessage(err)
	}
	return reader, nil
}

// providerError is the error body shape shared by OpenAI-style endpoints.
// Gemini's compatibility layer returns it wrapped in a one-element array.
type providerError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// improveErrorMessage maps raw provider errors to user-facing messages. The
// original error stays reachable through errors.Unwrap.
func (w *OpenAICompatibleWrapper) improveErrorMessage(err error) error {
	errStr := err.Error()

	if pe, ok := extractArrayError(errStr); ok {
		provider := "Model provider"
		if w.isGeminiEndpoint() {
			provider = "Gemini"
		}
		switch pe.Code {
		case 503:
			return fmt.Errorf("%s service temporarily unavailable (503): %s. Please try again in a few moments: %w", provider, pe.Message, err)
		case 429:
			return fmt.Errorf("%s rate limit exceeded (429): %s. Please wait before retrying: %w", provider, pe.Message, err)
		case 401:
			return fmt.Errorf("%s authentication failed (401): please check your API key: %w", provider, err)
		case 404:
			return fmt.Errorf("%s model not found (404): %s. Please verify the model name: %w", provider, pe.Message, err)
		case 400:
			return fmt.Errorf("%s bad request (400): %s: %w", provider, pe.Message, err)
		default:
			return fmt.Errorf("%s API error (%d - %s): %s: %w", provider, pe.Code, pe.Status, pe.Message, err)
		}
	}

	if strings.Contains(errStr, "cannot unmarshal array") && w.isGeminiEndpoint() {
		return fmt.Errorf("Gemini API returned an error in non-standard format. This may be a temporary service issue: %w", err)
	}

	if strings.Contains(errStr, "overloaded") || strings.Contains(errStr, "UNAVAILABLE") {
		return fmt.Errorf("the model is currently overloaded, please try again in a few moments: %w", err)
	}

	if strings.Contains(errStr, "response_format") || strings.Contains(errStr, "json_object") {
		return fmt.Errorf("the endpoint does not support JSON mode; choose a model that does: %w", err)
	}

	return err
}

// extractArrayError finds an array-form error body after "body:" in errStr.
func extractArrayError(errStr string) (providerError, bool) {
	if !strings.Contains(errStr, "cannot unmarshal array") {
		return providerError{}, false
	}
	idx := strings.Index(errStr, "body:")
	if idx == -1 {
		return providerError{}, false
	}
	bodyStr := strings.TrimSpace(errStr[idx+5:])

	var wrapped []struct {
		Error providerError `json:"error"`
	}
	if err := json.Unmarshal([]byte(bodyStr), &wrapped); err != nil || len(wrapped) == 0 {
		return providerError{}, false
	}
	return wrapped[0].Error, true
}
