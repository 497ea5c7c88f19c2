package agent

import (
	"strings"
	"unicode/utf8"

	"github.com/cloudwego/eino/schema"

	"deckstudio/deck"
	"deckstudio/i18n"
)

// truncateRunes cuts s to at most limit runes and reports whether it did.
func truncateRunes(s string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], true
		}
		n++
	}
	return s, false
}

// buildMessages renders the system instruction and user request for req.
// req must already be normalized.
func buildMessages(req GenerateRequest, fileContextLimit int) []*schema.Message {
	var user strings.Builder
	user.WriteString(i18n.FormatDeckUserPrompt(req.Topic, string(req.Style), req.SlideCount))
	user.WriteString(i18n.FormatPromptSection("schema", schemaText()))

	if ctxText := strings.TrimSpace(req.FileContext); ctxText != "" {
		cut, truncated := truncateRunes(ctxText, fileContextLimit)
		user.WriteString(i18n.FormatPromptSection("file_context", cut))
		if truncated {
			user.WriteString(i18n.GetPromptSection("file_context_truncated"))
		}
	}

	return []*schema.Message{
		schema.SystemMessage(i18n.GetDeckSystemPrompt()),
		schema.UserMessage(user.String()),
	}
}

// extractJSON strips Markdown fences and any prose around the outermost object.
func extractJSON(text string) string {
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// parseReply validates the model's reply into a deck.
func parseReply(text string) (*deck.Deck, error) {
	d, err := deck.Validate([]byte(extractJSON(text)))
	if err != nil {
		return nil, &GenerationError{Stage: StageParse, Err: err, Raw: text}
	}
	return d, nil
}
