// Package i18n holds the UI strings and generation prompts in every
// language Deck Studio ships.
package i18n

import (
	"fmt"
	"strings"
	"sync"
)

// Language is the display name stored in config.Config.Language.
type Language string

const (
	English Language = "English"
	Chinese Language = "简体中文"
)

var catalogs = map[Language]map[string]string{
	English: englishTranslations,
	Chinese: chineseTranslations,
}

// ParseLanguage maps a configured language name or tag to a supported
// Language. Anything unrecognised is English.
func ParseLanguage(name string) Language {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "简体中文", "中文", "chinese", "zh", "zh-cn", "zh-hans":
		return Chinese
	default:
		return English
	}
}

// Tag is the BCP 47 tag used for the webview's lang attribute.
func (l Language) Tag() string {
	if l == Chinese {
		return "zh-CN"
	}
	return "en"
}

var (
	mu      sync.RWMutex
	current = English
)

// SetLanguage switches every later T and prompt lookup.
func SetLanguage(lang Language) {
	if _, ok := catalogs[lang]; !ok {
		lang = English
	}
	mu.Lock()
	current = lang
	mu.Unlock()
}

// GetLanguage returns the active language.
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// T looks key up in the active language, formatting params with Sprintf.
// Missing keys come back unchanged so gaps show up in the UI.
func T(key string, params ...interface{}) string {
	text, ok := catalogs[GetLanguage()][key]
	if !ok {
		return key
	}
	if len(params) > 0 {
		return fmt.Sprintf(text, params...)
	}
	return text
}
