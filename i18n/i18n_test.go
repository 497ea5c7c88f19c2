package i18n

import (
	"strings"
	"testing"

	"deckstudio/config"
)

func TestTranslationKeysMatch(t *testing.T) {
	for key := range englishTranslations {
		if _, ok := chineseTranslations[key]; !ok {
			t.Errorf("key %q missing from Chinese translations", key)
		}
	}
	for key := range chineseTranslations {
		if _, ok := englishTranslations[key]; !ok {
			t.Errorf("key %q missing from English translations", key)
		}
	}
}

func TestT(t *testing.T) {
	prev := GetLanguage()
	defer SetLanguage(prev)

	SetLanguage(English)
	if got := T("player.slide_of", 2, 5); got != "Slide 2 of 5" {
		t.Errorf("T = %q", got)
	}
	if got := T("no.such.key"); got != "no.such.key" {
		t.Errorf("unknown key = %q", got)
	}

	SetLanguage(Chinese)
	if got := T("generate.source_loaded", 42, "a.txt"); !strings.Contains(got, "a.txt") || !strings.Contains(got, "42") {
		t.Errorf("indexed params = %q", got)
	}
}

func TestSyncLanguageFromConfig(t *testing.T) {
	prev := GetLanguage()
	defer SetLanguage(prev)

	SyncLanguageFromConfig(&config.Config{Language: "简体中文"})
	if GetLanguage() != Chinese {
		t.Errorf("language = %s", GetLanguage())
	}
	SyncLanguageFromConfig(nil)
	if GetLanguage() != Chinese {
		t.Error("nil config must leave the language alone")
	}
	SyncLanguageFromConfig(&config.Config{Language: "Klingon"})
	if GetLanguage() != English {
		t.Errorf("unknown language should fall back to English, got %s", GetLanguage())
	}
}

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
	}{
		{"English", English},
		{"简体中文", Chinese},
		{" ZH-cn ", Chinese},
		{"chinese", Chinese},
		{"", English},
		{"fr", English},
	}
	for _, tt := range tests {
		if got := ParseLanguage(tt.in); got != tt.want {
			t.Errorf("ParseLanguage(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestLanguageTagAndUnknownLanguage(t *testing.T) {
	prev := GetLanguage()
	defer SetLanguage(prev)

	if English.Tag() != "en" || Chinese.Tag() != "zh-CN" {
		t.Errorf("tags = %s, %s", English.Tag(), Chinese.Tag())
	}
	SetLanguage("Deutsch")
	if GetLanguage() != English {
		t.Errorf("unsupported language kept: %s", GetLanguage())
	}
}

func TestPrompts(t *testing.T) {
	prev := GetLanguage()
	defer SetLanguage(prev)

	for _, lang := range []Language{English, Chinese} {
		SetLanguage(lang)
		if !strings.Contains(GetDeckSystemPrompt(), "JSON") {
			t.Errorf("%s system prompt does not mention JSON", lang)
		}
		if !strings.Contains(FormatDeckUserPrompt("Tides", "Nature", 5), "Tides") {
			t.Errorf("%s user prompt lost the topic", lang)
		}
		if !strings.Contains(FormatPromptSection("file_context", "SOURCE"), "SOURCE") {
			t.Errorf("%s file context section lost the text", lang)
		}
	}
	if GetPromptSection("missing") != "missing" {
		t.Error("unknown section should return the key")
	}
}
