package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Provider names accepted in LLMProvider.
const (
	ProviderOpenAI           = "OpenAI"
	ProviderOpenAICompatible = "OpenAI-Compatible"
	ProviderGemini           = "Gemini"
)

// Defaults applied by Normalize.
const (
	DefaultModelName        = "gpt-4o"
	DefaultMaxTokens        = 8192
	DefaultLanguage         = "English"
	DefaultTimeoutSeconds   = 120
	DefaultFileContextLimit = 20000
	DefaultSlideCount       = 6
	DefaultStyle            = "Corporate"
	DefaultStoreEngine      = "file"
	MaxSlideCount           = 20
	maxTimeoutSeconds       = 600
)

// StoreConfig selects where history and community decks are kept.
type StoreConfig struct {
	Engine string `json:"engine" yaml:"engine" validate:"omitempty,oneof=memory file sqlite mysql"`
	DSN    string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
}

// GenerationConfig tunes deck generation.
type GenerationConfig struct {
	TimeoutSeconds    int    `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	FileContextLimit  int    `json:"fileContextLimit" yaml:"fileContextLimit"`
	DefaultStyle      string `json:"defaultStyle" yaml:"defaultStyle"`
	DefaultSlideCount int    `json:"defaultSlideCount" yaml:"defaultSlideCount"`
}

// Config structure
type Config struct {
	LLMProvider string           `json:"llmProvider" yaml:"llmProvider" validate:"omitempty,oneof=OpenAI OpenAI-Compatible Gemini"`
	APIKey      string           `json:"apiKey" yaml:"apiKey"`
	BaseURL     string           `json:"baseUrl" yaml:"baseUrl" validate:"omitempty,url"`
	ModelName   string           `json:"modelName" yaml:"modelName"`
	MaxTokens   int              `json:"maxTokens" yaml:"maxTokens" validate:"gte=0"`
	DarkMode    bool             `json:"darkMode" yaml:"darkMode"`
	Language    string           `json:"language" yaml:"language"`
	DataDir     string           `json:"dataDir" yaml:"dataDir"`
	DetailedLog bool             `json:"detailedLog" yaml:"detailedLog"`
	AuthorName  string           `json:"authorName" yaml:"authorName"`
	Store       StoreConfig      `json:"store" yaml:"store"`
	Generation  GenerationConfig `json:"generation" yaml:"generation"`
}

var validate = validator.New()

// Default returns the configuration used when no file exists yet.
func Default(dataDir string) Config {
	cfg := Config{
		LLMProvider: ProviderOpenAI,
		ModelName:   DefaultModelName,
		MaxTokens:   DefaultMaxTokens,
		Language:    DefaultLanguage,
		DataDir:     dataDir,
	}
	cfg.Normalize()
	return cfg
}

// Normalize fills empty fields with defaults and clamps out-of-range values.
func (c *Config) Normalize() {
	if c.LLMProvider == "" {
		c.LLMProvider = ProviderOpenAI
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	c.Store.Engine = strings.ToLower(strings.TrimSpace(c.Store.Engine))
	if c.Store.Engine == "" {
		c.Store.Engine = DefaultStoreEngine
	}

	g := &c.Generation
	if g.TimeoutSeconds <= 0 {
		g.TimeoutSeconds = DefaultTimeoutSeconds
	} else if g.TimeoutSeconds > maxTimeoutSeconds {
		g.TimeoutSeconds = maxTimeoutSeconds
	}
	if g.FileContextLimit <= 0 {
		g.FileContextLimit = DefaultFileContextLimit
	}
	if g.DefaultStyle == "" {
		g.DefaultStyle = DefaultStyle
	}
	if g.DefaultSlideCount <= 0 {
		g.DefaultSlideCount = DefaultSlideCount
	} else if g.DefaultSlideCount > MaxSlideCount {
		g.DefaultSlideCount = MaxSlideCount
	}
}

// Validate reports settings that cannot be repaired by Normalize.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			switch e.Tag() {
			case "oneof":
				msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param()))
			case "url":
				msgs = append(msgs, fmt.Sprintf("%s must be a URL", e.Field()))
			default:
				msgs = append(msgs, fmt.Sprintf("%s failed %s", e.Field(), e.Tag()))
			}
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	if c.Store.Engine == "mysql" && c.Store.DSN == "" {
		return errors.New("store.dsn is required for the mysql engine")
	}
	return nil
}

// HasModel reports whether enough is configured to call a model.
func (c *Config) HasModel() bool {
	return c.APIKey != "" && c.ModelName != ""
}
