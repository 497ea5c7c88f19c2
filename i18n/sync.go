package i18n

import (
	"deckstudio/config"
)

// SyncLanguageFromConfig applies cfg.Language. The app calls it at startup
// and on every config change.
func SyncLanguageFromConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	SetLanguage(ParseLanguage(cfg.Language))
}
