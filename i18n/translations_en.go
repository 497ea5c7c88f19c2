package i18n

var englishTranslations = map[string]string{
	// Menu
	"menu.file":           "File",
	"menu.open_source":    "Open Source Document...",
	"menu.export":         "Export",
	"menu.export_pptx":    "PowerPoint (.pptx)...",
	"menu.export_pdf":     "PDF (print)...",
	"menu.export_outline": "Outline (.docx)...",
	"menu.export_data":    "Chart & Table Data (.xlsx)...",
	"menu.export_handout": "Handout (.pdf)...",
	"menu.quit":           "Quit",
	"menu.view":           "View",
	"menu.grid":           "Slide Overview",
	"menu.fullscreen":     "Toggle Full Screen",
	"menu.laser":          "Laser Pointer",
	"menu.style":          "Style",
	"menu.help":           "Help",
	"menu.about":          "About Deck Studio",

	// Dialogs
	"dialog.open_source_title": "Choose a source document",
	"dialog.source_filter":     "Documents (*.txt;*.md;*.csv;*.json;*.html;*.pptx;*.xlsx;*.xls)",
	"dialog.export_title":      "Export presentation",
	"dialog.export_failed":     "Export failed",
	"dialog.export_done":       "Exported to %s",
	"dialog.about":             "Deck Studio %s\nAI-assisted presentations",

	// Generation
	"generate.started":       "Generating \"%s\"...",
	"generate.succeeded":     "Generated %d slides",
	"generate.timeout":       "The model did not answer within %d seconds. Please try again.",
	"generate.invalid":       "The model returned an unusable deck: %s",
	"generate.no_model":      "No model is configured. Set a provider and API key in settings.",
	"generate.empty_topic":   "Please enter a topic",
	"generate.source_loaded": "Loaded %d characters from %s",
	"generate.source_failed": "Could not read %s: %v",

	// Export
	"export.in_progress": "An export is already running",
	"export.no_deck":     "There is no presentation to export",
	"export.unsupported": "Unsupported export format: %s",

	// Store
	"store.history_saved":   "Saved to history",
	"store.history_deleted": "Removed from history",
	"store.published":       "Shared with the community",
	"store.not_found":       "That presentation no longer exists",

	// Config
	"config.saved":    "Settings saved",
	"config.reloaded": "Settings reloaded from disk",
	"config.invalid":  "Invalid settings: %s",

	// Player
	"player.slide_of": "Slide %d of %d",
	"player.no_deck":  "No presentation loaded",
}
