// Package export writes decks to files: PPTX slides, printed PDF, a Word
// outline, a data workbook and a PDF handout. Every format starts from the
// same layout plan so colors and ordering match the interactive view.
package export

import (
	"context"

	"deckstudio/deck"
)

// Exporter produces one file format from a deck.
type Exporter interface {
	Export(ctx context.Context, d *deck.Deck, style deck.Style) ([]byte, error)
}

// ExporterFunc adapts a function to Exporter.
type ExporterFunc func(ctx context.Context, d *deck.Deck, style deck.Style) ([]byte, error)

func (f ExporterFunc) Export(ctx context.Context, d *deck.Deck, style deck.Style) ([]byte, error) {
	return f(ctx, d, style)
}

// Extension returns the file extension written for format.
func Extension(format string) string {
	switch format {
	case FormatPPTX:
		return ".pptx"
	case FormatDOCX:
		return ".docx"
	case FormatXLSX:
		return ".xlsx"
	case FormatPDF, FormatHandout:
		return ".pdf"
	}
	return ""
}
