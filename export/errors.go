package export

import (
	"errors"
	"fmt"
)

// Output formats.
const (
	FormatPPTX    = "pptx"
	FormatPDF     = "pdf"
	FormatDOCX    = "docx"
	FormatXLSX    = "xlsx"
	FormatHandout = "handout"
)

// ErrEmptyDeck is returned when a deck without slides is exported.
var ErrEmptyDeck = errors.New("deck has no slides")

// ExportError reports a failed export. No partial output accompanies it.
type ExportError struct {
	Format string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}

func exportError(format string, err error) error {
	var ee *ExportError
	if errors.As(err, &ee) {
		return err
	}
	return &ExportError{Format: format, Err: err}
}
