package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"deckstudio/export"
)

func TestServiceError_ErrorFormat(t *testing.T) {
	tests := []struct {
		name      string
		service   string
		operation string
		err       error
		want      string
	}{
		{
			name:      "basic error",
			service:   "config",
			operation: "Load",
			err:       fmt.Errorf("file not found"),
			want:      "[config.Load] file not found",
		},
		{
			name:      "empty service name",
			service:   "",
			operation: "Save",
			err:       fmt.Errorf("disk full"),
			want:      "[.Save] disk full",
		},
		{
			name:      "empty operation name",
			service:   "export",
			operation: "",
			err:       fmt.Errorf("timeout"),
			want:      "[export.] timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := &ServiceError{Service: tt.service, Operation: tt.operation, Err: tt.err}
			if got := se.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapError_Chain(t *testing.T) {
	inner := &export.ExportError{Format: export.FormatPPTX, Err: export.ErrEmptyDeck}
	wrapped := WrapError("export", "Export", inner)

	if !errors.Is(wrapped, export.ErrEmptyDeck) {
		t.Error("errors.Is should reach the exporter sentinel")
	}
	var ee *export.ExportError
	if !errors.As(wrapped, &ee) || ee.Format != export.FormatPPTX {
		t.Errorf("errors.As should find the ExportError, got %v", ee)
	}
	var se *ServiceError
	if !errors.As(wrapped, &se) || se.Service != "export" || se.Operation != "Export" {
		t.Errorf("errors.As should find the ServiceError, got %v", se)
	}
}

func TestWrapError_NilError(t *testing.T) {
	if result := WrapError("store", "Open", nil); result != nil {
		t.Errorf("WrapError with nil err should return nil, got %v", result)
	}
}

func TestWrapOperationError(t *testing.T) {
	if WrapOperationError("load config", nil) != nil {
		t.Error("nil error should stay nil")
	}
	err := WrapOperationError("load config", os.ErrNotExist)
	if got, want := err.Error(), "failed to load config: "+os.ErrNotExist.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("errors.Is should find the wrapped error")
	}

	err = WrapOperationErrorf("write %s", ErrExportInProgress, "deck.pptx")
	if got, want := err.Error(), "failed to write deck.pptx: an export is already running"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if WrapOperationErrorf("write %s", nil, "x") != nil {
		t.Error("nil error should stay nil")
	}
}
