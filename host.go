package main

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// Events emitted to the frontend.
const (
	EventDeckGenerated   = "deck-generated"
	EventGenerationError = "generation-error"
	EventPlayerChanged   = "player-changed"
	EventExportFinished  = "export-finished"
	EventExportError     = "export-error"
)

// EventEmitter delivers named events to the frontend.
type EventEmitter interface {
	Emit(name string, data ...interface{})
}

// FileFilter restricts a file dialog to matching names.
type FileFilter struct {
	DisplayName string
	Pattern     string
}

// Dialogs opens native dialogs. An empty path with a nil error means the
// user cancelled.
type Dialogs interface {
	OpenFile(title string, filters []FileFilter) (string, error)
	SaveFile(title, defaultName string, filters []FileFilter) (string, error)
	Message(title, message string, isError bool)
}

// Window controls the host window.
type Window interface {
	ToggleFullscreen()
	Quit()
}

// wailsHost implements the host interfaces on the Wails runtime.
type wailsHost struct {
	ctx context.Context
}

func (h wailsHost) Emit(name string, data ...interface{}) {
	runtime.EventsEmit(h.ctx, name, data...)
}

func wailsFilters(filters []FileFilter) []runtime.FileFilter {
	out := make([]runtime.FileFilter, len(filters))
	for i, f := range filters {
		out[i] = runtime.FileFilter{DisplayName: f.DisplayName, Pattern: f.Pattern}
	}
	return out
}

func (h wailsHost) OpenFile(title string, filters []FileFilter) (string, error) {
	return runtime.OpenFileDialog(h.ctx, runtime.OpenDialogOptions{
		Title:   title,
		Filters: wailsFilters(filters),
	})
}

func (h wailsHost) SaveFile(title, defaultName string, filters []FileFilter) (string, error) {
	return runtime.SaveFileDialog(h.ctx, runtime.SaveDialogOptions{
		Title:           title,
		DefaultFilename: defaultName,
		Filters:         wailsFilters(filters),
	})
}

func (h wailsHost) Message(title, message string, isError bool) {
	typ := runtime.InfoDialog
	if isError {
		typ = runtime.ErrorDialog
	}
	runtime.MessageDialog(h.ctx, runtime.MessageDialogOptions{
		Type:    typ,
		Title:   title,
		Message: message,
	})
}

func (h wailsHost) ToggleFullscreen() {
	if runtime.WindowIsFullscreen(h.ctx) {
		runtime.WindowUnfullscreen(h.ctx)
	} else {
		runtime.WindowFullscreen(h.ctx)
	}
}

func (h wailsHost) Quit() {
	runtime.Quit(h.ctx)
}

// nopHost stands in until the Wails runtime is available.
type nopHost struct{}

func (nopHost) Emit(string, ...interface{})                           {}
func (nopHost) OpenFile(string, []FileFilter) (string, error)         { return "", nil }
func (nopHost) SaveFile(string, string, []FileFilter) (string, error) { return "", nil }
func (nopHost) Message(string, string, bool)                          {}
func (nopHost) ToggleFullscreen()                                     {}
func (nopHost) Quit()                                                 {}
