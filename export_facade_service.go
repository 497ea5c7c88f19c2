package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"deckstudio/deck"
	"deckstudio/export"
)

// ExportFacadeService writes decks to disk in every supported format. Only
// one export runs at a time; overlapping requests are refused.
type ExportFacadeService struct {
	logger    func(string)
	zl        *zap.Logger
	printer   *export.Printer
	exporters map[string]export.Exporter
	inFlight  atomic.Bool
}

// NewExportFacadeService registers the built-in exporters.
func NewExportFacadeService(logger func(string), zl *zap.Logger) *ExportFacadeService {
	if zl == nil {
		zl = zap.NewNop()
	}
	printer := export.NewPrinter(zl.Named("printer"))
	return &ExportFacadeService{
		logger:  logger,
		zl:      zl,
		printer: printer,
		exporters: map[string]export.Exporter{
			export.FormatPPTX:    export.NewPPTXExporter(zl.Named("pptx")),
			export.FormatPDF:     printer,
			export.FormatDOCX:    export.ExporterFunc(export.OutlineDOCX),
			export.FormatXLSX:    export.ExporterFunc(export.DataWorkbook),
			export.FormatHandout: export.ExporterFunc(export.HandoutPDF),
		},
	}
}

func (e *ExportFacadeService) Name() string {
	return "export"
}

func (e *ExportFacadeService) Initialize(ctx context.Context) error {
	e.log(fmt.Sprintf("ExportFacadeService initialized, formats: %s", strings.Join(e.Formats(), ", ")))
	return nil
}

// Shutdown stops the print browser if one was started.
func (e *ExportFacadeService) Shutdown() error {
	return e.printer.Close()
}

// SetExporter replaces the exporter for format.
func (e *ExportFacadeService) SetExporter(format string, exp export.Exporter) {
	e.exporters[format] = exp
}

// Formats lists the registered formats in sorted order.
func (e *ExportFacadeService) Formats() []string {
	out := make([]string, 0, len(e.exporters))
	for f := range e.exporters {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Busy reports whether an export is running.
func (e *ExportFacadeService) Busy() bool {
	return e.inFlight.Load()
}

// Export writes d in format to path and returns the path written, with the
// format's extension added when missing. It fails with ErrExportInProgress
// while another export runs.
func (e *ExportFacadeService) Export(ctx context.Context, format string, d *deck.Deck, style deck.Style, path string) (string, error) {
	if !e.inFlight.CompareAndSwap(false, true) {
		return "", ErrExportInProgress
	}
	defer e.inFlight.Store(false)

	exp, ok := e.exporters[format]
	if !ok {
		return "", WrapError("export", "Export", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format))
	}
	if !d.Renderable() {
		return "", ErrNoDeck
	}

	start := time.Now()
	data, err := exp.Export(ctx, d, style)
	if err != nil {
		e.zl.Warn("export failed", zap.String("format", format), zap.Error(err))
		return "", WrapError("export", "Export", err)
	}

	if ext := export.Extension(format); ext != "" && !strings.EqualFold(filepath.Ext(path), ext) {
		path += ext
	}
	if err := writeFileAtomic(path, data); err != nil {
		return "", WrapError("export", "Export", err)
	}
	e.zl.Info("export written",
		zap.String("format", format),
		zap.String("path", path),
		zap.Int("bytes", len(data)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return path, nil
}

// writeFileAtomic writes data next to path and renames it into place so a
// failed export never leaves a truncated file behind.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return WrapOperationError("create export directory", err)
	}
	tmp, err := os.CreateTemp(dir, ".deckstudio-*")
	if err != nil {
		return WrapOperationError("create temp file", err)
	}
	tmpName := tmp.Name()
	_ = tmp.Chmod(0644)
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return WrapOperationError("write export", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return WrapOperationError("write export", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return WrapOperationError("move export into place", err)
	}
	return nil
}

// DefaultExportName suggests a file name for d in format.
func DefaultExportName(d *deck.Deck, format string) string {
	base := "presentation"
	if d != nil {
		base = strings.Map(func(r rune) rune {
			if strings.ContainsRune(`<>:"/\|?*`, r) || r < ' ' {
				return -1
			}
			return r
		}, strings.TrimSpace(d.Title))
		base = strings.Trim(base, ". ")
		if base == "" {
			base = "presentation"
		}
	}
	if format == export.FormatHandout {
		base += "_handout"
	}
	return base + export.Extension(format)
}

func (e *ExportFacadeService) log(msg string) {
	if e.logger != nil {
		e.logger(msg)
	}
}
