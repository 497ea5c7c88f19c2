package export

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"deckstudio/deck"
	"deckstudio/render"
)

// Printed page size in inches, 16:9 at 7.5 inches high.
const (
	printWidth  = 13.333
	printHeight = 7.5
)

// Printer turns the print document into PDF through a headless Chrome.
// The browser is started on first use and kept until Close.
type Printer struct {
	log *zap.Logger

	mu            sync.Mutex
	browser       context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

// NewPrinter returns a Printer. No browser is launched yet.
func NewPrinter(log *zap.Logger) *Printer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Printer{log: log}
}

// Export prints d in the given style.
func (p *Printer) Export(ctx context.Context, d *deck.Deck, style deck.Style) ([]byte, error) {
	html, err := render.PrintDocument(d, style)
	if err != nil {
		return nil, exportError(FormatPDF, err)
	}
	return p.PrintPDF(ctx, html)
}

// PrintPDF renders the HTML document to PDF, one 16:9 page per slide.
func (p *Printer) PrintPDF(ctx context.Context, html []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, exportError(FormatPDF, err)
	}
	browser, err := p.ensureBrowser()
	if err != nil {
		return nil, exportError(FormatPDF, err)
	}

	// Each print gets its own tab; closing it does not stop the browser.
	tab, closeTab := chromedp.NewContext(browser)
	defer closeTab()
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	var data []byte
	err = chromedp.Run(tab,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPaperWidth(printWidth).
				WithPaperHeight(printHeight).
				WithMarginTop(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithMarginRight(0).
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			data = buf
			return err
		}),
	)
	if err != nil {
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return nil, exportError(FormatPDF, fmt.Errorf("failed to print: %w", err))
	}
	return data, nil
}

func (p *Printer) ensureBrowser() (context.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.browser != nil && p.browser.Err() == nil {
		return p.browser, nil
	}
	p.release()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Headless,
		chromedp.DisableGPU,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// The first Run on a fresh context starts the browser process.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("failed to launch chrome: %w", err)
	}
	p.log.Info("print browser launched")

	p.browser = browserCtx
	p.cancelAlloc = cancelAlloc
	p.cancelBrowser = cancelBrowser
	return browserCtx, nil
}

// release stops a running browser. Callers hold mu.
func (p *Printer) release() {
	if p.cancelBrowser != nil {
		p.cancelBrowser()
	}
	if p.cancelAlloc != nil {
		p.cancelAlloc()
	}
	p.browser, p.cancelBrowser, p.cancelAlloc = nil, nil, nil
}

// Close shuts the browser down.
func (p *Printer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.release()
	return nil
}
