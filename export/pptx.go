package export

import (
	"bytes"
	"context"
	"fmt"

	ppt "github.com/VantageDataChat/GoPPT"
	"go.uber.org/zap"

	"deckstudio/deck"
	"deckstudio/theme"
)

const emuPerInch = 914400

func emu(in float64) int64 {
	return int64(in * emuPerInch)
}

func solidFill(c theme.Color) *ppt.Fill {
	return ppt.NewFill().SetSolid(ppt.NewColor(c.ARGB()))
}

func setAlign(p *ppt.Paragraph, a Align) {
	switch a {
	case AlignCenter:
		p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalCenter))
	case AlignRight:
		p.SetAlignment(ppt.NewAlignment().SetHorizontal(ppt.HorizontalRight))
	}
}

// PPTXExporter writes decks as 16:9 PowerPoint files.
type PPTXExporter struct {
	log *zap.Logger
}

// NewPPTXExporter returns an exporter that reports chart fallbacks to log.
func NewPPTXExporter(log *zap.Logger) *PPTXExporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &PPTXExporter{log: log}
}

// Export encodes d in the given style.
func (e *PPTXExporter) Export(ctx context.Context, d *deck.Deck, style deck.Style) ([]byte, error) {
	plan, err := BuildPlan(d, style)
	if err != nil {
		return nil, exportError(FormatPPTX, err)
	}
	data, err := e.encode(ctx, plan)
	if err != nil {
		return nil, exportError(FormatPPTX, err)
	}
	return data, nil
}

func (e *PPTXExporter) encode(ctx context.Context, plan *Plan) ([]byte, error) {
	p := ppt.New()
	p.GetDocumentProperties().Title = plan.Title
	p.GetDocumentProperties().Creator = plan.Author

	for i, pg := range plan.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var slide *ppt.Slide
		if i == 0 {
			slide = p.GetActiveSlide()
		} else {
			slide = p.CreateSlide()
		}
		e.drawPage(slide, pg, plan.Palette)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("failed to create PPT writer: %w", err)
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to save PPT: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PPTXExporter) drawPage(slide *ppt.Slide, pg Page, pal theme.Palette) {
	bg := slide.CreateRichTextShape()
	bg.SetOffsetX(0).SetOffsetY(0)
	bg.SetWidth(emu(PageWidth)).SetHeight(emu(PageHeight))
	bg.SetFill(solidFill(pg.Background))

	for _, sh := range pg.Shapes {
		switch sh.Kind {
		case ShapeText, ShapeRect:
			drawText(slide, sh)
		case ShapeTable:
			drawTable(slide, sh)
		case ShapeChart:
			e.drawChart(slide, sh, pal, pg.SlideID)
		case ShapeStep:
			drawStep(slide, sh, pal)
		}
	}
}

func placeText(slide *ppt.Slide, b Box) *ppt.RichTextShape {
	shape := slide.CreateRichTextShape()
	shape.SetOffsetX(emu(b.X)).SetOffsetY(emu(b.Y))
	shape.SetWidth(emu(b.W)).SetHeight(emu(b.H))
	return shape
}

// drawText writes one paragraph per entry of sh.Paragraphs.
func drawText(slide *ppt.Slide, sh Shape) {
	shape := placeText(slide, sh.Box)
	if sh.Fill != "" {
		shape.SetFill(solidFill(sh.Fill))
	}
	for i, text := range sh.Paragraphs {
		if i > 0 {
			shape.CreateParagraph()
		}
		tr := shape.CreateTextRun(text)
		tr.GetFont().SetSize(sh.FontSize).SetBold(sh.Bold).SetColor(ppt.NewColor(sh.Color.ARGB()))
		setAlign(shape.GetActiveParagraph(), sh.Align)
	}
}

// drawTable lays the table out as a grid of cells, header row first.
func drawTable(slide *ppt.Slide, sh Shape) {
	t := sh.Table
	rowH := sh.Box.H / float64(len(t.Rows))
	colW := sh.Box.W / float64(t.Columns)
	for r, row := range t.Rows {
		fill, textColor, bold, size := t.BodyFill, t.BodyText, false, sh.FontSize
		if r == 0 {
			fill, textColor, bold, size = t.HeaderFill, t.HeaderText, true, fontTableHead
		}
		for c, cell := range row {
			shape := placeText(slide, Box{sh.Box.X + float64(c)*colW, sh.Box.Y + float64(r)*rowH, colW, rowH})
			if r == 0 || r%2 == 0 {
				shape.SetFill(solidFill(fill))
			}
			tr := shape.CreateTextRun(cell)
			tr.GetFont().SetSize(size).SetBold(bold).SetColor(ppt.NewColor(textColor.ARGB()))
		}
	}
}

func (e *PPTXExporter) drawChart(slide *ppt.Slide, sh Shape, pal theme.Palette, slideID string) {
	img, err := renderChartPNG(sh.Chart, sh.Box, pal)
	if err != nil {
		e.log.Warn("chart image failed, writing values as text",
			zap.String("slide", slideID), zap.Error(err))
		drawText(slide, Shape{
			Box: sh.Box, Paragraphs: chartFallback(sh.Chart),
			FontSize: fontBody, Color: pal.Text, Align: AlignLeft,
		})
		return
	}
	shape := slide.CreateDrawingShape()
	shape.SetImageData(img, "image/png")
	shape.SetOffsetX(emu(sh.Box.X)).SetOffsetY(emu(sh.Box.Y))
	shape.SetWidth(emu(sh.Box.W)).SetHeight(emu(sh.Box.H))
}

// drawStep draws a numbered badge above a card holding the caption.
func drawStep(slide *ppt.Slide, sh Shape, pal theme.Palette) {
	st := sh.Step
	const badge = 0.5
	num := placeText(slide, Box{sh.Box.X + (sh.Box.W-badge)/2, sh.Box.Y - badge - 0.1, badge, badge})
	num.SetFill(solidFill(pal.Accent))
	tr := num.CreateTextRun(fmt.Sprintf("%d", st.Number))
	tr.GetFont().SetSize(fontStepTitle).SetBold(true).SetColor(ppt.NewColor(pal.Background.ARGB()))
	setAlign(num.GetActiveParagraph(), AlignCenter)

	card := placeText(slide, sh.Box)
	card.SetFill(solidFill(sh.Fill))
	title := card.CreateTextRun(st.Title)
	title.GetFont().SetSize(sh.FontSize).SetBold(true).SetColor(ppt.NewColor(sh.Color.ARGB()))
	setAlign(card.GetActiveParagraph(), sh.Align)
	if st.Description != "" {
		card.CreateParagraph()
		desc := card.CreateTextRun(st.Description)
		desc.GetFont().SetSize(fontStepText).SetColor(ppt.NewColor(pal.Subtext.ARGB()))
		setAlign(card.GetActiveParagraph(), sh.Align)
	}
}
