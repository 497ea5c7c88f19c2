package export

import (
	"context"
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/image"
	"github.com/johnfercher/maroto/v2/pkg/components/page"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/extension"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontfamily"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"deckstudio/deck"
	"deckstudio/theme"
)

// Handout text stays dark on white paper whatever the deck style.
var (
	handoutBody  = &props.Color{Red: 51, Green: 65, Blue: 85}
	handoutMuted = &props.Color{Red: 100, Green: 116, Blue: 139}
)

func propsColor(c theme.Color) *props.Color {
	r, g, b := c.RGB()
	return &props.Color{Red: r, Green: g, Blue: b}
}

// HandoutPDF prints one page per slide with its title, text and chart.
func HandoutPDF(ctx context.Context, d *deck.Deck, style deck.Style) ([]byte, error) {
	plan, err := BuildPlan(d, style)
	if err != nil {
		return nil, exportError(FormatHandout, err)
	}
	accent := propsColor(plan.Palette.Accent)

	cfg := config.NewBuilder().
		WithPageNumber().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		WithTitle(d.Title, true).
		WithAuthor(d.Author, true).
		WithDefaultFont(&props.Font{
			Family: fontfamily.Arial,
			Size:   11,
		}).
		Build()
	m := maroto.New(cfg)

	for i, s := range d.Slides {
		if err := ctx.Err(); err != nil {
			return nil, exportError(FormatHandout, err)
		}
		pg := page.New()
		pg.Add(row.New(8).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s - %d / %d", d.Title, i+1, len(d.Slides)), props.Text{
				Size:  8,
				Align: align.Right,
				Color: handoutMuted,
			}),
		)))
		pg.Add(row.New(16).Add(col.New(12).Add(
			text.New(plainText(s.Title), props.Text{
				Size:  18,
				Style: fontstyle.Bold,
				Color: accent,
			}),
		)))
		pg.Add(handoutBodyRows(s, plan.Pages[i])...)
		m.AddPages(pg)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, exportError(FormatHandout, fmt.Errorf("failed to generate PDF: %w", err))
	}
	return doc.GetBytes(), nil
}

func handoutLine(s string, style fontstyle.Type, color *props.Color) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(s, props.Text{Size: 11, Style: style, Color: color}),
	))
}

func handoutBodyRows(s deck.Slide, pg Page) []core.Row {
	var rows []core.Row
	switch s.Type {
	case deck.KindTitle:
		if s.Subtitle != "" {
			rows = append(rows, handoutLine(plainText(s.Subtitle), fontstyle.Italic, handoutMuted))
		}
	case deck.KindChart:
		cp := chartOf(pg)
		if cp == nil {
			break
		}
		if img, err := renderChartPNG(cp, Box{W: 9, H: 4.5}, theme.For(deck.StyleMinimalist)); err == nil {
			rows = append(rows, row.New(90).Add(col.New(12).Add(
				image.NewFromBytes(img, extension.Png),
			)))
		}
		for _, line := range chartFallback(cp) {
			rows = append(rows, handoutLine(line, fontstyle.Normal, handoutBody))
		}
	case deck.KindTable:
		tp := tableOf(pg)
		if tp == nil {
			break
		}
		width := max(12/tp.Columns, 1)
		for r, cells := range tp.Rows {
			st := fontstyle.Normal
			if r == 0 {
				st = fontstyle.Bold
			}
			var cols []core.Col
			for _, c := range cells {
				if len(cols) == 12 {
					break
				}
				cols = append(cols, col.New(width).Add(text.New(c, props.Text{Size: 10, Style: st, Color: handoutBody})))
			}
			rows = append(rows, row.New(7).Add(cols...))
		}
	case deck.KindProcess:
		for j, st := range s.ProcessSteps {
			rows = append(rows, handoutLine(fmt.Sprintf("%d) %s", j+1, plainText(st.Title)), fontstyle.Bold, handoutBody))
			if st.Description != "" {
				rows = append(rows, handoutLine(plainText(st.Description), fontstyle.Normal, handoutMuted))
			}
		}
	default:
		for j, b := range s.BulletPoints {
			rows = append(rows, handoutLine(fmt.Sprintf("%d. %s", j+1, plainText(b)), fontstyle.Normal, handoutBody))
		}
	}
	if len(rows) == 0 {
		rows = append(rows, row.New(8))
	}
	return rows
}
