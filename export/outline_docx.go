package export

import (
	"context"
	"fmt"

	goword "github.com/VantageDataChat/GoWord"
	"github.com/VantageDataChat/GoWord/style"

	"deckstudio/deck"
)

// wordTableWidth is the table width in twentieths of a point.
const wordTableWidth = 9000

// OutlineDOCX writes the deck as a Word outline: one heading per slide with
// its text, tables and chart values underneath.
func OutlineDOCX(ctx context.Context, d *deck.Deck, st deck.Style) ([]byte, error) {
	plan, err := BuildPlan(d, st)
	if err != nil {
		return nil, exportError(FormatDOCX, err)
	}
	pal := plan.Palette
	accent := string(pal.Accent)
	body := string(pal.Text)
	muted := string(pal.Subtext)

	doc := goword.New()
	doc.Properties.Title = d.Title
	doc.Properties.Creator = d.Author
	doc.Properties.Description = d.Topic

	sec := doc.AddSection()
	sec.AddTitle(plainText(d.Title), 1)
	if d.Topic != "" && d.Topic != d.Title {
		sec.AddText(d.Topic,
			&style.FontStyle{Size: 11, Color: muted},
			&style.ParagraphStyle{Alignment: style.AlignCenter})
	}
	sec.AddTextBreak(1)

	for i, s := range d.Slides {
		if err := ctx.Err(); err != nil {
			return nil, exportError(FormatDOCX, err)
		}
		sec.AddText(fmt.Sprintf("%d. %s", i+1, plainText(s.Title)),
			&style.FontStyle{Bold: true, Size: 14, Color: accent},
			nil)

		switch s.Type {
		case deck.KindTitle:
			if s.Subtitle != "" {
				sec.AddText(plainText(s.Subtitle), &style.FontStyle{Size: 12, Color: muted, Italic: true}, nil)
			}
		case deck.KindChart:
			if cp := chartOf(plan.Pages[i]); cp != nil {
				for _, line := range chartFallback(cp) {
					sec.AddText("• "+line,
						&style.FontStyle{Size: 11, Color: body},
						&style.ParagraphStyle{Indent: 360})
				}
			}
		case deck.KindTable:
			tp := tableOf(plan.Pages[i])
			if tp == nil {
				break
			}
			colWidth := wordTableWidth / tp.Columns
			ts := &style.TableStyle{Width: wordTableWidth, Alignment: "center"}
			ts.SetAllBorders("single", 4, "D9D9D9")
			tbl := sec.AddTable(ts)
			tbl.Grid = make([]int, tp.Columns)
			for c := range tbl.Grid {
				tbl.Grid[c] = colWidth
			}
			for r, cells := range tp.Rows {
				if r == 0 {
					row := tbl.AddRow(0, &style.RowStyle{IsHeader: true})
					for _, c := range cells {
						row.AddCell(colWidth, &style.CellStyle{
							Shading: &style.Shading{Fill: accent},
						}).AddText(c, &style.FontStyle{Bold: true, Size: 10, Color: string(tp.HeaderText)}, nil)
					}
					continue
				}
				row := tbl.AddRow(0, nil)
				for _, c := range cells {
					row.AddCell(colWidth, nil).AddText(c, &style.FontStyle{Size: 10}, nil)
				}
			}
		case deck.KindProcess:
			for j, stp := range s.ProcessSteps {
				line := fmt.Sprintf("%d) %s", j+1, plainText(stp.Title))
				if stp.Description != "" {
					line += ": " + plainText(stp.Description)
				}
				sec.AddText(line,
					&style.FontStyle{Size: 11, Color: body},
					&style.ParagraphStyle{Indent: 360})
			}
		default:
			for _, b := range s.BulletPoints {
				sec.AddText("• "+plainText(b),
					&style.FontStyle{Size: 11, Color: body},
					&style.ParagraphStyle{Indent: 360})
			}
		}
		sec.AddTextBreak(1)
	}

	data, err := doc.ToBytes()
	if err != nil {
		return nil, exportError(FormatDOCX, fmt.Errorf("failed to write Word file: %w", err))
	}
	return data, nil
}

func chartOf(pg Page) *ChartPlan {
	for _, sh := range pg.Shapes {
		if sh.Chart != nil {
			return sh.Chart
		}
	}
	return nil
}

func tableOf(pg Page) *TablePlan {
	for _, sh := range pg.Shapes {
		if sh.Table != nil {
			return sh.Table
		}
	}
	return nil
}
