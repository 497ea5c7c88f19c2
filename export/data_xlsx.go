package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	gospreadsheet "github.com/VantageDataChat/GoExcel"

	"deckstudio/deck"
	"deckstudio/theme"
)

// ErrNoData is returned when a deck has no chart or table to put in a workbook.
var ErrNoData = errors.New("deck has no chart or table data")

const maxSheetName = 31

// dataSheet is the tabular content of one chart or table slide.
type dataSheet struct {
	name string
	rows [][]any
}

// DataWorkbook writes one sheet per chart or table slide. Chart sheets hold
// the category labels and every series; table sheets hold the table as is.
func DataWorkbook(ctx context.Context, d *deck.Deck, style deck.Style) ([]byte, error) {
	if !d.Renderable() {
		return nil, exportError(FormatXLSX, ErrEmptyDeck)
	}
	sheets := collectSheets(d)
	if len(sheets) == 0 {
		return nil, exportError(FormatXLSX, ErrNoData)
	}
	pal := theme.For(style.OrDefault())
	headerStyle := gospreadsheet.NewStyle().
		SetFont(&gospreadsheet.Font{
			Bold:  true,
			Size:  11,
			Color: string(pal.Background),
		}).
		SetFill(&gospreadsheet.Fill{
			Type:  "solid",
			Color: string(pal.Accent),
		}).
		SetAlignment(&gospreadsheet.Alignment{
			Horizontal: gospreadsheet.AlignCenter,
			Vertical:   gospreadsheet.AlignMiddle,
		}).
		SetBorders(&gospreadsheet.Borders{
			Left:   gospreadsheet.Border{Style: gospreadsheet.BorderThin, Color: "FFFFFF"},
			Top:    gospreadsheet.Border{Style: gospreadsheet.BorderThin, Color: "FFFFFF"},
			Bottom: gospreadsheet.Border{Style: gospreadsheet.BorderThin, Color: "FFFFFF"},
			Right:  gospreadsheet.Border{Style: gospreadsheet.BorderThin, Color: "FFFFFF"},
		})
	dataStyle := gospreadsheet.NewStyle().
		SetFont(&gospreadsheet.Font{Size: 10}).
		SetAlignment(&gospreadsheet.Alignment{
			Horizontal: gospreadsheet.AlignLeft,
			Vertical:   gospreadsheet.AlignMiddle,
			WrapText:   true,
		}).
		SetBorders(&gospreadsheet.Borders{
			Left:   gospreadsheet.Border{Style: gospreadsheet.BorderThin, Color: "D9D9D9"},
			Top:    gospreadsheet.Border{Style: gospreadsheet.BorderThin, Color: "D9D9D9"},
			Bottom: gospreadsheet.Border{Style: gospreadsheet.BorderThin, Color: "D9D9D9"},
			Right:  gospreadsheet.Border{Style: gospreadsheet.BorderThin, Color: "D9D9D9"},
		})

	wb := gospreadsheet.New()
	for i, sh := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, exportError(FormatXLSX, err)
		}
		var ws *gospreadsheet.Worksheet
		if i == 0 {
			ws = wb.GetActiveSheet()
			ws.SetTitle(sh.name)
		} else {
			var err error
			ws, err = wb.AddSheet(sh.name)
			if err != nil {
				return nil, exportError(FormatXLSX, fmt.Errorf("failed to create sheet %s: %w", sh.name, err))
			}
		}

		widths := map[int]float64{}
		for r, row := range sh.rows {
			st := dataStyle
			if r == 0 {
				st = headerStyle
			}
			for c, v := range row {
				cellName, _ := gospreadsheet.CellName(r, c)
				ws.SetCellValue(cellName, v)
				ws.SetCellStyle(cellName, st)
				if w := float64(len([]rune(fmt.Sprint(v)))) * 1.4; w > widths[c] {
					widths[c] = w
				}
			}
		}
		for c, w := range widths {
			ws.SetColumnWidth(c, min(max(w, 12), 60))
		}
		ws.SetRowHeight(0, 25)
		ws.FreezePane("A2")
	}

	wb.Properties.Title = d.Title
	wb.Properties.Creator = d.Author
	wb.Properties.Subject = d.Topic

	var buf bytes.Buffer
	if err := gospreadsheet.NewXLSXWriter().Write(wb, &buf); err != nil {
		return nil, exportError(FormatXLSX, fmt.Errorf("failed to write Excel file: %w", err))
	}
	return buf.Bytes(), nil
}

func collectSheets(d *deck.Deck) []dataSheet {
	var sheets []dataSheet
	used := map[string]bool{}
	for i, s := range d.Slides {
		var rows [][]any
		switch s.Type {
		case deck.KindChart:
			rows = chartRows(s.ChartData)
		case deck.KindTable:
			rows = tableRows(s.TableData)
		}
		if len(rows) == 0 {
			continue
		}
		sheets = append(sheets, dataSheet{name: sheetName(s.Title, i+1, used), rows: rows})
	}
	return sheets
}

func chartRows(cd *deck.ChartData) [][]any {
	if cd == nil || len(cd.Series) == 0 {
		return nil
	}
	n := 0
	for _, ser := range cd.Series {
		n = max(n, len(ser.Values))
	}
	if n == 0 {
		return nil
	}
	header := []any{"Category"}
	for i, ser := range cd.Series {
		label := ser.Label
		if label == "" {
			label = fmt.Sprintf("Series %d", i+1)
		}
		header = append(header, label)
	}
	rows := [][]any{header}
	for r := 0; r < n; r++ {
		row := []any{""}
		if r < len(cd.CategoryLabels) {
			row[0] = cd.CategoryLabels[r]
		}
		for _, ser := range cd.Series {
			if r < len(ser.Values) {
				row = append(row, ser.Values[r])
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func tableRows(td *deck.TableData) [][]any {
	if td == nil || len(td.Headers) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(td.Rows)+1)
	for _, r := range append([][]string{td.Headers}, td.Rows...) {
		row := make([]any, len(td.Headers))
		for c := range row {
			row[c] = ""
			if c < len(r) {
				row[c] = plainText(r[c])
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// sheetName derives a unique sheet name from a slide title. Characters Excel
// forbids are dropped and the result fits in 31 characters.
func sheetName(title string, slideNo int, used map[string]bool) string {
	clean := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return -1
		}
		return r
	}, plainText(title))
	clean = strings.Trim(strings.TrimSpace(clean), "'")
	if clean == "" {
		clean = fmt.Sprintf("Slide %d", slideNo)
	}

	name := truncateName(clean, maxSheetName)
	for n := 2; used[strings.ToLower(name)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		name = truncateName(clean, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(name)] = true
	return name
}

func truncateName(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}
