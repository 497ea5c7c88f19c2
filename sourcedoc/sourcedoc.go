// Package sourcedoc turns a user-picked document into plain text that can be
// fed to deck generation as context.
package sourcedoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	gospreadsheet "github.com/VantageDataChat/GoExcel"
	ppt "github.com/VantageDataChat/GoPPT"
	"github.com/extrame/xls"
)

// ErrUnsupportedFormat is returned for file extensions Extract cannot read.
var ErrUnsupportedFormat = errors.New("unsupported source document format")

// maxXLSRows bounds how many rows are read from a legacy workbook.
const maxXLSRows = 5000

// Extensions lists every extension Extract accepts.
var Extensions = []string{".txt", ".md", ".csv", ".json", ".html", ".htm", ".pptx", ".xlsx", ".xls"}

// Supported reports whether path has an extension Extract can read.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Extract returns the text content of the document at path.
func Extract(path string) (string, error) {
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md", ".csv", ".json":
		var data []byte
		data, err = os.ReadFile(path)
		text = string(data)
	case ".html", ".htm":
		text, err = extractHTML(path)
	case ".pptx":
		text, err = extractPPTX(path)
	case ".xlsx":
		text, err = extractXLSX(path)
	case ".xls":
		text, err = extractXLS(path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	return normalizeSpace(text), nil
}

func extractHTML(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, template").Remove()

	var lines []string
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		lines = append(lines, title)
	}
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, th, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		if s.Find("p, li").Length() > 0 {
			return
		}
		if t := strings.TrimSpace(s.Text()); t != "" {
			lines = append(lines, t)
		}
	})
	if len(lines) == 0 {
		return doc.Find("body").Text(), nil
	}
	return strings.Join(lines, "\n"), nil
}

func extractPPTX(path string) (string, error) {
	reader := &ppt.PPTXReader{}
	pres, err := reader.Read(path)
	if err != nil {
		return "", err
	}

	var lines []string
	for _, slide := range pres.GetAllSlides() {
		for _, shape := range slide.GetShapes() {
			rts, ok := shape.(*ppt.RichTextShape)
			if !ok {
				continue
			}
			for _, para := range rts.GetParagraphs() {
				var sb strings.Builder
				for _, elem := range para.GetElements() {
					if run, ok := elem.(*ppt.TextRun); ok {
						sb.WriteString(run.GetText())
					}
				}
				if t := strings.TrimSpace(sb.String()); t != "" {
					lines = append(lines, t)
				}
			}
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n"), nil
}

// extractXLSX reads the active sheet as tab-separated rows.
func extractXLSX(path string) (string, error) {
	wb, err := gospreadsheet.OpenFile(path)
	if err != nil {
		return "", err
	}
	ws := wb.GetActiveSheet()
	if ws == nil {
		return "", errors.New("no sheets found")
	}
	rows, err := ws.RowIterator()
	if err != nil {
		return "", err
	}

	var lines []string
	for _, row := range rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			if cell != nil {
				cells = append(cells, cell.GetStringValue())
			} else {
				cells = append(cells, "")
			}
		}
		lines = appendRow(lines, cells)
	}
	return strings.Join(lines, "\n"), nil
}

func extractXLS(path string) (string, error) {
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return "", err
	}
	var lines []string
	for _, row := range wb.ReadAllCells(maxXLSRows) {
		lines = appendRow(lines, row)
	}
	return strings.Join(lines, "\n"), nil
}

// appendRow adds cells as one tab-separated line, skipping blank rows.
func appendRow(lines []string, cells []string) []string {
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	line := strings.TrimRight(strings.Join(cells, "\t"), "\t")
	if line == "" {
		return lines
	}
	return append(lines, line)
}

// normalizeSpace trims each line, collapses runs of spaces and keeps at
// most one blank line in a row. Tabs separating cells are kept.
func normalizeSpace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	var out []string
	blank := false
	for _, line := range strings.Split(s, "\n") {
		fields := strings.Split(line, "\t")
		for i, f := range fields {
			fields[i] = strings.Join(strings.Fields(f), " ")
		}
		line = strings.TrimSpace(strings.Join(fields, "\t"))
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
