package export

import (
	"fmt"

	"deckstudio/deck"
	"deckstudio/theme"
)

// Canvas size of every exported page, 16:9.
const (
	PageWidth  = 10.0
	PageHeight = 5.625

	// MaxProcessSteps bounds the nodes drawn for a process slide.
	MaxProcessSteps = 4
)

const (
	marginX      = 0.5
	contentTop   = 1.3
	contentWidth = PageWidth - 2*marginX
	bodyHeight   = 3.8
	columnGap    = 0.3
)

// Font sizes in points.
const (
	fontCoverTitle = 40
	fontSubtitle   = 20
	fontHeading    = 28
	fontBody       = 16
	fontTableHead  = 12
	fontTableCell  = 11
	fontStepTitle  = 14
	fontStepText   = 11
)

// ShapeKind identifies what a planned shape draws.
type ShapeKind string

const (
	ShapeText  ShapeKind = "text"
	ShapeRect  ShapeKind = "rect"
	ShapeTable ShapeKind = "table"
	ShapeChart ShapeKind = "chart"
	ShapeStep  ShapeKind = "step"
)

// Align is the horizontal text alignment of a shape.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Box is a rectangle on the page, in inches from the top-left corner.
type Box struct {
	X, Y, W, H float64
}

// Shape is one positioned element of a page. Which payload field is set
// depends on Kind.
type Shape struct {
	Kind       ShapeKind
	Box        Box
	Paragraphs []string
	FontSize   int
	Bold       bool
	Color      theme.Color
	Fill       theme.Color
	Align      Align

	Table *TablePlan
	Chart *ChartPlan
	Step  *StepPlan
}

// TablePlan is a table whose first row is the header.
type TablePlan struct {
	Rows       [][]string
	Columns    int
	HeaderFill theme.Color
	HeaderText theme.Color
	BodyFill   theme.Color
	BodyText   theme.Color
}

// ChartPlan is the single series drawn for a chart slide.
type ChartPlan struct {
	Kind        deck.ChartKind
	SeriesLabel string
	Labels      []string
	Values      []float64
}

// StepPlan is one numbered process node.
type StepPlan struct {
	Number      int
	Title       string
	Description string
}

// Page is the layout of one slide.
type Page struct {
	SlideID    string
	Kind       deck.Kind
	Background theme.Color
	Shapes     []Shape
}

// Plan is the format-independent layout of a whole deck.
type Plan struct {
	Title   string
	Author  string
	Style   deck.Style
	Palette theme.Palette
	Pages   []Page
}

// BuildPlan lays out d in the given style, one page per slide in order.
func BuildPlan(d *deck.Deck, style deck.Style) (*Plan, error) {
	if !d.Renderable() {
		return nil, ErrEmptyDeck
	}
	style = style.OrDefault()
	pal := theme.For(style)

	p := &Plan{
		Title:   d.Title,
		Author:  d.Author,
		Style:   style,
		Palette: pal,
		Pages:   make([]Page, 0, len(d.Slides)),
	}
	for _, s := range d.Slides {
		p.Pages = append(p.Pages, planPage(s, pal))
	}
	return p, nil
}

func planPage(s deck.Slide, pal theme.Palette) Page {
	pg := Page{SlideID: s.ID, Kind: s.Type, Background: pal.Background}
	switch s.Type {
	case deck.KindTitle:
		pg.Shapes = planTitle(s, pal)
	case deck.KindChart:
		pg.Shapes = append(heading(s.Title, pal), planChart(s, pal)...)
	case deck.KindTable:
		pg.Shapes = append(heading(s.Title, pal), planTable(s, pal)...)
	case deck.KindProcess:
		pg.Shapes = append(heading(s.Title, pal), planProcess(s, pal)...)
	default:
		pg.Kind = deck.KindContent
		pg.Shapes = append(heading(s.Title, pal), planContent(s, pal)...)
	}
	return pg
}

func planTitle(s deck.Slide, pal theme.Palette) []Shape {
	shapes := []Shape{
		{Kind: ShapeRect, Box: Box{0, 0, PageWidth, 0.15}, Fill: pal.Accent},
		{
			Kind: ShapeText, Box: Box{marginX, 1.6, contentWidth, 1.2},
			Paragraphs: []string{plainText(s.Title)},
			FontSize:   fontCoverTitle, Bold: true, Color: pal.Text, Align: AlignCenter,
		},
	}
	if s.Subtitle != "" {
		shapes = append(shapes, Shape{
			Kind: ShapeText, Box: Box{1.0, 3.0, PageWidth - 2, 0.8},
			Paragraphs: []string{plainText(s.Subtitle)},
			FontSize:   fontSubtitle, Color: pal.Accent, Align: AlignCenter,
		})
	}
	return shapes
}

// heading is the accent bar and title shared by every non-title page.
func heading(title string, pal theme.Palette) []Shape {
	return []Shape{
		{Kind: ShapeRect, Box: Box{0, 0, PageWidth, 0.08}, Fill: pal.Accent},
		{
			Kind: ShapeText, Box: Box{marginX, 0.35, contentWidth, 0.75},
			Paragraphs: []string{plainText(title)},
			FontSize:   fontHeading, Bold: true, Color: pal.Text, Align: AlignLeft,
		},
	}
}

func planContent(s deck.Slide, pal theme.Palette) []Shape {
	textW := contentWidth*0.6 - columnGap/2
	sideW := contentWidth - textW - columnGap
	textX, sideX := marginX, marginX+textW+columnGap
	if s.Layout == deck.LayoutRight {
		textX, sideX = marginX+sideW+columnGap, marginX
	}

	paras := make([]string, len(s.BulletPoints))
	for i, b := range s.BulletPoints {
		paras[i] = fmt.Sprintf("%d. %s", i+1, plainText(b))
	}
	placeholder := Shape{
		Kind: ShapeRect, Box: Box{sideX, contentTop, sideW, bodyHeight},
		Fill: pal.Surface, Color: pal.Subtext, FontSize: fontStepText, Align: AlignCenter,
	}
	if s.BackgroundImageKeyword != "" {
		placeholder.Paragraphs = []string{s.BackgroundImageKeyword}
	}
	return []Shape{
		{
			Kind: ShapeText, Box: Box{textX, contentTop, textW, bodyHeight},
			Paragraphs: paras, FontSize: fontBody, Color: pal.Text, Align: AlignLeft,
		},
		placeholder,
	}
}

// planChart returns nothing when the slide carries no drawable series, so
// the page keeps its title only.
func planChart(s deck.Slide, pal theme.Palette) []Shape {
	cd := s.ChartData
	ser := cd.FirstSeries()
	if ser == nil || len(ser.Values) == 0 {
		return nil
	}
	kind := cd.Kind
	switch kind {
	case deck.ChartBar, deck.ChartLine, deck.ChartPie:
	default:
		kind = deck.ChartBar
	}

	cp := &ChartPlan{
		Kind:        kind,
		SeriesLabel: ser.Label,
		Labels:      make([]string, len(ser.Values)),
		Values:      append([]float64(nil), ser.Values...),
	}
	for i := range cp.Labels {
		if i < len(cd.CategoryLabels) {
			cp.Labels[i] = cd.CategoryLabels[i]
		}
	}
	return []Shape{{
		Kind: ShapeChart, Box: Box{marginX + 0.5, contentTop - 0.1, contentWidth - 1, bodyHeight + 0.2},
		Color: pal.Text, Fill: pal.Background, Chart: cp,
	}}
}

// planTable emits the header row followed by one row per data row. A table
// without headers has no columns and is left out.
func planTable(s deck.Slide, pal theme.Palette) []Shape {
	td := s.TableData
	if td == nil || len(td.Headers) == 0 {
		return nil
	}
	cols := len(td.Headers)
	rows := make([][]string, 0, len(td.Rows)+1)
	rows = append(rows, padRow(td.Headers, cols))
	for _, r := range td.Rows {
		rows = append(rows, padRow(r, cols))
	}

	rowH := 0.4
	if h := bodyHeight / float64(len(rows)); h < rowH {
		rowH = h
	}
	return []Shape{{
		Kind: ShapeTable, Box: Box{marginX, contentTop, contentWidth, rowH * float64(len(rows))},
		FontSize: fontTableCell,
		Table: &TablePlan{
			Rows:       rows,
			Columns:    cols,
			HeaderFill: pal.Accent,
			HeaderText: pal.Background,
			BodyFill:   pal.Surface,
			BodyText:   pal.Text,
		},
	}}
}

func padRow(r []string, n int) []string {
	out := make([]string, n)
	for i := 0; i < n && i < len(r); i++ {
		out[i] = plainText(r[i])
	}
	return out
}

func planProcess(s deck.Slide, pal theme.Palette) []Shape {
	steps := s.ProcessSteps
	if len(steps) > MaxProcessSteps {
		steps = steps[:MaxProcessSteps]
	}
	if len(steps) == 0 {
		return nil
	}
	n := float64(len(steps))
	w := (contentWidth - columnGap*(n-1)) / n

	shapes := make([]Shape, 0, len(steps))
	for i, st := range steps {
		shapes = append(shapes, Shape{
			Kind: ShapeStep, Box: Box{marginX + float64(i)*(w+columnGap), 1.8, w, 2.4},
			Fill: pal.Surface, Color: pal.Text, FontSize: fontStepTitle, Align: AlignCenter,
			Step: &StepPlan{Number: i + 1, Title: plainText(st.Title), Description: plainText(st.Description)},
		})
	}
	return shapes
}
