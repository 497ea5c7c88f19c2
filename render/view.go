// Package render turns slides into presentational views. Render is pure: the
// same slide and style always produce the same View and the slide is never
// modified.
package render

import (
	"deckstudio/deck"
	"deckstudio/theme"
)

// View is the presentational form of one slide.
type View struct {
	SlideID           string
	Kind              deck.Kind
	Style             deck.Style
	Palette           theme.Palette
	Layout            deck.Layout
	BackgroundKeyword string

	Title    string
	Subtitle string
	Bullets  []string
	Chart    *ChartView
	Table    *TableView
	Steps    []StepView
}

// ChartView is a chart normalized for drawing. Heights are proportions of
// the first series' maximum and always lie in [0, 1].
type ChartView struct {
	Kind        deck.ChartKind
	SeriesLabel string
	Max         float64
	Bars        []Bar
	Empty       bool
}

// Bar is one category of the first series.
type Bar struct {
	Label  string
	Value  float64
	Height float64
	// Share is the value's fraction of the positive total, for pie charts.
	Share float64
}

// TableView holds the header row and data rows of a table slide.
type TableView struct {
	Headers []string
	Rows    [][]string
}

// StepView is a numbered process step.
type StepView struct {
	Number      int
	Title       string
	Description string
}

type strategy func(v *View, s deck.Slide)

var strategies = map[deck.Kind]strategy{
	deck.KindTitle:   renderTitle,
	deck.KindContent: renderContent,
	deck.KindChart:   renderChart,
	deck.KindTable:   renderTable,
	deck.KindProcess: renderProcess,
}

// Render builds the view of slide s in the given style. Unknown slide kinds
// use the content strategy and unknown styles use the default palette.
func Render(s deck.Slide, style deck.Style) View {
	style = style.OrDefault()
	v := View{
		SlideID:           s.ID,
		Kind:              s.Type,
		Style:             style,
		Palette:           theme.For(style),
		Layout:            s.Layout,
		BackgroundKeyword: s.BackgroundImageKeyword,
		Title:             s.Title,
	}
	if v.Layout == "" {
		v.Layout = deck.LayoutCenter
	}

	fn, ok := strategies[s.Type]
	if !ok {
		v.Kind = deck.KindContent
		fn = renderContent
	}
	fn(&v, s)
	return v
}

// RenderDeck renders every slide of d in order.
func RenderDeck(d *deck.Deck, style deck.Style) []View {
	if d == nil {
		return nil
	}
	views := make([]View, len(d.Slides))
	for i, s := range d.Slides {
		views[i] = Render(s, style)
	}
	return views
}

func renderTitle(v *View, s deck.Slide) {
	v.Subtitle = s.Subtitle
}

func renderContent(v *View, s deck.Slide) {
	v.Bullets = append([]string{}, s.BulletPoints...)
}

func renderTable(v *View, s deck.Slide) {
	t := &TableView{Headers: []string{}, Rows: [][]string{}}
	if s.TableData != nil {
		t.Headers = append(t.Headers, s.TableData.Headers...)
		for _, r := range s.TableData.Rows {
			t.Rows = append(t.Rows, append([]string{}, r...))
		}
	}
	v.Table = t
}

func renderProcess(v *View, s deck.Slide) {
	v.Steps = make([]StepView, 0, len(s.ProcessSteps))
	for i, st := range s.ProcessSteps {
		v.Steps = append(v.Steps, StepView{Number: i + 1, Title: st.Title, Description: st.Description})
	}
}

func renderChart(v *View, s deck.Slide) {
	cv := &ChartView{Kind: deck.ChartBar, Max: 1, Bars: []Bar{}}
	v.Chart = cv

	cd := s.ChartData
	if cd == nil {
		cv.Empty = true
		return
	}
	if cd.Kind != "" {
		cv.Kind = cd.Kind
	}
	ser := cd.FirstSeries()
	if ser == nil || len(ser.Values) == 0 {
		cv.Empty = true
		return
	}
	cv.SeriesLabel = ser.Label

	peak, total := 0.0, 0.0
	for _, val := range ser.Values {
		if val > peak {
			peak = val
		}
		if val > 0 {
			total += val
		}
	}
	if peak <= 0 {
		peak = 1
	}
	cv.Max = peak

	for i, val := range ser.Values {
		b := Bar{Value: val, Height: clamp01(val / peak)}
		if i < len(cd.CategoryLabels) {
			b.Label = cd.CategoryLabels[i]
		}
		if total > 0 && val > 0 {
			b.Share = val / total
		}
		cv.Bars = append(cv.Bars, b)
	}
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
