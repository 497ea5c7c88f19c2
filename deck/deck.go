// Package deck defines the canonical slide-deck document shared by every
// other component: generation output is normalized into these types by
// Validate, and the renderer, player, exporter and store only ever see
// values that passed through it.
package deck

import "strings"

// Style is the visual theme applied to a whole deck.
type Style string

const (
	StyleCyberpunk  Style = "Cyberpunk"
	StyleCorporate  Style = "Corporate"
	StyleMinimalist Style = "Minimalist"
	StyleNature     Style = "Nature"
	StyleFuturistic Style = "Futuristic"
)

// DefaultStyle is used whenever a style value is missing or unrecognized.
const DefaultStyle = StyleCorporate

// Styles lists every supported style in display order.
var Styles = []Style{StyleCyberpunk, StyleCorporate, StyleMinimalist, StyleNature, StyleFuturistic}

// ParseStyle matches s case-insensitively against the known styles.
func ParseStyle(s string) (Style, bool) {
	s = strings.TrimSpace(s)
	for _, st := range Styles {
		if strings.EqualFold(string(st), s) {
			return st, true
		}
	}
	return DefaultStyle, false
}

// Valid reports whether s is one of the enumerated styles.
func (s Style) Valid() bool {
	for _, st := range Styles {
		if st == s {
			return true
		}
	}
	return false
}

// OrDefault returns s when valid and DefaultStyle otherwise.
func (s Style) OrDefault() Style {
	if s.Valid() {
		return s
	}
	return DefaultStyle
}

// Kind is the slide variant tag.
type Kind string

const (
	KindTitle   Kind = "title"
	KindContent Kind = "content"
	KindChart   Kind = "chart"
	KindTable   Kind = "table"
	KindProcess Kind = "process"
)

// Kinds lists the five slide kinds.
var Kinds = []Kind{KindTitle, KindContent, KindChart, KindTable, KindProcess}

func parseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range Kinds {
		if string(k) == s {
			return k, true
		}
	}
	return KindContent, false
}

// ChartKind selects how chart data is drawn.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
)

// Layout is an advisory placement hint.
type Layout string

const (
	LayoutLeft   Layout = "left"
	LayoutRight  Layout = "right"
	LayoutCenter Layout = "center"
	LayoutSplit  Layout = "split"
)

// Series is one named run of values aligned with the chart's category labels.
type Series struct {
	Label  string    `json:"label"`
	Values []float64 `json:"data"`
}

// ChartData is the payload of a chart slide.
type ChartData struct {
	Kind           ChartKind `json:"type" validate:"oneof=bar line pie"`
	CategoryLabels []string  `json:"labels"`
	Series         []Series  `json:"datasets"`
}

// FirstSeries returns the first series, or nil when there is none.
func (c *ChartData) FirstSeries() *Series {
	if c == nil || len(c.Series) == 0 {
		return nil
	}
	return &c.Series[0]
}

// TableData is the payload of a table slide.
type TableData struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// ProcessStep is one node of a process slide.
type ProcessStep struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Slide is one page of a deck. Only the payload matching Type is populated.
type Slide struct {
	ID                     string        `json:"id" validate:"required"`
	Type                   Kind          `json:"type" validate:"oneof=title content chart table process"`
	Title                  string        `json:"title"`
	Subtitle               string        `json:"subtitle,omitempty"`
	BulletPoints           []string      `json:"bulletPoints,omitempty"`
	ChartData              *ChartData    `json:"chartData,omitempty"`
	TableData              *TableData    `json:"tableData,omitempty"`
	ProcessSteps           []ProcessStep `json:"processSteps,omitempty"`
	BackgroundImageKeyword string        `json:"backgroundImageKeyword,omitempty"`
	Layout                 Layout        `json:"layout,omitempty" validate:"omitempty,oneof=left right center split"`
}

// Deck is the root presentation document.
type Deck struct {
	ID        string  `json:"id,omitempty"`
	Topic     string  `json:"topic"`
	Style     Style   `json:"style" validate:"oneof=Cyberpunk Corporate Minimalist Nature Futuristic"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	Slides    []Slide `json:"slides" validate:"min=1,unique=ID,dive"`
	CreatedAt string  `json:"createdAt,omitempty"`
}

// Renderable reports whether the deck has at least one slide.
func (d *Deck) Renderable() bool {
	return d != nil && len(d.Slides) > 0
}

// SharedDeck is a deck published to the community collection.
type SharedDeck struct {
	Deck
	Likes      int    `json:"likes"`
	Downloads  int    `json:"downloads"`
	SharedBy   string `json:"sharedBy"`
	DateShared string `json:"dateShared"`
}

// Clone returns a deep copy of the deck.
func (d *Deck) Clone() *Deck {
	if d == nil {
		return nil
	}
	out := *d
	if d.Slides != nil {
		out.Slides = make([]Slide, len(d.Slides))
		for i := range d.Slides {
			out.Slides[i] = d.Slides[i].Clone()
		}
	}
	return &out
}

// Clone returns a deep copy of the slide.
func (s Slide) Clone() Slide {
	out := s
	out.BulletPoints = cloneStrings(s.BulletPoints)
	if s.ProcessSteps != nil {
		out.ProcessSteps = append([]ProcessStep(nil), s.ProcessSteps...)
	}
	if s.ChartData != nil {
		cd := *s.ChartData
		cd.CategoryLabels = cloneStrings(s.ChartData.CategoryLabels)
		if s.ChartData.Series != nil {
			cd.Series = make([]Series, len(s.ChartData.Series))
			for i, ser := range s.ChartData.Series {
				cd.Series[i] = Series{Label: ser.Label}
				if ser.Values != nil {
					cd.Series[i].Values = append([]float64(nil), ser.Values...)
				}
			}
		}
		out.ChartData = &cd
	}
	if s.TableData != nil {
		td := TableData{Headers: cloneStrings(s.TableData.Headers)}
		if s.TableData.Rows != nil {
			td.Rows = make([][]string, len(s.TableData.Rows))
			for i, r := range s.TableData.Rows {
				td.Rows[i] = cloneStrings(r)
			}
		}
		out.TableData = &td
	}
	return out
}

// Clone returns a deep copy of the shared deck.
func (s *SharedDeck) Clone() *SharedDeck {
	if s == nil {
		return nil
	}
	out := *s
	out.Deck = *s.Deck.Clone()
	return &out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
