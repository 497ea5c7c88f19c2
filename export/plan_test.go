package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckstudio/deck"
	"deckstudio/render"
	"deckstudio/theme"
)

func sampleDeck() *deck.Deck {
	return &deck.Deck{
		Topic:  "Team results",
		Style:  deck.StyleCorporate,
		Title:  "Team Results",
		Author: "Ann",
		Slides: []deck.Slide{
			{ID: "s1", Type: deck.KindTitle, Title: "Team Results", Subtitle: "Spring"},
			{ID: "s2", Type: deck.KindContent, Title: "Highlights", BulletPoints: []string{"**Fast** shipping", "Fewer bugs"}},
			{ID: "s3", Type: deck.KindChart, Title: "Velocity", ChartData: &deck.ChartData{
				Kind:           deck.ChartBar,
				CategoryLabels: []string{"Q1", "Q2", "Q3"},
				Series:         []deck.Series{{Label: "Points", Values: []float64{10, 14, 19}}, {Label: "Other", Values: []float64{1, 2, 3}}},
			}},
			{ID: "s4", Type: deck.KindTable, Title: "Scores", TableData: &deck.TableData{
				Headers: []string{"Name", "Score"},
				Rows:    [][]string{{"Ann", "9"}, {"Bo", "7"}},
			}},
			{ID: "s5", Type: deck.KindProcess, Title: "Flow", ProcessSteps: []deck.ProcessStep{
				{Title: "Plan", Description: "Scope it"},
				{Title: "Build"},
			}},
		},
	}
}

func shapesOf(pg Page, kind ShapeKind) []Shape {
	var out []Shape
	for _, sh := range pg.Shapes {
		if sh.Kind == kind {
			out = append(out, sh)
		}
	}
	return out
}

func TestBuildPlan_OnePagePerSlideInOrder(t *testing.T) {
	d := sampleDeck()
	plan, err := BuildPlan(d, deck.StyleNature)
	require.NoError(t, err)
	require.Len(t, plan.Pages, len(d.Slides))
	for i, pg := range plan.Pages {
		assert.Equal(t, d.Slides[i].ID, pg.SlideID)
		assert.Equal(t, d.Slides[i].Type, pg.Kind)
		for _, sh := range pg.Shapes {
			assert.GreaterOrEqual(t, sh.Box.X, 0.0)
			assert.LessOrEqual(t, sh.Box.X+sh.Box.W, PageWidth+1e-9, "slide %s shape overflows", pg.SlideID)
			assert.LessOrEqual(t, sh.Box.Y+sh.Box.H, PageHeight+1e-9, "slide %s shape overflows", pg.SlideID)
		}
	}
}

func TestBuildPlan_EmptyDeck(t *testing.T) {
	_, err := BuildPlan(&deck.Deck{Title: "x"}, deck.StyleCorporate)
	assert.ErrorIs(t, err, ErrEmptyDeck)

	_, err = BuildPlan(nil, deck.StyleCorporate)
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestBuildPlan_PaletteMatchesRenderer(t *testing.T) {
	d := sampleDeck()
	for _, st := range append([]deck.Style{"Unknown"}, deck.Styles...) {
		plan, err := BuildPlan(d, st)
		require.NoError(t, err)

		view := render.Render(d.Slides[0], st)
		assert.Equal(t, view.Palette, plan.Palette, "style %s", st)
		assert.Equal(t, theme.For(st), plan.Palette)
		for _, pg := range plan.Pages {
			assert.Equal(t, view.Palette.Background, pg.Background)
		}
	}
}

func TestBuildPlan_TitleSlide(t *testing.T) {
	plan, err := BuildPlan(sampleDeck(), deck.StyleCorporate)
	require.NoError(t, err)

	texts := shapesOf(plan.Pages[0], ShapeText)
	require.Len(t, texts, 2)
	assert.Equal(t, []string{"Team Results"}, texts[0].Paragraphs)
	assert.Equal(t, AlignCenter, texts[0].Align)
	assert.Greater(t, texts[0].FontSize, texts[1].FontSize)
	assert.Equal(t, []string{"Spring"}, texts[1].Paragraphs)
	assert.Equal(t, plan.Palette.Accent, texts[1].Color)
}

func TestBuildPlan_ContentNumbersBulletsAndHonorsLayout(t *testing.T) {
	d := sampleDeck()
	plan, err := BuildPlan(d, deck.StyleCorporate)
	require.NoError(t, err)

	texts := shapesOf(plan.Pages[1], ShapeText)
	require.Len(t, texts, 2)
	body := texts[1]
	assert.Equal(t, []string{"1. Fast shipping", "2. Fewer bugs"}, body.Paragraphs)
	rect := shapesOf(plan.Pages[1], ShapeRect)
	require.Len(t, rect, 2)
	placeholder := rect[1]
	assert.Less(t, body.Box.X, placeholder.Box.X)

	d.Slides[1].Layout = deck.LayoutRight
	plan, err = BuildPlan(d, deck.StyleCorporate)
	require.NoError(t, err)
	body = shapesOf(plan.Pages[1], ShapeText)[1]
	placeholder = shapesOf(plan.Pages[1], ShapeRect)[1]
	assert.Greater(t, body.Box.X, placeholder.Box.X)
}

func TestBuildPlan_ChartUsesFirstSeries(t *testing.T) {
	plan, err := BuildPlan(sampleDeck(), deck.StyleCorporate)
	require.NoError(t, err)

	charts := shapesOf(plan.Pages[2], ShapeChart)
	require.Len(t, charts, 1)
	cp := charts[0].Chart
	assert.Equal(t, deck.ChartBar, cp.Kind)
	assert.Equal(t, "Points", cp.SeriesLabel)
	assert.Equal(t, []string{"Q1", "Q2", "Q3"}, cp.Labels)
	assert.Equal(t, []float64{10, 14, 19}, cp.Values)
}

func TestBuildPlan_ChartWithoutDataKeepsTitleOnly(t *testing.T) {
	tests := []struct {
		name string
		data *deck.ChartData
	}{
		{"nil data", nil},
		{"no series", &deck.ChartData{Kind: deck.ChartLine, CategoryLabels: []string{"a"}}},
		{"empty series", &deck.ChartData{Kind: deck.ChartPie, Series: []deck.Series{{Label: "x"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &deck.Deck{Title: "c", Slides: []deck.Slide{{ID: "c1", Type: deck.KindChart, Title: "Empty", ChartData: tt.data}}}
			plan, err := BuildPlan(d, deck.StyleCorporate)
			require.NoError(t, err)
			assert.Empty(t, shapesOf(plan.Pages[0], ShapeChart))
			texts := shapesOf(plan.Pages[0], ShapeText)
			require.Len(t, texts, 1)
			assert.Equal(t, []string{"Empty"}, texts[0].Paragraphs)
		})
	}
}

func TestBuildPlan_UnknownChartKindDrawsBars(t *testing.T) {
	d := &deck.Deck{Title: "c", Slides: []deck.Slide{{ID: "c1", Type: deck.KindChart, ChartData: &deck.ChartData{
		Kind:   "radar",
		Series: []deck.Series{{Values: []float64{1, 2}}},
	}}}}
	plan, err := BuildPlan(d, deck.StyleCorporate)
	require.NoError(t, err)
	cp := shapesOf(plan.Pages[0], ShapeChart)[0].Chart
	assert.Equal(t, deck.ChartBar, cp.Kind)
	assert.Equal(t, []string{"", ""}, cp.Labels)
}

func TestBuildPlan_TableRowsInOrder(t *testing.T) {
	d := &deck.Deck{Title: "t", Slides: []deck.Slide{sampleDeck().Slides[3]}}
	plan, err := BuildPlan(d, deck.StyleCorporate)
	require.NoError(t, err)
	require.Len(t, plan.Pages, 1)

	tables := shapesOf(plan.Pages[0], ShapeTable)
	require.Len(t, tables, 1)
	tp := tables[0].Table
	assert.Equal(t, [][]string{{"Name", "Score"}, {"Ann", "9"}, {"Bo", "7"}}, tp.Rows)
	assert.Equal(t, 2, tp.Columns)
	assert.Equal(t, plan.Palette.Accent, tp.HeaderFill)
}

func TestBuildPlan_TableRowsPaddedToHeader(t *testing.T) {
	d := &deck.Deck{Title: "t", Slides: []deck.Slide{{ID: "t1", Type: deck.KindTable, TableData: &deck.TableData{
		Headers: []string{"A", "B", "C"},
		Rows:    [][]string{{"1"}, {"1", "2", "3", "4"}},
	}}}}
	plan, err := BuildPlan(d, deck.StyleCorporate)
	require.NoError(t, err)
	tp := shapesOf(plan.Pages[0], ShapeTable)[0].Table
	assert.Equal(t, [][]string{{"A", "B", "C"}, {"1", "", ""}, {"1", "2", "3"}}, tp.Rows)
}

func TestBuildPlan_TableWithoutHeadersIsOmitted(t *testing.T) {
	d := &deck.Deck{Title: "t", Slides: []deck.Slide{{ID: "t1", Type: deck.KindTable, Title: "Nothing", TableData: &deck.TableData{
		Rows: [][]string{{"orphan"}},
	}}}}
	plan, err := BuildPlan(d, deck.StyleCorporate)
	require.NoError(t, err)
	assert.Empty(t, shapesOf(plan.Pages[0], ShapeTable))
}

func TestBuildPlan_ProcessCapsSteps(t *testing.T) {
	steps := make([]deck.ProcessStep, 7)
	for i := range steps {
		steps[i] = deck.ProcessStep{Title: string(rune('A' + i))}
	}
	d := &deck.Deck{Title: "p", Slides: []deck.Slide{{ID: "p1", Type: deck.KindProcess, ProcessSteps: steps}}}
	plan, err := BuildPlan(d, deck.StyleCorporate)
	require.NoError(t, err)

	nodes := shapesOf(plan.Pages[0], ShapeStep)
	require.Len(t, nodes, MaxProcessSteps)
	for i, n := range nodes {
		assert.Equal(t, i+1, n.Step.Number)
		assert.Equal(t, steps[i].Title, n.Step.Title)
		if i > 0 {
			assert.Greater(t, n.Box.X, nodes[i-1].Box.X)
		}
	}
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain words", "plain words"},
		{"**bold** and *em*", "bold and em"},
		{"use `go test`", "use go test"},
		{"[link](http://example.com) here", "link here"},
		{"# Heading", "Heading"},
		{"***", "***"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, plainText(tt.in), tt.in)
	}
}
