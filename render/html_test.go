package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"deckstudio/deck"
)

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func testDeck() *deck.Deck {
	return &deck.Deck{
		Title: "Future of AI",
		Style: deck.StyleFuturistic,
		Slides: []deck.Slide{
			{ID: "s1", Type: deck.KindTitle, Title: "Future of AI", Subtitle: "2030"},
			{ID: "s2", Type: deck.KindContent, Title: "Drivers", BulletPoints: []string{"**Compute**", "<script>alert(1)</script>"}},
			{ID: "s3", Type: deck.KindChart, Title: "Growth", ChartData: &deck.ChartData{Kind: deck.ChartBar, CategoryLabels: []string{"a", "b"}, Series: []deck.Series{{Values: []float64{2, 4}}}}},
			{ID: "s4", Type: deck.KindTable, Title: "Scores", TableData: &deck.TableData{Headers: []string{"Name", "Score"}, Rows: [][]string{{"Ann", "9"}, {"Bo", "7"}}}},
			{ID: "s5", Type: deck.KindProcess, Title: "Plan", ProcessSteps: []deck.ProcessStep{{Title: "Pilot", Description: "small"}}},
		},
	}
}

func TestHTML_TitleSlide(t *testing.T) {
	out, err := HTML(Render(testDeck().Slides[0], deck.StyleFuturistic))
	if err != nil {
		t.Fatal(err)
	}
	doc := parse(t, out)
	sec := doc.Find("section.slide")
	if kind, _ := sec.Attr("data-kind"); kind != "title" {
		t.Errorf("data-kind = %q", kind)
	}
	if got := doc.Find("h1.slide-title").Text(); got != "Future of AI" {
		t.Errorf("title = %q", got)
	}
	if got := doc.Find(".subtitle").Text(); got != "2030" {
		t.Errorf("subtitle = %q", got)
	}
}

func TestHTML_BulletsRenderMarkdownAndEscapeHTML(t *testing.T) {
	out, err := HTML(Render(testDeck().Slides[1], deck.StyleFuturistic))
	if err != nil {
		t.Fatal(err)
	}
	doc := parse(t, out)
	if doc.Find("ul.bullets li").Length() != 2 {
		t.Fatalf("bullets = %d", doc.Find("ul.bullets li").Length())
	}
	if got := doc.Find("ul.bullets li strong").Text(); got != "Compute" {
		t.Errorf("strong = %q", got)
	}
	if doc.Find("script").Length() != 0 {
		t.Error("raw HTML in bullet text reached the output")
	}
}

func TestHTML_ChartBars(t *testing.T) {
	out, err := HTML(Render(testDeck().Slides[2], deck.StyleFuturistic))
	if err != nil {
		t.Fatal(err)
	}
	doc := parse(t, out)
	var heights []string
	doc.Find(".bar").Each(func(i int, s *goquery.Selection) {
		h, _ := s.Attr("data-height")
		heights = append(heights, h)
	})
	if strings.Join(heights, ",") != "0.5000,1.0000" {
		t.Errorf("heights = %v", heights)
	}
}

func TestHTML_EmptyChart(t *testing.T) {
	out, err := HTML(Render(deck.Slide{ID: "c", Type: deck.KindChart, Title: "Nothing"}, deck.StyleNature))
	if err != nil {
		t.Fatal(err)
	}
	doc := parse(t, out)
	if doc.Find(".chart.chart-empty").Length() != 1 {
		t.Error("missing chart data should render an empty chart region")
	}
}

func TestHTML_Table(t *testing.T) {
	out, err := HTML(Render(testDeck().Slides[3], deck.StyleFuturistic))
	if err != nil {
		t.Fatal(err)
	}
	doc := parse(t, out)
	if doc.Find("thead th").Length() != 2 || doc.Find("tbody tr").Length() != 2 {
		t.Errorf("table shape = %d headers, %d rows", doc.Find("thead th").Length(), doc.Find("tbody tr").Length())
	}
	if got := doc.Find("tbody tr").Eq(1).Find("td").First().Text(); got != "Bo" {
		t.Errorf("second row = %q", got)
	}
}

func TestPrintDocument_OnePagePerSlide(t *testing.T) {
	d := testDeck()
	out, err := PrintDocument(d, deck.StyleCorporate)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	pages := doc.Find(".page")
	if pages.Length() != len(d.Slides) {
		t.Fatalf("pages = %d, want %d", pages.Length(), len(d.Slides))
	}
	pages.Each(func(i int, s *goquery.Selection) {
		id, _ := s.Find("section.slide").Attr("data-slide-id")
		if id != d.Slides[i].ID {
			t.Errorf("page %d shows %q, want %q", i, id, d.Slides[i].ID)
		}
		if st, _ := s.Find("section.slide").Attr("data-style"); st != string(deck.StyleCorporate) {
			t.Errorf("page %d style = %q", i, st)
		}
	})
}

func TestPrintDocument_ReusesSlideFragments(t *testing.T) {
	d := testDeck()
	out, err := PrintDocument(d, deck.StyleNature)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range d.Slides {
		frag, err := HTML(Render(s, deck.StyleNature))
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(out), frag) {
			t.Errorf("print document does not contain the interactive rendering of %s", s.ID)
		}
	}
}

func TestPrintDocument_RejectsEmptyDeck(t *testing.T) {
	if _, err := PrintDocument(&deck.Deck{}, deck.StyleCorporate); err == nil {
		t.Error("expected error for deck without slides")
	}
}

func TestGridDocument_MarksCurrent(t *testing.T) {
	out, err := GridDocument(testDeck(), deck.StyleCyberpunk, 3)
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find(".thumb").Length() != 5 {
		t.Errorf("thumbs = %d", doc.Find(".thumb").Length())
	}
	cur := doc.Find(".thumb.current")
	if idx, _ := cur.Attr("data-index"); cur.Length() != 1 || idx != "3" {
		t.Errorf("current thumb = %q (%d)", idx, cur.Length())
	}
}

func TestShellPage(t *testing.T) {
	out, err := ShellPage("Deck Studio", "zh-CN")
	if err != nil {
		t.Fatal(err)
	}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Find("#stage").Length() != 1 || doc.Find("title").Text() != "Deck Studio" {
		t.Error("shell page is missing the stage or title")
	}
	if lang, _ := doc.Find("html").Attr("lang"); lang != "zh-CN" {
		t.Errorf("lang = %q", lang)
	}
}
