package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"deckstudio/deck"
	"deckstudio/theme"
)

const slideTemplate = `{{define "slide"}}<section class="slide kind-{{.Kind}} layout-{{.Layout}}" data-slide-id="{{.SlideID}}" data-kind="{{.Kind}}" data-style="{{.Style}}" style="{{rootStyle .Palette}}">
{{- if .BackgroundKeyword}}<div class="bg-hint" data-keyword="{{.BackgroundKeyword}}"></div>{{end}}
{{- if eq (printf "%s" .Kind) "title"}}
<div class="title-block"><h1 class="slide-title">{{.Title}}</h1>{{if .Subtitle}}<p class="subtitle" style="{{fg .Palette.Subtext}}">{{.Subtitle}}</p>{{end}}</div>
{{- else}}
<h2 class="slide-title" style="{{fg .Palette.Accent}}">{{.Title}}</h2>
{{- if .Chart}}{{template "chart" .}}{{end}}
{{- if .Table}}{{template "table" .}}{{end}}
{{- if eq (printf "%s" .Kind) "process"}}{{template "process" .}}{{end}}
{{- if eq (printf "%s" .Kind) "content"}}<ul class="bullets">{{range .Bullets}}<li>{{md .}}</li>{{end}}</ul>{{end}}
{{- end}}
</section>{{end}}

{{define "chart"}}<div class="chart chart-{{.Chart.Kind}}{{if .Chart.Empty}} chart-empty{{end}}" data-series="{{.Chart.SeriesLabel}}">
{{- if eq (printf "%s" .Chart.Kind) "pie"}}<div class="pie" style="{{pieStyle .Chart .Palette}}"></div><ul class="legend">{{range .Chart.Bars}}<li>{{.Label}}: {{num .Value}}</li>{{end}}</ul>
{{- else}}{{$p := .Palette}}{{range .Chart.Bars}}<div class="bar" data-height="{{printf "%.4f" .Height}}"><div class="bar-fill" style="{{barStyle .Height $p}}"></div><span class="bar-label">{{.Label}}</span></div>{{end}}
{{- end}}</div>{{end}}

{{define "table"}}<table class="data-table"><thead><tr>{{range .Table.Headers}}<th style="{{headStyle $.Palette}}">{{.}}</th>{{end}}</tr></thead><tbody>{{range .Table.Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>{{end}}</tbody></table>{{end}}

{{define "process"}}<ol class="process">{{range .Steps}}<li class="step"><span class="step-number" style="{{headStyle $.Palette}}">{{.Number}}</span><strong>{{.Title}}</strong><p>{{.Description}}</p></li>{{end}}</ol>{{end}}
`

const pageTemplate = `{{define "print"}}<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title><style>{{css}}
@page { size: 13.333in 7.5in; margin: 0; }
.page { width: 13.333in; height: 7.5in; page-break-after: always; break-after: page; overflow: hidden; }
.page:last-child { page-break-after: auto; }
</style></head><body class="print">
{{range .Views}}<div class="page">{{template "slide" .}}</div>
{{end}}</body></html>{{end}}

{{define "grid"}}<!DOCTYPE html>
<html><head><meta charset="utf-8"><title>{{.Title}}</title><style>{{css}}
.grid { display: grid; grid-template-columns: repeat(3, 1fr); gap: 16px; padding: 16px; }
.thumb { aspect-ratio: 16 / 9; overflow: hidden; border: 2px solid transparent; cursor: pointer; }
.thumb.current { border-color: {{.Accent}}; }
.thumb .slide { transform: scale(0.3); transform-origin: top left; width: 333%; height: 333%; }
</style></head><body class="grid-view"><div class="grid">
{{range $i, $v := .Views}}<a class="thumb{{if eq $i $.Current}} current{{end}}" data-index="{{$i}}" href="#" onclick="window.go.main.App.SelectSlide({{$i}});return false;">{{template "slide" $v}}</a>
{{end}}</div>
<script>
window.addEventListener('keydown', (e) => {
  if (window.go && window.go.main) { window.go.main.App.HandleKey(e.key); }
});
if (window.runtime) {
  window.runtime.EventsOn('player-changed', (state) => {
    if (state.view !== 'grid') { window.location.href = '/'; }
  });
}
</script></body></html>{{end}}

{{define "shell"}}<!DOCTYPE html>
<html lang="{{.Lang}}"><head><meta charset="utf-8"><title>{{.Title}}</title><style>{{css}}
html, body { margin: 0; height: 100%; background: #000; }
#stage { width: 100vw; height: 100vh; }
#laser { position: fixed; width: 14px; height: 14px; border-radius: 50%; background: rgba(255, 0, 0, 0.8); box-shadow: 0 0 12px red; pointer-events: none; display: none; }
</style></head><body>
<div id="stage"></div><div id="laser"></div>
<script>
async function refresh() {
  const res = await fetch('/slide');
  document.getElementById('stage').innerHTML = await res.text();
}
window.addEventListener('keydown', (e) => {
  if (window.go && window.go.main) { window.go.main.App.HandleKey(e.key); }
});
window.addEventListener('mousemove', (e) => {
  if (window.go && window.go.main) { window.go.main.App.MovePointer(e.clientX / window.innerWidth, e.clientY / window.innerHeight); }
});
if (window.runtime) {
  window.runtime.EventsOn('player-changed', (state) => {
    const laser = document.getElementById('laser');
    laser.style.display = state.laserOn ? 'block' : 'none';
    laser.style.left = (state.pointerX * window.innerWidth) + 'px';
    laser.style.top = (state.pointerY * window.innerHeight) + 'px';
    if (state.view === 'grid') { window.location.href = '/grid'; } else { refresh(); }
  });
}
refresh();
</script></body></html>{{end}}
`

const baseCSS = `
* { box-sizing: border-box; }
body { margin: 0; }
.slide { position: relative; width: 100%; height: 100%; padding: 6% 8%; display: flex; flex-direction: column; }
.kind-title { justify-content: center; align-items: center; text-align: center; }
.slide-title { margin: 0 0 0.6em; }
.kind-title .slide-title { font-size: 3.2em; }
.subtitle { font-size: 1.4em; font-style: italic; }
.bullets li { margin: 0.4em 0; font-size: 1.2em; }
.layout-split .bullets { width: 55%; }
.chart { flex: 1; display: flex; align-items: flex-end; gap: 2%; }
.bar { flex: 1; height: 100%; display: flex; flex-direction: column; justify-content: flex-end; text-align: center; }
.bar-label { font-size: 0.8em; margin-top: 4px; }
.chart-empty { border: 1px dashed currentColor; opacity: 0.4; }
.pie { width: 40vmin; height: 40vmin; border-radius: 50%; }
.data-table { border-collapse: collapse; width: 100%; }
.data-table th, .data-table td { padding: 0.5em 0.8em; border-bottom: 1px solid rgba(128, 128, 128, 0.3); text-align: left; }
.process { display: flex; gap: 2%; list-style: none; padding: 0; }
.step { flex: 1; }
.step-number { display: inline-block; width: 2em; height: 2em; line-height: 2em; border-radius: 50%; text-align: center; margin-right: 0.5em; }
`

var templates = template.Must(template.New("render").Funcs(template.FuncMap{
	"md":  inlineMarkdown,
	"num": formatNumber,
	"css": func() template.CSS { return template.CSS(baseCSS) },
	"rootStyle": func(p theme.Palette) template.CSS {
		return template.CSS(fmt.Sprintf("background: %s; color: %s; font-family: %s;", p.Backdrop, p.Text.CSS(), p.FontFamily))
	},
	"fg": func(c theme.Color) template.CSS {
		return template.CSS("color: " + c.CSS() + ";")
	},
	"headStyle": func(p theme.Palette) template.CSS {
		return template.CSS(fmt.Sprintf("background: %s; color: %s; font-weight: bold;", p.Accent.CSS(), p.Background.CSS()))
	},
	"barStyle": func(h float64, p theme.Palette) template.CSS {
		return template.CSS(fmt.Sprintf("height: %.2f%%; background: %s;", h*100, p.Accent.CSS()))
	},
	"pieStyle": pieStyle,
}).Parse(slideTemplate + pageTemplate))

// HTML serializes a view as a standalone slide fragment.
func HTML(v View) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "slide", v); err != nil {
		return "", fmt.Errorf("render slide %s: %w", v.SlideID, err)
	}
	return buf.String(), nil
}

type document struct {
	Title   string
	Lang    string
	Views   []View
	Current int
	Accent  template.CSS
}

func execDocument(name string, d *deck.Deck, style deck.Style, current int) ([]byte, error) {
	if !d.Renderable() {
		return nil, fmt.Errorf("render %s: deck has no slides", name)
	}
	doc := document{
		Title:   d.Title,
		Views:   RenderDeck(d, style),
		Current: current,
		Accent:  template.CSS(theme.For(style).Accent.CSS()),
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, doc); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// PrintDocument lays every slide out on its own 16:9 page for the host's
// print-to-PDF facility.
func PrintDocument(d *deck.Deck, style deck.Style) ([]byte, error) {
	return execDocument("print", d, style, -1)
}

// GridDocument renders the thumbnail overview with the current slide marked.
func GridDocument(d *deck.Deck, style deck.Style, current int) ([]byte, error) {
	return execDocument("grid", d, style, current)
}

// ShellPage is the interactive host page. It fetches the current slide and
// forwards keyboard and pointer events to the application. lang is the
// BCP 47 tag of the UI language.
func ShellPage(title, lang string) ([]byte, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "shell", document{Title: title, Lang: lang}); err != nil {
		return nil, fmt.Errorf("render shell: %w", err)
	}
	return buf.Bytes(), nil
}

func pieStyle(c *ChartView, p theme.Palette) template.CSS {
	if c == nil || len(c.Bars) == 0 {
		return template.CSS("background: " + p.Surface.CSS() + ";")
	}
	shades := []theme.Color{p.Accent, p.Subtext, p.Text, p.Surface}
	var stops []string
	start := 0.0
	for i, b := range c.Bars {
		if b.Share <= 0 {
			continue
		}
		end := start + b.Share*100
		stops = append(stops, fmt.Sprintf("%s %.2f%% %.2f%%", shades[i%len(shades)].CSS(), start, end))
		start = end
	}
	if len(stops) == 0 {
		return template.CSS("background: " + p.Surface.CSS() + ";")
	}
	return template.CSS("background: conic-gradient(" + strings.Join(stops, ", ") + ");")
}

func formatNumber(f float64) string {
	if f == float64(int64(f)) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%.2f", f)
}
