package export

import (
	"bytes"
	"errors"
	"fmt"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"deckstudio/deck"
	"deckstudio/theme"
)

// Chart images are rendered at 100 dpi of their box.
const chartDPI = 100

var errNoPositiveValues = errors.New("pie chart needs a positive value")

func color(c theme.Color) drawing.Color {
	return drawing.ColorFromHex(string(c))
}

// renderChartPNG draws cp as a PNG sized for box.
func renderChartPNG(cp *ChartPlan, box Box, pal theme.Palette) ([]byte, error) {
	w, h := int(box.W*chartDPI), int(box.H*chartDPI)
	var buf bytes.Buffer
	var err error
	switch cp.Kind {
	case deck.ChartLine:
		err = lineChart(cp, w, h, pal).Render(chart.PNG, &buf)
	case deck.ChartPie:
		var pc chart.PieChart
		pc, err = pieChart(cp, w, h, pal)
		if err == nil {
			err = pc.Render(chart.PNG, &buf)
		}
	default:
		err = barChart(cp, w, h, pal).Render(chart.PNG, &buf)
	}
	if err != nil {
		return nil, fmt.Errorf("render %s chart: %w", cp.Kind, err)
	}
	return buf.Bytes(), nil
}

func baseStyle(pal theme.Palette) chart.Style {
	return chart.Style{
		FillColor:   color(pal.Background),
		FontColor:   color(pal.Text),
		StrokeColor: color(pal.Subtext),
	}
}

func axisStyle(pal theme.Palette) chart.Style {
	return chart.Style{
		FontColor:   color(pal.Subtext),
		StrokeColor: color(pal.Subtext),
		FontSize:    10,
	}
}

// valueRange always spans zero and never collapses to a single point.
func valueRange(values []float64) *chart.ContinuousRange {
	lo, hi := 0.0, 0.0
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi * 1.1}
}

func barChart(cp *ChartPlan, w, h int, pal theme.Palette) chart.BarChart {
	bars := make([]chart.Value, len(cp.Values))
	for i, v := range cp.Values {
		bars[i] = chart.Value{
			Label: cp.Labels[i],
			Value: v,
			Style: chart.Style{FillColor: color(pal.Accent), StrokeColor: color(pal.Accent)},
		}
	}
	barW := w / (2*len(bars) + 1)
	if barW > 80 {
		barW = 80
	}
	return chart.BarChart{
		Width:      w,
		Height:     h,
		BarWidth:   barW,
		Background: baseStyle(pal),
		Canvas:     baseStyle(pal),
		XAxis:      axisStyle(pal),
		YAxis:      chart.YAxis{Style: axisStyle(pal), Range: valueRange(cp.Values)},
		Bars:       bars,
	}
}

func lineChart(cp *ChartPlan, w, h int, pal theme.Palette) chart.Chart {
	xs := make([]float64, len(cp.Values))
	ys := append([]float64(nil), cp.Values...)
	ticks := make([]chart.Tick, len(cp.Values))
	for i := range cp.Values {
		xs[i] = float64(i)
		ticks[i] = chart.Tick{Value: float64(i), Label: cp.Labels[i]}
	}
	// go-chart needs two x values; a single category is drawn as a flat segment.
	if len(xs) == 1 {
		xs = append(xs, 1)
		ys = append(ys, ys[0])
		ticks = append(ticks, chart.Tick{Value: 1})
	}
	xMax := float64(len(xs) - 1)
	return chart.Chart{
		Width:      w,
		Height:     h,
		Background: baseStyle(pal),
		Canvas:     baseStyle(pal),
		XAxis: chart.XAxis{
			Style: axisStyle(pal),
			Ticks: ticks,
			Range: &chart.ContinuousRange{Min: 0, Max: xMax},
		},
		YAxis: chart.YAxis{Style: axisStyle(pal), Range: valueRange(cp.Values)},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    cp.SeriesLabel,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: color(pal.Accent),
					StrokeWidth: 3,
					DotColor:    color(pal.Accent),
					DotWidth:    4,
				},
			},
		},
	}
}

// pieChart keeps the positive slices only.
func pieChart(cp *ChartPlan, w, h int, pal theme.Palette) (chart.PieChart, error) {
	shades := []theme.Color{pal.Accent, pal.Subtext, pal.Text, pal.Surface}
	var values []chart.Value
	for i, v := range cp.Values {
		if v <= 0 {
			continue
		}
		c := shades[len(values)%len(shades)]
		values = append(values, chart.Value{
			Label: cp.Labels[i],
			Value: v,
			Style: chart.Style{
				FillColor:   color(c),
				StrokeColor: color(pal.Background),
				FontColor:   color(contrast(c, pal)),
			},
		})
	}
	if len(values) == 0 {
		return chart.PieChart{}, errNoPositiveValues
	}
	return chart.PieChart{
		Width:      w,
		Height:     h,
		Background: baseStyle(pal),
		Canvas:     baseStyle(pal),
		Values:     values,
	}, nil
}

// contrast picks the palette text or background color, whichever reads
// better on fill.
func contrast(fill theme.Color, pal theme.Palette) theme.Color {
	r, g, b := fill.RGB()
	if 299*r+587*g+114*b > 128000 {
		bg := pal.Background
		br, bgG, bb := bg.RGB()
		if 299*br+587*bgG+114*bb > 128000 {
			return pal.Text
		}
		return bg
	}
	tr, tg, tb := pal.Text.RGB()
	if 299*tr+587*tg+114*tb > 128000 {
		return pal.Text
	}
	return pal.Background
}

// chartFallback lists the series as "label: value" lines.
func chartFallback(cp *ChartPlan) []string {
	lines := make([]string, 0, len(cp.Values)+1)
	if cp.SeriesLabel != "" {
		lines = append(lines, cp.SeriesLabel)
	}
	for i, v := range cp.Values {
		lines = append(lines, fmt.Sprintf("%s: %s", cp.Labels[i], formatValue(v)))
	}
	return lines
}

func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
