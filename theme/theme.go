// Package theme maps deck styles to the fixed color palettes used by both the
// interactive renderer and the file exporters.
package theme

import (
	"fmt"
	"strconv"

	"deckstudio/deck"
)

// Color is a six digit RGB hex value without the leading '#'.
type Color string

// CSS returns the color as a CSS hex literal.
func (c Color) CSS() string { return "#" + string(c) }

// ARGB returns the opaque ARGB form used by the PPTX writer.
func (c Color) ARGB() string { return "FF" + string(c) }

// RGB splits the color into components.
func (c Color) RGB() (r, g, b int) {
	v, err := strconv.ParseUint(string(c), 16, 32)
	if err != nil || len(c) != 6 {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}

// Palette holds the theme attributes of one style.
type Palette struct {
	Style      deck.Style
	Background Color
	Text       Color
	Accent     Color
	Subtext    Color
	// Surface is used for cards and placeholder blocks.
	Surface Color
	// Backdrop is the CSS background treatment for the interactive view.
	Backdrop   string
	FontFamily string
}

var palettes = map[deck.Style]Palette{
	deck.StyleCyberpunk: {
		Background: "0D0221", Text: "F0F0F0", Accent: "FF2A6D", Subtext: "05D9E8", Surface: "1A0B3B",
		Backdrop:   "linear-gradient(135deg, #0D0221 0%, #261447 100%)",
		FontFamily: "'Orbitron', 'Segoe UI', sans-serif",
	},
	deck.StyleCorporate: {
		Background: "FFFFFF", Text: "1E293B", Accent: "2563EB", Subtext: "64748B", Surface: "F1F5F9",
		Backdrop:   "#FFFFFF",
		FontFamily: "'Inter', 'Segoe UI', sans-serif",
	},
	deck.StyleMinimalist: {
		Background: "FAFAFA", Text: "111111", Accent: "111111", Subtext: "777777", Surface: "EEEEEE",
		Backdrop:   "#FAFAFA",
		FontFamily: "'Helvetica Neue', Arial, sans-serif",
	},
	deck.StyleNature: {
		Background: "F3F7F0", Text: "1F3A2B", Accent: "3A7D44", Subtext: "7A8F6B", Surface: "DDE8D5",
		Backdrop:   "linear-gradient(160deg, #F3F7F0 0%, #DDE8D5 100%)",
		FontFamily: "'Merriweather', Georgia, serif",
	},
	deck.StyleFuturistic: {
		Background: "0B1120", Text: "E2E8F0", Accent: "22D3EE", Subtext: "94A3B8", Surface: "1E293B",
		Backdrop:   "radial-gradient(circle at 30% 20%, #1E293B 0%, #0B1120 70%)",
		FontFamily: "'Space Grotesk', 'Segoe UI', sans-serif",
	},
}

func init() {
	for st, p := range palettes {
		p.Style = st
		palettes[st] = p
	}
	for _, st := range deck.Styles {
		if _, ok := palettes[st]; !ok {
			panic(fmt.Sprintf("theme: no palette for style %q", st))
		}
	}
}

// For returns the palette of s; unknown styles get the default style's palette.
func For(s deck.Style) Palette {
	if p, ok := palettes[s]; ok {
		return p
	}
	return palettes[deck.DefaultStyle]
}
