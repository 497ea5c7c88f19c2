package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"deckstudio/deck"
)

func TestFor_EveryStyleHasDistinctPalette(t *testing.T) {
	seen := map[Color]deck.Style{}
	for _, st := range deck.Styles {
		p := For(st)
		assert.Equal(t, st, p.Style)
		assert.Len(t, string(p.Background), 6, "background of %s", st)
		assert.Len(t, string(p.Text), 6, "text of %s", st)
		assert.Len(t, string(p.Accent), 6, "accent of %s", st)
		assert.Len(t, string(p.Subtext), 6, "subtext of %s", st)
		assert.NotEmpty(t, p.Backdrop)
		if other, dup := seen[p.Background+p.Accent]; dup {
			t.Errorf("%s and %s share a palette", st, other)
		}
		seen[p.Background+p.Accent] = st
	}
}

func TestFor_UnknownFallsBackToDefault(t *testing.T) {
	assert.Equal(t, For(deck.DefaultStyle), For("Steampunk"))
	assert.Equal(t, For(deck.DefaultStyle), For(""))
}

func TestColorConversions(t *testing.T) {
	c := Color("2563EB")
	assert.Equal(t, "#2563EB", c.CSS())
	assert.Equal(t, "FF2563EB", c.ARGB())
	r, g, b := c.RGB()
	assert.Equal(t, []int{0x25, 0x63, 0xEB}, []int{r, g, b})

	r, g, b = Color("zz").RGB()
	assert.Equal(t, []int{0, 0, 0}, []int{r, g, b})
}
