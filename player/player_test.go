package player

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckstudio/deck"
)

func newDeck(n int) *deck.Deck {
	d := &deck.Deck{Style: deck.StyleFuturistic}
	for i := 0; i < n; i++ {
		d.Slides = append(d.Slides, deck.Slide{ID: string(rune('a' + i)), Type: deck.KindContent})
	}
	return d
}

func TestNew_RejectsEmptyDeck(t *testing.T) {
	_, err := New(&deck.Deck{})
	assert.ErrorIs(t, err, ErrEmptyDeck)
	_, err = New(nil)
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestNew_InitialState(t *testing.T) {
	p, err := New(newDeck(3))
	require.NoError(t, err)
	st := p.State()
	assert.Equal(t, SlideView, st.Mode)
	assert.Equal(t, 0, st.CurrentIndex)
	assert.Equal(t, 3, st.SlideCount)
	assert.Equal(t, deck.StyleFuturistic, st.ActiveStyle)
	assert.False(t, st.LaserOn)
}

func TestNextPrev_NoWraparound(t *testing.T) {
	p, err := New(newDeck(3))
	require.NoError(t, err)

	assert.False(t, p.Prev(), "Prev at 0 must be a no-op")
	assert.Equal(t, 0, p.State().CurrentIndex)

	assert.True(t, p.Next())
	assert.True(t, p.Next())
	assert.False(t, p.Next(), "Next at last must be a no-op")
	assert.Equal(t, 2, p.State().CurrentIndex)

	assert.True(t, p.Prev())
	assert.Equal(t, 1, p.State().CurrentIndex)
}

// Property: any sequence of Next/Prev keeps the index in range.
func TestProperty_IndexStaysInRange(t *testing.T) {
	f := func(size uint8, moves []bool) bool {
		n := int(size%10) + 1
		p, err := New(newDeck(n))
		if err != nil {
			return false
		}
		for _, forward := range moves {
			if forward {
				p.Next()
			} else {
				p.Prev()
			}
			if i := p.State().CurrentIndex; i < 0 || i > n-1 {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestGrid_SelectReturnsToSlideView(t *testing.T) {
	p, err := New(newDeck(5))
	require.NoError(t, err)

	assert.False(t, p.Select(3), "Select outside grid is ignored")
	assert.True(t, p.EnterGrid())
	assert.False(t, p.EnterGrid())
	assert.False(t, p.Select(7), "out of range selection is ignored")
	assert.Equal(t, GridView, p.State().Mode)

	assert.True(t, p.Select(3))
	st := p.State()
	assert.Equal(t, SlideView, st.Mode)
	assert.Equal(t, 3, st.CurrentIndex)
}

func TestClose_FromGridConsumesBackStep(t *testing.T) {
	p, err := New(newDeck(2))
	require.NoError(t, err)
	p.EnterGrid()

	assert.False(t, p.Close())
	assert.False(t, p.Closed())
	assert.Equal(t, SlideView, p.State().Mode)

	assert.True(t, p.Close())
	assert.True(t, p.Closed())
	assert.False(t, p.Next(), "closed player ignores navigation")
}

func TestHandleKey_Bindings(t *testing.T) {
	p, err := New(newDeck(3))
	require.NoError(t, err)

	assert.Equal(t, EffectRedraw, p.HandleKey(KeyArrowRight))
	assert.Equal(t, EffectRedraw, p.HandleKey(KeySpace))
	assert.Equal(t, EffectNone, p.HandleKey(KeyArrowRight))
	assert.Equal(t, 2, p.State().CurrentIndex)

	assert.Equal(t, EffectRedraw, p.HandleKey(KeyArrowLeft))
	assert.Equal(t, 1, p.State().CurrentIndex)

	before := p.State()
	assert.Equal(t, EffectToggleFullscreen, p.HandleKey("f"))
	assert.Equal(t, before, p.State(), "fullscreen does not touch deck state")

	assert.Equal(t, EffectRedraw, p.HandleKey("g"))
	assert.Equal(t, GridView, p.State().Mode)
	assert.Equal(t, EffectRedraw, p.HandleKey(KeyEscape), "escape leaves the grid first")
	assert.Equal(t, SlideView, p.State().Mode)
	assert.Equal(t, EffectClose, p.HandleKey(KeyEscape))
	assert.True(t, p.Closed())

	assert.Equal(t, EffectNone, p.HandleKey("x"))
}

func TestActiveStyle_DoesNotPersist(t *testing.T) {
	d := newDeck(1)
	p, err := New(d)
	require.NoError(t, err)

	p.SetActiveStyle(deck.StyleCyberpunk)
	assert.Equal(t, deck.StyleCyberpunk, p.ActiveStyle())
	assert.Equal(t, deck.StyleFuturistic, d.Style)
	assert.Equal(t, deck.StyleCyberpunk, p.View().Style)

	p.SetActiveStyle("Bogus")
	assert.Equal(t, deck.DefaultStyle, p.ActiveStyle())
}

func TestLaserPointer(t *testing.T) {
	p, err := New(newDeck(2))
	require.NoError(t, err)

	assert.False(t, p.MovePointer(0.5, 0.5), "pointer ignored while laser is off")
	p.SetLaser(true)
	assert.True(t, p.MovePointer(0.25, 1.5))
	st := p.State()
	assert.True(t, st.LaserOn)
	assert.Equal(t, 0.25, st.PointerX)
	assert.Equal(t, 1.0, st.PointerY)
	assert.Equal(t, 0, st.CurrentIndex)

	assert.Equal(t, EffectRedraw, p.HandleKey("l"))
	assert.False(t, p.State().LaserOn)
}

func TestView_RendersCurrentSlide(t *testing.T) {
	p, err := New(newDeck(2))
	require.NoError(t, err)
	p.Next()
	assert.Equal(t, "b", p.View().SlideID)
	assert.Equal(t, "b", p.CurrentSlide().ID)
}

func TestEffectString(t *testing.T) {
	assert.Equal(t, "close", EffectClose.String())
	assert.Equal(t, "fullscreen", EffectToggleFullscreen.String())
	assert.Equal(t, "none", Effect(42).String())
}
