// Package player holds the presentation state machine. It knows nothing about
// the UI framework: the application forwards raw key names to HandleKey and
// acts on the returned Effect.
package player

import (
	"errors"
	"sync"

	"deckstudio/deck"
	"deckstudio/render"
)

// ErrEmptyDeck is returned when a deck without slides is opened.
var ErrEmptyDeck = errors.New("player: deck has no slides")

// Mode is the player's view state.
type Mode string

const (
	SlideView Mode = "slide"
	GridView  Mode = "grid"
)

// Effect is a side effect the host must perform after a key press.
type Effect int

const (
	EffectNone Effect = iota
	// EffectRedraw means player state changed and the view must be refreshed.
	EffectRedraw
	EffectToggleFullscreen
	// EffectClose means the player was closed.
	EffectClose
)

func (e Effect) String() string {
	switch e {
	case EffectRedraw:
		return "redraw"
	case EffectToggleFullscreen:
		return "fullscreen"
	case EffectClose:
		return "close"
	default:
		return "none"
	}
}

// State is a snapshot of the player for the UI.
type State struct {
	Mode         Mode       `json:"view"`
	CurrentIndex int        `json:"currentIndex"`
	SlideCount   int        `json:"slideCount"`
	ActiveStyle  deck.Style `json:"activeStyle"`
	DeckStyle    deck.Style `json:"deckStyle"`
	LaserOn      bool       `json:"laserOn"`
	PointerX     float64    `json:"pointerX"`
	PointerY     float64    `json:"pointerY"`
	Closed       bool       `json:"closed"`
}

// Player sequences the slides of one deck. It is safe for concurrent use.
type Player struct {
	mu          sync.Mutex
	deck        *deck.Deck
	mode        Mode
	index       int
	activeStyle deck.Style
	laserOn     bool
	pointerX    float64
	pointerY    float64
	closed      bool
}

// New opens d in slide view at the first slide. The player owns d for the
// session; callers that keep d should pass a clone.
func New(d *deck.Deck) (*Player, error) {
	if !d.Renderable() {
		return nil, ErrEmptyDeck
	}
	return &Player{
		deck:        d,
		mode:        SlideView,
		activeStyle: d.Style.OrDefault(),
	}, nil
}

// Deck returns the deck being presented.
func (p *Player) Deck() *deck.Deck {
	return p.deck
}

// State returns a snapshot of the player.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		Mode:         p.mode,
		CurrentIndex: p.index,
		SlideCount:   len(p.deck.Slides),
		ActiveStyle:  p.activeStyle,
		DeckStyle:    p.deck.Style,
		LaserOn:      p.laserOn,
		PointerX:     p.pointerX,
		PointerY:     p.pointerY,
		Closed:       p.closed,
	}
}

// Next advances one slide. It is a no-op on the last slide.
func (p *Player) Next() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.index >= len(p.deck.Slides)-1 {
		return false
	}
	p.index++
	return true
}

// Prev goes back one slide. It is a no-op on the first slide.
func (p *Player) Prev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.index <= 0 {
		return false
	}
	p.index--
	return true
}

// EnterGrid switches to the thumbnail overview.
func (p *Player) EnterGrid() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.mode == GridView {
		return false
	}
	p.mode = GridView
	return true
}

// ExitGrid returns to slide view without changing the current slide.
func (p *Player) ExitGrid() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GridView {
		return false
	}
	p.mode = SlideView
	return true
}

// Select picks slide i from the grid and returns to slide view. It is ignored
// outside grid view or when i is out of range.
func (p *Player) Select(i int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.mode != GridView || i < 0 || i >= len(p.deck.Slides) {
		return false
	}
	p.index = i
	p.mode = SlideView
	return true
}

// Close ends the session. From grid view the call only leaves the grid and
// reports false; a second Close is needed.
func (p *Player) Close() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == GridView {
		p.mode = SlideView
		return false
	}
	p.closed = true
	return true
}

// Closed reports whether Close has completed.
func (p *Player) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// SetActiveStyle previews the deck in another style. The deck's own style
// is left untouched.
func (p *Player) SetActiveStyle(s deck.Style) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.activeStyle = s.OrDefault()
}

// ActiveStyle returns the style used for rendering.
func (p *Player) ActiveStyle() deck.Style {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.activeStyle
}

// SetLaser turns the laser pointer overlay on or off.
func (p *Player) SetLaser(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.laserOn = on
}

// MovePointer records the pointer position as fractions of the stage size.
// Positions are only tracked while the laser is on.
func (p *Player) MovePointer(x, y float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.laserOn {
		return false
	}
	p.pointerX, p.pointerY = clamp01(x), clamp01(y)
	return true
}

// CurrentSlide returns the slide at the current index.
func (p *Player) CurrentSlide() deck.Slide {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.deck.Slides[p.index]
}

// View renders the current slide in the active style.
func (p *Player) View() render.View {
	p.mu.Lock()
	s, st := p.deck.Slides[p.index], p.activeStyle
	p.mu.Unlock()
	return render.Render(s, st)
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
