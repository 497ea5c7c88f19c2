package agent

import (
	"context"
	"sync"

	"deckstudio/deck"
)

// Ticket identifies one generation request.
type Ticket uint64

// RequestTracker implements last-request-wins: only the most recent ticket
// is current, and Cancel makes every issued ticket stale.
type RequestTracker struct {
	mu      sync.Mutex
	current Ticket
	next    Ticket
}

// Begin issues a new current ticket; all earlier tickets become stale.
func (t *RequestTracker) Begin() Ticket {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.next++
	t.current = t.next
	return t.current
}

// Cancel makes the current ticket stale.
func (t *RequestTracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = 0
}

// IsCurrent reports whether tk is still the live request.
func (t *RequestTracker) IsCurrent(tk Ticket) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return tk != 0 && tk == t.current
}

// Generator is the single-call contract DeckGenerator satisfies.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*deck.Deck, error)
}

// GenerationService runs generations so that a superseded or cancelled
// request never yields a result.
type GenerationService struct {
	gen     Generator
	tracker RequestTracker

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewGenerationService wraps gen.
func NewGenerationService(gen Generator) *GenerationService {
	return &GenerationService{gen: gen}
}

// SetGenerator swaps the generator used by later calls to Run.
func (s *GenerationService) SetGenerator(gen Generator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen = gen
}

// Run starts a request, superseding any in flight. apply is called with the
// deck only while the request is still current, under the service lock, so
// a later Cancel or Run cannot interleave with it. Stale requests return
// ErrGenerationCancelled.
func (s *GenerationService) Run(ctx context.Context, req GenerateRequest, apply func(*deck.Deck)) (*deck.Deck, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	gen := s.gen
	ticket := s.tracker.Begin()
	s.mu.Unlock()

	if gen == nil {
		return nil, ErrNoModel
	}

	d, err := gen.Generate(runCtx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.tracker.IsCurrent(ticket) {
		return nil, ErrGenerationCancelled
	}
	s.cancel = nil
	s.tracker.Cancel()
	if err != nil {
		return nil, err
	}
	if apply != nil {
		apply(d)
	}
	return d, nil
}

// Cancel abandons the request in flight, if any.
func (s *GenerationService) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tracker.Cancel()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
