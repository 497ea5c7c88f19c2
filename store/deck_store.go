package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"deckstudio/deck"
)

const (
	HistoryKey   = "deckstudio.history"
	CommunityKey = "deckstudio.community"

	// HistoryLimit caps the history list; older entries are dropped.
	HistoryLimit = 20
)

// ErrNotFound is returned when an id matches no stored deck.
var ErrNotFound = errors.New("store: deck not found")

// DeckStore manages the history and community collections. Every mutation
// reads, modifies and rewrites the whole collection blob; across processes
// the last write wins.
type DeckStore struct {
	kv    KV
	log   *zap.Logger
	now   func() time.Time
	newID func() string
	mu    sync.Mutex
}

// Option configures a DeckStore.
type Option func(*DeckStore)

// WithLogger sets the logger used to report recovered corruption.
func WithLogger(l *zap.Logger) Option {
	return func(s *DeckStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *DeckStore) { s.now = now }
}

// WithIDGenerator overrides the id generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *DeckStore) { s.newID = gen }
}

// New returns a DeckStore over kv.
func New(kv KV, opts ...Option) *DeckStore {
	s := &DeckStore{
		kv:    kv,
		log:   zap.NewNop(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SaveHistory prepends a copy of d with a fresh id and returns that copy.
func (s *DeckStore) SaveHistory(ctx context.Context, d *deck.Deck) (*deck.Deck, error) {
	if d == nil {
		return nil, errors.New("store: nil deck")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadHistory(ctx)
	if err != nil {
		return nil, err
	}
	entry := d.Clone()
	entry.ID = s.newID()
	entry.CreatedAt = s.now().UTC().Format(time.RFC3339)

	list = append([]*deck.Deck{entry}, list...)
	if len(list) > HistoryLimit {
		list = list[:HistoryLimit]
	}
	if err := s.save(ctx, HistoryKey, list); err != nil {
		return nil, err
	}
	return entry.Clone(), nil
}

// ListHistory returns saved decks, most recent first.
func (s *DeckStore) ListHistory(ctx context.Context) ([]*deck.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadHistory(ctx)
}

// DeleteHistory removes the history entry with the given id.
func (s *DeckStore) DeleteHistory(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadHistory(ctx)
	if err != nil {
		return err
	}
	kept := list[:0]
	for _, d := range list {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	if len(kept) == len(list) {
		return ErrNotFound
	}
	return s.save(ctx, HistoryKey, kept)
}

// DeleteHistoryByTitle removes every history entry titled title and returns
// how many were removed.
func (s *DeckStore) DeleteHistoryByTitle(ctx context.Context, title string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.loadHistory(ctx)
	if err != nil {
		return 0, err
	}
	kept := make([]*deck.Deck, 0, len(list))
	for _, d := range list {
		if d.Title != title {
			kept = append(kept, d)
		}
	}
	removed := len(list) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(ctx, HistoryKey, kept)
}

// ListShared returns the community decks, seeding the examples on first
// access or when the stored blob is unreadable.
func (s *DeckStore) ListShared(ctx context.Context) ([]*deck.SharedDeck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, seeded, err := s.loadShared(ctx)
	if err != nil {
		return nil, err
	}
	if seeded {
		if err := s.save(ctx, CommunityKey, list); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Publish shares a copy of d under a fresh id with zeroed counters.
func (s *DeckStore) Publish(ctx context.Context, d *deck.Deck, author string) (*deck.SharedDeck, error) {
	if d == nil {
		return nil, errors.New("store: nil deck")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _, err := s.loadShared(ctx)
	if err != nil {
		return nil, err
	}
	sd := &deck.SharedDeck{
		Deck:       *d.Clone(),
		SharedBy:   author,
		DateShared: s.now().UTC().Format(time.RFC3339),
	}
	sd.ID = s.newID()

	list = append([]*deck.SharedDeck{sd}, list...)
	if err := s.save(ctx, CommunityKey, list); err != nil {
		return nil, err
	}
	return sd.Clone(), nil
}

// Like increments the like counter of the deck with the given id.
func (s *DeckStore) Like(ctx context.Context, id string) (*deck.SharedDeck, error) {
	return s.updateShared(ctx, id, func(sd *deck.SharedDeck) { sd.Likes++ })
}

// IncrementDownload increments the download counter of the deck with the given id.
func (s *DeckStore) IncrementDownload(ctx context.Context, id string) (*deck.SharedDeck, error) {
	return s.updateShared(ctx, id, func(sd *deck.SharedDeck) { sd.Downloads++ })
}

// DeleteShared removes the community deck with the given id.
func (s *DeckStore) DeleteShared(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _, err := s.loadShared(ctx)
	if err != nil {
		return err
	}
	kept := make([]*deck.SharedDeck, 0, len(list))
	for _, sd := range list {
		if sd.ID != id {
			kept = append(kept, sd)
		}
	}
	if len(kept) == len(list) {
		return ErrNotFound
	}
	return s.save(ctx, CommunityKey, kept)
}

func (s *DeckStore) updateShared(ctx context.Context, id string, fn func(*deck.SharedDeck)) (*deck.SharedDeck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, _, err := s.loadShared(ctx)
	if err != nil {
		return nil, err
	}
	for _, sd := range list {
		if sd.ID == id {
			fn(sd)
			if err := s.save(ctx, CommunityKey, list); err != nil {
				return nil, err
			}
			return sd.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

// loadHistory decodes the history blob. A corrupt blob is logged and
// replaced by an empty list.
func (s *DeckStore) loadHistory(ctx context.Context) ([]*deck.Deck, error) {
	raw, ok, err := s.kv.Get(ctx, HistoryKey)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if !ok || raw == "" {
		return []*deck.Deck{}, nil
	}
	var list []*deck.Deck
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		s.log.Warn("history blob is corrupt, starting empty", zap.Error(err), zap.Int("size", len(raw)))
		return []*deck.Deck{}, nil
	}
	return compact(list), nil
}

// loadShared decodes the community blob. It reports seeded=true when the
// result is the example set because the blob was absent or unreadable. A
// stored empty list stays empty.
func (s *DeckStore) loadShared(ctx context.Context) ([]*deck.SharedDeck, bool, error) {
	raw, ok, err := s.kv.Get(ctx, CommunityKey)
	if err != nil {
		return nil, false, fmt.Errorf("load community: %w", err)
	}
	if ok && raw != "" {
		var list []*deck.SharedDeck
		switch err := json.Unmarshal([]byte(raw), &list); {
		case err != nil:
			s.log.Warn("community blob is corrupt, reseeding", zap.Error(err), zap.Int("size", len(raw)))
		case list == nil:
			s.log.Warn("community blob is null, reseeding")
		default:
			return compact(list), false, nil
		}
	}
	return seedDecks(s.now()), true, nil
}

func (s *DeckStore) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.kv.Set(ctx, key, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// compact drops null entries left by hand-edited blobs.
func compact[T any](list []*T) []*T {
	out := list[:0]
	for _, v := range list {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}
