package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"deckstudio/config"
	"deckstudio/deck"
	"deckstudio/store"
)

var errStoreNotReady = errors.New("deck store is not initialized")

// StoreFacadeService keeps the history and community collections on the
// backend named in the settings and reopens it when the settings change.
type StoreFacadeService struct {
	cfgProvider ConfigProvider
	logger      func(string)
	zl          *zap.Logger

	mu      sync.RWMutex
	decks   *store.DeckStore
	closer  io.Closer
	opened  store.OpenConfig
	options []store.Option
}

// NewStoreFacadeService creates the facade. opts are passed to every
// DeckStore it opens.
func NewStoreFacadeService(cfgProvider ConfigProvider, logger func(string), zl *zap.Logger, opts ...store.Option) *StoreFacadeService {
	if zl == nil {
		zl = zap.NewNop()
	}
	return &StoreFacadeService{
		cfgProvider: cfgProvider,
		logger:      logger,
		zl:          zl,
		options:     opts,
	}
}

func (s *StoreFacadeService) Name() string {
	return "store"
}

func (s *StoreFacadeService) Initialize(ctx context.Context) error {
	cfg, err := s.cfgProvider.GetConfig()
	if err != nil {
		return WrapError("store", "Initialize", err)
	}
	if err := s.open(ctx, openConfigFor(cfg)); err != nil {
		return WrapError("store", "Initialize", err)
	}
	return nil
}

// ApplyConfig reopens the store when the backend settings changed. The old
// backend stays in use if the new one cannot be opened.
func (s *StoreFacadeService) ApplyConfig(cfg config.Config) error {
	oc := openConfigFor(cfg)
	s.mu.RLock()
	same := s.decks != nil && s.opened == oc
	s.mu.RUnlock()
	if same {
		return nil
	}
	return s.open(context.Background(), oc)
}

func openConfigFor(cfg config.Config) store.OpenConfig {
	return store.OpenConfig{
		Backend: cfg.Store.Engine,
		DataDir: cfg.DataDir,
		DSN:     cfg.Store.DSN,
	}
}

func (s *StoreFacadeService) open(ctx context.Context, oc store.OpenConfig) error {
	kv, closer, err := store.Open(ctx, oc, s.zl.Named("kv"))
	if err != nil {
		return err
	}
	opts := append([]store.Option{store.WithLogger(s.zl.Named("store"))}, s.options...)
	decks := store.New(kv, opts...)

	s.mu.Lock()
	old := s.closer
	s.decks, s.closer, s.opened = decks, closer, oc
	s.mu.Unlock()

	if old != nil {
		if err := old.Close(); err != nil {
			s.log(fmt.Sprintf("Failed to close previous store: %v", err))
		}
	}
	s.log(fmt.Sprintf("Deck store opened (%s)", oc.Backend))
	return nil
}

func (s *StoreFacadeService) Shutdown() error {
	s.mu.Lock()
	closer := s.closer
	s.decks, s.closer = nil, nil
	s.mu.Unlock()
	if closer != nil {
		return closer.Close()
	}
	return nil
}

func (s *StoreFacadeService) deckStore() (*store.DeckStore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.decks == nil {
		return nil, errStoreNotReady
	}
	return s.decks, nil
}

// SaveHistory records a generated deck and returns the stored copy.
func (s *StoreFacadeService) SaveHistory(ctx context.Context, d *deck.Deck) (*deck.Deck, error) {
	ds, err := s.deckStore()
	if err != nil {
		return nil, err
	}
	saved, err := ds.SaveHistory(ctx, d)
	return saved, WrapError("store", "SaveHistory", err)
}

func (s *StoreFacadeService) ListHistory(ctx context.Context) ([]*deck.Deck, error) {
	ds, err := s.deckStore()
	if err != nil {
		return nil, err
	}
	list, err := ds.ListHistory(ctx)
	return list, WrapError("store", "ListHistory", err)
}

func (s *StoreFacadeService) DeleteHistory(ctx context.Context, id string) error {
	ds, err := s.deckStore()
	if err != nil {
		return err
	}
	return WrapError("store", "DeleteHistory", ds.DeleteHistory(ctx, id))
}

// DeleteHistoryByTitle removes every history entry titled title.
func (s *StoreFacadeService) DeleteHistoryByTitle(ctx context.Context, title string) (int, error) {
	ds, err := s.deckStore()
	if err != nil {
		return 0, err
	}
	n, err := ds.DeleteHistoryByTitle(ctx, title)
	return n, WrapError("store", "DeleteHistoryByTitle", err)
}

func (s *StoreFacadeService) ListShared(ctx context.Context) ([]*deck.SharedDeck, error) {
	ds, err := s.deckStore()
	if err != nil {
		return nil, err
	}
	list, err := ds.ListShared(ctx)
	return list, WrapError("store", "ListShared", err)
}

func (s *StoreFacadeService) Publish(ctx context.Context, d *deck.Deck, author string) (*deck.SharedDeck, error) {
	ds, err := s.deckStore()
	if err != nil {
		return nil, err
	}
	shared, err := ds.Publish(ctx, d, author)
	return shared, WrapError("store", "Publish", err)
}

func (s *StoreFacadeService) Like(ctx context.Context, id string) (*deck.SharedDeck, error) {
	ds, err := s.deckStore()
	if err != nil {
		return nil, err
	}
	shared, err := ds.Like(ctx, id)
	return shared, WrapError("store", "Like", err)
}

// Download counts a download of a community deck and returns it.
func (s *StoreFacadeService) Download(ctx context.Context, id string) (*deck.SharedDeck, error) {
	ds, err := s.deckStore()
	if err != nil {
		return nil, err
	}
	shared, err := ds.IncrementDownload(ctx, id)
	return shared, WrapError("store", "Download", err)
}

func (s *StoreFacadeService) DeleteShared(ctx context.Context, id string) error {
	ds, err := s.deckStore()
	if err != nil {
		return err
	}
	return WrapError("store", "DeleteShared", ds.DeleteShared(ctx, id))
}

func (s *StoreFacadeService) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}
