package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"deckstudio/agent"
	"deckstudio/config"
	"deckstudio/deck"
	"deckstudio/sourcedoc"
)

// GeneratorFactory builds the generator for a configuration. It returns a
// nil Generator when the configuration names no usable model.
type GeneratorFactory func(ctx context.Context, cfg config.Config) (agent.Generator, error)

// GenerationFacadeService turns UI requests into deck generations against
// the configured model and holds the source document picked for them.
type GenerationFacadeService struct {
	cfgProvider ConfigProvider
	factory     GeneratorFactory
	svc         *agent.GenerationService
	logger      func(string)
	zl          *zap.Logger

	mu         sync.RWMutex
	cfg        config.Config
	source     string
	sourceName string
}

// NewGenerationFacadeService creates the facade. factory may be nil to use
// the provider selected in the configuration.
func NewGenerationFacadeService(cfgProvider ConfigProvider, factory GeneratorFactory, logger func(string), zl *zap.Logger) *GenerationFacadeService {
	if zl == nil {
		zl = zap.NewNop()
	}
	g := &GenerationFacadeService{
		cfgProvider: cfgProvider,
		factory:     factory,
		svc:         agent.NewGenerationService(nil),
		logger:      logger,
		zl:          zl,
	}
	if g.factory == nil {
		g.factory = g.modelGenerator
	}
	return g
}

func (g *GenerationFacadeService) Name() string {
	return "generation"
}

// Initialize builds the generator for the current settings. A missing or
// broken model only leaves generation unavailable.
func (g *GenerationFacadeService) Initialize(ctx context.Context) error {
	cfg, err := g.cfgProvider.GetConfig()
	if err != nil {
		return WrapError("generation", "Initialize", err)
	}
	return g.ApplyConfig(cfg)
}

func (g *GenerationFacadeService) Shutdown() error {
	g.svc.Cancel()
	return nil
}

// ApplyConfig swaps in a generator for cfg.
func (g *GenerationFacadeService) ApplyConfig(cfg config.Config) error {
	g.mu.Lock()
	g.cfg = cfg
	g.mu.Unlock()

	gen, err := g.factory(context.Background(), cfg)
	if err != nil {
		g.svc.SetGenerator(nil)
		return WrapError("generation", "ApplyConfig", err)
	}
	g.svc.SetGenerator(gen)
	if gen == nil {
		g.log("No model configured; generation disabled")
	} else {
		g.log(fmt.Sprintf("Generator ready: %s %s", cfg.LLMProvider, cfg.ModelName))
	}
	return nil
}

func (g *GenerationFacadeService) modelGenerator(ctx context.Context, cfg config.Config) (agent.Generator, error) {
	if !cfg.HasModel() {
		return nil, nil
	}
	m, err := agent.NewChatModel(ctx, cfg, g.logger)
	if err != nil {
		return nil, err
	}
	return agent.NewDeckGenerator(m,
		agent.WithTimeout(time.Duration(cfg.Generation.TimeoutSeconds)*time.Second),
		agent.WithFileContextLimit(cfg.Generation.FileContextLimit),
		agent.WithLogger(g.zl.Named("generator")),
	), nil
}

// Generate runs one request, superseding any in flight. Empty style and
// slide count fall back to the configured defaults, and the loaded source
// document is used when the request carries no context of its own. apply
// sees the deck only if the request is still current.
func (g *GenerationFacadeService) Generate(ctx context.Context, req agent.GenerateRequest, apply func(*deck.Deck)) (*deck.Deck, error) {
	g.mu.RLock()
	cfg, source := g.cfg, g.source
	g.mu.RUnlock()

	if req.Style == "" {
		req.Style = deck.Style(cfg.Generation.DefaultStyle)
	}
	if req.SlideCount <= 0 {
		req.SlideCount = cfg.Generation.DefaultSlideCount
	}
	if req.FileContext == "" {
		req.FileContext = source
	}

	d, err := g.svc.Run(ctx, req, func(d *deck.Deck) {
		if d.Author == "" {
			d.Author = cfg.AuthorName
		}
		if apply != nil {
			apply(d)
		}
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Cancel abandons the request in flight.
func (g *GenerationFacadeService) Cancel() {
	g.svc.Cancel()
}

// LoadSource extracts path as the context for later generations and returns
// the number of characters read.
func (g *GenerationFacadeService) LoadSource(path string) (int, error) {
	text, err := sourcedoc.Extract(path)
	if err != nil {
		return 0, WrapError("generation", "LoadSource", err)
	}
	g.mu.Lock()
	g.source = text
	g.sourceName = filepath.Base(path)
	g.mu.Unlock()

	n := len([]rune(text))
	g.log(fmt.Sprintf("Loaded %d characters from %s", n, filepath.Base(path)))
	return n, nil
}

// ClearSource forgets the loaded source document.
func (g *GenerationFacadeService) ClearSource() {
	g.mu.Lock()
	g.source, g.sourceName = "", ""
	g.mu.Unlock()
}

// SourceName returns the base name of the loaded source document.
func (g *GenerationFacadeService) SourceName() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sourceName
}

func (g *GenerationFacadeService) log(msg string) {
	if g.logger != nil {
		g.logger(msg)
	}
}
