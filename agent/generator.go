// Package agent turns a topic into a validated deck with one call to a chat
// model.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"deckstudio/deck"
)

const (
	DefaultTimeout          = 120 * time.Second
	DefaultFileContextLimit = 20000
	DefaultSlideCount       = 6
	MaxSlideCount           = 20
)

// GenerateRequest is one deck generation request.
type GenerateRequest struct {
	Topic       string     `json:"topic"`
	Style       deck.Style `json:"style"`
	FileContext string     `json:"fileContext,omitempty"`
	SlideCount  int        `json:"slideCount"`
}

// normalized clamps the slide count and resolves the style.
func (r GenerateRequest) normalized() GenerateRequest {
	r.Topic = strings.TrimSpace(r.Topic)
	if s, ok := deck.ParseStyle(string(r.Style)); ok {
		r.Style = s
	} else {
		r.Style = deck.DefaultStyle
	}
	switch {
	case r.SlideCount <= 0:
		r.SlideCount = DefaultSlideCount
	case r.SlideCount > MaxSlideCount:
		r.SlideCount = MaxSlideCount
	}
	return r
}

// DeckGenerator issues generation requests against one chat model.
type DeckGenerator struct {
	model            model.BaseChatModel
	timeout          time.Duration
	fileContextLimit int
	log              *zap.Logger
}

// GeneratorOption configures a DeckGenerator.
type GeneratorOption func(*DeckGenerator)

// WithTimeout sets the hard deadline for one request.
func WithTimeout(d time.Duration) GeneratorOption {
	return func(g *DeckGenerator) {
		if d > 0 {
			g.timeout = d
		}
	}
}

// WithFileContextLimit sets how many runes of file context reach the prompt.
func WithFileContextLimit(n int) GeneratorOption {
	return func(g *DeckGenerator) {
		if n > 0 {
			g.fileContextLimit = n
		}
	}
}

// WithLogger sets the generator's logger.
func WithLogger(l *zap.Logger) GeneratorOption {
	return func(g *DeckGenerator) {
		if l != nil {
			g.log = l
		}
	}
}

// NewDeckGenerator returns a generator over m.
func NewDeckGenerator(m model.BaseChatModel, opts ...GeneratorOption) *DeckGenerator {
	g := &DeckGenerator{
		model:            m,
		timeout:          DefaultTimeout,
		fileContextLimit: DefaultFileContextLimit,
		log:              zap.NewNop(),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Timeout returns the configured deadline.
func (g *DeckGenerator) Timeout() time.Duration {
	return g.timeout
}

type generateResult struct {
	deck *deck.Deck
	err  error
}

// Generate asks the model for a deck and validates the reply. It fails with
// a *TimeoutError once the deadline passes; the abandoned call is cancelled
// and whatever it returns later is dropped.
func (g *DeckGenerator) Generate(ctx context.Context, req GenerateRequest) (*deck.Deck, error) {
	if g.model == nil {
		return nil, ErrNoModel
	}
	req = req.normalized()
	if req.Topic == "" {
		return nil, errors.New("topic is empty")
	}

	callCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	msgs := buildMessages(req, g.fileContextLimit)
	start := time.Now()
	g.log.Info("generation started",
		zap.String("topic", req.Topic),
		zap.String("style", string(req.Style)),
		zap.Int("slides", req.SlideCount),
		zap.Int("contextRunes", len([]rune(req.FileContext))),
	)

	done := make(chan generateResult, 1)
	go func() {
		d, err := g.invoke(callCtx, msgs)
		done <- generateResult{deck: d, err: err}
	}()

	timer := time.NewTimer(g.timeout)
	defer timer.Stop()

	select {
	case r := <-done:
		if r.err != nil {
			g.log.Warn("generation failed", zap.Error(r.err), zap.Duration("elapsed", time.Since(start)))
			return nil, r.err
		}
		stamp(r.deck, req)
		g.log.Info("generation finished", zap.Int("slides", len(r.deck.Slides)), zap.Duration("elapsed", time.Since(start)))
		return r.deck, nil
	case <-timer.C:
		g.log.Warn("generation timed out", zap.Duration("timeout", g.timeout))
		return nil, &TimeoutError{After: g.timeout}
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// invoke runs the chain chat model -> reply parser once.
func (g *DeckGenerator) invoke(ctx context.Context, msgs []*schema.Message) (*deck.Deck, error) {
	var parseErr error
	chain := compose.NewChain[[]*schema.Message, *deck.Deck]()
	chain.AppendChatModel(g.model)
	chain.AppendLambda(compose.InvokableLambda(func(ctx context.Context, reply *schema.Message) (*deck.Deck, error) {
		if reply == nil {
			parseErr = &GenerationError{Stage: StageParse, Err: errors.New("empty reply")}
			return nil, parseErr
		}
		d, err := parseReply(reply.Content)
		if err != nil {
			parseErr = err
		}
		return d, err
	}))

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile generation chain: %w", err)
	}

	d, err := runnable.Invoke(ctx, msgs)
	if parseErr != nil {
		return nil, parseErr
	}
	if err != nil {
		return nil, &GenerationError{Stage: StageModel, Err: err}
	}
	return d, nil
}

// stamp applies the request's topic and style to the generated deck.
func stamp(d *deck.Deck, req GenerateRequest) {
	d.Topic = req.Topic
	d.Style = req.Style
	if strings.TrimSpace(d.Title) == "" {
		d.Title = req.Topic
	}
}
