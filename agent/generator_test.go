package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"testing/quick"
	"time"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"deckstudio/deck"
)

// fakeModel answers with a fixed reply, optionally after a delay.
type fakeModel struct {
	reply string
	err   error
	delay time.Duration
	// ignoreCtx keeps waiting for the delay even after cancellation.
	ignoreCtx bool

	mu        sync.Mutex
	calls     int
	lastInput []*schema.Message
	cancelled chan struct{}
	finished  chan struct{}
}

func (f *fakeModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	f.calls++
	f.lastInput = input
	f.mu.Unlock()
	defer func() {
		if f.finished != nil {
			close(f.finished)
		}
	}()

	if f.delay > 0 {
		timer := time.NewTimer(f.delay)
		defer timer.Stop()
		if f.ignoreCtx {
			<-timer.C
		} else {
			select {
			case <-timer.C:
			case <-ctx.Done():
				if f.cancelled != nil {
					close(f.cancelled)
				}
				return nil, ctx.Err()
			}
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeModel) Stream(context.Context, []*schema.Message, ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

const futureOfAI = `{
  "title": "Future of AI",
  "slides": [
    {"id": "s1", "type": "title", "title": "Future of AI", "subtitle": "2030 and beyond"},
    {"id": "s2", "type": "content", "title": "Drivers", "bulletPoints": ["Compute", "Data", "Algorithms"]},
    {"id": "s3", "type": "chart", "title": "Investment", "chartData": {"type": "bar", "labels": ["2022", "2023"], "datasets": [{"label": "USD bn", "data": [90, 120]}]}},
    {"id": "s4", "type": "table", "title": "Leaders", "tableData": {"headers": ["Lab", "Focus"], "rows": [["A", "LLMs"], ["B", "Robotics"]]}}
  ]
}`

func TestGenerate_ValidReply(t *testing.T) {
	fm := &fakeModel{reply: "```json\n" + futureOfAI + "\n```"}
	g := NewDeckGenerator(fm)

	d, err := g.Generate(context.Background(), GenerateRequest{Topic: "Future of AI", Style: deck.StyleFuturistic, SlideCount: 4})
	require.NoError(t, err)

	assert.Equal(t, "Future of AI", d.Topic)
	assert.Equal(t, deck.StyleFuturistic, d.Style)
	require.Len(t, d.Slides, 4)
	kinds := []deck.Kind{deck.KindTitle, deck.KindContent, deck.KindChart, deck.KindTable}
	for i, k := range kinds {
		assert.Equal(t, k, d.Slides[i].Type)
		assert.Equal(t, []string{"s1", "s2", "s3", "s4"}[i], d.Slides[i].ID)
	}
	assert.Equal(t, 1, fm.calls)
}

func TestGenerate_PromptContents(t *testing.T) {
	fm := &fakeModel{reply: futureOfAI}
	g := NewDeckGenerator(fm, WithFileContextLimit(10))

	_, err := g.Generate(context.Background(), GenerateRequest{
		Topic:       "Ocean tides",
		Style:       "nature",
		FileContext: strings.Repeat("é", 25),
		SlideCount:  99,
	})
	require.NoError(t, err)

	require.Len(t, fm.lastInput, 2)
	assert.Equal(t, schema.System, fm.lastInput[0].Role)
	user := fm.lastInput[1].Content
	assert.Contains(t, user, "Ocean tides")
	assert.Contains(t, user, "Nature")
	assert.Contains(t, user, "exactly 20")
	assert.Contains(t, user, strings.Repeat("é", 10)+"\n---")
	assert.NotContains(t, user, strings.Repeat("é", 11))
	assert.Contains(t, user, "truncated")
	assert.Contains(t, user, `"processSteps"`)
}

func TestGenerate_StampsTitleFromTopic(t *testing.T) {
	fm := &fakeModel{reply: `{"slides":[{"type":"title","title":"Hi"}]}`}
	d, err := NewDeckGenerator(fm).Generate(context.Background(), GenerateRequest{Topic: "Bees", Style: "unknown"})
	require.NoError(t, err)
	assert.Equal(t, "Bees", d.Title)
	assert.Equal(t, deck.DefaultStyle, d.Style)
	assert.NotEmpty(t, d.Slides[0].ID)
}

func TestGenerate_InvalidReply(t *testing.T) {
	for _, reply := range []string{"Sorry, I cannot help.", `{"slides": []}`, `{"title": "x"}`} {
		fm := &fakeModel{reply: reply}
		_, err := NewDeckGenerator(fm).Generate(context.Background(), GenerateRequest{Topic: "x"})
		var ge *GenerationError
		require.ErrorAs(t, err, &ge, "reply %q", reply)
		assert.Equal(t, StageParse, ge.Stage)
		assert.Equal(t, reply, ge.Raw)
		assert.ErrorIs(t, err, deck.ErrSchema)
	}
}

func TestGenerate_ModelError(t *testing.T) {
	fm := &fakeModel{err: errors.New("401 unauthorized")}
	_, err := NewDeckGenerator(fm).Generate(context.Background(), GenerateRequest{Topic: "x"})
	var ge *GenerationError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, StageModel, ge.Stage)
	assert.Contains(t, err.Error(), "401")
}

func TestGenerate_EmptyTopicAndNoModel(t *testing.T) {
	_, err := NewDeckGenerator(&fakeModel{reply: futureOfAI}).Generate(context.Background(), GenerateRequest{Topic: "  "})
	assert.Error(t, err)

	_, err = NewDeckGenerator(nil).Generate(context.Background(), GenerateRequest{Topic: "x"})
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestGenerate_TimesOutAndCancelsCall(t *testing.T) {
	fm := &fakeModel{reply: futureOfAI, delay: 10 * time.Second, cancelled: make(chan struct{})}
	g := NewDeckGenerator(fm, WithTimeout(50*time.Millisecond))

	start := time.Now()
	_, err := g.Generate(context.Background(), GenerateRequest{Topic: "slow"})
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrGenerationTimeout)
	var te *TimeoutError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 50*time.Millisecond, te.After)
	assert.Less(t, elapsed, 2*time.Second)

	select {
	case <-fm.cancelled:
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight model call was not cancelled")
	}
}

func TestGenerate_ParentContextCancelled(t *testing.T) {
	fm := &fakeModel{reply: futureOfAI, delay: 10 * time.Second}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	_, err := NewDeckGenerator(fm).Generate(ctx, GenerateRequest{Topic: "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

// A reply arriving after the deadline must not reach the caller's state.
func TestGenerationService_LateResultDiscarded(t *testing.T) {
	fm := &fakeModel{reply: futureOfAI, delay: 150 * time.Millisecond, ignoreCtx: true, finished: make(chan struct{})}
	svc := NewGenerationService(NewDeckGenerator(fm, WithTimeout(30*time.Millisecond)))

	var applied atomic.Int32
	surfaced := &deck.Deck{Title: "previous"}
	_, err := svc.Run(context.Background(), GenerateRequest{Topic: "late"}, func(d *deck.Deck) {
		applied.Add(1)
		surfaced = d
	})
	assert.ErrorIs(t, err, ErrGenerationTimeout)

	select {
	case <-fm.finished:
	case <-time.After(2 * time.Second):
		t.Fatal("fake model never finished")
	}
	time.Sleep(20 * time.Millisecond)

	assert.Zero(t, applied.Load())
	assert.Equal(t, "previous", surfaced.Title)
}

// blockingGen returns once release is closed.
type blockingGen struct {
	release chan struct{}
	deck    *deck.Deck
	started chan struct{}
}

func (b *blockingGen) Generate(ctx context.Context, req GenerateRequest) (*deck.Deck, error) {
	if b.started != nil {
		close(b.started)
	}
	<-b.release
	return b.deck, nil
}

func TestGenerationService_LastRequestWins(t *testing.T) {
	first := &blockingGen{release: make(chan struct{}), deck: &deck.Deck{Title: "first"}, started: make(chan struct{})}
	svc := NewGenerationService(first)

	var mu sync.Mutex
	var applied []string
	apply := func(d *deck.Deck) {
		mu.Lock()
		applied = append(applied, d.Title)
		mu.Unlock()
	}

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Run(context.Background(), GenerateRequest{Topic: "a"}, apply)
		firstErr <- err
	}()
	<-first.started

	second := &blockingGen{release: make(chan struct{}), deck: &deck.Deck{Title: "second"}}
	close(second.release)
	svc.SetGenerator(second)
	d, err := svc.Run(context.Background(), GenerateRequest{Topic: "b"}, apply)
	require.NoError(t, err)
	assert.Equal(t, "second", d.Title)

	close(first.release)
	assert.ErrorIs(t, <-firstErr, ErrGenerationCancelled)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"second"}, applied)
}

func TestGenerationService_Cancel(t *testing.T) {
	gen := &blockingGen{release: make(chan struct{}), deck: &deck.Deck{Title: "x"}, started: make(chan struct{})}
	svc := NewGenerationService(gen)

	errCh := make(chan error, 1)
	go func() {
		_, err := svc.Run(context.Background(), GenerateRequest{Topic: "a"}, func(*deck.Deck) {
			t.Error("cancelled result applied")
		})
		errCh <- err
	}()
	<-gen.started
	svc.Cancel()
	close(gen.release)
	assert.ErrorIs(t, <-errCh, ErrGenerationCancelled)
}

func TestRequestTracker(t *testing.T) {
	var tr RequestTracker
	a := tr.Begin()
	assert.True(t, tr.IsCurrent(a))
	b := tr.Begin()
	assert.False(t, tr.IsCurrent(a))
	assert.True(t, tr.IsCurrent(b))
	tr.Cancel()
	assert.False(t, tr.IsCurrent(b))
	assert.False(t, tr.IsCurrent(0))
}

func TestRequestNormalized(t *testing.T) {
	tests := []struct {
		in        GenerateRequest
		wantCount int
		wantStyle deck.Style
	}{
		{GenerateRequest{SlideCount: 0}, DefaultSlideCount, deck.DefaultStyle},
		{GenerateRequest{SlideCount: -3, Style: "CYBERPUNK"}, DefaultSlideCount, deck.StyleCyberpunk},
		{GenerateRequest{SlideCount: 1}, 1, deck.DefaultStyle},
		{GenerateRequest{SlideCount: 21}, MaxSlideCount, deck.DefaultStyle},
	}
	for _, tt := range tests {
		got := tt.in.normalized()
		assert.Equal(t, tt.wantCount, got.SlideCount)
		assert.Equal(t, tt.wantStyle, got.Style)
	}
}

func TestTruncateRunes_Property(t *testing.T) {
	f := func(s string, n uint8) bool {
		limit := int(n)
		got, truncated := truncateRunes(s, limit)
		if !utf8.ValidString(s) {
			return true
		}
		count := utf8.RuneCountInString(s)
		if limit == 0 || count <= limit {
			return got == s && !truncated
		}
		return truncated && utf8.RuneCountInString(got) == limit && strings.HasPrefix(s, got)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct{ in, want string }{
		{`{"a":1}`, `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"Here you go: {\"a\":{\"b\":2}} enjoy", `{"a":{"b":2}}`},
		{"no json", "no json"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extractJSON(tt.in))
	}
}
