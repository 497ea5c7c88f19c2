package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"deckstudio/agent"
	"deckstudio/config"
	"deckstudio/deck"
	"deckstudio/export"
	"deckstudio/i18n"
	"deckstudio/logger"
	"deckstudio/player"
	"deckstudio/render"
	"deckstudio/sourcedoc"
	"deckstudio/store"
)

const appVersion = "1.0.0"

// App struct
type App struct {
	ctx      context.Context
	logger   *logger.Logger
	registry *ServiceRegistry

	configService     *ConfigService
	generationService *GenerationFacadeService
	exportService     *ExportFacadeService
	storeService      *StoreFacadeService

	events  EventEmitter
	dialogs Dialogs
	window  Window

	storageDir   string
	genFactory   GeneratorFactory
	storeOptions []store.Option

	mu      sync.Mutex
	player  *player.Player
	current *deck.Deck
}

// AppOption configures an App before startup.
type AppOption func(*App)

// WithHost replaces the Wails runtime for events, dialogs and the window.
func WithHost(events EventEmitter, dialogs Dialogs, window Window) AppOption {
	return func(a *App) {
		a.events, a.dialogs, a.window = events, dialogs, window
	}
}

// WithStorageDir keeps settings, logs and data under dir instead of ~/DeckStudio.
func WithStorageDir(dir string) AppOption {
	return func(a *App) { a.storageDir = dir }
}

// WithGeneratorFactory overrides how generators are built from settings.
func WithGeneratorFactory(f GeneratorFactory) AppOption {
	return func(a *App) { a.genFactory = f }
}

// WithStoreOptions passes options to the deck store.
func WithStoreOptions(opts ...store.Option) AppOption {
	return func(a *App) { a.storeOptions = opts }
}

// NewApp creates a new App application struct
func NewApp(opts ...AppOption) *App {
	a := &App{
		ctx:    context.Background(),
		logger: logger.NewLogger(),
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	if a.events == nil {
		host := wailsHost{ctx: ctx}
		a.events, a.dialogs, a.window = host, host, host
	}
	if err := a.init(ctx); err != nil {
		a.Log(fmt.Sprintf("[STARTUP] %v", err))
		a.dialogs.Message("Deck Studio", err.Error(), true)
	}
}

// init wires and starts every service.
func (a *App) init(ctx context.Context) error {
	a.ctx = ctx
	if a.events == nil {
		var h nopHost
		a.events, a.dialogs, a.window = h, h, h
	}

	dir := a.storageDir
	if dir == "" {
		var err error
		if dir, err = defaultStorageDir(); err != nil {
			return err
		}
	}
	if err := a.logger.Init(filepath.Join(dir, "logs")); err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
	}
	a.configService = NewConfigService(a.logger.Func(), a.logger.Named("config"))
	a.configService.SetStorageDir(dir)

	a.storeService = NewStoreFacadeService(a.configService, a.logger.Func(), a.logger.Named("store"), a.storeOptions...)
	a.generationService = NewGenerationFacadeService(a.configService, a.genFactory, a.logger.Func(), a.logger.Named("generation"))
	a.exportService = NewExportFacadeService(a.logger.Func(), a.logger.Named("export"))

	a.registry = NewServiceRegistry(ctx, a.logger.Func())
	for _, reg := range []struct {
		svc      Service
		critical bool
	}{
		{a.configService, true},
		{a.storeService, false},
		{a.generationService, false},
		{a.exportService, false},
	} {
		var err error
		if reg.critical {
			err = a.registry.RegisterCritical(reg.svc)
		} else {
			err = a.registry.Register(reg.svc)
		}
		if err != nil {
			return err
		}
	}
	if err := a.registry.InitializeAll(); err != nil {
		return err
	}

	cfg, _ := a.configService.GetConfig()
	a.applyAmbient(cfg)
	a.configService.OnConfigChanged(a.onConfigChanged)
	a.Log(fmt.Sprintf("[STARTUP] Deck Studio %s ready", appVersion))
	return nil
}

func (a *App) applyAmbient(cfg config.Config) {
	a.logger.SetDetailed(cfg.DetailedLog)
	i18n.SyncLanguageFromConfig(&cfg)
}

func (a *App) onConfigChanged(cfg config.Config) {
	a.applyAmbient(cfg)
	if err := a.registry.ApplyConfig(cfg); err != nil {
		a.Log(fmt.Sprintf("[CONFIG] %v", err))
	}
}

// shutdown is called when the application is closing to clean up resources
func (a *App) shutdown(ctx context.Context) {
	if a.registry != nil {
		a.registry.ShutdownAll()
	}
	a.logger.Close()
}

// Log writes a message to the application log.
func (a *App) Log(msg string) {
	a.logger.Log(msg)
}

// --- Generation ---

// GenerateDeck starts generating a deck in the background. The result
// arrives as a deck-generated or generation-error event; a request
// superseded by a later one or by CancelGeneration produces no event.
func (a *App) GenerateDeck(req agent.GenerateRequest) error {
	if strings.TrimSpace(req.Topic) == "" {
		return ErrEmptyTopic
	}
	a.Log(i18n.T("generate.started", req.Topic))
	go a.generate(a.ctx, req)
	return nil
}

func (a *App) generate(ctx context.Context, req agent.GenerateRequest) (*deck.Deck, error) {
	d, err := a.generationService.Generate(ctx, req, a.present)
	if err != nil {
		if errors.Is(err, agent.ErrGenerationCancelled) {
			a.Log("[GENERATE] request superseded or cancelled")
			return nil, err
		}
		a.Log(fmt.Sprintf("[GENERATE] %v", err))
		a.events.Emit(EventGenerationError, a.generationErrorPayload(err))
		return nil, err
	}

	if saved, err := a.storeService.SaveHistory(ctx, d); err != nil {
		a.Log(fmt.Sprintf("[GENERATE] failed to save history: %v", err))
	} else {
		a.mu.Lock()
		if a.current == d {
			a.current.ID, a.current.CreatedAt = saved.ID, saved.CreatedAt
		}
		a.mu.Unlock()
	}

	a.Log(i18n.T("generate.succeeded", len(d.Slides)))
	a.events.Emit(EventDeckGenerated, d.Clone())
	a.emitPlayerChanged()
	return d, nil
}

// present opens d in a fresh player. It runs while the generation is still
// current, so a stale result never reaches the player.
func (a *App) present(d *deck.Deck) {
	p, err := player.New(d.Clone())
	if err != nil {
		a.Log(fmt.Sprintf("[PLAYER] %v", err))
		return
	}
	a.mu.Lock()
	a.current, a.player = d, p
	a.mu.Unlock()
}

func (a *App) generationErrorPayload(err error) map[string]string {
	payload := map[string]string{"error": err.Error()}
	var ge *agent.GenerationError
	var te *agent.TimeoutError
	switch {
	case errors.As(err, &te):
		payload["message"] = i18n.T("generate.timeout", int(te.After.Seconds()))
	case errors.Is(err, agent.ErrNoModel):
		payload["message"] = i18n.T("generate.no_model")
	case errors.As(err, &ge):
		payload["message"] = i18n.T("generate.invalid", ge.Err)
		if ge.Raw != "" {
			payload["raw"] = ge.Raw
		}
	case errors.Is(err, deck.ErrSchema):
		payload["message"] = i18n.T("generate.invalid", err)
	default:
		payload["message"] = err.Error()
	}
	return payload
}

// CancelGeneration abandons the generation in flight.
func (a *App) CancelGeneration() {
	a.generationService.Cancel()
}

// PickSourceFile asks for a source document and loads it as context for the
// next generation. It returns the file name, or "" if the user cancelled.
func (a *App) PickSourceFile() (string, error) {
	path, err := a.dialogs.OpenFile(i18n.T("dialog.open_source_title"), []FileFilter{{
		DisplayName: i18n.T("dialog.source_filter"),
		Pattern:     "*" + strings.Join(sourcedoc.Extensions, ";*"),
	}})
	if err != nil || path == "" {
		return "", err
	}
	if _, err := a.generationService.LoadSource(path); err != nil {
		a.dialogs.Message("Deck Studio", i18n.T("generate.source_failed", filepath.Base(path), err), true)
		return "", err
	}
	return filepath.Base(path), nil
}

// ClearSourceFile drops the loaded source document.
func (a *App) ClearSourceFile() {
	a.generationService.ClearSource()
}

// --- Player ---

func (a *App) activePlayer() (*player.Player, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.player == nil {
		return nil, ErrNoDeck
	}
	return a.player, nil
}

func (a *App) emitPlayerChanged() {
	if p, err := a.activePlayer(); err == nil {
		a.events.Emit(EventPlayerChanged, p.State())
	}
}

// withPlayer applies fn to the player and announces the new state when fn
// reports a change.
func (a *App) withPlayer(fn func(p *player.Player) bool) (player.State, error) {
	p, err := a.activePlayer()
	if err != nil {
		return player.State{}, err
	}
	if fn(p) {
		a.events.Emit(EventPlayerChanged, p.State())
	}
	return p.State(), nil
}

// GetPlayerState returns the player snapshot.
func (a *App) GetPlayerState() (player.State, error) {
	return a.withPlayer(func(*player.Player) bool { return false })
}

// HandleKey applies a key press from the stage and returns the resulting
// effect name.
func (a *App) HandleKey(key string) (string, error) {
	p, err := a.activePlayer()
	if err != nil {
		return player.EffectNone.String(), err
	}
	effect := p.HandleKey(key)
	switch effect {
	case player.EffectRedraw, player.EffectClose:
		a.events.Emit(EventPlayerChanged, p.State())
	case player.EffectToggleFullscreen:
		a.window.ToggleFullscreen()
	}
	return effect.String(), nil
}

func (a *App) Next() (player.State, error) {
	return a.withPlayer((*player.Player).Next)
}

func (a *App) Prev() (player.State, error) {
	return a.withPlayer((*player.Player).Prev)
}

func (a *App) EnterGrid() (player.State, error) {
	return a.withPlayer((*player.Player).EnterGrid)
}

func (a *App) ExitGrid() (player.State, error) {
	return a.withPlayer((*player.Player).ExitGrid)
}

// SelectSlide jumps to slide i and returns to slide view.
func (a *App) SelectSlide(i int) (player.State, error) {
	return a.withPlayer(func(p *player.Player) bool { return p.Select(i) })
}

// SetActiveStyle previews the deck in another style.
func (a *App) SetActiveStyle(style string) (player.State, error) {
	st, ok := deck.ParseStyle(style)
	if !ok {
		return player.State{}, fmt.Errorf("unknown style %q", style)
	}
	return a.withPlayer(func(p *player.Player) bool {
		changed := p.ActiveStyle() != st
		p.SetActiveStyle(st)
		return changed
	})
}

func (a *App) SetLaser(on bool) (player.State, error) {
	return a.withPlayer(func(p *player.Player) bool {
		changed := p.State().LaserOn != on
		p.SetLaser(on)
		return changed
	})
}

// MovePointer tracks the laser pointer, in fractions of the stage size.
func (a *App) MovePointer(x, y float64) error {
	_, err := a.withPlayer(func(p *player.Player) bool { return p.MovePointer(x, y) })
	return err
}

// OpenDeck presents d, for example a deck picked from history.
func (a *App) OpenDeck(d *deck.Deck) (player.State, error) {
	if !d.Renderable() {
		return player.State{}, ErrNoDeck
	}
	a.present(d.Clone())
	a.emitPlayerChanged()
	return a.GetPlayerState()
}

// GetStyles lists the selectable styles.
func (a *App) GetStyles() []deck.Style {
	return deck.Styles
}

// snapshot returns a copy of the current deck and the style it is shown in.
func (a *App) snapshot() (*deck.Deck, deck.Style, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.player == nil || a.current == nil {
		return nil, "", ErrNoDeck
	}
	return a.current.Clone(), a.player.ActiveStyle(), nil
}

// --- Export ---

func (a *App) ExportPPTX() error    { return a.exportWithDialog(export.FormatPPTX) }
func (a *App) ExportPDF() error     { return a.exportWithDialog(export.FormatPDF) }
func (a *App) ExportOutline() error { return a.exportWithDialog(export.FormatDOCX) }
func (a *App) ExportData() error    { return a.exportWithDialog(export.FormatXLSX) }
func (a *App) ExportHandout() error { return a.exportWithDialog(export.FormatHandout) }

// GetExportFormats lists the formats the export methods write.
func (a *App) GetExportFormats() []string {
	return a.exportService.Formats()
}

// exportWithDialog asks where to save and writes the file in the
// background. A request made while another export runs is ignored.
func (a *App) exportWithDialog(format string) error {
	d, style, err := a.snapshot()
	if err != nil {
		return err
	}
	if a.exportService.Busy() {
		a.Log(i18n.T("export.in_progress"))
		return nil
	}
	ext := export.Extension(format)
	path, err := a.dialogs.SaveFile(i18n.T("dialog.export_title"), DefaultExportName(d, format), []FileFilter{{
		DisplayName: strings.ToUpper(strings.TrimPrefix(ext, ".")),
		Pattern:     "*" + ext,
	}})
	if err != nil || path == "" {
		return err
	}
	go a.exportTo(a.ctx, format, d, style, path)
	return nil
}

// exportTo writes d, the deck captured before the save dialog opened.
func (a *App) exportTo(ctx context.Context, format string, d *deck.Deck, style deck.Style, path string) (string, error) {
	written, err := a.exportService.Export(ctx, format, d, style, path)
	if errors.Is(err, ErrExportInProgress) {
		a.Log(i18n.T("export.in_progress"))
		return "", err
	}
	if err != nil {
		a.Log(fmt.Sprintf("[EXPORT] %v", err))
		a.events.Emit(EventExportError, map[string]string{"format": format, "error": err.Error()})
		a.dialogs.Message(i18n.T("dialog.export_failed"), err.Error(), true)
		return "", err
	}
	a.events.Emit(EventExportFinished, map[string]string{"format": format, "path": written})
	return written, nil
}

// GetPrintHTML returns the print document of the current deck.
func (a *App) GetPrintHTML() (string, error) {
	d, style, err := a.snapshot()
	if err != nil {
		return "", err
	}
	html, err := render.PrintDocument(d, style)
	if err != nil {
		return "", err
	}
	return string(html), nil
}

// --- History & community ---

func (a *App) GetHistory() ([]*deck.Deck, error) {
	return a.storeService.ListHistory(a.ctx)
}

// OpenHistoryDeck presents the history entry with the given id.
func (a *App) OpenHistoryDeck(id string) (player.State, error) {
	list, err := a.storeService.ListHistory(a.ctx)
	if err != nil {
		return player.State{}, err
	}
	for _, d := range list {
		if d.ID == id {
			return a.OpenDeck(d)
		}
	}
	return player.State{}, store.ErrNotFound
}

func (a *App) DeleteHistory(id string) error {
	return a.storeService.DeleteHistory(a.ctx, id)
}

// DeleteHistoryByTitle removes every history entry with the given title.
func (a *App) DeleteHistoryByTitle(title string) (int, error) {
	return a.storeService.DeleteHistoryByTitle(a.ctx, title)
}

func (a *App) GetCommunityDecks() ([]*deck.SharedDeck, error) {
	return a.storeService.ListShared(a.ctx)
}

// PublishDeck shares the current deck. An empty author falls back to the
// configured author name.
func (a *App) PublishDeck(author string) (*deck.SharedDeck, error) {
	d, _, err := a.snapshot()
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(author) == "" {
		cfg, _ := a.configService.GetConfig()
		author = cfg.AuthorName
	}
	return a.storeService.Publish(a.ctx, d, author)
}

func (a *App) LikeDeck(id string) (*deck.SharedDeck, error) {
	return a.storeService.Like(a.ctx, id)
}

// DownloadDeck counts a download of a community deck and presents it.
func (a *App) DownloadDeck(id string) (*deck.SharedDeck, error) {
	shared, err := a.storeService.Download(a.ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := a.OpenDeck(&shared.Deck); err != nil {
		return nil, err
	}
	return shared, nil
}

func (a *App) DeleteSharedDeck(id string) error {
	return a.storeService.DeleteShared(a.ctx, id)
}

// --- Settings ---

func (a *App) GetConfig() (config.Config, error) {
	return a.configService.GetConfig()
}

// SaveConfig persists cfg; services pick it up through the change listener.
func (a *App) SaveConfig(cfg config.Config) error {
	return a.configService.SaveConfig(cfg)
}

// ShowAbout displays the about dialog
func (a *App) ShowAbout() {
	a.dialogs.Message(i18n.T("menu.about"), i18n.T("dialog.about", appVersion), false)
}
