package voice

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/luzi-app/luzi/internal/common"
	"github.com/luzi-app/luzi/internal/model"
)

// State is the session controller's lifecycle state.
type State int

// Session states.
const (
	StateIdle State = iota
	StateListening
	StateAwaitingConfirmation
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateAwaitingConfirmation:
		return "awaiting-confirmation"
	default:
		return "unknown"
	}
}

// Store is the slice of the persistence layer the controller needs.
type Store interface {
	AddExpense(ctx context.Context, draft *model.ExpenseDraft) (*model.Expense, error)
	GetCategories(ctx context.Context) ([]model.Category, error)
	GetCategoryByID(ctx context.Context, id string) (*model.Category, error)
}

// TranscriptParser extracts an expense draft from a transcript, or nil when
// the transcript is not an expense command.
type TranscriptParser interface {
	Parse(transcript string) *model.ExpenseDraft
}

// CategoryScorer scores free text against the active categories.
type CategoryScorer interface {
	Score(text string, categories []model.Category) model.CategoryMatch
}

// ResultHook post-processes a parsed draft before category resolution. A hook
// that assigns a non-default category causes the draft to be saved without
// consulting the matcher.
type ResultHook func(draft *model.ExpenseDraft)

// Config holds configuration options for the session controller.
type Config struct {
	ResultHook ResultHook
	Language   string
	// ConfidenceThreshold is the minimum matcher confidence for saving an
	// expense without asking the user.
	ConfidenceThreshold float64
	// SessionTimeout force-stops a capture that runs too long.
	SessionTimeout  time.Duration
	MaxAlternatives int
}

// DefaultConfig returns the default controller configuration.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.5,
		SessionTimeout:      8 * time.Second,
		Language:            "es-ES",
		MaxAlternatives:     5,
	}
}

// Controller owns the voice session state machine: it orchestrates capture,
// parsing, category matching and persistence, and defers category assignment
// to user confirmation when the match is ambiguous. At most one expense draft
// is pending at any time; concurrent sessions are rejected.
type Controller struct {
	store      Store
	parser     TranscriptParser
	scorer     CategoryScorer
	capture    Capture
	notifier   Notifier
	onIdle     func()
	timer      *time.Timer
	sessionCtx context.Context
	pending    *model.ExpenseDraft
	cfg        Config
	state      State
	gotResult  bool
	manualStop bool
	mu         sync.Mutex
}

// New creates a session controller with the default configuration.
func New(store Store, parser TranscriptParser, scorer CategoryScorer, capture Capture, notifier Notifier) *Controller {
	return NewWithConfig(store, parser, scorer, capture, notifier, DefaultConfig())
}

// NewWithConfig creates a session controller with custom configuration.
func NewWithConfig(store Store, parser TranscriptParser, scorer CategoryScorer, capture Capture, notifier Notifier, cfg Config) *Controller {
	def := DefaultConfig()
	if cfg.ConfidenceThreshold <= 0 {
		cfg.ConfidenceThreshold = def.ConfidenceThreshold
	}
	if cfg.SessionTimeout <= 0 {
		cfg.SessionTimeout = def.SessionTimeout
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.MaxAlternatives <= 0 {
		cfg.MaxAlternatives = def.MaxAlternatives
	}
	return &Controller{
		store:    store,
		parser:   parser,
		scorer:   scorer,
		capture:  capture,
		notifier: notifier,
		cfg:      cfg,
		state:    StateIdle,
	}
}

// SetIdleHandler registers a callback invoked whenever the controller returns
// to idle. The hotword listener uses it to resume its own capture.
func (c *Controller) SetIdleHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onIdle = fn
}

// State returns the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending returns a copy of the pending expense draft, or nil.
func (c *Controller) Pending() *model.ExpenseDraft {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending == nil {
		return nil
	}
	draft := *c.pending
	return &draft
}

// StartSession begins a one-shot capture session. It fails fast when speech
// capture is unsupported or microphone permission is denied, and rejects the
// call when a session is already active.
func (c *Controller) StartSession(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		state := c.state
		c.mu.Unlock()
		return fmt.Errorf("%w: state is %s", common.ErrSessionActive, state)
	}
	if !c.capture.Supported() {
		c.mu.Unlock()
		c.notifier.Error("Error", "El reconocimiento de voz no está disponible en este dispositivo.")
		return common.NewUserError("Reconocimiento de voz no soportado", common.ErrCaptureFailed)
	}

	// Claim the session slot before the blocking permission request so a
	// concurrent StartSession is rejected instead of clobbering the draft.
	c.state = StateListening
	c.pending = nil
	c.gotResult = false
	c.manualStop = false
	c.sessionCtx = ctx
	c.mu.Unlock()

	granted, err := c.capture.RequestMicrophone(ctx)
	if err != nil || !granted {
		c.toIdle()
		c.notifier.Error("Error", "Permiso de micrófono denegado.")
		return common.NewUserError("Permiso de micrófono denegado", err)
	}

	captureCfg := CaptureConfig{
		Language:        c.cfg.Language,
		MaxAlternatives: c.cfg.MaxAlternatives,
	}
	if err := c.capture.Start(ctx, captureCfg, c); err != nil {
		c.toIdle()
		c.notifier.Error("Error", "No se pudo iniciar el reconocimiento de voz.")
		return common.NewUserError("No se pudo iniciar el reconocimiento de voz", err)
	}

	c.mu.Lock()
	if c.state == StateListening {
		c.timer = time.AfterFunc(c.cfg.SessionTimeout, c.timeoutStop)
	}
	c.mu.Unlock()

	slog.Info("voice session started", "timeout", c.cfg.SessionTimeout)
	c.notifier.Success("Escuchando...", "Dime tu gasto. Por ejemplo: '1500 en comida'")
	return nil
}

// timeoutStop force-stops a capture that exceeded the session budget. The
// stop is not a manual one, so the no-audio report still fires when nothing
// was recognized.
func (c *Controller) timeoutStop() {
	c.mu.Lock()
	listening := c.state == StateListening
	c.mu.Unlock()
	if listening {
		slog.Debug("session timeout reached, stopping capture")
		c.capture.Stop()
	}
}

// StopListening requests an early end of the capture. It is only effective
// while listening and does not clear a pending draft.
func (c *Controller) StopListening() {
	c.mu.Lock()
	if c.state != StateListening {
		c.mu.Unlock()
		return
	}
	c.manualStop = true
	c.mu.Unlock()
	c.capture.Stop()
}

// ConfirmCategory assigns a category to the pending draft and persists it.
// Calling it with no pending draft reports an error and changes nothing.
func (c *Controller) ConfirmCategory(ctx context.Context, categoryID string) error {
	c.mu.Lock()
	if c.pending == nil {
		c.mu.Unlock()
		c.notifier.Error("Error", "No hay un gasto pendiente para categorizar.")
		return common.ErrNoPendingExpense
	}
	c.pending.CategoryID = categoryID
	draft := c.pending
	c.mu.Unlock()

	return c.save(ctx, draft)
}

// Cancel discards the pending draft without persisting and returns to idle.
func (c *Controller) Cancel() {
	c.mu.Lock()
	stopCapture := c.state == StateListening
	if stopCapture {
		c.manualStop = true
	}
	wasIdle := c.state == StateIdle
	c.pending = nil
	c.stopTimerLocked()
	c.state = StateIdle
	cb := c.onIdle
	c.mu.Unlock()

	if stopCapture {
		c.capture.Stop()
	}
	if cb != nil && !wasIdle {
		cb()
	}
}

// HandleResult processes the ranked transcript alternatives of the session
// capture. Only the top alternative drives parsing; the rest are logged.
func (c *Controller) HandleResult(alternatives []string) {
	if len(alternatives) == 0 {
		return
	}

	c.mu.Lock()
	if c.state != StateListening {
		c.mu.Unlock()
		return
	}
	c.gotResult = true
	ctx := c.sessionCtx
	c.mu.Unlock()

	transcript := alternatives[0]
	slog.Info("transcript recognized", "transcript", transcript)
	for i, alt := range alternatives[1:] {
		slog.Debug("transcript alternative", "rank", i+1, "transcript", alt)
	}

	draft := c.parser.Parse(transcript)
	if draft == nil {
		c.toIdle()
		c.notifier.Error("Comando no reconocido", "No pudimos interpretar un gasto válido. Intenta de nuevo.")
		return
	}

	if c.cfg.ResultHook != nil {
		c.cfg.ResultHook(draft)
	}

	c.mu.Lock()
	c.pending = draft
	c.mu.Unlock()

	if draft.HasResolvedCategory() {
		// Upstream enhancement already picked a category with implicit
		// high confidence.
		_ = c.save(ctx, draft)
		return
	}

	c.resolveCategory(ctx, draft)
}

// resolveCategory scores the draft's description and either saves directly or
// raises an ambiguous-category request.
func (c *Controller) resolveCategory(ctx context.Context, draft *model.ExpenseDraft) {
	categories, err := c.store.GetCategories(ctx)
	if err != nil {
		common.LogError(err, "failed to load categories for matching", nil)
		categories = nil
	}

	match := c.scorer.Score(draft.Description, categories)
	slog.Info("category match",
		"description", draft.Description,
		"category_id", match.CategoryID,
		"confidence", match.Confidence,
		"candidates", len(match.Candidates))

	if match.Confidence >= c.cfg.ConfidenceThreshold || len(match.Candidates) <= 1 {
		draft.CategoryID = match.CategoryID
		_ = c.save(ctx, draft)
		return
	}

	c.mu.Lock()
	c.stopTimerLocked()
	c.state = StateAwaitingConfirmation
	pending := *draft
	c.mu.Unlock()

	c.notifier.AmbiguousCategory(pending, match.Candidates)
}

// HandleError processes a capture failure during the session.
func (c *Controller) HandleError(capErr *CaptureError) {
	c.mu.Lock()
	if c.state != StateListening {
		c.mu.Unlock()
		return
	}
	c.stopTimerLocked()
	suppress := c.manualStop && capErr.Code == CaptureErrAborted
	c.state = StateIdle
	cb := c.onIdle
	c.mu.Unlock()

	slog.Warn("capture error", "code", capErr.Code)
	if !suppress {
		c.notifier.Error("Error en reconocimiento", capErr.UserMessage()+". Intenta nuevamente.")
	}
	if cb != nil {
		cb()
	}
}

// HandleEnd processes the end-of-capture signal. When the session produced no
// transcript, the no-audio condition is reported unless the session was
// stopped manually.
func (c *Controller) HandleEnd() {
	c.mu.Lock()
	c.stopTimerLocked()
	if c.state != StateListening {
		// A result already moved the session on; nothing left to do.
		c.mu.Unlock()
		return
	}
	noAudio := !c.gotResult && !c.manualStop
	c.state = StateIdle
	cb := c.onIdle
	c.mu.Unlock()

	slog.Debug("capture ended", "no_audio", noAudio)
	if noAudio {
		c.notifier.Error("No se detectó audio", "No pudimos escuchar lo que dijiste. Intenta de nuevo.")
	}
	if cb != nil {
		cb()
	}
}

// save persists the draft. On failure the draft stays pending so the user can
// retry via ConfirmCategory.
func (c *Controller) save(ctx context.Context, draft *model.ExpenseDraft) error {
	expense, err := c.store.AddExpense(ctx, draft)
	if err != nil {
		c.mu.Lock()
		c.stopTimerLocked()
		c.state = StateAwaitingConfirmation
		c.mu.Unlock()
		c.notifier.Error("Error", "No se pudo guardar el gasto.")
		return fmt.Errorf("failed to save expense: %w", err)
	}

	c.mu.Lock()
	c.pending = nil
	c.stopTimerLocked()
	c.state = StateIdle
	cb := c.onIdle
	c.mu.Unlock()

	categoryName := draft.CategoryID
	if cat, catErr := c.store.GetCategoryByID(ctx, draft.CategoryID); catErr == nil && cat != nil {
		categoryName = cat.Name
	}

	slog.Info("expense saved",
		"expense_id", expense.ID,
		"amount", expense.Amount,
		"category_id", expense.CategoryID)

	c.notifier.Success("Gasto registrado",
		fmt.Sprintf("%s en %s (%s)", formatAmount(draft.Amount), draft.Description, categoryName))
	c.notifier.RecognitionComplete()

	if cb != nil {
		cb()
	}
	return nil
}

// toIdle transitions back to idle outside the capture event path.
func (c *Controller) toIdle() {
	c.mu.Lock()
	c.stopTimerLocked()
	wasIdle := c.state == StateIdle
	c.state = StateIdle
	cb := c.onIdle
	c.mu.Unlock()

	if cb != nil && !wasIdle {
		cb()
	}
}

// stopTimerLocked stops the session timeout timer. Callers must hold the lock.
func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func formatAmount(amount float64) string {
	return "$" + strconv.FormatFloat(amount, 'f', -1, 64)
}
