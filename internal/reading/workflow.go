package reading

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/luvo-tarot/luvo/internal/api"
	"github.com/luvo-tarot/luvo/internal/host"
	"github.com/luvo-tarot/luvo/internal/reveal"
	"github.com/luvo-tarot/luvo/internal/state"
)

//go:generate mockgen -source=workflow.go -destination=../mocks/reading/mock_reading.go -package=mock_reading Client Alerter

// Client is the subset of the backend API the workflow needs.
type Client interface {
	FetchSpreads(ctx context.Context) ([]api.Spread, error)
	CreateReading(ctx context.Context, req api.ReadingRequest) (*api.Reading, error)
}

// Alerter surfaces a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

// User-facing alert texts.
const (
	CatalogErrorMessage = "Не удалось загрузить расклады. Проверьте подключение."
	ReadingErrorMessage = "Ошибка при создании гадания. Попробуйте снова."
)

// Options configure a Workflow.
type Options struct {
	Client Client
	Host   host.Host
	Store  *state.Store
	// Alerter defaults to Store.
	Alerter Alerter
	// Timing defaults to reveal.DefaultTiming when zero.
	Timing reveal.Timing
	Clock  reveal.Clock
	Logger *slog.Logger
}

// Workflow drives one reading session: catalog load, question form,
// reading request and the timed card reveal.
type Workflow struct {
	client    Client
	host      host.Host
	store     *state.Store
	alerter   Alerter
	timing    reveal.Timing
	clock     reveal.Clock
	logger    *slog.Logger
	validator *requestValidator

	mu          sync.Mutex
	seq         *reveal.Sequence
	cancel      context.CancelFunc
	inflightGen uint64
	closed      bool

	changes chan struct{}
}

// New builds a Workflow. Client and Store are required.
func New(opts Options) (*Workflow, error) {
	if opts.Client == nil {
		return nil, errors.New("reading client is required")
	}
	if opts.Store == nil {
		return nil, errors.New("state store is required")
	}
	v, err := newRequestValidator()
	if err != nil {
		return nil, err
	}

	w := &Workflow{
		client:    opts.Client,
		host:      opts.Host,
		store:     opts.Store,
		alerter:   opts.Alerter,
		timing:    opts.Timing,
		clock:     opts.Clock,
		logger:    opts.Logger,
		validator: v,
		changes:   make(chan struct{}, 1),
	}
	if w.alerter == nil {
		w.alerter = opts.Store
	}
	if w.timing == (reveal.Timing{}) {
		w.timing = reveal.DefaultTiming()
	}
	if w.clock == nil {
		w.clock = reveal.SystemClock
	}
	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return w, nil
}

// Changes signals that the snapshot changed. The channel is never closed;
// a pending signal coalesces further changes.
func (w *Workflow) Changes() <-chan struct{} {
	return w.changes
}

func (w *Workflow) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

// Snapshot returns the current state.
func (w *Workflow) Snapshot() state.Snapshot {
	return w.store.Snapshot()
}

// Attach reads the host identity and viewport and expands the host.
func (w *Workflow) Attach() {
	if w.host == nil {
		return
	}
	var user *host.User
	if u, ok := w.host.User(); ok {
		user = &u
	}
	viewport := w.host.Viewport()
	w.host.Expand()
	w.store.SetEnvironment(user, viewport)
	w.logger.Debug("host attached", "user_present", user != nil, "width", viewport.Width, "height", viewport.Height)
	w.notify()
}

// Init attaches the host and loads the spread catalog.
func (w *Workflow) Init(ctx context.Context) error {
	w.Attach()
	return w.LoadSpreads(ctx)
}

// LoadSpreads fetches the spread catalog once. On failure the catalog is
// left empty and a single alert is raised.
func (w *Workflow) LoadSpreads(ctx context.Context) error {
	spreads, err := w.client.FetchSpreads(ctx)
	if err != nil {
		w.store.SetSpreads(nil)
		w.logger.Error("load spreads failed", "error", err)
		w.alerter.Alert(CatalogErrorMessage)
		w.notify()
		return fmt.Errorf("load spreads: %w", err)
	}
	w.store.SetSpreads(spreads)
	w.logger.Info("spreads loaded", "count", len(spreads))
	w.notify()
	return nil
}

// SetViewport records a resized viewport.
func (w *Workflow) SetViewport(viewport host.Viewport) {
	w.store.SetViewport(viewport)
}

// SetQuestion updates the question text.
func (w *Workflow) SetQuestion(question string) {
	w.store.SetQuestion(question)
	w.notify()
}

// SelectSpread selects a catalog spread.
func (w *Workflow) SelectSpread(id string) error {
	if err := w.store.SelectSpread(id); err != nil {
		return err
	}
	w.notify()
	return nil
}

// CanSubmit reports whether Submit would issue a request.
func (w *Workflow) CanSubmit() bool {
	return w.store.Snapshot().CanSubmit()
}

// DismissAlert clears the pending alert.
func (w *Workflow) DismissAlert() {
	w.store.DismissAlert()
	w.notify()
}

// Submit requests a reading for the current form and, on success, starts
// the reveal. It blocks until the request completes or is cancelled.
func (w *Workflow) Submit(ctx context.Context) error {
	snap := w.store.Snapshot()
	if !snap.CanSubmit() {
		return state.ErrCannotSubmit
	}

	req := buildRequest(snap)
	if err := w.validator.Validate(req); err != nil {
		w.logger.Warn("reading request rejected", "error", err)
		var verr *ValidationError
		if errors.As(err, &verr) {
			w.alerter.Alert(verr.Message())
			w.notify()
		}
		return err
	}

	gen, err := w.store.BeginReading()
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.store.CancelReading(gen)
		return ErrClosed
	}
	w.seq.Stop()
	w.seq = nil
	reqCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.inflightGen = gen
	w.mu.Unlock()
	w.notify()

	w.logger.Info("reading requested", "spread", req.SpreadType, "generation", gen)
	result, err := w.client.CreateReading(reqCtx, req)

	w.mu.Lock()
	if w.inflightGen == gen {
		w.cancel = nil
		w.inflightGen = 0
	}
	w.mu.Unlock()
	cancel()

	if err != nil {
		// A cancelled or reset request has already left the loading phase.
		if w.store.FailReading(gen, err) {
			w.logger.Error("create reading failed", "error", err)
			w.alerter.Alert(ReadingErrorMessage)
		}
		w.notify()
		return fmt.Errorf("create reading: %w", err)
	}
	if result == nil {
		err := errors.New("empty reading response")
		if w.store.FailReading(gen, err) {
			w.logger.Error("create reading failed", "error", err)
			w.alerter.Alert(ReadingErrorMessage)
		}
		w.notify()
		return err
	}

	if !w.store.FinishReading(gen, result) {
		w.logger.Debug("discarding stale reading", "generation", gen)
		return nil
	}
	w.logger.Info("reading received", "session", result.SessionID, "cards", len(result.Cards))
	w.startReveal(gen, len(result.Cards))
	w.notify()
	return nil
}

func (w *Workflow) startReveal(gen uint64, cards int) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	w.seq.Stop()
	// Step callbacks must not take w.mu: Stop waits for them under it.
	w.seq = reveal.Start(w.clock, cards, w.timing, func(step reveal.Step) {
		switch step.Kind {
		case reveal.StepFlip:
			w.store.Flip(gen, step.Index)
		case reveal.StepInterpretation:
			w.store.ShowInterpretation(gen)
		}
		w.notify()
	})
}

// Cancel abandons an in-flight reading request without raising an alert.
func (w *Workflow) Cancel() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cancelLocked()
	w.notify()
}

func (w *Workflow) cancelLocked() {
	if w.cancel == nil {
		return
	}
	w.store.CancelReading(w.inflightGen)
	w.cancel()
	w.cancel = nil
	w.inflightGen = 0
}

// Reset stops the reveal and returns to an empty form. The catalog is kept.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.seq.Stop()
	w.seq = nil
	w.cancelLocked()
	w.store.Reset()
	w.notify()
}

// Close disposes the reveal and any in-flight request. Further submissions
// fail with ErrClosed.
func (w *Workflow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	w.seq.Stop()
	w.seq = nil
	w.cancelLocked()
}

// ErrClosed is returned by Submit after Close.
var ErrClosed = errors.New("workflow closed")

func buildRequest(snap state.Snapshot) api.ReadingRequest {
	req := api.ReadingRequest{
		Question:   strings.TrimSpace(snap.Question),
		SpreadType: snap.SpreadID,
		Language:   api.Language,
	}
	if snap.User != nil {
		if snap.User.ID != 0 {
			id := snap.User.ID
			req.UserID = &id
		}
		req.Username = snap.User.Username
	}
	return req
}
