package ui

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/luvo-tarot/luvo/internal/api"
	"github.com/luvo-tarot/luvo/internal/host"
	"github.com/luvo-tarot/luvo/internal/prefs"
	"github.com/luvo-tarot/luvo/internal/state"
)

// Workflow is the reading session the UI drives.
type Workflow interface {
	LoadSpreads(ctx context.Context) error
	Snapshot() state.Snapshot
	Changes() <-chan struct{}
	SetQuestion(question string)
	SelectSpread(id string) error
	SetViewport(viewport host.Viewport)
	Submit(ctx context.Context) error
	Cancel()
	Reset()
	DismissAlert()
}

// DailySource fetches the card of the day.
type DailySource interface {
	FetchDaily(ctx context.Context) (*api.DailyCard, error)
}

// Options configures the UI.
type Options struct {
	Context        context.Context
	Workflow       Workflow
	Daily          DailySource // optional; disables the daily card view when nil
	ThemeName      string
	HostBackground string
	PrefsPath      string
	LastSpread     string // preselected once the catalog arrives
	AltScreen      bool
	Logger         *slog.Logger
}

// focusArea is the focused control of the question form.
type focusArea int

const (
	focusQuestion focusArea = iota
	focusSpreads
	focusSubmit
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	workflow  Workflow
	daily     DailySource
	prefsPath string
	logger    *slog.Logger
	keys      keyMap

	// UI state
	theme  Theme
	hostBg string
	width  int
	height int
	ready  bool

	// Data state
	snapshot   state.Snapshot
	lastSpread string
	preselect  bool

	// Form state
	focus        focusArea
	spreadCursor int
	question     textarea.Model
	spinner      spinner.Model
	spinning     bool

	// Reading state
	reading        viewport.Model
	readingGen     uint64
	renderer       *glamour.TermRenderer
	rendererKey    string
	interpretation string

	// Overlays
	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = prefs.DefaultTheme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	ta := textarea.New()
	ta.Placeholder = "О чем вы хотите узнать? Что волнует вашу душу?"
	ta.CharLimit = questionCharLimit
	ta.ShowLineNumbers = false
	ta.SetHeight(questionHeight)
	ta.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Moon))

	m := Model{
		ctx:        ctx,
		workflow:   opts.Workflow,
		daily:      opts.Daily,
		prefsPath:  prefsPath,
		logger:     logger,
		keys:       DefaultKeyMap(),
		hostBg:     opts.HostBackground,
		lastSpread: strings.TrimSpace(opts.LastSpread),
		preselect:  strings.TrimSpace(opts.LastSpread) != "",
		question:   ta,
		spinner:    sp,
		reading:    viewport.New(0, 0),
	}
	m.theme = GetTheme(themeName).WithHostBackground(m.hostBg)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		loadSpreadsCmd(m.ctx, m.workflow),
		waitForChangeCmd(m.ctx, m.workflow.Changes()),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.workflow.SetViewport(host.Viewport{Width: msg.Width, Height: msg.Height})
		m.resize()
		return m, nil

	case changeMsg:
		cmd := m.sync()
		return m, tea.Batch(cmd, waitForChangeCmd(m.ctx, m.workflow.Changes()))

	case spreadsLoadedMsg:
		if msg.err != nil {
			m.logger.Debug("spread catalog unavailable", "error", msg.err)
		}
		return m, m.sync()

	case submitDoneMsg:
		if msg.err != nil {
			m.logger.Debug("submit finished with error", "error", msg.err)
		}
		return m, m.sync()

	case dailyMsg:
		m.modal = newDailyModal(msg.card, msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.snapshot.Loading {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == focusQuestion && !m.snapshot.HasReading() {
		var cmd tea.Cmd
		m.question, cmd = m.question.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Загрузка..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// sync pulls the latest snapshot from the workflow and reconciles the
// widgets with it.
func (m *Model) sync() tea.Cmd {
	snap := m.workflow.Snapshot()
	prev := m.snapshot
	m.snapshot = snap

	if m.preselect && len(snap.Spreads) > 0 {
		m.preselect = false
		if snap.SpreadID == "" && m.workflow.SelectSpread(m.lastSpread) == nil {
			m.snapshot = m.workflow.Snapshot()
			snap = m.snapshot
		}
	}
	m.clampSpreadCursor()

	// Every keystroke is forwarded immediately, so a mismatch means the
	// workflow cleared the form.
	if snap.Question != m.question.Value() {
		m.question.SetValue(snap.Question)
	}

	switch {
	case snap.HasReading() && !prev.HasReading():
		m.question.Blur()
		m.reading.GotoTop()
	case !snap.HasReading() && prev.HasReading():
		m.focus = focusQuestion
		m.question.Focus()
	}
	if snap.HasReading() {
		if snap.Generation != m.readingGen {
			m.readingGen = snap.Generation
			m.interpretation = ""
			m.reading.GotoTop()
		}
		m.refreshReading()
	}

	if snap.Alert != "" {
		if _, ok := m.modal.(*alertModal); !ok {
			m.modal = newAlertModal(snap.Alert)
		}
	}

	if snap.Loading && !m.spinning {
		m.spinning = true
		return m.spinner.Tick
	}
	return nil
}

func (m *Model) resize() {
	width := contentWidth(m.width)
	m.question.SetWidth(width - 6)

	m.reading.Width = m.width
	m.reading.Height = max(1, m.height-m.chromeHeight())
	m.rendererKey = ""
	m.interpretation = ""
	if m.snapshot.HasReading() {
		m.refreshReading()
	}
}

// chromeHeight is the number of rows taken by the header and footer.
func (m Model) chromeHeight() int {
	return strings.Count(m.renderHeader(), "\n") + 1 + 2
}

func (m Model) compact() bool {
	return host.Viewport{Width: m.width}.Compact()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			if _, ok := m.modal.(*alertModal); ok {
				m.workflow.DismissAlert()
				m.snapshot = m.workflow.Snapshot()
			}
			m.modal = nil
			return m, cmd
		}
		m.modal = modal
		return m, cmd
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	typing := !m.snapshot.HasReading() && m.focus == focusQuestion
	switch msg.String() {
	case "f1":
		m.showHelp = true
		return m, nil
	case "ctrl+t":
		return m, m.cycleTheme()
	}
	if !typing {
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.showHelp = true
			return m, nil
		case key.Matches(msg, m.keys.CycleTheme):
			return m, m.cycleTheme()
		case key.Matches(msg, m.keys.Daily):
			return m, m.fetchDaily()
		}
	}

	if m.snapshot.HasReading() {
		return m.handleReadingKey(msg)
	}
	return m.handleFormKey(msg)
}

// cycleTheme switches to the next theme and persists the choice.
func (m *Model) cycleTheme() tea.Cmd {
	m.theme = GetTheme(NextTheme(m.theme.Name)).WithHostBackground(m.hostBg)
	m.rendererKey = ""
	m.interpretation = ""
	if m.snapshot.HasReading() {
		m.refreshReading()
	}
	name := m.theme.Name
	return m.savePrefs(func(p *prefs.Prefs) { p.Theme = name })
}

func (m Model) savePrefs(fn func(*prefs.Prefs)) tea.Cmd {
	if m.prefsPath == "" {
		return nil
	}
	path, logger := m.prefsPath, m.logger
	return func() tea.Msg {
		if err := prefs.Update(path, fn); err != nil {
			logger.Warn("save prefs failed", "error", err)
		}
		return nil
	}
}

// Messages

type changeMsg struct{}

type spreadsLoadedMsg struct{ err error }

type submitDoneMsg struct{ err error }

type dailyMsg struct {
	card *api.DailyCard
	err  error
}

// Commands

func waitForChangeCmd(ctx context.Context, changes <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-changes:
			return changeMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func loadSpreadsCmd(ctx context.Context, wf Workflow) tea.Cmd {
	return func() tea.Msg {
		return spreadsLoadedMsg{err: wf.LoadSpreads(ctx)}
	}
}

func submitCmd(ctx context.Context, wf Workflow) tea.Cmd {
	return func() tea.Msg {
		return submitDoneMsg{err: wf.Submit(ctx)}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	programOpts := []tea.ProgramOption{tea.WithContext(m.ctx)}
	if opts.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	p := tea.NewProgram(m, programOpts...)
	_, err := p.Run()
	if err != nil && m.ctx.Err() != nil {
		return nil
	}
	return err
}
