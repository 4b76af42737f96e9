package ui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/taskdeck/internal/prefs"
	"github.com/five82/taskdeck/internal/state"
	"github.com/five82/taskdeck/internal/syncengine"
	"github.com/five82/taskdeck/internal/todos"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Engine    *syncengine.Engine
	APIURL    string
	PollTick  time.Duration
	ThemeName string
	Compact   bool
	PrefsPath string
	Logger    *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	engine    *syncengine.Engine
	store     *state.Store
	logger    *slog.Logger
	apiURL    string
	prefsPath string
	pollTick  time.Duration

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	spinner  spinner.Model
	width    int
	height   int
	ready    bool
	showHelp bool
	compact  bool

	// Data state
	snapshot state.Snapshot
	selected int

	// Add form
	adding     bool
	submitting bool
	input      textinput.Model

	// alert stays visible until the next key press.
	alert string
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = "Nightfox"
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	input := textinput.New()
	input.Placeholder = "What needs doing?"
	input.Prompt = "New task: "
	input.CharLimit = 200

	m := Model{
		ctx:       ctx,
		engine:    opts.Engine,
		logger:    logger,
		apiURL:    opts.APIURL,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		compact:   opts.Compact,
		input:     input,
	}
	if opts.Engine != nil {
		m.store = opts.Engine.Store()
		m.snapshot = opts.Engine.Snapshot()
	}
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		m.spinner.Tick,
	}
	if m.engine != nil {
		cmds = append(cmds,
			waitForChange(m.ctx, m.store),
			loadCmd(m.ctx, m.engine),
		)
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-4, 10)
		m.ready = true
		return m, nil

	case tickMsg:
		m.refreshSnapshot()
		return m, tickCmd(m.pollTick)

	case storeChangedMsg:
		m.refreshSnapshot()
		return m, waitForChange(m.ctx, m.store)

	case opDoneMsg:
		if msg.err != nil {
			m.logger.Debug("operation failed", "op", msg.op, "error", msg.err)
		}
		m.refreshSnapshot()
		return m, nil

	case taskAddedMsg:
		return m.handleTaskAdded(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.adding {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key acknowledges an alert and is otherwise ignored.
	if m.alert != "" {
		m.alert = ""
		return m, nil
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.adding {
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.applyTheme()
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Compact):
		m.compact = !m.compact
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, loadCmd(m.ctx, m.engine)

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)
		return m, nil

	case key.Matches(msg, m.keys.Top):
		m.selected = 0
		return m, nil

	case key.Matches(msg, m.keys.Bottom):
		m.selected = max(len(m.snapshot.Tasks)-1, 0)
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		task, ok := m.selectedTask()
		if !ok || m.engine == nil {
			return m, nil
		}
		// The local flip happens here so the next key press sees it.
		next := m.engine.ApplyToggle(task.ID, task.IsCompleted)
		m.refreshSnapshot()
		return m, pushToggleCmd(m.ctx, m.engine, task.ID, next)

	case key.Matches(msg, m.keys.Delete):
		task, ok := m.selectedTask()
		if !ok || m.engine == nil {
			return m, nil
		}
		m.engine.ApplyRemove(task.ID)
		m.refreshSnapshot()
		return m, pushRemoveCmd(m.ctx, m.engine, task.ID)

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.Reset()
		return m, m.input.Focus()
	}

	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.closeForm()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		title := m.input.Value()
		if m.submitting || strings.TrimSpace(title) == "" {
			return m, nil
		}
		m.submitting = true
		return m, addCmd(m.ctx, m.engine, title)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleTaskAdded(msg taskAddedMsg) (tea.Model, tea.Cmd) {
	m.submitting = false
	m.refreshSnapshot()

	if msg.err != nil {
		if errors.Is(msg.err, syncengine.ErrEmptyTitle) {
			return m, nil
		}
		var alert *syncengine.AlertError
		if errors.As(msg.err, &alert) {
			m.alert = alert.Message
		} else {
			m.alert = syncengine.AddFailedMessage
		}
		// The typed title stays in the form so it can be retried.
		return m, nil
	}

	m.closeForm()
	if i := m.indexOf(msg.task.ID); i >= 0 {
		m.selected = i
	}
	return m, nil
}

func (m *Model) closeForm() {
	m.adding = false
	m.submitting = false
	m.input.Reset()
	m.input.Blur()
}

func (m *Model) refreshSnapshot() {
	if m.engine == nil {
		return
	}
	m.snapshot = m.engine.Snapshot()
	m.clampSelection()
}

func (m *Model) moveSelection(delta int) {
	m.selected += delta
	m.clampSelection()
}

func (m *Model) clampSelection() {
	n := len(m.snapshot.Tasks)
	switch {
	case n == 0:
		m.selected = 0
	case m.selected >= n:
		m.selected = n - 1
	case m.selected < 0:
		m.selected = 0
	}
}

func (m Model) selectedTask() (task todos.Task, ok bool) {
	if m.selected < 0 || m.selected >= len(m.snapshot.Tasks) {
		return todos.Task{}, false
	}
	return m.snapshot.Tasks[m.selected], true
}

func (m Model) indexOf(id int64) int {
	for i, t := range m.snapshot.Tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) applyTheme() {
	styles := m.theme.Styles()
	m.spinner.Style = styles.AccentText
	m.input.PromptStyle = styles.AccentText
	m.input.TextStyle = styles.Text
	m.input.PlaceholderStyle = styles.FaintText
	m.help.Styles.ShortKey = styles.WarningText
	m.help.Styles.ShortDesc = styles.MutedText
	m.help.Styles.ShortSeparator = styles.FaintText
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, Compact: m.compact}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.logger.Warn("save preferences failed", "path", m.prefsPath, "error", err)
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
