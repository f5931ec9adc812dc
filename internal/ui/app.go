package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/marquee/internal/logtail"
	"github.com/five82/marquee/internal/prefs"
	"github.com/five82/marquee/internal/state"
)

// Options configures the UI.
type Options struct {
	Store     *state.Store
	ThemeName string
	// PrefsPath receives theme and pane toggles; empty uses prefs.DefaultPath.
	PrefsPath  string
	ShowStatus bool
	ShowLogs   bool
	// RefreshEvery is the redraw period; it defaults to 50ms.
	RefreshEvery time.Duration
	// OnRefresh is called when the operator asks for an immediate poll.
	OnRefresh func()
	// LogPath is tailed by the log pane; empty or "-" disables it.
	LogPath string
}

const (
	defaultRefresh = 50 * time.Millisecond
	logPaneLines   = 8
	logRefresh     = time.Second
)

// Model is the Bubble Tea model for the panel view.
type Model struct {
	opts  Options
	keys  keyMap
	theme Theme

	width, height int
	sized         bool

	showHelp   bool
	showStatus bool
	showLogs   bool

	snapshot state.Snapshot
	logLines []logtail.Line
	logsAt   time.Time
}

// New creates the model; nothing is read until Init.
func New(opts Options) Model {
	if opts.RefreshEvery <= 0 {
		opts.RefreshEvery = defaultRefresh
	}
	if opts.PrefsPath == "" {
		opts.PrefsPath = prefs.DefaultPath()
	}
	m := Model{
		opts:       opts,
		keys:       DefaultKeyMap(),
		theme:      GetTheme(opts.ThemeName),
		showStatus: opts.ShowStatus,
	}
	m.showLogs = opts.ShowLogs && m.logsEnabled()
	return m
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, opts Options) error {
	if opts.Store == nil {
		return fmt.Errorf("ui requires a data store")
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	switch {
	case err == nil, ctx.Err() != nil, errors.Is(err, tea.ErrProgramKilled):
		return nil
	default:
		return fmt.Errorf("run ui: %w", err)
	}
}

// frameMsg carries the store snapshot taken at one redraw tick.
type frameMsg struct {
	at   time.Time
	snap state.Snapshot
	ok   bool
}

type logsMsg []logtail.Line

func (m Model) nextFrame() tea.Cmd {
	store := m.opts.Store
	return tea.Tick(m.opts.RefreshEvery, func(t time.Time) tea.Msg {
		if store == nil {
			return frameMsg{at: t}
		}
		return frameMsg{at: t, snap: store.Snapshot(), ok: true}
	})
}

func (m Model) readLogs() tea.Cmd {
	path := m.opts.LogPath
	return func() tea.Msg {
		lines, err := logtail.Read(path, logPaneLines, slog.LevelInfo)
		if err != nil {
			return logsMsg{{Text: err.Error(), Level: slog.LevelError}}
		}
		return logsMsg(lines)
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.showLogs {
		return tea.Batch(m.nextFrame(), m.readLogs())
	}
	return m.nextFrame()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height, m.sized = msg.Width, msg.Height, true

	case frameMsg:
		if msg.ok {
			m.snapshot = msg.snap
		}
		cmds := []tea.Cmd{m.nextFrame()}
		if m.showLogs && msg.at.Sub(m.logsAt) >= logRefresh {
			m.logsAt = msg.at
			cmds = append(cmds, m.readLogs())
		}
		return m, tea.Batch(cmds...)

	case logsMsg:
		m.logLines = msg
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	switch {
	case !m.sized:
		return "Loading..."
	case m.showHelp:
		return m.renderHelp()
	default:
		return m.renderMain()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help is modal: the next key only dismisses it.
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	var cmd tea.Cmd
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Refresh):
		if m.opts.OnRefresh != nil {
			m.opts.OnRefresh()
		}
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.savePrefs()
	case key.Matches(msg, m.keys.ToggleStatus):
		m.showStatus = !m.showStatus
		m.savePrefs()
	case key.Matches(msg, m.keys.ToggleLogs):
		if !m.logsEnabled() {
			break
		}
		m.showLogs = !m.showLogs
		m.savePrefs()
		if m.showLogs {
			cmd = m.readLogs()
		}
	}
	return m, cmd
}

func (m Model) logsEnabled() bool {
	return m.opts.LogPath != "" && m.opts.LogPath != "-"
}

// savePrefs is best effort; a read-only home just loses the toggle.
func (m Model) savePrefs() {
	status := m.showStatus
	_ = prefs.Save(m.opts.PrefsPath, prefs.Prefs{
		Theme:      m.theme.Name,
		ShowStatus: &status,
		ShowLogs:   m.showLogs,
	})
}
