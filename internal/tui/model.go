package tui

import (
	"context"
	"errors"
	"strings"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	"github.com/evanschultz/lists/internal/app"
)

// Model is the bubbletea model for the checklist screen. It owns the
// *app.State exclusively; every key press is dispatched on the state's mode.
type Model struct {
	ctx      context.Context
	state    *app.State
	logger   app.Logger
	keys     keyMap
	help     help.Model
	ui       UIConfig
	copyText func(string) error

	ready  bool
	width  int
	height int

	status    string
	statusErr bool

	// err is the fatal error that stopped the program, if any.
	err error
}

// NewModel constructs a model over an opened state.
func NewModel(state *app.State, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		ctx:      context.Background(),
		state:    state,
		logger:   app.NopLogger{},
		keys:     newKeyMap(),
		help:     h,
		ui:       DefaultUIConfig(),
		copyText: defaultClipboard,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}
	return m
}

// Init handles init.
func (m Model) Init() tea.Cmd {
	return nil
}

// Err returns the fatal error that ended the program, or nil after a clean quit.
func (m Model) Err() error {
	return m.err
}

// Update updates state for the requested operation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		if msg.IsRepeat || m.err != nil {
			return m, nil
		}
		return m.dispatchKey(msg)

	case tea.PasteMsg:
		if m.err != nil || !m.state.Mode().IsTextEntry() {
			return m, nil
		}
		m.state.AppendInput(pasteReplacer.Replace(msg.Content))
		return m, nil

	default:
		return m, nil
	}
}

// pasteReplacer flattens multi-line pastes into a single name.
var pasteReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "\t", " ")

// setStatus shows an informational message on the status line.
func (m *Model) setStatus(status string) {
	m.status = status
	m.statusErr = false
}

// finish applies the outcome of a state operation. Persistence failures are
// fatal and quit the program; anything else is shown on the status line.
func (m Model) finish(op string, err error, okStatus string) (tea.Model, tea.Cmd) {
	switch {
	case err == nil:
		m.setStatus(okStatus)
		return m, nil
	case errors.Is(err, app.ErrPersist):
		m.logger.Error("persistence failed, stopping", "op", op, "err", err)
		m.err = err
		return m, tea.Quit
	default:
		m.logger.Warn("operation rejected", "op", op, "err", err)
		m.status = "error: " + err.Error()
		m.statusErr = true
		return m, nil
	}
}
