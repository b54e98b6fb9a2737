package watch

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"tableflip.dev/itemboard/pkg/board"
	"tableflip.dev/itemboard/pkg/store"
)

type keyMap struct {
	ToggleIDs key.Binding
	Reload    key.Binding
	Quit      key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleIDs, k.Reload, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	ToggleIDs: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "toggle ids")),
	Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
	Quit:      key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

type boardLoadedMsg struct {
	board *board.Board
	err   error
}

// model follows the store and redraws the board on every change.
type model struct {
	ctx         context.Context
	persistence store.Persistence
	showID      bool
	log         *zap.Logger

	board   *board.Board
	loadErr error
	err     error
	help    help.Model

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

func newModel(ctx context.Context, p store.Persistence, showID bool, log *zap.Logger) *model {
	if log == nil {
		log = zap.NewNop()
	}
	return &model{
		ctx:         ctx,
		persistence: p,
		showID:      showID,
		log:         log,
		help:        help.New(),
	}
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(m.load(), startWatchCmd(m.ctx, m.persistence))
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			m.stopWatch()
			return m, tea.Quit
		case key.Matches(msg, keys.ToggleIDs):
			m.showID = !m.showID
		case key.Matches(msg, keys.Reload):
			return m, m.load()
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case watchStartedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		return m, m.waitForWatch()
	case watchEventMsg:
		m.log.Debug("store changed", zap.Stringer("type", msg.event.Type), zap.String("key", msg.event.Key))
		if msg.event.Type == store.EventHistoryChanged {
			return m, m.waitForWatch()
		}
		return m, tea.Batch(m.load(), m.waitForWatch())
	case watchStoppedMsg:
		m.stopWatch()
		return m, tea.Quit
	case boardLoadedMsg:
		if msg.err != nil {
			m.log.Warn("reload failed", zap.Error(msg.err))
			m.loadErr = msg.err
			return m, nil
		}
		m.board = msg.board
		m.loadErr = nil
	}
	return m, nil
}

func (m *model) View() string {
	return render(m.board, m.showID, m.loadErr) + "\n" + m.help.View(keys) + "\n"
}

func (m *model) load() tea.Cmd {
	p := m.persistence
	return func() tea.Msg {
		b, err := p.LoadBoard()
		return boardLoadedMsg{board: b, err: err}
	}
}

func (m *model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

func startWatchCmd(parent context.Context, p store.Persistence) tea.Cmd {
	if p == nil {
		return nil
	}
	if parent == nil {
		parent = context.Background()
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := p.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}
