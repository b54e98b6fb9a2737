package watch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"tableflip.dev/itemboard/pkg/board"
	"tableflip.dev/itemboard/pkg/history"
	"tableflip.dev/itemboard/pkg/store"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

type fakePersistence struct {
	mu       sync.Mutex
	board    *board.Board
	loadErr  error
	loads    int
	events   chan store.Event
	watchCtx context.Context
	watchErr error
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{board: board.New(), events: make(chan store.Event, 8)}
}

func (f *fakePersistence) KV() history.KV { return nil }

func (f *fakePersistence) LoadBoard() (*board.Board, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.board.Clone(), nil
}

func (f *fakePersistence) SaveBoard(b *board.Board) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.board = b.Clone()
	return nil
}

func (f *fakePersistence) LoadSession() (*store.Session, error) { return &store.Session{}, nil }
func (f *fakePersistence) SaveSession(*store.Session) error     { return nil }
func (f *fakePersistence) Keys() []string                       { return nil }
func (f *fakePersistence) BasePath() string                     { return "" }

func (f *fakePersistence) Watch(ctx context.Context) (<-chan store.Event, error) {
	if f.watchErr != nil {
		return nil, f.watchErr
	}
	f.watchCtx = ctx
	return f.events, nil
}

func (f *fakePersistence) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

// run executes cmd and flattens batches. Commands that wait on the event
// channel must have an event ready.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func isQuit(cmd tea.Cmd) bool {
	for _, msg := range run(cmd) {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

func press(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// started returns a model whose watch subscription is live, plus the command
// waiting for the first event.
func started(t *testing.T, fp *fakePersistence) (*model, tea.Cmd) {
	t.Helper()
	m := newModel(context.Background(), fp, false, nil)
	msg := startWatchCmd(m.ctx, fp)()
	sm, ok := msg.(watchStartedMsg)
	if !ok || sm.err != nil {
		t.Fatalf("unexpected start message %#v", msg)
	}
	_, cmd := m.Update(sm)
	if cmd == nil {
		t.Fatal("expected a command waiting for events")
	}
	return m, cmd
}

func groceries() *board.Board {
	b := board.New()
	b.AppendItem(board.ItemContainerID, &board.Item{ID: b.NewItemID(), Text: "milk"})
	c := &board.Category{ID: b.NewCategoryID(), Name: "Groceries"}
	b.AppendCategory(c)
	b.AppendItem(c.ID, &board.Item{ID: b.NewItemID(), Text: "bread"})
	b.RecountCategory(c.ID)
	b.CheckEmpty()
	b.CheckCategoryEmpty()
	return b
}

func TestRenderBoard(t *testing.T) {
	tests := map[string]struct {
		board   *board.Board
		showID  bool
		loadErr error
		want    []string
		notWant []string
	}{
		"loading": {
			want: []string{"loading..."},
		},
		"empty board": {
			board: board.New(),
			want:  []string{"Items - 0 items", "no items yet, add one", "Categories", "no categories yet, add one"},
		},
		"with categories": {
			board:   groceries(),
			want:    []string{"Items - 1 item", "milk", "Groceries - 1 item", "bread"},
			notWant: []string{"item-0", "no categories yet"},
		},
		"with ids": {
			board:  groceries(),
			showID: true,
			want:   []string{"itemContainer", "item-0", "category-0", "item-1"},
		},
		"reload error": {
			board:   groceries(),
			loadErr: errors.New("disk gone"),
			want:    []string{"reload failed: disk gone", "milk"},
		},
	}
	for n, tc := range tests {
		t.Run(n, func(t *testing.T) {
			got := render(tc.board, tc.showID, tc.loadErr)
			for _, w := range tc.want {
				if !strings.Contains(got, w) {
					t.Errorf("expected %q in:\n%s", w, got)
				}
			}
			for _, w := range tc.notWant {
				if strings.Contains(got, w) {
					t.Errorf("did not expect %q in:\n%s", w, got)
				}
			}
		})
	}
}

func TestBoardEventsReload(t *testing.T) {
	fp := newFakePersistence()
	m, wait := started(t, fp)

	_ = fp.SaveBoard(groceries())
	fp.events <- store.Event{Type: store.EventBoardChanged, Key: store.BoardKey}
	msgs := run(wait)
	if len(msgs) != 1 {
		t.Fatalf("expected one event message, got %d", len(msgs))
	}

	_, cmd := m.Update(msgs[0])
	// Queue the next event so the re-issued wait returns.
	fp.events <- store.Event{Type: store.EventHistoryChanged, Key: store.HistoryKey}
	var next tea.Msg
	for _, msg := range run(cmd) {
		if ev, ok := msg.(watchEventMsg); ok {
			next = ev
			continue
		}
		m.Update(msg)
	}
	if fp.loadCount() != 1 {
		t.Fatalf("expected 1 load, got %d", fp.loadCount())
	}
	if view := m.View(); !strings.Contains(view, "Groceries - 1 item") {
		t.Fatalf("expected the reloaded board in:\n%s", view)
	}

	// History-only changes do not touch the board.
	if next == nil {
		t.Fatal("watch was not re-armed after the board event")
	}
	_, cmd = m.Update(next)
	close(fp.events)
	for _, msg := range run(cmd) {
		if _, ok := msg.(watchStoppedMsg); !ok {
			t.Fatalf("expected the watch to stop, got %#v", msg)
		}
		_, quit := m.Update(msg)
		if !isQuit(quit) {
			t.Fatal("expected quit once the event stream closes")
		}
	}
	if fp.loadCount() != 1 {
		t.Fatalf("history events must not reload, got %d loads", fp.loadCount())
	}
}

func TestReloadFailureKeepsLastBoard(t *testing.T) {
	fp := newFakePersistence()
	_ = fp.SaveBoard(groceries())
	m, _ := started(t, fp)

	for _, msg := range run(m.load()) {
		m.Update(msg)
	}
	fp.loadErr = errors.New("disk gone")
	for _, msg := range run(m.load()) {
		m.Update(msg)
	}

	view := m.View()
	for _, want := range []string{"reload failed: disk gone", "milk"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in:\n%s", want, view)
		}
	}
}

func TestKeys(t *testing.T) {
	fp := newFakePersistence()
	_ = fp.SaveBoard(groceries())
	m, _ := started(t, fp)
	for _, msg := range run(m.load()) {
		m.Update(msg)
	}

	if strings.Contains(m.View(), "item-0") {
		t.Fatal("ids should be hidden by default")
	}
	m.Update(press('i'))
	if !strings.Contains(m.View(), "item-0") {
		t.Fatalf("expected ids after toggling:\n%s", m.View())
	}

	_, cmd := m.Update(press('r'))
	for _, msg := range run(cmd) {
		m.Update(msg)
	}
	if fp.loadCount() != 2 {
		t.Fatalf("expected reload on r, got %d loads", fp.loadCount())
	}

	_, cmd = m.Update(press('q'))
	if !isQuit(cmd) {
		t.Fatal("expected q to quit")
	}
	if fp.watchCtx.Err() == nil {
		t.Fatal("expected quitting to cancel the watch")
	}
}

func TestWatchStartFailureQuits(t *testing.T) {
	fp := newFakePersistence()
	fp.watchErr = errors.New("no inotify")
	m := newModel(context.Background(), fp, false, nil)

	_, cmd := m.Update(startWatchCmd(m.ctx, fp)())
	if !isQuit(cmd) {
		t.Fatal("expected quit when the watch cannot start")
	}
	if m.err == nil {
		t.Fatal("expected the start error to be kept for Do")
	}
}

func TestDoRequiresPersistence(t *testing.T) {
	w := &Watch{}
	if err := w.Do(context.Background()); err == nil {
		t.Fatal("expected an error without persistence")
	}
}
