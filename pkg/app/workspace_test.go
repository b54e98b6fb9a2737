package app

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/itemboard/pkg/board"
	"tableflip.dev/itemboard/pkg/document"
	"tableflip.dev/itemboard/pkg/history"
	"tableflip.dev/itemboard/pkg/store"
)

var errMissing = errors.New("missing key")

type memoryPersistence struct {
	mu     sync.Mutex
	values map[string][]byte
	saves  int
}

func newMemoryPersistence() *memoryPersistence {
	return &memoryPersistence{values: make(map[string][]byte)}
}

func (m *memoryPersistence) Read(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, errMissing
	}
	return append([]byte(nil), v...), nil
}

func (m *memoryPersistence) Write(key string, val []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), val...)
	return nil
}

func (m *memoryPersistence) Erase(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func (m *memoryPersistence) KV() history.KV {
	return m
}

func (m *memoryPersistence) LoadBoard() (*board.Board, error) {
	data, err := m.Read(store.BoardKey)
	if err != nil {
		return board.New(), nil
	}
	b := board.New()
	return b, json.Unmarshal(data, b)
}

func (m *memoryPersistence) SaveBoard(b *board.Board) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.saves++
	m.mu.Unlock()
	return m.Write(store.BoardKey, data)
}

func (m *memoryPersistence) LoadSession() (*store.Session, error) {
	data, err := m.Read(store.SessionKey)
	if err != nil {
		return &store.Session{}, nil
	}
	s := &store.Session{}
	return s, json.Unmarshal(data, s)
}

func (m *memoryPersistence) SaveSession(s *store.Session) error {
	if s == nil {
		return m.Erase(store.SessionKey)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return m.Write(store.SessionKey, data)
}

func (m *memoryPersistence) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m *memoryPersistence) BasePath() string {
	return ""
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	return nil, nil
}

func openWorkspace(t *testing.T, mp *memoryPersistence) *Workspace {
	t.Helper()
	w, err := Open(Options{
		Persistence: mp,
		Now:         func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return w
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestOpenRequiresPersistence(t *testing.T) {
	if _, err := Open(Options{}); err == nil {
		t.Fatal("expected error without persistence")
	}
}

func TestEditsSurviveReopen(t *testing.T) {
	mp := newMemoryPersistence()
	w := openWorkspace(t, mp)

	id, err := w.Dispatcher.AddItem("milk")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !w.Changed() {
		t.Fatal("expected workspace marked changed")
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
	if w.Changed() {
		t.Fatal("commit should clear the changed flag")
	}
	if err := w.Commit(); err != nil || mp.saves != 1 {
		t.Fatalf("unchanged commit should not save, saves=%d err=%v", mp.saves, err)
	}

	again := openWorkspace(t, mp)
	if _, _, ok := again.Board.Item(id); !ok {
		t.Fatal("item not persisted")
	}
	if !again.History.CanUndo() {
		t.Fatal("history not restored")
	}
	if _, ok := again.Dispatcher.Undo(); !ok {
		t.Fatal("undo failed")
	}
	if again.Board.Len() != 0 {
		t.Fatal("undo after reopen should remove the item")
	}
}

func TestOpenFileClearsHistory(t *testing.T) {
	mp := newMemoryPersistence()
	w := openWorkspace(t, mp)
	if _, err := w.Dispatcher.AddItem("scratch"); err != nil {
		t.Fatalf("add: %v", err)
	}

	path := writeFile(t, "list.json", `{"version":"1.0","items":["a","b"],"categories":[{"name":"Work","items":["x"]}]}`)
	if err := w.OpenFile(context.Background(), path); err != nil {
		t.Fatalf("open file: %v", err)
	}

	if w.History.CanUndo() || w.History.CanRedo() {
		t.Fatal("opening a file should clear history")
	}
	if diff := cmp.Diff([]string{"a", "b"}, w.Board.ItemTexts()); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
	if w.Dispatcher.Board != w.Board {
		t.Fatal("dispatcher must edit the opened board")
	}
	if w.Session.FilePath != path {
		t.Fatalf("expected session path %s, got %s", path, w.Session.FilePath)
	}
	if w.Modified() {
		t.Fatal("freshly opened file is not modified")
	}

	if _, err := w.Dispatcher.AddItem("c"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if !w.Modified() {
		t.Fatal("expected modified after edit")
	}
	w.Dispatcher.Undo()
	if w.Modified() {
		t.Fatal("undo back to the file content should not be modified")
	}
}

func TestOpenFileRejectsBadFormat(t *testing.T) {
	w := openWorkspace(t, newMemoryPersistence())
	if _, err := w.Dispatcher.AddItem("keep"); err != nil {
		t.Fatalf("add: %v", err)
	}
	path := writeFile(t, "bad.json", `{"items":["a"]}`)
	if err := w.OpenFile(context.Background(), path); !errors.Is(err, document.ErrFormat) {
		t.Fatalf("expected ErrFormat, got %v", err)
	}
	if !w.History.CanUndo() || w.Board.Len() != 1 {
		t.Fatal("failed open must leave the workspace alone")
	}
}

func TestSaveFile(t *testing.T) {
	mp := newMemoryPersistence()
	w := openWorkspace(t, mp)
	if _, err := w.SaveFile(context.Background(), ""); !errors.Is(err, ErrNoFile) {
		t.Fatalf("expected ErrNoFile, got %v", err)
	}

	if _, err := w.Dispatcher.AddCategory("Work"); err != nil {
		t.Fatalf("add: %v", err)
	}
	path := filepath.Join(t.TempDir(), "out.json")
	got, err := w.SaveFile(context.Background(), path)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if got != path {
		t.Fatalf("expected %s, got %s", path, got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	doc, err := document.Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := &document.Document{
		Version:    document.Version,
		CreatedAt:  "2024-01-02T03:04:05Z",
		Items:      []string{},
		Categories: []document.CategoryDoc{{Name: "Work", Items: []string{}}},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("saved document mismatch (-want +got):\n%s", diff)
	}
	if w.Modified() {
		t.Fatal("saved workspace is not modified")
	}
	if !w.History.CanUndo() {
		t.Fatal("saving keeps history")
	}

	// Saving again without a path reuses the session file.
	if got, err := w.SaveFile(context.Background(), ""); err != nil || got != path {
		t.Fatalf("expected resave to %s, got %s, %v", path, got, err)
	}
}

func TestNewClearsEverything(t *testing.T) {
	mp := newMemoryPersistence()
	w := openWorkspace(t, mp)
	path := writeFile(t, "list.json", `{"items":["a"],"categories":[]}`)
	if err := w.OpenFile(context.Background(), path); err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := w.Dispatcher.AddItem("b"); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := w.New(); err != nil {
		t.Fatalf("new: %v", err)
	}
	if w.Board.Len() != 0 || w.History.CanUndo() || w.Session.FilePath != "" {
		t.Fatal("expected an empty workspace")
	}
	again := openWorkspace(t, mp)
	if again.Board.Len() != 0 || again.History.CanUndo() || again.Session.FilePath != "" {
		t.Fatal("new workspace should persist")
	}
}

func TestImportsKeepHistory(t *testing.T) {
	mp := newMemoryPersistence()
	w := openWorkspace(t, mp)
	first, err := w.Dispatcher.AddItem("milk")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := w.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}

	items := writeFile(t, "items.json", `["milk", "eggs", ""]`)
	res, err := w.ImportItems(context.Background(), items)
	if err != nil {
		t.Fatalf("import items: %v", err)
	}
	if diff := cmp.Diff(document.Result{Items: 1, SkippedItems: 2}, res); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	cats := writeFile(t, "cats.json", `[{"name": "Home", "items": ["sweep"]}]`)
	res, err = w.ImportCategories(context.Background(), cats)
	if err != nil {
		t.Fatalf("import categories: %v", err)
	}
	if res.Categories != 1 || res.Items != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if w.Changed() {
		t.Fatal("imports are committed immediately")
	}

	if got := w.History.State().UndoCount; got != 1 {
		t.Fatalf("imports are not recorded, expected 1 undo record, got %d", got)
	}
	w.Dispatcher.Undo()
	if _, _, ok := w.Board.Item(first); ok {
		t.Fatal("undo should still remove the first item")
	}
	if diff := cmp.Diff([]string{"eggs"}, w.Board.ItemTexts()); diff != "" {
		t.Fatalf("imported items should survive undo (-want +got):\n%s", diff)
	}
}

func TestStateChangeCallback(t *testing.T) {
	var states []history.State
	w, err := Open(Options{
		Persistence:   newMemoryPersistence(),
		OnStateChange: func(s history.State) { states = append(states, s) },
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := w.Dispatcher.AddItem("a"); err != nil {
		t.Fatalf("add: %v", err)
	}
	w.Dispatcher.Undo()

	want := []history.State{
		{CanUndo: true, UndoCount: 1},
		{CanRedo: true, RedoCount: 1},
	}
	if diff := cmp.Diff(want, states); diff != "" {
		t.Fatalf("states mismatch (-want +got):\n%s", diff)
	}
}
