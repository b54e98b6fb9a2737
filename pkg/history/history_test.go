package history

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/itemboard/pkg/operation"
)

type memKV struct {
	data     map[string][]byte
	failRead bool
	failSave bool
	writes   int
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string][]byte)}
}

func (m *memKV) Read(key string) ([]byte, error) {
	if m.failRead {
		return nil, errors.New("storage unavailable")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return v, nil
}

func (m *memKV) Write(key string, val []byte) error {
	m.writes++
	if m.failSave {
		return errors.New("quota exceeded")
	}
	m.data[key] = append([]byte(nil), val...)
	return nil
}

func op(id string) operation.Payload {
	return operation.AddItemData{ID: id, Text: id, ContainerID: "itemContainer"}
}

func ids(records []operation.Record) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Data.(operation.AddItemData).ID)
	}
	return out
}

func fixedClock() func() time.Time {
	t := time.UnixMilli(1700000000000)
	return func() time.Time {
		t = t.Add(time.Millisecond)
		return t
	}
}

func TestPushEvictsOldest(t *testing.T) {
	m := New(Options{MaxSize: 2})
	m.Push(op("A"))
	m.Push(op("B"))
	m.Push(op("C"))

	if diff := cmp.Diff([]string{"B", "C"}, ids(m.UndoStack())); diff != "" {
		t.Fatalf("undo stack mismatch (-want +got):\n%s", diff)
	}
}

func TestUndoStackNeverExceedsMax(t *testing.T) {
	m := New(Options{MaxSize: 5})
	for i := 0; i < 40; i++ {
		m.Push(op("x"))
		if n := len(m.UndoStack()); n > 5 {
			t.Fatalf("undo stack grew to %d", n)
		}
	}
}

func TestDefaultMaxSize(t *testing.T) {
	m := New(Options{})
	if m.MaxSize() != DefaultMaxSize {
		t.Fatalf("expected default max %d, got %d", DefaultMaxSize, m.MaxSize())
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := New(Options{})
	m.Push(op("A"))
	m.Push(op("B"))

	rec, ok := m.Undo()
	if !ok || rec.Data.(operation.AddItemData).ID != "B" {
		t.Fatalf("expected to undo B, got %v %v", rec, ok)
	}
	if diff := cmp.Diff([]string{"A"}, ids(m.UndoStack())); diff != "" {
		t.Fatalf("undo stack mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B"}, ids(m.RedoStack())); diff != "" {
		t.Fatalf("redo stack mismatch (-want +got):\n%s", diff)
	}

	m.Push(op("C"))
	if len(m.RedoStack()) != 0 {
		t.Fatalf("expected redo stack cleared, got %v", ids(m.RedoStack()))
	}
	if diff := cmp.Diff([]string{"A", "C"}, ids(m.UndoStack())); diff != "" {
		t.Fatalf("undo stack mismatch (-want +got):\n%s", diff)
	}
}

func TestUndoRedoOnEmpty(t *testing.T) {
	kv := newMemKV()
	calls := 0
	m := New(Options{Store: kv, OnStateChange: func(State) { calls++ }})

	if _, ok := m.Undo(); ok {
		t.Fatal("expected nothing to undo")
	}
	if _, ok := m.Redo(); ok {
		t.Fatal("expected nothing to redo")
	}
	if calls != 0 || kv.writes != 0 {
		t.Fatalf("expected no side effects, got %d notifications and %d writes", calls, kv.writes)
	}

	m.Push(op("A"))
	if _, ok := m.Redo(); ok {
		t.Fatal("expected nothing to redo after push")
	}
	if diff := cmp.Diff([]string{"A"}, ids(m.UndoStack())); diff != "" {
		t.Fatalf("undo stack changed (-want +got):\n%s", diff)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	m := New(Options{Now: fixedClock()})
	m.Push(op("A"))
	before := m.UndoStack()

	if _, ok := m.Undo(); !ok {
		t.Fatal("undo failed")
	}
	rec, ok := m.Redo()
	if !ok {
		t.Fatal("redo failed")
	}
	if rec.Data.(operation.AddItemData).ID != "A" {
		t.Fatalf("redo returned %v", rec)
	}
	if diff := cmp.Diff(before, m.UndoStack()); diff != "" {
		t.Fatalf("undo stack mismatch (-want +got):\n%s", diff)
	}
	if len(m.RedoStack()) != 0 {
		t.Fatal("expected empty redo stack")
	}
}

func TestInfoAfterPush(t *testing.T) {
	m := New(Options{})
	m.Push(op("A"))

	info := m.Info()
	want := State{CanUndo: true, CanRedo: false, UndoCount: 1, RedoCount: 0}
	if diff := cmp.Diff(want, info.State); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
	if info.LastOperation == nil || info.LastOperation.Kind() != operation.AddItem {
		t.Fatalf("unexpected last operation %v", info.LastOperation)
	}
}

func TestStateChangeNotifications(t *testing.T) {
	var got []State
	m := New(Options{OnStateChange: func(s State) { got = append(got, s) }})

	m.Push(op("A"))
	m.Undo()
	m.Redo()
	m.Clear()

	want := []State{
		{CanUndo: true, UndoCount: 1},
		{CanRedo: true, RedoCount: 1},
		{CanUndo: true, UndoCount: 1},
		{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestPersistRestore(t *testing.T) {
	kv := newMemKV()
	m := New(Options{Store: kv, Now: fixedClock()})
	m.Push(op("A"))
	m.Push(operation.DeleteCategoryData{ID: "category-1", Name: "c", Items: []operation.ItemRef{{ID: "item-1", Text: "x"}}})
	m.Push(op("B"))
	m.Undo()

	before, err := json.Marshal(persisted{Undo: m.UndoStack(), Redo: m.RedoStack()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	restored := New(Options{Store: kv})
	restored.Restore()

	after, err := json.Marshal(persisted{Undo: restored.UndoStack(), Redo: restored.RedoStack()})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(before) != string(after) {
		t.Fatalf("restore mismatch:\n got %s\nwant %s", after, before)
	}
}

func TestPersistedLayout(t *testing.T) {
	kv := newMemKV()
	m := New(Options{Store: kv, Now: func() time.Time { return time.UnixMilli(5) }})
	m.Push(operation.AddCategoryData{ID: "category-0", Name: "c"})

	want := `{"undo":[{"type":"addCategory","data":{"id":"category-0","name":"c"},"timestamp":5}],"redo":[]}`
	if got := string(kv.data[DefaultKey]); got != want {
		t.Fatalf("unexpected persisted value:\n got %s\nwant %s", got, want)
	}
}

func TestRestoreLeavesStacksOnBadData(t *testing.T) {
	for name, raw := range map[string]string{
		"corrupt":         `{"undo": [`,
		"null":            `null`,
		"array":           `[1,2,3]`,
		"undo not a list": `{"undo": 3}`,
	} {
		t.Run(name, func(t *testing.T) {
			kv := newMemKV()
			kv.data[DefaultKey] = []byte(raw)
			m := New(Options{Store: kv})
			m.Push(op("A"))

			m.Restore()
			if diff := cmp.Diff([]string{"A"}, ids(m.UndoStack())); diff != "" {
				t.Fatalf("stacks changed (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRestoreMissingKey(t *testing.T) {
	calls := 0
	m := New(Options{Store: newMemKV(), OnStateChange: func(State) { calls++ }})
	m.Restore()
	if m.CanUndo() || m.CanRedo() || calls != 0 {
		t.Fatal("expected restore of missing key to be a no-op")
	}
}

func TestRestoreTrimsToMax(t *testing.T) {
	kv := newMemKV()
	big := New(Options{Store: kv, MaxSize: 10})
	for _, id := range []string{"A", "B", "C", "D"} {
		big.Push(op(id))
	}

	small := New(Options{Store: kv, MaxSize: 2})
	small.Restore()
	if diff := cmp.Diff([]string{"C", "D"}, ids(small.UndoStack())); diff != "" {
		t.Fatalf("undo stack mismatch (-want +got):\n%s", diff)
	}
}

func TestRestoreTrimsRedoToMax(t *testing.T) {
	kv := newMemKV()
	big := New(Options{Store: kv, MaxSize: 10})
	for _, id := range []string{"A", "B", "C", "D", "E"} {
		big.Push(op(id))
	}
	for i := 0; i < 4; i++ {
		big.Undo()
	}

	small := New(Options{Store: kv, MaxSize: 2})
	small.Restore()
	if diff := cmp.Diff([]string{"A"}, ids(small.UndoStack())); diff != "" {
		t.Fatalf("undo stack mismatch (-want +got):\n%s", diff)
	}
	// The top of the redo stack is the next record to redo; it must survive.
	if diff := cmp.Diff([]string{"C", "B"}, ids(small.RedoStack())); diff != "" {
		t.Fatalf("redo stack mismatch (-want +got):\n%s", diff)
	}
	rec, ok := small.Redo()
	if !ok || rec.Data.(operation.AddItemData).ID != "B" {
		t.Fatalf("expected to redo B, got %v", rec)
	}
}

func TestPersistenceFailuresAreSwallowed(t *testing.T) {
	kv := newMemKV()
	kv.failSave = true
	kv.failRead = true
	m := New(Options{Store: kv})

	m.Push(op("A"))
	m.Undo()
	m.Redo()
	m.Clear()
	m.Restore()

	if m.CanUndo() || m.CanRedo() {
		t.Fatal("expected in-memory state to stay authoritative")
	}
}

func TestMalformedPayloadStoredAsIs(t *testing.T) {
	kv := newMemKV()
	m := New(Options{Store: kv})
	m.Push(operation.Unknown{Type: "reorder", Raw: json.RawMessage(`{"x":1}`)})

	restored := New(Options{Store: kv})
	restored.Restore()
	info := restored.Info()
	if info.LastOperation == nil || info.LastOperation.Kind() != "reorder" {
		t.Fatalf("expected unknown record to survive, got %v", info.LastOperation)
	}
}
