// Package history keeps bounded undo/redo stacks of operation records and
// persists them to a key-value store.
//
// Nothing in this package returns an error to its caller. Persistence is
// best effort: failures are logged and the in-memory stacks stay
// authoritative.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/itemboard/pkg/operation"
)

const (
	// DefaultMaxSize bounds the undo stack when Options.MaxSize is unset.
	DefaultMaxSize = 50
	// DefaultKey is the store key history is persisted under.
	DefaultKey = "itemManagerHistory"
)

// KV is the persistence contract. *diskv.Diskv satisfies it.
type KV interface {
	Read(key string) ([]byte, error)
	Write(key string, val []byte) error
}

// State is handed to the state-change callback.
type State struct {
	CanUndo   bool `json:"canUndo"`
	CanRedo   bool `json:"canRedo"`
	UndoCount int  `json:"undoCount"`
	RedoCount int  `json:"redoCount"`
}

// Info is a read-only snapshot of the manager.
type Info struct {
	State
	LastOperation *operation.Record `json:"lastOperation"`
}

// Options configure a Manager.
type Options struct {
	MaxSize       int
	OnStateChange func(State)
	Store         KV
	Key           string
	Logger        *zap.Logger
	// Now is the clock used to stamp records. Defaults to time.Now.
	Now func() time.Time
}

// Manager owns the undo and redo stacks. Both are ordered oldest first. It is
// not safe for concurrent use.
type Manager struct {
	undo []operation.Record
	redo []operation.Record

	maxSize       int
	onStateChange func(State)
	store         KV
	key           string
	log           *zap.Logger
	now           func() time.Time
}

// New returns an empty manager. Call Restore to load persisted history.
func New(opts Options) *Manager {
	m := &Manager{
		maxSize:       opts.MaxSize,
		onStateChange: opts.OnStateChange,
		store:         opts.Store,
		key:           opts.Key,
		log:           opts.Logger,
		now:           opts.Now,
	}
	if m.maxSize <= 0 {
		m.maxSize = DefaultMaxSize
	}
	if m.key == "" {
		m.key = DefaultKey
	}
	if m.log == nil {
		m.log = zap.NewNop()
	}
	if m.now == nil {
		m.now = time.Now
	}
	return m
}

// MaxSize returns the undo stack bound.
func (m *Manager) MaxSize() int {
	return m.maxSize
}

// Push records a new operation. The redo stack is always cleared and the
// oldest undo record is evicted once the bound is exceeded. The payload is
// stored as given.
func (m *Manager) Push(data operation.Payload) {
	m.PushRecord(operation.Record{Data: data, Timestamp: m.now().UnixMilli()})
}

// PushRecord is Push for a record that already carries its timestamp.
func (m *Manager) PushRecord(rec operation.Record) {
	m.undo = append(m.undo, rec)
	m.redo = nil
	if len(m.undo) > m.maxSize {
		m.undo = m.undo[len(m.undo)-m.maxSize:]
	}
	m.Persist()
	m.notify()
}

// Undo moves the newest undo record onto the redo stack and returns it for
// replay. It reports false, and changes nothing, when there is nothing to undo.
func (m *Manager) Undo() (operation.Record, bool) {
	if len(m.undo) == 0 {
		return operation.Record{}, false
	}
	rec := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, rec)
	m.Persist()
	m.notify()
	return rec, true
}

// Redo is the mirror of Undo.
func (m *Manager) Redo() (operation.Record, bool) {
	if len(m.redo) == 0 {
		return operation.Record{}, false
	}
	rec := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, rec)
	m.Persist()
	m.notify()
	return rec, true
}

func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// Clear empties both stacks.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
	m.Persist()
	m.notify()
}

// UndoStack returns a copy of the undo stack, oldest first.
func (m *Manager) UndoStack() []operation.Record {
	return append([]operation.Record(nil), m.undo...)
}

// RedoStack returns a copy of the redo stack, oldest first.
func (m *Manager) RedoStack() []operation.Record {
	return append([]operation.Record(nil), m.redo...)
}

// State reports what the undo/redo controls should show.
func (m *Manager) State() State {
	return State{
		CanUndo:   m.CanUndo(),
		CanRedo:   m.CanRedo(),
		UndoCount: len(m.undo),
		RedoCount: len(m.redo),
	}
}

// Info returns the state plus the newest undo record, if any.
func (m *Manager) Info() Info {
	info := Info{State: m.State()}
	if len(m.undo) > 0 {
		last := m.undo[len(m.undo)-1]
		info.LastOperation = &last
	}
	return info
}

func (m *Manager) notify() {
	if m.onStateChange != nil {
		m.onStateChange(m.State())
	}
}

type persisted struct {
	Undo []operation.Record `json:"undo"`
	Redo []operation.Record `json:"redo"`
}

// Persist writes {"undo": [...], "redo": [...]} under the configured key.
func (m *Manager) Persist() {
	if m.store == nil {
		return
	}
	data, err := json.Marshal(persisted{Undo: nonNil(m.undo), Redo: nonNil(m.redo)})
	if err != nil {
		m.log.Error("history: persist failed", zap.String("key", m.key), zap.Error(err))
		return
	}
	if err := m.store.Write(m.key, data); err != nil {
		m.log.Error("history: persist failed", zap.String("key", m.key), zap.Error(err))
	}
}

var errNotObject = errors.New("history: persisted value is not an object")

// Restore replaces the stacks with the persisted ones, each cut to the newest
// MaxSize records. Missing or corrupt data leaves the stacks as they are.
func (m *Manager) Restore() {
	if m.store == nil {
		return
	}
	data, err := m.store.Read(m.key)
	if err != nil {
		m.log.Debug("history: nothing to restore", zap.String("key", m.key), zap.Error(err))
		return
	}
	if len(data) == 0 {
		return
	}
	p, err := decode(data)
	if err != nil {
		m.log.Error("history: restore failed", zap.String("key", m.key), zap.Error(err))
		return
	}
	m.undo = newest(p.Undo, m.maxSize)
	m.redo = newest(p.Redo, m.maxSize)
	m.notify()
}

// newest keeps the top max records of a stack.
func newest(recs []operation.Record, max int) []operation.Record {
	if len(recs) > max {
		return recs[len(recs)-max:]
	}
	return recs
}

func decode(data []byte) (*persisted, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("history: decode: %w", err)
	}
	if raw == nil {
		return nil, errNotObject
	}
	p := &persisted{}
	if v, ok := raw["undo"]; ok {
		if err := json.Unmarshal(v, &p.Undo); err != nil {
			return nil, fmt.Errorf("history: decode undo: %w", err)
		}
	}
	if v, ok := raw["redo"]; ok {
		if err := json.Unmarshal(v, &p.Redo); err != nil {
			return nil, fmt.Errorf("history: decode redo: %w", err)
		}
	}
	return p, nil
}

func nonNil(r []operation.Record) []operation.Record {
	if r == nil {
		return []operation.Record{}
	}
	return r
}
