package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/itemboard/pkg/board"
	"tableflip.dev/itemboard/pkg/history"
)

const (
	// BoardKey holds the live board between invocations.
	BoardKey = "board"
	// SessionKey holds the file the board was opened from.
	SessionKey = "session"
	// HistoryKey holds the undo/redo stacks.
	HistoryKey = history.DefaultKey
)

// Session remembers the file associated with the board and its content when
// it was last opened or saved.
type Session struct {
	FilePath string `json:"filePath,omitempty"`
	Original []byte `json:"original,omitempty"`
}

// Persistence defines the persistence contract for the workspace.
type Persistence interface {
	// KV exposes the raw key-value store for the history manager.
	KV() history.KV
	LoadBoard() (*board.Board, error)
	SaveBoard(b *board.Board) error
	LoadSession() (*Session, error)
	SaveSession(s *Session) error
	Keys() []string
	BasePath() string
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    flatTransform,
		CacheSizeMax: 1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

// flatTransform keeps every key as a file directly under the base path.
func flatTransform(string) []string {
	return []string{}
}

func (p *persistence) KV() history.KV {
	return p.d
}

func (p *persistence) BasePath() string {
	return p.basePath
}

// LoadBoard returns the stored board, or an empty one when none was saved.
func (p *persistence) LoadBoard() (*board.Board, error) {
	if !p.d.Has(BoardKey) {
		return board.New(), nil
	}
	val, err := p.d.Read(BoardKey)
	if err != nil {
		return nil, fmt.Errorf("store: read board: %w", err)
	}
	b := board.New()
	if err := json.Unmarshal(val, b); err != nil {
		return nil, fmt.Errorf("store: decode board: %w", err)
	}
	repair(b)
	return b, nil
}

// repair restores invariants a hand-edited board file may have lost.
func repair(b *board.Board) {
	for _, it := range b.Items {
		b.Observe(it.ID)
	}
	for _, c := range b.Categories {
		b.Observe(c.ID)
		for _, it := range c.Items {
			b.Observe(it.ID)
		}
	}
	b.CheckEmpty()
	b.CheckCategoryEmpty()
}

func (p *persistence) SaveBoard(b *board.Board) error {
	data, err := json.Marshal(b)
	if err != nil {
		return err
	}
	if err := p.d.Write(BoardKey, data); err != nil {
		return fmt.Errorf("store: write board: %w", err)
	}
	return nil
}

func (p *persistence) LoadSession() (*Session, error) {
	s := &Session{}
	if !p.d.Has(SessionKey) {
		return s, nil
	}
	val, err := p.d.Read(SessionKey)
	if err != nil {
		return nil, fmt.Errorf("store: read session: %w", err)
	}
	if err := json.Unmarshal(val, s); err != nil {
		fmt.Fprintf(os.Stderr, "store: %s: %v\n", SessionKey, err)
		return &Session{}, nil
	}
	return s, nil
}

func (p *persistence) SaveSession(s *Session) error {
	if s == nil {
		return p.d.Erase(SessionKey)
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := p.d.Write(SessionKey, data); err != nil {
		return fmt.Errorf("store: write session: %w", err)
	}
	return nil
}

// Keys lists the stored keys.
func (p *persistence) Keys() []string {
	keys := make([]string, 0, 3)
	for key := range p.d.Keys(nil) {
		keys = append(keys, key)
	}
	return keys
}
