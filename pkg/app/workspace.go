// Package app ties the board, its history and the store together so CLIs
// share one way of loading, editing and saving a workspace.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"tableflip.dev/itemboard/pkg/board"
	"tableflip.dev/itemboard/pkg/dispatch"
	"tableflip.dev/itemboard/pkg/document"
	"tableflip.dev/itemboard/pkg/history"
	"tableflip.dev/itemboard/pkg/store"
)

var ErrNoFile = errors.New("app: no file associated with the board")

// Options configure Open.
type Options struct {
	Persistence store.Persistence
	HistoryMax  int
	Logger      *zap.Logger
	// OnStateChange receives undo/redo availability after every history change.
	OnStateChange func(history.State)
	Now           func() time.Time
}

// Workspace is one loaded board with its history and file session.
type Workspace struct {
	Persistence store.Persistence
	Board       *board.Board
	History     *history.Manager
	Dispatcher  *dispatch.Dispatcher
	Session     *store.Session

	dirty bool
	log   *zap.Logger
	now   func() time.Time
}

// Open restores the board, history and session from persistence.
func Open(opts Options) (*Workspace, error) {
	if opts.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	b, err := opts.Persistence.LoadBoard()
	if err != nil {
		return nil, err
	}
	sess, err := opts.Persistence.LoadSession()
	if err != nil {
		return nil, err
	}

	h := history.New(history.Options{
		MaxSize:       opts.HistoryMax,
		OnStateChange: opts.OnStateChange,
		Store:         opts.Persistence.KV(),
		Key:           store.HistoryKey,
		Logger:        log.Named("history"),
		Now:           now,
	})
	h.Restore()

	w := &Workspace{
		Persistence: opts.Persistence,
		Board:       b,
		History:     h,
		Session:     sess,
		log:         log,
		now:         now,
	}
	w.Dispatcher = dispatch.New(b, h, w.markChanged, log.Named("dispatch"))
	return w, nil
}

func (w *Workspace) markChanged() {
	w.dirty = true
}

// Changed reports whether the board changed since Open or the last Commit.
func (w *Workspace) Changed() bool {
	return w.dirty
}

// Commit writes the board back to the store if it changed.
func (w *Workspace) Commit() error {
	if !w.dirty {
		return nil
	}
	if err := w.Persistence.SaveBoard(w.Board); err != nil {
		return err
	}
	w.dirty = false
	return nil
}

// Modified reports whether the board differs from the associated file as it
// was last opened or saved.
func (w *Workspace) Modified() bool {
	current := document.FromBoard(w.Board, time.Time{})
	if w.Session == nil || len(w.Session.Original) == 0 {
		return document.Modified(nil, current)
	}
	original, err := document.Decode(w.Session.Original)
	if err != nil {
		return true
	}
	return document.Modified(original, current)
}

// replace swaps in a new board. History is cleared: its records refer to ids
// of the board being replaced.
func (w *Workspace) replace(b *board.Board) {
	w.Board = b
	w.Dispatcher.Board = b
	w.History.Clear()
	w.dirty = true
}

// New discards the board and the file association.
func (w *Workspace) New() error {
	w.replace(board.New())
	w.Session = &store.Session{}
	if err := w.Persistence.SaveSession(w.Session); err != nil {
		return err
	}
	return w.Commit()
}

// OpenFile loads a document file into a fresh board.
func (w *Workspace) OpenFile(_ context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("app: open %s: %w", path, err)
	}
	doc, err := document.Decode(data)
	if err != nil {
		return err
	}
	w.replace(doc.Board())
	w.Session = &store.Session{FilePath: path, Original: data}
	if err := w.Persistence.SaveSession(w.Session); err != nil {
		return err
	}
	w.log.Debug("opened file", zap.String("path", path), zap.Int("items", w.Board.Len()))
	return w.Commit()
}

// SaveFile writes the board to path, or to the associated file when path is
// empty, and makes it the associated file.
func (w *Workspace) SaveFile(_ context.Context, path string) (string, error) {
	if path == "" && w.Session != nil {
		path = w.Session.FilePath
	}
	if path == "" {
		return "", ErrNoFile
	}
	data, err := document.Encode(document.FromBoard(w.Board, w.now()))
	if err != nil {
		return "", err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("app: save %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("app: save %s: %w", path, err)
	}
	w.Session = &store.Session{FilePath: path, Original: data}
	if err := w.Persistence.SaveSession(w.Session); err != nil {
		return "", err
	}
	return path, w.Commit()
}

// ImportItems adds the items listed in a JSON array file.
func (w *Workspace) ImportItems(_ context.Context, path string) (document.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Result{}, fmt.Errorf("app: import %s: %w", path, err)
	}
	texts, err := document.DecodeItems(data)
	if err != nil {
		return document.Result{}, err
	}
	res := document.ImportItems(w.Board, texts)
	return res, w.afterImport(res)
}

// ImportCategories adds the categories listed in a JSON array file.
func (w *Workspace) ImportCategories(_ context.Context, path string) (document.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return document.Result{}, fmt.Errorf("app: import %s: %w", path, err)
	}
	cats, err := document.DecodeCategories(data)
	if err != nil {
		return document.Result{}, err
	}
	res := document.ImportCategories(w.Board, cats)
	return res, w.afterImport(res)
}

// afterImport saves the board. Imports are not recorded in the history; the
// records already there keep working because imported elements get fresh ids.
func (w *Workspace) afterImport(res document.Result) error {
	if res.Items == 0 && res.Categories == 0 {
		return nil
	}
	w.dirty = true
	return w.Commit()
}
