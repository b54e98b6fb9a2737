// Package dispatch applies user actions to a board, records each one in the
// history, and replays history records in either direction.
package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"tableflip.dev/itemboard/pkg/board"
	"tableflip.dev/itemboard/pkg/history"
	"tableflip.dev/itemboard/pkg/operation"
)

var (
	ErrEmptyText = errors.New("dispatch: item text is required")
	ErrEmptyName = errors.New("dispatch: category name is required")
	ErrNotFound  = errors.New("dispatch: not found")
)

// Direction selects which effect of a record Replay applies.
type Direction int

const (
	// Backward reverses the recorded change (undo).
	Backward Direction = iota
	// Forward reapplies it (redo).
	Forward
)

func (d Direction) String() string {
	if d == Forward {
		return "redo"
	}
	return "undo"
}

// Dispatcher owns no state of its own; it mutates Board and feeds History.
type Dispatcher struct {
	Board   *board.Board
	History *history.Manager
	// Notify is called after every change to the board, so the caller can
	// mark its document as unsaved.
	Notify func()

	log *zap.Logger
}

// New wires a dispatcher. A nil logger discards log output.
func New(b *board.Board, h *history.Manager, notify func(), log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{Board: b, History: h, Notify: notify, log: log}
}

func (d *Dispatcher) changed() {
	if d.Notify != nil {
		d.Notify()
	}
}

func (d *Dispatcher) record(p operation.Payload) {
	d.History.Push(p)
	d.changed()
}

// AddItem appends a new item to the item list and returns its id.
func (d *Dispatcher) AddItem(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	id := d.Board.NewItemID()
	d.Board.AppendItem(board.ItemContainerID, &board.Item{ID: id, Text: text})
	d.Board.CheckEmpty()
	d.record(operation.AddItemData{ID: id, Text: text, ContainerID: board.ItemContainerID})
	return id, nil
}

// AddCategory appends a new, empty category and returns its id.
func (d *Dispatcher) AddCategory(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	id := d.Board.NewCategoryID()
	d.Board.AppendCategory(&board.Category{ID: id, Name: name})
	d.Board.CheckCategoryEmpty()
	d.record(operation.AddCategoryData{ID: id, Name: name})
	return id, nil
}

// DeleteItem removes an item from whichever container holds it.
func (d *Dispatcher) DeleteItem(id string) error {
	it, containerID, ok := d.Board.RemoveItem(id)
	if !ok {
		return fmt.Errorf("%w: item %q", ErrNotFound, id)
	}
	d.Board.RecountCategory(containerID)
	d.Board.CheckEmpty()
	d.record(operation.DeleteItemData{ID: it.ID, Text: it.Text, ContainerID: containerID})
	return nil
}

// DeleteCategory removes a category. Its items are moved back to the item
// list rather than discarded.
func (d *Dispatcher) DeleteCategory(id string) error {
	c, ok := d.Board.Category(id)
	if !ok {
		return fmt.Errorf("%w: category %q", ErrNotFound, id)
	}
	refs := make([]operation.ItemRef, 0, len(c.Items))
	for _, it := range c.Items {
		refs = append(refs, operation.ItemRef{ID: it.ID, Text: it.Text})
	}
	d.removeCategory(id)
	d.record(operation.DeleteCategoryData{ID: c.ID, Name: c.Name, Items: refs})
	return nil
}

// MoveItem relocates an item to another container. Moving an item into the
// container it already sits in changes nothing and records nothing.
func (d *Dispatcher) MoveItem(itemID, toContainerID string) error {
	_, fromContainerID, ok := d.Board.Item(itemID)
	if !ok {
		return fmt.Errorf("%w: item %q", ErrNotFound, itemID)
	}
	if !d.Board.HasContainer(toContainerID) {
		return fmt.Errorf("%w: container %q", ErrNotFound, toContainerID)
	}
	if fromContainerID == toContainerID {
		return nil
	}
	d.relocate(itemID, fromContainerID, toContainerID)
	d.record(operation.MoveItemData{ItemID: itemID, FromContainerID: fromContainerID, ToContainerID: toContainerID})
	return nil
}

// EditItem replaces the text of an item.
func (d *Dispatcher) EditItem(id, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyText
	}
	it, containerID, ok := d.Board.Item(id)
	if !ok {
		return fmt.Errorf("%w: item %q", ErrNotFound, id)
	}
	old := it.Text
	it.Text = text
	d.record(operation.EditItemData{ID: id, OldText: old, NewText: text, ContainerID: containerID})
	return nil
}

// EditCategory renames a category, keeping its count indicator.
func (d *Dispatcher) EditCategory(id, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	c, ok := d.Board.Category(id)
	if !ok {
		return fmt.Errorf("%w: category %q", ErrNotFound, id)
	}
	old := c.Name
	c.Name = name
	d.record(operation.EditCategoryData{ID: id, OldName: old, NewName: name})
	return nil
}

// Undo pops the newest record and reverses it. It reports false when the
// history is empty.
func (d *Dispatcher) Undo() (operation.Record, bool) {
	rec, ok := d.History.Undo()
	if !ok {
		return rec, false
	}
	d.Replay(rec, Backward)
	return rec, true
}

// Redo pops the newest undone record and reapplies it.
func (d *Dispatcher) Redo() (operation.Record, bool) {
	rec, ok := d.History.Redo()
	if !ok {
		return rec, false
	}
	d.Replay(rec, Forward)
	return rec, true
}

// Replay applies one side of a record to the board. Records whose target is
// gone are skipped silently. Records of an unknown kind, or of a known kind
// whose data did not decode, are logged and skipped.
func (d *Dispatcher) Replay(rec operation.Record, dir Direction) {
	switch data := rec.Data.(type) {
	case operation.AddItemData:
		if dir == Backward {
			d.dropItem(data.ID)
		} else {
			d.restoreItem(data.ID, data.Text, data.ContainerID)
		}
	case operation.AddCategoryData:
		if dir == Backward {
			d.dropCategory(data.ID)
		} else {
			d.restoreCategory(data.ID, data.Name, nil)
		}
	case operation.DeleteItemData:
		if dir == Backward {
			d.restoreItem(data.ID, data.Text, data.ContainerID)
		} else {
			d.dropItem(data.ID)
		}
	case operation.DeleteCategoryData:
		if dir == Backward {
			d.restoreCategory(data.ID, data.Name, data.Items)
		} else {
			d.removeCategory(data.ID)
		}
	case operation.MoveItemData:
		if dir == Backward {
			d.relocate(data.ItemID, data.ToContainerID, data.FromContainerID)
		} else {
			d.relocate(data.ItemID, data.FromContainerID, data.ToContainerID)
		}
	case operation.EditItemData:
		text := data.NewText
		if dir == Backward {
			text = data.OldText
		}
		d.Board.SetItemText(data.ID, text)
	case operation.EditCategoryData:
		name := data.NewName
		if dir == Backward {
			name = data.OldName
		}
		d.Board.SetCategoryName(data.ID, name)
	default:
		msg := "dispatch: unknown operation type"
		if rec.Kind().Known() {
			msg = "dispatch: malformed operation data"
		}
		d.log.Warn(msg,
			zap.String("type", string(rec.Kind())),
			zap.Stringer("direction", dir))
		return
	}
	d.changed()
}

func (d *Dispatcher) dropItem(id string) {
	_, containerID, ok := d.Board.RemoveItem(id)
	if !ok {
		return
	}
	d.Board.RecountCategory(containerID)
	d.Board.CheckEmpty()
}

func (d *Dispatcher) restoreItem(id, text, containerID string) {
	if _, _, exists := d.Board.Item(id); exists {
		return
	}
	if !d.Board.AppendItem(containerID, &board.Item{ID: id, Text: text}) {
		return
	}
	d.Board.RecountCategory(containerID)
	d.Board.CheckEmpty()
}

func (d *Dispatcher) dropCategory(id string) {
	if _, ok := d.Board.RemoveCategory(id); !ok {
		return
	}
	d.Board.CheckCategoryEmpty()
}

// restoreCategory recreates a category and reinstates its recorded items in
// order. Items still on the board are pulled back in; missing ones are
// recreated from the record.
func (d *Dispatcher) restoreCategory(id, name string, items []operation.ItemRef) {
	if _, exists := d.Board.Category(id); exists {
		return
	}
	c := &board.Category{ID: id, Name: name}
	d.Board.AppendCategory(c)
	for _, ref := range items {
		if it, _, ok := d.Board.RemoveItem(ref.ID); ok {
			c.Items = append(c.Items, it)
			continue
		}
		c.Items = append(c.Items, &board.Item{ID: ref.ID, Text: ref.Text})
		d.Board.Observe(ref.ID)
	}
	d.Board.RecountCategory(id)
	d.Board.CheckCategoryEmpty()
	d.Board.CheckEmpty()
}

// removeCategory deletes a category and returns its items to the item list.
func (d *Dispatcher) removeCategory(id string) {
	c, ok := d.Board.RemoveCategory(id)
	if !ok {
		return
	}
	for _, it := range c.Items {
		d.Board.AppendItem(board.ItemContainerID, it)
	}
	d.Board.CheckCategoryEmpty()
	d.Board.CheckEmpty()
}

func (d *Dispatcher) relocate(itemID, fromContainerID, toContainerID string) {
	if !d.Board.RelocateItem(itemID, toContainerID) {
		return
	}
	d.Board.RecountCategory(fromContainerID)
	d.Board.RecountCategory(toContainerID)
	d.Board.CheckEmpty()
}
