// Package add provides the runner for adding items and categories.
package add

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/itemboard/pkg/app"
	"tableflip.dev/itemboard/pkg/board"
	"tableflip.dev/itemboard/pkg/dispatch"
	"tableflip.dev/itemboard/pkg/printers"
)

// Add appends an item to the item list, or a new category.
type Add struct {
	Category  bool
	Text      string
	Into      string
	Workspace *app.Workspace
}

func (n *Add) Do(_ context.Context) error {
	if n.Workspace == nil {
		return errors.New("can not add, no workspace")
	}
	d := n.Workspace.Dispatcher

	if n.Category {
		if _, err := d.AddCategory(n.Text); err != nil {
			return err
		}
	} else {
		into := n.Into != "" && n.Into != board.ItemContainerID
		// Check the target first so a bad --to leaves neither the board nor
		// the history touched.
		if into && !n.Workspace.Board.HasContainer(n.Into) {
			return fmt.Errorf("can not add to %q: %w", n.Into, dispatch.ErrNotFound)
		}
		id, err := d.AddItem(n.Text)
		if err != nil {
			return err
		}
		if into {
			if err := d.MoveItem(id, n.Into); err != nil {
				return fmt.Errorf("added %s but could not move it: %w", id, err)
			}
		}
	}
	if err := n.Workspace.Commit(); err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: true}
	pp.NewLine()
	pp.Board(n.Workspace.Board)
	return nil
}
