// Package remove provides the runner for deleting items and categories.
package remove

import (
	"context"
	"errors"

	"tableflip.dev/itemboard/pkg/app"
	"tableflip.dev/itemboard/pkg/printers"
)

// Remove deletes an item, or a category whose items go back to the item list.
type Remove struct {
	Category  bool
	ID        string
	Workspace *app.Workspace
}

func (n *Remove) Do(_ context.Context) error {
	if n.Workspace == nil {
		return errors.New("can not delete, no workspace")
	}
	d := n.Workspace.Dispatcher

	var err error
	if n.Category {
		err = d.DeleteCategory(n.ID)
	} else {
		err = d.DeleteItem(n.ID)
	}
	if err != nil {
		return err
	}
	if err := n.Workspace.Commit(); err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: true}
	pp.NewLine()
	pp.Board(n.Workspace.Board)
	return nil
}
