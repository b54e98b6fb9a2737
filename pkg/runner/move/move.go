// Package move provides the runner for moving items between containers.
package move

import (
	"context"
	"errors"

	"tableflip.dev/itemboard/pkg/app"
	"tableflip.dev/itemboard/pkg/printers"
)

// Move relocates an item to the item list or a category.
type Move struct {
	ID        string
	To        string
	Workspace *app.Workspace
}

func (n *Move) Do(_ context.Context) error {
	if n.Workspace == nil {
		return errors.New("can not move, no workspace")
	}
	if n.To == "" {
		return errors.New("a destination container is required")
	}
	if err := n.Workspace.Dispatcher.MoveItem(n.ID, n.To); err != nil {
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
