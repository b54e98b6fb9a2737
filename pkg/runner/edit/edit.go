// Package edit provides the runner for changing item text and category names.
package edit

import (
	"context"
	"errors"

	"tableflip.dev/itemboard/pkg/app"
	"tableflip.dev/itemboard/pkg/printers"
)

// Edit rewrites an item or renames a category.
type Edit struct {
	Category  bool
	ID        string
	Text      string
	Workspace *app.Workspace
}

func (n *Edit) Do(_ context.Context) error {
	if n.Workspace == nil {
		return errors.New("can not edit, no workspace")
	}
	d := n.Workspace.Dispatcher

	var err error
	if n.Category {
		err = d.EditCategory(n.ID, n.Text)
	} else {
		err = d.EditItem(n.ID, n.Text)
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
