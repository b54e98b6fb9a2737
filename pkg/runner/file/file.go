// Package file provides runners for creating, opening and saving board files.
package file

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/itemboard/pkg/app"
	"tableflip.dev/itemboard/pkg/printers"
)

// New starts an empty board. Unless Force is set it refuses to drop unsaved
// changes.
type New struct {
	Force     bool
	Workspace *app.Workspace
}

func (n *New) Do(_ context.Context) error {
	if n.Workspace == nil {
		return errors.New("can not create, no workspace")
	}
	if !n.Force && n.Workspace.Modified() {
		return errors.New("the board has unsaved changes, save it or use --force")
	}
	if err := n.Workspace.New(); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(color.Output, "new board created")
	return nil
}

// Open replaces the board with the contents of Path.
type Open struct {
	Path      string
	Force     bool
	Workspace *app.Workspace
}

func (n *Open) Do(ctx context.Context) error {
	if n.Workspace == nil {
		return errors.New("can not open, no workspace")
	}
	if !n.Force && n.Workspace.Modified() {
		return errors.New("the board has unsaved changes, save it or use --force")
	}
	if err := n.Workspace.OpenFile(ctx, n.Path); err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: true}
	pp.Title(n.Path)
	pp.NewLine()
	pp.Board(n.Workspace.Board)
	return nil
}

// Save writes the board to Path, or to the file it was opened from.
type Save struct {
	Path      string
	Workspace *app.Workspace
}

func (n *Save) Do(ctx context.Context) error {
	if n.Workspace == nil {
		return errors.New("can not save, no workspace")
	}
	path, err := n.Workspace.SaveFile(ctx, n.Path)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(color.Output, "saved %s\n", path)
	return nil
}
