// Package undo provides the runner that walks the undo/redo history.
package undo

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/itemboard/pkg/app"
	"tableflip.dev/itemboard/pkg/printers"
)

// Undo reverses (or, with Redo set, reapplies) up to Steps records.
type Undo struct {
	Redo      bool
	Steps     int
	Workspace *app.Workspace
}

func (n *Undo) Do(_ context.Context) error {
	if n.Workspace == nil {
		return errors.New("can not undo, no workspace")
	}
	steps := n.Steps
	if steps <= 0 {
		steps = 1
	}

	verb := "undo"
	step := n.Workspace.Dispatcher.Undo
	if n.Redo {
		verb = "redo"
		step = n.Workspace.Dispatcher.Redo
	}

	faint := color.New(color.Faint)
	done := 0
	for ; done < steps; done++ {
		rec, ok := step()
		if !ok {
			break
		}
		_, _ = faint.Fprintf(color.Output, "%s %s: %s\n", verb, rec.Kind(), printers.Describe(rec))
	}
	if done == 0 {
		_, _ = fmt.Fprintf(color.Output, "nothing to %s\n", verb)
		return nil
	}
	if err := n.Workspace.Commit(); err != nil {
		return err
	}

	pp := printers.PrettyPrint{ShowID: true}
	pp.NewLine()
	pp.Board(n.Workspace.Board)
	return nil
}
