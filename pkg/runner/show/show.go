// Package show prints the board.
package show

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/itemboard/pkg/app"
	"tableflip.dev/itemboard/pkg/printers"
)

// Show renders the workspace board.
type Show struct {
	ShowID    bool
	JSON      bool
	Workspace *app.Workspace
}

func (n *Show) Do(_ context.Context) error {
	if n.Workspace == nil {
		return errors.New("can not show, no workspace")
	}
	if n.JSON {
		b, err := json.MarshalIndent(n.Workspace.Board, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(color.Output, string(b))
		return nil
	}

	pp := printers.PrettyPrint{ShowID: n.ShowID}
	pp.NewLine()
	pp.Board(n.Workspace.Board)
	return nil
}
