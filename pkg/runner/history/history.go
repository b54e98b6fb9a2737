// Package history provides the runner that lists or clears the undo/redo
// history.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"tableflip.dev/itemboard/pkg/app"
	"tableflip.dev/itemboard/pkg/history"
	"tableflip.dev/itemboard/pkg/operation"
	"tableflip.dev/itemboard/pkg/printers"
	"tableflip.dev/itemboard/pkg/timeutil"
)

// History prints the stacks, or empties them when Clear is set. A non-zero
// Since limits the listing to records made within that window.
type History struct {
	Clear     bool
	JSON      bool
	Since     time.Duration
	Workspace *app.Workspace

	// Out defaults to color.Output.
	Out io.Writer
	Now func() time.Time
}

// report is the --json shape.
type report struct {
	history.Info
	Undo []operation.Record `json:"undo"`
	Redo []operation.Record `json:"redo"`
}

func (n *History) Do(_ context.Context) error {
	if n.Workspace == nil {
		return errors.New("can not show history, no workspace")
	}
	h := n.Workspace.History
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if n.Clear {
		h.Clear()
		_, _ = fmt.Fprintln(out, "history cleared")
		return nil
	}

	now := time.Now()
	if n.Now != nil {
		now = n.Now()
	}
	undo := n.recent(h.UndoStack(), now)
	redo := n.recent(h.RedoStack(), now)

	if n.JSON {
		b, err := json.MarshalIndent(report{Info: h.Info(), Undo: undo, Redo: redo}, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(out, string(b))
		return nil
	}

	pp := printers.PrettyPrint{Out: n.Out}
	pp.NewLine()
	pp.History(h.Info(), undo, redo, now)
	return nil
}

func (n *History) recent(recs []operation.Record, now time.Time) []operation.Record {
	if n.Since <= 0 {
		return recs
	}
	out := recs[:0]
	for _, r := range recs {
		if timeutil.Within(r.Timestamp, n.Since, now) {
			out = append(out, r)
		}
	}
	return out
}
