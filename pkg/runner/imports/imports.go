// Package imports provides the runner that merges item or category lists
// from JSON files into the board.
package imports

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"tableflip.dev/itemboard/pkg/app"
	"tableflip.dev/itemboard/pkg/document"
)

// Import reads Path as a JSON array of item texts, or of categories when
// Categories is set.
type Import struct {
	Categories bool
	Path       string
	Workspace  *app.Workspace
}

func (n *Import) Do(ctx context.Context) error {
	if n.Workspace == nil {
		return errors.New("can not import, no workspace")
	}

	var (
		res document.Result
		err error
	)
	if n.Categories {
		res, err = n.Workspace.ImportCategories(ctx, n.Path)
	} else {
		res, err = n.Workspace.ImportItems(ctx, n.Path)
	}
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(color.Output, Summary(res, n.Categories))
	return nil
}

// Summary describes an import result in one line.
func Summary(res document.Result, categories bool) string {
	if !categories {
		msg := fmt.Sprintf("imported %d items", res.Items)
		if res.SkippedItems > 0 {
			msg += fmt.Sprintf(", skipped %d blank or duplicate items", res.SkippedItems)
		}
		return msg
	}
	msg := fmt.Sprintf("imported %d categories", res.Categories)
	if res.SkippedCategories > 0 {
		msg += fmt.Sprintf(", skipped %d unnamed or duplicate categories", res.SkippedCategories)
	}
	if res.Items > 0 {
		msg += fmt.Sprintf(", imported %d items into them", res.Items)
	}
	if res.SkippedItems > 0 {
		msg += fmt.Sprintf(", skipped %d blank or duplicate items", res.SkippedItems)
	}
	return msg
}
