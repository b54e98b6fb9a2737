package printers

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/itemboard/pkg/board"
	"tableflip.dev/itemboard/pkg/history"
	"tableflip.dev/itemboard/pkg/operation"
	"tableflip.dev/itemboard/pkg/timeutil"
)

type PrettyPrint struct {
	ShowID bool
	// Out defaults to color.Output.
	Out io.Writer
}

var (
	spacing = strings.Repeat(" ", len("category-000  "))
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out != nil {
		return pp.Out
	}
	return color.Output
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = fmt.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(id, title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		pp.id(id)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " item")
	default:
		_, _ = c.Fprintln(pp.out(), " items")
	}
}

func (pp *PrettyPrint) id(id string) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	_, _ = y.Fprint(pp.out(), id)
	if pad := len(spacing) - len(id); pad > 0 {
		_, _ = fmt.Fprint(pp.out(), strings.Repeat(" ", pad))
	} else {
		_, _ = fmt.Fprint(pp.out(), " ")
	}
}

// Items prints one item per line, or a placeholder when there are none.
func (pp *PrettyPrint) Items(placeholder string, items ...*board.Item) {
	if len(items) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = fmt.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprintf(pp.out(), " %s\n\n", placeholder)
		return
	}

	for _, it := range items {
		if pp.ShowID {
			pp.id(it.ID)
		}
		_, _ = fmt.Fprintf(pp.out(), "  %s\n", it.Text)
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}

// Board prints the item list followed by each category.
func (pp *PrettyPrint) Board(b *board.Board) {
	pp.TitleWithCount(board.ItemContainerID, "Items", len(b.Items))
	pp.Items("no items yet, add one", b.Items...)

	if len(b.Categories) == 0 && b.CategoryPlaceholder {
		pp.Title("Categories")
		pp.Items("no categories yet, add one")
		return
	}
	for _, c := range b.Categories {
		pp.TitleWithCount(c.ID, c.Name, c.Count)
		pp.Items("none", c.Items...)
	}
}

// History prints the undo and redo stacks, newest first.
func (pp *PrettyPrint) History(info history.Info, undo, redo []operation.Record, now time.Time) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 60
	tbl.AddRow(bold.Sprint("Stack"), bold.Sprint("Operation"), bold.Sprint("Details"), bold.Sprint("Age"))
	for i := len(undo) - 1; i >= 0; i-- {
		r := undo[i]
		tbl.AddRow("undo", string(r.Kind()), Describe(r), timeutil.Age(r.Timestamp, now))
	}
	for i := len(redo) - 1; i >= 0; i-- {
		r := redo[i]
		tbl.AddRow(faint.Sprint("redo"), faint.Sprint(string(r.Kind())), faint.Sprint(Describe(r)), faint.Sprint(timeutil.Age(r.Timestamp, now)))
	}

	_, _ = fmt.Fprintln(pp.out(), tbl)
	_, _ = faint.Fprintf(pp.out(), "%d to undo, %d to redo\n", info.UndoCount, info.RedoCount)
}

// Describe summarises a record in one line.
func Describe(rec operation.Record) string {
	switch d := rec.Data.(type) {
	case operation.AddItemData:
		return fmt.Sprintf("%s %q in %s", d.ID, d.Text, d.ContainerID)
	case operation.AddCategoryData:
		return fmt.Sprintf("%s %q", d.ID, d.Name)
	case operation.DeleteItemData:
		return fmt.Sprintf("%s %q from %s", d.ID, d.Text, d.ContainerID)
	case operation.DeleteCategoryData:
		return fmt.Sprintf("%s %q with %d items", d.ID, d.Name, len(d.Items))
	case operation.MoveItemData:
		return fmt.Sprintf("%s %s -> %s", d.ItemID, d.FromContainerID, d.ToContainerID)
	case operation.EditItemData:
		return fmt.Sprintf("%s %q -> %q", d.ID, d.OldText, d.NewText)
	case operation.EditCategoryData:
		return fmt.Sprintf("%s %q -> %q", d.ID, d.OldName, d.NewName)
	default:
		return "unrecognised record"
	}
}
