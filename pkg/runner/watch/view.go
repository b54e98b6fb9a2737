package watch

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tableflip.dev/itemboard/pkg/board"
)

const idWidth = len("category-000  ")

var (
	titleStyle       = lipgloss.NewStyle().Bold(true).Underline(true)
	countStyle       = lipgloss.NewStyle().Faint(true)
	idStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Italic(true).Faint(true).Width(idWidth)
	itemStyle        = lipgloss.NewStyle().PaddingLeft(2)
	placeholderStyle = lipgloss.NewStyle().Faint(true).Italic(true).PaddingLeft(1)
	errStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// render draws the board the same way the show command prints it.
func render(b *board.Board, showID bool, loadErr error) string {
	var sb strings.Builder
	if loadErr != nil {
		sb.WriteString(errStyle.Render("reload failed: "+loadErr.Error()) + "\n\n")
	}
	if b == nil {
		sb.WriteString(placeholderStyle.Render("loading...") + "\n")
		return sb.String()
	}

	section(&sb, showID, board.ItemContainerID, "Items", len(b.Items), true)
	items(&sb, showID, "no items yet, add one", b.Items)

	if len(b.Categories) == 0 && b.CategoryPlaceholder {
		section(&sb, showID, "", "Categories", 0, false)
		items(&sb, showID, "no categories yet, add one", nil)
		return sb.String()
	}
	for _, c := range b.Categories {
		section(&sb, showID, c.ID, c.Name, c.Count, true)
		items(&sb, showID, "none", c.Items)
	}
	return sb.String()
}

func section(sb *strings.Builder, showID bool, id, title string, count int, withCount bool) {
	row := []string{}
	if showID {
		row = append(row, idStyle.Render(id))
	}
	row = append(row, titleStyle.Render(title))
	if withCount {
		unit := "items"
		if count == 1 {
			unit = "item"
		}
		row = append(row, countStyle.Render(fmt.Sprintf(" - %d %s", count, unit)))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...) + "\n")
}

func items(sb *strings.Builder, showID bool, placeholder string, list []*board.Item) {
	if len(list) == 0 {
		row := placeholderStyle.Render(placeholder)
		if showID {
			row = idStyle.Render("") + row
		}
		sb.WriteString(row + "\n\n")
		return
	}
	for _, it := range list {
		row := itemStyle.Render(it.Text)
		if showID {
			row = idStyle.Render(it.ID) + row
		}
		sb.WriteString(row + "\n")
	}
	sb.WriteString("\n")
}
