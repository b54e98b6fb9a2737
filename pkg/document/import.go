package document

import (
	"strings"

	"tableflip.dev/itemboard/pkg/board"
)

// Result counts what an import added and what it skipped.
type Result struct {
	Categories        int `json:"categories"`
	SkippedCategories int `json:"skippedCategories"`
	Items             int `json:"items"`
	SkippedItems      int `json:"skippedItems"`
}

// ImportItems appends texts to the item list. Blank texts and texts already
// present in the item list before the import are skipped. Repeats within texts
// are all added.
func ImportItems(b *board.Board, texts []string) Result {
	var res Result
	existing := set(b.ItemTexts())
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			res.SkippedItems++
			continue
		}
		if _, dup := existing[text]; dup {
			res.SkippedItems++
			continue
		}
		b.AppendItem(board.ItemContainerID, &board.Item{ID: b.NewItemID(), Text: text})
		res.Items++
	}
	b.CheckEmpty()
	return res
}

// ImportCategories appends categories with their items. Categories without a
// name or whose name was on the board before the import are skipped, and so
// are items that are blank or already present in the item list.
func ImportCategories(b *board.Board, cats []CategoryDoc) Result {
	var res Result
	names := make(map[string]struct{}, len(b.Categories))
	for _, c := range b.Categories {
		names[strings.TrimSpace(c.Name)] = struct{}{}
	}
	listed := set(b.ItemTexts())
	for _, cd := range cats {
		name := strings.TrimSpace(cd.Name)
		if name == "" {
			res.SkippedCategories++
			continue
		}
		if _, dup := names[name]; dup {
			res.SkippedCategories++
			continue
		}
		c := &board.Category{ID: b.NewCategoryID(), Name: name}
		b.AppendCategory(c)
		for _, text := range cd.Items {
			text = strings.TrimSpace(text)
			if text == "" {
				res.SkippedItems++
				continue
			}
			if _, dup := listed[text]; dup {
				res.SkippedItems++
				continue
			}
			c.Items = append(c.Items, &board.Item{ID: b.NewItemID(), Text: text})
			res.Items++
		}
		b.RecountCategory(c.ID)
		res.Categories++
	}
	b.CheckCategoryEmpty()
	b.CheckEmpty()
	return res
}

func set(list []string) map[string]struct{} {
	out := make(map[string]struct{}, len(list))
	for _, s := range list {
		out[strings.TrimSpace(s)] = struct{}{}
	}
	return out
}
