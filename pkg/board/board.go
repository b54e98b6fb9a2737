// Package board holds the live state edited by itemboard: a plain item list
// and an ordered set of categories, each owning its own items.
package board

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// ItemContainerID identifies the plain item list. It has no count indicator.
	ItemContainerID = "itemContainer"

	itemPrefix     = "item-"
	categoryPrefix = "category-"
)

// Item is a single entry.
type Item struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Category is a named container of items. Count is the displayed item count;
// it only changes when the board recounts the category.
type Category struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Items []*Item `json:"items"`
	Count int     `json:"count"`
}

// Label renders the category title with its count suffix, e.g. "Work(3)".
func (c *Category) Label() string {
	return fmt.Sprintf("%s(%d)", c.Name, c.Count)
}

// Board is the live state. Ids are never reused: NextItem and NextCategory
// only grow.
type Board struct {
	Items        []*Item     `json:"items"`
	Categories   []*Category `json:"categories"`
	NextItem     int         `json:"nextItem"`
	NextCategory int         `json:"nextCategory"`

	// ItemPlaceholder and CategoryPlaceholder mirror the "nothing here yet"
	// messages shown for an empty item list or category list.
	ItemPlaceholder     bool `json:"itemPlaceholder"`
	CategoryPlaceholder bool `json:"categoryPlaceholder"`
}

// New returns an empty board with both placeholders showing.
func New() *Board {
	return &Board{ItemPlaceholder: true, CategoryPlaceholder: true}
}

// NewItemID mints the next item id.
func (b *Board) NewItemID() string {
	id := itemPrefix + strconv.Itoa(b.NextItem)
	b.NextItem++
	return id
}

// NewCategoryID mints the next category id.
func (b *Board) NewCategoryID() string {
	id := categoryPrefix + strconv.Itoa(b.NextCategory)
	b.NextCategory++
	return id
}

// Observe moves the id counters past id so a recreated element never
// collides with a freshly minted one.
func (b *Board) Observe(id string) {
	if n, ok := suffix(id, itemPrefix); ok && n >= b.NextItem {
		b.NextItem = n + 1
	}
	if n, ok := suffix(id, categoryPrefix); ok && n >= b.NextCategory {
		b.NextCategory = n + 1
	}
}

func suffix(id, prefix string) (int, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// Item finds an item anywhere on the board and reports the container holding
// it.
func (b *Board) Item(id string) (*Item, string, bool) {
	for _, it := range b.Items {
		if it.ID == id {
			return it, ItemContainerID, true
		}
	}
	for _, c := range b.Categories {
		for _, it := range c.Items {
			if it.ID == id {
				return it, c.ID, true
			}
		}
	}
	return nil, "", false
}

// Category finds a category by id.
func (b *Board) Category(id string) (*Category, bool) {
	for _, c := range b.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return nil, false
}

// HasContainer reports whether id names the item list or an existing category.
func (b *Board) HasContainer(id string) bool {
	if id == ItemContainerID {
		return true
	}
	_, ok := b.Category(id)
	return ok
}

func (b *Board) slot(containerID string) (*[]*Item, bool) {
	if containerID == ItemContainerID {
		return &b.Items, true
	}
	if c, ok := b.Category(containerID); ok {
		return &c.Items, true
	}
	return nil, false
}

// AppendItem adds it to the end of the container. It reports false when the
// container does not exist.
func (b *Board) AppendItem(containerID string, it *Item) bool {
	s, ok := b.slot(containerID)
	if !ok {
		return false
	}
	*s = append(*s, it)
	b.Observe(it.ID)
	return true
}

// RemoveItem detaches an item and reports where it was.
func (b *Board) RemoveItem(id string) (*Item, string, bool) {
	_, containerID, ok := b.Item(id)
	if !ok {
		return nil, "", false
	}
	s, _ := b.slot(containerID)
	for i, it := range *s {
		if it.ID == id {
			*s = append((*s)[:i:i], (*s)[i+1:]...)
			return it, containerID, true
		}
	}
	return nil, "", false
}

// RelocateItem moves an item to the end of another container. It reports
// false when either the item or the destination is missing.
func (b *Board) RelocateItem(id, toContainerID string) bool {
	if !b.HasContainer(toContainerID) {
		return false
	}
	it, _, ok := b.RemoveItem(id)
	if !ok {
		return false
	}
	return b.AppendItem(toContainerID, it)
}

// AppendCategory adds c after the existing categories.
func (b *Board) AppendCategory(c *Category) {
	b.Categories = append(b.Categories, c)
	b.Observe(c.ID)
}

// RemoveCategory detaches a category together with its items.
func (b *Board) RemoveCategory(id string) (*Category, bool) {
	for i, c := range b.Categories {
		if c.ID == id {
			b.Categories = append(b.Categories[:i:i], b.Categories[i+1:]...)
			return c, true
		}
	}
	return nil, false
}

// SetItemText changes the text of an item.
func (b *Board) SetItemText(id, text string) bool {
	it, _, ok := b.Item(id)
	if !ok {
		return false
	}
	it.Text = text
	return true
}

// SetCategoryName renames a category. The count indicator is left alone.
func (b *Board) SetCategoryName(id, name string) bool {
	c, ok := b.Category(id)
	if !ok {
		return false
	}
	c.Name = name
	return true
}

// RecountCategory refreshes the count indicator of a category. Any other
// container id, including the item list, is ignored.
func (b *Board) RecountCategory(id string) {
	if c, ok := b.Category(id); ok {
		c.Count = len(c.Items)
	}
}

// CheckEmpty refreshes the item list placeholder.
func (b *Board) CheckEmpty() {
	b.ItemPlaceholder = len(b.Items) == 0
}

// CheckCategoryEmpty refreshes the category list placeholder.
func (b *Board) CheckCategoryEmpty() {
	b.CategoryPlaceholder = len(b.Categories) == 0
}

// ItemTexts returns the texts of the item list, in order.
func (b *Board) ItemTexts() []string {
	return texts(b.Items)
}

// Texts returns the texts of a category's items, in order.
func (c *Category) Texts() []string {
	return texts(c.Items)
}

func texts(items []*Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Text)
	}
	return out
}

// Len counts every item on the board.
func (b *Board) Len() int {
	n := len(b.Items)
	for _, c := range b.Categories {
		n += len(c.Items)
	}
	return n
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	out := *b
	out.Items = cloneItems(b.Items)
	out.Categories = make([]*Category, 0, len(b.Categories))
	for _, c := range b.Categories {
		cc := *c
		cc.Items = cloneItems(c.Items)
		out.Categories = append(out.Categories, &cc)
	}
	return &out
}

func cloneItems(items []*Item) []*Item {
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		cp := *it
		out = append(out, &cp)
	}
	return out
}
