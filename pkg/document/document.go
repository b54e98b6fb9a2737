// Package document reads and writes itemboard files and imports lists of
// items and categories into a board.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"tableflip.dev/itemboard/pkg/board"
)

// Version is written into every saved file. It is informational; files are
// not migrated between versions.
const Version = "1.0"

// ErrFormat is returned for files that lack the items or categories lists.
var ErrFormat = errors.New("document: invalid file format")

// CategoryDoc is a category as stored in a file: a name and item texts.
type CategoryDoc struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Document is the on-disk form of a board. Ids are not stored.
type Document struct {
	Version    string        `json:"version"`
	CreatedAt  string        `json:"createdAt,omitempty"`
	Items      []string      `json:"items"`
	Categories []CategoryDoc `json:"categories"`
}

// FromBoard captures the texts of a board.
func FromBoard(b *board.Board, now time.Time) *Document {
	doc := &Document{
		Version:    Version,
		Items:      nonBlank(b.ItemTexts()),
		Categories: make([]CategoryDoc, 0, len(b.Categories)),
	}
	if !now.IsZero() {
		doc.CreatedAt = now.UTC().Format(time.RFC3339)
	}
	for _, c := range b.Categories {
		doc.Categories = append(doc.Categories, CategoryDoc{
			Name:  strings.TrimSpace(c.Name),
			Items: nonBlank(c.Texts()),
		})
	}
	return doc
}

// Encode renders doc as indented JSON.
func Encode(doc *Document) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

type rawDocument struct {
	Version    string            `json:"version"`
	CreatedAt  string            `json:"createdAt"`
	Items      []json.RawMessage `json:"items"`
	Categories []json.RawMessage `json:"categories"`
}

// Decode parses a file. Entries that are not strings, or categories without a
// name, are dropped rather than failing the whole file.
func Decode(data []byte) (*Document, error) {
	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if raw.Items == nil || raw.Categories == nil {
		return nil, ErrFormat
	}
	doc := &Document{
		Version:    raw.Version,
		CreatedAt:  raw.CreatedAt,
		Items:      stringsOf(raw.Items),
		Categories: make([]CategoryDoc, 0, len(raw.Categories)),
	}
	for _, rc := range raw.Categories {
		if c, ok := categoryOf(rc); ok {
			doc.Categories = append(doc.Categories, c)
		}
	}
	return doc, nil
}

// DecodeItems parses a bare JSON array of item texts, as used for imports.
// Elements that are not strings come back empty so the import skips them.
func DecodeItems(data []byte) ([]string, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: items must be an array: %v", ErrFormat, err)
	}
	return stringsOf(list), nil
}

// DecodeCategories parses a bare JSON array of categories. Elements without a
// name come back with an empty name so the import skips them.
func DecodeCategories(data []byte) ([]CategoryDoc, error) {
	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("%w: categories must be an array: %v", ErrFormat, err)
	}
	out := make([]CategoryDoc, 0, len(list))
	for _, rc := range list {
		c, _ := categoryOf(rc)
		out = append(out, c)
	}
	return out, nil
}

type rawCategory struct {
	Name  *string           `json:"name"`
	Items []json.RawMessage `json:"items"`
}

func categoryOf(raw json.RawMessage) (CategoryDoc, bool) {
	var rc rawCategory
	if err := json.Unmarshal(raw, &rc); err != nil || rc.Name == nil || *rc.Name == "" {
		return CategoryDoc{}, false
	}
	return CategoryDoc{Name: *rc.Name, Items: stringsOf(rc.Items)}, true
}

// stringsOf keeps the string elements of a raw list. Non-strings come back as
// empty strings so callers can count them as skipped.
func stringsOf(list []json.RawMessage) []string {
	out := make([]string, 0, len(list))
	for _, r := range list {
		var s string
		if err := json.Unmarshal(r, &s); err != nil {
			s = ""
		}
		out = append(out, s)
	}
	return out
}

// Board builds a fresh board from doc. Ids are numbered from zero in document
// order; blank texts are skipped.
func (doc *Document) Board() *board.Board {
	b := board.New()
	for _, text := range doc.Items {
		if text = strings.TrimSpace(text); text != "" {
			b.AppendItem(board.ItemContainerID, &board.Item{ID: b.NewItemID(), Text: text})
		}
	}
	for _, cd := range doc.Categories {
		name := strings.TrimSpace(cd.Name)
		if name == "" {
			continue
		}
		c := &board.Category{ID: b.NewCategoryID(), Name: name}
		b.AppendCategory(c)
		for _, text := range cd.Items {
			if text = strings.TrimSpace(text); text != "" {
				c.Items = append(c.Items, &board.Item{ID: b.NewItemID(), Text: text})
			}
		}
		b.RecountCategory(c.ID)
	}
	b.CheckEmpty()
	b.CheckCategoryEmpty()
	return b
}

// Modified reports whether current differs from original in its items or
// categories. Version and creation time are ignored.
func Modified(original, current *Document) bool {
	if original == nil {
		return current != nil && (len(current.Items) > 0 || len(current.Categories) > 0)
	}
	if current == nil {
		return true
	}
	return !reflect.DeepEqual(normalize(original), normalize(current))
}

func normalize(doc *Document) Document {
	out := Document{Items: nonBlank(doc.Items), Categories: []CategoryDoc{}}
	for _, c := range doc.Categories {
		out.Categories = append(out.Categories, CategoryDoc{Name: strings.TrimSpace(c.Name), Items: nonBlank(c.Items)})
	}
	return out
}

func nonBlank(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
