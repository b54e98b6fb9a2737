// Package operation defines the serializable records that describe one
// undoable change to a board.
package operation

import (
	"encoding/json"
	"fmt"
)

// Kind names the change a record describes. The set is closed; records read
// back with any other kind decode to an Unknown payload.
type Kind string

const (
	AddItem        Kind = "addItem"
	AddCategory    Kind = "addCategory"
	DeleteItem     Kind = "deleteItem"
	DeleteCategory Kind = "deleteCategory"
	MoveItem       Kind = "moveItem"
	EditItem       Kind = "editItem"
	EditCategory   Kind = "editCategory"
)

// AllKinds returns every kind the dispatcher knows how to replay.
func AllKinds() []Kind {
	return []Kind{
		AddItem,
		AddCategory,
		DeleteItem,
		DeleteCategory,
		MoveItem,
		EditItem,
		EditCategory,
	}
}

// Known reports whether k is one of AllKinds.
func (k Kind) Known() bool {
	for _, candidate := range AllKinds() {
		if candidate == k {
			return true
		}
	}
	return false
}

// Payload is the per-kind data of a record. Implementations live in this
// package only.
type Payload interface {
	Kind() Kind
	payload()
}

// AddItemData records an item appended to a container.
type AddItemData struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	ContainerID string `json:"containerId"`
}

// AddCategoryData records a new category.
type AddCategoryData struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// DeleteItemData records an item removed from a container.
type DeleteItemData struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	ContainerID string `json:"containerId"`
}

// ItemRef is a child item captured when its category was deleted.
type ItemRef struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// DeleteCategoryData records a removed category and, in order, the items it held.
type DeleteCategoryData struct {
	ID    string    `json:"id"`
	Name  string    `json:"name"`
	Items []ItemRef `json:"items"`
}

// MoveItemData records an item relocated between containers.
type MoveItemData struct {
	ItemID          string `json:"itemId"`
	FromContainerID string `json:"fromContainerId"`
	ToContainerID   string `json:"toContainerId"`
}

// EditItemData records a change of item text.
type EditItemData struct {
	ID          string `json:"id"`
	OldText     string `json:"oldText"`
	NewText     string `json:"newText"`
	ContainerID string `json:"containerId"`
}

// EditCategoryData records a category rename.
type EditCategoryData struct {
	ID      string `json:"id"`
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// Unknown carries a record whose kind is not recognised, or whose data could
// not be decoded for its kind. The raw data is kept so the record survives a
// persist/restore cycle unchanged.
type Unknown struct {
	Type Kind
	Raw  json.RawMessage
}

func (AddItemData) Kind() Kind        { return AddItem }
func (AddCategoryData) Kind() Kind    { return AddCategory }
func (DeleteItemData) Kind() Kind     { return DeleteItem }
func (DeleteCategoryData) Kind() Kind { return DeleteCategory }
func (MoveItemData) Kind() Kind       { return MoveItem }
func (EditItemData) Kind() Kind       { return EditItem }
func (EditCategoryData) Kind() Kind   { return EditCategory }
func (u Unknown) Kind() Kind          { return u.Type }

func (AddItemData) payload()        {}
func (AddCategoryData) payload()    {}
func (DeleteItemData) payload()     {}
func (DeleteCategoryData) payload() {}
func (MoveItemData) payload()       {}
func (EditItemData) payload()       {}
func (EditCategoryData) payload()   {}
func (Unknown) payload()            {}

// Record is one entry of the undo or redo stack.
type Record struct {
	Data Payload
	// Timestamp is the capture time in unix milliseconds. Stack order, not
	// the timestamp, decides replay order.
	Timestamp int64
}

// Kind returns the kind of the record's payload.
func (r Record) Kind() Kind {
	if r.Data == nil {
		return ""
	}
	return r.Data.Kind()
}

func (r Record) String() string {
	return fmt.Sprintf("%s@%d", r.Kind(), r.Timestamp)
}

type wireRecord struct {
	Type      Kind            `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

// MarshalJSON writes the record as {"type":..., "data":..., "timestamp":...}.
func (r Record) MarshalJSON() ([]byte, error) {
	w := wireRecord{Type: r.Kind(), Timestamp: r.Timestamp}
	switch d := r.Data.(type) {
	case nil:
		w.Data = json.RawMessage("null")
	case Unknown:
		w.Data = d.Raw
		if len(w.Data) == 0 {
			w.Data = json.RawMessage("null")
		}
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("operation: marshal %s: %w", w.Type, err)
		}
		w.Data = b
	}
	return json.Marshal(w)
}

// UnmarshalJSON reads the wire layout. It only fails when the envelope itself
// is not a JSON object; bad payloads become Unknown.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w wireRecord
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("operation: decode record: %w", err)
	}
	r.Timestamp = w.Timestamp
	r.Data = DecodePayload(w.Type, w.Data)
	return nil
}

// DecodePayload turns raw data into the typed payload for kind. Anything that
// does not fit comes back as Unknown.
func DecodePayload(kind Kind, raw json.RawMessage) Payload {
	var (
		p   Payload
		err error
	)
	switch kind {
	case AddItem:
		var d AddItemData
		err = strictUnmarshal(raw, &d)
		p = d
	case AddCategory:
		var d AddCategoryData
		err = strictUnmarshal(raw, &d)
		p = d
	case DeleteItem:
		var d DeleteItemData
		err = strictUnmarshal(raw, &d)
		p = d
	case DeleteCategory:
		var d DeleteCategoryData
		err = strictUnmarshal(raw, &d)
		p = d
	case MoveItem:
		var d MoveItemData
		err = strictUnmarshal(raw, &d)
		p = d
	case EditItem:
		var d EditItemData
		err = strictUnmarshal(raw, &d)
		p = d
	case EditCategory:
		var d EditCategoryData
		err = strictUnmarshal(raw, &d)
		p = d
	default:
		return Unknown{Type: kind, Raw: cloneRaw(raw)}
	}
	if err != nil {
		return Unknown{Type: kind, Raw: cloneRaw(raw)}
	}
	return p
}

func strictUnmarshal(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return fmt.Errorf("operation: empty payload")
	}
	return json.Unmarshal(raw, v)
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out
}
