package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/grocery-store-client/internal/domains/items/domain"
)

// ErrNotEditing is returned by edit-draft operations while no item is being edited.
var ErrNotEditing = errors.New("no item is being edited")

// ModeKind tags which draft a commit applies to.
type ModeKind int

const (
	ModeIdle ModeKind = iota
	ModeEditing
)

func (k ModeKind) String() string {
	if k == ModeEditing {
		return "editing"
	}
	return "idle"
}

// Mode is a snapshot of the draft state machine. ItemID and Draft are only
// meaningful when Kind is ModeEditing.
type Mode struct {
	Kind   ModeKind
	ItemID string
	Draft  domain.Fields
}

// Editing reports whether an edit draft is present.
func (m Mode) Editing() bool {
	return m.Kind == ModeEditing
}

type editDraft struct {
	itemID string
	fields domain.Fields
}

// Drafts owns the new-item draft and the optional edit draft. It is not safe
// for concurrent use; the Controller confines it to its state goroutine.
type Drafts struct {
	newItem domain.Fields
	edit    *editDraft
}

func NewDrafts() *Drafts {
	return &Drafts{newItem: domain.NewFields()}
}

// Mode returns the current state: Idle, or Editing with a copy of the edit draft.
func (d *Drafts) Mode() Mode {
	if d.edit == nil {
		return Mode{Kind: ModeIdle}
	}
	return Mode{Kind: ModeEditing, ItemID: d.edit.itemID, Draft: d.edit.fields}
}

// New returns a copy of the new-item draft.
func (d *Drafts) New() domain.Fields {
	return d.newItem
}

// BeginEdit enters Editing with the item's values copied into a fresh draft.
// Selecting another item while editing replaces the current edit draft.
func (d *Drafts) BeginEdit(item domain.Item) error {
	if item.ID == "" {
		return domain.ErrEmptyID
	}
	d.edit = &editDraft{itemID: item.ID, fields: item.Fields()}
	return nil
}

// CancelEdit discards the edit draft. It is a no-op while Idle.
func (d *Drafts) CancelEdit() {
	d.edit = nil
}

// SetNewField parses raw into one field of the new-item draft.
// On a parse error the draft keeps its previous value.
func (d *Drafts) SetNewField(field domain.Field, raw string) error {
	updated, err := domain.ParseField(d.newItem, field, raw)
	if err != nil {
		return err
	}
	d.newItem = updated
	return nil
}

// SetEditField parses raw into one field of the edit draft.
func (d *Drafts) SetEditField(field domain.Field, raw string) error {
	if d.edit == nil {
		return ErrNotEditing
	}
	updated, err := domain.ParseField(d.edit.fields, field, raw)
	if err != nil {
		return err
	}
	d.edit.fields = updated
	return nil
}

// ResetNew returns the new-item draft to its initial value.
func (d *Drafts) ResetNew() {
	d.newItem = domain.NewFields()
}

// FinishEdit drops the edit draft for itemID once an update carrying committed
// was accepted. A draft for a different item, or one changed after committed was
// sent, is kept.
func (d *Drafts) FinishEdit(itemID string, committed domain.Fields) {
	if d.edit != nil && d.edit.itemID == itemID && d.edit.fields == committed {
		d.edit = nil
	}
}

func (m Mode) String() string {
	if !m.Editing() {
		return m.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", m.Kind, m.ItemID)
}
