// Package plain converts tree nodes to and from plain mappings. The mapping
// form feeds the clipboard payloads and the bundle files, so conversion has
// to be forward compatible (unknown keys ignored) and backward compatible
// (absent keys leave the field at its zero value).
package plain

import (
	"encoding/json"
	"fmt"

	"github.com/yyyup/panelkit/internal/tree"
)

// Payload discriminators. Text missing a discriminator is treated as a
// legacy bare mapping and accepted only when the caller knows the shape.
const (
	TypeSectionBlock = "section_block"
	TypeButtonEntry  = "button_entry"
	TypeCategory     = "category"
	TypePopupPanel   = "popup_panel"
)

// Payload is the clipboard envelope. Content is a mapping for single nodes
// and a list of row mappings for section blocks.
type Payload struct {
	Type    string `json:"type"`
	Content any    `json:"content"`
}

// ToPlain converts any node into its plain-mapping form using the node's
// declared field names.
func ToPlain(node any) (map[string]any, error) {
	raw, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("encode node: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode node mapping: %w", err)
	}
	return m, nil
}

// FromPlain assigns mapping fields into node by name. Keys the node does
// not declare are ignored; fields the mapping does not carry keep their
// current values.
func FromPlain(m map[string]any, node any) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode mapping: %w", err)
	}
	if err := json.Unmarshal(raw, node); err != nil {
		return fmt.Errorf("assign mapping: %w", err)
	}
	return nil
}

// DecodeRow builds a row from its plain form.
func DecodeRow(m map[string]any) (*tree.Row, error) {
	row := &tree.Row{ActiveButton: tree.NoActive}
	if err := FromPlain(m, row); err != nil {
		return nil, err
	}
	return row, nil
}

// DecodeEntry builds a button entry from its plain form.
func DecodeEntry(m map[string]any) (*tree.ButtonEntry, error) {
	entry := &tree.ButtonEntry{}
	if err := FromPlain(m, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// DecodeCategory builds a category from its plain form.
func DecodeCategory(m map[string]any) (*tree.Category, error) {
	cat := &tree.Category{ActiveRow: tree.NoActive}
	if err := FromPlain(m, cat); err != nil {
		return nil, err
	}
	cat.ClampActiveRow()
	return cat, nil
}

// DecodeOwner builds a popup-panel owner from its plain form.
func DecodeOwner(m map[string]any) (*tree.Owner, error) {
	owner := &tree.Owner{Kind: tree.OwnerPopup}
	if err := FromPlain(m, owner); err != nil {
		return nil, err
	}
	return owner, nil
}

// RowsContent converts payload content into a list of row mappings. It
// accepts both a list of mappings and a single mapping.
func RowsContent(content any) ([]map[string]any, error) {
	switch v := content.(type) {
	case []any:
		rows := make([]map[string]any, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("row %d: expected mapping, got %T", i, item)
			}
			rows = append(rows, m)
		}
		return rows, nil
	case map[string]any:
		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("expected row content, got %T", content)
	}
}

// Mapping converts payload content into a single mapping.
func Mapping(content any) (map[string]any, error) {
	m, ok := content.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected mapping content, got %T", content)
	}
	return m, nil
}
