package editor

import (
	"strings"

	"github.com/yyyup/panelkit/internal/address"
	"github.com/yyyup/panelkit/internal/logging/events"
	"github.com/yyyup/panelkit/internal/tree"
)

// RenameCategory sets the category's display name.
func (e *Editor) RenameCategory(addr address.Address, name string) error {
	cat, err := e.category(addr)
	if err != nil {
		return err
	}
	if err := guardEditable(cat); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	cat.Name = name
	events.Editor.Applied("rename-category", addr.String(), 1)
	return nil
}

// RenameRow sets the row's display name.
func (e *Editor) RenameRow(addr address.Address, name string) error {
	cat, idx, err := e.rowContext(addr)
	if err != nil {
		return err
	}
	if err := guardEditable(cat); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	cat.Rows[idx].Name = name
	events.Editor.Applied("rename-row", addr.String(), 1)
	return nil
}

// RenameEntry sets the button entry's display name. Spacers have no name to
// set; the call is a no-op for them.
func (e *Editor) RenameEntry(addr address.Address, name string) error {
	cat, err := e.category(addr)
	if err != nil {
		return err
	}
	if err := guardEditable(cat); err != nil {
		return err
	}
	row, idx, err := e.entryContext(addr)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	entry := row.Buttons[idx]
	if entry.ButtonID == tree.ButtonSpacer {
		return nil
	}
	entry.DisplayName = name
	events.Editor.Applied("rename-entry", addr.String(), 1)
	return nil
}

// RenamePopup sets the active popup owner's display name.
func (e *Editor) RenamePopup(index int, name string) error {
	if index < 0 || index >= len(e.root.Popups) {
		return ErrAddressResolution
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	e.root.Popups[index].Name = name
	events.Editor.Applied("rename-popup", "popup", 1)
	return nil
}
