package editor

import (
	"fmt"

	"github.com/yyyup/panelkit/internal/clipboard"
	"github.com/yyyup/panelkit/internal/logging/events"
	"github.com/yyyup/panelkit/internal/plain"
	"github.com/yyyup/panelkit/internal/tree"
)

// AddPopup inserts a fresh popup panel after the active one, seeded with
// one category.
func (e *Editor) AddPopup() error {
	popup := tree.NewPopupOwner("Popup Panel")
	seed := tree.NewCategory("Category")
	seed.Style = tree.StyleBoxTitle
	popup.Categories = []*tree.Category{seed}
	popup.ActiveCategory = 0

	at := clampInsert(e.root.ActivePopup+1, len(e.root.Popups))
	insertPopups(e.root, at, []*tree.Owner{popup})
	e.root.ActivePopup = at
	events.Editor.Applied("popup.add", popup.Name, 1)
	return nil
}

// DeletePopup removes the popup panel at index.
func (e *Editor) DeletePopup(index int) error {
	if index < 0 || index >= len(e.root.Popups) {
		err := fmt.Errorf("%w: no popup panel at index %d", ErrAddressResolution, index)
		events.Editor.Rejected("popup.delete", err)
		return err
	}
	name := e.root.Popups[index].Name
	e.root.Popups = append(e.root.Popups[:index], e.root.Popups[index+1:]...)
	if e.root.ActivePopup >= index {
		e.root.ActivePopup--
	}
	e.root.ClampActivePopup()
	events.Editor.Applied("popup.delete", name, 1)
	return nil
}

// MovePopupUp swaps the active popup panel with the one above it.
func (e *Editor) MovePopupUp() error {
	idx := e.root.ActivePopup
	if idx <= 0 || idx >= len(e.root.Popups) {
		return nil
	}
	e.root.Popups[idx-1], e.root.Popups[idx] = e.root.Popups[idx], e.root.Popups[idx-1]
	e.root.ActivePopup = idx - 1
	events.Editor.Applied("popup.move-up", e.root.Popups[idx-1].Name, 1)
	return nil
}

// MovePopupDown swaps the active popup panel with the one below it.
func (e *Editor) MovePopupDown() error {
	idx := e.root.ActivePopup
	if idx < 0 || idx >= len(e.root.Popups)-1 {
		return nil
	}
	e.root.Popups[idx], e.root.Popups[idx+1] = e.root.Popups[idx+1], e.root.Popups[idx]
	e.root.ActivePopup = idx + 1
	events.Editor.Applied("popup.move-down", e.root.Popups[idx+1].Name, 1)
	return nil
}

// DuplicatePopup clones the active popup panel after itself. The clone is
// user-owned, its hotkey is cleared so two panels never fight over one
// binding, and its categories become user-owned too.
func (e *Editor) DuplicatePopup() error {
	idx := e.root.ActivePopup
	if idx < 0 || idx >= len(e.root.Popups) {
		err := fmt.Errorf("%w: no active popup panel", ErrAddressResolution)
		events.Editor.Rejected("popup.duplicate", err)
		return err
	}
	dup := e.root.Popups[idx].Clone()
	dup.Name += " Copy"
	dup.DefaultID = ""
	dup.Hotkey = tree.Hotkey{Space: dup.Hotkey.Space}
	for _, cat := range dup.Categories {
		cat.DefaultID = ""
	}

	insertPopups(e.root, idx+1, []*tree.Owner{dup})
	e.root.ActivePopup = idx + 1
	events.Editor.Applied("popup.duplicate", dup.Name, 1)
	return nil
}

// CopyPopup serializes the active popup panel, categories and all, to the
// clipboard. Hotkey state never travels with a copy.
func (e *Editor) CopyPopup() error {
	idx := e.root.ActivePopup
	if idx < 0 || idx >= len(e.root.Popups) {
		err := fmt.Errorf("%w: no active popup panel", ErrAddressResolution)
		events.Editor.Rejected("popup.copy", err)
		return err
	}
	snapshot := e.root.Popups[idx].Clone()
	snapshot.Hotkey = tree.Hotkey{Space: snapshot.Hotkey.Space}
	for _, cat := range snapshot.Categories {
		cat.DefaultID = ""
	}
	m, err := plain.ToPlain(snapshot)
	if err != nil {
		events.Editor.Rejected("popup.copy", err)
		return err
	}
	text, err := plain.Encode(plain.TypePopupPanel, m)
	if err != nil {
		events.Editor.Rejected("popup.copy", err)
		return err
	}
	if err := clipboard.Write(text); err != nil {
		events.Editor.Rejected("popup.copy", err)
		return err
	}
	events.Editor.Applied("popup.copy", snapshot.Name, 1)
	return nil
}

// PastePopup inserts a popup panel from the clipboard after the active
// one. Pasted panels are user-owned with a cleared hotkey. A legacy bare
// mapping is accepted when it carries a name.
func (e *Editor) PastePopup() error {
	text, err := clipboard.Read()
	if err != nil {
		events.Editor.Rejected("popup.paste", err)
		return err
	}
	payload, err := plain.Decode(text)
	if err != nil {
		events.Editor.Rejected("popup.paste", err)
		return err
	}
	if err := payload.Expect(plain.TypePopupPanel); err != nil {
		events.Editor.Rejected("popup.paste", err)
		return err
	}
	m, err := plain.Mapping(payload.Content)
	if err != nil {
		events.Editor.Rejected("popup.paste", err)
		return err
	}
	if payload.Type == "" {
		if _, ok := m["name"]; !ok {
			err := fmt.Errorf("%w: bare clipboard content is not a popup panel", plain.ErrShapeMismatch)
			events.Editor.Rejected("popup.paste", err)
			return err
		}
	}
	popup, err := plain.DecodeOwner(m)
	if err != nil {
		events.Editor.Rejected("popup.paste", err)
		return err
	}

	popup.Kind = tree.OwnerPopup
	popup.DefaultID = ""
	popup.Hotkey = tree.Hotkey{Space: popup.Hotkey.Space}
	if popup.Hotkey.Space == "" {
		popup.Hotkey.Space = "ALL_SPACES"
	}
	for _, cat := range popup.Categories {
		cat.DefaultID = ""
	}
	popup.ClampActiveCategory()

	at := clampInsert(e.root.ActivePopup+1, len(e.root.Popups))
	insertPopups(e.root, at, []*tree.Owner{popup})
	e.root.ActivePopup = at
	events.Editor.Applied("popup.paste", popup.Name, 1)
	return nil
}

func insertPopups(root *tree.Root, at int, popups []*tree.Owner) {
	root.Popups = append(root.Popups, make([]*tree.Owner, len(popups))...)
	copy(root.Popups[at+len(popups):], root.Popups[at:])
	copy(root.Popups[at:], popups)
}
