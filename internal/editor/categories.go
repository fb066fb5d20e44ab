package editor

import (
	"fmt"

	"github.com/yyyup/panelkit/internal/address"
	"github.com/yyyup/panelkit/internal/clipboard"
	"github.com/yyyup/panelkit/internal/logging/events"
	"github.com/yyyup/panelkit/internal/plain"
	"github.com/yyyup/panelkit/internal/tree"
)

// AddCategory inserts a fresh category after the owner's active one.
// Popup-panel owners are capped at MaxPopupCategories.
func (e *Editor) AddCategory(addr address.Address) error {
	owner, err := e.owner(addr)
	if err != nil {
		events.Editor.Rejected("category.add", err)
		return err
	}
	if owner.Kind == tree.OwnerPopup && len(owner.Categories) >= MaxPopupCategories {
		err := fmt.Errorf("popup panels support a maximum of %d categories", MaxPopupCategories)
		events.Editor.Rejected("category.add", err)
		return err
	}

	cat := tree.NewCategory("Category")
	if owner.Kind == tree.OwnerPopup {
		cat.Style = tree.StyleBoxTitle
		cat.Show = tree.ShowAlways
	}
	at := clampInsert(owner.ActiveCategory+1, len(owner.Categories))
	insertCategories(owner, at, []*tree.Category{cat})
	owner.ActiveCategory = at
	events.Editor.Applied("category.add", cat.Name, 1)
	return nil
}

// MoveCategoryUp swaps the active category with the one above it.
func (e *Editor) MoveCategoryUp(addr address.Address) error {
	owner, idx, err := e.categoryIndex(addr)
	if err != nil {
		events.Editor.Rejected("category.move-up", err)
		return err
	}
	if idx == 0 {
		return nil
	}
	owner.Categories[idx-1], owner.Categories[idx] = owner.Categories[idx], owner.Categories[idx-1]
	owner.ActiveCategory = idx - 1
	events.Editor.Applied("category.move-up", owner.Categories[idx-1].Name, 1)
	return nil
}

// MoveCategoryDown swaps the active category with the one below it.
func (e *Editor) MoveCategoryDown(addr address.Address) error {
	owner, idx, err := e.categoryIndex(addr)
	if err != nil {
		events.Editor.Rejected("category.move-down", err)
		return err
	}
	if idx >= len(owner.Categories)-1 {
		return nil
	}
	owner.Categories[idx], owner.Categories[idx+1] = owner.Categories[idx+1], owner.Categories[idx]
	owner.ActiveCategory = idx + 1
	events.Editor.Applied("category.move-down", owner.Categories[idx+1].Name, 1)
	return nil
}

// DuplicateCategory clones the addressed category after itself. The clone
// is always user-owned and globally pinned; the original's global pin is
// dropped so the copy takes its place on the surface.
func (e *Editor) DuplicateCategory(addr address.Address) error {
	owner, idx, err := e.categoryIndex(addr)
	if err != nil {
		events.Editor.Rejected("category.duplicate", err)
		return err
	}
	src := owner.Categories[idx]
	dup := src.Clone()
	dup.Name += " Copy"
	dup.DefaultID = ""
	dup.PinGlobal = true
	src.PinGlobal = false

	insertCategories(owner, idx+1, []*tree.Category{dup})
	owner.ActiveCategory = idx + 1
	events.Editor.Applied("category.duplicate", dup.Name, 1)
	return nil
}

// DeleteCategory removes the addressed category.
func (e *Editor) DeleteCategory(addr address.Address) error {
	owner, idx, err := e.categoryIndex(addr)
	if err != nil {
		events.Editor.Rejected("category.delete", err)
		return err
	}
	name := owner.Categories[idx].Name
	owner.Categories = append(owner.Categories[:idx], owner.Categories[idx+1:]...)
	if owner.ActiveCategory >= idx {
		owner.ActiveCategory--
	}
	owner.ClampActiveCategory()
	events.Editor.Applied("category.delete", name, 1)
	return nil
}

// SelectCategory makes a category the owner's active one.
func (e *Editor) SelectCategory(addr address.Address) error {
	owner, idx, err := e.categoryIndex(addr)
	if err != nil {
		events.Editor.Rejected("category.select", err)
		return err
	}
	owner.ActiveCategory = idx
	return nil
}

// CopyCategory serializes the addressed category, rows and buttons
// included, to the clipboard.
func (e *Editor) CopyCategory(addr address.Address) error {
	owner, idx, err := e.categoryIndex(addr)
	if err != nil {
		events.Editor.Rejected("category.copy", err)
		return err
	}
	m, err := plain.ToPlain(owner.Categories[idx])
	if err != nil {
		events.Editor.Rejected("category.copy", err)
		return err
	}
	text, err := plain.Encode(plain.TypeCategory, m)
	if err != nil {
		events.Editor.Rejected("category.copy", err)
		return err
	}
	if err := clipboard.Write(text); err != nil {
		events.Editor.Rejected("category.copy", err)
		return err
	}
	events.Editor.Applied("category.copy", owner.Categories[idx].Name, 1)
	return nil
}

// PasteCategory inserts a category from the clipboard after the active
// one. Pasted categories are always user-owned and globally pinned; on a
// popup owner the cap applies and absent style/show keys fall back to the
// popup defaults.
func (e *Editor) PasteCategory(addr address.Address) error {
	owner, err := e.owner(addr)
	if err != nil {
		events.Editor.Rejected("category.paste", err)
		return err
	}
	if owner.Kind == tree.OwnerPopup && len(owner.Categories) >= MaxPopupCategories {
		err := fmt.Errorf("popup panels support a maximum of %d categories", MaxPopupCategories)
		events.Editor.Rejected("category.paste", err)
		return err
	}

	text, err := clipboard.Read()
	if err != nil {
		events.Editor.Rejected("category.paste", err)
		return err
	}
	payload, err := plain.Decode(text)
	if err != nil {
		events.Editor.Rejected("category.paste", err)
		return err
	}
	if err := payload.Expect(plain.TypeCategory); err != nil {
		events.Editor.Rejected("category.paste", err)
		return err
	}
	m, err := plain.Mapping(payload.Content)
	if err != nil {
		events.Editor.Rejected("category.paste", err)
		return err
	}
	cat, err := plain.DecodeCategory(m)
	if err != nil {
		events.Editor.Rejected("category.paste", err)
		return err
	}

	cat.DefaultID = ""
	cat.PinGlobal = true
	if owner.Kind == tree.OwnerPopup {
		if _, ok := m["style"]; !ok {
			cat.Style = tree.StylePlain
		}
		if _, ok := m["show"]; !ok {
			cat.Show = tree.ShowNever
		}
	}

	at := clampInsert(owner.ActiveCategory+1, len(owner.Categories))
	insertCategories(owner, at, []*tree.Category{cat})
	owner.ActiveCategory = at
	events.Editor.Applied("category.paste", cat.Name, 1)
	return nil
}

// categoryIndex resolves the owner plus the category index an operation
// should act on: the explicit index when addressed, the owner's active
// category otherwise.
func (e *Editor) categoryIndex(addr address.Address) (*tree.Owner, int, error) {
	owner, err := e.owner(addr)
	if err != nil {
		return nil, 0, err
	}
	idx := addr.Category
	if idx == address.Stop {
		idx = owner.ActiveCategory
	}
	if idx < 0 || idx >= len(owner.Categories) {
		events.Resolver.Miss(addr.String())
		return nil, 0, fmt.Errorf("%w: no category at %s", ErrAddressResolution, addr)
	}
	return owner, idx, nil
}

func insertCategories(owner *tree.Owner, at int, cats []*tree.Category) {
	owner.Categories = append(owner.Categories, make([]*tree.Category, len(cats))...)
	copy(owner.Categories[at+len(cats):], owner.Categories[at:])
	copy(owner.Categories[at:], cats)
}
