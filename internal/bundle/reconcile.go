package bundle

import (
	"reflect"

	"github.com/yyyup/panelkit/internal/logging/events"
	"github.com/yyyup/panelkit/internal/plain"
	"github.com/yyyup/panelkit/internal/tree"
)

// Stats counts what a reconcile run touched.
type Stats struct {
	Inserted  int
	Updated   int
	Converted int
	Skipped   int
}

// Changed reports whether the run modified the tree at all.
func (s Stats) Changed() bool {
	return s.Inserted > 0 || s.Updated > 0 || s.Converted > 0
}

// Reconcile merges the bundle into the tree. In force mode every
// default-tagged node is discarded and rebuilt from the bundle; otherwise
// locals matched by id are updated in place with user state preserved,
// locals whose id is gone from the bundle are converted to user-owned, and
// bundle entries with no local counterpart are inserted after the last
// surviving default. User-owned nodes are never touched either way.
func Reconcile(root *tree.Root, b *Bundle, force bool) Stats {
	var stats Stats
	reconcileCategories(root.Global, b.Categories, force, &stats)
	reconcilePopups(root, b.Popups, force, &stats)
	return stats
}

// RestorePins captures user state a forced restore should not reset and
// reapplies it afterward: the pin_global flag of every default category, and
// the name, width, and hotkey of every default popup panel.
func RestorePins(root *tree.Root, run func()) {
	pins := make(map[string]bool)
	for _, cat := range root.Global.Categories {
		if cat.Builtin() {
			pins[cat.DefaultID] = cat.PinGlobal
		}
	}
	type popupState struct {
		name   string
		width  int
		hotkey tree.Hotkey
	}
	popups := make(map[string]popupState)
	for _, popup := range root.Popups {
		if popup.Builtin() {
			popups[popup.DefaultID] = popupState{
				name:   popup.Name,
				width:  popup.Width,
				hotkey: popup.Hotkey,
			}
		}
	}
	run()
	for _, cat := range root.Global.Categories {
		if pinned, ok := pins[cat.DefaultID]; ok && cat.Builtin() {
			cat.PinGlobal = pinned
		}
	}
	for _, popup := range root.Popups {
		if state, ok := popups[popup.DefaultID]; ok && popup.Builtin() {
			popup.Name = state.name
			popup.Width = state.width
			popup.Hotkey = state.hotkey
		}
	}
}

func reconcileCategories(owner *tree.Owner, defs []Definition, force bool, stats *Stats) {
	if force {
		kept := owner.Categories[:0]
		for _, cat := range owner.Categories {
			if !cat.Builtin() {
				kept = append(kept, cat)
			}
		}
		owner.Categories = kept
		for i, def := range defs {
			cat, err := decodeCategoryDef(def)
			if err != nil {
				events.Reconcile.BundleError(def.ID, err)
				stats.Skipped++
				continue
			}
			owner.Categories = insertCategoryAt(owner.Categories, i, cat)
			events.Reconcile.Inserted("category", def.ID)
			stats.Inserted++
		}
		owner.ClampActiveCategory()
		return
	}

	known := make(map[string]bool, len(defs))
	for _, def := range defs {
		known[def.ID] = true
	}
	for _, cat := range owner.Categories {
		if cat.Builtin() && !known[cat.DefaultID] {
			events.Reconcile.Converted("category", cat.DefaultID, cat.Name)
			cat.DefaultID = ""
			stats.Converted++
		}
	}

	for _, def := range defs {
		if local := findCategory(owner, def.ID); local != nil {
			changed, err := updateCategory(local, def)
			if err != nil {
				events.Reconcile.BundleError(def.ID, err)
				stats.Skipped++
				continue
			}
			if changed {
				events.Reconcile.Updated("category", def.ID)
				stats.Updated++
			}
			continue
		}
		cat, err := decodeCategoryDef(def)
		if err != nil {
			events.Reconcile.BundleError(def.ID, err)
			stats.Skipped++
			continue
		}
		owner.Categories = insertCategoryAt(owner.Categories, defaultCategoryCount(owner), cat)
		events.Reconcile.Inserted("category", def.ID)
		stats.Inserted++
	}
	owner.ClampActiveCategory()
}

func reconcilePopups(root *tree.Root, defs []Definition, force bool, stats *Stats) {
	if force {
		kept := root.Popups[:0]
		for _, popup := range root.Popups {
			if !popup.Builtin() {
				kept = append(kept, popup)
			}
		}
		root.Popups = kept
		for i, def := range defs {
			popup, err := decodePopupDef(def)
			if err != nil {
				events.Reconcile.BundleError(def.ID, err)
				stats.Skipped++
				continue
			}
			root.Popups = insertPopupAt(root.Popups, i, popup)
			events.Reconcile.Inserted("popup_panel", def.ID)
			stats.Inserted++
		}
		root.ClampActivePopup()
		return
	}

	known := make(map[string]bool, len(defs))
	for _, def := range defs {
		known[def.ID] = true
	}
	for _, popup := range root.Popups {
		if popup.Builtin() && !known[popup.DefaultID] {
			events.Reconcile.Converted("popup_panel", popup.DefaultID, popup.Name)
			popup.DefaultID = ""
			stats.Converted++
		}
	}

	for _, def := range defs {
		if local := findPopup(root, def.ID); local != nil {
			changed, err := updatePopup(local, def)
			if err != nil {
				events.Reconcile.BundleError(def.ID, err)
				stats.Skipped++
				continue
			}
			if changed {
				events.Reconcile.Updated("popup_panel", def.ID)
				stats.Updated++
			}
			continue
		}
		popup, err := decodePopupDef(def)
		if err != nil {
			events.Reconcile.BundleError(def.ID, err)
			stats.Skipped++
			continue
		}
		root.Popups = insertPopupAt(root.Popups, defaultPopupCount(root), popup)
		events.Reconcile.Inserted("popup_panel", def.ID)
		stats.Inserted++
	}
	root.ClampActivePopup()
}

func decodeCategoryDef(def Definition) (*tree.Category, error) {
	cat, err := plain.DecodeCategory(def.Mapping)
	if err != nil {
		return nil, err
	}
	cat.DefaultID = def.ID
	return cat, nil
}

func decodePopupDef(def Definition) (*tree.Owner, error) {
	popup, err := plain.DecodeOwner(def.Mapping)
	if err != nil {
		return nil, err
	}
	popup.Kind = tree.OwnerPopup
	popup.DefaultID = def.ID
	return popup, nil
}

// updateCategory overwrites a matched local with the bundle definition while
// keeping the user's layout state: pins, active flags, show mode, style and
// indent overrides, the collapse settings, the active row, and the per-region
// open state of rows that survive the update under the same name.
func updateCategory(local *tree.Category, def Definition) (bool, error) {
	fresh, err := decodeCategoryDef(def)
	if err != nil {
		return false, err
	}

	fresh.PinGlobal = local.PinGlobal
	fresh.Pins = clonePins(local.Pins)
	fresh.ActiveIn = clonePins(local.ActiveIn)
	fresh.Show = local.Show
	fresh.Style = local.Style
	fresh.Indent = local.Indent
	fresh.Collapse = local.Collapse
	fresh.IconAsToggle = local.IconAsToggle
	fresh.ActiveRow = local.ActiveRow

	open := make(map[string]map[tree.Region]bool)
	for _, row := range local.Rows {
		if row.Name != "" && row.Open != nil {
			open[row.Name] = row.Open
		}
	}
	for _, row := range fresh.Rows {
		if state, ok := open[row.Name]; ok {
			row.Open = clonePins(state)
		}
	}

	same, err := samePlain(local, fresh)
	if err != nil {
		return false, err
	}
	if same {
		return false, nil
	}
	*local = *fresh
	local.ClampActiveRow()
	return true, nil
}

// updatePopup overwrites a matched popup with the bundle definition while
// keeping the user's name, width, hotkey, and active category.
func updatePopup(local *tree.Owner, def Definition) (bool, error) {
	fresh, err := decodePopupDef(def)
	if err != nil {
		return false, err
	}

	fresh.Name = local.Name
	fresh.Width = local.Width
	fresh.Hotkey = local.Hotkey
	fresh.ActiveCategory = local.ActiveCategory

	same, err := samePlain(local, fresh)
	if err != nil {
		return false, err
	}
	if same {
		return false, nil
	}
	*local = *fresh
	local.ClampActiveCategory()
	return true, nil
}

// samePlain compares two nodes through their plain-mapping form.
func samePlain(a, b any) (bool, error) {
	am, err := plain.ToPlain(a)
	if err != nil {
		return false, err
	}
	bm, err := plain.ToPlain(b)
	if err != nil {
		return false, err
	}
	return reflect.DeepEqual(am, bm), nil
}

func findCategory(owner *tree.Owner, id string) *tree.Category {
	for _, cat := range owner.Categories {
		if cat.DefaultID == id {
			return cat
		}
	}
	return nil
}

func findPopup(root *tree.Root, id string) *tree.Owner {
	for _, popup := range root.Popups {
		if popup.DefaultID == id {
			return popup
		}
	}
	return nil
}

func defaultCategoryCount(owner *tree.Owner) int {
	n := 0
	for _, cat := range owner.Categories {
		if cat.Builtin() {
			n++
		}
	}
	return n
}

func defaultPopupCount(root *tree.Root) int {
	n := 0
	for _, popup := range root.Popups {
		if popup.Builtin() {
			n++
		}
	}
	return n
}

func insertCategoryAt(cats []*tree.Category, index int, cat *tree.Category) []*tree.Category {
	if index < 0 {
		index = 0
	}
	if index > len(cats) {
		index = len(cats)
	}
	cats = append(cats, nil)
	copy(cats[index+1:], cats[index:])
	cats[index] = cat
	return cats
}

func insertPopupAt(popups []*tree.Owner, index int, popup *tree.Owner) []*tree.Owner {
	if index < 0 {
		index = 0
	}
	if index > len(popups) {
		index = len(popups)
	}
	popups = append(popups, nil)
	copy(popups[index+1:], popups[index:])
	popups[index] = popup
	return popups
}

func clonePins(m map[tree.Region]bool) map[tree.Region]bool {
	if m == nil {
		return nil
	}
	dup := make(map[tree.Region]bool, len(m))
	for region, flag := range m {
		dup[region] = flag
	}
	return dup
}
