package ui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yyyup/panelkit/internal/address"
	"github.com/yyyup/panelkit/internal/buttons"
	"github.com/yyyup/panelkit/internal/logging/events"
	"github.com/yyyup/panelkit/internal/tree"
	uistate "github.com/yyyup/panelkit/internal/ui/state"
	"github.com/yyyup/panelkit/internal/visibility"
)

// regionFor returns the region visibility is computed against: popup owners
// always render in the popup region, the global owner in the configured one.
func (m *Model) regionFor() tree.Region {
	if m.ownerKind == tree.OwnerPopup {
		return tree.RegionPopup
	}
	return m.region
}

func (m *Model) selectedOwner() *tree.Owner {
	return m.editor.Root().Owner(m.ownerKind, m.ownerIdx)
}

func (m *Model) selectedCategory() *tree.Category {
	owner := m.selectedOwner()
	if owner == nil || m.catIdx < 0 || m.catIdx >= len(owner.Categories) {
		return nil
	}
	return owner.Categories[m.catIdx]
}

func (m *Model) selectedRow() *tree.Row {
	cat := m.selectedCategory()
	if cat == nil || m.rowIdx < 0 || m.rowIdx >= len(cat.Rows) {
		return nil
	}
	return cat.Rows[m.rowIdx]
}

func (m *Model) ownerItems() []uistate.Item {
	root := m.editor.Root()
	items := make([]uistate.Item, 0, len(root.Popups)+1)
	global := root.Global
	items = append(items, uistate.Item{
		ID:     "owner:global",
		Label:  "Global Toolbar",
		Detail: fmt.Sprintf("%d categories", len(global.Categories)),
	})
	for i, popup := range root.Popups {
		detail := fmt.Sprintf("%d categories", len(popup.Categories))
		if popup.Hotkey.Enabled && popup.Hotkey.Key != "" {
			detail += "  " + hotkeyLabel(popup.Hotkey)
		}
		items = append(items, uistate.Item{
			ID:     "owner:popup:" + strconv.Itoa(i),
			Label:  popup.Name,
			Detail: detail,
			Dim:    popup.Builtin(),
		})
	}
	return items
}

func (m *Model) categoryItems() []uistate.Item {
	owner := m.selectedOwner()
	if owner == nil {
		return nil
	}
	region := m.regionFor()
	items := make([]uistate.Item, 0, len(owner.Categories))
	for i, cat := range owner.Categories {
		var marks []string
		if cat.Builtin() {
			marks = append(marks, "built-in")
		}
		shown := visibility.CategoryShown(cat, region)
		if !shown {
			marks = append(marks, "hidden")
		}
		items = append(items, uistate.Item{
			ID:     "cat:" + strconv.Itoa(i),
			Label:  cat.Name,
			Detail: strings.Join(marks, "  "),
			Dim:    !shown,
		})
	}
	return items
}

func (m *Model) rowItems() []uistate.Item {
	cat := m.selectedCategory()
	if cat == nil {
		return nil
	}
	region := m.regionFor()
	entries := visibility.Rows(cat, region, m.evaluator)
	items := make([]uistate.Item, 0, len(entries))
	for _, entry := range entries {
		row := entry.Row
		label := rowItemLabel(row, region)
		var marks []string
		if entry.Placeholder {
			marks = append(marks, "placeholder")
		}
		if !entry.Visible {
			marks = append(marks, "hidden")
		}
		if row.Kind == tree.RowButton {
			marks = append(marks, fmt.Sprintf("%d buttons", len(row.Buttons)))
		}
		items = append(items, uistate.Item{
			ID:     "row:" + strconv.Itoa(entry.Index),
			Label:  label,
			Detail: strings.Join(marks, "  "),
			Dim:    !entry.Visible,
		})
	}
	return items
}

func rowItemLabel(row *tree.Row, region tree.Region) string {
	switch row.Kind {
	case tree.RowSection:
		glyph := "▸"
		if row.IsOpen(region) {
			glyph = "▾"
		}
		if row.Subsection {
			return "  " + glyph + " " + row.Name
		}
		return glyph + " " + row.Name
	case tree.RowPanel:
		id := row.PanelID
		if id == "" {
			id = row.CustomPanel
		}
		return "◻ " + row.Name + " [" + id + "]"
	case tree.RowButton:
		return "· button row"
	default:
		return "? " + string(row.Kind)
	}
}

func (m *Model) entryItems() []uistate.Item {
	row := m.selectedRow()
	if row == nil {
		return nil
	}
	items := make([]uistate.Item, 0, len(row.Buttons))
	for i, entry := range row.Buttons {
		detail, known := m.entryDetail(entry)
		items = append(items, uistate.Item{
			ID:     "entry:" + strconv.Itoa(i),
			Label:  entry.Label(),
			Detail: detail,
			Dim:    !known,
		})
	}
	return items
}

// entryDetail annotates a button entry with what it will do when drawn.
// Ids without a registered handler degrade to a dimmed placeholder
// annotation instead of an error.
func (m *Model) entryDetail(entry *tree.ButtonEntry) (string, bool) {
	switch entry.ButtonID {
	case tree.ButtonSpacer:
		return fmt.Sprintf("spacer ×%.1f", entry.SpacerWidth), true
	case tree.ButtonProperty:
		return entry.ButtonPath, true
	case tree.ButtonOperator:
		if entry.OperatorCall != "" {
			return buttons.ParseOperatorCall(entry.OperatorCall), true
		}
		return entry.ButtonID, true
	case tree.ButtonCustomScript:
		return entry.ButtonID, true
	}
	b := m.buttons.Lookup(entry.ButtonID)
	if group, _, ok := buttons.SplitID(entry.ButtonID); ok {
		return group, !b.Placeholder
	}
	return "unknown: " + entry.ButtonID, false
}

// itemIndex extracts the trailing tree index from an item id.
func itemIndex(id string) int {
	pos := strings.LastIndex(id, ":")
	if pos < 0 {
		return -1
	}
	n, err := strconv.Atoi(id[pos+1:])
	if err != nil {
		return -1
	}
	return n
}

// cursorAddress builds the address of the node under the cursor, using the
// recorded path for the enclosing levels and the cursor item for the last.
func (m *Model) cursorAddress() address.Address {
	addr := address.Address{
		Owner:      m.ownerKind,
		OwnerIndex: m.ownerIdx,
		Category:   address.Stop,
		Row:        address.Stop,
		Entry:      address.Stop,
	}
	current := m.currentLevel()
	idx := -1
	if current != nil {
		if item := current.Current(); item != nil {
			idx = itemIndex(item.ID)
		}
	}
	switch m.Pane() {
	case PaneCategories:
		addr.Category = idx
	case PaneRows:
		addr.Category = m.catIdx
		addr.Row = idx
	case PaneEntries:
		addr.Category = m.catIdx
		addr.Row = m.rowIdx
		addr.Entry = idx
	}
	return addr
}

// syncSelection mirrors the cursor into the tree's active indices so paste
// targets and clamp logic agree with what the user sees.
func (m *Model) syncSelection() {
	current := m.currentLevel()
	if current == nil {
		return
	}
	item := current.Current()
	if item == nil {
		return
	}
	idx := itemIndex(item.ID)
	root := m.editor.Root()
	switch m.Pane() {
	case PaneOwners:
		if strings.HasPrefix(item.ID, "owner:popup:") && idx >= 0 {
			root.ActivePopup = idx
			root.ClampActivePopup()
		}
	case PaneCategories:
		if owner := m.selectedOwner(); owner != nil && idx >= 0 {
			owner.ActiveCategory = idx
			owner.ClampActiveCategory()
		}
	case PaneRows:
		if cat := m.selectedCategory(); cat != nil && idx >= 0 {
			cat.ActiveRow = idx
			cat.ClampActiveRow()
		}
	case PaneEntries:
		if row := m.selectedRow(); row != nil && idx >= 0 {
			row.ActiveButton = idx
			row.ClampActiveButton()
		}
	}
	m.session.Cursor = m.cursorAddress()
}

func (m *Model) handleEnterKey() tea.Cmd {
	current := m.currentLevel()
	if current == nil || len(current.Items) == 0 {
		return nil
	}
	item := current.Items[current.Cursor]
	idx := itemIndex(item.ID)
	events.UI.PaneEnter(current.ID, item.ID, item.Label)
	beforeCursor := current.FilterCursorPos()
	current.SetFilter("", 0)
	m.noteFilterCursorChange(current, beforeCursor)

	switch m.Pane() {
	case PaneOwners:
		if item.ID == "owner:global" {
			m.ownerKind = tree.OwnerGlobal
			m.ownerIdx = 0
		} else {
			m.ownerKind = tree.OwnerPopup
			m.ownerIdx = idx
		}
		m.pushLevel(newLevel("categories:"+item.ID, item.Label, m.categoryItems()))
	case PaneCategories:
		if idx < 0 {
			return nil
		}
		m.catIdx = idx
		m.pushLevel(newLevel("rows:"+item.ID, item.Label, m.rowItems()))
	case PaneRows:
		if idx < 0 {
			return nil
		}
		row := m.selectedCategory().Rows[idx]
		switch row.Kind {
		case tree.RowButton:
			m.rowIdx = idx
			m.pushLevel(newLevel("entries:"+item.ID, item.Label, m.entryItems()))
		case tree.RowSection, tree.RowPanel:
			m.toggleRowOpen(idx)
		}
	case PaneEntries:
		m.setInfo(fmt.Sprintf("Selected %s", item.Label))
	}
	m.syncSelection()
	return nil
}

func (m *Model) pushLevel(l *level) {
	if current := m.currentLevel(); current != nil {
		current.LastCursor = current.Cursor
	}
	if len(l.Items) > 0 {
		l.Cursor = 0
	}
	m.syncViewport(l)
	m.stack = append(m.stack, l)
	m.errMsg = ""
	m.forceClearInfo()
	if len(l.Items) == 0 {
		m.setInfo("No entries found.")
	}
}

func (m *Model) handleEscapeKey() tea.Cmd {
	current := m.currentLevel()
	if current == nil || len(m.stack) <= 1 {
		return tea.Quit
	}
	parent := m.stack[len(m.stack)-2]
	m.stack = m.stack[:len(m.stack)-1]
	if parent != nil {
		if parent.LastCursor >= 0 && parent.LastCursor < len(parent.Items) {
			parent.Cursor = parent.LastCursor
		} else if idx := parent.IndexOf(current.ID); idx >= 0 {
			parent.Cursor = idx
		} else if len(parent.Items) > 0 {
			parent.Cursor = len(parent.Items) - 1
		}
		parent.LastCursor = -1
		m.syncViewport(parent)
	}
	m.errMsg = ""
	m.forceClearInfo()
	m.syncSelection()
	return nil
}

// refreshLevels rebuilds every level's items from the tree after a
// mutation, keeping cursors clamped.
func (m *Model) refreshLevels() {
	for _, l := range m.stack {
		switch {
		case l.ID == "owners":
			l.UpdateItems(m.ownerItems())
		case strings.HasPrefix(l.ID, "categories:"):
			l.UpdateItems(m.categoryItems())
		case strings.HasPrefix(l.ID, "rows:"):
			l.UpdateItems(m.rowItems())
		case strings.HasPrefix(l.ID, "entries:"):
			l.UpdateItems(m.entryItems())
		}
		if len(l.Items) > 0 && (l.Cursor < 0 || l.Cursor >= len(l.Items)) {
			l.Cursor = len(l.Items) - 1
		}
		m.syncViewport(l)
	}
}

// moveCursorTo places the cursor of the current level on the item carrying
// the given tree index.
func (m *Model) moveCursorTo(prefix string, index int) {
	current := m.currentLevel()
	if current == nil || index < 0 {
		return
	}
	if idx := current.IndexOf(prefix + strconv.Itoa(index)); idx >= 0 {
		current.Cursor = idx
		m.syncViewport(current)
	}
}

func (m *Model) toggleRowOpen(idx int) {
	cat := m.selectedCategory()
	if cat == nil || idx < 0 || idx >= len(cat.Rows) {
		return
	}
	row := cat.Rows[idx]
	if row.Kind != tree.RowSection && row.Kind != tree.RowPanel {
		return
	}
	region := m.regionFor()
	row.SetOpen(region, !row.IsOpen(region))
	m.markDirty()
	m.refreshLevels()
}

func (m *Model) cycleRegion() {
	regions := tree.PinRegions()
	next := 0
	for i, region := range regions {
		if region == m.region {
			next = (i + 1) % len(regions)
			break
		}
	}
	m.region = regions[next]
	events.UI.Region(string(m.region))
	m.setInfo(fmt.Sprintf("Region: %s", m.region))
	m.refreshLevels()
}

func (m *Model) markDirty() {
	m.dirty = true
}

func hotkeyLabel(h tree.Hotkey) string {
	var parts []string
	if h.Ctrl {
		parts = append(parts, "ctrl")
	}
	if h.Alt {
		parts = append(parts, "alt")
	}
	if h.Shift {
		parts = append(parts, "shift")
	}
	parts = append(parts, strings.ToLower(h.Key))
	return strings.Join(parts, "+")
}
