package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yyyup/panelkit/internal/backend"
	"github.com/yyyup/panelkit/internal/editor"
	"github.com/yyyup/panelkit/internal/logging/events"
	"github.com/yyyup/panelkit/internal/settings"
	"github.com/yyyup/panelkit/internal/tree"
)

type backendEventMsg struct {
	event backend.Event
	ok    bool
}

type saveDoneMsg struct {
	path string
	err  error
}

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		return backendEventMsg{event: evt, ok: ok}
	}
}

func (m *Model) saveCmd() tea.Cmd {
	root := m.editor.Root()
	path := m.settingsPath
	return func() tea.Msg {
		return saveDoneMsg{path: path, err: settings.Save(path, root)}
	}
}

func (m *Model) handleSaveDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(saveDoneMsg)
	if !ok {
		return nil
	}
	if done.err != nil {
		m.errMsg = done.err.Error()
		events.Action.Error(done.err)
		return nil
	}
	m.dirty = false
	m.errMsg = ""
	if m.verbose {
		m.setInfo(fmt.Sprintf("Saved %s", done.path))
	}
	events.Action.Success("settings saved")
	return nil
}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	evt, ok := msg.(backendEventMsg)
	if !ok || !evt.ok {
		return nil
	}
	rearm := waitForBackendEvent(m.watcher)
	if evt.event.Err != nil || m.dirty {
		// Never clobber unsaved edits with an external snapshot.
		return rearm
	}
	root, err := settings.Load(m.settingsPath)
	if err != nil {
		m.errMsg = err.Error()
		return rearm
	}
	m.editor = editor.New(root)
	m.clampSelectionPath()
	m.refreshLevels()
	m.setInfo("Reloaded settings from disk")
	return rearm
}

// clampSelectionPath re-validates the recorded owner/category/row indices
// after the tree has been replaced underneath the stack.
func (m *Model) clampSelectionPath() {
	root := m.editor.Root()
	if m.ownerKind == tree.OwnerPopup && m.ownerIdx >= len(root.Popups) {
		m.ownerKind = tree.OwnerGlobal
		m.ownerIdx = 0
		m.stack = m.stack[:1]
	}
	owner := m.selectedOwner()
	if owner == nil {
		m.stack = m.stack[:1]
		return
	}
	if len(m.stack) > int(PaneCategories)+1 && m.catIdx >= len(owner.Categories) {
		m.stack = m.stack[:int(PaneCategories)+1]
	}
	if cat := m.selectedCategory(); cat == nil && len(m.stack) > int(PaneRows) {
		m.stack = m.stack[:int(PaneRows)]
	} else if cat != nil && len(m.stack) > int(PaneRows)+1 && m.rowIdx >= len(cat.Rows) {
		m.stack = m.stack[:int(PaneRows)+1]
	}
}

// handleActionKey dispatches the structural edit bindings. Returns handled
// false for keys that belong to navigation or the filter.
func (m *Model) handleActionKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch msg.String() {
	case "ctrl+s":
		return m.saveCmd(), true
	case "alt+up":
		m.applyEdit("move up", m.opMoveUp)
		return nil, true
	case "alt+down":
		m.applyEdit("move down", m.opMoveDown)
		return nil, true
	case "alt+d":
		m.applyEdit("duplicate", m.opDuplicate)
		return nil, true
	case "alt+c":
		m.applyCopy()
		return nil, true
	case "alt+v":
		m.applyEdit("paste", m.opPaste)
		return nil, true
	case "alt+n":
		m.applyEdit("add", m.opAdd)
		return nil, true
	case "alt+b":
		if m.Pane() == PaneRows {
			m.applyEdit("add button row", func() error {
				return m.editor.AddButtonRow(m.cursorAddress())
			})
		}
		return nil, true
	case "alt+r":
		m.beginRename()
		return nil, true
	case "alt+x", "delete":
		m.beginDelete()
		return nil, true
	}
	return nil, false
}

// applyEdit runs a mutating editor operation and refreshes the lists.
func (m *Model) applyEdit(what string, op func() error) {
	m.syncSelection()
	if err := op(); err != nil {
		m.errMsg = err.Error()
		events.Action.Error(err)
		return
	}
	m.errMsg = ""
	m.markDirty()
	m.refreshLevels()
	m.restoreCursorFromActive()
	if m.verbose {
		m.setInfo(fmt.Sprintf("Applied %s", what))
	}
}

// restoreCursorFromActive moves the cursor onto the tree's active index for
// the current pane; editor operations leave the active index on the moved
// or inserted node.
func (m *Model) restoreCursorFromActive() {
	switch m.Pane() {
	case PaneOwners:
		if root := m.editor.Root(); root.ActivePopup >= 0 {
			m.moveCursorTo("owner:popup:", root.ActivePopup)
		}
	case PaneCategories:
		if owner := m.selectedOwner(); owner != nil && owner.ActiveCategory >= 0 {
			m.moveCursorTo("cat:", owner.ActiveCategory)
		}
	case PaneRows:
		if cat := m.selectedCategory(); cat != nil && cat.ActiveRow >= 0 {
			m.moveCursorTo("row:", cat.ActiveRow)
		}
	case PaneEntries:
		if row := m.selectedRow(); row != nil && row.ActiveButton >= 0 {
			m.moveCursorTo("entry:", row.ActiveButton)
		}
	}
	m.syncSelection()
}

func (m *Model) opMoveUp() error {
	addr := m.cursorAddress()
	switch m.Pane() {
	case PaneOwners:
		return m.editor.MovePopupUp()
	case PaneCategories:
		return m.editor.MoveCategoryUp(addr)
	case PaneRows:
		return m.editor.MoveRowUp(addr)
	case PaneEntries:
		return m.editor.MoveEntryUp(addr)
	}
	return nil
}

func (m *Model) opMoveDown() error {
	addr := m.cursorAddress()
	switch m.Pane() {
	case PaneOwners:
		return m.editor.MovePopupDown()
	case PaneCategories:
		return m.editor.MoveCategoryDown(addr)
	case PaneRows:
		return m.editor.MoveRowDown(addr)
	case PaneEntries:
		return m.editor.MoveEntryDown(addr)
	}
	return nil
}

func (m *Model) opDuplicate() error {
	addr := m.cursorAddress()
	switch m.Pane() {
	case PaneOwners:
		return m.editor.DuplicatePopup()
	case PaneCategories:
		return m.editor.DuplicateCategory(addr)
	case PaneRows:
		return m.editor.DuplicateRow(addr)
	case PaneEntries:
		return m.editor.DuplicateEntry(addr)
	}
	return nil
}

func (m *Model) applyCopy() {
	m.syncSelection()
	addr := m.cursorAddress()
	var err error
	switch m.Pane() {
	case PaneOwners:
		err = m.editor.CopyPopup()
	case PaneCategories:
		err = m.editor.CopyCategory(addr)
	case PaneRows:
		err = m.editor.CopyRow(addr)
	case PaneEntries:
		err = m.editor.CopyEntry(addr)
	}
	if err != nil {
		m.errMsg = err.Error()
		events.Action.Error(err)
		return
	}
	m.errMsg = ""
	m.setInfo("Copied to clipboard")
}

func (m *Model) opPaste() error {
	addr := m.cursorAddress()
	switch m.Pane() {
	case PaneOwners:
		return m.editor.PastePopup()
	case PaneCategories:
		return m.editor.PasteCategory(addr)
	case PaneRows:
		return m.editor.PasteRow(addr)
	case PaneEntries:
		return m.editor.PasteEntry(addr)
	}
	return nil
}

func (m *Model) opAdd() error {
	addr := m.cursorAddress()
	switch m.Pane() {
	case PaneOwners:
		return m.editor.AddPopup()
	case PaneCategories:
		return m.editor.AddCategory(addr)
	case PaneRows:
		return m.editor.AddSection(addr)
	case PaneEntries:
		return m.editor.AddEntry(addr, editor.NewOperatorEntry())
	}
	return nil
}

func (m *Model) beginDelete() {
	m.syncSelection()
	current := m.currentLevel()
	if current == nil || current.Current() == nil {
		return
	}
	addr := m.cursorAddress()
	label := current.Current().Label

	switch m.Pane() {
	case PaneOwners:
		if !strings.HasPrefix(current.Current().ID, "owner:popup:") {
			m.setInfo("The global toolbar cannot be deleted")
			return
		}
		idx := itemIndex(current.Current().ID)
		m.confirmPrompt = fmt.Sprintf("Delete popup panel %q? (y/n)", label)
		m.confirmAction = func() error { return m.editor.DeletePopup(idx) }
	case PaneCategories:
		m.confirmPrompt = fmt.Sprintf("Delete category %q? (y/n)", label)
		m.confirmAction = func() error { return m.editor.DeleteCategory(addr) }
	case PaneRows:
		span, err := m.editor.DeleteRowSpan(addr)
		if err != nil {
			m.errMsg = err.Error()
			events.Action.Error(err)
			return
		}
		if span > 1 {
			m.confirmPrompt = fmt.Sprintf("Delete %q and the %d rows beneath it? (y/n)", label, span-1)
		} else {
			m.confirmPrompt = fmt.Sprintf("Delete row %q? (y/n)", label)
		}
		m.confirmAction = func() error { return m.editor.DeleteRow(addr) }
	case PaneEntries:
		m.confirmPrompt = fmt.Sprintf("Delete button %q? (y/n)", label)
		m.confirmAction = func() error { return m.editor.DeleteEntry(addr) }
	}
	m.mode = ModeConfirmDelete
}

func (m *Model) handleConfirmMode(msg tea.Msg) (bool, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return false, nil
	}
	switch keyMsg.String() {
	case "y", "Y", "enter":
		action := m.confirmAction
		m.mode = ModeBrowse
		m.confirmPrompt = ""
		m.confirmAction = nil
		if action != nil {
			m.applyEdit("delete", action)
		}
		return true, nil
	case "n", "N", "esc", "ctrl+c":
		m.mode = ModeBrowse
		m.confirmPrompt = ""
		m.confirmAction = nil
		return true, nil
	}
	return true, nil
}

func (m *Model) beginRename() {
	m.syncSelection()
	current := m.currentLevel()
	if current == nil || current.Current() == nil {
		return
	}
	addr := m.cursorAddress()
	item := current.Current()

	switch m.Pane() {
	case PaneOwners:
		if !strings.HasPrefix(item.ID, "owner:popup:") {
			m.setInfo("The global toolbar cannot be renamed")
			return
		}
		idx := itemIndex(item.ID)
		m.renameApply = func(name string) error { return m.editor.RenamePopup(idx, name) }
	case PaneCategories:
		m.renameApply = func(name string) error { return m.editor.RenameCategory(addr, name) }
	case PaneRows:
		cat := m.selectedCategory()
		idx := itemIndex(item.ID)
		if cat == nil || idx < 0 || idx >= len(cat.Rows) {
			return
		}
		if cat.Rows[idx].Kind == tree.RowButton {
			m.setInfo("Button rows have no name")
			return
		}
		m.renameApply = func(name string) error { return m.editor.RenameRow(addr, name) }
	case PaneEntries:
		m.renameApply = func(name string) error { return m.editor.RenameEntry(addr, name) }
	}

	m.rename.SetValue(currentName(item.Label))
	m.rename.CursorEnd()
	m.rename.Focus()
	m.mode = ModeRename
}

// currentName strips the list glyph prefix off a row label so the rename
// prompt starts from the bare name.
func currentName(label string) string {
	trimmed := strings.TrimSpace(label)
	for _, prefix := range []string{"▸ ", "▾ ", "◻ ", "· ", "? "} {
		if strings.HasPrefix(trimmed, prefix) {
			trimmed = strings.TrimPrefix(trimmed, prefix)
			break
		}
	}
	if idx := strings.LastIndex(trimmed, " ["); idx > 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}

func (m *Model) handleRenameMode(msg tea.Msg) (bool, tea.Cmd) {
	keyMsg, isKey := msg.(tea.KeyMsg)
	if isKey {
		switch keyMsg.String() {
		case "enter":
			apply := m.renameApply
			value := m.rename.Value()
			m.mode = ModeBrowse
			m.renameApply = nil
			m.rename.Blur()
			if apply != nil {
				m.applyEdit("rename", func() error { return apply(value) })
			}
			return true, nil
		case "esc", "ctrl+c":
			m.mode = ModeBrowse
			m.renameApply = nil
			m.rename.Blur()
			return true, nil
		}
	}
	var cmd tea.Cmd
	m.rename, cmd = m.rename.Update(msg)
	return true, cmd
}
