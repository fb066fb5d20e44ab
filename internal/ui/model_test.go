package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yyyup/panelkit/internal/editor"
	"github.com/yyyup/panelkit/internal/testutil"
	"github.com/yyyup/panelkit/internal/tree"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithTempLog(m))
}

func fixtureEditor() *editor.Editor {
	root := tree.NewRoot()
	tools := tree.NewCategory("Tools")
	section := tree.NewSection("Transforms")
	buttons := tree.NewButtonRow()
	buttons.Buttons = append(buttons.Buttons,
		&tree.ButtonEntry{Name: "Apply All", ButtonID: tree.ButtonOperator, OperatorCall: "object.transform_apply"},
		&tree.ButtonEntry{ButtonID: tree.ButtonSpacer, SpacerWidth: 1},
		&tree.ButtonEntry{Name: "Euler Filter", ButtonID: "Cleanup_EulerFilter"},
	)
	tools.Rows = append(tools.Rows, section, buttons)
	rigging := tree.NewCategory("Rigging")
	root.Global.Categories = append(root.Global.Categories, tools, rigging)
	root.Popups = append(root.Popups, tree.NewPopupOwner("Quick Pie"))
	return editor.New(root)
}

func newTestHarness(opts Options) *Harness {
	if opts.Width == 0 {
		opts.Width = 100
	}
	if opts.Height == 0 {
		opts.Height = 30
	}
	return NewHarness(NewModel(fixtureEditor(), opts))
}

func altKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}, Alt: true}
}

func TestOwnersLevelListsOwners(t *testing.T) {
	h := newTestHarness(Options{})
	current := h.Model().currentLevel()
	if current == nil {
		t.Fatalf("expected a root level")
	}
	if len(current.Items) != 2 {
		t.Fatalf("expected global plus one popup, got %d items", len(current.Items))
	}
	if current.Items[0].ID != "owner:global" {
		t.Fatalf("expected global owner first, got %q", current.Items[0].ID)
	}
	if current.Items[1].Label != "Quick Pie" {
		t.Fatalf("expected popup label, got %q", current.Items[1].Label)
	}
}

func TestEnterDrillsThroughTree(t *testing.T) {
	h := newTestHarness(Options{})
	h.SendKey(tea.KeyEnter)
	if got := h.Model().Pane(); got != PaneCategories {
		t.Fatalf("expected categories pane, got %v", got)
	}
	current := h.Model().currentLevel()
	if len(current.Items) != 2 || current.Items[0].Label != "Tools" {
		t.Fatalf("unexpected category items: %#v", current.Items)
	}

	h.SendKey(tea.KeyEnter)
	if got := h.Model().Pane(); got != PaneRows {
		t.Fatalf("expected rows pane, got %v", got)
	}
	current = h.Model().currentLevel()
	if len(current.Items) != 2 {
		t.Fatalf("expected section and button row, got %#v", current.Items)
	}
	if !strings.HasPrefix(current.Items[0].Label, "▾") {
		t.Fatalf("expected open section glyph, got %q", current.Items[0].Label)
	}

	// Enter on a section toggles its open state instead of drilling in.
	h.SendKey(tea.KeyEnter)
	current = h.Model().currentLevel()
	if !strings.HasPrefix(current.Items[0].Label, "▸") {
		t.Fatalf("expected closed section glyph, got %q", current.Items[0].Label)
	}
	if !h.Model().Dirty() {
		t.Fatalf("toggling a section should mark the tree dirty")
	}

	// Enter on a button row drills into its entries.
	h.SendKey(tea.KeyDown)
	h.SendKey(tea.KeyEnter)
	if got := h.Model().Pane(); got != PaneEntries {
		t.Fatalf("expected entries pane, got %v", got)
	}
	current = h.Model().currentLevel()
	if len(current.Items) != 3 || current.Items[0].Label != "Apply All" {
		t.Fatalf("unexpected entry items: %#v", current.Items)
	}
	if current.Items[1].Label != tree.ButtonSpacer {
		t.Fatalf("expected spacer fallback label, got %q", current.Items[1].Label)
	}
	if current.Items[2].Detail != "Cleanup" || !current.Items[2].Dim {
		t.Fatalf("expected unregistered button dimmed with its group, got %#v", current.Items[2])
	}
}

func TestEscapeRestoresParentCursor(t *testing.T) {
	h := newTestHarness(Options{})
	h.SendKey(tea.KeyEnter)
	h.SendKey(tea.KeyDown)
	h.SendKey(tea.KeyEnter) // Rigging has no rows
	if got := h.Model().Pane(); got != PaneRows {
		t.Fatalf("expected rows pane, got %v", got)
	}
	h.SendKey(tea.KeyEsc)
	current := h.Model().currentLevel()
	if got := h.Model().Pane(); got != PaneCategories {
		t.Fatalf("expected categories pane after escape, got %v", got)
	}
	if current.Cursor != 1 {
		t.Fatalf("expected cursor restored to Rigging, got %d", current.Cursor)
	}
}

func TestFilterNarrowsCategories(t *testing.T) {
	h := newTestHarness(Options{})
	h.SendKey(tea.KeyEnter)
	h.Type("rig")
	current := h.Model().currentLevel()
	if len(current.Items) != 1 || current.Items[0].Label != "Rigging" {
		t.Fatalf("expected filter to isolate Rigging, got %#v", current.Items)
	}
	h.SendKey(tea.KeyBackspace)
	h.SendKey(tea.KeyBackspace)
	h.SendKey(tea.KeyBackspace)
	current = h.Model().currentLevel()
	if len(current.Items) != 2 {
		t.Fatalf("expected full list after clearing filter, got %#v", current.Items)
	}
}

func TestDuplicateCategoryAddsCopy(t *testing.T) {
	h := newTestHarness(Options{})
	h.SendKey(tea.KeyEnter)
	h.Send(altKey('d'))
	owner := h.Model().editor.Root().Global
	if len(owner.Categories) != 3 {
		t.Fatalf("expected 3 categories after duplicate, got %d", len(owner.Categories))
	}
	if !h.Model().Dirty() {
		t.Fatalf("duplicate should mark the tree dirty")
	}
	current := h.Model().currentLevel()
	if len(current.Items) != 3 {
		t.Fatalf("expected the list to refresh, got %#v", current.Items)
	}
}

func TestDeleteSectionPromptsWithSpan(t *testing.T) {
	h := newTestHarness(Options{})
	h.SendKey(tea.KeyEnter)
	h.SendKey(tea.KeyEnter)
	h.Send(altKey('x'))
	m := h.Model()
	if m.mode != ModeConfirmDelete {
		t.Fatalf("expected confirm mode, got %v", m.mode)
	}
	if !strings.Contains(m.confirmPrompt, "beneath") {
		t.Fatalf("expected block span warning, got %q", m.confirmPrompt)
	}
	h.Type("y")
	if m.mode != ModeBrowse {
		t.Fatalf("expected browse mode after confirm, got %v", m.mode)
	}
	cat := m.editor.Root().Global.Categories[0]
	if len(cat.Rows) != 0 {
		t.Fatalf("expected section block removed, got %d rows", len(cat.Rows))
	}
}

func TestDeleteCancelKeepsRows(t *testing.T) {
	h := newTestHarness(Options{})
	h.SendKey(tea.KeyEnter)
	h.SendKey(tea.KeyEnter)
	h.Send(altKey('x'))
	h.Type("n")
	m := h.Model()
	if m.mode != ModeBrowse {
		t.Fatalf("expected browse mode after cancel, got %v", m.mode)
	}
	cat := m.editor.Root().Global.Categories[0]
	if len(cat.Rows) != 2 {
		t.Fatalf("expected rows untouched after cancel, got %d", len(cat.Rows))
	}
}

func TestGlobalOwnerCannotBeDeleted(t *testing.T) {
	h := newTestHarness(Options{})
	h.Send(altKey('x'))
	m := h.Model()
	if m.mode != ModeBrowse {
		t.Fatalf("expected no confirm prompt for the global owner")
	}
	if m.editor.Root().Global == nil {
		t.Fatalf("global owner must survive")
	}
}

func TestRenameCategory(t *testing.T) {
	h := newTestHarness(Options{})
	h.SendKey(tea.KeyEnter)
	h.Send(altKey('r'))
	m := h.Model()
	if m.mode != ModeRename {
		t.Fatalf("expected rename mode, got %v", m.mode)
	}
	if got := m.rename.Value(); got != "Tools" {
		t.Fatalf("expected prompt seeded with current name, got %q", got)
	}
	h.Type("!")
	h.SendKey(tea.KeyEnter)
	if m.mode != ModeBrowse {
		t.Fatalf("expected browse mode after rename, got %v", m.mode)
	}
	if got := m.editor.Root().Global.Categories[0].Name; got != "Tools!" {
		t.Fatalf("expected renamed category, got %q", got)
	}
	if !m.Dirty() {
		t.Fatalf("rename should mark the tree dirty")
	}
}

func TestTabCyclesRegions(t *testing.T) {
	h := newTestHarness(Options{})
	start := h.Model().Region()
	h.SendKey(tea.KeyTab)
	if h.Model().Region() == start {
		t.Fatalf("expected region to advance")
	}
	for i := 1; i < len(tree.PinRegions()); i++ {
		h.SendKey(tea.KeyTab)
	}
	if got := h.Model().Region(); got != start {
		t.Fatalf("expected full cycle back to %q, got %q", start, got)
	}
}

func TestSaveClearsDirtyAndWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panelkit.json")
	h := newTestHarness(Options{SettingsPath: path})
	h.SendKey(tea.KeyEnter)
	h.Send(altKey('d'))
	if !h.Model().Dirty() {
		t.Fatalf("expected dirty tree before save")
	}
	h.Send(tea.KeyMsg{Type: tea.KeyCtrlS})
	if h.Model().Dirty() {
		t.Fatalf("expected save to clear the dirty flag")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected settings file on disk: %v", err)
	}
}

func TestViewShowsBreadcrumbAndRows(t *testing.T) {
	h := newTestHarness(Options{})
	h.SendKey(tea.KeyEnter)
	h.SendKey(tea.KeyEnter)
	view := h.View()
	if !strings.Contains(view, "Tools") {
		t.Fatalf("expected breadcrumb to mention the category:\n%s", view)
	}
	if !strings.Contains(view, "Transforms") {
		t.Fatalf("expected the section row in the list:\n%s", view)
	}
	if !strings.Contains(view, string(h.Model().Region())) {
		t.Fatalf("expected the region in the header:\n%s", view)
	}
}

func TestWindowResizeUpdatesDimensions(t *testing.T) {
	h := NewHarness(NewModel(fixtureEditor(), Options{}))
	h.Send(tea.WindowSizeMsg{Width: 120, Height: 40})
	m := h.Model()
	if m.width != 120 || m.height != 40 {
		t.Fatalf("expected 120x40, got %dx%d", m.width, m.height)
	}
}

func TestFixedDimensionsIgnoreResize(t *testing.T) {
	h := newTestHarness(Options{Width: 80, Height: 20})
	h.Send(tea.WindowSizeMsg{Width: 200, Height: 60})
	m := h.Model()
	if m.width != 80 || m.height != 20 {
		t.Fatalf("expected fixed 80x20, got %dx%d", m.width, m.height)
	}
}
