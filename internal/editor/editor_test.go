package editor

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/yyyup/panelkit/internal/address"
	"github.com/yyyup/panelkit/internal/clipboard"
	"github.com/yyyup/panelkit/internal/plain"
	"github.com/yyyup/panelkit/internal/testutil"
	"github.com/yyyup/panelkit/internal/tree"
)

func TestMain(m *testing.M) {
	clipboard.SetMemoryOnly(true)
	os.Exit(testutil.RunWithTempLog(m))
}

// toolsRoot builds the global owner with one category:
//
//	0 SECTION Cleanup (open)
//	1 BUTTON  [spacer, Cleanup_EulerFilter]
//	2 SECTION Selections (closed)
//	3 BUTTON  [Selections_CurvesAll]
func toolsRoot() *tree.Root {
	root := tree.NewRoot()

	cat := tree.NewCategory("Tools")
	cleanup := tree.NewSection("Cleanup")
	cleanupRow := tree.NewButtonRow()
	cleanupRow.Buttons = []*tree.ButtonEntry{
		{ButtonID: tree.ButtonSpacer, SpacerWidth: 0.5},
		{Name: "Cleanup_EulerFilter", ButtonID: "Cleanup_EulerFilter"},
	}
	selections := tree.NewSection("Selections")
	selections.SetOpen(tree.RegionSideGraph, false)
	selectionsRow := tree.NewButtonRow()
	selectionsRow.Buttons = []*tree.ButtonEntry{
		{Name: "Selections_CurvesAll", ButtonID: "Selections_CurvesAll"},
	}
	cat.Rows = []*tree.Row{cleanup, cleanupRow, selections, selectionsRow}
	cat.ActiveRow = 0

	root.Global.Categories = []*tree.Category{cat}
	root.Global.ActiveCategory = 0
	return root
}

func rowNames(cat *tree.Category) []string {
	names := make([]string, 0, len(cat.Rows))
	for _, row := range cat.Rows {
		name := row.Name
		if name == "" {
			name = string(row.Kind)
		}
		names = append(names, name)
	}
	return names
}

func catAddr(row int) address.Address {
	return address.Global(0, row, address.Stop)
}

func TestDeleteBlockThenMoveUpScenario(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	cat := root.Global.Categories[0]

	if span, err := ed.DeleteRowSpan(catAddr(0)); err != nil || span != 2 {
		t.Fatalf("DeleteRowSpan = %d, %v; want 2", span, err)
	}
	if err := ed.DeleteRow(catAddr(0)); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}
	if len(cat.Rows) != 2 {
		t.Fatalf("rows after delete = %v", rowNames(cat))
	}
	if cat.Rows[0].Name != "Selections" {
		t.Fatalf("expected Selections at index 0, got %v", rowNames(cat))
	}
	if cat.ActiveRow != 0 {
		t.Fatalf("active row = %d, want 0", cat.ActiveRow)
	}

	before := rowNames(cat)
	if err := ed.MoveRowUp(catAddr(0)); err != nil {
		t.Fatalf("MoveRowUp: %v", err)
	}
	after := rowNames(cat)
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("up move on top block should be a no-op: %v -> %v", before, after)
		}
	}
}

func TestMoveBlockDownKeepsBlockContiguous(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	cat := root.Global.Categories[0]

	if err := ed.MoveRowDown(catAddr(0)); err != nil {
		t.Fatalf("MoveRowDown: %v", err)
	}
	got := rowNames(cat)
	want := []string{"Selections", "BUTTON", "Cleanup", "BUTTON"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	}
	if cat.ActiveRow != 2 {
		t.Fatalf("active row = %d, want 2", cat.ActiveRow)
	}
	// The button row under Cleanup moved with its head.
	if len(cat.Rows[3].Buttons) != 2 {
		t.Fatalf("cleanup content did not travel with the block")
	}
}

func TestMoveBlockUp(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	cat := root.Global.Categories[0]
	cat.ActiveRow = 2

	if err := ed.MoveRowUp(catAddr(address.Stop)); err != nil {
		t.Fatalf("MoveRowUp: %v", err)
	}
	got := rowNames(cat)
	want := []string{"Selections", "BUTTON", "Cleanup", "BUTTON"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	}
	if cat.ActiveRow != 0 {
		t.Fatalf("active row = %d, want 0", cat.ActiveRow)
	}
}

func TestMovePlainRowSwaps(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	cat := root.Global.Categories[0]

	if err := ed.MoveRowDown(catAddr(1)); err != nil {
		t.Fatalf("MoveRowDown: %v", err)
	}
	if cat.Rows[1].Name != "Selections" || cat.Rows[2].Kind != tree.RowButton {
		t.Fatalf("plain row should swap with its neighbor: %v", rowNames(cat))
	}
	if cat.ActiveRow != 2 {
		t.Fatalf("active row = %d, want 2", cat.ActiveRow)
	}
}

func TestMoveRowUpKeepsSubsectionUnderAHead(t *testing.T) {
	root := tree.NewRoot()
	cat := tree.NewCategory("Tools")
	head := tree.NewSection("Main")
	sub := tree.NewSection("Detail")
	sub.Subsection = true
	cat.Rows = []*tree.Row{head, sub}
	root.Global.Categories = []*tree.Category{cat}
	root.Global.ActiveCategory = 0
	ed := New(root)

	if err := ed.MoveRowUp(catAddr(1)); err != nil {
		t.Fatalf("MoveRowUp: %v", err)
	}
	if cat.Rows[0] != head || cat.Rows[1] != sub {
		t.Fatalf("subsection climbed above its only head: %v", rowNames(cat))
	}

	// Another head above keeps the subsection covered after the swap.
	cat.Rows = []*tree.Row{tree.NewSection("Upper"), head, sub}
	if err := ed.MoveRowUp(catAddr(2)); err != nil {
		t.Fatalf("MoveRowUp with cover: %v", err)
	}
	if cat.Rows[1] != sub || cat.Rows[2] != head {
		t.Fatalf("covered subsection should swap upward: %v", rowNames(cat))
	}
}

func TestDuplicateBlock(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	cat := root.Global.Categories[0]

	if err := ed.DuplicateRow(catAddr(0)); err != nil {
		t.Fatalf("DuplicateRow: %v", err)
	}
	if len(cat.Rows) != 6 {
		t.Fatalf("rows = %v", rowNames(cat))
	}
	if cat.Rows[2].Name != "Cleanup Copy" {
		t.Fatalf("duplicate head = %q", cat.Rows[2].Name)
	}
	if cat.ActiveRow != 2 {
		t.Fatalf("active row = %d, want 2", cat.ActiveRow)
	}
	// Deep copy: mutating the clone's buttons leaves the original alone.
	cat.Rows[3].Buttons[1].Name = "changed"
	if cat.Rows[1].Buttons[1].Name != "Cleanup_EulerFilter" {
		t.Fatalf("duplicate shares button entries with the original")
	}
}

func TestCopyPasteBlock(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	cat := root.Global.Categories[0]

	if err := ed.CopyRow(catAddr(0)); err != nil {
		t.Fatalf("CopyRow: %v", err)
	}
	cat.ActiveRow = 2
	if err := ed.PasteRow(catAddr(address.Stop)); err != nil {
		t.Fatalf("PasteRow: %v", err)
	}
	got := rowNames(cat)
	want := []string{"Cleanup", "BUTTON", "Cleanup Copy", "BUTTON", "Selections", "BUTTON"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	}
	if cat.ActiveRow != 2 {
		t.Fatalf("active row = %d, want 2", cat.ActiveRow)
	}
}

func TestPasteRejectsMismatchedShape(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	cat := root.Global.Categories[0]

	// A button-entry payload must not paste as a row.
	if err := ed.CopyEntry(address.Global(0, 1, 0)); err != nil {
		t.Fatalf("CopyEntry: %v", err)
	}
	before := rowNames(cat)
	err := ed.PasteRow(catAddr(address.Stop))
	if !errors.Is(err, plain.ErrShapeMismatch) {
		t.Fatalf("PasteRow error = %v, want shape mismatch", err)
	}
	after := rowNames(cat)
	if len(before) != len(after) {
		t.Fatalf("rejected paste modified the tree: %v -> %v", before, after)
	}

	// And a section block must not paste as an entry.
	if err := ed.CopyRow(catAddr(0)); err != nil {
		t.Fatalf("CopyRow: %v", err)
	}
	entryCount := len(cat.Rows[1].Buttons)
	err = ed.PasteEntry(catAddr(1))
	if !errors.Is(err, plain.ErrShapeMismatch) {
		t.Fatalf("PasteEntry error = %v, want shape mismatch", err)
	}
	if len(cat.Rows[1].Buttons) != entryCount {
		t.Fatalf("rejected entry paste modified the row")
	}
}

func TestPasteLegacyBareRow(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	cat := root.Global.Categories[0]

	text, err := plain.EncodeBare(map[string]any{"name": "Legacy", "row_type": "BUTTON"})
	if err != nil {
		t.Fatalf("EncodeBare: %v", err)
	}
	if err := clipboard.Write(text); err != nil {
		t.Fatalf("clipboard.Write: %v", err)
	}
	cat.ActiveRow = 1
	if err := ed.PasteRow(catAddr(address.Stop)); err != nil {
		t.Fatalf("PasteRow: %v", err)
	}
	if cat.Rows[2].Name != "Legacy" || cat.ActiveRow != 2 {
		t.Fatalf("legacy paste landed wrong: %v active=%d", rowNames(cat), cat.ActiveRow)
	}
}

func TestPasteRejectsOrphanSubsection(t *testing.T) {
	root := tree.NewRoot()
	cat := tree.NewCategory("Empty")
	root.Global.Categories = []*tree.Category{cat}
	root.Global.ActiveCategory = 0
	ed := New(root)

	sub := tree.NewSection("Orphan")
	sub.Subsection = true
	m, err := plain.ToPlain(sub)
	if err != nil {
		t.Fatalf("ToPlain: %v", err)
	}
	text, err := plain.EncodeBare(m)
	if err != nil {
		t.Fatalf("EncodeBare: %v", err)
	}
	if err := clipboard.Write(text); err != nil {
		t.Fatalf("clipboard.Write: %v", err)
	}
	if err := ed.PasteRow(catAddr(address.Stop)); err == nil {
		t.Fatalf("orphan subsection paste should be rejected")
	}
	if len(cat.Rows) != 0 {
		t.Fatalf("rejected paste modified the tree")
	}
}

func TestAddRowsInsertAfterActive(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	cat := root.Global.Categories[0]

	cat.ActiveRow = 0
	if err := ed.AddButtonRow(catAddr(address.Stop)); err != nil {
		t.Fatalf("AddButtonRow: %v", err)
	}
	if cat.Rows[1].Kind != tree.RowButton || len(cat.Rows[1].Buttons) != 0 {
		t.Fatalf("new button row not at index 1: %v", rowNames(cat))
	}
	if cat.ActiveRow != 1 {
		t.Fatalf("active row = %d, want 1", cat.ActiveRow)
	}

	if err := ed.AddSection(catAddr(address.Stop)); err != nil {
		t.Fatalf("AddSection: %v", err)
	}
	if cat.Rows[2].Name != "Section" || cat.Rows[2].Kind != tree.RowSection {
		t.Fatalf("new section not at index 2: %v", rowNames(cat))
	}

	if err := ed.AddPanel(catAddr(address.Stop), "DOPESHEET_PT_filters"); err != nil {
		t.Fatalf("AddPanel: %v", err)
	}
	if cat.Rows[3].Kind != tree.RowPanel || cat.Rows[3].PanelID != "DOPESHEET_PT_filters" {
		t.Fatalf("new panel not at index 3: %v", rowNames(cat))
	}
}

func TestBuiltinCategoryIsReadOnly(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	cat := root.Global.Categories[0]
	cat.DefaultID = "tools"

	for name, op := range map[string]func() error{
		"MoveRowUp":      func() error { return ed.MoveRowUp(catAddr(2)) },
		"DeleteRow":      func() error { return ed.DeleteRow(catAddr(0)) },
		"DuplicateRow":   func() error { return ed.DuplicateRow(catAddr(0)) },
		"AddSection":     func() error { return ed.AddSection(catAddr(address.Stop)) },
		"AddEntry":       func() error { return ed.AddEntry(catAddr(1), NewSpacerEntry()) },
		"MoveEntryUp":    func() error { return ed.MoveEntryUp(address.Global(0, 1, 1)) },
		"MoveEntryDown":  func() error { return ed.MoveEntryDown(address.Global(0, 1, 0)) },
		"DeleteEntry":    func() error { return ed.DeleteEntry(address.Global(0, 1, 0)) },
		"DuplicateEntry": func() error { return ed.DuplicateEntry(address.Global(0, 1, 0)) },
	} {
		if err := op(); !errors.Is(err, ErrReadOnly) {
			t.Fatalf("%s on builtin category: err = %v, want ErrReadOnly", name, err)
		}
	}
	if len(cat.Rows) != 4 {
		t.Fatalf("read-only guard let a mutation through: %v", rowNames(cat))
	}
	if buttons := cat.Rows[1].Buttons; len(buttons) != 2 || buttons[0].ButtonID != tree.ButtonSpacer {
		t.Fatalf("read-only guard let an entry mutation through: %d buttons", len(buttons))
	}

	// Copy stays allowed; builtins are duplicable at the category level.
	if err := ed.CopyRow(catAddr(0)); err != nil {
		t.Fatalf("CopyRow on builtin: %v", err)
	}
}

func TestStaleAddressIsNoOp(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	cat := root.Global.Categories[0]

	err := ed.DeleteRow(catAddr(99))
	if !errors.Is(err, ErrAddressResolution) {
		t.Fatalf("err = %v, want ErrAddressResolution", err)
	}
	if len(cat.Rows) != 4 {
		t.Fatalf("stale delete modified the tree")
	}

	if err := ed.MoveRowUp(address.Popup(5, 0, 0, address.Stop)); !errors.Is(err, ErrAddressResolution) {
		t.Fatalf("err = %v, want ErrAddressResolution", err)
	}
}

func TestCategoryLifecycle(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	owner := root.Global
	ownerAddr := address.Global(address.Stop, address.Stop, address.Stop)

	if err := ed.AddCategory(ownerAddr); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	if len(owner.Categories) != 2 || owner.Categories[1].Name != "Category" {
		t.Fatalf("categories = %d", len(owner.Categories))
	}
	if owner.ActiveCategory != 1 {
		t.Fatalf("active category = %d", owner.ActiveCategory)
	}

	if err := ed.MoveCategoryUp(ownerAddr); err != nil {
		t.Fatalf("MoveCategoryUp: %v", err)
	}
	if owner.Categories[0].Name != "Category" || owner.ActiveCategory != 0 {
		t.Fatalf("move up failed: active=%d", owner.ActiveCategory)
	}
	if err := ed.MoveCategoryDown(ownerAddr); err != nil {
		t.Fatalf("MoveCategoryDown: %v", err)
	}

	if err := ed.DeleteCategory(address.Global(1, address.Stop, address.Stop)); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if len(owner.Categories) != 1 || owner.Categories[0].Name != "Tools" {
		t.Fatalf("delete removed the wrong category")
	}
	if owner.ActiveCategory != 0 {
		t.Fatalf("active category = %d", owner.ActiveCategory)
	}
}

func TestDuplicateCategoryProducesEditableCopy(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	owner := root.Global
	src := owner.Categories[0]
	src.DefaultID = "tools"

	if err := ed.DuplicateCategory(address.Global(0, address.Stop, address.Stop)); err != nil {
		t.Fatalf("DuplicateCategory: %v", err)
	}
	dup := owner.Categories[1]
	if dup.Name != "Tools Copy" {
		t.Fatalf("dup name = %q", dup.Name)
	}
	if dup.DefaultID != "" || dup.Builtin() {
		t.Fatalf("duplicate should be user-owned")
	}
	if !dup.PinGlobal || src.PinGlobal {
		t.Fatalf("global pin should transfer to the copy: dup=%v src=%v", dup.PinGlobal, src.PinGlobal)
	}
	if len(dup.Rows) != 4 {
		t.Fatalf("duplicate lost rows")
	}
}

func TestCategoryCopyPaste(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	owner := root.Global
	owner.Categories[0].DefaultID = "tools"

	if err := ed.CopyCategory(address.Global(0, address.Stop, address.Stop)); err != nil {
		t.Fatalf("CopyCategory: %v", err)
	}
	if err := ed.PasteCategory(address.Global(address.Stop, address.Stop, address.Stop)); err != nil {
		t.Fatalf("PasteCategory: %v", err)
	}
	pasted := owner.Categories[1]
	if pasted.DefaultID != "" || !pasted.PinGlobal {
		t.Fatalf("pasted category should be user-owned and pinned")
	}
	if len(pasted.Rows) != 4 || len(pasted.Rows[1].Buttons) != 2 {
		t.Fatalf("pasted category lost content")
	}
}

func TestPopupCategoryCap(t *testing.T) {
	root := tree.NewRoot()
	ed := New(root)
	if err := ed.AddPopup(); err != nil {
		t.Fatalf("AddPopup: %v", err)
	}
	popupAddr := address.Popup(0, address.Stop, address.Stop, address.Stop)

	for len(root.Popups[0].Categories) < MaxPopupCategories {
		if err := ed.AddCategory(popupAddr); err != nil {
			t.Fatalf("AddCategory #%d: %v", len(root.Popups[0].Categories), err)
		}
	}
	err := ed.AddCategory(popupAddr)
	if err == nil || !strings.Contains(err.Error(), "maximum") {
		t.Fatalf("9th category should be rejected, got %v", err)
	}
	if len(root.Popups[0].Categories) != MaxPopupCategories {
		t.Fatalf("cap not enforced: %d categories", len(root.Popups[0].Categories))
	}
}

func TestEntryLifecycle(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	row := root.Global.Categories[0].Rows[1]
	rowAddr := catAddr(1)

	row.ActiveButton = 0
	if err := ed.AddEntry(rowAddr, NewPropertyEntry()); err != nil {
		t.Fatalf("AddEntry: %v", err)
	}
	if len(row.Buttons) != 3 || row.Buttons[1].ButtonID != tree.ButtonProperty {
		t.Fatalf("entry not inserted after active: %+v", row.Buttons)
	}
	if row.ActiveButton != 1 {
		t.Fatalf("active button = %d", row.ActiveButton)
	}

	if err := ed.MoveEntryUp(rowAddr); err != nil {
		t.Fatalf("MoveEntryUp: %v", err)
	}
	if row.Buttons[0].ButtonID != tree.ButtonProperty || row.ActiveButton != 0 {
		t.Fatalf("move up failed: %+v", row.Buttons)
	}
	if err := ed.MoveEntryUp(rowAddr); err != nil {
		t.Fatalf("MoveEntryUp at top: %v", err)
	}
	if row.ActiveButton != 0 {
		t.Fatalf("top move should be a no-op")
	}

	if err := ed.DeleteEntry(rowAddr); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if len(row.Buttons) != 2 || row.Buttons[0].ButtonID != tree.ButtonSpacer {
		t.Fatalf("delete removed the wrong entry: %+v", row.Buttons)
	}
}

func TestDuplicateScriptEntrySuffix(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	row := root.Global.Categories[0].Rows[1]
	row.Buttons = []*tree.ButtonEntry{{ButtonID: tree.ButtonCustomScript, Name: "Bake Helper"}}
	row.ActiveButton = 0

	if err := ed.DuplicateEntry(catAddr(1)); err != nil {
		t.Fatalf("DuplicateEntry: %v", err)
	}
	if len(row.Buttons) != 2 {
		t.Fatalf("buttons = %d", len(row.Buttons))
	}
	if row.Buttons[1].DisplayName != "Bake Helper Copy" {
		t.Fatalf("display name = %q", row.Buttons[1].DisplayName)
	}
}

func TestEntryCopyPaste(t *testing.T) {
	root := toolsRoot()
	ed := New(root)
	row := root.Global.Categories[0].Rows[1]
	row.ActiveButton = 1

	if err := ed.CopyEntry(address.Global(0, 1, 1)); err != nil {
		t.Fatalf("CopyEntry: %v", err)
	}
	if err := ed.PasteEntry(catAddr(1)); err != nil {
		t.Fatalf("PasteEntry: %v", err)
	}
	if len(row.Buttons) != 3 || row.Buttons[2].Name != "Cleanup_EulerFilter" {
		t.Fatalf("pasted entry misplaced: %+v", row.Buttons)
	}
	if row.ActiveButton != 2 {
		t.Fatalf("active button = %d", row.ActiveButton)
	}
}

func TestPopupLifecycle(t *testing.T) {
	root := tree.NewRoot()
	ed := New(root)

	if err := ed.AddPopup(); err != nil {
		t.Fatalf("AddPopup: %v", err)
	}
	if len(root.Popups) != 1 || root.ActivePopup != 0 {
		t.Fatalf("popups = %d active = %d", len(root.Popups), root.ActivePopup)
	}
	popup := root.Popups[0]
	if popup.Kind != tree.OwnerPopup || len(popup.Categories) != 1 {
		t.Fatalf("popup not seeded: %+v", popup)
	}

	popup.Hotkey = tree.Hotkey{Enabled: true, Key: "D", Ctrl: true, Space: "GRAPH_EDITOR"}
	popup.DefaultID = "quick_pose"
	if err := ed.DuplicatePopup(); err != nil {
		t.Fatalf("DuplicatePopup: %v", err)
	}
	dup := root.Popups[1]
	if dup.Name != "Popup Panel Copy" || dup.DefaultID != "" {
		t.Fatalf("dup = %q %q", dup.Name, dup.DefaultID)
	}
	if dup.Hotkey.Enabled || dup.Hotkey.Key != "" || dup.Hotkey.Space != "GRAPH_EDITOR" {
		t.Fatalf("hotkey should be cleared, space kept: %+v", dup.Hotkey)
	}

	if err := ed.CopyPopup(); err != nil {
		t.Fatalf("CopyPopup: %v", err)
	}
	if err := ed.PastePopup(); err != nil {
		t.Fatalf("PastePopup: %v", err)
	}
	if len(root.Popups) != 3 {
		t.Fatalf("popups = %d", len(root.Popups))
	}
	pasted := root.Popups[2]
	if pasted.DefaultID != "" || pasted.Hotkey.Key != "" {
		t.Fatalf("pasted popup should be user-owned with no hotkey")
	}

	if err := ed.DeletePopup(2); err != nil {
		t.Fatalf("DeletePopup: %v", err)
	}
	if err := ed.DeletePopup(7); !errors.Is(err, ErrAddressResolution) {
		t.Fatalf("out-of-range delete: %v", err)
	}
	if len(root.Popups) != 2 {
		t.Fatalf("popups = %d", len(root.Popups))
	}
}

func TestSessionIdentity(t *testing.T) {
	a, b := NewSession(), NewSession()
	if a.ID == "" || a.ID == b.ID {
		t.Fatalf("sessions should have distinct ids")
	}
	if a.Cursor.Owner != tree.OwnerGlobal || a.Cursor.Category != address.Stop {
		t.Fatalf("cursor = %+v", a.Cursor)
	}
}
