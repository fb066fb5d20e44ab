package tree

import "testing"

func buildToolsCategory() *Category {
	cat := NewCategory("Tools")
	cleanup := NewSection("Cleanup")
	cleanupRow := NewButtonRow()
	cleanupRow.Buttons = []*ButtonEntry{
		{ButtonID: ButtonSpacer, SpacerWidth: 0.5},
		{ButtonID: "Cleanup_EulerFilter"},
	}
	cleanupRow.ActiveButton = 0
	selections := NewSection("Selections")
	for _, region := range OpenRegions() {
		selections.SetOpen(region, false)
	}
	selRow := NewButtonRow()
	selRow.Buttons = []*ButtonEntry{{ButtonID: "Selections_CurvesAll"}}
	selRow.ActiveButton = 0
	cat.Rows = []*Row{cleanup, cleanupRow, selections, selRow}
	cat.ActiveRow = 0
	return cat
}

func TestBlockRangeCoversSectionContent(t *testing.T) {
	cat := buildToolsCategory()

	start, end, ok := cat.BlockRange(0)
	if !ok {
		t.Fatal("expected block range for section head")
	}
	if start != 0 || end != 1 {
		t.Fatalf("expected block [0,1], got [%d,%d]", start, end)
	}

	start, end, ok = cat.BlockRange(1)
	if !ok || start != 1 || end != 1 {
		t.Fatalf("expected single-row range for button row, got [%d,%d] ok=%v", start, end, ok)
	}

	if _, _, ok := cat.BlockRange(99); ok {
		t.Fatal("expected out-of-range index to report !ok")
	}
}

func TestBlockRangeIncludesSubsections(t *testing.T) {
	cat := NewCategory("Nested")
	head := NewSection("Head")
	sub := NewSection("Sub")
	sub.Subsection = true
	subRow := NewButtonRow()
	next := NewSection("Next")
	cat.Rows = []*Row{head, sub, subRow, next}

	start, end, ok := cat.BlockRange(0)
	if !ok || start != 0 || end != 2 {
		t.Fatalf("expected block [0,2] spanning subsection, got [%d,%d] ok=%v", start, end, ok)
	}
	if got := cat.BlockEnd(3); got != 3 {
		t.Fatalf("expected trailing section block to end at 3, got %d", got)
	}
}

func TestValidateInsertRejectsOrphanSubsection(t *testing.T) {
	cat := NewCategory("Empty")
	sub := NewSection("Orphan")
	sub.Subsection = true

	if err := cat.ValidateInsert(0, sub); err == nil {
		t.Fatal("expected orphan subsection insert to fail")
	}

	head := NewSection("Head")
	if err := cat.InsertRow(0, head); err != nil {
		t.Fatalf("unexpected error inserting head: %v", err)
	}
	if err := cat.ValidateInsert(1, sub); err != nil {
		t.Fatalf("expected subsection under head to validate, got %v", err)
	}
	if err := cat.ValidateInsert(0, sub); err == nil {
		t.Fatal("expected subsection above head to fail validation")
	}
}

func TestInsertRowUpdatesActiveIndex(t *testing.T) {
	cat := NewCategory("C")
	if err := cat.InsertRow(0, NewSection("A")); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := cat.InsertRow(1, NewButtonRow()); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if cat.ActiveRow != 1 {
		t.Fatalf("expected active row 1, got %d", cat.ActiveRow)
	}
	if len(cat.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(cat.Rows))
	}
}

func TestRemoveRowsClampsActive(t *testing.T) {
	cat := buildToolsCategory()
	cat.ActiveRow = 3
	cat.RemoveRows(0, 1)
	if len(cat.Rows) != 2 {
		t.Fatalf("expected 2 rows after removal, got %d", len(cat.Rows))
	}
	if cat.ActiveRow != 1 {
		t.Fatalf("expected active row shifted to 1, got %d", cat.ActiveRow)
	}

	cat.RemoveRows(0, 1)
	if cat.ActiveRow != NoActive {
		t.Fatalf("expected sentinel for empty category, got %d", cat.ActiveRow)
	}
}

func TestClampActiveIndices(t *testing.T) {
	row := NewButtonRow()
	row.ClampActiveButton()
	if row.ActiveButton != NoActive {
		t.Fatalf("expected sentinel for empty buttons, got %d", row.ActiveButton)
	}
	row.Buttons = append(row.Buttons, &ButtonEntry{ButtonID: ButtonSpacer})
	row.ActiveButton = 7
	row.ClampActiveButton()
	if row.ActiveButton != 0 {
		t.Fatalf("expected clamp to 0, got %d", row.ActiveButton)
	}

	owner := NewPopupOwner("Popup")
	owner.ClampActiveCategory()
	if owner.ActiveCategory != NoActive {
		t.Fatalf("expected sentinel for empty owner, got %d", owner.ActiveCategory)
	}
	owner.Categories = append(owner.Categories, NewCategory("Only"))
	owner.ActiveCategory = -3
	owner.ClampActiveCategory()
	if owner.ActiveCategory != 0 {
		t.Fatalf("expected clamp to 0, got %d", owner.ActiveCategory)
	}
}

func TestCloneIsDeep(t *testing.T) {
	cat := buildToolsCategory()
	dup := cat.Clone()

	dup.Rows[0].Name = "Renamed"
	dup.Rows[1].Buttons[0].ButtonID = "changed"
	dup.SetPin(RegionSideView, false)

	if cat.Rows[0].Name != "Cleanup" {
		t.Fatalf("clone mutated original row name: %q", cat.Rows[0].Name)
	}
	if cat.Rows[1].Buttons[0].ButtonID != ButtonSpacer {
		t.Fatalf("clone mutated original button: %q", cat.Rows[1].Buttons[0].ButtonID)
	}
	if !cat.PinnedTo(RegionSideView) {
		t.Fatal("clone mutated original pin state")
	}
}

func TestPinGlobalGatesRegions(t *testing.T) {
	cat := NewCategory("Pins")
	if !cat.PinnedTo(RegionTopGraph) {
		t.Fatal("expected new category pinned everywhere")
	}
	cat.PinGlobal = false
	if cat.PinnedTo(RegionTopGraph) {
		t.Fatal("expected global gate to unpin every region")
	}
}

func TestRegionGroups(t *testing.T) {
	if len(PinRegions()) != 7 {
		t.Fatalf("expected 7 pinnable regions, got %d", len(PinRegions()))
	}
	if !RegionTopDope.Top() || RegionSideView.Top() || RegionPopup.Top() {
		t.Fatal("region group classification is wrong")
	}
	if !RegionPopup.Valid() || Region("attic").Valid() {
		t.Fatal("region validity check is wrong")
	}
}
