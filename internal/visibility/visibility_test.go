package visibility

import (
	"os"
	"testing"

	"github.com/yyyup/panelkit/internal/conditional"
	"github.com/yyyup/panelkit/internal/testutil"
	"github.com/yyyup/panelkit/internal/tree"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithTempLog(m))
}

func newEvaluator(panels map[string]bool, roots map[string]any) *conditional.Evaluator {
	return conditional.New(conditional.Env{
		Roots: roots,
		PanelExists: func(id string) bool {
			return panels[id]
		},
	})
}

// toolsCategory mirrors a small production layout: an open Cleanup section
// holding two button rows, then a closed Selections section holding one.
func toolsCategory() *tree.Category {
	cat := tree.NewCategory("Tools")

	cleanup := tree.NewSection("Cleanup")
	cleanup.SetOpen(tree.RegionSideGraph, true)

	spacers := tree.NewButtonRow()
	spacers.Name = "Cleanup_Spacers"
	spacers.Buttons = []*tree.ButtonEntry{{Name: "gap", ButtonID: tree.ButtonSpacer, SpacerWidth: 0.5}}

	euler := tree.NewButtonRow()
	euler.Name = "Cleanup_EulerFilter"

	selections := tree.NewSection("Selections")
	selections.SetOpen(tree.RegionSideGraph, false)

	curves := tree.NewButtonRow()
	curves.Name = "Selections_CurvesAll"

	cat.Rows = []*tree.Row{cleanup, spacers, euler, selections, curves}
	return cat
}

func visibleNames(entries []Entry) []string {
	var names []string
	for _, e := range entries {
		if e.Visible {
			names = append(names, e.Row.Name)
		}
	}
	return names
}

func TestRowsOpenAndClosedSections(t *testing.T) {
	cat := toolsCategory()
	ev := newEvaluator(nil, nil)

	entries := Rows(cat, tree.RegionSideGraph, ev)
	if len(entries) != len(cat.Rows) {
		t.Fatalf("expected %d entries, got %d", len(cat.Rows), len(entries))
	}

	got := visibleNames(entries)
	want := []string{"Cleanup", "Cleanup_Spacers", "Cleanup_EulerFilter", "Selections"}
	if len(got) != len(want) {
		t.Fatalf("visible rows = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("visible rows = %v, want %v", got, want)
		}
	}
}

func TestRowsClosedSectionHeaderStillShown(t *testing.T) {
	cat := toolsCategory()
	ev := newEvaluator(nil, nil)

	entries := Rows(cat, tree.RegionSideGraph, ev)
	if !entries[3].Visible {
		t.Fatalf("closed section header should stay visible")
	}
	if entries[4].Visible {
		t.Fatalf("button under closed section should be hidden")
	}
}

func TestRowsRegionDisplayFlags(t *testing.T) {
	cat := toolsCategory()
	cat.Rows[2].DisplaySide = false
	ev := newEvaluator(nil, nil)

	entries := Rows(cat, tree.RegionSideGraph, ev)
	if entries[2].Visible {
		t.Fatalf("row with side display off should be hidden in a side region")
	}

	cat.Rows[2].SetOpen(tree.RegionTopGraph, true)
	cat.Rows[0].SetOpen(tree.RegionTopGraph, true)
	entries = Rows(cat, tree.RegionTopGraph, ev)
	if !entries[2].Visible {
		t.Fatalf("row should still show in a top region")
	}
}

func TestRowsConditionalHidesSection(t *testing.T) {
	cat := toolsCategory()
	cat.Rows[0].Conditional = "context.mode == 'POSE'"
	ev := newEvaluator(nil, map[string]any{
		"context": map[string]any{"mode": "OBJECT"},
	})

	entries := Rows(cat, tree.RegionSideGraph, ev)
	if entries[0].Visible {
		t.Fatalf("section with false conditional should be hidden")
	}
	if entries[1].Visible || entries[2].Visible {
		t.Fatalf("buttons under hidden section should be hidden")
	}
}

func TestRowsConditionalFailsOpen(t *testing.T) {
	cat := toolsCategory()
	cat.Rows[2].Conditional = "context.missing.chain == 1 or True"
	ev := newEvaluator(nil, nil)

	entries := Rows(cat, tree.RegionSideGraph, ev)
	if !entries[2].Visible {
		t.Fatalf("unresolvable conditional should fail open")
	}
}

func TestRowsPanelExistence(t *testing.T) {
	cat := tree.NewCategory("Panels")
	known := tree.NewPanel("Known", "DOPESHEET_PT_filters")
	known.SetOpen(tree.RegionSideDope, true)
	unknown := tree.NewPanel("Unknown", "VIEW3D_PT_missing")
	cat.Rows = []*tree.Row{known, unknown}

	ev := newEvaluator(map[string]bool{"DOPESHEET_PT_filters": true}, nil)
	entries := Rows(cat, tree.RegionSideDope, ev)
	if !entries[0].Visible {
		t.Fatalf("panel row with registered panel should be visible")
	}
	if entries[1].Visible {
		t.Fatalf("panel row with unregistered panel should be hidden")
	}
}

func TestRowsSubsectionScope(t *testing.T) {
	cat := tree.NewCategory("Nested")

	parent := tree.NewSection("Parent")
	parent.SetOpen(tree.RegionSideView, true)

	sub := tree.NewSection("Sub")
	sub.Subsection = true
	sub.SetOpen(tree.RegionSideView, false)

	inner := tree.NewButtonRow()
	inner.Name = "Inner"

	next := tree.NewSection("Next")
	next.SetOpen(tree.RegionSideView, true)

	after := tree.NewButtonRow()
	after.Name = "After"

	cat.Rows = []*tree.Row{parent, sub, inner, next, after}
	ev := newEvaluator(nil, nil)

	entries := Rows(cat, tree.RegionSideView, ev)
	if !entries[1].Visible {
		t.Fatalf("subsection header under open parent should be visible")
	}
	if entries[2].Visible {
		t.Fatalf("button under closed subsection should be hidden")
	}
	if !entries[4].Visible {
		t.Fatalf("new top-level section should reset subsection state")
	}
}

func TestRowsSubsectionUnderClosedParent(t *testing.T) {
	cat := tree.NewCategory("Nested")

	parent := tree.NewSection("Parent")
	parent.SetOpen(tree.RegionSideView, false)

	sub := tree.NewSection("Sub")
	sub.Subsection = true
	sub.SetOpen(tree.RegionSideView, true)

	inner := tree.NewButtonRow()
	inner.Name = "Inner"

	cat.Rows = []*tree.Row{parent, sub, inner}
	ev := newEvaluator(nil, nil)

	entries := Rows(cat, tree.RegionSideView, ev)
	if entries[1].Visible {
		t.Fatalf("subsection header under closed parent should be hidden")
	}
	if entries[2].Visible {
		t.Fatalf("button under closed parent should be hidden")
	}
}

func TestRowsLeadingButtonsBeforeAnySection(t *testing.T) {
	cat := tree.NewCategory("Loose")
	row := tree.NewButtonRow()
	row.Name = "Standalone"
	cat.Rows = []*tree.Row{row}

	ev := newEvaluator(nil, nil)
	entries := Rows(cat, tree.RegionSideNLA, ev)
	if !entries[0].Visible {
		t.Fatalf("button before any section should be visible")
	}
}

func TestRowsUnknownKindPlaceholder(t *testing.T) {
	cat := toolsCategory()
	odd := &tree.Row{Name: "Odd", Kind: tree.RowKind("GIZMO"), DisplayTop: true, DisplaySide: true}
	cat.Rows = append(cat.Rows[:3:3], append([]*tree.Row{odd}, cat.Rows[3:]...)...)

	ev := newEvaluator(nil, nil)
	entries := Rows(cat, tree.RegionSideGraph, ev)
	if !entries[3].Placeholder {
		t.Fatalf("unknown row kind should be marked as placeholder")
	}
	if !entries[3].Visible {
		t.Fatalf("placeholder under open section should be visible")
	}
}

func TestRowsDeterministic(t *testing.T) {
	cat := toolsCategory()
	cat.Rows[1].Conditional = "len(context.scene.name) > 0"
	ev := newEvaluator(nil, map[string]any{
		"context": map[string]any{"scene": map[string]any{"name": "Scene"}},
	})

	first := Rows(cat, tree.RegionSideGraph, ev)
	for i := 0; i < 5; i++ {
		again := Rows(cat, tree.RegionSideGraph, ev)
		for j := range first {
			if first[j].Visible != again[j].Visible {
				t.Fatalf("pass %d: row %d visibility changed", i, j)
			}
		}
	}
	if VisibleCount(first) != 4 {
		t.Fatalf("expected 4 visible rows, got %d", VisibleCount(first))
	}
}

func TestCategoryShown(t *testing.T) {
	cat := tree.NewCategory("Tools")
	cat.PinGlobal = true
	cat.SetPin(tree.RegionSideGraph, true)
	cat.ActiveIn[tree.RegionSideGraph] = true

	if !CategoryShown(cat, tree.RegionSideGraph) {
		t.Fatalf("pinned active category should be shown")
	}

	cat.PinGlobal = false
	if CategoryShown(cat, tree.RegionSideGraph) {
		t.Fatalf("global pin gate off should hide the category")
	}

	cat.ActiveIn[tree.RegionPopup] = true
	if !CategoryShown(cat, tree.RegionPopup) {
		t.Fatalf("popup region should ignore pins")
	}
}
