package address

import (
	"testing"

	"github.com/yyyup/panelkit/internal/tree"
)

func buildRoot() *tree.Root {
	root := tree.NewRoot()
	cat := tree.NewCategory("Tools")
	row := tree.NewButtonRow()
	row.Buttons = []*tree.ButtonEntry{
		{ButtonID: "Tools_Sculpt"},
		{ButtonID: tree.ButtonSpacer},
	}
	row.ActiveButton = 0
	cat.Rows = []*tree.Row{tree.NewSection("Head"), row}
	cat.ActiveRow = 0
	root.Global.Categories = append(root.Global.Categories, cat)
	root.Global.ActiveCategory = 0

	popup := tree.NewPopupOwner("Quick")
	popup.Categories = append(popup.Categories, tree.NewCategory("Popup Tools"))
	popup.ActiveCategory = 0
	root.Popups = append(root.Popups, popup)
	root.ActivePopup = 0
	return root
}

func TestResolveWalksEveryDepth(t *testing.T) {
	root := buildRoot()

	target := Resolve(root, Global(0, 1, 0))
	if target.Entry == nil || target.Entry.ButtonID != "Tools_Sculpt" {
		t.Fatalf("expected entry resolution, got %+v", target)
	}
	if target.Row == nil || target.Category == nil || target.Owner == nil {
		t.Fatal("expected every enclosing node populated")
	}

	target = Resolve(root, Global(0, Stop, Stop))
	if target.Category == nil || target.Row != nil {
		t.Fatalf("expected stop at category depth, got %+v", target)
	}

	target = Resolve(root, Popup(0, 0, Stop, Stop))
	if target.Category == nil || target.Category.Name != "Popup Tools" {
		t.Fatalf("expected popup category, got %+v", target)
	}
}

func TestResolveTotality(t *testing.T) {
	root := buildRoot()
	// No combination of integers may panic; out-of-range misses entirely.
	inputs := []int{-1000000, -2, -1, 0, 1, 2, 7, 1 << 30}
	for _, oi := range inputs {
		for _, ci := range inputs {
			for _, ri := range inputs {
				for _, ei := range inputs {
					Resolve(root, Address{Owner: tree.OwnerPopup, OwnerIndex: oi, Category: ci, Row: ri, Entry: ei})
					Resolve(root, Address{Owner: tree.OwnerGlobal, OwnerIndex: oi, Category: ci, Row: ri, Entry: ei})
				}
			}
		}
	}

	if target := Resolve(root, Global(5, 0, 0)); target.Owner != nil || target.Category != nil {
		t.Fatalf("expected full miss for out-of-range category, got %+v", target)
	}
	if target := Resolve(nil, Global(0, 0, 0)); target.Owner != nil {
		t.Fatal("expected nil root to miss")
	}
	if target := Resolve(root, Address{Owner: "attic"}); target.Owner != nil {
		t.Fatal("expected unknown owner kind to miss")
	}
}

func TestResolveClampedLandsOnNeighbors(t *testing.T) {
	root := buildRoot()

	target := ResolveClamped(root, Global(99, 99, 99))
	if target.Entry == nil || target.Entry.ButtonID != tree.ButtonSpacer {
		t.Fatalf("expected clamp into last entry, got %+v", target)
	}

	target = ResolveClamped(root, Global(-5, -5, Stop))
	if target.Row == nil || target.Row.Name != "Head" {
		t.Fatalf("expected clamp onto first row, got %+v", target)
	}

	empty := tree.NewRoot()
	if target := ResolveClamped(empty, Global(0, Stop, Stop)); target.Category != nil {
		t.Fatal("expected empty owner to miss at category depth")
	}
	if target := ResolveClamped(empty, Popup(0, 0, 0, 0)); target.Owner != nil {
		t.Fatal("expected missing popup owners to miss entirely")
	}
}

func TestLocateRecoversFreshAddress(t *testing.T) {
	root := buildRoot()
	row := root.Global.Categories[0].Rows[1]
	entry := row.Buttons[1]

	// Mutate the tree so any captured index is stale.
	cat := root.Global.Categories[0]
	cat.Rows = append([]*tree.Row{tree.NewSection("Inserted")}, cat.Rows...)

	addr, ok := LocateRow(root, row)
	if !ok {
		t.Fatal("expected fallback discovery to find the row")
	}
	if addr.Row != 2 {
		t.Fatalf("expected refreshed row index 2, got %d", addr.Row)
	}
	if got := Resolve(root, addr).Row; got != row {
		t.Fatal("resolved row is not the located row")
	}

	eaddr, ok := LocateEntry(root, entry)
	if !ok || eaddr.Entry != 1 {
		t.Fatalf("expected entry at index 1, got %+v ok=%v", eaddr, ok)
	}

	caddr, ok := LocateCategory(root, root.Popups[0].Categories[0])
	if !ok || caddr.Owner != tree.OwnerPopup || caddr.OwnerIndex != 0 {
		t.Fatalf("expected popup category address, got %+v ok=%v", caddr, ok)
	}

	if _, ok := LocateRow(root, tree.NewSection("Detached")); ok {
		t.Fatal("expected detached row to stay unlocated")
	}
}
