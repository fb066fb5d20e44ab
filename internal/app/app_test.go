package app

import (
	"testing"

	"github.com/yyyup/panelkit/internal/tree"
)

func TestPanelRegistrySeedsFromSnapshot(t *testing.T) {
	root := tree.NewRoot()
	cat := tree.NewCategory("Tools")
	cat.Rows = append(cat.Rows, tree.NewPanel("Transforms", "VIEW3D_PT_transform"))
	custom := tree.NewPanel("Scripted", "")
	custom.CustomPanel = "MYADDON_PT_custom"
	cat.Rows = append(cat.Rows, custom, tree.NewSection("Header"))
	root.Global.Categories = append(root.Global.Categories, cat)

	popup := tree.NewPopupOwner("Quick Pie")
	pcat := tree.NewCategory("Pie")
	pcat.Rows = append(pcat.Rows, tree.NewPanel("Pose", "VIEW3D_PT_pose"))
	popup.Categories = append(popup.Categories, pcat)
	root.Popups = append(root.Popups, popup)

	reg := panelRegistry(root)
	for _, id := range []string{"VIEW3D_PT_transform", "MYADDON_PT_custom", "VIEW3D_PT_pose"} {
		if !reg.Exists(id) {
			t.Fatalf("panel %q not registered", id)
		}
	}
	if reg.Exists("VIEW3D_PT_missing") {
		t.Fatalf("unreferenced panel reported as registered")
	}
}

func TestValidRegionExcludesPopup(t *testing.T) {
	if !ValidRegion(DefaultRegion) {
		t.Fatalf("default region %q rejected", DefaultRegion)
	}
	for _, region := range tree.PinRegions() {
		if !ValidRegion(string(region)) {
			t.Fatalf("pinnable region %q rejected", region)
		}
	}
	if ValidRegion(string(tree.RegionPopup)) {
		t.Fatalf("popup accepted as a pinnable region")
	}
	if ValidRegion("") {
		t.Fatalf("empty region accepted")
	}
}
