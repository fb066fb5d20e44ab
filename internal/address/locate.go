package address

import "github.com/yyyup/panelkit/internal/tree"

// LocateCategory searches every owner for the category by identity and
// returns its fresh address.
func LocateCategory(root *tree.Root, cat *tree.Category) (Address, bool) {
	if root == nil || cat == nil {
		return Address{}, false
	}
	var found Address
	ok := walkOwners(root, func(kind tree.OwnerKind, ownerIdx int, owner *tree.Owner) bool {
		for ci, candidate := range owner.Categories {
			if candidate == cat {
				found = Address{Owner: kind, OwnerIndex: ownerIdx, Category: ci, Row: Stop, Entry: Stop}
				return true
			}
		}
		return false
	})
	return found, ok
}

// LocateRow searches every owner and category for the row by identity.
func LocateRow(root *tree.Root, row *tree.Row) (Address, bool) {
	if root == nil || row == nil {
		return Address{}, false
	}
	var found Address
	ok := walkOwners(root, func(kind tree.OwnerKind, ownerIdx int, owner *tree.Owner) bool {
		for ci, cat := range owner.Categories {
			for ri, candidate := range cat.Rows {
				if candidate == row {
					found = Address{Owner: kind, OwnerIndex: ownerIdx, Category: ci, Row: ri, Entry: Stop}
					return true
				}
			}
		}
		return false
	})
	return found, ok
}

// LocateEntry searches the whole forest for a button entry by identity.
func LocateEntry(root *tree.Root, entry *tree.ButtonEntry) (Address, bool) {
	if root == nil || entry == nil {
		return Address{}, false
	}
	var found Address
	ok := walkOwners(root, func(kind tree.OwnerKind, ownerIdx int, owner *tree.Owner) bool {
		for ci, cat := range owner.Categories {
			for ri, row := range cat.Rows {
				for ei, candidate := range row.Buttons {
					if candidate == entry {
						found = Address{Owner: kind, OwnerIndex: ownerIdx, Category: ci, Row: ri, Entry: ei}
						return true
					}
				}
			}
		}
		return false
	})
	return found, ok
}

func walkOwners(root *tree.Root, visit func(tree.OwnerKind, int, *tree.Owner) bool) bool {
	if root.Global != nil && visit(tree.OwnerGlobal, 0, root.Global) {
		return true
	}
	for i, popup := range root.Popups {
		if popup != nil && visit(tree.OwnerPopup, i, popup) {
			return true
		}
	}
	return false
}
