// Package address maps sparse index tuples onto configuration tree nodes.
//
// Addresses cross the edit/draw boundary: the tree may have mutated between
// the moment an address was captured and the moment it is used. Resolution
// therefore never panics, reports out-of-range lookups as misses, and offers
// identity-based fallback discovery for recovering a fresh address from a
// stale node reference.
package address

import (
	"fmt"

	"github.com/yyyup/panelkit/internal/tree"
)

// Stop is the sentinel for trailing address fields that are not part of the
// lookup ("stop here").
const Stop = -1

// Address identifies a node by position rather than identity. Any trailing
// field may be Stop to address the enclosing node instead.
type Address struct {
	Owner      tree.OwnerKind
	OwnerIndex int
	Category   int
	Row        int
	Entry      int
}

// Global returns an address rooted at the global owner.
func Global(category, row, entry int) Address {
	return Address{Owner: tree.OwnerGlobal, OwnerIndex: 0, Category: category, Row: row, Entry: entry}
}

// Popup returns an address rooted at a popup-panel owner.
func Popup(ownerIndex, category, row, entry int) Address {
	return Address{Owner: tree.OwnerPopup, OwnerIndex: ownerIndex, Category: category, Row: row, Entry: entry}
}

// String renders the tuple for diagnostics.
func (a Address) String() string {
	return fmt.Sprintf("%s[%d]/cat=%d/row=%d/entry=%d", a.Owner, a.OwnerIndex, a.Category, a.Row, a.Entry)
}

// Target is the result of a resolution. Fields past the addressed depth are
// nil; a miss leaves everything nil.
type Target struct {
	Owner    *tree.Owner
	Category *tree.Category
	Row      *tree.Row
	Entry    *tree.ButtonEntry
}

// Resolve walks the tuple strictly: every non-Stop field must be in range,
// otherwise the zero Target is returned. It never panics for any integer
// inputs.
func Resolve(root *tree.Root, addr Address) Target {
	var out Target
	if root == nil {
		return out
	}
	owner := root.Owner(addr.Owner, addr.OwnerIndex)
	if owner == nil {
		return Target{}
	}
	out.Owner = owner

	if addr.Category == Stop {
		return out
	}
	if addr.Category < 0 || addr.Category >= len(owner.Categories) {
		return Target{}
	}
	out.Category = owner.Categories[addr.Category]

	if addr.Row == Stop {
		return out
	}
	if addr.Row < 0 || addr.Row >= len(out.Category.Rows) {
		return Target{}
	}
	out.Row = out.Category.Rows[addr.Row]

	if addr.Entry == Stop {
		return out
	}
	if addr.Entry < 0 || addr.Entry >= len(out.Row.Buttons) {
		return Target{}
	}
	out.Entry = out.Row.Buttons[addr.Entry]
	return out
}

// ResolveClamped resolves like Resolve but clamps out-of-range indices into
// non-empty collections instead of missing. Editor entry points use it so a
// stale active index still lands on a sensible neighbor; an empty collection
// is still a miss at that depth.
func ResolveClamped(root *tree.Root, addr Address) Target {
	var out Target
	if root == nil {
		return out
	}
	owner := root.Owner(addr.Owner, clamp(addr.OwnerIndex, len(root.Popups)))
	if addr.Owner == tree.OwnerPopup && len(root.Popups) == 0 {
		return out
	}
	if owner == nil {
		return out
	}
	out.Owner = owner

	if addr.Category == Stop {
		return out
	}
	if len(owner.Categories) == 0 {
		return out
	}
	out.Category = owner.Categories[clamp(addr.Category, len(owner.Categories))]

	if addr.Row == Stop {
		return out
	}
	if len(out.Category.Rows) == 0 {
		return out
	}
	out.Row = out.Category.Rows[clamp(addr.Row, len(out.Category.Rows))]

	if addr.Entry == Stop {
		return out
	}
	if len(out.Row.Buttons) == 0 {
		return out
	}
	out.Entry = out.Row.Buttons[clamp(addr.Entry, len(out.Row.Buttons))]
	return out
}

func clamp(idx, size int) int {
	if idx < 0 {
		return 0
	}
	if idx >= size {
		return size - 1
	}
	return idx
}
