// Package editor applies structural edits to the configuration tree. Every
// operation re-resolves its address on entry, so a stale index from the
// surface degrades to a rejected no-op instead of corrupting the tree.
//
// Operations on rows are block-aware: a top-level SECTION or PANEL row
// moves, duplicates, and deletes together with every row beneath it up to
// the next top-level head.
package editor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/yyyup/panelkit/internal/address"
	"github.com/yyyup/panelkit/internal/logging/events"
	"github.com/yyyup/panelkit/internal/tree"
)

var (
	// ErrAddressResolution marks an operation whose target no longer
	// exists. The tree is untouched.
	ErrAddressResolution = errors.New("address did not resolve")

	// ErrReadOnly marks a structural edit aimed at a bundled built-in.
	// Built-ins are duplicable into editable copies, never edited in place.
	ErrReadOnly = errors.New("built-in content is read-only")
)

// MaxPopupCategories is how many categories a popup-panel owner may hold.
const MaxPopupCategories = tree.MaxPopupCategories

// Editor mutates one configuration tree.
type Editor struct {
	root *tree.Root
}

// New returns an editor over the tree.
func New(root *tree.Root) *Editor {
	return &Editor{root: root}
}

// Root exposes the tree the editor operates on.
func (e *Editor) Root() *tree.Root {
	return e.root
}

// Session is one interactive editing surface: a stable identity for traces
// plus the cursor address the next operation targets.
type Session struct {
	ID     string
	Cursor address.Address
}

// NewSession returns a session with its cursor on the global owner.
func NewSession() *Session {
	return &Session{
		ID:     uuid.NewString(),
		Cursor: address.Address{Owner: tree.OwnerGlobal, Category: address.Stop, Row: address.Stop, Entry: address.Stop},
	}
}

// owner resolves the owner an address names.
func (e *Editor) owner(addr address.Address) (*tree.Owner, error) {
	owner := e.root.Owner(addr.Owner, addr.OwnerIndex)
	if owner == nil {
		events.Resolver.Miss(addr.String())
		return nil, fmt.Errorf("%w: %s", ErrAddressResolution, addr)
	}
	return owner, nil
}

// category resolves the category an address names, ignoring the row and
// entry fields.
func (e *Editor) category(addr address.Address) (*tree.Category, error) {
	probe := addr
	probe.Row = address.Stop
	probe.Entry = address.Stop
	target := address.Resolve(e.root, probe)
	if target.Category == nil {
		events.Resolver.Miss(addr.String())
		return nil, fmt.Errorf("%w: %s", ErrAddressResolution, addr)
	}
	return target.Category, nil
}

// rowContext resolves the category plus the row index an operation should
// act on: the address's explicit row when given, the category's active row
// otherwise.
func (e *Editor) rowContext(addr address.Address) (*tree.Category, int, error) {
	cat, err := e.category(addr)
	if err != nil {
		return nil, 0, err
	}
	idx := addr.Row
	if idx == address.Stop {
		idx = cat.ActiveRow
	}
	if idx < 0 || idx >= len(cat.Rows) {
		events.Resolver.Miss(addr.String())
		return nil, 0, fmt.Errorf("%w: no row at %s", ErrAddressResolution, addr)
	}
	return cat, idx, nil
}

// entryContext resolves down to a button row plus the entry index an
// operation should act on.
func (e *Editor) entryContext(addr address.Address) (*tree.Row, int, error) {
	cat, idx, err := e.rowContext(addr)
	if err != nil {
		return nil, 0, err
	}
	row := cat.Rows[idx]
	ei := addr.Entry
	if ei == address.Stop {
		ei = row.ActiveButton
	}
	if ei < 0 || ei >= len(row.Buttons) {
		events.Resolver.Miss(addr.String())
		return nil, 0, fmt.Errorf("%w: no button entry at %s", ErrAddressResolution, addr)
	}
	return row, ei, nil
}

// editableEntryContext is entryContext plus the read-only guard on the
// enclosing category. The op label tags the rejection trace.
func (e *Editor) editableEntryContext(addr address.Address, op string) (*tree.Row, int, error) {
	cat, err := e.category(addr)
	if err != nil {
		events.Editor.Rejected(op, err)
		return nil, 0, err
	}
	if err := guardEditable(cat); err != nil {
		events.Editor.Rejected(op, err)
		return nil, 0, err
	}
	row, idx, err := e.entryContext(addr)
	if err != nil {
		events.Editor.Rejected(op, err)
		return nil, 0, err
	}
	return row, idx, nil
}

func guardEditable(cat *tree.Category) error {
	if cat.Builtin() {
		return fmt.Errorf("%w: category %q", ErrReadOnly, cat.Name)
	}
	return nil
}

func clampInsert(idx, size int) int {
	if idx < 0 {
		return 0
	}
	if idx > size {
		return size
	}
	return idx
}
