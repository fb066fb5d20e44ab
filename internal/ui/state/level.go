package state

import "strings"

// Level encapsulates one inspector list: cursor position, filter, and
// viewport.
type Level struct {
	ID             string
	Title          string
	Items          []Item
	Full           []Item
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewLevel constructs a Level using the provided items.
func NewLevel(id, title string, items []Item) *Level {
	l := &Level{
		ID:         id,
		Title:      title,
		Cursor:     -1,
		LastCursor: -1,
	}
	l.UpdateItems(items)
	return l
}

// Current returns the item under the cursor, or nil when the list is empty.
func (l *Level) Current() *Item {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return nil
	}
	return &l.Items[l.Cursor]
}

// IndexOf returns the index for a given item identifier.
func (l *Level) IndexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.ID == id {
			return i
		}
	}
	if idx := strings.LastIndex(id, ":"); idx >= 0 {
		suffix := id[idx+1:]
		for i, item := range l.Items {
			if item.ID == suffix {
				return i
			}
		}
	}
	return -1
}

// UpdateItems refreshes the level items, reapplying the active filter while
// keeping the viewport offset when it still fits.
func (l *Level) UpdateItems(items []Item) {
	prevOffset := l.ViewportOffset
	l.Full = CloneItems(items)
	l.applyFilter()
	if len(l.Items) == 0 || prevOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
		return
	}
	if prevOffset < 0 {
		prevOffset = 0
	}
	l.ViewportOffset = prevOffset
}

// MoveCursor moves the cursor by delta, clamped to the item range.
func (l *Level) MoveCursor(delta int) bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = clamp(l.Cursor+delta, 0, len(l.Items)-1)
	if old < 0 {
		l.Cursor = clamp(delta, 0, len(l.Items)-1)
	}
	return l.Cursor != old
}

// MoveCursorHome moves the cursor to the first item.
func (l *Level) MoveCursorHome() bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = 0
	return old != 0
}

// MoveCursorEnd moves the cursor to the last item.
func (l *Level) MoveCursorEnd() bool {
	if len(l.Items) == 0 {
		l.Cursor = 0
		return false
	}
	old := l.Cursor
	l.Cursor = len(l.Items) - 1
	return old != l.Cursor
}

// MoveCursorPage moves the cursor by one viewport page in the given
// direction.
func (l *Level) MoveCursorPage(direction, maxVisible int) bool {
	size := len(l.Items)
	if size == 0 {
		return false
	}
	if maxVisible > 0 && maxVisible < size {
		size = maxVisible
	}
	if direction < 0 {
		size = -size
	}
	return l.MoveCursor(size)
}

// EnsureCursorVisible adjusts the viewport offset so the cursor stays
// visible within maxVisible rows.
func (l *Level) EnsureCursorVisible(maxVisible int) {
	if len(l.Items) == 0 {
		l.Cursor = 0
		l.ViewportOffset = 0
		return
	}
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if maxVisible <= 0 {
		l.ViewportOffset = 0
		return
	}
	maxOffset := len(l.Items) - maxVisible
	if maxOffset < 0 {
		maxOffset = 0
	}
	l.ViewportOffset = clamp(l.ViewportOffset, 0, maxOffset)
	if l.Cursor < l.ViewportOffset {
		l.ViewportOffset = l.Cursor
	}
	if upper := l.ViewportOffset + maxVisible - 1; l.Cursor > upper {
		l.ViewportOffset = clamp(l.Cursor-maxVisible+1, 0, maxOffset)
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
