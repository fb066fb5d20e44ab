package state

// Item is one selectable line in an inspector list.
type Item struct {
	ID     string
	Label  string
	Detail string
	Dim    bool
}

// CloneItems produces a shallow copy of the provided items.
func CloneItems(items []Item) []Item {
	dup := make([]Item, len(items))
	copy(dup, items)
	return dup
}
