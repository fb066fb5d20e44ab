// Package buttons resolves button identifiers to registered handlers and
// parses the path and call strings a button entry can carry.
//
// Identifiers follow the "<Group>_<Name>" convention. An identifier with no
// registered handler resolves to a placeholder instead of an error, so a
// stale layout keeps rendering.
package buttons

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/yyyup/panelkit/internal/tree"
)

// Handler renders or executes one button entry.
type Handler func(entry *tree.ButtonEntry) error

// Button is the result of a registry lookup.
type Button struct {
	ID          string
	Handler     Handler
	Placeholder bool
}

// Registry maps button identifiers to handlers. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

// Register binds an identifier to a handler. Reserved identifiers and
// malformed names are rejected.
func (r *Registry) Register(id string, h Handler) error {
	if Reserved(id) {
		return fmt.Errorf("button id %q is reserved", id)
	}
	if _, _, ok := SplitID(id); !ok {
		return fmt.Errorf("button id %q is not of the form Group_Name", id)
	}
	if h == nil {
		return fmt.Errorf("button id %q: nil handler", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[id] = h
	return nil
}

// Lookup resolves an identifier. Unregistered identifiers come back as a
// placeholder whose handler is a no-op.
func (r *Registry) Lookup(id string) Button {
	r.mu.RLock()
	h, ok := r.handlers[id]
	r.mu.RUnlock()
	if ok {
		return Button{ID: id, Handler: h}
	}
	return Button{
		ID:          id,
		Handler:     func(*tree.ButtonEntry) error { return nil },
		Placeholder: true,
	}
}

// IDs returns every registered identifier, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Group returns the registered identifiers sharing a group prefix, sorted.
func (r *Registry) Group(group string) []string {
	prefix := group + "_"
	var ids []string
	for _, id := range r.IDs() {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	return ids
}

// Reserved reports whether an identifier is one of the built-in entry
// kinds rather than a registered callable.
func Reserved(id string) bool {
	switch id {
	case tree.ButtonSpacer, tree.ButtonProperty, tree.ButtonOperator, tree.ButtonCustomScript:
		return true
	}
	return false
}

// SplitID splits "<Group>_<Name>" at the first underscore.
func SplitID(id string) (group, name string, ok bool) {
	i := strings.Index(id, "_")
	if i <= 0 || i == len(id)-1 {
		return "", "", false
	}
	return id[:i], id[i+1:], true
}
