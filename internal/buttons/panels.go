package buttons

import (
	"sort"
	"sync"
)

// PanelRegistry tracks the externally registered panel ids PANEL rows can
// reference. Rows pointing at an unregistered id are hidden by the
// visibility pass.
type PanelRegistry struct {
	mu  sync.RWMutex
	ids map[string]bool
}

// NewPanelRegistry returns an empty panel registry.
func NewPanelRegistry() *PanelRegistry {
	return &PanelRegistry{ids: map[string]bool{}}
}

// Register records a panel id as available.
func (r *PanelRegistry) Register(id string) {
	if id == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids[id] = true
}

// Unregister forgets a panel id.
func (r *PanelRegistry) Unregister(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.ids, id)
}

// Exists reports whether a panel id is registered. It has the signature
// the evaluator environment expects.
func (r *PanelRegistry) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ids[id]
}

// IDs returns every registered panel id, sorted.
func (r *PanelRegistry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.ids))
	for id := range r.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
