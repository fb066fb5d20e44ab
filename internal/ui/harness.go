package ui

import tea "github.com/charmbracelet/bubbletea"

// Harness drives the inspector model programmatically so tests can walk
// the tree and apply edits without a terminal.
type Harness struct {
	model *Model
}

// NewHarness creates a harness for the provided model.
func NewHarness(model *Model) *Harness {
	return &Harness{model: model}
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

// SendKey is shorthand for sending a single named key press.
func (h *Harness) SendKey(keyType tea.KeyType) {
	h.Send(tea.KeyMsg{Type: keyType})
}

// Type feeds the text one rune at a time, as a user typing would.
func (h *Harness) Type(text string) {
	for _, r := range text {
		h.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return
		}
		if _, isBatch := msg.(tea.BatchMsg); isBatch {
			// Batches carry async work (cursor blink, watcher reads)
			// that tests drive explicitly instead.
			return
		}
		mdl, next := h.model.Update(msg)
		if updated, ok := mdl.(*Model); ok {
			h.model = updated
		}
		cmd = next
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
