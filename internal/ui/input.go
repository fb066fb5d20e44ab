package ui

import (
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yyyup/panelkit/internal/logging/events"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(l *level, before int) {
	if l == nil {
		return
	}
	if before != l.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if m.mode != ModeBrowse {
		return nil
	}
	if keyMsg.Type == tea.KeyTab {
		m.cycleRegion()
		return nil
	}
	if cmd, handled := m.handleActionKey(keyMsg); handled {
		return cmd
	}
	if m.handleTextInput(keyMsg) {
		return nil
	}
	switch keyMsg.String() {
	case "ctrl+c":
		return tea.Quit
	case "esc":
		return m.handleEscapeKey()
	case "enter":
		return m.handleEnterKey()
	case "up":
		m.moveCursorBy(-1)
	case "down":
		m.moveCursorBy(1)
	case "pgup":
		m.moveCursorPage(-1)
	case "pgdown":
		m.moveCursorPage(1)
	case "home":
		m.moveCursorHome()
	case "end":
		m.moveCursorEnd()
	}
	return nil
}

func (m *Model) moveCursorBy(delta int) {
	current := m.currentLevel()
	if current == nil {
		return
	}
	n := len(current.Items)
	if n == 0 {
		return
	}
	// Arrow keys wrap around the list.
	next := current.Cursor + delta
	if next < 0 {
		next = n - 1
	}
	if next >= n {
		next = 0
	}
	if next != current.Cursor {
		current.Cursor = next
		events.UI.Cursor(current.ID, current.Cursor)
	}
	m.syncViewport(current)
	m.syncSelection()
}

func (m *Model) moveCursorPage(direction int) {
	if current := m.currentLevel(); current != nil {
		if current.MoveCursorPage(direction, m.maxVisibleItems()) {
			events.UI.Cursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
		m.syncSelection()
	}
}

func (m *Model) moveCursorHome() {
	if current := m.currentLevel(); current != nil {
		if current.MoveCursorHome() {
			events.UI.Cursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
		m.syncSelection()
	}
}

func (m *Model) moveCursorEnd() {
	if current := m.currentLevel(); current != nil {
		if current.MoveCursorEnd() {
			events.UI.Cursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
		m.syncSelection()
	}
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}

func (m *Model) handleTextInput(msg tea.KeyMsg) bool {
	current := m.currentLevel()
	if current == nil {
		return false
	}
	switch msg.String() {
	case "ctrl+u":
		if current.Filter == "" {
			return false
		}
		before := current.FilterCursorPos()
		current.SetFilter("", 0)
		m.noteFilterCursorChange(current, before)
		m.forceClearInfo()
		m.errMsg = ""
		events.Filter.Cleared(current.ID)
		m.syncViewport(current)
		return true
	case "ctrl+w":
		before := current.FilterCursorPos()
		if !current.DeleteFilterWordBackward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		m.forceClearInfo()
		m.errMsg = ""
		events.Filter.Backspace(current.ID, current.Filter)
		m.syncViewport(current)
		return true
	case "ctrl+a":
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorStart() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		return true
	case "ctrl+e":
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorEnd() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		return true
	case "ctrl+left":
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorWordBackward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		return true
	case "ctrl+right":
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorWordForward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		return true
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return m.removeFilterRune()
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) || unicode.IsSpace(r) {
				return false
			}
		}
		return m.appendToFilter(string(msg.Runes))
	case tea.KeySpace:
		return m.appendToFilter(" ")
	case tea.KeyLeft:
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorRuneBackward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		return true
	case tea.KeyRight:
		before := current.FilterCursorPos()
		if !current.MoveFilterCursorRuneForward() {
			return false
		}
		m.noteFilterCursorChange(current, before)
		return true
	}
	return false
}

func (m *Model) appendToFilter(text string) bool {
	if text == "" {
		return false
	}
	current := m.currentLevel()
	if current == nil {
		return false
	}
	before := current.FilterCursorPos()
	if !current.InsertFilterText(text) {
		return false
	}
	m.noteFilterCursorChange(current, before)
	m.forceClearInfo()
	m.errMsg = ""
	events.Filter.Append(current.ID, current.Filter)
	m.syncViewport(current)
	m.syncSelection()
	return true
}

func (m *Model) removeFilterRune() bool {
	current := m.currentLevel()
	if current == nil {
		return false
	}
	before := current.FilterCursorPos()
	if !current.DeleteFilterRuneBackward() {
		return false
	}
	m.noteFilterCursorChange(current, before)
	m.forceClearInfo()
	m.errMsg = ""
	events.Filter.Backspace(current.ID, current.Filter)
	m.syncViewport(current)
	m.syncSelection()
	return true
}

func (m *Model) filterPrompt() string {
	current := m.currentLevel()
	if current == nil {
		return ">"
	}
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if styles.Cursor != nil {
		m.filterCursor.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		m.filterCursor.TextStyle = styles.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := "» "
	if styles.FilterPrompt != nil {
		prompt = styles.FilterPrompt.Render(prompt)
	}
	text := current.Filter
	if text == "" {
		placeholder := "(type to search)"
		runes := []rune(placeholder)
		caretRune := string(runes[0])
		rest := string(runes[1:])
		if styles.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = styles.FilterPlaceholder.Copy()
		}
		caret := m.renderFilterCursor(caretRune)
		return prompt + caret + render(styles.FilterPlaceholder, rest)
	}
	runes := []rune(text)
	pos := current.FilterCursorPos()
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}
	before := render(styles.Filter, string(runes[:pos]))
	caretRune := " "
	if pos < len(runes) {
		caretRune = string(runes[pos])
	}
	caret := m.renderFilterCursor(caretRune)
	after := ""
	if pos < len(runes) {
		after = render(styles.Filter, string(runes[pos+1:]))
	}
	return prompt + before + caret + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)

	base := m.filterCursor.TextStyle.Copy()
	base = base.Inline(true)

	if m.filterCursor.Blink {
		return base.Render(char)
	}

	if styles.Cursor != nil {
		cursorStyle := styles.Cursor.Copy().Inline(true)
		base = base.Inherit(cursorStyle).Blink(false)
		return base.Render(char)
	}

	return base.Reverse(true).Render(char)
}
