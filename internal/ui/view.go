package ui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yyyup/panelkit/internal/format/table"
	"github.com/yyyup/panelkit/internal/plain"
	uistate "github.com/yyyup/panelkit/internal/ui/state"
)

const (
	detailPanelMinWidth = 40  // minimum cols for the detail panel; below this no split
	detailPanelFraction = 0.5 // fraction of total width given to the detail panel
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
}

func (m *Model) hasSideDetail() bool {
	return m.detailPanelWidth() > 0
}

// detailPanelWidth returns the width in columns for the right-hand detail
// panel. Returns 0 when the terminal is too narrow to split.
func (m *Model) detailPanelWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := int(float64(m.width) * detailPanelFraction)
	if w < detailPanelMinWidth {
		return 0
	}
	return w
}

func (m *Model) listColumnWidth() int {
	return m.width - m.detailPanelWidth()
}

// View implements tea.Model.
func (m *Model) View() string {
	header := m.header()
	if m.mode == ModeRename {
		return m.viewRename(header)
	}
	if m.hasSideDetail() {
		return m.viewSideBySide(header)
	}
	return m.viewVertical(header)
}

func (m *Model) viewRename(header string) string {
	lines := []styledLine{
		{text: header, style: styles.Header},
		{},
		{text: "Rename", style: styles.Header},
		{text: m.rename.View()},
		{},
		{text: "enter apply  esc cancel", style: styles.Footer},
	}
	lines = limitHeight(lines, m.height, m.width)
	lines = applyWidth(lines, m.width)
	return renderLines(lines)
}

func (m *Model) listLines(header string, width int) []styledLine {
	lines := make([]styledLine, 0, 16)
	if header != "" {
		lines = append(lines, styledLine{text: header, style: styles.Header})
	}
	current := m.currentLevel()
	if current == nil {
		return lines
	}
	m.syncViewport(current)
	start := 0
	displayItems := current.Items
	if maxItems := m.maxVisibleItems(); maxItems > 0 && len(displayItems) > maxItems {
		start = current.ViewportOffset
		if start < 0 {
			start = 0
		}
		if start+maxItems > len(displayItems) {
			start = len(displayItems) - maxItems
			if start < 0 {
				start = 0
			}
			current.ViewportOffset = start
		}
		displayItems = displayItems[start : start+maxItems]
	}
	if len(current.Items) == 0 {
		msg := "(no entries)"
		if current.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", current.Filter)
		}
		lines = append(lines, styledLine{text: msg, style: styles.Info})
		return lines
	}
	// Align the label and annotation columns across the visible window.
	cells := make([][]string, len(displayItems))
	for i, item := range displayItems {
		cells[i] = []string{item.Label, item.Detail}
	}
	formatted := table.Format(cells, []table.Alignment{table.AlignLeft, table.AlignLeft})
	for i, item := range displayItems {
		idx := start + i
		lines = append(lines, m.buildItemLine(item, formatted[i], idx, current, width))
	}
	return lines
}

func (m *Model) viewVertical(header string) string {
	lines := m.listLines(header, m.width)
	if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		lines = append(lines, styledLine{})
		lines = append(lines, styledLine{text: footerHint, style: styles.Footer})
	}
	lines = limitHeight(lines, m.height-2, m.width)
	lines = applyWidth(lines, m.width)

	bottomLines := applyWidth(m.bottomBar(), m.width)
	lines = append(lines, bottomLines...)
	return renderLines(lines)
}

func (m *Model) viewSideBySide(header string) string {
	listW := m.listColumnWidth()
	detailW := m.detailPanelWidth()
	const bottomBarRows = 2

	contentLines := m.listLines(header, listW)
	if info := m.currentInfo(); info != "" {
		contentLines = append(contentLines, styledLine{})
		contentLines = append(contentLines, styledLine{text: info, style: styles.Info})
	}
	if m.showFooter {
		contentLines = append(contentLines, styledLine{})
		contentLines = append(contentLines, styledLine{text: footerHint, style: styles.Footer})
	}

	panelH := m.height - bottomBarRows
	if panelH < 1 {
		panelH = 1
	}
	if len(contentLines) > panelH {
		contentLines = contentLines[:panelH]
	}
	for len(contentLines) < panelH {
		contentLines = append(contentLines, styledLine{})
	}

	contentLines = applyWidth(contentLines, listW)
	leftStr := renderLines(contentLines)

	// Pad every rendered row to exactly listW visible columns so
	// JoinHorizontal keeps the detail panel flush to the right edge.
	leftRows := strings.Split(leftStr, "\n")
	for i, row := range leftRows {
		w := lipgloss.Width(row)
		if w > listW {
			leftRows[i] = truncate.StringWithTail(row, uint(listW-1), "…")
		} else if w < listW {
			leftRows[i] = row + strings.Repeat(" ", listW-w)
		}
	}
	leftStr = strings.Join(leftRows, "\n")

	rightStr := m.renderDetailPanel(detailW, panelH)

	topSection := lipgloss.JoinHorizontal(lipgloss.Top, leftStr, rightStr)

	bottomLines := applyWidth(m.bottomBar(), m.width)
	return topSection + "\n" + renderLines(bottomLines)
}

const footerHint = "↑/↓ move  enter open  esc back  tab region  M-↑/↓ move item  M-d dup  M-c/M-v copy/paste  M-n add  M-r rename  M-x delete  ^s save"

func (m *Model) bottomBar() []styledLine {
	var statusLine styledLine
	switch {
	case m.mode == ModeConfirmDelete && m.confirmPrompt != "":
		statusLine = styledLine{text: m.confirmPrompt, style: styles.Error}
	case m.errMsg != "":
		statusLine = styledLine{text: fmt.Sprintf("Error: %s", m.errMsg), style: styles.Error}
	case m.dirty:
		statusLine = styledLine{text: "(unsaved changes)", style: styles.Info}
	}
	return []styledLine{
		statusLine,
		{text: m.filterPrompt()},
	}
}

func (m *Model) buildItemLine(item uistate.Item, text string, idx int, current *level, width int) styledLine {
	indicator := "▌"
	lineStyle := styles.Item
	indicatorStyle := styles.ItemIndicator
	if item.Dim && styles.Dim != nil {
		lineStyle = styles.Dim
	}
	if idx == current.Cursor {
		indicatorStyle = styles.SelectedItemIndicator
		lineStyle = styles.SelectedItem
	}
	fullText := indicator + " " + text
	if width > 0 {
		if pad := width - len([]rune(fullText)); pad > 0 {
			fullText += strings.Repeat(" ", pad)
		}
	}
	return styledLine{
		text:          fullText,
		style:         lineStyle,
		prefixStyle:   indicatorStyle,
		highlightFrom: 1, // just the ▌ character
	}
}

func renderDetailBorder(text string) string {
	if styles.DetailBorder == nil {
		return text
	}
	return styles.DetailBorder.Render(text)
}

func renderDetailTitle(text string) string {
	if styles.DetailTitle == nil {
		return text
	}
	return styles.DetailTitle.Render(text)
}

// renderDetailPanel draws a bordered box holding the selected node as a
// plain mapping, so the effect of every edit is inspectable immediately.
func (m *Model) renderDetailPanel(totalWidth, height int) string {
	const (
		tlc = "╭"
		trc = "╮"
		blc = "╰"
		brc = "╯"
		hz  = "─"
		vt  = "│"
	)

	innerW := totalWidth - 2
	innerH := height - 2
	if innerW < 1 {
		innerW = 1
	}
	if innerH < 1 {
		innerH = 1
	}

	title, contentLines := m.detailContent()

	titleSeg := " " + title + " "
	dashes := totalWidth - 4 - len([]rune(titleSeg))
	if dashes < 0 {
		titleSeg = " … "
		dashes = totalWidth - 4 - len([]rune(titleSeg))
	}
	if dashes < 0 {
		dashes = 0
	}
	topLine := renderDetailBorder(tlc+hz) +
		renderDetailTitle(titleSeg) +
		renderDetailBorder(strings.Repeat(hz, dashes)+hz+trc)
	bottomLine := renderDetailBorder(blc + strings.Repeat(hz, innerW) + brc)

	rows := make([]string, 0, height)
	rows = append(rows, topLine)
	for i := 0; i < innerH; i++ {
		var content string
		if i < len(contentLines) {
			content = contentLines[i]
		}
		w := lipgloss.Width(content)
		if w > innerW {
			content = truncate.StringWithTail(content, uint(innerW-1), "…")
			w = lipgloss.Width(content)
		}
		if w < innerW {
			content = content + strings.Repeat(" ", innerW-w)
		}
		if styles.DetailBody != nil {
			content = styles.DetailBody.Render(content)
		}
		rows = append(rows, renderDetailBorder(vt)+content+renderDetailBorder(vt))
	}
	rows = append(rows, bottomLine)
	return strings.Join(rows, "\n")
}

func (m *Model) detailContent() (string, []string) {
	var (
		title string
		node  any
	)
	current := m.currentLevel()
	if current == nil || current.Current() == nil {
		return "Detail", nil
	}
	item := current.Current()
	idx := itemIndex(item.ID)
	switch m.Pane() {
	case PaneOwners:
		title = item.Label
		if item.ID == "owner:global" {
			node = m.editor.Root().Global
		} else if popups := m.editor.Root().Popups; idx >= 0 && idx < len(popups) {
			node = popups[idx]
		}
	case PaneCategories:
		title = item.Label
		if owner := m.selectedOwner(); owner != nil && idx >= 0 && idx < len(owner.Categories) {
			node = owner.Categories[idx]
		}
	case PaneRows:
		title = item.Label
		if cat := m.selectedCategory(); cat != nil && idx >= 0 && idx < len(cat.Rows) {
			node = cat.Rows[idx]
		}
	case PaneEntries:
		title = item.Label
		if row := m.selectedRow(); row != nil && idx >= 0 && idx < len(row.Buttons) {
			node = row.Buttons[idx]
		}
	}
	if node == nil {
		return title, nil
	}
	mapping, err := plain.ToPlain(node)
	if err != nil {
		return title, []string{err.Error()}
	}
	raw, err := json.MarshalIndent(mapping, "", "  ")
	if err != nil {
		return title, []string{err.Error()}
	}
	return title, strings.Split(string(raw), "\n")
}

func (m *Model) header() string {
	segments := make([]string, 0, len(m.stack))
	for _, l := range m.stack {
		title := strings.TrimSpace(l.Title)
		if title == "" {
			continue
		}
		segments = append(segments, title)
	}
	header := strings.Join(segments, " → ")
	region := string(m.regionFor())
	if header == "" {
		return region
	}
	return header + "  [" + region + "]"
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if current := m.currentLevel(); current != nil {
		m.syncViewport(current)
	}
	return nil
}

func (m *Model) maxVisibleItems() int {
	if m.height <= 0 {
		return -1
	}
	used := 2 // bottom bar: status line + filter prompt
	if header := m.header(); header != "" {
		used++
	}
	if info := m.currentInfo(); info != "" {
		used += 2
	}
	if m.showFooter {
		used += 2
	}
	remain := m.height - used
	if remain < 1 {
		return 1
	}
	return remain
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		result[i] = line
		result[i].text = truncateText(line.text, width)
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
