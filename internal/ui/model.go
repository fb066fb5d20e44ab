package ui

import (
	"reflect"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/yyyup/panelkit/internal/backend"
	"github.com/yyyup/panelkit/internal/buttons"
	"github.com/yyyup/panelkit/internal/conditional"
	"github.com/yyyup/panelkit/internal/editor"
	"github.com/yyyup/panelkit/internal/theme"
	"github.com/yyyup/panelkit/internal/tree"
	uistate "github.com/yyyup/panelkit/internal/ui/state"
)

type level = uistate.Level

// Mode selects which input handler owns incoming key presses.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeRename
	ModeConfirmDelete
)

// Pane identifies the inspector depth the cursor currently sits at.
type Pane int

const (
	PaneOwners Pane = iota
	PaneCategories
	PaneRows
	PaneEntries
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

func newLevel(id, title string, items []uistate.Item) *level {
	return uistate.NewLevel(id, title, items)
}

// Options carries everything NewModel needs beyond the editor.
type Options struct {
	Region       tree.Region
	Width        int
	Height       int
	ShowFooter   bool
	Verbose      bool
	SettingsPath string
	Evaluator    *conditional.Evaluator
	Watcher      *backend.Watcher
	Buttons      *buttons.Registry
}

// Model implements the Bubble Tea model for the configuration inspector.
type Model struct {
	stack     []*level
	editor    *editor.Editor
	session   *editor.Session
	evaluator *conditional.Evaluator
	buttons   *buttons.Registry
	region    tree.Region

	settingsPath string
	dirty        bool

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	verbose     bool

	errMsg     string
	infoMsg    string
	infoExpire time.Time

	mode          Mode
	rename        textinput.Model
	renameApply   func(string) error
	confirmPrompt string
	confirmAction func() error

	filterCursor      cursor.Model
	filterCursorDirty bool

	watcher  *backend.Watcher
	handlers map[reflect.Type]msgHandler

	// Selection path beneath the stack, recorded as tree indices when a
	// level is pushed.
	ownerKind tree.OwnerKind
	ownerIdx  int
	catIdx    int
	rowIdx    int
}

// NewModel initialises the inspector over the editor's tree.
func NewModel(ed *editor.Editor, opts Options) *Model {
	m := &Model{
		editor:       ed,
		session:      editor.NewSession(),
		evaluator:    opts.Evaluator,
		buttons:      opts.Buttons,
		region:       opts.Region,
		settingsPath: opts.SettingsPath,
		showFooter:   opts.ShowFooter,
		verbose:      opts.Verbose,
		watcher:      opts.Watcher,
		mode:         ModeBrowse,
		ownerKind:    tree.OwnerGlobal,
	}
	if m.region == "" {
		m.region = tree.RegionSideView
	}
	if m.evaluator == nil {
		m.evaluator = conditional.New(conditional.Env{})
	}
	if m.buttons == nil {
		m.buttons = buttons.NewRegistry()
	}
	root := newLevel("owners", "Owners", m.ownerItems())
	root.Cursor = 0
	m.stack = []*level{root}
	m.syncViewport(root)
	if opts.Width > 0 {
		m.width = opts.Width
		m.fixedWidth = true
	}
	if opts.Height > 0 {
		m.height = opts.Height
		m.fixedHeight = true
	}
	c := cursor.New()
	if styles.Cursor != nil {
		c.Style = styles.Cursor.Copy()
	}
	if styles.Filter != nil {
		c.TextStyle = styles.Filter.Copy()
	}
	c.SetChar(" ")
	m.filterCursor = c
	ti := textinput.New()
	ti.Prompt = "name: "
	if styles.FilterPrompt != nil {
		ti.PromptStyle = styles.FilterPrompt.Copy()
	}
	m.rename = ti
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{}
	if m.watcher != nil {
		cmds = append(cmds, waitForBackendEvent(m.watcher))
	}
	if cmd := m.filterCursor.Focus(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, 0, 4)
	if cmd := m.updateFilterCursorModel(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if handled, cmd := m.handleActiveMode(msg); handled {
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	if handler := m.handlerFor(msg); handler != nil {
		if cmd := handler(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}
		return m, m.finishUpdate(cmds)
	}

	return m, m.finishUpdate(cmds)
}

func (m *Model) handleActiveMode(msg tea.Msg) (bool, tea.Cmd) {
	switch m.mode {
	case ModeRename:
		return m.handleRenameMode(msg)
	case ModeConfirmDelete:
		return m.handleConfirmMode(msg)
	default:
		return false, nil
	}
}

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(backendEventMsg{}):   m.handleBackendEventMsg,
		reflect.TypeOf(saveDoneMsg{}):       m.handleSaveDoneMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

func (m *Model) finishUpdate(cmds []tea.Cmd) tea.Cmd {
	if m.filterCursorDirty {
		m.filterCursorDirty = false
		m.filterCursor.Blink = false
		if cmd := m.filterCursor.BlinkCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	if len(cmds) == 0 {
		return nil
	}
	return tea.Batch(cmds...)
}

// Pane reports the depth of the current level.
func (m *Model) Pane() Pane {
	depth := len(m.stack) - 1
	if depth < 0 {
		depth = 0
	}
	if depth > int(PaneEntries) {
		depth = int(PaneEntries)
	}
	return Pane(depth)
}

// Dirty reports whether the tree has unsaved edits.
func (m *Model) Dirty() bool {
	return m.dirty
}

// Region exposes the region the inspector renders visibility for.
func (m *Model) Region() tree.Region {
	return m.region
}

func (m *Model) currentLevel() *level {
	if len(m.stack) == 0 {
		return nil
	}
	return m.stack[len(m.stack)-1]
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.forceClearInfo()
	}
	return m.infoMsg
}
