package tree

// Region identifies one host UI surface a category can be pinned into.
type Region string

const (
	RegionTopNLA    Region = "top_nla"
	RegionTopGraph  Region = "top_graph"
	RegionTopDope   Region = "top_dope"
	RegionSideNLA   Region = "side_nla"
	RegionSideGraph Region = "side_graph"
	RegionSideDope  Region = "side_dope"
	RegionSideView  Region = "side_view"
	RegionPopup     Region = "popup"
)

// PinRegions lists the regions a category may be pinned into. The popup
// region is not pinnable; popup owners reach the tree through their own root.
func PinRegions() []Region {
	return []Region{
		RegionTopNLA,
		RegionTopGraph,
		RegionTopDope,
		RegionSideNLA,
		RegionSideGraph,
		RegionSideDope,
		RegionSideView,
	}
}

// OpenRegions lists the regions a section tracks open/closed state for.
func OpenRegions() []Region {
	return append(PinRegions(), RegionPopup)
}

// Top reports whether the region is a top-bar surface. Every other region,
// popup included, uses the side-panel display flag.
func (r Region) Top() bool {
	switch r {
	case RegionTopNLA, RegionTopGraph, RegionTopDope:
		return true
	}
	return false
}

// Valid reports whether the region is one of the known surfaces.
func (r Region) Valid() bool {
	switch r {
	case RegionTopNLA, RegionTopGraph, RegionTopDope,
		RegionSideNLA, RegionSideGraph, RegionSideDope,
		RegionSideView, RegionPopup:
		return true
	}
	return false
}

// RowKind tags the three row variants. Unrecognized kinds deserialize to
// whatever string was stored and are rendered as placeholders downstream.
type RowKind string

const (
	RowSection RowKind = "SECTION"
	RowPanel   RowKind = "PANEL"
	RowButton  RowKind = "BUTTON"
)

// Known reports whether the kind is one of the three understood variants.
func (k RowKind) Known() bool {
	switch k {
	case RowSection, RowPanel, RowButton:
		return true
	}
	return false
}

// CategoryStyle controls how a category frames its content.
type CategoryStyle string

const (
	StylePlain      CategoryStyle = "DEFAULT"
	StyleBox        CategoryStyle = "BOX"
	StyleBoxTitle   CategoryStyle = "BOX_TITLE"
	StyleBoxContent CategoryStyle = "BOX_CONTENT"
)

// ShowMode controls when a category title is drawn.
type ShowMode string

const (
	ShowAlways ShowMode = "ALWAYS"
	ShowGlobal ShowMode = "GLOBAL"
	ShowNever  ShowMode = "NEVER"
)

// CollapseStyle selects the toggle glyph used for section headers.
type CollapseStyle string

const (
	CollapseGlobal CollapseStyle = "GLOBAL"
	CollapseThin   CollapseStyle = "THIN"
	CollapseThick  CollapseStyle = "THICK"
	CollapseEye    CollapseStyle = "EYE"
	CollapseRadio  CollapseStyle = "RADIO"
)

// Alignment controls button packing inside a BUTTON row.
type Alignment string

const (
	AlignLeft   Alignment = "LEFT"
	AlignCenter Alignment = "CENTER"
	AlignRight  Alignment = "RIGHT"
	AlignExpand Alignment = "EXPAND"
	AlignGrid   Alignment = "GRID"
)

// Reserved button identifiers. Anything else is looked up in the drawing
// registry and degrades to a placeholder when unknown.
const (
	ButtonSpacer       = "spacer"
	ButtonProperty     = "property"
	ButtonOperator     = "operator"
	ButtonCustomScript = "custom_script"
)

// NoActive is the active-index sentinel for an empty collection.
const NoActive = -1

// MaxPopupCategories caps how many categories a popup-panel owner may hold.
const MaxPopupCategories = 8

// ButtonEntry is one slot inside a BUTTON row.
type ButtonEntry struct {
	Name           string  `json:"name"`
	ButtonID       string  `json:"button_id"`
	Icon           string  `json:"icon"`
	DisplayName    string  `json:"display_name"`
	SpacerWidth    float64 `json:"spacer_width"`
	ButtonPath     string  `json:"button_path"`
	PropertySlider bool    `json:"property_slider"`
	OperatorCall   string  `json:"operator_call"`
	OperatorCtx    string  `json:"operator_context"`
	OperatorProps  string  `json:"operator_properties"`
	Script         string  `json:"script"`
	TextBlock      string  `json:"text_block_name"`
}

// Label returns the display name with fallbacks suitable for lists.
func (b *ButtonEntry) Label() string {
	if b.DisplayName != "" {
		return b.DisplayName
	}
	if b.Name != "" {
		return b.Name
	}
	return b.ButtonID
}

// Clone returns a deep copy of the entry.
func (b *ButtonEntry) Clone() *ButtonEntry {
	dup := *b
	return &dup
}

// Row is one entry in a category's flat row list: a SECTION header, a PANEL
// reference, or a BUTTON row owning entries.
type Row struct {
	Name        string        `json:"name"`
	Kind        RowKind       `json:"row_type"`
	Icon        string        `json:"icon"`
	Subsection  bool          `json:"is_subsection"`
	DisplayTop  bool          `json:"display_top"`
	DisplaySide bool          `json:"display_side"`
	Conditional string        `json:"conditional"`
	Style       CategoryStyle `json:"style"`
	Collapse    CollapseStyle `json:"collapse_style"`
	Alignment   Alignment     `json:"alignment"`

	// SECTION and PANEL rows track per-region open state.
	Open map[Region]bool `json:"open"`

	// PANEL rows reference a registered panel id, or a host panel class.
	PanelID     string `json:"panel_id"`
	CustomPanel string `json:"custom_panel"`

	// BUTTON rows own entries.
	Buttons      []*ButtonEntry `json:"buttons"`
	ActiveButton int            `json:"active_button_index"`
}

// NewSection returns a SECTION row open in every region.
func NewSection(name string) *Row {
	r := &Row{
		Name:        name,
		Kind:        RowSection,
		Style:       StyleBox,
		Collapse:    CollapseGlobal,
		Alignment:   AlignExpand,
		DisplayTop:  true,
		DisplaySide: true,
		Open:        map[Region]bool{},
		ActiveButton: NoActive,
	}
	for _, region := range OpenRegions() {
		r.Open[region] = true
	}
	return r
}

// NewPanel returns a PANEL row referencing a registered panel id.
func NewPanel(name, panelID string) *Row {
	r := NewSection(name)
	r.Kind = RowPanel
	r.PanelID = panelID
	return r
}

// NewButtonRow returns an empty BUTTON row.
func NewButtonRow() *Row {
	return &Row{
		Kind:         RowButton,
		Style:        StyleBox,
		Collapse:     CollapseGlobal,
		Alignment:    AlignExpand,
		DisplayTop:   true,
		DisplaySide:  true,
		Open:         map[Region]bool{},
		ActiveButton: NoActive,
	}
}

// IsOpen reports the open flag for a region. Rows without recorded state
// count as closed, matching a freshly collapsed section.
func (r *Row) IsOpen(region Region) bool {
	if r.Open == nil {
		return false
	}
	return r.Open[region]
}

// SetOpen records the open flag for a region.
func (r *Row) SetOpen(region Region, open bool) {
	if r.Open == nil {
		r.Open = map[Region]bool{}
	}
	r.Open[region] = open
}

// DisplayIn reports the row's own display flag for a region group.
func (r *Row) DisplayIn(region Region) bool {
	if region.Top() {
		return r.DisplayTop
	}
	return r.DisplaySide
}

// Clone returns a deep copy of the row and its button entries.
func (r *Row) Clone() *Row {
	dup := *r
	if r.Open != nil {
		dup.Open = make(map[Region]bool, len(r.Open))
		for region, open := range r.Open {
			dup.Open[region] = open
		}
	}
	dup.Buttons = make([]*ButtonEntry, 0, len(r.Buttons))
	for _, btn := range r.Buttons {
		dup.Buttons = append(dup.Buttons, btn.Clone())
	}
	return &dup
}

// ClampActiveButton re-validates the active button index after a mutation.
func (r *Row) ClampActiveButton() {
	if len(r.Buttons) == 0 {
		r.ActiveButton = NoActive
		return
	}
	if r.ActiveButton < 0 {
		r.ActiveButton = 0
	}
	if r.ActiveButton >= len(r.Buttons) {
		r.ActiveButton = len(r.Buttons) - 1
	}
}

// Category groups rows under a name and carries the per-region pin state.
type Category struct {
	Name      string          `json:"name"`
	Icon      string          `json:"icon"`
	Rows      []*Row          `json:"rows"`
	ActiveRow int             `json:"active_row_index"`
	PinGlobal bool            `json:"pin_global"`
	Pins      map[Region]bool `json:"pins"`
	ActiveIn  map[Region]bool `json:"active_in"`

	Show             ShowMode      `json:"show"`
	Style            CategoryStyle `json:"style"`
	Indent           float64       `json:"indent"`
	SectionSeparator float64       `json:"section_separator"`
	Collapse         CollapseStyle `json:"cat_sections_collapse_style"`
	IconAsToggle     bool          `json:"cat_sections_icon_as_toggle"`

	// DefaultID marks a reconcilable built-in; empty means user-defined.
	DefaultID string `json:"default_cat_id"`
}

// NewCategory returns a category pinned everywhere, with no rows.
func NewCategory(name string) *Category {
	c := &Category{
		Name:             name,
		ActiveRow:        NoActive,
		PinGlobal:        true,
		Pins:             map[Region]bool{},
		ActiveIn:         map[Region]bool{},
		Show:             ShowGlobal,
		Style:            StyleBoxTitle,
		Indent:           1.0,
		SectionSeparator: 0.5,
		Collapse:         CollapseGlobal,
	}
	for _, region := range PinRegions() {
		c.Pins[region] = true
		c.ActiveIn[region] = true
	}
	c.ActiveIn[RegionPopup] = true
	return c
}

// Builtin reports whether the category tracks a bundled definition and is
// therefore read-only for direct edits.
func (c *Category) Builtin() bool {
	return c.DefaultID != ""
}

// PinnedTo reports whether the category is pinned into a region, honoring
// the global gate.
func (c *Category) PinnedTo(region Region) bool {
	if !c.PinGlobal {
		return false
	}
	if c.Pins == nil {
		return false
	}
	return c.Pins[region]
}

// SetPin records a per-region pin flag.
func (c *Category) SetPin(region Region, pinned bool) {
	if c.Pins == nil {
		c.Pins = map[Region]bool{}
	}
	c.Pins[region] = pinned
}

// ActiveInRegion reports the per-region active flag.
func (c *Category) ActiveInRegion(region Region) bool {
	if c.ActiveIn == nil {
		return false
	}
	return c.ActiveIn[region]
}

// Clone returns a deep copy of the category, rows included.
func (c *Category) Clone() *Category {
	dup := *c
	if c.Pins != nil {
		dup.Pins = make(map[Region]bool, len(c.Pins))
		for region, pinned := range c.Pins {
			dup.Pins[region] = pinned
		}
	}
	if c.ActiveIn != nil {
		dup.ActiveIn = make(map[Region]bool, len(c.ActiveIn))
		for region, active := range c.ActiveIn {
			dup.ActiveIn[region] = active
		}
	}
	dup.Rows = make([]*Row, 0, len(c.Rows))
	for _, row := range c.Rows {
		dup.Rows = append(dup.Rows, row.Clone())
	}
	return &dup
}

// ClampActiveRow re-validates the active row index after a mutation.
func (c *Category) ClampActiveRow() {
	if len(c.Rows) == 0 {
		c.ActiveRow = NoActive
		return
	}
	if c.ActiveRow < 0 {
		c.ActiveRow = 0
	}
	if c.ActiveRow >= len(c.Rows) {
		c.ActiveRow = len(c.Rows) - 1
	}
}

// OwnerKind separates the single global root from popup-panel roots.
type OwnerKind string

const (
	OwnerGlobal OwnerKind = "global"
	OwnerPopup  OwnerKind = "popup"
)

// Hotkey is the stored key binding for invoking a popup panel.
type Hotkey struct {
	Enabled bool   `json:"enabled"`
	Key     string `json:"key"`
	Ctrl    bool   `json:"ctrl"`
	Alt     bool   `json:"alt"`
	Shift   bool   `json:"shift"`
	Space   string `json:"space"`
}

// Owner is one configuration root: the global toolbar surface, or an
// independent popup panel.
type Owner struct {
	Kind           OwnerKind   `json:"kind"`
	Name           string      `json:"name"`
	Categories     []*Category `json:"categories"`
	ActiveCategory int         `json:"active_category_index"`

	// Popup-panel owners only.
	Width     int    `json:"popup_width"`
	Hotkey    Hotkey `json:"hotkey"`
	DefaultID string `json:"default_popup_id"`
}

// NewGlobalOwner returns the empty global root.
func NewGlobalOwner() *Owner {
	return &Owner{Kind: OwnerGlobal, ActiveCategory: NoActive}
}

// NewPopupOwner returns an empty popup-panel root.
func NewPopupOwner(name string) *Owner {
	return &Owner{
		Kind:           OwnerPopup,
		Name:           name,
		ActiveCategory: NoActive,
		Width:          400,
		Hotkey:         Hotkey{Space: "ALL_SPACES"},
	}
}

// Builtin reports whether the popup owner tracks a bundled definition.
func (o *Owner) Builtin() bool {
	return o.DefaultID != ""
}

// Clone returns a deep copy of the owner and its categories.
func (o *Owner) Clone() *Owner {
	dup := *o
	dup.Categories = make([]*Category, 0, len(o.Categories))
	for _, cat := range o.Categories {
		dup.Categories = append(dup.Categories, cat.Clone())
	}
	return &dup
}

// ClampActiveCategory re-validates the active category index.
func (o *Owner) ClampActiveCategory() {
	if len(o.Categories) == 0 {
		o.ActiveCategory = NoActive
		return
	}
	if o.ActiveCategory < 0 {
		o.ActiveCategory = 0
	}
	if o.ActiveCategory >= len(o.Categories) {
		o.ActiveCategory = len(o.Categories) - 1
	}
}

// Root holds the whole configuration forest: the global owner plus every
// popup-panel owner.
type Root struct {
	Global      *Owner   `json:"global"`
	Popups      []*Owner `json:"popup_panels"`
	ActivePopup int      `json:"active_popup_panel_index"`
}

// NewRoot returns an empty forest with a global owner in place.
func NewRoot() *Root {
	return &Root{Global: NewGlobalOwner(), ActivePopup: NoActive}
}

// Owners returns every owner in draw order, global first.
func (t *Root) Owners() []*Owner {
	owners := make([]*Owner, 0, len(t.Popups)+1)
	if t.Global != nil {
		owners = append(owners, t.Global)
	}
	owners = append(owners, t.Popups...)
	return owners
}

// Owner returns the owner for a kind/index pair, or nil when out of range.
// The index is ignored for the global kind.
func (t *Root) Owner(kind OwnerKind, index int) *Owner {
	switch kind {
	case OwnerGlobal:
		return t.Global
	case OwnerPopup:
		if index < 0 || index >= len(t.Popups) {
			return nil
		}
		return t.Popups[index]
	}
	return nil
}

// ClampActivePopup re-validates the active popup index.
func (t *Root) ClampActivePopup() {
	if len(t.Popups) == 0 {
		t.ActivePopup = NoActive
		return
	}
	if t.ActivePopup < 0 {
		t.ActivePopup = 0
	}
	if t.ActivePopup >= len(t.Popups) {
		t.ActivePopup = len(t.Popups) - 1
	}
}
