// Package ui implements the interactive outline browser. It is a bubbletea
// program that owns the expansion map and selection, delegating traversal to
// pkg/flatten and persistence of expand/collapse state to the XDG state dir.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/treeline/pkg/export"
	"github.com/vanderheijden86/treeline/pkg/flatten"
	"github.com/vanderheijden86/treeline/pkg/model"
)

// DocumentChangedMsg tells the browser the document changed on disk and
// carries the freshly loaded tree. The watcher goroutine sends it via
// Program.Send.
type DocumentChangedMsg struct {
	Root *model.Node
}

// DocumentErrorMsg reports a failed reload without killing the session.
type DocumentErrorMsg struct {
	Err error
}

// BrowserOptions configures a new Browser.
type BrowserOptions struct {
	Root       *model.Node
	Title      string
	StatePath  string // Empty disables expand/collapse persistence
	ExportPath string // Target for the snapshot key, defaults to "outline.svg"
	HideRoot   bool
	Sort       string // name, created, kind; empty keeps document order
	Theme      Theme
}

// Browser is the bubbletea model for the outline view.
type Browser struct {
	theme     Theme
	flattener *flatten.Flattener[*model.Node]
	root      *model.Node

	// expanded is the canonical expansion map. The flattener only reads
	// it; every change comes back through OnExpandedChange.
	expanded   map[string]bool
	visible    []flatten.VisibleNode[*model.Node]
	flattenErr error

	cursor     int
	selectedID string
	scroll     int

	searching   bool
	searchInput textinput.Model
	searchTerm  string

	showHelp     bool
	helpRenderer *MarkdownRenderer

	statusMsg  string
	title      string
	statePath  string
	exportPath string
	sortName   string

	width  int
	height int
}

// NewBrowser creates a browser over the given tree. Persisted expansion
// state is merged with the depth defaults before the first flatten.
func NewBrowser(opts BrowserOptions) *Browser {
	input := textinput.New()
	input.Placeholder = "search"
	input.Prompt = "/ "
	input.CharLimit = 128

	exportPath := opts.ExportPath
	if exportPath == "" {
		exportPath = "outline.svg"
	}

	b := &Browser{
		theme:       opts.Theme,
		root:        opts.Root,
		title:       opts.Title,
		statePath:   opts.StatePath,
		exportPath:  exportPath,
		sortName:    opts.Sort,
		searchInput: input,
		width:       80,
		height:      24,
	}

	b.expanded = initialExpansion(opts.Root, LoadOutlineState(opts.StatePath))

	b.flattener = flatten.New(flatten.Options[*model.Node]{
		Data:             opts.Root,
		Expanded:         b.expanded,
		HideRoot:         opts.HideRoot,
		ChildSort:        model.ComparatorFor(opts.Sort),
		OnExpandedChange: b.applyExpansion,
		OnSelect: func(n *model.Node) {
			if n != nil {
				b.selectedID = n.ID
			}
		},
	})

	b.rebuild()
	return b
}

// initialExpansion builds the starting map: expanded for depth < 1,
// collapsed otherwise, then persisted overrides on top.
func initialExpansion(root *model.Node, state *OutlineState) map[string]bool {
	expanded := make(map[string]bool)
	var walk func(n *model.Node, depth int)
	walk = func(n *model.Node, depth int) {
		if n == nil {
			return
		}
		if len(n.Children) > 0 {
			expanded[n.ID] = depth < 1
		}
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(root, 0)

	for id, v := range state.Expanded {
		expanded[id] = v
	}
	return expanded
}

// applyExpansion commits a new expansion map from a toggle handle.
func (b *Browser) applyExpansion(next map[string]bool) {
	b.expanded = next
	b.flattener.SetExpanded(next)
}

// rebuild reflattens and keeps the cursor on the selected node when it is
// still visible.
func (b *Browser) rebuild() {
	b.visible, b.flattenErr = b.flattener.Flatten()
	if b.flattenErr != nil {
		b.visible = nil
		return
	}

	if b.selectedID != "" {
		for i, v := range b.visible {
			if v.ID == b.selectedID {
				b.cursor = i
				b.clampScroll()
				return
			}
		}
	}
	if b.cursor >= len(b.visible) {
		b.cursor = len(b.visible) - 1
	}
	if b.cursor < 0 {
		b.cursor = 0
	}
	if len(b.visible) > 0 {
		b.selectedID = b.visible[b.cursor].ID
	}
	b.clampScroll()
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		b.helpRenderer = nil
		b.clampScroll()
		return b, nil

	case DocumentChangedMsg:
		b.root = msg.Root
		b.flattener.SetData(msg.Root)
		// Carry expansion over; ids are stable across reloads.
		b.rebuild()
		b.statusMsg = "document reloaded"
		return b, nil

	case DocumentErrorMsg:
		b.statusMsg = fmt.Sprintf("reload failed: %v", msg.Err)
		return b, nil

	case tea.KeyMsg:
		if b.searching {
			return b.updateSearch(msg)
		}
		return b.updateKeys(msg)
	}

	return b, nil
}

func (b *Browser) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		b.searching = false
		b.searchInput.Blur()
		b.searchInput.SetValue("")
		b.setSearchTerm("")
		return b, nil
	case "enter":
		b.searching = false
		b.searchInput.Blur()
		return b, nil
	}

	var cmd tea.Cmd
	b.searchInput, cmd = b.searchInput.Update(msg)
	b.setSearchTerm(b.searchInput.Value())
	return b, cmd
}

func (b *Browser) setSearchTerm(term string) {
	if term == b.searchTerm {
		return
	}
	b.searchTerm = term
	b.flattener.SetSearchTerm(term)
	b.cursor = 0
	b.selectedID = ""
	b.rebuild()
}

func (b *Browser) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if b.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			b.showHelp = false
		}
		return b, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		b.persistState()
		return b, tea.Quit

	case "j", "down":
		b.moveCursor(flatten.KeyNext)

	case "k", "up":
		b.moveCursor(flatten.KeyPrev)

	case "g", "home":
		b.cursor = 0
		b.syncSelection()

	case "G", "end":
		if len(b.visible) > 0 {
			b.cursor = len(b.visible) - 1
		}
		b.syncSelection()

	case "enter", " ", "tab":
		b.toggleCurrent()

	case "l", "right":
		b.expandCurrent()

	case "h", "left":
		b.collapseOrParent()

	case "/":
		b.searching = true
		b.searchInput.Focus()
		b.searchInput.SetValue(b.searchTerm)

	case "esc":
		if b.searchTerm != "" {
			b.searchInput.SetValue("")
			b.setSearchTerm("")
		}

	case "y":
		b.copySelection()

	case "e":
		b.exportSnapshot()

	case "?":
		b.showHelp = true
	}

	return b, nil
}

// moveCursor moves selection through the visible list. The navigator
// delivers the new selection via the OnSelect callback.
func (b *Browser) moveCursor(key flatten.Key) {
	target := b.cursor
	switch key {
	case flatten.KeyNext:
		target++
	case flatten.KeyPrev:
		target--
	}
	if target < 0 || target >= len(b.visible) {
		return
	}
	if err := flatten.HandleKey(key, b.cursor, b.visible); err != nil {
		b.statusMsg = err.Error()
		return
	}
	b.cursor = target
	b.clampScroll()
}

func (b *Browser) syncSelection() {
	if b.cursor >= 0 && b.cursor < len(b.visible) {
		b.selectedID = b.visible[b.cursor].ID
	}
	b.clampScroll()
}

func (b *Browser) toggleCurrent() {
	if b.cursor < 0 || b.cursor >= len(b.visible) {
		return
	}
	v := b.visible[b.cursor]
	if !v.HasChildren {
		return
	}
	if err := v.ToggleExpanded(); err != nil {
		b.statusMsg = err.Error()
		return
	}
	b.rebuild()
	b.persistState()
}

func (b *Browser) expandCurrent() {
	if b.cursor < 0 || b.cursor >= len(b.visible) {
		return
	}
	v := b.visible[b.cursor]
	if v.HasChildren && !v.Expanded {
		b.toggleCurrent()
	}
}

// collapseOrParent collapses an expanded node, or jumps to the parent of a
// collapsed or leaf node.
func (b *Browser) collapseOrParent() {
	if b.cursor < 0 || b.cursor >= len(b.visible) {
		return
	}
	v := b.visible[b.cursor]
	if v.HasChildren && v.Expanded {
		b.toggleCurrent()
		return
	}
	for i := b.cursor - 1; i >= 0; i-- {
		if b.visible[i].ID == v.ParentID {
			b.cursor = i
			b.syncSelection()
			return
		}
	}
}

func (b *Browser) copySelection() {
	if b.cursor < 0 || b.cursor >= len(b.visible) {
		return
	}
	id := b.visible[b.cursor].ID
	if err := clipboard.WriteAll(id); err != nil {
		b.statusMsg = fmt.Sprintf("clipboard unavailable: %v", err)
		return
	}
	b.statusMsg = fmt.Sprintf("copied %s to clipboard", id)
}

func (b *Browser) exportSnapshot() {
	err := export.SaveSnapshot(export.SnapshotOptions{
		Path:  b.exportPath,
		Title: b.title,
		Rows:  export.RowsFrom(b.visible),
	})
	if err != nil {
		b.statusMsg = fmt.Sprintf("export failed: %v", err)
		return
	}
	b.statusMsg = fmt.Sprintf("exported %s", b.exportPath)
}

// persistState writes the diff between the current map and the depth
// defaults, mirroring how the map was seeded.
func (b *Browser) persistState() {
	if b.statePath == "" {
		return
	}
	state := DefaultOutlineState()

	var walk func(n *model.Node, depth int)
	walk = func(n *model.Node, depth int) {
		if n == nil {
			return
		}
		if len(n.Children) > 0 {
			defaultExpanded := depth < 1
			if got, ok := b.expanded[n.ID]; ok && got != defaultExpanded {
				state.Expanded[n.ID] = got
			}
		}
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	walk(b.root, 0)

	SaveOutlineState(b.statePath, state)
}

// Selected returns the id of the currently selected row, or "".
func (b *Browser) Selected() string {
	return b.selectedID
}

// Visible returns the current flattened rows. Exposed for tests and export.
func (b *Browser) Visible() []flatten.VisibleNode[*model.Node] {
	return b.visible
}

// viewportHeight returns the number of rows the list area can show.
func (b *Browser) viewportHeight() int {
	// Header, optional search box, status bar.
	reserved := 2
	if b.searching {
		reserved += 3
	}
	h := b.height - reserved
	if h < 1 {
		h = 1
	}
	return h
}

func (b *Browser) clampScroll() {
	h := b.viewportHeight()
	if b.cursor < b.scroll {
		b.scroll = b.cursor
	}
	if b.cursor >= b.scroll+h {
		b.scroll = b.cursor - h + 1
	}
	if b.scroll < 0 {
		b.scroll = 0
	}
}

// View implements tea.Model.
func (b *Browser) View() string {
	if b.showHelp {
		return b.helpView()
	}

	var sb strings.Builder

	title := b.title
	if title == "" {
		title = "treeline"
	}
	header := fmt.Sprintf("%s  %d rows", title, len(b.visible))
	if b.searchTerm != "" && !b.searching {
		header += fmt.Sprintf("  [filter: %s]", b.searchTerm)
	}
	sb.WriteString(b.theme.Header.Render(truncate(header, b.width)))
	sb.WriteByte('\n')

	if b.searching {
		sb.WriteString(b.theme.SearchBox.Render(b.searchInput.View()))
		sb.WriteByte('\n')
	}

	if b.flattenErr != nil {
		sb.WriteString(b.theme.MutedText.Render(fmt.Sprintf("error: %v", b.flattenErr)))
		sb.WriteByte('\n')
	} else if len(b.visible) == 0 {
		sb.WriteString(b.theme.MutedText.Render("no matching nodes"))
		sb.WriteByte('\n')
	} else {
		h := b.viewportHeight()
		end := b.scroll + h
		if end > len(b.visible) {
			end = len(b.visible)
		}
		for i := b.scroll; i < end; i++ {
			sb.WriteString(b.renderRow(i))
			sb.WriteByte('\n')
		}
	}

	status := b.statusMsg
	if status == "" {
		status = "j/k move · enter toggle · / search · y copy · e export · ? help · q quit"
	}
	sb.WriteString(b.theme.StatusBar.Render(truncate(status, b.width)))

	return sb.String()
}

func (b *Browser) renderRow(i int) string {
	v := b.visible[i]

	name := v.ID
	kind := ""
	if v.Node != nil {
		if v.Node.Name != "" {
			name = v.Node.Name
		}
		kind = v.Node.Kind
	}

	var marker string
	var markerStyle = b.theme.MarkerLeaf
	switch {
	case !v.HasChildren:
		marker = "·"
	case v.Expanded:
		marker = "▾"
		markerStyle = b.theme.MarkerOpen
	default:
		marker = "▸"
		markerStyle = b.theme.MarkerOpen
	}

	indent := strings.Repeat("  ", v.Level)
	line := indent + markerStyle.Render(marker) + " "

	nameStyle := b.theme.Base
	if b.searchTerm != "" && strings.Contains(strings.ToLower(name), strings.ToLower(b.searchTerm)) {
		nameStyle = b.theme.MatchText
	}
	line += nameStyle.Render(truncate(name, b.width-len(indent)-10))

	if kind != "" {
		line += " " + b.theme.KindText.Render("("+kind+")")
	}

	if i == b.cursor {
		return b.theme.Selected.Render(line)
	}
	return " " + line
}

func (b *Browser) helpView() string {
	if b.helpRenderer == nil || b.helpRenderer.Width() != b.width-8 {
		b.helpRenderer = NewMarkdownRenderer(b.width - 8)
	}
	content := b.helpRenderer.Render(helpMarkdown)
	return b.theme.Overlay.Render(content)
}
