package tui

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/x/ansi"
	"github.com/evanschultz/shuttle/internal/board"
	"github.com/evanschultz/shuttle/internal/domain"
	"github.com/evanschultz/shuttle/internal/surface"
)

// screen rows reserved around the board: one title row, then status and help rows.
const (
	headerRows = 1
	footerRows = 2
	wheelStep  = 2
)

// classListTitle marks the title row inside each list mount.
const classListTitle = "list-title"

// mountInsets reserve the list border plus one padding column.
var mountInsets = surface.Insets{Top: 1, Right: 2, Bottom: 1, Left: 2}

var (
	accentColor  = lipgloss.Color("62")
	popoverColor = lipgloss.Color("212")
	mutedColor   = lipgloss.Color("241")
	dimColor     = lipgloss.Color("239")
	faintColor   = lipgloss.Color("236")
	textColor    = lipgloss.Color("252")
)

// workspace is the widget state shared by every copy of a Model.
type workspace struct {
	doc     *surface.Document
	pointer *surface.Pointer
	app     *board.App
	headers map[domain.ListName]*surface.Element
	moves   []board.MoveEvent
}

// Model hosts the board document inside a Bubble Tea program.
type Model struct {
	ws *workspace
	md *markdownRenderer

	keys keyMap
	help help.Model

	width  int
	height int
	ready  bool

	focusList int
	focusCard int
	status    string

	title           string
	showCounts      bool
	devMode         bool
	popoverOffsetX  int
	popoverInsetY   int
	onMove          func(board.MoveEvent)
	copyToClipboard func(string) error
}

// NewModel builds the host document, mounts both lists and renders the records.
func NewModel(records []*domain.Project, opts ...Option) Model {
	h := help.New()
	h.ShowAll = false
	m := Model{
		md:              &markdownRenderer{},
		keys:            newKeyMap(),
		help:            h,
		status:          "ready",
		title:           "Projects",
		showCounts:      true,
		popoverOffsetX:  board.DefaultPopoverOffsetX,
		popoverInsetY:   board.DefaultPopoverInsetY,
		copyToClipboard: clipboard.WriteAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&m)
		}
	}

	ws := &workspace{
		doc:     surface.NewDocument(0, 0),
		headers: map[domain.ListName]*surface.Element{},
	}
	ws.pointer = surface.NewPointer(ws.doc)
	for _, name := range domain.ListNames() {
		mount := ws.doc.Mount(name.MountID(), surface.Rect{})
		mount.Insets = mountInsets
		header := ws.doc.CreateElement("h3")
		header.AddClass(classListTitle)
		mount.Append(header)
		ws.headers[name] = header
	}
	onMove := m.onMove
	ws.app = board.New(ws.doc,
		board.WithPopoverOffset(m.popoverOffsetX, m.popoverInsetY),
		board.WithInfoRenderer(m.md.render),
		board.WithMoveObserver(func(ev board.MoveEvent) {
			ws.moves = append(ws.moves, ev)
			if onMove != nil {
				onMove(ev)
			}
		}),
	)
	ws.app.Load(records)
	ws.app.Init()

	m.ws = ws
	m.syncHeaders()
	return m
}

// Init starts the program without commands.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update routes terminal input into the document.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.width = msg.Width
		m.height = msg.Height
		m.help.SetWidth(max(0, m.width-2))
		m.layout()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.MouseClickMsg:
		if msg.Button != tea.MouseLeft {
			return m, nil
		}
		m.focusAt(msg.X, msg.Y)
		m.ws.pointer.Press(msg.X, msg.Y)
		m.afterAction()
		return m, nil

	case tea.MouseMotionMsg:
		m.ws.pointer.Move(msg.X, msg.Y)
		return m, nil

	case tea.MouseReleaseMsg:
		m.ws.pointer.Release(msg.X, msg.Y)
		m.afterAction()
		return m, nil

	case tea.MouseWheelMsg:
		return m.handleMouseWheel(msg)

	default:
		return m, nil
	}
}

// handleKey applies one key binding.
func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.closePopovers):
		if m.help.ShowAll {
			m.help.ShowAll = false
			return m, nil
		}
		m.ws.pointer.Cancel()
		closed := m.ws.app.ClosePopovers()
		m.status = fmt.Sprintf("closed %d info popovers", closed)
	case key.Matches(msg, m.keys.listLeft):
		m.focusList--
		m.clampFocus()
		m.revealFocus()
	case key.Matches(msg, m.keys.listRight):
		m.focusList++
		m.clampFocus()
		m.revealFocus()
	case key.Matches(msg, m.keys.cardUp):
		m.focusCard--
		m.clampFocus()
		m.revealFocus()
	case key.Matches(msg, m.keys.cardDown):
		m.focusCard++
		m.clampFocus()
		m.revealFocus()
	case key.Matches(msg, m.keys.info):
		card := m.focusedCard()
		if card == nil {
			m.status = "no card selected"
			return m, nil
		}
		card.InfoButton().Click()
		m.status = "info " + card.Project().ID
	case key.Matches(msg, m.keys.move):
		card := m.focusedCard()
		if card == nil {
			m.status = "no card selected"
			return m, nil
		}
		card.MoveButton().Click()
	case key.Matches(msg, m.keys.copyID):
		card := m.focusedCard()
		if card == nil {
			m.status = "no card selected"
			return m, nil
		}
		id := card.Project().ID
		if err := m.copyToClipboard(id); err != nil {
			m.status = "copy failed: " + err.Error()
			return m, nil
		}
		m.status = "copied " + id
	default:
		return m, nil
	}
	m.afterAction()
	return m, nil
}

// handleMouseWheel scrolls the list under the pointer.
func (m Model) handleMouseWheel(msg tea.MouseWheelMsg) (tea.Model, tea.Cmd) {
	delta := 0
	switch msg.Button {
	case tea.MouseWheelUp:
		delta = -wheelStep
	case tea.MouseWheelDown:
		delta = wheelStep
	default:
		return m, nil
	}
	for e := m.ws.doc.HitTest(msg.X, msg.Y); e != nil; e = e.Parent() {
		if e.Scrollable {
			e.ScrollBy(delta)
			break
		}
	}
	return m, nil
}

// layout sizes the document and both list mounts to the terminal.
func (m *Model) layout() {
	doc := m.ws.doc
	doc.Resize(m.width, m.height)
	boardHeight := max(0, m.height-headerRows-footerRows)
	split := m.width / 2
	bounds := []surface.Rect{
		{X: 0, Y: headerRows, W: split, H: boardHeight},
		{X: split, Y: headerRows, W: m.width - split, H: boardHeight},
	}
	listHeight := max(0, boardHeight-mountInsets.Top-mountInsets.Bottom-1)
	for i, name := range domain.ListNames() {
		doc.Mount(name.MountID(), bounds[i])
		if list := m.ws.app.List(name); list != nil && list.Container() != nil {
			list.Container().SetSize(0, listHeight)
		}
	}
}

// afterAction folds completed moves into status and focus, then refreshes headers.
func (m *Model) afterAction() {
	if n := len(m.ws.moves); n > 0 {
		last := m.ws.moves[n-1]
		m.ws.moves = nil
		m.status = fmt.Sprintf("moved %s to %s", last.ProjectID, last.To)
		m.focusRecord(last.ProjectID)
	}
	m.syncHeaders()
	m.clampFocus()
}

// syncHeaders rewrites the list title rows.
func (m *Model) syncHeaders() {
	for name, header := range m.ws.headers {
		label := listLabel(name)
		if list := m.ws.app.List(name); list != nil && m.showCounts {
			label = fmt.Sprintf("%s (%d)", label, len(list.Members()))
		}
		header.SetText(label)
	}
}

// focusAt moves keyboard focus to the card under x/y, if any.
func (m *Model) focusAt(x, y int) {
	for e := m.ws.doc.HitTest(x, y); e != nil; e = e.Parent() {
		if e.HasClass(board.ClassCard) && !e.HasClass(board.ClassPopover) {
			m.focusRecord(e.ID())
			return
		}
	}
}

// focusRecord focuses the card of the record with id.
func (m *Model) focusRecord(id string) {
	for li, list := range m.ws.app.Lists() {
		for ci, p := range list.Members() {
			if p.ID == id {
				m.focusList = li
				m.focusCard = ci
				return
			}
		}
	}
}

// clampFocus keeps focus indexes inside the current lists.
func (m *Model) clampFocus() {
	lists := m.ws.app.Lists()
	if len(lists) == 0 {
		m.focusList, m.focusCard = 0, 0
		return
	}
	m.focusList = clamp(m.focusList, 0, len(lists)-1)
	m.focusCard = clamp(m.focusCard, 0, max(0, len(lists[m.focusList].Members())-1))
}

// revealFocus scrolls the focused card into view.
func (m *Model) revealFocus() {
	if card := m.focusedCard(); card != nil {
		card.Element().ScrollIntoView()
	}
}

// focusedCard returns the card view under keyboard focus.
func (m Model) focusedCard() *board.CardView {
	lists := m.ws.app.Lists()
	if len(lists) == 0 {
		return nil
	}
	members := lists[clamp(m.focusList, 0, len(lists)-1)].Members()
	if len(members) == 0 {
		return nil
	}
	return m.ws.app.Card(members[clamp(m.focusCard, 0, len(members)-1)].ID)
}

// View renders the board.
func (m Model) View() tea.View {
	v := tea.NewView(m.render())
	v.MouseMode = tea.MouseModeCellMotion
	v.AltScreen = true
	return v
}

// render paints the document onto a canvas with the title, status and help rows.
func (m Model) render() string {
	if !m.ready || m.width <= 0 || m.height <= 0 {
		return "loading..."
	}

	layers := make([]*lipgloss.Layer, 0, 32)
	compose := func(content string, x, y int) {
		layers = append(layers, lipgloss.NewLayer(content).X(x).Y(y).Z(len(layers)+1))
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(textColor)
	compose(titleStyle.Render(truncate(m.title, m.width)), 0, 0)

	var focused *surface.Element
	if card := m.focusedCard(); card != nil {
		focused = card.Element()
	}
	dragged := m.ws.pointer.DragSource()
	m.ws.doc.Visit(func(e *surface.Element, box, clip surface.Rect) {
		block := paintElement(e, box, focused, dragged)
		if block == "" {
			return
		}
		if content, x, y, ok := crop(block, box, clip); ok {
			compose(content, x, y)
		}
	})

	statusStyle := lipgloss.NewStyle().Foreground(dimColor)
	compose(statusStyle.Render(truncate(m.statusText(), m.width)), 0, max(0, m.height-2))

	helpBubble := m.help
	helpBubble.ShowAll = false
	helpStyle := lipgloss.NewStyle().Foreground(mutedColor)
	compose(helpStyle.Render(truncate(helpBubble.View(m.keys), m.width)), 0, max(0, m.height-1))

	if m.help.ShowAll {
		overlay := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1).
			Render(m.help.View(m.keys))
		compose(lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, overlay), 0, 0)
	}

	// Layers are flattened once so each keeps its own offset and stacking order.
	canvas := lipgloss.NewCanvas(m.width, m.height)
	canvas.Compose(lipgloss.NewCompositor(layers...))
	return canvas.Render()
}

// statusText returns the status row with drag and dev-mode details.
func (m Model) statusText() string {
	status := m.status
	if source := m.ws.pointer.DragSource(); source != nil {
		status = "dragging " + source.ID()
	}
	if m.devMode {
		if err := m.ws.app.CheckConsistency(); err != nil {
			status += " · " + err.Error()
		} else {
			status += " · consistent"
		}
	}
	return status
}

// paintElement renders one element's own box, without its children.
func paintElement(e *surface.Element, box surface.Rect, focused, dragged *surface.Element) string {
	faded := dragged != nil && dragged.Contains(e)
	switch {
	case e.Tag() == "section":
		c := dimColor
		if e.HasClass(board.ClassDroppable) {
			c = accentColor
		}
		return frame(box.W, box.H, c)
	case e.HasClass(board.ClassPopover):
		return frame(box.W, box.H, popoverColor)
	case e.HasClass(board.ClassCard):
		c := dimColor
		switch {
		case faded:
			c = faintColor
		case e == focused:
			c = accentColor
		}
		return frame(box.W, box.H, c)
	case e.Tag() == "button":
		style := lipgloss.NewStyle().Foreground(accentColor)
		if e.HasClass(board.ClassAlt) {
			style = lipgloss.NewStyle().Foreground(mutedColor)
		}
		if faded {
			style = lipgloss.NewStyle().Foreground(faintColor)
		}
		return style.Render(ansi.Truncate("["+e.Text()+"]", box.W, ""))
	case e.Text() != "" && len(e.Children()) == 0:
		style := textStyle(e)
		if faded {
			style = lipgloss.NewStyle().Foreground(faintColor)
		}
		lines := e.Lines()
		for i, line := range lines {
			lines[i] = style.Render(line)
		}
		return strings.Join(lines, "\n")
	default:
		return ""
	}
}

// textStyle picks a style by element role.
func textStyle(e *surface.Element) lipgloss.Style {
	switch {
	case e.HasClass(classListTitle):
		return lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	case e.Tag() == "h2", e.Tag() == "h3":
		return lipgloss.NewStyle().Bold(true).Foreground(textColor)
	default:
		return lipgloss.NewStyle().Foreground(mutedColor)
	}
}

// frame draws a rounded border box of w x h with a blank interior.
func frame(w, h int, c color.Color) string {
	if w < 2 || h < 2 {
		return ""
	}
	b := lipgloss.RoundedBorder()
	style := lipgloss.NewStyle().Foreground(c)
	lines := make([]string, 0, h)
	lines = append(lines, style.Render(b.TopLeft+strings.Repeat(b.Top, w-2)+b.TopRight))
	middle := style.Render(b.Left) + strings.Repeat(" ", w-2) + style.Render(b.Right)
	for range h - 2 {
		lines = append(lines, middle)
	}
	lines = append(lines, style.Render(b.BottomLeft+strings.Repeat(b.Bottom, w-2)+b.BottomRight))
	return strings.Join(lines, "\n")
}

// crop cuts a rendered block at box down to the visible part inside clip.
func crop(block string, box, clip surface.Rect) (string, int, int, bool) {
	visible := box.Intersect(clip)
	if visible.Empty() {
		return "", 0, 0, false
	}
	lines := strings.Split(block, "\n")
	top := visible.Y - box.Y
	left := visible.X - box.X
	out := make([]string, 0, visible.H)
	for i := top; i < top+visible.H && i < len(lines); i++ {
		out = append(out, ansi.Cut(lines[i], left, left+visible.W))
	}
	if len(out) == 0 {
		return "", 0, 0, false
	}
	return strings.Join(out, "\n"), visible.X, visible.Y, true
}

// listLabel returns the display title for a list.
func listLabel(name domain.ListName) string {
	s := name.String()
	if s == "" {
		return "Projects"
	}
	return strings.ToUpper(s[:1]) + s[1:] + " Projects"
}

// truncate cuts s to width cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
