// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/netgridviz/netgridviz/internal/tui"
	"github.com/netgridviz/netgridviz/protocol"
	"github.com/netgridviz/netgridviz/server"
	"github.com/netgridviz/netgridviz/timeline"
)

// pollInterval is how often Model asks the Decoder for new frames. 60
// times a second keeps the viewer responsive to a client drawing at
// interactive rates without busy-looping between polls.
const pollInterval = time.Second / 60

// dotCycleInterval is the "WAITING FOR CONNECTION..." indicator's
// per-dot animation step, spec'd at 667 ms.
const dotCycleInterval = 667 * time.Millisecond

// sidebarWidth is the number of columns reserved on the right for the
// run's stroke list: one row per stroke, selected with Up/Down or a
// click, matching timeline.Run.SelectStrokeAt's row-rect contract.
const sidebarWidth = 24

// statusBarHeight is the one row reserved at the bottom for the
// connection/run summary line.
const statusBarHeight = 1

// exportRequest is returned to the caller of Model.TakeExportRequest
// when the user has asked to export the current run to PDF. The
// actual PDF generation is outside the bubbletea loop's concern.
type exportRequest struct {
	run *timeline.Run
}

type pollMsg struct{}

type dotTickMsg struct{}

type heatTickMsg struct{}

func schedulePoll() tea.Cmd {
	return tea.Tick(pollInterval, func(time.Time) tea.Msg { return pollMsg{} })
}

func scheduleDotTick() tea.Cmd {
	return tea.Tick(dotCycleInterval, func(time.Time) tea.Msg { return dotTickMsg{} })
}

func scheduleHeatTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return heatTickMsg{} })
}

// focusRegion identifies what keyboard input currently routes to.
type focusRegion int

const (
	focusTimeline focusRegion = iota
	focusSearch
	focusRunPicker
)

// Model is the bubbletea program for the netgridviz viewer: it polls
// a server.Decoder into a timeline.Game every frame and renders the
// selected run's visible prefix through a Terminal.
type Model struct {
	decoder *server.Decoder
	game    *timeline.Game
	term    *Terminal
	keys    KeyMap
	theme   tui.Theme
	clk     clock

	width, height int
	ready         bool

	dotCount int

	focus      focusRegion
	search     tui.SearchBox
	searchHits []int // indices into the current run's Strokes

	runPicker *tui.DropdownOverlay

	pendingExport *exportRequest

	dragging             bool
	lastDragX, lastDragY int

	showHelp bool
}

// clock is the narrow subset of lib/clock.Clock the model needs for
// Now(); it avoids importing the full interface just to stamp
// animation timestamps.
type clock interface {
	Now() time.Time
}

// NewModel builds a Model ready for tea.NewProgram. game and decoder
// are expected to already be wired together (the caller's main loop
// owns their lifetimes); clk drives the heat-decay animation and is
// normally clock.Real(). The terminal grid starts at the controlling
// terminal's actual size (DetectWindowSize) and falls back to 80x24
// when stdout isn't a terminal; either way bubbletea's first
// tea.WindowSizeMsg resizes it to the true value.
func NewModel(decoder *server.Decoder, game *timeline.Game, clk clock, keys KeyMap, theme tui.Theme) Model {
	width, height := 80, 24
	if w, h, ok := DetectWindowSize(); ok {
		width, height = w, h
	}
	return Model{
		decoder: decoder,
		game:    game,
		term:    NewTerminal(width, height),
		keys:    keys,
		theme:   theme,
		clk:     clk,
		focus:   focusTimeline,
	}
}

// TakeExportRequest returns and clears a pending PDF export request,
// or nil if none is pending. The caller's main loop polls this once
// per iteration after program.Run returns, or via a side channel if
// export is wired to run while the TUI is still active.
func (m *Model) TakeExportRequest() *timeline.Run {
	if m.pendingExport == nil {
		return nil
	}
	run := m.pendingExport.run
	m.pendingExport = nil
	return run
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(schedulePoll(), scheduleDotTick(), scheduleHeatTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		canvasWidth := msg.Width - sidebarWidth
		if canvasWidth < 0 {
			canvasWidth = 0
		}
		m.term.Resize(canvasWidth, msg.Height-statusBarHeight)

	case pollMsg:
		m.decoder.Poll(m.game)
		return m, schedulePoll()

	case dotTickMsg:
		m.dotCount = m.dotCount%3 + 1
		return m, scheduleDotTick()

	case heatTickMsg:
		return m, scheduleHeatTick()

	case tea.KeyMsg:
		switch m.focus {
		case focusSearch:
			return m.handleSearchKeys(msg)
		case focusRunPicker:
			return m.handleRunPickerKeys(msg)
		default:
			return m.handleTimelineKeys(msg)
		}

	case tea.MouseMsg:
		return m.handleMouse(msg)
	}

	return m, nil
}

func (m Model) handleTimelineKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	run := m.game.CurrentRun()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if run != nil {
			run.MoveUp()
		}

	case key.Matches(msg, m.keys.Down):
		if run != nil {
			run.MoveDown()
		}

	case key.Matches(msg, m.keys.Left):
		m.game.MoveLeft()

	case key.Matches(msg, m.keys.Right):
		m.game.MoveRight()

	case key.Matches(msg, m.keys.ResetOffset):
		if run != nil {
			run.ResetOffset()
		}

	case key.Matches(msg, m.keys.Search):
		m.focus = focusSearch
		m.search = tui.NewSearchBox("search strokes", m.theme)

	case key.Matches(msg, m.keys.RunPicker):
		if len(m.game.Runs) > 0 {
			m.focus = focusRunPicker
			m.runPicker = newRunPicker(m.game, m.clk.Now())
		}

	case key.Matches(msg, m.keys.ExportPDF):
		if run != nil {
			m.pendingExport = &exportRequest{run: run}
		}

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
	}

	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.focus = focusTimeline
		m.searchHits = nil
		return m, nil
	case tea.KeyEnter:
		m.jumpToFirstHit()
		m.focus = focusTimeline
		return m, nil
	}

	m.search.Update(msg)
	m.recomputeSearchHits()
	return m, nil
}

func (m Model) handleRunPickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.runPicker == nil {
		m.focus = focusTimeline
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		m.runPicker = nil
		m.focus = focusTimeline
	case tea.KeyUp:
		m.runPicker.MoveUp()
	case tea.KeyDown:
		m.runPicker.MoveDown()
	case tea.KeyEnter:
		selected := m.runPicker.Selected()
		for index, run := range m.game.Runs {
			if run.ID.String() == selected.Value {
				m.game.SelectedRun = index
				break
			}
		}
		m.runPicker = nil
		m.focus = focusTimeline
	}

	return m, nil
}

// canvasWidth reports the plane region's current column count: the
// screen width minus the stroke sidebar.
func (m Model) canvasWidth() int {
	w := m.width - sidebarWidth
	if w < 0 {
		return 0
	}
	return w
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	run := m.game.CurrentRun()
	if run == nil {
		return m, nil
	}

	inSidebar := msg.X >= m.canvasWidth()

	if m.dragging {
		if msg.Action == tea.MouseActionRelease {
			m.dragging = false
			return m, nil
		}
		if msg.Action == tea.MouseActionMotion {
			run.Pan(int64(m.lastDragX-msg.X), int64(m.lastDragY-msg.Y))
			m.lastDragX, m.lastDragY = msg.X, msg.Y
		}
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if !inSidebar {
			run.Zoom(1, float64(msg.X), float64(msg.Y))
		}
	case tea.MouseButtonWheelDown:
		if !inSidebar {
			run.Zoom(-1, float64(msg.X), float64(msg.Y))
		}
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if inSidebar {
			run.SelectStrokeAt(strokeRects(run), msg.Y)
			return m, nil
		}
		m.dragging = true
		m.lastDragX, m.lastDragY = msg.X, msg.Y
	}

	return m, nil
}

// recomputeSearchHits runs a simple case-insensitive substring match
// of the search box contents against the current run's stroke
// titles. A prefix-match-first ordering keeps the most relevant hits
// near the front without pulling in a fuzzy-matching dependency for
// what is fundamentally a short, human-curated list of titles per run.
func (m *Model) recomputeSearchHits() {
	run := m.game.CurrentRun()
	if run == nil {
		m.searchHits = nil
		return
	}
	query := strings.ToLower(strings.TrimSpace(m.search.Value()))
	if query == "" {
		m.searchHits = nil
		return
	}

	var prefixHits, substringHits []int
	for index, stroke := range run.Strokes {
		title := strings.ToLower(stroke.Title)
		switch {
		case strings.HasPrefix(title, query):
			prefixHits = append(prefixHits, index)
		case strings.Contains(title, query):
			substringHits = append(substringHits, index)
		}
	}
	m.searchHits = append(prefixHits, substringHits...)
}

func (m *Model) jumpToFirstHit() {
	if len(m.searchHits) == 0 {
		return
	}
	run := m.game.CurrentRun()
	if run == nil {
		return
	}
	run.SelectedStroke = m.searchHits[0] + 1
}

func (m Model) View() string {
	if !m.ready {
		return ""
	}

	run := m.game.CurrentRun()
	if run == nil || !m.decoder.Connected() {
		return m.viewWaiting()
	}

	m.drawRun(run)
	view := m.viewWithSidebar(run)

	if m.focus == focusSearch {
		lines, x, y := m.search.Render(m.width, m.height)
		view = tui.SpliceOverlay(view, lines, x, y)
	}
	if m.focus == focusRunPicker && m.runPicker != nil {
		view = tui.SpliceOverlay(view, m.runPicker.Render(m.theme), m.runPicker.AnchorX, m.runPicker.AnchorY)
	}

	return view
}

// drawRun paints the run's visible prefix of events into the
// terminal grid, applying pan offset and leaving zoom/font size as
// hints for a renderer that can rasterize at non-unit scale (Terminal
// cannot, so it treats ZoomLevel as a no-op beyond the offset math
// cursor.go already applied).
func (m Model) drawRun(run *timeline.Run) {
	w, h := m.term.WindowSize()
	m.term.FillRect(0, 0, w, h, protocol.Color{R: 0, G: 0, B: 0})

	now := m.clk.Now()
	for _, event := range run.VisibleEvents() {
		p := event.CharPoint
		px := int(p.X - run.OffX)
		py := int(p.Y - run.OffY)
		fg, bg := p.FG, p.BG
		m.term.DrawCell(px, py, fg, bg, rune(p.Ch))
	}

	_ = now // reserved for a future hot-cell highlight pass
}

func (m Model) viewWaiting() string {
	dots := strings.Repeat(".", m.dotCount)
	label := fmt.Sprintf("WAITING FOR CONNECTION%s", dots)

	style := lipgloss.NewStyle().
		Foreground(m.theme.ConnectionStatusColor("waiting")).
		Bold(true)

	panel := style.Render(label)
	if m.width == 0 || m.height == 0 {
		return panel
	}

	padTop := m.height/2 - 1
	if padTop < 0 {
		padTop = 0
	}
	left := (m.width - len(label)) / 2
	if left < 0 {
		left = 0
	}
	return strings.Repeat("\n", padTop) + strings.Repeat(" ", left) + panel
}

// viewWithSidebar joins the canvas and the stroke sidebar side by
// side, row for row, then appends the status bar.
func (m Model) viewWithSidebar(run *timeline.Run) string {
	canvasLines := strings.Split(m.term.View(), "\n")
	sidebarLines := m.strokeLines(run)

	rows := len(canvasLines)
	if len(sidebarLines) > rows {
		rows = len(sidebarLines)
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		if row < len(canvasLines) {
			b.WriteString(canvasLines[row])
		}
		if row < len(sidebarLines) {
			b.WriteString(sidebarLines[row])
		}
		b.WriteByte('\n')
	}

	connLine := fmt.Sprintf("run %d/%d  remote=%s  strokes=%d",
		m.game.SelectedRun+1, len(m.game.Runs), run.RemoteAddr, len(run.Strokes))
	b.WriteString(lipgloss.NewStyle().Foreground(m.theme.HelpText).Render(connLine))

	if m.showHelp {
		b.WriteByte('\n')
		b.WriteString(lipgloss.NewStyle().Foreground(m.theme.HelpText).Render(m.helpLine()))
	}

	return b.String()
}

func (m Model) helpLine() string {
	bindings := []key.Binding{
		m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right,
		m.keys.ResetOffset, m.keys.Search, m.keys.RunPicker,
		m.keys.ExportPDF, m.keys.Help, m.keys.Quit,
	}
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = b.Help().Key + " " + b.Help().Desc
	}
	return strings.Join(parts, "   ")
}

// strokeLines renders one line per stroke for the sidebar, the
// applied prefix in one style and the rest faint, with heat and
// search-match accents layered on top.
func (m Model) strokeLines(run *timeline.Run) []string {
	lines := make([]string, 0, len(run.Strokes))
	now := m.clk.Now()

	for index, stroke := range run.Strokes {
		title := stroke.Title
		if len(title) > sidebarWidth-1 {
			title = title[:sidebarWidth-1]
		}

		style := lipgloss.NewStyle().Width(sidebarWidth).Foreground(m.theme.NormalText)
		applied := index < run.SelectedStroke
		if applied {
			style = style.Foreground(m.theme.HeaderForeground)
		} else {
			style = style.Foreground(m.theme.FaintText)
		}
		if heat := m.game.Heat.Heat(timeline.StrokeHeatKey(run, index), now); heat > 0 {
			style = style.Background(m.theme.HotAccentEvent)
		}
		for _, hit := range m.searchHits {
			if hit == index {
				style = style.Background(m.theme.SearchHighlightBackground)
				break
			}
		}

		lines = append(lines, style.Render(title))
	}

	return lines
}

// newRunPicker builds a dropdown listing every run in the game, newest
// first, anchored near the top-left of the screen. A run ignited
// within the last heatDecayDuration (i.e. just accepted) is flagged
// Hot so Render flashes its row.
func newRunPicker(game *timeline.Game, now time.Time) *tui.DropdownOverlay {
	options := make([]tui.DropdownOption, len(game.Runs))
	for i := range game.Runs {
		index := len(game.Runs) - 1 - i
		run := game.Runs[index]
		label := fmt.Sprintf("run %d  %s  %s", index+1, run.RemoteAddr, run.StartTime.Format("15:04:05"))
		hot := game.Heat.Heat(timeline.RunHeatKey(run), now) > 0
		options[i] = tui.DropdownOption{Label: label, Value: run.ID.String(), Hot: hot}
	}
	return &tui.DropdownOverlay{
		Options: options,
		AnchorX: 2,
		AnchorY: 1,
		Purpose: "run",
	}
}

// strokeRects builds the row-per-stroke hit-test rectangles
// Run.SelectStrokeAt expects, matching the sidebar's one-line-per-
// stroke layout: row N in the sidebar is stroke N.
func strokeRects(run *timeline.Run) []timeline.StrokeRect {
	rects := make([]timeline.StrokeRect, len(run.Strokes))
	for index := range run.Strokes {
		rects[index] = timeline.StrokeRect{Index: index, Top: index, Bottom: index}
	}
	return rects
}
