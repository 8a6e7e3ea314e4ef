// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/netgridviz/netgridviz/client"
	"github.com/netgridviz/netgridviz/internal/tui"
	clockpkg "github.com/netgridviz/netgridviz/lib/clock"
	"github.com/netgridviz/netgridviz/server"
	"github.com/netgridviz/netgridviz/timeline"
)

func newTestModel(t *testing.T) (Model, *server.Decoder) {
	t.Helper()
	d, err := server.Listen("127.0.0.1:0", nil, nil)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	game := timeline.NewGame(clockpkg.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	m := NewModel(d, game, clockpkg.Real(), DefaultKeyMap, tui.DefaultTheme)
	return m, d
}

func sendWindowSize(t *testing.T, m Model, w, h int) Model {
	t.Helper()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: w, Height: h})
	return updated.(Model)
}

func TestModel_View_WithoutConnectionShowsWaitingPanel(t *testing.T) {
	m, _ := newTestModel(t)
	m = sendWindowSize(t, m, 80, 24)

	view := m.View()
	if !strings.Contains(view, "WAITING FOR CONNECTION") {
		t.Errorf("View() = %q, want the waiting panel", view)
	}
}

func TestModel_View_BeforeWindowSizeIsEmpty(t *testing.T) {
	m, _ := newTestModel(t)
	if view := m.View(); view != "" {
		t.Errorf("View() before WindowSizeMsg = %q, want empty", view)
	}
}

func TestModel_PollMsg_AdvancesGameWhenClientConnects(t *testing.T) {
	m, d := newTestModel(t)
	m = sendWindowSize(t, m, 80, 24)

	e := client.New(nil)
	if err := e.Connect(d.Addr().Port); err != nil {
		t.Fatalf("client connect: %v", err)
	}
	ctx := e.CreateContext()
	e.DrawChar(ctx, 1, 1, 'Z')

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		updated, _ := m.Update(pollMsg{})
		m = updated.(Model)
		if m.game.CurrentRun() != nil && len(m.game.CurrentRun().Strokes) == 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	run := m.game.CurrentRun()
	if run == nil {
		t.Fatal("expected a run to be created after polling")
	}
	if len(run.Strokes) != 1 || len(run.Strokes[0].Events) != 1 {
		t.Fatalf("run = %+v, want one stroke with one event", run)
	}

	view := m.View()
	if strings.Contains(view, "WAITING FOR CONNECTION") {
		t.Error("expected the waiting panel to disappear once a client connects")
	}
}

func TestModel_DotTick_CyclesThroughOneToThreeDots(t *testing.T) {
	m, _ := newTestModel(t)

	seen := map[int]bool{}
	for i := 0; i < 6; i++ {
		updated, _ := m.Update(dotTickMsg{})
		m = updated.(Model)
		seen[m.dotCount] = true
	}

	for _, want := range []int{1, 2, 3} {
		if !seen[want] {
			t.Errorf("dotCount never reached %d across ticks: %v", want, seen)
		}
	}
}

func TestModel_ArrowKeys_MutateRunCursor(t *testing.T) {
	m, _ := newTestModel(t)
	run := m.game.NewRun("127.0.0.1:9")
	run.Strokes = append(run.Strokes, &timeline.Stroke{Title: "Stroke 1"})
	run.SelectedStroke = len(run.Strokes)

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = updated.(Model)
	if run.SelectedStroke != len(run.Strokes)-1 {
		t.Errorf("after Up, SelectedStroke = %d, want %d", run.SelectedStroke, len(run.Strokes)-1)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = updated.(Model)
	if run.SelectedStroke != len(run.Strokes) {
		t.Errorf("after Down, SelectedStroke = %d, want %d", run.SelectedStroke, len(run.Strokes))
	}
}

func TestModel_ResetOffsetKey(t *testing.T) {
	m, _ := newTestModel(t)
	run := m.game.NewRun("127.0.0.1:9")
	run.OffX, run.OffY = 500, 500

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("0")})
	m = updated.(Model)

	if run.OffX != 10 || run.OffY != 10 {
		t.Errorf("OffX,OffY = %d,%d, want 10,10 after reset", run.OffX, run.OffY)
	}
}

func TestModel_QuitKey_ReturnsQuitCmd(t *testing.T) {
	m, _ := newTestModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a non-nil tea.Cmd for the quit key")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("cmd() = %v, want tea.QuitMsg", msg)
	}
}

func TestModel_MouseWheel_ZoomsRun(t *testing.T) {
	m, _ := newTestModel(t)
	m = sendWindowSize(t, m, 80, 24)
	run := m.game.NewRun("127.0.0.1:9")
	before := run.ZoomLevel

	updated, _ := m.Update(tea.MouseMsg{
		X: 10, Y: 5,
		Button: tea.MouseButtonWheelUp,
		Action: tea.MouseActionPress,
	})
	m = updated.(Model)

	if run.ZoomLevel <= before {
		t.Errorf("ZoomLevel = %v, want greater than %v after wheel-up", run.ZoomLevel, before)
	}
}

func TestModel_LeftDrag_PansRun(t *testing.T) {
	m, _ := newTestModel(t)
	m = sendWindowSize(t, m, 80, 24)
	run := m.game.NewRun("127.0.0.1:9")
	run.ResetOffset()
	startX, startY := run.OffX, run.OffY

	updated, _ := m.Update(tea.MouseMsg{X: 5, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	m = updated.(Model)
	updated, _ = m.Update(tea.MouseMsg{X: 8, Y: 9, Button: tea.MouseButtonLeft, Action: tea.MouseActionMotion})
	m = updated.(Model)
	updated, _ = m.Update(tea.MouseMsg{X: 8, Y: 9, Button: tea.MouseButtonLeft, Action: tea.MouseActionRelease})
	m = updated.(Model)

	if run.OffX == startX && run.OffY == startY {
		t.Error("expected a left-drag to pan the run's offset")
	}
	if m.dragging {
		t.Error("expected dragging to end on MouseActionRelease")
	}
}

func TestModel_SearchMode_FiltersStrokeTitles(t *testing.T) {
	m, _ := newTestModel(t)
	run := m.game.NewRun("127.0.0.1:9")
	run.Strokes = []*timeline.Stroke{
		{Title: "Stroke 0"},
		{Title: "background fill"},
		{Title: "grid lines"},
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = updated.(Model)
	if m.focus != focusSearch {
		t.Fatal("expected / to enter search focus")
	}

	for _, r := range "grid" {
		updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}

	if len(m.searchHits) != 1 || m.searchHits[0] != 2 {
		t.Errorf("searchHits = %v, want [2] (grid lines)", m.searchHits)
	}

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.focus != focusTimeline {
		t.Error("expected Enter to return focus to the timeline")
	}
	if run.SelectedStroke != 3 {
		t.Errorf("SelectedStroke = %d, want 3 after jumping to the hit", run.SelectedStroke)
	}
}
