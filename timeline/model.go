// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/netgridviz/netgridviz/lib/clock"
	"github.com/netgridviz/netgridviz/protocol"
)

// EventKind discriminates the in-memory Event union. There is exactly
// one concrete kind today; the type stays closed (exhaustive switch,
// no open interface) because both sides of the wire share the same
// small fixed set of message kinds.
type EventKind int

const (
	EventKindCharPoint EventKind = iota
)

// CharPoint is a character drawn at an integer grid cell with the
// colors latched from its context at the moment the draw frame was
// accepted by the server — a copy, never an alias to a mutable
// context record.
type CharPoint struct {
	FG, BG protocol.Color
	Ch     byte
	X, Y   int64
}

// Event is one atomic drawing action. Kind selects which field is
// populated; CharPoint is the only kind this spec defines.
type Event struct {
	Kind      EventKind
	CharPoint CharPoint
}

// Stroke is a named undo/redo unit: a contiguous batch of draws.
// Events are stored in emission order and never reordered.
type Stroke struct {
	Title  string
	Events []Event
}

// StrokeRect is a renderer-supplied hit-test rectangle for one stroke
// in the timeline strip, consumed by Run.SelectStrokeAt.
type StrokeRect struct {
	Index       int
	Top, Bottom int
}

// Run is everything produced by one TCP connection: an ordered,
// append-only list of strokes plus the view state the renderer needs
// (pan offset, zoom, font size) and the selected-stroke cursor that
// determines which prefix of strokes is currently rendered.
type Run struct {
	ID         uuid.UUID
	RemoteAddr string
	StartTime  time.Time

	Strokes []*Stroke

	// SelectedStroke is the number of strokes currently applied, in
	// [0, len(Strokes)]. len(Strokes) means "all applied".
	SelectedStroke int

	OffX, OffY int64
	ZoomLevel  float32
	FontSize   int
}

// Game owns the ordered list of Runs across the viewer's lifetime and
// the cursor selecting which one is current.
type Game struct {
	CreatedAt time.Time
	Runs      []*Run

	// SelectedRun is in [0, len(Runs)]; len(Runs) means "no run
	// selected".
	SelectedRun int

	Heat *HeatTracker

	clock clock.Clock
}

// NewGame creates an empty Game. clk is injected so CreatedAt and
// every Run's StartTime are deterministically testable; production
// callers pass clock.Real().
func NewGame(clk clock.Clock) *Game {
	return &Game{
		CreatedAt:   clk.Now(),
		SelectedRun: 0,
		Heat:        NewHeatTracker(),
		clock:       clk,
	}
}

// NewRun creates a new Run for a freshly accepted connection: a
// pre-populated Stroke 0 with SelectedStroke = 1, appended to the
// game's run list, with SelectedRun advanced to the new run per the
// Game invariant that a new run always becomes current.
func (g *Game) NewRun(remoteAddr string) *Run {
	run := &Run{
		ID:             uuid.New(),
		RemoteAddr:     remoteAddr,
		StartTime:      g.clock.Now(),
		Strokes:        []*Stroke{{Title: "Stroke 0"}},
		SelectedStroke: 1,
		ZoomLevel:      1.0,
		FontSize:       14,
	}
	g.Runs = append(g.Runs, run)
	g.SelectedRun = len(g.Runs) - 1
	g.Heat.Ignite(RunHeatKey(run), HeatNewRun, g.clock.Now())
	return run
}

// CurrentRun returns the currently selected run, or nil if
// SelectedRun == len(Runs) ("no run selected").
func (g *Game) CurrentRun() *Run {
	if g.SelectedRun < 0 || g.SelectedRun >= len(g.Runs) {
		return nil
	}
	return g.Runs[g.SelectedRun]
}

// StartStroke begins a new stroke on r. If reuseFirst is true (the
// decoder's reuse_first_stroke handshake, valid only for the first
// START_STROKE frame of a connection), the pre-created Stroke 0 is
// retitled in place instead of a new stroke being appended. An empty
// titleBytes synthesizes "Stroke N" where N is the stroke's index in
// the run.
//
// Live-tail rule: if, before this call, SelectedStroke equaled
// len(Strokes) (i.e. "all applied", the viewer caught up to the
// stream), it is set to the new len(Strokes) so the new stroke is
// applied too and the viewer keeps following the stream instead of
// falling one stroke behind.
func (r *Run) StartStroke(titleBytes []byte, reuseFirst bool) *Stroke {
	if reuseFirst && len(r.Strokes) > 0 {
		index := len(r.Strokes) - 1
		wasCaughtUp := r.SelectedStroke == index+1
		stroke := r.Strokes[index]
		stroke.Title = strokeTitle(titleBytes, index)
		if wasCaughtUp {
			r.SelectedStroke = len(r.Strokes)
		}
		return stroke
	}

	oldLen := len(r.Strokes)
	wasCaughtUp := r.SelectedStroke == oldLen
	stroke := &Stroke{Title: strokeTitle(titleBytes, oldLen)}
	r.Strokes = append(r.Strokes, stroke)
	if wasCaughtUp {
		r.SelectedStroke = len(r.Strokes)
	}
	return stroke
}

func strokeTitle(titleBytes []byte, index int) string {
	if len(titleBytes) == 0 {
		return fmt.Sprintf("Stroke %d", index)
	}
	return string(titleBytes)
}

// AddCharPoint appends a CharPoint event to the last stroke of r. fg
// and bg are copied by value, matching invariant 4: an event's colors
// are frozen at acceptance time, never aliased to a mutable context.
func (r *Run) AddCharPoint(fg, bg protocol.Color, ch byte, x, y int64) {
	if len(r.Strokes) == 0 {
		r.Strokes = append(r.Strokes, &Stroke{Title: "Stroke 0"})
	}
	last := r.Strokes[len(r.Strokes)-1]
	last.Events = append(last.Events, Event{
		Kind:      EventKindCharPoint,
		CharPoint: CharPoint{FG: fg, BG: bg, Ch: ch, X: x, Y: y},
	})
}

// VisibleEvents returns every event from strokes [0, min(SelectedStroke,
// len(Strokes))), in order — the prefix the renderer is contracted to
// draw.
func (r *Run) VisibleEvents() []Event {
	limit := r.SelectedStroke
	if limit > len(r.Strokes) {
		limit = len(r.Strokes)
	}
	var events []Event
	for _, stroke := range r.Strokes[:limit] {
		events = append(events, stroke.Events...)
	}
	return events
}
