// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import "math"

// resetOffset is the pan origin the "0" key restores, verbatim from
// the original source.
const resetOffset = 10

// zoomStepFactor is the per-notch scale applied by Run.Zoom.
const zoomStepFactor = 1.25

// baseFontSize is the font size at zoom == 1.0.
const baseFontSize = 14

// MoveUp implements the Up key contract: if SelectedStroke is at or
// past the end, align it onto the last stroke first; then, in all
// cases, decrement once more if still positive. The two-step shape is
// preserved exactly as specified rather than collapsed into a single
// decrement, since the first Up press after "all applied" is meant to
// move two positions in one call.
func (r *Run) MoveUp() {
	if r.SelectedStroke >= len(r.Strokes) && len(r.Strokes) > 0 {
		r.SelectedStroke--
	}
	if r.SelectedStroke > 0 {
		r.SelectedStroke--
	}
}

// MoveDown implements the Down key contract: advance the cursor by one
// stroke, capped at len(Strokes).
func (r *Run) MoveDown() {
	if r.SelectedStroke < len(r.Strokes) {
		r.SelectedStroke++
	}
}

// MoveLeft selects the previous run, capped at 0.
func (g *Game) MoveLeft() {
	if g.SelectedRun > 0 {
		g.SelectedRun--
	}
}

// MoveRight selects the next run, capped at len(Runs) ("no run
// selected").
func (g *Game) MoveRight() {
	if g.SelectedRun < len(g.Runs) {
		g.SelectedRun++
	}
}

// ResetOffset restores the run's pan origin to (10, 10), the "0" key
// binding.
func (r *Run) ResetOffset() {
	r.OffX = resetOffset
	r.OffY = resetOffset
}

// Zoom scales the run's zoom level by zoomStepFactor^notches (notches
// is typically ±1 per wheel click, but accepts any signed count for a
// fast scroll), rescaling the pan offset so the world point under
// (cursorX, cursorY) stays fixed on screen (to within half a cell, as
// the offsets are rounded to whole numbers), and recomputing FontSize =
// floor(14 * zoom).
func (r *Run) Zoom(notches int, cursorX, cursorY float64) {
	if notches == 0 {
		return
	}
	oldZoom := float64(r.ZoomLevel)
	if oldZoom <= 0 {
		oldZoom = 1.0
	}
	newZoom := oldZoom * math.Pow(zoomStepFactor, float64(notches))

	worldX := (cursorX - float64(r.OffX)) / oldZoom
	worldY := (cursorY - float64(r.OffY)) / oldZoom

	r.OffX = int64(math.Round(cursorX - worldX*newZoom))
	r.OffY = int64(math.Round(cursorY - worldY*newZoom))
	r.ZoomLevel = float32(newZoom)
	r.FontSize = int(math.Floor(baseFontSize * newZoom))
}

// Pan shifts the run's pan offset by (dx, dy), the left-drag binding.
func (r *Run) Pan(dx, dy int64) {
	r.OffX += dx
	r.OffY += dy
}

// SelectStrokeAt implements the timeline-click binding: select the
// stroke whose rect contains y. A click above the first rect or below
// the last extends the selection to 0 or len(Strokes) respectively.
// rects need not be sorted by Index, but are assumed sorted by screen
// position (rects[0] is topmost).
func (r *Run) SelectStrokeAt(rects []StrokeRect, y int) {
	if len(rects) == 0 {
		return
	}
	if y < rects[0].Top {
		r.SelectedStroke = 0
		return
	}
	last := rects[len(rects)-1]
	if y > last.Bottom {
		r.SelectedStroke = len(r.Strokes)
		return
	}
	for _, rect := range rects {
		if y >= rect.Top && y <= rect.Bottom {
			r.SelectedStroke = rect.Index
			return
		}
	}
}
