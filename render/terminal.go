// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/netgridviz/netgridviz/protocol"
)

// Terminal is a Renderer backed by an in-memory cell grid. There is no
// font rasterization or pixel blitting — a terminal cell is the unit
// of both addressing and display, so DrawCell's (px, py) are treated
// as (column, row) directly. View renders the current grid to a
// lipgloss/ANSI string for a bubbletea program's View method.
type Terminal struct {
	width, height int
	grid          [][]cell

	// renderer is pinned to the detected color profile so every
	// styled run degrades to what the terminal can actually display
	// instead of emitting truecolor escapes a 16-color terminal can't
	// interpret.
	renderer *lipgloss.Renderer

	clipX, clipY, clipW, clipH int
	clipping                   bool
}

type cell struct {
	ch     rune
	fg, bg protocol.Color
	set    bool
}

// NewTerminal creates a Terminal sized to width x height cells, with
// its color output pinned to the terminal's detected color profile.
func NewTerminal(width, height int) *Terminal {
	t := &Terminal{renderer: newTerminalRenderer()}
	t.Resize(width, height)
	return t
}

// newTerminalRenderer detects the terminal's color profile (TrueColor,
// ANSI256, ANSI, or Ascii) via termenv and builds a lipgloss.Renderer
// pinned to it. SetColorProfile is required because
// lipgloss.Renderer.ColorProfile otherwise re-detects from the
// environment on first render rather than trusting the profile we
// just measured.
func newTerminalRenderer() *lipgloss.Renderer {
	profile := termenv.ColorProfile()
	renderer := lipgloss.NewRenderer(os.Stdout, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	return renderer
}

// DetectWindowSize reports the controlling terminal's size in cells,
// via golang.org/x/term, for sizing the grid before bubbletea's first
// WindowSizeMsg arrives. Returns ok == false when stdout isn't a
// terminal (piped output, tests), in which case the caller should fall
// back to a fixed default.
func DetectWindowSize() (width, height int, ok bool) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}

// Resize changes the grid dimensions, discarding prior contents — the
// renderer always redraws the full visible prefix every frame, so
// there is nothing worth preserving across a resize.
func (t *Terminal) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	t.width, t.height = width, height
	t.grid = make([][]cell, height)
	for row := range t.grid {
		t.grid[row] = make([]cell, width)
	}
}

// WindowSize reports the grid dimensions in cells.
func (t *Terminal) WindowSize() (w, h int) {
	return t.width, t.height
}

// SetClip restricts DrawCell/FillRect to the given rectangle. Passing
// w == 0 || h == 0 clears clipping.
func (t *Terminal) SetClip(x, y, w, h int) {
	if w == 0 || h == 0 {
		t.clipping = false
		return
	}
	t.clipX, t.clipY, t.clipW, t.clipH = x, y, w, h
	t.clipping = true
}

func (t *Terminal) inClip(x, y int) bool {
	if !t.clipping {
		return true
	}
	return x >= t.clipX && x < t.clipX+t.clipW && y >= t.clipY && y < t.clipY+t.clipH
}

// DrawCell writes one code point with its colors into the grid at
// (px, py), treated as (column, row). Out-of-bounds or clipped
// coordinates are silently ignored.
func (t *Terminal) DrawCell(px, py int, fg, bg protocol.Color, codePoint rune) {
	if py < 0 || py >= t.height || px < 0 || px >= t.width {
		return
	}
	if !t.inClip(px, py) {
		return
	}
	t.grid[py][px] = cell{ch: codePoint, fg: fg, bg: bg, set: true}
}

// FillRect fills a rectangle of cells with a solid color, leaving
// their glyphs as spaces.
func (t *Terminal) FillRect(px, py, w, h int, color protocol.Color) {
	for y := py; y < py+h; y++ {
		for x := px; x < px+w; x++ {
			t.DrawCell(x, y, color, color, ' ')
		}
	}
}

// Present is a no-op for Terminal: there is no double-buffering to
// flip, since View reads the grid directly each time bubbletea asks
// for a frame.
func (t *Terminal) Present() {}

// View renders the current grid as a single ANSI string, one line per
// row, batching consecutive cells that share the same colors into a
// single lipgloss-styled run to keep escape sequence counts down.
func (t *Terminal) View() string {
	var lines strings.Builder
	for row := range t.grid {
		t.renderRow(&lines, t.grid[row])
		if row < len(t.grid)-1 {
			lines.WriteByte('\n')
		}
	}
	return lines.String()
}

func (t *Terminal) renderRow(out *strings.Builder, row []cell) {
	if len(row) == 0 {
		return
	}
	runStart := 0
	for i := 1; i <= len(row); i++ {
		if i < len(row) && sameStyle(row[i], row[runStart]) {
			continue
		}
		out.WriteString(t.styledRun(row[runStart:i]))
		runStart = i
	}
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg
}

func (t *Terminal) styledRun(cells []cell) string {
	text := make([]rune, len(cells))
	for i, c := range cells {
		if c.set {
			text[i] = c.ch
		} else {
			text[i] = ' '
		}
	}
	style := t.renderer.NewStyle().
		Foreground(rgbColor(cells[0].fg)).
		Background(rgbColor(cells[0].bg))
	return style.Render(string(text))
}

func rgbColor(c protocol.Color) lipgloss.Color {
	const hexDigits = "0123456789abcdef"
	buf := [7]byte{'#'}
	put := func(offset int, v byte) {
		buf[offset] = hexDigits[v>>4]
		buf[offset+1] = hexDigits[v&0x0f]
	}
	put(1, c.R)
	put(3, c.G)
	put(5, c.B)
	return lipgloss.Color(string(buf[:]))
}
