// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package render

import "github.com/netgridviz/netgridviz/protocol"

// Renderer is the opaque collaborator the core model is drawn
// through. Windowing, font rasterization, glyph caching, and pixel
// blitting are all out of scope for this repository's core (see
// spec.md's out-of-scope list) — Renderer describes only the contract
// a frame loop needs: draw one cell, fill a rect, clip, and present.
//
// Terminal is the only implementation this repository ships; a pixel
// renderer (SDL, a GPU canvas) is a valid alternative implementation
// that never needs to change anything else in this module.
type Renderer interface {
	// DrawCell draws one code point with the given colors at pixel
	// coordinates (px, py). Implementations snap to their own cell
	// grid as appropriate (a terminal renderer ignores sub-cell pixel
	// offsets; a pixel renderer would not).
	DrawCell(px, py int, fg, bg protocol.Color, codePoint rune)

	// FillRect fills a pixel rectangle with a solid color.
	FillRect(px, py, w, h int, color protocol.Color)

	// SetClip restricts subsequent DrawCell/FillRect calls to the
	// given pixel rectangle. An empty rect (w == 0 || h == 0) clears
	// clipping.
	SetClip(x, y, w, h int)

	// Present flushes the current frame to the display.
	Present()

	// WindowSize reports the current drawable area in pixels.
	WindowSize() (w, h int)
}
