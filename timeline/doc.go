// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package timeline holds the in-memory replay model the server decoder
// writes into and the renderer reads from: a Game owns an ordered list
// of Runs (one per client connection), each Run owns an ordered list
// of Strokes (undo/redo units), each Stroke owns an ordered list of
// Events (character placements).
//
// Nothing in this package touches the network or the wire format — it
// is pure, deterministic state plus the cursor-mutation rules that
// back the key/mouse bindings described for the rendering layer.
package timeline
