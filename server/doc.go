// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements the decoder side of the protocol: it
// accepts at most one client connection at a time, parses the byte
// stream it sends into frames, and applies each frame to a
// timeline.Game. Decoder.Poll is the direct analog of the original
// source's poll_network — call it once per frame from a cooperative
// event loop; it waits at most about a millisecond for I/O.
package server
