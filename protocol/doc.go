// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package protocol defines the wire format shared by the netgridviz
// client emitter and server decoder: a one-byte message tag followed by
// a tag-specific fixed (or, for START_STROKE, length-prefixed) payload.
// There is no outer framing beyond the tag itself — callers peek the
// tag to learn how many bytes the frame needs, the same discipline the
// decoder in package server applies to a growing receive buffer.
//
// All multi-byte integers are little-endian. The protocol is one-way
// (client to server) and assumes a lossless, ordered byte stream — it
// does not defend against reordering or retransmission.
package protocol
