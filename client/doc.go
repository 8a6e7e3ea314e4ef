// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package client is the emitter linked into user programs: it owns one
// TCP connection to a netgridviz viewer, a monotonically increasing
// context-id counter, and the current-stroke flag, and serializes draw
// calls into frames defined by package protocol.
//
// The public surface mirrors spec.md's language-neutral API exactly:
// Connect, Disconnect, CreateContext, MakeContext, SetFG, SetBG,
// StartStroke, EndStroke, DrawChar, DrawString, DrawFmt. Every call is a
// silent no-op once the connection is lost, until Connect succeeds
// again — there are no panics and no returned errors from the drawing
// calls themselves, only from Connect.
//
// An Emitter is an opaque handle rather than raw package-level globals
// (spec.md §9 explicitly allows this), but [Default] keeps available the
// "connect once, share" call shape the spec describes for programs that
// want a single process-wide emitter.
package client
