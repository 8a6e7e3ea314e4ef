// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"sort"

	"github.com/netgridviz/netgridviz/protocol"
)

// Context is the server-side style register: fg/bg colors addressed
// by the 16-bit id a client chose. Lazily created with the spec's
// defaults the first time an id is referenced.
type Context struct {
	ID     uint16
	FG, BG protocol.Color
}

func defaultContext(id uint16) *Context {
	return &Context{
		ID: id,
		FG: protocol.Color{R: 0, G: 0, B: 0},
		BG: protocol.Color{R: 255, G: 255, B: 255},
	}
}

// ContextTable is a slice of contexts sorted by ID, probed by binary
// search. This is a deliberate choice over a 64 Ki-entry array indexed
// directly by id: it stays cheap even when a client picks an
// adversarial id like 65535.
type ContextTable struct {
	contexts []*Context
}

// NewContextTable returns an empty table.
func NewContextTable() *ContextTable {
	return &ContextTable{}
}

// Get returns the context for id, creating it with default colors and
// inserting it at the correct sorted position if it does not already
// exist.
func (t *ContextTable) Get(id uint16) *Context {
	i := sort.Search(len(t.contexts), func(i int) bool {
		return t.contexts[i].ID >= id
	})
	if i < len(t.contexts) && t.contexts[i].ID == id {
		return t.contexts[i]
	}
	ctx := defaultContext(id)
	t.contexts = append(t.contexts, nil)
	copy(t.contexts[i+1:], t.contexts[i:])
	t.contexts[i] = ctx
	return ctx
}

// Len reports how many distinct context ids have been referenced.
func (t *ContextTable) Len() int {
	return len(t.contexts)
}

// Reset clears every entry, as happens when a new connection is
// accepted (contexts belong to the connection's lifetime, not the
// run's).
func (t *ContextTable) Reset() {
	t.contexts = nil
}
