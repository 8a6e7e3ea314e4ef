// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time-reading abstraction for
// testability.
//
// Production code accepts a Clock interface parameter instead of
// calling time.Now directly. In production, Real() returns the
// standard library's wall clock. In tests, Fake() returns a
// deterministic clock that only moves when Advance is called.
//
// # Wiring Pattern
//
// Add a Clock field to structs that stamp timestamps:
//
//	type Game struct {
//	    clock clock.Clock
//	    // ...
//	}
//
// In production:
//
//	g := &Game{clock: clock.Real()}
//
// In tests:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	g := &Game{clock: c}
//	c.Advance(5 * time.Second)
//
// netgridviz only ever reads the clock (Now) to stamp run start times
// and heat-tracker ignitions — it has no deadline, timer, or ticker
// scheduling that needs to run deterministically under test, so the
// interface stops at Now rather than also abstracting time.After,
// time.NewTicker, time.AfterFunc, and time.Sleep the way a
// longer-running daemon process would need to.
package clock
