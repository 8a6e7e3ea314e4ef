// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package timeline

import (
	"fmt"
	"time"
)

// heatDecayDuration is how long a region glows after new live data
// lands. Heat starts at 1.0 and decays linearly to 0.0 over this
// duration.
const heatDecayDuration = 500 * time.Millisecond

// HeatKind distinguishes what kind of live change ignited a key, for
// color selection by the renderer.
type HeatKind int

const (
	// HeatNewStroke marks a newly appended or retitled stroke.
	HeatNewStroke HeatKind = iota
	// HeatNewEvent marks a freshly decoded character event.
	HeatNewEvent
	// HeatNewRun marks a newly accepted connection.
	HeatNewRun
)

// StrokeHeatKey is the Heat key a stroke's live-data ignition is
// recorded and looked up under — shared by the decoder (which ignites
// it as strokes/events are decoded) and the renderer (which reads it
// to flash the affected stroke row).
func StrokeHeatKey(run *Run, index int) string {
	return fmt.Sprintf("stroke:%s:%d", run.ID.String(), index)
}

// RunHeatKey is the Heat key a newly accepted connection is ignited
// under, for flashing its entry in the run picker.
func RunHeatKey(run *Run) string {
	return fmt.Sprintf("run:%s", run.ID.String())
}

type heatEntry struct {
	ignition time.Time
	kind     HeatKind
}

// HeatTracker maps arbitrary string keys (run/stroke identifiers
// chosen by the caller) to ignition timestamps, purely to let the
// renderer flash the region that just received live data. It has no
// bearing on any model invariant.
type HeatTracker struct {
	entries map[string]heatEntry
}

// NewHeatTracker creates an empty heat tracker.
func NewHeatTracker() *HeatTracker {
	return &HeatTracker{entries: make(map[string]heatEntry)}
}

// Ignite records a change event for key. Resets the decay timer if key
// was already hot.
func (t *HeatTracker) Ignite(key string, kind HeatKind, now time.Time) {
	t.entries[key] = heatEntry{ignition: now, kind: kind}
}

// Heat returns the current intensity for key: 1.0 at ignition, linearly
// decaying to 0.0 over heatDecayDuration. Returns 0.0 for keys never
// ignited or fully decayed.
func (t *HeatTracker) Heat(key string, now time.Time) float64 {
	entry, ok := t.entries[key]
	if !ok {
		return 0.0
	}
	elapsed := now.Sub(entry.ignition)
	if elapsed >= heatDecayDuration {
		return 0.0
	}
	return 1.0 - float64(elapsed)/float64(heatDecayDuration)
}

// Kind returns the heat kind for key. Only meaningful when Heat(key)
// returns > 0.
func (t *HeatTracker) Kind(key string) HeatKind {
	entry, ok := t.entries[key]
	if !ok {
		return HeatNewEvent
	}
	return entry.kind
}

// HasHot reports whether any tracked key still has heat > 0, meaning
// the animation tick timer should keep running. Fully decayed entries
// are garbage-collected as a side effect.
func (t *HeatTracker) HasHot(now time.Time) bool {
	hot := false
	for key, entry := range t.entries {
		if now.Sub(entry.ignition) < heatDecayDuration {
			hot = true
			continue
		}
		delete(t.entries, key)
	}
	return hot
}
