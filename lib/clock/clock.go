// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts time.Now for testability. Production code injects
// Real(); tests inject Fake() with a fixed, advanceable time.
//
// Every production function that stamps a timestamp (run start times,
// heat-tracker ignitions) takes a Clock parameter, or is a method on a
// struct with a Clock field, instead of calling time.Now directly.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
