// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package exportpdf renders the currently rendered prefix of a
// timeline.Run — the same events the live terminal viewer draws — to
// a PDF document, for sharing or printing outside the viewer. It is
// invoked on demand (a key binding in cmd/netgridviz-viewer), never
// automatically, and has no effect on the live run it exports.
package exportpdf
