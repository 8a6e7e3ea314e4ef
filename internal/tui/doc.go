// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal UI components for the
// netgridviz viewer's bubbletea program: a theme, a search/filter
// input modal, a dropdown overlay for picking a run, a scrollbar, and
// ANSI-aware overlay splicing for floating panels like the "WAITING
// FOR CONNECTION..." indicator.
package tui
