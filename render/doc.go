// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package render defines the Renderer contract the timeline model is
// drawn through and ships the one renderer this repository provides:
// a terminal implementation built on bubbletea, lipgloss, and
// charmbracelet/x/ansi.
package render
