// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for the viewer's terminal UI. All
// colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility; render/terminal.go degrades further via termenv on
// 16-color terminals.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Selected row/stroke.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Connection status indicator colors.
	StatusConnected    lipgloss.Color
	StatusWaiting      lipgloss.Color
	StatusDisconnected lipgloss.Color

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Animation accents for timeline.HeatTracker: HotAccentEvent for
	// newly decoded events/strokes, HotAccentRun for a newly accepted
	// connection.
	HotAccentEvent lipgloss.Color
	HotAccentRun   lipgloss.Color

	// Search/filter match highlighting (used with the substring stroke
	// title search, internal/tui.SearchBox).
	SearchHighlightBackground lipgloss.Color

	// Floating panels: dropdowns, the stroke-search modal, the
	// "WAITING FOR CONNECTION..." overlay.
	TooltipForeground lipgloss.Color
	TooltipBackground lipgloss.Color
}

// ConnectionStatusColor maps a human-readable connection state to its
// theme color. Unrecognized states fall back to FaintText.
func (theme Theme) ConnectionStatusColor(status string) lipgloss.Color {
	switch status {
	case "connected":
		return theme.StatusConnected
	case "waiting":
		return theme.StatusWaiting
	case "disconnected":
		return theme.StatusDisconnected
	default:
		return theme.FaintText
	}
}

// DefaultTheme is the built-in dark-terminal color scheme, carried
// over from the teacher's shared TUI theme values.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	StatusConnected:    lipgloss.Color("114"), // green
	StatusWaiting:      lipgloss.Color("220"), // amber
	StatusDisconnected: lipgloss.Color("196"), // red

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	HotAccentEvent: lipgloss.Color("58"),
	HotAccentRun:   lipgloss.Color("100"),

	SearchHighlightBackground: lipgloss.Color("58"),

	TooltipForeground: lipgloss.Color("252"),
	TooltipBackground: lipgloss.Color("237"),
}
