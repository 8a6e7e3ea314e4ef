// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package render

import "github.com/charmbracelet/bubbles/key"

// KeyMap binds the cursor/view operations spec.md §4.4 describes to
// concrete keys, following the same key.Binding-per-action shape the
// teacher's shared TUI keymaps use.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	ResetOffset key.Binding
	Search      key.Binding
	RunPicker   key.Binding
	ExportPDF   key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap is the binding set the viewer starts with.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "select earlier stroke"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "select later stroke"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous run"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next run"),
	),
	ResetOffset: key.NewBinding(
		key.WithKeys("0"),
		key.WithHelp("0", "reset pan"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search strokes"),
	),
	RunPicker: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "pick run"),
	),
	ExportPDF: key.NewBinding(
		key.WithKeys("ctrl+e"),
		key.WithHelp("ctrl+e", "export PDF"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
