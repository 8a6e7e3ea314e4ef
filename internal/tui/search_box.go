// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SearchBox is a single-line text input rendered as a centered modal
// overlay, used to type a filter query against the current run's
// strokes. It implements only the editing a one-line query needs:
// insert, delete, cursor motion within the line. There is no line
// break and no vertical cursor motion — Enter and Esc are handled by
// the caller before they ever reach Update.
type SearchBox struct {
	// Label names what's being searched, shown in the modal title
	// (e.g. "search strokes").
	Label string

	runes   []rune
	cursorX int
	theme   Theme
}

// NewSearchBox creates an empty, focused SearchBox for the given
// label.
func NewSearchBox(label string, theme Theme) SearchBox {
	return SearchBox{
		Label: label,
		theme: theme,
	}
}

// Value returns the current query text.
func (box SearchBox) Value() string {
	return string(box.runes)
}

// Update processes a key message against the query line.
func (box *SearchBox) Update(message tea.KeyMsg) {
	switch message.Type {
	case tea.KeyRunes, tea.KeySpace:
		for _, character := range message.Runes {
			box.insertRune(character)
		}

	case tea.KeyBackspace:
		if box.cursorX > 0 {
			box.runes = append(box.runes[:box.cursorX-1], box.runes[box.cursorX:]...)
			box.cursorX--
		}

	case tea.KeyDelete:
		if box.cursorX < len(box.runes) {
			box.runes = append(box.runes[:box.cursorX], box.runes[box.cursorX+1:]...)
		}

	case tea.KeyLeft:
		if box.cursorX > 0 {
			box.cursorX--
		}

	case tea.KeyRight:
		if box.cursorX < len(box.runes) {
			box.cursorX++
		}

	case tea.KeyHome, tea.KeyCtrlA:
		box.cursorX = 0

	case tea.KeyEnd, tea.KeyCtrlE:
		box.cursorX = len(box.runes)
	}
}

// insertRune inserts a single rune at the cursor position.
func (box *SearchBox) insertRune(character rune) {
	newRunes := make([]rune, len(box.runes)+1)
	copy(newRunes, box.runes[:box.cursorX])
	newRunes[box.cursorX] = character
	copy(newRunes[box.cursorX+1:], box.runes[box.cursorX:])
	box.runes = newRunes
	box.cursorX++
}

// Modal chrome overhead: 2 columns border + 2 columns padding = 4
// columns horizontal; 2 lines border + 1 title + 1 input + 1 footer =
// 5 lines vertical.
const (
	searchBoxChromeWidth  = 4
	searchBoxChromeHeight = 5
	// Minimum inner width. Below this the query line has no room to
	// show anything useful.
	searchBoxMinInnerWidth = 24
	// Margin between the modal edge and the screen edge, so the user
	// can see the underlying view isn't gone. Collapses to 0 on very
	// small screens.
	searchBoxMargin = 2
)

// Render produces the modal overlay lines for splicing onto the view.
// Returns the rendered lines and the anchor position (top-left corner
// in screen coordinates).
func (box SearchBox) Render(screenWidth, screenHeight int) ([]string, int, int) {
	modalWidth := screenWidth - searchBoxMargin*2
	minWidth := searchBoxMinInnerWidth + searchBoxChromeWidth
	if modalWidth < minWidth {
		modalWidth = minWidth
	}
	if modalWidth > screenWidth {
		modalWidth = screenWidth
	}
	innerWidth := modalWidth - searchBoxChromeWidth

	bgStyle := lipgloss.NewStyle().
		Background(box.theme.TooltipBackground)

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(box.theme.HeaderForeground).
		Background(box.theme.TooltipBackground)

	footerStyle := lipgloss.NewStyle().
		Foreground(box.theme.FaintText).
		Background(box.theme.TooltipBackground)

	cursorStyle := lipgloss.NewStyle().
		Reverse(true)

	textStyle := lipgloss.NewStyle().
		Foreground(box.theme.NormalText).
		Background(box.theme.TooltipBackground)

	title := titleStyle.Render(strings.ToUpper(box.Label[:1]) + box.Label[1:])
	titleWidth := ansi.StringWidth(title)
	if titleWidth < innerWidth {
		title += bgStyle.Render(strings.Repeat(" ", innerWidth-titleWidth))
	}

	footer := footerStyle.Render("Enter jump  Esc cancel")
	footerWidth := ansi.StringWidth(footer)
	if footerWidth < innerWidth {
		footer += bgStyle.Render(strings.Repeat(" ", innerWidth-footerWidth))
	}

	// Build the single query line with cursor.
	var queryLine string
	if box.cursorX >= len(box.runes) {
		queryLine = textStyle.Render(string(box.runes)) + cursorStyle.Render(" ")
	} else {
		before := textStyle.Render(string(box.runes[:box.cursorX]))
		atCursor := cursorStyle.Render(string(box.runes[box.cursorX : box.cursorX+1]))
		after := textStyle.Render(string(box.runes[box.cursorX+1:]))
		queryLine = before + atCursor + after
	}
	queryWidth := ansi.StringWidth(queryLine)
	if queryWidth < innerWidth {
		queryLine += bgStyle.Render(strings.Repeat(" ", innerWidth-queryWidth))
	}

	borderStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		BorderForeground(box.theme.BorderColor).
		Background(box.theme.TooltipBackground)

	inner := title + "\n" + queryLine + "\n" + footer
	rendered := borderStyle.Render(inner)

	resultLines := strings.Split(rendered, "\n")
	renderedWidth := 0
	if len(resultLines) > 0 {
		renderedWidth = ansi.StringWidth(resultLines[0])
	}

	anchorX := (screenWidth - renderedWidth) / 2
	anchorY := (screenHeight - len(resultLines)) / 2
	if anchorX < 0 {
		anchorX = 0
	}
	if anchorY < 0 {
		anchorY = 0
	}

	return resultLines, anchorX, anchorY
}
