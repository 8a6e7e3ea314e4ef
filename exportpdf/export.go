// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package exportpdf

import (
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/netgridviz/netgridviz/protocol"
	"github.com/netgridviz/netgridviz/timeline"
)

// Cell dimensions in millimeters. Courier at 8pt is roughly twice as
// tall as it is wide, which cellHeight/cellWidth approximates.
const (
	cellWidth  = 2.2
	cellHeight = 4.0
)

// ExportRun writes run's currently visible prefix (timeline.Run.VisibleEvents,
// the same events the live terminal renderer draws) to a landscape PDF
// document at path, one page, character cells laid out on the same
// integer grid the protocol's SEND_CHAR frames use.
func ExportRun(path string, run *timeline.Run) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Courier", "", 8)

	for _, event := range run.VisibleEvents() {
		if event.Kind != timeline.EventKindCharPoint {
			continue
		}
		drawCell(pdf, event.CharPoint)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("exportpdf: writing %s: %w", path, err)
	}
	return nil
}

func drawCell(pdf *gofpdf.Fpdf, cp timeline.CharPoint) {
	x := float64(cp.X) * cellWidth
	y := float64(cp.Y) * cellHeight

	if cp.BG != (protocol.Color{}) {
		pdf.SetFillColor(int(cp.BG.R), int(cp.BG.G), int(cp.BG.B))
		pdf.Rect(x, y, cellWidth, cellHeight, "F")
	}

	if cp.Ch == 0 || cp.Ch == ' ' {
		return
	}
	pdf.SetTextColor(int(cp.FG.R), int(cp.FG.G), int(cp.FG.B))
	pdf.Text(x, y+cellHeight*0.8, string(rune(cp.Ch)))
}
