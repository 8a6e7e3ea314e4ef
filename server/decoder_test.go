// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"net"
	"testing"
	"time"

	"github.com/netgridviz/netgridviz/client"
	"github.com/netgridviz/netgridviz/lib/clock"
	"github.com/netgridviz/netgridviz/protocol"
	"github.com/netgridviz/netgridviz/timeline"
)

func newTestDecoder(t *testing.T) (*Decoder, *timeline.Game) {
	t.Helper()
	d, err := Listen("127.0.0.1:0", nil, nil)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	game := timeline.NewGame(clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)))
	return d, game
}

// pollUntil calls d.Poll(game) in a tight loop until condition returns
// true or timeout elapses, simulating the cooperative frame loop
// driving the decoder forward.
func pollUntil(t *testing.T, d *Decoder, game *timeline.Game, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		d.Poll(game)
		if condition() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("condition never became true within timeout")
}

func TestDecoder_SoloCharDefaultColors(t *testing.T) {
	d, game := newTestDecoder(t)

	e := client.New(nil)
	if err := e.Connect(d.Addr().Port); err != nil {
		t.Fatalf("client connect: %v", err)
	}
	ctx := e.CreateContext()
	e.DrawChar(ctx, 3, 4, '#')

	pollUntil(t, d, game, func() bool {
		run := game.CurrentRun()
		return run != nil && len(run.Strokes) == 1 && len(run.Strokes[0].Events) == 1
	})

	run := game.CurrentRun()
	if run.Strokes[0].Title != "Stroke 0" {
		t.Fatalf("title = %q, want Stroke 0", run.Strokes[0].Title)
	}
	event := run.Strokes[0].Events[0].CharPoint
	if event.Ch != '#' || event.X != 3 || event.Y != 4 {
		t.Fatalf("event = %+v, want ch=# x=3 y=4", event)
	}
	if event.FG.R != 0 || event.FG.G != 0 || event.FG.B != 0 {
		t.Fatalf("fg = %+v, want (0,0,0)", event.FG)
	}
	if event.BG.R != 255 || event.BG.G != 255 || event.BG.B != 255 {
		t.Fatalf("bg = %+v, want (255,255,255)", event.BG)
	}
	if run.SelectedStroke != 1 {
		t.Fatalf("SelectedStroke = %d, want 1", run.SelectedStroke)
	}

	e.Disconnect()
}

func TestDecoder_NamedStrokeHundredCells(t *testing.T) {
	d, game := newTestDecoder(t)

	e := client.New(nil)
	if err := e.Connect(d.Addr().Port); err != nil {
		t.Fatalf("client connect: %v", err)
	}
	ctx := e.CreateContext()
	e.StartStroke([]byte("Parse"))
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			e.DrawChar(ctx, int64(x), int64(y), 'A')
		}
	}
	e.EndStroke()

	pollUntil(t, d, game, func() bool {
		run := game.CurrentRun()
		return run != nil && len(run.Strokes) == 1 && len(run.Strokes[0].Events) == 100
	})

	run := game.CurrentRun()
	if run.Strokes[0].Title != "Parse" {
		t.Fatalf("title = %q, want Parse", run.Strokes[0].Title)
	}

	e.Disconnect()
}

func TestDecoder_ColorChangeMidStroke(t *testing.T) {
	d, game := newTestDecoder(t)

	e := client.New(nil)
	if err := e.Connect(d.Addr().Port); err != nil {
		t.Fatalf("client connect: %v", err)
	}
	ctx := e.CreateContext()
	e.StartStroke([]byte("S"))
	e.DrawChar(ctx, 0, 0, 'A')
	e.SetFG(ctx, 255, 0, 0)
	e.DrawChar(ctx, 1, 0, 'B')

	pollUntil(t, d, game, func() bool {
		run := game.CurrentRun()
		return run != nil && len(run.Strokes) == 1 && len(run.Strokes[0].Events) == 2
	})

	events := game.CurrentRun().Strokes[0].Events
	a, b := events[0].CharPoint, events[1].CharPoint
	if a.FG.R != 0 {
		t.Fatalf("A.fg = %+v, want (0,0,0)", a.FG)
	}
	if b.FG.R != 255 || b.FG.G != 0 || b.FG.B != 0 {
		t.Fatalf("B.fg = %+v, want (255,0,0)", b.FG)
	}

	e.Disconnect()
}

func TestDecoder_TwoContexts(t *testing.T) {
	d, game := newTestDecoder(t)

	e := client.New(nil)
	if err := e.Connect(d.Addr().Port); err != nil {
		t.Fatalf("client connect: %v", err)
	}
	c1 := e.CreateContext()
	c2 := e.CreateContext()
	e.SetFG(c1, 255, 0, 0)
	e.DrawChar(c1, 0, 0, 'X')
	e.DrawChar(c2, 1, 0, 'Y')

	// Each DrawChar outside a stroke emits its own dummy START_STROKE:
	// the first reuses Stroke 0, the second appends Stroke 1.
	pollUntil(t, d, game, func() bool {
		run := game.CurrentRun()
		return run != nil && len(run.Strokes) == 2 &&
			len(run.Strokes[0].Events) == 1 && len(run.Strokes[1].Events) == 1
	})

	strokes := game.CurrentRun().Strokes
	x, y := strokes[0].Events[0].CharPoint, strokes[1].Events[0].CharPoint
	if x.FG.R != 255 {
		t.Fatalf("X.fg = %+v, want (255,0,0)", x.FG)
	}
	if y.FG.R != 0 {
		t.Fatalf("Y.fg = %+v, want (0,0,0)", y.FG)
	}

	e.Disconnect()
}

func TestDecoder_ReconnectCreatesSecondRun(t *testing.T) {
	d, game := newTestDecoder(t)

	e := client.New(nil)
	if err := e.Connect(d.Addr().Port); err != nil {
		t.Fatalf("client connect: %v", err)
	}
	ctx := e.CreateContext()
	e.DrawChar(ctx, 0, 0, 'A')
	pollUntil(t, d, game, func() bool { return len(game.Runs) == 1 })
	e.Disconnect()
	pollUntil(t, d, game, func() bool { return !d.Connected() })

	if err := e.Connect(d.Addr().Port); err != nil {
		t.Fatalf("client reconnect: %v", err)
	}
	ctx2 := e.CreateContext()
	e.DrawChar(ctx2, 0, 0, 'B')
	pollUntil(t, d, game, func() bool { return len(game.Runs) == 2 })

	if game.SelectedRun != 1 {
		t.Fatalf("SelectedRun = %d, want 1", game.SelectedRun)
	}

	e.Disconnect()
}

func TestDecoder_PartialFrameBoundary(t *testing.T) {
	d, game := newTestDecoder(t)

	conn, err := net.Dial("tcp", d.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	pollUntil(t, d, game, func() bool { return d.Connected() })

	// Deliver a dummy START_STROKE plus only the first 10 of the
	// SEND_CHAR frame's 20 bytes: the parse loop must wait for the rest.
	frame := protocol.EncodeSendChar(1, 7, 8, 'Z')
	if _, err := conn.Write(append(protocol.EncodeStartStroke(nil), frame[:10]...)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	for i := 0; i < 50; i++ {
		d.Poll(game)
		time.Sleep(time.Millisecond)
	}
	if n := len(game.CurrentRun().Strokes[0].Events); n != 0 {
		t.Fatalf("events after half a SEND_CHAR = %d, want 0", n)
	}

	if _, err := conn.Write(frame[10:]); err != nil {
		t.Fatalf("Write: %v", err)
	}
	pollUntil(t, d, game, func() bool {
		return len(game.CurrentRun().Strokes[0].Events) == 1
	})
	for i := 0; i < 10; i++ {
		d.Poll(game)
	}
	if n := len(game.CurrentRun().Strokes[0].Events); n != 1 {
		t.Fatalf("events after the full SEND_CHAR = %d, want exactly 1", n)
	}

	event := game.CurrentRun().Strokes[0].Events[0].CharPoint
	if event.Ch != 'Z' || event.X != 7 || event.Y != 8 {
		t.Fatalf("event = %+v, want ch=Z x=7 y=8", event)
	}
}

func TestDecoder_DrawCharIgnitesStrokeHeatAtReaderKey(t *testing.T) {
	d, game := newTestDecoder(t)

	e := client.New(nil)
	if err := e.Connect(d.Addr().Port); err != nil {
		t.Fatalf("client connect: %v", err)
	}
	ctx := e.CreateContext()
	e.DrawChar(ctx, 0, 0, 'A')

	pollUntil(t, d, game, func() bool {
		run := game.CurrentRun()
		return run != nil && len(run.Strokes[0].Events) == 1
	})

	run := game.CurrentRun()
	key := timeline.StrokeHeatKey(run, 0)
	if heat := game.Heat.Heat(key, time.Now()); heat <= 0 {
		t.Fatalf("Heat(%q) = %v, want > 0 — decoder must ignite the same key the renderer reads", key, heat)
	}

	e.Disconnect()
}

func TestDecoder_NewConnectionIgnitesRunHeatAtReaderKey(t *testing.T) {
	d, game := newTestDecoder(t)

	e := client.New(nil)
	if err := e.Connect(d.Addr().Port); err != nil {
		t.Fatalf("client connect: %v", err)
	}
	pollUntil(t, d, game, func() bool { return len(game.Runs) == 1 })

	// NewRun stamps StartTime and the ignition with the game's (fake)
	// clock, so heat is read at that same instant.
	run := game.CurrentRun()
	key := timeline.RunHeatKey(run)
	if heat := game.Heat.Heat(key, run.StartTime); heat <= 0 {
		t.Fatalf("Heat(%q) = %v, want > 0 — NewRun must ignite the key the run picker reads", key, heat)
	}

	e.Disconnect()
}

func TestDecoder_UnknownTagRecordsProtocolViolation(t *testing.T) {
	d, game := newTestDecoder(t)

	conn, err := net.Dial("tcp", d.Addr().String())
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	pollUntil(t, d, game, func() bool { return d.Connected() })

	if _, err := conn.Write([]byte{0xff}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	pollUntil(t, d, game, func() bool { return d.LastErr() != nil })

	lastErr := d.LastErr()
	if lastErr.Kind != ErrorKindProtocolViolation {
		t.Fatalf("LastErr().Kind = %v, want ErrorKindProtocolViolation", lastErr.Kind)
	}
	if d.Connected() {
		t.Fatalf("Connected() = true, want false after protocol violation")
	}
}
