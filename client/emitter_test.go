// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"
)

// listenLoopback starts a TCP listener on an ephemeral loopback port
// and returns the port plus a channel that receives everything the
// first accepted connection sends, in order, until it closes.
func listenLoopback(t *testing.T) (port int, received <-chan []byte) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	out := make(chan []byte, 1)
	go func() {
		conn, err := listener.Accept()
		if err != nil {
			out <- nil
			return
		}
		defer conn.Close()
		data, _ := io.ReadAll(conn)
		out <- data
	}()

	return listener.Addr().(*net.TCPAddr).Port, out
}

func recvAll(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for server to observe connection close")
		return nil
	}
}

func TestEmitter_SoloCharDefaultColors(t *testing.T) {
	port, received := listenLoopback(t)

	e := New(nil)
	if err := e.Connect(port); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	ctx := e.CreateContext()
	if ctx.ID != 1 {
		t.Fatalf("first context id = %d, want 1", ctx.ID)
	}
	e.DrawChar(ctx, 3, 4, '#')
	e.Disconnect()

	got := recvAll(t, received)
	want := append(
		[]byte{0x03, 0x00, 0x00, 0x00, 0x00}, // dummy START_STROKE
		[]byte{
			0x04, 0x01, 0x00,
			0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
			0x23,
		}...,
	)
	if !bytes.Equal(got, want) {
		t.Fatalf("wire bytes = % x, want % x", got, want)
	}
}

func TestEmitter_NamedStrokeHundredCells(t *testing.T) {
	port, received := listenLoopback(t)

	e := New(nil)
	if err := e.Connect(port); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	ctx := e.CreateContext()

	e.StartStroke([]byte("Parse"))
	count := 0
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			e.DrawChar(ctx, int64(x), int64(y), 'A')
			count++
		}
	}
	e.EndStroke()
	e.Disconnect()

	got := recvAll(t, received)

	headerLen := 5 + len("Parse")
	if len(got) < headerLen {
		t.Fatalf("too short: %d bytes", len(got))
	}
	if got[0] != 0x03 {
		t.Fatalf("expected START_STROKE tag first")
	}
	remaining := got[headerLen:]
	if len(remaining)%20 != 0 {
		t.Fatalf("remaining bytes %d not a multiple of SEND_CHAR length", len(remaining))
	}
	if len(remaining)/20 != count {
		t.Fatalf("got %d SEND_CHAR frames, want %d", len(remaining)/20, count)
	}
}

func TestEmitter_ColorChangeMidStroke(t *testing.T) {
	port, received := listenLoopback(t)

	e := New(nil)
	if err := e.Connect(port); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	ctx := e.CreateContext()

	e.StartStroke([]byte("S"))
	e.DrawChar(ctx, 0, 0, 'A')
	e.SetFG(ctx, 255, 0, 0)
	e.DrawChar(ctx, 1, 0, 'B')
	e.Disconnect()

	got := recvAll(t, received)

	// START_STROKE("S") + SEND_CHAR(A) + SET_FG + SEND_CHAR(B)
	wantLen := (5 + 1) + 20 + 6 + 20
	if len(got) != wantLen {
		t.Fatalf("len(got) = %d, want %d", len(got), wantLen)
	}
}

func TestEmitter_TwoContexts(t *testing.T) {
	port, received := listenLoopback(t)

	e := New(nil)
	if err := e.Connect(port); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	c1 := e.CreateContext()
	c2 := e.CreateContext()
	if c1.ID != 1 || c2.ID != 2 {
		t.Fatalf("context ids = %d, %d, want 1, 2", c1.ID, c2.ID)
	}

	e.SetFG(c1, 255, 0, 0)
	e.DrawChar(c1, 0, 0, 'X')
	e.DrawChar(c2, 1, 0, 'Y')
	e.Disconnect()

	_ = recvAll(t, received)
}

func TestEmitter_DrawString_NoXAdvance(t *testing.T) {
	port, received := listenLoopback(t)

	e := New(nil)
	if err := e.Connect(port); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	ctx := e.CreateContext()

	e.DrawString(ctx, 7, 9, "hi")
	e.Disconnect()

	got := recvAll(t, received)
	// One dummy START_STROKE, then two SEND_CHAR frames both at (7, 9).
	if got[0] != 0x03 {
		t.Fatalf("expected dummy START_STROKE first")
	}
	frames := got[5:]
	if len(frames) != 40 {
		t.Fatalf("expected two SEND_CHAR frames, got %d bytes", len(frames))
	}
	_, x0, y0, ch0 := decodeSendCharForTest(frames[0:20])
	_, x1, y1, ch1 := decodeSendCharForTest(frames[20:40])
	if x0 != 7 || y0 != 9 || ch0 != 'h' {
		t.Fatalf("first char wrong: x=%d y=%d ch=%c", x0, y0, ch0)
	}
	if x1 != 7 || y1 != 9 || ch1 != 'i' {
		t.Fatalf("second char wrong (x should not have advanced): x=%d y=%d ch=%c", x1, y1, ch1)
	}
}

func TestEmitter_EndStrokeTwiceEqualsOnce(t *testing.T) {
	e := New(nil)
	e.hasStroke = true
	e.EndStroke()
	e.EndStroke()
	if e.hasStroke {
		t.Fatalf("hasStroke should be false")
	}
}

func TestEmitter_NoOpWhenDisconnected(t *testing.T) {
	e := New(nil)
	ctx := e.CreateContext()
	// None of these should panic even though nothing is connected.
	e.SetFG(ctx, 1, 2, 3)
	e.StartStroke([]byte("x"))
	e.DrawChar(ctx, 0, 0, 'A')
	e.DrawString(ctx, 0, 0, "abc")
	e.Disconnect()
}

func TestEmitter_ConnectFailure(t *testing.T) {
	// Nothing is listening on an ephemeral port we pick and
	// immediately close, so the loopback connect is refused.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	e := New(nil)
	err = e.Connect(port)
	if err == nil {
		t.Fatalf("expected connect failure against a closed port")
	}
	var clientErr *Error
	if !asError(err, &clientErr) {
		t.Fatalf("error is not *client.Error: %v", err)
	}
	if clientErr.Kind != ErrorKindConnectFailure {
		t.Fatalf("kind = %v, want ErrorKindConnectFailure", clientErr.Kind)
	}
}

func TestEmitter_PartialSendClosesSocket(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	accepted := make(chan struct{})
	go func() {
		conn, err := listener.Accept()
		if err == nil {
			conn.Close() // drop the peer immediately, before any reply
		}
		close(accepted)
	}()

	e := New(nil)
	if err := e.Connect(listener.Addr().(*net.TCPAddr).Port); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	<-accepted

	ctx := e.CreateContext()
	// The peer is gone; repeated writes eventually see the broken pipe
	// or reset, and the very first one that does must close the
	// emitter's socket rather than retrying or ignoring it.
	deadline := time.Now().Add(2 * time.Second)
	for e.Connected() && time.Now().Before(deadline) {
		e.DrawChar(ctx, 0, 0, 'A')
	}

	if e.Connected() {
		t.Fatalf("Connected() = true, want false after peer closed the connection")
	}
	lastErr := e.LastErr()
	if lastErr == nil {
		t.Fatalf("LastErr() = nil, want a recorded ErrorKindConnectionLost")
	}
	if lastErr.Kind != ErrorKindConnectionLost {
		t.Fatalf("LastErr().Kind = %v, want ErrorKindConnectionLost", lastErr.Kind)
	}
}

func asError(err error, target **Error) bool {
	ce, ok := err.(*Error)
	if !ok {
		return false
	}
	*target = ce
	return true
}

func decodeSendCharForTest(frame []byte) (id uint16, x, y int64, ch byte) {
	id = uint16(frame[1]) | uint16(frame[2])<<8
	x = int64(
		uint64(frame[3]) | uint64(frame[4])<<8 | uint64(frame[5])<<16 | uint64(frame[6])<<24 |
			uint64(frame[7])<<32 | uint64(frame[8])<<40 | uint64(frame[9])<<48 | uint64(frame[10])<<56,
	)
	y = int64(
		uint64(frame[11]) | uint64(frame[12])<<8 | uint64(frame[13])<<16 | uint64(frame[14])<<24 |
			uint64(frame[15])<<32 | uint64(frame[16])<<40 | uint64(frame[17])<<48 | uint64(frame[18])<<56,
	)
	ch = frame[19]
	return id, x, y, ch
}
