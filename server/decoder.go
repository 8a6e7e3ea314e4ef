// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"time"

	"github.com/netgridviz/netgridviz/lib/clock"
	"github.com/netgridviz/netgridviz/lib/netutil"
	"github.com/netgridviz/netgridviz/metrics"
	"github.com/netgridviz/netgridviz/protocol"
	"github.com/netgridviz/netgridviz/timeline"
)

// readChunk is how many bytes Poll asks the kernel for per non-blocking
// read. The original reserves "at least 2049 bytes before each read so
// growth steps to 4 KiB"; a fixed 4 KiB scratch buffer achieves the
// same effect without the reservation bookkeeping.
const readChunk = 4096

// pollWait is how far ahead of now Poll sets the accept/read deadline.
// A deadline that has already passed makes the Go netpoller fail the
// call without ever trying the socket, so the deadline sits just in
// the future: a queued connection or buffered data is picked up at
// once, and an idle socket costs at most pollWait.
const pollWait = time.Millisecond

// Decoder holds everything the original's Network_State struct did:
// the listening socket, at most one accepted client, the receive
// buffer, the per-connection context table, and the
// reuse_first_stroke handshake flag.
type Decoder struct {
	logger  *slog.Logger
	metrics *metrics.Registry
	clock   clock.Clock

	listener *net.TCPListener
	conn     net.Conn

	buf []byte

	contexts         *ContextTable
	reuseFirstStroke bool

	// run is the timeline.Run the current connection writes into. It
	// is tracked independently of game.SelectedRun, which a user can
	// navigate away from without affecting where live frames land.
	run *timeline.Run

	// lastErr records the most recent typed failure Poll encountered,
	// for callers that want to distinguish failure kinds
	// programmatically instead of only reading the log.
	lastErr *Error
}

// Listen binds a TCP listener at addr (e.g. ":41088") in non-blocking
// mode and returns a Decoder ready to Poll. reg may be nil, in which
// case metrics.Noop() is used.
func Listen(addr string, logger *slog.Logger, reg *metrics.Registry) (*Decoder, error) {
	return listen(addr, logger, reg, clock.Real())
}

// listenWithClock is Listen's internal constructor, letting tests pin
// the clock the Decoder stamps heat ignitions with (clock.Fake)
// instead of the wall clock.
func listenWithClock(addr string, logger *slog.Logger, reg *metrics.Registry, clk clock.Clock) (*Decoder, error) {
	return listen(addr, logger, reg, clk)
}

func listen(addr string, logger *slog.Logger, reg *metrics.Registry, clk clock.Clock) (*Decoder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if reg == nil {
		reg = metrics.Noop()
	}

	l, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, &Error{Kind: ErrorKindResourceInit, Err: fmt.Errorf("listen %s: %w", addr, err)}
	}
	tcpListener, ok := l.(*net.TCPListener)
	if !ok {
		l.Close()
		return nil, &Error{Kind: ErrorKindResourceInit, Err: fmt.Errorf("listener for %s is not a TCP listener", addr)}
	}

	return &Decoder{
		logger:   logger,
		metrics:  reg,
		clock:    clk,
		listener: tcpListener,
		contexts: NewContextTable(),
	}, nil
}

// Addr returns the listener's bound address, useful when Listen was
// called with port 0 to let the kernel choose one.
func (d *Decoder) Addr() *net.TCPAddr {
	return d.listener.Addr().(*net.TCPAddr)
}

// Close releases the listener and any accepted client.
func (d *Decoder) Close() error {
	if d.conn != nil {
		d.conn.Close()
	}
	return d.listener.Close()
}

// Connected reports whether a client is currently accepted.
func (d *Decoder) Connected() bool {
	return d.conn != nil
}

// LastErr returns the most recent typed failure Poll recorded, or nil
// if none has occurred since the Decoder was created.
func (d *Decoder) LastErr() *Error {
	return d.lastErr
}

// Poll drives one frame's worth of I/O and parsing against game: a
// non-blocking accept (if no client) or read (if one is connected),
// followed by parsing as many complete frames as the buffer holds.
// Waits at most pollWait for the accept or read.
func (d *Decoder) Poll(game *timeline.Game) {
	if d.conn == nil {
		d.tryAccept(game)
	} else {
		d.tryRead()
	}
	d.parseBuffered(game)
}

func (d *Decoder) tryAccept(game *timeline.Game) {
	if err := d.listener.SetDeadline(time.Now().Add(pollWait)); err != nil {
		d.logger.Error("netgridviz: failed to set listener deadline", "error", err)
		return
	}
	conn, err := d.listener.Accept()
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return // no pending connection, expected
		}
		d.logger.Error("netgridviz: accept failed", "error", err)
		return
	}

	d.conn = conn
	d.buf = d.buf[:0]
	d.contexts.Reset()
	d.reuseFirstStroke = true
	d.run = game.NewRun(conn.RemoteAddr().String())
	d.metrics.RunsCreated.Inc()
	d.metrics.ClientsConnected.Set(1)
	d.logger.Info("netgridviz: client connected", "remote_addr", conn.RemoteAddr().String())
}

func (d *Decoder) tryRead() {
	if err := d.conn.SetReadDeadline(time.Now().Add(pollWait)); err != nil {
		d.logger.Error("netgridviz: failed to set read deadline", "error", err)
		return
	}

	scratch := make([]byte, readChunk)
	n, err := d.conn.Read(scratch)
	if n > 0 {
		d.buf = append(d.buf, scratch[:n]...)
		d.metrics.BytesReceived.Add(float64(n))
	}
	if err == nil {
		return
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return // non-blocking "no data available right now"
	}
	if n == 0 || netutil.IsExpectedCloseError(err) {
		d.closeClient()
		return
	}
	d.logger.Warn("netgridviz: unexpected read error, closing client", "error", err)
	d.closeClient()
}

func (d *Decoder) closeClient() {
	d.conn.Close()
	d.conn = nil
	d.metrics.ClientsConnected.Set(0)
	d.logger.Info("netgridviz: client disconnected")
	// The run stays in game.Runs with its accumulated strokes; only the
	// live connection goes away.
	d.run = nil
}

func (d *Decoder) parseBuffered(game *timeline.Game) {
	for len(d.buf) > 0 {
		length, ok, err := protocol.FrameLength(d.buf)
		if err != nil {
			d.lastErr = &Error{Kind: ErrorKindProtocolViolation, Err: err}
			d.metrics.ProtocolViolations.Inc()
			d.logger.Error("netgridviz: protocol violation, closing connection", "error", d.lastErr)
			if d.conn != nil {
				d.conn.Close()
				d.conn = nil
				d.metrics.ClientsConnected.Set(0)
			}
			d.run = nil
			d.buf = d.buf[:0]
			return
		}
		if !ok || len(d.buf) < length {
			return // wait for more bytes
		}

		frame := d.buf[:length]
		d.dispatch(frame, game)
		d.buf = d.buf[length:]
	}
}

func (d *Decoder) dispatch(frame []byte, game *timeline.Game) {
	if d.run == nil {
		return
	}
	tag := frame[0]
	d.metrics.FramesDecoded.WithLabelValues(tagLabel(tag)).Inc()

	switch tag {
	case protocol.TagSetFG:
		id, color := protocol.DecodeSetColor(frame)
		d.contexts.Get(id).FG = color
	case protocol.TagSetBG:
		id, color := protocol.DecodeSetColor(frame)
		d.contexts.Get(id).BG = color
	case protocol.TagStartStroke:
		title := protocol.DecodeStartStroke(frame)
		reused := d.reuseFirstStroke
		d.run.StartStroke(title, reused)
		d.reuseFirstStroke = false
		if !reused {
			d.metrics.StrokesCreated.Inc()
		}
		// The affected stroke is always the run's last one: StartStroke
		// either appends it or retitles it in place.
		affected := len(d.run.Strokes) - 1
		game.Heat.Ignite(timeline.StrokeHeatKey(d.run, affected), timeline.HeatNewStroke, d.clock.Now())
	case protocol.TagSendChar:
		d.reuseFirstStroke = false
		id, x, y, ch := protocol.DecodeSendChar(frame)
		ctx := d.contexts.Get(id)
		d.run.AddCharPoint(ctx.FG, ctx.BG, ch, x, y)
		d.metrics.EventsDecoded.Inc()
		// AddCharPoint always appends to the run's last stroke.
		affected := len(d.run.Strokes) - 1
		game.Heat.Ignite(timeline.StrokeHeatKey(d.run, affected), timeline.HeatNewEvent, d.clock.Now())
	}
}

func tagLabel(tag byte) string {
	switch tag {
	case protocol.TagSetFG:
		return "set_fg"
	case protocol.TagSetBG:
		return "set_bg"
	case protocol.TagStartStroke:
		return "start_stroke"
	case protocol.TagSendChar:
		return "send_char"
	default:
		return "unknown"
	}
}
