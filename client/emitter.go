// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sync"
	"time"

	"github.com/netgridviz/netgridviz/protocol"
)

// connectTimeout is the fixed timeout spec.md §4.2 specifies for the
// loopback connect attempt.
const connectTimeout = 500 * time.Millisecond

// Context is a style register: a 16-bit id chosen by the client, paired
// with foreground and background colors. The defaults below are
// preserved verbatim from the naming in the original source (spec.md
// §3 notes the doc-comment/code mismatch in the source this was ported
// from; the colors here follow the code, not the stale comments).
type Context struct {
	ID uint16
	FG protocol.Color // default (0, 0, 0)
	BG protocol.Color // default (255, 255, 255)
}

func defaultContext(id uint16) *Context {
	return &Context{
		ID: id,
		FG: protocol.Color{R: 0, G: 0, B: 0},
		BG: protocol.Color{R: 255, G: 255, B: 255},
	}
}

// Emitter holds the process-wide state spec.md §4.2 describes: one
// connected socket, one monotonically increasing context-id counter,
// and one current-stroke flag. It is not safe for concurrent use from
// multiple goroutines, matching spec.md §5's "the spec does not require
// thread-safety for the emitter."
type Emitter struct {
	logger *slog.Logger

	conn           net.Conn
	contextCounter uint16
	hasStroke      bool
	lastErr        *Error
}

var (
	defaultOnce     sync.Once
	defaultInstance *Emitter
)

// Default returns the process-wide Emitter singleton, for programs that
// want the "connect once, share" call shape without threading an
// *Emitter through their own code.
func Default() *Emitter {
	defaultOnce.Do(func() {
		defaultInstance = New(nil)
	})
	return defaultInstance
}

// New creates an Emitter. A nil logger defaults to a text handler on
// stderr, which is what makes the connection-loss message in
// spec.md §7 appear verbatim on disconnect.
func New(logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	}
	return &Emitter{logger: logger}
}

// Connect creates a TCP socket and attempts a loopback connection to
// 127.0.0.1:port with a 500ms timeout. Returns a *Error with
// ErrorKindConnectFailure on any failure. A successful Connect replaces
// any existing connection (Disconnect is implied).
func (e *Emitter) Connect(port int) error {
	e.Disconnect()

	addr := fmt.Sprintf("127.0.0.1:%d", port)
	conn, err := net.DialTimeout("tcp", addr, connectTimeout)
	if err != nil {
		return &Error{Kind: ErrorKindConnectFailure, Err: err}
	}

	e.conn = conn
	e.contextCounter = 0
	e.hasStroke = false
	return nil
}

// Disconnect closes the socket and marks it invalid. Idempotent-safe:
// calling it when already disconnected does nothing.
func (e *Emitter) Disconnect() {
	if e.conn == nil {
		return
	}
	_ = e.conn.Close()
	e.conn = nil
}

// Connected reports whether the emitter currently holds an open
// connection.
func (e *Emitter) Connected() bool {
	return e.conn != nil
}

// LastErr returns the most recent typed failure sendOrLose recorded,
// or nil if the connection has never been lost mid-stream.
func (e *Emitter) LastErr() *Error {
	return e.lastErr
}

// CreateContext allocates a fresh context id from the counter — the
// counter increments before use, so the first allocated id is 1 — and
// initializes it with the default colors. Does not emit a frame.
func (e *Emitter) CreateContext() *Context {
	e.contextCounter++
	return defaultContext(e.contextCounter)
}

// MakeContext creates a context with a caller-chosen id. There is no
// collision detection against ids the counter has already handed out
// or will hand out later — the server is expected to cope with
// whatever id a client picks.
func (e *Emitter) MakeContext(id uint16) *Context {
	return defaultContext(id)
}

// SetFG updates ctx's foreground color locally and emits a SET_FG
// frame. No-op if the connection is invalid.
func (e *Emitter) SetFG(ctx *Context, r, g, b byte) {
	if !e.Connected() {
		return
	}
	ctx.FG = protocol.Color{R: r, G: g, B: b}
	e.sendOrLose(protocol.EncodeSetFG(ctx.ID, ctx.FG))
}

// SetBG updates ctx's background color locally and emits a SET_BG
// frame. No-op if the connection is invalid.
func (e *Emitter) SetBG(ctx *Context, r, g, b byte) {
	if !e.Connected() {
		return
	}
	ctx.BG = protocol.Color{R: r, G: g, B: b}
	e.sendOrLose(protocol.EncodeSetBG(ctx.ID, ctx.BG))
}

// StartStroke marks the current-stroke flag and emits a START_STROKE
// frame. A nil title is normalized to empty. The header (tag + title
// length) and the title bytes are sent as two separate writes,
// matching the original source: if the header write fails, the
// connection is lost; if the header succeeds but the title body write
// fails, the connection is still lost, even though the header already
// went out.
func (e *Emitter) StartStroke(title []byte) {
	if !e.Connected() {
		return
	}
	title = protocol.TruncateTitle(title)

	header := make([]byte, 5)
	header[0] = protocol.TagStartStroke
	binary.LittleEndian.PutUint32(header[1:5], uint32(len(title)))

	if !e.sendOrLose(header) {
		return
	}
	if len(title) > 0 {
		if !e.sendOrLose(title) {
			return
		}
	}
	e.hasStroke = true
}

// EndStroke clears the current-stroke flag. No frame is emitted.
// Idempotent: calling it twice is the same as calling it once.
func (e *Emitter) EndStroke() {
	e.hasStroke = false
}

// DrawChar draws one character at (x, y) using ctx's currently latched
// colors. If no stroke is open, a dummy stroke — a START_STROKE with
// title_len = 0 and no title bytes — is emitted first, without
// toggling the current-stroke flag, so the very next draw call will
// emit another dummy stroke again unless a real StartStroke/EndStroke
// pair intervenes. No-op if the connection is invalid.
func (e *Emitter) DrawChar(ctx *Context, x, y int64, ch byte) {
	if !e.Connected() {
		return
	}
	if !e.hasStroke {
		if !e.sendOrLose(protocol.EncodeStartStroke(nil)) {
			return
		}
	}
	e.sendOrLose(protocol.EncodeSendChar(ctx.ID, x, y, ch))
}

// DrawString draws every byte of s at the same (x, y) — the source
// this was ported from does not advance x per byte, and that behavior
// is preserved verbatim per spec.md §9. If no stroke is open, the
// whole call is wrapped in one implicit dummy stroke (rather than one
// per byte) and the current-stroke flag is restored to its prior value
// afterward.
func (e *Emitter) DrawString(ctx *Context, x, y int64, s string) {
	if !e.Connected() {
		return
	}
	prior := e.hasStroke
	if !prior {
		if !e.sendOrLose(protocol.EncodeStartStroke(nil)) {
			return
		}
		e.hasStroke = true
	}
	for i := 0; i < len(s); i++ {
		if !e.Connected() {
			return
		}
		e.sendOrLose(protocol.EncodeSendChar(ctx.ID, x, y, s[i]))
	}
	e.hasStroke = prior
}

// DrawFmt formats format/args and draws the result via DrawString.
// Unlike the C source this was ported from (spec.md §9 notes its
// va_list was passed straight to snprintf instead of vsnprintf),
// fmt.Sprintf's variadic forwarding is correct by construction.
func (e *Emitter) DrawFmt(ctx *Context, x, y int64, format string, args ...any) {
	e.DrawString(ctx, x, y, fmt.Sprintf(format, args...))
}

// sendOrLose writes buf in a single call. Any short write (fewer bytes
// written than requested, for any reason including the write simply
// failing) closes the connection, logs the spec.md §7 diagnostic, and
// marks the emitter invalid. Returns whether the write fully succeeded.
func (e *Emitter) sendOrLose(buf []byte) bool {
	n, err := e.rawWrite(buf)
	if err != nil || n < len(buf) {
		if err == nil {
			err = fmt.Errorf("short write: %d of %d bytes", n, len(buf))
		}
		e.lastErr = &Error{Kind: ErrorKindConnectionLost, Err: err}
		e.logger.Warn("netgridviz: Connection to server lost", "error", e.lastErr)
		e.Disconnect()
		return false
	}
	return true
}
