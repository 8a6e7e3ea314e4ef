// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Message tags. One byte, at offset 0 of every frame.
const (
	TagSetFG       byte = 1
	TagSetBG       byte = 2
	TagStartStroke byte = 3
	TagSendChar    byte = 4
)

// Fixed frame lengths for the non-variable-length tags, in bytes
// including the tag byte.
const (
	SetFGLength    = 6
	SetBGLength    = 6
	SendCharLength = 20

	// startStrokeHeaderLength is the tag byte plus the 4-byte
	// title_len prefix. A START_STROKE frame's total length is
	// startStrokeHeaderLength + title_len.
	startStrokeHeaderLength = 5
)

// MaxTitleLength caps the title_len the decoder will honor for a
// START_STROKE frame. This is a decode-side sanity ceiling against a
// corrupted or adversarial stream — legitimate titles are a handful of
// bytes. It does not change wire compatibility: the client already
// caps title_len at math.MaxUint32 when encoding (see TruncateTitle),
// and any title actually worth drawing is far below this ceiling.
const MaxTitleLength = 16 * 1024 * 1024

// Color is an RGB triple with no alpha channel.
type Color struct {
	R, G, B byte
}

// TruncateTitle caps title to the maximum length the wire format can
// carry (title_len is a uint32). Titles longer than math.MaxUint32
// bytes are truncated to exactly that many bytes before encoding —
// this can only matter for pathological callers, since no realistic
// title approaches 4 GiB.
func TruncateTitle(title []byte) []byte {
	if uint64(len(title)) > math.MaxUint32 {
		return title[:math.MaxUint32]
	}
	return title
}

// EncodeSetFG returns the wire bytes for a SET_FG frame.
func EncodeSetFG(contextID uint16, c Color) []byte {
	return encodeColorFrame(TagSetFG, contextID, c)
}

// EncodeSetBG returns the wire bytes for a SET_BG frame.
func EncodeSetBG(contextID uint16, c Color) []byte {
	return encodeColorFrame(TagSetBG, contextID, c)
}

func encodeColorFrame(tag byte, contextID uint16, c Color) []byte {
	buf := make([]byte, SetFGLength)
	buf[0] = tag
	binary.LittleEndian.PutUint16(buf[1:3], contextID)
	buf[3], buf[4], buf[5] = c.R, c.G, c.B
	return buf
}

// EncodeStartStroke returns the wire bytes for a START_STROKE frame.
// title is truncated per TruncateTitle before its length is encoded.
func EncodeStartStroke(title []byte) []byte {
	title = TruncateTitle(title)
	buf := make([]byte, startStrokeHeaderLength+len(title))
	buf[0] = TagStartStroke
	binary.LittleEndian.PutUint32(buf[1:5], uint32(len(title)))
	copy(buf[5:], title)
	return buf
}

// EncodeSendChar returns the wire bytes for a SEND_CHAR frame.
func EncodeSendChar(contextID uint16, x, y int64, ch byte) []byte {
	buf := make([]byte, SendCharLength)
	buf[0] = TagSendChar
	binary.LittleEndian.PutUint16(buf[1:3], contextID)
	binary.LittleEndian.PutUint64(buf[3:11], uint64(x))
	binary.LittleEndian.PutUint64(buf[11:19], uint64(y))
	buf[19] = ch
	return buf
}

// FrameLength computes the total length (tag byte included) of the
// frame starting at buf[0], given only the bytes currently buffered.
// ok is false when buf does not yet hold enough bytes to know the
// length — this only happens for an empty buf, or for START_STROKE when
// fewer than 5 bytes are buffered; the caller should wait for more data rather than treat
// this as an error. err is non-nil for an unknown tag (a protocol
// violation) or a START_STROKE whose declared title_len exceeds
// MaxTitleLength.
func FrameLength(buf []byte) (length int, ok bool, err error) {
	if len(buf) == 0 {
		return 0, false, nil
	}
	switch buf[0] {
	case TagSetFG:
		return SetFGLength, true, nil
	case TagSetBG:
		return SetBGLength, true, nil
	case TagSendChar:
		return SendCharLength, true, nil
	case TagStartStroke:
		if len(buf) < startStrokeHeaderLength {
			return startStrokeHeaderLength, false, nil
		}
		titleLen := binary.LittleEndian.Uint32(buf[1:5])
		if titleLen > MaxTitleLength {
			return 0, false, fmt.Errorf("protocol: START_STROKE title_len %d exceeds maximum %d", titleLen, MaxTitleLength)
		}
		return startStrokeHeaderLength + int(titleLen), true, nil
	default:
		return 0, false, fmt.Errorf("protocol: unknown message tag 0x%02x", buf[0])
	}
}

// DecodeSetColor reads the context id and color from a SET_FG or
// SET_BG frame. frame must be exactly SetFGLength (== SetBGLength)
// bytes, as returned by FrameLength.
func DecodeSetColor(frame []byte) (contextID uint16, c Color) {
	contextID = binary.LittleEndian.Uint16(frame[1:3])
	c = Color{R: frame[3], G: frame[4], B: frame[5]}
	return contextID, c
}

// DecodeStartStroke reads the title from a START_STROKE frame. frame
// must be the full frame as sized by FrameLength.
func DecodeStartStroke(frame []byte) (title []byte) {
	titleLen := binary.LittleEndian.Uint32(frame[1:5])
	return frame[startStrokeHeaderLength : startStrokeHeaderLength+int(titleLen)]
}

// DecodeSendChar reads the context id, coordinates, and character
// from a SEND_CHAR frame. frame must be exactly SendCharLength bytes.
func DecodeSendChar(frame []byte) (contextID uint16, x, y int64, ch byte) {
	contextID = binary.LittleEndian.Uint16(frame[1:3])
	x = int64(binary.LittleEndian.Uint64(frame[3:11]))
	y = int64(binary.LittleEndian.Uint64(frame[11:19]))
	ch = frame[19]
	return contextID, x, y, ch
}
