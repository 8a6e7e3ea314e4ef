// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package protocol

import (
	"bytes"
	"testing"
)

func TestEncodeSetFG(t *testing.T) {
	frame := EncodeSetFG(1, Color{R: 255, G: 0, B: 10})
	want := []byte{TagSetFG, 1, 0, 255, 0, 10}
	if !bytes.Equal(frame, want) {
		t.Fatalf("EncodeSetFG = % x, want % x", frame, want)
	}
}

func TestEncodeSendChar_Scenario1(t *testing.T) {
	// spec.md §8 scenario 1: draw_char(ctx=1, 3, 4, '#').
	frame := EncodeSendChar(1, 3, 4, '#')
	want := []byte{
		0x04, 0x01, 0x00,
		0x03, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x04, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x23,
	}
	if !bytes.Equal(frame, want) {
		t.Fatalf("EncodeSendChar = % x, want % x", frame, want)
	}
	if len(frame) != SendCharLength {
		t.Fatalf("len(frame) = %d, want %d", len(frame), SendCharLength)
	}
}

func TestEncodeStartStroke_EmptyTitle(t *testing.T) {
	frame := EncodeStartStroke(nil)
	want := []byte{TagStartStroke, 0, 0, 0, 0}
	if !bytes.Equal(frame, want) {
		t.Fatalf("EncodeStartStroke(nil) = % x, want % x", frame, want)
	}
}

func TestEncodeStartStroke_WithTitle(t *testing.T) {
	frame := EncodeStartStroke([]byte("Parse"))
	if frame[0] != TagStartStroke {
		t.Fatalf("tag = %d, want %d", frame[0], TagStartStroke)
	}
	length, ok, err := FrameLength(frame)
	if err != nil || !ok {
		t.Fatalf("FrameLength = %d, %v, %v", length, ok, err)
	}
	if length != len(frame) {
		t.Fatalf("FrameLength = %d, want %d", length, len(frame))
	}
	if title := DecodeStartStroke(frame); string(title) != "Parse" {
		t.Fatalf("DecodeStartStroke = %q, want %q", title, "Parse")
	}
}

func TestFrameLength_WaitsForStartStrokeHeader(t *testing.T) {
	frame := EncodeStartStroke([]byte("hello"))
	for n := 0; n < startStrokeHeaderLength; n++ {
		length, ok, err := FrameLength(frame[:n])
		if err != nil {
			t.Fatalf("FrameLength(%d bytes) unexpected error: %v", n, err)
		}
		if n == 0 {
			if ok {
				t.Fatalf("FrameLength(0 bytes) should not be ok")
			}
			continue
		}
		if ok {
			t.Fatalf("FrameLength(%d bytes) should not be ok before the header is complete", n)
		}
		_ = length
	}
	length, ok, err := FrameLength(frame[:startStrokeHeaderLength])
	if err != nil || !ok {
		t.Fatalf("FrameLength(header) = %d, %v, %v", length, ok, err)
	}
	if length != len(frame) {
		t.Fatalf("FrameLength(header) = %d, want %d", length, len(frame))
	}
}

func TestFrameLength_UnknownTag(t *testing.T) {
	_, _, err := FrameLength([]byte{0xFF})
	if err == nil {
		t.Fatalf("FrameLength(unknown tag) should error")
	}
}

func TestFrameLength_TitleTooLong(t *testing.T) {
	buf := make([]byte, startStrokeHeaderLength)
	buf[0] = TagStartStroke
	buf[1], buf[2], buf[3], buf[4] = 0xFF, 0xFF, 0xFF, 0xFF // title_len = MaxUint32
	_, _, err := FrameLength(buf)
	if err == nil {
		t.Fatalf("FrameLength(oversized title_len) should error")
	}
}

// prefix/rest equivalence: parsing a buffer to exhaustion and then
// feeding the remainder yields the same frame boundaries as feeding
// the whole buffer at once. See spec.md §8, "For every buffer prefix B".
func TestFrameLength_PrefixRestEquivalence(t *testing.T) {
	full := append(EncodeSetFG(1, Color{1, 2, 3}), EncodeSendChar(1, 5, 6, 'x')...)

	// parse splits buf into every complete frame it holds and returns
	// the unconsumed remainder.
	parse := func(buf []byte) (frames [][]byte, rest []byte) {
		for len(buf) > 0 {
			length, ok, err := FrameLength(buf)
			if err != nil {
				t.Fatalf("FrameLength: %v", err)
			}
			if !ok || len(buf) < length {
				break
			}
			frames = append(frames, buf[:length])
			buf = buf[length:]
		}
		return frames, buf
	}

	frames, remaining := parse(full)
	if len(remaining) != 0 {
		t.Fatalf("incomplete frame in a buffer that should be fully formed")
	}

	for split := 0; split <= len(full); split++ {
		prefixFrames, leftover := parse(full[:split])
		restFrames, tail := parse(append(append([]byte{}, leftover...), full[split:]...))
		got := append(prefixFrames, restFrames...)
		if len(tail) != 0 || len(got) != len(frames) {
			t.Fatalf("split at %d: got %d frames and %d leftover bytes, want %d frames and none", split, len(got), len(tail), len(frames))
		}
		for i := range frames {
			if !bytes.Equal(got[i], frames[i]) {
				t.Fatalf("split at %d: frame %d = % x, want % x", split, i, got[i], frames[i])
			}
		}
	}

	if len(frames) != 2 {
		t.Fatalf("got %d frames, want 2", len(frames))
	}
	if !bytes.Equal(frames[0], EncodeSetFG(1, Color{1, 2, 3})) {
		t.Fatalf("frame 0 mismatch")
	}
	if !bytes.Equal(frames[1], EncodeSendChar(1, 5, 6, 'x')) {
		t.Fatalf("frame 1 mismatch")
	}
}

func TestDecodeSetColor(t *testing.T) {
	frame := EncodeSetBG(0xFFFF, Color{R: 10, G: 20, B: 30})
	id, c := DecodeSetColor(frame)
	if id != 0xFFFF {
		t.Fatalf("context id = %d, want 0xFFFF", id)
	}
	if c != (Color{10, 20, 30}) {
		t.Fatalf("color = %+v", c)
	}
}

func TestDecodeSendChar_NegativeCoordinates(t *testing.T) {
	frame := EncodeSendChar(2, -3, -4, 'Z')
	id, x, y, ch := DecodeSendChar(frame)
	if id != 2 || x != -3 || y != -4 || ch != 'Z' {
		t.Fatalf("decoded (%d, %d, %d, %c)", id, x, y, ch)
	}
}
