// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"

	"github.com/netgridviz/netgridviz/lib/clock"
	"github.com/netgridviz/netgridviz/lib/codec"
	"github.com/netgridviz/netgridviz/protocol"
	"github.com/netgridviz/netgridviz/timeline"
)

// formatVersion guards against decoding a future, incompatible
// snapshot layout with an older binary.
const formatVersion = 1

// file is the on-disk envelope: a BLAKE3 digest of Payload (the
// zstd-compressed CBOR encoding of a gameSnapshot), checked before
// Payload is ever decompressed or decoded.
type file struct {
	Version uint32 `cbor:"version"`
	Hash    []byte `cbor:"hash"`
	Payload []byte `cbor:"payload"`
}

type gameSnapshot struct {
	CreatedAt int64         `cbor:"created_at"`
	Runs      []runSnapshot `cbor:"runs"`
}

type runSnapshot struct {
	ID         string           `cbor:"id"`
	RemoteAddr string           `cbor:"remote_addr"`
	StartTime  int64            `cbor:"start_time"`
	Strokes    []strokeSnapshot `cbor:"strokes"`
	FontSize   int              `cbor:"font_size"`
}

type strokeSnapshot struct {
	Title  string          `cbor:"title"`
	Events []eventSnapshot `cbor:"events"`
}

type eventSnapshot struct {
	FGR byte  `cbor:"fg_r"`
	FGG byte  `cbor:"fg_g"`
	FGB byte  `cbor:"fg_b"`
	BGR byte  `cbor:"bg_r"`
	BGG byte  `cbor:"bg_g"`
	BGB byte  `cbor:"bg_b"`
	Ch  byte  `cbor:"ch"`
	X   int64 `cbor:"x"`
	Y   int64 `cbor:"y"`
}

// Export CBOR-encodes, compresses, and hashes game, writing the
// result to path. The exported snapshot is a point-in-time history
// dump; it is never consulted by a live Decoder.
func Export(path string, game *timeline.Game) error {
	snap := toSnapshot(game)

	plain, err := codec.Marshal(snap)
	if err != nil {
		return fmt.Errorf("snapshot: encoding game: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("snapshot: initializing compressor: %w", err)
	}
	defer encoder.Close()
	compressed := encoder.EncodeAll(plain, nil)

	data, err := codec.Marshal(file{
		Version: formatVersion,
		Hash:    hashPayload(compressed),
		Payload: compressed,
	})
	if err != nil {
		return fmt.Errorf("snapshot: encoding envelope: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("snapshot: writing %s: %w", path, err)
	}
	return nil
}

// Import reads a snapshot previously written by Export and returns it
// as a fresh, read-only history timeline.Game (clock.Real() is used
// for the returned Game's clock, since nothing subsequently mutates
// an imported run's timestamps). SelectedRun starts at 0 so the
// viewer opens on the first imported run.
func Import(path string) (*timeline.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: reading %s: %w", path, err)
	}

	var envelope file
	if err := codec.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("snapshot: decoding envelope: %w", err)
	}
	if envelope.Version != formatVersion {
		return nil, fmt.Errorf("snapshot: unsupported format version %d (want %d)", envelope.Version, formatVersion)
	}

	digest := hashPayload(envelope.Payload)
	if string(digest) != string(envelope.Hash) {
		return nil, fmt.Errorf("snapshot: %s failed integrity check (corrupted or truncated file)", path)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot: initializing decompressor: %w", err)
	}
	defer decoder.Close()
	plain, err := decoder.DecodeAll(envelope.Payload, nil)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompressing payload: %w", err)
	}

	var snap gameSnapshot
	if err := codec.Unmarshal(plain, &snap); err != nil {
		return nil, fmt.Errorf("snapshot: decoding game: %w", err)
	}

	return fromSnapshot(snap), nil
}

// hashPayload computes the unkeyed BLAKE3 digest of data.
func hashPayload(data []byte) []byte {
	hasher := blake3.New()
	hasher.Write(data)
	return hasher.Sum(nil)
}

func toSnapshot(game *timeline.Game) gameSnapshot {
	snap := gameSnapshot{CreatedAt: game.CreatedAt.UnixNano()}
	for _, run := range game.Runs {
		snap.Runs = append(snap.Runs, runSnapshot{
			ID:         run.ID.String(),
			RemoteAddr: run.RemoteAddr,
			StartTime:  run.StartTime.UnixNano(),
			FontSize:   run.FontSize,
			Strokes:    toStrokeSnapshots(run.Strokes),
		})
	}
	return snap
}

func toStrokeSnapshots(strokes []*timeline.Stroke) []strokeSnapshot {
	out := make([]strokeSnapshot, len(strokes))
	for i, stroke := range strokes {
		events := make([]eventSnapshot, 0, len(stroke.Events))
		for _, event := range stroke.Events {
			if event.Kind != timeline.EventKindCharPoint {
				continue
			}
			cp := event.CharPoint
			events = append(events, eventSnapshot{
				FGR: cp.FG.R, FGG: cp.FG.G, FGB: cp.FG.B,
				BGR: cp.BG.R, BGG: cp.BG.G, BGB: cp.BG.B,
				Ch: cp.Ch, X: cp.X, Y: cp.Y,
			})
		}
		out[i] = strokeSnapshot{Title: stroke.Title, Events: events}
	}
	return out
}

func fromSnapshot(snap gameSnapshot) *timeline.Game {
	game := timeline.NewGame(clock.Real())
	game.CreatedAt = time.Unix(0, snap.CreatedAt).UTC()
	game.SelectedRun = 0

	for _, rs := range snap.Runs {
		run := &timeline.Run{
			RemoteAddr: rs.RemoteAddr,
			StartTime:  time.Unix(0, rs.StartTime).UTC(),
			FontSize:   rs.FontSize,
			ZoomLevel:  1.0,
		}
		if id, err := uuid.Parse(rs.ID); err == nil {
			run.ID = id
		}
		run.Strokes = fromStrokeSnapshots(rs.Strokes)
		run.SelectedStroke = len(run.Strokes)
		game.Runs = append(game.Runs, run)
	}
	return game
}

func fromStrokeSnapshots(strokes []strokeSnapshot) []*timeline.Stroke {
	out := make([]*timeline.Stroke, len(strokes))
	for i, ss := range strokes {
		events := make([]timeline.Event, len(ss.Events))
		for j, es := range ss.Events {
			events[j] = timeline.Event{
				Kind: timeline.EventKindCharPoint,
				CharPoint: timeline.CharPoint{
					FG: protocol.Color{R: es.FGR, G: es.FGG, B: es.FGB},
					BG: protocol.Color{R: es.BGR, G: es.BGG, B: es.BGB},
					Ch: es.Ch,
					X:  es.X,
					Y:  es.Y,
				},
			}
		}
		out[i] = &timeline.Stroke{Title: ss.Title, Events: events}
	}
	return out
}
