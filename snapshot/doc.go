// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package snapshot implements a one-shot, operator-triggered debug
// export/import of a timeline.Game: CBOR-encode it, zstd-compress the
// encoding, and wrap it with a BLAKE3 digest so Import can detect a
// truncated or corrupted file before trying to decode it.
//
// This exists purely for offline debugging and reproduction — loading
// a snapshot never resumes or continues a live run, and nothing
// auto-loads one on startup. It is the opposite of the persistence
// this module's non-goals explicitly rule out: export/import only
// happen when an operator asks for them (--snapshot-out/--snapshot-in).
package snapshot
