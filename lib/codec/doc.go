// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides netgridviz's standard CBOR encoding
// configuration, used by the snapshot package to serialize a
// timeline.Game to and from disk.
//
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
// Same logical data always produces identical bytes, which matters
// here because a snapshot's BLAKE3 digest is computed over the
// encoded bytes.
//
// For buffer-oriented operations:
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations:
//
//	encoder := codec.NewEncoder(w)
//	decoder := codec.NewDecoder(r)
package codec
