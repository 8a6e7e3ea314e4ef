// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package client

// ConnectRaw falls back to Connect on platforms where this module does
// not implement the literal select(2)-based non-blocking connect
// sequence. The observable contract (loopback connect, 500ms timeout,
// ErrorKindConnectFailure on failure) is identical either way.
func (e *Emitter) ConnectRaw(port int) error {
	return e.Connect(port)
}
