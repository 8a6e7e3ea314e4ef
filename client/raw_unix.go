// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

//go:build unix

package client

import (
	"syscall"

	"golang.org/x/sys/unix"
)

// rawWrite issues exactly one write(2) syscall against the connection's
// underlying file descriptor and returns however many bytes the kernel
// accepted, without retrying on a short write or EAGAIN. This is what
// lets sendOrLose treat "fewer bytes written than requested" as
// connection loss per spec.md §5: "the client performs blocking-like
// writes on a non-blocking socket by calling send once... There is no
// retry queue."
//
// net.Conn.Write does not have this property on its own — the runtime
// netpoller transparently retries a short write until the whole buffer
// is sent or a hard error occurs, which would hide exactly the signal
// spec.md asks the client to act on. Dropping to the raw fd via
// SyscallConn avoids that retry.
func (e *Emitter) rawWrite(buf []byte) (int, error) {
	syscallConn, ok := e.conn.(syscall.Conn)
	if !ok {
		return e.conn.Write(buf)
	}
	rawConn, err := syscallConn.SyscallConn()
	if err != nil {
		return 0, err
	}

	var n int
	var writeErr error
	ctrlErr := rawConn.Write(func(fd uintptr) bool {
		n, writeErr = unix.Write(int(fd), buf)
		return true
	})
	if ctrlErr != nil {
		return n, ctrlErr
	}
	if n < 0 {
		n = 0
	}
	return n, writeErr
}
