// Copyright 2026 The netgridviz Authors
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package client

import (
	"fmt"
	"net"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// ConnectRaw is a literal re-expression of the original source's
// connect sequence: create a socket, switch it to non-blocking, issue
// a non-blocking connect, and wait for it with a select(2) call bounded
// to connectTimeout. spec.md §5 calls this out as "the one blocking
// call in the entire system (intentional, at connect time only)."
//
// Connect (backed by net.DialTimeout) is equivalent and is what most
// callers should use; ConnectRaw exists for parity with the original's
// literal select-based timeout and for tests that want to exercise
// that exact code path.
func (e *Emitter) ConnectRaw(port int) error {
	e.Disconnect()

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM, 0)
	if err != nil {
		return &Error{Kind: ErrorKindConnectFailure, Err: fmt.Errorf("socket: %w", err)}
	}

	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return &Error{Kind: ErrorKindConnectFailure, Err: fmt.Errorf("set non-blocking: %w", err)}
	}

	addr := &unix.SockaddrInet4{Port: port}
	copy(addr.Addr[:], net.IPv4(127, 0, 0, 1).To4())

	connectErr := unix.Connect(fd, addr)
	if connectErr != nil && connectErr != unix.EINPROGRESS {
		unix.Close(fd)
		return &Error{Kind: ErrorKindConnectFailure, Err: fmt.Errorf("connect: %w", connectErr)}
	}

	if connectErr == unix.EINPROGRESS {
		if err := waitWritable(fd, connectTimeout); err != nil {
			unix.Close(fd)
			return &Error{Kind: ErrorKindConnectFailure, Err: err}
		}
		soErr, err := unix.GetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_ERROR)
		if err != nil {
			unix.Close(fd)
			return &Error{Kind: ErrorKindConnectFailure, Err: fmt.Errorf("getsockopt SO_ERROR: %w", err)}
		}
		if soErr != 0 {
			unix.Close(fd)
			return &Error{Kind: ErrorKindConnectFailure, Err: fmt.Errorf("connect: %s", unix.Errno(soErr))}
		}
	}

	file := os.NewFile(uintptr(fd), "netgridviz-client")
	conn, err := net.FileConn(file)
	file.Close() // FileConn dups fd; our copy is no longer needed once it succeeds or fails.
	if err != nil {
		return &Error{Kind: ErrorKindConnectFailure, Err: fmt.Errorf("FileConn: %w", err)}
	}

	e.conn = conn
	e.contextCounter = 0
	e.hasStroke = false
	return nil
}

// waitWritable blocks on select(2) until fd is writable or timeout
// elapses, mirroring the original's select-based connect timeout.
func waitWritable(fd int, timeout time.Duration) error {
	var writeSet unix.FdSet
	fdSet(&writeSet, fd)
	tv := unix.NsecToTimeval(timeout.Nanoseconds())

	n, err := unix.Select(fd+1, nil, &writeSet, nil, &tv)
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("connect timed out after %s", timeout)
	}
	return nil
}

// fdSet sets fd's bit in set. unix.FdSet.Bits is a fixed-size array of
// 64-bit words on linux/amd64 and arm64; indexing by fd/64 and shifting
// within the word reproduces what the FD_SET macro does in C.
func fdSet(set *unix.FdSet, fd int) {
	set.Bits[fd/64] |= 1 << (uint(fd) % 64)
}
