// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package netutil

import (
	"errors"
	"io"
	"net"
	"syscall"
)

// IsClosedConnError reports whether err is a normal connection
// termination: EOF, closed connection, broken pipe, or connection
// reset. The viewer full-closes its batch socket when told to exit, so
// the client's in-flight read surfaces one of these rather than a real
// protocol failure.
//
// A full-close (no CloseWrite half-close) produces ECONNRESET and
// EPIPE instead of EOF on the surviving side; all four forms count as
// the peer having gone away cleanly.
func IsClosedConnError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EPIPE || errno == syscall.ECONNRESET
	}
	return false
}
