// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package igv

import (
	"bufio"
	"context"
	"net"
	"strings"
	"time"

	"github.com/seqview/igvctl/lib/netutil"
)

// conn owns one TCP connection to the viewer's batch port and provides
// the strictly synchronous exchange the protocol requires: write one
// LF-terminated command line, block until one LF-terminated response
// line comes back. No pipelining, no concurrent requests.
type conn struct {
	netConn net.Conn
	reader  *bufio.Reader
	addr    string
	closed  bool
}

// dialConn opens a TCP connection to address. A positive timeout
// bounds the dial; ctx cancellation is honored either way. Refusal,
// timeout, and resolution failures all surface as a ConnectionError.
func dialConn(ctx context.Context, address string, timeout time.Duration) (*conn, error) {
	dialer := &net.Dialer{Timeout: timeout}
	netConn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, &ConnectionError{Op: "dial", Addr: address, Err: err}
	}
	return &conn{
		netConn: netConn,
		reader:  bufio.NewReader(netConn),
		addr:    address,
	}, nil
}

// roundTrip sends one command line and returns the response line with
// its terminator stripped. A peer that closes the connection before a
// full response line arrives yields an empty response with no error:
// the viewer does exactly that after the exit command, and callers
// treat the missing line as "no response". A severed socket on write
// is a ConnectionError.
func (c *conn) roundTrip(line string) (string, error) {
	if _, err := c.netConn.Write([]byte(line + "\n")); err != nil {
		return "", &ConnectionError{Op: "write", Addr: c.addr, Err: err}
	}
	response, err := c.reader.ReadString('\n')
	if err != nil {
		if netutil.IsClosedConnError(err) {
			return "", nil
		}
		return "", &ConnectionError{Op: "read", Addr: c.addr, Err: err}
	}
	response = strings.TrimSuffix(response, "\n")
	response = strings.TrimSuffix(response, "\r")
	return response, nil
}

// close releases the connection. Idempotent and safe on a nil or
// already-closed conn; close errors from the kernel are ignored
// because there is nothing a caller could do about them.
func (c *conn) close() {
	if c == nil || c.closed {
		return
	}
	c.closed = true
	c.netConn.Close()
}

// isClosed reports whether the connection has been closed locally.
func (c *conn) isClosed() bool {
	return c == nil || c.closed
}
