// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package igv

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"sync"
	"testing"
)

// TestServer is a scripted stand-in for the viewer's batch socket:
// it accepts connections on an ephemeral loopback port, records every
// command line it receives, and answers each with whatever the
// handler returns. Tests assert against Received to check exactly
// what went over the wire.
type TestServer struct {
	t        *testing.T
	listener net.Listener
	handler  func(command string) string

	mu       sync.Mutex
	received []string
	conns    map[net.Conn]struct{}
	closed   bool

	wg sync.WaitGroup
}

// NewTestServer starts a fake viewer on 127.0.0.1 with an ephemeral
// port and registers its shutdown with t.Cleanup. A nil handler uses
// DefaultViewerHandler. A handler returning the empty string makes
// the server drop the connection without replying, the way the real
// viewer behaves on exit.
func NewTestServer(t *testing.T, handler func(command string) string) *TestServer {
	t.Helper()
	if handler == nil {
		handler = DefaultViewerHandler
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("NewTestServer: listen: %v", err)
	}
	server := &TestServer{
		t:        t,
		listener: listener,
		handler:  handler,
		conns:    make(map[net.Conn]struct{}),
	}
	server.wg.Add(1)
	go server.acceptLoop()
	t.Cleanup(server.Close)
	return server
}

// DefaultViewerHandler mimics the viewer's usual responses: echo
// commands answer with their message (or the literal "echo" when
// bare), exit drops the connection, everything else answers OK.
func DefaultViewerHandler(command string) string {
	if command == "echo" {
		return "echo"
	}
	if message, ok := strings.CutPrefix(command, "echo "); ok {
		return message
	}
	if command == "exit" || command == "quit" {
		return ""
	}
	return "OK"
}

// Port returns the ephemeral port the server listens on.
func (ts *TestServer) Port() int {
	return ts.listener.Addr().(*net.TCPAddr).Port
}

// Received returns a copy of every command line received so far,
// across all connections, in arrival order.
func (ts *TestServer) Received() []string {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	out := make([]string, len(ts.received))
	copy(out, ts.received)
	return out
}

// Close stops the listener and severs all live connections, so that
// blocked client reads observe EOF. Idempotent.
func (ts *TestServer) Close() {
	ts.mu.Lock()
	if ts.closed {
		ts.mu.Unlock()
		return
	}
	ts.closed = true
	ts.listener.Close()
	open := make([]net.Conn, 0, len(ts.conns))
	for connection := range ts.conns {
		open = append(open, connection)
	}
	ts.mu.Unlock()

	for _, connection := range open {
		connection.Close()
	}
	ts.wg.Wait()
}

func (ts *TestServer) acceptLoop() {
	defer ts.wg.Done()
	for {
		connection, err := ts.listener.Accept()
		if err != nil {
			return
		}
		ts.mu.Lock()
		if ts.closed {
			ts.mu.Unlock()
			connection.Close()
			return
		}
		ts.conns[connection] = struct{}{}
		ts.wg.Add(1)
		ts.mu.Unlock()
		go ts.serve(connection)
	}
}

func (ts *TestServer) serve(connection net.Conn) {
	defer ts.wg.Done()
	defer func() {
		ts.mu.Lock()
		delete(ts.conns, connection)
		ts.mu.Unlock()
		connection.Close()
	}()
	scanner := bufio.NewScanner(connection)
	for scanner.Scan() {
		command := scanner.Text()
		ts.mu.Lock()
		ts.received = append(ts.received, command)
		ts.mu.Unlock()
		response := ts.handler(command)
		if response == "" {
			return
		}
		if _, err := fmt.Fprintf(connection, "%s\n", response); err != nil {
			return
		}
	}
}
