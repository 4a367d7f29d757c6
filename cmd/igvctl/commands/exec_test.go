// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"slices"
	"testing"
	"time"

	"github.com/seqview/igvctl/igv"
)

// newTestSession connects a session to a scripted fake viewer.
func newTestSession(t *testing.T, handler func(string) string) (*igv.Session, *igv.TestServer) {
	t.Helper()
	server := igv.NewTestServer(t, handler)
	session, err := igv.Open(context.Background(),
		igv.WithPort(server.Port()),
		igv.WithDialTimeout(time.Second),
		igv.WithLogger(discardLogger()),
	)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(session.Close)
	return session, server
}

func TestRunExecPrintsResponse(t *testing.T) {
	session, server := newTestSession(t, nil)

	var out bytes.Buffer
	if err := runExec(session, []string{"echo", "hello"}, &out); err != nil {
		t.Fatalf("runExec() error: %v", err)
	}
	if out.String() != "hello\n" {
		t.Errorf("output = %q, want %q", out.String(), "hello\n")
	}
	if got := server.Received(); !slices.Equal(got, []string{"echo hello"}) {
		t.Errorf("received = %v, want [echo hello]", got)
	}
}

func TestRunExecJoinsArguments(t *testing.T) {
	session, server := newTestSession(t, nil)

	var out bytes.Buffer
	if err := runExec(session, []string{"goto", "chr1:155,160,000-155,170,000"}, &out); err != nil {
		t.Fatalf("runExec() error: %v", err)
	}
	want := []string{"goto chr1:155,160,000-155,170,000"}
	if got := server.Received(); !slices.Equal(got, want) {
		t.Errorf("received = %v, want %v", got, want)
	}
}

// A viewer that drops the connection instead of answering (exit does
// this) produces no output and no error.
func TestRunExecSilentOnDroppedResponse(t *testing.T) {
	session, _ := newTestSession(t, nil)

	var out bytes.Buffer
	if err := runExec(session, []string{"exit"}, &out); err != nil {
		t.Fatalf("runExec() error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("output = %q, want empty", out.String())
	}
}
