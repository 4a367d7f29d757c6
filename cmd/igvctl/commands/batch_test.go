// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"
)

func TestRunBatchTranscript(t *testing.T) {
	session, server := newTestSession(t, nil)

	script := strings.Join([]string{
		"# nightly setup",
		"genome hg19",
		"",
		"echo checkpoint",
	}, "\n")

	var out bytes.Buffer
	if err := runBatch(context.Background(), session, strings.NewReader(script), &out); err != nil {
		t.Fatalf("runBatch() error: %v", err)
	}

	want := "> genome hg19\nOK\n> echo checkpoint\ncheckpoint\n"
	if out.String() != want {
		t.Errorf("transcript = %q, want %q", out.String(), want)
	}
	if got := server.Received(); !slices.Equal(got, []string{"genome hg19", "echo checkpoint"}) {
		t.Errorf("received = %v, want the two commands", got)
	}
}

// A script ending in exit gets a transcript line with no response,
// mirroring the viewer dropping the connection without answering.
func TestRunBatchDroppedResponse(t *testing.T) {
	session, _ := newTestSession(t, nil)

	var out bytes.Buffer
	if err := runBatch(context.Background(), session, strings.NewReader("echo bye\nexit\n"), &out); err != nil {
		t.Fatalf("runBatch() error: %v", err)
	}
	want := "> echo bye\nbye\n> exit\n"
	if out.String() != want {
		t.Errorf("transcript = %q, want %q", out.String(), want)
	}
}

// A failed line still prints the transcript of everything that ran.
func TestRunBatchPartialTranscriptOnError(t *testing.T) {
	session, _ := newTestSession(t, nil)
	session.Close()

	var out bytes.Buffer
	err := runBatch(context.Background(), session, strings.NewReader("genome hg19\n"), &out)
	if err == nil {
		t.Fatal("runBatch() on closed session succeeded, want error")
	}
	if out.Len() != 0 {
		t.Errorf("transcript = %q, want empty when nothing ran", out.String())
	}
}
