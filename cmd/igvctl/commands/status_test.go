// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"errors"
	"net"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/seqview/igvctl/cmd/igvctl/cli"
	"github.com/seqview/igvctl/igv"
	"github.com/seqview/igvctl/lib/binhash"
	"github.com/seqview/igvctl/lib/config"
	"github.com/seqview/igvctl/lib/launchstate"
	"github.com/seqview/igvctl/lib/testutil"
)

// unusedPort returns a loopback port with nothing listening on it.
func unusedPort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()
	return port
}

func statusConfig(port int) *config.Config {
	cfg := config.Default()
	cfg.Viewer.Port = port
	cfg.Viewer.DialTimeout = "1s"
	return cfg
}

func TestRunStatusAnswering(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	server := igv.NewTestServer(t, nil)
	cfg := statusConfig(server.Port())

	var out bytes.Buffer
	if err := runStatus(context.Background(), cfg, discardLogger(), &out); err != nil {
		t.Fatalf("runStatus() error: %v", err)
	}
	report := out.String()
	if strings.Contains(report, "not answering") {
		t.Errorf("report = %q, want answering", report)
	}
	if !strings.Contains(report, "answering") {
		t.Errorf("report = %q, want the port line", report)
	}
	if !strings.Contains(report, "no record") {
		t.Errorf("report = %q, want the attach-only note", report)
	}
}

func TestRunStatusNotAnswering(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	cfg := statusConfig(unusedPort(t))

	var out bytes.Buffer
	err := runStatus(context.Background(), cfg, discardLogger(), &out)

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("runStatus() error = %v, want *cli.ExitError", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("exit code = %d, want 1", exitErr.Code)
	}
	if !strings.Contains(out.String(), "not answering") {
		t.Errorf("report = %q, want not answering", out.String())
	}
}

func TestRunStatusReportsLaunchRecord(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	server := igv.NewTestServer(t, nil)
	cfg := statusConfig(server.Port())

	binary := testutil.WriteExecutable(t, t.TempDir(), "fake-igv", []byte("#!/bin/sh\nsleep 60\n"))
	pin, err := binhash.Pin(binary)
	if err != nil {
		t.Fatalf("pinning fake viewer: %v", err)
	}

	statePath, err := launchstate.DefaultPath(cfg.Viewer.Port)
	if err != nil {
		t.Fatalf("DefaultPath() error: %v", err)
	}
	record := launchstate.Record{
		PID:            os.Getpid(),
		ProcessGroupID: os.Getpid(),
		Port:           cfg.Viewer.Port,
		Binary:         binary,
		BinaryPin:      pin,
		SnapshotDir:    "/data/shots",
		StartedAt:      time.Now(),
	}
	if err := launchstate.Write(statePath, record); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	var out bytes.Buffer
	if err := runStatus(context.Background(), cfg, discardLogger(), &out); err != nil {
		t.Fatalf("runStatus() error: %v", err)
	}
	report := out.String()
	for _, want := range []string{"running", binary, "/data/shots"} {
		if !strings.Contains(report, want) {
			t.Errorf("report = %q, want %q included", report, want)
		}
	}
	if strings.Contains(report, "changed since launch") {
		t.Errorf("report = %q, binary has not changed", report)
	}
}

func TestBinaryDrift(t *testing.T) {
	binary := testutil.WriteExecutable(t, t.TempDir(), "fake-igv", []byte("build one"))
	pin, err := binhash.Pin(binary)
	if err != nil {
		t.Fatalf("pinning: %v", err)
	}
	record := launchstate.Record{Binary: binary, BinaryPin: pin}

	if got := binaryDrift(record); got != "" {
		t.Errorf("binaryDrift() = %q, want empty for unchanged binary", got)
	}

	if err := os.WriteFile(binary, []byte("build two"), 0o755); err != nil {
		t.Fatalf("rewriting fake viewer: %v", err)
	}
	if got := binaryDrift(record); got != " (changed since launch)" {
		t.Errorf("binaryDrift() = %q, want changed annotation", got)
	}

	if err := os.Remove(binary); err != nil {
		t.Fatalf("removing fake viewer: %v", err)
	}
	if got := binaryDrift(record); got != " (missing on disk)" {
		t.Errorf("binaryDrift() = %q, want missing annotation", got)
	}

	if got := binaryDrift(launchstate.Record{Binary: binary}); got != "" {
		t.Errorf("binaryDrift() = %q, want empty without a recorded pin", got)
	}
}
