// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"path/filepath"
	"testing"

	"github.com/seqview/igvctl/igv"
	"github.com/seqview/igvctl/lib/binhash"
	"github.com/seqview/igvctl/lib/testutil"
)

func TestLaunchRecordPinsBinary(t *testing.T) {
	binary := testutil.WriteExecutable(t, t.TempDir(), "fake-igv", []byte("#!/bin/sh\nexit 0\n"))
	pin, err := binhash.Pin(binary)
	if err != nil {
		t.Fatalf("pinning fake viewer: %v", err)
	}

	process := &igv.Process{PID: 4242, ProcessGroupID: 4242}
	record := launchRecord(binary, process, 60152, "/data/shots", discardLogger())

	if record.PID != 4242 || record.ProcessGroupID != 4242 {
		t.Errorf("record pids = %d/%d, want 4242/4242", record.PID, record.ProcessGroupID)
	}
	if record.Port != 60152 {
		t.Errorf("record.Port = %d, want 60152", record.Port)
	}
	if record.SnapshotDir != "/data/shots" {
		t.Errorf("record.SnapshotDir = %q, want /data/shots", record.SnapshotDir)
	}
	if record.Binary != binary {
		t.Errorf("record.Binary = %q, want %q", record.Binary, binary)
	}
	if record.BinaryPin != pin {
		t.Errorf("record.BinaryPin = %q, want %q", record.BinaryPin, pin)
	}
	if record.StartedAt.IsZero() {
		t.Error("record.StartedAt is zero")
	}
}

// An unresolvable binary leaves the path and pin empty rather than
// failing: the viewer is already running, and the record must still
// be written so stop can find it.
func TestLaunchRecordMissingBinary(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	record := launchRecord(missing, &igv.Process{PID: 7, ProcessGroupID: 7}, 60151, "", discardLogger())

	if record.Binary != "" {
		t.Errorf("record.Binary = %q, want empty", record.Binary)
	}
	if record.BinaryPin != "" {
		t.Errorf("record.BinaryPin = %q, want empty", record.BinaryPin)
	}
	if record.PID != 7 {
		t.Errorf("record.PID = %d, want 7", record.PID)
	}
}
