// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package igv

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// readyViewerScript mimics a viewer that prints its listening banner
// and then stays up. The port flag is $1, its value $2.
const readyViewerScript = "#!/bin/sh\necho \"Listening on port $2\"\nsleep 60\n"

func writeFakeViewer(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-igv")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("writing fake viewer: %v", err)
	}
	return path
}

func waitForExit(t *testing.T, process *Process) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for process.Alive() {
		if time.Now().After(deadline) {
			t.Fatal("viewer process still alive")
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestLaunchReady(t *testing.T) {
	process, err := Launch(context.Background(), LaunchSpec{
		Binary: writeFakeViewer(t, readyViewerScript),
		Port:   freePort(t),
		Logger: discardLogger(),
	})
	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	t.Cleanup(func() { _ = process.Terminate(discardLogger()) })

	if process.PID <= 0 {
		t.Errorf("Process.PID = %d, want positive", process.PID)
	}
	if process.ProcessGroupID != process.PID {
		t.Errorf("Process.ProcessGroupID = %d, want %d (own group)", process.ProcessGroupID, process.PID)
	}
	if !process.Alive() {
		t.Error("Alive() = false for freshly launched viewer")
	}
}

func TestTerminate(t *testing.T) {
	process, err := Launch(context.Background(), LaunchSpec{
		Binary: writeFakeViewer(t, readyViewerScript),
		Port:   freePort(t),
		Logger: discardLogger(),
	})
	if err != nil {
		t.Fatalf("Launch() error: %v", err)
	}

	if err := process.Terminate(discardLogger()); err != nil {
		t.Fatalf("Terminate() error: %v", err)
	}
	waitForExit(t, process)

	// Terminating an already-gone group is success.
	if err := process.Terminate(discardLogger()); err != nil {
		t.Errorf("Terminate() on dead group error: %v, want nil", err)
	}
}

func TestLaunchPortInUse(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()
	port := listener.Addr().(*net.TCPAddr).Port

	_, err = Launch(context.Background(), LaunchSpec{
		Binary: writeFakeViewer(t, readyViewerScript),
		Port:   port,
		Logger: discardLogger(),
	})
	var inUse *PortInUseError
	if !errors.As(err, &inUse) {
		t.Fatalf("Launch() error = %v, want *PortInUseError", err)
	}
	if inUse.Port != port {
		t.Errorf("PortInUseError.Port = %d, want %d", inUse.Port, port)
	}
}

func TestLaunchExitsBeforeReady(t *testing.T) {
	_, err := Launch(context.Background(), LaunchSpec{
		Binary: writeFakeViewer(t, "#!/bin/sh\necho starting up\nexit 3\n"),
		Port:   freePort(t),
		Logger: discardLogger(),
	})
	if err == nil {
		t.Fatal("Launch() succeeded, want early-exit error")
	}
	if !strings.Contains(err.Error(), "exited before reporting readiness") {
		t.Errorf("Launch() error = %v, want early-exit message", err)
	}
}

func TestLaunchReadyTimeout(t *testing.T) {
	_, err := Launch(context.Background(), LaunchSpec{
		Binary:       writeFakeViewer(t, "#!/bin/sh\nsleep 60\n"),
		Port:         freePort(t),
		ReadyTimeout: 100 * time.Millisecond,
		Logger:       discardLogger(),
	})
	if err == nil {
		t.Fatal("Launch() succeeded, want readiness timeout")
	}
	if !strings.Contains(err.Error(), "did not report readiness") {
		t.Errorf("Launch() error = %v, want readiness timeout message", err)
	}
}

func TestLaunchContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(100*time.Millisecond, cancel)
	defer timer.Stop()

	_, err := Launch(ctx, LaunchSpec{
		Binary: writeFakeViewer(t, "#!/bin/sh\nsleep 60\n"),
		Port:   freePort(t),
		Logger: discardLogger(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Launch() error = %v, want context.Canceled", err)
	}
}

func TestLaunchMissingBinary(t *testing.T) {
	_, err := Launch(context.Background(), LaunchSpec{
		Binary: filepath.Join(t.TempDir(), "does-not-exist"),
		Port:   freePort(t),
		Logger: discardLogger(),
	})
	if err == nil {
		t.Fatal("Launch() with missing binary succeeded, want error")
	}
	if !strings.Contains(err.Error(), "starting viewer") {
		t.Errorf("Launch() error = %v, want start failure", err)
	}
}

// Start leaves the viewer running when the connection cannot be
// established and says so, naming the pid.
func TestStartConnectFailure(t *testing.T) {
	// The fake viewer claims readiness but listens on nothing, so the
	// connect step must fail. It exits on its own shortly after.
	script := "#!/bin/sh\necho \"Listening on port $2\"\nsleep 2\n"
	_, err := Start(context.Background(), LaunchSpec{
		Binary: writeFakeViewer(t, script),
		Port:   freePort(t),
		Logger: discardLogger(),
	}, WithDialTimeout(time.Second), WithLogger(discardLogger()))
	if err == nil {
		t.Fatal("Start() succeeded with nothing listening, want error")
	}
	if !strings.Contains(err.Error(), "connecting failed") {
		t.Errorf("Start() error = %v, want connect failure naming the pid", err)
	}
}
