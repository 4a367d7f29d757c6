// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package igv

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/seqview/igvctl/lib/clock"
	"github.com/seqview/igvctl/lib/netutil"
)

// DefaultViewerBinary is the executable launched when a LaunchSpec
// does not name one.
const DefaultViewerBinary = "igv"

const (
	// portProbeTimeout bounds the pre-launch port check. The probe is
	// advisory; a slow host answers Inconclusive rather than blocking
	// the launch.
	portProbeTimeout = 500 * time.Millisecond

	// terminateGracePeriod is how long a terminated viewer gets to
	// exit on SIGTERM before the process group is killed outright.
	terminateGracePeriod = 5 * time.Second
)

// LaunchSpec describes how to start a viewer process.
type LaunchSpec struct {
	// Binary is the viewer executable. Default "igv", resolved via
	// PATH.
	Binary string

	// Port is the batch command port passed to the viewer and probed
	// before launch. Default 60151.
	Port int

	// PortFlag is the command-line flag carrying the port. Default
	// "--port".
	PortFlag string

	// SnapshotDir, when set, is applied to the session after Start
	// connects. Empty means the current working directory.
	SnapshotDir string

	// ExtraArgs are appended to the viewer command line after the
	// port flag.
	ExtraArgs []string

	// ReadyTimeout bounds the wait for the viewer's readiness banner.
	// Zero waits until the banner appears, the process exits, or ctx
	// is done.
	ReadyTimeout time.Duration

	// Logger receives the viewer's combined stdout and stderr, one
	// record per line. Default slog.Default().
	Logger *slog.Logger

	// Clock drives the readiness timeout. Default the real clock;
	// tests substitute a fake.
	Clock clock.Clock
}

func (spec LaunchSpec) withDefaults() LaunchSpec {
	if spec.Binary == "" {
		spec.Binary = DefaultViewerBinary
	}
	if spec.Port == 0 {
		spec.Port = DefaultPort
	}
	if spec.PortFlag == "" {
		spec.PortFlag = "--port"
	}
	if spec.Logger == nil {
		spec.Logger = slog.Default()
	}
	if spec.Clock == nil {
		spec.Clock = clock.Real()
	}
	return spec
}

// Process records a viewer started by Launch. The viewer runs in its
// own process group so that Terminate can take down the whole tree,
// JVM children included, without touching the caller's group.
type Process struct {
	PID            int
	ProcessGroupID int
}

// Launch starts the viewer and waits until it reports readiness by
// printing its listening banner. The process is not awaited beyond
// that: it keeps running after the caller exits, and a background
// goroutine reaps it whenever it does die. The port is probed first;
// a port already accepting connections fails fast with
// PortInUseError rather than letting two viewers race for it.
func Launch(ctx context.Context, spec LaunchSpec) (*Process, error) {
	spec = spec.withDefaults()

	switch netutil.ProbePort(DefaultHost, spec.Port, portProbeTimeout) {
	case netutil.ProbeInUse:
		return nil, &PortInUseError{Port: spec.Port}
	case netutil.ProbeInconclusive:
		spec.Logger.Warn("port preflight inconclusive, launching anyway", "port", spec.Port)
	}

	args := append([]string{spec.PortFlag, strconv.Itoa(spec.Port)}, spec.ExtraArgs...)
	command := exec.Command(spec.Binary, args...)

	outputReader, outputWriter, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("igv: creating output pipe: %w", err)
	}
	command.Stdout = outputWriter
	command.Stderr = outputWriter
	command.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := command.Start(); err != nil {
		outputReader.Close()
		outputWriter.Close()
		return nil, fmt.Errorf("igv: starting viewer %s: %w", spec.Binary, err)
	}
	// The child holds its own copy of the write end; ours must close
	// so the scanner sees EOF when the viewer exits.
	outputWriter.Close()

	process := &Process{
		PID:            command.Process.Pid,
		ProcessGroupID: command.Process.Pid,
	}

	ready := make(chan struct{})
	var readyOnce sync.Once
	banner := fmt.Sprintf("Listening on port %d", spec.Port)
	go func() {
		scanner := bufio.NewScanner(outputReader)
		for scanner.Scan() {
			line := scanner.Text()
			spec.Logger.Info("viewer output", "line", line)
			if strings.Contains(line, banner) {
				readyOnce.Do(func() { close(ready) })
			}
		}
		// Keep draining until EOF even after readiness so a chatty
		// viewer never blocks on a full pipe.
		outputReader.Close()
	}()

	exited := make(chan struct{})
	go func() {
		_ = command.Wait()
		close(exited)
	}()

	var timeout <-chan time.Time
	if spec.ReadyTimeout > 0 {
		timeout = spec.Clock.After(spec.ReadyTimeout)
	}

	select {
	case <-ready:
		return process, nil
	case <-exited:
		return nil, fmt.Errorf("igv: viewer %s exited before reporting readiness", spec.Binary)
	case <-timeout:
		_ = process.Terminate(spec.Logger)
		return nil, fmt.Errorf("igv: viewer did not report readiness within %s", spec.ReadyTimeout)
	case <-ctx.Done():
		_ = process.Terminate(spec.Logger)
		return nil, fmt.Errorf("igv: waiting for viewer readiness: %w", ctx.Err())
	}
}

// Start launches a viewer, connects a session to it, and points its
// snapshot output at spec.SnapshotDir or the current working
// directory. On connect failure the viewer is left running and its
// pid is reported in the error so the caller can attach or clean up.
func Start(ctx context.Context, spec LaunchSpec, options ...Option) (*Session, error) {
	spec = spec.withDefaults()

	process, err := Launch(ctx, spec)
	if err != nil {
		return nil, err
	}

	session, err := Open(ctx, append([]Option{WithPort(spec.Port)}, options...)...)
	if err != nil {
		return nil, fmt.Errorf("igv: viewer running as pid %d but connecting failed: %w", process.PID, err)
	}
	session.process = process

	directory := spec.SnapshotDir
	if directory == "" {
		directory, err = os.Getwd()
		if err != nil {
			session.Close()
			return nil, fmt.Errorf("igv: viewer running as pid %d but resolving working directory failed: %w", process.PID, err)
		}
	}
	if _, err := session.SetSnapshotDir(directory); err != nil {
		session.Close()
		return nil, fmt.Errorf("igv: viewer running as pid %d but setting snapshot directory failed: %w", process.PID, err)
	}
	return session, nil
}

// Terminate signals SIGTERM to the viewer's process group and arms a
// delayed SIGKILL for anything still alive after the grace period. A
// group that is already gone is success, not an error.
func (p *Process) Terminate(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := syscall.Kill(-p.ProcessGroupID, syscall.SIGTERM); err != nil {
		if errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return fmt.Errorf("igv: signaling viewer process group %d: %w", p.ProcessGroupID, err)
	}
	logger.Info("sent SIGTERM to viewer process group", "pgid", p.ProcessGroupID)
	go func() {
		time.Sleep(terminateGracePeriod)
		// Best effort; the group is usually gone by now.
		_ = syscall.Kill(-p.ProcessGroupID, syscall.SIGKILL)
	}()
	return nil
}

// Alive reports whether the viewer process still exists, using the
// null signal.
func (p *Process) Alive() bool {
	process, err := os.FindProcess(p.PID)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
