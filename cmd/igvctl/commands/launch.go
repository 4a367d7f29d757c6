// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/seqview/igvctl/cmd/igvctl/cli"
	"github.com/seqview/igvctl/igv"
	"github.com/seqview/igvctl/lib/binhash"
	"github.com/seqview/igvctl/lib/config"
	"github.com/seqview/igvctl/lib/launchstate"
)

func launchCommand() *cli.Command {
	var target targetFlags
	var binary string
	var snapshotDir string

	return &cli.Command{
		Name:    "launch",
		Summary: "Start a viewer and wait for its command port",
		Description: `Start a viewer process and wait until it reports readiness on its
batch command port.

The viewer runs in its own process group and keeps running after
igvctl exits. A launch record is written under the user state
directory so that "igvctl stop" and "igvctl status" can find the
process later. The port is probed first; a port already accepting
connections fails fast rather than racing two viewers for it.`,
		Usage: "igvctl launch [flags]",
		Examples: []cli.Example{
			{
				Description: "Launch with config defaults",
				Command:     "igvctl launch",
			},
			{
				Description: "Launch a specific build on an alternate port",
				Command:     "igvctl launch --binary ~/igv-2.17/igv.sh --port 60152",
			},
			{
				Description: "Point snapshots somewhere before any command runs",
				Command:     "igvctl launch --snapshot-dir /data/shots",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("launch", pflag.ContinueOnError)
			target.register(flagSet)
			flagSet.StringVar(&binary, "binary", "", "viewer executable (overrides config)")
			flagSet.StringVar(&snapshotDir, "snapshot-dir", "", "initial snapshot directory (overrides config)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("launch takes no positional arguments, got %q", args[0])
			}
			cfg, err := target.resolve()
			if err != nil {
				return err
			}
			if binary != "" {
				cfg.Viewer.Binary = binary
			}
			if snapshotDir != "" {
				cfg.Snapshots.Dir = snapshotDir
			}
			return runLaunch(ctx, cfg, logger, os.Stdout)
		},
	}
}

// runLaunch starts the viewer, connects once to point its snapshot
// directory, and records the process for later stop/status calls.
func runLaunch(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	spec := igv.LaunchSpec{
		Binary:       cfg.Viewer.Binary,
		Port:         cfg.Viewer.Port,
		PortFlag:     cfg.Viewer.PortFlag,
		SnapshotDir:  cfg.Snapshots.Dir,
		ExtraArgs:    cfg.Viewer.ExtraArgs,
		ReadyTimeout: cfg.Viewer.ReadyTimeoutDuration(),
		Logger:       logger,
	}

	session, err := igv.Start(ctx, spec,
		igv.WithHost(cfg.Viewer.Host),
		igv.WithDialTimeout(cfg.Viewer.DialTimeoutDuration()),
		igv.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	defer session.Close()

	process := session.Process()
	record := launchRecord(cfg.Viewer.Binary, process, cfg.Viewer.Port, session.SnapshotDir(), logger)

	statePath, err := launchstate.DefaultPath(cfg.Viewer.Port)
	if err != nil {
		return fmt.Errorf("viewer running as pid %d but state path unavailable: %w", process.PID, err)
	}
	if err := launchstate.Write(statePath, record); err != nil {
		return fmt.Errorf("viewer running as pid %d but writing launch record failed: %w", process.PID, err)
	}

	fmt.Fprintf(out, "viewer running: pid %d, port %d\n", process.PID, cfg.Viewer.Port)
	fmt.Fprintf(out, "snapshots: %s\n", session.SnapshotDir())
	return nil
}

// launchRecord assembles the state record for a freshly launched
// viewer. The binary is pinned by content digest, not just path:
// installs get swapped underneath stable paths. A binary that cannot
// be resolved or hashed degrades to a warning; the record is still
// useful without it.
func launchRecord(binary string, process *igv.Process, port int, snapshotDir string, logger *slog.Logger) launchstate.Record {
	record := launchstate.Record{
		PID:            process.PID,
		ProcessGroupID: process.ProcessGroupID,
		Port:           port,
		SnapshotDir:    snapshotDir,
		StartedAt:      time.Now(),
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		logger.Warn("resolving viewer binary failed", "binary", binary, "error", err)
		return record
	}
	if absolute, err := filepath.Abs(resolved); err == nil {
		record.Binary = absolute
	} else {
		record.Binary = resolved
	}
	if pin, err := binhash.Pin(record.Binary); err == nil {
		record.BinaryPin = pin
	} else {
		logger.Warn("pinning viewer binary failed", "binary", record.Binary, "error", err)
	}
	return record
}
