// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/seqview/igvctl/cmd/igvctl/cli"
	"github.com/seqview/igvctl/lib/binhash"
	"github.com/seqview/igvctl/lib/config"
	"github.com/seqview/igvctl/lib/launchstate"
)

func statusCommand() *cli.Command {
	var target targetFlags

	return &cli.Command{
		Name:    "status",
		Summary: "Report viewer process and port state",
		Description: `Report what igvctl knows about the configured viewer: the launch
record (if any), whether that process is still alive, and whether the
command port answers an echo probe.

Exits 0 when the port answers and 1 when it does not, so the command
doubles as a readiness check in scripts.`,
		Usage: "igvctl status [flags]",
		Examples: []cli.Example{
			{
				Description: "Check the default viewer",
				Command:     "igvctl status",
			},
			{
				Description: "Gate a script on viewer readiness",
				Command:     "igvctl status || igvctl launch",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("status", pflag.ContinueOnError)
			target.register(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("status takes no positional arguments, got %q", args[0])
			}
			cfg, err := target.resolve()
			if err != nil {
				return err
			}
			return runStatus(ctx, cfg, logger, os.Stdout)
		},
	}
}

func runStatus(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	writer := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(writer, "viewer\t%s\n", address(cfg))

	statePath, err := launchstate.DefaultPath(cfg.Viewer.Port)
	if err != nil {
		return err
	}
	record, alive, err := launchstate.Check(statePath)
	if err != nil {
		return err
	}
	if record.PID == 0 {
		fmt.Fprintf(writer, "launched\tno record (attach-only)\n")
	} else {
		state := "exited"
		if alive {
			state = "running"
		}
		fmt.Fprintf(writer, "launched\t%s\n", record.StartedAt.Format(time.RFC3339))
		fmt.Fprintf(writer, "process\tpid %d, %s\n", record.PID, state)
		if record.Binary != "" {
			fmt.Fprintf(writer, "binary\t%s%s\n", record.Binary, binaryDrift(record))
		}
		if record.SnapshotDir != "" {
			fmt.Fprintf(writer, "snapshots\t%s\n", record.SnapshotDir)
		}
	}

	answering := probePort(ctx, cfg, logger)
	if answering {
		fmt.Fprintf(writer, "port\tanswering\n")
	} else {
		fmt.Fprintf(writer, "port\tnot answering\n")
	}
	if err := writer.Flush(); err != nil {
		return err
	}
	if !answering {
		return &cli.ExitError{Code: 1}
	}
	return nil
}

// probePort reports whether the command port completes an echo round
// trip. Any failure, connect or response, reads as "not answering";
// the distinction does not matter to a caller deciding whether to
// send commands.
func probePort(ctx context.Context, cfg *config.Config, logger *slog.Logger) bool {
	session, err := dial(ctx, cfg, logger)
	if err != nil {
		logger.Debug("port probe failed", "address", address(cfg), "error", err)
		return false
	}
	defer session.Close()
	response, err := session.Echo("ready")
	if err != nil {
		logger.Debug("echo probe failed", "address", address(cfg), "error", err)
		return false
	}
	return response != ""
}

// binaryDrift annotates the recorded binary path when the executable
// on disk no longer matches the content pin taken at launch.
func binaryDrift(record launchstate.Record) string {
	if record.BinaryPin == "" {
		return ""
	}
	pin, err := binhash.Pin(record.Binary)
	if err != nil {
		return " (missing on disk)"
	}
	if pin != record.BinaryPin {
		return " (changed since launch)"
	}
	return ""
}
