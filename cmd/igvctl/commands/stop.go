// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/seqview/igvctl/cmd/igvctl/cli"
	"github.com/seqview/igvctl/igv"
	"github.com/seqview/igvctl/lib/config"
	"github.com/seqview/igvctl/lib/launchstate"
)

func stopCommand() *cli.Command {
	var target targetFlags

	return &cli.Command{
		Name:    "stop",
		Summary: "Terminate a viewer started with launch",
		Description: `Terminate the viewer recorded for the configured port.

The whole process group receives SIGTERM, which covers launcher
scripts that exec a JVM child. A viewer that ignores the signal is
killed after a grace period. The launch record is cleared either way;
a record whose process already exited is simply cleaned up.

Only viewers started with "igvctl launch" can be stopped: attaching
to an already-running viewer leaves its lifecycle alone.`,
		Usage: "igvctl stop [flags]",
		Examples: []cli.Example{
			{
				Description: "Stop the viewer on the default port",
				Command:     "igvctl stop",
			},
			{
				Description: "Stop the viewer recorded for port 60152",
				Command:     "igvctl stop --port 60152",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("stop", pflag.ContinueOnError)
			target.register(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("stop takes no positional arguments, got %q", args[0])
			}
			cfg, err := target.resolve()
			if err != nil {
				return err
			}
			return runStop(cfg, logger, os.Stdout)
		},
	}
}

func runStop(cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	statePath, err := launchstate.DefaultPath(cfg.Viewer.Port)
	if err != nil {
		return err
	}
	record, alive, err := launchstate.Check(statePath)
	if err != nil {
		return err
	}
	if record.PID == 0 {
		return fmt.Errorf("no launch record for port %d; was the viewer started with igvctl launch?", cfg.Viewer.Port)
	}
	if !alive {
		fmt.Fprintf(out, "viewer pid %d already exited; clearing stale record\n", record.PID)
		return launchstate.Clear(statePath)
	}

	process := &igv.Process{PID: record.PID, ProcessGroupID: record.ProcessGroupID}
	if err := process.Terminate(logger); err != nil {
		return err
	}
	if err := launchstate.Clear(statePath); err != nil {
		return err
	}
	fmt.Fprintf(out, "stopping viewer pid %d (port %d)\n", record.PID, cfg.Viewer.Port)
	return nil
}
