// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/seqview/igvctl/cmd/igvctl/cli"
	"github.com/seqview/igvctl/igv"
	"github.com/seqview/igvctl/lib/snapwatch"
)

func snapshotCommand() *cli.Command {
	var target targetFlags
	var wait bool
	var waitTimeout time.Duration

	return &cli.Command{
		Name:    "snapshot",
		Summary: "Capture the current viewer window to an image",
		Description: `Ask the viewer to write a snapshot of its current window.

With no argument the viewer picks a name from the visible locus and
writes into its current snapshot directory. With a filename the image
lands at that path; a path outside the current snapshot directory
retargets the directory for the one capture and restores it after.

The viewer acknowledges the command before the image hits disk. Pass
--wait to block until the file actually appears, which needs an
explicit filename to watch for.`,
		Usage: "igvctl snapshot [flags] [filename]",
		Examples: []cli.Example{
			{
				Description: "Capture with a viewer-chosen name",
				Command:     "igvctl snapshot",
			},
			{
				Description: "Capture to a specific file and wait for it",
				Command:     "igvctl snapshot --wait /data/shots/brca1.png",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("snapshot", pflag.ContinueOnError)
			target.register(flagSet)
			flagSet.BoolVar(&wait, "wait", false, "block until the snapshot file exists")
			flagSet.DurationVar(&waitTimeout, "timeout", 0, "bound for --wait (default from config)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 1 {
				return fmt.Errorf("snapshot takes at most one filename, got %d arguments", len(args))
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			session, cfg, err := target.connect(ctx, logger)
			if err != nil {
				return err
			}
			defer session.Close()
			timeout := waitTimeout
			if timeout == 0 {
				timeout = cfg.Snapshots.WaitTimeoutDuration()
			}
			return runSnapshot(ctx, session, path, wait, timeout, os.Stdout)
		},
	}
}

func runSnapshot(ctx context.Context, session *igv.Session, path string, wait bool, timeout time.Duration, out io.Writer) error {
	if !wait {
		if _, err := session.Snapshot(path); err != nil {
			return err
		}
		if path == "" {
			fmt.Fprintln(out, "snapshot requested (viewer-chosen name)")
		} else {
			fmt.Fprintf(out, "snapshot requested: %s\n", path)
		}
		return nil
	}

	if path == "" {
		return fmt.Errorf("snapshot --wait needs an explicit filename to watch for")
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	// Watch the directory before sending the command; a capture that
	// completes between the send and the watch would otherwise never
	// be seen.
	watcher, err := snapwatch.New(filepath.Dir(absolute))
	if err != nil {
		return err
	}
	defer watcher.Close()

	if _, err := session.Snapshot(absolute); err != nil {
		return err
	}
	if err := watcher.Wait(ctx, filepath.Base(absolute), timeout); err != nil {
		return err
	}
	fmt.Fprintf(out, "snapshot written: %s\n", absolute)
	return nil
}
