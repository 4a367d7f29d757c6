// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/seqview/igvctl/cmd/igvctl/cli"
	"github.com/seqview/igvctl/lib/version"
)

// Root builds and returns the complete igvctl command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "igvctl",
		Description: `igvctl: drive a genome viewer from the command line.

Launch and stop viewer processes, send batch commands over the
viewer's command port, run snapshot playbooks, and work interactively
in a console.`,
		Subcommands: []*cli.Command{
			launchCommand(),
			stopCommand(),
			statusCommand(),
			execCommand(),
			batchCommand(),
			runCommand(),
			snapshotCommand(),
			consoleCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(_ context.Context, args []string, _ *slog.Logger) error {
					fmt.Printf("igvctl %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Start a viewer and wait for its command port",
				Command:     "igvctl launch",
			},
			{
				Description: "Check whether a viewer is running and answering",
				Command:     "igvctl status",
			},
			{
				Description: "Jump the running viewer to a locus",
				Command:     "igvctl exec goto chr8:127,735,000-127,742,000",
			},
			{
				Description: "Run a batch script against the viewer",
				Command:     "igvctl batch session-setup.txt",
			},
			{
				Description: "Run a playbook, writing a JSON run report",
				Command:     "igvctl run nightly-qc.jsonc --var SAMPLE=NA12878 --report report.json",
			},
			{
				Description: "Re-run a playbook on every edit",
				Command:     "igvctl run draft.jsonc --watch",
			},
			{
				Description: "Capture a snapshot and wait for the file to land",
				Command:     "igvctl snapshot overview.png --wait",
			},
			{
				Description: "Work interactively against the running viewer",
				Command:     "igvctl console",
			},
		},
	}
}
