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
)

func batchCommand() *cli.Command {
	var target targetFlags

	return &cli.Command{
		Name:    "batch",
		Summary: "Run a batch script line by line",
		Description: `Run a viewer batch script over the command port, one line per round
trip, echoing each command and its response.

Scripts use the viewer's own batch format: one command per line, with
blank lines and #-comments ignored. Execution is sequential and stops
at the first failed line, leaving the viewer in the state the script
reached. Pass "-" to read the script from standard input.`,
		Usage: "igvctl batch [flags] <script>",
		Examples: []cli.Example{
			{
				Description: "Run a script file",
				Command:     "igvctl batch session-setup.bat",
			},
			{
				Description: "Pipe commands from another tool",
				Command:     "render-loci | igvctl batch -",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("batch", pflag.ContinueOnError)
			target.register(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("batch takes exactly one script path, got %d arguments", len(args))
			}

			var script io.Reader = os.Stdin
			if args[0] != "-" {
				file, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer file.Close()
				script = file
			}

			session, _, err := target.connect(ctx, logger)
			if err != nil {
				return err
			}
			defer session.Close()
			return runBatch(ctx, session, script, os.Stdout)
		},
	}
}

// runBatch streams the script through the session and prints a
// transcript. Results already executed are printed even when a later
// line fails, so the transcript shows how far the script got.
func runBatch(ctx context.Context, session *igv.Session, script io.Reader, out io.Writer) error {
	results, err := session.RunScript(ctx, script)
	for _, result := range results {
		fmt.Fprintf(out, "> %s\n", result.Command)
		if result.Response != "" {
			fmt.Fprintln(out, result.Response)
		}
	}
	return err
}
