// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/seqview/igvctl/cmd/igvctl/cli"
	"github.com/seqview/igvctl/lib/consoleui"
)

func consoleCommand() *cli.Command {
	var target targetFlags

	return &cli.Command{
		Name:    "console",
		Summary: "Interactive command console for the viewer",
		Description: `Open a full-screen console on the viewer's command port: type a
command, see the response, scroll back through the transcript.

Lines are sent exactly as typed, like "igvctl exec" but without the
per-command connection. Up and down recall history; page keys and the
mouse wheel scroll the transcript; ctrl-c or ctrl-d on an empty line
leaves.`,
		Usage: "igvctl console [flags]",
		Examples: []cli.Example{
			{
				Description: "Open a console on the default viewer",
				Command:     "igvctl console",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("console", pflag.ContinueOnError)
			target.register(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) > 0 {
				return fmt.Errorf("console takes no positional arguments, got %q", args[0])
			}
			session, cfg, err := target.connect(ctx, logger)
			if err != nil {
				return err
			}
			defer session.Close()

			model := consoleui.New(session, address(cfg))
			program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("console: %w", err)
			}
			return nil
		},
	}
}
