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

func execCommand() *cli.Command {
	var target targetFlags

	return &cli.Command{
		Name:    "exec",
		Summary: "Send one raw command to the viewer",
		Description: `Send a single command to the viewer exactly as given and print the
response line.

Arguments pass through untranslated, so any command the viewer's
batch language understands works here, including ones igvctl has no
dedicated verb for. The response is printed as received, error text
included; the viewer reports problems in the response line rather
than on the connection.`,
		Usage: "igvctl exec [flags] <command> [args...]",
		Examples: []cli.Example{
			{
				Description: "Jump to a locus",
				Command:     "igvctl exec goto chr1:155,160,000-155,170,000",
			},
			{
				Description: "Load a track by URL",
				Command:     "igvctl exec load https://example.org/sample.bam",
			},
			{
				Description: "Set a display preference",
				Command:     "igvctl exec preference SAM.SHOW_SOFT_CLIPPED true",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("exec", pflag.ContinueOnError)
			target.register(flagSet)
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) == 0 {
				return fmt.Errorf("exec needs a command, e.g. igvctl exec echo")
			}
			session, _, err := target.connect(ctx, logger)
			if err != nil {
				return err
			}
			defer session.Close()
			return runExec(session, args, os.Stdout)
		},
	}
}

func runExec(session *igv.Session, args []string, out io.Writer) error {
	response, err := session.Send(args[0], argsToAny(args[1:])...)
	if err != nil {
		return err
	}
	if response != "" {
		fmt.Fprintln(out, response)
	}
	return nil
}

func argsToAny(args []string) []any {
	converted := make([]any, len(args))
	for i, arg := range args {
		converted[i] = arg
	}
	return converted
}
