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
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"

	"github.com/seqview/igvctl/cmd/igvctl/cli"
	"github.com/seqview/igvctl/igv"
	"github.com/seqview/igvctl/lib/archive"
	"github.com/seqview/igvctl/lib/config"
	"github.com/seqview/igvctl/lib/playbook"
)

// watchDebounce is how long after the last file event a re-run waits.
// Editors burst several events per save.
const watchDebounce = 500 * time.Millisecond

// runSettings carries the run command's flag values past command
// dispatch into the testable core.
type runSettings struct {
	overrides   map[string]string
	snapshotDir string
	reportPath  string
	archivePath string
}

func runCommand() *cli.Command {
	var target targetFlags
	var varFlags []string
	var snapshotDir string
	var reportPath string
	var archivePath string
	var dryRun bool
	var watch bool

	return &cli.Command{
		Name:    "run",
		Summary: "Run a playbook against the viewer",
		Description: `Run a playbook: a JSONC file of declared variables and steps that
drives the viewer through a reproducible session.

Bare names are resolved against the configured playbook directory,
so "igvctl run nightly-qc" finds nightly-qc.jsonc there. Variables
resolve from --var flags, then config vars, then the environment,
then declared defaults; a variable with none of these fails before
anything is sent.

--dry-run prints the exact command lines without connecting.
--report writes a JSON record of every step, response, and timing.
--archive bundles the captured snapshots into a .tar.zst afterwards.
--watch keeps running, re-running the playbook whenever its file
changes, which turns the viewer into a live preview while editing.`,
		Usage: "igvctl run [flags] <playbook>",
		Examples: []cli.Example{
			{
				Description: "Run a playbook from the configured directory",
				Command:     "igvctl run nightly-qc",
			},
			{
				Description: "Override a variable and keep the evidence",
				Command:     "igvctl run nightly-qc --var SAMPLE=NA12878 --report report.json",
			},
			{
				Description: "Bundle the snapshots for the case file",
				Command:     "igvctl run nightly-qc --archive nightly-qc.tar.zst",
			},
			{
				Description: "Re-run on every edit while tuning loci",
				Command:     "igvctl run draft.jsonc --watch",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("run", pflag.ContinueOnError)
			target.register(flagSet)
			flagSet.StringArrayVar(&varFlags, "var", nil, "playbook variable as NAME=value (repeatable)")
			flagSet.StringVar(&snapshotDir, "snapshot-dir", "", "snapshot directory (overrides playbook)")
			flagSet.StringVar(&reportPath, "report", "", "write a JSON run report to this path")
			flagSet.StringVar(&archivePath, "archive", "", "bundle captured snapshots into this archive")
			flagSet.BoolVar(&dryRun, "dry-run", false, "print the resolved command lines without connecting")
			flagSet.BoolVar(&watch, "watch", false, "re-run the playbook when its file changes")
			return flagSet
		},
		Run: func(ctx context.Context, args []string, logger *slog.Logger) error {
			if len(args) != 1 {
				return fmt.Errorf("run takes exactly one playbook, got %d arguments", len(args))
			}
			cfg, err := target.resolve()
			if err != nil {
				return err
			}
			path, err := resolvePlaybookPath(args[0], cfg.Playbooks.Dir)
			if err != nil {
				return err
			}
			overrides, err := mergeVariableFlags(cfg.Playbooks.Vars, varFlags)
			if err != nil {
				return err
			}
			settings := runSettings{
				overrides:   overrides,
				snapshotDir: snapshotDir,
				reportPath:  reportPath,
				archivePath: resolveArchivePath(archivePath, cfg.Snapshots.ArchiveDir),
			}

			if dryRun {
				return planPlaybook(path, overrides, os.Stdout)
			}

			session, err := dial(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer session.Close()

			if watch {
				return watchPlaybook(ctx, session, cfg, path, settings, logger, os.Stdout)
			}
			return runPlaybook(ctx, session, cfg, path, settings, logger, os.Stdout)
		},
	}
}

// runPlaybook reads, resolves, and runs one playbook over an open
// session. The playbook is re-read on every call so a watch loop
// picks up edits.
func runPlaybook(ctx context.Context, session *igv.Session, cfg *config.Config, path string, settings runSettings, logger *slog.Logger, out io.Writer) error {
	content, err := playbook.ReadFile(path)
	if err != nil {
		return err
	}
	variables, err := playbook.ResolveVariables(content.Variables, settings.overrides, os.Getenv)
	if err != nil {
		return err
	}

	snapshotDir := settings.snapshotDir
	if snapshotDir == "" {
		snapshotDir = cfg.Snapshots.Dir
	}

	report, runErr := playbook.Run(ctx, session, content, playbook.RunOptions{
		Variables:   variables,
		SnapshotDir: snapshotDir,
		Logger:      logger,
	})

	// The report is written even for failed runs; a report of how far
	// the run got is most useful exactly then.
	if report != nil && settings.reportPath != "" {
		if err := playbook.WriteReport(settings.reportPath, report); err != nil {
			if runErr == nil {
				return err
			}
			logger.Warn("writing run report failed", "path", settings.reportPath, "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	fmt.Fprintf(out, "playbook %s: %d steps completed\n", content.Name, len(report.Steps))
	if report.SnapshotDir != "" {
		fmt.Fprintf(out, "snapshots: %s\n", report.SnapshotDir)
	}

	if settings.archivePath != "" {
		paths := capturedSnapshots(report)
		if len(paths) == 0 {
			return fmt.Errorf("archive requested but playbook %s captured no snapshots", content.Name)
		}
		manifest, err := archive.Create(settings.archivePath, paths, archive.Info{Playbook: content.Name})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "archive: %s (%d snapshots)\n", settings.archivePath, len(manifest.Files))
	}
	return nil
}

// planPlaybook prints the command lines a run would send, without a
// session.
func planPlaybook(path string, overrides map[string]string, out io.Writer) error {
	content, err := playbook.ReadFile(path)
	if err != nil {
		return err
	}
	variables, err := playbook.ResolveVariables(content.Variables, overrides, os.Getenv)
	if err != nil {
		return err
	}
	lines, err := playbook.Plan(content, variables)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}

// watchPlaybook runs the playbook once, then re-runs it after each
// change to the file until the context is canceled. Run failures are
// logged rather than fatal: the next edit may fix them.
func watchPlaybook(ctx context.Context, session *igv.Session, cfg *config.Config, path string, settings runSettings, logger *slog.Logger, out io.Writer) error {
	if err := runPlaybook(ctx, session, cfg, path, settings, logger, out); err != nil {
		logger.Error("playbook run failed", "playbook", path, "error", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting playbook watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the parent directory rather than the file: editors
	// replace files by rename, which silently drops a direct watch.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}
	base := filepath.Base(path)
	fmt.Fprintf(out, "watching %s (ctrl-c to stop)\n", path)

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending = time.After(watchDebounce)
		case <-pending:
			pending = nil
			fmt.Fprintf(out, "re-running %s\n", base)
			if err := runPlaybook(ctx, session, cfg, path, settings, logger, out); err != nil {
				logger.Error("playbook run failed", "playbook", path, "error", err)
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("playbook watcher error", "error", watchErr)
		}
	}
}

// resolvePlaybookPath turns the run argument into a file path. An
// argument naming an existing file, or containing a path separator,
// is used as given; a bare name is resolved against the playbook
// directory, with and without a .jsonc extension.
func resolvePlaybookPath(argument, directory string) (string, error) {
	if _, err := os.Stat(argument); err == nil {
		return argument, nil
	}
	if strings.ContainsRune(argument, os.PathSeparator) || directory == "" {
		return argument, nil
	}
	candidates := []string{
		filepath.Join(directory, argument),
		filepath.Join(directory, argument+".jsonc"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("playbook %q not found (looked in %s)", argument, directory)
}

// resolveArchivePath places a bare archive name under the configured
// archive directory. Explicit paths pass through.
func resolveArchivePath(argument, directory string) string {
	if argument == "" || directory == "" {
		return argument
	}
	if strings.ContainsRune(argument, os.PathSeparator) {
		return argument
	}
	return filepath.Join(directory, argument)
}

// mergeVariableFlags layers --var NAME=value flags over the config
// vars. Flags win.
func mergeVariableFlags(configVars map[string]string, flags []string) (map[string]string, error) {
	overrides := make(map[string]string, len(configVars)+len(flags))
	for name, value := range configVars {
		overrides[name] = value
	}
	for _, flag := range flags {
		name, value, ok := strings.Cut(flag, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("--var needs NAME=value, got %q", flag)
		}
		overrides[name] = value
	}
	return overrides, nil
}

func capturedSnapshots(report *playbook.Report) []string {
	var paths []string
	for _, step := range report.Steps {
		if step.Snapshot != "" {
			paths = append(paths, step.Snapshot)
		}
	}
	return paths
}
