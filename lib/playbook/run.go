// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package playbook

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/zeebo/blake3"

	"github.com/seqview/igvctl/igv"
)

// RunOptions configures one playbook run.
type RunOptions struct {
	// Variables is the resolved substitution map, usually from
	// ResolveVariables.
	Variables map[string]string

	// SnapshotDir overrides the playbook's snapshot directory.
	SnapshotDir string

	// Logger receives per-step progress. Default slog.Default().
	Logger *slog.Logger
}

// StepReport records the outcome of one step.
type StepReport struct {
	Step  string `json:"step"`
	Locus string `json:"locus,omitempty"`

	// Commands are the batch command lines the step issued, in order,
	// after variable expansion. Responses holds the viewer's answers;
	// when a step fails mid-send its last command may have no
	// response.
	Commands  []string `json:"commands,omitempty"`
	Responses []string `json:"responses,omitempty"`

	// DurationMS is the step's wall-clock time in milliseconds,
	// including its settling sleep.
	DurationMS int64 `json:"duration_ms"`

	// Snapshot is the absolute path of the captured image, when the
	// step took one.
	Snapshot string `json:"snapshot,omitempty"`

	// Digest is the BLAKE3 hex digest of the snapshot file, so a
	// report pins the exact images a run produced. Empty when the
	// file was not readable after capture.
	Digest string `json:"digest,omitempty"`
}

// Report records one playbook run end to end.
type Report struct {
	Playbook    string       `json:"playbook"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
	SnapshotDir string       `json:"snapshot_dir,omitempty"`
	Steps       []StepReport `json:"steps"`
}

// Run executes a playbook against a connected session: genome, then
// tracks, then setup commands, then each step in order. Execution
// stops at the first error; the report collected so far is returned
// alongside it, so a failed run still shows how far it got.
func Run(ctx context.Context, session *igv.Session, content *Playbook, options RunOptions) (*Report, error) {
	logger := options.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if issues := Validate(content); len(issues) > 0 {
		return nil, fmt.Errorf("invalid playbook %s: %s", content.Name, strings.Join(issues, "; "))
	}

	report := &Report{Playbook: content.Name, StartedAt: time.Now()}
	variables := options.Variables

	if content.Genome != "" {
		genome, err := Expand(content.Genome, variables)
		if err != nil {
			return report, err
		}
		if _, err := session.Genome(genome); err != nil {
			return report, fmt.Errorf("selecting genome %s: %w", genome, err)
		}
	}

	for index, track := range content.Tracks {
		expanded, err := Expand(track, variables)
		if err != nil {
			return report, fmt.Errorf("tracks[%d]: %w", index, err)
		}
		logger.Info("loading track", "track", expanded)
		if _, err := session.Load(expanded); err != nil {
			return report, fmt.Errorf("loading track %s: %w", expanded, err)
		}
	}

	if len(content.Setup) > 0 {
		setup, err := expandAll(content.Setup, variables, "setup")
		if err != nil {
			return report, err
		}
		if _, err := session.RunScript(ctx, strings.NewReader(strings.Join(setup, "\n"))); err != nil {
			return report, fmt.Errorf("setup commands: %w", err)
		}
	}

	if err := pointSnapshotDir(session, content, options); err != nil {
		return report, err
	}
	report.SnapshotDir = session.SnapshotDir()

	for _, step := range content.Steps {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("playbook stopped before step %q: %w", step.Name, err)
		}
		logger.Info("running step", "playbook", content.Name, "step", step.Name)

		stepStart := time.Now()
		result, err := runStep(ctx, session, step, variables, logger)
		result.DurationMS = time.Since(stepStart).Milliseconds()
		report.Steps = append(report.Steps, result)
		if err != nil {
			return report, fmt.Errorf("step %q: %w", step.Name, err)
		}
	}

	report.CompletedAt = time.Now()
	return report, nil
}

// pointSnapshotDir applies the run's snapshot directory: the option
// override first, then the playbook's own, then whatever the session
// already has, then the working directory.
func pointSnapshotDir(session *igv.Session, content *Playbook, options RunOptions) error {
	directory := options.SnapshotDir
	if directory == "" && content.SnapshotDir != "" {
		expanded, err := Expand(content.SnapshotDir, options.Variables)
		if err != nil {
			return fmt.Errorf("snapshot_dir: %w", err)
		}
		directory = expanded
	}
	if directory == "" {
		if session.SnapshotDir() != "" {
			return nil
		}
		working, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving working directory: %w", err)
		}
		directory = working
	}
	if _, err := session.SetSnapshotDir(directory); err != nil {
		return fmt.Errorf("setting snapshot directory: %w", err)
	}
	return nil
}

func runStep(ctx context.Context, session *igv.Session, step Step, variables map[string]string, logger *slog.Logger) (StepReport, error) {
	result := StepReport{Step: step.Name}

	if step.Locus != "" {
		locus, err := Expand(step.Locus, variables)
		if err != nil {
			return result, err
		}
		result.Locus = locus
		result.Commands = append(result.Commands, "goto "+locus)
		response, err := session.Goto(locus)
		if err != nil {
			return result, fmt.Errorf("goto %s: %w", locus, err)
		}
		result.Responses = append(result.Responses, response)
	}

	if len(step.Commands) > 0 {
		commands, err := expandAll(step.Commands, variables, "commands")
		if err != nil {
			return result, err
		}
		executed, err := session.RunScript(ctx, strings.NewReader(strings.Join(commands, "\n")))
		for _, item := range executed {
			result.Commands = append(result.Commands, item.Command)
			result.Responses = append(result.Responses, item.Response)
		}
		if err != nil {
			return result, err
		}
	}

	if step.Sleep != "" {
		pause, err := time.ParseDuration(step.Sleep)
		if err != nil {
			return result, fmt.Errorf("sleep %q: %w", step.Sleep, err)
		}
		if pause > 0 {
			logger.Debug("letting the view settle", "step", step.Name, "duration", pause)
			select {
			case <-time.After(pause):
			case <-ctx.Done():
				return result, fmt.Errorf("sleep interrupted: %w", ctx.Err())
			}
		}
	}

	if step.Snapshot != "" {
		filename, err := Expand(step.Snapshot, variables)
		if err != nil {
			return result, err
		}
		path := filepath.Join(session.SnapshotDir(), filename)
		result.Commands = append(result.Commands, "snapshot "+filename)
		response, err := session.Snapshot(path)
		if err != nil {
			return result, fmt.Errorf("snapshot %s: %w", filename, err)
		}
		result.Responses = append(result.Responses, response)
		result.Snapshot = path

		digest, err := digestFile(path)
		if err != nil {
			// The viewer reported success but the file is not there
			// yet; leave the digest empty rather than failing the run.
			logger.Warn("snapshot file not readable after capture", "path", path, "error", err)
		} else {
			result.Digest = digest
		}
	}

	return result, nil
}

// digestFile returns the BLAKE3 hex digest of the file at path.
func digestFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Plan returns the batch command lines a run would send, without a
// session. Paths appear as authored; the session normalizes them to
// absolute form only when actually sending. Step sleeps are client
// side pacing and contribute no lines. Use this for dry runs.
func Plan(content *Playbook, variables map[string]string) ([]string, error) {
	if issues := Validate(content); len(issues) > 0 {
		return nil, fmt.Errorf("invalid playbook %s: %s", content.Name, strings.Join(issues, "; "))
	}

	var lines []string
	if content.Genome != "" {
		genome, err := Expand(content.Genome, variables)
		if err != nil {
			return nil, err
		}
		lines = append(lines, "genome "+genome)
	}
	for index, track := range content.Tracks {
		expanded, err := Expand(track, variables)
		if err != nil {
			return nil, fmt.Errorf("tracks[%d]: %w", index, err)
		}
		lines = append(lines, "load "+expanded)
	}
	setup, err := expandAll(content.Setup, variables, "setup")
	if err != nil {
		return nil, err
	}
	lines = append(lines, setup...)
	if content.SnapshotDir != "" {
		directory, err := Expand(content.SnapshotDir, variables)
		if err != nil {
			return nil, fmt.Errorf("snapshot_dir: %w", err)
		}
		lines = append(lines, "snapshotDirectory "+directory)
	}
	for _, step := range content.Steps {
		if step.Locus != "" {
			locus, err := Expand(step.Locus, variables)
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", step.Name, err)
			}
			lines = append(lines, "goto "+locus)
		}
		commands, err := expandAll(step.Commands, variables, "commands")
		if err != nil {
			return nil, fmt.Errorf("step %q: %w", step.Name, err)
		}
		lines = append(lines, commands...)
		if step.Snapshot != "" {
			filename, err := Expand(step.Snapshot, variables)
			if err != nil {
				return nil, fmt.Errorf("step %q: %w", step.Name, err)
			}
			lines = append(lines, "snapshot "+filename)
		}
	}
	return lines, nil
}

// WriteReport writes a run report as indented JSON.
func WriteReport(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
