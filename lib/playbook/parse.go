// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package playbook provides parsing, validation, and execution of
// viewer playbooks. A playbook is a reproducible visualization
// scenario: a genome, a set of tracks, and a sequence of named steps
// that position the view, adjust tracks, and capture snapshots.
//
// Playbooks are authored on disk as JSONC files (JSON extended with
// comments and trailing commas), so they can carry the commentary a
// shared lab scenario needs.
//
// The typical flow:
//
//  1. ReadFile or Parse: JSONC bytes → Playbook
//  2. Validate: structural checks (step names, required fields)
//  3. ResolveVariables: merge declared defaults + overrides + environment
//  4. Run: expand ${NAME} references and drive a session step by step
package playbook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// Playbook is one authored visualization scenario.
type Playbook struct {
	// Name identifies the playbook in reports and logs. Defaults to
	// the file basename when authored blank.
	Name string `json:"name"`

	// Description is free text for humans.
	Description string `json:"description,omitempty"`

	// Genome is the reference genome id or file to select before
	// loading tracks.
	Genome string `json:"genome,omitempty"`

	// Variables declares the ${NAME} substitutions the playbook
	// uses, with optional defaults.
	Variables map[string]Variable `json:"variables,omitempty"`

	// Tracks are files or URLs loaded, in order, before the steps
	// run.
	Tracks []string `json:"tracks,omitempty"`

	// Setup are raw batch command lines sent after the tracks load
	// and before the first step.
	Setup []string `json:"setup,omitempty"`

	// Steps run in order. Each positions the view, applies its
	// commands, and optionally captures a snapshot.
	Steps []Step `json:"steps"`

	// SnapshotDir is where step snapshots are saved. Overridable at
	// run time; empty falls back to the session's current snapshot
	// directory.
	SnapshotDir string `json:"snapshot_dir,omitempty"`
}

// Variable declares one ${NAME} substitution.
type Variable struct {
	// Default is the value used when no override or environment
	// value supplies one.
	Default string `json:"default,omitempty"`

	// Required marks variables that must resolve to a value from
	// some source.
	Required bool `json:"required,omitempty"`

	// Description is free text for humans.
	Description string `json:"description,omitempty"`
}

// Step is one unit of a playbook run.
type Step struct {
	// Name identifies the step in reports. Required and unique
	// within the playbook.
	Name string `json:"name"`

	// Locus jumps the view, e.g. "chr8:127700000-127800000". Sent as
	// a goto command when non-empty.
	Locus string `json:"locus,omitempty"`

	// Commands are raw batch command lines sent after the jump.
	Commands []string `json:"commands,omitempty"`

	// Snapshot is the image filename to capture after the commands,
	// saved under the run's snapshot directory. Empty skips capture.
	Snapshot string `json:"snapshot,omitempty"`

	// Sleep pauses the run after the jump and commands, before the
	// snapshot, as a Go duration string such as "500ms" or "2s". The
	// viewer renders loaded data asynchronously; a short pause lets
	// the view settle before capture. Empty means no pause.
	Sleep string `json:"sleep,omitempty"`
}

// Parse strips JSONC comments and trailing commas from data, then
// unmarshals the result into a Playbook.
func Parse(data []byte) (*Playbook, error) {
	stripped := jsonc.ToJSON(data)

	var content Playbook
	if err := json.Unmarshal(stripped, &content); err != nil {
		return nil, fmt.Errorf("parsing playbook: %w", err)
	}

	return &content, nil
}

// ReadFile reads a JSONC playbook file from disk and parses it. A
// playbook without a name takes the file basename.
func ReadFile(path string) (*Playbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	content, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if content.Name == "" {
		content.Name = NameFromPath(path)
	}

	return content, nil
}

// NameFromPath extracts a playbook name from a file path by stripping
// the directory prefix and the file extension. For example,
// "playbooks/myc-region.jsonc" returns "myc-region".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	extension := filepath.Ext(base)
	return strings.TrimSuffix(base, extension)
}
