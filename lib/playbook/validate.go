// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package playbook

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// variableNamePattern matches valid variable names: start with a
// letter or underscore, followed by letters, digits, or underscores.
// Anchored to the full string.
var variableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks a Playbook for structural issues. Returns a list of
// human-readable issue descriptions. An empty list means the playbook
// is valid.
//
// Structural checks include:
//   - At least one step is required
//   - Each step must have a non-empty, unique Name
//   - Each step must do something: locus, commands, snapshot, or sleep
//   - Snapshot filenames must be bare names, not paths
//   - Sleeps must be non-negative Go durations
//   - Variable names must be valid identifiers
//   - Setup and step command lines must not be blank
func Validate(content *Playbook) []string {
	var issues []string

	if len(content.Steps) == 0 {
		issues = append(issues, "playbook has no steps (at least one step is required)")
	}

	for name := range content.Variables {
		if !variableNamePattern.MatchString(name) {
			issues = append(issues, fmt.Sprintf(
				"variables[%q]: name must be a valid identifier ([A-Za-z_][A-Za-z0-9_]*)", name))
		}
	}

	for index, line := range content.Setup {
		if strings.TrimSpace(line) == "" {
			issues = append(issues, fmt.Sprintf("setup[%d]: command line is blank", index))
		}
	}

	// Step names must be unique: reports key results by name, and a
	// duplicate would make one step's snapshot overwrite the other's.
	stepNames := make(map[string]int, len(content.Steps))
	for index, step := range content.Steps {
		if step.Name != "" {
			if firstIndex, exists := stepNames[step.Name]; exists {
				issues = append(issues, fmt.Sprintf(
					"steps[%d] %q: duplicate step name (first used at steps[%d])",
					index, step.Name, firstIndex))
			} else {
				stepNames[step.Name] = index
			}
		}
	}

	for index, step := range content.Steps {
		prefix := fmt.Sprintf("steps[%d]", index)
		issues = append(issues, validateStep(step, prefix)...)
	}

	return issues
}

// validateStep checks a single step for structural issues. The prefix
// identifies the step's position for error messages.
func validateStep(step Step, prefix string) []string {
	var issues []string

	if step.Name == "" {
		issues = append(issues, fmt.Sprintf("%s: name is required", prefix))
	} else {
		prefix = fmt.Sprintf("%s %q", prefix, step.Name)
	}

	if step.Locus == "" && len(step.Commands) == 0 && step.Snapshot == "" && step.Sleep == "" {
		issues = append(issues, fmt.Sprintf("%s: must set at least one of locus, commands, snapshot, or sleep", prefix))
	}

	for index, line := range step.Commands {
		if strings.TrimSpace(line) == "" {
			issues = append(issues, fmt.Sprintf("%s: commands[%d] is blank", prefix, index))
		}
	}

	// Snapshots land in the run's snapshot directory; a path here
	// would silently escape it.
	if step.Snapshot != "" && strings.ContainsRune(step.Snapshot, '/') {
		issues = append(issues, fmt.Sprintf("%s: snapshot %q must be a bare filename, not a path", prefix, step.Snapshot))
	}

	if step.Sleep != "" {
		if pause, err := time.ParseDuration(step.Sleep); err != nil {
			issues = append(issues, fmt.Sprintf("%s: sleep %q is not a duration (use forms like \"500ms\" or \"2s\")", prefix, step.Sleep))
		} else if pause < 0 {
			issues = append(issues, fmt.Sprintf("%s: sleep %q is negative", prefix, step.Sleep))
		}
	}

	return issues
}
