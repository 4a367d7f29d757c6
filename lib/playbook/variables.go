// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package playbook

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// variablePattern matches ${NAME} references in strings. Only the
// braced form is recognized. Variable names must start with a letter
// or underscore and contain only letters, digits, and underscores.
var variablePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ResolveVariables merges variable sources according to resolution
// order (lowest to highest priority):
//
//  1. Declared defaults from the playbook's variable declarations
//  2. Override values (config vars and --var flags)
//  3. Environment lookup via the environ function
//
// Returns the merged variable map. Returns an error if any required
// variable has no value from any source.
//
// The environ function is typically os.Getenv for production use, or
// a stub for testing. It is only consulted for variables declared in
// the playbook; undeclared environment variables are not included.
func ResolveVariables(declarations map[string]Variable, overrides map[string]string, environ func(string) string) (map[string]string, error) {
	resolved := make(map[string]string, len(declarations)+len(overrides))

	// Start with declared defaults (lowest priority).
	for name, declaration := range declarations {
		if declaration.Default != "" {
			resolved[name] = declaration.Default
		}
	}

	// Overlay override values (medium priority).
	for name, value := range overrides {
		resolved[name] = value
	}

	// Overlay environment values for declared variables (highest
	// priority). Only declared variables are looked up; the whole
	// process environment is not pulled in.
	if environ != nil {
		for name := range declarations {
			if value := environ(name); value != "" {
				resolved[name] = value
			}
		}
	}

	// Check that all required variables have a value.
	var missing []string
	for name, declaration := range declarations {
		if declaration.Required {
			if _, exists := resolved[name]; !exists {
				missing = append(missing, name)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("required playbook variables not set: %s", strings.Join(missing, ", "))
	}

	return resolved, nil
}

// Expand replaces ${NAME} references in input with values from the
// variables map. Only the ${NAME} form is recognized (braces
// required).
//
// Returns an error listing all referenced variables that have no
// value in the map, so playbooks fail fast on unresolvable
// references rather than sending broken commands to the viewer.
func Expand(input string, variables map[string]string) (string, error) {
	var unresolved []string

	result := variablePattern.ReplaceAllStringFunc(input, func(match string) string {
		// Extract the variable name from ${NAME}.
		name := match[2 : len(match)-1]
		if value, exists := variables[name]; exists {
			return value
		}
		unresolved = append(unresolved, name)
		return match
	})

	if len(unresolved) > 0 {
		return "", fmt.Errorf("unresolved playbook variables: %s", strings.Join(unresolved, ", "))
	}

	return result, nil
}

// expandAll expands every string in lines, prefixing errors with the
// field name.
func expandAll(lines []string, variables map[string]string, field string) ([]string, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	expanded := make([]string, len(lines))
	for index, line := range lines {
		value, err := Expand(line, variables)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", field, index, err)
		}
		expanded[index] = value
	}
	return expanded, nil
}
