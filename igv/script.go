// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package igv

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// ScriptResult pairs one executed batch-script line with the viewer's
// response to it.
type ScriptResult struct {
	Command  string
	Response string
}

// RunScript feeds a batch script to the viewer one line at a time,
// in order, waiting for each response before sending the next line.
// Blank lines and lines starting with # are skipped. Execution stops
// at the first transport error or when ctx is done; the results
// collected so far are returned alongside the error, so a failed run
// still shows how far it got.
//
// Lines pass through as written, with surrounding whitespace trimmed.
// No per-command validation applies; the viewer's own error text
// comes back as the response.
func (s *Session) RunScript(ctx context.Context, script io.Reader) ([]ScriptResult, error) {
	var results []ScriptResult
	scanner := bufio.NewScanner(script)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return results, fmt.Errorf("igv: script stopped at line %d: %w", lineNumber, err)
		}
		response, err := s.sendLine(line)
		if err != nil {
			return results, fmt.Errorf("igv: script line %d (%s): %w", lineNumber, line, err)
		}
		results = append(results, ScriptResult{Command: line, Response: response})
	}
	if err := scanner.Err(); err != nil {
		return results, fmt.Errorf("igv: reading script: %w", err)
	}
	return results, nil
}
