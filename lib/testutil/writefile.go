// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile writes content to name under dir, creating parent
// directories as needed, and returns the absolute path. Fails the
// test on any error.
//
//	path := testutil.WriteFile(t, t.TempDir(), "tracks/sample.bam", data)
func WriteFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating parent directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

// WriteExecutable is WriteFile with the executable bit set, for shell
// scripts standing in for the viewer binary.
func WriteExecutable(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := WriteFile(t, dir, name, content)
	if err := os.Chmod(path, 0o755); err != nil {
		t.Fatalf("marking %s executable: %v", name, err)
	}
	return path
}
