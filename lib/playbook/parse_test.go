// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package playbook

import (
	"os"
	"path/filepath"
	"testing"
)

const samplePlaybook = `{
	// Region report for the MYC locus.
	"name": "myc-region",
	"description": "Overview and breakpoint captures",
	"genome": "hg19",
	"variables": {
		"SAMPLE": {"required": true, "description": "sample basename"},
		"DEPTH": {"default": "coverage.wig"},
	},
	"tracks": [
		"${SAMPLE}.bam",
		"${DEPTH}",
	],
	"setup": [
		"maxPanelHeight 1200",
	],
	"steps": [
		{"name": "overview", "locus": "chr8:127700000-127800000", "sleep": "500ms", "snapshot": "overview.png"},
		/* tighter view with sorted reads */
		{"name": "breakpoint", "locus": "chr8:127736588-127736888", "commands": ["sort position", "collapse"], "snapshot": "breakpoint.png"},
	],
	"snapshot_dir": "${OUT_DIR}",
}`

func TestParse(t *testing.T) {
	t.Parallel()

	content, err := Parse([]byte(samplePlaybook))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if content.Name != "myc-region" {
		t.Errorf("Name = %q, want %q", content.Name, "myc-region")
	}
	if content.Genome != "hg19" {
		t.Errorf("Genome = %q, want %q", content.Genome, "hg19")
	}
	if len(content.Tracks) != 2 {
		t.Fatalf("Tracks = %v, want 2 entries", content.Tracks)
	}
	if !content.Variables["SAMPLE"].Required {
		t.Error("Variables[SAMPLE].Required = false, want true")
	}
	if content.Variables["DEPTH"].Default != "coverage.wig" {
		t.Errorf("Variables[DEPTH].Default = %q, want coverage.wig", content.Variables["DEPTH"].Default)
	}
	if len(content.Steps) != 2 {
		t.Fatalf("Steps = %v, want 2 entries", content.Steps)
	}
	if content.Steps[0].Sleep != "500ms" {
		t.Errorf("Steps[0].Sleep = %q, want 500ms", content.Steps[0].Sleep)
	}
	second := content.Steps[1]
	if second.Name != "breakpoint" || len(second.Commands) != 2 || second.Snapshot != "breakpoint.png" {
		t.Errorf("Steps[1] = %+v, want breakpoint step intact", second)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte(`{"name": "broken"`)); err == nil {
		t.Fatal("Parse() of malformed input succeeded, want error")
	}
}

func TestReadFileNamesFromPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nightly-qc.jsonc")
	content := `{"steps": [{"name": "home", "locus": "chr1"}]}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing playbook: %v", err)
	}

	parsed, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if parsed.Name != "nightly-qc" {
		t.Errorf("Name = %q, want basename-derived %q", parsed.Name, "nightly-qc")
	}
}

func TestReadFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := ReadFile(filepath.Join(t.TempDir(), "absent.jsonc")); err == nil {
		t.Fatal("ReadFile() of missing file succeeded, want error")
	}
}

func TestNameFromPath(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path string
		want string
	}{
		{"playbooks/myc-region.jsonc", "myc-region"},
		{"deep/nested/dir/qc.json", "qc"},
		{"bare", "bare"},
	}
	for _, tc := range cases {
		if got := NameFromPath(tc.path); got != tc.want {
			t.Errorf("NameFromPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
