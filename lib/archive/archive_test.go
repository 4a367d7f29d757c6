// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"archive/tar"
	"bytes"
	"encoding/hex"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// readArchive unpacks a .tar.zst with the stock decoders, proving the
// output is readable outside this package.
func readArchive(t *testing.T, path string) ([]string, map[string][]byte) {
	t.Helper()

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	defer file.Close()

	decoder, err := zstd.NewReader(file)
	if err != nil {
		t.Fatalf("creating zstd reader: %v", err)
	}
	defer decoder.Close()

	var order []string
	members := map[string][]byte{}
	tarReader := tar.NewReader(decoder)
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("reading tar header: %v", err)
		}
		data, err := io.ReadAll(tarReader)
		if err != nil {
			t.Fatalf("reading member %s: %v", header.Name, err)
		}
		order = append(order, header.Name)
		members[header.Name] = data
	}
	return order, members
}

func writeSnapshots(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	directory := t.TempDir()
	var paths []string
	for _, name := range names {
		path := filepath.Join(directory, name)
		if err := os.WriteFile(path, []byte("image bytes for "+name), 0o644); err != nil {
			t.Fatalf("writing snapshot %s: %v", name, err)
		}
		paths = append(paths, path)
	}
	return directory, paths
}

func TestCreate(t *testing.T) {
	t.Parallel()

	_, paths := writeSnapshots(t, "overview.png", "breakpoint.png", "allele.png")
	outputDir := t.TempDir()
	archivePath := filepath.Join(outputDir, "run.tar.zst")
	createdAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

	// Pass the inputs out of order; the archive sorts by name.
	manifest, err := Create(archivePath, []string{paths[0], paths[2], paths[1]}, Info{
		Playbook:  "region-report",
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	order, members := readArchive(t, archivePath)
	wantOrder := []string{ManifestName, "allele.png", "breakpoint.png", "overview.png"}
	if len(order) != len(wantOrder) {
		t.Fatalf("members = %v, want %v", order, wantOrder)
	}
	for i, name := range wantOrder {
		if order[i] != name {
			t.Fatalf("members = %v, want %v", order, wantOrder)
		}
	}

	var embedded Manifest
	if err := json.Unmarshal(members[ManifestName], &embedded); err != nil {
		t.Fatalf("parsing embedded manifest: %v", err)
	}
	if embedded.Playbook != "region-report" {
		t.Errorf("manifest.Playbook = %q, want region-report", embedded.Playbook)
	}
	if !embedded.CreatedAt.Equal(createdAt) {
		t.Errorf("manifest.CreatedAt = %v, want %v", embedded.CreatedAt, createdAt)
	}
	if len(embedded.Files) != 3 {
		t.Fatalf("manifest.Files = %+v, want 3 entries", embedded.Files)
	}

	for _, entry := range embedded.Files {
		data, exists := members[entry.Name]
		if !exists {
			t.Errorf("manifest lists %s but the archive has no such member", entry.Name)
			continue
		}
		if entry.Size != int64(len(data)) {
			t.Errorf("%s: manifest size %d, member has %d bytes", entry.Name, entry.Size, len(data))
		}
		sum := blake3.Sum256(data)
		if entry.Digest != hex.EncodeToString(sum[:]) {
			t.Errorf("%s: manifest digest does not match member bytes", entry.Name)
		}
		if want := []byte("image bytes for " + entry.Name); !bytes.Equal(data, want) {
			t.Errorf("%s: member bytes = %q, want %q", entry.Name, data, want)
		}
	}

	if len(manifest.Files) != 3 || manifest.Files[0].Name != "allele.png" {
		t.Errorf("returned manifest = %+v, want sorted 3-file manifest", manifest)
	}

	// Only the finished archive remains; the temporary file is gone.
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatalf("listing output dir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "run.tar.zst" {
		t.Errorf("output dir contains %v, want only run.tar.zst", entries)
	}
}

func TestCreateDeterministic(t *testing.T) {
	t.Parallel()

	_, paths := writeSnapshots(t, "overview.png", "breakpoint.png")
	outputDir := t.TempDir()
	info := Info{Playbook: "repeat", CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)}

	first := filepath.Join(outputDir, "first.tar.zst")
	if _, err := Create(first, paths, info); err != nil {
		t.Fatalf("Create() first: %v", err)
	}
	second := filepath.Join(outputDir, "second.tar.zst")
	if _, err := Create(second, []string{paths[1], paths[0]}, info); err != nil {
		t.Fatalf("Create() second: %v", err)
	}

	firstBytes, err := os.ReadFile(first)
	if err != nil {
		t.Fatalf("reading first archive: %v", err)
	}
	secondBytes, err := os.ReadFile(second)
	if err != nil {
		t.Fatalf("reading second archive: %v", err)
	}
	if !bytes.Equal(firstBytes, secondBytes) {
		t.Error("same inputs produced different archive bytes")
	}
}

func TestCreateDuplicateBasename(t *testing.T) {
	t.Parallel()

	_, first := writeSnapshots(t, "overview.png")
	_, second := writeSnapshots(t, "overview.png")

	_, err := Create(filepath.Join(t.TempDir(), "run.tar.zst"), []string{first[0], second[0]}, Info{})
	if err == nil {
		t.Fatal("Create() with colliding basenames succeeded, want error")
	}
	if !strings.Contains(err.Error(), "duplicate") {
		t.Errorf("error = %q, want mention of duplicate member", err)
	}
}

func TestCreateEmpty(t *testing.T) {
	t.Parallel()

	if _, err := Create(filepath.Join(t.TempDir(), "run.tar.zst"), nil, Info{}); err == nil {
		t.Fatal("Create() with no snapshots succeeded, want error")
	}
}

func TestCreateMissingSnapshot(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	archivePath := filepath.Join(outputDir, "run.tar.zst")
	missing := filepath.Join(t.TempDir(), "absent.png")

	if _, err := Create(archivePath, []string{missing}, Info{}); err == nil {
		t.Fatal("Create() with missing snapshot succeeded, want error")
	}

	// The failure happened before any file was opened for writing.
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		t.Fatalf("listing output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("output dir contains %v, want nothing after failed create", entries)
	}
}
