// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package archive bundles the snapshots of a playbook run into a
// single .tar.zst file for sharing or retention.
//
// Archives are deterministic: members are ordered by name with the
// manifest first, and all tar metadata derives from the manifest
// timestamp. Creating the same archive from the same inputs twice
// yields identical bytes, so archived runs can be compared by digest.
package archive

import (
	"archive/tar"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/blake3"
)

// ManifestName is the archive member holding the manifest. It is
// always the first member, so readers can stream it without scanning
// the whole archive.
const ManifestName = "manifest.json"

// Manifest describes an archive's contents.
type Manifest struct {
	// Playbook is the name of the run that produced the snapshots.
	// Empty for ad-hoc archives.
	Playbook string `json:"playbook,omitempty"`

	// CreatedAt stamps the archive and every tar member.
	CreatedAt time.Time `json:"created_at"`

	// Files lists the members after the manifest, in archive order.
	Files []File `json:"files"`
}

// File is one archived snapshot.
type File struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Digest string `json:"digest"`
}

// Info carries caller-supplied manifest fields.
type Info struct {
	// Playbook names the run. Optional.
	Playbook string

	// CreatedAt is the archive timestamp. Zero means time.Now().
	CreatedAt time.Time
}

// Create writes a .tar.zst at outputPath containing the named
// snapshot files, stored under their basenames. Returns the manifest
// that was embedded as the first member.
//
// Member order is the sorted basename order regardless of the input
// order. Two input paths with the same basename are an error. The
// output file appears atomically: a temporary file in the same
// directory is renamed into place once fully written.
func Create(outputPath string, snapshotPaths []string, info Info) (*Manifest, error) {
	if len(snapshotPaths) == 0 {
		return nil, fmt.Errorf("archive needs at least one snapshot")
	}

	createdAt := info.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	// Tar timestamps carry second precision; truncating here keeps
	// the manifest and the member headers identical.
	createdAt = createdAt.UTC().Truncate(time.Second)

	manifest := &Manifest{Playbook: info.Playbook, CreatedAt: createdAt}

	contents := make(map[string][]byte, len(snapshotPaths))
	for _, path := range snapshotPaths {
		name := filepath.Base(path)
		if _, exists := contents[name]; exists {
			return nil, fmt.Errorf("duplicate archive member %q", name)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading snapshot: %w", err)
		}
		contents[name] = data

		sum := blake3.Sum256(data)
		manifest.Files = append(manifest.Files, File{
			Name:   name,
			Size:   int64(len(data)),
			Digest: hex.EncodeToString(sum[:]),
		})
	}
	sort.Slice(manifest.Files, func(i, j int) bool {
		return manifest.Files[i].Name < manifest.Files[j].Name
	})

	if err := writeArchive(outputPath, manifest, contents); err != nil {
		return nil, err
	}
	return manifest, nil
}

func writeArchive(outputPath string, manifest *Manifest, contents map[string][]byte) error {
	manifestData, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	manifestData = append(manifestData, '\n')

	temporary := outputPath + ".partial"
	file, err := os.OpenFile(temporary, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("creating archive file: %w", err)
	}

	// Single-threaded encoding keeps the compressed output byte-stable
	// across runs; archives are compared by digest.
	compressor, err := zstd.NewWriter(file,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		file.Close()
		os.Remove(temporary)
		return fmt.Errorf("creating zstd writer: %w", err)
	}

	tarWriter := tar.NewWriter(compressor)
	fail := func(err error) error {
		tarWriter.Close()
		compressor.Close()
		file.Close()
		os.Remove(temporary)
		return err
	}

	if err := writeMember(tarWriter, ManifestName, manifestData, manifest.CreatedAt); err != nil {
		return fail(err)
	}
	for _, entry := range manifest.Files {
		if err := writeMember(tarWriter, entry.Name, contents[entry.Name], manifest.CreatedAt); err != nil {
			return fail(err)
		}
	}

	if err := tarWriter.Close(); err != nil {
		compressor.Close()
		file.Close()
		os.Remove(temporary)
		return fmt.Errorf("finalizing tar stream: %w", err)
	}
	if err := compressor.Close(); err != nil {
		file.Close()
		os.Remove(temporary)
		return fmt.Errorf("finalizing zstd stream: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporary)
		return fmt.Errorf("syncing archive file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporary)
		return fmt.Errorf("closing archive file: %w", err)
	}
	if err := os.Rename(temporary, outputPath); err != nil {
		os.Remove(temporary)
		return fmt.Errorf("renaming archive into place: %w", err)
	}
	return nil
}

func writeMember(tarWriter *tar.Writer, name string, data []byte, modTime time.Time) error {
	header := &tar.Header{
		Name:    name,
		Mode:    0o644,
		Size:    int64(len(data)),
		ModTime: modTime,
		Format:  tar.FormatUSTAR,
	}
	if err := tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("writing header for %s: %w", name, err)
	}
	if _, err := tarWriter.Write(data); err != nil {
		return fmt.Errorf("writing member %s: %w", name, err)
	}
	return nil
}
