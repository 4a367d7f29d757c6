// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package launchstate persists a record of a viewer process started
// by igvctl, so that later invocations can find, inspect, and stop it.
//
// One record per batch port lives under the user state directory
// ($XDG_STATE_HOME/igvctl, falling back to ~/.local/state/igvctl).
// The file is CBOR via lib/codec and written atomically (temporary
// file, fsync, rename) so a concurrent reader never sees a partial
// record. A record whose process has exited is stale; Check reports
// liveness so callers can distinguish "running" from "leftover file".
package launchstate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/seqview/igvctl/lib/codec"
)

// Record describes one launched viewer process.
type Record struct {
	// PID is the viewer's process id.
	PID int `json:"pid"`

	// ProcessGroupID is the process group the viewer was started in,
	// used to terminate the whole tree.
	ProcessGroupID int `json:"process_group_id"`

	// Port is the batch command port the viewer listens on. Also the
	// key of the state file.
	Port int `json:"port"`

	// Binary is the absolute path of the launched executable.
	Binary string `json:"binary,omitempty"`

	// BinaryPin is the content pin of the executable at launch time,
	// in lib/binhash "sha256:<hex>" form. The path alone does not
	// identify a build when installs are swapped underneath it.
	BinaryPin string `json:"binary_pin,omitempty"`

	// SnapshotDir is the snapshot directory the session was started
	// with, if any.
	SnapshotDir string `json:"snapshot_dir,omitempty"`

	// StartedAt is when the viewer was launched.
	StartedAt time.Time `json:"started_at"`
}

// DefaultPath returns the state file path for the given port:
// $XDG_STATE_HOME/igvctl/viewer-<port>.state, with the XDG default of
// ~/.local/state when the variable is unset.
func DefaultPath(port int) (string, error) {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		stateHome = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(stateHome, "igvctl", fmt.Sprintf("viewer-%d.state", port)), nil
}

// Write atomically writes a launch record. The record is encoded to a
// temporary file in the same directory, fsynced for durability, and
// renamed into place, so readers never see a partial write. The
// parent directory is created if missing. The file is created with
// mode 0600.
func Write(path string, record Record) error {
	data, err := codec.Marshal(record)
	if err != nil {
		return fmt.Errorf("encoding launch record: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	temporaryPath := path + ".tmp"

	file, err := os.OpenFile(temporaryPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("creating temporary state file: %w", err)
	}

	// Write, sync, close, in that order. If any step fails, remove
	// the temporary file and report the first error.
	if _, err := file.Write(data); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("writing temporary state file: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("syncing temporary state file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary state file: %w", err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming state file into place: %w", err)
	}

	// Sync the parent directory so the rename survives power loss
	// between the rename and the OS flushing directory metadata.
	parentDirectory, err := os.Open(filepath.Dir(path))
	if err == nil {
		parentDirectory.Sync()
		parentDirectory.Close()
	}

	return nil
}

// Read reads and decodes a launch record. When the file does not
// exist, the returned error wraps os.ErrNotExist (testable with
// errors.Is).
func Read(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}

	var record Record
	if err := codec.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("parsing state file %s: %w", path, err)
	}
	return record, nil
}

// Check reads a launch record and probes whether its process is still
// alive. The record is returned whenever the file parses, alive or
// not, so callers can report stale records usefully. A missing file
// is (zero Record, false, nil); any other read error is returned
// as-is so the caller can distinguish "no record" from "record exists
// but unreadable".
func Check(path string) (Record, bool, error) {
	record, err := Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	return record, processAlive(record.PID), nil
}

// Clear removes a launch record. Idempotent: returns nil when the
// file does not exist.
func Clear(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing state file: %w", err)
	}
	return nil
}

// processAlive reports whether a process with the given pid exists,
// using the null signal.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
