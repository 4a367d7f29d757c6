// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Pin computes the content pin of the file at path: the string
// "sha256:" followed by the lowercase hex digest of the file bytes.
// The file is streamed through the hash, so memory use is constant
// regardless of binary size.
//
// Pins compare as plain strings. Two files pin equal exactly when
// their bytes are identical; a pin recorded at launch no longer
// matching the file on disk means the install was swapped underneath
// the recorded path.
func Pin(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s for pinning: %w", path, err)
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return "sha256:" + hex.EncodeToString(hasher.Sum(nil)), nil
}
