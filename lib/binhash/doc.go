// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash pins an executable by content digest.
//
// Launch records store the pin of the viewer binary at launch time.
// Viewer installs are routinely swapped underneath a stable path (a
// symlinked "igv" wrapper, a reinstalled package), so the path alone
// does not say which build a record refers to. The pin does: status
// can report that the binary on disk is no longer the one that was
// launched.
//
// A pin is "sha256:" followed by the hex digest, so an operator can
// cross-check one against sha256sum output directly.
package binhash
