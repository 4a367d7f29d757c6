// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides igvctl's standard CBOR encoding configuration.
//
// igvctl uses two serialization formats with a clear boundary:
//
//   - JSON (with comments, via lib/playbook) for files people author
//     and read: playbooks, run reports, archive manifests.
//   - CBOR for machine-only state: the on-disk launch-state file.
//
// This package holds the one shared CBOR configuration so every writer
// encodes identically. The encoder uses Core Deterministic Encoding
// (RFC 8949 §4.2): sorted map keys, smallest integer encoding, no
// indefinite-length items.
//
// Types serialized by this package carry `json` struct tags:
// fxamacker/cbor v2 reads them as fallback when `cbor` tags are
// absent, so one tag controls field naming and omitempty for both the
// CBOR state file and any JSON rendering of the same type.
package codec
