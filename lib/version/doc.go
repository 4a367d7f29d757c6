// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package version provides build version information for the igvctl
// binary.
//
// Four package-level variables are injected at build time via
// -ldflags -X, for example:
//
//	go build -ldflags "-X github.com/seqview/igvctl/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// They default to "unknown" / "0.1.0-dev" when not injected, which
// occurs during development builds and test runs. [Full] formats them
// into the text the version command prints.
package version
