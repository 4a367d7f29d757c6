// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for igvctl packages.
//
// [WriteFile] and [WriteExecutable] scaffold files under a test
// directory with parent directories created as needed. Playbook and
// command tests use these to lay out fixture trees and fake viewer
// binaries without repeating boilerplate.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with time.After fallback) so that individual
// tests do not need direct time.After calls. These are the only place
// in the test suite where real wall-clock timeouts are used.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
