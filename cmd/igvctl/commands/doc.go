// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the igvctl command tree: one file per
// command, assembled by [Root]. Command factories return a
// [cli.Command] whose Run closure parses flags captured by the
// factory and delegates to a plain function that takes its
// collaborators (session, writer, config) as parameters, so tests
// drive the function without going through flag parsing or a real
// terminal.
package commands
