// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package consoleui implements the interactive batch console: a
// bubbletea model with a scrollable transcript, a single-line command
// input, and shell-style history recall.
//
// Every line the user submits is sent to the viewer session verbatim
// (the same path batch scripts take), and the response is appended to
// the transcript. The console adds no command vocabulary of its own:
// whatever the viewer's batch language accepts is what the console
// accepts.
package consoleui
