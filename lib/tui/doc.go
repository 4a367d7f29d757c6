// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui provides shared terminal user interface building blocks
// for igvctl's interactive surfaces. Built on bubbletea (Elm
// architecture) and lipgloss, it carries the color theme and the
// ANSI-aware widgets that are not specific to any one screen.
//
// Screen-specific models (the batch console) import this package for
// consistent look and behavior and own their data flow, layout, and
// rendering.
package tui
