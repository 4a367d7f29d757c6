// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import "github.com/seqview/igvctl/lib/tui"

// Re-export theme types from the shared TUI library so that code
// within this package can refer to them unqualified.

// Theme defines the color palette and visual properties for the console.
type Theme = tui.Theme

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = tui.DefaultTheme
