// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package consoleui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the key bindings for the console. The conventions
// are shell-like rather than vim-like: the input line always has
// focus, so letters type and control chords do everything else.
type KeyMap struct {
	Submit          key.Binding
	HistoryPrevious key.Binding
	HistoryNext     key.Binding

	// Transcript scrolling.
	ScrollUp   key.Binding
	ScrollDown key.Binding

	// Line editing beyond plain cursor movement.
	ClearLine key.Binding

	Quit key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("⏎", "send"),
	),
	HistoryPrevious: key.NewBinding(
		key.WithKeys("up", "ctrl+p"),
		key.WithHelp("↑", "history"),
	),
	HistoryNext: key.NewBinding(
		key.WithKeys("down", "ctrl+n"),
		key.WithHelp("↓", "history"),
	),
	ScrollUp: key.NewBinding(
		key.WithKeys("pgup"),
		key.WithHelp("PgUp", "scroll up"),
	),
	ScrollDown: key.NewBinding(
		key.WithKeys("pgdown"),
		key.WithHelp("PgDn", "scroll down"),
	),
	ClearLine: key.NewBinding(
		key.WithKeys("ctrl+u", "esc"),
		key.WithHelp("C-u", "clear line"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
}
