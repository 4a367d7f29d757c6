// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the color palette for igvctl's terminal UIs. All
// colors use lipgloss ANSI 256-color codes for broad terminal
// compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Console transcript roles.
	Prompt   lipgloss.Color // The input prompt marker.
	Command  lipgloss.Color // Lines the user sent.
	Response lipgloss.Color // Lines the viewer returned.
	Error    lipgloss.Color // Failed sends and local errors.

	// UI chrome.
	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color
	HelpText         lipgloss.Color

	// Accent marks the focused or active element (scrollbar thumb,
	// busy indicator).
	Accent lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme. Designed
// for 256-color terminals with a dark background.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	Prompt:   lipgloss.Color("114"), // green
	Command:  lipgloss.Color("255"),
	Response: lipgloss.Color("252"),
	Error:    lipgloss.Color("196"), // red

	HeaderForeground: lipgloss.Color("255"),
	BorderColor:      lipgloss.Color("240"),
	HelpText:         lipgloss.Color("241"),

	Accent: lipgloss.Color("220"), // amber
}
