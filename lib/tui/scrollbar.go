// Copyright 2026 The Igvctl Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Scrollbar renders a one-column scroll indicator for a viewport that
// shows height lines of a total-line document, with offset lines
// scrolled off the top. The thumb is sized in proportion to the
// visible share and lands on the last row exactly when the viewport
// reaches the bottom of the document.
//
// When the document fits in the viewport only the track is drawn, so
// a thumb never suggests there is more content to scroll to.
func Scrollbar(theme Theme, height, total, offset int) string {
	if height <= 0 {
		return ""
	}

	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render("│")
	thumb := lipgloss.NewStyle().Foreground(theme.Accent).Render("█")

	rows := make([]string, height)

	if total <= height {
		for row := range rows {
			rows[row] = track
		}
		return strings.Join(rows, "\n")
	}

	size := height * height / total
	if size < 1 {
		size = 1
	}

	// Rounded so the thumb sits flush with the final row once offset
	// reaches the end of the scroll range.
	scrollRange := total - height
	trackRange := height - size
	top := (offset*trackRange + scrollRange/2) / scrollRange
	if top < 0 {
		top = 0
	}
	if top > trackRange {
		top = trackRange
	}

	for row := range rows {
		if row >= top && row < top+size {
			rows[row] = thumb
		} else {
			rows[row] = track
		}
	}
	return strings.Join(rows, "\n")
}
