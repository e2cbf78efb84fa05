// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package paletteui

import "github.com/charmbracelet/lipgloss"

const (
	scrollThumb = "┃"
	scrollTrack = "│"
)

// renderScrollbar returns one styled cell per dropdown row. The thumb
// covers the share of items in view and sits at the bottom exactly when
// the last item is visible. When everything fits the whole column is
// thumb.
func renderScrollbar(theme Theme, rows, total, visible, offset int) []string {
	if rows <= 0 {
		return nil
	}
	thumb := lipgloss.NewStyle().Foreground(theme.ScrollbarThumb).Render(scrollThumb)
	track := lipgloss.NewStyle().Foreground(theme.BorderColor).Render(scrollTrack)

	cells := make([]string, rows)
	if total <= visible {
		for row := range cells {
			cells[row] = thumb
		}
		return cells
	}

	size := max((rows*visible+total-1)/total, 1)
	travel := rows - size
	maxOffset := total - visible
	offset = min(max(offset, 0), maxOffset)
	start := (offset*travel*2 + maxOffset) / (maxOffset * 2)

	for row := range cells {
		if row >= start && row < start+size {
			cells[row] = thumb
		} else {
			cells[row] = track
		}
	}
	return cells
}
