// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package paletteui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// spliceOverlay replaces a rectangular region of a rendered view with
// overlay lines, placed starting at (anchorX, anchorY). ANSI-aware
// truncation preserves escape sequences on both sides of the overlay.
// The view is padded with blank lines when the overlay extends below
// it.
func spliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}

	viewLines := strings.Split(view, "\n")
	for len(viewLines) < anchorY+len(overlayLines) {
		viewLines = append(viewLines, "")
	}

	for index, overlayLine := range overlayLines {
		viewLineIndex := anchorY + index
		if viewLineIndex < 0 {
			continue
		}
		viewLine := viewLines[viewLineIndex]
		viewLineWidth := ansi.StringWidth(viewLine)
		overlayWidth := ansi.StringWidth(overlayLine)

		var result strings.Builder
		if anchorX > 0 {
			prefix := ansi.Truncate(viewLine, anchorX, "")
			result.WriteString(prefix)
			if gap := anchorX - ansi.StringWidth(prefix); gap > 0 {
				result.WriteString(strings.Repeat(" ", gap))
			}
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		result.WriteString("\x1b[0m")

		suffixStart := anchorX + overlayWidth
		if suffixStart < viewLineWidth {
			result.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
		}

		viewLines[viewLineIndex] = result.String()
	}

	return strings.Join(viewLines, "\n")
}

// padLine pads styled content to innerWidth and wraps it in one column
// of background on each side, producing a line innerWidth+2 wide.
// Content wider than innerWidth is truncated with an ellipsis.
func padLine(styledContent string, innerWidth int, background lipgloss.Style) string {
	if ansi.StringWidth(styledContent) > innerWidth {
		styledContent = ansi.Truncate(styledContent, innerWidth, "…")
	}
	rightPad := innerWidth - ansi.StringWidth(styledContent)
	if rightPad < 0 {
		rightPad = 0
	}
	return background.Render(" ") +
		styledContent +
		background.Render(strings.Repeat(" ", rightPad+1))
}

// truncate shortens plain text to width columns with an ellipsis.
func truncate(text string, width int) string {
	if width <= 0 || ansi.StringWidth(text) <= width {
		return text
	}
	return ansi.Truncate(text, width, "…")
}
