// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package paletteui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/palette/lib/command"
	"github.com/bureau-foundation/palette/lib/match"
	"github.com/bureau-foundation/palette/lib/palette"
	"github.com/bureau-foundation/palette/lib/selection"
)

const (
	// DefaultRows is the number of dropdown rows shown at once.
	DefaultRows = 8

	// maxPanelWidth caps the palette width on wide terminals.
	maxPanelWidth = 80

	// minPanelWidth keeps the panel usable on narrow terminals.
	minPanelWidth = 24

	// panelTop is the screen row of the palette's input line.
	panelTop = 1

	// previewLines caps the description pane height.
	previewLines = 10
)

// View is the palette's drawable state. It implements palette.Renderer;
// the controller mutates it and the Model renders it. All methods must
// be called from the program's goroutine.
type View struct {
	theme Theme
	rows  int

	paletteVisible  bool
	dropdownVisible bool

	label string
	input textinput.Model

	items     []*command.Command
	query     string
	highlight int
	offset    int

	// errorText is the last execution failure. errorSequence increments
	// on each ShowError so a fade timer only clears its own error.
	errorText     string
	errorSequence int
	errorPending  bool

	logSummary  string
	logLevel    logLevel
	logSequence int
	logPending  bool
}

type logLevel int

const (
	logNone logLevel = iota
	logWarning
	logError
)

var _ palette.Renderer = (*View)(nil)

// NewView returns a hidden view that shows rows dropdown rows at a
// time. rows <= 0 selects DefaultRows.
func NewView(theme Theme, rows int) *View {
	if rows <= 0 {
		rows = DefaultRows
	}
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "type to search"
	input.CharLimit = 256
	input.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.FaintText)
	input.TextStyle = lipgloss.NewStyle().Foreground(theme.NormalText)
	return &View{
		theme:     theme,
		rows:      rows,
		input:     input,
		highlight: selection.None,
	}
}

// SetHighlight implements selection.Scroller.
func (view *View) SetHighlight(index int) {
	view.highlight = index
}

// ScrollIntoView implements selection.Scroller. It moves the scroll
// offset the minimum distance that makes index visible.
func (view *View) ScrollIntoView(index int) {
	if index < view.offset {
		view.offset = index
	} else if index >= view.offset+view.rows {
		view.offset = index - view.rows + 1
	}
	view.clampOffset()
}

// RenderList implements palette.Renderer.
func (view *View) RenderList(commands []*command.Command, query string) {
	view.items = commands
	view.query = query
	view.clampOffset()
}

// SetLabel implements palette.Renderer.
func (view *View) SetLabel(label string) {
	view.label = label
}

// SetInput implements palette.Renderer. The cursor moves to the end.
func (view *View) SetInput(text string) {
	view.input.SetValue(text)
	view.input.CursorEnd()
}

// Show implements palette.Renderer. Transitions are immediate.
func (view *View) Show(target palette.Target, done func()) {
	switch target {
	case palette.TargetPalette:
		view.paletteVisible = true
		view.input.Focus()
	case palette.TargetDropdown:
		view.dropdownVisible = true
	}
	if done != nil {
		done()
	}
}

// Hide implements palette.Renderer.
func (view *View) Hide(target palette.Target, done func()) {
	switch target {
	case palette.TargetPalette:
		view.paletteVisible = false
		view.dropdownVisible = false
		view.input.Blur()
	case palette.TargetDropdown:
		view.dropdownVisible = false
	}
	if !view.dropdownVisible {
		view.items = nil
		view.offset = 0
	}
	if done != nil {
		done()
	}
}

// ShowError implements palette.Renderer. The error stays on the status
// line until the model's fade timer clears it.
func (view *View) ShowError(err error) {
	view.errorText = err.Error()
	view.errorSequence++
	view.errorPending = true
}

// Visible reports whether the palette is drawn.
func (view *View) Visible() bool { return view.paletteVisible }

// DropdownVisible reports whether result rows are drawn.
func (view *View) DropdownVisible() bool { return view.dropdownVisible }

// Input returns the input field's text.
func (view *View) Input() string { return view.input.Value() }

// Label returns the text shown before the input field.
func (view *View) Label() string { return view.label }

// Highlighted returns the highlighted row index, or selection.None.
func (view *View) Highlighted() int { return view.highlight }

// Offset returns the index of the first visible row.
func (view *View) Offset() int { return view.offset }

// Rows returns the number of result rows currently loaded.
func (view *View) Rows() int { return len(view.items) }

// ErrorText returns the error on the status line, if any.
func (view *View) ErrorText() string { return view.errorText }

func (view *View) clampOffset() {
	maxOffset := len(view.items) - view.rows
	if maxOffset < 0 {
		maxOffset = 0
	}
	if view.offset > maxOffset {
		view.offset = maxOffset
	}
	if view.offset < 0 {
		view.offset = 0
	}
}

// visibleRows returns how many rows the dropdown currently draws.
func (view *View) visibleRows() int {
	if !view.dropdownVisible {
		return 0
	}
	return min(view.rows, len(view.items)-view.offset)
}

// highlightedCommand returns the highlighted command, or nil.
func (view *View) highlightedCommand() *command.Command {
	if view.highlight < 0 || view.highlight >= len(view.items) {
		return nil
	}
	return view.items[view.highlight]
}

// panelGeometry returns the palette's screen position and outer width
// for a terminal screenWidth columns wide.
func panelGeometry(screenWidth int) (x, y, width int) {
	width = min(screenWidth-4, maxPanelWidth)
	if width < minPanelWidth {
		width = min(minPanelWidth, screenWidth)
	}
	x = (screenWidth - width) / 2
	if x < 0 {
		x = 0
	}
	return x, panelTop, width
}

// RowAt returns the item index drawn at screen position (x, y), or
// selection.None when no dropdown row is there.
func (view *View) RowAt(screenWidth, x, y int) int {
	if !view.paletteVisible || !view.dropdownVisible {
		return selection.None
	}
	panelX, panelY, width := panelGeometry(screenWidth)
	if x < panelX || x >= panelX+width {
		return selection.None
	}
	// Row 0 is the input line, row 1 the separator.
	row := y - (panelY + 2)
	if row < 0 || row >= view.visibleRows() {
		return selection.None
	}
	return view.offset + row
}

// render produces the palette's overlay lines for a terminal
// screenWidth columns wide.
func (view *View) render(screenWidth int, preview bool) []string {
	_, _, width := panelGeometry(screenWidth)
	inner := width - 2
	theme := view.theme

	background := lipgloss.NewStyle().Background(theme.PanelBackground)
	labelStyle := lipgloss.NewStyle().Foreground(theme.LabelForeground).Bold(true)
	separatorStyle := lipgloss.NewStyle().Foreground(theme.BorderColor)

	labelText := labelStyle.Render(view.label) + " " + separatorStyle.Render("›") + " "
	view.input.Width = max(inner-ansi.StringWidth(labelText)-1, 1)
	lines := []string{padLine(labelText+view.input.View(), inner, background)}

	if !view.dropdownVisible || len(view.items) == 0 {
		return lines
	}

	separator := separatorStyle.Render(strings.Repeat("─", inner))
	lines = append(lines, padLine(separator, inner, background))

	visible := view.visibleRows()
	scrollbar := []string(nil)
	rowWidth := inner
	if len(view.items) > view.rows {
		scrollbar = renderScrollbar(theme, visible, len(view.items), view.rows, view.offset)
		rowWidth = inner - 1
	}

	for row := 0; row < visible; row++ {
		index := view.offset + row
		line := view.renderRow(view.items[index], index == view.highlight, rowWidth)
		if scrollbar != nil {
			line += background.Render(scrollbar[row])
		}
		lines = append(lines, line)
	}

	if preview {
		if highlighted := view.highlightedCommand(); highlighted != nil && highlighted.Description != "" {
			lines = append(lines, padLine(separator, inner, background))
			body := renderMarkdown(highlighted.Description, theme, inner)
			bodyLines := strings.Split(body, "\n")
			if len(bodyLines) > previewLines {
				bodyLines = bodyLines[:previewLines]
			}
			for _, bodyLine := range bodyLines {
				lines = append(lines, padLine(bodyLine, inner, background))
			}
		}
	}

	return lines
}

// renderRow draws one dropdown row, width+2 columns wide including the
// side padding but excluding the scrollbar column.
func (view *View) renderRow(entry *command.Command, selected bool, width int) string {
	theme := view.theme
	background := lipgloss.NewStyle().Background(theme.PanelBackground)
	foreground := theme.NormalText
	if selected {
		background = lipgloss.NewStyle().Background(theme.SelectedBackground)
		foreground = theme.SelectedForeground
	}
	plain := background.Foreground(foreground)
	matched := background.Foreground(theme.MatchForeground).Bold(true)
	faint := background.Foreground(theme.FaintText)

	var content strings.Builder
	if selected {
		content.WriteString(plain.Render("› "))
	} else {
		content.WriteString(plain.Render("  "))
	}
	if entry.Icon != "" && ansi.StringWidth(entry.Icon) <= 2 {
		content.WriteString(background.Foreground(theme.IconForeground).Render(entry.Icon) + plain.Render(" "))
	}

	positions := match.Highlight(view.query, entry.Name)
	next := 0
	for index, character := range []rune(entry.Name) {
		if next < len(positions) && positions[next] == index {
			content.WriteString(matched.Render(string(character)))
			next++
		} else {
			content.WriteString(plain.Render(string(character)))
		}
	}

	if entry.RequiresArgument() {
		content.WriteString(background.Foreground(theme.ArgumentForeground).Render(" …"))
	}
	if summary := firstLine(entry.Description); summary != "" {
		content.WriteString(faint.Render("  " + summary))
	}

	return padLine(content.String(), width, background)
}

// firstLine returns the first non-blank line of markdown text with
// emphasis markers removed.
func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "#>-* "))
		if line != "" {
			return strings.NewReplacer("**", "", "__", "", "`", "").Replace(line)
		}
	}
	return ""
}
