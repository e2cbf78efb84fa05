// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package paletteui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors of the palette. All colors use lipgloss ANSI
// 256-color codes for broad terminal compatibility.
type Theme struct {
	// Text colors.
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	// Highlighted dropdown row.
	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	// Palette chrome.
	LabelForeground    lipgloss.Color
	HeaderForeground   lipgloss.Color
	BorderColor        lipgloss.Color
	PanelBackground    lipgloss.Color
	HelpText           lipgloss.Color
	ScrollbarThumb     lipgloss.Color
	IconForeground     lipgloss.Color
	MatchForeground    lipgloss.Color // Characters the query matched.
	ArgumentForeground lipgloss.Color // "(Search for)" suffix on commands that take an argument.

	// Status line.
	ErrorForeground   lipgloss.Color
	WarningForeground lipgloss.Color
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	LabelForeground:    lipgloss.Color("75"),  // blue
	HeaderForeground:   lipgloss.Color("255"),
	BorderColor:        lipgloss.Color("240"),
	PanelBackground:    lipgloss.Color("235"),
	HelpText:           lipgloss.Color("241"),
	ScrollbarThumb:     lipgloss.Color("220"), // amber
	IconForeground:     lipgloss.Color("141"), // light purple
	MatchForeground:    lipgloss.Color("214"), // orange
	ArgumentForeground: lipgloss.Color("114"), // green

	ErrorForeground:   lipgloss.Color("196"),
	WarningForeground: lipgloss.Color("220"),
}
