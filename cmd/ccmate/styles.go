package main

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/ruminaider/ccmate/internal/mcp"
)

// Catppuccin Mocha palette.
var flavor = catppuccin.Mocha

var (
	colorGreen    = lipgloss.Color(flavor.Green().Hex)
	colorRed      = lipgloss.Color(flavor.Red().Hex)
	colorYellow   = lipgloss.Color(flavor.Yellow().Hex)
	colorBlue     = lipgloss.Color(flavor.Blue().Hex)
	colorOverlay0 = lipgloss.Color(flavor.Overlay0().Hex)
)

var (
	enabledStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	disabledStyle = lipgloss.NewStyle().Foreground(colorRed)
	runtimeStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	activeStyle   = lipgloss.NewStyle().Foreground(colorBlue).Bold(true)
	dimStyle      = lipgloss.NewStyle().Foreground(colorOverlay0)
	headerStyle   = lipgloss.NewStyle().Bold(true)

	// nameStyle pads server and profile names into a column.
	nameStyle = lipgloss.NewStyle().Width(28)
)

// stateLabel renders a server state with its marker.
func stateLabel(s mcp.State) string {
	switch s {
	case mcp.StateDisabled:
		return disabledStyle.Render("✗ disabled")
	case mcp.StateRuntimeDisabled:
		return runtimeStyle.Render("⚠ runtime-disabled")
	default:
		return enabledStyle.Render("✓ enabled")
	}
}

// enabledLabel renders a plain on/off flag.
func enabledLabel(on bool) string {
	if on {
		return enabledStyle.Render("enabled")
	}
	return disabledStyle.Render("disabled")
}
