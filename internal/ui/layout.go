package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout stacks the menu bar, the strip, the info panel and the
// status bar.
func ComposeLayout(menuBar, stripPanel, infoPanel, statusBar string) string {
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, stripPanel, infoPanel, statusBar)
}
