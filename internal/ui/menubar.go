package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"landing-lights.klederson.com/internal/config"
)

// RenderMenuBar renders the top menu bar.
func RenderMenuBar(width int, sensorKind string, manual bool) string {
	title := fmt.Sprintf(" %s v%s ", config.AppName, config.AppVersion)

	keys := []struct{ key, label string }{
		{"D", "oor"},
		{"R", "eport"},
		{"↑↓", " move"},
		{"A", "uto"},
		{"Q", "uit"},
	}

	menu := ""
	for _, k := range keys {
		menu += "  " + StyleMenuKey.Render("["+k.key+"]") + StyleMenuLabel.Render(k.label)
	}

	mode := "AUTO"
	if manual {
		mode = "MANUAL"
	}
	right := StyleMenuLabel.Render(fmt.Sprintf("Sensor: %s  %s ", sensorKind, mode))

	left := StyleMenuKey.Render(title) + menu
	gap := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))

	return StyleMenuBar.Width(width).Render(left + strings.Repeat(" ", gap) + right)
}
