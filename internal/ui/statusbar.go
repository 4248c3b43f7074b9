package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"landing-lights.klederson.com/internal/controller"
)

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, linked bool, s controller.Stats) string {
	link := StyleLinkDown.Render("[OFFLINE]")
	if linked {
		link = StyleLinkUp.Render("[LINKED]")
	}

	info := fmt.Sprintf(" Ticks: %d  Redraws: %d  Sent: %d  Unsent: %d  Queries: %d  Doors: %d  Dropped: %d",
		s.Ticks, s.Redraws, s.Published, s.Unsent, s.Queries, s.DoorEvents, s.DroppedEvents)

	content := link + StyleStatusBar.Render(info)
	gap := max(0, width-lipgloss.Width(content))

	return StyleStatusBar.Width(width).Render(content + strings.Repeat(" ", gap))
}
