package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"landing-lights.klederson.com/internal/controller"
	"landing-lights.klederson.com/internal/engine"
)

// RenderInfoPanel renders the readings of the latest tick and the recent
// distance history.
func RenderInfoPanel(s controller.Snapshot, length int, history []float64, width int) string {
	innerW := max(20, width-4)

	lines := []string{StylePanelTitle.Render("READING"), StyleRule.Render(strings.Repeat("-", innerW))}

	door := "open"
	if !s.DoorOpen {
		door = "closed"
	}
	fields := []struct{ label, value string }{
		{"Raw", fmt.Sprintf("%d cm", s.Raw)},
		{"Scaled", fmt.Sprintf("%d", s.Scaled)},
		{"Zone", s.Zone.String()},
		{"Lit", fmt.Sprintf("%d/%d", s.Lit, length)},
		{"Door", door},
	}
	for _, f := range fields {
		lines = append(lines, StyleLabel.Render(fmt.Sprintf("  %-8s", f.label))+StyleValue.Render(f.value))
	}

	lines = append(lines, "")
	barW := max(10, innerW-14)
	lines = append(lines, StyleLabel.Render("  Range   ")+renderRangeBar(s.Scaled, length, s.Zone, barW))

	if len(history) > 0 {
		lines = append(lines, "", StyleLabel.Render("  History:"))
		spark := renderSparkline(history, max(10, innerW-4))
		lines = append(lines, "  "+lipgloss.NewStyle().Foreground(zoneColor(s.Zone)).Render(spark))
	}

	return StylePanelBorder.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// zoneColor maps a zone to its display colour.
func zoneColor(z engine.Zone) lipgloss.Color {
	switch z {
	case engine.ZoneCaution:
		return ColorYellow
	case engine.ZoneDanger, engine.ZoneDangerFlash:
		return ColorRed
	default:
		return ColorGreen
	}
}

// renderRangeBar fills the bar in proportion to scaled/length.
func renderRangeBar(scaled, length int, z engine.Zone, width int) string {
	ratio := 0.0
	if length > 0 {
		ratio = float64(scaled) / float64(length)
	}
	ratio = min(1, max(0, ratio))
	filled := int(ratio*float64(width) + 0.5)

	filledPart := lipgloss.NewStyle().Foreground(zoneColor(z)).Render(strings.Repeat("|", filled))
	emptyPart := StyleRule.Render(strings.Repeat("-", width-filled))
	return StyleHelp.Render("[") + filledPart + emptyPart + StyleHelp.Render("]")
}

// renderSparkline scales the last width values between their min and max.
func renderSparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}

	chars := []byte{'_', '.', '-', '~', '^'}

	minV, maxV := values[0], values[0]
	for _, v := range values {
		minV = min(minV, v)
		maxV = max(maxV, v)
	}
	rng := max(1, maxV-minV)

	start := max(0, len(values)-width)

	var sb strings.Builder
	for _, v := range values[start:] {
		idx := int((v - minV) / rng * float64(len(chars)-1))
		idx = min(len(chars)-1, max(0, idx))
		sb.WriteByte(chars[idx])
	}
	return sb.String()
}
