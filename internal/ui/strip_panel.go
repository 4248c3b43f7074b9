package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"landing-lights.klederson.com/internal/engine"
)

const pixelGlyph = "█"

// RenderPixels draws one glyph per pixel in the pixel's own colour. Off
// pixels use a dark grey so the strip length stays visible.
func RenderPixels(f engine.Frame) string {
	var b strings.Builder
	for _, c := range f {
		col := ColorPixelOff
		if !c.IsOff() {
			col = lipgloss.Color(c.Hex())
		}
		b.WriteString(lipgloss.NewStyle().Foreground(col).Render(pixelGlyph))
	}
	return b.String()
}

// RenderStripPanel renders the strip inside a bordered panel with a ruler
// marking every tenth pixel. Strips wider than the panel are wrapped.
func RenderStripPanel(f engine.Frame, width int) string {
	innerW := max(10, width-4)

	title := StylePanelTitle.Render("STRIP")
	lines := []string{title}
	if len(f) == 0 {
		lines = append(lines, StyleHelp.Render("  waiting for first frame"))
	}
	for start := 0; start < len(f); start += innerW {
		end := min(len(f), start+innerW)
		lines = append(lines, RenderPixels(f[start:end]))
		lines = append(lines, StyleRule.Render(ruler(start, end)))
	}

	return StylePanelBorder.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// ruler marks pixel indices that are multiples of ten.
func ruler(start, end int) string {
	r := []byte(strings.Repeat(" ", end-start))
	for i := start; i < end; i++ {
		if i%10 != 0 {
			continue
		}
		label := []byte(strconv.Itoa(i))
		for j, ch := range label {
			if k := i - start + j; k < len(r) {
				r[k] = ch
			}
		}
	}
	return string(r)
}
