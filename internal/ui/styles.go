package ui

import "github.com/charmbracelet/lipgloss"

// Garage palette
var (
	ColorBright   = lipgloss.Color("#F5F5F5")
	ColorText     = lipgloss.Color("#C8C8C8")
	ColorMid      = lipgloss.Color("#808080")
	ColorDim      = lipgloss.Color("#4A4A4A")
	ColorBar      = lipgloss.Color("#1E1E1E")
	ColorBorder   = lipgloss.Color("#5F5F5F")
	ColorGreen    = lipgloss.Color("#00FF41")
	ColorYellow   = lipgloss.Color("#FFCC00")
	ColorRed      = lipgloss.Color("#FF3300")
	ColorPixelOff = lipgloss.Color("#262626")
	ColorLinkUp   = lipgloss.Color("#00CC33")
	ColorLinkDown = lipgloss.Color("#FFAA00")
)

// Pre-built styles
var (
	StyleMenuBar = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorBright).
			Bold(true).
			Padding(0, 1)

	StyleMenuKey = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true)

	StyleMenuLabel = lipgloss.NewStyle().
			Foreground(ColorText)

	StyleStatusBar = lipgloss.NewStyle().
			Background(ColorBar).
			Foreground(ColorText).
			Padding(0, 1)

	StyleLinkUp = lipgloss.NewStyle().
			Foreground(ColorLinkUp).
			Bold(true)

	StyleLinkDown = lipgloss.NewStyle().
			Foreground(ColorLinkDown).
			Bold(true)

	StylePanelBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorder)

	StylePanelTitle = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true).
			Padding(0, 1)

	StyleLabel = lipgloss.NewStyle().
			Foreground(ColorMid)

	StyleValue = lipgloss.NewStyle().
			Foreground(ColorBright).
			Bold(true)

	StyleRule = lipgloss.NewStyle().
			Foreground(ColorDim)

	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorDim)
)
