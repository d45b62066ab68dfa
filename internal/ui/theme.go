package ui

import "github.com/charmbracelet/lipgloss"

var (
	colorBlue   = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	colorRed    = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	colorYellow = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	colorGray   = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	colorWhite  = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	colorBorder = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
)

var headerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorWhite).
	Background(colorBlue).
	Padding(0, 1)

var badgeStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorYellow)

var paneStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorBorder).
	Padding(0, 1)

var focusedPaneStyle = paneStyle.
	BorderForeground(colorBlue)

var titleStyle = lipgloss.NewStyle().
	Bold(true).
	MarginBottom(1)

var selectedStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorBlue)

var readStyle = lipgloss.NewStyle().
	Foreground(colorGray)

var errorStyle = lipgloss.NewStyle().
	Foreground(colorRed)

var statusStyle = lipgloss.NewStyle().
	Foreground(colorGray).
	Italic(true)
