package tui

import "github.com/charmbracelet/lipgloss"

// Console color palette
var (
	ColorAccent = lipgloss.Color("#7AA2F7") // blue accents, titles
	ColorDim    = lipgloss.Color("#565F89") // secondary text
	ColorText   = lipgloss.Color("#C0CAF5") // primary text
	ColorAlert  = lipgloss.Color("#F7768E") // errors
	ColorGood   = lipgloss.Color("#9ECE6A") // success
	ColorWarn   = lipgloss.Color("#E0AF68") // warnings, grace notices
	ColorMuted  = lipgloss.Color("#6c757d")
)

var (
	StyleBase = lipgloss.NewStyle().Foreground(ColorText)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorDim).
			Padding(0, 1)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true)

	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorDim).
			Italic(true)

	StyleError   = lipgloss.NewStyle().Foreground(ColorAlert).Bold(true)
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorGood).Bold(true)
	StyleNotice  = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)

	StyleCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorDim).
			Padding(0, 1).
			Margin(0, 1)

	StyleNoticeCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarn).
			Padding(0, 1).
			Margin(0, 1)

	StyleTableHeader = lipgloss.NewStyle().
				Foreground(ColorDim).
				Bold(true).
				Padding(0, 1)

	StyleInputPrompt = lipgloss.NewStyle().Foreground(ColorAccent)

	StyleKey = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Faint(true)

	StyleApp = lipgloss.NewStyle().Margin(1, 2)

	StyleStatusBar = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(ColorDim).
			Padding(0, 1).
			MarginBottom(1)

	StyleBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1B26")).
			Background(ColorAccent).
			Bold(true).
			Padding(0, 1)
)
