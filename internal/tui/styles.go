package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorCyan   = "#22D3EE"
	colorPink   = "#F472B6"
	colorPurple = "#C084FC"
	colorOrange = "#FB923C"
	colorGray   = "#6E6E6E"
	colorDim    = "#4A4A4A"
	colorWhite  = "#F0F0F0"
	colorRed    = "#FF4D4F"
	colorGreen  = "#4ADE80"
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorCyan)).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(colorCyan))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorGray)).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color(colorDim))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorCyan)).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorRed))
	savedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGreen))
	loadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple)).Italic(true)
	cardStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(colorDim))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorGray))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorWhite)).Bold(true)
	panelStyle     = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color(colorPurple))
	moodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPurple))
	tagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorCyan))

	pastCellStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color(colorCyan))
	currentCellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(colorPink)).Bold(true)
	futureCellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(colorDim))
)
