package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	liveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4545")).
			Bold(true)

	offlineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#39FF14"))
)

// LiveBadge renders a channel's live status marker
func LiveBadge(live bool) string {
	if live {
		return liveStyle.Render("● LIVE")
	}
	return offlineStyle.Render("○ offline")
}

// PrintInfo prints a labeled value
func PrintInfo(label, value string) {
	fmt.Printf("%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}

// PrintError prints an error message
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Println(errorStyle.Render(msg + ": " + fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Println(errorStyle.Render(msg))
	}
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	fmt.Println(successStyle.Render(msg))
}
