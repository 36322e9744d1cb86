package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Shared styles for the CLI package
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#04B575")).
			MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#10B981"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280")).
			Width(18)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#EF4444")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6b7280"))

	favoriteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F59E0B"))

	statusBadgeStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Padding(0, 1)

	connectedBadgeStyle    = statusBadgeStyle.Background(lipgloss.Color("#10b981"))
	disconnectedBadgeStyle = statusBadgeStyle.Background(lipgloss.Color("#ef4444"))
	warningBadgeStyle      = statusBadgeStyle.Background(lipgloss.Color("#f59e0b"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(0, 1)
)

func field(label string, value any) string {
	return labelStyle.Render(label) + fmt.Sprint(value)
}

func onOff(enabled bool) string {
	if enabled {
		return successStyle.Render("ON")
	}
	return mutedStyle.Render("OFF")
}

func yesNo(detected bool) string {
	if detected {
		return errorStyle.Render("detected")
	}
	return successStyle.Render("none")
}
