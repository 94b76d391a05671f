// ABOUTME: Lipgloss styles and message helpers for terminal output
// ABOUTME: Every helper writes to an io.Writer so the shell can be driven in tests
package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#00AFAF") // Cyan, the prompt colour
	successColor = lipgloss.Color("#00AA00") // Green
	warningColor = lipgloss.Color("#D7AF00") // Yellow
	errorColor   = lipgloss.Color("#D70000") // Red
	infoColor    = lipgloss.Color("#5F87FF") // Blue
	mutedColor   = lipgloss.Color("#888888") // Gray
)

// Styles
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	HeaderStyle = lipgloss.NewStyle().
			Bold(true)

	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(successColor)

	WarningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(warningColor)

	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	InfoStyle = lipgloss.NewStyle().
			Foreground(infoColor)

	KeyStyle = lipgloss.NewStyle().
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(primaryColor)

	MutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	CurrentStyle = lipgloss.NewStyle().
			Foreground(successColor)
)

// Prompt is the interactive shell prompt
func Prompt() string {
	return PromptStyle.Render("musicplayer> ")
}

// PrintError prints an error message
func PrintError(w io.Writer, message string) {
	fmt.Fprintf(w, "%s: %s\n", ErrorStyle.Render("Error"), message)
}

// PrintSuccess prints a success message
func PrintSuccess(w io.Writer, message string) {
	fmt.Fprintf(w, "%s: %s\n", SuccessStyle.Render("Success"), message)
}

// PrintInfo prints an informational message
func PrintInfo(w io.Writer, message string) {
	fmt.Fprintf(w, "%s: %s\n", WarningStyle.Render("Info"), message)
}

// PrintNowPlaying announces a track
func PrintNowPlaying(w io.Writer, name string) {
	fmt.Fprintf(w, "%s: Playing %s\n", SuccessStyle.Render("Now playing"), InfoStyle.Render(name))
}

// PrintVersion prints version information
func PrintVersion(w io.Writer, product, version, manufacturer string) {
	fmt.Fprintf(w, "%s %s %s\n", TitleStyle.Render(product), ValueStyle.Render(version), MutedStyle.Render(manufacturer))
}
