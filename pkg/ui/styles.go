package ui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	accentColor  = lipgloss.Color("#7B68EE")
	successColor = lipgloss.Color("#39FF14")
	warningColor = lipgloss.Color("#FFFF00")
	errorColor   = lipgloss.Color("#FF0000")
	dimColor     = lipgloss.Color("#B0B0B0")
)

var (
	labelStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF"))

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(dimColor)
)

// DisableColor strips styling from all output. Used for --no-color and
// non-TTY destinations.
func DisableColor() {
	plain := lipgloss.NewStyle()
	labelStyle = plain
	valueStyle = plain
	successStyle = plain
	warningStyle = plain
	errorStyle = plain
	dimStyle = plain
}

// PrintError prints an error message to stderr
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Fprintln(os.Stderr, errorStyle.Render(msg))
}

// PrintSuccess prints a success message
func PrintSuccess(msg string) {
	fmt.Println(successStyle.Render(msg))
}

// PrintWarning prints a warning message
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		msg = msg + ": " + fmt.Sprintf("%v", args[0])
	}
	fmt.Println(warningStyle.Render(msg))
}

// PrintInfo prints a labeled value
func PrintInfo(label, value string) {
	fmt.Printf("%s: %s\n", labelStyle.Render(label), valueStyle.Render(value))
}

// PrintDim prints de-emphasized text
func PrintDim(msg string) {
	fmt.Println(dimStyle.Render(msg))
}
