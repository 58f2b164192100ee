package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the UI.
var (
	// Day headings: bold cyan
	colorDay = color.New(color.FgCyan, color.Bold)

	// Dishes: plain green bullet
	colorDish = color.New(color.FgGreen)

	// Duplicate-day notes: yellow to make it pop
	colorNote = color.New(color.FgYellow)

	// Fetch errors: red
	colorError = color.New(color.FgRed)

	// Headers: bold
	colorHeader = color.New(color.Bold)

	// Muted: for secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

func formatDay(s string) string {
	return colorDay.Sprint(s)
}

func formatDish(s string) string {
	return colorDish.Sprint(s)
}

func formatNote(s string) string {
	return colorNote.Sprint(s)
}

func formatError(s string) string {
	return colorError.Sprint(s)
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
