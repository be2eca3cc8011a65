// Package color names the terminal colors the UI draws with.
package color

import "github.com/charmbracelet/lipgloss"

// New wraps a terminal color value for use in lipgloss styles.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// The basic ANSI colors. Terminals remap these to the user's theme, so
// the playlist follows whatever scheme the terminal is configured with.
var (
	Red    = New("1")
	Green  = New("2")
	Yellow = New("3")
	Blue   = New("4")
	Purple = New("5")
	Cyan   = New("6")
	White  = New("7")
	Black  = New("8")
)

// Bright variants from the upper half of the 16-color range.
var (
	HiRed    = New("9")
	HiGreen  = New("10")
	HiYellow = New("11")
	HiBlue   = New("12")
	HiPurple = New("13")
	HiCyan   = New("14")
	HiWhite  = New("15")
	HiBlack  = New("16")
)
