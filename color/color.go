// Package color provides a curated palette of colors.
package color

import "github.com/charmbracelet/lipgloss"

// New initializes a lipgloss.Color from a string value.
func New(value string) lipgloss.Color {
	return lipgloss.Color(value)
}

// Standard ANSI 8-color palette.
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

// Hex-defined accent and semantic colors.
var (
	Orange = New("#ffb703")
	Gray   = New("#808080")
)

// Segments assigns one accent per timeline slot, in playback order.
var Segments = []lipgloss.Color{
	New("#f38ba8"),
	New("#89b4fa"),
	New("#fab387"),
	New("#a6e3a1"),
}

// Segment returns the accent for the i-th segment, wrapping past the end of the palette.
func Segment(i int) lipgloss.Color {
	if i < 0 {
		i = -i
	}
	return Segments[i%len(Segments)]
}
