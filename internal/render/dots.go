package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geminichat/internal/indicator"
)

// dotGlyphs climb one braille row per level, rest first
var dotGlyphs = []string{"⡀", "⠄", "⠂", "⠁"}

// dotColors tint each phase
var dotColors = [indicator.Phases]lipgloss.Color{
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#ff9ff3"),
}

// Dots draws the three bouncing dots for a frame
func Dots(f indicator.Frame, amplitude float64) string {
	levels := f.Levels(amplitude, len(dotGlyphs))

	var sb strings.Builder
	for i, level := range levels {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(lipgloss.NewStyle().Foreground(dotColors[i]).Bold(true).Render(dotGlyphs[level]))
	}
	return sb.String()
}

// PlainDots is Dots without color, for non-terminal output
func PlainDots(f indicator.Frame, amplitude float64) string {
	levels := f.Levels(amplitude, len(dotGlyphs))
	glyphs := make([]string, 0, len(levels))
	for _, level := range levels {
		glyphs = append(glyphs, dotGlyphs[level])
	}
	return strings.Join(glyphs, " ")
}
