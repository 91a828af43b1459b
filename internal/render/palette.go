package render

import "github.com/charmbracelet/lipgloss"

// Palette is the color scheme shared by the chat view and one-shot output
type Palette struct {
	Surface lipgloss.Color
	Border  lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color

	Text     lipgloss.Color
	TextDim  lipgloss.Color
	TextMute lipgloss.Color
}

// DefaultPalette is Tokyo Night
var DefaultPalette = Palette{
	Surface: lipgloss.Color("#24283b"),
	Border:  lipgloss.Color("#414868"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#9ece6a"),
	Accent:    lipgloss.Color("#bb9af7"),
	Error:     lipgloss.Color("#f7768e"),

	Text:     lipgloss.Color("#c0caf5"),
	TextDim:  lipgloss.Color("#565f89"),
	TextMute: lipgloss.Color("#3b4261"),
}

// UserText styles the user's own messages
func (p Palette) UserText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Text)
}

// ErrorText styles failed replies
func (p Palette) ErrorText() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Error).Italic(true)
}

// CodeBox frames highlighted code
func (p Palette) CodeBox() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Border).
		Padding(0, 1)
}

// CodeLabel styles the language tag above a code box
func (p Palette) CodeLabel() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.Accent).Bold(true)
}
