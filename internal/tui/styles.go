// Package tui provides the interactive chat screen.
package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/render"
)

var palette = render.DefaultPalette

var (
	headerStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(palette.Border).
			Padding(0, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(palette.TextDim)

	hintStyle = lipgloss.NewStyle().
			Foreground(palette.TextMute).
			Italic(true)

	messagesAreaStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(palette.Border).
				Padding(0, 1)

	userBubbleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(palette.Secondary).
			Padding(0, 1).
			MarginLeft(4)

	userLabelStyle = lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			MarginLeft(4)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Padding(0, 1)

	failedBubbleStyle = assistantBubbleStyle.
				BorderForeground(palette.Error)

	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(palette.Primary).
				Bold(true)

	inputPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(palette.Accent).
			Padding(0, 1)

	inputLabelStyle = lipgloss.NewStyle().
			Foreground(palette.Accent).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(palette.TextDim)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(palette.Primary).
			Bold(true)

	statusDescStyle = lipgloss.NewStyle().
			Foreground(palette.TextDim)

	noticeStyle = lipgloss.NewStyle().
			Foreground(palette.Accent).
			Italic(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(palette.TextDim).
			Align(lipgloss.Center)
)

// FormatError returns a styled error message with a hint for known failures.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	errStyle := lipgloss.NewStyle().Foreground(palette.Error)
	dimStyle := lipgloss.NewStyle().Foreground(palette.TextDim)

	var sb strings.Builder
	sb.WriteString(errStyle.Render(fmt.Sprintf("✗ %v", err)))

	if status := apierrors.GetHTTPStatus(err); status > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("\n  HTTP Status: %d", status)))
	}

	switch {
	case errors.Is(err, apierrors.ErrNoAPIKey):
		sb.WriteString(dimStyle.Render("\n  Hint: Set GEMINI_API_KEY or run 'geminichat config set api_key <key>'"))
	case apierrors.IsNetworkFailure(err):
		sb.WriteString(dimStyle.Render("\n  Hint: Check your internet connection and try again"))
	case apierrors.GetHTTPStatus(err) == 401 || apierrors.GetHTTPStatus(err) == 403:
		sb.WriteString(dimStyle.Render("\n  Hint: The API key was rejected"))
	case apierrors.GetHTTPStatus(err) == 429:
		sb.WriteString(dimStyle.Render("\n  Hint: Rate limit reached. Try again later"))
	}

	return sb.String()
}
