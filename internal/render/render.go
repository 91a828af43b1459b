package render

import (
	"strings"

	"github.com/diogo/geminichat/internal/models"
)

// Markdown renders markdown content for terminal display.
func Markdown(content string, opts Options) (string, error) {
	renderer, err := renderers.acquire(opts)
	if err != nil {
		return "", err
	}
	defer renderers.release(opts, renderer)

	return renderer.Render(content)
}

// MarkdownWithWidth renders with default options at width.
func MarkdownWithWidth(content string, width int) (string, error) {
	return Markdown(content, DefaultOptions().WithWidth(width))
}

// Entry renders one conversation entry.
// A pending entry renders as "" because its indicator is drawn by the caller.
func Entry(entry models.MessageEntry, opts Options) string {
	switch {
	case entry.Status == models.StatusPending:
		return ""
	case entry.Status == models.StatusFailed:
		return DefaultPalette.ErrorText().Render(entry.Text)
	case entry.Sender == models.SenderUser:
		return DefaultPalette.UserText().Width(opts.Width).Render(entry.Text)
	case entry.IsCode:
		return Code(entry.Text, opts)
	}

	out, err := Markdown(entry.Text, opts)
	if err != nil {
		return entry.Text
	}
	return strings.Trim(out, "\n")
}
