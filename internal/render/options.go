// Package render turns conversation entries into styled terminal text.
package render

import (
	"os"

	"github.com/diogo/geminichat/internal/config"
)

// Options configures markdown and code rendering.
type Options struct {
	// Width is the word-wrap column (default: 80)
	Width int

	// Style is a glamour style name ("dark", "light", "dracula", "notty") or a JSON style path
	Style string

	// CodeStyle is the chroma style used for code replies
	CodeStyle string

	// EnableEmoji converts :emoji: to unicode characters
	EnableEmoji bool

	// PreserveNewLines keeps single line breaks from the reply
	PreserveNewLines bool
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            "dark",
		CodeStyle:        "monokai",
		EnableEmoji:      true,
		PreserveNewLines: true,
	}
}

// FromConfig builds options from the markdown section of the user configuration.
// GLAMOUR_STYLE overrides the configured style.
func FromConfig(md config.MarkdownConfig) Options {
	opts := DefaultOptions()
	if md.Style != "" {
		opts.Style = md.Style
	}
	if md.Width > 0 {
		opts.Width = md.Width
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}

// WithWidth returns Options with the specified width.
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns Options with the specified style.
func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// WithCodeStyle returns Options with the specified chroma style.
func (o Options) WithCodeStyle(style string) Options {
	o.CodeStyle = style
	return o
}

// WithEmoji returns Options with emoji support enabled/disabled.
func (o Options) WithEmoji(enabled bool) Options {
	o.EnableEmoji = enabled
	return o
}
