package render

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/diogo/geminichat/internal/models"
)

// SplitFence separates a fenced reply into its info-string language and body.
// Text that does not start with a fence is returned unchanged with no language.
func SplitFence(text string) (lang, body string) {
	if !strings.HasPrefix(text, models.CodeFence) {
		return "", text
	}

	rest := strings.TrimPrefix(text, models.CodeFence)
	firstLine, remainder, found := strings.Cut(rest, "\n")
	if !found {
		// Single line: ```code```
		return "", strings.TrimSuffix(firstLine, models.CodeFence)
	}

	lang = strings.TrimSpace(firstLine)
	if i := strings.IndexAny(lang, " \t{"); i >= 0 {
		lang = lang[:i]
	}

	body = strings.TrimRight(remainder, " \t\n")
	if idx := strings.LastIndex(body, models.CodeFence); idx >= 0 && strings.TrimSpace(body[idx+len(models.CodeFence):]) == "" {
		body = body[:idx]
	}
	return lang, strings.TrimRight(body, "\n")
}

// Highlight colors code with chroma.
// The lexer is chosen by language name, then by content analysis, then the plain fallback.
func Highlight(code, lang, styleName string) (string, error) {
	var lexer chroma.Lexer
	if lang != "" {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Code renders a fenced reply as a highlighted, boxed block
func Code(text string, opts Options) string {
	lang, body := SplitFence(text)

	highlighted, err := Highlight(body, lang, opts.CodeStyle)
	if err != nil {
		highlighted = body
	}

	box := DefaultPalette.CodeBox()
	if opts.Width > 4 {
		box = box.MaxWidth(opts.Width)
	}
	block := box.Render(highlighted)

	if lang == "" {
		return block
	}
	return DefaultPalette.CodeLabel().Render(lang) + "\n" + block
}
