package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/tui"
)

// Dependencies holds the external dependencies for the commands.
// Tests replace them to run commands without a network or terminal.
type Dependencies struct {
	// NewCompleter builds the gateway for the loaded configuration
	NewCompleter func(cfg config.Config, logger zerolog.Logger) (api.Completer, error)

	// RunChat starts the interactive chat screen
	RunChat func(gateway api.Completer, modelLabel string, opts ...tui.Option) error

	// CopyToClipboard writes text to the system clipboard
	CopyToClipboard func(text string) error

	// StdinIsPipe reports whether a prompt can be read from Stdin
	StdinIsPipe func() bool

	// TerminalWidth returns the output width in columns
	TerminalWidth func() int

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewCompleter:    api.NewCompleter,
		RunChat:         tui.RunChat,
		CopyToClipboard: clipboard.WriteAll,
		StdinIsPipe:     stdinIsPipe,
		TerminalWidth:   getTerminalWidth,
		Stdin:           os.Stdin,
		Stdout:          os.Stdout,
		Stderr:          os.Stderr,
	}
}

func stdinIsPipe() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
