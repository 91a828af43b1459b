package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/conversation"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/indicator"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/models"
	"github.com/diogo/geminichat/internal/pipeline"
	"github.com/diogo/geminichat/internal/render"
)

var palette = render.DefaultPalette

// Styles matching the chat TUI
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(palette.Primary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(palette.Primary).
				Foreground(palette.Text).
				Padding(0, 1).
				MarginBottom(1)

	successStyle = lipgloss.NewStyle().Foreground(palette.Secondary)
	warnStyle    = lipgloss.NewStyle().Foreground(palette.Error)
	messageStyle = lipgloss.NewStyle().Foreground(palette.Text)
)

// spinner draws the bouncing dots on stderr while a turn is in flight
type spinner struct {
	out     io.Writer
	message string
	params  indicator.Params
	clock   *indicator.Clock
	enabled bool
}

// newSpinner creates a spinner; a disabled spinner draws nothing
func newSpinner(out io.Writer, message string, enabled bool) *spinner {
	s := &spinner{
		out:     out,
		message: message,
		params:  indicator.DefaultParams(),
		enabled: enabled,
	}
	s.clock = indicator.New(indicator.WithParams(s.params), indicator.WithSink(s.render))
	return s
}

// Start hides the cursor and starts the animation
func (s *spinner) Start() {
	if !s.enabled {
		return
	}
	fmt.Fprint(s.out, "\033[?25l")
	s.clock.Start()
}

// Stop halts the animation, clears the line and restores the cursor
func (s *spinner) Stop() {
	if !s.enabled {
		return
	}
	s.clock.Stop()
	fmt.Fprint(s.out, "\r\033[K\033[?25h")
}

// render runs on the clock goroutine
func (s *spinner) render(f indicator.Frame) {
	fmt.Fprintf(s.out, "\r\033[K%s %s", render.Dots(f, s.params.Amplitude), messageStyle.Render(s.message))
}

// runQuery runs one pipeline turn and prints the reply
func runQuery(ctx context.Context, deps *Dependencies, flags *globalFlags, prompt, output string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}

	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	gateway, err := deps.NewCompleter(cfg, logging.Component(logger, "gateway"))
	if err != nil {
		return err
	}

	store := conversation.NewStore()
	spin := newSpinner(deps.Stderr, "Gemini is thinking", isTerminal(deps.Stderr))
	p := pipeline.New(gateway, store,
		pipeline.WithIndicator(spin),
		pipeline.WithLogger(logging.Component(logger, "pipeline")),
	)

	start := time.Now()
	if err := p.Submit(ctx, prompt); err != nil {
		if errors.Is(err, apierrors.ErrBlankInput) {
			return fmt.Errorf("prompt cannot be empty")
		}
		return err
	}
	logger.Debug().Dur("took", time.Since(start)).Str("model", cfg.Model).Msg("query finished")

	reply, ok := store.Snapshot().Last()
	if !ok || reply.Sender != models.SenderAssistant {
		return apierrors.NewInvariantViolation("runQuery", "no reply recorded")
	}

	if reply.Status == models.StatusFailed {
		fmt.Fprintln(deps.Stderr, render.Entry(reply, render.DefaultOptions()))
		return errTurnFailed
	}

	return printReply(deps, cfg, reply, output)
}

// printReply copies, saves or prints a completed reply.
// A non-terminal stdout receives the raw text.
func printReply(deps *Dependencies, cfg config.Config, reply models.MessageEntry, output string) error {
	text := reply.Text

	if cfg.CopyToClipboard {
		if err := deps.CopyToClipboard(text); err != nil {
			fmt.Fprintln(deps.Stderr, warnStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Stderr, successStyle.Render("✓ Copied to clipboard"))
		}
	}

	if output != "" {
		if err := os.WriteFile(output, []byte(text), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Fprintln(deps.Stderr, successStyle.Render(fmt.Sprintf("✓ Response saved to %s", output)))
		return nil
	}

	if !isTerminal(deps.Stdout) {
		fmt.Fprint(deps.Stdout, text)
		return nil
	}

	bubbleWidth := deps.TerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	opts := render.FromConfig(cfg.Markdown)
	if cfg.Markdown.Width == 0 {
		opts = opts.WithWidth(bubbleWidth - 4)
	}

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("✦ "+modelLabel(cfg)))
	fmt.Fprintln(deps.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(render.Entry(reply, opts)))
	return nil
}
