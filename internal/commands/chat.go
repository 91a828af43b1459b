package commands

import (
	"github.com/spf13/cobra"

	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/render"
	"github.com/diogo/geminichat/internal/tui"
)

func newChatCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with Gemini.

Each message is sent on its own; replies appear as they settle.
Press Ctrl+N for a new chat, Ctrl+Y to copy the last reply and Esc to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(deps, flags)
		},
	}
}

func runChat(deps *Dependencies, flags *globalFlags) error {
	cfg, err := flags.loadConfig()
	if err != nil {
		return err
	}
	// The chat screen owns the terminal
	cfg.Logging.Console = false

	logger, closer, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	gateway, err := deps.NewCompleter(cfg, logging.Component(logger, "gateway"))
	if err != nil {
		return err
	}

	logger.Info().Str("provider", cfg.Provider).Str("model", cfg.Model).Msg("chat session started")
	defer logger.Info().Msg("chat session ended")

	return deps.RunChat(gateway, modelLabel(cfg),
		tui.WithRenderOptions(render.FromConfig(cfg.Markdown)),
		tui.WithLogger(logger),
		tui.WithClipboard(deps.CopyToClipboard),
	)
}
