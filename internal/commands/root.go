// Package commands provides CLI commands for geminichat.
package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/logging"
	"github.com/diogo/geminichat/internal/models"
	"github.com/diogo/geminichat/internal/tui"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// errTurnFailed marks a one-shot turn that settled as failed. The reply is already printed.
var errTurnFailed = errors.New("request failed")

// globalFlags are shared by every subcommand
type globalFlags struct {
	model      string
	provider   string
	configPath string
	verbose    bool
}

// NewRootCmd builds the command tree over deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}

	flags := &globalFlags{}
	var outputFlag, fileFlag string

	rootCmd := &cobra.Command{
		Use:   "geminichat [prompt]",
		Short: "Chat with Gemini from the terminal",
		Long: `geminichat sends prompts to the Gemini generateContent API and shows
the replies as markdown or highlighted code.

Examples:
  geminichat chat                        Start interactive chat
  geminichat "What is Go?"               Send a single query
  geminichat -f prompt.md                Read prompt from file
  cat prompt.md | geminichat             Read prompt from stdin
  geminichat "Hello" -o response.md      Save response to file
  geminichat config set api_key <key>    Store the API key`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "geminichat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps, fileFlag, args)
			if err != nil {
				return err
			}
			if !ok {
				return cmd.Help()
			}

			return runQuery(cmd.Context(), deps, flags, prompt, outputFlag)
		},
	}

	rootCmd.SetIn(deps.Stdin)
	rootCmd.SetOut(deps.Stdout)
	rootCmd.SetErr(deps.Stderr)

	rootCmd.PersistentFlags().StringVarP(&flags.model, "model", "m", "", "Model to use (e.g., gemini-2.5-flash)")
	rootCmd.PersistentFlags().StringVar(&flags.provider, "provider", "", "Gateway provider (gemini, openai)")
	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default ~/.geminichat/config.json)")
	rootCmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Log diagnostics to stderr")
	rootCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Save response to file")
	rootCmd.Flags().StringVarP(&fileFlag, "file", "f", "", "Read prompt from file")
	rootCmd.Flags().BoolP("version", "v", false, "Show version and exit")

	rootCmd.AddCommand(newChatCmd(deps, flags))
	rootCmd.AddCommand(newConfigCmd(deps, flags))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	deps := NewDependencies()
	if err := NewRootCmd(deps).Execute(); err != nil {
		if !errors.Is(err, errTurnFailed) {
			fmt.Fprintln(deps.Stderr, tui.FormatError(err))
		}
		os.Exit(1)
	}
}

// readPrompt picks the prompt from --file, a piped stdin, or the argument, in that order
func readPrompt(deps *Dependencies, file string, args []string) (string, bool, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	if deps.StdinIsPipe() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), true, nil
	}

	if len(args) > 0 {
		return args[0], true, nil
	}
	return "", false, nil
}

// resolveConfigPath returns the --config path or the default config file
func (f *globalFlags) resolveConfigPath() (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	return config.GetConfigPath()
}

// loadConfig loads the config file and applies flag overrides
func (f *globalFlags) loadConfig() (config.Config, error) {
	path, err := f.resolveConfigPath()
	if err != nil {
		return config.Config{}, err
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to load config: %w", err)
	}

	if f.provider != "" {
		cfg.Provider = f.provider
	}
	if f.model != "" {
		cfg.Model = models.ModelFromName(f.model).Name
	}
	if f.verbose {
		cfg.Logging.Console = true
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

// newLogger opens the diagnostic log for cfg
func newLogger(cfg config.Config) (zerolog.Logger, io.Closer, error) {
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return logging.Nop(), closer, fmt.Errorf("failed to open log: %w", err)
	}
	return logger, closer, nil
}

// modelLabel is the display name for the configured model
func modelLabel(cfg config.Config) string {
	if cfg.Provider == models.ProviderGemini {
		return models.ModelFromName(cfg.Model).Label
	}
	return cfg.Model
}
