package api

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/diogo/geminichat/internal/config"
	"github.com/diogo/geminichat/internal/models"
)

// Completer turns a prompt into reply text or a gateway error.
// The prompt must not be blank: a blank prompt fails with ErrBlankInput and
// is never sent. Implementations must honor ctx cancellation.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Ensure the gateways implement Completer
var (
	_ Completer = (*GeminiClient)(nil)
	_ Completer = (*OpenAIClient)(nil)
)

// NewCompleter builds the gateway selected by cfg.Provider
func NewCompleter(cfg config.Config, logger zerolog.Logger) (Completer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case models.ProviderGemini:
		client, err := NewClient(cfg.APIKey,
			WithEndpoint(cfg.ResolvedEndpoint()),
			WithTimeoutSeconds(cfg.RequestTimeout),
			WithLogger(logger.With().Str("gateway", models.ProviderGemini).Logger()),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	case models.ProviderOpenAI:
		client, err := NewOpenAIClient(cfg.APIKey, cfg.Model,
			WithOpenAIBaseURL(cfg.Endpoint),
			WithOpenAILogger(logger.With().Str("gateway", models.ProviderOpenAI).Logger()),
		)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}
}
