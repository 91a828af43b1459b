package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	apierrors "github.com/diogo/geminichat/internal/errors"
)

// OpenAIClient completes prompts against an OpenAI-compatible chat completion API
type OpenAIClient struct {
	client  *openai.Client
	model   string
	baseURL string
	logger  zerolog.Logger
}

// OpenAIOption configures an OpenAIClient
type OpenAIOption func(*openai.ClientConfig, *OpenAIClient)

// WithOpenAIBaseURL points the client at a compatible server
func WithOpenAIBaseURL(baseURL string) OpenAIOption {
	return func(cfg *openai.ClientConfig, _ *OpenAIClient) {
		if baseURL != "" {
			cfg.BaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithOpenAIHTTPClient injects the transport
func WithOpenAIHTTPClient(client *http.Client) OpenAIOption {
	return func(cfg *openai.ClientConfig, _ *OpenAIClient) {
		cfg.HTTPClient = client
	}
}

// WithOpenAILogger sets the diagnostic logger
func WithOpenAILogger(logger zerolog.Logger) OpenAIOption {
	return func(_ *openai.ClientConfig, c *OpenAIClient) {
		c.logger = logger
	}
}

// NewOpenAIClient creates a client for model
func NewOpenAIClient(apiKey, model string, opts ...OpenAIOption) (*OpenAIClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apierrors.ErrNoAPIKey
	}
	if model == "" {
		return nil, fmt.Errorf("model cannot be empty")
	}

	cfg := openai.DefaultConfig(apiKey)
	c := &OpenAIClient{
		model:  model,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&cfg, c)
	}

	c.baseURL = cfg.BaseURL
	c.client = openai.NewClientWithConfig(cfg)
	return c, nil
}

// Complete sends prompt as a single user message and returns the first choice.
// A blank prompt is rejected with ErrBlankInput before anything is sent; every
// other failure is a *errors.GatewayError.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apierrors.ErrBlankInput
	}

	endpoint := c.baseURL + "/chat/completions"
	c.logger.Debug().Str("endpoint", endpoint).Str("model", c.model).Msg("sending chat completion request")

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", classifyOpenAIError(endpoint, err)
	}

	if len(resp.Choices) == 0 {
		return "", apierrors.NewMalformedResponse(endpoint, "no choices in response")
	}

	text := resp.Choices[0].Message.Content
	if text == "" {
		return "", apierrors.NewMalformedResponse(endpoint, "empty choice content")
	}

	return text, nil
}

// classifyOpenAIError maps go-openai errors onto gateway error kinds
func classifyOpenAIError(endpoint string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apierrors.NewHTTPStatusError(apiErr.HTTPStatusCode, endpoint, apiErr.Message, "")
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return apierrors.NewHTTPStatusError(reqErr.HTTPStatusCode, endpoint, "chat completion failed", string(reqErr.Body))
	}

	return apierrors.NewNetworkFailure(endpoint, "chat completion", err)
}
