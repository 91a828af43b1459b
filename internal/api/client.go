package api

import (
	"fmt"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"github.com/rs/zerolog"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

// HTTPDoer is the part of tls_client.HttpClient the Gemini client needs
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// GeminiClient calls the generateContent endpoint of the Generative Language API
type GeminiClient struct {
	httpClient     HTTPDoer
	apiKey         string
	endpoint       string
	timeoutSeconds int
	logger         zerolog.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*GeminiClient)

// WithEndpoint overrides the generateContent endpoint
func WithEndpoint(endpoint string) ClientOption {
	return func(c *GeminiClient) {
		c.endpoint = endpoint
	}
}

// WithModel derives the endpoint from a model name
func WithModel(model models.Model) ClientOption {
	return func(c *GeminiClient) {
		c.endpoint = models.EndpointForModel(model.Name)
	}
}

// WithHTTPClient injects the transport (used by tests)
func WithHTTPClient(doer HTTPDoer) ClientOption {
	return func(c *GeminiClient) {
		c.httpClient = doer
	}
}

// WithTimeoutSeconds sets the transport timeout. 0 disables it.
func WithTimeoutSeconds(seconds int) ClientOption {
	return func(c *GeminiClient) {
		c.timeoutSeconds = seconds
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) ClientOption {
	return func(c *GeminiClient) {
		c.logger = logger
	}
}

// NewClient creates a new GeminiClient
func NewClient(apiKey string, opts ...ClientOption) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, apierrors.ErrNoAPIKey
	}

	client := &GeminiClient{
		apiKey:         apiKey,
		endpoint:       models.DefaultEndpoint,
		timeoutSeconds: 300,
		logger:         zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.endpoint == "" {
		client.endpoint = models.DefaultEndpoint
	}

	if client.httpClient == nil {
		options := []tls_client.HttpClientOption{
			tls_client.WithClientProfile(profiles.Chrome_120),
		}
		if client.timeoutSeconds > 0 {
			options = append(options, tls_client.WithTimeoutSeconds(client.timeoutSeconds))
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// Endpoint returns the configured endpoint without credentials
func (c *GeminiClient) Endpoint() string {
	return c.endpoint
}
