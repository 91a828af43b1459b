package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/geminichat/internal/errors"
)

// maxErrorBody limits how much of a failed response is kept for diagnostics
const maxErrorBody = 4096

// apiKeyHeader carries the credential so it never appears in a request URL
const apiKeyHeader = "x-goog-api-key"

// generateRequest is the generateContent body: one content with one text part
type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// Complete sends prompt as a single-turn request and returns the first candidate's text.
// A blank prompt is rejected with ErrBlankInput before anything is sent; every
// other failure is a *errors.GatewayError.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", apierrors.ErrBlankInput
	}

	payload, err := buildPayload(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to build payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL(c.endpoint, c.apiKey), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", redactKey(err, c.apiKey))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	c.logger.Debug().Str("endpoint", c.endpoint).Int("prompt_len", len(prompt)).Msg("sending generateContent request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apierrors.NewNetworkFailure(c.endpoint, "generate content", redactKey(err, c.apiKey))
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		message := "generate content failed"
		if msg := gjson.GetBytes(errorBody, PathErrorMessage); msg.Exists() && msg.String() != "" {
			message = msg.String()
		}
		return "", apierrors.NewHTTPStatusError(resp.StatusCode, c.endpoint, message, string(errorBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apierrors.NewNetworkFailure(c.endpoint, "read response body", redactKey(err, c.apiKey))
	}

	text, err := parseResponse(body, c.endpoint)
	if err != nil {
		return "", err
	}

	c.logger.Debug().
		Str("finish_reason", gjson.GetBytes(body, PathFinishReason).String()).
		Int("reply_len", len(text)).
		Msg("generateContent request completed")

	return text, nil
}

// buildPayload creates the JSON body {"contents":[{"parts":[{"text":prompt}]}]}
func buildPayload(prompt string) ([]byte, error) {
	return json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
}

// requestURL returns the URL to post to. Only a configured endpoint ending in
// "key=" gets the key in the URL; every request also sends it in apiKeyHeader.
func requestURL(endpoint, apiKey string) string {
	if strings.HasSuffix(endpoint, "key=") {
		return endpoint + url.QueryEscape(apiKey)
	}
	return endpoint
}

// redactedError hides the API key in a transport error that quotes the request URL
type redactedError struct {
	msg   string
	cause error
}

func (e *redactedError) Error() string { return e.msg }
func (e *redactedError) Unwrap() error { return e.cause }

// redactKey masks every occurrence of apiKey, raw or query-escaped, in err's message
func redactKey(err error, apiKey string) error {
	if err == nil || apiKey == "" {
		return err
	}
	msg := err.Error()
	redacted := strings.ReplaceAll(msg, apiKey, "REDACTED")
	if escaped := url.QueryEscape(apiKey); escaped != apiKey {
		redacted = strings.ReplaceAll(redacted, escaped, "REDACTED")
	}
	if redacted == msg {
		return err
	}
	return &redactedError{msg: redacted, cause: err}
}

// parseResponse extracts candidates[0].content.parts[0].text.
// Anything else, including an empty text, is a malformed response.
func parseResponse(body []byte, endpoint string) (string, error) {
	if !gjson.ValidBytes(body) {
		return "", apierrors.NewMalformedResponse(endpoint, "response is not valid JSON")
	}

	parsed := gjson.ParseBytes(body)

	text := parsed.Get(PathCandidateText)
	if text.Exists() && text.Type == gjson.String && text.String() != "" {
		return text.String(), nil
	}

	if reason := parsed.Get(PathBlockReason); reason.Exists() {
		return "", apierrors.NewMalformedResponse(endpoint, "prompt blocked: "+reason.String())
	}

	candidates := parsed.Get(PathCandidates)
	if !candidates.Exists() || !candidates.IsArray() || len(candidates.Array()) == 0 {
		return "", apierrors.NewMalformedResponse(endpoint, "no candidates in response")
	}

	if text.Exists() && text.Type == gjson.String {
		return "", apierrors.NewMalformedResponse(endpoint, "empty candidate text")
	}

	if finish := parsed.Get(PathFinishReason); finish.Exists() {
		return "", apierrors.NewMalformedResponse(endpoint, "no candidate text (finish reason "+finish.String()+")")
	}

	return "", apierrors.NewMalformedResponse(endpoint, "no candidate text in response")
}
