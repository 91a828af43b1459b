package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "github.com/diogo/geminichat/internal/errors"
)

func newOpenAITestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		if assert.Len(t, req.Messages, 1) {
			assert.Equal(t, "user", req.Messages[0].Role)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newOpenAITestClient(t *testing.T, srv *httptest.Server) *OpenAIClient {
	t.Helper()
	client, err := NewOpenAIClient("sk-test", "gpt-4o-mini",
		WithOpenAIBaseURL(srv.URL+"/v1/"),
		WithOpenAIHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return client
}

func TestNewOpenAIClient_Validation(t *testing.T) {
	_, err := NewOpenAIClient("", "gpt-4o-mini")
	assert.ErrorIs(t, err, apierrors.ErrNoAPIKey)

	_, err = NewOpenAIClient("sk-test", "")
	assert.Error(t, err)
}

func TestOpenAIClient_Complete(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusOK,
		`{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Hi there"},"finish_reason":"stop"}]}`)
	client := newOpenAITestClient(t, srv)

	got, err := client.Complete(context.Background(), "Hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", got)
}

func TestOpenAIClient_NoChoices(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusOK, `{"id":"1","choices":[]}`)
	client := newOpenAITestClient(t, srv)

	_, err := client.Complete(context.Background(), "Hello")
	assert.True(t, apierrors.IsMalformedResponse(err), "got %v", err)
}

func TestOpenAIClient_EmptyContent(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusOK, `{"id":"1","choices":[{"index":0,"message":{"role":"assistant","content":""}}]}`)
	client := newOpenAITestClient(t, srv)

	_, err := client.Complete(context.Background(), "Hello")
	assert.True(t, apierrors.IsMalformedResponse(err), "got %v", err)
}

func TestOpenAIClient_APIError(t *testing.T) {
	srv := newOpenAITestServer(t, http.StatusUnauthorized,
		`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`)
	client := newOpenAITestClient(t, srv)

	_, err := client.Complete(context.Background(), "Hello")
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, apierrors.GetHTTPStatus(err))
	assert.Contains(t, err.Error(), "Incorrect API key")
}

func TestOpenAIClient_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client, err := NewOpenAIClient("sk-test", "gpt-4o-mini",
		WithOpenAIBaseURL(srv.URL+"/v1"),
		WithOpenAIHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	srv.Close()

	_, err = client.Complete(context.Background(), "Hello")
	require.Error(t, err)
	assert.True(t, apierrors.IsNetworkFailure(err), "got %v", err)
	assert.True(t, errors.Is(err, apierrors.ErrGateway))
}

func TestOpenAIClient_BlankPrompt(t *testing.T) {
	client, err := NewOpenAIClient("sk-test", "gpt-4o-mini", WithOpenAIBaseURL("http://127.0.0.1:1/v1"))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), " \n ")
	assert.ErrorIs(t, err, apierrors.ErrBlankInput)
	_, isGateway := apierrors.AsGatewayError(err)
	assert.False(t, isGateway)
}
