package api

import (
	"errors"
	"testing"

	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

func TestNewClient(t *testing.T) {
	t.Run("blank key", func(t *testing.T) {
		_, err := NewClient("  ")
		if !errors.Is(err, apierrors.ErrNoAPIKey) {
			t.Fatalf("expected ErrNoAPIKey, got %v", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		client, err := NewClient("key", WithHTTPClient(&MockHttpClient{}))
		if err != nil {
			t.Fatalf("NewClient() unexpected error: %v", err)
		}
		if client.Endpoint() != models.DefaultEndpoint {
			t.Errorf("Endpoint() = %q, want %q", client.Endpoint(), models.DefaultEndpoint)
		}
		if client.timeoutSeconds != 300 {
			t.Errorf("timeoutSeconds = %d, want 300", client.timeoutSeconds)
		}
	})

	t.Run("model option", func(t *testing.T) {
		client, err := NewClient("key", WithModel(models.Model25Pro), WithHTTPClient(&MockHttpClient{}))
		if err != nil {
			t.Fatalf("NewClient() unexpected error: %v", err)
		}
		if want := models.EndpointForModel(models.Model25Pro.Name); client.Endpoint() != want {
			t.Errorf("Endpoint() = %q, want %q", client.Endpoint(), want)
		}
	})

	t.Run("empty endpoint falls back", func(t *testing.T) {
		client, err := NewClient("key", WithEndpoint(""), WithHTTPClient(&MockHttpClient{}))
		if err != nil {
			t.Fatalf("NewClient() unexpected error: %v", err)
		}
		if client.Endpoint() != models.DefaultEndpoint {
			t.Errorf("Endpoint() = %q", client.Endpoint())
		}
	})

	t.Run("builds tls client", func(t *testing.T) {
		client, err := NewClient("key", WithTimeoutSeconds(10))
		if err != nil {
			t.Fatalf("NewClient() unexpected error: %v", err)
		}
		if client.httpClient == nil {
			t.Error("expected a default HTTP client")
		}
	})
}
