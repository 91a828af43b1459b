package api

import (
	"context"
	"sync"
)

// MockCompleter is a Completer for tests.
// When Gate is set, Complete blocks until a value is received from it or ctx ends.
type MockCompleter struct {
	Response     string
	Err          error
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
	Gate         chan struct{}

	mu    sync.Mutex
	calls []string
}

var _ Completer = (*MockCompleter)(nil)

// Complete records prompt and returns the configured outcome
func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()

	if m.Gate != nil {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return m.Response, m.Err
}

// Calls returns the prompts received so far
func (m *MockCompleter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Complete was invoked
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// LastPrompt returns the most recent prompt, or "" if none
func (m *MockCompleter) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.calls) == 0 {
		return ""
	}
	return m.calls[len(m.calls)-1]
}
