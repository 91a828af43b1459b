// Package pipeline runs one conversational turn at a time: it records the
// user's message, shows a pending reply, awaits the gateway and settles the
// reply as complete or failed.
package pipeline

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/diogo/geminichat/internal/api"
	"github.com/diogo/geminichat/internal/conversation"
	apierrors "github.com/diogo/geminichat/internal/errors"
	"github.com/diogo/geminichat/internal/models"
)

// State is the pipeline's send state
type State int

const (
	StateIdle State = iota
	StateSending
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	default:
		return "unknown"
	}
}

// Indicator is the pending animation driven while a turn is in flight
type Indicator interface {
	Start()
	Stop()
}

type noopIndicator struct{}

func (noopIndicator) Start() {}
func (noopIndicator) Stop()  {}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithIndicator sets the animation started and stopped around each turn
func WithIndicator(ind Indicator) Option {
	return func(p *Pipeline) {
		if ind != nil {
			p.indicator = ind
		}
	}
}

// WithStateObserver registers fn to receive every state transition.
// fn runs on the goroutine that called Submit.
func WithStateObserver(fn func(State)) Option {
	return func(p *Pipeline) {
		p.onState = fn
	}
}

// WithLogger sets the diagnostic logger
func WithLogger(logger zerolog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// Pipeline accepts user input and drives a single in-flight gateway call
type Pipeline struct {
	gateway   api.Completer
	store     *conversation.Store
	indicator Indicator
	onState   func(State)
	logger    zerolog.Logger

	mu        sync.Mutex
	state     State
	resetting bool // a Reset is publishing; Submit is rejected until it finishes
}

// New creates a pipeline over gateway and store
func New(gateway api.Completer, store *conversation.Store, opts ...Option) *Pipeline {
	p := &Pipeline{
		gateway:   gateway,
		store:     store,
		indicator: noopIndicator{},
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current send state
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Busy reports whether a turn is in flight
func (p *Pipeline) Busy() bool {
	return p.State() == StateSending
}

// Conversation returns the current conversation snapshot
func (p *Pipeline) Conversation() models.Conversation {
	return p.store.Snapshot()
}

// Submit runs one turn for raw and blocks until it settles.
//
// Blank input returns ErrBlankInput and a call while another turn is in
// flight returns ErrBusy; neither touches the conversation. Gateway failures
// are recorded as a failed reply and Submit still returns nil.
func (p *Pipeline) Submit(ctx context.Context, raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return apierrors.ErrBlankInput
	}

	if !p.tryAcquire() {
		p.logger.Debug().Msg("submit rejected: turn in flight")
		return apierrors.ErrBusy
	}
	defer p.setState(StateIdle)

	p.store.AppendPair(models.NewUserEntry(text), models.NewPlaceholder())
	p.logger.Debug().Int("prompt_len", len(text)).Msg("turn accepted")

	p.indicator.Start()
	defer p.indicator.Stop()

	settled := false
	defer func() {
		// A panicking gateway must not leave the placeholder behind
		if !settled {
			_, _ = p.store.ResolvePending(models.FailedResult())
		}
	}()

	result := p.complete(ctx, text)
	settled = true

	if _, err := p.store.ResolvePending(result); err != nil {
		p.logger.Error().Err(err).Msg("turn could not be settled")
		return err
	}

	p.logger.Debug().Str("status", result.Status.String()).Bool("code", result.IsCode).Msg("turn settled")
	return nil
}

// complete calls the gateway and classifies the outcome
func (p *Pipeline) complete(ctx context.Context, prompt string) models.Result {
	reply, err := p.gateway.Complete(ctx, prompt)
	if err == nil {
		return models.CompleteResult(reply)
	}

	event := p.logger.Warn().Err(err)
	if gwErr, ok := apierrors.AsGatewayError(err); ok {
		event = event.Str("kind", gwErr.Kind.String())
		if gwErr.StatusCode != 0 {
			event = event.Int("status", gwErr.StatusCode)
		}
	}
	event.Msg("gateway call failed")

	return models.FailedResult()
}

// Reset starts a new conversation. It fails with ErrBusy while a turn is in
// flight. Store observers run without the pipeline lock held.
func (p *Pipeline) Reset() error {
	p.mu.Lock()
	if p.state == StateSending || p.resetting {
		p.mu.Unlock()
		return apierrors.ErrBusy
	}
	p.resetting = true
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.resetting = false
		p.mu.Unlock()
	}()

	p.store.Reset()
	return nil
}

func (p *Pipeline) tryAcquire() bool {
	p.mu.Lock()
	if p.state == StateSending || p.resetting {
		p.mu.Unlock()
		return false
	}
	p.state = StateSending
	p.mu.Unlock()

	if p.onState != nil {
		p.onState(StateSending)
	}
	return true
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()

	if p.onState != nil {
		p.onState(s)
	}
}
