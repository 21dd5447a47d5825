package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Backend is the generative-text collaborator: one prompt in, one response out.
// Both the summary and the flashcard calls go through the same Backend.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// BackendOptions bound every call a provider adapter makes.
type BackendOptions struct {
	Model          string
	ConcurrentReqs int
	RequestTimeout time.Duration
}

// rateGate is a token bucket limiting concurrent backend calls.
type rateGate struct {
	tokens  chan struct{}
	timeout time.Duration
}

func newRateGate(concurrent int, timeout time.Duration) *rateGate {
	if concurrent <= 0 {
		concurrent = 1
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	tokens := make(chan struct{}, concurrent)
	for i := 0; i < concurrent; i++ {
		tokens <- struct{}{}
	}
	return &rateGate{tokens: tokens, timeout: timeout}
}

// acquire blocks until a slot is available and returns a context bounded by the
// request timeout plus the release func for the slot.
func (g *rateGate) acquire(ctx context.Context) (context.Context, func(), error) {
	select {
	case <-g.tokens:
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case <-time.After(g.timeout):
		return nil, nil, fmt.Errorf("timeout waiting for backend rate slot")
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	return callCtx, func() {
		cancel()
		g.tokens <- struct{}{}
	}, nil
}

func unavailable(provider string, err error) error {
	return &BackendUnavailableError{Provider: provider, Err: err}
}

func nonEmpty(provider, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", unavailable(provider, errors.New("empty response from AI"))
	}
	return text, nil
}

// OfflineBackend always fails, forcing the local fallbacks. Used when no
// provider is configured.
type OfflineBackend struct{}

func (OfflineBackend) Name() string { return "offline" }

func (OfflineBackend) Generate(context.Context, string) (string, error) {
	return "", unavailable("offline", errors.New("no generative backend configured"))
}
