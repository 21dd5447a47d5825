package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

// stubBackend replays canned responses in order; once they run out the last
// one repeats. A nil responses slice makes every call fail.
type stubBackend struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     int32
	prompts   []string
}

func (s *stubBackend) Name() string { return "stub" }

func (s *stubBackend) Generate(_ context.Context, prompt string) (string, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)

	if s.err != nil {
		return "", s.err
	}
	if len(s.responses) == 0 {
		return "", unavailable("stub", errors.New("no response"))
	}
	resp := s.responses[0]
	if len(s.responses) > 1 {
		s.responses = s.responses[1:]
	}
	return resp, nil
}

func (s *stubBackend) Calls() int { return int(atomic.LoadInt32(&s.calls)) }

func failingBackend() *stubBackend {
	return &stubBackend{err: unavailable("stub", errors.New("network down"))}
}

func testLogger() *zap.Logger { return zap.NewNop() }

func TestRateGate_LimitsConcurrency(t *testing.T) {
	gate := newRateGate(1, time.Second)

	_, release, err := gate.acquire(context.Background())
	if err != nil {
		t.Fatalf("first acquire: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, _, err := gate.acquire(ctx); err == nil {
		t.Fatal("expected second acquire to block until context expiry")
	}

	release()
	_, release2, err := gate.acquire(context.Background())
	if err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	release2()
}

func TestNewRateGate_Defaults(t *testing.T) {
	gate := newRateGate(0, 0)
	if cap(gate.tokens) != 1 {
		t.Errorf("expected 1 token, got %d", cap(gate.tokens))
	}
	if gate.timeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", gate.timeout)
	}
}

func TestNonEmpty(t *testing.T) {
	if _, err := nonEmpty("stub", "  \n"); err == nil {
		t.Fatal("expected blank response to be an error")
	} else {
		var bu *BackendUnavailableError
		if !errors.As(err, &bu) {
			t.Fatalf("expected BackendUnavailableError, got %T", err)
		}
	}
	if got, err := nonEmpty("stub", "ok"); err != nil || got != "ok" {
		t.Fatalf("expected ok, got %q %v", got, err)
	}
}

func TestOfflineBackend_AlwaysUnavailable(t *testing.T) {
	_, err := OfflineBackend{}.Generate(context.Background(), "prompt")
	var bu *BackendUnavailableError
	if !errors.As(err, &bu) {
		t.Fatalf("expected BackendUnavailableError, got %v", err)
	}
	if bu.Provider != "offline" {
		t.Errorf("expected provider offline, got %q", bu.Provider)
	}
}

func TestNormalizeOpenAIBaseURL(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"https://api.example.com", "https://api.example.com/v1/"},
		{"https://api.example.com/", "https://api.example.com/v1/"},
		{"https://api.example.com/v1", "https://api.example.com/v1/"},
		{"https://api.example.com/v1/", "https://api.example.com/v1/"},
	}
	for _, tc := range tests {
		if got := normalizeOpenAIBaseURL(tc.in); got != tc.expected {
			t.Errorf("normalizeOpenAIBaseURL(%q) = %q, want %q", tc.in, got, tc.expected)
		}
	}
}
