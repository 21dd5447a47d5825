package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	defaultAnthropicModel    = "claude-haiku-4-5-20251001"
	anthropicMaxOutputTokens = 1024
)

type AnthropicBackend struct {
	client anthropic.Client
	model  string
	gate   *rateGate
}

func NewAnthropicBackend(apiKey string, opts BackendOptions) (*AnthropicBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("anthropic api key is empty")
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultAnthropicModel
	}

	client := anthropic.NewClient(
		option.WithAPIKey(strings.TrimSpace(apiKey)),
		option.WithMaxRetries(0),
	)

	return &AnthropicBackend{
		client: client,
		model:  model,
		gate:   newRateGate(opts.ConcurrentReqs, opts.RequestTimeout),
	}, nil
}

func (s *AnthropicBackend) Name() string { return "anthropic" }

func (s *AnthropicBackend) Generate(ctx context.Context, prompt string) (string, error) {
	callCtx, release, err := s.gate.acquire(ctx)
	if err != nil {
		return "", unavailable(s.Name(), err)
	}
	defer release()

	msg, err := s.client.Messages.New(callCtx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: anthropicMaxOutputTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", unavailable(s.Name(), fmt.Errorf("anthropic error: %w", err))
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return nonEmpty(s.Name(), text.String())
}
