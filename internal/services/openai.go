package services

import (
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAIBackend talks to OpenAI or any OpenAI-compatible chat completions endpoint.
type OpenAIBackend struct {
	client openai.Client
	model  string
	gate   *rateGate
}

func NewOpenAIBackend(apiKey, baseURL string, opts BackendOptions) (*OpenAIBackend, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("openai api key is empty")
	}

	reqOpts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(apiKey)),
		option.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(baseURL); normalized != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(normalized))
	}

	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAIBackend{
		client: openai.NewClient(reqOpts...),
		model:  model,
		gate:   newRateGate(opts.ConcurrentReqs, opts.RequestTimeout),
	}, nil
}

func (s *OpenAIBackend) Name() string { return "openai" }

func (s *OpenAIBackend) Generate(ctx context.Context, prompt string) (string, error) {
	callCtx, release, err := s.gate.acquire(ctx)
	if err != nil {
		return "", unavailable(s.Name(), err)
	}
	defer release()

	resp, err := s.client.Chat.Completions.New(callCtx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", unavailable(s.Name(), fmt.Errorf("openai error: %w", err))
	}
	if len(resp.Choices) == 0 {
		return "", unavailable(s.Name(), errors.New("empty response from AI"))
	}
	return nonEmpty(s.Name(), resp.Choices[0].Message.Content)
}

// normalizeOpenAIBaseURL makes sure custom endpoints end in /v1.
func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/") + "/"
}
