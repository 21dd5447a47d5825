package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-2.0-flash"

type GeminiBackend struct {
	client *genai.Client
	model  *genai.GenerativeModel
	gate   *rateGate
	logger *zap.Logger
}

func NewGeminiBackend(apiKey string, opts BackendOptions, logger *zap.Logger) (*GeminiBackend, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	modelName := opts.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0.3)
	model.SetTopP(0.95)

	return &GeminiBackend{
		client: client,
		model:  model,
		gate:   newRateGate(opts.ConcurrentReqs, opts.RequestTimeout),
		logger: logger,
	}, nil
}

func (s *GeminiBackend) Name() string { return "gemini" }

func (s *GeminiBackend) Close() {
	s.client.Close()
}

func (s *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	callCtx, release, err := s.gate.acquire(ctx)
	if err != nil {
		return "", unavailable(s.Name(), err)
	}
	defer release()

	resp, err := s.model.GenerateContent(callCtx, genai.Text(prompt))
	if err != nil {
		return "", unavailable(s.Name(), fmt.Errorf("Gemini API error: %w", err))
	}

	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			s.logger.Warn("gemini stopped early",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()),
				zap.Int32("token_count", cand.TokenCount),
			)
		}
	}

	return nonEmpty(s.Name(), extractText(resp))
}

func extractText(resp *genai.GenerateContentResponse) string {
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}
