package services

import (
	"fmt"

	"go.uber.org/zap"

	"briefly-backend/internal/config"
)

// NewBackend builds the backend selected by AI_PROVIDER. The returned close
// func is always safe to call.
func NewBackend(cfg *config.Config, logger *zap.Logger) (Backend, func(), error) {
	opts := BackendOptions{
		ConcurrentReqs: cfg.AIConcurrentRequests,
		RequestTimeout: cfg.AIRequestTimeout,
	}
	noop := func() {}

	switch cfg.AIProvider {
	case config.ProviderGemini:
		opts.Model = cfg.GeminiModel
		b, err := NewGeminiBackend(cfg.GeminiAPIKey, opts, logger)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	case config.ProviderOpenAI:
		opts.Model = cfg.OpenAIModel
		b, err := NewOpenAIBackend(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, opts)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	case config.ProviderAnthropic:
		opts.Model = cfg.AnthropicModel
		b, err := NewAnthropicBackend(cfg.AnthropicAPIKey, opts)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	case config.ProviderOffline:
		return OfflineBackend{}, noop, nil
	default:
		return nil, noop, fmt.Errorf("unsupported AI provider: %s", cfg.AIProvider)
	}
}
