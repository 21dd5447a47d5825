package services

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"briefly-backend/internal/models"
)

const bulletMarker = "• "

// SummaryGenerator produces a summary through the backend, memoized in the
// response cache, and degrades to a local extractive summary when the backend fails.
type SummaryGenerator struct {
	backend  Backend
	cache    ResponseCache
	inflight singleflight.Group
	logger   *zap.Logger
}

func NewSummaryGenerator(backend Backend, cache ResponseCache, logger *zap.Logger) *SummaryGenerator {
	return &SummaryGenerator{backend: backend, cache: cache, logger: logger}
}

// Generate only fails on blank text; every backend failure ends in the fallback.
func (g *SummaryGenerator) Generate(ctx context.Context, text string, format models.SummaryFormat, detail models.DetailLevel) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", &InvalidInputError{Message: "text is required"}
	}

	key := NewCacheKey(text, format, detail)
	if cached, ok := g.cache.Get(ctx, key); ok {
		g.logger.Debug("summary cache hit", zap.String("key", key.Hash()))
		return cached, nil
	}

	// Concurrent identical requests share one backend call.
	v, err, shared := g.inflight.Do(key.Hash(), func() (interface{}, error) {
		resp, err := g.backend.Generate(ctx, BuildSummaryPrompt(text, format, detail))
		if err != nil {
			return nil, err
		}
		if err := g.cache.Put(ctx, key, resp); err != nil {
			g.logger.Warn("summary cache write failed", zap.Error(err))
		}
		return resp, nil
	})
	if err != nil {
		g.logger.Warn("summary backend failed, using local fallback",
			zap.String("backend", g.backend.Name()),
			zap.String("format", string(format)),
			zap.String("detail_level", string(detail)),
			zap.Error(err),
		)
		return FallbackSummary(text, format, detail), nil
	}
	if shared {
		g.logger.Debug("summary request collapsed into in-flight call", zap.String("key", key.Hash()))
	}
	return v.(string), nil
}

func (g *SummaryGenerator) ClearCache(ctx context.Context) error {
	return g.cache.Clear(ctx)
}

// FallbackSummary keeps every 2nd (detailed) or 3rd (simplified) sentence,
// starting with the first one.
func FallbackSummary(text string, format models.SummaryFormat, detail models.DetailLevel) string {
	stride := 2
	if detail.Simplified() {
		stride = 3
	}

	var kept []string
	for i, sentence := range splitSentences(text) {
		if i%stride == 0 {
			kept = append(kept, sentence)
		}
	}

	if format == models.FormatBullets {
		lines := make([]string, len(kept))
		for i, sentence := range kept {
			lines[i] = bulletMarker + sentence
		}
		return strings.Join(lines, "\n")
	}
	return strings.Join(kept, " ")
}
