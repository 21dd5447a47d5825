package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"briefly-backend/internal/models"
)

// Observer receives pipeline progress. The topic is reported before any backend
// call so a topic badge can update independently of the summary.
type Observer interface {
	TopicDetected(ctx context.Context, topic models.Topic)
	StageStarted(ctx context.Context, step int, name string)
}

type nopObserver struct{}

func (nopObserver) TopicDetected(context.Context, models.Topic) {}
func (nopObserver) StageStarted(context.Context, int, string) {}

// Pipeline is the single entry point presentation code calls.
type Pipeline struct {
	summaries  *SummaryGenerator
	flashcards *FlashcardExtractor
	logger     *zap.Logger
}

func NewPipeline(backend Backend, cache ResponseCache, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		summaries:  NewSummaryGenerator(backend, cache, logger),
		flashcards: NewFlashcardExtractor(backend, logger),
		logger:     logger,
	}
}

func (p *Pipeline) Classify(text string) models.Topic {
	return ClassifyTopic(text)
}

// Run classifies, summarizes, then extracts flashcards from the summary. The
// only error it returns is *InvalidInputError.
func (p *Pipeline) Run(ctx context.Context, text string, format models.SummaryFormat, detail models.DetailLevel, obs Observer) (*models.DistillResult, error) {
	if obs == nil {
		obs = nopObserver{}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &InvalidInputError{Message: "text is required"}
	}

	topic := ClassifyTopic(text)
	obs.TopicDetected(ctx, topic)

	obs.StageStarted(ctx, 1, "Generating summary")
	summary, err := p.summaries.Generate(ctx, text, format, detail)
	if err != nil {
		return nil, err
	}

	obs.StageStarted(ctx, 2, "Creating flashcards")
	cards := p.flashcards.Extract(ctx, summary, detail)

	p.logger.Info("distillation complete",
		zap.String("topic", string(topic)),
		zap.String("format", string(format)),
		zap.String("detail_level", string(detail)),
		zap.Int("summary_chars", len(summary)),
		zap.Int("flashcards", len(cards)),
	)

	return &models.DistillResult{
		Topic:       topic,
		Format:      format,
		DetailLevel: detail,
		Summary:     summary,
		Flashcards:  cards,
	}, nil
}

func (p *Pipeline) ClearCache(ctx context.Context) error {
	return p.summaries.ClearCache(ctx)
}
