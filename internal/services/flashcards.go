package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"briefly-backend/internal/models"
)

const pairSeparator = " | "

type FlashcardExtractor struct {
	backend Backend
	logger  *zap.Logger
}

func NewFlashcardExtractor(backend Backend, logger *zap.Logger) *FlashcardExtractor {
	return &FlashcardExtractor{backend: backend, logger: logger}
}

// Extract never fails: backend errors and unparseable responses fall back to
// one card per summary sentence.
func (e *FlashcardExtractor) Extract(ctx context.Context, summary string, detail models.DetailLevel) []models.Flashcard {
	resp, err := e.backend.Generate(ctx, BuildFlashcardPrompt(summary, detail))
	if err != nil {
		e.logger.Warn("flashcard backend failed, using local fallback",
			zap.String("backend", e.backend.Name()),
			zap.Error(err),
		)
		return FallbackFlashcards(summary)
	}

	cards, err := ParseFlashcards(resp)
	if err != nil {
		e.logger.Warn("flashcard response unusable, using local fallback", zap.Error(err))
		return FallbackFlashcards(summary)
	}
	return cards
}

// ParseFlashcards reads "Q: question | A: answer" lines. Lines without the
// separator or with an empty side are skipped; ids count parsed pairs only.
func ParseFlashcards(raw string) ([]models.Flashcard, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```text")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")

	lines := strings.Split(raw, "\n")
	cards := make([]models.Flashcard, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		left, right, ok := strings.Cut(line, pairSeparator)
		if !ok {
			skipped++
			continue
		}

		question := strings.TrimSpace(strings.TrimPrefix(stripListMarker(left), "Q:"))
		answer := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(right), "A:"))
		if question == "" || answer == "" {
			skipped++
			continue
		}

		cards = append(cards, models.Flashcard{
			ID:       len(cards),
			Question: question,
			Answer:   answer,
		})
	}

	if len(cards) == 0 {
		return nil, &ParseError{Lines: len(lines), Skipped: skipped}
	}
	return cards, nil
}

// stripListMarker drops a leading "-", "*" or "•" that models like to prepend.
func stripListMarker(s string) string {
	s = strings.TrimSpace(s)
	for _, marker := range []string{"-", "*", "•"} {
		if strings.HasPrefix(s, marker) {
			return strings.TrimSpace(strings.TrimPrefix(s, marker))
		}
	}
	return s
}

// FallbackFlashcards turns each summary sentence into a card. Bulleted summaries
// are read line by line so every bullet becomes at least one sentence. A line
// that is nothing but a marker is kept as is.
func FallbackFlashcards(summary string) []models.Flashcard {
	var sentences []string
	for _, line := range strings.Split(summary, "\n") {
		text := stripListMarker(line)
		if text == "" {
			text = line
		}
		sentences = append(sentences, splitSentences(text)...)
	}

	cards := make([]models.Flashcard, len(sentences))
	for i, sentence := range sentences {
		cards[i] = models.Flashcard{
			ID:       i,
			Question: fmt.Sprintf("What is the key point #%d?", i+1),
			Answer:   sentence,
		}
	}
	return cards
}
