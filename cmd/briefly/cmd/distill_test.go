package cmd

import (
	"bytes"
	"strings"
	"testing"

	"briefly-backend/internal/models"
)

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	printResult(&buf, &models.DistillResult{
		Topic:       models.TopicStudy,
		Format:      models.FormatParagraph,
		DetailLevel: models.DetailSimplified,
		Summary:     "Alpha. Delta.",
		Flashcards: []models.Flashcard{
			{ID: 0, Question: "What is the key point #1?", Answer: "Alpha."},
		},
	})

	out := buf.String()
	for _, want := range []string{
		"Topic: study",
		"Summary (paragraph, simplified)\nAlpha. Delta.",
		"Flashcards (1)",
		"1. Q: What is the key point #1?\n   A: Alpha.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestLoadConfig_ReportsMissingKey(t *testing.T) {
	t.Setenv("AI_PROVIDER", "anthropic")
	t.Setenv("ANTHROPIC_API_KEY", "")
	if _, err := loadConfig(); err == nil {
		t.Fatal("expected error for missing provider key")
	}

	t.Setenv("AI_PROVIDER", "offline")
	c, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if c.AIProvider != "offline" {
		t.Errorf("expected offline provider, got %s", c.AIProvider)
	}
}
