package services

import (
	"strings"
	"testing"

	"briefly-backend/internal/models"
)

func TestBuildSummaryPrompt_Policy(t *testing.T) {
	tests := []struct {
		format models.SummaryFormat
		detail models.DetailLevel
		phrase string
	}{
		{models.FormatBullets, models.DetailDetailed, "5-8 clear bullet points"},
		{models.FormatBullets, models.DetailSimplified, "3-5 clear bullet points"},
		{models.FormatParagraph, models.DetailDetailed, "comprehensive paragraph"},
		{models.FormatParagraph, models.DetailSimplified, "brief paragraph"},
		{models.FormatQA, models.DetailDetailed, "5 key question-answer pairs"},
		{models.FormatQA, models.DetailSimplified, "3 key question-answer pairs"},
	}

	for _, tc := range tests {
		t.Run(string(tc.format)+"/"+string(tc.detail), func(t *testing.T) {
			prompt := BuildSummaryPrompt("Some input text.", tc.format, tc.detail)
			if !strings.Contains(prompt, tc.phrase) {
				t.Errorf("prompt %q does not contain %q", prompt, tc.phrase)
			}
			if !strings.HasSuffix(prompt, "\n\nSome input text.") {
				t.Errorf("prompt should end with the input text, got %q", prompt)
			}
		})
	}
}

func TestBuildSummaryPrompt_Deterministic(t *testing.T) {
	a := BuildSummaryPrompt("same", models.FormatQA, models.DetailSimplified)
	b := BuildSummaryPrompt("same", models.FormatQA, models.DetailSimplified)
	if a != b {
		t.Fatalf("expected identical prompts, got %q and %q", a, b)
	}
}

func TestBuildFlashcardPrompt(t *testing.T) {
	detailed := BuildFlashcardPrompt("the summary", models.DetailDetailed)
	simplified := BuildFlashcardPrompt("the summary", models.DetailSimplified)

	if !strings.Contains(detailed, "Generate 5 ") {
		t.Errorf("detailed prompt should ask for 5 pairs: %q", detailed)
	}
	if !strings.Contains(simplified, "Generate 3 ") {
		t.Errorf("simplified prompt should ask for 3 pairs: %q", simplified)
	}
	for _, p := range []string{detailed, simplified} {
		if !strings.Contains(p, "Q: question | A: answer") {
			t.Errorf("prompt missing line format: %q", p)
		}
		if !strings.HasSuffix(p, "the summary") {
			t.Errorf("prompt should end with the summary: %q", p)
		}
	}
}
