package services

import (
	"context"
	"errors"
	"testing"

	"briefly-backend/internal/models"
)

func TestParseFlashcards(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		questions []string
		answers   []string
	}{
		{
			name:      "well formed",
			raw:       "Q: What is X? | A: X is a thing.\nQ: What is Y? | A: Y is another.",
			questions: []string{"What is X?", "What is Y?"},
			answers:   []string{"X is a thing.", "Y is another."},
		},
		{
			name:      "malformed line skipped",
			raw:       "Q: What? | A: That.\nthis line has no separator",
			questions: []string{"What?"},
			answers:   []string{"That."},
		},
		{
			name:      "empty sides skipped",
			raw:       "Q:  | A: orphan answer\nQ: Real? | A: Yes.\nQ: Lonely? | A: ",
			questions: []string{"Real?"},
			answers:   []string{"Yes."},
		},
		{
			name:      "list markers and code fences",
			raw:       "```\n- Q: One? | A: 1\n* Q: Two? | A: 2\n```",
			questions: []string{"One?", "Two?"},
			answers:   []string{"1", "2"},
		},
		{
			name:      "missing prefixes tolerated",
			raw:       "Capital of France? | Paris",
			questions: []string{"Capital of France?"},
			answers:   []string{"Paris"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cards, err := ParseFlashcards(tc.raw)
			if err != nil {
				t.Fatalf("ParseFlashcards: %v", err)
			}
			if len(cards) != len(tc.questions) {
				t.Fatalf("expected %d cards, got %d: %+v", len(tc.questions), len(cards), cards)
			}
			for i, c := range cards {
				if c.ID != i {
					t.Errorf("card %d has id %d", i, c.ID)
				}
				if c.Question != tc.questions[i] || c.Answer != tc.answers[i] {
					t.Errorf("card %d = %q / %q, want %q / %q", i, c.Question, c.Answer, tc.questions[i], tc.answers[i])
				}
			}
		})
	}
}

func TestParseFlashcards_NoPairs(t *testing.T) {
	_, err := ParseFlashcards("nothing useful here\nat all")
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if pe.Skipped != 2 {
		t.Errorf("expected 2 skipped lines, got %d", pe.Skipped)
	}
}

func TestFallbackFlashcards(t *testing.T) {
	cards := FallbackFlashcards("Alpha. Delta.")
	expected := []models.Flashcard{
		{ID: 0, Question: "What is the key point #1?", Answer: "Alpha."},
		{ID: 1, Question: "What is the key point #2?", Answer: "Delta."},
	}
	if len(cards) != len(expected) {
		t.Fatalf("expected %d cards, got %d", len(expected), len(cards))
	}
	for i := range expected {
		if cards[i] != expected[i] {
			t.Errorf("card %d = %+v, want %+v", i, cards[i], expected[i])
		}
	}
}

func TestFallbackFlashcards_BulletedSummary(t *testing.T) {
	cards := FallbackFlashcards("• First point.\n• Second point")
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d: %+v", len(cards), cards)
	}
	if cards[0].Answer != "First point." || cards[1].Answer != "Second point" {
		t.Errorf("unexpected answers: %q, %q", cards[0].Answer, cards[1].Answer)
	}
}

func TestFallbackFlashcards_MarkerOnlySummary(t *testing.T) {
	tests := []struct {
		name     string
		summary  string
		expected []string
	}{
		{"single bullet glyph", "•", []string{"•"}},
		{"dash line between points", "• One.\n-\n• Two.", []string{"One.", "-", "Two."}},
		{"blank lines skipped", "• One.\n\n• Two.", []string{"One.", "Two."}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cards := FallbackFlashcards(tc.summary)
			if len(cards) != len(tc.expected) {
				t.Fatalf("expected %d cards, got %d: %+v", len(tc.expected), len(cards), cards)
			}
			for i, answer := range tc.expected {
				if cards[i].Answer != answer {
					t.Errorf("card %d answer = %q, want %q", i, cards[i].Answer, answer)
				}
			}
		})
	}
}

func TestFlashcardExtractor_Extract(t *testing.T) {
	tests := []struct {
		name          string
		backend       *stubBackend
		expectedCards int
		firstQuestion string
	}{
		{
			name:          "parsed backend response",
			backend:       &stubBackend{responses: []string{"Q: A? | A: a\nQ: B? | A: b\nQ: C? | A: c"}},
			expectedCards: 3,
			firstQuestion: "A?",
		},
		{
			name:          "backend failure falls back",
			backend:       failingBackend(),
			expectedCards: 2,
			firstQuestion: "What is the key point #1?",
		},
		{
			name:          "unparseable response falls back",
			backend:       &stubBackend{responses: []string{"Sorry, I cannot help with that."}},
			expectedCards: 2,
			firstQuestion: "What is the key point #1?",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ex := NewFlashcardExtractor(tc.backend, testLogger())
			cards := ex.Extract(context.Background(), "One. Two.", models.DetailDetailed)
			if len(cards) != tc.expectedCards {
				t.Fatalf("expected %d cards, got %d", tc.expectedCards, len(cards))
			}
			if cards[0].Question != tc.firstQuestion {
				t.Errorf("first question = %q, want %q", cards[0].Question, tc.firstQuestion)
			}
			if tc.backend.Calls() != 1 {
				t.Errorf("expected one backend call, got %d", tc.backend.Calls())
			}
		})
	}
}
