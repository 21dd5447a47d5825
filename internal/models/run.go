package models

import (
	"time"

	"github.com/google/uuid"
)

// Run is a stored pipeline result, kept for history and text export.
type Run struct {
	ID          uuid.UUID     `json:"id"`
	SessionID   string        `json:"session_id"`
	Source      string        `json:"source"` // "text" | "file" | "youtube"
	InputText   string        `json:"input_text"`
	Topic       Topic         `json:"topic"`
	Format      SummaryFormat `json:"format"`
	DetailLevel DetailLevel   `json:"detail_level"`
	Summary     string        `json:"summary"`
	Flashcards  []Flashcard   `json:"flashcards"`
	CreatedAt   time.Time     `json:"created_at"`
}

func NewRun(sessionID, source, input string, result *DistillResult) *Run {
	return &Run{
		SessionID:   sessionID,
		Source:      source,
		InputText:   input,
		Topic:       result.Topic,
		Format:      result.Format,
		DetailLevel: result.DetailLevel,
		Summary:     result.Summary,
		Flashcards:  result.Flashcards,
	}
}

type RunListResponse struct {
	Runs  []*Run `json:"runs"`
	Total int    `json:"total"`
}
