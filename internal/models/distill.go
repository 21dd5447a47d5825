package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type Topic string

const (
	TopicWork     Topic = "work"
	TopicStudy    Topic = "study"
	TopicPersonal Topic = "personal"
)

type SummaryFormat string

const (
	FormatBullets   SummaryFormat = "bullets"
	FormatParagraph SummaryFormat = "paragraph"
	FormatQA        SummaryFormat = "qa"
)

// ParseSummaryFormat normalizes a caller-supplied format. Empty input maps to bullets.
func ParseSummaryFormat(raw string) (SummaryFormat, error) {
	switch f := SummaryFormat(strings.ToLower(strings.TrimSpace(raw))); f {
	case "":
		return FormatBullets, nil
	case FormatBullets, FormatParagraph, FormatQA:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported summary format: %s", raw)
	}
}

type DetailLevel string

const (
	DetailDetailed   DetailLevel = "detailed"
	DetailSimplified DetailLevel = "simplified"
)

// ParseDetailLevel normalizes a caller-supplied detail level. Empty input maps to detailed.
func ParseDetailLevel(raw string) (DetailLevel, error) {
	switch d := DetailLevel(strings.ToLower(strings.TrimSpace(raw))); d {
	case "":
		return DetailDetailed, nil
	case DetailDetailed, DetailSimplified:
		return d, nil
	default:
		return "", fmt.Errorf("unsupported detail level: %s", raw)
	}
}

func (d DetailLevel) Simplified() bool {
	return d == DetailSimplified
}

type Flashcard struct {
	ID       int    `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type DistillRequest struct {
	Text        string `json:"text"`
	Format      string `json:"format"`       // "bullets" | "paragraph" | "qa"
	DetailLevel string `json:"detail_level"` // "detailed" | "simplified"
}

type YouTubeDistillRequest struct {
	URL         string `json:"url"`
	Format      string `json:"format"`
	DetailLevel string `json:"detail_level"`
}

type DistillResult struct {
	Topic       Topic         `json:"topic"`
	Format      SummaryFormat `json:"format"`
	DetailLevel DetailLevel   `json:"detail_level"`
	Summary     string        `json:"summary"`
	Flashcards  []Flashcard   `json:"flashcards"`
}

type ClassifyRequest struct {
	Text string `json:"text"`
}

type ClassifyResponse struct {
	Topic Topic `json:"topic"`
}

// DistillResponse is a finished run as returned to HTTP callers. RunID is set
// when run history is enabled.
type DistillResponse struct {
	RunID *uuid.UUID `json:"run_id,omitempty"`
	*DistillResult
}
