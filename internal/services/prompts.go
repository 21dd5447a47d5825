package services

import (
	"fmt"
	"strings"

	"briefly-backend/internal/models"
)

// BuildSummaryPrompt renders the summary instruction for the backend. Output is
// byte-identical for identical arguments.
func BuildSummaryPrompt(text string, format models.SummaryFormat, detail models.DetailLevel) string {
	simplified := detail.Simplified()

	var b strings.Builder
	switch format {
	case models.FormatParagraph:
		b.WriteString(fmt.Sprintf("Create a %s paragraph summarizing the following text:",
			pick(simplified, "brief", "comprehensive")))
	case models.FormatQA:
		b.WriteString(fmt.Sprintf("Generate %s key question-answer pairs from the following text:",
			pick(simplified, "3", "5")))
	default:
		b.WriteString(fmt.Sprintf("Summarize the following text in %s clear bullet points:",
			pick(simplified, "3-5", "5-8")))
	}
	b.WriteString("\n\n")
	b.WriteString(text)
	return b.String()
}

// BuildFlashcardPrompt renders the flashcard instruction for a generated summary.
func BuildFlashcardPrompt(summary string, detail models.DetailLevel) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Generate %s flashcard-style question-answer pairs from this text. ",
		pick(detail.Simplified(), "3", "5")))
	b.WriteString(`Format each pair as "Q: question | A: answer", one pair per line, with no numbering or extra commentary:`)
	b.WriteString("\n\n")
	b.WriteString(summary)
	return b.String()
}

func pick(simplified bool, short, long string) string {
	if simplified {
		return short
	}
	return long
}
