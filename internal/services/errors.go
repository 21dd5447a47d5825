package services

import "fmt"

type InvalidInputError struct{ Message string }

func (e *InvalidInputError) Error() string { return e.Message }

// BackendUnavailableError wraps any failure of a generative backend call.
// It never leaves the summary generator or the flashcard extractor.
type BackendUnavailableError struct {
	Provider string
	Err      error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %v", e.Provider, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error { return e.Err }

type ParseError struct {
	Lines   int
	Skipped int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no flashcard pairs parsed (%d lines, %d skipped)", e.Lines, e.Skipped)
}
