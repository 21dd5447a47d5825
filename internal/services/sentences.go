package services

import (
	"strings"
	"unicode/utf8"
)

const sentenceDelimiter = ". "

// splitSentences breaks text on ". " and gives every unit back its terminating
// period, so "Alpha. Beta." yields ["Alpha.", "Beta."]. Blank units are dropped.
func splitSentences(text string) []string {
	parts := strings.Split(strings.TrimSpace(text), sentenceDelimiter)
	units := make([]string, 0, len(parts))
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if i < len(parts)-1 && !endsWithTerminal(part) {
			part += "."
		}
		units = append(units, part)
	}
	return units
}

func endsWithTerminal(s string) bool {
	r, _ := utf8.DecodeLastRuneInString(s)
	return r == '.' || r == '!' || r == '?'
}
