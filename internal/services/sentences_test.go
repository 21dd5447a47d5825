package services

import (
	"reflect"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{"restores periods", "Alpha. Beta. Gamma. Delta.", []string{"Alpha.", "Beta.", "Gamma.", "Delta."}},
		{"last unit without period", "One. Two", []string{"One.", "Two"}},
		{"keeps other terminals", "Really?! Yes. Done", []string{"Really?! Yes.", "Done"}},
		{"drops blank units", "A.  . B.", []string{"A.", "B."}},
		{"single unit", "Just one sentence", []string{"Just one sentence"}},
		{"empty", "   ", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := splitSentences(tc.text)
			if !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("splitSentences(%q) = %q, want %q", tc.text, got, tc.expected)
			}
		})
	}
}
