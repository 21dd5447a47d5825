package services

import (
	"archive/zip"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestExtractText_PlainText(t *testing.T) {
	s := NewFileExtractService()
	got, err := s.ExtractText("notes.TXT", []byte("  line one  \r\n\r\n\r\n\r\nline two\n"))
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "line one\n\nline two" {
		t.Errorf("got %q", got)
	}
}

func TestExtractText_Errors(t *testing.T) {
	s := NewFileExtractService()
	tests := []struct {
		name     string
		filename string
		data     []byte
	}{
		{"unsupported extension", "song.mp3", []byte("data")},
		{"empty text file", "empty.md", []byte("  \n \n")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.ExtractText(tc.filename, tc.data)
			var invalid *InvalidInputError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidInputError, got %v", err)
			}
		})
	}
}

func TestExtractText_DOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("zip create: %v", err)
	}
	_, _ = w.Write([]byte(`<w:document><w:body><w:p><w:r><w:t>Project meeting</w:t></w:r></w:p><w:p><w:r><w:t>Q&amp;A later</w:t></w:r></w:p></w:body></w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}

	got, err := NewFileExtractService().ExtractText("minutes.docx", buf.Bytes())
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "Project meeting\nQ&A later" {
		t.Errorf("got %q", got)
	}
}

func TestExtractText_DOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("other.xml")
	_ = zw.Close()

	_, err := NewFileExtractService().ExtractText("x.docx", buf.Bytes())
	var invalid *InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidInputError, got %v", err)
	}
}

func TestWordprocessingText(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"paragraphs", `<w:body><w:p><w:r><w:t>One</w:t></w:r></w:p><w:p><w:r><w:t>Two</w:t></w:r></w:p></w:body>`, "One\nTwo\n"},
		{"runs join", `<w:p><w:r><w:t>Split </w:t></w:r><w:r><w:t>run</w:t></w:r></w:p>`, "Split run\n"},
		{"break and tab", `<w:p><w:r><w:t>a</w:t><w:br/><w:t>b</w:t><w:tab/><w:t>c</w:t></w:r></w:p>`, "a\nb\tc\n"},
		{"text outside runs ignored", `<w:p><w:instrText>PAGE</w:instrText><w:r><w:t>kept</w:t></w:r></w:p>`, "kept\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := wordprocessingText(strings.NewReader(tc.body))
			if err != nil {
				t.Fatalf("wordprocessingText: %v", err)
			}
			if got != tc.expected {
				t.Errorf("got %q, want %q", got, tc.expected)
			}
		})
	}
}

func TestNormalizeExtractedText(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"\n\n  first  \n", "first"},
		{"a\r\nb", "a\nb"},
		{"a\n \n\t\n\nb", "a\n\nb"},
		{"", ""},
	}
	for _, tc := range tests {
		if got := normalizeExtractedText(tc.in); got != tc.expected {
			t.Errorf("normalizeExtractedText(%q) = %q, want %q", tc.in, got, tc.expected)
		}
	}
}

func TestExtractText_CorruptArchives(t *testing.T) {
	s := NewFileExtractService()
	for _, name := range []string{"slides.pdf", "notes.docx"} {
		if _, err := s.ExtractText(name, []byte("not a real document")); err == nil {
			t.Errorf("%s: expected error for corrupt file", name)
		}
	}
}
