package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// FileExtractService turns an uploaded document into pipeline input text.
type FileExtractService struct{}

func NewFileExtractService() *FileExtractService {
	return &FileExtractService{}
}

func SupportedUploadExtensions() []string {
	return []string{".txt", ".md", ".pdf", ".docx"}
}

func (s *FileExtractService) ExtractText(filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var (
		raw string
		err error
	)
	switch ext {
	case ".txt", ".md":
		raw = string(data)
	case ".pdf":
		raw, err = pdfText(data)
	case ".docx":
		raw, err = docxText(data)
	default:
		return "", &InvalidInputError{Message: fmt.Sprintf("unsupported file type for text extraction: %s", ext)}
	}
	if err != nil {
		return "", err
	}

	text := normalizeExtractedText(raw)
	if text == "" {
		return "", &InvalidInputError{Message: fmt.Sprintf("no extractable text found in %s file", strings.TrimPrefix(ext, "."))}
	}
	return text, nil
}

func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	return string(out), nil
}

func docxText(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}

	doc, err := archive.Open("word/document.xml")
	if err != nil {
		return "", &InvalidInputError{Message: "docx document.xml not found"}
	}
	defer doc.Close()

	return wordprocessingText(doc)
}

// wordprocessingText collects the w:t runs of a WordprocessingML body, one
// line per paragraph.
func wordprocessingText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var (
		b      strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return b.String(), nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse docx: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "br", "cr":
				b.WriteByte('\n')
			case "tab":
				b.WriteByte('\t')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
}

// normalizeExtractedText trims every line and keeps at most one blank line
// between paragraphs.
func normalizeExtractedText(s string) string {
	s = strings.NewReplacer("\r\n", "\n", "\r", "\n").Replace(s)

	var (
		lines []string
		gap   bool
	)
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			gap = len(lines) > 0
			continue
		}
		if gap {
			lines = append(lines, "")
			gap = false
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
