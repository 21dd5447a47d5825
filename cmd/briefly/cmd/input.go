package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"briefly-backend/internal/services"
)

// readInput returns the text to process: a file argument, a YouTube URL, or stdin.
func readInput(ctx context.Context, args []string, youtubeURL string) (text, source string, err error) {
	if youtubeURL != "" {
		transcript, err := services.NewYouTubeService(log).Transcript(ctx, youtubeURL)
		if err != nil {
			return "", "", fmt.Errorf("failed to fetch transcript: %w", err)
		}
		return transcript, "youtube", nil
	}

	if len(args) > 0 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		if filepath.Ext(args[0]) == "" {
			return string(data), "file", nil
		}
		text, err := services.NewFileExtractService().ExtractText(args[0], data)
		if err != nil {
			return "", "", err
		}
		return text, "file", nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), "text", nil
}
