package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"briefly-backend/internal/models"
	"briefly-backend/internal/services"
)

var (
	distillFormat     string
	distillSimplified bool
	distillYouTube    string
	distillOut        string
	distillJSON       bool
)

var distillCmd = &cobra.Command{
	Use:   "distill [file]",
	Short: "Summarize text and extract flashcards",
	Long: `Summarize text read from a file (.txt, .md, .pdf, .docx), a YouTube video's
captions or stdin, then extract flashcards from the summary.

Examples:
  briefly distill notes.txt --format paragraph
  cat notes.md | briefly distill --simplified --out summary.txt
  briefly distill --youtube https://youtu.be/dQw4w9WgXcQ --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDistill,
}

func init() {
	rootCmd.AddCommand(distillCmd)

	distillCmd.Flags().StringVarP(&distillFormat, "format", "f", "bullets", "summary format: bullets, paragraph or qa")
	distillCmd.Flags().BoolVarP(&distillSimplified, "simplified", "s", false, "shorter summary and fewer flashcards")
	distillCmd.Flags().StringVar(&distillYouTube, "youtube", "", "distill the captions of a YouTube video")
	distillCmd.Flags().StringVarP(&distillOut, "out", "o", "", "also write the summary to this file")
	distillCmd.Flags().BoolVar(&distillJSON, "json", false, "print the result as JSON")
}

func runDistill(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	format, err := models.ParseSummaryFormat(distillFormat)
	if err != nil {
		return err
	}
	detail := models.DetailDetailed
	if distillSimplified {
		detail = models.DetailSimplified
	}

	text, source, err := readInput(ctx, args, distillYouTube)
	if err != nil {
		return err
	}

	backend, closeBackend, err := services.NewBackend(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	defer closeBackend()

	log.Debug("distill command starting", zap.String("source", source), zap.String("backend", backend.Name()))

	pipeline := services.NewPipeline(backend, services.NewMemoryCache(), log)
	result, err := pipeline.Run(ctx, text, format, detail, nil)
	if err != nil {
		return err
	}

	if distillOut != "" {
		if err := os.WriteFile(distillOut, []byte(result.Summary), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", distillOut, err)
		}
	}

	if distillJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	printResult(cmd.OutOrStdout(), result)
	return nil
}

func printResult(w io.Writer, result *models.DistillResult) {
	fmt.Fprintf(w, "Topic: %s\n\n", result.Topic)
	fmt.Fprintf(w, "Summary (%s, %s)\n%s\n\n", result.Format, result.DetailLevel, result.Summary)
	fmt.Fprintf(w, "Flashcards (%d)\n", len(result.Flashcards))
	for _, card := range result.Flashcards {
		fmt.Fprintf(w, "%d. Q: %s\n   A: %s\n", card.ID+1, card.Question, card.Answer)
	}
}
