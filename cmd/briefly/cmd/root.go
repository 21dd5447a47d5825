package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"briefly-backend/internal/config"
	"briefly-backend/internal/logger"
)

var (
	verbose bool
	offline bool
	cfg     *config.Config
	log     *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "briefly",
	Short: "Briefly: distill raw notes into a summary and flashcards",
	Long: `Briefly classifies text as work, study or personal, summarizes it with the
configured generative backend and turns the summary into flashcards. When the
backend is unreachable it falls back to a local extractive summary.

Configuration comes from the environment (and an optional .env file), the same
keys the HTTP server reads.

Commands:
  distill   Summarize text and extract flashcards
  classify  Print the topic for a piece of text`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if offline {
			os.Setenv("AI_PROVIDER", config.ProviderOffline)
		}

		loaded, err := loadConfig()
		if err != nil {
			return err
		}
		cfg = loaded

		level := "warn"
		if verbose {
			level = "debug"
		}
		log, err = logger.New("development", level)
		return err
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "skip the generative backend and use local fallbacks")
}

// loadConfig turns config.Load's panics on missing keys into an error.
func loadConfig() (c *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("configuration: %v", r)
		}
	}()
	return config.Load(), nil
}
