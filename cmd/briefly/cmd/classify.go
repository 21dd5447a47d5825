package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"briefly-backend/internal/services"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [file]",
	Short: "Print the topic (work, study, personal) for a piece of text",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, _, err := readInput(cmd.Context(), args, "")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), services.ClassifyTopic(text))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}
