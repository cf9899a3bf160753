package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/impoot/impoot/internal/briefing"
)

func briefingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "briefing",
		Short: "Manage the home page market briefing",
	}

	generate := &cobra.Command{
		Use:   "generate",
		Short: "Ask the configured LLM for a fresh briefing and publish it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := briefing.NewChatGenerator(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
			lines, err := briefing.Generate(cmd.Context(), gen)
			if err != nil {
				return err
			}
			saved, err := store.ReplaceBriefings(cmd.Context(), lines)
			if err != nil {
				return err
			}
			for _, b := range saved {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", b.Highlight, b.Text)
			}
			return nil
		},
	}

	cmd.AddCommand(generate)
	return cmd
}
