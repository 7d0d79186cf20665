package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect LLM usage from puzzle drafting",
}

var llmUsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show request and token totals",
	RunE: func(cmd *cobra.Command, _ []string) error {
		since, _ := cmd.Flags().GetDuration("since")

		e, err := openEnv(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		from := time.Now().Add(-since)
		u, err := e.local.EventRepo().LLMUsageSince(cmd.Context(), from)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		if u.Requests == 0 {
			fmt.Println("No LLM usage recorded in this window.")
			return nil
		}
		fmt.Printf("Since %s\n", from.Local().Format("2006-01-02 15:04"))
		fmt.Printf("  Requests  %d (%d failed)\n", u.Requests, u.Failures)
		fmt.Printf("  Tokens    %d in / %d out / %d total\n", u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens)
		return nil
	},
}

func init() {
	llmUsageCmd.Flags().Duration("since", 30*24*time.Hour, "How far back to sum")
	llmCmd.AddCommand(llmUsageCmd)
}
