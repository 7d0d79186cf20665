package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/emoiq/internal/puzzle"
	"github.com/abhisek/emoiq/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streaks, medals and the guess distribution",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		s := stats.Compute(e.ledger.All(), puzzle.DateKey(time.Now()), cfg.Rules.MaxAttempts)
		fmt.Printf("Played %d  Win rate %d%%  Streak %d  Best %d\n\n", s.Played, s.WinRate, s.CurrentStreak, s.MaxStreak)
		for _, m := range stats.Medals() {
			fmt.Printf("  %-9s %d\n", m, s.Medals[m])
		}
		fmt.Println()
		peak := 0
		for _, n := range s.Distribution {
			peak = max(peak, n)
		}
		for i, n := range s.Distribution {
			bar := ""
			if peak > 0 {
				bar = strings.Repeat("█", n*30/peak)
			}
			fmt.Printf("  %d %-30s %d\n", i+1, bar, n)
		}
		return nil
	},
}
