//go:build !release

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/emoiq/internal/authoring"
	"github.com/abhisek/emoiq/internal/puzzle"
)

// Development helpers; release builds leave them out.
var devCmd = &cobra.Command{
	Use:    "dev",
	Short:  "Development helpers",
	Hidden: true,
}

var devSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Publish the bundled tone puzzles to the remote store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		start, _ := cmd.Flags().GetString("start")
		if start == "" {
			start = puzzle.DateKey(time.Now())
		}
		seeds := puzzle.SeedTonePuzzles(start)
		if seeds == nil {
			return fmt.Errorf("invalid start date %q", start)
		}

		e, err := openEnv(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireRemote(); err != nil {
			return err
		}

		for _, p := range seeds {
			if err := authoring.Publish(cmd.Context(), e.remote, p); err != nil {
				return err
			}
			fmt.Printf("%s  %s\n", p.Date, p.Message)
		}
		return nil
	},
}

func init() {
	devSeedCmd.Flags().String("start", "", "First UTC date (default today)")
	devCmd.AddCommand(devSeedCmd)
	rootCmd.AddCommand(devCmd)
}
