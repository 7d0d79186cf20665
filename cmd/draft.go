package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/emoiq/internal/authoring"
	"github.com/abhisek/emoiq/internal/llm"
	"github.com/abhisek/emoiq/internal/puzzle"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Draft a tone puzzle with an LLM and publish it for a date",
	Long: `Ask the configured LLM for a tone puzzle, check it locally and upsert it
into the remote puzzles table. Use --dry-run to print the draft without
publishing. A puzzle already scheduled on the date is replaced.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		date, _ := cmd.Flags().GetString("date")
		category, _ := cmd.Flags().GetString("category")
		difficulty, _ := cmd.Flags().GetInt("difficulty")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if date == "" {
			d, err := puzzle.AddDays(puzzle.DateKey(time.Now()), 1)
			if err != nil {
				return err
			}
			date = d
		}

		e, err := openEnv(ctx, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()
		if !dryRun {
			if err := e.requireRemote(); err != nil {
				return err
			}
		}

		provider, err := llm.New(ctx, cfg.LLM, e.local.EventRepo(), e.log)
		if err != nil {
			return fmt.Errorf("LLM provider: %w", err)
		}

		var recent []string
		if e.pg != nil {
			if recent, err = authoring.Recent(ctx, e.remote); err != nil {
				e.log.WithError(err).Warn("load recent puzzles")
			}
		}

		p, err := authoring.New(provider, authoring.DefaultConfig(), e.log).Draft(ctx, authoring.Input{
			Date:       date,
			Category:   category,
			Difficulty: difficulty,
			Recent:     recent,
		})
		if err != nil {
			return err
		}

		out, _ := json.MarshalIndent(p, "", "  ")
		fmt.Println(string(out))
		if dryRun {
			return nil
		}
		if err := authoring.Publish(ctx, e.remote, p); err != nil {
			return err
		}
		fmt.Printf("Published for %s\n", p.Date)
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the remote Postgres tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireRemote(); err != nil {
			return err
		}
		if err := e.pg.Migrate(cmd.Context()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		fmt.Println("Remote schema is up to date")
		return nil
	},
}

func init() {
	draftCmd.Flags().String("date", "", "UTC date to schedule (YYYY-MM-DD, default tomorrow)")
	draftCmd.Flags().String("category", "", "Category label, e.g. Work or Friendship")
	draftCmd.Flags().Int("difficulty", 0, "Difficulty 1-3 (default: model's choice)")
	draftCmd.Flags().Bool("dry-run", false, "Print the draft without publishing")
}
