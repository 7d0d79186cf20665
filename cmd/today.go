package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/emoiq/internal/progress"
	"github.com/abhisek/emoiq/internal/stats"
	"github.com/abhisek/emoiq/internal/tone"
)

var todayCmd = &cobra.Command{
	Use:   "today",
	Short: "Print today's message and your progress on it",
	RunE: func(cmd *cobra.Command, _ []string) error {
		date, _ := cmd.Flags().GetString("date")
		e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		g := e.toneGame()
		g.LoadDaily(cmd.Context(), date)
		v := g.Snapshot()
		if v.Puzzle == nil {
			return errors.New("no tone puzzle available")
		}
		if v.Err != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), "note:", v.Err)
		}

		out := cmd.OutOrStdout()
		p := v.Puzzle
		fmt.Fprintf(out, "%s  %s  %s\n\n", p.Date, p.Category, strings.Repeat("*", p.Difficulty))
		fmt.Fprintf(out, "  %q\n\n", p.Message)
		rec := progress.Record{Attempts: v.Attempts, Status: v.Status}
		tones := tone.All()
		for i, row := range g.Rules().GridRows(rec.Guesses(), p.Target) {
			fmt.Fprintf(out, "  %s %s\n", tones[i].Marker(), tileLine(row))
		}
		if len(v.Attempts) > 0 {
			fmt.Fprintln(out)
		}
		for i, a := range v.Attempts {
			fmt.Fprintf(out, "  #%d %3d%%\n", i+1, a.Resonance)
		}
		switch v.Status {
		case progress.Won, progress.Lost:
			fmt.Fprintf(out, "\n%s %s\n", strings.ToUpper(string(v.Status)), stats.Summary(rec, v.MaxAttempts))
		default:
			fmt.Fprintf(out, "\n%d of %d attempts left. Guess with: emoiq guess ANGER AFFECTION ANXIETY JOY CONTROL\n",
				v.AttemptsLeft, v.MaxAttempts)
		}
		return nil
	},
}

var guessCmd = &cobra.Command{
	Use:   "guess ANGER AFFECTION ANXIETY JOY CONTROL",
	Short: "Submit a tone guess for today's message",
	Args:  cobra.ExactArgs(5),
	RunE: func(cmd *cobra.Command, args []string) error {
		var vals [5]int
		for i, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				return fmt.Errorf("%s: %w", tone.All()[i], err)
			}
			vals[i] = n
		}
		guess := tone.Vector{Anger: vals[0], Affection: vals[1], Anxiety: vals[2], Joy: vals[3], Control: vals[4]}

		e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		g := e.toneGame()
		g.LoadDaily(cmd.Context(), "")
		g.SetGuess(guess)
		a := g.SubmitGuess(cmd.Context())
		v := g.Snapshot()
		if a == nil {
			if v.Status.Terminal() {
				return fmt.Errorf("today is already %s", v.Status)
			}
			return errors.New("no puzzle to guess")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Resonance %d%%\n", a.Resonance)
		for _, t := range tone.All() {
			fmt.Fprintf(out, "  %-9s %3d  %s\n", t, a.Guess.Get(t), a.Hints[t])
		}
		rec := progress.Record{Attempts: v.Attempts, Status: v.Status}
		switch v.Status {
		case progress.Won:
			fmt.Fprintf(out, "\nSolved %s (%s medal)\n", stats.Summary(rec, v.MaxAttempts), stats.MedalFor(rec))
		case progress.Lost:
			t := v.Puzzle.Target
			fmt.Fprintf(out, "\nOut of attempts. The tone was %d %d %d %d %d\n", t.Anger, t.Affection, t.Anxiety, t.Joy, t.Control)
		default:
			fmt.Fprintf(out, "\n%d attempts left\n", v.AttemptsLeft)
		}
		return nil
	},
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print the spoiler-free result for a finished day",
	RunE: func(cmd *cobra.Command, _ []string) error {
		date, _ := cmd.Flags().GetString("date")
		e, err := openEnv(cmd.Context(), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		defer e.Close()

		g := e.toneGame()
		g.LoadDaily(cmd.Context(), date)
		v := g.Snapshot()
		if !v.Status.Terminal() {
			return fmt.Errorf("%s is not finished yet", v.DateKey)
		}
		fmt.Fprintln(cmd.OutOrStdout(), g.ShareText())
		return nil
	},
}

func tileLine(row []tone.Tile) string {
	var b strings.Builder
	for _, t := range row {
		b.WriteString(t.Glyph())
	}
	return b.String()
}

func init() {
	todayCmd.Flags().String("date", "", "Show this UTC date (YYYY-MM-DD) instead of today")
	shareCmd.Flags().String("date", "", "Share this UTC date (YYYY-MM-DD) instead of today")
}
