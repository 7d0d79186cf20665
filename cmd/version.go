package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/emoiq/internal/selfupdate"
)

// version is set via -ldflags at build time.
var version = selfupdate.DevVersion

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	// Needs no configuration.
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Println("emoiq", version)
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update emoiq to the latest release",
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, _ []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		target, _ := cmd.Flags().GetString("version")

		ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
		defer cancel()
		c := selfupdate.NewChecker(selfupdate.WithTimeout(2 * time.Minute))

		if checkOnly {
			rel, err := c.Latest(ctx)
			if err != nil {
				return err
			}
			newer, err := selfupdate.Newer(version, rel.Tag)
			if err != nil {
				fmt.Printf("Latest release is %s (%s)\n", rel.Tag, rel.URL)
				return nil
			}
			if newer {
				fmt.Printf("%s is available: %s\n", rel.Tag, rel.URL)
			} else {
				fmt.Println("Already running the latest version.")
			}
			return nil
		}

		err := c.Update(ctx, selfupdate.UpdateInput{CurrentVersion: version, TargetVersion: target},
			func(p selfupdate.UpdateProgress) { fmt.Println(p.Message) })
		switch {
		case err == nil:
			return nil
		case errors.Is(err, selfupdate.ErrDevBuild):
			fmt.Println("Cannot update a development build. Install a release build first.")
			return nil
		case errors.Is(err, selfupdate.ErrAlreadyLatest):
			fmt.Println("Already running the latest version.")
			return nil
		case os.IsPermission(errors.Unwrap(err)) || os.IsPermission(err):
			return fmt.Errorf("%w\n\nTry running: sudo emoiq update", err)
		}
		return err
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only report whether a newer release exists")
	updateCmd.Flags().String("version", "", "Install this release tag instead of the latest")
}
