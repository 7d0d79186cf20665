package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/emoiq/internal/auth"
	"github.com/abhisek/emoiq/internal/store"
	"github.com/abhisek/emoiq/internal/syncer"
)

var signinCmd = &cobra.Command{
	Use:   "signin EMAIL",
	Short: "Sign in and upload local progress",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx, os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		detach := e.bridge.Attach(ctx, e.hub)
		defer detach()
		s, err := e.hub.SignInEmail(ctx, args[0])
		if err != nil {
			return err
		}
		e.bridge.Wait()
		fmt.Printf("Signed in as %s\n", s.Email)
		return nil
	},
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Sign out; local progress is kept",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()
		e.hub.SignOut(cmd.Context())
		fmt.Println("Signed out")
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Upload local progress and purchases for the signed-in user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		e, err := openEnv(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()
		if err := e.requireRemote(); err != nil {
			return err
		}

		r, err := e.bridge.CheckSession(cmd.Context(), e.hub)
		if errors.Is(err, syncer.ErrNoUser) {
			return errors.New("not signed in (run: emoiq signin EMAIL)")
		}
		fmt.Printf("Puzzles %d  Attempts %d  Entitlements %d\n", r.Puzzles, r.Attempts, r.Entitlements)
		if len(r.Skipped) > 0 {
			fmt.Printf("Skipped days without a puzzle: %s\n", strings.Join(r.Skipped, ", "))
		}
		return err
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase local progress, settings, purchases and session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("this erases all local data; pass --yes to confirm")
		}
		e, err := openEnv(cmd.Context(), os.Stderr)
		if err != nil {
			return err
		}
		defer e.Close()

		kv := e.local.KV()
		var errs []error
		for _, k := range []string{store.KeyProgress, store.KeySettings, store.KeyEntitlements, auth.KeySession} {
			if err := kv.Delete(cmd.Context(), k); err != nil {
				errs = append(errs, fmt.Errorf("delete %s: %w", k, err))
			}
		}
		if err := errors.Join(errs...); err != nil {
			return err
		}
		fmt.Println("Local data erased")
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm erasing local data")
}
