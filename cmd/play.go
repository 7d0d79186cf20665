package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/abhisek/emoiq/internal/app"
	"github.com/abhisek/emoiq/internal/syncer"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Open the full-screen game (the default command)",
	RunE:  runPlay,
}

func runPlay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	// The UI owns the terminal; logs only go to a configured file.
	e, err := openEnv(ctx, nil)
	if err != nil {
		return err
	}
	defer e.Close()

	bg, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	detach := e.bridge.Attach(bg, e.hub)
	go func() {
		if _, err := e.bridge.CheckSession(bg, e.hub); err != nil && !errors.Is(err, syncer.ErrNoUser) {
			e.log.WithError(err).Warn("startup sync failed")
		}
	}()

	err = app.Run(e.services())
	detach()
	cancel()
	e.bridge.Wait()
	return err
}
