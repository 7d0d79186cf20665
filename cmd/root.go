package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/abhisek/emoiq/internal/config"
)

var (
	v   *viper.Viper
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "emoiq",
	Short: "Emotional IQ: a daily decode-the-message puzzle",
	Long: "emoiq is a terminal game about reading tone. Each day brings a short message\n" +
		"to score on five sliders, and a multi-round puzzle about what the sender meant.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runPlay,
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config.yaml (default: ./config.yaml or $XDG_CONFIG_HOME/emoiq)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides EMOIQ_DB)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: trace, debug, info, warn or error")

	rootCmd.AddCommand(playCmd, todayCmd, guessCmd, shareCmd, statsCmd)
	rootCmd.AddCommand(signinCmd, signoutCmd, syncCmd, resetCmd)
	rootCmd.AddCommand(draftCmd, migrateCmd, llmCmd)
	rootCmd.AddCommand(updateCmd, versionCmd)
}

// loadConfig layers flags over env, file and defaults.
func loadConfig(cmd *cobra.Command, _ []string) error {
	file, _ := cmd.Flags().GetString("config")
	var err error
	v, err = config.NewViper(file)
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		v.Set("db", f.Value.String())
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		v.Set("log.level", f.Value.String())
	}
	cfg, err = config.Load(v)
	return err
}
