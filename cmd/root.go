package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Zachkp/kussetech/internal/config"
	"github.com/Zachkp/kussetech/internal/logging"
)

var (
	appConfig config.Config
	logger    *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "kussetech",
	Short: "KusseTechStudio portfolio site",
	Long: `kussetech serves the KusseTechStudio portfolio site and provides
helpers for inspecting analytics and drafting site copy.

Configuration is read from the environment (and a .env file when present).
APP_ENV selects the profile: development, production, staging or testing.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initializeConfig() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	l, err := logging.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	appConfig = cfg
	logger = l
	return nil
}
