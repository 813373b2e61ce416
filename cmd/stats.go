package cmd

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Zachkp/kussetech/internal/analytics"
)

var statsDB string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints visitor and event statistics as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := statsDB
		if path == "" {
			path = appConfig.AnalyticsDB
		}
		if path == "" {
			return errors.New("no analytics database: set ANALYTICS_DB or pass --db")
		}

		store, err := analytics.Open(path, logger)
		if err != nil {
			return err
		}
		defer store.Close()

		stats, err := store.Stats(cmd.Context())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	},
}

func init() {
	statsCmd.Flags().StringVar(&statsDB, "db", "", "sqlite analytics database (default ANALYTICS_DB)")
	rootCmd.AddCommand(statsCmd)
}
