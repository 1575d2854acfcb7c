package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/usblord/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "usblord",
	Short: "Terminal coding tutorial",
	Long:  "USB Lord: work through one hundred coding protocols, ten chapters at a time, right in your terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides USBLORD_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (default: ./config.yaml or <data dir>/config.yaml)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(chaptersCmd)
	rootCmd.AddCommand(attemptsCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration with --db, --config and, for
// commands that define it, --dir taking priority over the environment and
// config files.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	cfgFile, _ := cmd.Flags().GetString("config")
	exportDir, _ := cmd.Flags().GetString("dir")
	return config.Load(config.Options{ConfigFile: cfgFile, DBPath: dbPath, ExportDir: exportDir})
}
