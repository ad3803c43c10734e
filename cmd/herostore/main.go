package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "herostore",
	Short:   "Hero records over a flat blob container",
	Long: `herostore is a small HTTP CRUD service that keeps one JSON document
per hero in a blob container (local directory, bbolt, SQLite, PostgreSQL,
Azure Blob Storage, or an S3-compatible bucket).`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig(cmd)
		if err != nil {
			return err
		}
		setupLogging(cfg)
		cmd.SetContext(withConfig(cmd.Context(), cfg))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringSlice("config", nil, "config file paths, merged left to right (default: ./config.yaml)")
	rootCmd.PersistentFlags().StringSlice("env-file", []string{".env"}, "dotenv files to export before reading the environment")
	rootCmd.PersistentFlags().String("backend", "", "storage backend: memory, filesystem, bolt, sqlite, postgres, azure, s3 (env: HEROSTORE_STORAGE_BACKEND)")
	rootCmd.PersistentFlags().String("storage-path", "", "directory or bolt file for local backends (default: ./heroes, env: HEROSTORE_STORAGE_PATH)")
	rootCmd.PersistentFlags().String("db-type", "", "database type: sqlite, postgres (env: HEROSTORE_DATABASE_TYPE)")
	rootCmd.PersistentFlags().String("db-dsn", "", "database connection string (default: herostore.db, env: HEROSTORE_DATABASE_DSN)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
