package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/hanmadi/internal/config"
	"github.com/abhisek/hanmadi/internal/store"
)

var rootCmd = &cobra.Command{
	Use:          "hanmadi",
	Short:        "Personalized Korean learning backend",
	Long:         "hanmadi tracks grammar and vocabulary mastery and builds lessons, exercises and grading on top of an LLM.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "SQLite path or postgres:// DSN (overrides HANMADI_DB_DSN)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (overrides HANMADI_LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves settings from HANMADI_* variables, with the
// persistent flags taking precedence.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v, err := config.New()
	if err != nil {
		return nil, err
	}
	if err := v.BindPFlag("db_dsn", cmd.Flags().Lookup("db")); err != nil {
		return nil, err
	}
	if err := v.BindPFlag("log_level", cmd.Flags().Lookup("log-level")); err != nil {
		return nil, err
	}
	return config.Load(v)
}

// openStore opens the configured database, creating the SQLite directory
// when needed.
func openStore(cfg *config.Config) (*store.Store, error) {
	if err := store.EnsureDir(cfg.DBDSN); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}
	st, err := store.Open(cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// openStoreFromFlags is the loadConfig+openStore shorthand used by the
// inspection commands.
func openStoreFromFlags(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return openStore(cfg)
}
