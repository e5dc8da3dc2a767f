package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xiebiao/booknotes/internal/infrastructure/config"
	"github.com/xiebiao/booknotes/pkg/logger"
)

// configFile is set by the --config flag
var configFile string

var rootCmd = &cobra.Command{
	Use:   "booknotes",
	Short: "booknotes - personal library tracker",
	Long: `booknotes tracks the books you read, one review per book and any number
of notes, and serves top-rated, most-recent and search views over them.

Configuration comes from config/config.yaml (or config.<BOOKNOTES_ENV>.yaml)
and BOOKNOTES_* environment variables.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: config/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(editorCmd)
}

// bootstrap loads the configuration and builds the global logger
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	return cfg, log, nil
}
