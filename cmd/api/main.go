package main

import (
	"fmt"
	"os"
	"strings"

	"gaia-mare/internal/config"
	"gaia-mare/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envFiles []string

func main() {
	if err := rootCmd.Execute(); err != nil {
		log := logger.NewWithDefaults()
		log.Error("Command failed", zap.String("command", strings.Join(os.Args[1:], " ")), zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "gaia-mare",
	Short:         "Gaia Mare catalog API",
	Long:          "Read-only product catalogue and inventory API. Runs the HTTP server when no subcommand is given.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files loaded before reading the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

// boot loads and validates configuration and builds the logger.
func boot() (*config.Config, *zap.Logger, error) {
	cfg := config.Load(envFiles...)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}
