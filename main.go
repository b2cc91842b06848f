package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shoe-card/config"
	"shoe-card/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "shoecard",
		Short:         "Shoe storefront card renderer",
		SilenceUsage:  true,
		// Running without a subcommand starts the server
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	root.AddCommand(newServeCmd(), newRenderCmd(), newSeedCmd())
	return root
}

// loadEnv loads .env in development. In production, variables should be set directly.
func loadEnv() {
	if os.Getenv("ENV") == "production" {
		return
	}
	// Overload so .env values override system environment variables
	if err := godotenv.Overload(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: .env file not found, using system environment variables\n")
	}
}

// setup loads the environment, configuration and logger every command needs
func setup() (*config.Config, *zap.Logger, error) {
	loadEnv()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
