package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/de-tools/indicator-atlas/pkg/server"
	"github.com/de-tools/indicator-atlas/pkg/services/config"
	"github.com/de-tools/indicator-atlas/pkg/services/pipeline"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var cfgPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:          "web",
		Short:        "Start the web server for Indicator Atlas",
		SilenceUsage: true,
		RunE:         runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a YAML config file (defaults and ATLAS_* variables apply without one)")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	runner, err := pipeline.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	logger.Info().
		Str("indicator", cfg.Source.Indicator).
		Strs("entities", cfg.Source.Entities).
		Strs("models", cfg.Generation.Models).
		Str("prompt_version", cfg.Prompt.Version).
		Msg("configuration loaded")

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	api := server.NewWebAPI(logger, server.Config{
		Addr: addr,
		Dependencies: server.Dependencies{
			Pipeline: runner,
		},
	})

	return api.Start()
}
