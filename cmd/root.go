package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/relato-labs/incident-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "incident-cli",
	Short: "Structured incident extraction from free-form reports",
	Long:  "Normalizes and annotates free-form incident reports, extracts structured data via a local LLM, and validates the result against the incident schema.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
