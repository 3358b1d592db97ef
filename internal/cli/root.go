package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"parlwatch/config"
	"parlwatch/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
	baseDir string
)

var rootCmd = &cobra.Command{
	Use:   "parlwatch",
	Short: "Monitor EU Parliament documents for tracked keywords",
	Long: `parlwatch watches a feed of legislative documents, flags the ones
containing tracked keywords, and follows how keyword frequency shifts
over time to project near-term occurrence counts.

Example usage:
  parlwatch fetch                  # Fetch and analyze today's documents
  parlwatch report daily           # Write today's report
  parlwatch keywords add "fintech" # Track a new keyword
  parlwatch watch                  # Run on the configured schedule`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if baseDir == "" {
			baseDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(baseDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger.SetLevel(cfg.Logging.Level)
		return nil
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./parlwatch.yaml)")
	rootCmd.PersistentFlags().StringVarP(&baseDir, "dir", "d", "", "base directory (default is current directory)")
}
