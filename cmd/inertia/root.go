package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/inertia/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "inertia",
	Short: "Inertia renders server-driven SPA pages from lazy property trees",
	Long: `Inertia builds page envelopes for Inertia-style clients.
Pages are described in YAML, partials are read from a Loam repository, and
the server answers full loads, partial reloads and deferred prop requests.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "inertia.yaml", "Configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().String("partials", "", "Directory containing partial documents (overrides partials_dir)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides log_level)")
}

// loadConfig reads the config file and applies the persistent flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if dir, _ := cmd.Flags().GetString("partials"); dir != "" {
		cfg.PartialsDir = dir
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, cfg.Validate()
}
