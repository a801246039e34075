package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/inertia"
	"github.com/aretw0/inertia/internal/cli"
	"github.com/aretw0/inertia/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [pages-dir]",
	Short: "Check page files for consistency",
	Long: `Parses every page file and reports unknown partials, nested annotations
and route collisions. Partials are only checked when a partials directory is configured.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dir := "pages"
		if len(args) > 0 {
			dir = args[0]
		}

		pages, err := cli.LoadPages(dir)
		if err != nil {
			return err
		}

		var names []string
		if cfg.PartialsDir != "" {
			engine, err := inertia.New(inertia.WithPartialsDir(cfg.PartialsDir))
			if err != nil {
				return fmt.Errorf("failed to init engine: %w", err)
			}
			if names, err = engine.Partials(); err != nil {
				return err
			}
		}

		if err := validator.ValidatePages(pages, names); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d pages are valid\n", len(pages))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
