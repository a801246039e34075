package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/inertia"
)

var partialsCmd = &cobra.Command{
	Use:   "partials",
	Short: "List the partials of the partials directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if cfg.PartialsDir == "" {
			return fmt.Errorf("no partials directory: set partials_dir or --partials")
		}

		engine, err := inertia.New(inertia.WithPartialsDir(cfg.PartialsDir), inertia.WithLogger(cfg.Logger()))
		if err != nil {
			return err
		}
		names, err := engine.Partials()
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(partialsCmd)
}
