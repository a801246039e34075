package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/inertia"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of inertia",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "inertia version %s\n", strings.TrimSpace(inertia.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
