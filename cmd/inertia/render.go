package main

import (
	"github.com/spf13/cobra"

	"github.com/aretw0/inertia"
	"github.com/aretw0/inertia/internal/cli"
)

var renderCmd = &cobra.Command{
	Use:   "render <page.yaml>",
	Short: "Render a page file and print its envelope",
	Long: `Renders a page file as a full load, or as a partial reload when --only,
--except or --component is given, and prints the JSON envelope (or the HTML
root element with --html).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		page, err := cli.LoadPage(args[0])
		if err != nil {
			return err
		}

		opts := append(cfg.EngineOptions(), inertia.WithLogger(cfg.Logger()))
		engine, err := inertia.New(opts...)
		if err != nil {
			return err
		}

		only, _ := cmd.Flags().GetStringSlice("only")
		except, _ := cmd.Flags().GetStringSlice("except")
		component, _ := cmd.Flags().GetString("component")
		html, _ := cmd.Flags().GetBool("html")
		pretty, _ := cmd.Flags().GetBool("pretty")

		return cli.Render(cmd.Context(), engine, page, cli.RenderOptions{
			Component: component,
			Only:      only,
			Except:    except,
			HTML:      html,
			Pretty:    pretty,
			RootID:    cfg.RootID,
		}, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringSlice("only", nil, "Props requested by a partial reload")
	renderCmd.Flags().StringSlice("except", nil, "Props excluded by a partial reload")
	renderCmd.Flags().String("component", "", "Component named by the partial reload (default: the page component)")
	renderCmd.Flags().Bool("html", false, "Print the HTML root element instead of JSON")
	renderCmd.Flags().Bool("pretty", false, "Indent the JSON output")
}
