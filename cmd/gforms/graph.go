package main

import (
	"fmt"

	"github.com/aretw0/gforms/internal/presentation/graph"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph <url>",
	Short: "Export the page graph of a form",
	Long: `Outputs a Mermaid diagram (graph TD) of the pages of the form and the
transitions between them. With --answers the path the answers lead through
is highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := settings(cmd)
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd)
		if err != nil {
			return err
		}
		form, err := loadForm(ctx, args[0], cfg, logger, domain.LifecycleHooks{})
		if err != nil {
			return err
		}

		var overlay *graph.GraphOverlay
		if cmd.Flags().Changed("answers") {
			f, err := answerFile(cmd, cfg)
			if err != nil {
				return err
			}
			if err := form.Fill(ctx, f.Callback(), f.FillOptional); err != nil {
				logger.Warn("answers do not complete the form", "err", err)
			}
			overlay = &graph.GraphOverlay{}
			for _, p := range form.Path() {
				overlay.Path = append(overlay.Path, p.Index)
			}
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(form.Model().Pages, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("answers", "", "YAML answers file whose path is highlighted")
}
