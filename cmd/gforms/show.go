package main

import (
	"fmt"

	"github.com/aretw0/gforms"
	"github.com/aretw0/gforms/internal/presentation/tui"
	"github.com/aretw0/gforms/pkg/domain"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <url>",
	Short: "Print the pages and questions of a form",
	Long: `Loads the form and prints every page with its questions and their hints.
With --answers the form is filled first and the answers are printed instead.
With --images the address of every picture is looked up, which takes one
request per page with images.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printForm(cmd, args[0], cmd.Flags().Changed("answers"))
	},
}

var fillCmd = &cobra.Command{
	Use:   "fill <url>",
	Short: "Fill and validate a form without submitting it",
	Long: `Loads the form, fills it from the answers file (synthesizing values for
unanswered questions), validates it and prints the answers.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printForm(cmd, args[0], true)
	},
}

func printForm(cmd *cobra.Command, rawURL string, fill bool) error {
	ctx := cmd.Context()
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd)
	if err != nil {
		return err
	}
	var opts []gforms.Option
	if images, _ := cmd.Flags().GetBool("images"); images {
		opts = append(opts, gforms.WithImageResolution())
	}
	form, err := loadForm(ctx, rawURL, cfg, logger, domain.LifecycleHooks{}, opts...)
	if err != nil {
		return err
	}
	if fill {
		f, err := answerFile(cmd, cfg)
		if err != nil {
			return err
		}
		if err := form.Fill(ctx, f.Callback(), f.FillOptional); err != nil {
			return fmt.Errorf("fill: %w", err)
		}
	}

	markdown := tui.FormMarkdown(form.Model(), fill)
	if raw, _ := cmd.Flags().GetBool("raw"); raw {
		fmt.Fprint(cmd.OutOrStdout(), markdown)
		return nil
	}
	out, err := tui.NewRenderer()(markdown)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func init() {
	for _, c := range []*cobra.Command{showCmd, fillCmd} {
		rootCmd.AddCommand(c)
		c.Flags().String("answers", "", "YAML answers file")
		c.Flags().Bool("raw", false, "Print markdown instead of rendering it")
		c.Flags().Bool("images", false, "Look up the URLs of image elements")
	}
	fillCmd.Flags().Bool("fill-optional", false, "Synthesize values for unanswered optional questions")
}
