package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/gforms"
	"github.com/aretw0/gforms/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gforms",
	Run: func(cmd *cobra.Command, args []string) {
		if banner, _ := cmd.Flags().GetBool("banner"); banner {
			tui.PrintBanner(cmd.OutOrStdout(), strings.TrimSpace(gforms.Version))
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "gforms version %s\n", strings.TrimSpace(gforms.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("banner", false, "Print the banner")
}
