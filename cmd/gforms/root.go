package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gforms",
	Short: "gforms fills and submits Google Forms from the command line",
	Long: `gforms loads a public Google Form, fills it from an answers file or with
synthesized values, validates the answers locally and submits them.`,
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
	rootCmd.PersistentFlags().String("config", "", "Config file (default ./gforms.yaml when present)")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("user-agent", "", "User-Agent header sent to the form server")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Timeout of every request")
}
