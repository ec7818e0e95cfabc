package cmd

import (
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:          "auvsim",
	Short:        "AUV mission simulator",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json); defaults apply when empty")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
