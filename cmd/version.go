package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tejashwikalptaru/playvideo/internal/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), app.GetVersionInfo().FullString())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
