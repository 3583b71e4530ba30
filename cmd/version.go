package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped by the release build; the default marks dev builds.
var version = "0.1.0-dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the datascout version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "datascout %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
