package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/datascout/internal/loader"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Check that a path names a readable data file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		if err := loader.ValidatePath(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Valid path: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
