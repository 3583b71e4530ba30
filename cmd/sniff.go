package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/datascout/internal/loader"
)

var sniffCmd = &cobra.Command{
	Use:   "sniff <path>",
	Short: "Report a file's inferred format and which tier decided",
	Long: `Sniff runs the format-inference tiers in order (extension-based MIME
lookup, content sniffing, raw extension) and prints the first answer.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		tag, tier := loader.InferFormatTier(args[0])
		if tag == "" {
			fmt.Fprintln(out, "⚠ Unknown format")
			return nil
		}
		fmt.Fprintf(out, "Format: %s (via %s)\n", tag, tier)
		if loader.Supported(tag) {
			fmt.Fprintln(out, "✓ Supported")
		} else {
			fmt.Fprintf(out, "⚠ Unsupported (supported: %s)\n", strings.Join(loader.SupportedFormats(), ", "))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sniffCmd)
}
