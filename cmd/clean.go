package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/datascout/internal/cleaner"
	"github.com/quarrylabs/datascout/internal/loader"
	"github.com/quarrylabs/datascout/internal/report"
)

var (
	clnMethod    string
	clnThreshold float64
	clnDelimiter string
	clnPreview   int
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Report and handle missing values, flag duplicates and outliers",
	Long: `Clean loads a data file and runs the cleaning pipeline: report missing
values per column, handle them with the configured method, then count
duplicate rows and flag z-score outliers. Duplicates and outliers are
reported only; the cleaned table differs from the input solely through
the missing-value step.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		if err := loader.ValidatePath(path); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		}
		delim, err := parseDelimiter(clnDelimiter)
		if err != nil {
			return err
		}
		tbl, err := loader.LoadDelimited(path, delim)
		if err != nil {
			return err
		}

		s := settings()
		opts := cleaner.Options{Method: s.CleanMethod, Threshold: s.ZThreshold}
		if cmd.Flags().Changed("method") {
			opts.Method = clnMethod
		}
		if cmd.Flags().Changed("threshold") {
			opts.Threshold = clnThreshold
		}
		out, rep, err := cleaner.Clean(tbl, opts)
		if err != nil {
			return err
		}

		w := reportWriter(cmd, s.PreviewRows, s.MaxPlotWidth)
		if cmd.Flags().Changed("preview") && clnPreview > 0 {
			w.PreviewRows = clnPreview
		}
		w.WriteClean(rep, tbl, out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&clnMethod, "method", "m", "", "missing-value method: drop-missing | fill-missing (default from config)")
	cleanCmd.Flags().Float64VarP(&clnThreshold, "threshold", "t", 0, "|z| cutoff for outlier flagging (default from config)")
	cleanCmd.Flags().StringVar(&clnDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab'")
	cleanCmd.Flags().IntVar(&clnPreview, "preview", 0, "rows to show in table previews (default from config)")
}

// reportWriter builds a report.Writer on the command's stdout with sizes
// from config applied.
func reportWriter(cmd *cobra.Command, previewRows, plotWidth int) *report.Writer {
	w := report.New(cmd.OutOrStdout())
	if previewRows > 0 {
		w.PreviewRows = previewRows
	}
	if plotWidth > 0 {
		w.MaxPlotWidth = plotWidth
	}
	return w
}
