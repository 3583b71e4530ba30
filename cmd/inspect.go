package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/datascout/internal/inspector"
	"github.com/quarrylabs/datascout/internal/loader"
)

var (
	insCorr      []string
	insSkew      []string
	insDelimiter string
	insPreview   int
	insBins      int
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print a full inspection report for a data file",
	Long: `Inspect loads a data file and prints every inspection section in fixed
order: shape and column kinds, missing values, summary statistics,
duplicates, outliers with box plots, range checks, histograms, and a
time-patterns placeholder. Correlation and skewness sections appear
only when their column lists are given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve path: %w", err)
		}
		if err := loader.ValidatePath(path); err != nil {
			fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
		}
		delim, err := parseDelimiter(insDelimiter)
		if err != nil {
			return err
		}
		tbl, err := loader.LoadDelimited(path, delim)
		if err != nil {
			return err
		}

		s := settings()
		opt := inspector.Options{
			CorrColumns:   insCorr,
			SkewColumns:   insSkew,
			HistogramBins: s.HistogramBins,
		}
		if cmd.Flags().Changed("bins") && insBins > 0 {
			opt.HistogramBins = insBins
		}
		rep := inspector.Inspect(tbl, opt)

		w := reportWriter(cmd, s.PreviewRows, s.MaxPlotWidth)
		if cmd.Flags().Changed("preview") && insPreview > 0 {
			w.PreviewRows = insPreview
		}
		w.WriteInspection(rep)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringSliceVar(&insCorr, "corr", nil, "column names for the correlation matrix (comma-separated, repeatable)")
	inspectCmd.Flags().StringSliceVar(&insSkew, "skew", nil, "column names for skewness checks (comma-separated, repeatable)")
	inspectCmd.Flags().StringVar(&insDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | '|' | 'tab'")
	inspectCmd.Flags().IntVar(&insPreview, "preview", 0, "rows to show in table previews (default from config)")
	inspectCmd.Flags().IntVar(&insBins, "bins", 0, "histogram bucket count (default from config)")
}
