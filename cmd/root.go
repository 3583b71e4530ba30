package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/quarrylabs/datascout/internal/config"
)

var (
	// Global flags
	cfgFile string

	// Loaded configuration
	cfg *cfgpkg.Settings
)

var rootCmd = &cobra.Command{
	Use:   "datascout",
	Short: "datascout: load, clean, and inspect tabular data files",
	Long: `datascout is a CLI for first-pass exploration of tabular data.
It loads CSV, XLSX, and JSON files into typed tables, reports and
remediates missing values, and prints a full inspection: summary
statistics, duplicates, outliers, range checks, optional correlation
and skewness, and text plots.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before any command runs
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datascout/config.yaml)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: commands fall back to defaults
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
}

// settings returns the loaded configuration, or the defaults when loading
// failed or has not run.
func settings() cfgpkg.Settings {
	if cfg != nil {
		return *cfg
	}
	return cfgpkg.Defaults()
}

// parseDelimiter maps a --delimiter flag value to the CSV field separator.
// Empty means comma.
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", ",":
		return ',', nil
	case ";":
		return ';', nil
	case "|":
		return '|', nil
	case "\t", "tab":
		return '\t', nil
	default:
		return 0, fmt.Errorf("unsupported --delimiter: %q (use ',' ';' '|' or 'tab')", s)
	}
}
