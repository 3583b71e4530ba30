package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/quarrylabs/datascout/internal/cleaner"
	cfgpkg "github.com/quarrylabs/datascout/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set datascout configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		s := settings()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "clean_method: %s\n", s.CleanMethod)
		fmt.Fprintf(out, "z_threshold: %g\n", s.ZThreshold)
		fmt.Fprintf(out, "histogram_bins: %d\n", s.HistogramBins)
		fmt.Fprintf(out, "preview_rows: %d\n", s.PreviewRows)
		fmt.Fprintf(out, "max_plot_width: %d\n", s.MaxPlotWidth)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "clean_method":
			switch val {
			case cleaner.MethodDrop, cleaner.MethodFill:
				cfg.CleanMethod = val
			default:
				return fmt.Errorf("invalid clean_method: %s (use %s or %s)", val, cleaner.MethodDrop, cleaner.MethodFill)
			}
		case "z_threshold":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid z_threshold: %v (must be a positive number)", val)
			}
			cfg.ZThreshold = f
		case "histogram_bins":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid histogram_bins: %v (must be a positive int)", val)
			}
			cfg.HistogramBins = i
		case "preview_rows":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid preview_rows: %v (must be a positive int)", val)
			}
			cfg.PreviewRows = i
		case "max_plot_width":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid max_plot_width: %v (must be a positive int)", val)
			}
			cfg.MaxPlotWidth = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
