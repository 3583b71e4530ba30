package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Settings is the persisted CLI configuration. Every field has a default;
// a missing config file is not an error.
type Settings struct {
	// CleanMethod is the missing-value method: drop-missing or fill-missing.
	CleanMethod string `mapstructure:"clean_method" yaml:"clean_method"`
	// ZThreshold is the |z| cutoff for flagging outliers during cleaning.
	ZThreshold float64 `mapstructure:"z_threshold" yaml:"z_threshold"`
	// HistogramBins is the bucket count for inspection histograms.
	HistogramBins int `mapstructure:"histogram_bins" yaml:"histogram_bins"`
	// PreviewRows caps table previews in reports.
	PreviewRows int `mapstructure:"preview_rows" yaml:"preview_rows"`
	// MaxPlotWidth is the character budget for text plots.
	MaxPlotWidth int `mapstructure:"max_plot_width" yaml:"max_plot_width"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		CleanMethod:   "drop-missing",
		ZThreshold:    3.0,
		HistogramBins: 10,
		PreviewRows:   10,
		MaxPlotWidth:  60,
	}
}

// Load reads configuration from file and environment.
// Precedence: env > config file > defaults.
func Load(cfgFile string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix("DATASCOUT")
	v.AutomaticEnv()

	d := Defaults()
	v.SetDefault("clean_method", d.CleanMethod)
	v.SetDefault("z_threshold", d.ZThreshold)
	v.SetDefault("histogram_bins", d.HistogramBins)
	v.SetDefault("preview_rows", d.PreviewRows)
	v.SetDefault("max_plot_width", d.MaxPlotWidth)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".datascout")
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read: missing file falls back to defaults
	_ = v.ReadInConfig()

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &s, nil
}

// Save writes the given settings to the cfgFile path. If cfgFile is empty,
// it writes to ~/.datascout/config.yaml, creating the directory if
// necessary. The write goes through a temp file and an atomic rename so a
// crash never leaves a half-written config.
func Save(s *Settings, cfgFile string) error {
	path := cfgFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".datascout")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}
