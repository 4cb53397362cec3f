package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	Import   ImportConfig
	Analysis AnalysisConfig
	UI       UIConfig
	Log      LogConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// ImportConfig caps one import batch.
type ImportConfig struct {
	MaxFiles     int   `mapstructure:"max_files"`
	MaxFileBytes int64 `mapstructure:"max_file_bytes"`
}

// AnalysisConfig tunes the derived campaign categories.
type AnalysisConfig struct {
	LowVolumeThreshold   int     `mapstructure:"low_volume_threshold"`
	OutlierIQRMultiplier float64 `mapstructure:"outlier_iqr_multiplier"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Placeholder string
	DateFormat  string `mapstructure:"date_format"`
}

// LogConfig points the file logger somewhere the TUI won't paint over.
type LogConfig struct {
	Path  string
	Level string
}

// Load reads configuration from file and env. Env var overrides use
// prefix SIMPLEDASH_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "simpledash", "simpledash.db"))
	v.SetDefault("import.max_files", 12)
	v.SetDefault("import.max_file_bytes", 10*1024*1024)
	v.SetDefault("analysis.low_volume_threshold", 500)
	v.SetDefault("analysis.outlier_iqr_multiplier", 1.5)
	v.SetDefault("ui.placeholder", "Select campaigns...")
	v.SetDefault("ui.date_format", "02 Jan 2006")
	v.SetDefault("log.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "simpledash", "simpledash.log"))
	v.SetDefault("log.level", "info")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("SIMPLEDASH_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "simpledash"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SIMPLEDASH")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory
// if needed. Used by the TUI settings view.
func Save(cfg Config) error {
	path := os.Getenv("SIMPLEDASH_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "simpledash", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("import.max_files", cfg.Import.MaxFiles)
	v.Set("import.max_file_bytes", cfg.Import.MaxFileBytes)
	v.Set("analysis.low_volume_threshold", cfg.Analysis.LowVolumeThreshold)
	v.Set("analysis.outlier_iqr_multiplier", cfg.Analysis.OutlierIQRMultiplier)
	v.Set("ui.placeholder", cfg.UI.Placeholder)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
