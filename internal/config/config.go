package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the full driftguard configuration, loadable from
// ~/.driftguard/config.yaml, the environment, and CLI flags.
type Config struct {
	AWS     AWSConfig     `mapstructure:"aws"`
	Drift   DriftConfig   `mapstructure:"drift"`
	Rules   RulesConfig   `mapstructure:"rules"`
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Output  OutputConfig  `mapstructure:"output"`
}

// AWSConfig holds AWS client settings.
type AWSConfig struct {
	Region     string `mapstructure:"region"`
	Profile    string `mapstructure:"profile"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// DriftConfig holds drift aggregation settings.
type DriftConfig struct {
	// EmptyBaseline is "no-baseline" or "all-drift"; see the differ package.
	EmptyBaseline string `mapstructure:"empty_baseline"`
}

// RulesConfig holds rule engine settings.
type RulesConfig struct {
	Concurrency      int           `mapstructure:"concurrency"`
	LookupTimeout    time.Duration `mapstructure:"lookup_timeout"`
	LambdaMinMemory  float64       `mapstructure:"lambda_min_memory_mb"`
	LambdaMaxTimeout float64       `mapstructure:"lambda_max_timeout_sec"`
}

// StorageConfig holds baseline store settings.
type StorageConfig struct {
	BaseDir string `mapstructure:"base_dir"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// OutputConfig holds report rendering settings.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// Load reads configuration with defaults, an optional config file, and
// DRIFTGUARD_* environment overrides.
func Load() (*Config, error) {
	setDefaults()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".driftguard"))
	}
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("driftguard")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine, defaults apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("aws.region", "us-east-1")
	viper.SetDefault("aws.max_retries", 3)

	viper.SetDefault("drift.empty_baseline", "no-baseline")

	viper.SetDefault("rules.concurrency", 4)
	viper.SetDefault("rules.lookup_timeout", 30*time.Second)
	viper.SetDefault("rules.lambda_min_memory_mb", 256)
	viper.SetDefault("rules.lambda_max_timeout_sec", 300)

	viper.SetDefault("logging.level", "info")

	viper.SetDefault("output.format", "table")
	viper.SetDefault("output.no_color", false)
}

// DefaultBaseDir returns the storage directory used when none is configured.
func DefaultBaseDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".driftguard"
	}
	return filepath.Join(home, ".driftguard")
}
