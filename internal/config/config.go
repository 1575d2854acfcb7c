// Package config loads USB Lord settings from flags, environment, an
// optional config.yaml and defaults, in that order of priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/usblord/internal/logging"
	"github.com/abhisek/usblord/internal/store"
)

// EnvPrefix is prepended to every environment variable the app reads.
const EnvPrefix = "USBLORD"

// Config holds all application configuration.
type Config struct {
	DataDir          string         `mapstructure:"data_dir"`
	DBPath           string         `mapstructure:"db_path"`
	ExportDir        string         `mapstructure:"export_dir"`
	AutosaveInterval time.Duration  `mapstructure:"autosave_interval"`
	Log              logging.Config `mapstructure:"log"`
	Coach            CoachConfig    `mapstructure:"coach"`
}

// CoachConfig controls the optional AI coach.
type CoachConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Options carries values that override everything else, usually flags.
type Options struct {
	// ConfigFile is an explicit config path. It must exist when set.
	ConfigFile string
	// DBPath overrides db_path.
	DBPath string
	// ExportDir overrides export_dir.
	ExportDir string
	// EnvFile is the dotenv file to load first. Defaults to ".env".
	EnvFile string
}

// Load resolves the configuration.
func Load(opts Options) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	dataDir, err := store.DefaultDataDir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("data_dir", dataDir)
	v.SetDefault("db_path", "")
	v.SetDefault("export_dir", ".")
	v.SetDefault("autosave_interval", "60s")
	v.SetDefault("log.path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("coach.enabled", true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// USBLORD_DB is the short form used by scripts.
	_ = v.BindEnv("db_path", EnvPrefix+"_DB_PATH", EnvPrefix+"_DB")

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(v.GetString("data_dir"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if opts.DBPath != "" {
		cfg.DBPath = opts.DBPath
	}
	if opts.ExportDir != "" {
		cfg.ExportDir = opts.ExportDir
	}
	cfg.fillDerived()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// fillDerived sets paths that default relative to the data directory.
func (c *Config) fillDerived() {
	if c.DBPath == "" && c.DataDir != "" {
		c.DBPath = filepath.Join(c.DataDir, "usblord.db")
	}
	if c.Log.Path == "" && c.DataDir != "" {
		c.Log.Path = filepath.Join(c.DataDir, "logs", "usblord.log")
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db_path cannot be empty")
	}
	if c.ExportDir == "" {
		return fmt.Errorf("export_dir cannot be empty")
	}
	if c.AutosaveInterval <= 0 {
		return fmt.Errorf("autosave_interval must be > 0, got %s", c.AutosaveInterval)
	}
	if c.Log.Path == "" {
		return fmt.Errorf("log.path cannot be empty")
	}
	return nil
}
