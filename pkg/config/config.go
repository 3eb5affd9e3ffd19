// Package config loads go-docsync settings from defaults, an optional config
// file, DOCSYNC_ environment variables and command line flags, in rising
// priority.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variable overrides
const EnvPrefix = "DOCSYNC"

// Config is the complete server configuration
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Replication ReplicationConfig `mapstructure:"replication"`
	Log         LogConfig         `mapstructure:"log"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type StorageConfig struct {
	DataDir string `mapstructure:"data_dir"`
	// BackgroundSave switches from saving after every write to saving dirty
	// databases on this interval. Zero keeps per-write saves.
	BackgroundSave time.Duration `mapstructure:"background_save"`
}

type ReplicationConfig struct {
	StrictDirection bool          `mapstructure:"strict_direction"`
	Interval        time.Duration `mapstructure:"interval"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// flagKeys maps command line flag names to config keys
var flagKeys = map[string]string{
	"port":     "server.port",
	"data-dir": "storage.data_dir",
	"debug":    "log.debug",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)

	v.SetDefault("storage.data_dir", ".")
	v.SetDefault("storage.background_save", time.Duration(0))

	v.SetDefault("replication.strict_direction", false)
	v.SetDefault("replication.interval", 5*time.Second)

	v.SetDefault("log.debug", false)
}

// Load builds the configuration. path may be empty; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if flag := flags.Lookup(name); flag != nil {
				if err := v.BindPFlag(key, flag); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("server.shutdown_timeout must be positive")
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage.data_dir is required")
	}
	if c.Storage.BackgroundSave < 0 {
		return fmt.Errorf("storage.background_save cannot be negative")
	}
	if c.Replication.Interval <= 0 {
		return fmt.Errorf("replication.interval must be positive")
	}
	return nil
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
