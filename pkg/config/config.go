// Package config provides YAML-based configuration loading for the
// Starworld client.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
	// AppName optional logical name of the client
	AppName string `mapstructure:"app_name"`

	// DataDir base directory for persistent data (entity snapshots)
	DataDir string `mapstructure:"data_dir"`

	// Domain selects the domain server to join
	Domain DomainConfig `mapstructure:"domain"`

	// Client tunes the tick loop and entity query
	Client ClientConfig `mapstructure:"client"`

	// Log holds logging configuration
	Log LogConfig `mapstructure:"log"`
}

// DomainConfig identifies the target domain server.
type DomainConfig struct {
	// Host name or address of the domain server
	Host string `mapstructure:"host"`
	// Port UDP port of the domain server
	Port uint16 `mapstructure:"port"`
	// PlaceName requested place, sent in the connect request
	PlaceName string `mapstructure:"place_name"`
}

// ClientConfig tunes protocol timers and the entity query.
type ClientConfig struct {
	// PingIntervalMS keepalive ping cadence
	PingIntervalMS int `mapstructure:"ping_interval_ms"`
	// ResendIntervalMS handshake resend cadence while not connected
	ResendIntervalMS int `mapstructure:"resend_interval_ms"`
	// MaxPacketsPerSecond server send budget requested in the entity query
	MaxPacketsPerSecond int32 `mapstructure:"max_packets_per_second"`
	// LODSizeScale level-of-detail scale requested in the entity query
	LODSizeScale float32 `mapstructure:"lod_size_scale"`
	// BoundaryLevelAdjust octree boundary adjustment in the entity query
	BoundaryLevelAdjust int32 `mapstructure:"boundary_level_adjust"`
	// SnapshotFile entity replica snapshot path, empty disables snapshots
	SnapshotFile string `mapstructure:"snapshot_file"`
}

// LogConfig defines logger settings.
type LogConfig struct {
	// Level: debug, info, warn, error
	Level string `mapstructure:"level"`
	// Format: console or json
	Format string `mapstructure:"format"`
	// Outputs: list of outputs: stdout, stderr, or file paths
	Outputs []string `mapstructure:"outputs"`

	// Rotation controls file rotation when writing to files
	Rotation RotationConfig `mapstructure:"rotation"`
	// Development toggles development-friendly logging options
	Development bool `mapstructure:"development"`
}

// RotationConfig controls log file rotation for file outputs.
type RotationConfig struct {
	Enable     bool   `mapstructure:"enable"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// Default returns a Config populated with sensible defaults.
func Default() *Config {
	return &Config{
		AppName: "starworld-client",
		DataDir: "./data",
		Domain: DomainConfig{
			Host:      "localhost",
			Port:      40102,
			PlaceName: "",
		},
		Client: ClientConfig{
			PingIntervalMS:      1000,
			ResendIntervalMS:    3000,
			MaxPacketsPerSecond: 9000,
			LODSizeScale:        1.0,
			BoundaryLevelAdjust: 0,
			SnapshotFile:        "",
		},
		Log: LogConfig{
			Level:       "info",
			Format:      "console",
			Outputs:     []string{"stdout"},
			Development: true,
			Rotation: RotationConfig{
				Enable:     false,
				Filename:   "logs/starworld.log",
				MaxSizeMB:  50,
				MaxBackups: 3,
				MaxAgeDays: 28,
				Compress:   true,
			},
		},
	}
}

// Load reads configuration from the provided path (if non-empty),
// otherwise it searches common locations and supports environment overrides.
// Environment variables use the prefix STARWORLD and `.`/`-` are replaced
// with `_`. Example: STARWORLD_LOG_LEVEL=debug
func Load(path string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("STARWORLD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// seed defaults for viper so env-only configs work
	v.SetDefault("app_name", cfg.AppName)
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("domain.host", cfg.Domain.Host)
	v.SetDefault("domain.port", cfg.Domain.Port)
	v.SetDefault("domain.place_name", cfg.Domain.PlaceName)
	v.SetDefault("client.ping_interval_ms", cfg.Client.PingIntervalMS)
	v.SetDefault("client.resend_interval_ms", cfg.Client.ResendIntervalMS)
	v.SetDefault("client.max_packets_per_second", cfg.Client.MaxPacketsPerSecond)
	v.SetDefault("client.lod_size_scale", cfg.Client.LODSizeScale)
	v.SetDefault("client.boundary_level_adjust", cfg.Client.BoundaryLevelAdjust)
	v.SetDefault("client.snapshot_file", cfg.Client.SnapshotFile)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("log.outputs", cfg.Log.Outputs)
	v.SetDefault("log.development", cfg.Log.Development)
	v.SetDefault("log.rotation.enable", cfg.Log.Rotation.Enable)
	v.SetDefault("log.rotation.filename", cfg.Log.Rotation.Filename)
	v.SetDefault("log.rotation.max_size_mb", cfg.Log.Rotation.MaxSizeMB)
	v.SetDefault("log.rotation.max_backups", cfg.Log.Rotation.MaxBackups)
	v.SetDefault("log.rotation.max_age_days", cfg.Log.Rotation.MaxAgeDays)
	v.SetDefault("log.rotation.compress", cfg.Log.Rotation.Compress)

	// Choose config file
	if path == "" {
		// Allow override via env var
		if envPath := os.Getenv("STARWORLD_CONFIG"); envPath != "" {
			path = envPath
		}
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		// Search common locations with base name `starworld`
		v.SetConfigName("starworld")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".starworld"))
		}
	}

	// Read config file if present; if not found, continue with defaults/env
	if err := v.ReadInConfig(); err != nil {
		var viperConfigFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &viperConfigFileNotFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	lvl := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch lvl {
	case "debug", "info", "warn", "warning", "error":
		// ok
	default:
		return fmt.Errorf("invalid log.level: %q", c.Log.Level)
	}

	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if len(c.Log.Outputs) == 0 {
		c.Log.Outputs = []string{"stdout"}
	}
	if strings.TrimSpace(c.Domain.Host) == "" {
		return errors.New("domain.host must not be empty")
	}
	if c.Domain.Port == 0 {
		c.Domain.Port = 40102
	}
	if c.Client.PingIntervalMS <= 0 {
		c.Client.PingIntervalMS = 1000
	}
	if c.Client.ResendIntervalMS <= 0 {
		c.Client.ResendIntervalMS = 3000
	}
	if c.Client.MaxPacketsPerSecond <= 0 {
		c.Client.MaxPacketsPerSecond = 9000
	}
	if c.Client.LODSizeScale <= 0 {
		c.Client.LODSizeScale = 1.0
	}
	return nil
}

// MustLoad is a convenience that panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}
