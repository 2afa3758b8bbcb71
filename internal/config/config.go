// Package config loads settings from .env files, an optional YAML file,
// AQICN_* environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ErrMissingToken is returned by Validate when no WAQI token is configured.
var ErrMissingToken = errors.New("aqicn token is required (set AQICN_TOKEN or --token)")

// Config holds all configuration for the application.
type Config struct {
	AQICN         AQICNConfig   `mapstructure:"aqicn"`
	Geocode       GeocodeConfig `mapstructure:"geocode"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	Log           LogConfig     `mapstructure:"log"`
	Server        ServerConfig  `mapstructure:"server"`
	OTel          OTelConfig    `mapstructure:"otel"`
	Env           string        `mapstructure:"env"`
}

// AQICNConfig configures the WAQI feed client.
type AQICNConfig struct {
	Token      string        `mapstructure:"token"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries uint64        `mapstructure:"max_retries"`
}

// GeocodeConfig configures the Nominatim geocoder.
type GeocodeConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	UserAgent     string        `mapstructure:"user_agent"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// ServerConfig holds web panel server configuration.
type ServerConfig struct {
	Port       int  `mapstructure:"port"`
	RequireTLS bool `mapstructure:"require_tls"`
}

// OTelConfig holds OpenTelemetry export configuration.
type OTelConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint"`
}

// setting is one configuration key with its default and environment name.
type setting struct {
	key   string
	env   string
	value any
}

var settings = []setting{
	{"aqicn.token", "AQICN_TOKEN", ""},
	{"aqicn.base_url", "AQICN_BASE_URL", "https://api.waqi.info/feed"},
	{"aqicn.timeout", "AQICN_TIMEOUT", 10 * time.Second},
	{"aqicn.max_retries", "AQICN_MAX_RETRIES", 2},
	{"geocode.base_url", "AQICN_GEOCODE_BASE_URL", "https://nominatim.openstreetmap.org"},
	{"geocode.user_agent", "AQICN_GEOCODE_USER_AGENT", "aqicn_app"},
	{"geocode.rate_per_second", "AQICN_GEOCODE_RATE_PER_SECOND", 1.0},
	{"geocode.timeout", "AQICN_GEOCODE_TIMEOUT", 10 * time.Second},
	{"lookup_timeout", "AQICN_LOOKUP_TIMEOUT", 20 * time.Second},
	{"log.level", "AQICN_LOG_LEVEL", "info"},
	{"server.port", "AQICN_PORT", 8080},
	{"server.require_tls", "AQICN_REQUIRE_TLS", false},
	{"otel.enabled", "AQICN_OTEL_ENABLED", false},
	{"otel.endpoint", "AQICN_OTEL_ENDPOINT", "localhost:4317"},
	{"env", "AQICN_ENV", "development"},
}

// flagKeys maps shared flag names to configuration keys.
var flagKeys = map[string]string{
	"token":     "aqicn.token",
	"log-level": "log.level",
}

// RegisterFlags adds the flags shared by every command to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "path to a YAML config file")
	fs.String("token", "", "WAQI API token")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
}

// Load reads configuration. fs may be nil; when set, flags registered with
// RegisterFlags (or bound later by the caller) override every other source.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("aqicn")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.aqicn")

	for _, s := range settings {
		v.SetDefault(s.key, s.value)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", s.env, err)
		}
	}

	if fs != nil {
		if err := bindFlags(v, fs); err != nil {
			return nil, err
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	if f := fs.Lookup("config"); f != nil && f.Value.String() != "" {
		v.SetConfigFile(f.Value.String())
	}

	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}
	return nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.AQICN.Token) == "" {
		return ErrMissingToken
	}
	if c.LookupTimeout <= 0 {
		return fmt.Errorf("lookup_timeout must be positive, got %s", c.LookupTimeout)
	}
	if c.Geocode.RatePerSecond <= 0 {
		return fmt.Errorf("geocode.rate_per_second must be positive, got %g", c.Geocode.RatePerSecond)
	}
	return nil
}

// ServerAddr returns the listen address in the format ":port".
func (c *Config) ServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a JSON zerolog logger writing to w at the configured
// level. Unknown levels fall back to info.
func (c *Config) NewLogger(w io.Writer, service, version string) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Str("version", version).
		Logger()
}
