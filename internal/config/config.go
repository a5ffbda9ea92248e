// Package config holds the runtime settings of the stream client.
//
// Settings are resolved in layers: built-in defaults, then an optional YAML
// file, then environment variables and command-line flags applied by the CLI.
package config

import (
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rxtech-lab/tokenstream/internal/version"
	"github.com/rxtech-lab/tokenstream/internal/wire"
	"github.com/rxtech-lab/tokenstream/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultStreamURL is the public streaming endpoint.
	DefaultStreamURL = "https://streaming.dexpaprika.com/stream"

	// DefaultConnectTimeout bounds how long opening a stream may take.
	DefaultConnectTimeout = 30 * time.Second

	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "info"
)

// Config is the stream client configuration.
type Config struct {
	// StreamURL is the base URL of the streaming endpoint.
	StreamURL string `yaml:"stream_url" validate:"required,url"`
	// UserAgent is sent with every request.
	UserAgent string `yaml:"user_agent" validate:"required"`
	// MaxFrameBytes bounds a single unterminated wire line. 0 selects the default of 1 MiB.
	MaxFrameBytes int `yaml:"max_frame_bytes" validate:"gte=0"`
	// IdleTimeout fails a session when no data arrives for this long. 0 disables it.
	IdleTimeout time.Duration `yaml:"idle_timeout" validate:"gte=0"`
	// ConnectTimeout bounds the time until response headers arrive.
	ConnectTimeout time.Duration `yaml:"connect_timeout" validate:"gte=0"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		StreamURL:      DefaultStreamURL,
		UserAgent:      version.UserAgent(),
		MaxFrameBytes:  wire.DefaultMaxFrameBytes,
		IdleTimeout:    0,
		ConnectTimeout: DefaultConnectTimeout,
		LogLevel:       DefaultLogLevel,
	}
}

// Load reads a YAML configuration file on top of the defaults.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks the configuration values.
func (c Config) Validate() error {
	validate := validator.New()

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	return nil
}
