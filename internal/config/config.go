package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/mickamy/minitable/internal/logger"
	"github.com/mickamy/minitable/internal/wire"
)

// DefaultAddr is where the server listens unless configured otherwise.
const DefaultAddr = "127.0.0.1:9753"

var ErrInvalid = errors.New("invalid configuration")

// Config is the server configuration file.
//
//	addr: 127.0.0.1:9753
//	hostname: db-1
//	buffer_size: 5120
//	idle_timeout: 5m
//	close_on_error: true
//	keep_closed_sessions: false
//	data_file: ./smdb.yaml
//	log_level: info
type Config struct {
	Addr     string `yaml:"addr"`
	Hostname string `yaml:"hostname"`
	// BufferSize is the largest frame payload accepted or sent.
	BufferSize int `yaml:"buffer_size"`
	// IdleTimeout is a Go duration string; empty or "0" disables it.
	IdleTimeout        string `yaml:"idle_timeout"`
	CloseOnError       *bool  `yaml:"close_on_error"`
	KeepClosedSessions bool   `yaml:"keep_closed_sessions"`
	DataFile           string `yaml:"data_file"`
	LogLevel           string `yaml:"log_level"`
}

// Default returns a Config with the reference protocol settings.
func Default() *Config {
	closeOnError := true
	return &Config{
		Addr:         DefaultAddr,
		BufferSize:   wire.DefaultMaxPayload,
		CloseOnError: &closeOnError,
		LogLevel:     "info",
	}
}

// Load reads a YAML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Addr); err != nil {
		return fmt.Errorf("%w: addr %q: %w", ErrInvalid, c.Addr, err)
	}
	if c.BufferSize <= 0 {
		return fmt.Errorf("%w: buffer_size must be positive, got %d", ErrInvalid, c.BufferSize)
	}
	if _, err := c.Idle(); err != nil {
		return err
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Idle parses IdleTimeout.
func (c *Config) Idle() (time.Duration, error) {
	if c.IdleTimeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.IdleTimeout)
	if err != nil {
		return 0, fmt.Errorf("%w: idle_timeout %q: %w", ErrInvalid, c.IdleTimeout, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: idle_timeout must not be negative", ErrInvalid)
	}
	return d, nil
}

// ClosesOnError reports the error policy; unset means true.
func (c *Config) ClosesOnError() bool {
	return c.CloseOnError == nil || *c.CloseOnError
}
