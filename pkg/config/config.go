// Package config loads the bridge's process configuration from YAML.
//
// The file only covers process wiring (ports, script, logging, device
// discovery). Script-facing settings live in the Lua config file named by
// SPINDLE_CONFIG.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/stitchworks/spindle/pkg/discovery"
	"github.com/stitchworks/spindle/pkg/service"
)

// Errors.
var (
	ErrInvalidPort     = errors.New("invalid port")
	ErrInvalidLevel    = errors.New("unknown log level")
	ErrInvalidQueue    = errors.New("queue size must be positive")
	ErrInvalidInstance = errors.New("invalid mDNS instance name")
)

// Config is the process configuration.
type Config struct {
	LocalPort   string `yaml:"local_port"`
	RemotePort  string `yaml:"remote_port"`
	Script      string `yaml:"script"`
	LogLevel    string `yaml:"log_level"`
	ProtocolLog string `yaml:"protocol_log"`
	QueueSize   int    `yaml:"queue_size"`

	Serialosc SerialoscConfig `yaml:"serialosc"`
	MDNS      MDNSConfig      `yaml:"mdns"`
}

// SerialoscConfig configures the serialosc driver.
type SerialoscConfig struct {
	Address string `yaml:"address"`
	Enabled bool   `yaml:"enabled"`
}

// MDNSConfig configures advertising and device browsing.
type MDNSConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Interface string `yaml:"interface"`

	// Name is the advertised instance name. Empty means "spindle on <hostname>".
	Name string `yaml:"name"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		LocalPort:  "7777",
		RemotePort: "6666",
		LogLevel:   "info",
		QueueSize:  service.DefaultQueueSize,
		Serialosc: SerialoscConfig{
			Address: "localhost:12002",
			Enabled: true,
		},
	}
}

// Load reads path over the defaults. Keys missing from the file keep their
// default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that the configuration can be used to start the bridge.
func (c *Config) Validate() error {
	if _, err := ParsePort(c.LocalPort); err != nil {
		return fmt.Errorf("local_port: %w", err)
	}
	if _, err := ParsePort(c.RemotePort); err != nil {
		return fmt.Errorf("remote_port: %w", err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.QueueSize <= 0 {
		return ErrInvalidQueue
	}
	if c.MDNS.Name != "" {
		if err := discovery.ValidateInstanceName(c.MDNS.Name); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInstance, err)
		}
	}
	return nil
}

// ParsePort parses a decimal port in 1..65535.
func ParsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPort, s)
	}
	return uint16(n), nil
}

// ParseLevel maps a level name to its slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}
