package config

import (
	"fmt"
	"net"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Bridge          BridgeConfig   `yaml:"bridge"`
	API             APIConfig      `yaml:"api"`
	Database        DatabaseConfig `yaml:"database"`
	MDNS            MDNSConfig     `yaml:"mdns"`
	EventBus        EventBusConfig `yaml:"eventbus"`
	Log             LogConfig      `yaml:"log"`
	Lights          []LightConfig  `yaml:"lights"`
	ShutdownTimeout Duration       `yaml:"shutdown_timeout"` // General shutdown timeout for graceful stops
}

// BridgeConfig describes the emulated bridge's identity
type BridgeConfig struct {
	Name     string `yaml:"name"`
	MAC      string `yaml:"mac"`
	Timezone string `yaml:"timezone"`
}

// HardwareAddr parses the configured MAC address.
func (c *BridgeConfig) HardwareAddr() (net.HardwareAddr, error) {
	mac, err := net.ParseMAC(c.MAC)
	if err != nil {
		return nil, fmt.Errorf("invalid bridge MAC %q: %w", c.MAC, err)
	}
	return mac, nil
}

// APIConfig contains HTTP API server settings
type APIConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// MDNSConfig contains discovery advertisement settings
type MDNSConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled returns whether mDNS advertisement is on (default: true)
func (c *MDNSConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// EventBusConfig contains event bus settings
type EventBusConfig struct {
	Workers   int `yaml:"workers"`    // Number of worker goroutines (default: 4)
	QueueSize int `yaml:"queue_size"` // Event queue size (default: 100)
}

// GetWorkers returns worker count with default
func (c *EventBusConfig) GetWorkers() int {
	if c.Workers <= 0 {
		return 4
	}
	return c.Workers
}

// GetQueueSize returns queue size with default
func (c *EventBusConfig) GetQueueSize() int {
	if c.QueueSize <= 0 {
		return 100
	}
	return c.QueueSize
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// GetLevel returns the log level with default
func (c *LogConfig) GetLevel() string {
	if c.Level == "" {
		return "info"
	}
	return c.Level
}

// LightConfig declares one emulated light. The bridge seeds these into
// the resource store on first start.
type LightConfig struct {
	Name      string `yaml:"name"`
	Archetype string `yaml:"archetype"` // default: sultan_bulb
	GamutType string `yaml:"gamut_type"`
	Gradient  bool   `yaml:"gradient"` // gradient-capable (lightstrip)
	Segments  int    `yaml:"segments"` // physical segments, gradient lights only
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	// Bridge defaults
	if cfg.Bridge.Name == "" {
		cfg.Bridge.Name = "luxd"
	}
	if cfg.Bridge.MAC == "" {
		cfg.Bridge.MAC = "00:17:88:00:00:00"
	}
	if cfg.Bridge.Timezone == "" {
		cfg.Bridge.Timezone = "UTC"
	}
	if _, err := cfg.Bridge.HardwareAddr(); err != nil {
		return nil, err
	}

	// API defaults
	if cfg.API.Host == "" {
		cfg.API.Host = "0.0.0.0"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 8080
	}

	if cfg.Database.Path == "" {
		cfg.Database.Path = "./luxd.sqlite"
	}

	// Light defaults
	for i := range cfg.Lights {
		if cfg.Lights[i].Archetype == "" {
			if cfg.Lights[i].Gradient {
				cfg.Lights[i].Archetype = "hue_lightstrip"
			} else {
				cfg.Lights[i].Archetype = "sultan_bulb"
			}
		}
		if cfg.Lights[i].GamutType == "" {
			cfg.Lights[i].GamutType = "C"
		}
		if cfg.Lights[i].Gradient && cfg.Lights[i].Segments == 0 {
			cfg.Lights[i].Segments = 7
		}
	}

	// General shutdown timeout
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}

	return &cfg, nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
