// Package config handles econet-bridge configuration loading.
//
// Configuration comes from a YAML file discovered via [FindConfig], or —
// when no file exists — entirely from environment variables via [FromEnv].
// The environment variable names match the original deployment surface
// (MQTT_HOST, ECONET_ENDPOINT, POLLING_INTERVAL, ...), so a container that
// only sets env vars needs no config file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultSearchPaths returns the config file search order.
// An explicit path (from -config flag) is checked first.
// Then: ./econet-bridge.yaml, ~/.config/econet-bridge/config.yaml,
// /etc/econet-bridge/config.yaml.
func DefaultSearchPaths() []string {
	paths := []string{"econet-bridge.yaml"}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "econet-bridge", "config.yaml"))
	}

	paths = append(paths, "/etc/econet-bridge/config.yaml")
	return paths
}

// FindConfig locates a config file. If explicit is non-empty, it must exist.
// Otherwise, searches DefaultSearchPaths and returns the first that exists.
// Returns os.ErrNotExist-wrapped errors when nothing was found so callers
// can fall back to [FromEnv].
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("no config file found (searched: %v): %w", DefaultSearchPaths(), os.ErrNotExist)
}

// Config holds all econet-bridge configuration.
type Config struct {
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Econet    EconetConfig    `yaml:"econet"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	LogLevel  string          `yaml:"log_level" envconfig:"LOG_LEVEL"`
	LogFormat string          `yaml:"log_format" envconfig:"LOG_FORMAT"`
}

// MQTTConfig defines the broker connection and topic layout.
type MQTTConfig struct {
	// Broker is the full broker URL (mqtt://, mqtts:// or ssl://).
	// When configuring via environment variables, Host and Port are
	// combined into a Broker URL instead.
	Broker      string `yaml:"broker" envconfig:"MQTT_BROKER"`
	Host        string `yaml:"-" envconfig:"MQTT_HOST" default:"localhost"`
	Port        int    `yaml:"-" envconfig:"MQTT_PORT" default:"1883"`
	Username    string `yaml:"username" envconfig:"MQTT_USERNAME"`
	Password    string `yaml:"password" envconfig:"MQTT_PASSWORD"`
	TopicPrefix string `yaml:"topic_prefix" envconfig:"MQTT_TOPIC_PREFIX" default:"econet/"`
}

// EconetConfig defines the heat-pump controller endpoint and poll cadence.
type EconetConfig struct {
	// Endpoint is the host[:port] of the ecoNET controller. Required.
	Endpoint          string `yaml:"endpoint" envconfig:"ECONET_ENDPOINT"`
	PollIntervalSec   int    `yaml:"poll_interval_sec" envconfig:"POLLING_INTERVAL" default:"10"`
	FetchTimeoutSec   int    `yaml:"fetch_timeout_sec" envconfig:"FETCH_TIMEOUT" default:"10"`
	ExpireAfterFactor int    `yaml:"expire_after_factor" envconfig:"EXPIRE_AFTER_FACTOR" default:"4"`
}

// DiscoveryConfig defines Home Assistant MQTT discovery behavior.
type DiscoveryConfig struct {
	Enabled    bool   `yaml:"enabled" envconfig:"HA_DISCOVERY_MESSAGES" default:"true"`
	DeviceName string `yaml:"device_name" envconfig:"HA_DISCOVERY_NAME" default:"Grant R290"`
}

// Load reads configuration from a YAML file. Environment variable
// references in the file (${VAR}) are expanded before parsing, so secrets
// can stay out of the file itself.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.normalize()
}

// FromEnv builds a Config purely from environment variables using the
// historical variable names. Used when no config file is present.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return cfg, cfg.normalize()
}

// Default returns a configuration with all defaults applied and no
// endpoint set. Callers still need to run validation via normalize
// (Load and FromEnv do this).
func Default() *Config {
	return &Config{
		MQTT: MQTTConfig{
			Host:        "localhost",
			Port:        1883,
			TopicPrefix: "econet/",
		},
		Econet: EconetConfig{
			PollIntervalSec:   10,
			FetchTimeoutSec:   10,
			ExpireAfterFactor: 4,
		},
		Discovery: DiscoveryConfig{
			Enabled:    true,
			DeviceName: "Grant R290",
		},
	}
}

// normalize validates required fields and applies canonical forms:
// the econet endpoint must be set, the topic prefix always ends with
// "/", and the broker URL is derived from host/port when not given
// explicitly.
func (c *Config) normalize() error {
	if c.Econet.Endpoint == "" {
		return fmt.Errorf("econet endpoint is required (set econet.endpoint or ECONET_ENDPOINT)")
	}

	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = "econet/"
	}
	if !strings.HasSuffix(c.MQTT.TopicPrefix, "/") {
		c.MQTT.TopicPrefix += "/"
	}

	if c.MQTT.Broker == "" {
		host := c.MQTT.Host
		if host == "" {
			host = "localhost"
		}
		port := c.MQTT.Port
		if port == 0 {
			port = 1883
		}
		c.MQTT.Broker = fmt.Sprintf("mqtt://%s:%d", host, port)
	}

	if c.Econet.PollIntervalSec <= 0 {
		c.Econet.PollIntervalSec = 10
	}
	if c.Econet.FetchTimeoutSec <= 0 {
		c.Econet.FetchTimeoutSec = 10
	}
	if c.Econet.ExpireAfterFactor <= 0 {
		c.Econet.ExpireAfterFactor = 4
	}

	return nil
}

// AvailabilityTopic returns the retained presence topic, also used as
// the broker last-will target.
func (c *Config) AvailabilityTopic() string {
	return c.MQTT.TopicPrefix + "availability"
}

// StateTopic returns the telemetry topic for a metric name.
func (c *Config) StateTopic(metric string) string {
	return c.MQTT.TopicPrefix + metric
}
