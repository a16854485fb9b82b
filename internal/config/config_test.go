package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestFindConfig_Explicit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	os.WriteFile(path, []byte("econet:\n  endpoint: 10.0.0.5\n"), 0600)

	got, err := FindConfig(path)
	if err != nil {
		t.Fatalf("FindConfig(%q) error: %v", path, err)
	}
	if got != path {
		t.Errorf("FindConfig(%q) = %q, want %q", path, got, path)
	}
}

func TestFindConfig_ExplicitMissing(t *testing.T) {
	_, err := FindConfig("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("FindConfig with missing explicit path should error")
	}
}

func TestFindConfig_SearchPath(t *testing.T) {
	// When no config exists anywhere, should error.
	// (Save and restore CWD to avoid finding a developer's config.)
	dir := t.TempDir()
	orig, _ := os.Getwd()
	os.Chdir(dir)
	defer os.Chdir(orig)

	_, err := FindConfig("")
	if err == nil {
		t.Fatal("FindConfig(\"\") with no config files should error")
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("econet:\n  endpoint: 10.0.0.5\nmqtt:\n  password: ${ECONET_TEST_PW}\n"), 0600)
	os.Setenv("ECONET_TEST_PW", "secret123")
	defer os.Unsetenv("ECONET_TEST_PW")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.MQTT.Password != "secret123" {
		t.Errorf("password = %q, want %q", cfg.MQTT.Password, "secret123")
	}
}

func TestLoad_MissingEndpointFatal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	os.WriteFile(path, []byte("mqtt:\n  broker: mqtt://localhost:1883\n"), 0600)

	if _, err := Load(path); err == nil {
		t.Fatal("Load without econet endpoint should error")
	}
}

func TestNormalize_TopicPrefixSlash(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		want   string
	}{
		{"already slashed", "econet/", "econet/"},
		{"missing slash", "heatpump", "heatpump/"},
		{"empty defaults", "", "econet/"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Econet.Endpoint = "10.0.0.5"
			cfg.MQTT.TopicPrefix = tt.prefix
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize error: %v", err)
			}
			if cfg.MQTT.TopicPrefix != tt.want {
				t.Errorf("prefix = %q, want %q", cfg.MQTT.TopicPrefix, tt.want)
			}
		})
	}
}

func TestNormalize_BrokerFromHostPort(t *testing.T) {
	cfg := Default()
	cfg.Econet.Endpoint = "10.0.0.5"
	cfg.MQTT.Host = "broker.local"
	cfg.MQTT.Port = 8883
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize error: %v", err)
	}
	if cfg.MQTT.Broker != "mqtt://broker.local:8883" {
		t.Errorf("broker = %q, want %q", cfg.MQTT.Broker, "mqtt://broker.local:8883")
	}
}

func TestFromEnv_HistoricalNames(t *testing.T) {
	t.Setenv("ECONET_ENDPOINT", "192.168.1.40")
	t.Setenv("MQTT_HOST", "broker.lan")
	t.Setenv("MQTT_PORT", "1884")
	t.Setenv("MQTT_TOPIC_PREFIX", "heatpump")
	t.Setenv("POLLING_INTERVAL", "30")
	t.Setenv("HA_DISCOVERY_MESSAGES", "false")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if cfg.Econet.Endpoint != "192.168.1.40" {
		t.Errorf("endpoint = %q", cfg.Econet.Endpoint)
	}
	if cfg.MQTT.Broker != "mqtt://broker.lan:1884" {
		t.Errorf("broker = %q, want mqtt://broker.lan:1884", cfg.MQTT.Broker)
	}
	if cfg.MQTT.TopicPrefix != "heatpump/" {
		t.Errorf("prefix = %q, want heatpump/", cfg.MQTT.TopicPrefix)
	}
	if cfg.Econet.PollIntervalSec != 30 {
		t.Errorf("interval = %d, want 30", cfg.Econet.PollIntervalSec)
	}
	if cfg.Discovery.Enabled {
		t.Error("discovery should be disabled")
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("ECONET_ENDPOINT", "192.168.1.40")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv error: %v", err)
	}
	if cfg.MQTT.Broker != "mqtt://localhost:1883" {
		t.Errorf("broker = %q, want mqtt://localhost:1883", cfg.MQTT.Broker)
	}
	if cfg.Econet.PollIntervalSec != 10 {
		t.Errorf("interval = %d, want 10", cfg.Econet.PollIntervalSec)
	}
	if cfg.Econet.ExpireAfterFactor != 4 {
		t.Errorf("expire factor = %d, want 4", cfg.Econet.ExpireAfterFactor)
	}
	if !cfg.Discovery.Enabled {
		t.Error("discovery should default to enabled")
	}
	if cfg.Discovery.DeviceName != "Grant R290" {
		t.Errorf("device name = %q", cfg.Discovery.DeviceName)
	}
}

func TestFromEnv_MissingEndpoint(t *testing.T) {
	os.Unsetenv("ECONET_ENDPOINT")
	if _, err := FromEnv(); err == nil {
		t.Fatal("FromEnv without ECONET_ENDPOINT should error")
	}
}

func TestAvailabilityTopic(t *testing.T) {
	cfg := Default()
	cfg.Econet.Endpoint = "10.0.0.5"
	cfg.normalize()
	if got := cfg.AvailabilityTopic(); got != "econet/availability" {
		t.Errorf("AvailabilityTopic() = %q, want %q", got, "econet/availability")
	}
	if got := cfg.StateTopic("dhw_temp"); got != "econet/dhw_temp" {
		t.Errorf("StateTopic() = %q, want %q", got, "econet/dhw_temp")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"info", slog.LevelInfo, false},
		{"TRACE", LevelTrace, false},
		{"debug", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLogLevel(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
