// Package config provides configuration loading, defaults and validation for
// the apcupsd-influx exporter.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// UPSConfig holds connection details for the apcupsd network information server.
type UPSConfig struct {
	Host string `yaml:"host" env:"APCUPSD_HOST" validate:"required"`
	Port int    `yaml:"port" env:"APCUPSD_PORT" validate:"min=1,max=65535"`
	// PollRate is the cycle interval in seconds.
	PollRate int `yaml:"poll_rate" env:"APCUPSD_POLL_RATE" validate:"min=1"`
	// NominalPower is the fallback wattage used when the UPS does not report NOMPOWER.
	NominalPower int `yaml:"nominal_power" env:"APCUPSD_NOMINAL_POWER" validate:"min=0"`
	// Timeout is the network timeout of a single status poll in seconds.
	Timeout int `yaml:"timeout" env:"APCUPSD_TIMEOUT" validate:"min=1"`
}

// InfluxConfig holds connection details for the InfluxDB v2 API.
type InfluxConfig struct {
	Host        string `yaml:"host" env:"INFLUXDB_HOST" validate:"required"`
	Port        int    `yaml:"port" env:"INFLUXDB_PORT" validate:"min=1,max=65535"`
	Token       string `yaml:"token" env:"INFLUXDB_TOKEN" validate:"required"`
	Bucket      string `yaml:"bucket" env:"INFLUXDB_BUCKET" validate:"required"`
	Measurement string `yaml:"measurement" env:"INFLUXDB_MEASUREMENT" validate:"required"`
	Org         string `yaml:"org" env:"INFLUXDB_ORG" validate:"required"`
}

// AuditConfig controls the cycle journal. An empty LogPath disables it.
type AuditConfig struct {
	LogPath string `yaml:"log_path" env:"APCUPSD_AUDIT_LOG"`
}

// Config is the top-level configuration structure. It is built once at
// startup and passed by value to the components that need it.
type Config struct {
	UPS    UPSConfig    `yaml:"apcupsd"`
	Influx InfluxConfig `yaml:"influxdb"`
	Audit  AuditConfig  `yaml:"audit"`
	Debug  bool         `yaml:"debug" env:"DEBUG"`
}

// LoadConfig reads a YAML configuration file from path on top of
// DefaultConfig. Keys absent from the file keep their default values.
// On error, nil is returned for the config pointer.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// DefaultConfig returns a new Config populated with the documented defaults.
// Required values (hosts and token) are left empty.
func DefaultConfig() *Config {
	return &Config{
		UPS: UPSConfig{
			Port:     3551,
			PollRate: 5,
			Timeout:  30,
		},
		Influx: InfluxConfig{
			Port:        8086,
			Bucket:      "apcupsd",
			Measurement: "ups_telemetry",
			Org:         "homelab",
		},
	}
}

// ApplyEnvOverrides updates cfg in place with values from environment
// variables. Empty variables are ignored. Numeric variables that fail to
// parse are reported together in the returned error; the remaining
// overrides are still applied.
func ApplyEnvOverrides(cfg *Config) error {
	var errs []error

	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) {
		v := strings.TrimSpace(os.Getenv(name))
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid integer %q", name, v))
			return
		}
		*dst = n
	}

	setString("APCUPSD_HOST", &cfg.UPS.Host)
	setInt("APCUPSD_PORT", &cfg.UPS.Port)
	setInt("APCUPSD_POLL_RATE", &cfg.UPS.PollRate)
	setInt("APCUPSD_NOMINAL_POWER", &cfg.UPS.NominalPower)
	setInt("APCUPSD_TIMEOUT", &cfg.UPS.Timeout)

	setString("INFLUXDB_HOST", &cfg.Influx.Host)
	setInt("INFLUXDB_PORT", &cfg.Influx.Port)
	setString("INFLUXDB_TOKEN", &cfg.Influx.Token)
	setString("INFLUXDB_BUCKET", &cfg.Influx.Bucket)
	setString("INFLUXDB_MEASUREMENT", &cfg.Influx.Measurement)
	setString("INFLUXDB_ORG", &cfg.Influx.Org)

	setString("APCUPSD_AUDIT_LOG", &cfg.Audit.LogPath)

	if v := os.Getenv("DEBUG"); v != "" {
		cfg.Debug = strings.EqualFold(strings.TrimSpace(v), "true")
	}

	return errors.Join(errs...)
}

// Address returns the host:port of the apcupsd daemon.
func (u UPSConfig) Address() string {
	return fmt.Sprintf("%s:%d", u.Host, u.Port)
}

// Interval returns the poll rate as a duration.
func (u UPSConfig) Interval() time.Duration {
	return time.Duration(u.PollRate) * time.Second
}

// TimeoutDuration returns the per-poll network timeout as a duration.
func (u UPSConfig) TimeoutDuration() time.Duration {
	return time.Duration(u.Timeout) * time.Second
}

// URL returns the base URL of the InfluxDB HTTP API.
func (i InfluxConfig) URL() string {
	return fmt.Sprintf("http://%s:%d", i.Host, i.Port)
}
