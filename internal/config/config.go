// Package config loads the bridge configuration from YAML and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	BackendATSPI = "atspi"
	BackendTest  = "test"
	BackendNone  = "none"

	DefaultPortalMinVersion uint32 = 7

	envBackend    = "GTK_A11Y"
	envBusAddress = "AT_SPI_BUS_ADDRESS"
	envLogLevel   = "ATSPI_BRIDGE_LOG_LEVEL"
)

type Config struct {
	Backend          string `yaml:"backend"`
	BusAddress       string `yaml:"bus_address,omitempty"`
	AppID            string `yaml:"app_id,omitempty"`
	ApplicationName  string `yaml:"application_name,omitempty"`
	ProgramName      string `yaml:"program_name,omitempty"`
	LogLevel         string `yaml:"log_level"`
	PortalMinVersion uint32 `yaml:"portal_min_version"`
	// Sandboxed overrides sandbox detection when set.
	Sandboxed *bool `yaml:"sandboxed,omitempty"`
}

func Default() Config {
	return Config{
		Backend:          BackendATSPI,
		LogLevel:         "info",
		PortalMinVersion: DefaultPortalMinVersion,
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		dir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate config dir: %w", err)
		}
	}
	return filepath.Join(dir, "atspi-bridge", "config.yaml"), nil
}

// Load reads path on top of the defaults and applies environment
// overrides. An empty path means the default location, which may be
// missing.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.ApplyEnv(os.Getenv)
	return cfg, cfg.Validate()
}

func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(envBackend)); v != "" {
		c.Backend = strings.ToLower(v)
	}
	if v := getenv(envBusAddress); v != "" {
		c.BusAddress = v
	}
	if v := getenv(envLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) Validate() error {
	switch c.Backend {
	case BackendATSPI, BackendTest, BackendNone:
	default:
		return fmt.Errorf("unknown accessibility backend %q", c.Backend)
	}
	if c.PortalMinVersion == 0 {
		c.PortalMinVersion = DefaultPortalMinVersion
	}
	return nil
}
