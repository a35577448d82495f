// Package config contains the definition of the application config structure
// and logic required to load and update it.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// Config represents the saved connection preset. The password is never part
// of it; that lives in the system keyring.
type Config struct {
	// ServerURL is the normalized server address, including scheme.
	ServerURL string `yaml:"server_url"`

	// Database selects the database to authenticate against. Empty means
	// resolve it from the URL or by discovery at sign-in time.
	Database string `yaml:"database,omitempty"`

	// Username is the account to sign in as.
	Username string `yaml:"username"`

	// DefaultLang overrides the locale sent with every remote call.
	DefaultLang string `yaml:"default_lang,omitempty"`

	// CACertificatePath points at an extra CA bundle for the HTTPS transport.
	CACertificatePath string `yaml:"ca_certificate_path,omitempty"`

	// AllowHTTP permits plain-HTTP servers, for development setups only.
	AllowHTTP bool `yaml:"allow_http,omitempty"`
}

// HasPreset reports whether a usable connection preset has been saved.
func (c *Config) HasPreset() bool {
	return c.ServerURL != "" && c.Username != ""
}

// defaultPathGenerator generates the default config path using xdg
var defaultPathGenerator = func() (string, error) {
	return xdg.ConfigFile("vendra/config.yaml")
}

// getConfigPath is the current path generator, can be replaced in tests
var getConfigPath = defaultPathGenerator

// LoadOrCreateConfig fetches the application configuration.
// If it does not already exist - it will create a new config file with default values.
func LoadOrCreateConfig() (*Config, error) {
	config := &Config{}
	configPath, err := getConfigPath()
	if err != nil {
		return nil, fmt.Errorf("unable to fetch config path: %w", err)
	}

	configBytes, err := os.ReadFile(configPath) // #nosec G304 - path comes from xdg
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
		if err = config.save(); err != nil {
			return nil, err
		}
		return config, nil
	}

	if err = yaml.Unmarshal(configBytes, config); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", configPath, err)
	}
	return config, nil
}

// save serializes the config struct and writes it to disk.
func (c *Config) save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return fmt.Errorf("unable to fetch config path: %w", err)
	}

	configBytes, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error serializing config file: %w", err)
	}

	if err = os.WriteFile(configPath, configBytes, 0600); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

// UpdateConfig loads the config, applies changes, and saves it back.
func UpdateConfig(updateFn func(*Config)) error {
	config, err := LoadOrCreateConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	updateFn(config)

	if err = config.save(); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// ClearPreset drops the saved connection preset, keeping transport settings.
func ClearPreset() error {
	return UpdateConfig(func(c *Config) {
		c.ServerURL = ""
		c.Database = ""
		c.Username = ""
	})
}
