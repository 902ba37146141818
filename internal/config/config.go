// Package config loads client configuration.
//
// Values come from built-in defaults, then the YAML file (if present), then
// STAYS_* environment variables, each layer overriding the one before.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	// DirName is the per-user directory under $HOME holding config, data and logs.
	DirName = ".stays"

	defaultIdentityURL  = "https://identitytoolkit.googleapis.com/v1"
	defaultMapsURL      = "https://maps.googleapis.com/maps/api"
	defaultGeolocateURL = "http://ip-api.com/json"
	defaultLogLevel     = "info"
)

// Config is the client configuration.
type Config struct {
	// APIKey authenticates calls to the identity service.
	APIKey string `yaml:"api_key"`
	// DatabaseURL is the root of the places/bookings database.
	DatabaseURL string `yaml:"database_url"`
	IdentityURL string `yaml:"identity_url"`
	// UploadURL receives multipart place images.
	UploadURL    string `yaml:"upload_url"`
	MapsURL      string `yaml:"maps_url"`
	MapsAPIKey   string `yaml:"maps_api_key"`
	GeolocateURL string `yaml:"geolocate_url"`

	// DataDir holds the persisted session. Default: ~/.stays
	DataDir  string `yaml:"data_dir"`
	LogLevel string `yaml:"log_level"`
	// LogFile defaults to <DataDir>/stays.log.
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		IdentityURL:  defaultIdentityURL,
		MapsURL:      defaultMapsURL,
		GeolocateURL: defaultGeolocateURL,
		LogLevel:     defaultLogLevel,
	}
}

// DefaultPath returns the config file path: $STAYS_CONFIG, else ~/.stays/config.yaml.
func DefaultPath() (string, error) {
	if p := os.Getenv("STAYS_CONFIG"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, DirName, "config.yaml"), nil
}

// Load reads the configuration at path. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("config.Load: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("config.Load: parse %s: %w", path, err)
			}
		}
	}
	cfg.applyEnv()
	if err := cfg.fillPaths(); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	for name, field := range map[string]*string{
		"STAYS_API_KEY":       &c.APIKey,
		"STAYS_DATABASE_URL":  &c.DatabaseURL,
		"STAYS_IDENTITY_URL":  &c.IdentityURL,
		"STAYS_UPLOAD_URL":    &c.UploadURL,
		"STAYS_MAPS_URL":      &c.MapsURL,
		"STAYS_MAPS_API_KEY":  &c.MapsAPIKey,
		"STAYS_GEOLOCATE_URL": &c.GeolocateURL,
		"STAYS_DATA_DIR":      &c.DataDir,
		"STAYS_LOG_LEVEL":     &c.LogLevel,
		"STAYS_LOG_FILE":      &c.LogFile,
	} {
		if v := os.Getenv(name); v != "" {
			*field = v
		}
	}
}

func (c *Config) fillPaths() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("get home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, DirName)
	}
	if c.LogFile == "" {
		c.LogFile = filepath.Join(c.DataDir, "stays.log")
	}
	return nil
}

// Validate reports settings without which no request can succeed.
func (c *Config) Validate() error {
	var missing []string
	if c.APIKey == "" {
		missing = append(missing, "api_key (STAYS_API_KEY)")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "database_url (STAYS_DATABASE_URL)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// Masked returns a copy with API keys shortened for display.
func (c *Config) Masked() *Config {
	cp := *c
	cp.APIKey = mask(c.APIKey)
	cp.MapsAPIKey = mask(c.MapsAPIKey)
	return &cp
}

// YAML renders the configuration with API keys masked.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c.Masked())
	if err != nil {
		return nil, fmt.Errorf("config.YAML: %w", err)
	}
	return out, nil
}

func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}
