package config

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// DefaultTTL applies when the config file does not set default_ttl.
const DefaultTTL = 3600

// ProviderConfig holds the DNS provider type, app-level options, and
// provider-specific connection settings.
type ProviderConfig struct {
	Provider   string            `yaml:"provider"`
	DefaultTTL int               `yaml:"default_ttl"`
	Settings   map[string]string `yaml:"settings"`
	History    HistoryConfig     `yaml:"history"`
}

// HistoryConfig locates the optional run-history database.
type HistoryConfig struct {
	DBURL string `yaml:"db_url"`
}

// LoadProviderConfig reads the DNS provider configuration from the path
// specified by the PDNS_PROVIDER_PATH environment variable, defaulting to
// "configs/pdns-provider.yaml".
func LoadProviderConfig() (*ProviderConfig, error) {
	path := os.Getenv("PDNS_PROVIDER_PATH")
	if path == "" {
		path = "configs/pdns-provider.yaml"
	}
	return LoadProviderConfigFromPath(path)
}

// LoadProviderConfigFromPath reads the DNS provider configuration from the
// given file path.
func LoadProviderConfigFromPath(path string) (*ProviderConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading provider config file: %w", err)
	}

	var cfg ProviderConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing provider config file: %w", err)
	}

	if cfg.Provider == "" {
		return nil, fmt.Errorf("provider config: missing required field 'provider'")
	}
	if cfg.DefaultTTL < 0 {
		return nil, fmt.Errorf("provider config: default_ttl must be positive, got %d", cfg.DefaultTTL)
	}
	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = DefaultTTL
	}

	// Expand ${ENV_VAR} references in setting values.
	for k, v := range cfg.Settings {
		cfg.Settings[k] = os.ExpandEnv(v)
	}
	cfg.History.DBURL = os.ExpandEnv(cfg.History.DBURL)

	return &cfg, nil
}
