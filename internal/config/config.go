// Package config loads server configuration from an optional YAML file
// with environment variable overrides. A .env file in the working
// directory is honored when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvConfigPath  = "AZDOMCP_CONFIG"
	EnvOrgURL      = "AZDO_ORG_URL"
	EnvPAT         = "AZDO_PAT"
	EnvProject     = "AZDOMCP_PROJECT"
	EnvCatalogTTL  = "AZDOMCP_CATALOG_TTL"
	EnvLookupConc  = "AZDOMCP_LOOKUP_CONCURRENCY"
	EnvWorkItmType = "AZDOMCP_WORK_ITEM_TYPE"
	EnvHTTPTimeout = "AZDOMCP_HTTP_TIMEOUT"
	EnvMaxRetries  = "AZDOMCP_MAX_RETRIES"
)

// Defaults.
const (
	DefaultWorkItemType      = "Test Case"
	DefaultCatalogTTL        = 15 * time.Minute
	DefaultLookupConcurrency = 1
)

var (
	ErrMissingOrgURL = errors.New("organization URL is required (set AZDO_ORG_URL)")
	ErrMissingPAT    = errors.New("personal access token is required (set AZDO_PAT)")
)

// Config holds everything the server needs to start. The personal access
// token comes from the environment only and is never written to disk.
type Config struct {
	OrganizationURL     string
	PersonalAccessToken string
	DefaultProject      string
	WorkItemType        string
	CatalogTTL          time.Duration
	LookupConcurrency   int

	// HTTPTimeout and MaxRetries tune the REST client; zero values keep
	// the client's defaults.
	HTTPTimeout time.Duration
	MaxRetries  int
}

// fileConfig is the YAML file shape. Durations are strings in the file
// ("15m", "90s") and parsed on load.
type fileConfig struct {
	OrganizationURL   string `yaml:"organizationUrl"`
	DefaultProject    string `yaml:"defaultProject"`
	WorkItemType      string `yaml:"workItemType"`
	CatalogTTL        string `yaml:"catalogTtl"`
	LookupConcurrency int    `yaml:"lookupConcurrency"`
	HTTPTimeout       string `yaml:"httpTimeout"`
	MaxRetries        int    `yaml:"maxRetries"`
}

// Load builds the configuration: defaults, then the YAML file named by
// AZDOMCP_CONFIG (if any), then environment overrides.
func Load() (*Config, error) {
	// Ignore a missing .env; it is a local development convenience.
	_ = godotenv.Load()

	cfg := &Config{
		WorkItemType:      DefaultWorkItemType,
		CatalogTTL:        DefaultCatalogTTL,
		LookupConcurrency: DefaultLookupConcurrency,
	}

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if cfg.OrganizationURL == "" {
		return nil, ErrMissingOrgURL
	}
	if cfg.PersonalAccessToken == "" {
		return nil, ErrMissingPAT
	}
	if cfg.LookupConcurrency < 1 {
		cfg.LookupConcurrency = DefaultLookupConcurrency
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.OrganizationURL != "" {
		c.OrganizationURL = fc.OrganizationURL
	}
	if fc.DefaultProject != "" {
		c.DefaultProject = fc.DefaultProject
	}
	if fc.WorkItemType != "" {
		c.WorkItemType = fc.WorkItemType
	}
	if fc.CatalogTTL != "" {
		ttl, err := time.ParseDuration(fc.CatalogTTL)
		if err != nil {
			return fmt.Errorf("parse config file %s: catalogTtl: %w", path, err)
		}
		c.CatalogTTL = ttl
	}
	if fc.LookupConcurrency > 0 {
		c.LookupConcurrency = fc.LookupConcurrency
	}
	if fc.HTTPTimeout != "" {
		d, err := time.ParseDuration(fc.HTTPTimeout)
		if err != nil {
			return fmt.Errorf("parse config file %s: httpTimeout: %w", path, err)
		}
		c.HTTPTimeout = d
	}
	if fc.MaxRetries > 0 {
		c.MaxRetries = fc.MaxRetries
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvOrgURL); v != "" {
		c.OrganizationURL = v
	}
	if v := os.Getenv(EnvPAT); v != "" {
		c.PersonalAccessToken = v
	}
	if v := os.Getenv(EnvProject); v != "" {
		c.DefaultProject = v
	}
	if v := os.Getenv(EnvWorkItmType); v != "" {
		c.WorkItemType = v
	}
	if v := os.Getenv(EnvCatalogTTL); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil && ttl > 0 {
			c.CatalogTTL = ttl
		}
	}
	if v := os.Getenv(EnvLookupConc); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.LookupConcurrency = n
		}
	}
	if v := os.Getenv(EnvHTTPTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.HTTPTimeout = d
		}
	}
	if v := os.Getenv(EnvMaxRetries); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxRetries = n
		}
	}
}
