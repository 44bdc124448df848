package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvOrgURL, "https://dev.azure.com/acme")
	t.Setenv(EnvPAT, "pat-token")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://dev.azure.com/acme", cfg.OrganizationURL)
	assert.Equal(t, "pat-token", cfg.PersonalAccessToken)
	assert.Equal(t, DefaultWorkItemType, cfg.WorkItemType)
	assert.Equal(t, DefaultCatalogTTL, cfg.CatalogTTL)
	assert.Equal(t, DefaultLookupConcurrency, cfg.LookupConcurrency)
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv(EnvOrgURL, "")
	t.Setenv(EnvPAT, "")

	_, err := Load()
	require.ErrorIs(t, err, ErrMissingOrgURL)

	t.Setenv(EnvOrgURL, "https://dev.azure.com/acme")
	_, err = Load()
	require.ErrorIs(t, err, ErrMissingPAT)
}

func TestLoad_YAMLFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"organizationUrl: https://dev.azure.com/from-file\n"+
			"defaultProject: WebApp\n"+
			"workItemType: Test Case\n"+
			"catalogTtl: 5m\n"+
			"lookupConcurrency: 4\n"+
			"httpTimeout: 45s\n"+
			"maxRetries: 5\n",
	), 0o600))
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "WebApp", cfg.DefaultProject)
	assert.Equal(t, 5*time.Minute, cfg.CatalogTTL)
	assert.Equal(t, 4, cfg.LookupConcurrency)
	assert.Equal(t, 45*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 5, cfg.MaxRetries)

	// Environment wins over the file for shared keys.
	assert.Equal(t, "https://dev.azure.com/acme", cfg.OrganizationURL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvProject, "Mobile")
	t.Setenv(EnvWorkItmType, "Test Case")
	t.Setenv(EnvCatalogTTL, "90s")
	t.Setenv(EnvLookupConc, "8")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Mobile", cfg.DefaultProject)
	assert.Equal(t, 90*time.Second, cfg.CatalogTTL)
	assert.Equal(t, 8, cfg.LookupConcurrency)
}

// Malformed optional overrides are ignored rather than failing startup.
func TestLoad_BadOptionalValuesIgnored(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv(EnvCatalogTTL, "soon")
	t.Setenv(EnvLookupConc, "-3")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalogTTL, cfg.CatalogTTL)
	assert.Equal(t, DefaultLookupConcurrency, cfg.LookupConcurrency)
}

func TestLoad_BadConfigFile(t *testing.T) {
	setRequiredEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("organizationUrl: [not: closed"), 0o600))
	t.Setenv(EnvConfigPath, path)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config file")
}
