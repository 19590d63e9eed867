package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RBAC_CONFIG_PATH", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "admin", cfg.SuperRoleName)
	assert.True(t, cfg.SeedOnStartup)
	assert.Equal(t, 1000, cfg.APIListLimitMax)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "default", cfg.Source("super_role_name"))
	require.NoError(t, cfg.Validate())
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`
super_role_name: Root
api_list_limit_max: 50
log_level: debug
`), 0o600))
	t.Setenv("RBAC_CONFIG_PATH", dir)
	t.Setenv("RBAC_API_LIST_LIMIT_MAX", "25")
	t.Setenv("RBAC_SEED_ON_STARTUP", "false")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "Root", cfg.SuperRoleName)
	assert.Equal(t, "file", cfg.Source("super_role_name"))
	assert.Equal(t, "debug", cfg.LogLevel)

	// Environment wins over the file.
	assert.Equal(t, 25, cfg.APIListLimitMax)
	assert.Equal(t, "environment", cfg.Source("api_list_limit_max"))
	assert.False(t, cfg.SeedOnStartup)
}

func TestSeedOnStartupFalseFromFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`
seed_on_startup: false
`), 0o600))
	t.Setenv("RBAC_CONFIG_PATH", dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.SeedOnStartup)
	assert.Equal(t, "file", cfg.Source("seed_on_startup"))

	// A file without the attribute keeps the default.
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(`
log_level: warn
`), 0o600))
	cfg, err = Load()
	require.NoError(t, err)
	assert.True(t, cfg.SeedOnStartup)
	assert.Equal(t, "default", cfg.Source("seed_on_startup"))
}

func TestValidate(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.1"}
	require.NoError(t, cfg.Validate())

	cfg.TrustedProxies = []string{"not-a-cidr"}
	assert.Error(t, cfg.Validate())

	cfg = newDefault()
	cfg.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = newDefault()
	cfg.SuperRoleName = ""
	assert.Error(t, cfg.Validate())
}

func TestIsTrustedProxy(t *testing.T) {
	cfg := newDefault()
	cfg.TrustedProxies = []string{"10.0.0.0/8", "192.168.1.1"}

	assert.True(t, cfg.IsTrustedProxy("10.1.2.3"))
	assert.True(t, cfg.IsTrustedProxy("192.168.1.1"))
	assert.False(t, cfg.IsTrustedProxy("172.16.0.1"))
	assert.False(t, cfg.IsTrustedProxy("not-an-ip"))
}

func TestAttributesMaskTheSigningKey(t *testing.T) {
	cfg := newDefault()
	cfg.TokenSigningKey = "hunter2"

	for _, attr := range cfg.Attributes() {
		if attr.Name == "token_signing_key" {
			assert.Equal(t, "********", attr.Value)
			return
		}
	}
	t.Fatal("token_signing_key attribute missing")
}
