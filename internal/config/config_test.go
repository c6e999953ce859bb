package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
client:
  base_url: https://api.example.com/v1
  timeout: 30s
  user_agent: httpmapper/1.0
  auth_type: bearer
  auth_config:
    token: abc
  headers:
    x-tenant: acme
logging:
  level: debug
  format: json
metrics:
  enabled: true
catalog:
  spec_file: openapi.yaml
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", cfg.Client.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, "httpmapper/1.0", cfg.Client.UserAgent)
	assert.Equal(t, AuthTypeBearer, cfg.Client.AuthType)
	assert.Equal(t, "abc", cfg.Client.AuthConfig["token"])
	assert.Equal(t, "acme", cfg.Client.Headers["x-tenant"])
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "httpmapper", cfg.Metrics.Namespace)
	assert.Equal(t, "openapi.yaml", cfg.Catalog.SpecFile)
}

func TestLoadFile_Defaults(t *testing.T) {
	cfg, err := LoadFile(writeConfig(t, "client: {}\n"))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, cfg.Client.Timeout)
	assert.Equal(t, AuthTypeNone, cfg.Client.AuthType)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.True(t, cfg.Logging.DisableStacktrace)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFile(writeConfig(t, "client:\n  base_url: /relative\n"))
	assert.ErrorContains(t, err, "absolute URL")
}

func TestLoad_FlagsAndEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HTTPMAPPER_CLIENT_USER_AGENT", "from-env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--base-url", "http://localhost:8080",
		"--spec-file", "api.json",
		"--selection-file", "select.yaml",
		"--log-level", "error",
	}))

	cfg, err := Load(fs)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.Client.BaseURL)
	assert.Equal(t, "api.json", cfg.Catalog.SpecFile)
	assert.Equal(t, "select.yaml", cfg.Catalog.SelectionFile)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Equal(t, "from-env", cfg.Client.UserAgent)
}

func TestLoad_NoConfigFile(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Empty(t, cfg.Client.BaseURL)
	assert.Equal(t, time.Hour, cfg.Client.Timeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "empty config", config: Config{}},
		{name: "absolute base url", config: Config{Client: ClientConfig{BaseURL: "https://x.test"}}},
		{name: "relative base url", config: Config{Client: ClientConfig{BaseURL: "x.test/api"}}, wantErr: "absolute URL"},
		{name: "malformed base url", config: Config{Client: ClientConfig{BaseURL: "http://a b"}}, wantErr: "invalid"},
		{name: "known auth", config: Config{Client: ClientConfig{AuthType: AuthTypeAPIKey}}},
		{name: "unknown auth", config: Config{Client: ClientConfig{AuthType: "digest"}}, wantErr: "unsupported auth type"},
		{name: "negative timeout", config: Config{Client: ClientConfig{Timeout: -time.Second}}, wantErr: "timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestGetVersionInfo(t *testing.T) {
	assert.Contains(t, GetVersionInfo(), "httpmapper version dev")
}

// chdir changes the working directory for the duration of the test,
// mirroring testing.T.Chdir (Go 1.24+) on older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
