package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClient_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(clientDirEnvKey, dir)

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.True(t, cfg.DemoMode)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout())
	assert.Equal(t, filepath.Join(dir, CredentialsFile), cfg.CredentialsPath())
}

func TestLoadClient_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(clientDirEnvKey, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ClientConfigFile), []byte(
		"api_url = \"http://api.internal:9000\"\ndemo_mode = false\ntimeout = \"3\"\n"), 0o600))

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://api.internal:9000", cfg.APIURL)
	assert.False(t, cfg.DemoMode)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout())

	t.Setenv(apiURLEnvKey, "http://override:1")
	t.Setenv(demoModeEnvKey, "yes")
	cfg, err = LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://override:1", cfg.APIURL)
	assert.True(t, cfg.DemoMode, "only an explicit false disables demo mode")

	t.Setenv(demoModeEnvKey, "FALSE")
	cfg, err = LoadClient()
	require.NoError(t, err)
	assert.False(t, cfg.DemoMode)
}

func TestLoadClient_BadFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(clientDirEnvKey, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ClientConfigFile), []byte("api_url = ["), 0o600))

	_, err := LoadClient()
	assert.Error(t, err)
}

func TestSetClientKey(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(clientDirEnvKey, dir)
	path := filepath.Join(dir, ClientConfigFile)

	require.NoError(t, SetClientKey(path, "demo_mode", "false"))
	require.NoError(t, SetClientKey(path, "api_url", "http://localhost:8080"))
	assert.Error(t, SetClientKey(path, "demo_mode", "maybe"))
	assert.Error(t, SetClientKey(path, "timeout", "soon"))
	assert.Error(t, SetClientKey(path, "color", "blue"))

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.False(t, cfg.DemoMode)
	v, err := cfg.Get("api_url")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", v)

	_, err = cfg.Get("color")
	assert.Error(t, err)
}
