package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWritesDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, resolved, err := Load(nil, path)
	require.NoError(t, err)
	assert.Equal(t, path, resolved)
	assert.Equal(t, Default(), cfg)
	assert.FileExists(t, path)
	require.NoError(t, cfg.Validate())
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "addr: \":9000\"\nhistory_limit: 50\nread_header_timeout: 2s\nallowed_origins:\n  - example.com\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	t.Setenv("ROOMCHAT_ADDR", ":9100")
	t.Setenv("ROOMCHAT_DEFAULT_ROOM", "lobby")

	cfg, _, err := Load(nil, path)
	require.NoError(t, err)

	assert.Equal(t, ":9100", cfg.Addr, "env beats file")
	assert.Equal(t, "lobby", cfg.DefaultRoom)
	assert.Equal(t, 50, cfg.HistoryLimit)
	assert.Equal(t, 2*time.Second, cfg.ReadHeaderTimeout)
	assert.Equal(t, []string{"example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, Default().MaxPageSize, cfg.MaxPageSize)

	cfg.UpdateFrom(Config{Addr: ":9200", LogLevel: "debug"})
	assert.Equal(t, ":9200", cfg.Addr, "overrides beat env")
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "lobby", cfg.DefaultRoom)
}

func TestLoadDefaultPathFromEnv(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cfg")
	t.Setenv(envConfigDefaultPath, dir)

	_, resolved, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, defaultConfigName), resolved)
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unterminated"), 0o600))

	_, _, err := Load(nil, path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Addr = ""
	cfg.HistoryLimit = 0
	cfg.DefaultPageSize = cfg.MaxPageSize + 1
	cfg.LogFormat = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"addr", "history_limit", "default_page_size", "log_format"} {
		assert.Contains(t, err.Error(), want)
	}
}
