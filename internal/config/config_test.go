package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)
	for _, key := range []string{"DISTROTUI_API_URL", "DISTROTUI_API_TOKEN", "DISTROTUI_API_TIMEOUT", "DISTROTUI_UI_PAGE_SIZE", "DISTROTUI_LOG_LEVEL"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	return dir
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := isolate(t)

	cfg, err := NewConfigService(filepath.Join(dir, "none.toml")).Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8090/api", cfg.API.URL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, 25, cfg.UI.PageSize)
	assert.Equal(t, 200*time.Millisecond, cfg.UI.Debounce)
	assert.Equal(t, "/", cfg.UI.StartLocation)
	assert.Equal(t, filepath.Join(dir, "distrotui", "distrotui.log"), cfg.Log.File)
}

func TestLoadFromPathRequiresFile(t *testing.T) {
	dir := isolate(t)
	_, err := NewConfigService("").LoadFromPath(filepath.Join(dir, "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "nested", "config.toml")
	svc := NewConfigService(path)

	cfg := DefaultConfig()
	cfg.API.URL = "https://distrobuild.example.org/api"
	cfg.API.Timeout = 5 * time.Second
	cfg.UI.PageSize = 50
	cfg.UI.StartLocation = "/packages"
	require.NoError(t, svc.Save(cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "5s")

	loaded, err := svc.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.API.URL, loaded.API.URL)
	assert.Equal(t, 5*time.Second, loaded.API.Timeout)
	assert.Equal(t, 50, loaded.UI.PageSize)
	assert.Equal(t, "/packages", loaded.UI.StartLocation)
}

func TestLoadNormalizesPageSize(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\npage_size = 500\n"), 0600))

	cfg, err := NewConfigService(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.UI.PageSize)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nurl = \"http://file/api\"\n"), 0600))
	t.Setenv("DISTROTUI_API_URL", "http://env/api")
	t.Setenv("DISTROTUI_API_TOKEN", "tok")

	cfg, err := NewConfigService(path).Load()
	require.NoError(t, err)
	assert.Equal(t, "http://env/api", cfg.API.URL)
	assert.Equal(t, "tok", cfg.API.Token)
}

func TestFlagOverridesEnvironment(t *testing.T) {
	dir := isolate(t)
	t.Setenv("DISTROTUI_API_URL", "http://env/api")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-url", "", "")
	require.NoError(t, flags.Parse([]string{"--api-url", "http://flag/api"}))

	svc := NewConfigService(filepath.Join(dir, "config.toml"))
	svc.BindFlag("api.url", flags.Lookup("api-url"))
	svc.BindFlag("api.timeout", nil)

	cfg, err := svc.Load()
	require.NoError(t, err)
	assert.Equal(t, "http://flag/api", cfg.API.URL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad url", mutate: func(c *Config) { c.API.URL = "ftp://x" }, wantErr: "scheme"},
		{name: "negative debounce", mutate: func(c *Config) { c.UI.Debounce = -time.Second }, wantErr: "ui.debounce"},
		{name: "relative start", mutate: func(c *Config) { c.UI.StartLocation = "packages" }, wantErr: "ui.start_location"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, wantErr: "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), "invalid configuration"))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := isolate(t)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, LoadDotEnv())

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DISTROTUI_API_TOKEN=from-dotenv\n"), 0600))
	require.NoError(t, LoadDotEnv())
	t.Cleanup(func() { os.Unsetenv("DISTROTUI_API_TOKEN") })

	cfg, err := NewConfigService(filepath.Join(dir, "config.toml")).Load()
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.API.Token)
}

func TestOpenLogWritesJSON(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "logs", "app.log")

	logger, closer, err := OpenLog(LogConfig{Level: "debug", File: path})
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"app":"distrotui"`)
}

func TestNewLoggerFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)
	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
