package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mmcdole/gitscout/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "provider: github\n")

	cfg, err := LoadConfig(NewViper(path))
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderGitHub, cfg.Provider)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Equal(t, 5, cfg.Search.PageSize)
	assert.False(t, cfg.Search.AutoFetch)
	assert.Equal(t, 10*time.Second, cfg.Search.RequestTimeout)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, "light", cfg.UI.Theme)
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfig(t, `
provider: linkedin
search:
  page_size: 8
  auto_fetch: true
  debounce: 150ms
ui:
  theme: dark
`)

	cfg, err := LoadConfig(NewViper(path))
	require.NoError(t, err)

	assert.Equal(t, domain.ProviderLinkedIn, cfg.Provider)
	assert.Equal(t, 8, cfg.Search.PageSize)
	assert.True(t, cfg.Search.AutoFetch)
	assert.Equal(t, 150*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, "dark", cfg.UI.Theme)
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, "search:\n  page_size: 8\n")
	t.Setenv("GITSCOUT_SEARCH_PAGE_SIZE", "12")
	t.Setenv("GITSCOUT_GITHUB_TOKEN", "ghp_test")

	cfg, err := LoadConfig(NewViper(path))
	require.NoError(t, err)

	assert.Equal(t, 12, cfg.Search.PageSize)
	assert.Equal(t, "ghp_test", cfg.GitHub.Token)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"provider":  "provider: myspace\n",
		"page size": "search:\n  page_size: 0\n",
		"theme":     "ui:\n  theme: neon\n",
		"log level": "logging:\n  level: chatty\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(NewViper(writeConfig(t, body)))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_LogLevelFromEnv(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: INFO\n")
	t.Setenv("GITSCOUT_LOGGING_LEVEL", "debug")

	cfg, err := LoadConfig(NewViper(path))
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Provider = domain.ProviderLinkedIn
	cfg.GitHub.Token = "ghp_saved"
	cfg.Search.PageSize = 8
	cfg.Search.Debounce = 250 * time.Millisecond
	cfg.UI.Theme = "dark"

	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(NewViper(path))
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderLinkedIn, loaded.Provider)
	assert.Equal(t, "ghp_saved", loaded.GitHub.Token)
	assert.Equal(t, 8, loaded.Search.PageSize)
	assert.Equal(t, 250*time.Millisecond, loaded.Search.Debounce)
	assert.Equal(t, "dark", loaded.UI.Theme)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLogLevel("debug").String())
	assert.Equal(t, "WARN", parseLogLevel("warning").String())
	assert.Equal(t, "ERROR", parseLogLevel("ERROR").String())
	assert.Equal(t, "INFO", parseLogLevel("bogus").String())
}

func TestSetupLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "gitscout.log")

	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "DEBUG"})
	require.NoError(t, err)
	logger.Info("hello", "k", "v")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
	assert.Contains(t, string(data), `"app":"gitscout"`)
}

func TestSetupLogger_LevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitscout.log")

	logger, closer, err := SetupLogger(&LoggingConfig{File: path, Level: "warn"})
	require.NoError(t, err)
	logger.Debug("quiet")
	logger.Info("also quiet")
	logger.Warn("loud")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "quiet")
	assert.Contains(t, string(data), `"msg":"loud"`)
}

func TestClearCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gitscout.db"), []byte("x"), 0600))

	require.NoError(t, ClearCache(dir))
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	// Clearing twice is fine
	require.NoError(t, ClearCache(dir))
}
