package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load looks at so the host environment
// cannot leak into the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"JOBSCRAPER_HEADLESS", "JOBSCRAPER_OUTPUT_DIR", "JOBSCRAPER_ADDR", "JOBSCRAPER_LOG_LEVEL",
		"OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadFile_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.True(t, *cfg.Browser.Headless)
	assert.Equal(t, KnownSources, cfg.Scrape.Sources)
	assert.Equal(t, 30*time.Second, cfg.Scrape.NavigationTimeout)
	assert.Equal(t, 15*time.Second, cfg.Scrape.WaitTimeout)
	assert.Equal(t, 2*time.Minute, cfg.Scrape.ExtractorTimeout)
	assert.Equal(t, ".", cfg.Output.Dir)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.False(t, cfg.AIEnabled())
	assert.False(t, cfg.TelegramEnabled())
}

func TestLoadFile_YAMLAndEnvOverride(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
browser:
  headless: false
scrape:
  sources: [internshala, indeed]
  wait_timeout: 5s
output:
  dir: out
`)
	t.Setenv("JOBSCRAPER_OUTPUT_DIR", "/tmp/listings")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.False(t, *cfg.Browser.Headless)
	assert.Equal(t, []string{"internshala", "indeed"}, cfg.Scrape.Sources)
	assert.Equal(t, 5*time.Second, cfg.Scrape.WaitTimeout)
	assert.Equal(t, "/tmp/listings", cfg.Output.Dir)
	assert.True(t, cfg.AIEnabled())
	assert.Equal(t, "gpt-4o-mini", cfg.AI.Model)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		env  map[string]string
	}{
		{name: "unknown source", yaml: "scrape:\n  sources: [monster]\n"},
		{name: "malformed yaml", yaml: "scrape: [\n"},
		{name: "bad chat id", env: map[string]string{"TELEGRAM_CHAT_ID": "abc"}},
		{name: "token without chat", env: map[string]string{"TELEGRAM_BOT_TOKEN": "123:abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadFile(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}
