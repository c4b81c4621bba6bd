package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-job-scraper/internal/ai"
	"go-job-scraper/internal/config"
	"go-job-scraper/internal/models"
)

type nopInterpreter struct{}

func (nopInterpreter) ExtractFields(context.Context, string) (ai.Fields, error) {
	return ai.Fields{}, nil
}

func testConfig(t *testing.T, yaml string) *config.Config {
	t.Helper()
	for _, k := range []string{"OPENAI_API_KEY", "TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID"} {
		t.Setenv(k, "")
	}
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	return cfg
}

func TestBuildExtractors_DefaultOrder(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Scrape.Sources = config.KnownSources

	extractors, err := buildExtractors(cfg, nil)
	require.NoError(t, err)

	var sources []models.Source
	for _, e := range extractors {
		sources = append(sources, e.Source())
	}
	assert.Equal(t, []models.Source{
		models.SourceLinkedInJobs,
		models.SourceIndeed,
		models.SourceInternshala,
		models.SourceLinkedInPosts,
	}, sources)
}

func TestBuildExtractors_ConfiguredSubset(t *testing.T) {
	cfg := testConfig(t, "scrape:\n  sources: [internshala, linkedin_posts]\n")

	extractors, err := buildExtractors(cfg, nopInterpreter{})
	require.NoError(t, err)
	require.Len(t, extractors, 2)
	assert.Equal(t, "Internshala", extractors[0].Name())
	assert.Equal(t, "LinkedIn Posts", extractors[1].Name())
}

func TestBuildExtractors_Unknown(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Scrape.Sources = []string{"monster"}

	_, err := buildExtractors(cfg, nil)
	assert.Error(t, err)
}

func TestBuildOptionalServicesDisabled(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.AI.APIKey = ""
	cfg.Telegram.Token = ""

	assert.Nil(t, buildInterpreter(cfg))
	assert.Nil(t, buildNotifier(cfg))
}

func TestBuildInterpreterEnabled(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.AI.APIKey = "sk-test"
	assert.NotNil(t, buildInterpreter(cfg))
}

func TestSearchCmd_RejectsBlankQuery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o644))

	cmd := newRootCmd()
	cmd.SetArgs([]string{"search", "--config", path, "--designation", "  ", "--city", "Austin"})
	err := cmd.ExecuteContext(context.Background())
	assert.ErrorIs(t, err, models.ErrEmptyQuery)
}

func TestSearchCmd_RequiresFlags(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"search", "--city", "Austin"})
	assert.Error(t, cmd.ExecuteContext(context.Background()))
}
