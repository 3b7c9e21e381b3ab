// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-scout/internal/secrets"
	"github.com/pdiddy/paper-scout/pkg/types"
)

func newTestViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("PAPER_SCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func TestLoadConfigDefaults(t *testing.T) {
	loadedSecrets = secrets.Set{}
	cfg, err := loadConfig(newTestViper())
	require.NoError(t, err)

	want := types.DefaultPipelineConfig()
	assert.Equal(t, want.TopK, cfg.TopK)
	assert.Equal(t, want.TopN, cfg.TopN)
	assert.Equal(t, want.Sources.Enabled, cfg.Sources.Enabled)
	assert.Equal(t, want.Sources.Timeout, cfg.Sources.Timeout)
	assert.Equal(t, want.Embedding.Backend, cfg.Embedding.Backend)
	assert.Equal(t, types.GenerationNone, cfg.Generation.Backend)
}

func TestLoadConfigEnvAndFile(t *testing.T) {
	loadedSecrets = secrets.Set{}
	path := filepath.Join(t.TempDir(), "paper-scout.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
top_k: 3
sources:
  enabled: [openalex, arxiv]
  timeout: 5s
embedding:
  backend: lexical
  dimensions: 256
`), 0o644))
	t.Setenv("PAPER_SCOUT_GENERATION_BACKEND", "claude")
	t.Setenv("PAPER_SCOUT_SOURCES_LIMIT", "25")

	v := newTestViper()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := loadConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, []types.SourceName{types.SourceOpenAlex, types.SourceArxiv}, cfg.Sources.Enabled)
	assert.Equal(t, 5*time.Second, cfg.Sources.Timeout)
	assert.Equal(t, 25, cfg.Sources.Limit)
	assert.Equal(t, types.EmbeddingLexical, cfg.Embedding.Backend)
	assert.Equal(t, 256, cfg.Embedding.Dimensions)
	assert.Equal(t, types.GenerationClaude, cfg.Generation.Backend)
}

func TestApplySecrets(t *testing.T) {
	cfg := types.DefaultPipelineConfig()
	cfg.Embedding.Backend = types.EmbeddingOpenAI
	cfg.Generation.Backend = types.GenerationClaude
	cfg.Sources.NCBIAPIKey = "from-config"

	applySecrets(&cfg, secrets.Set{
		"openai-api-key":    "sk-openai",
		"anthropic-api-key": "sk-ant",
		"ncbi-api-key":      "from-secrets",
		"openalex-email":    "me@example.org",
	})

	assert.Equal(t, "sk-openai", cfg.Embedding.APIKey)
	assert.Equal(t, "sk-ant", cfg.Generation.APIKey)
	assert.Equal(t, "from-config", cfg.Sources.NCBIAPIKey)
	assert.Equal(t, "me@example.org", cfg.Sources.OpenAlexEmail)
}

func TestBackendSecret(t *testing.T) {
	assert.Equal(t, "openai-api-key", backendSecret("openai"))
	assert.Equal(t, "gemini-api-key", backendSecret("genai"))
	assert.Equal(t, "anthropic-api-key", backendSecret("claude"))
	assert.Equal(t, "", backendSecret("ollama"))
	assert.Equal(t, "", backendSecret("none"))
}

func TestBuildEngineWithoutGenerator(t *testing.T) {
	cfg := types.DefaultPipelineConfig()
	cfg.Embedding.Backend = types.EmbeddingLexical

	e, err := buildEngine(context.Background(), cfg, true, nil)
	require.NoError(t, err)
	assert.Nil(t, e.Synth)
	assert.Len(t, e.Adapters, 2)
}

func TestBuildEngineUnknownSource(t *testing.T) {
	cfg := types.DefaultPipelineConfig()
	cfg.Embedding.Backend = types.EmbeddingLexical
	cfg.Sources.Enabled = []types.SourceName{"scopus"}

	_, err := buildEngine(context.Background(), cfg, true, nil)
	assert.ErrorContains(t, err, "scopus")

	_, err = buildEngine(context.Background(), cfg, false, nil)
	assert.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "paper-scout dev\n", buf.String())
}
