// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-scout/pkg/types"
)

// setDefaults registers every config key so that PAPER_SCOUT_* environment
// variables reach Unmarshal.
func setDefaults(v *viper.Viper) {
	d := types.DefaultPipelineConfig()
	v.SetDefault("top_k", d.TopK)
	v.SetDefault("top_n", d.TopN)

	v.SetDefault("sources.timeout", d.Sources.Timeout)
	v.SetDefault("sources.user_agent", d.Sources.UserAgent)
	v.SetDefault("sources.enabled", sourceNames(d.Sources.Enabled))
	v.SetDefault("sources.limit", d.Sources.Limit)
	v.SetDefault("sources.semantic_scholar_api_key", "")
	v.SetDefault("sources.ncbi_api_key", "")
	v.SetDefault("sources.openalex_email", "")

	v.SetDefault("embedding.backend", string(d.Embedding.Backend))
	v.SetDefault("embedding.model", d.Embedding.Model)
	v.SetDefault("embedding.base_url", d.Embedding.BaseURL)
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.dimensions", d.Embedding.Dimensions)
	v.SetDefault("embedding.timeout", d.Embedding.Timeout)

	v.SetDefault("generation.backend", string(d.Generation.Backend))
	v.SetDefault("generation.model", d.Generation.Model)
	v.SetDefault("generation.base_url", d.Generation.BaseURL)
	v.SetDefault("generation.api_key", "")
	v.SetDefault("generation.temperature", d.Generation.Temperature)
	v.SetDefault("generation.prompt_token_budget", d.Generation.PromptTokenBudget)
	v.SetDefault("generation.timeout", d.Generation.Timeout)
}

func sourceNames(names []types.SourceName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}

// loadConfig decodes the merged config file, environment and defaults,
// then fills API keys that are still empty from the loaded secrets.
func loadConfig(v *viper.Viper) (types.PipelineConfig, error) {
	// Defaults are registered with v, so decode into a zero value: decoding
	// over a populated slice would keep its tail.
	var cfg types.PipelineConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	applySecrets(&cfg, loadedSecrets)
	return cfg, nil
}

// secretLookup is satisfied by secrets.Set.
type secretLookup interface {
	Lookup(key string) string
}

func applySecrets(cfg *types.PipelineConfig, s secretLookup) {
	if s == nil {
		return
	}
	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = s.Lookup(key)
		}
	}
	fill(&cfg.Sources.SemanticScholarAPIKey, "semantic-scholar-api-key")
	fill(&cfg.Sources.NCBIAPIKey, "ncbi-api-key")
	fill(&cfg.Sources.OpenAlexEmail, "openalex-email")

	if key := backendSecret(string(cfg.Embedding.Backend)); key != "" {
		fill(&cfg.Embedding.APIKey, key)
	}
	if key := backendSecret(string(cfg.Generation.Backend)); key != "" {
		fill(&cfg.Generation.APIKey, key)
	}
}

// backendSecret names the secret holding the API key for a backend.
func backendSecret(backend string) string {
	switch backend {
	case "openai":
		return "openai-api-key"
	case "genai":
		return "gemini-api-key"
	case "claude":
		return "anthropic-api-key"
	}
	return ""
}
