// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by every network client.
type HTTPConfig struct {
	// Timeout bounds each HTTP request so a stalled catalog cannot block
	// the whole fan-out.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-scout/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// SourceName identifies one external catalog adapter.
type SourceName string

const (
	SourceArxiv           SourceName = "arxiv"
	SourcePubMed          SourceName = "pubmed"
	SourceSemanticScholar SourceName = "semantic_scholar"
	SourceOpenAlex        SourceName = "openalex"
)

// SourcesConfig holds settings for the source adapters.
type SourcesConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Enabled lists the adapters to query, in priority order. The
	// aggregator concatenates results in exactly this order.
	Enabled []SourceName `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Limit is the per-source result count requested from each catalog
	// (default 10). It is an upper bound, not a guarantee.
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`

	// SemanticScholarAPIKey is an optional key for higher rate limits.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty" mapstructure:"semantic_scholar_api_key"`

	// NCBIAPIKey is an optional E-utilities key for PubMed.
	NCBIAPIKey string `json:"ncbi_api_key,omitempty" yaml:"ncbi_api_key,omitempty" mapstructure:"ncbi_api_key"`

	// OpenAlexEmail is sent as mailto for the OpenAlex polite pool.
	OpenAlexEmail string `json:"openalex_email,omitempty" yaml:"openalex_email,omitempty" mapstructure:"openalex_email"`
}

// EmbeddingBackend selects the embedding model implementation.
type EmbeddingBackend string

const (
	EmbeddingOllama  EmbeddingBackend = "ollama"
	EmbeddingOpenAI  EmbeddingBackend = "openai"
	EmbeddingGenAI   EmbeddingBackend = "genai"
	EmbeddingLexical EmbeddingBackend = "lexical"
)

// EmbeddingConfig holds settings for the embedding provider.
type EmbeddingConfig struct {
	// Backend is one of ollama, openai, genai, lexical.
	Backend EmbeddingBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the backend's model identifier. Empty selects the backend
	// default (all-minilm, text-embedding-3-small, gemini-embedding-001).
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// BaseURL overrides the backend endpoint (Ollama host, OpenAI-compatible URL).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// APIKey authenticates remote backends.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Dimensions sizes the lexical embedder's vectors (default 1024).
	Dimensions int `json:"dimensions,omitempty" yaml:"dimensions,omitempty" mapstructure:"dimensions"`

	// Timeout bounds each embedding request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// GenerationBackend selects the text-generation service.
type GenerationBackend string

const (
	GenerationNone   GenerationBackend = "none"
	GenerationOpenAI GenerationBackend = "openai"
	GenerationGenAI  GenerationBackend = "genai"
	GenerationClaude GenerationBackend = "claude"
)

// GenerationConfig holds settings for the abstractive, insight and plan
// collaborators.
type GenerationConfig struct {
	// Backend is one of none, openai, genai, claude.
	Backend GenerationBackend `json:"backend" yaml:"backend" mapstructure:"backend"`

	// Model is the generation model identifier. Empty selects the
	// backend default (gpt-4o-mini, gemini-2.5-flash, claude-sonnet-4-5).
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates the generation service.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// BaseURL overrides the service endpoint.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// Temperature is the sampling temperature (default 0.3).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// PromptTokenBudget caps the abstract text placed in a prompt.
	PromptTokenBudget int `json:"prompt_token_budget" yaml:"prompt_token_budget" mapstructure:"prompt_token_budget"`

	// Timeout bounds each generation request.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// PipelineConfig groups all settings for one paper-scout process.
type PipelineConfig struct {
	Sources    SourcesConfig    `json:"sources" yaml:"sources" mapstructure:"sources"`
	Embedding  EmbeddingConfig  `json:"embedding" yaml:"embedding" mapstructure:"embedding"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`

	// TopK is the default number of ranked papers returned (default 6).
	TopK int `json:"top_k" yaml:"top_k" mapstructure:"top_k"`

	// TopN is the default number of extractive summary sentences (default 2).
	TopN int `json:"top_n" yaml:"top_n" mapstructure:"top_n"`
}

// DefaultPipelineConfig returns the settings used when neither a config
// file nor flags override them.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Sources: SourcesConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   20 * time.Second,
				UserAgent: "paper-scout/0.1",
			},
			Enabled: []SourceName{SourceArxiv, SourcePubMed},
			Limit:   10,
		},
		Embedding: EmbeddingConfig{
			Backend:    EmbeddingOllama,
			Dimensions: 1024,
			Timeout:    30 * time.Second,
		},
		Generation: GenerationConfig{
			Backend:           GenerationNone,
			Temperature:       0.3,
			PromptTokenBudget: 1500,
			Timeout:           60 * time.Second,
		},
		TopK: 6,
		TopN: 2,
	}
}
