package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	"policyrag/internal/domain"
)

// ChunkerConfig configures how the document is split into chunks.
type ChunkerConfig struct {
	ChunkSize int `yaml:"chunk_size"`
	Overlap   int `yaml:"overlap"`
}

// EmbedderConfig holds connection details for the sentence-embedding endpoint.
type EmbedderConfig struct {
	BaseURL     string `yaml:"base_url"`
	APIKeyEnv   string `yaml:"api_key_env"`
	Model       string `yaml:"model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// GeneratorConfig holds connection details for the generative-model endpoint.
type GeneratorConfig struct {
	BaseURL     string  `yaml:"base_url"`
	APIKeyEnv   string  `yaml:"api_key_env"`
	Model       string  `yaml:"model"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

// RetrievalConfig configures retrieval and answer synthesis.
type RetrievalConfig struct {
	TopK              int     `yaml:"top_k"`
	PromptVersion     int     `yaml:"prompt_version"`
	DistanceThreshold float64 `yaml:"distance_threshold"`
}

// AppConfig is the root application configuration. It is built once at
// startup, validated, and never mutated afterwards.
type AppConfig struct {
	Document  string          `yaml:"document"`
	Chunker   ChunkerConfig   `yaml:"chunker"`
	Embedder  EmbedderConfig  `yaml:"embedder"`
	Generator GeneratorConfig `yaml:"generator"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
}

// Load reads a config from the given path. A missing file yields defaults;
// any parsed config has defaults applied and is validated.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			return cfg, nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists. The
// chunk size of 500 characters with 100 overlap captures complete policy
// statements without splitting them mid-sentence.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

// Validate checks the invariants that must hold before any processing starts.
func (c *AppConfig) Validate() error {
	if c.Chunker.ChunkSize <= 0 {
		return &domain.ConfigurationError{Field: "chunker.chunk_size", Reason: "must be positive"}
	}
	if c.Chunker.Overlap < 0 {
		return &domain.ConfigurationError{Field: "chunker.overlap", Reason: "must be non-negative"}
	}
	if c.Chunker.Overlap >= c.Chunker.ChunkSize {
		return &domain.ConfigurationError{Field: "chunker.overlap", Reason: "must be smaller than chunk_size"}
	}
	if c.Retrieval.TopK <= 0 {
		return &domain.ConfigurationError{Field: "retrieval.top_k", Reason: "must be positive"}
	}
	if v := c.Retrieval.PromptVersion; v != 1 && v != 2 {
		return &domain.ConfigurationError{Field: "retrieval.prompt_version", Reason: "must be 1 or 2"}
	}
	if c.Retrieval.DistanceThreshold <= 0 {
		return &domain.ConfigurationError{Field: "retrieval.distance_threshold", Reason: "must be positive"}
	}
	return nil
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Document == "" {
		cfg.Document = "policy_document.pdf"
	}
	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = 500
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = 100
	}
	if cfg.Embedder.BaseURL == "" {
		cfg.Embedder.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.Embedder.Model == "" {
		cfg.Embedder.Model = "all-MiniLM-L6-v2"
	}
	if cfg.Embedder.TimeoutSecs == 0 {
		cfg.Embedder.TimeoutSecs = 30
	}
	if cfg.Generator.BaseURL == "" {
		cfg.Generator.BaseURL = "https://api.groq.com/openai/v1"
	}
	if cfg.Generator.APIKeyEnv == "" {
		cfg.Generator.APIKeyEnv = "GROQ_API_KEY"
	}
	if cfg.Generator.Model == "" {
		cfg.Generator.Model = "llama-3.1-8b-instant"
	}
	if cfg.Generator.TimeoutSecs == 0 {
		cfg.Generator.TimeoutSecs = 60
	}
	if cfg.Generator.MaxTokens == 0 {
		cfg.Generator.MaxTokens = 1500
	}
	if cfg.Generator.Temperature == 0 {
		cfg.Generator.Temperature = 0.2
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = 3
	}
	if cfg.Retrieval.PromptVersion == 0 {
		cfg.Retrieval.PromptVersion = 2
	}
	if cfg.Retrieval.DistanceThreshold == 0 {
		cfg.Retrieval.DistanceThreshold = 1.5
	}
}
