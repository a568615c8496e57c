package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyrag/internal/domain"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "policy_document.pdf", cfg.Document)
	assert.Equal(t, 500, cfg.Chunker.ChunkSize)
	assert.Equal(t, 100, cfg.Chunker.Overlap)
	assert.Equal(t, "all-MiniLM-L6-v2", cfg.Embedder.Model)
	assert.Equal(t, "GROQ_API_KEY", cfg.Generator.APIKeyEnv)
	assert.Equal(t, "llama-3.1-8b-instant", cfg.Generator.Model)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Equal(t, 2, cfg.Retrieval.PromptVersion)
	assert.InDelta(t, 1.5, cfg.Retrieval.DistanceThreshold, 1e-12)
	assert.InDelta(t, 0.2, cfg.Generator.Temperature, 1e-12)
}

func TestLoad_FileOverridesWithDefaultsApplied(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
document: handbook.pdf
chunker:
  chunk_size: 800
  overlap: 200
retrieval:
  top_k: 5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "handbook.pdf", cfg.Document)
	assert.Equal(t, 800, cfg.Chunker.ChunkSize)
	assert.Equal(t, 200, cfg.Chunker.Overlap)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	// untouched fields still get defaults
	assert.Equal(t, 2, cfg.Retrieval.PromptVersion)
	assert.Equal(t, "all-MiniLM-L6-v2", cfg.Embedder.Model)
}

func TestLoad_InvalidChunkingFailsFast(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
chunker:
  chunk_size: 100
  overlap: 150
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *domain.ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AppConfig)
	}{
		{"overlap equals chunk size", func(c *AppConfig) { c.Chunker.Overlap = c.Chunker.ChunkSize }},
		{"negative overlap", func(c *AppConfig) { c.Chunker.Overlap = -1 }},
		{"non-positive chunk size", func(c *AppConfig) { c.Chunker.ChunkSize = -5 }},
		{"non-positive top_k", func(c *AppConfig) { c.Retrieval.TopK = -1 }},
		{"unknown prompt version", func(c *AppConfig) { c.Retrieval.PromptVersion = 3 }},
		{"non-positive threshold", func(c *AppConfig) { c.Retrieval.DistanceThreshold = -0.1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			var cfgErr *domain.ConfigurationError
			assert.ErrorAs(t, err, &cfgErr)
		})
	}

	assert.NoError(t, Default().Validate())
}
