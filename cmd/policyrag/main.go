package main

import (
	"context"
	"flag"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"policyrag/internal/chunker"
	"policyrag/internal/config"
	"policyrag/internal/embedding"
	"policyrag/internal/extract"
	"policyrag/internal/llm"
	"policyrag/internal/service"
	"policyrag/internal/tui"
	"policyrag/internal/vectorindex"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	docPath := flag.String("doc", "", "Policy PDF path (overrides config)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *docPath != "" {
		cfg.Document = *docPath
	}

	pipeline, chunkCount, err := buildPipeline(cfg, true)
	if err != nil {
		log.Fatal(err)
	}

	m := tui.New(pipeline, cfg.Document, chunkCount)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

// buildPipeline loads the document, chunks it, and indexes the embeddings.
// Document and configuration failures here are fatal to startup.
func buildPipeline(cfg *config.AppConfig, showProgress bool) (*service.Pipeline, int, error) {
	text, err := extract.LoadPDF(cfg.Document)
	if err != nil {
		return nil, 0, err
	}

	ch, err := chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	if err != nil {
		return nil, 0, err
	}
	chunks := ch.Chunk(text, cfg.Document)
	log.Printf("chunked %s into %d chunks (size=%d overlap=%d)",
		cfg.Document, len(chunks), cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)

	embedder := embedding.NewClient(embedding.Config{
		BaseURL:   cfg.Embedder.BaseURL,
		APIKeyEnv: cfg.Embedder.APIKeyEnv,
		Model:     cfg.Embedder.Model,
		Timeout:   time.Duration(cfg.Embedder.TimeoutSecs) * time.Second,
	})
	generator, err := llm.NewClient(llm.Config{
		BaseURL:     cfg.Generator.BaseURL,
		APIKeyEnv:   cfg.Generator.APIKeyEnv,
		Model:       cfg.Generator.Model,
		Timeout:     time.Duration(cfg.Generator.TimeoutSecs) * time.Second,
		MaxTokens:   cfg.Generator.MaxTokens,
		Temperature: cfg.Generator.Temperature,
	})
	if err != nil {
		return nil, 0, err
	}

	pipeline := service.NewPipeline(embedder, generator, vectorindex.NewFlat(), service.Options{
		TopK:              cfg.Retrieval.TopK,
		PromptVersion:     cfg.Retrieval.PromptVersion,
		DistanceThreshold: cfg.Retrieval.DistanceThreshold,
		ShowProgress:      showProgress,
	})
	if err := pipeline.IndexDocument(context.Background(), chunks); err != nil {
		return nil, 0, err
	}
	return pipeline, len(chunks), nil
}
