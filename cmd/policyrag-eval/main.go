package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"policyrag/internal/chunker"
	"policyrag/internal/config"
	"policyrag/internal/embedding"
	"policyrag/internal/eval"
	"policyrag/internal/extract"
	"policyrag/internal/llm"
	"policyrag/internal/service"
	"policyrag/internal/vectorindex"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	docPath := flag.String("doc", "", "Policy PDF path (overrides config)")
	outPath := flag.String("out", "evaluation_results.json", "Evaluation results file")
	promptVersion := flag.Int("prompt-version", 0, "Prompt version 1 or 2 (overrides config)")
	compare := flag.Bool("compare", false, "Run each question through both prompt versions")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *docPath != "" {
		cfg.Document = *docPath
	}
	if *promptVersion != 0 {
		cfg.Retrieval.PromptVersion = *promptVersion
		if err := cfg.Validate(); err != nil {
			log.Fatal(err)
		}
	}

	pipeline, chunkCount, err := buildPipeline(cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("indexed %d chunks from %s", chunkCount, cfg.Document)

	ctx := context.Background()
	if *compare {
		comparePrompts(ctx, pipeline, cfg.Retrieval.TopK)
		return
	}
	runEvaluation(ctx, pipeline, cfg, *outPath)
}

// runEvaluation answers the curated question set, scores each answer, prints
// the summary, and writes the results file. A failed generation skips that
// question; the batch keeps going.
func runEvaluation(ctx context.Context, pipeline *service.Pipeline, cfg *config.AppConfig, outPath string) {
	evaluator := eval.New()
	for i, q := range eval.Questions() {
		fmt.Printf("\nQ%d [%s]: %s\n", i+1, q.Category, q.Query)
		resp, err := pipeline.AnswerQuestion(ctx, q.Query, cfg.Retrieval.TopK, cfg.Retrieval.PromptVersion)
		if err != nil {
			log.Printf("question failed, continuing: %v", err)
			continue
		}
		rec := evaluator.EvaluateAnswer(q.Query, resp, q.Expected)
		fmt.Printf("   Confidence: %s\n", rec.Confidence)
		fmt.Printf("   Answer: %s\n", preview(resp.Answer, 150))
	}

	evaluator.PrintSummary(os.Stdout)
	if err := evaluator.SaveResults(outPath); err != nil {
		log.Fatalf("failed to save results: %v", err)
	}
	log.Printf("results written to %s", outPath)
}

// comparePrompts runs a small question set through both prompt versions and
// reports which answers carry citations, a confidence line, and structured
// output.
func comparePrompts(ctx context.Context, pipeline *service.Pipeline, topK int) {
	questions := []string{
		"What is the refund policy?",
		"How long does shipping take?",
		"Can I return a damaged product?",
		"What are the office hours?",
	}
	line := strings.Repeat("=", 80)
	fmt.Println(line)
	fmt.Println("PROMPT COMPARISON: V1 vs V2")
	fmt.Println(line)

	for i, q := range questions {
		fmt.Printf("\n%s\nQuestion %d: %s\n%s\n", line, i+1, q, line)

		v1, err := pipeline.AnswerQuestion(ctx, q, topK, 1)
		if err != nil {
			log.Printf("V1 failed, continuing: %v", err)
			continue
		}
		v2, err := pipeline.AnswerQuestion(ctx, q, topK, 2)
		if err != nil {
			log.Printf("V2 failed, continuing: %v", err)
			continue
		}

		fmt.Println("\nPROMPT V1 (Basic):")
		fmt.Println(v1.Answer)
		fmt.Println("\nPROMPT V2 (Improved):")
		fmt.Println(v2.Answer)

		fmt.Println("\nAnalysis:")
		fmt.Printf("Citations:      V1: %v  |  V2: %v\n",
			strings.Contains(v1.Answer, "Page"),
			strings.Contains(v2.Answer, "Page") || strings.Contains(v2.Answer, "Excerpt"))
		fmt.Printf("Confidence:     V1: %v  |  V2: %v\n",
			strings.Contains(strings.ToLower(v1.Answer), "confidence"),
			strings.Contains(v2.Answer, "Confidence:"))
		fmt.Printf("Structured:     V1: %v  |  V2: %v\n",
			strings.Contains(v1.Answer, "**"),
			strings.Contains(v2.Answer, "**"))
		fmt.Printf("Retrieval Conf: V1: %s  |  V2: %s\n", v1.Confidence, v2.Confidence)
	}
}

// buildPipeline loads the document, chunks it, and indexes the embeddings.
func buildPipeline(cfg *config.AppConfig) (*service.Pipeline, int, error) {
	text, err := extract.LoadPDF(cfg.Document)
	if err != nil {
		return nil, 0, err
	}
	ch, err := chunker.New(cfg.Chunker.ChunkSize, cfg.Chunker.Overlap)
	if err != nil {
		return nil, 0, err
	}
	chunks := ch.Chunk(text, cfg.Document)

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
		ShowProgress:      true,
	})
	if err := pipeline.IndexDocument(context.Background(), chunks); err != nil {
		return nil, 0, err
	}
	return pipeline, len(chunks), nil
}

func preview(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
