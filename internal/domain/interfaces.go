package domain

import "context"

// Embedder converts free text into a fixed-length numeric vector. Embedding is
// deterministic for a fixed model version; Dimension is known once the model
// has produced its first vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
}

// Generator produces free text from a fully assembled prompt in a single
// round trip. The returned text is opaque to callers.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Index stores chunk vectors and supports nearest-neighbor search. Add is
// append-only; the index is built once before any query and read-only
// afterwards, so it is safe for concurrent readers.
type Index interface {
	Add(chunks []Chunk, vectors [][]float64) error
	Search(vector []float64, topK int) []RetrievedChunk
	Len() int
}
