package service

import (
	"context"
	"errors"

	"github.com/schollz/progressbar/v3"

	"policyrag/internal/domain"
	"policyrag/internal/prompt"
)

// FallbackAnswer is returned when retrieval finds nothing close enough to
// ground an answer. It is a successful response, not an error: the
// generative model is never called in that case.
const FallbackAnswer = "I couldn't find relevant information in the policy documents to answer this question. This topic may not be covered in the available policies."

// embedBatchSize bounds the number of texts sent per embeddings request.
const embedBatchSize = 32

// Options holds the retrieval settings a pipeline answers with by default.
type Options struct {
	TopK              int
	PromptVersion     int
	DistanceThreshold float64
	ShowProgress      bool
}

// Pipeline wires the embedder, vector index, and generator into the
// end-to-end question answering flow. Dependencies are passed in explicitly
// so tests can substitute doubles for the model calls.
type Pipeline struct {
	embedder  domain.Embedder
	generator domain.Generator
	index     domain.Index
	opts      Options
}

// NewPipeline assembles a pipeline from its dependencies.
func NewPipeline(embedder domain.Embedder, generator domain.Generator, index domain.Index, opts Options) *Pipeline {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	if opts.PromptVersion == 0 {
		opts.PromptVersion = 2
	}
	if opts.DistanceThreshold == 0 {
		opts.DistanceThreshold = 1.5
	}
	return &Pipeline{embedder: embedder, generator: generator, index: index, opts: opts}
}

// IndexDocument embeds the chunks in order-preserving batches and adds them
// to the index. Zero chunks is an error: an empty index cannot ground any
// answer.
func (p *Pipeline) IndexDocument(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return errors.New("no chunks to index")
	}
	var bar *progressbar.ProgressBar
	if p.opts.ShowProgress {
		bar = progressbar.Default(int64(len(chunks)), "embedding chunks")
	}
	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]
		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Text
		}
		vectors, err := p.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return err
		}
		if err := p.index.Add(batch, vectors); err != nil {
			return err
		}
		if bar != nil {
			_ = bar.Add(len(batch))
		}
	}
	return nil
}

// Answer answers the query with the pipeline's configured retrieval settings.
func (p *Pipeline) Answer(ctx context.Context, query string) (*domain.AnswerResponse, error) {
	return p.AnswerQuestion(ctx, query, p.opts.TopK, p.opts.PromptVersion)
}

// AnswerQuestion embeds the query, retrieves the topK nearest chunks, and
// asks the generative model for a grounded answer using the selected prompt
// version. When retrieval comes back empty or the best distance exceeds the
// threshold, the fixed fallback response is returned without calling the
// model. A failed model call surfaces as a GenerationError; there is no
// retry and no partial answer.
func (p *Pipeline) AnswerQuestion(ctx context.Context, query string, topK, promptVersion int) (*domain.AnswerResponse, error) {
	queryVec, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	retrieved := p.index.Search(queryVec, topK)

	if len(retrieved) == 0 || retrieved[0].Distance > p.opts.DistanceThreshold {
		return &domain.AnswerResponse{
			Query:      query,
			Answer:     FallbackAnswer,
			Context:    []domain.Chunk{},
			Confidence: domain.ConfidenceLow,
		}, nil
	}

	chunks := make([]domain.Chunk, len(retrieved))
	scores := make([]float64, len(retrieved))
	for i, r := range retrieved {
		chunks[i] = r.Chunk
		scores[i] = r.Distance
	}

	answer, err := p.generator.Generate(ctx, prompt.Build(promptVersion, query, chunks))
	if err != nil {
		return nil, err
	}

	return &domain.AnswerResponse{
		Query:           query,
		Answer:          answer,
		Context:         chunks,
		Confidence:      AssessConfidence(scores),
		RetrievalScores: scores,
	}, nil
}
