package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"policyrag/internal/domain"
	"policyrag/internal/vectorindex"
)

// fakeEmbedder returns fixed 2D vectors keyed by text, so tests can place
// chunks at exact distances from a query.
type fakeEmbedder struct {
	vectors map[string][]float64
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float64{0, 0}, nil
}

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v, err := f.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (f *fakeEmbedder) Dimension() int { return 2 }

// countingGenerator records prompts and returns a canned answer or error.
type countingGenerator struct {
	calls   int
	answer  string
	err     error
	prompts []string
}

func (g *countingGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.calls++
	g.prompts = append(g.prompts, prompt)
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func newTestPipeline(t *testing.T, chunks []domain.Chunk, emb *fakeEmbedder, gen *countingGenerator) *Pipeline {
	t.Helper()
	p := NewPipeline(emb, gen, vectorindex.NewFlat(), Options{})
	if len(chunks) > 0 {
		require.NoError(t, p.IndexDocument(context.Background(), chunks))
	}
	return p
}

func policyChunks() ([]domain.Chunk, *fakeEmbedder) {
	chunks := []domain.Chunk{
		{Text: "Products may be returned within a 30-day return window for a full refund.", ChunkID: 0, PageNum: 4, Source: "policy_document.pdf"},
		{Text: "Standard shipping takes five to seven business days.", ChunkID: 1, PageNum: 7, Source: "policy_document.pdf"},
		{Text: "Trademarks may not be used without written consent.", ChunkID: 2, PageNum: 12, Source: "policy_document.pdf"},
	}
	emb := &fakeEmbedder{vectors: map[string][]float64{
		chunks[0].Text:  {0.3, 0},
		chunks[1].Text:  {0.9, 0},
		chunks[2].Text:  {1.4, 0},
		"refund policy": {0, 0},
	}}
	return chunks, emb
}

func TestAnswerQuestion_EndToEndHighConfidence(t *testing.T) {
	chunks, emb := policyChunks()
	gen := &countingGenerator{answer: "**Policy Answer:** Returns are accepted within 30 days (Excerpt 1, Page 4)."}
	p := newTestPipeline(t, chunks, emb, gen)

	resp, err := p.AnswerQuestion(context.Background(), "refund policy", 3, 2)
	require.NoError(t, err)

	assert.Equal(t, domain.ConfidenceHigh, resp.Confidence)
	assert.Equal(t, gen.answer, resp.Answer)
	require.Len(t, resp.Context, 3)
	assert.Len(t, resp.RetrievalScores, 3)
	assert.Equal(t, 0, resp.Context[0].ChunkID)
	assert.Equal(t, 4, resp.Context[0].PageNum)
	assert.InDelta(t, 0.3, resp.RetrievalScores[0], 1e-9)
	assert.Equal(t, 1, gen.calls)
}

func TestAnswerQuestion_EmptyIndexShortCircuits(t *testing.T) {
	gen := &countingGenerator{answer: "should never be used"}
	p := newTestPipeline(t, nil, &fakeEmbedder{}, gen)

	resp, err := p.AnswerQuestion(context.Background(), "anything", 3, 2)
	require.NoError(t, err)

	assert.Equal(t, FallbackAnswer, resp.Answer)
	assert.Equal(t, domain.ConfidenceLow, resp.Confidence)
	assert.Empty(t, resp.Context)
	assert.Empty(t, resp.RetrievalScores)
	assert.Zero(t, gen.calls)
}

func TestAnswerQuestion_DistantResultsShortCircuit(t *testing.T) {
	chunks := []domain.Chunk{{Text: "totally unrelated", ChunkID: 0, PageNum: 1, Source: "doc.pdf"}}
	emb := &fakeEmbedder{vectors: map[string][]float64{
		"totally unrelated": {0, 0},
		"weather report":    {10, 0}, // distance 10, far beyond the 1.5 threshold
	}}
	gen := &countingGenerator{answer: "should never be used"}
	p := newTestPipeline(t, chunks, emb, gen)

	resp, err := p.AnswerQuestion(context.Background(), "weather report", 3, 2)
	require.NoError(t, err)

	assert.Equal(t, FallbackAnswer, resp.Answer)
	assert.Equal(t, domain.ConfidenceLow, resp.Confidence)
	assert.Empty(t, resp.Context)
	assert.Zero(t, gen.calls)
}

func TestAnswerQuestion_TopKLargerThanChunkCount(t *testing.T) {
	chunks, emb := policyChunks()
	gen := &countingGenerator{answer: "answer"}
	p := newTestPipeline(t, chunks, emb, gen)

	resp, err := p.AnswerQuestion(context.Background(), "refund policy", 10, 2)
	require.NoError(t, err)
	assert.Len(t, resp.Context, 3)
	assert.Len(t, resp.RetrievalScores, 3)
}

func TestAnswerQuestion_GenerationErrorSurfaced(t *testing.T) {
	chunks, emb := policyChunks()
	cause := errors.New("api unreachable")
	gen := &countingGenerator{err: &domain.GenerationError{Err: cause}}
	p := newTestPipeline(t, chunks, emb, gen)

	_, err := p.AnswerQuestion(context.Background(), "refund policy", 3, 2)
	require.Error(t, err)
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 1, gen.calls)
}

func TestAnswerQuestion_PromptVersionSelection(t *testing.T) {
	chunks, emb := policyChunks()
	gen := &countingGenerator{answer: "answer"}
	p := newTestPipeline(t, chunks, emb, gen)

	_, err := p.AnswerQuestion(context.Background(), "refund policy", 3, 1)
	require.NoError(t, err)
	_, err = p.AnswerQuestion(context.Background(), "refund policy", 3, 2)
	require.NoError(t, err)

	require.Len(t, gen.prompts, 2)
	assert.Contains(t, gen.prompts[0], "[Excerpt 1 from Page 4]")
	assert.NotContains(t, gen.prompts[0], "<policy_excerpts>")
	assert.Contains(t, gen.prompts[1], "<policy_excerpts>")
	assert.Contains(t, gen.prompts[1], `<excerpt id="1" page="4">`)
}

func TestIndexDocument_RejectsEmptyChunkSet(t *testing.T) {
	p := NewPipeline(&fakeEmbedder{}, &countingGenerator{}, vectorindex.NewFlat(), Options{})
	err := p.IndexDocument(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no chunks"))
}
