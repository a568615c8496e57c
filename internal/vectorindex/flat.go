package vectorindex

import (
	"errors"
	"math"
	"sort"
	"sync"

	"policyrag/internal/domain"
)

// Flat is an in-memory brute-force nearest-neighbor index over Euclidean
// distance. It is append-only: the index is populated once before queries are
// served and only read afterwards.
type Flat struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	chunks    []domain.Chunk
}

// NewFlat creates an empty flat index. The vector dimension is fixed by the
// first batch added.
func NewFlat() *Flat { return &Flat{} }

// Add appends chunks and their vectors to the index. The two slices must be
// parallel and every vector must match the index dimension.
func (f *Flat) Add(chunks []domain.Chunk, vectors [][]float64) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range vectors {
		if f.dimension == 0 {
			f.dimension = len(v)
		}
		if len(v) == 0 || len(v) != f.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	f.chunks = append(f.chunks, chunks...)
	f.vectors = append(f.vectors, vectors...)
	return nil
}

// Len returns the number of stored chunks.
func (f *Flat) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.chunks)
}

// Search returns the topK stored chunks nearest to vector, ordered by
// ascending distance with ties broken by lower chunk ID. A topK larger than
// the stored count returns everything; an empty index returns an empty
// result, never an error.
func (f *Flat) Search(vector []float64, topK int) []domain.RetrievedChunk {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if topK <= 0 || len(f.chunks) == 0 {
		return nil
	}
	results := make([]domain.RetrievedChunk, len(f.chunks))
	for i := range f.vectors {
		results[i] = domain.RetrievedChunk{
			Chunk:    f.chunks[i],
			Distance: euclidean(vector, f.vectors[i]),
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].Chunk.ChunkID < results[j].Chunk.ChunkID
	})
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK]
}

func euclidean(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
