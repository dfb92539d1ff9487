// Package memory provides a brute-force cosine similarity index.
//
// The catalog yields a few thousand chunks at most, so an exact scan over
// normalised vectors answers a query in well under a millisecond and needs
// no build step.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/catalogo-cli/internal/core/domain"
	"github.com/custodia-labs/catalogo-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

type entry struct {
	id  string
	vec []float32
}

// Index holds unit-length vectors keyed by chunk ID.
type Index struct {
	mu        sync.RWMutex
	dimension int
	entries   []entry
	pos       map[string]int
	closed    bool
}

// New creates an index for vectors of the given dimension.
// A dimension of zero is fixed by the first Add.
func New(dimension int) (*Index, error) {
	if dimension < 0 {
		return nil, fmt.Errorf("%w: negative dimension %d", domain.ErrInvalidInput, dimension)
	}
	return &Index{
		dimension: dimension,
		pos:       make(map[string]int),
	}, nil
}

// Dimension returns the vector dimension, or zero if not yet known.
func (idx *Index) Dimension() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.dimension
}

// Add inserts or replaces the vector for chunkID.
func (idx *Index) Add(_ context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" || len(embedding) == 0 {
		return domain.ErrInvalidInput
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return domain.ErrVectorIndexUnavailable
	}
	if idx.dimension == 0 {
		idx.dimension = len(embedding)
	}
	if len(embedding) != idx.dimension {
		return fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(embedding), idx.dimension)
	}

	vec := normalise(embedding)
	if i, ok := idx.pos[chunkID]; ok {
		idx.entries[i].vec = vec
		return nil
	}
	idx.pos[chunkID] = len(idx.entries)
	idx.entries = append(idx.entries, entry{id: chunkID, vec: vec})
	return nil
}

// Delete removes the vector for chunkID. Unknown IDs are ignored.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	i, ok := idx.pos[chunkID]
	if !ok {
		return nil
	}
	last := len(idx.entries) - 1
	if i != last {
		idx.entries[i] = idx.entries[last]
		idx.pos[idx.entries[i].id] = i
	}
	idx.entries = idx.entries[:last]
	delete(idx.pos, chunkID)
	return nil
}

// Search returns the k most similar vectors, highest similarity first.
// Ties are broken by chunk ID so results are deterministic.
func (idx *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if len(idx.entries) == 0 {
		return nil, domain.ErrEmptyIndex
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: got %d, want %d", domain.ErrDimensionMismatch, len(query), idx.dimension)
	}

	q := normalise(query)
	hits := make([]driven.VectorHit, 0, len(idx.entries))
	for i, e := range idx.entries {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		hits = append(hits, driven.VectorHit{ChunkID: e.id, Similarity: dot(q, e.vec)})
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Close drops all vectors. Further calls fail with ErrVectorIndexUnavailable.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.entries = nil
	idx.pos = make(map[string]int)
	idx.closed = true
	return nil
}

// normalise returns a unit-length copy of v. A zero vector stays zero.
func normalise(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	out := make([]float32, len(v))
	if sum == 0 {
		return out
	}
	inv := 1 / math.Sqrt(sum)
	for i, x := range v {
		out[i] = float32(float64(x) * inv)
	}
	return out
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
