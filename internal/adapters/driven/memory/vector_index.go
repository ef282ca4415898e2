// Package memory provides an in-process vector index. It keeps every
// vector in a map and scores queries by brute-force cosine similarity,
// which is plenty for small corpora and for running without external
// infrastructure.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driven"
)

// Ensure VectorIndex implements driven.VectorIndex
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory implementation of driven.VectorIndex
type VectorIndex struct {
	mu      sync.RWMutex
	records map[string]domain.VectorRecord
}

// NewVectorIndex creates an empty in-memory index
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		records: make(map[string]domain.VectorRecord),
	}
}

// Upsert inserts or replaces records keyed by chunk ID
func (idx *VectorIndex) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for _, r := range records {
		idx.records[r.ChunkID] = r
	}
	return nil
}

// Query returns the k records most similar to vector, highest score
// first. Ties break on ascending chunk ID so results are stable. An
// empty documentID matches every record.
func (idx *VectorIndex) Query(ctx context.Context, vector []float32, k int, documentID string) ([]domain.ScoredRecord, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if k <= 0 {
		return nil, nil
	}

	scored := make([]domain.ScoredRecord, 0, len(idx.records))
	for _, r := range idx.records {
		if documentID != "" && r.DocumentID != documentID {
			continue
		}
		scored = append(scored, domain.ScoredRecord{
			Record: r,
			Score:  cosineSimilarity(vector, r.Embedding),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Record.ChunkID < scored[j].Record.ChunkID
	})

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k], nil
}

// DeleteByDocument removes every record belonging to a document
func (idx *VectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	for id, r := range idx.records {
		if r.DocumentID == documentID {
			delete(idx.records, id)
		}
	}
	return nil
}

// Count returns the number of indexed vectors
func (idx *VectorIndex) Count(ctx context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records), nil
}

// HealthCheck always succeeds for the in-memory index
func (idx *VectorIndex) HealthCheck(ctx context.Context) error {
	return nil
}

// cosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched lengths and zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
