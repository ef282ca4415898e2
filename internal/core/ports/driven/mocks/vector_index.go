package mocks

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
)

// MockVectorIndex is an in-memory mock of VectorIndex with real cosine scoring
type MockVectorIndex struct {
	mu      sync.RWMutex
	records map[string]domain.VectorRecord

	failUpsert bool
	failQuery  bool
	failDelete bool
}

// NewMockVectorIndex creates a new MockVectorIndex
func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{
		records: make(map[string]domain.VectorRecord),
	}
}

func (m *MockVectorIndex) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failUpsert {
		m.failUpsert = false
		return errors.New("index unavailable")
	}
	for _, r := range records {
		m.records[r.ChunkID] = r
	}
	return nil
}

func (m *MockVectorIndex) Query(ctx context.Context, vector []float32, k int, documentID string) ([]domain.ScoredRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failQuery {
		m.failQuery = false
		return nil, errors.New("index unavailable")
	}
	if k <= 0 {
		return nil, nil
	}

	scored := make([]domain.ScoredRecord, 0, len(m.records))
	for _, r := range m.records {
		if documentID != "" && r.DocumentID != documentID {
			continue
		}
		scored = append(scored, domain.ScoredRecord{
			Record: r,
			Score:  cosine(vector, r.Embedding),
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

func (m *MockVectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDelete {
		m.failDelete = false
		return errors.New("index unavailable")
	}
	for id, r := range m.records {
		if r.DocumentID == documentID {
			delete(m.records, id)
		}
	}
	return nil
}

func (m *MockVectorIndex) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records), nil
}

func (m *MockVectorIndex) HealthCheck(ctx context.Context) error {
	return nil
}

func cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Helper methods for testing

func (m *MockVectorIndex) SetFailUpsert(fail bool) {
	m.failUpsert = fail
}

func (m *MockVectorIndex) SetFailQuery(fail bool) {
	m.failQuery = fail
}

func (m *MockVectorIndex) SetFailDelete(fail bool) {
	m.failDelete = fail
}

// Stored returns a copy of every record currently in the index
func (m *MockVectorIndex) Stored() []domain.VectorRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.VectorRecord, 0, len(m.records))
	for _, r := range m.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkID < out[j].ChunkID })
	return out
}
