package driven

import (
	"context"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
)

// VectorIndex stores chunk embeddings and answers similarity queries
type VectorIndex interface {
	// Upsert stores records, replacing any existing record with the same
	// chunk ID. Idempotent.
	Upsert(ctx context.Context, records []domain.VectorRecord) error

	// Query returns up to k records most similar to vector, sorted by
	// descending score with ties broken by ascending chunk ID. A non-empty
	// documentID restricts the candidate set before ranking. k greater
	// than the candidate count returns all candidates; k <= 0 returns none.
	Query(ctx context.Context, vector []float32, k int, documentID string) ([]domain.ScoredRecord, error)

	// DeleteByDocument removes all records for a document
	DeleteByDocument(ctx context.Context, documentID string) error

	// Count returns the total number of stored records
	Count(ctx context.Context) (int, error)

	// HealthCheck verifies the index is available
	HealthCheck(ctx context.Context) error
}
