package driven

import (
	"context"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
)

// DocumentStore handles document metadata persistence (PostgreSQL)
type DocumentStore interface {
	// Save creates a document record
	Save(ctx context.Context, doc *domain.Document) error

	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List retrieves documents ordered by creation time, newest first
	List(ctx context.Context, limit, offset int) ([]*domain.Document, error)

	// Delete deletes a document
	Delete(ctx context.Context, id string) error

	// Count returns total document count
	Count(ctx context.Context) (int, error)
}

// ChunkStore handles chunk metadata persistence (PostgreSQL)
type ChunkStore interface {
	// SaveBatch saves a document's chunks in a transaction
	SaveBatch(ctx context.Context, chunks []domain.Chunk) error

	// GetByDocument retrieves all chunks for a document ordered by position
	GetByDocument(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteByDocument deletes all chunks for a document
	DeleteByDocument(ctx context.Context, documentID string) error
}
