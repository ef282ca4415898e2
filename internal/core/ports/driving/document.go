package driving

import (
	"context"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
)

// DocumentService handles document metadata operations
type DocumentService interface {
	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*domain.Document, error)

	// GetWithChunks retrieves a document with its chunks
	GetWithChunks(ctx context.Context, id string) (*domain.DocumentWithChunks, error)

	// List retrieves documents with pagination
	List(ctx context.Context, limit, offset int) ([]*domain.Document, error)

	// Count returns the total number of documents
	Count(ctx context.Context) (int, error)

	// Delete removes a document, its chunks, and its indexed vectors
	Delete(ctx context.Context, id string) error
}
