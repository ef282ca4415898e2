package services

import (
	"context"
	"fmt"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driven"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driving"
)

// Ensure documentService implements DocumentService
var _ driving.DocumentService = (*documentService)(nil)

// documentService implements the DocumentService interface
type documentService struct {
	documents driven.DocumentStore
	chunks    driven.ChunkStore
	index     driven.VectorIndex
}

// NewDocumentService creates a new DocumentService
func NewDocumentService(
	documents driven.DocumentStore,
	chunks driven.ChunkStore,
	index driven.VectorIndex,
) driving.DocumentService {
	return &documentService{
		documents: documents,
		chunks:    chunks,
		index:     index,
	}
}

// Get retrieves a document by ID
func (s *documentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.documents.Get(ctx, id)
}

// GetWithChunks retrieves a document with its chunks
func (s *documentService) GetWithChunks(ctx context.Context, id string) (*domain.DocumentWithChunks, error) {
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	chunks, err := s.chunks.GetByDocument(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.DocumentWithChunks{
		Document: doc,
		Chunks:   chunks,
	}, nil
}

// List retrieves documents with pagination
func (s *documentService) List(ctx context.Context, limit, offset int) ([]*domain.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}
	return s.documents.List(ctx, limit, offset)
}

// Count returns the total number of documents
func (s *documentService) Count(ctx context.Context) (int, error) {
	return s.documents.Count(ctx)
}

// Delete removes a document along with its chunks and indexed vectors.
// The index is cleared first so a later failure cannot leave vectors
// pointing at a document that no longer exists.
func (s *documentService) Delete(ctx context.Context, id string) error {
	if _, err := s.documents.Get(ctx, id); err != nil {
		return err
	}

	if err := s.index.DeleteByDocument(ctx, id); err != nil {
		return fmt.Errorf("%w: delete vectors: %v", domain.ErrIndex, err)
	}
	if err := s.chunks.DeleteByDocument(ctx, id); err != nil {
		return fmt.Errorf("delete chunks: %w", err)
	}
	return s.documents.Delete(ctx, id)
}
