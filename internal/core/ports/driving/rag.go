package driving

import (
	"context"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
)

// RAGService answers natural-language queries against the indexed corpus
type RAGService interface {
	// Answer retrieves the most similar chunks and generates an answer
	// from them. When generation fails, the returned answer still carries
	// the ranked chunks and context alongside the error.
	Answer(ctx context.Context, req domain.AnswerRequest) (*domain.Answer, error)

	// CollectionInfo reports the state of the vector index
	CollectionInfo(ctx context.Context) (*domain.CollectionInfo, error)
}
