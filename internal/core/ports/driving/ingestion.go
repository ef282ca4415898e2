package driving

import (
	"context"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
)

// IngestionService processes one uploaded document end to end:
// chunk, embed, index, persist metadata
type IngestionService interface {
	// Ingest runs the pipeline for the extracted text of one upload.
	// On failure the returned result reports which stage failed and no
	// partially visible document is left behind.
	Ingest(ctx context.Context, filename, text string) (*domain.IngestionResult, error)
}
