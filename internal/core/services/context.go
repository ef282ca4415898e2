package services

import (
	"fmt"
	"strings"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
)

// noContextFallback is handed to the generation model when retrieval
// produced nothing to ground the answer on.
const noContextFallback = "No relevant information found."

// BuildContext renders ranked chunks into the context block passed to
// the generation model. Chunks are rendered in rank order.
func BuildContext(chunks []domain.RankedChunk) string {
	if len(chunks) == 0 {
		return noContextFallback
	}

	parts := make([]string, 0, len(chunks))
	for i, c := range chunks {
		parts = append(parts, fmt.Sprintf("[Chunk %d - Document %s]:\n%s\n", i+1, c.DocumentID, c.Content))
	}
	return strings.Join(parts, "\n")
}
