package driven

import (
	"context"
)

// GenerationService produces free-form answers from a query and an
// assembled retrieval context
type GenerationService interface {
	// Generate answers the query using only the supplied context text
	Generate(ctx context.Context, query, contextText string) (string, error)

	// Model returns the model name being used
	Model() string

	// Ping verifies the generation service is available
	Ping(ctx context.Context) error

	// Close releases resources held by the generation service
	Close() error
}
