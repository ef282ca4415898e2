package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driven"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driving"
)

// Ensure ragService implements RAGService
var _ driving.RAGService = (*ragService)(nil)

// ragService implements the retrieval-generation flow
type ragService struct {
	embedding  driven.EmbeddingService
	index      driven.VectorIndex
	generation driven.GenerationService
	collection string
	topK       int
	logger     *slog.Logger
}

// RAGConfig holds dependencies for the RAG service
type RAGConfig struct {
	Embedding  driven.EmbeddingService
	Index      driven.VectorIndex
	Generation driven.GenerationService

	// Collection is the logical name reported by CollectionInfo
	Collection string

	// TopKDefault is used when a request leaves TopK unset
	TopKDefault int

	Logger *slog.Logger
}

// NewRAGService creates a new RAGService
func NewRAGService(cfg RAGConfig) driving.RAGService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	topK := cfg.TopKDefault
	if topK <= 0 {
		topK = 5
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "documents"
	}

	return &ragService{
		embedding:  cfg.Embedding,
		index:      cfg.Index,
		generation: cfg.Generation,
		collection: collection,
		topK:       topK,
		logger:     logger,
	}
}

// Answer retrieves the most similar chunks for the query and asks the
// generation model to answer from them. A TopK of zero skips retrieval
// entirely; the model is still invoked with the empty-context fallback.
func (s *ragService) Answer(ctx context.Context, req domain.AnswerRequest) (*domain.Answer, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}

	topK := req.TopK
	if topK < 0 {
		topK = s.topK
	}

	answer := &domain.Answer{
		Query:  req.Query,
		Chunks: []domain.RankedChunk{},
	}

	if topK > 0 {
		vector, err := s.embedding.EmbedQuery(ctx, req.Query)
		if err != nil {
			return nil, fmt.Errorf("%w: embed query: %v", domain.ErrProvider, err)
		}

		scored, err := s.index.Query(ctx, vector, topK, req.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("%w: query vectors: %v", domain.ErrIndex, err)
		}

		for _, sr := range scored {
			answer.Chunks = append(answer.Chunks, domain.RankedChunk{
				ChunkID:    sr.Record.ChunkID,
				DocumentID: sr.Record.DocumentID,
				Content:    sr.Record.Content,
				Position:   sr.Record.Position,
				Score:      sr.Score,
			})
		}
	}

	answer.ChunksFound = len(answer.Chunks)
	answer.Context = BuildContext(answer.Chunks)

	response, err := s.generation.Generate(ctx, req.Query, answer.Context)
	if err != nil {
		s.logger.Error("generation failed", "query_length", len(req.Query), "chunks", answer.ChunksFound, "error", err)
		return answer, fmt.Errorf("%w: %v", domain.ErrGeneration, err)
	}
	answer.Response = response

	s.logger.Info("answered query", "chunks", answer.ChunksFound, "top_k", topK)
	return answer, nil
}

// CollectionInfo reports the state of the vector index
func (s *ragService) CollectionInfo(ctx context.Context) (*domain.CollectionInfo, error) {
	count, err := s.index.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: count vectors: %v", domain.ErrIndex, err)
	}

	return &domain.CollectionInfo{
		Collection:     s.collection,
		TotalVectors:   count,
		EmbeddingModel: s.embedding.Model(),
	}, nil
}
