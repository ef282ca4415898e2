package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jasiel-hdz/rag-search-api/internal/chunker"
	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driven"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driving"
)

// Ensure ingestionService implements IngestionService
var _ driving.IngestionService = (*ingestionService)(nil)

// ingestionService coordinates the document ingestion pipeline:
// chunk the text, embed the chunks, index the vectors, then persist
// metadata. Metadata is only written once indexing succeeded, and any
// failure past indexing rolls the document's vectors back out.
type ingestionService struct {
	chunker   *chunker.Chunker
	embedding driven.EmbeddingService
	index     driven.VectorIndex
	documents driven.DocumentStore
	chunks    driven.ChunkStore
	lock      driven.DistributedLock
	batchSize int
	lockTTL   time.Duration
	logger    *slog.Logger
}

// IngestionConfig holds dependencies for the ingestion service
type IngestionConfig struct {
	Chunker   *chunker.Chunker
	Embedding driven.EmbeddingService
	Index     driven.VectorIndex
	Documents driven.DocumentStore
	Chunks    driven.ChunkStore
	Lock      driven.DistributedLock

	// EmbedBatchSize caps how many chunk texts go into one embedding
	// request. Zero means embed everything in a single call.
	EmbedBatchSize int

	// LockTTL bounds how long a per-filename ingestion lock is held
	LockTTL time.Duration

	Logger *slog.Logger
}

// NewIngestionService creates a new IngestionService
func NewIngestionService(cfg IngestionConfig) driving.IngestionService {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lockTTL := cfg.LockTTL
	if lockTTL <= 0 {
		lockTTL = 5 * time.Minute
	}

	return &ingestionService{
		chunker:   cfg.Chunker,
		embedding: cfg.Embedding,
		index:     cfg.Index,
		documents: cfg.Documents,
		chunks:    cfg.Chunks,
		lock:      cfg.Lock,
		batchSize: cfg.EmbedBatchSize,
		lockTTL:   lockTTL,
		logger:    logger,
	}
}

// Ingest runs the full pipeline for one document
func (s *ingestionService) Ingest(ctx context.Context, filename, text string) (*domain.IngestionResult, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, fmt.Errorf("%w: filename is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(text) == "" {
		result := &domain.IngestionResult{Filename: filename}
		return s.fail(result, domain.StageChunked, fmt.Errorf("%w: document has no text content", domain.ErrEmptyDocument))
	}

	lockName := "ingest:" + filename
	acquired, err := s.lock.Acquire(ctx, lockName, s.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquire ingestion lock: %w", err)
	}
	if !acquired {
		return nil, fmt.Errorf("%w: %s", domain.ErrIngestInProgress, filename)
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx), lockName); err != nil {
			s.logger.Warn("failed to release ingestion lock", "lock", lockName, "error", err)
		}
	}()

	docID := uuid.NewString()
	result := &domain.IngestionResult{
		DocumentID: docID,
		Filename:   filename,
	}

	s.logger.Info("starting ingestion", "document_id", docID, "filename", filename, "text_length", len([]rune(text)))

	// Stage 1: chunk
	pieces := s.chunker.Split(text)
	if len(pieces) == 0 {
		return s.fail(result, domain.StageChunked, fmt.Errorf("%w: chunking produced no chunks", domain.ErrEmptyDocument))
	}
	result.ChunkCount = len(pieces)

	// Stage 2: embed in batches
	embeddings, err := s.embedAll(ctx, pieces)
	if err != nil {
		return s.fail(result, domain.StageEmbedded, fmt.Errorf("embed chunks: %w", err))
	}

	// Stage 3: index vectors
	now := time.Now().UTC()
	chunks := make([]domain.Chunk, len(pieces))
	records := make([]domain.VectorRecord, len(pieces))
	for i, p := range pieces {
		chunkID := fmt.Sprintf("%s-chunk-%d", docID, p.Position)
		chunks[i] = domain.Chunk{
			ID:         chunkID,
			DocumentID: docID,
			Content:    p.Content,
			Position:   p.Position,
			StartChar:  p.StartChar,
			EndChar:    p.EndChar,
			Embedding:  embeddings[i],
			CreatedAt:  now,
		}
		records[i] = domain.VectorRecord{
			ChunkID:    chunkID,
			DocumentID: docID,
			Content:    p.Content,
			Position:   p.Position,
			Embedding:  embeddings[i],
		}
	}

	if err := s.index.Upsert(ctx, records); err != nil {
		return s.fail(result, domain.StageIndexed, fmt.Errorf("%w: upsert vectors: %v", domain.ErrIndex, err))
	}

	// Stage 4: persist metadata. From here on a failure must undo the
	// vectors already written to the index.
	doc := &domain.Document{
		ID:         docID,
		Filename:   filename,
		TextLength: len([]rune(text)),
		ChunkCount: len(pieces),
		CreatedAt:  now,
	}
	if err := s.documents.Save(ctx, doc); err != nil {
		return s.rollback(ctx, result, fmt.Errorf("save document: %w", err))
	}
	if err := s.chunks.SaveBatch(ctx, chunks); err != nil {
		if delErr := s.documents.Delete(context.WithoutCancel(ctx), docID); delErr != nil {
			s.logger.Error("failed to remove document after chunk save failure", "document_id", docID, "error", delErr)
		}
		return s.rollback(ctx, result, fmt.Errorf("save chunks: %w", err))
	}

	result.Status = domain.IngestionDone
	s.logger.Info("ingestion complete", "document_id", docID, "chunks", len(pieces))
	return result, nil
}

// embedAll embeds chunk contents in batches of at most batchSize
func (s *ingestionService) embedAll(ctx context.Context, pieces []chunker.Chunk) ([][]float32, error) {
	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.Content
	}

	batch := s.batchSize
	if batch <= 0 || batch >= len(texts) {
		vectors, err := s.embedding.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("%w: got %d embeddings for %d chunks", domain.ErrProvider, len(vectors), len(texts))
		}
		return vectors, nil
	}

	all := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batch {
		end := start + batch
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := s.embedding.Embed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
		}
		if len(vectors) != end-start {
			return nil, fmt.Errorf("%w: got %d embeddings for %d chunks", domain.ErrProvider, len(vectors), end-start)
		}
		all = append(all, vectors...)
	}
	return all, nil
}

// rollback removes the document's vectors from the index after a
// post-indexing failure. When the rollback itself fails the document
// is left partially ingested and the caller is told so.
func (s *ingestionService) rollback(ctx context.Context, result *domain.IngestionResult, cause error) (*domain.IngestionResult, error) {
	s.logger.Warn("rolling back indexed vectors", "document_id", result.DocumentID, "cause", cause)

	if err := s.index.DeleteByDocument(context.WithoutCancel(ctx), result.DocumentID); err != nil {
		s.logger.Error("vector rollback failed", "document_id", result.DocumentID, "error", err)
		result.Status = domain.IngestionFailed
		result.FailedStage = domain.StagePersisted
		return result, fmt.Errorf("%w: %s: rollback failed: %v", domain.ErrPartialIngestion, cause.Error(), err)
	}

	return s.fail(result, domain.StagePersisted, cause)
}

func (s *ingestionService) fail(result *domain.IngestionResult, stage domain.IngestionStage, err error) (*domain.IngestionResult, error) {
	result.Status = domain.IngestionFailed
	result.FailedStage = stage
	s.logger.Error("ingestion failed", "document_id", result.DocumentID, "stage", stage, "error", err)
	return result, err
}
