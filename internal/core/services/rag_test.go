package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jasiel-hdz/rag-search-api/internal/chunker"
	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driven/mocks"
)

type ragFixture struct {
	embedding  *mocks.MockEmbeddingService
	index      *mocks.MockVectorIndex
	generation *mocks.MockGenerationService
	svc        *ragService
}

func newRAGFixture(topKDefault int) *ragFixture {
	f := &ragFixture{
		embedding:  mocks.NewMockEmbeddingService(),
		index:      mocks.NewMockVectorIndex(),
		generation: mocks.NewMockGenerationService(),
	}
	f.svc = NewRAGService(RAGConfig{
		Embedding:   f.embedding,
		Index:       f.index,
		Generation:  f.generation,
		Collection:  "documents",
		TopKDefault: topKDefault,
	}).(*ragService)
	return f
}

func (f *ragFixture) seed(t *testing.T, records ...domain.VectorRecord) {
	t.Helper()
	if err := f.index.Upsert(context.Background(), records); err != nil {
		t.Fatalf("failed to seed index: %v", err)
	}
}

func TestAnswer_RejectsEmptyQuery(t *testing.T) {
	f := newRAGFixture(5)

	_, err := f.svc.Answer(context.Background(), domain.AnswerRequest{Query: "   "})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if f.generation.Calls != 0 {
		t.Error("generation must not run for an invalid query")
	}
}

func TestAnswer_RanksBySimilarity(t *testing.T) {
	f := newRAGFixture(5)
	f.embedding.SetFixed("what color is the sky?", []float32{1, 0, 0})
	f.seed(t,
		domain.VectorRecord{ChunkID: "d1-chunk-0", DocumentID: "d1", Content: "The sky is blue.", Position: 0, Embedding: []float32{0.9, 0.1, 0}},
		domain.VectorRecord{ChunkID: "d1-chunk-1", DocumentID: "d1", Content: "Grass is green.", Position: 1, Embedding: []float32{0, 1, 0}},
		domain.VectorRecord{ChunkID: "d2-chunk-0", DocumentID: "d2", Content: "Water is wet.", Position: 0, Embedding: []float32{0.5, 0.5, 0}},
	)
	f.generation.SetResponse("The sky is blue.")

	answer, err := f.svc.Answer(context.Background(), domain.AnswerRequest{Query: "what color is the sky?", TopK: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if answer.ChunksFound != 2 {
		t.Fatalf("expected 2 chunks, got %d", answer.ChunksFound)
	}
	if answer.Chunks[0].ChunkID != "d1-chunk-0" {
		t.Errorf("expected best match d1-chunk-0, got %s", answer.Chunks[0].ChunkID)
	}
	if answer.Chunks[1].ChunkID != "d2-chunk-0" {
		t.Errorf("expected second match d2-chunk-0, got %s", answer.Chunks[1].ChunkID)
	}
	if answer.Chunks[0].Score < answer.Chunks[1].Score {
		t.Error("chunks not ordered by descending score")
	}
	if answer.Response != "The sky is blue." {
		t.Errorf("unexpected response %q", answer.Response)
	}

	// Generation received the rendered context
	if !strings.Contains(f.generation.LastContext, "The sky is blue.") {
		t.Errorf("context missing best chunk: %q", f.generation.LastContext)
	}
}

func TestAnswer_DocumentFilter(t *testing.T) {
	f := newRAGFixture(5)
	f.embedding.SetFixed("query", []float32{1, 0})
	f.seed(t,
		domain.VectorRecord{ChunkID: "d1-chunk-0", DocumentID: "d1", Content: "from d1", Embedding: []float32{1, 0}},
		domain.VectorRecord{ChunkID: "d2-chunk-0", DocumentID: "d2", Content: "from d2", Embedding: []float32{1, 0}},
	)

	answer, err := f.svc.Answer(context.Background(), domain.AnswerRequest{Query: "query", DocumentID: "d2", TopK: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.ChunksFound != 1 {
		t.Fatalf("expected 1 chunk, got %d", answer.ChunksFound)
	}
	if answer.Chunks[0].DocumentID != "d2" {
		t.Errorf("filter leaked chunk from %s", answer.Chunks[0].DocumentID)
	}
}

func TestAnswer_TopKZeroSkipsRetrieval(t *testing.T) {
	f := newRAGFixture(5)
	f.seed(t, domain.VectorRecord{ChunkID: "d1-chunk-0", DocumentID: "d1", Content: "ignored", Embedding: []float32{1}})
	f.generation.SetResponse("I don't have relevant context.")

	answer, err := f.svc.Answer(context.Background(), domain.AnswerRequest{Query: "anything", TopK: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if answer.ChunksFound != 0 {
		t.Errorf("expected no chunks, got %d", answer.ChunksFound)
	}
	if answer.Context != "No relevant information found." {
		t.Errorf("expected fallback context, got %q", answer.Context)
	}
	if f.generation.Calls != 1 {
		t.Error("generation should still run with the fallback context")
	}
	if answer.Response != "I don't have relevant context." {
		t.Errorf("unexpected response %q", answer.Response)
	}
}

func TestAnswer_NegativeTopKUsesDefault(t *testing.T) {
	f := newRAGFixture(2)
	f.embedding.SetFixed("query", []float32{1, 0})
	f.seed(t,
		domain.VectorRecord{ChunkID: "d1-chunk-0", DocumentID: "d1", Content: "a", Embedding: []float32{1, 0}},
		domain.VectorRecord{ChunkID: "d1-chunk-1", DocumentID: "d1", Content: "b", Embedding: []float32{0.9, 0.1}},
		domain.VectorRecord{ChunkID: "d1-chunk-2", DocumentID: "d1", Content: "c", Embedding: []float32{0.8, 0.2}},
	)

	answer, err := f.svc.Answer(context.Background(), domain.AnswerRequest{Query: "query", TopK: -1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer.ChunksFound != 2 {
		t.Errorf("expected default top-k of 2 chunks, got %d", answer.ChunksFound)
	}
}

func TestAnswer_EmbeddingFailure(t *testing.T) {
	f := newRAGFixture(5)
	f.embedding.SetFailNext(true)

	_, err := f.svc.Answer(context.Background(), domain.AnswerRequest{Query: "query", TopK: 5})
	if !errors.Is(err, domain.ErrProvider) {
		t.Errorf("expected ErrProvider, got %v", err)
	}
	if f.generation.Calls != 0 {
		t.Error("generation must not run when query embedding fails")
	}
}

func TestAnswer_IndexFailure(t *testing.T) {
	f := newRAGFixture(5)
	f.index.SetFailQuery(true)

	_, err := f.svc.Answer(context.Background(), domain.AnswerRequest{Query: "query", TopK: 5})
	if !errors.Is(err, domain.ErrIndex) {
		t.Errorf("expected ErrIndex, got %v", err)
	}
}

func TestAnswer_GenerationFailureKeepsRetrieval(t *testing.T) {
	f := newRAGFixture(5)
	f.embedding.SetFixed("query", []float32{1, 0})
	f.seed(t, domain.VectorRecord{ChunkID: "d1-chunk-0", DocumentID: "d1", Content: "still here", Embedding: []float32{1, 0}})
	f.generation.SetFailNext(true)

	answer, err := f.svc.Answer(context.Background(), domain.AnswerRequest{Query: "query", TopK: 5})
	if !errors.Is(err, domain.ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if answer == nil {
		t.Fatal("expected partial answer alongside the error")
	}
	if answer.ChunksFound != 1 {
		t.Errorf("expected retrieved chunks to survive, got %d", answer.ChunksFound)
	}
	if !strings.Contains(answer.Context, "still here") {
		t.Errorf("expected context to survive, got %q", answer.Context)
	}
	if answer.Response != "" {
		t.Errorf("expected empty response, got %q", answer.Response)
	}
}

func TestCollectionInfo(t *testing.T) {
	f := newRAGFixture(5)
	f.seed(t,
		domain.VectorRecord{ChunkID: "d1-chunk-0", DocumentID: "d1", Embedding: []float32{1}},
		domain.VectorRecord{ChunkID: "d1-chunk-1", DocumentID: "d1", Embedding: []float32{1}},
	)

	info, err := f.svc.CollectionInfo(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Collection != "documents" {
		t.Errorf("unexpected collection name %s", info.Collection)
	}
	if info.TotalVectors != 2 {
		t.Errorf("expected 2 vectors, got %d", info.TotalVectors)
	}
	if info.EmbeddingModel != "mock-embedding-model" {
		t.Errorf("unexpected model %s", info.EmbeddingModel)
	}
}

// TestPipeline_IngestThenAnswer walks a document through ingestion and
// asks a question against it end to end on in-memory adapters.
func TestPipeline_IngestThenAnswer(t *testing.T) {
	embedding := mocks.NewMockEmbeddingService()
	index := mocks.NewMockVectorIndex()
	generation := mocks.NewMockGenerationService()

	// Steer similarity so the sky chunk wins for the sky question
	embedding.SetFixed("The sky is blue.", []float32{1, 0, 0})
	embedding.SetFixed(" Grass is green.", []float32{0, 1, 0})
	embedding.SetFixed("What color is the sky?", []float32{0.95, 0.05, 0})

	ch, err := chunker.New(chunker.Config{ChunkSize: 16})
	if err != nil {
		t.Fatalf("failed to create chunker: %v", err)
	}

	ingest := NewIngestionService(IngestionConfig{
		Chunker:   ch,
		Embedding: embedding,
		Index:     index,
		Documents: mocks.NewMockDocumentStore(),
		Chunks:    mocks.NewMockChunkStore(),
		Lock:      mocks.NewMockDistributedLock(),
	})
	rag := NewRAGService(RAGConfig{
		Embedding:  embedding,
		Index:      index,
		Generation: generation,
	})

	result, err := ingest.Ingest(context.Background(), "facts.txt", "The sky is blue. Grass is green.")
	if err != nil {
		t.Fatalf("ingestion failed: %v", err)
	}
	if result.ChunkCount != 2 {
		t.Fatalf("expected 2 chunks, got %d", result.ChunkCount)
	}

	generation.SetResponse("The sky is blue.")
	answer, err := rag.Answer(context.Background(), domain.AnswerRequest{Query: "What color is the sky?", TopK: 1})
	if err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	if answer.ChunksFound != 1 {
		t.Fatalf("expected 1 chunk, got %d", answer.ChunksFound)
	}
	if answer.Chunks[0].Content != "The sky is blue." {
		t.Errorf("expected the sky chunk to win, got %q", answer.Chunks[0].Content)
	}
	if answer.Chunks[0].ChunkID != result.DocumentID+"-chunk-0" {
		t.Errorf("unexpected chunk ID %s", answer.Chunks[0].ChunkID)
	}
	if answer.Response != "The sky is blue." {
		t.Errorf("unexpected response %q", answer.Response)
	}
	if !strings.Contains(answer.Context, "The sky is blue.") {
		t.Errorf("context missing winning chunk: %q", answer.Context)
	}
}
