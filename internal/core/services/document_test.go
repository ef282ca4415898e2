package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driven/mocks"
)

func newDocumentFixture() (*mocks.MockDocumentStore, *mocks.MockChunkStore, *mocks.MockVectorIndex, *documentService) {
	documents := mocks.NewMockDocumentStore()
	chunks := mocks.NewMockChunkStore()
	index := mocks.NewMockVectorIndex()
	svc := NewDocumentService(documents, chunks, index).(*documentService)
	return documents, chunks, index, svc
}

func TestDocumentService_Get(t *testing.T) {
	documents, _, _, svc := newDocumentFixture()

	doc := &domain.Document{
		ID:         "doc-123",
		Filename:   "notes.txt",
		TextLength: 120,
		ChunkCount: 3,
		CreatedAt:  time.Now(),
	}
	_ = documents.Save(context.Background(), doc)

	result, err := svc.Get(context.Background(), "doc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Filename != "notes.txt" {
		t.Errorf("expected filename notes.txt, got %s", result.Filename)
	}

	_, err = svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentService_GetWithChunks(t *testing.T) {
	documents, chunks, _, svc := newDocumentFixture()

	_ = documents.Save(context.Background(), &domain.Document{ID: "doc-123", Filename: "notes.txt"})
	_ = chunks.SaveBatch(context.Background(), []domain.Chunk{
		{ID: "doc-123-chunk-1", DocumentID: "doc-123", Content: "second", Position: 1},
		{ID: "doc-123-chunk-0", DocumentID: "doc-123", Content: "first", Position: 0},
	})

	result, err := svc.GetWithChunks(context.Background(), "doc-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(result.Chunks))
	}
	if result.Chunks[0].Position != 0 || result.Chunks[1].Position != 1 {
		t.Error("chunks not ordered by position")
	}
}

func TestDocumentService_List(t *testing.T) {
	documents, _, _, svc := newDocumentFixture()

	base := time.Now()
	for i, id := range []string{"doc-a", "doc-b", "doc-c"} {
		_ = documents.Save(context.Background(), &domain.Document{
			ID:        id,
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		})
	}

	all, err := svc.List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 documents, got %d", len(all))
	}
	// Newest first
	if all[0].ID != "doc-c" {
		t.Errorf("expected doc-c first, got %s", all[0].ID)
	}

	page, err := svc.List(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 1 || page[0].ID != "doc-b" {
		t.Errorf("unexpected page result: %+v", page)
	}

	count, err := svc.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
}

func TestDocumentService_DeleteCascades(t *testing.T) {
	documents, chunks, index, svc := newDocumentFixture()

	_ = documents.Save(context.Background(), &domain.Document{ID: "doc-123"})
	_ = documents.Save(context.Background(), &domain.Document{ID: "doc-other"})
	_ = chunks.SaveBatch(context.Background(), []domain.Chunk{
		{ID: "doc-123-chunk-0", DocumentID: "doc-123"},
	})
	_ = index.Upsert(context.Background(), []domain.VectorRecord{
		{ChunkID: "doc-123-chunk-0", DocumentID: "doc-123", Embedding: []float32{1}},
		{ChunkID: "doc-other-chunk-0", DocumentID: "doc-other", Embedding: []float32{1}},
	})

	if err := svc.Delete(context.Background(), "doc-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := documents.Get(context.Background(), "doc-123"); !errors.Is(err, domain.ErrNotFound) {
		t.Error("document record should be gone")
	}
	got, _ := chunks.GetByDocument(context.Background(), "doc-123")
	if len(got) != 0 {
		t.Errorf("expected chunks removed, got %d", len(got))
	}

	// Other documents untouched
	count, _ := index.Count(context.Background())
	if count != 1 {
		t.Errorf("expected 1 surviving vector, got %d", count)
	}
	if _, err := documents.Get(context.Background(), "doc-other"); err != nil {
		t.Errorf("unrelated document should survive: %v", err)
	}
}

func TestDocumentService_DeleteMissing(t *testing.T) {
	_, _, _, svc := newDocumentFixture()

	err := svc.Delete(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDocumentService_DeleteIndexFailureKeepsMetadata(t *testing.T) {
	documents, _, index, svc := newDocumentFixture()

	_ = documents.Save(context.Background(), &domain.Document{ID: "doc-123"})
	index.SetFailDelete(true)

	err := svc.Delete(context.Background(), "doc-123")
	if !errors.Is(err, domain.ErrIndex) {
		t.Fatalf("expected ErrIndex, got %v", err)
	}
	if _, err := documents.Get(context.Background(), "doc-123"); err != nil {
		t.Error("metadata must survive when the index delete fails")
	}
}
