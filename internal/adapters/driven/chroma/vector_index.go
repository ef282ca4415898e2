// Package chroma implements the vector index against a ChromaDB
// server over its REST API.
package chroma

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
	"github.com/jasiel-hdz/rag-search-api/internal/core/ports/driven"
)

// Ensure VectorIndex implements driven.VectorIndex
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex talks to a ChromaDB collection. The collection is
// created on first use if it does not exist.
type VectorIndex struct {
	baseURL      string
	collection   string
	collectionID string
	client       *http.Client
}

// NewVectorIndex connects to the ChromaDB server at baseURL and
// resolves (or creates) the named collection.
func NewVectorIndex(ctx context.Context, baseURL, collection string) (*VectorIndex, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("chroma base URL is required")
	}
	if collection == "" {
		collection = "documents"
	}

	idx := &VectorIndex{
		baseURL:    baseURL,
		collection: collection,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}

	if err := idx.ensureCollection(ctx); err != nil {
		return nil, err
	}
	return idx, nil
}

type collectionResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (idx *VectorIndex) ensureCollection(ctx context.Context) error {
	body := map[string]interface{}{
		"name":          idx.collection,
		"get_or_create": true,
		"metadata":      map[string]string{"description": "Document chunk embeddings"},
	}

	var resp collectionResponse
	if err := idx.post(ctx, "/api/v1/collections", body, &resp); err != nil {
		return fmt.Errorf("get or create collection: %w", err)
	}
	if resp.ID == "" {
		return fmt.Errorf("%w: collection response missing id", domain.ErrIndex)
	}
	idx.collectionID = resp.ID
	return nil
}

// Upsert writes records into the collection keyed by chunk ID
func (idx *VectorIndex) Upsert(ctx context.Context, records []domain.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	ids := make([]string, len(records))
	embeddings := make([][]float32, len(records))
	documents := make([]string, len(records))
	metadatas := make([]map[string]interface{}, len(records))
	for i, r := range records {
		ids[i] = r.ChunkID
		embeddings[i] = r.Embedding
		documents[i] = r.Content
		metadatas[i] = map[string]interface{}{
			"document_id": r.DocumentID,
			"position":    r.Position,
		}
	}

	body := map[string]interface{}{
		"ids":        ids,
		"embeddings": embeddings,
		"documents":  documents,
		"metadatas":  metadatas,
	}
	return idx.post(ctx, "/api/v1/collections/"+idx.collectionID+"/upsert", body, nil)
}

type queryResponse struct {
	IDs       [][]string                 `json:"ids"`
	Distances [][]float64                `json:"distances"`
	Documents [][]string                 `json:"documents"`
	Metadatas [][]map[string]interface{} `json:"metadatas"`
}

// Query returns the k nearest records, highest score first. The score
// is 1 minus the reported distance. Results are re-sorted locally so
// ties break on ascending chunk ID regardless of server order.
func (idx *VectorIndex) Query(ctx context.Context, vector []float32, k int, documentID string) ([]domain.ScoredRecord, error) {
	if k <= 0 {
		return nil, nil
	}

	body := map[string]interface{}{
		"query_embeddings": [][]float32{vector},
		"n_results":        k,
		"include":          []string{"documents", "metadatas", "distances"},
	}
	if documentID != "" {
		body["where"] = map[string]interface{}{"document_id": documentID}
	}

	var resp queryResponse
	if err := idx.post(ctx, "/api/v1/collections/"+idx.collectionID+"/query", body, &resp); err != nil {
		return nil, err
	}
	if len(resp.IDs) == 0 {
		return nil, nil
	}

	ids := resp.IDs[0]
	scored := make([]domain.ScoredRecord, 0, len(ids))
	for i, id := range ids {
		rec := domain.VectorRecord{ChunkID: id}
		if len(resp.Documents) > 0 && i < len(resp.Documents[0]) {
			rec.Content = resp.Documents[0][i]
		}
		if len(resp.Metadatas) > 0 && i < len(resp.Metadatas[0]) {
			meta := resp.Metadatas[0][i]
			if docID, ok := meta["document_id"].(string); ok {
				rec.DocumentID = docID
			}
			if pos, ok := meta["position"].(float64); ok {
				rec.Position = int(pos)
			}
		}

		score := 0.0
		if len(resp.Distances) > 0 && i < len(resp.Distances[0]) {
			score = 1 - resp.Distances[0][i]
		}
		scored = append(scored, domain.ScoredRecord{Record: rec, Score: score})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Record.ChunkID < scored[j].Record.ChunkID
	})
	return scored, nil
}

// DeleteByDocument removes every record belonging to a document
func (idx *VectorIndex) DeleteByDocument(ctx context.Context, documentID string) error {
	body := map[string]interface{}{
		"where": map[string]interface{}{"document_id": documentID},
	}
	return idx.post(ctx, "/api/v1/collections/"+idx.collectionID+"/delete", body, nil)
}

// Count returns the number of vectors in the collection
func (idx *VectorIndex) Count(ctx context.Context) (int, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", idx.baseURL+"/api/v1/collections/"+idx.collectionID+"/count", nil)
	if err != nil {
		return 0, err
	}

	resp, err := idx.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: count returned status %d: %s", domain.ErrIndex, resp.StatusCode, respBody)
	}

	var count int
	if err := json.Unmarshal(respBody, &count); err != nil {
		return 0, fmt.Errorf("%w: parse count: %v", domain.ErrIndex, err)
	}
	return count, nil
}

// HealthCheck pings the server heartbeat endpoint
func (idx *VectorIndex) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", idx.baseURL+"/api/v1/heartbeat", nil)
	if err != nil {
		return err
	}

	resp, err := idx.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: heartbeat returned status %d", domain.ErrIndex, resp.StatusCode)
	}
	return nil
}

func (idx *VectorIndex) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", idx.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := idx.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrIndex, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", domain.ErrIndex, err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("%w: %s returned status %d: %s", domain.ErrIndex, path, resp.StatusCode, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("%w: parse response: %v", domain.ErrIndex, err)
		}
	}
	return nil
}
