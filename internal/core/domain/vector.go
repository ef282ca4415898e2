package domain

// VectorRecord is the unit of storage in the vector index: a chunk embedding
// plus the metadata needed to surface the chunk without a store lookup.
// Records are keyed by chunk ID; upserting an existing ID replaces the record.
type VectorRecord struct {
	ChunkID    string    `json:"chunk_id"`
	DocumentID string    `json:"document_id"`
	Content    string    `json:"content"`
	Position   int       `json:"position"`
	Embedding  []float32 `json:"embedding"`
}

// ScoredRecord is a vector record paired with its similarity to a query vector.
// Scores are cosine similarity (or a documented monotonic transform of it) and
// are comparable across queries within one deployment.
type ScoredRecord struct {
	Record VectorRecord `json:"record"`
	Score  float64      `json:"score"`
}
