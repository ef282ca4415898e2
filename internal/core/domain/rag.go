package domain

// AnswerRequest is a retrieval-augmented generation query.
// DocumentID optionally restricts retrieval to a single document.
// TopK < 0 means "use the configured default"; TopK == 0 retrieves nothing
// but still invokes generation with an empty context.
type AnswerRequest struct {
	Query      string `json:"query"`
	DocumentID string `json:"document_id,omitempty"`
	TopK       int    `json:"top_k"`
}

// RankedChunk is a retrieved chunk with its similarity score,
// ordered by descending relevance
type RankedChunk struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	Content    string  `json:"content"`
	Position   int     `json:"position"`
	Score      float64 `json:"score"`
}

// Answer is the result of a retrieval-augmented generation query.
// Context carries the exact prompt context handed to the generative model,
// kept for debugging and auditing.
type Answer struct {
	Query       string        `json:"query"`
	ChunksFound int           `json:"chunks_found"`
	Chunks      []RankedChunk `json:"chunks"`
	Response    string        `json:"response"`
	Context     string        `json:"context_used,omitempty"`
}

// CollectionInfo describes the state of the vector index
type CollectionInfo struct {
	Collection     string `json:"collection_name"`
	TotalVectors   int    `json:"total_vectors"`
	EmbeddingModel string `json:"embedding_model"`
}
