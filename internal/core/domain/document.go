package domain

import "time"

// Document represents an ingested document. Documents are immutable once
// ingested; re-uploading produces a new document with a new identity.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	TextLength int       `json:"text_length"` // length of the extracted text, in runes
	ChunkCount int       `json:"chunk_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Chunk represents a retrievable unit of a document
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Content    string    `json:"content"`
	Position   int       `json:"position"` // Chunk position within document
	StartChar  int       `json:"start_char"`
	EndChar    int       `json:"end_char"`
	Embedding  []float32 `json:"embedding,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// DocumentWithChunks combines a document with its chunks
type DocumentWithChunks struct {
	Document *Document `json:"document"`
	Chunks   []Chunk   `json:"chunks"`
}
