// Package chunker splits document text into fixed-size overlapping windows.
package chunker

import "fmt"

// Config controls how text is split
type Config struct {
	// ChunkSize is the maximum chunk length in runes
	ChunkSize int

	// Overlap is how many trailing runes of one chunk reappear at the
	// start of the next. Must be smaller than ChunkSize.
	Overlap int
}

// Chunk is one window of the source text
type Chunk struct {
	Content   string
	Position  int
	StartChar int
	EndChar   int
}

// Chunker splits text deterministically according to its Config
type Chunker struct {
	cfg Config
}

// New creates a Chunker. It returns an error when the config would not
// make forward progress.
func New(cfg Config) (*Chunker, error) {
	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", cfg.ChunkSize)
	}
	if cfg.Overlap < 0 {
		return nil, fmt.Errorf("overlap must not be negative, got %d", cfg.Overlap)
	}
	if cfg.Overlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("overlap %d must be smaller than chunk size %d", cfg.Overlap, cfg.ChunkSize)
	}
	return &Chunker{cfg: cfg}, nil
}

// Split cuts text into windows of at most ChunkSize runes, stepping by
// ChunkSize-Overlap. Offsets are rune offsets into the original text.
// Empty input yields no chunks.
func (c *Chunker) Split(text string) []Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.cfg.ChunkSize - c.cfg.Overlap
	var chunks []Chunk
	for start := 0; start < len(runes); start += step {
		end := start + c.cfg.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			Content:   string(runes[start:end]),
			Position:  len(chunks),
			StartChar: start,
			EndChar:   end,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
