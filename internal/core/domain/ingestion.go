package domain

// IngestionStage identifies a step in the ingestion pipeline.
// A failed ingestion reports the stage that failed.
type IngestionStage string

const (
	StageReceived  IngestionStage = "received"
	StageChunked   IngestionStage = "chunked"
	StageEmbedded  IngestionStage = "embedded"
	StageIndexed   IngestionStage = "indexed"
	StagePersisted IngestionStage = "persisted"
	StageDone      IngestionStage = "done"
)

// IngestionStatus is the terminal outcome of an ingestion
type IngestionStatus string

const (
	IngestionDone   IngestionStatus = "done"
	IngestionFailed IngestionStatus = "failed"
)

// IngestionResult is returned to the caller after an upload is processed
type IngestionResult struct {
	DocumentID  string          `json:"document_id,omitempty"`
	Filename    string          `json:"filename"`
	ChunkCount  int             `json:"chunk_count"`
	Status      IngestionStatus `json:"status"`
	FailedStage IngestionStage  `json:"failed_stage,omitempty"`
}
