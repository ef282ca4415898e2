package domain

import "errors"

// Domain errors - used across all layers
var (
	// ErrNotFound indicates the requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates the input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication failed or missing
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials indicates a wrong admin password
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenExpired indicates the auth token has expired
	ErrTokenExpired = errors.New("token expired")

	// ErrTokenInvalid indicates the auth token is malformed or invalid
	ErrTokenInvalid = errors.New("token invalid")

	// ErrUnsupportedFile indicates the uploaded file type cannot be ingested
	ErrUnsupportedFile = errors.New("unsupported file type")

	// ErrEmptyDocument indicates the extracted text produced zero chunks
	ErrEmptyDocument = errors.New("empty document")

	// ErrProvider indicates an embedding or generation call failed after
	// exhausting retries, or failed in a non-retryable way
	ErrProvider = errors.New("provider error")

	// ErrIndex indicates a vector index read or write failure
	ErrIndex = errors.New("vector index error")

	// ErrPartialIngestion indicates an ingestion left inconsistent state
	// that could not be rolled back; operator attention is required
	ErrPartialIngestion = errors.New("partial ingestion")

	// ErrIngestInProgress indicates another ingestion of the same document
	// is already running
	ErrIngestInProgress = errors.New("ingestion already in progress")

	// ErrGeneration indicates retrieval succeeded but answer generation
	// failed; retrieval results are still reported for diagnostics
	ErrGeneration = errors.New("generation failed")
)
