package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/jasiel-hdz/rag-search-api/internal/core/domain"
	"github.com/jasiel-hdz/rag-search-api/internal/extract"
)

// maxUploadBytes caps the size of an uploaded document
const maxUploadBytes = 50 << 20

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Checks database, cache, and vector index availability
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  StatusResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	ready := true

	if err := s.db.Ping(ctx); err != nil {
		checks["database"] = "unavailable"
		ready = false
	} else {
		checks["database"] = "ok"
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = "unavailable"
			ready = false
		} else {
			checks["cache"] = "ok"
		}
	}

	if err := s.index.HealthCheck(ctx); err != nil {
		checks["vector_index"] = "unavailable"
		ready = false
	} else {
		checks["vector_index"] = "ok"
	}

	status := http.StatusOK
	state := "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		state = "not ready"
	}
	writeJSON(w, status, map[string]interface{}{
		"status": state,
		"checks": checks,
	})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleLogin godoc
// @Summary      Admin login
// @Description  Authenticate with the admin password to receive a bearer token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Admin password"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "password is required")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Document endpoints

// handleUploadDocument godoc
// @Summary      Upload and ingest a document
// @Description  Accepts a multipart upload, extracts its text, and runs the
// @Description  ingestion pipeline (chunk, embed, index, persist)
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Document file (.txt, .md, .pdf)"
// @Success      201   {object}  domain.IngestionResult
// @Failure      400   {object}  ErrorResponse  "Missing file or unsupported type"
// @Failure      409   {object}  ErrorResponse  "Ingestion already in progress"
// @Failure      422   {object}  ErrorResponse  "No extractable text"
// @Failure      502   {object}  ErrorResponse  "Embedding or index failure"
// @Router       /documents/upload [post]
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	if !extract.Supported(header.Filename) {
		writeError(w, http.StatusBadRequest, "unsupported file type")
		return
	}

	path, err := s.storage.Save(r.Context(), header.Filename, file)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "invalid filename")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	text, err := extract.Text(path)
	if err != nil {
		_ = s.storage.Remove(path)
		switch {
		case errors.Is(err, domain.ErrUnsupportedFile):
			writeError(w, http.StatusBadRequest, "unsupported file type")
		case errors.Is(err, domain.ErrEmptyDocument):
			writeError(w, http.StatusUnprocessableEntity, "document contains no extractable text")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "invalid upload")
		default:
			writeError(w, http.StatusInternalServerError, "text extraction failed")
		}
		return
	}

	result, err := s.ingestionService.Ingest(r.Context(), header.Filename, text)
	if err != nil {
		// The stored file is only kept for successful ingestions
		_ = s.storage.Remove(path)

		status, message := ingestionErrorStatus(err)
		if result != nil {
			writeJSON(w, status, map[string]interface{}{
				"error":     message,
				"ingestion": result,
			})
			return
		}
		writeError(w, status, message)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// ingestionErrorStatus maps an ingestion failure to a response status
func ingestionErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, domain.ErrEmptyDocument):
		return http.StatusUnprocessableEntity, "document contains no extractable text"
	case errors.Is(err, domain.ErrIngestInProgress):
		return http.StatusConflict, "ingestion already in progress for this document"
	case errors.Is(err, domain.ErrProvider):
		return http.StatusBadGateway, "embedding provider unavailable"
	case errors.Is(err, domain.ErrIndex):
		return http.StatusBadGateway, "vector index unavailable"
	case errors.Is(err, domain.ErrPartialIngestion):
		return http.StatusInternalServerError, "ingestion left partial state"
	default:
		return http.StatusInternalServerError, "ingestion failed"
	}
}

// handleListDocuments godoc
// @Summary      List documents
// @Description  Returns ingested documents, newest first
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        limit   query     int  false  "Page size (default 50, max 200)"
// @Param        offset  query     int  false  "Page offset"
// @Success      200     {object}  map[string]interface{}
// @Router       /documents [get]
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 50
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			offset = n
		}
	}

	docs, err := s.documentService.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	total, err := s.documentService.Count(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count documents")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"documents": docs,
		"total":     total,
		"limit":     limit,
		"offset":    offset,
	})
}

// handleGetDocument godoc
// @Summary      Get a document
// @Description  Returns document metadata by ID
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.Document
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id} [get]
func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documentService.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "document id is required")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get document")
		}
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleGetDocumentChunks godoc
// @Summary      Get a document with its chunks
// @Description  Returns document metadata together with its chunks in order
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  domain.DocumentWithChunks
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Router       /documents/{id}/chunks [get]
func (s *Server) handleGetDocumentChunks(w http.ResponseWriter, r *http.Request) {
	doc, err := s.documentService.GetWithChunks(r.Context(), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "document id is required")
		default:
			writeError(w, http.StatusInternalServerError, "failed to get document chunks")
		}
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleDeleteDocument godoc
// @Summary      Delete a document
// @Description  Removes a document, its chunks, and its indexed vectors
// @Tags         Documents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  StatusResponse
// @Failure      404  {object}  ErrorResponse  "Document not found"
// @Failure      502  {object}  ErrorResponse  "Vector index unavailable"
// @Router       /documents/{id} [delete]
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	err := s.documentService.Delete(r.Context(), r.PathValue("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "document not found")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "document id is required")
		case errors.Is(err, domain.ErrIndex):
			writeError(w, http.StatusBadGateway, "vector index unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "failed to delete document")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// RAG endpoints

// queryRequest is the request body for a RAG query. A nil TopK means
// "use the configured default"; an explicit 0 skips retrieval.
type queryRequest struct {
	Query      string `json:"query"`
	DocumentID string `json:"document_id,omitempty"`
	TopK       *int   `json:"top_k,omitempty"`
}

// handleQuery godoc
// @Summary      Answer a query
// @Description  Retrieves the most similar chunks and generates an answer
// @Tags         RAG
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      queryRequest  true  "Query"
// @Success      200      {object}  domain.Answer
// @Failure      400      {object}  ErrorResponse  "Invalid request body or empty query"
// @Failure      502      {object}  ErrorResponse  "Provider, index, or generation failure"
// @Router       /rag/query [post]
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	topK := -1
	if req.TopK != nil {
		topK = *req.TopK
	}

	answer, err := s.ragService.Answer(r.Context(), domain.AnswerRequest{
		Query:      req.Query,
		DocumentID: req.DocumentID,
		TopK:       topK,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "query is required")
		case errors.Is(err, domain.ErrGeneration):
			// Retrieval succeeded; report what was found alongside the error
			writeJSON(w, http.StatusBadGateway, map[string]interface{}{
				"error":  "answer generation failed",
				"answer": answer,
			})
		case errors.Is(err, domain.ErrProvider):
			writeError(w, http.StatusBadGateway, "embedding provider unavailable")
		case errors.Is(err, domain.ErrIndex):
			writeError(w, http.StatusBadGateway, "vector index unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "query failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, answer)
}

// handleCollectionInfo godoc
// @Summary      Vector collection info
// @Description  Reports the vector index collection state
// @Tags         RAG
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.CollectionInfo
// @Failure      502  {object}  ErrorResponse  "Vector index unavailable"
// @Router       /rag/collection [get]
func (s *Server) handleCollectionInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.ragService.CollectionInfo(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrIndex) {
			writeError(w, http.StatusBadGateway, "vector index unavailable")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to get collection info")
		return
	}

	writeJSON(w, http.StatusOK, info)
}

// Response helpers

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
