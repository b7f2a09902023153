// internal/api/handler.go
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/interviewlab/backend/internal/domain/interview"
	"github.com/interviewlab/backend/internal/llm"
	"github.com/interviewlab/backend/internal/media"
	"github.com/interviewlab/backend/internal/service"
	"github.com/interviewlab/backend/internal/store"
)

// Handler holds all dependencies needed by HTTP handlers.
// Instead of relying on package-level globals, every handler method
// receives its dependencies through this struct.
type Handler struct {
	svc     *service.InterviewService
	archive *store.SQLiteStore
	logger  *slog.Logger
}

// NewHandler creates a Handler with the given dependencies. The archive may
// be nil; history and export endpoints then answer 503.
func NewHandler(svc *service.InterviewService, archive *store.SQLiteStore, logger *slog.Logger) *Handler {
	return &Handler{
		svc:     svc,
		archive: archive,
		logger:  logger,
	}
}

// respondJSON writes a JSON response with the given status code.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// handleServiceError maps service and domain errors onto HTTP status codes
// and writes the response. Returns true if an error was handled (caller
// should return).
func (h *Handler) handleServiceError(w http.ResponseWriter, err error) bool {
	if err == nil {
		return false
	}

	var transcription *llm.TranscriptionError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "interview not found")
	case errors.Is(err, interview.ErrNotInProgress),
		errors.Is(err, interview.ErrQuestionMismatch):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnknownInterviewType),
		errors.Is(err, service.ErrUnknownDifficulty),
		errors.Is(err, service.ErrBadQuestionCount),
		errors.Is(err, service.ErrEmptyAnswer),
		errors.Is(err, service.ErrMissingFile),
		errors.Is(err, media.ErrUnsupportedFormat),
		errors.Is(err, media.ErrFileTooLarge),
		errors.Is(err, media.ErrTextModality):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &transcription):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
	}
	return true
}

// handleStoreError checks for common archive errors and writes the
// appropriate HTTP response. Returns true if an error was handled.
func (h *Handler) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotFound) {
		respondError(w, http.StatusNotFound, entity+" not found")
		return true
	}
	h.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, "internal error")
	return true
}
