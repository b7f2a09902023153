// internal/api/archive_handler.go
package api

import (
	"net/http"
	"time"

	"github.com/interviewlab/backend/internal/store"
)

// ── Request / Response types ────────────────────────────────────────────────

type HistoryResponse struct {
	Interviews []store.ArchivedInterview `json:"interviews"`
}

type HistoryDetailResponse struct {
	InterviewID string                 `json:"interview_id"`
	Answers     []store.ArchivedAnswer `json:"answers"`
}

type ExportInterview struct {
	store.ArchivedInterview
	Answers []store.ArchivedAnswer `json:"answers"`
}

type ExportData struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Interviews []ExportInterview `json:"interviews"`
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getHistory lists archived interviews, newest first.
// @Summary      Interview history
// @Description  Completed interviews that were written to the archive.
// @Tags         History
// @Produce      json
// @Success      200  {object}  HistoryResponse
// @Failure      503  {object}  errorResponse  "archive disabled"
// @Router       /history [get]
func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "archive disabled")
		return
	}

	interviews, err := h.archive.ListArchived(r.Context())
	if err != nil {
		h.logger.Error("failed to list archive", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if interviews == nil {
		interviews = []store.ArchivedInterview{}
	}

	respondJSON(w, http.StatusOK, HistoryResponse{Interviews: interviews})
}

// getHistoryDetail returns the archived answers of one interview.
// @Summary      Archived interview detail
// @Tags         History
// @Produce      json
// @Param        interviewID  path      string  true  "Interview ID"
// @Success      200          {object}  HistoryDetailResponse
// @Failure      404          {object}  errorResponse
// @Router       /history/{interviewID} [get]
func (h *Handler) getHistoryDetail(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "archive disabled")
		return
	}

	interviewID := r.PathValue("interviewID")
	answers, err := h.archive.GetAnswers(r.Context(), interviewID)
	if h.handleStoreError(w, err, "interview") {
		return
	}

	respondJSON(w, http.StatusOK, HistoryDetailResponse{
		InterviewID: interviewID,
		Answers:     answers,
	})
}

// exportAll dumps the whole archive as one JSON document.
// @Summary      Export the archive
// @Tags         History
// @Produce      json
// @Success      200  {object}  ExportData
// @Failure      503  {object}  errorResponse  "archive disabled"
// @Router       /export [get]
func (h *Handler) exportAll(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, http.StatusServiceUnavailable, "archive disabled")
		return
	}
	ctx := r.Context()

	interviews, err := h.archive.ListArchived(ctx)
	if err != nil {
		h.logger.Error("failed to list archive", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to export")
		return
	}

	data := ExportData{
		Version:    "1.0",
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Interviews: make([]ExportInterview, 0, len(interviews)),
	}

	for _, iv := range interviews {
		answers, err := h.archive.GetAnswers(ctx, iv.ID)
		if err != nil {
			continue
		}
		data.Interviews = append(data.Interviews, ExportInterview{
			ArchivedInterview: iv,
			Answers:           answers,
		})
	}

	respondJSON(w, http.StatusOK, data)
}
