// internal/api/interview_handler.go
package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/interviewlab/backend/internal/domain/interview"
	"github.com/interviewlab/backend/internal/service"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to disk.
const multipartMemory = 32 << 20

// ── Request / Response types ────────────────────────────────────────────────

type CreateInterviewRequest struct {
	InterviewType string `json:"interview_type" example:"Behavioral"`
	Difficulty    string `json:"difficulty" example:"Mid-Level"`
	QuestionCount int    `json:"question_count,omitempty" example:"5"`
}

func (r *CreateInterviewRequest) Validate() error {
	if r.InterviewType == "" {
		return errors.New("interview_type is required")
	}
	if r.Difficulty == "" {
		return errors.New("difficulty is required")
	}
	return nil
}

type SubmitResponseRequest struct {
	QuestionID string `json:"question_id"`
	Modality   string `json:"modality" example:"text"`
	Text       string `json:"text,omitempty"`
}

func (r *SubmitResponseRequest) Validate() error {
	if r.QuestionID == "" {
		return errors.New("question_id is required")
	}
	if r.Modality == "" {
		return errors.New("modality is required")
	}
	return nil
}

type SubmitResponseResponse struct {
	Evaluation *interview.EvaluationResult `json:"evaluation"`
	Interview  service.Snapshot            `json:"interview"`
}

// decodeAndValidate decodes a JSON body into v and runs its Validate method.
// Returns false if a response was already written (caller should return).
func decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{ Validate() error }) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := v.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// ── Handlers ────────────────────────────────────────────────────────────────

// getCatalog returns the configuration surface for building a new interview.
// @Summary      Interview catalog
// @Description  Interview types, difficulty levels, question limits and accepted media formats.
// @Tags         Interviews
// @Produce      json
// @Success      200  {object}  service.Catalog
// @Router       /catalog [get]
func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.svc.Catalog())
}

// createInterview starts a new mock interview.
// @Summary      Start an interview
// @Description  Generates questions for the chosen type and difficulty and starts the session. Falls back to a built-in question bank if generation fails.
// @Tags         Interviews
// @Accept       json
// @Produce      json
// @Param        body  body      CreateInterviewRequest  true  "Interview to start"
// @Success      201   {object}  service.Snapshot
// @Failure      400   {object}  errorResponse
// @Router       /interviews [post]
func (h *Handler) createInterview(w http.ResponseWriter, r *http.Request) {
	var req CreateInterviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	snap, err := h.svc.Start(r.Context(), req.InterviewType, req.Difficulty, req.QuestionCount)
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusCreated, snap)
}

// getInterview returns the current state of one interview.
// @Summary      Get an interview
// @Tags         Interviews
// @Produce      json
// @Param        interviewID  path      string  true  "Interview ID"
// @Success      200          {object}  service.Snapshot
// @Failure      404          {object}  errorResponse
// @Router       /interviews/{interviewID} [get]
func (h *Handler) getInterview(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Get(r.PathValue("interviewID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// submitResponse submits an answer to the current question.
// @Summary      Submit an answer
// @Description  Accepts application/json for text answers and multipart/form-data (fields question_id, modality, file) for audio and video answers. Blocks until the answer is evaluated.
// @Tags         Interviews
// @Accept       json
// @Accept       mpfd
// @Produce      json
// @Param        interviewID  path      string  true  "Interview ID"
// @Success      200          {object}  SubmitResponseResponse
// @Failure      400          {object}  errorResponse
// @Failure      409          {object}  errorResponse  "interview not in progress or wrong question"
// @Failure      422          {object}  errorResponse  "transcription failed"
// @Router       /interviews/{interviewID}/responses [post]
func (h *Handler) submitResponse(w http.ResponseWriter, r *http.Request) {
	interviewID := r.PathValue("interviewID")

	var sub service.SubmitRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		// Cap the body a little above the largest accepted upload; the
		// normalizer enforces the exact per-modality limit.
		limit := (h.svc.Catalog().MaxVideoSizeMB + 8) << 20
		r.Body = http.MaxBytesReader(w, r.Body, limit)

		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			respondError(w, http.StatusBadRequest, "invalid multipart body")
			return
		}
		defer r.MultipartForm.RemoveAll()

		sub.QuestionID = r.FormValue("question_id")
		sub.Modality = interview.Modality(r.FormValue("modality"))

		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "file field is required")
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			respondError(w, http.StatusBadRequest, "failed to read upload")
			return
		}
		sub.Filename = header.Filename
		sub.Data = data
	} else {
		var req SubmitResponseRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}
		sub.QuestionID = req.QuestionID
		sub.Modality = interview.Modality(req.Modality)
		sub.Text = req.Text
	}

	eval, snap, err := h.svc.Submit(r.Context(), interviewID, sub)
	if h.handleServiceError(w, err) {
		return
	}

	respondJSON(w, http.StatusOK, SubmitResponseResponse{
		Evaluation: eval,
		Interview:  snap,
	})
}

// resetInterview discards all answers and returns the session to its initial state.
// @Summary      Reset an interview
// @Tags         Interviews
// @Produce      json
// @Param        interviewID  path      string  true  "Interview ID"
// @Success      200          {object}  service.Snapshot
// @Failure      404          {object}  errorResponse
// @Router       /interviews/{interviewID}/reset [post]
func (h *Handler) resetInterview(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Reset(r.PathValue("interviewID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// getResults returns per-question evaluations and the running average score.
// @Summary      Interview results
// @Tags         Interviews
// @Produce      json
// @Param        interviewID  path      string  true  "Interview ID"
// @Success      200          {object}  service.Results
// @Failure      404          {object}  errorResponse
// @Router       /interviews/{interviewID}/results [get]
func (h *Handler) getResults(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Results(r.PathValue("interviewID"))
	if h.handleServiceError(w, err) {
		return
	}
	respondJSON(w, http.StatusOK, res)
}
