// internal/api/router.go
package api

import "net/http"

// RegisterRoutes attaches all API routes to the mux.
func RegisterRoutes(mux *http.ServeMux, h *Handler) {
	// Catalog
	mux.HandleFunc("GET /catalog", h.getCatalog)

	// Interviews
	mux.HandleFunc("POST /interviews", h.createInterview)
	mux.HandleFunc("GET /interviews/{interviewID}", h.getInterview)
	mux.HandleFunc("POST /interviews/{interviewID}/responses", h.submitResponse)
	mux.HandleFunc("POST /interviews/{interviewID}/reset", h.resetInterview)
	mux.HandleFunc("GET /interviews/{interviewID}/results", h.getResults)

	// History
	mux.HandleFunc("GET /history", h.getHistory)
	mux.HandleFunc("GET /history/{interviewID}", h.getHistoryDetail)
	mux.HandleFunc("GET /export", h.exportAll)
}
