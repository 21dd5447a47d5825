package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"briefly-backend/internal/middleware"
	"briefly-backend/internal/models"
)

type RunReader interface {
	GetByID(ctx context.Context, sessionID string, id uuid.UUID) (*models.Run, error)
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]*models.Run, int, error)
}

type RunHandler struct {
	runs RunReader
}

func NewRunHandler(runs RunReader) *RunHandler {
	return &RunHandler{runs: runs}
}

func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20, 100)
	offset := queryInt(r, "offset", 0, 0)

	runs, total, err := h.runs.ListBySession(r.Context(), middleware.GetSessionID(r.Context()), limit, offset)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if runs == nil {
		runs = []*models.Run{}
	}
	writeJSON(w, http.StatusOK, models.RunListResponse{Runs: runs, Total: total})
}

func (h *RunHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, ok := h.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// Export downloads the run's summary as a plain text file.
func (h *RunHandler) Export(w http.ResponseWriter, r *http.Request) {
	run, ok := h.load(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="summary.txt"`)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(run.Summary))
}

func (h *RunHandler) load(w http.ResponseWriter, r *http.Request) (*models.Run, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid run ID", r))
		return nil, false
	}

	run, err := h.runs.GetByID(r.Context(), middleware.GetSessionID(r.Context()), id)
	if err != nil {
		handleServiceError(w, r, err)
		return nil, false
	}
	return run, true
}

// HistoryDisabled answers run endpoints when no database is configured.
func HistoryDisabled(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusServiceUnavailable, errorResp("HISTORY_DISABLED", "Run history requires DATABASE_URL", r))
}
