package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefly-backend/internal/middleware"
	"briefly-backend/internal/models"
	"briefly-backend/internal/repository"
)

type JobStore interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
	UpdateError(ctx context.Context, id uuid.UUID, errMsg string) error
}

type JobQueue interface {
	Enqueue(ctx context.Context, job *models.Job) error
}

type JobHandler struct {
	jobs   JobStore
	queue  JobQueue
	logger *zap.Logger
}

func NewJobHandler(jobs JobStore, queue JobQueue, logger *zap.Logger) *JobHandler {
	return &JobHandler{jobs: jobs, queue: queue, logger: logger}
}

// Enqueue accepts a distill request for background processing. Validation
// happens up front so a queued job only fails for reasons the caller can't see.
func (h *JobHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	var req models.DistillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	fields := map[string]string{}
	if _, _, settingErrs := parseSettings(req.Format, req.DetailLevel); settingErrs != nil {
		fields = settingErrs
	}
	if isBlank(req.Text) {
		fields["text"] = "is required"
	}
	if len(fields) > 0 {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	job := &models.Job{
		SessionID: middleware.GetSessionID(r.Context()),
		Request:   req,
	}
	if err := h.jobs.Create(r.Context(), job); err != nil {
		h.logger.Warn("failed to create job", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to create job", r))
		return
	}

	if err := h.queue.Enqueue(r.Context(), job); err != nil {
		h.logger.Warn("failed to enqueue job", zap.String("job_id", job.ID.String()), zap.Error(err))
		h.jobs.UpdateError(r.Context(), job.ID, "failed to enqueue job")
		writeJSON(w, http.StatusServiceUnavailable, errorResp("QUEUE_UNAVAILABLE", "Could not queue the run", r))
		return
	}

	writeJSON(w, http.StatusAccepted, models.JobAcceptedResponse{JobID: job.ID, Status: job.Status})
}

func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid job ID", r))
		return
	}

	job, err := h.jobs.GetByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if job.SessionID != middleware.GetSessionID(r.Context()) {
		handleServiceError(w, r, repository.ErrNotFound)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// AsyncDisabled answers job endpoints when no Redis is configured.
func AsyncDisabled(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusServiceUnavailable, errorResp("ASYNC_DISABLED", "Async runs require REDIS_URL", r))
}
