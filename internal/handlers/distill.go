package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"briefly-backend/internal/middleware"
	"briefly-backend/internal/models"
	"briefly-backend/internal/services"
)

type Distiller interface {
	Classify(text string) models.Topic
	Run(ctx context.Context, text string, format models.SummaryFormat, detail models.DetailLevel, obs services.Observer) (*models.DistillResult, error)
}

type RunCreator interface {
	Create(ctx context.Context, run *models.Run) error
}

type TextExtractor interface {
	ExtractText(filename string, data []byte) (string, error)
}

type TranscriptSource interface {
	Transcript(ctx context.Context, rawURL string) (string, error)
}

type DistillHandler struct {
	pipeline       Distiller
	runs           RunCreator
	publisher      services.Publisher
	files          TextExtractor
	youtube        TranscriptSource
	maxUploadBytes int64
	logger         *zap.Logger
}

// NewDistillHandler wires the synchronous distill endpoints. runs and
// publisher are optional.
func NewDistillHandler(
	pipeline Distiller,
	runs RunCreator,
	publisher services.Publisher,
	files TextExtractor,
	youtube TranscriptSource,
	maxUploadMB int,
	logger *zap.Logger,
) *DistillHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 10
	}
	return &DistillHandler{
		pipeline:       pipeline,
		runs:           runs,
		publisher:      publisher,
		files:          files,
		youtube:        youtube,
		maxUploadBytes: int64(maxUploadMB) << 20,
		logger:         logger,
	}
}

// Classify returns the topic badge for the current text without any backend call.
func (h *DistillHandler) Classify(w http.ResponseWriter, r *http.Request) {
	var req models.ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	writeJSON(w, http.StatusOK, models.ClassifyResponse{Topic: h.pipeline.Classify(req.Text)})
}

func (h *DistillHandler) Distill(w http.ResponseWriter, r *http.Request) {
	var req models.DistillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	h.run(w, r, "text", req.Text, req.Format, req.DetailLevel)
}

func (h *DistillHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength > h.maxUploadBytes {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File exceeds the upload limit", r))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResp("FILE_TOO_LARGE", "File exceeds the upload limit", r))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "No file provided", r))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Failed to read uploaded file", r))
		return
	}

	text, err := h.files.ExtractText(header.Filename, data)
	if err != nil {
		var invalid *services.InvalidInputError
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusUnsupportedMediaType, errorResp("UNSUPPORTED_FORMAT", invalid.Message, r))
			return
		}
		h.logger.Warn("file extraction failed", zap.String("filename", header.Filename), zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("EXTRACTION_FAILED", "Could not read text from the file", r))
		return
	}

	h.run(w, r, "file", text, r.FormValue("format"), r.FormValue("detail_level"))
}

func (h *DistillHandler) YouTube(w http.ResponseWriter, r *http.Request) {
	var req models.YouTubeDistillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed",
			map[string]string{"url": "is required"}, r))
		return
	}

	transcript, err := h.youtube.Transcript(r.Context(), req.URL)
	if err != nil {
		var invalid *services.InvalidInputError
		if errors.As(err, &invalid) {
			writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", invalid.Message, r))
			return
		}
		h.logger.Warn("transcript fetch failed", zap.String("url", req.URL), zap.Error(err))
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("TRANSCRIPT_UNAVAILABLE", "No transcript is available for this video", r))
		return
	}

	h.run(w, r, "youtube", transcript, req.Format, req.DetailLevel)
}

func (h *DistillHandler) run(w http.ResponseWriter, r *http.Request, source, text, format, detail string) {
	f, d, fields := parseSettings(format, detail)
	if fields != nil {
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", fields, r))
		return
	}

	sessionID := middleware.GetSessionID(r.Context())
	obs := services.NewSessionObserver(h.publisher, sessionID, nil)

	result, err := h.pipeline.Run(r.Context(), text, f, d, obs)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	resp := models.DistillResponse{DistillResult: result}
	if h.runs != nil {
		run := models.NewRun(sessionID, source, text, result)
		if err := h.runs.Create(r.Context(), run); err != nil {
			h.logger.Warn("failed to store run", zap.String("session", sessionID), zap.Error(err))
		} else {
			resp.RunID = &run.ID
		}
	}

	services.PublishCompleted(r.Context(), h.publisher, sessionID, nil, resp.RunID, result)
	writeJSON(w, http.StatusOK, resp)
}
