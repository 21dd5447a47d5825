package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type CacheClearer interface {
	ClearCache(ctx context.Context) error
}

type SystemHandler struct {
	cache  CacheClearer
	logger *zap.Logger
}

func NewSystemHandler(cache CacheClearer, logger *zap.Logger) *SystemHandler {
	return &SystemHandler{cache: cache, logger: logger}
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ClearCache drops every memoized summary.
func (h *SystemHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if err := h.cache.ClearCache(r.Context()); err != nil {
		h.logger.Warn("cache clear failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Failed to clear cache", r))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Voice is a placeholder for voice capture; it is not implemented.
func (h *SystemHandler) Voice(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotImplemented, errorResp("NOT_IMPLEMENTED", "Voice input is not available yet", r))
}
