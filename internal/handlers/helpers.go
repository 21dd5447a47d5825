package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"briefly-backend/internal/models"
	"briefly-backend/internal/repository"
	"briefly-backend/internal/services"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *services.InvalidInputError
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", invalid.Message, r))
	case errors.Is(err, repository.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", "Resource not found", r))
	default:
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "An unexpected error occurred", r))
	}
}

// parseSettings validates the format and detail level pair shared by every
// distill endpoint. Empty values fall back to bullets and detailed.
func parseSettings(format, detail string) (models.SummaryFormat, models.DetailLevel, map[string]string) {
	fields := map[string]string{}

	f, err := models.ParseSummaryFormat(format)
	if err != nil {
		fields["format"] = "must be one of bullets, paragraph, qa"
	}
	d, err := models.ParseDetailLevel(detail)
	if err != nil {
		fields["detail_level"] = "must be one of detailed, simplified"
	}

	if len(fields) > 0 {
		return "", "", fields
	}
	return f, d, nil
}

func queryInt(r *http.Request, name string, def, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
