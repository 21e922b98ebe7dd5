package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/socialchef/chefvoice/internal/errors"
	"github.com/socialchef/chefvoice/internal/sentry"
)

type errorResponse struct {
	Type               apperrors.ErrorType `json:"type"`
	Message            string              `json:"message"`
	ErrorCode          string              `json:"errorCode"`
	RecoverySuggestion string              `json:"recoverySuggestion,omitempty"`
}

// toAppError normalizes any error into an AppError with an HTTP status.
func toAppError(err error) *apperrors.AppError {
	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		appErr := apperrors.NewInputError("request body is too large", "AUDIO_TOO_LARGE", "Upload a shorter recording.")
		appErr.StatusCode = http.StatusRequestEntityTooLarge
		return appErr
	}
	if appErr, ok := apperrors.As(err); ok {
		return appErr
	}
	return apperrors.NewInternalError("unexpected error", err)
}

func (s *Server) reportError(r *http.Request, appErr *apperrors.AppError) {
	if appErr.StatusCode >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"error", appErr, "error_type", appErr.Type, "error_code", appErr.ErrorCode)
	} else {
		slog.InfoContext(r.Context(), "Request rejected",
			"error", appErr.Message, "error_code", appErr.ErrorCode)
	}
	sentry.CaptureError(r.Context(), appErr)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := toAppError(err)
	s.reportError(r, appErr)
	writeJSON(w, appErr.StatusCode, errorResponse{
		Type:               appErr.Type,
		Message:            appErr.Message,
		ErrorCode:          appErr.ErrorCode,
		RecoverySuggestion: appErr.RecoverySuggestion(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("Failed to encode response", "error", err)
	}
}
