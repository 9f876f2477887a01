package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"countryvote/internal/middleware"
	apperrors "countryvote/pkg/errors"
)

// respondJSON writes data as a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError writes err as a structured error envelope. AppErrors keep
// their type and status; anything else is rendered as a generic internal
// failure so raw storage or network errors never reach the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		appErr = apperrors.NewInternalError("internal server error", err)
	}

	resp := apperrors.ErrorResponse{}
	resp.Error.Type = appErr.Type
	resp.Error.Message = appErr.Message
	resp.Error.Details = appErr.Details
	resp.Error.Timestamp = time.Now().UTC().Format(time.RFC3339)
	if requestID, ok := r.Context().Value(middleware.RequestIDContextKey).(string); ok {
		resp.Error.RequestID = requestID
	}

	respondJSON(w, appErr.StatusCode, resp)
}
