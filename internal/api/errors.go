package api

import (
	"encoding/json"
	"net/http"

	"github.com/membership-service/internal/errors"
	"github.com/membership-service/internal/logging"
	"github.com/membership-service/internal/types"
)

// ErrorResponse represents an API error response.
type ErrorResponse struct {
	Error types.ServiceError `json:"error"`
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, statusCode int, code, message string, details map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{
		Error: types.ServiceError{
			Code:    code,
			Message: message,
			Details: details,
		},
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.GetGlobalLogger().WithError(err).Error("Failed to encode error response")
	}
}

// respondJSON sends a JSON response.
func respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			logging.GetGlobalLogger().WithError(err).Error("Failed to encode response")
		}
	}
}

// parseJSONBody parses JSON request body.
func parseJSONBody(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// respondServiceError maps a service error to its HTTP status and body.
func respondServiceError(w http.ResponseWriter, err error) {
	status := errors.GetHTTPStatusCode(err)

	if serviceErr, ok := err.(*types.ServiceError); ok {
		respondError(w, status, serviceErr.Code, serviceErr.Message, serviceErr.Details)
		return
	}

	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An internal error occurred", nil)
}
