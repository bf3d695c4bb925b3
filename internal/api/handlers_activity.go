package api

import (
	"net/http"
	"strconv"

	"github.com/membership-service/internal/models"
)

// handleListActivity returns the caller's recent audit events, newest
// first. When the audit store is unavailable the listing is empty rather
// than an error.
func (s *Server) handleListActivity(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required", nil)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 500 {
			respondError(w, http.StatusBadRequest, "INVALID_INPUT", "limit must be a positive integer up to 500", nil)
			return
		}
		limit = parsed
	}

	events := []*models.MemberEvent{}
	if s.eventReader != nil {
		listed, err := s.eventReader.ListByUser(r.Context(), userID, limit)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		if listed != nil {
			events = listed
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"events": events})
}
