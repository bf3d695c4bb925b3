package api

import (
	"net/http"

	"github.com/membership-service/internal/models"
)

// handleGetProfile returns the caller's profile, creating a default one on
// first access.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required", nil)
		return
	}

	profile, err := s.profileService.Ensure(r.Context(), userID, EmailFromContext(r.Context()))
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// handleUpdateProfile applies a partial profile update.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := UserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Authentication required", nil)
		return
	}

	var patch models.ProfilePatch
	if err := parseJSONBody(r, &patch); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_INPUT", "Invalid request body: "+err.Error(), nil)
		return
	}

	profile, err := s.profileService.Update(r.Context(), userID, patch)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
